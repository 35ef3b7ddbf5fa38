package yoloprep

import (
	"fmt"
	"strings"
)

// ClassNames is the ordered class table of a dataset. The position of a name is its class index.
type ClassNames struct {
	names []string
	ids   map[string]int
}

// NewClassNames builds a table from names. Duplicate names are an error.
func NewClassNames(names []string) (*ClassNames, error) {
	c := &ClassNames{
		names: make([]string, 0, len(names)),
		ids:   make(map[string]int, len(names)),
	}
	for _, n := range names {
		if _, dup := c.ids[n]; dup {
			return nil, fmt.Errorf("duplicate class name %q", n)
		}
		c.ids[n] = len(c.names)
		c.names = append(c.names, n)
	}
	return c, nil
}

// LoadNames reads a names file: one class name per line, surrounding white space trimmed, blank
// lines ignored.
func LoadNames(path string) (*ClassNames, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}

	c, err := NewClassNames(names)
	if err != nil {
		return nil, fmt.Errorf("invalid names file %q: %w", path, err)
	}
	return c, nil
}

// ID returns the class index of name.
func (c *ClassNames) ID(name string) (int, bool) {
	if c == nil {
		return 0, false
	}
	id, ok := c.ids[name]
	return id, ok
}

// Name returns the name of class id, or the decimal id if the table has no such class.
func (c *ClassNames) Name(id int) string {
	if c == nil || id < 0 || id >= len(c.names) {
		return fmt.Sprint(id)
	}
	return c.names[id]
}

// Names returns a copy of the table.
func (c *ClassNames) Names() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.names...)
}

// Len returns the number of classes.
func (c *ClassNames) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}
