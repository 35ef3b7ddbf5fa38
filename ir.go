package yoloprep

// The intermediate label representation shared by all tools.

import (
	"fmt"
	"strings"
)

// BoxFormat names the anchor convention of a normalised bounding box.
type BoxFormat int

// The known box conventions.
const (
	// Corner is (x_min, y_min, width, height), the "yolo" convention.
	Corner BoxFormat = iota
	// Center is (x_center, y_center, width, height), the "yolov6" convention.
	Center
)

func (f BoxFormat) String() string {
	switch f {
	case Corner:
		return "yolo"
	case Center:
		return "yolov6"
	}
	return fmt.Sprintf("BoxFormat(%d)", int(f))
}

// ParseBoxFormat accepts "yolo"/"corner" and "yolov6"/"center".
func ParseBoxFormat(s string) (BoxFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yolo", "corner":
		return Corner, nil
	case "yolov6", "center":
		return Center, nil
	}
	return 0, configErrorf("unknown box format %q", s)
}

// Direction is a box conversion between the two conventions.
type Direction struct {
	From, To BoxFormat
}

// The two conversions offered by the convert tool.
var (
	CornerToCenter = Direction{From: Corner, To: Center}
	CenterToCorner = Direction{From: Center, To: Corner}
)

func (d Direction) String() string {
	return d.From.String() + " -> " + d.To.String()
}

// ParseDirection parses "yolo -> yolov6" style strings; "yolo:yolov6" is accepted as well.
func ParseDirection(s string) (Direction, error) {
	var parts []string
	for _, sep := range []string{"->", ":"} {
		if p := strings.SplitN(s, sep, 2); len(p) == 2 {
			parts = p
			break
		}
	}
	if parts == nil {
		return Direction{}, configErrorf("invalid conversion %q, expected e.g. \"yolo -> yolov6\"", s)
	}

	from, err := ParseBoxFormat(parts[0])
	if err != nil {
		return Direction{}, err
	}
	to, err := ParseBoxFormat(parts[1])
	if err != nil {
		return Direction{}, err
	}
	if from == to {
		return Direction{}, configErrorf("conversion %q does not change the format", s)
	}
	return Direction{From: from, To: to}, nil
}

// BoundingBox is a box normalised to [0, 1] of the image size. The meaning of X and Y depends on
// the BoxFormat it is stored in.
type BoundingBox struct {
	X, Y          float64
	Width, Height float64
}

// LabelRecord is one labelled object.
type LabelRecord struct {
	ClassID int
	Box     BoundingBox
}

// Convert re-anchors the record's box. Width and height are never changed.
func Convert(r LabelRecord, d Direction) LabelRecord {
	switch {
	case d.From == Corner && d.To == Center:
		r.Box.X += r.Box.Width / 2
		r.Box.Y += r.Box.Height / 2
	case d.From == Center && d.To == Corner:
		r.Box.X -= r.Box.Width / 2
		r.Box.Y -= r.Box.Height / 2
	}
	return r
}

// ConvertAll converts records in place, preserving their order.
func ConvertAll(records []LabelRecord, d Direction) {
	for i := range records {
		records[i] = Convert(records[i], d)
	}
}

// Corners returns the normalised (x1, y1, x2, y2) corners of a box stored in format f.
func (b BoundingBox) Corners(f BoxFormat) [4]float64 {
	x, y := b.X, b.Y
	if f == Center {
		x -= b.Width / 2
		y -= b.Height / 2
	}
	return [4]float64{x, y, x + b.Width, y + b.Height}
}
