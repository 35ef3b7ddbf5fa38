package yoloprep

// Label overlays for visual inspection.

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Overlay colours and line width.
var (
	boxColor  = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	textColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

const boxThickness = 2

// DrawLabels returns a copy of img with the box and class name of every record drawn on it. The
// boxes are stored in format f.
func DrawLabels(img image.Image, records []LabelRecord, f BoxFormat, names *ClassNames) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Src)

	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	for _, r := range records {
		c := r.Box.Corners(f)
		rect := image.Rect(
			bounds.Min.X+int(c[0]*w), bounds.Min.Y+int(c[1]*h),
			bounds.Min.X+int(c[2]*w), bounds.Min.Y+int(c[3]*h),
		)
		drawRect(dst, rect, boxColor, boxThickness)
		drawText(dst, rect.Min, names.Name(r.ClassID), textColor)
	}

	return dst
}

// drawRect draws the outline of r with the given line thickness, clipped to dst.
func drawRect(dst draw.Image, r image.Rectangle, c color.Color, thickness int) {
	src := image.NewUniform(c)
	r = r.Canon()
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness),
		image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y),
		image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}

// drawText draws s with its baseline at p.
func drawText(dst draw.Image, p image.Point, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(p.X, p.Y),
	}
	d.DrawString(s)
}

// DrawOptions configures DrawCorpus.
type DrawOptions struct {
	ImageDir string
	LabelDir string
	SaveDir  string
	ImageExt string // ".jpg" if empty.
	LabelExt string // ".txt" if empty.
	Format   BoxFormat

	// Names selects the images by base name. IDs selects them by number, formatted as
	// "img%06d". All images of the corpus are drawn if both are empty.
	Names []string
	IDs   []int
}

// ImageName returns the base name used for numeric image id.
func ImageName(id int) string {
	return fmt.Sprintf("img%06d", id)
}

// drawItem is a source base name and the base name of its overlay.
type drawItem struct {
	name, outName string
}

// DrawCorpus renders the label overlays of the selected images into opts.SaveDir. Images selected
// by name keep their base name; images selected by id are saved as the zero-padded id alone
// ("%06d"). Returns the number of images written.
func DrawCorpus(opts DrawOptions, names *ClassNames, sink Sink) (int, error) {
	if opts.SaveDir == "" {
		return 0, configErrorf("a save directory is required")
	}
	imageExt := normalizeExt(opts.ImageExt)
	if imageExt == "" {
		imageExt = ".jpg"
	}
	labelExt := normalizeExt(opts.LabelExt)
	if labelExt == "" {
		labelExt = ".txt"
	}

	selected := make([]drawItem, 0, len(opts.Names)+len(opts.IDs))
	for _, name := range opts.Names {
		selected = append(selected, drawItem{name: name, outName: name})
	}
	for _, id := range opts.IDs {
		if id < 0 {
			return 0, configErrorf("negative image id %d", id)
		}
		selected = append(selected, drawItem{name: ImageName(id), outName: fmt.Sprintf("%06d", id)})
	}
	if len(selected) == 0 {
		c, err := LoadCorpus(opts.ImageDir, imageExt, opts.LabelDir, labelExt)
		if err != nil {
			return 0, err
		}
		for i := 0; i < c.Len(); i++ {
			selected = append(selected, drawItem{name: c.Name(i), outName: c.Name(i)})
		}
	}

	if err := sink.MkdirAll(opts.SaveDir); err != nil {
		return 0, err
	}
	for _, it := range selected {
		records, err := ReadLabelFile(filepath.Join(opts.LabelDir, it.name+labelExt))
		if err != nil {
			return 0, err
		}
		imgPath := filepath.Join(opts.ImageDir, it.name+imageExt)
		img, err := loadImage(imgPath)
		if err != nil {
			return 0, fmt.Errorf("cannot load image %q: %w", imgPath, err)
		}

		out := DrawLabels(img, records, opts.Format, names)
		if err := sink.WriteImage(filepath.Join(opts.SaveDir, it.outName+imageExt), out); err != nil {
			return 0, err
		}
		slog.Debug("Drew labels", "image", it.name, "objects", len(records))
	}

	slog.Info("Drew label overlays", "images", len(selected), "dir", opts.SaveDir)
	return len(selected), nil
}
