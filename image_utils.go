package yoloprep

import (
	"image"
	"os"

	"github.com/disintegration/imaging"
)

// resizeSquare resamples img to size x size pixels. The filter is selected based on the direction
// of the rescaling operation.
func resizeSquare(img image.Image, size int, downsamplingFilter,
	upsamplingFilter imaging.ResampleFilter) image.Image {

	bounds := img.Bounds()
	filter := upsamplingFilter
	if size*size < bounds.Dx()*bounds.Dy() {
		filter = downsamplingFilter
	}
	return imaging.Resize(img, size, size, filter)
}

// resampleFilter returns the imaging filter with the given name.
func resampleFilter(name string) (imaging.ResampleFilter, error) {
	switch name {
	case "nearest":
		return imaging.NearestNeighbor, nil
	case "box":
		return imaging.Box, nil
	case "linear":
		return imaging.Linear, nil
	case "gaussian":
		return imaging.Gaussian, nil
	case "lanczos":
		return imaging.Lanczos, nil
	}
	return imaging.ResampleFilter{}, configErrorf("unknown resampling filter %q", name)
}

// decodeImageConfig opens the file at path and returns the results of image.DecodeConfig.
func decodeImageConfig(path string) (config image.Config, format string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer file.Close()

	return image.DecodeConfig(file)
}

// loadImage reads and decodes the image at path, applying any EXIF orientation.
func loadImage(path string) (image.Image, error) {
	return imaging.Open(path, imaging.AutoOrientation(true))
}

// saveImage saves the image to path, encoding it according to the file extension of path.
func saveImage(path string, img image.Image, jpegQuality int) error {
	return imaging.Save(img, path, imaging.JPEGQuality(jpegQuality))
}
