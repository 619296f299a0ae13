package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Crop cuts the rectangle (x1,y1)-(x2,y2), max exclusive, out of img and
// rebases it at the origin. A scale other than 1 resizes the cut with a
// Lanczos filter; non-positive scales leave it unscaled.
func Crop(img image.Image, x1, y1, x2, y2 int, scale float64) (image.Image, error) {
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region (%d,%d)-(%d,%d): x1 must be < x2 and y1 < y2", x1, y1, x2, y2)
	}
	rect := image.Rect(x1, y1, x2, y2)
	if !rect.In(img.Bounds()) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", rect, img.Bounds())
	}

	cropped := imaging.Crop(img, rect)
	if scale <= 0 || scale == 1 {
		return cropped, nil
	}
	w := int(float64(rect.Dx()) * scale)
	h := int(float64(rect.Dy()) * scale)
	return imaging.Resize(cropped, w, h, imaging.Lanczos), nil
}
