package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor is an 8-bit straight (non-premultiplied) RGB color.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBAColor is RGBColor with its alpha channel.
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// HSLColor holds hue in degrees [0, 360) and saturation and lightness in
// percent.
type HSLColor struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// LabColor is a CIE L*a*b* color (D65), L in [0, 1].
type LabColor struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// ColorResult is one pixel in every representation the tools report. Hex is
// "#RRGGBB" and carries no alpha.
type ColorResult struct {
	Hex  string    `json:"hex"`
	RGB  RGBColor  `json:"rgb"`
	RGBA RGBAColor `json:"rgba"`
	HSL  HSLColor  `json:"hsl"`
	Lab  LabColor  `json:"lab"`
}

// DescribeColor converts c into a ColorResult.
func DescribeColor(c color.Color) ColorResult {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	straight := colorful.Color{R: float64(n.R) / 255, G: float64(n.G) / 255, B: float64(n.B) / 255}
	l, a, b := straight.Lab()

	return ColorResult{
		Hex:  strings.ToUpper(straight.Hex()),
		RGB:  RGBColor{R: n.R, G: n.G, B: n.B},
		RGBA: RGBAColor{R: n.R, G: n.G, B: n.B, A: n.A},
		HSL:  rgbToHSL(n.R, n.G, n.B),
		Lab:  LabColor{L: l, A: a, B: b},
	}
}

// SampleColor returns the color of the pixel at (x, y), in the image's own
// coordinate space.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %v", x, y, img.Bounds())
	}
	result := DescribeColor(img.At(x, y))
	return &result, nil
}

// LabDistance returns the CIE L*a*b* distance between two colors. Identical
// colors are 0 apart; black and white are about 1 apart. Fully transparent
// colors are compared by their premultiplied components.
func LabDistance(a, b color.Color) float64 {
	ca, _ := colorful.MakeColor(a)
	cb, _ := colorful.MakeColor(b)
	return ca.DistanceLab(cb)
}

func rgbToHSL(r, g, b uint8) HSLColor {
	c := colorful.Color{R: float64(r) / 255.0, G: float64(g) / 255.0, B: float64(b) / 255.0}
	h, s, l := c.Hsl()
	return HSLColor{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}
