package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
)

// edgeBlurRadius is the Gaussian radius applied before differentiation.
const edgeBlurRadius = 1.4

// EdgeDetect runs Canny edge detection on img.
//
// The result has the bounds of img; edge pixels are 255 and everything else
// is 0. Gradient magnitudes are measured on luminance in [0, 1] scaled to
// [0, 255], so thresholdLow and thresholdHigh share the range of 8-bit
// pixel values (typical values: 50 and 150). Pixels at or above
// thresholdHigh seed edges; pixels at or above thresholdLow extend an edge
// they are connected to.
func EdgeDetect(img image.Image, thresholdLow, thresholdHigh int) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(bounds)
	if bounds.Dx() < 3 || bounds.Dy() < 3 {
		return out
	}

	lum := luminance(blur.Gaussian(img, edgeBlurRadius))
	mag, sector := lum.sobel()
	thin := mag.suppressNonMaxima(sector)

	for _, p := range thin.hysteresis(float64(thresholdLow)/255, float64(thresholdHigh)/255) {
		out.SetGray(bounds.Min.X+p.X, bounds.Min.Y+p.Y, color.Gray{Y: 255})
	}
	return out
}

// field is a row-major grid of samples with replicated borders.
type field struct {
	w, h int
	v    []float64
}

func newField(w, h int) field {
	return field{w: w, h: h, v: make([]float64, w*h)}
}

func (f field) at(x, y int) float64 {
	return f.v[clamp(y, 0, f.h-1)*f.w+clamp(x, 0, f.w-1)]
}

// luminance converts img to BT.601 luma in [0, 1].
func luminance(img *image.RGBA) field {
	b := img.Bounds()
	f := newField(b.Dx(), b.Dy())
	for y := 0; y < f.h; y++ {
		for x := 0; x < f.w; x++ {
			c := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
			f.v[y*f.w+x] = (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
		}
	}
	return f
}

// sobel returns the gradient magnitude and its direction quantized to one of
// four sectors: 0 horizontal, 1 rising diagonal, 2 vertical, 3 falling
// diagonal.
func (f field) sobel() (field, []uint8) {
	mag := newField(f.w, f.h)
	sector := make([]uint8, f.w*f.h)
	for y := 0; y < f.h; y++ {
		for x := 0; x < f.w; x++ {
			gx := f.at(x+1, y-1) + 2*f.at(x+1, y) + f.at(x+1, y+1) -
				f.at(x-1, y-1) - 2*f.at(x-1, y) - f.at(x-1, y+1)
			gy := f.at(x-1, y+1) + 2*f.at(x, y+1) + f.at(x+1, y+1) -
				f.at(x-1, y-1) - 2*f.at(x, y-1) - f.at(x+1, y-1)

			i := y*f.w + x
			mag.v[i] = math.Hypot(gx, gy)

			angle := math.Atan2(gy, gx)
			if angle < 0 {
				angle += math.Pi
			}
			sector[i] = uint8(math.Floor(angle/(math.Pi/4)+0.5)) % 4
		}
	}
	return mag, sector
}

// sectorStep is the neighbour offset along the gradient for each sector.
var sectorStep = [4]image.Point{{1, 0}, {1, 1}, {0, 1}, {-1, 1}}

// suppressNonMaxima keeps only pixels that are maximal along their gradient
// direction. The outermost ring is dropped.
func (f field) suppressNonMaxima(sector []uint8) field {
	thin := newField(f.w, f.h)
	for y := 1; y < f.h-1; y++ {
		for x := 1; x < f.w-1; x++ {
			i := y*f.w + x
			d := sectorStep[sector[i]]
			m := f.v[i]
			if m > 0 && m >= f.at(x+d.X, y+d.Y) && m >= f.at(x-d.X, y-d.Y) {
				thin.v[i] = m
			}
		}
	}
	return thin
}

// hysteresis returns every pixel connected through pixels >= low to a pixel
// >= high.
func (f field) hysteresis(low, high float64) []image.Point {
	state := make([]uint8, len(f.v)) // 0 unvisited, 1 edge
	var stack, edges []image.Point

	for i, m := range f.v {
		if m >= high && m > 0 {
			state[i] = 1
			stack = append(stack, image.Pt(i%f.w, i/f.w))
		}
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		edges = append(edges, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				x, y := p.X+dx, p.Y+dy
				if x < 0 || y < 0 || x >= f.w || y >= f.h {
					continue
				}
				j := y*f.w + x
				if state[j] == 0 && f.v[j] >= low && f.v[j] > 0 {
					state[j] = 1
					stack = append(stack, image.Pt(x, y))
				}
			}
		}
	}
	return edges
}

// clamp constrains val to [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
