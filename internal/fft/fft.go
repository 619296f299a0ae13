// Package fft computes two-dimensional discrete Fourier transforms of frames.
//
// The transform itself is gonum's dsp/fourier; this package arranges the row
// and column passes, converts between images and spectra and offers a
// frequency-domain low-pass filter.
package fft

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// ErrIllegalSize is returned in strict mode for dimensions that are not a
// product of 2, 3 and 5.
var ErrIllegalSize = errors.New("dimension size is not a product of 2, 3 and 5")

// Options controls the forward transform.
type Options struct {
	// Strict rejects frames whose width or height fails IsDimensionSizeLegal.
	Strict bool
}

// Spectrum is the row-major complex spectrum of a Width x Height frame.
type Spectrum struct {
	Width  int
	Height int
	Data   []complex128
}

// At returns the coefficient at column u, row v.
func (s *Spectrum) At(u, v int) complex128 {
	return s.Data[v*s.Width+u]
}

// IsDimensionSizeLegal reports whether n factors completely into 2, 3 and 5.
func IsDimensionSizeLegal(n int) bool {
	if n <= 0 {
		return false
	}
	for _, f := range []int{2, 3, 5} {
		for n%f == 0 {
			n /= f
		}
	}
	return n == 1
}

// Forward transforms the luminance of img.
func Forward(img image.Image, opts Options) (*Spectrum, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("cannot transform empty image %v", bounds)
	}
	if opts.Strict && (!IsDimensionSizeLegal(w) || !IsDimensionSizeLegal(h)) {
		return nil, fmt.Errorf("size %dx%d: %w", w, h, ErrIllegalSize)
	}

	s := &Spectrum{Width: w, Height: h, Data: make([]complex128, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			s.Data[y*w+x] = complex(float64(g.Y), 0)
		}
	}
	transform2D(s, false)
	return s, nil
}

// Inverse transforms s back to a gray image, clamping to [0, 255].
func Inverse(s *Spectrum) *image.Gray {
	work := s.clone()
	transform2D(work, true)

	n := float64(s.Width * s.Height)
	out := image.NewGray(image.Rect(0, 0, s.Width, s.Height))
	for i, c := range work.Data {
		out.Pix[i] = clampByte(real(c) / n)
	}
	return out
}

// LowPass returns a copy of s with every coefficient whose normalized radial
// frequency exceeds cutoff set to zero. cutoff is a fraction of the Nyquist
// frequency; math.Sqrt2 or more keeps every coefficient.
func (s *Spectrum) LowPass(cutoff float64) *Spectrum {
	out := s.clone()
	for v := 0; v < s.Height; v++ {
		fy := normalizedFrequency(v, s.Height)
		for u := 0; u < s.Width; u++ {
			fx := normalizedFrequency(u, s.Width)
			if math.Hypot(fx, fy) > cutoff {
				out.Data[v*s.Width+u] = 0
			}
		}
	}
	return out
}

// Magnitude renders log(1+|c|) scaled to [0, 255] with the zero frequency at
// the center of the image.
func (s *Spectrum) Magnitude() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, s.Width, s.Height))
	logs := make([]float64, len(s.Data))
	peak := 0.0
	for i, c := range s.Data {
		logs[i] = math.Log1p(cmplx.Abs(c))
		peak = math.Max(peak, logs[i])
	}
	if peak == 0 {
		return out
	}
	for v := 0; v < s.Height; v++ {
		for u := 0; u < s.Width; u++ {
			x := (u + s.Width/2) % s.Width
			y := (v + s.Height/2) % s.Height
			out.Pix[y*out.Stride+x] = clampByte(255 * logs[v*s.Width+u] / peak)
		}
	}
	return out
}

func (s *Spectrum) clone() *Spectrum {
	return &Spectrum{Width: s.Width, Height: s.Height, Data: append([]complex128(nil), s.Data...)}
}

// transform2D runs unnormalized 1-D transforms over rows then columns, in
// place.
func transform2D(s *Spectrum, inverse bool) {
	apply := func(fft *fourier.CmplxFFT, dst, src []complex128) []complex128 {
		if inverse {
			return fft.Sequence(dst, src)
		}
		return fft.Coefficients(dst, src)
	}

	rowFFT := fourier.NewCmplxFFT(s.Width)
	row := make([]complex128, s.Width)
	for y := 0; y < s.Height; y++ {
		line := s.Data[y*s.Width : (y+1)*s.Width]
		copy(row, line)
		apply(rowFFT, line, row)
	}

	colFFT := fourier.NewCmplxFFT(s.Height)
	col := make([]complex128, s.Height)
	res := make([]complex128, s.Height)
	for x := 0; x < s.Width; x++ {
		for y := 0; y < s.Height; y++ {
			col[y] = s.Data[y*s.Width+x]
		}
		apply(colFFT, res, col)
		for y := 0; y < s.Height; y++ {
			s.Data[y*s.Width+x] = res[y]
		}
	}
}

// normalizedFrequency maps DFT index k of an n-point transform to a signed
// frequency in [-1, 1], 1 being Nyquist.
func normalizedFrequency(k, n int) float64 {
	if n < 2 {
		return 0
	}
	if k > n/2 {
		k -= n
	}
	return float64(k) / (float64(n) / 2)
}

func clampByte(v float64) uint8 {
	v = math.Round(v)
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
