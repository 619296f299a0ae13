package filters

import (
	"context"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/video-tools-mcp/internal/fft"
	imgtools "github.com/ironsheep/video-tools-mcp/internal/imaging"
	"github.com/ironsheep/video-tools-mcp/internal/temporal"
)

// SpatialFunc transforms a single frame.
type SpatialFunc func(img image.Image) (image.Image, error)

// Spatial applies a SpatialFunc to every frame, one frame in and one frame
// out.
type Spatial struct {
	kind string
	fn   SpatialFunc
}

// NewSpatial wraps fn as a filter named kind.
func NewSpatial(kind string, fn SpatialFunc) *Spatial {
	return &Spatial{kind: kind, fn: fn}
}

// Kind returns the stage type the filter was built for.
func (s *Spatial) Kind() string { return s.kind }

// Config is one frame in, one frame out, forward.
func (s *Spatial) Config() temporal.Config { return temporal.DefaultConfig() }

// TemporalStreamingGenerateData applies the frame function to the window's
// single input frame.
func (s *Spatial) TemporalStreamingGenerateData(_ context.Context, step Step) error {
	in, err := step.Input.Frame(step.InputRegion.FrameStart)
	if err != nil {
		return err
	}
	out, err := s.fn(in)
	if err != nil {
		return fmt.Errorf("%s frame %d: %w", s.kind, step.InputRegion.FrameStart, err)
	}
	step.Output.SetFrame(step.OutputFrameStart, out)
	return nil
}

// Convolution convolves every frame with kernel, given as rows of weights.
// The kernel is normalized when normalize is set.
func Convolution(kernel [][]float64, normalize bool) (*Spatial, error) {
	if len(kernel) == 0 || len(kernel[0]) == 0 {
		return nil, fmt.Errorf("convolution kernel must not be empty")
	}
	height, width := len(kernel), len(kernel[0])
	k := convolution.NewKernel(width, height)
	for y, row := range kernel {
		if len(row) != width {
			return nil, fmt.Errorf("convolution kernel row %d has %d weights, want %d", y, len(row), width)
		}
		for x, w := range row {
			k.Matrix[y*k.Width+x] = w
		}
	}

	var m convolution.Matrix = k
	if normalize {
		m = k.Normalized()
	}
	return NewSpatial("convolution", func(img image.Image) (image.Image, error) {
		return convolution.Convolve(img, m, &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: true}), nil
	}), nil
}

// GaussianBlur blurs every frame with the given standard deviation.
func GaussianBlur(sigma float64) (*Spatial, error) {
	if sigma <= 0 {
		return nil, fmt.Errorf("gaussian blur sigma must be positive, got %g", sigma)
	}
	return NewSpatial("gaussian_blur", func(img image.Image) (image.Image, error) {
		return imaging.Blur(img, sigma), nil
	}), nil
}

// Grayscale converts every frame to luminance.
func Grayscale() *Spatial {
	return NewSpatial("grayscale", func(img image.Image) (image.Image, error) {
		return effect.Grayscale(img), nil
	})
}

// Crop cuts the rectangle (x1, y1)-(x2, y2) out of every frame and scales it.
func Crop(x1, y1, x2, y2 int, scale float64) (*Spatial, error) {
	if x2 <= x1 || y2 <= y1 {
		return nil, fmt.Errorf("invalid crop region: (%d,%d) to (%d,%d)", x1, y1, x2, y2)
	}
	if scale <= 0 {
		scale = 1
	}
	return NewSpatial("crop", func(img image.Image) (image.Image, error) {
		return imgtools.Crop(img, x1, y1, x2, y2, scale)
	}), nil
}

// EdgeDetect runs Canny edge detection on every frame.
func EdgeDetect(low, high int) (*Spatial, error) {
	if low < 0 || high < low {
		return nil, fmt.Errorf("invalid edge thresholds: low %d, high %d", low, high)
	}
	return NewSpatial("edge_detect", func(img image.Image) (image.Image, error) {
		return imgtools.EdgeDetect(img, low, high), nil
	}), nil
}

// FFTLowPass removes spatial frequencies above cutoff (a fraction of
// Nyquist) from the luminance of every frame.
func FFTLowPass(cutoff float64, opts fft.Options) (*Spatial, error) {
	if cutoff <= 0 {
		return nil, fmt.Errorf("fft cutoff must be positive, got %g", cutoff)
	}
	return NewSpatial("fft_lowpass", func(img image.Image) (image.Image, error) {
		spectrum, err := fft.Forward(img, opts)
		if err != nil {
			return nil, err
		}
		return fft.Inverse(spectrum.LowPass(cutoff)), nil
	}), nil
}

// FFTMagnitude replaces every frame with its log-scaled magnitude spectrum.
func FFTMagnitude(opts fft.Options) *Spatial {
	return NewSpatial("fft_magnitude", func(img image.Image) (image.Image, error) {
		spectrum, err := fft.Forward(img, opts)
		if err != nil {
			return nil, err
		}
		return spectrum.Magnitude(), nil
	})
}
