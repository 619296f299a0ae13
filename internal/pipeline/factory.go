package pipeline

import (
	"fmt"

	"github.com/ironsheep/video-tools-mcp/internal/config"
	"github.com/ironsheep/video-tools-mcp/internal/fft"
	"github.com/ironsheep/video-tools-mcp/internal/filters"
)

// NewFilter creates the filter a stage definition describes.
func NewFilter(s config.StageConfig) (filters.Filter, error) {
	switch s.Type {
	case config.StageDifference:
		return filters.NewDifference(filters.DifferenceMode(s.Mode))
	case config.StageMean:
		return filters.NewMean(s.Frames)
	case config.StageSmooth:
		return filters.NewExponentialSmoothing(s.Alpha)
	case config.StageSmoothBackward:
		return filters.NewBackwardSmoothing(s.Alpha)
	case config.StageGaussianBlur:
		return filters.GaussianBlur(s.Sigma)
	case config.StageGrayscale:
		return filters.Grayscale(), nil
	case config.StageConvolution:
		return filters.Convolution(s.Kernel, s.Normalize)
	case config.StageCrop:
		if len(s.Rect) != 4 {
			return nil, fmt.Errorf("crop requires rect [x1, y1, x2, y2], got %v", s.Rect)
		}
		return filters.Crop(s.Rect[0], s.Rect[1], s.Rect[2], s.Rect[3], s.Scale)
	case config.StageEdgeDetect:
		low, high := s.Low, s.High
		if low == 0 && high == 0 {
			low, high = 50, 150
		}
		return filters.EdgeDetect(low, high)
	case config.StageFFTLowPass:
		return filters.FFTLowPass(s.Cutoff, fft.Options{Strict: s.Strict})
	case config.StageFFTMagnitude:
		return filters.FFTMagnitude(fft.Options{Strict: s.Strict}), nil
	default:
		return nil, fmt.Errorf("unknown stage type %q", s.Type)
	}
}
