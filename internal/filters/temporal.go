package filters

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"

	imgtools "github.com/ironsheep/video-tools-mcp/internal/imaging"
	"github.com/ironsheep/video-tools-mcp/internal/temporal"
)

// DifferenceMode selects how two frames are compared.
type DifferenceMode string

const (
	// DifferenceRGB takes the per-channel absolute difference.
	DifferenceRGB DifferenceMode = "rgb"

	// DifferenceLab renders the CIE Lab distance of each pixel as gray.
	DifferenceLab DifferenceMode = "lab"
)

// Difference compares every frame with the one before it. Output frame t is
// the difference of input frames t-1 and t, so the output starts one frame
// after the input.
type Difference struct {
	mode DifferenceMode
}

// NewDifference returns a Difference filter. An empty mode selects RGB.
func NewDifference(mode DifferenceMode) (*Difference, error) {
	switch mode {
	case "":
		mode = DifferenceRGB
	case DifferenceRGB, DifferenceLab:
	default:
		return nil, fmt.Errorf("unknown difference mode %q", mode)
	}
	return &Difference{mode: mode}, nil
}

// Kind implements Filter.
func (d *Difference) Kind() string { return "difference" }

// Config reads two frames per output, the current frame being the later one.
func (d *Difference) Config() temporal.Config {
	return temporal.Config{
		UnitInputNumberOfFrames:       2,
		UnitOutputNumberOfFrames:      1,
		FrameSkipPerOutput:            1,
		InputStencilCurrentFrameIndex: 1,
	}
}

// TemporalStreamingGenerateData writes the difference of the window's two
// frames.
func (d *Difference) TemporalStreamingGenerateData(_ context.Context, step Step) error {
	frames, err := step.Input.Frames(step.InputRegion)
	if err != nil {
		return err
	}
	prev, cur := frames[0], frames[1]
	if prev.Bounds().Size() != cur.Bounds().Size() {
		return fmt.Errorf("difference at frame %d: size %v differs from %v",
			step.OutputFrameStart, cur.Bounds().Size(), prev.Bounds().Size())
	}

	if d.mode == DifferenceLab {
		step.Output.SetFrame(step.OutputFrameStart, labDifference(prev, cur))
		return nil
	}
	step.Output.SetFrame(step.OutputFrameStart, blend.Difference(prev, cur))
	return nil
}

func labDifference(a, b image.Image) *image.Gray {
	ab, bb := a.Bounds(), b.Bounds()
	out := image.NewGray(image.Rect(0, 0, ab.Dx(), ab.Dy()))
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			dist := imgtools.LabDistance(a.At(ab.Min.X+x, ab.Min.Y+y), b.At(bb.Min.X+x, bb.Min.Y+y))
			out.SetGray(x, y, color.Gray{Y: toByte(255 * dist)})
		}
	}
	return out
}

// Mean averages a centered window of frames. Output frame t is the mean of
// input frames t-N/2 through t-N/2+N-1.
type Mean struct {
	frames uint64
}

// NewMean returns a Mean filter over windows of n frames.
func NewMean(n uint64) (*Mean, error) {
	if n == 0 {
		return nil, fmt.Errorf("mean window must hold at least one frame")
	}
	return &Mean{frames: n}, nil
}

// Kind implements Filter.
func (m *Mean) Kind() string { return "mean" }

// Config reads a window of Frames frames centered on the output frame.
func (m *Mean) Config() temporal.Config {
	return temporal.Config{
		UnitInputNumberOfFrames:       m.frames,
		UnitOutputNumberOfFrames:      1,
		FrameSkipPerOutput:            1,
		InputStencilCurrentFrameIndex: int64(m.frames / 2),
	}
}

// TemporalStreamingGenerateData writes the average of the window.
func (m *Mean) TemporalStreamingGenerateData(_ context.Context, step Step) error {
	frames, err := step.Input.Frames(step.InputRegion)
	if err != nil {
		return err
	}
	sum, err := newAccumulator(frames[0])
	if err != nil {
		return err
	}
	for _, f := range frames {
		if err := sum.add(f, 1); err != nil {
			return fmt.Errorf("mean at frame %d: %w", step.OutputFrameStart, err)
		}
	}
	step.Output.SetFrame(step.OutputFrameStart, sum.image(1/float64(len(frames))))
	return nil
}

// accumulator sums NRGBA pixels of equally sized frames in float64.
type accumulator struct {
	size image.Point
	acc  []float64
}

func newAccumulator(like image.Image) (*accumulator, error) {
	size := like.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		return nil, fmt.Errorf("empty frame")
	}
	return &accumulator{size: size, acc: make([]float64, size.X*size.Y*4)}, nil
}

func (a *accumulator) add(img image.Image, weight float64) error {
	if img.Bounds().Size() != a.size {
		return fmt.Errorf("frame size %v differs from %v", img.Bounds().Size(), a.size)
	}
	n := imaging.Clone(img)
	for y := 0; y < a.size.Y; y++ {
		row := n.Pix[y*n.Stride : y*n.Stride+a.size.X*4]
		for i, v := range row {
			a.acc[y*a.size.X*4+i] += weight * float64(v)
		}
	}
	return nil
}

func (a *accumulator) image(scale float64) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, a.size.X, a.size.Y))
	for i, v := range a.acc {
		out.Pix[i] = toByte(v * scale)
	}
	return out
}

func toByte(v float64) uint8 {
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
