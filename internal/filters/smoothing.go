package filters

import (
	"context"
	"fmt"
	"image"

	"github.com/ironsheep/video-tools-mcp/internal/logging"
	"github.com/ironsheep/video-tools-mcp/internal/temporal"
	"github.com/ironsheep/video-tools-mcp/internal/video"
)

// smoother holds the recursion shared by the forward and backward
// exponential smoothing filters: s = alpha*x + (1-alpha)*s_prev.
//
// The state survives between GenerateData calls as long as each call picks
// up where the previous one stopped. Any other request restarts the
// recursion at its first frame.
type smoother struct {
	alpha   float64
	state   image.Image
	next    int64
	primed  bool
	resumed int
}

func newSmoother(alpha float64) (smoother, error) {
	if alpha <= 0 || alpha > 1 {
		return smoother{}, fmt.Errorf("smoothing factor must be in (0, 1], got %g", alpha)
	}
	return smoother{alpha: alpha}, nil
}

func (s *smoother) begin(ctx context.Context, kind string, first int64) {
	if s.primed && s.next == first {
		s.resumed++
		return
	}
	if s.primed {
		logging.FromContext(ctx).Debugw("Restarting smoothing recursion",
			"filter", kind, "expected", s.next, "got", first)
	}
	s.state = nil
	s.primed = false
}

func (s *smoother) step(frame image.Image) (image.Image, error) {
	if s.state == nil {
		s.state = frame
		return frame, nil
	}
	sum, err := newAccumulator(frame)
	if err != nil {
		return nil, err
	}
	if err := sum.add(frame, s.alpha); err != nil {
		return nil, err
	}
	if err := sum.add(s.state, 1-s.alpha); err != nil {
		return nil, err
	}
	out := sum.image(1)
	s.state = out
	return out, nil
}

func (s *smoother) finish(next int64) {
	s.next = next
	s.primed = s.state != nil
}

// ExponentialSmoothing smooths frames forward in time: output frame t blends
// input frame t with output frame t-1.
type ExponentialSmoothing struct {
	smoother
}

// NewExponentialSmoothing returns a forward smoothing filter with weight
// alpha on the current frame.
func NewExponentialSmoothing(alpha float64) (*ExponentialSmoothing, error) {
	s, err := newSmoother(alpha)
	if err != nil {
		return nil, err
	}
	return &ExponentialSmoothing{smoother: s}, nil
}

// Kind implements Filter.
func (e *ExponentialSmoothing) Kind() string { return "smooth" }

// Config walks forward one frame at a time.
func (e *ExponentialSmoothing) Config() temporal.Config { return temporal.DefaultConfig() }

// BeforeTemporalStreamingGenerateData keeps the recursion state only when
// pending continues where the previous call stopped.
func (e *ExponentialSmoothing) BeforeTemporalStreamingGenerateData(ctx context.Context, _ *video.FrameSequence, pending temporal.Region) error {
	e.begin(ctx, e.Kind(), pending.FrameStart)
	return nil
}

// TemporalStreamingGenerateData folds one frame into the running average.
func (e *ExponentialSmoothing) TemporalStreamingGenerateData(_ context.Context, step Step) error {
	frame, err := step.Input.Frame(step.InputRegion.FrameStart)
	if err != nil {
		return err
	}
	out, err := e.step(frame)
	if err != nil {
		return fmt.Errorf("smooth at frame %d: %w", step.OutputFrameStart, err)
	}
	step.Output.SetFrame(step.OutputFrameStart, out)
	e.next = step.OutputFrameStart + 1
	return nil
}

// AfterTemporalStreamingGenerateData records where the next call may resume.
func (e *ExponentialSmoothing) AfterTemporalStreamingGenerateData(context.Context, *video.FrameSequence) error {
	e.finish(e.next)
	return nil
}

// BackwardSmoothing smooths frames backward in time: output frame t blends
// input frame t with output frame t+1. Its process object walks the request
// from the last frame to the first.
type BackwardSmoothing struct {
	smoother
}

// NewBackwardSmoothing returns a reverse smoothing filter with weight alpha
// on the current frame.
func NewBackwardSmoothing(alpha float64) (*BackwardSmoothing, error) {
	s, err := newSmoother(alpha)
	if err != nil {
		return nil, err
	}
	return &BackwardSmoothing{smoother: s}, nil
}

// Kind implements Filter.
func (b *BackwardSmoothing) Kind() string { return "smooth_backward" }

// Config walks backward one frame at a time.
func (b *BackwardSmoothing) Config() temporal.Config {
	c := temporal.DefaultConfig()
	c.FrameSkipPerOutput = -1
	return c
}

// BeforeTemporalStreamingGenerateData keeps the recursion state only when
// pending ends where the previous call started.
func (b *BackwardSmoothing) BeforeTemporalStreamingGenerateData(ctx context.Context, _ *video.FrameSequence, pending temporal.Region) error {
	b.begin(ctx, b.Kind(), pending.End())
	return nil
}

// TemporalStreamingGenerateData folds one frame into the running average.
func (b *BackwardSmoothing) TemporalStreamingGenerateData(_ context.Context, step Step) error {
	frame, err := step.Input.Frame(step.InputRegion.FrameStart)
	if err != nil {
		return err
	}
	out, err := b.step(frame)
	if err != nil {
		return fmt.Errorf("smooth_backward at frame %d: %w", step.OutputFrameStart, err)
	}
	step.Output.SetFrame(step.OutputFrameStart, out)
	b.next = step.OutputFrameStart
	return nil
}

// AfterTemporalStreamingGenerateData records where the next call may resume.
func (b *BackwardSmoothing) AfterTemporalStreamingGenerateData(context.Context, *video.FrameSequence) error {
	b.finish(b.next)
	return nil
}
