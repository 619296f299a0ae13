package temporal

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/video-tools-mcp/internal/logging"
)

// intSequence is a temporal data object whose frames are plain ints.
type intSequence struct {
	TemporalData
	frames map[int64]int
}

func newIntSequence() *intSequence {
	return &intSequence{frames: make(map[int64]int)}
}

func (s *intSequence) Kind() string { return "int-sequence" }

func (s *intSequence) SetBufferedTemporalRegion(r Region) {
	s.TemporalData.SetBufferedTemporalRegion(r)
	for f := range s.frames {
		if !r.ContainsFrame(f) {
			delete(s.frames, f)
		}
	}
}

func (s *intSequence) UpdateOutputData(ctx context.Context) error {
	return UpdateOutputData(ctx, s, s.Source())
}

// rangeSource produces frame i with value i for i in [0, length).
type rangeSource struct {
	out    *intSequence
	length int64
	loads  map[int64]int
}

func newRangeSource(length int64) *rangeSource {
	src := &rangeSource{out: newIntSequence(), length: length, loads: make(map[int64]int)}
	src.out.SetSource(src)
	return src
}

func (r *rangeSource) UpdateOutputInformation(context.Context) error {
	r.out.SetLargestPossibleTemporalRegion(NewRegion(0, uint64(r.length)))
	return nil
}

func (r *rangeSource) UpdateOutputData(context.Context) error {
	req := r.out.RequestedTemporalRegion()
	if !NewRegion(0, uint64(r.length)).Contains(req) {
		return regionError("rangeSource", req, ErrRegionNotBuffered)
	}
	pending := r.out.UnbufferedRequestedTemporalRegion()
	for f := pending.FrameStart; f < pending.End(); f++ {
		r.out.frames[f] = int(f)
		r.loads[f]++
	}
	r.out.SetBufferedTemporalRegion(req)
	return nil
}

// sumStage writes the sum of the input window to the single output frame.
func sumStage() Stage[*intSequence, *intSequence] {
	return StageFunc[*intSequence, *intSequence](func(_ context.Context, step StreamingStep[*intSequence, *intSequence]) error {
		total := 0
		for f := step.InputRegion.FrameStart; f < step.InputRegion.End(); f++ {
			v, ok := step.Input.frames[f]
			if !ok {
				return fmt.Errorf("frame %d not buffered", f)
			}
			total += v
		}
		step.Output.frames[step.OutputFrameStart] = total
		return nil
	})
}

// diffStage writes last-minus-first of a two frame window.
func diffStage() Stage[*intSequence, *intSequence] {
	return StageFunc[*intSequence, *intSequence](func(_ context.Context, step StreamingStep[*intSequence, *intSequence]) error {
		first := step.Input.frames[step.InputRegion.FrameStart]
		last := step.Input.frames[step.InputRegion.End()-1]
		step.Output.frames[step.OutputFrameStart] = last - first
		return nil
	})
}

// recordingStage copies input frames and records hook calls and output
// frame starts in order.
type recordingStage struct {
	before, after int
	pending       []Region
	starts        []int64
}

func (r *recordingStage) BeforeTemporalStreamingGenerateData(_ context.Context, _ *intSequence, pending Region) error {
	r.before++
	r.pending = append(r.pending, pending)
	return nil
}

func (r *recordingStage) AfterTemporalStreamingGenerateData(context.Context, *intSequence) error {
	r.after++
	return nil
}

func (r *recordingStage) TemporalStreamingGenerateData(_ context.Context, step StreamingStep[*intSequence, *intSequence]) error {
	r.starts = append(r.starts, step.OutputFrameStart)
	for i := int64(0); i < int64(step.InputRegion.FrameDuration); i++ {
		step.Output.frames[step.OutputFrameStart+i] = step.Input.frames[step.InputRegion.FrameStart+i]
	}
	return nil
}

func testContext() context.Context {
	return logging.WithLogger(context.Background(), zap.NewNop().Sugar())
}
