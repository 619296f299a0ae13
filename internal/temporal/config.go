package temporal

import (
	"fmt"

	"go.uber.org/multierr"
)

// Config fixes how a process object walks the frame axis.
type Config struct {
	// UnitInputNumberOfFrames is the number of input frames consumed per step.
	UnitInputNumberOfFrames uint64 `mapstructure:"unit_input_frames" yaml:"unit_input_frames"`

	// UnitOutputNumberOfFrames is the number of output frames produced per step.
	UnitOutputNumberOfFrames uint64 `mapstructure:"unit_output_frames" yaml:"unit_output_frames"`

	// FrameSkipPerOutput is the signed distance between the starts of
	// successive input windows. Negative values traverse backwards.
	FrameSkipPerOutput int64 `mapstructure:"frame_skip" yaml:"frame_skip"`

	// InputStencilCurrentFrameIndex is the offset of the "current" frame
	// inside each input window: 0 for causal filters, half the window for
	// centered ones.
	InputStencilCurrentFrameIndex int64 `mapstructure:"stencil_index" yaml:"stencil_index"`
}

// DefaultConfig returns a one-frame-in, one-frame-out forward configuration.
func DefaultConfig() Config {
	return Config{
		UnitInputNumberOfFrames:  1,
		UnitOutputNumberOfFrames: 1,
		FrameSkipPerOutput:       1,
	}
}

// Validate reports every setting the engine cannot stream with.
// A zero frame skip would make every window identical, so it is rejected.
func (c Config) Validate() error {
	var err error
	if c.UnitInputNumberOfFrames == 0 {
		err = multierr.Append(err, fmt.Errorf("%w: unit input number of frames must be positive", ErrInvalidConfig))
	}
	if c.UnitOutputNumberOfFrames == 0 {
		err = multierr.Append(err, fmt.Errorf("%w: unit output number of frames must be positive", ErrInvalidConfig))
	}
	if c.FrameSkipPerOutput == 0 {
		err = multierr.Append(err, fmt.Errorf("%w: frame skip per output must not be zero", ErrInvalidConfig))
	}
	return err
}

// Reverse reports whether windows are visited from the end of a request
// towards its start.
func (c Config) Reverse() bool {
	return c.FrameSkipPerOutput < 0
}

func (c Config) stride() uint64 {
	if c.FrameSkipPerOutput < 0 {
		return uint64(-c.FrameSkipPerOutput)
	}
	return uint64(c.FrameSkipPerOutput)
}

// EnlargeRequest rounds r's duration up to a whole number of output units.
func (c Config) EnlargeRequest(r Region) Region {
	if rem := r.FrameDuration % c.UnitOutputNumberOfFrames; rem > 0 {
		r.FrameDuration += c.UnitOutputNumberOfFrames - rem
	}
	return r
}

// InputRequest returns the input span needed to produce output. A request
// that would start before frame 0 fails with ErrInvalidRegion; it is never
// clamped.
func (c Config) InputRequest(output Region) (Region, error) {
	requests := ceilDiv(output.FrameDuration, c.UnitOutputNumberOfFrames)
	start := output.FrameStart - c.InputStencilCurrentFrameIndex
	if start < 0 {
		return Region{}, regionError("GenerateInputRequestedTemporalRegion", Region{FrameStart: start},
			fmt.Errorf("%w: cannot request a region with a starting frame of %d", ErrInvalidRegion, start))
	}

	var duration uint64
	if requests > 0 {
		duration = c.stride()*(requests-1) + c.UnitInputNumberOfFrames
	}
	return NewRegion(start, duration), nil
}

// OutputLargest returns the largest output region producible from an input
// whose largest possible region is input.
func (c Config) OutputLargest(input Region) Region {
	scannable := int64(input.FrameDuration) - int64(c.UnitInputNumberOfFrames) + 1

	var duration uint64
	if scannable > 0 {
		steps := uint64(scannable-1)/c.stride() + 1
		duration = c.UnitOutputNumberOfFrames * steps
	}
	return NewRegion(input.FrameStart+c.InputStencilCurrentFrameIndex, duration)
}

// SplitRegion partitions an unbuffered output region into unit windows of
// UnitInputNumberOfFrames frames, in processing order. Forward traversal
// starts at the region start; reverse traversal starts at the last output
// unit. Successive starts move by FrameSkipPerOutput and are not clamped.
//
// Windows are expressed on the output frame axis; InputWindow maps one onto
// the input frames a step reads.
func (c Config) SplitRegion(unbuffered Region) []Region {
	requests := ceilDiv(unbuffered.FrameDuration, c.UnitOutputNumberOfFrames)
	if requests == 0 || c.FrameSkipPerOutput == 0 {
		return nil
	}

	start := unbuffered.FrameStart
	if c.Reverse() {
		start = unbuffered.End() - int64(c.UnitOutputNumberOfFrames)
	}

	windows := make([]Region, 0, requests)
	for i := uint64(0); i < requests; i++ {
		windows = append(windows, NewRegion(start, c.UnitInputNumberOfFrames))
		start += c.FrameSkipPerOutput
	}
	return windows
}

// InputWindow returns the input frames read for a window produced by
// SplitRegion: the window moved back by InputStencilCurrentFrameIndex, the
// same alignment InputRequest applies to the whole request.
func (c Config) InputWindow(window Region) Region {
	return NewRegion(window.FrameStart-c.InputStencilCurrentFrameIndex, window.FrameDuration)
}

func ceilDiv(n, d uint64) uint64 {
	if d == 0 {
		return 0
	}
	return (n + d - 1) / d
}
