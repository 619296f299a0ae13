package temporal

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/video-tools-mcp/internal/logging"
	"github.com/ironsheep/video-tools-mcp/internal/metrics"
)

// State is the externally visible phase of a process object.
type State int

const (
	// StateIdle is the state between updates.
	StateIdle State = iota
	// StateInformationPropagated follows UpdateOutputInformation until data
	// generation starts.
	StateInformationPropagated
	// StateStreaming lasts while GenerateData walks the windows.
	StateStreaming
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInformationPropagated:
		return "information-propagated"
	case StateStreaming:
		return "streaming"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// StreamingStep is handed to a Stage once per unit window. The input's
// buffered region covers InputRegion when the stage runs.
type StreamingStep[In, Out TemporalDataObject] struct {
	Input  In
	Output Out

	// Window is the split window on the output frame axis.
	Window Region

	// InputRegion is Window aligned by the input stencil index: the input
	// frames the stage reads.
	InputRegion Region

	// OutputFrameStart is the first of UnitOutputNumberOfFrames frames the
	// stage must write to Output.
	OutputFrameStart int64

	// Index counts steps in processing order within one GenerateData call.
	Index int
	Count int
}

// Stage is the per-window computation of a process object.
type Stage[In, Out TemporalDataObject] interface {
	TemporalStreamingGenerateData(ctx context.Context, step StreamingStep[In, Out]) error
}

// StageFunc adapts a function to the Stage interface.
type StageFunc[In, Out TemporalDataObject] func(ctx context.Context, step StreamingStep[In, Out]) error

// TemporalStreamingGenerateData calls f(ctx, step).
func (f StageFunc[In, Out]) TemporalStreamingGenerateData(ctx context.Context, step StreamingStep[In, Out]) error {
	return f(ctx, step)
}

// BeforeStreamer is implemented by stages that need to run once before the
// windows of a GenerateData call. pending is the output span about to be
// produced.
type BeforeStreamer[Out TemporalDataObject] interface {
	BeforeTemporalStreamingGenerateData(ctx context.Context, output Out, pending Region) error
}

// AfterStreamer is implemented by stages that need to run once after the
// windows of a GenerateData call.
type AfterStreamer[Out TemporalDataObject] interface {
	AfterTemporalStreamingGenerateData(ctx context.Context, output Out) error
}

// UnimplementedStage fails every step with ErrUnimplementedHook. New uses it
// when no stage is given.
type UnimplementedStage[In, Out TemporalDataObject] struct{}

// TemporalStreamingGenerateData always fails with ErrUnimplementedHook.
func (UnimplementedStage[In, Out]) TemporalStreamingGenerateData(_ context.Context, step StreamingStep[In, Out]) error {
	return regionError("TemporalStreamingGenerateData", step.InputRegion, ErrUnimplementedHook)
}

// ProcessObject streams an input temporal data object into an output one,
// one unit window at a time.
type ProcessObject[In, Out TemporalDataObject] struct {
	name     string
	config   Config
	stage    Stage[In, Out]
	input    In
	hasInput bool
	output   Out
	state    State
}

// New creates a process object that fills output using stage. The output's
// producer is set to the new process object.
func New[In, Out TemporalDataObject](name string, config Config, stage Stage[In, Out], output Out) (*ProcessObject[In, Out], error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("process object %q: %w", name, err)
	}
	if stage == nil {
		stage = UnimplementedStage[In, Out]{}
	}
	p := &ProcessObject[In, Out]{
		name:   name,
		config: config,
		stage:  stage,
		output: output,
	}
	output.SetSource(p)
	return p, nil
}

// Name returns the name used in logs and metric labels.
func (p *ProcessObject[In, Out]) Name() string { return p.name }

// Config returns the unit and stride configuration.
func (p *ProcessObject[In, Out]) Config() Config { return p.config }

// State returns the phase the process object is in.
func (p *ProcessObject[In, Out]) State() State { return p.state }

// Output returns the data object this process object fills.
func (p *ProcessObject[In, Out]) Output() Out { return p.output }

// Input returns the connected input and whether one is connected.
func (p *ProcessObject[In, Out]) Input() (In, bool) { return p.input, p.hasInput }

// SetInput connects the upstream data object. Objects without the input's
// temporal capability are refused with ErrTypeMismatch.
func (p *ProcessObject[In, Out]) SetInput(d DataObject) error {
	in, ok := d.(In)
	if !ok {
		return typeMismatch("SetInput", d)
	}
	p.input = in
	p.hasInput = true
	return nil
}

// EnlargeOutputRequestedRegion rounds the requested duration of output up to
// a multiple of UnitOutputNumberOfFrames.
func (p *ProcessObject[In, Out]) EnlargeOutputRequestedRegion(output DataObject) error {
	out, ok := output.(Out)
	if !ok {
		return typeMismatch("EnlargeOutputRequestedRegion", output)
	}
	p.EnlargeOutputRequestedTemporalRegion(out)
	return nil
}

// EnlargeOutputRequestedTemporalRegion is EnlargeOutputRequestedRegion
// without the type check.
func (p *ProcessObject[In, Out]) EnlargeOutputRequestedTemporalRegion(output Out) {
	output.SetRequestedTemporalRegion(p.config.EnlargeRequest(output.RequestedTemporalRegion()))
}

// GenerateInputRequestedRegion sets the input's requested region to the
// span needed for the output's requested region.
func (p *ProcessObject[In, Out]) GenerateInputRequestedRegion() error {
	if !p.hasInput {
		return fmt.Errorf("GenerateInputRequestedRegion: %w: %w", ErrTypeMismatch, ErrNoInput)
	}
	return p.GenerateInputRequestedTemporalRegion()
}

// GenerateInputRequestedTemporalRegion is GenerateInputRequestedRegion
// without the connection check. It fails with ErrInvalidRegion when the
// input span would start before frame 0.
func (p *ProcessObject[In, Out]) GenerateInputRequestedTemporalRegion() error {
	req, err := p.config.InputRequest(p.output.RequestedTemporalRegion())
	if err != nil {
		return err
	}
	p.input.SetRequestedTemporalRegion(req)
	return nil
}

// UpdateOutputInformation refreshes the input's information and derives the
// output's largest possible region from it.
func (p *ProcessObject[In, Out]) UpdateOutputInformation(ctx context.Context) error {
	if !p.hasInput {
		return p.fail(fmt.Errorf("UpdateOutputInformation: %w: %w", ErrTypeMismatch, ErrNoInput))
	}
	if err := p.input.UpdateOutputInformation(ctx); err != nil {
		return err
	}

	largest := p.config.OutputLargest(p.input.LargestPossibleTemporalRegion())
	p.output.SetLargestPossibleTemporalRegion(largest)
	p.state = StateInformationPropagated
	return nil
}

// SplitRequestedTemporalRegion partitions the unbuffered part of the
// output's request into input windows, in processing order.
func (p *ProcessObject[In, Out]) SplitRequestedTemporalRegion() ([]Region, error) {
	if p.config.FrameSkipPerOutput == 0 {
		return nil, fmt.Errorf("SplitRequestedTemporalRegion: %w: frame skip per output must not be zero", ErrInvalidConfig)
	}
	return p.config.SplitRegion(p.pendingRegion()), nil
}

// pendingRegion is the output's unbuffered region widened to whole output
// units measured from the request start, so unit writes never straddle the
// request boundary.
func (p *ProcessObject[In, Out]) pendingRegion() Region {
	requested := p.output.RequestedTemporalRegion()
	unbuffered := p.output.UnbufferedRequestedTemporalRegion()
	if unbuffered.IsEmpty() || !requested.Contains(unbuffered) {
		return unbuffered
	}

	unit := p.config.UnitOutputNumberOfFrames
	startOffset := uint64(unbuffered.FrameStart-requested.FrameStart) / unit * unit
	endOffset := ceilDiv(uint64(unbuffered.End()-requested.FrameStart), unit) * unit
	return NewRegion(requested.FrameStart+int64(startOffset), endOffset-startOffset)
}

// GenerateData produces the output's unbuffered requested frames by pulling
// one input window at a time and handing it to the stage. On success the
// output's buffered region becomes its requested region.
func (p *ProcessObject[In, Out]) GenerateData(ctx context.Context) error {
	if !p.hasInput {
		return p.fail(fmt.Errorf("GenerateData: %w: %w", ErrTypeMismatch, ErrNoInput))
	}
	logger := logging.FromContext(ctx).With("stage", p.name)

	p.state = StateStreaming
	defer func() { p.state = StateIdle }()

	pending := p.pendingRegion()
	if before, ok := p.stage.(BeforeStreamer[Out]); ok {
		if err := before.BeforeTemporalStreamingGenerateData(ctx, p.output, pending); err != nil {
			return p.fail(err)
		}
	}

	windows, err := p.SplitRequestedTemporalRegion()
	if err != nil {
		return p.fail(err)
	}
	logger.Debugw("Split requested temporal region",
		"requested", p.output.RequestedTemporalRegion().String(),
		"pending", pending.String(),
		"windows", len(windows))

	outputFrameStart, advance := pending.FrameStart, int64(p.config.UnitOutputNumberOfFrames)
	if p.config.Reverse() {
		outputFrameStart, advance = pending.End()-advance, -advance
	}

	for i, window := range windows {
		if err := p.streamWindow(ctx, logger, window, outputFrameStart, i, len(windows)); err != nil {
			return p.fail(err)
		}
		outputFrameStart += advance
	}

	if after, ok := p.stage.(AfterStreamer[Out]); ok {
		if err := after.AfterTemporalStreamingGenerateData(ctx, p.output); err != nil {
			return p.fail(err)
		}
	}

	p.output.SetBufferedTemporalRegion(p.output.RequestedTemporalRegion())
	metrics.FramesProduced.WithLabelValues(p.name).Add(float64(pending.FrameDuration))
	return nil
}

func (p *ProcessObject[In, Out]) streamWindow(ctx context.Context, logger *zap.SugaredLogger, window Region, outputFrameStart int64, index, count int) error {
	input := p.config.InputWindow(window)
	if input.FrameStart < 0 {
		return regionError("GenerateData", input,
			fmt.Errorf("%w: cannot request a region with a starting frame of %d", ErrInvalidRegion, input.FrameStart))
	}
	p.input.SetRequestedTemporalRegion(input)
	if err := p.input.UpdateOutputData(ctx); err != nil {
		return fmt.Errorf("process object %q: pull input %s: %w", p.name, input, err)
	}

	logger.Debugw("Streaming window", "window", window.String(), "input", input.String(), "output_start", outputFrameStart)
	step := StreamingStep[In, Out]{
		Input:            p.input,
		Output:           p.output,
		Window:           window,
		InputRegion:      input,
		OutputFrameStart: outputFrameStart,
		Index:            index,
		Count:            count,
	}
	if err := p.stage.TemporalStreamingGenerateData(ctx, step); err != nil {
		return fmt.Errorf("process object %q: %w", p.name, err)
	}
	metrics.StreamingSteps.WithLabelValues(p.name).Inc()
	return nil
}

// UpdateOutputData implements Producer: it enlarges the output request,
// validates the input span it implies and streams the missing frames.
func (p *ProcessObject[In, Out]) UpdateOutputData(ctx context.Context) error {
	if err := p.EnlargeOutputRequestedRegion(p.output); err != nil {
		return p.fail(err)
	}
	if err := p.GenerateInputRequestedRegion(); err != nil {
		return p.fail(err)
	}
	return p.GenerateData(ctx)
}

// Update propagates information from upstream and then materializes the
// output's requested region, or its largest possible region when nothing has
// been requested yet.
func (p *ProcessObject[In, Out]) Update(ctx context.Context) error {
	defer func() { p.state = StateIdle }()
	if err := p.UpdateOutputInformation(ctx); err != nil {
		return err
	}
	if p.output.RequestedTemporalRegion().IsEmpty() {
		p.output.SetRequestedTemporalRegion(p.output.LargestPossibleTemporalRegion())
	}
	return p.output.UpdateOutputData(ctx)
}

// fail counts err against this process object unless a process object
// upstream already counted it.
func (p *ProcessObject[In, Out]) fail(err error) error {
	p.state = StateIdle
	var c *countedError
	if errors.As(err, &c) {
		return err
	}
	metrics.RegionErrors.WithLabelValues(p.name, errorReason(err)).Inc()
	return &countedError{err: err}
}

// countedError marks an error already recorded in metrics.RegionErrors.
type countedError struct {
	err error
}

func (e *countedError) Error() string { return e.err.Error() }

func (e *countedError) Unwrap() error { return e.err }

func errorReason(err error) string {
	switch {
	case errors.Is(err, ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, ErrInvalidRegion):
		return "invalid_region"
	case errors.Is(err, ErrUnimplementedHook):
		return "unimplemented_hook"
	case errors.Is(err, ErrInvalidConfig):
		return "invalid_config"
	case errors.Is(err, ErrRegionNotBuffered):
		return "not_buffered"
	default:
		return "stage"
	}
}

func typeMismatch(op string, d DataObject) error {
	kind := "nil"
	if d != nil {
		kind = d.Kind()
	}
	return regionError(op, Region{}, fmt.Errorf("%w: got %q (%T)", ErrTypeMismatch, kind, d))
}
