package temporal

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch is returned when a data object handed to a process
	// object lacks the temporal capability it needs.
	ErrTypeMismatch = errors.New("data object is not a temporal data object")

	// ErrInvalidRegion is returned when a computed request starts before
	// frame 0.
	ErrInvalidRegion = errors.New("invalid temporal region")

	// ErrUnimplementedHook is returned when a process object has no stage
	// to run.
	ErrUnimplementedHook = errors.New("temporal streaming stage not implemented")

	// ErrInvalidConfig is returned for unit sizes or frame skips the engine
	// cannot stream with.
	ErrInvalidConfig = errors.New("invalid temporal process configuration")

	// ErrRegionNotBuffered is returned when a producer finishes without
	// covering the requested region.
	ErrRegionNotBuffered = errors.New("requested region not buffered")

	// ErrNoInput is returned when a process object runs before an input has
	// been connected.
	ErrNoInput = errors.New("process object has no input")
)

// RegionError records the operation and region that caused a failure.
type RegionError struct {
	Op     string
	Region Region
	Err    error
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Region, e.Err)
}

func (e *RegionError) Unwrap() error { return e.Err }

func regionError(op string, r Region, err error) error {
	return &RegionError{Op: op, Region: r, Err: err}
}

// NewRegionError returns a *RegionError for producers outside this package.
func NewRegionError(op string, r Region, err error) error {
	return regionError(op, r, err)
}
