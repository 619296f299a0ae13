// Package filters implements the stages a pipeline chains together. Every
// filter is a temporal.Stage over frame sequences and reports the unit
// configuration its process object must run with.
//
// Spatial filters map one input frame to one output frame. Temporal filters
// read a window of frames (Difference, Mean) or carry state from one frame to
// the next (ExponentialSmoothing, BackwardSmoothing).
package filters

import (
	"github.com/ironsheep/video-tools-mcp/internal/temporal"
	"github.com/ironsheep/video-tools-mcp/internal/video"
)

// Step is the streaming step every filter receives.
type Step = temporal.StreamingStep[*video.FrameSequence, *video.FrameSequence]

// Filter is a stage together with the unit configuration it needs.
type Filter interface {
	temporal.Stage[*video.FrameSequence, *video.FrameSequence]

	// Kind names the filter for logs, metrics and manifests.
	Kind() string

	// Config returns the process object configuration for this filter.
	Config() temporal.Config
}
