package temporal

import "fmt"

// Region is a contiguous span of frames.
//
// FrameStart may be negative while a request is being computed; such regions
// are rejected when they are consumed.
type Region struct {
	FrameStart    int64  `json:"frame_start" yaml:"frame_start"`
	FrameDuration uint64 `json:"frame_duration" yaml:"frame_duration"`
}

// NewRegion returns the region [start, start+duration).
func NewRegion(start int64, duration uint64) Region {
	return Region{FrameStart: start, FrameDuration: duration}
}

// End returns the first frame index after the region.
func (r Region) End() int64 {
	return r.FrameStart + int64(r.FrameDuration)
}

// IsEmpty reports whether the region spans no frames.
func (r Region) IsEmpty() bool {
	return r.FrameDuration == 0
}

// Contains reports whether every frame of o lies inside r. An empty o is
// contained in any region.
func (r Region) Contains(o Region) bool {
	if o.IsEmpty() {
		return true
	}
	return o.FrameStart >= r.FrameStart && o.End() <= r.End()
}

// ContainsFrame reports whether frame lies inside r.
func (r Region) ContainsFrame(frame int64) bool {
	return frame >= r.FrameStart && frame < r.End()
}

// Intersect returns the frames common to r and o. When they do not overlap
// the result is empty and anchored at r.FrameStart.
func (r Region) Intersect(o Region) Region {
	start := max(r.FrameStart, o.FrameStart)
	end := min(r.End(), o.End())
	if end <= start {
		return Region{FrameStart: r.FrameStart}
	}
	return Region{FrameStart: start, FrameDuration: uint64(end - start)}
}

func (r Region) String() string {
	return fmt.Sprintf("[%d, %d)", r.FrameStart, r.End())
}
