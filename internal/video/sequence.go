package video

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/video-tools-mcp/internal/temporal"
)

// ErrFrameNotResident is returned when a frame outside the resident set is
// read.
var ErrFrameNotResident = errors.New("frame not resident")

// FrameSequence is a temporal data object whose frames are images.
//
// Only frames of the buffered region (plus frames written by a producer that
// has not committed yet) are kept; committing a new buffered region drops
// everything outside it.
type FrameSequence struct {
	temporal.TemporalData
	frames map[int64]image.Image
}

// NewFrameSequence returns an empty sequence with no producer.
func NewFrameSequence() *FrameSequence {
	return &FrameSequence{frames: make(map[int64]image.Image)}
}

// Kind implements temporal.DataObject.
func (s *FrameSequence) Kind() string { return "frame-sequence" }

// Frame returns the resident image for frame index.
func (s *FrameSequence) Frame(index int64) (image.Image, error) {
	img, ok := s.frames[index]
	if !ok {
		return nil, fmt.Errorf("frame %d: %w", index, ErrFrameNotResident)
	}
	return img, nil
}

// Frames returns the resident images of r in frame order.
func (s *FrameSequence) Frames(r temporal.Region) ([]image.Image, error) {
	images := make([]image.Image, 0, r.FrameDuration)
	for f := r.FrameStart; f < r.End(); f++ {
		img, err := s.Frame(f)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// SetFrame stores img as frame index. Producers call it before committing
// the buffered region.
func (s *FrameSequence) SetFrame(index int64, img image.Image) {
	s.frames[index] = img
}

// Resident returns the number of frames held in memory.
func (s *FrameSequence) Resident() int {
	return len(s.frames)
}

// SetBufferedTemporalRegion commits r as buffered and drops frames outside it.
func (s *FrameSequence) SetBufferedTemporalRegion(r temporal.Region) {
	s.TemporalData.SetBufferedTemporalRegion(r)
	for f := range s.frames {
		if !r.ContainsFrame(f) {
			delete(s.frames, f)
		}
	}
}

// UpdateOutputData implements temporal.TemporalDataObject.
func (s *FrameSequence) UpdateOutputData(ctx context.Context) error {
	return temporal.UpdateOutputData(ctx, s, s.Source())
}
