package temporal

import (
	"context"
	"image"
)

// DataObject is anything that travels along a pipeline edge.
type DataObject interface {
	Kind() string
}

// Producer fills a data object on demand. Process objects and leaf sources
// implement it.
type Producer interface {
	// UpdateOutputInformation refreshes the largest possible region of the
	// producer's output, recursing upstream first.
	UpdateOutputInformation(ctx context.Context) error

	// UpdateOutputData makes the output's requested region resident.
	UpdateOutputData(ctx context.Context) error
}

// TemporalDataObject is the capability a data object needs to take part in
// temporal streaming.
type TemporalDataObject interface {
	DataObject

	LargestPossibleTemporalRegion() Region
	SetLargestPossibleTemporalRegion(r Region)
	RequestedTemporalRegion() Region
	SetRequestedTemporalRegion(r Region)
	BufferedTemporalRegion() Region
	SetBufferedTemporalRegion(r Region)
	UnbufferedRequestedTemporalRegion() Region

	// SetSource attaches the producer that fills this object.
	SetSource(p Producer)

	// UpdateOutputInformation asks the producer to refresh the largest
	// possible region.
	UpdateOutputInformation(ctx context.Context) error

	// UpdateOutputData makes the requested region resident, asking the
	// producer for whatever is missing.
	UpdateOutputData(ctx context.Context) error
}

// TemporalData holds the region bookkeeping shared by temporal data objects.
// Embed it and override SetBufferedTemporalRegion to release storage.
//
// Setters do not validate; regions are checked when a process object
// consumes them.
type TemporalData struct {
	largest   Region
	requested Region
	buffered  Region
	source    Producer
}

// Kind implements DataObject.
func (d *TemporalData) Kind() string { return "temporal" }

// LargestPossibleTemporalRegion returns every frame the producer can supply.
func (d *TemporalData) LargestPossibleTemporalRegion() Region { return d.largest }

// SetLargestPossibleTemporalRegion records the producer's full extent.
func (d *TemporalData) SetLargestPossibleTemporalRegion(r Region) { d.largest = r }

// RequestedTemporalRegion returns the frames the consumer wants resident.
func (d *TemporalData) RequestedTemporalRegion() Region { return d.requested }

// SetRequestedTemporalRegion sets the frames the next update must produce.
func (d *TemporalData) SetRequestedTemporalRegion(r Region) { d.requested = r }

// BufferedTemporalRegion returns the frames currently resident.
func (d *TemporalData) BufferedTemporalRegion() Region { return d.buffered }

// SetBufferedTemporalRegion records which frames are resident.
func (d *TemporalData) SetBufferedTemporalRegion(r Region) { d.buffered = r }

// Source returns the producer attached with SetSource.
func (d *TemporalData) Source() Producer { return d.source }

// SetSource attaches the producer that fills this object.
func (d *TemporalData) SetSource(p Producer) { d.source = p }

// UnbufferedRequestedTemporalRegion returns the smallest contiguous region
// covering every requested frame that is not buffered.
//
// When buffered covers the whole request the result is empty and anchored at
// the end of the request. When buffered sits strictly inside the request the
// frames between the two gaps are included, because a region cannot express
// two disjoint spans.
func (d *TemporalData) UnbufferedRequestedTemporalRegion() Region {
	return Unbuffered(d.requested, d.buffered)
}

// Unbuffered computes the unbuffered part of requested given buffered. See
// TemporalData.UnbufferedRequestedTemporalRegion.
func Unbuffered(requested, buffered Region) Region {
	overlap := requested.Intersect(buffered)
	if overlap.IsEmpty() {
		return requested
	}
	if overlap == requested {
		return Region{FrameStart: requested.End()}
	}

	start, end := requested.FrameStart, requested.End()
	switch {
	case overlap.FrameStart == requested.FrameStart:
		start = overlap.End()
	case overlap.End() == requested.End():
		end = overlap.FrameStart
	}
	return Region{FrameStart: start, FrameDuration: uint64(end - start)}
}

// UpdateOutputInformation delegates to the attached producer. Objects with no
// producer keep whatever largest region was set on them.
func (d *TemporalData) UpdateOutputInformation(ctx context.Context) error {
	if d.source == nil {
		return nil
	}
	return d.source.UpdateOutputInformation(ctx)
}

// UpdateOutputData is a helper for embedding types: it runs the producer when
// the request is not already resident and checks the outcome. Embedders call
// it with themselves so the producer sees the outer object.
func UpdateOutputData(ctx context.Context, d TemporalDataObject, source Producer) error {
	requested := d.RequestedTemporalRegion()
	if d.BufferedTemporalRegion().Contains(requested) {
		return nil
	}
	if source == nil {
		return regionError("UpdateOutputData", requested, ErrRegionNotBuffered)
	}
	if err := source.UpdateOutputData(ctx); err != nil {
		return err
	}
	if !d.BufferedTemporalRegion().Contains(requested) {
		return regionError("UpdateOutputData", requested, ErrRegionNotBuffered)
	}
	return nil
}

// UpdateOutputData implements TemporalDataObject for a bare TemporalData.
func (d *TemporalData) UpdateOutputData(ctx context.Context) error {
	return UpdateOutputData(ctx, d, d.source)
}

// ImageObject is a single still image. It is a DataObject but not a
// TemporalDataObject, so process objects refuse it.
type ImageObject struct {
	Image image.Image
}

// Kind implements DataObject.
func (o *ImageObject) Kind() string { return "image" }
