package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/ironsheep/video-tools-mcp/internal/logging"
	"github.com/ironsheep/video-tools-mcp/internal/metrics"
	"github.com/ironsheep/video-tools-mcp/internal/temporal"
)

const (
	// DefaultChunkFrames is the number of frames a Writer requests at a time.
	DefaultChunkFrames = 8

	// DefaultPattern names written frames after their index.
	DefaultPattern = "frame-%06d.png"
)

// Writer streams a region of a sequence to a directory, requesting
// ChunkFrames frames at a time so only one chunk is resident.
type Writer struct {
	Dir         string
	ChunkFrames uint64
	Pattern     string
	Stages      []string
}

// Write pulls region from seq chunk by chunk, saves each frame and finishes
// with a manifest describing the run.
func (w *Writer) Write(ctx context.Context, seq *FrameSequence, region temporal.Region) (*Manifest, error) {
	logger := logging.FromContext(ctx)

	chunk := w.ChunkFrames
	if chunk == 0 {
		chunk = DefaultChunkFrames
	}
	pattern := w.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	manifest := &Manifest{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Region:    region,
		Stages:    w.Stages,
	}
	logger.Infow("Writing sequence", "dir", w.Dir, "region", region.String(), "runID", manifest.RunID)

	for start := region.FrameStart; start < region.End(); start += int64(chunk) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		duration := min(chunk, uint64(region.End()-start))
		seq.SetRequestedTemporalRegion(temporal.NewRegion(start, duration))
		if err := seq.UpdateOutputData(ctx); err != nil {
			return nil, err
		}

		for f := start; f < start+int64(duration); f++ {
			img, err := seq.Frame(f)
			if err != nil {
				return nil, err
			}
			name := fmt.Sprintf(pattern, f)
			if err := imaging.Save(img, filepath.Join(w.Dir, name)); err != nil {
				return nil, fmt.Errorf("failed to save frame %d: %w", f, err)
			}
			manifest.Frames = append(manifest.Frames, ManifestFrame{Index: f, File: name})
			metrics.FramesWritten.Inc()
		}
		logger.Debugw("Wrote chunk", "start", start, "frames", duration)
	}

	if err := manifest.Write(w.Dir); err != nil {
		return nil, err
	}
	return manifest, nil
}
