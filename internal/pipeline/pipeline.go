// Package pipeline assembles a directory source, a chain of filters and a
// writer from a pipeline definition and drives them through the temporal
// engine.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/ironsheep/video-tools-mcp/internal/config"
	"github.com/ironsheep/video-tools-mcp/internal/filters"
	"github.com/ironsheep/video-tools-mcp/internal/logging"
	"github.com/ironsheep/video-tools-mcp/internal/temporal"
	"github.com/ironsheep/video-tools-mcp/internal/video"
)

type processObject = temporal.ProcessObject[*video.FrameSequence, *video.FrameSequence]

// Stage is one link of a built pipeline.
type Stage struct {
	Name    string
	Filter  filters.Filter
	Process *processObject
}

// Pipeline is a built, ready to run chain.
type Pipeline struct {
	cfg    *config.Pipeline
	source *video.DirectorySource
	stages []Stage
	output *video.FrameSequence
}

// Build wires the source, every stage and the final output sequence.
func Build(cfg *config.Pipeline) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	source, err := video.NewDirectorySource(cfg.Source.Dir, cfg.Source.CacheSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{cfg: cfg, source: source, output: source.Output()}
	for i, sc := range cfg.Stages {
		name := sc.DisplayName(i)
		filter, err := NewFilter(sc)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", name, err)
		}
		process, err := temporal.New[*video.FrameSequence, *video.FrameSequence](name, filter.Config(), filter, video.NewFrameSequence())
		if err != nil {
			return nil, err
		}
		if err := process.SetInput(p.output); err != nil {
			return nil, err
		}
		p.stages = append(p.stages, Stage{Name: name, Filter: filter, Process: process})
		p.output = process.Output()
	}
	return p, nil
}

// Stages returns the built stages in processing order.
func (p *Pipeline) Stages() []Stage { return p.stages }

// Output returns the sequence produced by the last stage.
func (p *Pipeline) Output() *video.FrameSequence { return p.output }

// Region propagates information through the chain and returns the frames the
// pipeline can produce.
func (p *Pipeline) Region(ctx context.Context) (temporal.Region, error) {
	if err := p.output.UpdateOutputInformation(ctx); err != nil {
		return temporal.Region{}, err
	}
	return p.output.LargestPossibleTemporalRegion(), nil
}

// Run streams the configured output region to the output directory.
func (p *Pipeline) Run(ctx context.Context) (*video.Manifest, error) {
	logger := logging.FromContext(ctx)
	if p.cfg.Output.Dir == "" {
		return nil, fmt.Errorf("output.dir is required to run a pipeline")
	}

	largest, err := p.Region(ctx)
	if err != nil {
		return nil, err
	}
	region, err := resolveRegion(largest, p.cfg.Output)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(p.stages))
	for _, s := range p.stages {
		names = append(names, s.Name)
	}
	w := &video.Writer{
		Dir:         p.cfg.Output.Dir,
		ChunkFrames: p.cfg.Output.ChunkFrames,
		Pattern:     p.cfg.Output.Pattern,
		Stages:      names,
	}

	started := time.Now()
	manifest, err := w.Write(ctx, p.output, region)
	if err != nil {
		return nil, err
	}
	logger.Infow("Pipeline finished",
		"region", region.String(),
		"frames", len(manifest.Frames),
		"elapsed", time.Since(started).String(),
		"runID", manifest.RunID)
	return manifest, nil
}

// Frame produces output frame index alone.
func (p *Pipeline) Frame(ctx context.Context, index int64) (image.Image, error) {
	largest, err := p.Region(ctx)
	if err != nil {
		return nil, err
	}
	if !largest.ContainsFrame(index) {
		return nil, temporal.NewRegionError("Frame", temporal.NewRegion(index, 1),
			fmt.Errorf("%w: pipeline produces %s", temporal.ErrInvalidRegion, largest))
	}
	p.output.SetRequestedTemporalRegion(temporal.NewRegion(index, 1))
	if err := p.output.UpdateOutputData(ctx); err != nil {
		return nil, err
	}
	return p.output.Frame(index)
}

func resolveRegion(largest temporal.Region, out config.OutputConfig) (temporal.Region, error) {
	start := largest.FrameStart
	if out.Start != nil {
		start = *out.Start
	}
	if start < largest.FrameStart || start > largest.End() {
		return temporal.Region{}, temporal.NewRegionError("Run", temporal.NewRegion(start, out.Frames),
			fmt.Errorf("%w: pipeline produces %s", temporal.ErrInvalidRegion, largest))
	}
	frames := out.Frames
	if frames == 0 {
		frames = uint64(largest.End() - start)
	}
	region := temporal.NewRegion(start, frames)
	if !largest.Contains(region) {
		return temporal.Region{}, temporal.NewRegionError("Run", region,
			fmt.Errorf("%w: pipeline produces %s", temporal.ErrInvalidRegion, largest))
	}
	return region, nil
}
