package video

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"

	"github.com/ironsheep/video-tools-mcp/internal/imaging"
	"github.com/ironsheep/video-tools-mcp/internal/metrics"
	"github.com/ironsheep/video-tools-mcp/internal/temporal"
)

// DirectorySource reads a frame sequence from a directory of images.
//
// Frame order comes from the directory's manifest when one exists and from
// sorted file names otherwise. Frames are decoded lazily through a bounded
// cache when a request needs them.
type DirectorySource struct {
	dir    string
	start  int64
	paths  []string
	cache  *imaging.ImageCache
	output *FrameSequence
}

// NewDirectorySource indexes dir. cacheSize bounds the number of decoded
// frames kept beyond the buffered region (see imaging.NewImageCache).
func NewDirectorySource(dir string, cacheSize int) (*DirectorySource, error) {
	start, paths, err := listFrames(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no image frames found in %s", dir)
	}

	cache, err := imaging.NewImageCache(cacheSize)
	if err != nil {
		return nil, err
	}
	label := filepath.Base(dir)
	cache.OnLoad(func(string) {
		metrics.FramesDecoded.WithLabelValues(label).Inc()
	})

	src := &DirectorySource{
		dir:    dir,
		start:  start,
		paths:  paths,
		cache:  cache,
		output: NewFrameSequence(),
	}
	src.output.SetSource(src)
	return src, nil
}

// Output returns the sequence this source fills.
func (d *DirectorySource) Output() *FrameSequence { return d.output }

// Region returns the frames the directory holds.
func (d *DirectorySource) Region() temporal.Region {
	return temporal.NewRegion(d.start, uint64(len(d.paths)))
}

// Path returns the file backing frame index.
func (d *DirectorySource) Path(index int64) (string, error) {
	if !d.Region().ContainsFrame(index) {
		return "", temporal.NewRegionError("Path", temporal.NewRegion(index, 1), temporal.ErrInvalidRegion)
	}
	return d.paths[index-d.start], nil
}

// UpdateOutputInformation implements temporal.Producer.
func (d *DirectorySource) UpdateOutputInformation(context.Context) error {
	d.output.SetLargestPossibleTemporalRegion(d.Region())
	return nil
}

// UpdateOutputData decodes the requested frames that are not buffered yet.
func (d *DirectorySource) UpdateOutputData(context.Context) error {
	requested := d.output.RequestedTemporalRegion()
	if !d.Region().Contains(requested) {
		return temporal.NewRegionError("DirectorySource.UpdateOutputData", requested,
			fmt.Errorf("%w: sequence holds %s", temporal.ErrInvalidRegion, d.Region()))
	}

	pending := d.output.UnbufferedRequestedTemporalRegion()
	for f := pending.FrameStart; f < pending.End(); f++ {
		img, err := d.cache.Load(d.paths[f-d.start])
		if err != nil {
			return fmt.Errorf("frame %d: %w", f, err)
		}
		d.output.SetFrame(f, img)
	}
	d.output.SetBufferedTemporalRegion(requested)
	return nil
}

func listFrames(dir string) (int64, []string, error) {
	manifest, err := ReadManifest(dir)
	switch {
	case err == nil:
		return manifest.paths(dir)
	case !errors.Is(err, os.ErrNotExist):
		return 0, nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read frame directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !imaging.IsImagePath(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return 0, paths, nil
}

// GeneratorSource produces frames from a function, for synthetic inputs and
// tests.
type GeneratorSource struct {
	length   int64
	generate func(index int64) image.Image
	output   *FrameSequence

	// Generated counts calls to the generator function.
	Generated int
}

// NewGeneratorSource returns a source of length frames, frame i being
// generate(i).
func NewGeneratorSource(length int64, generate func(index int64) image.Image) *GeneratorSource {
	src := &GeneratorSource{length: length, generate: generate, output: NewFrameSequence()}
	src.output.SetSource(src)
	return src
}

// Output returns the sequence this source fills.
func (g *GeneratorSource) Output() *FrameSequence { return g.output }

// UpdateOutputInformation implements temporal.Producer.
func (g *GeneratorSource) UpdateOutputInformation(context.Context) error {
	g.output.SetLargestPossibleTemporalRegion(temporal.NewRegion(0, uint64(g.length)))
	return nil
}

// UpdateOutputData generates the requested frames that are not buffered yet.
func (g *GeneratorSource) UpdateOutputData(context.Context) error {
	requested := g.output.RequestedTemporalRegion()
	largest := temporal.NewRegion(0, uint64(g.length))
	if !largest.Contains(requested) {
		return temporal.NewRegionError("GeneratorSource.UpdateOutputData", requested,
			fmt.Errorf("%w: sequence holds %s", temporal.ErrInvalidRegion, largest))
	}

	pending := g.output.UnbufferedRequestedTemporalRegion()
	for f := pending.FrameStart; f < pending.End(); f++ {
		g.output.SetFrame(f, g.generate(f))
		g.Generated++
	}
	g.output.SetBufferedTemporalRegion(requested)
	return nil
}
