package video

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/video-tools-mcp/internal/temporal"
)

// ManifestName is the file a Writer leaves next to the frames it writes.
const ManifestName = "manifest.yaml"

// Manifest records a written frame sequence.
type Manifest struct {
	RunID     string          `yaml:"run_id"`
	CreatedAt time.Time       `yaml:"created_at"`
	Region    temporal.Region `yaml:"region"`
	Stages    []string        `yaml:"stages,omitempty"`
	Frames    []ManifestFrame `yaml:"frames"`
}

// ManifestFrame maps a frame index to its file, relative to the manifest.
type ManifestFrame struct {
	Index int64  `yaml:"index"`
	File  string `yaml:"file"`
}

// ReadManifest loads dir's manifest. The returned error satisfies
// errors.Is(err, os.ErrNotExist) when the directory has none.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ManifestName, err)
	}
	return &m, nil
}

// Write stores the manifest in dir.
func (m *Manifest) Write(dir string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// paths returns the first frame index and the frame files in index order.
// Indices must be contiguous.
func (m *Manifest) paths(dir string) (int64, []string, error) {
	frames := append([]ManifestFrame(nil), m.Frames...)
	sort.Slice(frames, func(i, j int) bool { return frames[i].Index < frames[j].Index })

	paths := make([]string, 0, len(frames))
	for i, f := range frames {
		if i > 0 && f.Index != frames[i-1].Index+1 {
			return 0, nil, fmt.Errorf("%s: frame %d follows frame %d", ManifestName, f.Index, frames[i-1].Index)
		}
		paths = append(paths, filepath.Join(dir, f.File))
	}
	if len(frames) == 0 {
		return 0, nil, nil
	}
	return frames[0].Index, paths, nil
}
