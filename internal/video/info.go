package video

import (
	"github.com/ironsheep/video-tools-mcp/internal/imaging"
	"github.com/ironsheep/video-tools-mcp/internal/temporal"
)

// Info describes a frame directory.
type Info struct {
	Directory string             `json:"directory" yaml:"directory"`
	Frames    int                `json:"frames" yaml:"frames"`
	Region    temporal.Region    `json:"region" yaml:"region"`
	First     *imaging.ImageInfo `json:"first_frame" yaml:"first_frame"`
	RunID     string             `json:"run_id,omitempty" yaml:"run_id,omitempty"`
}

// SequenceInfo indexes dir and reports its frame count, frame region and the
// properties of its first frame.
func SequenceInfo(dir string) (*Info, error) {
	src, err := NewDirectorySource(dir, 1)
	if err != nil {
		return nil, err
	}
	region := src.Region()
	path, err := src.Path(region.FrameStart)
	if err != nil {
		return nil, err
	}
	first, err := imaging.LoadImageInfo(src.cache, path)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Directory: dir,
		Frames:    len(src.paths),
		Region:    region,
		First:     first,
	}
	if m, err := ReadManifest(dir); err == nil {
		info.RunID = m.RunID
	}
	return info, nil
}
