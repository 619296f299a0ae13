// Package config loads pipeline definitions.
//
// A pipeline file is YAML; every scalar can be overridden from the
// environment with the VIDEO_MCP_ prefix, nested keys joined by underscores
// (VIDEO_MCP_SOURCE_DIR, VIDEO_MCP_OUTPUT_CHUNK_FRAMES).
//
//	source:
//	  dir: ./frames
//	stages:
//	  - type: mean
//	    frames: 3
//	  - type: difference
//	    mode: lab
//	output:
//	  dir: ./out
package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/ironsheep/video-tools-mcp/internal/imaging"
	"github.com/ironsheep/video-tools-mcp/internal/video"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "VIDEO_MCP"

// Stage types understood by the pipeline builder.
const (
	StageDifference     = "difference"
	StageMean           = "mean"
	StageSmooth         = "smooth"
	StageSmoothBackward = "smooth_backward"
	StageGaussianBlur   = "gaussian_blur"
	StageGrayscale      = "grayscale"
	StageConvolution    = "convolution"
	StageCrop           = "crop"
	StageEdgeDetect     = "edge_detect"
	StageFFTLowPass     = "fft_lowpass"
	StageFFTMagnitude   = "fft_magnitude"
)

// StageTypes lists every known stage type.
var StageTypes = []string{
	StageDifference, StageMean, StageSmooth, StageSmoothBackward,
	StageGaussianBlur, StageGrayscale, StageConvolution, StageCrop,
	StageEdgeDetect, StageFFTLowPass, StageFFTMagnitude,
}

// Pipeline is a complete pipeline definition.
type Pipeline struct {
	Source SourceConfig  `mapstructure:"source" yaml:"source"`
	Stages []StageConfig `mapstructure:"stages" yaml:"stages"`
	Output OutputConfig  `mapstructure:"output" yaml:"output"`
}

// SourceConfig locates the input frames.
type SourceConfig struct {
	Dir       string `mapstructure:"dir" yaml:"dir"`
	CacheSize int    `mapstructure:"cache_size" yaml:"cache_size"`
}

// StageConfig configures one stage. Only the fields of its type are read.
type StageConfig struct {
	Type string `mapstructure:"type" yaml:"type"`
	Name string `mapstructure:"name" yaml:"name,omitempty"`

	// mean
	Frames uint64 `mapstructure:"frames" yaml:"frames,omitempty"`
	// difference: "rgb" or "lab"
	Mode string `mapstructure:"mode" yaml:"mode,omitempty"`
	// smooth, smooth_backward
	Alpha float64 `mapstructure:"alpha" yaml:"alpha,omitempty"`
	// gaussian_blur
	Sigma float64 `mapstructure:"sigma" yaml:"sigma,omitempty"`
	// convolution
	Kernel    [][]float64 `mapstructure:"kernel" yaml:"kernel,omitempty"`
	Normalize bool        `mapstructure:"normalize" yaml:"normalize,omitempty"`
	// crop: x1, y1, x2, y2
	Rect  []int   `mapstructure:"rect" yaml:"rect,omitempty"`
	Scale float64 `mapstructure:"scale" yaml:"scale,omitempty"`
	// edge_detect
	Low  int `mapstructure:"low" yaml:"low,omitempty"`
	High int `mapstructure:"high" yaml:"high,omitempty"`
	// fft_lowpass; strict also applies to fft_magnitude
	Cutoff float64 `mapstructure:"cutoff" yaml:"cutoff,omitempty"`
	Strict bool    `mapstructure:"strict" yaml:"strict,omitempty"`
}

// DisplayName returns Name, or Type suffixed with the stage position.
func (s StageConfig) DisplayName(index int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("%s-%d", s.Type, index)
}

// OutputConfig controls where and how much of the result is written.
type OutputConfig struct {
	Dir         string `mapstructure:"dir" yaml:"dir"`
	ChunkFrames uint64 `mapstructure:"chunk_frames" yaml:"chunk_frames"`
	Pattern     string `mapstructure:"pattern" yaml:"pattern"`

	// Start and Frames restrict the written region. Frames 0 writes through
	// the end of the sequence.
	Start  *int64 `mapstructure:"start" yaml:"start,omitempty"`
	Frames uint64 `mapstructure:"frames" yaml:"frames,omitempty"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("source.dir", "")
	v.SetDefault("source.cache_size", imaging.DefaultCacheSize)
	v.SetDefault("output.dir", "")
	v.SetDefault("output.chunk_frames", video.DefaultChunkFrames)
	v.SetDefault("output.pattern", video.DefaultPattern)
	return v
}

// Load reads a pipeline file.
func Load(path string) (*Pipeline, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to load pipeline file %s: %w", path, err)
	}
	return decode(v)
}

// Parse reads a pipeline definition from a YAML string.
func Parse(yaml string) (*Pipeline, error) {
	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(yaml)); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Pipeline, error) {
	p := &Pipeline{}
	if err := v.Unmarshal(p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pipeline: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate reports every problem of the definition at once.
func (p *Pipeline) Validate() error {
	var errs error
	if p.Source.Dir == "" {
		errs = multierr.Append(errs, fmt.Errorf("source.dir is required"))
	}
	if p.Source.CacheSize < 0 {
		errs = multierr.Append(errs, fmt.Errorf("source.cache_size must not be negative"))
	}
	for i, s := range p.Stages {
		errs = multierr.Append(errs, s.validate(i))
	}
	return errs
}

func (s StageConfig) validate(index int) error {
	known := false
	for _, t := range StageTypes {
		known = known || s.Type == t
	}
	if !known {
		return fmt.Errorf("stages[%d]: unknown type %q (want one of %s)", index, s.Type, strings.Join(StageTypes, ", "))
	}

	switch s.Type {
	case StageMean:
		if s.Frames == 0 {
			return fmt.Errorf("stages[%d]: mean requires frames", index)
		}
	case StageSmooth, StageSmoothBackward:
		if s.Alpha <= 0 || s.Alpha > 1 {
			return fmt.Errorf("stages[%d]: %s requires alpha in (0, 1]", index, s.Type)
		}
	case StageCrop:
		if len(s.Rect) != 4 {
			return fmt.Errorf("stages[%d]: crop requires rect [x1, y1, x2, y2]", index)
		}
	case StageConvolution:
		if len(s.Kernel) == 0 {
			return fmt.Errorf("stages[%d]: convolution requires kernel", index)
		}
	}
	return nil
}
