package deferred

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gekko3d/deferred/rt/shadow"

	"gopkg.in/yaml.v3"
)

var ErrInvalidSettings = errors.New("deferred: invalid settings")

// Settings configures a Pipeline. It is read once by New.
type Settings struct {
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	ShadowResolution int     `yaml:"shadow_resolution"`
	Cascades         int     `yaml:"cascades"`
	SplitBlend       float32 `yaml:"split_blend"`
	CascadeDepth     float32 `yaml:"cascade_depth"`
	CascadeRecenter  bool    `yaml:"cascade_recenter"`
	AtlasResolution  int     `yaml:"atlas_resolution"`
	AtlasTile        int     `yaml:"atlas_tile"`
	Debug            bool    `yaml:"debug"`
}

func DefaultSettings() Settings {
	return Settings{
		Width:            1280,
		Height:           720,
		ShadowResolution: shadow.DefaultResolution,
		Cascades:         shadow.DefaultCascades,
		SplitBlend:       shadow.DefaultSplitBlend,
		CascadeDepth:     shadow.DefaultDepthRange,
		AtlasResolution:  2048,
		AtlasTile:        512,
	}
}

func (s Settings) cascadeConfig() shadow.CascadeConfig {
	return shadow.CascadeConfig{
		Count:      s.Cascades,
		SplitBlend: s.SplitBlend,
		DepthRange: s.CascadeDepth,
		Resolution: s.ShadowResolution,
		Recenter:   s.CascadeRecenter,
	}
}

func (s Settings) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: output %dx%d", ErrInvalidSettings, s.Width, s.Height)
	}
	if err := s.cascadeConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if s.AtlasTile <= 0 || s.AtlasTile > s.AtlasResolution {
		return fmt.Errorf("%w: atlas tile %d does not fit atlas %d", ErrInvalidSettings, s.AtlasTile, s.AtlasResolution)
	}
	return nil
}

// SettingsProvider supplies the settings of a pipeline.
type SettingsProvider interface {
	Settings() (Settings, error)
}

// StaticSettings provides a fixed value.
type StaticSettings Settings

func (s StaticSettings) Settings() (Settings, error) { return Settings(s), nil }

// FileSettings reads YAML settings from Path. Missing keys keep their
// defaults, unknown keys are an error.
type FileSettings struct {
	Path string
}

func (f FileSettings) Settings() (Settings, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return Settings{}, fmt.Errorf("deferred: read settings: %w", err)
	}
	return ParseSettings(data)
}

// ParseSettings decodes YAML over DefaultSettings and validates the
// result.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
