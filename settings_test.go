package deferred

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSettings_Defaults(t *testing.T) {
	s, err := ParseSettings(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
	assert.Equal(t, 1280, s.Width)
	assert.Equal(t, 720, s.Height)
	assert.Equal(t, 2048, s.ShadowResolution)
	assert.Equal(t, 4, s.Cascades)
	assert.Equal(t, float32(0.95), s.SplitBlend)
	assert.Equal(t, float32(100), s.CascadeDepth)
	assert.Equal(t, 2048, s.AtlasResolution)
	assert.Equal(t, 512, s.AtlasTile)
	assert.False(t, s.Debug)
	assert.False(t, s.CascadeRecenter)
	assert.False(t, s.cascadeConfig().Recenter)
}

func TestParseSettings_Overrides(t *testing.T) {
	s, err := ParseSettings([]byte("width: 640\nheight: 480\ncascades: 2\nsplit_blend: 0.5\ndebug: true\n"))
	require.NoError(t, err)
	assert.Equal(t, 640, s.Width)
	assert.Equal(t, 480, s.Height)
	assert.Equal(t, 2, s.Cascades)
	assert.Equal(t, float32(0.5), s.SplitBlend)
	assert.True(t, s.Debug)
	assert.Equal(t, 2048, s.ShadowResolution)
}

func TestParseSettings_CascadeRecenter(t *testing.T) {
	s, err := ParseSettings([]byte("cascade_recenter: true\n"))
	require.NoError(t, err)
	assert.True(t, s.CascadeRecenter)
	assert.True(t, s.cascadeConfig().Recenter)
}

func TestParseSettings_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "widht: 640\n"},
		{"zero width", "width: 0\n"},
		{"too many cascades", "cascades: 5\n"},
		{"blend out of range", "split_blend: 1.5\n"},
		{"tile larger than atlas", "atlas_resolution: 256\natlas_tile: 512\n"},
		{"negative depth", "cascade_depth: -1\n"},
		{"not yaml", "width: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSettings([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidSettings)
		})
	}
}

func TestFileSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("shadow_resolution: 1024\natlas_tile: 256\n"), 0o644))

	s, err := FileSettings{Path: path}.Settings()
	require.NoError(t, err)
	assert.Equal(t, 1024, s.ShadowResolution)
	assert.Equal(t, 256, s.AtlasTile)

	_, err = FileSettings{Path: filepath.Join(t.TempDir(), "missing.yaml")}.Settings()
	assert.Error(t, err)
}

func TestStaticSettings(t *testing.T) {
	want := DefaultSettings()
	want.Width = 99
	got, err := StaticSettings(want).Settings()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
