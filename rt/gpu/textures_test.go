package gpu

import (
	"testing"

	"github.com/gekko3d/deferred/rt/target"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextureFormat(t *testing.T) {
	tests := []struct {
		in   target.Format
		want wgpu.TextureFormat
	}{
		{target.FormatRGBA8, wgpu.TextureFormatRGBA8Unorm},
		{target.FormatRGB10A2, wgpu.TextureFormatRGB10A2Unorm},
		{target.FormatR11G11B10F, wgpu.TextureFormatRG11B10Ufloat},
		{target.FormatDepth24, wgpu.TextureFormatDepth24Plus},
	}
	for _, tt := range tests {
		got, err := TextureFormat(tt.in)
		require.NoError(t, err, tt.in.String())
		assert.Equal(t, tt.want, got, tt.in.String())
	}

	_, err := TextureFormat(target.Format(99))
	assert.Error(t, err)
}

func TestTextureAllocator_ReleaseForeignHandle(t *testing.T) {
	a := NewTextureAllocator(nil)
	assert.NotPanics(t, func() {
		a.Release(nil)
		a.Release(&target.MemoryHandle{ID: 1})
		a.Release((*Texture)(nil))
	})
}
