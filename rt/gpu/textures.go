// Package gpu backs render targets with WebGPU textures.
package gpu

import (
	"fmt"

	"github.com/gekko3d/deferred/rt/target"

	"github.com/cogentcore/webgpu/wgpu"
)

// Texture is the handle type produced by TextureAllocator.
type Texture struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
	Format  wgpu.TextureFormat
}

// TextureAllocator implements target.Allocator on a wgpu device.
type TextureAllocator struct {
	Device *wgpu.Device
}

var _ target.Allocator = (*TextureAllocator)(nil)

func NewTextureAllocator(device *wgpu.Device) *TextureAllocator {
	return &TextureAllocator{Device: device}
}

// TextureFormat maps a target format onto the wgpu format used for it.
func TextureFormat(f target.Format) (wgpu.TextureFormat, error) {
	switch f {
	case target.FormatRGBA8:
		return wgpu.TextureFormatRGBA8Unorm, nil
	case target.FormatRGB10A2:
		return wgpu.TextureFormatRGB10A2Unorm, nil
	case target.FormatR11G11B10F:
		return wgpu.TextureFormatRG11B10Ufloat, nil
	case target.FormatDepth24:
		return wgpu.TextureFormatDepth24Plus, nil
	}
	return wgpu.TextureFormatUndefined, fmt.Errorf("gpu: unsupported target format %s", f)
}

func (a *TextureAllocator) Allocate(desc target.Desc) (target.Handle, error) {
	format, err := TextureFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	tex, err := a.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         desc.Name,
		Size:          wgpu.Extent3D{Width: uint32(desc.Width), Height: uint32(desc.Height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create %s: %w", desc.Name, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("gpu: view %s: %w", desc.Name, err)
	}
	return &Texture{Texture: tex, View: view, Format: format}, nil
}

func (a *TextureAllocator) Release(h target.Handle) {
	t, ok := h.(*Texture)
	if !ok || t == nil {
		return
	}
	if t.View != nil {
		t.View.Release()
	}
	if t.Texture != nil {
		t.Texture.Release()
	}
}
