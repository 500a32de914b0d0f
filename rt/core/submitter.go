package core

import (
	"github.com/gekko3d/deferred/rt/target"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is a geometry resource owned by the asset layer. The pipeline
// only needs its name and local bounds.
type Mesh struct {
	Name   string
	Bounds AABB
}

// Material is a shading resource owned by the asset layer.
type Material struct {
	Name string
}

// Submitter receives the abstract draw commands of a frame. It is
// stateful: bindings made through it persist until overwritten.
type Submitter interface {
	ClearRenderTarget(clearColor bool, color mgl32.Vec4, clearDepth bool, depth float32)
	SetRenderTarget(colors []*target.Target, depth *target.Target)
	SetViewport(x, y, width, height int)
	EnableScissor(x, y, width, height int)
	DisableScissor()
	SetViewProjection(view, projection mgl32.Mat4)
	SetGlobalTexture(name string, t *target.Target)
	SetGlobalValue(name string, value any)
	SetColor(color mgl32.Vec4)
	DrawMesh(transform mgl32.Mat4, mesh *Mesh, layer LayerMask, material *Material)
}

// Rect is a pixel rectangle inside a render target.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Overlaps reports whether r and o share at least one pixel.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Normalized returns r as (x, y, w, h) fractions of a width x height
// target.
func (r Rect) Normalized(width, height int) mgl32.Vec4 {
	fw, fh := float32(width), float32(height)
	return mgl32.Vec4{float32(r.X) / fw, float32(r.Y) / fh, float32(r.W) / fw, float32(r.H) / fh}
}
