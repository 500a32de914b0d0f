package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Kind tags the variant of a Renderable so the pipeline can route it
// without type switches.
type Kind uint8

const (
	KindMesh Kind = iota
	KindDirectionalLight
	KindSpotLight
	KindPointLight
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "Mesh"
	case KindDirectionalLight:
		return "DirectionalLight"
	case KindSpotLight:
		return "SpotLight"
	case KindPointLight:
		return "PointLight"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Renderable is anything the scene hands to the pipeline.
type Renderable interface {
	Kind() Kind
	Enabled() bool
	WorldTransform() mgl32.Mat4
	LayerMask() LayerMask
	Draw(sub Submitter, layer LayerMask)
}

// Bounded is implemented by renderables with local-space bounds. The
// bool is false when no bounds data is available.
type Bounded interface {
	Bounds() (AABB, bool)
}

// WorldBounds returns the world-space box of r, if it has one.
func WorldBounds(r Renderable) (AABB, bool) {
	b, ok := r.(Bounded)
	if !ok {
		return AABB{}, false
	}
	local, ok := b.Bounds()
	if !ok {
		return AABB{}, false
	}
	return local.Transform(r.WorldTransform()), true
}

// ShadowCaster is implemented by lights that may render shadow maps.
type ShadowCaster interface {
	Renderable
	ID() uuid.UUID
	CastShadows() bool
}

// DirectionalCaster exposes the cascade slots of a directional light.
type DirectionalCaster interface {
	ShadowCaster
	Rotation() mgl32.Quat
	CascadeShadow() *CascadeState
}

// SpotCaster exposes the shadow frustum and tile slot of a spot light.
type SpotCaster interface {
	ShadowCaster
	ShadowFrustum() (position mgl32.Vec3, rotation mgl32.Quat, fov, near, far float32)
	SpotShadow() *SpotShadowState
}

// PointCaster exposes the cube-face slots of a point light.
type PointCaster interface {
	ShadowCaster
	Position() mgl32.Vec3
	ShadowRange() (near, far float32)
	PointShadow() *PointShadowState
}

// IDToColor packs an object id into an RGBA color, one byte per channel
// starting with the low byte in red.
func IDToColor(id uint32) mgl32.Vec4 {
	return mgl32.Vec4{
		float32(id&0xff) / 255.0,
		float32((id>>8)&0xff) / 255.0,
		float32((id>>16)&0xff) / 255.0,
		float32((id>>24)&0xff) / 255.0,
	}
}

// ColorToID is the inverse of IDToColor for a pixel read back from the
// object-id target.
func ColorToID(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}
