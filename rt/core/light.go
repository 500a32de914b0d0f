package core

import (
	"math"

	"github.com/gekko3d/deferred/rt/target"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// MaxCascades is the number of cascade slots of a directional light.
const MaxCascades = 4

// CubeFaces is the number of shadow faces of a point light.
const CubeFaces = 6

// CascadeState is the per-frame shadow data of a directional light.
// Count is zero when the light has no shadow map this frame.
type CascadeState struct {
	Count      int
	View       mgl32.Mat4
	Crop       [MaxCascades]mgl32.Mat4
	Matrix     [MaxCascades]mgl32.Mat4 // bias * crop * view
	Distances  [MaxCascades]float32    // camera-space split distances
	Normalized [MaxCascades]float32    // split depth in [0,1]
	Tiles      [MaxCascades]Rect
	TilesUV    [MaxCascades]mgl32.Vec4
	Target     *target.Target
}

func (s *CascadeState) Reset() { *s = CascadeState{} }

// SpotShadowState is the shadow slot of a spot light. Target is nil
// while no atlas tile is assigned.
type SpotShadowState struct {
	View   mgl32.Mat4
	Crop   mgl32.Mat4
	Matrix mgl32.Mat4
	Tile   Rect
	TileUV mgl32.Vec4
	Target *target.Target
}

func (s *SpotShadowState) Reset() { *s = SpotShadowState{} }

// PointShadowState holds one atlas tile per cube face.
type PointShadowState struct {
	View    [CubeFaces]mgl32.Mat4
	Crop    mgl32.Mat4
	Matrix  [CubeFaces]mgl32.Mat4
	Tiles   [CubeFaces]Rect
	TilesUV [CubeFaces]mgl32.Vec4
	Target  *target.Target
}

func (s *PointShadowState) Reset() { *s = PointShadowState{} }

// BaseLight carries what every light shares.
type BaseLight struct {
	Transform  *Transform
	Color      mgl32.Vec4
	Brightness float32
	Bias       float32
	Shadows    bool
	Disabled   bool

	// Shape and Material are the light volume drawn in the LIGHT pass.
	Shape    *Mesh
	Material *Material

	id uuid.UUID
}

func newBaseLight(shape *Mesh, material *Material) BaseLight {
	return BaseLight{
		Transform:  NewTransform(),
		Color:      mgl32.Vec4{1, 1, 1, 1},
		Brightness: 1.0,
		Bias:       0.001,
		Shape:      shape,
		Material:   material,
		id:         uuid.New(),
	}
}

func (l *BaseLight) ID() uuid.UUID              { return l.id }
func (l *BaseLight) Enabled() bool              { return !l.Disabled }
func (l *BaseLight) CastShadows() bool          { return l.Shadows }
func (l *BaseLight) SetCastShadows(on bool)     { l.Shadows = on }
func (l *BaseLight) LayerMask() LayerMask       { return LayerLight }
func (l *BaseLight) WorldTransform() mgl32.Mat4 { return l.Transform.ObjectToWorld() }
func (l *BaseLight) Position() mgl32.Vec3       { return l.Transform.Position }
func (l *BaseLight) Rotation() mgl32.Quat       { return l.Transform.Rotation }

// Direction is the world direction the light shines along.
func (l *BaseLight) Direction() mgl32.Vec3 { return l.Transform.Forward() }

func (l *BaseLight) drawable(layer LayerMask) bool {
	return l.Shape != nil && l.Material != nil && layer&LayerLight != 0
}

func (l *BaseLight) setCommon(sub Submitter) {
	sub.SetGlobalValue("light.color", l.Color)
	sub.SetGlobalValue("light.brightness", l.Brightness)
	sub.SetGlobalValue("light.bias", l.Bias)
}

// DirectionalLight lights the whole scene from one direction. Its
// position is irrelevant.
type DirectionalLight struct {
	BaseLight
	Shadow CascadeState
}

func NewDirectionalLight(shape *Mesh, material *Material) *DirectionalLight {
	return &DirectionalLight{BaseLight: newBaseLight(shape, material)}
}

func (l *DirectionalLight) Kind() Kind                   { return KindDirectionalLight }
func (l *DirectionalLight) CascadeShadow() *CascadeState { return &l.Shadow }

func (l *DirectionalLight) Draw(sub Submitter, layer LayerMask) {
	if !l.drawable(layer) {
		return
	}
	l.setCommon(sub)
	sub.SetGlobalValue("light.direction", l.Direction())
	if l.Shadow.Target != nil && l.Shadow.Count > 0 {
		sub.SetGlobalTexture(target.ShadowMap, l.Shadow.Target)
		sub.SetGlobalValue("light.shadows", float32(1))
		n := l.Shadow.Count
		sub.SetGlobalValue("light.matrix", append([]mgl32.Mat4(nil), l.Shadow.Matrix[:n]...))
		sub.SetGlobalValue("light.tiles", append([]mgl32.Vec4(nil), l.Shadow.TilesUV[:n]...))
		sub.SetGlobalValue("light.lod", mgl32.Vec4(l.Shadow.Normalized))
	} else {
		sub.SetGlobalValue("light.shadows", float32(0))
	}
	sub.DrawMesh(mgl32.Ident4(), l.Shape, layer, l.Material)
}

// Half angle limits of a spot light's shadow frustum, degrees.
const (
	MaxSpotShadowAngle = 89.0
	minSpotShadowAngle = 0.5
)

// SpotLight emits a cone along its forward axis.
type SpotLight struct {
	BaseLight
	Angle    float32 // half cone angle, degrees
	Near     float32
	Distance float32
	Shadow   SpotShadowState
}

func NewSpotLight(shape *Mesh, material *Material) *SpotLight {
	return &SpotLight{
		BaseLight: newBaseLight(shape, material),
		Angle:     45.0,
		Near:      0.1,
		Distance:  10.0,
	}
}

func (l *SpotLight) Kind() Kind                   { return KindSpotLight }
func (l *SpotLight) SpotShadow() *SpotShadowState { return &l.Shadow }

// ShadowFrustum returns the shadow camera of the cone. The half angle is
// clamped to MaxSpotShadowAngle so the field of view stays below 180.
func (l *SpotLight) ShadowFrustum() (mgl32.Vec3, mgl32.Quat, float32, float32, float32) {
	angle := mgl32.Clamp(l.Angle, minSpotShadowAngle, MaxSpotShadowAngle)
	return l.Transform.Position, l.Transform.Rotation, angle * 2.0, l.Near, l.Distance
}

// Volume is the world transform of the cone proxy mesh.
func (l *SpotLight) Volume() mgl32.Mat4 {
	pos := l.Transform.Position.Add(l.Direction().Mul(l.Distance * 0.5))
	t := mgl32.Translate3D(pos.X(), pos.Y(), pos.Z())
	s := mgl32.Scale3D(l.Distance*1.5, l.Distance*1.5, l.Distance)
	return t.Mul4(l.Transform.Rotation.Mat4()).Mul4(s)
}

func (l *SpotLight) Draw(sub Submitter, layer LayerMask) {
	if !l.drawable(layer) {
		return
	}
	l.setCommon(sub)
	sub.SetGlobalValue("light.position", l.Transform.Position)
	sub.SetGlobalValue("light.direction", l.Direction())
	sub.SetGlobalValue("light.params", mgl32.Vec4{l.Brightness, l.Distance, float32(cosDeg(l.Angle)), l.Bias})
	if l.Shadow.Target != nil {
		sub.SetGlobalTexture(target.ShadowAtlas, l.Shadow.Target)
		sub.SetGlobalValue("light.shadows", float32(1))
		sub.SetGlobalValue("light.matrix", l.Shadow.Matrix)
		sub.SetGlobalValue("light.tiles", l.Shadow.TileUV)
	} else {
		sub.SetGlobalValue("light.shadows", float32(0))
	}
	sub.DrawMesh(l.Volume(), l.Shape, layer, l.Material)
}

// PointLight emits in every direction up to Radius.
type PointLight struct {
	BaseLight
	Radius float32
	Near   float32
	Shadow PointShadowState
}

func NewPointLight(shape *Mesh, material *Material) *PointLight {
	return &PointLight{
		BaseLight: newBaseLight(shape, material),
		Radius:    10.0,
		Near:      0.1,
	}
}

func (l *PointLight) Kind() Kind                      { return KindPointLight }
func (l *PointLight) PointShadow() *PointShadowState  { return &l.Shadow }
func (l *PointLight) ShadowRange() (float32, float32) { return l.Near, l.Radius }

func (l *PointLight) Draw(sub Submitter, layer LayerMask) {
	if !l.drawable(layer) {
		return
	}
	l.setCommon(sub)
	p := l.Transform.Position
	sub.SetGlobalValue("light.position", p)
	sub.SetGlobalValue("light.params", mgl32.Vec4{l.Brightness, l.Radius, 0, l.Bias})
	if l.Shadow.Target != nil {
		sub.SetGlobalTexture(target.ShadowAtlas, l.Shadow.Target)
		sub.SetGlobalValue("light.shadows", float32(1))
		sub.SetGlobalValue("light.matrix", append([]mgl32.Mat4(nil), l.Shadow.Matrix[:]...))
		sub.SetGlobalValue("light.tiles", append([]mgl32.Vec4(nil), l.Shadow.TilesUV[:]...))
	} else {
		sub.SetGlobalValue("light.shadows", float32(0))
	}
	t := mgl32.Translate3D(p.X(), p.Y(), p.Z()).Mul4(mgl32.Scale3D(l.Radius, l.Radius, l.Radius))
	sub.DrawMesh(t, l.Shape, layer, l.Material)
}

func cosDeg(deg float32) float64 {
	return math.Cos(float64(mgl32.DegToRad(deg)))
}
