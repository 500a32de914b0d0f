package shadow

import (
	"github.com/gekko3d/deferred/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

// Projection is a view/crop pair and the texture-space matrix built
// from them.
type Projection struct {
	View   mgl32.Mat4
	Crop   mgl32.Mat4
	Matrix mgl32.Mat4
}

func (p Projection) ViewProjection() mgl32.Mat4 { return p.Crop.Mul4(p.View) }

func newProjection(view, crop mgl32.Mat4) Projection {
	return Projection{View: view, Crop: crop, Matrix: Bias().Mul4(crop).Mul4(view)}
}

// SpotProjection is the perspective shadow projection of a spot light.
// fov is the full cone angle in degrees.
func SpotProjection(position mgl32.Vec3, rotation mgl32.Quat, fov, near, far float32) Projection {
	view := core.NewTransformAt(position, rotation).RigidInverse()
	crop := mgl32.Perspective(mgl32.DegToRad(fov), 1, near, far)
	return newProjection(view, crop)
}

// SpotCorners returns the corners of a spot light's shadow frustum, for
// culling its casters.
func SpotCorners(position mgl32.Vec3, rotation mgl32.Quat, fov, near, far float32) core.FrustumCorners {
	return core.PerspectiveCorners(false, fov, 1, position, rotation, near, far)
}

// Cube faces in +X, -X, +Y, -Y, +Z, -Z order. Each rotation turns the
// default -Z forward axis onto the face direction.
var cubeFaces = [core.CubeFaces]mgl32.Quat{
	mgl32.QuatRotate(mgl32.DegToRad(-90), mgl32.Vec3{0, 1, 0}),
	mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}),
	mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{1, 0, 0}),
	mgl32.QuatRotate(mgl32.DegToRad(-90), mgl32.Vec3{1, 0, 0}),
	mgl32.QuatRotate(mgl32.DegToRad(180), mgl32.Vec3{0, 1, 0}),
	mgl32.QuatIdent(),
}

// CubeFace returns the rotation of face i of a point light shadow cube.
func CubeFace(i int) mgl32.Quat { return cubeFaces[i] }

// PointProjection is the 90 degree projection of cube face i.
func PointProjection(position mgl32.Vec3, face int, near, far float32) Projection {
	return SpotProjection(position, cubeFaces[face], 90, near, far)
}

// PointCorners returns the frustum corners of cube face i.
func PointCorners(position mgl32.Vec3, face int, near, far float32) core.FrustumCorners {
	return SpotCorners(position, cubeFaces[face], 90, near, far)
}
