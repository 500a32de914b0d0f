package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FrustumCorners holds the 8 world-space corners of a view volume.
// Indices 0-3 are the near plane (top-left, top-right, bottom-right,
// bottom-left as seen by the viewer) and 4-7 the far plane in the same
// order.
type FrustumCorners [8]mgl32.Vec3

const (
	NearTopLeft = iota
	NearTopRight
	NearBottomRight
	NearBottomLeft
	FarTopLeft
	FarTopRight
	FarBottomRight
	FarBottomLeft
)

// PerspectiveCorners returns the corners of the volume seen from
// position with the given rotation, looking down the rotated -Z axis.
// For perspective volumes sigma is the vertical field of view in
// degrees, for orthographic volumes it is the vertical size.
func PerspectiveCorners(ortho bool, sigma, ratio float32, position mgl32.Vec3, rotation mgl32.Quat, near, far float32) FrustumCorners {
	dir := rotation.Rotate(mgl32.Vec3{0, 0, -1})
	up := rotation.Rotate(mgl32.Vec3{0, 1, 0})
	right := dir.Cross(up)

	nc := position.Add(dir.Mul(near))
	fc := position.Add(dir.Mul(far))

	var nh, fh float32
	if ortho {
		nh = sigma * 0.5
		fh = nh
	} else {
		tang := float32(math.Tan(float64(mgl32.DegToRad(sigma) * 0.5)))
		nh = near * tang
		fh = far * tang
	}
	nw := nh * ratio
	fw := fh * ratio

	return FrustumCorners{
		nc.Add(up.Mul(nh)).Sub(right.Mul(nw)),
		nc.Add(up.Mul(nh)).Add(right.Mul(nw)),
		nc.Sub(up.Mul(nh)).Add(right.Mul(nw)),
		nc.Sub(up.Mul(nh)).Sub(right.Mul(nw)),
		fc.Add(up.Mul(fh)).Sub(right.Mul(fw)),
		fc.Add(up.Mul(fh)).Add(right.Mul(fw)),
		fc.Sub(up.Mul(fh)).Add(right.Mul(fw)),
		fc.Sub(up.Mul(fh)).Sub(right.Mul(fw)),
	}
}

// Bounds returns the box enclosing the corners.
func (c FrustumCorners) Bounds() AABB {
	return BoundsOf(c[:])
}

// Transform applies m to every corner.
func (c FrustumCorners) Transform(m mgl32.Mat4) FrustumCorners {
	var out FrustumCorners
	for i, p := range c {
		out[i] = m.Mul4x1(p.Vec4(1.0)).Vec3()
	}
	return out
}
