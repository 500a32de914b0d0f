// Package cull selects the renderables that may be visible inside a view
// volume.
package cull

import (
	"github.com/gekko3d/deferred/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

// Plane indices of Planes.
const (
	Top = iota
	Bottom
	Left
	Right
	Near
	Far
)

// Planes derives the six bounding planes of a frustum from its corners.
// Normals point into the volume.
func Planes(c core.FrustumCorners) [6]core.Plane {
	var pl [6]core.Plane
	pl[Top] = core.PlaneFromPoints(c[1], c[0], c[4])
	pl[Bottom] = core.PlaneFromPoints(c[7], c[3], c[2])
	pl[Left] = core.PlaneFromPoints(c[3], c[7], c[0])
	pl[Right] = core.PlaneFromPoints(c[2], c[1], c[6])
	pl[Near] = core.PlaneFromPoints(c[0], c[1], c[3])
	pl[Far] = core.PlaneFromPoints(c[5], c[4], c[6])
	return pl
}

// Intersects reports whether the points are not all outside a single
// plane. This only tests the frustum's own planes, so a box near an edge
// may pass without touching the volume; a box that touches it never
// fails.
func Intersects(planes *[6]core.Plane, points *[8]mgl32.Vec3) bool {
	for i := range planes {
		outside := true
		for _, p := range points {
			if planes[i].Distance(p) > 0 {
				outside = false
				break
			}
		}
		if outside {
			return false
		}
	}
	return true
}

// BoxVisible tests local bounds placed by a world transform.
func BoxVisible(planes *[6]core.Plane, bounds core.AABB, world mgl32.Mat4) bool {
	pts := bounds.Corners()
	for i, p := range pts {
		pts[i] = world.Mul4x1(p.Vec4(1.0)).Vec3()
	}
	return Intersects(planes, &pts)
}

// Cull returns the candidates that may be visible inside corners, in
// input order. Candidates without bounds are always kept.
func Cull(candidates []core.Renderable, corners core.FrustumCorners) []core.Renderable {
	planes := Planes(corners)
	result := make([]core.Renderable, 0, len(candidates))
	for _, r := range candidates {
		b, ok := r.(core.Bounded)
		if !ok {
			result = append(result, r)
			continue
		}
		bounds, ok := b.Bounds()
		if !ok || BoxVisible(&planes, bounds, r.WorldTransform()) {
			result = append(result, r)
		}
	}
	return result
}
