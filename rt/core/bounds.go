package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned box. Min <= Max component-wise for a valid box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func NewAABB(min, max mgl32.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// BoundsOf returns the smallest box enclosing points.
func BoundsOf(points []mgl32.Vec3) AABB {
	inf := float32(math.Inf(1))
	b := AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
	for _, p := range points {
		b = b.Extend(p)
	}
	return b
}

func (b AABB) Valid() bool {
	return b.Min.X() <= b.Max.X() && b.Min.Y() <= b.Max.Y() && b.Min.Z() <= b.Max.Z()
}

func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) Extent() mgl32.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Extend grows the box to include p.
func (b AABB) Extend(p mgl32.Vec3) AABB {
	return AABB{
		Min: mgl32.Vec3{min(b.Min.X(), p.X()), min(b.Min.Y(), p.Y()), min(b.Min.Z(), p.Z())},
		Max: mgl32.Vec3{max(b.Max.X(), p.X()), max(b.Max.Y(), p.Y()), max(b.Max.Z(), p.Z())},
	}
}

// Corners returns the 8 box corners, bottom face first.
func (b AABB) Corners() [8]mgl32.Vec3 {
	mn, mx := b.Min, b.Max
	return [8]mgl32.Vec3{
		{mn.X(), mn.Y(), mn.Z()},
		{mn.X(), mn.Y(), mx.Z()},
		{mx.X(), mn.Y(), mx.Z()},
		{mx.X(), mn.Y(), mn.Z()},
		{mn.X(), mx.Y(), mn.Z()},
		{mn.X(), mx.Y(), mx.Z()},
		{mx.X(), mx.Y(), mx.Z()},
		{mx.X(), mx.Y(), mn.Z()},
	}
}

// Transform returns the box enclosing b's corners after applying m.
func (b AABB) Transform(m mgl32.Mat4) AABB {
	corners := b.Corners()
	for i, c := range corners {
		corners[i] = m.Mul4x1(c.Vec4(1.0)).Vec3()
	}
	return BoundsOf(corners[:])
}
