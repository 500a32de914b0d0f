package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Camera struct {
	Transform *Transform

	Fov          float32 // vertical, degrees
	Near         float32
	Far          float32
	Aspect       float32
	Orthographic bool
	OrthoSize    float32
	Background   mgl32.Vec4
}

func NewCamera() *Camera {
	return &Camera{
		Transform:  NewTransform(),
		Fov:        45.0,
		Near:       0.1,
		Far:        1000.0,
		Aspect:     1.0,
		OrthoSize:  1.0,
		Background: mgl32.Vec4{0, 0, 0, 1},
	}
}

// SetViewport updates the aspect ratio from an output size.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return c.Transform.RigidInverse()
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	if c.Orthographic {
		h := c.OrthoSize * 0.5
		w := h * c.Aspect
		return mgl32.Ortho(-w, w, -h, h, c.Near, c.Far)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

// Matrices returns view and projection together.
func (c *Camera) Matrices() (view, projection mgl32.Mat4) {
	return c.ViewMatrix(), c.ProjectionMatrix()
}

// FrustumCorners returns the world-space corners of the camera volume
// between the near and far distances.
func (c *Camera) FrustumCorners(near, far float32) FrustumCorners {
	sigma := c.Fov
	if c.Orthographic {
		sigma = c.OrthoSize
	}
	return PerspectiveCorners(c.Orthographic, sigma, c.Aspect, c.Transform.Position, c.Transform.Rotation, near, far)
}
