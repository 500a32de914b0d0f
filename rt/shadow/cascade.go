// Package shadow computes shadow projections: cascaded maps for
// directional lights and atlas tiles for spot and point lights.
package shadow

import (
	"errors"
	"fmt"
	"math"

	"github.com/gekko3d/deferred/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultCascades   = core.MaxCascades
	DefaultSplitBlend = 0.95
	DefaultDepthRange = 100.0
	DefaultResolution = 2048
)

var ErrInvalidRange = errors.New("shadow: invalid camera range")

// CascadeConfig tunes ScheduleCascades.
type CascadeConfig struct {
	Count      int     // 1..core.MaxCascades
	SplitBlend float32 // 0 is uniform, 1 is logarithmic
	DepthRange float32 // half depth of each crop volume in light space
	Resolution int     // side of the square cascade shadow map

	// Recenter centres each crop's depth range on its cascade box
	// instead of on the light-space origin.
	Recenter bool
}

func DefaultCascadeConfig() CascadeConfig {
	return CascadeConfig{
		Count:      DefaultCascades,
		SplitBlend: DefaultSplitBlend,
		DepthRange: DefaultDepthRange,
		Resolution: DefaultResolution,
	}
}

func (c CascadeConfig) Validate() error {
	if c.Count < 1 || c.Count > core.MaxCascades {
		return fmt.Errorf("shadow: cascade count %d out of range 1..%d", c.Count, core.MaxCascades)
	}
	if c.SplitBlend < 0 || c.SplitBlend > 1 {
		return fmt.Errorf("shadow: split blend %v out of range 0..1", c.SplitBlend)
	}
	if c.DepthRange <= 0 {
		return fmt.Errorf("shadow: depth range %v must be positive", c.DepthRange)
	}
	if c.Resolution < 2 {
		return fmt.Errorf("shadow: resolution %d too small", c.Resolution)
	}
	return nil
}

// Splits returns the far distance of each of n cascades over
// [near, far], mixing a uniform and a logarithmic distribution by blend.
// The result is strictly increasing and ends at far.
func Splits(near, far, blend float32, n int) []float32 {
	if n <= 0 {
		return nil
	}
	out := make([]float32, n)
	fn, ff, b := float64(near), float64(far), float64(blend)
	for i := 0; i < n; i++ {
		f := float64(i+1) / float64(n)
		l := fn * math.Pow(ff/fn, f)
		u := fn + (ff-fn)*f
		out[i] = float32(u + (l-u)*b)
	}
	out[n-1] = far
	for i := n - 2; i >= 0; i-- {
		if out[i] >= out[i+1] {
			out[i] = math.Nextafter32(out[i+1], float32(math.Inf(-1)))
		}
	}
	return out
}

// Bias maps clip space [-1,1] to texture space [0,1].
func Bias() mgl32.Mat4 {
	return mgl32.Translate3D(0.5, 0.5, 0.5).Mul4(mgl32.Scale3D(0.5, 0.5, 0.5))
}

// NormalizedDepth projects a view distance through proj and returns its
// depth-buffer value in [0,1].
func NormalizedDepth(proj mgl32.Mat4, distance float32) float32 {
	clip := proj.Mul4x1(mgl32.Vec4{0, 0, -distance, 1})
	if clip.W() == 0 {
		return 1
	}
	return clip.Z()/clip.W()*0.5 + 0.5
}

// CascadeTile is the viewport of cascade i on a 2x2 grid over a
// width x height shadow map.
func CascadeTile(i, width, height int) core.Rect {
	w, h := width/2, height/2
	return core.Rect{X: (i % 2) * w, Y: (i / 2) * h, W: w, H: h}
}

// LightView is the view matrix of a directional light: the inverse of
// its rotation, position ignored.
func LightView(rotation mgl32.Quat) mgl32.Mat4 {
	return rotation.Normalize().Conjugate().Mat4()
}

// ScheduleCascades fits one orthographic crop per cascade around the
// camera sub-frustum [previous split, split) as seen from a directional
// light with the given rotation. The crop spans x and y of the slice's
// light-space box and [-DepthRange, DepthRange] in depth, about the
// light-space origin unless cfg.Recenter is set.
func ScheduleCascades(cam *core.Camera, rotation mgl32.Quat, cfg CascadeConfig) (core.CascadeState, error) {
	var st core.CascadeState
	if err := cfg.Validate(); err != nil {
		return st, err
	}
	if !(cam.Near > 0) || !(cam.Far > cam.Near) {
		return st, fmt.Errorf("%w: near=%v far=%v", ErrInvalidRange, cam.Near, cam.Far)
	}

	view := LightView(rotation)
	proj := cam.ProjectionMatrix()
	bias := Bias()
	splits := Splits(cam.Near, cam.Far, cfg.SplitBlend, cfg.Count)

	st.Count = cfg.Count
	st.View = view
	prev := cam.Near
	for i, d := range splits {
		box := cam.FrustumCorners(prev, d).Transform(view).Bounds()
		crop := cropMatrix(box, cfg)
		tile := CascadeTile(i, cfg.Resolution, cfg.Resolution)

		st.Distances[i] = d
		st.Normalized[i] = NormalizedDepth(proj, d)
		st.Crop[i] = crop
		st.Matrix[i] = bias.Mul4(crop).Mul4(view)
		st.Tiles[i] = tile
		st.TilesUV[i] = tile.Normalized(cfg.Resolution, cfg.Resolution)
		prev = d
	}
	return st, nil
}

func cropMatrix(box core.AABB, cfg CascadeConfig) mgl32.Mat4 {
	near, far := -cfg.DepthRange, cfg.DepthRange
	if cfg.Recenter {
		// Ortho near/far are distances along -Z of light view space.
		cz := box.Center().Z()
		near, far = -(cz + cfg.DepthRange), -(cz - cfg.DepthRange)
	}
	return mgl32.Ortho(box.Min.X(), box.Max.X(), box.Min.Y(), box.Max.Y(), near, far)
}
