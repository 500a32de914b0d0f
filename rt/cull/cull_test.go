package cull

import (
	"testing"

	"github.com/gekko3d/deferred/rt/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(min, max mgl32.Vec3) *core.MeshRenderer {
	return core.NewMeshRenderer(&core.Mesh{Name: "box", Bounds: core.NewAABB(min, max)}, &core.Material{Name: "default"})
}

// unitCube is a view volume shaped like the cube [-h,h]^3 seen from +Z.
func unitCube(h float32) core.FrustumCorners {
	return core.PerspectiveCorners(true, 2*h, 1, mgl32.Vec3{0, 0, h}, mgl32.QuatIdent(), 0, 2*h)
}

func TestFrustumCulling(t *testing.T) {
	// Camera at origin looking down -Z.
	// Perspective: 90 deg FOV, Aspect 1.0, Near 1, Far 100
	corners := core.PerspectiveCorners(false, 90, 1, mgl32.Vec3{}, mgl32.QuatIdent(), 1, 100)
	planes := Planes(corners)

	tests := []struct {
		name     string
		aabbMin  mgl32.Vec3
		aabbMax  mgl32.Vec3
		expected bool
	}{
		{
			name:     "Inside (center)",
			aabbMin:  mgl32.Vec3{-1, -1, -10},
			aabbMax:  mgl32.Vec3{1, 1, -5},
			expected: true,
		},
		{
			name:     "Outside (Left)",
			aabbMin:  mgl32.Vec3{-20, -1, -10},
			aabbMax:  mgl32.Vec3{-15, 1, -5},
			expected: false,
		},
		{
			name:     "Outside (Right)",
			aabbMin:  mgl32.Vec3{15, -1, -10},
			aabbMax:  mgl32.Vec3{20, 1, -5},
			expected: false,
		},
		{
			name:     "Outside (Top)",
			aabbMin:  mgl32.Vec3{-1, 15, -10},
			aabbMax:  mgl32.Vec3{1, 20, -5},
			expected: false,
		},
		{
			name:     "Outside (Behind/Near)",
			aabbMin:  mgl32.Vec3{-1, -1, 2},
			aabbMax:  mgl32.Vec3{1, 1, 5},
			expected: false,
		},
		{
			name:     "Outside (Far)",
			aabbMin:  mgl32.Vec3{-1, -1, -200},
			aabbMax:  mgl32.Vec3{1, 1, -150},
			expected: false,
		},
		{
			name:     "Intersecting (Left Plane)",
			aabbMin:  mgl32.Vec3{-15, -1, -10}, // Left edge is at -10 (tan(45)*10)
			aabbMax:  mgl32.Vec3{-5, 1, -5},
			expected: true,
		},
		{
			name:     "Intersecting (Far Plane)",
			aabbMin:  mgl32.Vec3{-1, -1, -120},
			aabbMax:  mgl32.Vec3{1, 1, -90},
			expected: true,
		},
		{
			name:     "Encompassing (Huge box)",
			aabbMin:  mgl32.Vec3{-1000, -1000, -1000},
			aabbMax:  mgl32.Vec3{1000, 1000, 1000},
			expected: true,
		},
	}

	for _, tc := range tests {
		visible := BoxVisible(&planes, core.NewAABB(tc.aabbMin, tc.aabbMax), mgl32.Ident4())
		if visible != tc.expected {
			t.Errorf("Test %s failed: expected %v, got %v", tc.name, tc.expected, visible)
			for i, p := range planes {
				center := tc.aabbMin.Add(tc.aabbMax).Mul(0.5)
				t.Logf("  P%d: %v, Dist(Center)=%f", i, p, p.Distance(center))
			}
		}
	}
}

func TestPlanes_PointInward(t *testing.T) {
	corners := core.PerspectiveCorners(false, 60, 1.5, mgl32.Vec3{3, 1, 2}, mgl32.QuatRotate(0.7, mgl32.Vec3{0, 1, 0}), 0.5, 20)
	planes := Planes(corners)

	var center mgl32.Vec3
	for _, c := range corners {
		center = center.Add(c)
	}
	center = center.Mul(1.0 / 8)

	for i, p := range planes {
		assert.Greater(t, p.Distance(center), float32(0), "plane %d", i)
		assert.InDelta(t, 1, p.Normal.Len(), 1e-5, "plane %d", i)
	}
}

func TestCull_UnitCubeScenario(t *testing.T) {
	for _, h := range []float32{0.5, 1} {
		outside := box(mgl32.Vec3{-2, -2, -2}, mgl32.Vec3{-1, -1, -1})
		inside := box(mgl32.Vec3{-0.1, -0.1, -0.1}, mgl32.Vec3{0.1, 0.1, 0.1})

		got := Cull([]core.Renderable{outside, inside}, unitCube(h))
		assert.Equal(t, []core.Renderable{inside}, got, "half size %v", h)
	}
}

func TestCull_OutsideEachPlane(t *testing.T) {
	corners := unitCube(1)
	offsets := []mgl32.Vec3{
		{3, 0, 0}, {-3, 0, 0},
		{0, 3, 0}, {0, -3, 0},
		{0, 0, 3}, {0, 0, -3},
	}
	for _, off := range offsets {
		b := box(mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0.5, 0.5})
		b.Transform.Position = off
		assert.Empty(t, Cull([]core.Renderable{b}, corners), "offset %v", off)
	}
}

func TestCull_StraddlingKept(t *testing.T) {
	corners := unitCube(0.5)
	straddle := box(mgl32.Vec3{0.4, -0.1, -0.1}, mgl32.Vec3{0.6, 0.1, 0.1})
	corner := box(mgl32.Vec3{0.45, 0.45, 0.45}, mgl32.Vec3{2, 2, 2})

	got := Cull([]core.Renderable{straddle, corner}, corners)
	assert.Len(t, got, 2)
}

func TestCull_RotationMovesCorners(t *testing.T) {
	corners := unitCube(0.5)

	plain := box(mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0.5, 0.5})
	plain.Transform.Position = mgl32.Vec3{-1.1, 0, 0}

	rotated := box(mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0.5, 0.5})
	rotated.Transform.Position = mgl32.Vec3{-1.1, 0, 0}
	rotated.Transform.Rotation = mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 0, 1})

	got := Cull([]core.Renderable{plain, rotated}, corners)
	require.Len(t, got, 1)
	assert.Same(t, rotated, got[0])
}

func TestCull_ConservativeCornerCase(t *testing.T) {
	// A thin sliver running diagonally past the (+x,+y) edge of the cube.
	// No single plane separates it, so it is kept although it never
	// touches the volume.
	sliver := box(mgl32.Vec3{-1, -0.02, -0.3}, mgl32.Vec3{1, 0.02, 0.3})
	sliver.Transform.Position = mgl32.Vec3{0.8, 0.8, 0}
	sliver.Transform.Rotation = mgl32.QuatRotate(mgl32.DegToRad(-45), mgl32.Vec3{0, 0, 1})

	got := Cull([]core.Renderable{sliver}, unitCube(0.5))
	assert.Len(t, got, 1)
}

func TestCull_UnboundedKept(t *testing.T) {
	corners := unitCube(0.5)
	light := core.NewDirectionalLight(nil, nil)
	noMesh := core.NewMeshRenderer(nil, nil)
	noMesh.Transform.Position = mgl32.Vec3{100, 0, 0}
	far := box(mgl32.Vec3{-0.1, -0.1, -0.1}, mgl32.Vec3{0.1, 0.1, 0.1})
	far.Transform.Position = mgl32.Vec3{100, 0, 0}

	got := Cull([]core.Renderable{light, far, noMesh}, corners)
	assert.Equal(t, []core.Renderable{light, noMesh}, got)
}
