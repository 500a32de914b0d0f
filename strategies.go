package deferred

import (
	"github.com/gekko3d/deferred/rt/core"
	"github.com/gekko3d/deferred/rt/cull"
	"github.com/gekko3d/deferred/rt/profile"
	"github.com/gekko3d/deferred/rt/shadow"
	"github.com/gekko3d/deferred/rt/target"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// ShadowStrategy renders the shadows of one light. The pipeline picks
// the strategy by the light's Kind.
type ShadowStrategy func(pass *ShadowPass, light core.Renderable)

func defaultStrategies() map[core.Kind]ShadowStrategy {
	return map[core.Kind]ShadowStrategy{
		core.KindDirectionalLight: DirectionalShadows,
		core.KindSpotLight:        SpotShadows,
		core.KindPointLight:       PointShadows,
	}
}

// ShadowPass is the per-frame state handed to shadow strategies.
type ShadowPass struct {
	p *Pipeline

	Camera *core.Camera

	// Casters are the enabled renderables on the SHADOWCAST layer,
	// before any culling.
	Casters []core.Renderable

	seen    map[uuid.UUID]bool
	primary bool
}

func (s *ShadowPass) Submitter() core.Submitter         { return s.p.sub }
func (s *ShadowPass) Atlas() *shadow.Atlas              { return s.p.atlas }
func (s *ShadowPass) Target(name string) *target.Target { return s.p.targets.Get(name) }
func (s *ShadowPass) Logger() Logger                    { return s.p.log }

// Keep marks an atlas owner as alive this frame. Tiles of owners not
// kept are released when the pass ends.
func (s *ShadowPass) Keep(id uuid.UUID) { s.seen[id] = true }

// DrawCasters draws casters with the SHADOWCAST layer.
func (s *ShadowPass) DrawCasters(casters []core.Renderable) {
	s.p.drawAll(casters, core.LayerShadowcast)
}

// RequestTiles allocates atlas tiles for id, logging exhaustion once
// per light until an allocation succeeds again.
func (s *ShadowPass) RequestTiles(id uuid.UUID, count int) ([]core.Rect, bool) {
	s.Keep(id)
	tiles, err := s.p.atlas.RequestTiles(id, count)
	if err != nil {
		if !s.p.warned[id] {
			s.p.log.Warnf("deferred: no shadow tiles for light %s: %v", id, err)
			s.p.warned[id] = true
		}
		return nil, false
	}
	delete(s.p.warned, id)
	return tiles, true
}

// Release frees the atlas tiles of id.
func (s *ShadowPass) Release(id uuid.UUID) {
	s.p.atlas.Release(id)
	delete(s.p.warned, id)
}

// RenderTile clears one atlas tile and draws casters into it.
func (s *ShadowPass) RenderTile(tile core.Rect, proj shadow.Projection, casters []core.Renderable) {
	sub := s.p.sub
	sub.EnableScissor(tile.X, tile.Y, tile.W, tile.H)
	sub.ClearRenderTarget(false, mgl32.Vec4{}, true, clearDepth)
	sub.DisableScissor()
	sub.SetViewport(tile.X, tile.Y, tile.W, tile.H)
	sub.SetViewProjection(proj.View, proj.Crop)
	s.DrawCasters(casters)
	s.p.prof.Add(profile.ShadowTiles, 1)
}

func (s *ShadowPass) bindAtlas() *target.Target {
	t := s.p.targets.Get(target.ShadowAtlas)
	s.p.sub.SetRenderTarget(nil, t)
	return t
}

func (p *Pipeline) shadowPass(cam *core.Camera, all []core.Renderable) {
	pass := &ShadowPass{p: p, Camera: cam, seen: make(map[uuid.UUID]bool)}
	for _, r := range all {
		if r.LayerMask().Has(core.LayerShadowcast) {
			pass.Casters = append(pass.Casters, r)
		}
	}
	p.prof.SetCount(profile.Casters, len(pass.Casters))

	for _, r := range all {
		if strategy, ok := p.strategies[r.Kind()]; ok {
			strategy(pass, r)
		}
	}

	for id := range p.warned {
		if !pass.seen[id] {
			delete(p.warned, id)
		}
	}
	if n := p.atlas.Sweep(pass.seen); n > 0 {
		p.log.Debugf("deferred: released shadow tiles of %d lights", n)
	}
}

// DirectionalShadows renders cascades for the first shadow-casting
// directional light of the frame. Any other directional light gets no
// shadow map, since all cascades share the single ShadowMap target.
func DirectionalShadows(pass *ShadowPass, light core.Renderable) {
	l, ok := light.(core.DirectionalCaster)
	if !ok {
		return
	}
	st := l.CascadeShadow()
	if !l.CastShadows() || pass.primary {
		st.Reset()
		return
	}
	pass.primary = true

	cs, err := shadow.ScheduleCascades(pass.Camera, l.Rotation(), pass.p.cascade)
	if err != nil {
		pass.Logger().Warnf("deferred: cascades for light %s: %v", l.ID(), err)
		st.Reset()
		return
	}
	cs.Target = pass.Target(target.ShadowMap)
	*st = cs

	sub := pass.Submitter()
	sub.SetRenderTarget(nil, cs.Target)
	sub.ClearRenderTarget(false, mgl32.Vec4{}, true, clearDepth)
	for i := 0; i < cs.Count; i++ {
		tile := cs.Tiles[i]
		sub.SetViewport(tile.X, tile.Y, tile.W, tile.H)
		sub.SetViewProjection(cs.View, cs.Crop[i])
		pass.DrawCasters(pass.Casters)
		pass.p.prof.Add(profile.ShadowTiles, 1)
	}
}

// SpotShadows renders a spot light into one atlas tile.
func SpotShadows(pass *ShadowPass, light core.Renderable) {
	l, ok := light.(core.SpotCaster)
	if !ok {
		return
	}
	st := l.SpotShadow()
	if !l.CastShadows() {
		pass.Release(l.ID())
		st.Reset()
		return
	}
	tiles, ok := pass.RequestTiles(l.ID(), 1)
	if !ok {
		st.Reset()
		return
	}

	pos, rot, fov, near, far := l.ShadowFrustum()
	proj := shadow.SpotProjection(pos, rot, fov, near, far)
	casters := cull.Cull(pass.Casters, shadow.SpotCorners(pos, rot, fov, near, far))

	aw, ah := pass.Atlas().Size()
	*st = core.SpotShadowState{
		View:   proj.View,
		Crop:   proj.Crop,
		Matrix: proj.Matrix,
		Tile:   tiles[0],
		TileUV: tiles[0].Normalized(aw, ah),
		Target: pass.bindAtlas(),
	}
	pass.RenderTile(tiles[0], proj, casters)
}

// PointShadows renders the six cube faces of a point light into six
// atlas tiles.
func PointShadows(pass *ShadowPass, light core.Renderable) {
	l, ok := light.(core.PointCaster)
	if !ok {
		return
	}
	st := l.PointShadow()
	if !l.CastShadows() {
		pass.Release(l.ID())
		st.Reset()
		return
	}
	tiles, ok := pass.RequestTiles(l.ID(), core.CubeFaces)
	if !ok {
		st.Reset()
		return
	}

	pos := l.Position()
	near, far := l.ShadowRange()
	aw, ah := pass.Atlas().Size()
	st.Target = pass.bindAtlas()
	for face := 0; face < core.CubeFaces; face++ {
		proj := shadow.PointProjection(pos, face, near, far)
		casters := cull.Cull(pass.Casters, shadow.PointCorners(pos, face, near, far))

		st.View[face] = proj.View
		st.Crop = proj.Crop
		st.Matrix[face] = proj.Matrix
		st.Tiles[face] = tiles[face]
		st.TilesUV[face] = tiles[face].Normalized(aw, ah)
		pass.RenderTile(tiles[face], proj, casters)
	}
}
