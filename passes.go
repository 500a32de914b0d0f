package deferred

import (
	"github.com/gekko3d/deferred/rt/core"
	"github.com/gekko3d/deferred/rt/cull"
	"github.com/gekko3d/deferred/rt/profile"
	"github.com/gekko3d/deferred/rt/target"

	"github.com/go-gl/mathgl/mgl32"
)

// Pass scope names, in frame order.
const (
	PassObjectID    = "objectid"
	PassGBuffer     = "gbuffer"
	PassShadow      = "shadow"
	PassLighting    = "lighting"
	PassTranslucent = "translucent"
	PassComposite   = "composite"
)

// Global names shared with the shading backend.
const (
	GlobalCameraPosition = "camera.position"
	GlobalCameraTarget   = "camera.target"
	GlobalCameraScreen   = "camera.screen"
	GlobalCameraMVPI     = "camera.mvpi"
	GlobalLightMap       = "light.map"
	GlobalLightAmbient   = "light.ambient"
	GlobalDepthWrite     = "pipeline.depthWrite"
	GlobalComposite      = "compositeMap"
)

const clearDepth = 1.0

// Draw renders one frame of scene as seen by cam into output. A nil
// output is the backend's default framebuffer. cam's aspect is set to
// the pipeline's output size.
func (p *Pipeline) Draw(scene Scene, cam *core.Camera, output *target.Target) {
	if p.closed || scene == nil || cam == nil {
		return
	}
	p.prof.Reset()
	cam.SetViewport(p.targets.Size())

	var all []core.Renderable
	for _, r := range scene.Renderables() {
		if r != nil && r.Enabled() {
			all = append(all, r)
		}
	}
	visible := cull.Cull(all, cam.FrustumCorners(cam.Near, cam.Far))
	p.prof.SetCount(profile.Visible, len(visible))

	ambient := scene.Ambient()
	p.prof.Scope(PassObjectID, func() { p.objectIDPass(cam, ambient, visible) })
	p.prof.Scope(PassGBuffer, func() { p.gbufferPass(cam, ambient, visible) })
	p.prof.Scope(PassShadow, func() { p.shadowPass(cam, all) })
	p.prof.Scope(PassLighting, func() { p.lightingPass(cam, ambient, visible) })
	p.prof.Scope(PassTranslucent, func() { p.translucentPass(visible) })
	p.prof.Scope(PassComposite, func() { p.compositePass(output) })

	p.log.Debugf("deferred: frame visible=%d/%d casters=%d tiles=%d draws=%d",
		len(visible), len(all), p.prof.Count(profile.Casters), p.prof.Count(profile.ShadowTiles), p.prof.Count(profile.Draws))
}

func (p *Pipeline) objectIDPass(cam *core.Camera, ambient mgl32.Vec4, visible []core.Renderable) {
	p.sub.SetRenderTarget([]*target.Target{p.targets.Get(target.SelectMap)}, p.targets.Get(target.DepthMap))
	p.sub.ClearRenderTarget(true, mgl32.Vec4{}, true, clearDepth)
	p.setCamera(cam, ambient)
	p.drawAll(visible, core.LayerRaycast)
}

func (p *Pipeline) gbufferPass(cam *core.Camera, ambient mgl32.Vec4, visible []core.Renderable) {
	p.sub.SetRenderTarget([]*target.Target{
		p.targets.Get(target.NormalsMap),
		p.targets.Get(target.DiffuseMap),
		p.targets.Get(target.ParamsMap),
		p.targets.Get(target.EmissiveMap),
	}, p.targets.Get(target.DepthMap))
	p.sub.ClearRenderTarget(true, cam.Background, true, clearDepth)
	p.setCamera(cam, ambient)
	p.drawAll(visible, core.LayerDefault)
}

func (p *Pipeline) lightingPass(cam *core.Camera, ambient mgl32.Vec4, visible []core.Renderable) {
	p.sub.SetRenderTarget([]*target.Target{p.targets.Get(target.EmissiveMap)}, p.targets.Get(target.DepthMap))
	p.setCamera(cam, ambient)
	p.drawAll(visible, core.LayerLight)
}

// translucentPass keeps the lighting binding and camera.
func (p *Pipeline) translucentPass(visible []core.Renderable) {
	p.sub.SetGlobalValue(GlobalDepthWrite, false)
	p.drawAll(visible, core.LayerTranslucent)
	p.sub.SetGlobalValue(GlobalDepthWrite, true)
}

func (p *Pipeline) compositePass(output *target.Target) {
	src := p.targets.Get(target.EmissiveMap)
	for _, pp := range p.post {
		if out := pp.Process(src, p.sub); out != nil {
			src = out
		}
	}

	w, h := p.targets.Size()
	var colors []*target.Target
	if output != nil {
		colors = []*target.Target{output}
		w, h = output.Size()
	}
	p.sub.SetRenderTarget(colors, nil)
	p.sub.SetViewport(0, 0, w, h)
	p.sub.SetGlobalTexture(GlobalComposite, src)
	p.sub.SetViewProjection(mgl32.Ident4(), ScreenProjection())
	if p.plane == nil || p.sprite == nil {
		return
	}
	p.sub.DrawMesh(mgl32.Ident4(), p.plane, core.LayerUI, p.sprite)
}

// ScreenProjection maps the unit plane mesh onto the full viewport.
func ScreenProjection() mgl32.Mat4 {
	return mgl32.Ortho(0.5, -0.5, -0.5, 0.5, 0, 1)
}

// setCamera binds the per-pass camera globals, the full viewport and
// the camera view-projection.
func (p *Pipeline) setCamera(cam *core.Camera, ambient mgl32.Vec4) {
	w, h := p.targets.Size()
	fw, fh := float32(w), float32(h)
	view, proj := cam.Matrices()
	pos := cam.Transform.Position
	res := float32(p.settings.ShadowResolution)

	p.sub.SetViewport(0, 0, w, h)
	p.sub.SetGlobalValue(GlobalCameraPosition, mgl32.Vec4{pos.X(), pos.Y(), pos.Z(), cam.Near})
	p.sub.SetGlobalValue(GlobalCameraTarget, mgl32.Vec4{0, 0, 0, cam.Far})
	p.sub.SetGlobalValue(GlobalCameraScreen, mgl32.Vec4{1 / fw, 1 / fh, fw, fh})
	p.sub.SetGlobalValue(GlobalCameraMVPI, proj.Mul4(view).Inv())
	p.sub.SetGlobalValue(GlobalLightMap, mgl32.Vec4{1 / res, 1 / res, res, res})
	p.sub.SetGlobalValue(GlobalLightAmbient, ambient)
	p.sub.SetViewProjection(view, proj)
}

func (p *Pipeline) drawAll(list []core.Renderable, layer core.LayerMask) {
	for _, r := range list {
		p.drawOne(r, layer)
	}
}

// drawOne isolates a failing renderable from the rest of the frame.
func (p *Pipeline) drawOne(r core.Renderable, layer core.LayerMask) {
	defer func() {
		if rec := recover(); rec != nil {
			p.log.Errorf("deferred: %s draw panicked in %s pass: %v", r.Kind(), layer, rec)
		}
	}()
	r.Draw(p.sub, layer)
}
