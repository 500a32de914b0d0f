// Package deferred is a per-frame deferred render pipeline. It culls the
// scene against the camera, orders the object-id, G-buffer, shadow,
// lighting, translucent and composite passes and owns the render
// targets they write. Commands go to a core.Submitter supplied by the
// graphics backend.
package deferred

import (
	"errors"
	"fmt"

	"github.com/gekko3d/deferred/rt/core"
	"github.com/gekko3d/deferred/rt/profile"
	"github.com/gekko3d/deferred/rt/shadow"
	"github.com/gekko3d/deferred/rt/target"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

var (
	ErrInvalidSize = target.ErrInvalidSize
	ErrClosed      = errors.New("deferred: pipeline is closed")
)

// Scene is what the pipeline draws each frame.
type Scene interface {
	Renderables() []core.Renderable
	Ambient() mgl32.Vec4
}

// PostProcessor transforms the lit image before composite. It returns
// the target holding its result, or nil to keep src.
type PostProcessor interface {
	Process(src *target.Target, sub core.Submitter) *target.Target
}

type Options struct {
	Settings       SettingsProvider // DefaultSettings when nil
	Logger         Logger           // no logging when nil
	PostProcessors []PostProcessor

	// Plane and Sprite draw the final full-screen quad. Composite draws
	// nothing when either is nil.
	Plane  *core.Mesh
	Sprite *core.Material
}

type Pipeline struct {
	sub      *countingSubmitter
	log      Logger
	settings Settings

	targets    *target.Set
	atlas      *shadow.Atlas
	cascade    shadow.CascadeConfig
	strategies map[core.Kind]ShadowStrategy
	post       []PostProcessor
	plane      *core.Mesh
	sprite     *core.Material

	prof   *profile.Profiler
	warned map[uuid.UUID]bool
	closed bool
}

// New creates the pipeline and its render targets. Allocation failures
// are returned and leave nothing allocated.
func New(sub core.Submitter, alloc target.Allocator, opts Options) (*Pipeline, error) {
	if sub == nil {
		return nil, errors.New("deferred: nil submitter")
	}
	if alloc == nil {
		return nil, errors.New("deferred: nil allocator")
	}

	provider := opts.Settings
	if provider == nil {
		provider = StaticSettings(DefaultSettings())
	}
	s, err := provider.Settings()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = NewNopLogger()
	}
	if s.Debug {
		logger.SetDebug(true)
	}

	set, err := target.NewDeferredSet(alloc, s.Width, s.Height, s.ShadowResolution, s.AtlasResolution)
	if err != nil {
		return nil, fmt.Errorf("deferred: create targets: %w", err)
	}
	atlas, err := shadow.NewAtlas(s.AtlasResolution, s.AtlasResolution, s.AtlasTile)
	if err != nil {
		set.Close()
		return nil, err
	}

	prof := profile.NewProfiler()
	p := &Pipeline{
		sub:        &countingSubmitter{Submitter: sub, prof: prof},
		log:        logger,
		settings:   s,
		targets:    set,
		atlas:      atlas,
		cascade:    s.cascadeConfig(),
		strategies: defaultStrategies(),
		post:       opts.PostProcessors,
		plane:      opts.Plane,
		sprite:     opts.Sprite,
		prof:       prof,
		warned:     make(map[uuid.UUID]bool),
	}
	p.bindTargets()
	logger.Infof("deferred: pipeline %dx%d, %d cascades at %d, atlas %d/%d",
		s.Width, s.Height, s.Cascades, s.ShadowResolution, s.AtlasResolution, s.AtlasTile)
	return p, nil
}

// bindTargets exposes the output-sized targets as global textures.
// Shadow targets are bound by the lights that own a slot in them.
func (p *Pipeline) bindTargets() {
	for _, t := range p.targets.Targets() {
		if t.Fixed() {
			continue
		}
		p.sub.SetGlobalTexture(t.Name(), t)
	}
}

// RegisterShadowStrategy routes lights of kind to s in the shadow pass,
// replacing any previous strategy for that kind. A nil s disables
// shadows for the kind.
func (p *Pipeline) RegisterShadowStrategy(kind core.Kind, s ShadowStrategy) {
	if s == nil {
		delete(p.strategies, kind)
		return
	}
	p.strategies[kind] = s
}

// Resize reallocates the output-sized targets. Shadow targets keep
// their resolution. Non-positive sizes return ErrInvalidSize and keep
// the current size.
func (p *Pipeline) Resize(width, height int) error {
	if p.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		p.log.Warnf("deferred: rejected resize to %dx%d", width, height)
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if err := p.targets.Resize(width, height); err != nil {
		p.log.Errorf("deferred: resize to %dx%d failed: %v", width, height, err)
		return err
	}
	p.log.Infof("deferred: resized to %dx%d", width, height)
	return nil
}

// Close releases every target. Draw and Resize do nothing afterwards.
func (p *Pipeline) Close() {
	if p.closed {
		return
	}
	p.targets.Close()
	p.atlas.Reset()
	clear(p.warned)
	p.closed = true
}

// Target returns the named render target or nil.
func (p *Pipeline) Target(name string) *target.Target { return p.targets.Get(name) }

func (p *Pipeline) Plane() *core.Mesh           { return p.plane }
func (p *Pipeline) Sprite() *core.Material      { return p.sprite }
func (p *Pipeline) Size() (int, int)            { return p.targets.Size() }
func (p *Pipeline) Settings() Settings          { return p.settings }
func (p *Pipeline) Atlas() *shadow.Atlas        { return p.atlas }
func (p *Pipeline) Profiler() *profile.Profiler { return p.prof }

// Stats formats the timings and counters of the last frame.
func (p *Pipeline) Stats() string { return p.prof.String() }

// countingSubmitter counts draws for the profiler.
type countingSubmitter struct {
	core.Submitter
	prof *profile.Profiler
}

func (c *countingSubmitter) DrawMesh(transform mgl32.Mat4, mesh *core.Mesh, layer core.LayerMask, material *core.Material) {
	c.prof.Add(profile.Draws, 1)
	c.Submitter.DrawMesh(transform, mesh, layer, material)
}
