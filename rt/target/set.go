package target

import (
	"errors"
	"fmt"
)

// Standard target names. They double as the global texture names the
// pipeline binds on the command submitter.
const (
	SelectMap   = "selectMap"
	DepthMap    = "depthMap"
	ShadowMap   = "shadowMap"
	ShadowAtlas = "shadowAtlas"
	NormalsMap  = "normalsMap"
	DiffuseMap  = "diffuseMap"
	ParamsMap   = "paramsMap"
	EmissiveMap = "emissiveMap"
)

var (
	ErrInvalidSize   = errors.New("target: invalid size")
	ErrUnknownTarget = errors.New("target: unknown target")
	ErrDuplicate     = errors.New("target: duplicate target")
	ErrClosed        = errors.New("target: set is closed")
)

// Set owns a fixed collection of named render targets. Output-sized
// targets follow Resize, fixed targets keep their resolution for the
// lifetime of the set.
type Set struct {
	alloc  Allocator
	width  int
	height int

	order  []*Target
	byName map[string]*Target
	closed bool
}

// NewSet creates an empty set sized to the output resolution.
func NewSet(alloc Allocator, width, height int) (*Set, error) {
	if alloc == nil {
		return nil, errors.New("target: nil allocator")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &Set{
		alloc:  alloc,
		width:  width,
		height: height,
		byName: make(map[string]*Target),
	}, nil
}

// NewDeferredSet creates the targets a deferred frame needs: the
// object-id and depth targets, the four G-buffer channels, the cascade
// shadow map and the spot/point shadow atlas. On failure every target
// allocated so far is released.
func NewDeferredSet(alloc Allocator, width, height, shadowRes, atlasRes int) (*Set, error) {
	s, err := NewSet(alloc, width, height)
	if err != nil {
		return nil, err
	}
	adds := []struct {
		name   string
		format Format
	}{
		{SelectMap, FormatRGBA8},
		{DepthMap, FormatDepth24},
		{NormalsMap, FormatRGB10A2},
		{DiffuseMap, FormatRGBA8},
		{ParamsMap, FormatRGBA8},
		{EmissiveMap, FormatR11G11B10F},
	}
	for _, a := range adds {
		if _, err := s.Add(a.name, a.format); err != nil {
			s.Close()
			return nil, err
		}
	}
	if _, err := s.AddFixed(ShadowMap, FormatDepth24, shadowRes, shadowRes); err != nil {
		s.Close()
		return nil, err
	}
	if _, err := s.AddFixed(ShadowAtlas, FormatDepth24, atlasRes, atlasRes); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Add allocates an output-sized target.
func (s *Set) Add(name string, format Format) (*Target, error) {
	return s.add(name, format, s.width, s.height, false)
}

// AddFixed allocates a target that is never resized.
func (s *Set) AddFixed(name string, format Format, width, height int) (*Target, error) {
	return s.add(name, format, width, height, true)
}

func (s *Set) add(name string, format Format, width, height int, fixed bool) (*Target, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if _, ok := s.byName[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %s %dx%d", ErrInvalidSize, name, width, height)
	}
	t := &Target{name: name, width: width, height: height, format: format, fixed: fixed}
	h, err := s.alloc.Allocate(t.desc())
	if err != nil {
		return nil, fmt.Errorf("target: allocate %s: %w", name, err)
	}
	t.handle = h
	s.order = append(s.order, t)
	s.byName[name] = t
	return t, nil
}

// Get returns the named target or nil.
func (s *Set) Get(name string) *Target {
	return s.byName[name]
}

// Lookup is Get with an error for unknown names.
func (s *Set) Lookup(name string) (*Target, error) {
	t, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, name)
	}
	return t, nil
}

// Targets returns the targets in creation order.
func (s *Set) Targets() []*Target {
	out := make([]*Target, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Set) Size() (int, int) { return s.width, s.height }

// Resize reallocates every non-fixed target to width x height. The
// *Target values stay the same so bindings made against them survive.
// Non-positive sizes are rejected and the previous sizes are kept.
func (s *Set) Resize(width, height int) error {
	if s.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if width == s.width && height == s.height {
		return nil
	}
	fresh := make(map[*Target]Handle, len(s.order))
	for _, t := range s.order {
		if t.fixed {
			continue
		}
		d := t.desc()
		d.Width, d.Height = width, height
		h, err := s.alloc.Allocate(d)
		if err != nil {
			for _, nh := range fresh {
				s.alloc.Release(nh)
			}
			return fmt.Errorf("target: reallocate %s: %w", t.name, err)
		}
		fresh[t] = h
	}
	for t, h := range fresh {
		s.alloc.Release(t.handle)
		t.handle = h
		t.width, t.height = width, height
	}
	s.width, s.height = width, height
	return nil
}

// Close releases every target. The set is unusable afterwards.
func (s *Set) Close() {
	if s.closed {
		return
	}
	for _, t := range s.order {
		s.alloc.Release(t.handle)
		t.handle = nil
	}
	s.closed = true
}
