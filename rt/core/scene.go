package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Scene is a flat, ordered list of renderables with an ambient term.
// It is the simplest scene graph the pipeline can consume.
type Scene struct {
	Objects      []Renderable
	AmbientColor mgl32.Vec4
}

func NewScene() *Scene {
	return &Scene{
		Objects:      []Renderable{},
		AmbientColor: mgl32.Vec4{0.1, 0.1, 0.1, 1},
	}
}

func (s *Scene) AddObject(obj Renderable) {
	s.Objects = append(s.Objects, obj)
}

func (s *Scene) RemoveObject(obj Renderable) {
	for i, o := range s.Objects {
		if o == obj {
			s.Objects = append(s.Objects[:i], s.Objects[i+1:]...)
			return
		}
	}
}

func (s *Scene) Renderables() []Renderable { return s.Objects }
func (s *Scene) Ambient() mgl32.Vec4       { return s.AmbientColor }
