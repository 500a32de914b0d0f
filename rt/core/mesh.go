package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultMeshLayers is the layer set of a newly created MeshRenderer.
const DefaultMeshLayers = LayerDefault | LayerRaycast | LayerShadowcast

// MeshRenderer draws a mesh with a material.
type MeshRenderer struct {
	Transform *Transform
	Mesh      *Mesh
	Material  *Material
	Layers    LayerMask
	PickID    uint32
	Disabled  bool
}

func NewMeshRenderer(mesh *Mesh, material *Material) *MeshRenderer {
	return &MeshRenderer{
		Transform: NewTransform(),
		Mesh:      mesh,
		Material:  material,
		Layers:    DefaultMeshLayers,
	}
}

func (m *MeshRenderer) Kind() Kind                 { return KindMesh }
func (m *MeshRenderer) Enabled() bool              { return !m.Disabled }
func (m *MeshRenderer) LayerMask() LayerMask       { return m.Layers }
func (m *MeshRenderer) WorldTransform() mgl32.Mat4 { return m.Transform.ObjectToWorld() }

func (m *MeshRenderer) Bounds() (AABB, bool) {
	if m.Mesh == nil {
		return AABB{}, false
	}
	return m.Mesh.Bounds, true
}

// Draw issues the mesh when one of its layers is requested. In the
// RAYCAST pass the object id is encoded into the current color.
func (m *MeshRenderer) Draw(sub Submitter, layer LayerMask) {
	if m.Mesh == nil || m.Material == nil || layer&m.Layers == 0 {
		return
	}
	if layer&LayerRaycast != 0 {
		sub.SetColor(IDToColor(m.PickID))
	}
	sub.DrawMesh(m.WorldTransform(), m.Mesh, layer, m.Material)
	sub.SetColor(mgl32.Vec4{1, 1, 1, 1})
}
