// Package record provides a Submitter that records the command stream
// of a frame instead of executing it. It backs headless runs and tests.
package record

import (
	"fmt"
	"io"
	"strings"

	"github.com/gekko3d/deferred/rt/core"
	"github.com/gekko3d/deferred/rt/target"

	"github.com/go-gl/mathgl/mgl32"
)

type Op uint8

const (
	OpClear Op = iota
	OpSetTarget
	OpViewport
	OpScissor
	OpNoScissor
	OpViewProjection
	OpGlobalTexture
	OpGlobalValue
	OpColor
	OpDraw
)

var opNames = [...]string{
	OpClear:          "Clear",
	OpSetTarget:      "SetTarget",
	OpViewport:       "Viewport",
	OpScissor:        "Scissor",
	OpNoScissor:      "NoScissor",
	OpViewProjection: "ViewProjection",
	OpGlobalTexture:  "GlobalTexture",
	OpGlobalValue:    "GlobalValue",
	OpColor:          "Color",
	OpDraw:           "Draw",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Command is one recorded call. Only the fields relevant to Op are set.
type Command struct {
	Op Op

	// SetTarget
	Colors []*target.Target
	Depth  *target.Target

	// Viewport, Scissor
	Rect core.Rect

	// Clear
	ClearColor bool
	Color      mgl32.Vec4
	ClearDepth bool
	DepthValue float32

	// ViewProjection
	View       mgl32.Mat4
	Projection mgl32.Mat4

	// GlobalTexture, GlobalValue
	Name    string
	Texture *target.Target
	Value   any

	// Draw. Bound holds the color targets active when the draw was issued.
	Transform mgl32.Mat4
	Mesh      *core.Mesh
	Layer     core.LayerMask
	Material  *core.Material
	Bound     []*target.Target
}

func (c Command) String() string {
	switch c.Op {
	case OpClear:
		return fmt.Sprintf("Clear color=%t %v depth=%t %v", c.ClearColor, c.Color, c.ClearDepth, c.DepthValue)
	case OpSetTarget:
		return fmt.Sprintf("SetTarget %s depth=%s", targetNames(c.Colors), c.Depth)
	case OpViewport, OpScissor:
		return fmt.Sprintf("%s %d,%d %dx%d", c.Op, c.Rect.X, c.Rect.Y, c.Rect.W, c.Rect.H)
	case OpGlobalTexture:
		return fmt.Sprintf("GlobalTexture %s=%s", c.Name, c.Texture)
	case OpGlobalValue:
		return fmt.Sprintf("GlobalValue %s=%v", c.Name, c.Value)
	case OpColor:
		return fmt.Sprintf("Color %v", c.Color)
	case OpDraw:
		mesh, mat := "<nil>", "<nil>"
		if c.Mesh != nil {
			mesh = c.Mesh.Name
		}
		if c.Material != nil {
			mat = c.Material.Name
		}
		return fmt.Sprintf("Draw %s/%s layer=%s into %s", mesh, mat, c.Layer, targetNames(c.Bound))
	}
	return c.Op.String()
}

func targetNames(ts []*target.Target) string {
	if len(ts) == 0 {
		return "[default]"
	}
	names := make([]string, len(ts))
	for i, t := range ts {
		if t == nil {
			names[i] = "default"
			continue
		}
		names[i] = t.Name()
	}
	return "[" + strings.Join(names, " ") + "]"
}

// Recorder implements core.Submitter. Besides the raw command list it
// tracks the current bindings so tests can inspect the state a draw saw.
type Recorder struct {
	commands []Command

	colors   []*target.Target
	depth    *target.Target
	scissor  bool
	textures map[string]*target.Target
	values   map[string]any
}

var _ core.Submitter = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{
		textures: make(map[string]*target.Target),
		values:   make(map[string]any),
	}
}

func (r *Recorder) ClearRenderTarget(clearColor bool, color mgl32.Vec4, clearDepth bool, depth float32) {
	r.push(Command{Op: OpClear, ClearColor: clearColor, Color: color, ClearDepth: clearDepth, DepthValue: depth})
}

func (r *Recorder) SetRenderTarget(colors []*target.Target, depth *target.Target) {
	r.colors = append([]*target.Target(nil), colors...)
	r.depth = depth
	r.push(Command{Op: OpSetTarget, Colors: r.colors, Depth: depth})
}

func (r *Recorder) SetViewport(x, y, width, height int) {
	r.push(Command{Op: OpViewport, Rect: core.Rect{X: x, Y: y, W: width, H: height}})
}

func (r *Recorder) EnableScissor(x, y, width, height int) {
	r.scissor = true
	r.push(Command{Op: OpScissor, Rect: core.Rect{X: x, Y: y, W: width, H: height}})
}

func (r *Recorder) DisableScissor() {
	r.scissor = false
	r.push(Command{Op: OpNoScissor})
}

func (r *Recorder) SetViewProjection(view, projection mgl32.Mat4) {
	r.push(Command{Op: OpViewProjection, View: view, Projection: projection})
}

func (r *Recorder) SetGlobalTexture(name string, t *target.Target) {
	r.textures[name] = t
	r.push(Command{Op: OpGlobalTexture, Name: name, Texture: t})
}

func (r *Recorder) SetGlobalValue(name string, value any) {
	r.values[name] = value
	r.push(Command{Op: OpGlobalValue, Name: name, Value: value})
}

func (r *Recorder) SetColor(color mgl32.Vec4) {
	r.push(Command{Op: OpColor, Color: color})
}

func (r *Recorder) DrawMesh(transform mgl32.Mat4, mesh *core.Mesh, layer core.LayerMask, material *core.Material) {
	r.push(Command{Op: OpDraw, Transform: transform, Mesh: mesh, Layer: layer, Material: material, Bound: r.colors})
}

func (r *Recorder) push(c Command) { r.commands = append(r.commands, c) }

// Commands returns the recorded commands in submission order.
func (r *Recorder) Commands() []Command { return r.commands }

func (r *Recorder) Len() int { return len(r.commands) }

// Filter returns the commands with the given op.
func (r *Recorder) Filter(op Op) []Command {
	var out []Command
	for _, c := range r.commands {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Draws returns the draw commands issued for layer.
func (r *Recorder) Draws(layer core.LayerMask) []Command {
	var out []Command
	for _, c := range r.commands {
		if c.Op == OpDraw && c.Layer == layer {
			out = append(out, c)
		}
	}
	return out
}

// Global returns the last value bound under name.
func (r *Recorder) Global(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// GlobalTexture returns the last texture bound under name.
func (r *Recorder) GlobalTexture(name string) (*target.Target, bool) {
	t, ok := r.textures[name]
	return t, ok
}

func (r *Recorder) Scissor() bool { return r.scissor }

// Reset drops the recorded commands. Bindings are kept, as they would
// be on a real device.
func (r *Recorder) Reset() { r.commands = r.commands[:0] }

// WriteTo prints one command per line.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for i, c := range r.commands {
		k, err := fmt.Fprintf(w, "%4d %s\n", i, c)
		n += int64(k)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
