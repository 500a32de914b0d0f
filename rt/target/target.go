package target

import "fmt"

// Format is the pixel format of a render target.
type Format uint8

const (
	FormatRGBA8 Format = iota
	FormatRGB10A2
	FormatR11G11B10F
	FormatDepth24
)

func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatRGB10A2:
		return "RGB10A2"
	case FormatR11G11B10F:
		return "R11G11B10F"
	case FormatDepth24:
		return "Depth24"
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// IsDepth reports whether f is a depth format.
func (f Format) IsDepth() bool { return f == FormatDepth24 }

// Handle is the backend resource behind a Target. Its concrete type is
// owned by the Allocator that produced it.
type Handle any

// Desc describes a target allocation request.
type Desc struct {
	Name   string
	Width  int
	Height int
	Format Format
}

// Target is a GPU-resident 2D image. Targets are created and mutated
// only by the Set that owns them.
type Target struct {
	name   string
	width  int
	height int
	format Format
	fixed  bool
	handle Handle
}

func (t *Target) Name() string   { return t.name }
func (t *Target) Width() int     { return t.width }
func (t *Target) Height() int    { return t.height }
func (t *Target) Format() Format { return t.format }
func (t *Target) Handle() Handle { return t.handle }

// Fixed reports whether the target keeps its resolution across output
// resizes (shadow maps).
func (t *Target) Fixed() bool { return t.fixed }

func (t *Target) Size() (int, int) { return t.width, t.height }

func (t *Target) String() string {
	if t == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%dx%d %s)", t.name, t.width, t.height, t.format)
}

func (t *Target) desc() Desc {
	return Desc{Name: t.name, Width: t.width, Height: t.height, Format: t.format}
}
