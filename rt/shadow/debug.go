package shadow

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	debugFree    = color.RGBA{R: 24, G: 24, B: 28, A: 255}
	debugOutline = color.RGBA{R: 90, G: 90, B: 96, A: 255}
)

// DebugImage renders the slot layout of the atlas, one pixel per scale
// texels. Used slots are tinted by owner and labelled with the first
// characters of the owner id.
func (a *Atlas) DebugImage(scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, a.width/scale, a.height/scale))
	draw.Draw(img, img.Bounds(), image.NewUniform(debugFree), image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Src: image.NewUniform(color.White), Face: basicfont.Face7x13}
	for i, id := range a.slots {
		r := a.slotRect(i)
		px := image.Rect(r.X/scale, r.Y/scale, (r.X+r.W)/scale, (r.Y+r.H)/scale)
		if id != uuid.Nil {
			draw.Draw(img, px, image.NewUniform(ownerColor(id)), image.Point{}, draw.Src)
		}
		outline(img, px, debugOutline)

		if id == uuid.Nil || px.Dx() < 7*8 || px.Dy() < 13 {
			continue
		}
		d.Dot = fixed.P(px.Min.X+3, px.Min.Y+12)
		d.DrawString(id.String()[:8])
	}
	return img
}

func ownerColor(id uuid.UUID) color.RGBA {
	return color.RGBA{R: 64 + id[0]/2, G: 64 + id[1]/2, B: 64 + id[2]/2, A: 255}
}

func outline(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}
