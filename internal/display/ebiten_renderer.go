package display

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/tileframe/internal/gfx"
)

type nativeKey struct {
	img *gfx.Image
	pal *gfx.Palette
}

// EbitenRenderer draws through ebiten into an Ebiten display's buffer.
// Converted images are cached per handle and, for indexed images, per
// palette.
type EbitenRenderer struct {
	d       *Ebiten
	palette *gfx.Palette
	cache   map[nativeKey]*ebiten.Image
}

// NewEbitenRenderer returns a renderer targeting d.
func NewEbitenRenderer(d *Ebiten) *EbitenRenderer {
	return &EbitenRenderer{d: d, cache: make(map[nativeKey]*ebiten.Image)}
}

func (r *EbitenRenderer) Name() string { return "ebiten" }

func (r *EbitenRenderer) Clear() { r.d.buffer.Clear() }

func (r *EbitenRenderer) SetPalette(p *gfx.Palette) { r.palette = p }

func (r *EbitenRenderer) Palette() *gfx.Palette { return r.palette }

func (r *EbitenRenderer) native(img *gfx.Image) *ebiten.Image {
	key := nativeKey{img: img}
	if img.Paletted() {
		key.pal = r.palette
	}
	if e, ok := r.cache[key]; ok {
		return e
	}
	e := ebiten.NewImageFromImage(img.WithPalette(key.pal))
	r.cache[key] = e
	return e
}

func (r *EbitenRenderer) Draw(img *gfx.Image, pos gfx.Vec2) {
	if img == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(pos.X, pos.Y)
	r.d.buffer.DrawImage(r.native(img), &op)
}

func (r *EbitenRenderer) DrawScaled(img *gfx.Image, pos gfx.Vec2, size gfx.Vec2) {
	if img == nil || img.Width() == 0 || img.Height() == 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(size.X/float64(img.Width()), size.Y/float64(img.Height()))
	op.GeoM.Translate(pos.X, pos.Y)
	op.Filter = ebiten.FilterLinear
	r.d.buffer.DrawImage(r.native(img), &op)
}

func (r *EbitenRenderer) DefaultSurface() gfx.Surface { return r.d }
