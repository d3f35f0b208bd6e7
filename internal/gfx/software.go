package gfx

import (
	"image"
	"math"

	"github.com/fogleman/gg"
)

// Software renders into an in-memory RGBA image through fogleman/gg. It backs
// the headless display and view snapshots.
type Software struct {
	dc      *gg.Context
	palette *Palette
}

// NewSoftware returns a software renderer with a w×h surface.
func NewSoftware(w, h int) *Software {
	return &Software{dc: gg.NewContext(w, h)}
}

func (s *Software) Name() string { return "software" }

func (s *Software) Clear() {
	s.dc.SetRGB(0, 0, 0)
	s.dc.Clear()
}

func (s *Software) SetPalette(p *Palette) { s.palette = p }

func (s *Software) Palette() *Palette { return s.palette }

func (s *Software) Draw(img *Image, pos Vec2) {
	if img == nil {
		return
	}
	s.dc.DrawImage(img.WithPalette(s.palette), int(math.Round(pos.X)), int(math.Round(pos.Y)))
}

func (s *Software) DrawScaled(img *Image, pos Vec2, size Vec2) {
	if img == nil || img.Width() == 0 || img.Height() == 0 {
		return
	}
	s.dc.Push()
	s.dc.Translate(pos.X, pos.Y)
	s.dc.Scale(size.X/float64(img.Width()), size.Y/float64(img.Height()))
	s.dc.DrawImage(img.WithPalette(s.palette), 0, 0)
	s.dc.Pop()
}

func (s *Software) DefaultSurface() Surface { return s }

// Size returns the surface size.
func (s *Software) Size() (int, int) { return s.dc.Width(), s.dc.Height() }

// Resize replaces the surface with a cleared w×h one.
func (s *Software) Resize(w, h int) {
	if w == s.dc.Width() && h == s.dc.Height() {
		return
	}
	s.dc = gg.NewContext(w, h)
}

// Image returns the current surface contents.
func (s *Software) Image() image.Image { return s.dc.Image() }
