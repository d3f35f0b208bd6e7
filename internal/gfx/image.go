// Package gfx holds the image and palette handles shared by every renderer,
// the Renderer contract, and the software renderer.
package gfx

import (
	"image"
	"image/color"
)

// Vec2 is a screen-space position or size in pixels.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v*s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Image is a loaded, immutable picture. Renderers convert it to their native
// format lazily and cache the result keyed by the handle.
type Image struct {
	name string
	src  image.Image
}

// NewImage wraps src. name is used for logs and draw traces.
func NewImage(name string, src image.Image) *Image {
	return &Image{name: name, src: src}
}

// Name returns the resource name the image was loaded under.
func (i *Image) Name() string { return i.name }

// Source returns the decoded image.
func (i *Image) Source() image.Image { return i.src }

// Width returns the image width in pixels.
func (i *Image) Width() int { return i.src.Bounds().Dx() }

// Height returns the image height in pixels.
func (i *Image) Height() int { return i.src.Bounds().Dy() }

// Size returns the natural size as a Vec2.
func (i *Image) Size() Vec2 {
	return Vec2{float64(i.Width()), float64(i.Height())}
}

// Paletted reports whether the image is indexed and so follows the
// renderer's palette.
func (i *Image) Paletted() bool {
	_, ok := i.src.(*image.Paletted)
	return ok
}

// WithPalette returns the image as it looks under p. Non-indexed images and
// a nil palette return the source unchanged.
func (i *Image) WithPalette(p *Palette) image.Image {
	pi, ok := i.src.(*image.Paletted)
	if !ok || p == nil || len(p.Colors) == 0 {
		return i.src
	}
	cp := *pi
	cp.Palette = p.Colors
	return &cp
}

// Palette is a named colour table applied to indexed images.
type Palette struct {
	Name   string
	Colors color.Palette
}

// Surface is a render target with a queryable size.
type Surface interface {
	Size() (w, h int)
}
