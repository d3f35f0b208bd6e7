package gfx

import (
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.Color) *Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return NewImage("solid", img)
}

func TestImage_WithPaletteSwapsIndexedColours(t *testing.T) {
	src := image.NewPaletted(image.Rect(0, 0, 2, 1), color.Palette{color.Black, color.White})
	src.SetColorIndex(1, 0, 1)
	img := NewImage("idx", src)
	if !img.Paletted() {
		t.Fatal("expected paletted image")
	}
	red := &Palette{Name: "red", Colors: color.Palette{color.RGBA{A: 255}, color.RGBA{R: 255, A: 255}}}
	got := img.WithPalette(red)
	r, _, _, _ := got.At(1, 0).RGBA()
	if r>>8 != 255 {
		t.Fatalf("pixel red=%d, want 255", r>>8)
	}
	// Source untouched.
	if src.Palette[1] != color.White {
		t.Fatal("WithPalette must not modify the source palette")
	}
}

func TestSoftware_DrawAndScale(t *testing.T) {
	s := NewSoftware(8, 8)
	s.Clear()
	s.Draw(solid(2, 2, color.RGBA{G: 255, A: 255}), Vec2{1, 1})
	_, g, _, _ := s.Image().At(1, 1).RGBA()
	if g>>8 != 255 {
		t.Fatalf("expected green at (1,1), got g=%d", g>>8)
	}
	s.DrawScaled(solid(1, 1, color.RGBA{B: 255, A: 255}), Vec2{4, 4}, Vec2{4, 4})
	_, _, b, _ := s.Image().At(7, 7).RGBA()
	if b>>8 != 255 {
		t.Fatalf("expected blue at (7,7) after scaled draw, got b=%d", b>>8)
	}
	s.Draw(nil, Vec2{})
	if w, h := s.DefaultSurface().Size(); w != 8 || h != 8 {
		t.Fatalf("surface %dx%d, want 8x8", w, h)
	}
}

func TestRecorder_RecordsAndSkipsNil(t *testing.T) {
	r := NewRecorder(nil)
	img := solid(4, 2, color.White)
	r.Draw(img, Vec2{1, 2})
	r.DrawScaled(img, Vec2{3, 4}, Vec2{8, 8})
	r.Draw(nil, Vec2{})
	if len(r.Calls) != 2 {
		t.Fatalf("recorded %d calls, want 2", len(r.Calls))
	}
	if r.Calls[0].Scaled || r.Calls[0].Size != (Vec2{4, 2}) {
		t.Fatalf("unexpected first call %+v", r.Calls[0])
	}
	if !r.Calls[1].Scaled || r.Calls[1].Size != (Vec2{8, 8}) {
		t.Fatalf("unexpected second call %+v", r.Calls[1])
	}
	r.Reset()
	if len(r.Calls) != 0 {
		t.Fatal("reset should drop calls")
	}
}
