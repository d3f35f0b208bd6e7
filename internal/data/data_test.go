package data

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"

	"github.com/Garsondee/tileframe/internal/audio"
)

func TestData_SearchOrder(t *testing.T) {
	local, system := t.TempDir(), t.TempDir()
	if err := os.WriteFile(filepath.Join(system, "a.txt"), []byte("system"), 0o644); err != nil {
		t.Fatal(err)
	}
	d := New(local, system, local, "")
	if len(d.Dirs()) != 2 {
		t.Fatalf("dirs got %v, want 2 entries", d.Dirs())
	}
	b, err := d.LoadFile("a.txt")
	if err != nil || string(b) != "system" {
		t.Fatalf("fallback load got %q, %v", b, err)
	}
	if err := os.WriteFile(filepath.Join(local, "a.txt"), []byte("local"), 0o644); err != nil {
		t.Fatal(err)
	}
	b, _ = d.LoadFile("a.txt")
	if string(b) != "local" {
		t.Fatalf("local override got %q", b)
	}
}

func TestData_MissingFile(t *testing.T) {
	d := New(t.TempDir())
	if _, err := d.LoadFile("nope.bin"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing file error got %v, want ErrNotFound", err)
	}
	if img := d.LoadImage("nope.png"); img != nil {
		t.Fatal("missing image returned a handle")
	}
	if p := d.LoadPalette("nope.dat"); p != nil {
		t.Fatal("missing palette returned a handle")
	}
	if tr := d.LoadMusic("nope.ogg"); tr != nil {
		t.Fatal("missing music returned a track")
	}
}

func TestData_ImageRoundTripAndCache(t *testing.T) {
	dir := t.TempDir()
	d := New(dir)
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(1, 1, color.RGBA{R: 255, A: 255})
	if err := d.WriteImage("shots/out.png", src); err != nil {
		t.Fatalf("write: %v", err)
	}
	img := d.LoadImage("shots/out.png")
	if img == nil {
		t.Fatal("written image did not load")
	}
	if img.Width() != 3 || img.Height() != 2 {
		t.Fatalf("size got %dx%d, want 3x2", img.Width(), img.Height())
	}
	if again := d.LoadImage("shots/out.png"); again != img {
		t.Fatal("second load was not served from the cache")
	}
}

func TestData_CorruptImage(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if img := New(dir).LoadImage("bad.png"); img != nil {
		t.Fatal("corrupt image returned a handle")
	}
}

func TestParsePalette_SixBitScaled(t *testing.T) {
	raw := make([]byte, 256*3)
	raw[3], raw[4], raw[5] = 63, 0, 32
	p, err := ParsePalette("vga", raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Colors) != 256 {
		t.Fatalf("colors got %d, want 256", len(p.Colors))
	}
	r, g, b, _ := p.Colors[1].RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 32*255/63 {
		t.Fatalf("entry 1 got %d,%d,%d", r>>8, g>>8, b>>8)
	}
	if _, _, _, a := p.Colors[0].RGBA(); a != 0 {
		t.Fatal("entry 0 is not transparent")
	}
}

func TestParsePalette_EightBitKept(t *testing.T) {
	raw := []byte{0, 0, 0, 200, 100, 64}
	p, err := ParsePalette("full", raw)
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := p.Colors[1].RGBA()
	if r>>8 != 200 || g>>8 != 100 || b>>8 != 64 {
		t.Fatalf("entry 1 got %d,%d,%d", r>>8, g>>8, b>>8)
	}
	if _, err := ParsePalette("short", []byte{1}); err == nil {
		t.Fatal("short palette accepted")
	}
}

func TestData_LoadMusic(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "theme.ogg"), []byte("OggS"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "theme.xyz"), []byte("?"), 0o644); err != nil {
		t.Fatal(err)
	}
	d := New(dir)
	tr := d.LoadMusic("theme.ogg")
	if tr == nil || tr.Format != audio.FormatVorbis || string(tr.Data) != "OggS" {
		t.Fatalf("track got %+v", tr)
	}
	if d.LoadMusic("theme.xyz") != nil {
		t.Fatal("unknown format loaded")
	}
}

func TestData_LoadsPNGWrittenByGG(t *testing.T) {
	dir := t.TempDir()
	dc := gg.NewContext(4, 4)
	dc.SetRGB(0, 1, 0)
	dc.Clear()
	if err := dc.SavePNG(filepath.Join(dir, "green.png")); err != nil {
		t.Fatal(err)
	}
	img := New(dir).LoadImage("green.png")
	if img == nil {
		t.Fatal("png did not load")
	}
	_, g, _, _ := img.Source().At(2, 2).RGBA()
	if g>>8 != 255 {
		t.Fatalf("green channel got %d", g>>8)
	}
}
