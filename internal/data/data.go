// Package data resolves resource names against the configured data
// directories and loads images, palettes and music from them.
package data

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fogleman/gg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/Garsondee/tileframe/internal/audio"
	"github.com/Garsondee/tileframe/internal/gfx"
	"github.com/Garsondee/tileframe/internal/logging"
)

// ErrNotFound is returned when no data directory holds a resource.
var ErrNotFound = errors.New("data: resource not found")

// paletteSize is the number of entries in a raw palette file.
const paletteSize = 256

// Data loads resources. The first directory is searched first and is where
// written files go.
type Data struct {
	dirs []string

	mu     sync.Mutex
	images map[string]*gfx.Image
	log    *slog.Logger
}

// New returns a loader over dirs. Empty and duplicate entries are dropped.
func New(dirs ...string) *Data {
	d := &Data{images: make(map[string]*gfx.Image), log: logging.For("data")}
	seen := make(map[string]bool)
	for _, dir := range dirs {
		if dir == "" || seen[dir] {
			continue
		}
		seen[dir] = true
		d.dirs = append(d.dirs, dir)
	}
	return d
}

// Dirs returns the search path.
func (d *Data) Dirs() []string { return append([]string(nil), d.dirs...) }

// Resolve returns the path of the first existing file named name.
func (d *Data) Resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	for _, dir := range d.dirs {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Open opens a resource for reading.
func (d *Data) Open(name string) (*os.File, error) {
	p, err := d.Resolve(name)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

// LoadFile reads a whole resource.
func (d *Data) LoadFile(name string) ([]byte, error) {
	p, err := d.Resolve(name)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("data: read %s: %w", name, err)
	}
	return b, nil
}

// LoadImage decodes an image (png, jpeg, gif, bmp, tiff). Results are cached
// by name. It returns nil when the image cannot be loaded.
func (d *Data) LoadImage(name string) *gfx.Image {
	d.mu.Lock()
	img, ok := d.images[name]
	d.mu.Unlock()
	if ok {
		return img
	}

	p, err := d.Resolve(name)
	if err != nil {
		d.log.Warn("image not found", slog.String("name", name))
		return nil
	}
	src, err := gg.LoadImage(p)
	if err != nil {
		d.log.Error("failed to decode image", slog.String("name", name), slog.Any("err", err))
		return nil
	}
	img = gfx.NewImage(name, src)

	d.mu.Lock()
	d.images[name] = img
	d.mu.Unlock()
	return img
}

// LoadPalette reads a raw palette of RGB triplets. Files whose components
// never exceed 63 are treated as 6-bit and scaled up. Entry 0 is
// transparent. It returns nil when the palette cannot be loaded.
func (d *Data) LoadPalette(name string) *gfx.Palette {
	b, err := d.LoadFile(name)
	if err != nil {
		d.log.Warn("failed to load palette", slog.String("name", name), slog.Any("err", err))
		return nil
	}
	p, err := ParsePalette(name, b)
	if err != nil {
		d.log.Error("bad palette", slog.String("name", name), slog.Any("err", err))
		return nil
	}
	return p
}

// ParsePalette decodes raw RGB triplets.
func ParsePalette(name string, b []byte) (*gfx.Palette, error) {
	n := len(b) / 3
	if n == 0 {
		return nil, fmt.Errorf("palette %s: %d bytes is too short", name, len(b))
	}
	if n > paletteSize {
		n = paletteSize
	}
	sixBit := true
	for _, v := range b[:n*3] {
		if v > 63 {
			sixBit = false
			break
		}
	}
	scale := func(v byte) uint8 {
		if sixBit {
			return uint8(int(v) * 255 / 63)
		}
		return v
	}
	cols := make(color.Palette, n)
	for i := 0; i < n; i++ {
		cols[i] = color.RGBA{R: scale(b[i*3]), G: scale(b[i*3+1]), B: scale(b[i*3+2]), A: 255}
	}
	cols[0] = color.RGBA{}
	return &gfx.Palette{Name: name, Colors: cols}, nil
}

// LoadMusic reads a music track. It returns nil when the track cannot be
// loaded or its format is not recognised.
func (d *Data) LoadMusic(name string) *audio.Track {
	f := audio.FormatFromName(name)
	if f == audio.FormatUnknown {
		d.log.Warn("unknown music format", slog.String("name", name))
		return nil
	}
	b, err := d.LoadFile(name)
	if err != nil {
		d.log.Warn("failed to load music", slog.String("name", name), slog.Any("err", err))
		return nil
	}
	return &audio.Track{Name: name, Format: f, Data: b}
}

// WriteImage saves img as PNG under the first data directory.
func (d *Data) WriteImage(name string, img image.Image) error {
	if len(d.dirs) == 0 {
		return fmt.Errorf("data: no directory to write %s", name)
	}
	p := filepath.Join(d.dirs[0], filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("data: create dir for %s: %w", name, err)
	}
	if err := gg.SavePNG(p, img); err != nil {
		return fmt.Errorf("data: write %s: %w", name, err)
	}
	return nil
}
