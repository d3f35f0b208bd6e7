package gfx

// Renderer draws images to its default surface. A nil image is skipped, so
// an asset that failed to load just disables the effect that used it.
type Renderer interface {
	Name() string
	Clear()
	SetPalette(p *Palette)
	Palette() *Palette
	Draw(img *Image, pos Vec2)
	DrawScaled(img *Image, pos Vec2, size Vec2)
	DefaultSurface() Surface
}

// DrawCall is one recorded Draw or DrawScaled.
type DrawCall struct {
	Image  string
	Pos    Vec2
	Size   Vec2
	Scaled bool
}

// Recorder is a Renderer that records every draw and forwards it to an
// optional inner renderer.
type Recorder struct {
	Inner   Renderer
	Calls   []DrawCall
	Clears  int
	palette *Palette
}

// NewRecorder wraps inner, which may be nil.
func NewRecorder(inner Renderer) *Recorder {
	return &Recorder{Inner: inner}
}

func (r *Recorder) Name() string {
	if r.Inner != nil {
		return r.Inner.Name()
	}
	return "recorder"
}

func (r *Recorder) Clear() {
	r.Clears++
	if r.Inner != nil {
		r.Inner.Clear()
	}
}

func (r *Recorder) SetPalette(p *Palette) {
	r.palette = p
	if r.Inner != nil {
		r.Inner.SetPalette(p)
	}
}

func (r *Recorder) Palette() *Palette { return r.palette }

func (r *Recorder) Draw(img *Image, pos Vec2) {
	if img == nil {
		return
	}
	r.Calls = append(r.Calls, DrawCall{Image: img.Name(), Pos: pos, Size: img.Size()})
	if r.Inner != nil {
		r.Inner.Draw(img, pos)
	}
}

func (r *Recorder) DrawScaled(img *Image, pos Vec2, size Vec2) {
	if img == nil {
		return
	}
	r.Calls = append(r.Calls, DrawCall{Image: img.Name(), Pos: pos, Size: size, Scaled: true})
	if r.Inner != nil {
		r.Inner.DrawScaled(img, pos, size)
	}
}

func (r *Recorder) DefaultSurface() Surface {
	if r.Inner != nil {
		return r.Inner.DefaultSurface()
	}
	return fixedSurface{}
}

// Reset forgets recorded calls.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
	r.Clears = 0
}

type fixedSurface struct{ w, h int }

func (s fixedSurface) Size() (int, int) { return s.w, s.h }
