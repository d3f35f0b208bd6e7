package display

import (
	"errors"
	"image"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/draw"

	"github.com/Garsondee/tileframe/internal/event"
	"github.com/Garsondee/tileframe/internal/gfx"
	"github.com/Garsondee/tileframe/internal/logging"
)

// Ebiten is a desktop window. Frames are drawn into an offscreen buffer
// which Draw blits to the window.
type Ebiten struct {
	w, h       int
	fullscreen bool
	title      string

	buffer   *ebiten.Image
	scratch  *ebiten.Image
	software *gfx.Software

	step    func() bool
	pending []RawEvent
	keys    []ebiten.Key
	chars   []rune
	pads    []ebiten.GamepadID

	mouseX, mouseY int
	focused        bool
	stopped        bool
	log            *slog.Logger
}

// NewEbiten returns a w×h window display. The window opens in Run.
func NewEbiten(w, h int, fullscreen bool, title string) *Ebiten {
	return &Ebiten{
		w:          w,
		h:          h,
		fullscreen: fullscreen,
		title:      title,
		buffer:     ebiten.NewImage(w, h),
		focused:    true,
		log:        logging.For("ebiten"),
	}
}

func (d *Ebiten) Name() string { return "ebiten" }

func (d *Ebiten) Size() (int, int) { return d.w, d.h }

// Buffer is the offscreen image renderers draw into.
func (d *Ebiten) Buffer() *ebiten.Image { return d.buffer }

func (d *Ebiten) SetTitle(title string) {
	d.title = title
	ebiten.SetWindowTitle(title)
}

func (d *Ebiten) AttachSoftware(sw *gfx.Software) {
	d.software = sw
	syncSoftware(sw, d.w, d.h)
}

func (d *Ebiten) PollEvents(fn func(RawEvent)) {
	evs := d.pending
	d.pending = nil
	for _, e := range evs {
		fn(e)
	}
}

// Present uploads the software frame, if one is attached. Native ebiten
// drawing already went to the buffer.
func (d *Ebiten) Present() {
	if d.software == nil {
		return
	}
	frame := frameRGBA(d.software.Image())
	w, h := frame.Rect.Dx(), frame.Rect.Dy()
	if w == d.w && h == d.h {
		d.buffer.WritePixels(frame.Pix)
	} else {
		// The surface lags a window resize by one frame.
		if d.scratch == nil || d.scratch.Bounds().Dx() != w || d.scratch.Bounds().Dy() != h {
			if d.scratch != nil {
				d.scratch.Deallocate()
			}
			d.scratch = ebiten.NewImage(w, h)
		}
		d.scratch.WritePixels(frame.Pix)
		d.buffer.Clear()
		d.buffer.DrawImage(d.scratch, nil)
	}
	syncSoftware(d.software, d.w, d.h)
}

// frameRGBA returns src as a tightly packed RGBA image at the origin,
// copying only when src is not one already.
func frameRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba
	}
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
	return out
}

func (d *Ebiten) Run(step func() bool) error {
	d.step = step
	ebiten.SetWindowTitle(d.title)
	ebiten.SetWindowSize(d.w, d.h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetFullscreen(d.fullscreen)
	err := ebiten.RunGame(d)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (d *Ebiten) Close() error {
	d.stopped = true
	return nil
}

// Update implements ebiten.Game: it collects input and runs one frame.
func (d *Ebiten) Update() error {
	if d.stopped {
		return ebiten.Termination
	}
	d.collectInput()
	if d.step != nil && !d.step() {
		d.stopped = true
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (d *Ebiten) Draw(screen *ebiten.Image) {
	screen.DrawImage(d.buffer, nil)
}

// Layout implements ebiten.Game. The logical size follows the window.
func (d *Ebiten) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != d.w || outsideHeight != d.h) {
		d.w, d.h = outsideWidth, outsideHeight
		d.buffer = ebiten.NewImage(d.w, d.h)
		d.pending = append(d.pending, RawEvent{Kind: RawDisplayResize})
		d.log.Debug("window resized", slog.Int("w", d.w), slog.Int("h", d.h))
	}
	return d.w, d.h
}

func (d *Ebiten) collectInput() {
	if ebiten.IsWindowBeingClosed() {
		d.pending = append(d.pending, RawEvent{Kind: RawDisplayClose})
	}

	if f := ebiten.IsFocused(); f != d.focused {
		d.focused = f
		if f {
			d.pending = append(d.pending, RawEvent{Kind: RawDisplaySwitchIn})
		} else {
			d.pending = append(d.pending, RawEvent{Kind: RawDisplaySwitchOut})
		}
	}

	d.pads = inpututil.AppendJustConnectedGamepadIDs(d.pads[:0])
	if len(d.pads) > 0 {
		d.pending = append(d.pending, RawEvent{Kind: RawJoystickConfig})
	}

	mods := ebitenModifiers()
	d.keys = inpututil.AppendJustPressedKeys(d.keys[:0])
	for _, k := range d.keys {
		d.pending = append(d.pending, RawEvent{Kind: RawKeyDown, Key: ebitenKeyCode(k), Mods: mods})
	}
	d.chars = ebiten.AppendInputChars(d.chars[:0])
	for _, r := range d.chars {
		d.pending = append(d.pending, RawEvent{Kind: RawKeyChar, Key: event.KeyForRune(r), Char: r, Mods: mods})
	}
	d.keys = inpututil.AppendJustReleasedKeys(d.keys[:0])
	for _, k := range d.keys {
		d.pending = append(d.pending, RawEvent{Kind: RawKeyUp, Key: ebitenKeyCode(k), Mods: mods})
	}

	x, y := ebiten.CursorPosition()
	wx, wy := ebiten.Wheel()
	if x != d.mouseX || y != d.mouseY || wx != 0 || wy != 0 {
		d.pending = append(d.pending, RawEvent{
			Kind:   RawMouseAxes,
			X:      x,
			Y:      y,
			DX:     x - d.mouseX,
			DY:     y - d.mouseY,
			WheelV: int(wy),
			WheelH: int(wx),
		})
		d.mouseX, d.mouseY = x, y
	}
	for _, b := range ebitenButtons {
		if inpututil.IsMouseButtonJustPressed(b.native) {
			d.pending = append(d.pending, RawEvent{Kind: RawMouseButtonDown, X: x, Y: y, Button: b.button})
		}
		if inpututil.IsMouseButtonJustReleased(b.native) {
			d.pending = append(d.pending, RawEvent{Kind: RawMouseButtonUp, X: x, Y: y, Button: b.button})
		}
	}
}
