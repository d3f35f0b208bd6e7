package display

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/image/draw"

	"github.com/Garsondee/tileframe/internal/event"
	"github.com/Garsondee/tileframe/internal/gfx"
	"github.com/Garsondee/tileframe/internal/logging"
)

// halfBlock paints the top half of a cell in the foreground colour.
const halfBlock = '▀'

// terminalFrame is the frame period of the terminal backend.
const terminalFrame = 33 * time.Millisecond

// Terminal renders software frames as coloured half-block cells on a tcell
// screen. The virtual pixel size stays fixed; frames are scaled to fit the
// terminal.
type Terminal struct {
	screen tcell.Screen
	w, h   int

	events chan tcell.Event
	quit   chan struct{}
	once   sync.Once

	software *gfx.Software
	cells    *image.RGBA
	buttons  tcell.ButtonMask
	// held are keys reported down by the previous poll. A terminal has no
	// key release, so they are released at the start of the next poll.
	held []RawEvent

	log *slog.Logger
}

// NewTerminal opens the controlling terminal with a w×h virtual surface.
func NewTerminal(w, h int) (*Terminal, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	return NewTerminalOn(s, w, h)
}

// NewTerminalOn uses an existing, uninitialised tcell screen.
func NewTerminalOn(s tcell.Screen, w, h int) (*Terminal, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("terminal: init: %w", err)
	}
	s.EnableMouse()
	s.EnableFocus()
	s.HideCursor()
	t := &Terminal{
		screen: s,
		w:      w,
		h:      h,
		events: make(chan tcell.Event, 100),
		quit:   make(chan struct{}),
		log:    logging.For("terminal"),
	}
	go s.ChannelEvents(t.events, t.quit)
	return t, nil
}

func (t *Terminal) Name() string { return "terminal" }

func (t *Terminal) Size() (int, int) { return t.w, t.h }

func (t *Terminal) SetTitle(title string) { t.screen.SetTitle(title) }

func (t *Terminal) AttachSoftware(sw *gfx.Software) {
	t.software = sw
	syncSoftware(sw, t.w, t.h)
}

// cellScale converts terminal cell coordinates to virtual pixels.
func (t *Terminal) cellScale() (sx, sy float64) {
	cw, ch := t.screen.Size()
	if cw <= 0 || ch <= 0 {
		return 1, 1
	}
	return float64(t.w) / float64(cw), float64(t.h) / float64(ch)
}

func (t *Terminal) PollEvents(fn func(RawEvent)) {
	for _, e := range t.held {
		e.Kind = RawKeyUp
		fn(e)
	}
	t.held = t.held[:0]
	for {
		select {
		case ev := <-t.events:
			t.translate(ev, fn)
		default:
			return
		}
	}
}

func (t *Terminal) translate(ev tcell.Event, fn func(RawEvent)) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		code, r := tcellKey(ev)
		mods := tcellModifiers(ev.Modifiers())
		down := RawEvent{Kind: RawKeyDown, Key: code, Mods: mods}
		fn(down)
		if r != 0 {
			fn(RawEvent{Kind: RawKeyChar, Key: code, Char: r, Mods: mods})
		}
		t.held = append(t.held, down)
	case *tcell.EventMouse:
		cx, cy := ev.Position()
		sx, sy := t.cellScale()
		x, y := int(float64(cx)*sx), int(float64(cy)*sy)
		btn := ev.Buttons()
		e := RawEvent{Kind: RawMouseAxes, X: x, Y: y}
		if btn&tcell.WheelUp != 0 {
			e.WheelV = 1
		}
		if btn&tcell.WheelDown != 0 {
			e.WheelV = -1
		}
		fn(e)
		for _, b := range tcellButtons {
			was, is := t.buttons&b.native != 0, btn&b.native != 0
			switch {
			case is && !was:
				fn(RawEvent{Kind: RawMouseButtonDown, X: x, Y: y, Button: b.button})
			case was && !is:
				fn(RawEvent{Kind: RawMouseButtonUp, X: x, Y: y, Button: b.button})
			}
		}
		t.buttons = btn & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	case *tcell.EventResize:
		t.screen.Sync()
		fn(RawEvent{Kind: RawDisplayResize})
	case *tcell.EventFocus:
		if ev.Focused {
			fn(RawEvent{Kind: RawDisplaySwitchIn})
		} else {
			fn(RawEvent{Kind: RawDisplaySwitchOut})
		}
	case *tcell.EventInterrupt:
		fn(RawEvent{Kind: RawTimer, Source: ev.Data()})
	default:
		fn(RawEvent{Kind: RawUnknown})
	}
}

func (t *Terminal) Present() {
	if t.software == nil {
		return
	}
	cw, ch := t.screen.Size()
	if cw <= 0 || ch <= 0 {
		return
	}
	if t.cells == nil || t.cells.Rect.Dx() != cw || t.cells.Rect.Dy() != ch*2 {
		t.cells = image.NewRGBA(image.Rect(0, 0, cw, ch*2))
	}
	src := t.software.Image()
	draw.ApproxBiLinear.Scale(t.cells, t.cells.Rect, src, src.Bounds(), draw.Src, nil)
	for y := 0; y < ch; y++ {
		for x := 0; x < cw; x++ {
			top := t.cells.RGBAAt(x, y*2)
			bottom := t.cells.RGBAAt(x, y*2+1)
			style := tcell.StyleDefault.Foreground(tcellColor(top)).Background(tcellColor(bottom))
			t.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
	t.screen.Show()
	syncSoftware(t.software, t.w, t.h)
}

func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (t *Terminal) Run(step func() bool) error {
	ticker := time.NewTicker(terminalFrame)
	defer ticker.Stop()
	for range ticker.C {
		if !step() {
			return nil
		}
	}
	return nil
}

func (t *Terminal) Close() error {
	t.once.Do(func() {
		close(t.quit)
		t.screen.Fini()
	})
	return nil
}

var tcellButtons = []struct {
	native tcell.ButtonMask
	button event.Button
}{
	{tcell.Button1, event.ButtonLeft},
	{tcell.Button2, event.ButtonRight},
	{tcell.Button3, event.ButtonMiddle},
}

var tcellKeys = map[tcell.Key]event.KeyCode{
	tcell.KeyEscape:     event.KeyEscape,
	tcell.KeyEnter:      event.KeyEnter,
	tcell.KeyTab:        event.KeyTab,
	tcell.KeyBackspace:  event.KeyBackspace,
	tcell.KeyBackspace2: event.KeyBackspace,
	tcell.KeyUp:         event.KeyArrowUp,
	tcell.KeyDown:       event.KeyArrowDown,
	tcell.KeyLeft:       event.KeyArrowLeft,
	tcell.KeyRight:      event.KeyArrowRight,
	tcell.KeyPgUp:       event.KeyPageUp,
	tcell.KeyPgDn:       event.KeyPageDown,
	tcell.KeyHome:       event.KeyHome,
	tcell.KeyEnd:        event.KeyEnd,
	tcell.KeyF1:         event.KeyF1,
	tcell.KeyF2:         event.KeyF2,
	tcell.KeyF3:         event.KeyF3,
	tcell.KeyF4:         event.KeyF4,
	tcell.KeyF5:         event.KeyF5,
	tcell.KeyF6:         event.KeyF6,
	tcell.KeyF7:         event.KeyF7,
	tcell.KeyF8:         event.KeyF8,
	tcell.KeyF9:         event.KeyF9,
	tcell.KeyF10:        event.KeyF10,
	tcell.KeyF11:        event.KeyF11,
	tcell.KeyF12:        event.KeyF12,
}

// tcellKey maps a key event to a key code and, for printable keys, the
// typed character.
func tcellKey(ev *tcell.EventKey) (event.KeyCode, rune) {
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if r == ' ' {
			return event.KeySpace, r
		}
		return event.KeyForRune(r), r
	}
	if c, ok := tcellKeys[ev.Key()]; ok {
		return c, 0
	}
	return event.KeyUnknown, 0
}

func tcellModifiers(m tcell.ModMask) event.Modifier {
	var out event.Modifier
	if m&tcell.ModShift != 0 {
		out |= event.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= event.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= event.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= event.ModMeta
	}
	return out
}
