// Package display owns the output surface and the native input stream.
// Backends report input as RawEvents; the framework translates them into
// engine events.
package display

import (
	"github.com/Garsondee/tileframe/internal/event"
	"github.com/Garsondee/tileframe/internal/gfx"
)

// RawKind is the backend-level event category.
type RawKind uint8

const (
	RawUnknown RawKind = iota
	RawDisplayClose
	RawJoystickConfig
	RawTimer
	RawKeyDown
	RawKeyUp
	RawKeyChar
	RawMouseAxes
	RawMouseButtonDown
	RawMouseButtonUp
	RawDisplayResize
	RawDisplaySwitchIn
	RawDisplaySwitchOut
)

var rawKindNames = [...]string{
	RawUnknown:          "unknown",
	RawDisplayClose:     "display-close",
	RawJoystickConfig:   "joystick-config",
	RawTimer:            "timer",
	RawKeyDown:          "key-down",
	RawKeyUp:            "key-up",
	RawKeyChar:          "key-char",
	RawMouseAxes:        "mouse-axes",
	RawMouseButtonDown:  "mouse-button-down",
	RawMouseButtonUp:    "mouse-button-up",
	RawDisplayResize:    "display-resize",
	RawDisplaySwitchIn:  "display-switch-in",
	RawDisplaySwitchOut: "display-switch-out",
}

func (k RawKind) String() string {
	if int(k) < len(rawKindNames) {
		return rawKindNames[k]
	}
	return "unknown"
}

// RawEvent is one native input or window event. Only the fields relevant
// to Kind are set.
type RawEvent struct {
	Kind RawKind

	Key  event.KeyCode
	Char rune
	Mods event.Modifier

	X, Y           int
	DX, DY         int
	WheelV, WheelH int
	Button         event.Button

	Source any
}

// Display is a window, terminal or offscreen target plus its input source.
type Display interface {
	Name() string
	// Size is the current drawable size in pixels.
	Size() (w, h int)
	// PollEvents hands every pending raw event to fn in arrival order.
	PollEvents(fn func(RawEvent))
	// Present shows the frame drawn since the last Present.
	Present()
	SetTitle(title string)
	// Run drives step once per frame until step returns false or the
	// display goes away.
	Run(step func() bool) error
	Close() error
}

// SoftwareTarget is implemented by displays that can present frames drawn
// by the software renderer.
type SoftwareTarget interface {
	AttachSoftware(sw *gfx.Software)
}

// syncSoftware keeps sw at the display size.
func syncSoftware(sw *gfx.Software, w, h int) {
	if sw == nil || w <= 0 || h <= 0 {
		return
	}
	sw.Resize(w, h)
}
