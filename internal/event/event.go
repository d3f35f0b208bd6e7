// Package event defines the engine's input, window and timer events and the
// queue that carries them from backend translation to the active stage.
package event

// Type identifies which payload of an Event is meaningful.
type Type uint8

const (
	Undefined Type = iota
	WindowClosed
	WindowResize
	WindowActivate
	WindowDeactivate
	TimerTick
	KeyDown
	KeyUp
	KeyPress
	MouseMove
	MouseDown
	MouseUp
)

var typeNames = [...]string{
	Undefined:        "undefined",
	WindowClosed:     "window-closed",
	WindowResize:     "window-resize",
	WindowActivate:   "window-activate",
	WindowDeactivate: "window-deactivate",
	TimerTick:        "timer-tick",
	KeyDown:          "key-down",
	KeyUp:            "key-up",
	KeyPress:         "key-press",
	MouseMove:        "mouse-move",
	MouseDown:        "mouse-down",
	MouseUp:          "mouse-up",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// Keyboard is the payload of KeyDown, KeyUp and KeyPress.
type Keyboard struct {
	KeyCode   KeyCode
	UniChar   rune
	Modifiers Modifier
}

// Mouse is the payload of MouseMove, MouseDown and MouseUp.
type Mouse struct {
	X               int
	Y               int
	DeltaX          int
	DeltaY          int
	WheelVertical   int
	WheelHorizontal int
	Button          Button
}

// Display is the payload of the window resize and focus events.
type Display struct {
	X      int
	Y      int
	Width  int
	Height int
	Active bool
}

// Timer is the payload of TimerTick. Source identifies the timer and is
// never dereferenced by the engine.
type Timer struct {
	Source any
}

// Event is a tagged union. Only the payload matching Type is meaningful;
// the others are zero.
type Event struct {
	Type     Type
	Keyboard Keyboard
	Mouse    Mouse
	Display  Display
	Timer    Timer
}

// NewKey builds a keyboard event. t must be KeyDown, KeyUp or KeyPress.
func NewKey(t Type, code KeyCode, char rune, mods Modifier) Event {
	return Event{Type: t, Keyboard: Keyboard{KeyCode: code, UniChar: char, Modifiers: mods}}
}

// NewMouse builds a mouse event. t must be MouseMove, MouseDown or MouseUp.
func NewMouse(t Type, m Mouse) Event {
	return Event{Type: t, Mouse: m}
}

// NewDisplay builds a window resize/activate/deactivate event.
func NewDisplay(t Type, d Display) Event {
	return Event{Type: t, Display: d}
}

// IsKey reports whether e carries a keyboard payload.
func (e *Event) IsKey() bool {
	return e.Type == KeyDown || e.Type == KeyUp || e.Type == KeyPress
}

// IsMouse reports whether e carries a mouse payload.
func (e *Event) IsMouse() bool {
	return e.Type == MouseMove || e.Type == MouseDown || e.Type == MouseUp
}

// IsDisplay reports whether e carries a display payload.
func (e *Event) IsDisplay() bool {
	return e.Type == WindowResize || e.Type == WindowActivate || e.Type == WindowDeactivate
}
