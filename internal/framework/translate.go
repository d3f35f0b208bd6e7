package framework

import (
	"github.com/Garsondee/tileframe/internal/display"
	"github.com/Garsondee/tileframe/internal/event"
)

// Translate maps one raw backend event to an engine event. It reports false
// for events the engine ignores. w and h are the current display size,
// carried by window events.
func Translate(raw display.RawEvent, w, h int) (event.Event, bool) {
	switch raw.Kind {
	case display.RawDisplayClose:
		return event.Event{Type: event.WindowClosed}, true
	case display.RawJoystickConfig:
		return event.Event{}, false
	case display.RawTimer:
		return event.Event{Type: event.TimerTick, Timer: event.Timer{Source: raw.Source}}, true
	case display.RawKeyDown:
		return event.NewKey(event.KeyDown, raw.Key, raw.Char, raw.Mods), true
	case display.RawKeyUp:
		return event.NewKey(event.KeyUp, raw.Key, raw.Char, raw.Mods), true
	case display.RawKeyChar:
		return event.NewKey(event.KeyPress, raw.Key, raw.Char, raw.Mods), true
	case display.RawMouseAxes:
		return event.NewMouse(event.MouseMove, mouseOf(raw)), true
	case display.RawMouseButtonDown:
		return event.NewMouse(event.MouseDown, mouseOf(raw)), true
	case display.RawMouseButtonUp:
		return event.NewMouse(event.MouseUp, mouseOf(raw)), true
	case display.RawDisplayResize:
		return event.NewDisplay(event.WindowResize, event.Display{Width: w, Height: h, Active: true}), true
	case display.RawDisplaySwitchIn:
		return event.NewDisplay(event.WindowActivate, event.Display{Width: w, Height: h, Active: true}), true
	case display.RawDisplaySwitchOut:
		return event.NewDisplay(event.WindowDeactivate, event.Display{Width: w, Height: h, Active: false}), true
	}
	return event.Event{Type: event.Undefined}, true
}

func mouseOf(raw display.RawEvent) event.Mouse {
	return event.Mouse{
		X:               raw.X,
		Y:               raw.Y,
		DeltaX:          raw.DX,
		DeltaY:          raw.DY,
		WheelVertical:   raw.WheelV,
		WheelHorizontal: raw.WheelH,
		Button:          raw.Button,
	}
}
