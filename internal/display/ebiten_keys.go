package display

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/tileframe/internal/event"
)

var ebitenKeys = map[ebiten.Key]event.KeyCode{
	ebiten.KeyEscape:     event.KeyEscape,
	ebiten.KeyEnter:      event.KeyEnter,
	ebiten.KeyTab:        event.KeyTab,
	ebiten.KeySpace:      event.KeySpace,
	ebiten.KeyBackspace:  event.KeyBackspace,
	ebiten.KeyArrowUp:    event.KeyArrowUp,
	ebiten.KeyArrowDown:  event.KeyArrowDown,
	ebiten.KeyArrowLeft:  event.KeyArrowLeft,
	ebiten.KeyArrowRight: event.KeyArrowRight,
	ebiten.KeyPageUp:     event.KeyPageUp,
	ebiten.KeyPageDown:   event.KeyPageDown,
	ebiten.KeyHome:       event.KeyHome,
	ebiten.KeyEnd:        event.KeyEnd,
}

func init() {
	fkeys := []ebiten.Key{
		ebiten.KeyF1, ebiten.KeyF2, ebiten.KeyF3, ebiten.KeyF4,
		ebiten.KeyF5, ebiten.KeyF6, ebiten.KeyF7, ebiten.KeyF8,
		ebiten.KeyF9, ebiten.KeyF10, ebiten.KeyF11, ebiten.KeyF12,
	}
	for i, k := range fkeys {
		ebitenKeys[k] = event.FunctionKey(i + 1)
	}
	for i := 0; i < 10; i++ {
		ebitenKeys[ebiten.KeyDigit0+ebiten.Key(i)] = event.Key0 + event.KeyCode(i)
	}
	for i := 0; i < 26; i++ {
		ebitenKeys[ebiten.KeyA+ebiten.Key(i)] = event.KeyA + event.KeyCode(i)
	}
}

func ebitenKeyCode(k ebiten.Key) event.KeyCode {
	if c, ok := ebitenKeys[k]; ok {
		return c
	}
	return event.KeyUnknown
}

func ebitenModifiers() event.Modifier {
	var m event.Modifier
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		m |= event.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		m |= event.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		m |= event.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		m |= event.ModMeta
	}
	return m
}

var ebitenButtons = []struct {
	native ebiten.MouseButton
	button event.Button
}{
	{ebiten.MouseButtonLeft, event.ButtonLeft},
	{ebiten.MouseButtonRight, event.ButtonRight},
	{ebiten.MouseButtonMiddle, event.ButtonMiddle},
}
