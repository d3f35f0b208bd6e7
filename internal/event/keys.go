package event

// KeyCode is a backend-independent key identifier. Backends map their own
// key sets onto these values; keys with no mapping become KeyUnknown.
type KeyCode int

const (
	KeyUnknown KeyCode = iota
	KeyEscape
	KeyEnter
	KeyTab
	KeySpace
	KeyBackspace
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

// KeyForRune maps a printable ASCII letter or digit to its KeyCode.
func KeyForRune(r rune) KeyCode {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyA + KeyCode(r-'a')
	case r >= 'A' && r <= 'Z':
		return KeyA + KeyCode(r-'A')
	case r >= '0' && r <= '9':
		return Key0 + KeyCode(r-'0')
	case r == ' ':
		return KeySpace
	}
	return KeyUnknown
}

// FunctionKey returns the KeyCode for F1..F12, or KeyUnknown.
func FunctionKey(n int) KeyCode {
	if n < 1 || n > 12 {
		return KeyUnknown
	}
	return KeyF1 + KeyCode(n-1)
}

// Modifier is a bitmask of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Button is a bitmask of mouse buttons.
type Button uint8

const (
	ButtonLeft Button = 1 << iota
	ButtonRight
	ButtonMiddle
)
