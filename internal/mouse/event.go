// Package mouse decodes xterm SGR (mode 1006) mouse reports from the raw
// terminal input stream.
package mouse

import "fmt"

// Kind is what the pointer did.
type Kind uint8

const (
	Press Kind = iota
	Release
	Drag
	// Motion is movement with no button held (any-event tracking only).
	Motion
	WheelUp
	WheelDown
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Release:
		return "release"
	case Drag:
		return "drag"
	case Motion:
		return "motion"
	case WheelUp:
		return "wheel-up"
	case WheelDown:
		return "wheel-down"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Button identifies the mouse button. Wheel events report ButtonNone.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
	ButtonNone
)

// Event is one decoded report. X and Y are 1-based terminal cells.
type Event struct {
	Kind   Kind
	Button Button
	X, Y   int
	Shift  bool
	Alt    bool
	Ctrl   bool
}

func (e Event) String() string {
	return fmt.Sprintf("%s button=%d at %d,%d", e.Kind, e.Button, e.X, e.Y)
}

const (
	flagShift  = 4
	flagAlt    = 8
	flagCtrl   = 16
	flagMotion = 32
	flagWheel  = 64
)

// decode builds an event from the SGR parameters. release is true for the
// lowercase 'm' terminator.
func decode(cb, x, y int, release bool) Event {
	ev := Event{
		X:     x,
		Y:     y,
		Shift: cb&flagShift != 0,
		Alt:   cb&flagAlt != 0,
		Ctrl:  cb&flagCtrl != 0,
	}
	low := Button(cb & 3)
	switch {
	case cb&flagWheel != 0:
		ev.Button = ButtonNone
		if cb&1 != 0 {
			ev.Kind = WheelDown
		} else {
			ev.Kind = WheelUp
		}
	case cb&flagMotion != 0:
		ev.Button = low
		if low == ButtonNone {
			ev.Kind = Motion
		} else {
			ev.Kind = Drag
		}
	case release:
		ev.Kind = Release
		ev.Button = low
	default:
		ev.Kind = Press
		ev.Button = low
	}
	return ev
}
