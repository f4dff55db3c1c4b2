package gamepad

import "github.com/pkg/errors"

// Mode selects how raw signals for a control are turned into events.
type Mode string

// The operating modes. Which modes are valid depends on the control's
// category; vendor-specific controls have a single fixed behavior and accept
// no mode at all.
const (
	// ModeStateChange delivers one event per press/release transition.
	// Default for buttons and the dpad.
	ModeStateChange Mode = "StateChange"

	// ModeAnalog delivers pressure along with press/release transitions on
	// triggers, and every raw sample on thumbsticks. Default for both.
	ModeAnalog Mode = "Analog"

	// ModeContinuous stages the latest raw reading and delivers it on every
	// poll tick while the control is held.
	ModeContinuous Mode = "Continuous"

	// ModeDirectional stages a scaled (x, y) and delivers it on every poll
	// tick while the stick or pad is deflected.
	ModeDirectional Mode = "Directional"
)

var validModes = map[Category][]Mode{
	CategoryButton:     {ModeStateChange, ModeContinuous},
	CategoryTrigger:    {ModeAnalog, ModeContinuous},
	CategoryThumbstick: {ModeAnalog, ModeDirectional},
	CategoryDpad:       {ModeStateChange, ModeDirectional},
}

// DefaultMode returns the documented default mode for a control. Vendor
// controls report ModeStateChange for display purposes only.
func DefaultMode(control Control) Mode {
	switch CategoryOf(control) {
	case CategoryTrigger, CategoryThumbstick:
		return ModeAnalog
	default:
		return ModeStateChange
	}
}

func checkMode(control Control, mode Mode) error {
	valid, ok := validModes[CategoryOf(control)]
	if !ok {
		return errors.Errorf("control %q does not support operating modes", control)
	}
	for _, m := range valid {
		if m == mode {
			return nil
		}
	}
	return errors.Errorf("mode %q is not valid for control %q", mode, control)
}
