package gamepad

import (
	"context"
	"time"
)

// EventType describes what a delivered Event represents.
type EventType string

// Event types delivered to ControlFunction callbacks.
const (
	// Sent through connection callbacks when a device binds, and on rebinds.
	Connect EventType = "Connect"
	// Sent through connection callbacks when the device goes away.
	Disconnect EventType = "Disconnect"
	// Press transition of a button, trigger, or dpad (centered -> deflected).
	ButtonPress EventType = "ButtonPress"
	// Release transition.
	ButtonRelease EventType = "ButtonRelease"
	// Absolute position or pressure sample.
	PositionChangeAbs EventType = "PositionChangeAbs"
	// Repeated delivery of a staged value from the polling loop.
	Poll EventType = "Poll"
)

// Event is the single tagged-variant value delivered for every control; the
// Control field says which physical input it came from, and the populated
// value fields depend on that control's category.
type Event struct {
	Time    time.Time
	Type    EventType
	Control Control
	// Pressed is set for buttons, triggers, and the dpad pressed-equivalent.
	Pressed bool
	// Value carries trigger pressure (0..1) or button pressure where the
	// hardware reports one.
	Value float64
	// X and Y carry thumbstick, dpad, and touch-gesture axes (-1..1).
	X, Y float64
}

// ControlFunction is a callback bound to a control by a surface.
type ControlFunction func(ctx context.Context, event Event)

// ConnectionFunc is called when a device binds or goes away. The Device is
// the raw handle; info is the classified metadata. On disconnect the info
// still describes the device that was just lost.
type ConnectionFunc func(ctx context.Context, device Device, info DeviceInfo, connected bool)

// LifecycleFunc is called on app-lifecycle transitions relayed through the
// registry.
type LifecycleFunc func(ctx context.Context)

// RawSignal is one raw reading pushed by a bound device: (control, pressure,
// pressed) for buttons and triggers, (control, x, y) for sticks, dpad, and
// touch gestures.
type RawSignal struct {
	Control Control
	Pressed bool
	Value   float64
	X, Y    float64
}

// RawSignalFunc receives raw signals from a Device.
type RawSignalFunc func(sig RawSignal)

// Direction is the discrete reading of a stick or dpad deflection.
type Direction string

// Directions. None means centered.
const (
	DirectionNone  Direction = "None"
	DirectionUp    Direction = "Up"
	DirectionDown  Direction = "Down"
	DirectionLeft  Direction = "Left"
	DirectionRight Direction = "Right"
)

// DirectionOf collapses an (x, y) deflection to a single direction. The x
// axis is checked first, so a diagonal reads as left or right.
func DirectionOf(x, y float64) Direction {
	switch {
	case x > 0:
		return DirectionRight
	case x < 0:
		return DirectionLeft
	case y > 0:
		return DirectionUp
	case y < 0:
		return DirectionDown
	default:
		return DirectionNone
	}
}

// Direction reads the event's axes as a discrete direction.
func (e Event) Direction() Direction {
	return DirectionOf(e.X, e.Y)
}
