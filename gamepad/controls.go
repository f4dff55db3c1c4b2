// Package gamepad normalizes physical game controllers into a uniform event
// model and routes those events to the UI surfaces that registered interest
// in them. A single Registry owns the device lifecycle, the per-surface
// subscriptions, and the per-control signal policy (debounced discrete
// delivery vs continuous polling).
package gamepad

// Control identifies one physical input (button, trigger, stick, dpad, or a
// vendor-specific extra) of a controller.
type Control string

// The closed set of supported controls.
const (
	// Face buttons.
	ButtonA Control = "ButtonA"
	ButtonB Control = "ButtonB"
	ButtonX Control = "ButtonX"
	ButtonY Control = "ButtonY"

	// System buttons.
	ButtonMenu    Control = "ButtonMenu"
	ButtonOptions Control = "ButtonOptions"
	ButtonHome    Control = "ButtonHome"

	// Shoulders and triggers.
	LeftShoulder  Control = "LeftShoulder"
	RightShoulder Control = "RightShoulder"
	LeftTrigger   Control = "LeftTrigger"
	RightTrigger  Control = "RightTrigger"

	// Thumbsticks and their click buttons.
	LeftThumbstick        Control = "LeftThumbstick"
	RightThumbstick       Control = "RightThumbstick"
	LeftThumbstickButton  Control = "LeftThumbstickButton"
	RightThumbstickButton Control = "RightThumbstickButton"

	// Directional pad, treated as a single two-axis control.
	Dpad Control = "Dpad"

	// Vendor-specific: DualShock/DualSense touchpad.
	Touchpad          Control = "Touchpad"
	TouchpadPrimary   Control = "TouchpadPrimary"
	TouchpadSecondary Control = "TouchpadSecondary"

	// Vendor-specific: Xbox Elite paddles and share button.
	PaddleOne   Control = "PaddleOne"
	PaddleTwo   Control = "PaddleTwo"
	PaddleThree Control = "PaddleThree"
	PaddleFour  Control = "PaddleFour"
	ButtonShare Control = "ButtonShare"
)

// Category groups controls that share a signal shape and mode set.
type Category uint8

// The control categories.
const (
	CategoryUnknown Category = iota
	CategoryButton
	CategoryTrigger
	CategoryThumbstick
	CategoryDpad
	CategoryVendor
)

var controlCategories = map[Control]Category{
	ButtonA:               CategoryButton,
	ButtonB:               CategoryButton,
	ButtonX:               CategoryButton,
	ButtonY:               CategoryButton,
	ButtonMenu:            CategoryButton,
	ButtonOptions:         CategoryButton,
	ButtonHome:            CategoryButton,
	LeftShoulder:          CategoryButton,
	RightShoulder:         CategoryButton,
	LeftThumbstickButton:  CategoryButton,
	RightThumbstickButton: CategoryButton,
	LeftTrigger:           CategoryTrigger,
	RightTrigger:          CategoryTrigger,
	LeftThumbstick:        CategoryThumbstick,
	RightThumbstick:       CategoryThumbstick,
	Dpad:                  CategoryDpad,
	Touchpad:              CategoryVendor,
	TouchpadPrimary:       CategoryVendor,
	TouchpadSecondary:     CategoryVendor,
	PaddleOne:             CategoryVendor,
	PaddleTwo:             CategoryVendor,
	PaddleThree:           CategoryVendor,
	PaddleFour:            CategoryVendor,
	ButtonShare:           CategoryVendor,
}

// CategoryOf returns the category a control belongs to, or CategoryUnknown
// for a control outside the supported set.
func CategoryOf(control Control) Category {
	return controlCategories[control]
}

// ExtendedControls is the control set of a full extended-profile gamepad,
// before any vendor-specific extras.
var ExtendedControls = []Control{
	ButtonA, ButtonB, ButtonX, ButtonY,
	ButtonMenu, ButtonOptions, ButtonHome,
	LeftShoulder, RightShoulder,
	LeftTrigger, RightTrigger,
	LeftThumbstick, RightThumbstick,
	LeftThumbstickButton, RightThumbstickButton,
	Dpad,
}

// MicroControls is the reduced control set of a TV-remote style micro
// gamepad.
var MicroControls = []Control{
	ButtonA, ButtonX, ButtonMenu, Dpad,
}

// TouchpadControls are the extras present on DualShock 4 and DualSense
// controllers.
var TouchpadControls = []Control{
	Touchpad, TouchpadPrimary, TouchpadSecondary,
}

// PaddleControls are the extras present on paddle-equipped Xbox controllers.
var PaddleControls = []Control{
	PaddleOne, PaddleTwo, PaddleThree, PaddleFour, ButtonShare,
}
