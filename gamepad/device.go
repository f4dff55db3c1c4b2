package gamepad

import "strings"

// StyleVariant is the classified controller family, driving icon and title
// lookups in presentation code.
type StyleVariant string

// The known style variants.
const (
	StyleUnknown     StyleVariant = "Unknown"
	StyleExtended    StyleVariant = "Extended"
	StyleDualShock   StyleVariant = "DualShock"
	StyleXbox        StyleVariant = "Xbox"
	StyleDualSense   StyleVariant = "DualSense"
	StyleMicro       StyleVariant = "Micro"
	StyleDirectional StyleVariant = "Directional"
)

// IconName returns the display icon identifier for the variant.
func (s StyleVariant) IconName() string {
	switch s {
	case StyleDualShock, StyleDualSense:
		return "playstation.logo"
	case StyleXbox:
		return "xbox.logo"
	case StyleMicro, StyleDirectional:
		return "appletvremote.gen4"
	case StyleExtended:
		return "gamecontroller"
	default:
		return "questionmark.circle"
	}
}

// Title returns the human-readable name for the variant.
func (s StyleVariant) Title() string {
	switch s {
	case StyleExtended:
		return "Gamepad"
	case StyleDualShock:
		return "DualShock 4 Controller"
	case StyleDualSense:
		return "DualSense Controller"
	case StyleXbox:
		return "Xbox Controller"
	case StyleMicro:
		return "Siri Remote"
	case StyleDirectional:
		return "Directional Remote"
	default:
		return "Unknown Controller"
	}
}

// Capabilities describes, once at classification time, which surfaces a
// device exposes. Field presence replaces any runtime narrowing of the device
// handle.
type Capabilities struct {
	// Extended is set for devices with the full gamepad profile; Micro for
	// the reduced TV-remote profile. A device reports at most one of the two.
	Extended bool
	Micro    bool
	// DpadOnly marks micro-profile remotes without face buttons.
	DpadOnly bool
	// Vendor extras.
	Touchpad bool
	Paddles  bool
	Share    bool
	Haptics  bool
	// Controls is the concrete control list the device exposes.
	Controls []Control
}

// DeviceInfo is the classified metadata of the bound device. Display fields
// are pure functions of the style variant.
type DeviceInfo struct {
	Vendor string
	Style  StyleVariant
}

// classify maps a device's capability surface to a style variant. Extended
// devices are sub-classified by vendor extras, then by product category
// string; micro devices split on whether face buttons exist at all.
func classify(vendor, category string, caps Capabilities) StyleVariant {
	switch {
	case caps.Extended:
		switch {
		case caps.Touchpad:
			if strings.Contains(category, "DualSense") || strings.Contains(vendor, "DualSense") {
				return StyleDualSense
			}
			return StyleDualShock
		case caps.Paddles || caps.Share:
			return StyleXbox
		default:
			return StyleExtended
		}
	case caps.Micro:
		if caps.DpadOnly {
			return StyleDirectional
		}
		return StyleMicro
	default:
		return StyleUnknown
	}
}

// isVirtual is the vendor-name + category heuristic for software
// controllers, which are rejected unless the application opted in.
func isVirtual(vendor, category string) bool {
	return strings.Contains(strings.ToLower(vendor), "virtual") ||
		strings.Contains(strings.ToLower(category), "virtual")
}
