//go:build !linux

// Package evdevpad implements the gamepad adapter on top of the Linux evdev
// interface. On other platforms construction fails.
package evdevpad

import (
	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/Appracatappra/gamepadkit/gamepad"
)

// NewAdapter is only supported on Linux.
func NewAdapter(logger golog.Logger) (gamepad.Adapter, error) {
	return nil, errors.New("evdev gamepads are only supported on linux")
}
