//go:build linux

package evdevpad

import (
	"context"
	"strings"
	"sync"

	evdev "github.com/holoplot/go-evdev"
	"go.viam.com/utils"

	"github.com/Appracatappra/gamepadkit/gamepad"
)

// buttonControls maps evdev key codes to controls. Uses the modern BTN_SOUTH
// naming; BTN_A and friends are the same codes.
var buttonControls = map[evdev.EvCode]gamepad.Control{
	evdev.BTN_SOUTH:  gamepad.ButtonA,
	evdev.BTN_EAST:   gamepad.ButtonB,
	evdev.BTN_WEST:   gamepad.ButtonX,
	evdev.BTN_NORTH:  gamepad.ButtonY,
	evdev.BTN_TL:     gamepad.LeftShoulder,
	evdev.BTN_TR:     gamepad.RightShoulder,
	evdev.BTN_SELECT: gamepad.ButtonOptions,
	evdev.BTN_START:  gamepad.ButtonMenu,
	evdev.BTN_MODE:   gamepad.ButtonHome,
	evdev.BTN_THUMBL: gamepad.LeftThumbstickButton,
	evdev.BTN_THUMBR: gamepad.RightThumbstickButton,
}

var _ = gamepad.Device(&device{})

type device struct {
	adapter *Adapter
	dev     *evdev.InputDevice
	name    string
	caps    gamepad.Capabilities
	ranges  map[evdev.EvCode]evdev.AbsInfo

	mu        sync.Mutex
	listeners map[gamepad.Control]gamepad.RawSignalFunc
	// Last seen per-axis values, so a one-axis kernel event still reports a
	// full (x, y) pair.
	lx, ly, rx, ry float64
	hatX, hatY     float64
}

func newDevice(a *Adapter, ed *evdev.InputDevice, name string) *device {
	d := &device{
		adapter:   a,
		dev:       ed,
		name:      name,
		listeners: map[gamepad.Control]gamepad.RawSignalFunc{},
		ranges:    map[evdev.EvCode]evdev.AbsInfo{},
	}
	if infos, err := ed.AbsInfos(); err == nil {
		d.ranges = infos
	}

	controls := make([]gamepad.Control, len(gamepad.ExtendedControls))
	copy(controls, gamepad.ExtendedControls)
	caps := gamepad.Capabilities{Extended: true}
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "dualsense") || strings.Contains(lower, "dualshock") ||
		strings.Contains(lower, "sony") || strings.Contains(lower, "wireless controller"):
		caps.Touchpad = true
		controls = append(controls, gamepad.TouchpadControls...)
	case strings.Contains(lower, "elite"):
		caps.Paddles = true
		caps.Share = true
		controls = append(controls, gamepad.PaddleControls...)
	}
	for _, t := range ed.CapableTypes() {
		if t == evdev.EV_FF {
			caps.Haptics = true
		}
	}
	caps.Controls = controls
	d.caps = caps
	return d
}

// VendorName implements gamepad.Device.
func (d *device) VendorName() string { return d.name }

// ProductCategory implements gamepad.Device. evdev has no separate category
// string, so the device name serves for sub-classification.
func (d *device) ProductCategory() string { return d.name }

// Capabilities implements gamepad.Device.
func (d *device) Capabilities() gamepad.Capabilities { return d.caps }

// SubscribeControl implements gamepad.Device.
func (d *device) SubscribeControl(control gamepad.Control, fn gamepad.RawSignalFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[control] = fn
}

// UnsubscribeControl implements gamepad.Device.
func (d *device) UnsubscribeControl(control gamepad.Control) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.listeners, control)
}

// BatteryLevel implements gamepad.Device. evdev does not expose charge.
func (d *device) BatteryLevel() (float64, bool) { return 0, false }

// IsCharging implements gamepad.Device.
func (d *device) IsCharging() bool { return false }

func (d *device) close() error {
	return d.dev.Close()
}

func (d *device) startReadLoop(ctx context.Context) {
	d.adapter.activeBackgroundWorkers.Add(1)
	utils.PanicCapturingGo(func() {
		defer d.adapter.activeBackgroundWorkers.Done()
		for ctx.Err() == nil {
			ev, err := d.dev.ReadOne()
			if err != nil {
				// Read failure means the node went away; report and stop.
				if ctx.Err() == nil {
					d.adapter.dropDevice(d)
				}
				return
			}
			d.translate(ev)
		}
	})
}

func (d *device) translate(ev *evdev.InputEvent) {
	switch ev.Type {
	case evdev.EV_KEY:
		control, ok := buttonControls[ev.Code]
		if !ok {
			return
		}
		pressed := ev.Value > 0
		value := 0.0
		if pressed {
			value = 1
		}
		d.emit(gamepad.RawSignal{Control: control, Pressed: pressed, Value: value})

	case evdev.EV_ABS:
		d.translateAxis(ev.Code, ev.Value)
	}
}

func (d *device) translateAxis(code evdev.EvCode, raw int32) {
	switch code {
	case evdev.ABS_X, evdev.ABS_Y:
		d.mu.Lock()
		if code == evdev.ABS_X {
			d.lx = d.centered(code, raw)
		} else {
			// evdev y grows downward; the event model reports up as positive.
			d.ly = -d.centered(code, raw)
		}
		x, y := d.lx, d.ly
		d.mu.Unlock()
		d.emit(gamepad.RawSignal{Control: gamepad.LeftThumbstick, X: x, Y: y})

	case evdev.ABS_RX, evdev.ABS_RY:
		d.mu.Lock()
		if code == evdev.ABS_RX {
			d.rx = d.centered(code, raw)
		} else {
			d.ry = -d.centered(code, raw)
		}
		x, y := d.rx, d.ry
		d.mu.Unlock()
		d.emit(gamepad.RawSignal{Control: gamepad.RightThumbstick, X: x, Y: y})

	case evdev.ABS_Z, evdev.ABS_RZ:
		control := gamepad.LeftTrigger
		if code == evdev.ABS_RZ {
			control = gamepad.RightTrigger
		}
		v := d.unipolar(code, raw)
		d.emit(gamepad.RawSignal{Control: control, Pressed: v > 0, Value: v})

	case evdev.ABS_HAT0X, evdev.ABS_HAT0Y:
		d.mu.Lock()
		if code == evdev.ABS_HAT0X {
			d.hatX = float64(raw)
		} else {
			d.hatY = -float64(raw)
		}
		x, y := d.hatX, d.hatY
		d.mu.Unlock()
		d.emit(gamepad.RawSignal{Control: gamepad.Dpad, X: x, Y: y})
	}
}

// centered normalizes an axis to -1..1.
func (d *device) centered(code evdev.EvCode, raw int32) float64 {
	info, ok := d.ranges[code]
	if !ok || info.Maximum == info.Minimum {
		return 0
	}
	return float64(raw-info.Minimum)/float64(info.Maximum-info.Minimum)*2 - 1
}

// unipolar normalizes a trigger to 0..1.
func (d *device) unipolar(code evdev.EvCode, raw int32) float64 {
	info, ok := d.ranges[code]
	if !ok || info.Maximum == info.Minimum {
		return 0
	}
	return float64(raw-info.Minimum) / float64(info.Maximum-info.Minimum)
}

func (d *device) emit(sig gamepad.RawSignal) {
	d.mu.Lock()
	fn := d.listeners[sig.Control]
	d.mu.Unlock()
	if fn != nil {
		fn(sig)
	}
}
