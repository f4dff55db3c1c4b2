// Package fake implements an in-memory gamepad adapter with injectable
// signals and connection events, for tests and demos.
package fake

import (
	"context"
	"sync"

	"github.com/Appracatappra/gamepadkit/gamepad"
)

var (
	_ = gamepad.Adapter(&Adapter{})
	_ = gamepad.Device(&Device{})
)

// Adapter is a fake platform controller API. Attach and Detach stand in for
// the platform's hotplug notifications.
type Adapter struct {
	mu           sync.Mutex
	connectFn    func(gamepad.Device)
	disconnectFn func(gamepad.Device)
	device       *Device
}

// NewAdapter returns an adapter with nothing attached.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// SetConnectFunc implements gamepad.Adapter.
func (a *Adapter) SetConnectFunc(fn func(gamepad.Device)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connectFn = fn
}

// SetDisconnectFunc implements gamepad.Adapter.
func (a *Adapter) SetDisconnectFunc(fn func(gamepad.Device)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.disconnectFn = fn
}

// Reconnect re-announces the attached device, if any.
func (a *Adapter) Reconnect(ctx context.Context) error {
	a.mu.Lock()
	fn, dev := a.connectFn, a.device
	a.mu.Unlock()
	if fn != nil && dev != nil {
		fn(dev)
	}
	return nil
}

// Close implements gamepad.Adapter.
func (a *Adapter) Close(ctx context.Context) error {
	return nil
}

// Attach reports dev as newly connected.
func (a *Adapter) Attach(dev *Device) {
	a.mu.Lock()
	a.device = dev
	fn := a.connectFn
	a.mu.Unlock()
	if fn != nil {
		fn(dev)
	}
}

// Detach reports the attached device as disconnected.
func (a *Adapter) Detach() {
	a.mu.Lock()
	dev := a.device
	a.device = nil
	fn := a.disconnectFn
	a.mu.Unlock()
	if fn != nil && dev != nil {
		fn(dev)
	}
}

// Device is a fake physical controller. Configure the public fields before
// attaching; inject raw signals with Trigger.
type Device struct {
	Vendor   string
	Category string
	Caps     gamepad.Capabilities

	Battery      float64
	BatteryKnown bool
	Charging     bool

	mu        sync.Mutex
	listeners map[gamepad.Control]gamepad.RawSignalFunc
}

// NewExtendedDevice returns a device exposing the full extended profile.
func NewExtendedDevice(vendor string) *Device {
	return &Device{
		Vendor: vendor,
		Caps: gamepad.Capabilities{
			Extended: true,
			Haptics:  true,
			Controls: gamepad.ExtendedControls,
		},
	}
}

// NewMicroDevice returns a TV-remote style device with the reduced profile.
func NewMicroDevice(vendor string) *Device {
	return &Device{
		Vendor: vendor,
		Caps: gamepad.Capabilities{
			Micro:    true,
			Controls: gamepad.MicroControls,
		},
	}
}

// VendorName implements gamepad.Device.
func (d *Device) VendorName() string { return d.Vendor }

// ProductCategory implements gamepad.Device.
func (d *Device) ProductCategory() string { return d.Category }

// Capabilities implements gamepad.Device.
func (d *Device) Capabilities() gamepad.Capabilities { return d.Caps }

// SubscribeControl implements gamepad.Device.
func (d *Device) SubscribeControl(control gamepad.Control, fn gamepad.RawSignalFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listeners == nil {
		d.listeners = map[gamepad.Control]gamepad.RawSignalFunc{}
	}
	d.listeners[control] = fn
}

// UnsubscribeControl implements gamepad.Device.
func (d *Device) UnsubscribeControl(control gamepad.Control) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.listeners, control)
}

// BatteryLevel implements gamepad.Device.
func (d *Device) BatteryLevel() (float64, bool) {
	return d.Battery, d.BatteryKnown
}

// IsCharging implements gamepad.Device.
func (d *Device) IsCharging() bool { return d.Charging }

// Trigger pushes one raw signal through the installed listener, exactly the
// way hardware would. Signals for controls nobody listens to are dropped.
func (d *Device) Trigger(sig gamepad.RawSignal) {
	d.mu.Lock()
	fn := d.listeners[sig.Control]
	d.mu.Unlock()
	if fn != nil {
		fn(sig)
	}
}

// ListenerCount reports how many controls currently have listeners
// installed, so tests can check binding teardown and rebind behavior.
func (d *Device) ListenerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}
