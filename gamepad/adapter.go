package gamepad

import "context"

// Adapter is the platform's physical controller API. The registry subscribes
// to its attach/detach notifications and treats the devices it reports as
// black boxes that push raw signals.
type Adapter interface {
	// SetConnectFunc installs the function called when a device attaches.
	SetConnectFunc(fn func(Device))
	// SetDisconnectFunc installs the function called when a device detaches.
	SetDisconnectFunc(fn func(Device))
	// Reconnect re-scans and re-announces the currently attached device, if
	// any. Called when the host application returns to the foreground.
	Reconnect(ctx context.Context) error
	// Close releases platform resources.
	Close(ctx context.Context) error
}

// Device is one attached physical controller.
type Device interface {
	// VendorName reports the vendor string of the device.
	VendorName() string
	// ProductCategory reports the platform's category string, used to
	// sub-classify touchpad controllers and detect virtual devices.
	ProductCategory() string
	// Capabilities reports the capability surface, populated once.
	Capabilities() Capabilities

	// SubscribeControl installs fn as the raw-signal listener for a control.
	// Installing over an existing listener replaces it.
	SubscribeControl(control Control, fn RawSignalFunc)
	// UnsubscribeControl removes the listener for a control.
	UnsubscribeControl(control Control)

	// BatteryLevel reports charge in 0..1; ok is false when unknown.
	BatteryLevel() (level float64, ok bool)
	// IsCharging reports whether the device is on power.
	IsCharging() bool
}
