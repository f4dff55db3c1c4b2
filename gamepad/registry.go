package gamepad

import (
	"context"
	"math"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"go.uber.org/multierr"
)

// Registry is the single shared routing point between one physical gamepad
// and the UI surfaces interested in it. It owns the subscription stack, the
// device binding, and all staged and debounce state. Construct one at the
// application's composition root and pass it down; its lifetime is the
// application's lifetime.
type Registry struct {
	mu sync.Mutex

	logger  golog.Logger
	adapter Adapter
	clock   clock.Clock

	allowVirtual bool
	stickGain    float64

	stack subscriptionStack

	device   Device
	info     DeviceInfo
	listened []Control

	staged     map[Control]*stagedValue
	debounce   map[Control]bool
	lastEvents map[Control]Event

	pollCancel              func()
	activeBackgroundWorkers sync.WaitGroup

	cancelCtx  context.Context
	cancelFunc func()
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock substitutes the wall clock, mainly so tests can drive the
// polling loop deterministically.
func WithClock(c clock.Clock) Option {
	return func(r *Registry) { r.clock = c }
}

// WithVirtualDevices opts in to software controllers, which are otherwise
// rejected during the connect handshake.
func WithVirtualDevices() Option {
	return func(r *Registry) { r.allowVirtual = true }
}

// WithStickGain sets the gain factor applied to staged directional-mode axis
// values. Defaults to 1.
func WithStickGain(gain float64) Option {
	return func(r *Registry) { r.stickGain = gain }
}

// NewRegistry wires a registry to the platform adapter. The registry starts
// with no device bound and no polling; call Foregrounded once the host
// application is active.
func NewRegistry(adapter Adapter, logger golog.Logger, opts ...Option) *Registry {
	cancelCtx, cancelFunc := context.WithCancel(context.Background())
	r := &Registry{
		logger:     logger,
		adapter:    adapter,
		clock:      clock.New(),
		stickGain:  1,
		staged:     map[Control]*stagedValue{},
		debounce:   map[Control]bool{},
		lastEvents: map[Control]Event{},
		cancelCtx:  cancelCtx,
		cancelFunc: cancelFunc,
	}
	for _, opt := range opts {
		opt(r)
	}
	adapter.SetConnectFunc(r.handleAttach)
	adapter.SetDisconnectFunc(r.handleDetach)
	return r
}

// Register returns the subscription for the surface id, creating an empty
// one at the front of the stack on first reference. Re-registering an
// existing id returns it unchanged with no reordering.
func (r *Registry) Register(surfaceID string) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerLocked(surfaceID)
}

func (r *Registry) registerLocked(surfaceID string) *Subscription {
	if sub := r.stack.find(surfaceID); sub != nil {
		return sub
	}
	sub := newSubscription(r, surfaceID)
	r.stack.push(sub)
	return sub
}

// Connect registers interest for a surface and installs its connection
// callback. If a device is already bound, the classification is re-run
// against it and fn fires synchronously so the surface never misses the
// connect it registered for.
func (r *Registry) Connect(surfaceID string, fn ConnectionFunc) *Subscription {
	r.mu.Lock()
	sub := r.registerLocked(surfaceID)
	sub.connection = fn
	dev := r.device
	var info DeviceInfo
	if dev != nil {
		info = DeviceInfo{
			Vendor: dev.VendorName(),
			Style:  classify(dev.VendorName(), dev.ProductCategory(), dev.Capabilities()),
		}
		r.info = info
	}
	r.mu.Unlock()
	if dev != nil && fn != nil {
		fn(r.cancelCtx, dev, info, true)
	}
	return sub
}

// Release drops every handler, mode, and usage a surface registered and
// removes it from the stack. Unknown ids are a no-op. Safe to call from a
// teardown path at any time; in-flight dispatch on the same goroutine simply
// stops seeing the surface on its next resolve.
func (r *Registry) Release(surfaceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub := r.stack.remove(surfaceID)
	if sub == nil {
		return
	}
	sub.clear()
}

// SetMode configures the operating mode of one control for a surface,
// creating the subscription if needed.
func (r *Registry) SetMode(surfaceID string, control Control, mode Mode) error {
	return r.Register(surfaceID).SetMode(control, mode)
}

// SetUsage stores a usage description of one control for a surface.
func (r *Registry) SetUsage(surfaceID string, control Control, text string) {
	r.Register(surfaceID).SetUsage(control, text)
}

// Resolve returns the effective handler, mode, and usage for a control:
// the most recently registered surface with a handler bound wins, and all
// three values come from that same surface. With no interested surface the
// handler is nil, the mode is the control's default, and the usage is empty;
// dispatch treats that as "drop the event".
func (r *Registry) Resolve(control Control) (ControlFunction, Mode, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.stack.resolve(control)
	if !ok {
		return nil, DefaultMode(control), ""
	}
	return b.fn, b.mode, b.usage
}

// handleAttach runs the Disconnected -> Connecting -> Bound handshake for a
// newly reported device.
func (r *Registry) handleAttach(dev Device) {
	r.bind(dev)
}

// bind classifies the device and installs raw-signal listeners for every
// control it exposes. Binding over an already-bound device first tears down
// the previous listeners, so re-running the handshake never stacks
// duplicates.
func (r *Registry) bind(dev Device) {
	r.mu.Lock()
	if isVirtual(dev.VendorName(), dev.ProductCategory()) && !r.allowVirtual {
		r.mu.Unlock()
		r.logger.Debugw("ignoring virtual controller", "vendor", dev.VendorName())
		return
	}

	if r.device != nil {
		r.removeListenersLocked()
	}

	caps := dev.Capabilities()
	info := DeviceInfo{
		Vendor: dev.VendorName(),
		Style:  classify(dev.VendorName(), dev.ProductCategory(), caps),
	}
	r.device = dev
	r.info = info
	r.resetSignalStateLocked()

	for _, control := range caps.Controls {
		dev.SubscribeControl(control, r.handleRawSignal)
		r.listened = append(r.listened, control)
	}

	fns := r.connectionFuncsLocked()
	r.mu.Unlock()

	r.logger.Debugw("gamepad connected", "vendor", info.Vendor, "style", info.Style)
	for _, fn := range fns {
		fn(r.cancelCtx, dev, info, true)
	}
}

// handleDetach runs Bound -> Disconnected: listeners come off before any
// callback fires, staged and debounce state is discarded, and the disconnect
// notifications still carry the info of the device that was just lost.
func (r *Registry) handleDetach(dev Device) {
	r.mu.Lock()
	if r.device == nil {
		r.mu.Unlock()
		return
	}
	info := r.info
	r.removeListenersLocked()
	r.device = nil
	r.info = DeviceInfo{Style: StyleUnknown}
	r.resetSignalStateLocked()
	fns := r.connectionFuncsLocked()
	r.mu.Unlock()

	r.logger.Debugw("gamepad disconnected", "vendor", info.Vendor)
	for _, fn := range fns {
		fn(r.cancelCtx, dev, info, false)
	}
}

func (r *Registry) removeListenersLocked() {
	if r.device == nil {
		return
	}
	for _, control := range r.listened {
		r.device.UnsubscribeControl(control)
	}
	r.listened = nil
}

func (r *Registry) resetSignalStateLocked() {
	r.staged = map[Control]*stagedValue{}
	r.debounce = map[Control]bool{}
	r.lastEvents = map[Control]Event{}
}

func (r *Registry) connectionFuncsLocked() []ConnectionFunc {
	var fns []ConnectionFunc
	for _, sub := range r.stack.all() {
		if sub.connection != nil {
			fns = append(fns, sub.connection)
		}
	}
	return fns
}

// Foregrounded must be called when the host application becomes active. It
// starts the polling loop, rebinds a device whose listeners were torn down
// on backgrounding, and asks the adapter to re-announce anything attached
// while the app was away.
func (r *Registry) Foregrounded(ctx context.Context) {
	r.mu.Lock()
	r.startPollLoopLocked()
	dev := r.device
	fns := r.lifecycleFuncsLocked(func(s *Subscription) LifecycleFunc { return s.becameActive })
	r.mu.Unlock()

	for _, fn := range fns {
		fn(ctx)
	}
	if dev != nil {
		r.bind(dev)
	} else if err := r.adapter.Reconnect(ctx); err != nil {
		r.logger.Errorw("error reconnecting gamepad", "error", err)
	}
}

// EnteringBackground must be called when the host application is about to
// leave the foreground. It only notifies surfaces; routing stays live until
// Backgrounded.
func (r *Registry) EnteringBackground(ctx context.Context) {
	r.mu.Lock()
	fns := r.lifecycleFuncsLocked(func(s *Subscription) LifecycleFunc { return s.becameInactive })
	r.mu.Unlock()
	for _, fn := range fns {
		fn(ctx)
	}
}

// Backgrounded must be called once the host application has backgrounded.
// It stops the polling loop and tears down raw listeners so nothing
// dispatches into a suspended app; subscriptions survive untouched and the
// next Foregrounded rebinds.
func (r *Registry) Backgrounded(ctx context.Context) {
	r.mu.Lock()
	r.stopPollLoopLocked()
	r.removeListenersLocked()
	r.resetSignalStateLocked()
	fns := r.lifecycleFuncsLocked(func(s *Subscription) LifecycleFunc { return s.enteredBackground })
	r.mu.Unlock()

	r.activeBackgroundWorkers.Wait()
	for _, fn := range fns {
		fn(ctx)
	}
}

func (r *Registry) lifecycleFuncsLocked(pick func(*Subscription) LifecycleFunc) []LifecycleFunc {
	var fns []LifecycleFunc
	for _, sub := range r.stack.all() {
		if fn := pick(sub); fn != nil {
			fns = append(fns, fn)
		}
	}
	return fns
}

// IsConnected reports whether a device is currently bound.
func (r *Registry) IsConnected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.device != nil
}

// VendorName returns the bound device's vendor string, or empty.
func (r *Registry) VendorName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.info.Vendor
}

// Style returns the classified style variant of the bound device.
func (r *Registry) Style() StyleVariant {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.device == nil {
		return StyleUnknown
	}
	return r.info.Style
}

// Info returns the current device metadata.
func (r *Registry) Info() DeviceInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.device == nil {
		return DeviceInfo{Style: StyleUnknown}
	}
	return r.info
}

// SupportsHaptics reports whether the bound device can rumble. Output is
// capability detection only; driving the motors is out of scope.
func (r *Registry) SupportsHaptics() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.device == nil {
		return false
	}
	return r.device.Capabilities().Haptics
}

// BatteryLevel returns the charge as 0..100, or -1 when unknown or no device
// is bound.
func (r *Registry) BatteryLevel() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.device == nil {
		return -1
	}
	level, ok := r.device.BatteryLevel()
	if !ok {
		return -1
	}
	return int(math.Round(level * 100))
}

// IsCharging reports whether the bound device is on power.
func (r *Registry) IsCharging() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.device == nil {
		return false
	}
	return r.device.IsCharging()
}

// Controls lists the controls exposed by the bound device.
func (r *Registry) Controls() []Control {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.device == nil {
		return nil
	}
	caps := r.device.Capabilities()
	out := make([]Control, len(caps.Controls))
	copy(out, caps.Controls)
	return out
}

// LastEvents returns the most recently delivered event per control since the
// current device bound.
func (r *Registry) LastEvents() map[Control]Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[Control]Event, len(r.lastEvents))
	for c, ev := range r.lastEvents {
		out[c] = ev
	}
	return out
}

// Usages returns the effective usage string per control, resolved the same
// way handlers are. The help surface renders these; markup expansion happens
// there, not here.
func (r *Registry) Usages() map[Control]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[Control]string{}
	for control := range controlCategories {
		if b, ok := r.stack.resolve(control); ok && b.usage != "" {
			out[control] = b.usage
		}
	}
	return out
}

// Close stops the polling loop, unbinds the device, and releases the
// adapter. The registry is not usable afterwards.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	r.stopPollLoopLocked()
	r.removeListenersLocked()
	r.device = nil
	r.info = DeviceInfo{Style: StyleUnknown}
	r.resetSignalStateLocked()
	r.mu.Unlock()

	r.cancelFunc()
	r.activeBackgroundWorkers.Wait()
	return multierr.Combine(r.adapter.Close(ctx))
}
