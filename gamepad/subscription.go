package gamepad

// binding is one surface's interest in one control.
type binding struct {
	fn    ControlFunction
	mode  Mode
	usage string
}

// Subscription is the set of callbacks, per-control operating modes, and
// usage strings one UI surface has registered for the shared gamepad. It is
// owned by the Registry; mutate it only through Registry methods or the
// setters here, which lock the owning registry. At most one live
// Subscription exists per surface id; keeping ids unique is the caller's
// obligation.
type Subscription struct {
	surfaceID string
	registry  *Registry

	bindings map[Control]binding

	connection ConnectionFunc

	becameActive      LifecycleFunc
	becameInactive    LifecycleFunc
	enteredBackground LifecycleFunc
}

func newSubscription(r *Registry, surfaceID string) *Subscription {
	return &Subscription{
		surfaceID: surfaceID,
		registry:  r,
		bindings:  map[Control]binding{},
	}
}

// SurfaceID returns the owning surface's identifier.
func (s *Subscription) SurfaceID() string {
	return s.surfaceID
}

// SetHandler binds fn to a control. The control's mode stays at its default
// until SetMode changes it. A nil fn removes the surface's interest in the
// control.
func (s *Subscription) SetHandler(control Control, fn ControlFunction) {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	b := s.bindings[control]
	b.fn = fn
	if b.mode == "" {
		b.mode = DefaultMode(control)
	}
	s.bindings[control] = b
}

// SetMode configures the operating mode for a control. Invalid modes for the
// control's category are rejected.
func (s *Subscription) SetMode(control Control, mode Mode) error {
	if err := checkMode(control, mode); err != nil {
		return err
	}
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	b := s.bindings[control]
	b.mode = mode
	s.bindings[control] = b
	return nil
}

// SetUsage stores a free-text description of what the surface uses the
// control for. The help surface reads it back; any markup inside is expanded
// by the presentation layer, not here.
func (s *Subscription) SetUsage(control Control, text string) {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	b := s.bindings[control]
	if b.mode == "" {
		b.mode = DefaultMode(control)
	}
	b.usage = text
	s.bindings[control] = b
}

// OnConnection installs the connect/disconnect callback.
func (s *Subscription) OnConnection(fn ConnectionFunc) {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	s.connection = fn
}

// OnBecameActive installs the callback fired when the app foregrounds.
func (s *Subscription) OnBecameActive(fn LifecycleFunc) {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	s.becameActive = fn
}

// OnBecameInactive installs the callback fired when the app is about to
// leave the foreground.
func (s *Subscription) OnBecameInactive(fn LifecycleFunc) {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	s.becameInactive = fn
}

// OnEnteredBackground installs the callback fired once the app has
// backgrounded.
func (s *Subscription) OnEnteredBackground(fn LifecycleFunc) {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	s.enteredBackground = fn
}

// clear drops every handler and usage string so a released surface leaks no
// closures.
func (s *Subscription) clear() {
	s.bindings = map[Control]binding{}
	s.connection = nil
	s.becameActive = nil
	s.becameInactive = nil
	s.enteredBackground = nil
}
