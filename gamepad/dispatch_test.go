package gamepad_test

import (
	"context"
	"sync"
	"testing"

	"go.viam.com/test"

	"github.com/Appracatappra/gamepadkit/gamepad"
	"github.com/Appracatappra/gamepadkit/gamepad/fake"
)

// recorder collects delivered events in order.
type recorder struct {
	mu     sync.Mutex
	events []gamepad.Event
}

func (rec *recorder) fn(ctx context.Context, ev gamepad.Event) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.events = append(rec.events, ev)
}

func (rec *recorder) all() []gamepad.Event {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]gamepad.Event, len(rec.events))
	copy(out, rec.events)
	return out
}

func TestButtonDebounce(t *testing.T) {
	s := setup(t)
	dev := fake.NewExtendedDevice("ACME Pad")
	s.adapter.Attach(dev)

	rec := &recorder{}
	s.registry.Register("surfaceA").SetHandler(gamepad.ButtonA, rec.fn)

	press := gamepad.RawSignal{Control: gamepad.ButtonA, Pressed: true, Value: 1}
	for i := 0; i < 5; i++ {
		dev.Trigger(press)
	}
	events := rec.all()
	test.That(t, len(events), test.ShouldEqual, 1)
	test.That(t, events[0].Type, test.ShouldEqual, gamepad.ButtonPress)
	test.That(t, events[0].Pressed, test.ShouldBeTrue)

	dev.Trigger(gamepad.RawSignal{Control: gamepad.ButtonA})
	dev.Trigger(gamepad.RawSignal{Control: gamepad.ButtonA})
	events = rec.all()
	test.That(t, len(events), test.ShouldEqual, 2)
	test.That(t, events[1].Type, test.ShouldEqual, gamepad.ButtonRelease)

	dev.Trigger(press)
	test.That(t, len(rec.all()), test.ShouldEqual, 3)
}

func TestTriggerAnalog(t *testing.T) {
	s := setup(t)
	dev := fake.NewExtendedDevice("ACME Pad")
	s.adapter.Attach(dev)

	rec := &recorder{}
	s.registry.Register("surfaceA").SetHandler(gamepad.LeftTrigger, rec.fn)

	dev.Trigger(gamepad.RawSignal{Control: gamepad.LeftTrigger, Pressed: true, Value: 0.4})
	// Still pressed, pressure changed: Analog mode only reports transitions.
	dev.Trigger(gamepad.RawSignal{Control: gamepad.LeftTrigger, Pressed: true, Value: 0.9})
	dev.Trigger(gamepad.RawSignal{Control: gamepad.LeftTrigger, Pressed: false, Value: 0})

	events := rec.all()
	test.That(t, len(events), test.ShouldEqual, 2)
	test.That(t, events[0].Type, test.ShouldEqual, gamepad.ButtonPress)
	test.That(t, events[0].Value, test.ShouldEqual, 0.4)
	test.That(t, events[1].Type, test.ShouldEqual, gamepad.ButtonRelease)
}

func TestDpadWholePadDebounce(t *testing.T) {
	s := setup(t)
	dev := fake.NewExtendedDevice("ACME Pad")
	s.adapter.Attach(dev)

	rec := &recorder{}
	s.registry.Register("surfaceA").SetHandler(gamepad.Dpad, rec.fn)

	dev.Trigger(gamepad.RawSignal{Control: gamepad.Dpad, X: 1})
	// Direction change while held: the pad debounces as a whole, so no new
	// event until it recenters.
	dev.Trigger(gamepad.RawSignal{Control: gamepad.Dpad, Y: 1})
	events := rec.all()
	test.That(t, len(events), test.ShouldEqual, 1)
	test.That(t, events[0].Type, test.ShouldEqual, gamepad.ButtonPress)
	test.That(t, events[0].X, test.ShouldEqual, 1.0)

	dev.Trigger(gamepad.RawSignal{Control: gamepad.Dpad})
	dev.Trigger(gamepad.RawSignal{Control: gamepad.Dpad, Y: -1})
	events = rec.all()
	test.That(t, len(events), test.ShouldEqual, 3)
	test.That(t, events[1].Type, test.ShouldEqual, gamepad.ButtonRelease)
	test.That(t, events[2].Type, test.ShouldEqual, gamepad.ButtonPress)
	test.That(t, events[2].Direction(), test.ShouldEqual, gamepad.DirectionDown)
}

func TestThumbstickAnalogReportsEverySample(t *testing.T) {
	s := setup(t)
	dev := fake.NewExtendedDevice("ACME Pad")
	s.adapter.Attach(dev)

	rec := &recorder{}
	s.registry.Register("surfaceA").SetHandler(gamepad.LeftThumbstick, rec.fn)

	samples := []gamepad.RawSignal{
		{Control: gamepad.LeftThumbstick, X: 0.5, Y: 0},
		{Control: gamepad.LeftThumbstick, X: 0.5, Y: 0},
		{Control: gamepad.LeftThumbstick, X: 0, Y: 0},
	}
	for _, sig := range samples {
		dev.Trigger(sig)
	}
	events := rec.all()
	test.That(t, len(events), test.ShouldEqual, 3)
	for _, ev := range events {
		test.That(t, ev.Type, test.ShouldEqual, gamepad.PositionChangeAbs)
	}
}

func TestVendorControlsDeliverImmediately(t *testing.T) {
	s := setup(t)
	dev := fake.NewExtendedDevice("Sony Interactive Entertainment")
	dev.Category = "DualSense"
	dev.Caps.Touchpad = true
	dev.Caps.Controls = append(dev.Caps.Controls, gamepad.TouchpadControls...)
	s.adapter.Attach(dev)
	test.That(t, s.registry.Style(), test.ShouldEqual, gamepad.StyleDualSense)

	padRec := &recorder{}
	gestureRec := &recorder{}
	sub := s.registry.Register("surfaceA")
	sub.SetHandler(gamepad.Touchpad, padRec.fn)
	sub.SetHandler(gamepad.TouchpadPrimary, gestureRec.fn)

	// No debounce: repeated identical signals all come through.
	dev.Trigger(gamepad.RawSignal{Control: gamepad.Touchpad, Pressed: true})
	dev.Trigger(gamepad.RawSignal{Control: gamepad.Touchpad, Pressed: true})
	test.That(t, len(padRec.all()), test.ShouldEqual, 2)

	dev.Trigger(gamepad.RawSignal{Control: gamepad.TouchpadPrimary, X: 0.2, Y: 0.3})
	events := gestureRec.all()
	test.That(t, len(events), test.ShouldEqual, 1)
	test.That(t, events[0].Type, test.ShouldEqual, gamepad.PositionChangeAbs)
	test.That(t, events[0].Y, test.ShouldEqual, 0.3)
}

func TestModeSwitchSeesHeldRelease(t *testing.T) {
	s := setup(t)
	dev := fake.NewExtendedDevice("ACME Pad")
	s.adapter.Attach(dev)

	rec := &recorder{}
	sub := s.registry.Register("surfaceA")
	test.That(t, sub.SetMode(gamepad.Dpad, gamepad.ModeDirectional), test.ShouldBeNil)
	sub.SetHandler(gamepad.Dpad, rec.fn)

	// Deflection staged for polling, then the surface goes discrete while
	// the pad is still held.
	dev.Trigger(gamepad.RawSignal{Control: gamepad.Dpad, X: 1})
	test.That(t, sub.SetMode(gamepad.Dpad, gamepad.ModeStateChange), test.ShouldBeNil)

	// Recentering is a real transition and must not be swallowed.
	dev.Trigger(gamepad.RawSignal{Control: gamepad.Dpad})
	events := rec.all()
	test.That(t, len(events), test.ShouldEqual, 1)
	test.That(t, events[0].Type, test.ShouldEqual, gamepad.ButtonRelease)
}

func TestUnboundControlDropsSilently(t *testing.T) {
	s := setup(t)
	dev := fake.NewExtendedDevice("ACME Pad")
	s.adapter.Attach(dev)

	// Nobody listening: dropped, and the transition is not consumed.
	dev.Trigger(gamepad.RawSignal{Control: gamepad.ButtonA, Pressed: true, Value: 1})

	rec := &recorder{}
	s.registry.Register("surfaceA").SetHandler(gamepad.ButtonA, rec.fn)
	dev.Trigger(gamepad.RawSignal{Control: gamepad.ButtonA, Pressed: true, Value: 1})
	events := rec.all()
	test.That(t, len(events), test.ShouldEqual, 1)
	test.That(t, events[0].Type, test.ShouldEqual, gamepad.ButtonPress)
}

func TestDisconnectResetsSignalState(t *testing.T) {
	s := setup(t)
	dev := fake.NewExtendedDevice("ACME Pad")
	s.adapter.Attach(dev)

	rec := &recorder{}
	sub := s.registry.Register("surfaceA")
	sub.SetHandler(gamepad.ButtonA, rec.fn)
	test.That(t, sub.SetMode(gamepad.RightTrigger, gamepad.ModeContinuous), test.ShouldBeNil)
	sub.SetHandler(gamepad.RightTrigger, rec.fn)

	dev.Trigger(gamepad.RawSignal{Control: gamepad.ButtonA, Pressed: true, Value: 1})
	dev.Trigger(gamepad.RawSignal{Control: gamepad.RightTrigger, Pressed: true, Value: 0.7})
	test.That(t, len(rec.all()), test.ShouldEqual, 1)
	test.That(t, len(s.registry.LastEvents()), test.ShouldEqual, 1)

	s.adapter.Detach()
	test.That(t, len(s.registry.LastEvents()), test.ShouldEqual, 0)

	// Fresh connection starts from neutral: the same pressed=true reading is
	// a new transition, and no stale staged trigger value survives.
	s.adapter.Attach(dev)
	dev.Trigger(gamepad.RawSignal{Control: gamepad.ButtonA, Pressed: true, Value: 1})
	events := rec.all()
	test.That(t, len(events), test.ShouldEqual, 2)
	test.That(t, events[1].Type, test.ShouldEqual, gamepad.ButtonPress)
}

func TestDirectionMapping(t *testing.T) {
	for _, tc := range []struct {
		name     string
		x, y     float64
		expected gamepad.Direction
	}{
		{"right", 1, 0, gamepad.DirectionRight},
		{"left", -1, 0, gamepad.DirectionLeft},
		{"up", 0, 1, gamepad.DirectionUp},
		{"down", 0, -1, gamepad.DirectionDown},
		{"centered", 0, 0, gamepad.DirectionNone},
		{"diagonal prefers x", 0.3, 0.9, gamepad.DirectionRight},
		{"negative diagonal prefers x", -0.3, -0.9, gamepad.DirectionLeft},
	} {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, gamepad.DirectionOf(tc.x, tc.y), test.ShouldEqual, tc.expected)
		})
	}
}
