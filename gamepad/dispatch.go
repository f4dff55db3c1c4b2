package gamepad

import "time"

// stagedValue is the most recent raw reading for a continuous-mode control,
// held until the next poll tick consumes it. Inactive slots (released
// button, centered stick) are skipped by the loop entirely.
type stagedValue struct {
	pressed bool
	value   float64
	x, y    float64
	active  bool
}

// handleRawSignal is the per-control dispatcher: it applies the effective
// mode of the signal's control and either delivers immediately (discrete
// modes) or stages the value for the polling loop (continuous modes).
// Handler invocation is synchronous and outside the registry lock.
func (r *Registry) handleRawSignal(sig RawSignal) {
	now := r.clock.Now()

	r.mu.Lock()
	if r.device == nil {
		r.mu.Unlock()
		return
	}

	b, bound := r.stack.resolve(sig.Control)
	mode := DefaultMode(sig.Control)
	if bound {
		mode = b.mode
	}

	var ev Event
	deliver := false

	switch CategoryOf(sig.Control) {
	case CategoryButton, CategoryTrigger:
		if mode == ModeContinuous {
			st := r.stagedFor(sig.Control)
			st.pressed = sig.Pressed
			st.value = sig.Value
			st.active = sig.Pressed
			// The flag tracks the staged state too, so a switch back to a
			// discrete mode still sees the next transition.
			r.debounce[sig.Control] = sig.Pressed
			break
		}
		// StateChange for buttons, Analog for triggers: both debounce on the
		// pressed transition, so a held control never repeats.
		if bound && sig.Pressed != r.debounce[sig.Control] {
			r.debounce[sig.Control] = sig.Pressed
			ev = Event{
				Time:    now,
				Type:    transitionType(sig.Pressed),
				Control: sig.Control,
				Pressed: sig.Pressed,
				Value:   sig.Value,
			}
			deliver = true
		}

	case CategoryDpad:
		// The whole pad debounces as one control: any nonzero axis counts as
		// pressed.
		pressed := sig.X != 0 || sig.Y != 0
		if mode == ModeDirectional {
			st := r.stagedFor(sig.Control)
			st.x = sig.X * r.stickGain
			st.y = sig.Y * r.stickGain
			st.pressed = pressed
			st.active = pressed
			r.debounce[sig.Control] = pressed
			break
		}
		if bound && pressed != r.debounce[sig.Control] {
			r.debounce[sig.Control] = pressed
			ev = Event{
				Time:    now,
				Type:    transitionType(pressed),
				Control: sig.Control,
				Pressed: pressed,
				X:       sig.X,
				Y:       sig.Y,
			}
			deliver = true
		}

	case CategoryThumbstick:
		if mode == ModeDirectional {
			st := r.stagedFor(sig.Control)
			moving := sig.X != 0 || sig.Y != 0
			st.x = sig.X * r.stickGain
			st.y = sig.Y * r.stickGain
			st.pressed = moving
			st.active = moving
			break
		}
		// Analog sticks report every sample; continuous analog reporting is
		// the contract, so no debounce.
		if bound {
			ev = Event{
				Time:    now,
				Type:    PositionChangeAbs,
				Control: sig.Control,
				X:       sig.X,
				Y:       sig.Y,
			}
			deliver = true
		}

	case CategoryVendor:
		// Touch gestures, paddles, and share have exactly one behavior:
		// immediate delivery on every raw signal.
		if bound {
			ev = vendorEvent(now, sig)
			deliver = true
		}
	}

	if deliver {
		r.lastEvents[sig.Control] = ev
	}
	fn := b.fn
	r.mu.Unlock()

	if deliver && fn != nil {
		fn(r.cancelCtx, ev)
	}
}

func (r *Registry) stagedFor(control Control) *stagedValue {
	st, ok := r.staged[control]
	if !ok {
		st = &stagedValue{}
		r.staged[control] = st
	}
	return st
}

func transitionType(pressed bool) EventType {
	if pressed {
		return ButtonPress
	}
	return ButtonRelease
}

func vendorEvent(now time.Time, sig RawSignal) Event {
	switch sig.Control {
	case TouchpadPrimary, TouchpadSecondary:
		return Event{
			Time:    now,
			Type:    PositionChangeAbs,
			Control: sig.Control,
			X:       sig.X,
			Y:       sig.Y,
		}
	default:
		return Event{
			Time:    now,
			Type:    transitionType(sig.Pressed),
			Control: sig.Control,
			Pressed: sig.Pressed,
			Value:   sig.Value,
		}
	}
}
