package gamepad

import (
	"context"
	"time"

	"go.viam.com/utils"
)

// pollInterval is the fixed cadence at which staged continuous-mode values
// are delivered while a device is bound.
const pollInterval = 100 * time.Millisecond

// startPollLoopLocked starts the background poll worker if it is not already
// running. Callers hold r.mu.
func (r *Registry) startPollLoopLocked() {
	if r.pollCancel != nil {
		return
	}
	cancelCtx, cancelFunc := context.WithCancel(r.cancelCtx)
	r.pollCancel = cancelFunc

	// Created before the worker starts, so the ticker exists by the time
	// Foregrounded returns and a mock clock can drive it right away.
	ticker := r.clock.Ticker(pollInterval)

	r.activeBackgroundWorkers.Add(1)
	utils.PanicCapturingGo(func() {
		defer r.activeBackgroundWorkers.Done()
		defer ticker.Stop()
		for {
			select {
			case <-cancelCtx.Done():
				return
			case <-ticker.C:
			}
			r.pollTick(cancelCtx)
		}
	})
}

// stopPollLoopLocked cancels the poll worker. Callers hold r.mu; waiting on
// the worker happens outside the lock since a tick in flight needs it.
func (r *Registry) stopPollLoopLocked() {
	if r.pollCancel == nil {
		return
	}
	r.pollCancel()
	r.pollCancel = nil
}

// pollTick delivers every staged slot that is currently active to its
// effective handler. Slots whose control has since been switched back to a
// discrete mode, or has no interested surface, are skipped; inactive slots
// produce no zero-value spam.
func (r *Registry) pollTick(ctx context.Context) {
	now := r.clock.Now()

	type delivery struct {
		fn ControlFunction
		ev Event
	}
	var out []delivery

	r.mu.Lock()
	if r.device == nil {
		r.mu.Unlock()
		return
	}
	for control, st := range r.staged {
		if !st.active {
			continue
		}
		b, ok := r.stack.resolve(control)
		if !ok || (b.mode != ModeContinuous && b.mode != ModeDirectional) {
			continue
		}
		ev := Event{
			Time:    now,
			Type:    Poll,
			Control: control,
			Pressed: st.pressed,
			Value:   st.value,
			X:       st.x,
			Y:       st.y,
		}
		r.lastEvents[control] = ev
		out = append(out, delivery{b.fn, ev})
	}
	r.mu.Unlock()

	for _, d := range out {
		d.fn(ctx, d.ev)
	}
}
