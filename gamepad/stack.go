package gamepad

// subscriptionStack is an ordered collection of subscriptions with explicit
// priority semantics: push places a subscription at the front, and lookups
// scan front to back, so the most recently registered surface wins. Removal
// preserves the relative order of the rest.
type subscriptionStack struct {
	subs []*Subscription
}

// push inserts s at the front of the stack.
func (st *subscriptionStack) push(s *Subscription) {
	st.subs = append([]*Subscription{s}, st.subs...)
}

// find returns the subscription with the given surface id, or nil.
func (st *subscriptionStack) find(surfaceID string) *Subscription {
	for _, s := range st.subs {
		if s.surfaceID == surfaceID {
			return s
		}
	}
	return nil
}

// remove takes the subscription with the given surface id out of the stack
// and returns it, or nil if absent.
func (st *subscriptionStack) remove(surfaceID string) *Subscription {
	for i, s := range st.subs {
		if s.surfaceID == surfaceID {
			st.subs = append(st.subs[:i], st.subs[i+1:]...)
			return s
		}
	}
	return nil
}

// resolve scans front to back for the first subscription binding a handler
// to the control and returns that subscription's whole binding, so handler,
// mode, and usage always come from the same surface.
func (st *subscriptionStack) resolve(control Control) (binding, bool) {
	for _, s := range st.subs {
		if b, ok := s.bindings[control]; ok && b.fn != nil {
			return b, true
		}
	}
	return binding{}, false
}

// all returns the stack contents in priority order.
func (st *subscriptionStack) all() []*Subscription {
	out := make([]*Subscription, len(st.subs))
	copy(out, st.subs)
	return out
}
