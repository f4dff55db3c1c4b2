// Package menu provides a gamepad-driven menu selection model: a list of
// entries, a clamped selection index, and a visible window that tracks the
// selection. Rendering and selection sounds stay with the presentation
// layer; this model only routes movement into state.
package menu

import (
	"context"
	"sync"

	"github.com/Appracatappra/gamepadkit/gamepad"
)

// Menu is the selection state of one menu surface.
type Menu struct {
	mu         sync.Mutex
	items      []string
	maxEntries int
	selected   int
	top        int
	onChange   func(selected int)
}

// New returns a menu over items showing at most maxEntries at once. A
// maxEntries of zero or less shows everything.
func New(items []string, maxEntries int) *Menu {
	if maxEntries <= 0 {
		maxEntries = len(items)
	}
	return &Menu{items: items, maxEntries: maxEntries}
}

// SetSelectionChangedFunc installs a callback fired whenever the selection
// index changes. The presentation layer hangs sound playback and redraws off
// this.
func (m *Menu) SetSelectionChangedFunc(fn func(selected int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Selection returns the selected index.
func (m *Menu) Selection() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

// TopIndex returns the index of the first visible entry.
func (m *Menu) TopIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.top
}

// Visible returns the entries inside the current window.
func (m *Menu) Visible() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	end := m.top + m.maxEntries
	if end > len(m.items) {
		end = len(m.items)
	}
	out := make([]string, end-m.top)
	copy(out, m.items[m.top:end])
	return out
}

// MoveUp decrements the selection, never below zero, and scrolls the window
// so the selection stays visible.
func (m *Menu) MoveUp() {
	m.move(-1)
}

// MoveDown increments the selection, never past the last entry.
func (m *Menu) MoveDown() {
	m.move(1)
}

func (m *Menu) move(delta int) {
	m.mu.Lock()
	if len(m.items) == 0 {
		m.mu.Unlock()
		return
	}
	prev := m.selected
	next := prev + delta
	if next < 0 {
		next = 0
	}
	if next > len(m.items)-1 {
		next = len(m.items) - 1
	}
	m.selected = next
	if next < m.top {
		m.top = next
	}
	if next >= m.top+m.maxEntries {
		m.top = next - m.maxEntries + 1
	}
	fn := m.onChange
	m.mu.Unlock()

	if next != prev && fn != nil {
		fn(next)
	}
}

// Attach binds dpad navigation for this menu onto a surface's subscription.
// Press transitions and poll deliveries both move the selection, so the menu
// works in either dpad mode.
func (m *Menu) Attach(sub *gamepad.Subscription, usage string) {
	sub.SetHandler(gamepad.Dpad, func(ctx context.Context, ev gamepad.Event) {
		if ev.Type != gamepad.ButtonPress && ev.Type != gamepad.Poll {
			return
		}
		switch ev.Direction() {
		case gamepad.DirectionUp:
			m.MoveUp()
		case gamepad.DirectionDown:
			m.MoveDown()
		}
	})
	if usage != "" {
		sub.SetUsage(gamepad.Dpad, usage)
	}
}
