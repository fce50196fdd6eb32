// SPDX-License-Identifier: MIT

package probe

import (
	"sync"
	"time"
)

// Debouncer collapses rapid successive triggers for the same key into a
// single callback of the final value: each Trigger cancels any pending
// timer for that key and schedules a new one, so only the trigger that
// survives the delay unmodified fires.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// DefaultDebounceDelay is the edit-settle window for logo field edits.
const DefaultDebounceDelay = 500 * time.Millisecond

// NewDebouncer creates a Debouncer with the given settle delay; zero means
// DefaultDebounceDelay.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &Debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

// Trigger schedules fn to run after the settle delay, replacing any pending
// trigger for the same key.
func (d *Debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	// Stop does not stop a timer whose callback is already running, so the
	// callback re-checks that its own timer is still the registered one.
	// A replaced timer that lost that race must not fire the stale value
	// or unregister its successor.
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := d.timers[key] == t
		if current {
			delete(d.timers, key)
		}
		d.mu.Unlock()
		if current {
			fn()
		}
	})
	d.timers[key] = t
}

// Cancel drops any pending trigger for key.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[key]; ok {
		t.Stop()
		delete(d.timers, key)
	}
}

// Stop drops every pending trigger.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, t := range d.timers {
		t.Stop()
		delete(d.timers, k)
	}
}
