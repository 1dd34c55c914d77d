// Package throttle provides rate-limiting helpers for coalescing rapid
// repeated calls into fewer downstream effects.
package throttle

import (
	"sync"
	"time"
)

// Throttler runs a function at most once per interval. The first call in a
// quiet period runs immediately; calls arriving inside the interval are
// coalesced and the last one runs on the trailing edge.
type Throttler struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	timer    *time.Timer
	pending  func()
}

func NewThrottler(interval time.Duration) *Throttler {
	return &Throttler{interval: interval}
}

// Call either invokes fn now or stores it as the pending trailing call.
func (t *Throttler) Call(fn func()) {
	t.mu.Lock()
	now := time.Now()
	elapsed := now.Sub(t.last)

	if elapsed >= t.interval {
		t.last = now
		t.mu.Unlock()
		fn()
		return
	}

	t.pending = fn
	if t.timer == nil {
		t.timer = time.AfterFunc(t.interval-elapsed, t.firePending)
	}
	t.mu.Unlock()
}

func (t *Throttler) firePending() {
	t.mu.Lock()
	fn := t.pending
	t.pending = nil
	t.timer = nil
	if fn != nil {
		t.last = time.Now()
	}
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Stop cancels any pending trailing call.
func (t *Throttler) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.pending = nil
}

// Debouncer delays a function until the given quiet period has passed since
// the most recent call. Only the last call's function runs.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Call schedules fn, replacing any previously scheduled function.
func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.fn = fn
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	fn := d.fn
	d.fn = nil
	d.timer = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Stop cancels any scheduled call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.fn = nil
}
