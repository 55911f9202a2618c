package search

import (
	"sync"
	"time"
)

// Debouncer delays propagation of a rapidly-changing input value until it has
// been stable for the configured delay. Trailing debounce: every Update
// restarts the window, so only the last value of a burst fires.
type Debouncer struct {
	delay time.Duration
	fire  func(string)

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	stopped bool
}

// NewDebouncer creates a Debouncer that invokes fire once the input has been
// stable for delay.
func NewDebouncer(delay time.Duration, fire func(string)) *Debouncer {
	return &Debouncer{delay: delay, fire: fire}
}

// Update feeds the next input value, restarting the stability window.
func (d *Debouncer) Update(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	// A timer that already started running when Stop was called on it could
	// still fire a superseded value; the sequence check drops it.
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := !d.stopped && seq == d.seq
		d.mu.Unlock()
		if current {
			d.fire(value)
		}
	})
}

// Stop cancels any pending fire. No value propagates after Stop returns.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
