package console

import (
	"sync"
	"time"
)

// debouncer delivers the last value it was given once no new value arrived
// for delay
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending string
	gen     uint64
	fn      func(string)
}

func newDebouncer(delay time.Duration, fn func(string)) *debouncer {
	return &debouncer{delay: delay, fn: fn}
}

func (d *debouncer) Push(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = value
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		v := d.pending
		d.mu.Unlock()
		d.fn(v)
	})
}

// Stop drops the pending value
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
