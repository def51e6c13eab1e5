package main

import (
	"sync"
	"time"
)

type timer interface {
	Stop() bool
}

type clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) timer { return time.AfterFunc(d, f) }

// debouncer runs the last scheduled call once the quiet period has passed
// with no newer schedule.
type debouncer struct {
	clock clock
	delay time.Duration

	mu      sync.Mutex
	pending timer
}

func newDebouncer(c clock, delay time.Duration) *debouncer {
	return &debouncer{clock: c, delay: delay}
}

func (d *debouncer) schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
	}
	var t timer
	t = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.pending != t {
			d.mu.Unlock()
			return
		}
		d.pending = nil
		d.mu.Unlock()
		fn()
	})
	d.pending = t
}

func (d *debouncer) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
