package internal

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Loop serializes every workspace mutation onto one goroutine. User
// commands and timer callbacks are both posted as events; each event runs
// to completion before the next one starts.
type Loop struct {
	events    chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewLoop creates a loop with the given event buffer
func NewLoop(buffer int) *Loop {
	if buffer < 1 {
		buffer = 1
	}
	return &Loop{
		events: make(chan func(), buffer),
		done:   make(chan struct{}),
	}
}

// Events exposes the event channel for hosts that drain it themselves,
// such as the TUI update loop. Use either Events or Run, not both.
func (l *Loop) Events() <-chan func() {
	return l.events
}

// Post queues fn. It returns false if the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.events <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do queues fn and waits for it to finish. Calling Do from inside an
// event deadlocks.
func (l *Loop) Do(fn func()) bool {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return false
	}
	select {
	case <-finished:
		return true
	case <-l.done:
		return false
	}
}

// Run drains events until ctx is cancelled
func (l *Loop) Run(ctx context.Context) error {
	defer l.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.events:
			fn()
		}
	}
}

// Stop makes further posts fail. Queued events are dropped.
func (l *Loop) Stop() {
	l.closeOnce.Do(func() { close(l.done) })
}

// Schedule implements Scheduler. The callback is posted into the loop when
// the timer fires, so it never interleaves with another event.
func (l *Loop) Schedule(delay time.Duration, fn func()) CancelFunc {
	const (
		pending int32 = iota
		ran
		cancelled
	)
	var state atomic.Int32

	timer := time.AfterFunc(delay, func() {
		l.Post(func() {
			if state.CompareAndSwap(pending, ran) {
				fn()
			}
		})
	})

	return func() bool {
		if state.CompareAndSwap(pending, cancelled) {
			timer.Stop()
			return true
		}
		return false
	}
}
