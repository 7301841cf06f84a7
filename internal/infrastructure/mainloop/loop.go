// Package mainloop provides a serial executor that plays the role of the UI
// thread for hosts without a toolkit event loop.
package mainloop

import (
	"context"
	"sync"

	"github.com/bnema/artcache/internal/application/port"
)

// Loop runs posted functions one at a time, in submission order, on the
// goroutine that called Run. Post never blocks: the queue is unbounded.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	quit    chan struct{}
	done    chan struct{}
	quitOne sync.Once
	running bool
}

// New creates an idle loop. Call Run to start processing.
func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Post schedules fn on the loop goroutine.
// Functions posted after Quit are dropped.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}

	select {
	case <-l.quit:
		return
	default:
	}

	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run blocks, executing posted functions until Quit is called or ctx is
// done. Functions already queued when Quit is called still run.
func (l *Loop) Run(ctx context.Context) {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return
	}
	l.running = true
	l.mu.Unlock()
	defer close(l.done)

	for {
		l.drain()

		select {
		case <-l.wake:
		case <-l.quit:
			l.drain()
			return
		case <-ctx.Done():
			return
		}
	}
}

// Quit stops Run after the pending queue has been drained.
func (l *Loop) Quit() {
	l.quitOne.Do(func() {
		close(l.quit)
	})
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Pending returns the number of queued functions not yet started.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		fn()
	}
}

var _ port.Dispatcher = (*Loop)(nil)
