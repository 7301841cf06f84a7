package mainloop

import (
	"sync"

	"github.com/bnema/artcache/internal/application/port"
)

// Coalescer collapses bursts of keyed work into one run on a dispatcher.
// While a key is queued, later posts replace its function; only the latest
// one runs.
type Coalescer struct {
	mu         sync.Mutex
	dispatcher port.Dispatcher
	latest     map[string]func()
	merged     uint64
	stopped    bool
}

// NewCoalescer schedules merged work through d.
func NewCoalescer(d port.Dispatcher) *Coalescer {
	if d == nil {
		panic("mainloop.NewCoalescer: dispatcher cannot be nil")
	}
	return &Coalescer{
		dispatcher: d,
		latest:     make(map[string]func()),
	}
}

// Post queues fn under key, replacing any not-yet-run function for key.
func (c *Coalescer) Post(key string, fn func()) {
	if fn == nil {
		return
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	_, queued := c.latest[key]
	c.latest[key] = fn
	if queued {
		c.merged++
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.dispatcher.Post(func() { c.run(key) })
}

func (c *Coalescer) run(key string) {
	c.mu.Lock()
	fn, ok := c.latest[key]
	delete(c.latest, key)
	stopped := c.stopped
	c.mu.Unlock()

	if ok && !stopped {
		fn()
	}
}

// Merged returns how many posts were folded into an earlier queued one.
func (c *Coalescer) Merged() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.merged
}

// Stop drops queued work and ignores further posts.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.latest = make(map[string]func())
	c.mu.Unlock()
}
