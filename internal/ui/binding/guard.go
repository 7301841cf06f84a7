// Package binding connects presentation rows to the artwork cache and
// fetcher while keeping late results away from recycled rows.
package binding

import "sync"

// Guard holds the live identity token of a reusable view.
// Asynchronous work captures a Ticket before it starts and checks it when it
// finishes; a ticket is valid only while the guard still holds its token.
type Guard[T comparable] struct {
	mu   sync.RWMutex
	live T
	set  bool
}

// Set replaces the live token.
func (g *Guard[T]) Set(token T) {
	g.mu.Lock()
	g.live = token
	g.set = true
	g.mu.Unlock()
}

// Clear drops the live token. Every outstanding ticket becomes invalid.
func (g *Guard[T]) Clear() {
	var zero T
	g.mu.Lock()
	g.live = zero
	g.set = false
	g.mu.Unlock()
}

// Current returns the live token, if any.
func (g *Guard[T]) Current() (T, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.live, g.set
}

// Capture snapshots the live token.
func (g *Guard[T]) Capture() Ticket[T] {
	token, ok := g.Current()
	return Ticket[T]{guard: g, token: token, ok: ok}
}

// Ticket is an immutable snapshot of a guard's token.
type Ticket[T comparable] struct {
	guard *Guard[T]
	token T
	ok    bool
}

// Token returns the captured token.
func (t Ticket[T]) Token() T {
	return t.token
}

// Valid re-reads the guard and reports whether it still holds the captured token.
func (t Ticket[T]) Valid() bool {
	if t.guard == nil || !t.ok {
		return false
	}
	live, ok := t.guard.Current()
	return ok && live == t.token
}
