package mainloop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/artcache/internal/application/port"
)

type queueDispatcher struct {
	queue []func()
}

func (q *queueDispatcher) Post(fn func()) { q.queue = append(q.queue, fn) }

func (q *queueDispatcher) flush() {
	queue := q.queue
	q.queue = nil
	for _, fn := range queue {
		fn()
	}
}

var _ port.Dispatcher = (*queueDispatcher)(nil)

func TestCoalescer_LatestWins(t *testing.T) {
	d := &queueDispatcher{}
	c := NewCoalescer(d)

	value := 0
	for i := 1; i <= 5; i++ {
		v := i
		c.Post("config", func() { value = v })
	}
	require.Len(t, d.queue, 1)
	assert.Equal(t, uint64(4), c.Merged())

	d.flush()
	assert.Equal(t, 5, value)
}

func TestCoalescer_KeysAreIndependent(t *testing.T) {
	d := &queueDispatcher{}
	c := NewCoalescer(d)

	var ran []string
	c.Post("a", func() { ran = append(ran, "a") })
	c.Post("b", func() { ran = append(ran, "b") })
	d.flush()

	assert.Equal(t, []string{"a", "b"}, ran)
}

func TestCoalescer_PostAfterRunSchedulesAgain(t *testing.T) {
	d := &queueDispatcher{}
	c := NewCoalescer(d)

	count := 0
	c.Post("k", func() { count++ })
	d.flush()
	c.Post("k", func() { count++ })
	require.Len(t, d.queue, 1)
	d.flush()

	assert.Equal(t, 2, count)
}

func TestCoalescer_StopDropsQueuedWork(t *testing.T) {
	d := &queueDispatcher{}
	c := NewCoalescer(d)

	ran := false
	c.Post("k", func() { ran = true })
	c.Stop()
	c.Post("k", func() { ran = true })
	d.flush()

	assert.False(t, ran)
}

func TestCoalescer_NilDispatcherPanics(t *testing.T) {
	assert.Panics(t, func() { NewCoalescer(nil) })
}
