package binding

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuard_TicketFollowsLiveToken(t *testing.T) {
	var g Guard[string]

	g.Set("a")
	ticket := g.Capture()
	assert.True(t, ticket.Valid())
	assert.Equal(t, "a", ticket.Token())

	g.Set("b")
	assert.False(t, ticket.Valid(), "rebinding must invalidate earlier tickets")
	assert.True(t, g.Capture().Valid())

	g.Set("a")
	assert.True(t, ticket.Valid(), "tokens are compared by value")
}

func TestGuard_ClearInvalidates(t *testing.T) {
	var g Guard[int]
	g.Set(0)
	ticket := g.Capture()
	assert.True(t, ticket.Valid(), "zero value is a legitimate token")

	g.Clear()
	assert.False(t, ticket.Valid())
	_, ok := g.Current()
	assert.False(t, ok)
}

func TestGuard_UnsetAndZeroTickets(t *testing.T) {
	var g Guard[int]
	assert.False(t, g.Capture().Valid(), "capture before any Set")

	var zero Ticket[int]
	assert.False(t, zero.Valid())
}

func TestGuard_ConcurrentUse(t *testing.T) {
	var g Guard[int]
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				g.Set(i*1000 + j)
				_ = g.Capture().Valid()
			}
		}(i)
	}
	wg.Wait()

	_, ok := g.Current()
	assert.True(t, ok)
}
