// Package model holds the bubbletea models behind the artcache commands.
package model

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/artcache/internal/application/port"
	"github.com/bnema/artcache/internal/infrastructure/mainloop"
)

// runMsg carries a posted function into the bubbletea update loop.
type runMsg func()

// TeaDispatcher makes the bubbletea update loop the UI thread: posted
// functions are delivered as messages and run inside Update, in order.
// A pump loop performs the blocking program sends so Post never blocks.
type TeaDispatcher struct {
	send func(tea.Msg)
	pump *mainloop.Loop
}

// NewTeaDispatcher creates a dispatcher delivering through send, normally
// (*tea.Program).Send. Call Start before the program runs and Stop after.
func NewTeaDispatcher(send func(tea.Msg)) *TeaDispatcher {
	return &TeaDispatcher{
		send: send,
		pump: mainloop.New(),
	}
}

// Start runs the pump until ctx is done or Stop is called.
func (d *TeaDispatcher) Start(ctx context.Context) {
	go d.pump.Run(ctx)
}

// Stop drains queued sends and stops the pump.
func (d *TeaDispatcher) Stop() {
	d.pump.Quit()
	<-d.pump.Done()
}

// Post implements port.Dispatcher.
func (d *TeaDispatcher) Post(fn func()) {
	if fn == nil {
		return
	}
	d.pump.Post(func() {
		d.send(runMsg(fn))
	})
}

var _ port.Dispatcher = (*TeaDispatcher)(nil)
