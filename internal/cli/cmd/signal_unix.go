//go:build linux || darwin

package cmd

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

func notifyClearCache(ch chan<- os.Signal) bool {
	signal.Notify(ch, unix.SIGUSR1)
	return true
}
