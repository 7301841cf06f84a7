//go:build !linux && !darwin

package cmd

import "os"

func notifyClearCache(chan<- os.Signal) bool {
	return false
}
