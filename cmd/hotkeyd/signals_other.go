//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}

// reloadRequests never fires; there is no SIGUSR1 here.
func reloadRequests(context.Context) <-chan struct{} {
	return nil
}
