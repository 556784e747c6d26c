// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker delivers OS termination signals over a channel, so that the
// goroutine driving the processes can apply them between ticks.
// By default it listens for syscall.SIGINT and syscall.SIGTERM.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matt-FFFFFF/pallel/internal/ctxlog"
)

// bufferSize lets a quick second Ctrl+C queue up behind the first instead of being dropped.
const bufferSize = 4

var termSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

// New creates a channel that receives the given signals, or the termination signals if none are given.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, bufferSize)

	if len(sigs) == 0 {
		sigs = termSignals
	}

	ctxlog.Debug(ctx, "signalbroker", "detail", "creating signal broker", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch
}

// Stop stops delivery to ch and restores the default behaviour of its signals.
func Stop(ctx context.Context, ch chan os.Signal) {
	ctxlog.Debug(ctx, "signalbroker", "detail", "stopping signal broker")
	signal.Stop(ch)
}
