// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runner drives a process group manager to completion. One goroutine owns the
// manager: it streams output, renders it, polls for completion and applies signals
// received on a channel, all between ticks.
package runner

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/matt-FFFFFF/pallel/internal/ctxlog"
	"github.com/matt-FFFFFF/pallel/internal/printer"
	"github.com/matt-FFFFFF/pallel/internal/runbatch"
)

const (
	// InteractiveTick is the redraw interval of the interactive view.
	InteractiveTick = 100 * time.Millisecond
	// StreamingTick is the poll interval when output is streamed.
	StreamingTick = 10 * time.Millisecond
	exitError     = 1
)

// Manager is the state machine the loop drives. *runbatch.Manager satisfies it.
type Manager interface {
	printer.Source
	Run(ctx context.Context) error
	Next() bool
	Stream() (*runbatch.ManagerOutput, error)
	Poll() (int, bool)
	HandleSignal(ctx context.Context, sig os.Signal)
}

var _ Manager = (*runbatch.Manager)(nil)

// Options configures the loop.
type Options struct {
	// Tick is the interval between polls.
	Tick time.Duration
	// Signals are forwarded to the manager. A nil channel never delivers.
	Signals <-chan os.Signal
}

// Run starts the first group and loops until every group has finished, a group has
// failed or the run was aborted. It returns the exit code for the invocation.
// Errors are unexpected failures, such as output that can no longer be read.
func Run(ctx context.Context, m Manager, p printer.Printer, opts Options) (int, error) {
	if opts.Tick <= 0 {
		opts.Tick = InteractiveTick
	}

	if err := m.Run(ctx); err != nil {
		return exitError, err
	}

	ticker := time.NewTicker(opts.Tick)
	defer ticker.Stop()

	for {
		if _, err := m.Stream(); err != nil {
			return exitError, err
		}

		if err := p.Print(m); err != nil {
			return exitError, err
		}

		if code, done := m.Poll(); done {
			if _, err := m.Stream(); err != nil {
				return exitError, err
			}

			if err := p.Complete(m); err != nil {
				return exitError, err
			}

			if code > 0 {
				ctxlog.Debug(ctx, "run finished", "exitCode", code)
				return code, nil
			}

			if err := m.Run(ctx); err != nil {
				return exitError, err
			}

			if !m.Next() {
				return 0, nil
			}

			continue
		}

		select {
		case <-ctx.Done():
			return exitError, fmt.Errorf("run cancelled: %w", ctx.Err())
		case sig := <-opts.Signals:
			m.HandleSignal(ctx, sig)
		case <-ticker.C:
		}
	}
}
