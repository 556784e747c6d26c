// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/pallel/internal/ctxlog"
)

const linesOverflowReason = "lines modifier must not exceed 100 across all processes within each process group"

// Group is a set of processes that run concurrently. A group is done when all of its
// processes have exited.
type Group struct {
	ID             int
	Processes      []*Process
	interruptCount int
}

// NewGroup parses commands into a group. Process IDs are assigned from firstProcessID.
// Every unresolvable executable is reported together; a bad lines modifier fails at once.
func NewGroup(id, firstProcessID int, commands ...string) (*Group, error) {
	g := &Group{ID: id}

	var missing *multierror.Error

	for i, raw := range commands {
		p, err := NewProcess(firstProcessID+i, raw)

		var ie *InvalidExecutableError

		switch {
		case errors.As(err, &ie):
			missing = multierror.Append(missing, err)
			continue
		case err != nil:
			return nil, err
		}

		g.Processes = append(g.Processes, p)
	}

	if err := invalidExecutables(missing); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range g.Processes {
		total += p.Command.LinesPercent
	}

	if total > maxPercent {
		return nil, &InvalidLinesModifierError{Reason: linesOverflowReason}
	}

	return g, nil
}

// Run starts every process in declaration order. If a spawn fails the processes
// already started keep running; Close stops them.
func (g *Group) Run(ctx context.Context) error {
	ctxlog.Debug(ctx, "starting process group", "group", g.ID, "processes", len(g.Processes))

	for _, p := range g.Processes {
		if err := p.Run(ctx); err != nil {
			return fmt.Errorf("group %d: %w", g.ID, err)
		}
	}

	return nil
}

// Poll reports whether every process has exited. The code is 1 if any process
// exited non-zero, otherwise 0.
func (g *Group) Poll() (int, bool) {
	code := 0

	for _, p := range g.Processes {
		c, done := p.Poll()
		if !done {
			return 0, false
		}

		if c != 0 {
			code = 1
		}
	}

	return code, true
}

// Stream returns the output each process produced since the last call.
func (g *Group) Stream() (*GroupOutput, error) {
	out := &GroupOutput{ID: g.ID, Processes: make([]*ProcessOutput, 0, len(g.Processes))}

	for _, p := range g.Processes {
		data, err := p.Read()
		if err != nil {
			return nil, fmt.Errorf("group %d: %w", g.ID, err)
		}

		out.Processes = append(out.Processes, &ProcessOutput{Process: p, Data: string(data)})
	}

	return out, nil
}

// HandleSignal interrupts every process on the first call and kills them on any later call.
func (g *Group) HandleSignal(ctx context.Context) {
	action, name := (*Process).Interrupt, "interrupt"
	if g.interruptCount > 0 {
		action, name = (*Process).Kill, "kill"
	}

	g.interruptCount++

	for _, p := range g.Processes {
		if err := action(p); err != nil {
			ctxlog.Warn(ctx, "could not signal process", "group", g.ID, "process", p.ID, "action", name, "error", err)
		}
	}
}

// InterruptCount returns the number of signals handled by the group.
func (g *Group) InterruptCount() int {
	return g.interruptCount
}

// Close kills any process still running and removes their output sinks.
func (g *Group) Close() error {
	var result *multierror.Error

	for _, p := range g.Processes {
		if err := p.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}
