// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/pallel/internal/ctxlog"
)

// Manager runs process groups one after another and keeps the output of every group.
// It is not safe for concurrent use; signals are delivered through HandleSignal by the
// goroutine that drives it.
type Manager struct {
	pending        []*Group
	active         *Group
	finished       []*Group
	history        *ManagerOutput
	exitCode       int
	interruptCount int
}

// NewManager splits args into groups at every GroupSeparator and parses each group.
// Unresolvable executables are collected across all groups and reported together.
func NewManager(args ...string) (*Manager, error) {
	chunks, err := splitGroups(args)
	if err != nil {
		return nil, err
	}

	m := &Manager{history: &ManagerOutput{}}

	var missing *multierror.Error

	processID := 0

	for i, chunk := range chunks {
		g, err := NewGroup(i, processID, chunk...)
		processID += len(chunk)

		if names := InvalidExecutableNames(err); names != nil {
			for _, n := range names {
				missing = multierror.Append(missing, &InvalidExecutableError{Executable: n})
			}

			continue
		}

		if err != nil {
			return nil, err
		}

		m.pending = append(m.pending, g)
	}

	if err := invalidExecutables(missing); err != nil {
		return nil, err
	}

	return m, nil
}

func splitGroups(args []string) ([][]string, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: no commands given", ErrNoCommandsForProcessGroup)
	}

	var (
		chunks  [][]string
		current []string
	)

	for _, a := range args {
		if a != GroupSeparator {
			current = append(current, a)
			continue
		}

		if len(current) == 0 {
			return nil, fmt.Errorf("%w: %q must follow at least one command", ErrNoCommandsForProcessGroup, GroupSeparator)
		}

		chunks = append(chunks, current)
		current = nil
	}

	if len(current) == 0 {
		return nil, fmt.Errorf("%w: %q must be followed by at least one command", ErrNoCommandsForProcessGroup, GroupSeparator)
	}

	return append(chunks, current), nil
}

// Run starts the next pending group. It does nothing once every group has been
// started, after a group has failed or after a signal has been handled.
func (m *Manager) Run(ctx context.Context) error {
	if m.active != nil {
		m.finished = append(m.finished, m.active)
		m.active = nil
	}

	if !m.canAdvance() {
		return nil
	}

	m.active, m.pending = m.pending[0], m.pending[1:]
	m.history.Groups = append(m.history.Groups, &GroupOutput{ID: m.active.ID})

	return m.active.Run(ctx)
}

// Next reports whether a group is running or will still be run.
func (m *Manager) Next() bool {
	return m.active != nil || m.canAdvance()
}

// canAdvance reports whether a pending group may start: the previous groups passed
// and no signal has been handled.
func (m *Manager) canAdvance() bool {
	return len(m.pending) > 0 && m.exitCode == 0 && m.interruptCount == 0
}

// Stream reads new output from the active group, records it in the history and returns it.
func (m *Manager) Stream() (*ManagerOutput, error) {
	if m.active == nil {
		return &ManagerOutput{}, nil
	}

	delta, err := m.active.Stream()
	if err != nil {
		return nil, err
	}

	out := &ManagerOutput{Groups: []*GroupOutput{delta}}
	m.history.Merge(out)

	return out, nil
}

// Poll reports whether the active group has finished and the exit code to use.
// After a second signal it reports done at once with the signal's exit code.
// A signal's exit code takes precedence over the group's.
func (m *Manager) Poll() (int, bool) {
	if m.interruptCount > 1 {
		return m.exitCode, true
	}

	if m.active == nil {
		return m.exitCode, true
	}

	code, done := m.active.Poll()
	if !done {
		return 0, false
	}

	if m.exitCode != 0 {
		return m.exitCode, true
	}

	m.exitCode = code

	return code, true
}

// HandleSignal forwards sig to the active group and to every group not yet run, so
// that a later group would be stopped too. The first signal fixes the exit code at
// 128 plus the signal number.
func (m *Manager) HandleSignal(ctx context.Context, sig os.Signal) {
	ctxlog.Info(ctx, "received signal", "signal", sig.String(), "count", m.interruptCount+1)

	if m.active != nil {
		m.active.HandleSignal(ctx)
	}

	for _, g := range m.pending {
		g.HandleSignal(ctx)
	}

	if m.interruptCount == 0 {
		m.exitCode = signalExitBase + signalNumber(sig)
	}

	m.interruptCount++
}

func signalNumber(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return int(s)
	}

	return 0
}

// InterruptCount returns the number of signals handled.
func (m *Manager) InterruptCount() int {
	return m.interruptCount
}

// Active returns the running group, or nil.
func (m *Manager) Active() *Group {
	return m.active
}

// ActiveOutput returns all output recorded for the running group, or nil.
func (m *Manager) ActiveOutput() *GroupOutput {
	if m.active == nil {
		return nil
	}

	return m.history.Group(m.active.ID)
}

// History returns all output recorded so far.
func (m *Manager) History() *ManagerOutput {
	return m.history
}

// Groups returns every group in run order, whether finished, running or pending.
func (m *Manager) Groups() []*Group {
	groups := append([]*Group{}, m.finished...)
	if m.active != nil {
		groups = append(groups, m.active)
	}

	return append(groups, m.pending...)
}

// Close kills every process still running and removes all output sinks.
func (m *Manager) Close() error {
	var result *multierror.Error

	for _, g := range m.Groups() {
		if err := g.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}
