// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestNewGroup(t *testing.T) {
	requireUnix(t)

	g, err := NewGroup(3, 10, "echo a", "lines=40 :::: echo b")
	require.NoError(t, err)

	assert.Equal(t, 3, g.ID)
	require.Len(t, g.Processes, 2)
	assert.Equal(t, 10, g.Processes[0].ID)
	assert.Equal(t, 11, g.Processes[1].ID)
	assert.Equal(t, 40, g.Processes[1].Command.LinesPercent)
}

func TestNewGroup_InvalidExecutables(t *testing.T) {
	requireUnix(t)

	_, err := NewGroup(0, 0, "echo ok", "invalid_exe", "other_invalid_exe")
	require.ErrorIs(t, err, ErrInvalidExecutable)
	assert.Equal(t, "executables [invalid_exe, other_invalid_exe] were not found", err.Error())
	assert.Equal(t, []string{"invalid_exe", "other_invalid_exe"}, InvalidExecutableNames(err))
}

func TestNewGroup_LinesOverflow(t *testing.T) {
	requireUnix(t)

	_, err := NewGroup(0, 0, "lines=60 :::: echo a", "lines=50 :::: echo b")
	require.ErrorIs(t, err, ErrInvalidLinesModifier)
	assert.Equal(t, "lines modifier must not exceed 100 across all processes within each process group", err.Error())

	_, err = NewGroup(0, 0, "lines=60 :::: echo a", "lines=40 :::: echo b")
	require.NoError(t, err, "exactly 100 is allowed")
}

func TestNewGroup_LinesErrorFailsFast(t *testing.T) {
	requireUnix(t)

	_, err := NewGroup(0, 0, "invalid_exe", "lines=0 :::: echo a")
	require.ErrorIs(t, err, ErrInvalidLinesModifier)
	assert.NotErrorIs(t, err, ErrInvalidExecutable)
}

func waitGroup(t *testing.T, g *Group) int {
	t.Helper()

	var code int

	require.Eventually(t, func() bool {
		var done bool
		code, done = g.Poll()

		return done
	}, eventually, 10*time.Millisecond)

	return code
}

func TestGroup_RunPollStream(t *testing.T) {
	requireUnix(t)
	defer goleak.VerifyNone(t)

	g, err := NewGroup(0, 0, "echo first", "sh -c 'echo second; exit 2'")
	require.NoError(t, err)

	defer func() { assert.NoError(t, g.Close()) }()

	require.NoError(t, g.Run(context.Background()))
	assert.Equal(t, 1, waitGroup(t, g), "any failure gives 1")

	out, err := g.Stream()
	require.NoError(t, err)
	require.Len(t, out.Processes, 2)
	assert.Equal(t, "first\n", out.Processes[0].Data)
	assert.Equal(t, "second\n", out.Processes[1].Data)
	assert.True(t, out.HasOutput())

	out, err = g.Stream()
	require.NoError(t, err)
	assert.False(t, out.HasOutput(), "stream only returns new data")
	assert.Len(t, out.Processes, 2, "every process has an entry")
}

func TestGroup_PollWaitsForAll(t *testing.T) {
	requireUnix(t)
	defer goleak.VerifyNone(t)

	g, err := NewGroup(0, 0, "true", "sleep 10")
	require.NoError(t, err)

	defer func() { assert.NoError(t, g.Close()) }()

	require.NoError(t, g.Run(context.Background()))

	require.Eventually(t, func() bool {
		_, done := g.Processes[0].Poll()
		return done
	}, eventually, 10*time.Millisecond)

	code, done := g.Poll()
	assert.False(t, done)
	assert.Equal(t, 0, code)
}

func TestGroup_HandleSignalEscalates(t *testing.T) {
	requireUnix(t)
	defer goleak.VerifyNone(t)

	g, err := NewGroup(0, 0, "sleep 10", "sh -c 'trap \"\" INT; echo ready; sleep 10'")
	require.NoError(t, err)

	defer func() { assert.NoError(t, g.Close()) }()

	require.NoError(t, g.Run(context.Background()))

	require.Eventually(t, func() bool {
		_, err := g.Processes[1].Read()
		return err == nil && strings.Contains(string(g.Processes[1].Output()), "ready")
	}, eventually, 10*time.Millisecond)

	ctx := context.Background()

	g.HandleSignal(ctx)
	assert.Equal(t, 1, g.InterruptCount())
	assert.Equal(t, 128+int(syscall.SIGINT), g.Processes[0].Wait())

	_, done := g.Processes[1].Poll()
	assert.False(t, done, "second process ignores the interrupt")

	g.HandleSignal(ctx)
	assert.Equal(t, 2, g.InterruptCount())
	assert.Equal(t, 128+int(syscall.SIGKILL), g.Processes[1].Wait())
	assert.Equal(t, 1, waitGroup(t, g))
}
