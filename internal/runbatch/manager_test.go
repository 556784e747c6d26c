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

func TestSplitGroups(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    [][]string
		wantErr bool
	}{
		{name: "single group", args: []string{"a", "b"}, want: [][]string{{"a", "b"}}},
		{name: "two groups", args: []string{"a", ":::", "b", "c"}, want: [][]string{{"a"}, {"b", "c"}}},
		{name: "leading separator", args: []string{":::", "a"}, wantErr: true},
		{name: "double separator", args: []string{"a", ":::", ":::", "b"}, wantErr: true},
		{name: "trailing separator", args: []string{"a", ":::"}, wantErr: true},
		{name: "no arguments", args: nil, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := splitGroups(tc.args)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrNoCommandsForProcessGroup)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewManager_CollectsInvalidExecutablesAcrossGroups(t *testing.T) {
	requireUnix(t)

	_, err := NewManager("invalid_exe", "echo fine", ":::", "other_invalid_exe")
	require.ErrorIs(t, err, ErrInvalidExecutable)
	assert.Equal(t, "executables [invalid_exe, other_invalid_exe] were not found", err.Error())
}

func TestNewManager_ProcessIDsAreUnique(t *testing.T) {
	requireUnix(t)

	m, err := NewManager("echo a", "echo b", ":::", "echo c")
	require.NoError(t, err)

	groups := m.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, 0, groups[0].Processes[0].ID)
	assert.Equal(t, 1, groups[0].Processes[1].ID)
	assert.Equal(t, 2, groups[1].Processes[0].ID)
}

// drive runs m to completion the way the command line driver does.
func drive(t *testing.T, m *Manager) int {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, m.Run(ctx))

	deadline := time.Now().Add(eventually)

	for time.Now().Before(deadline) {
		_, err := m.Stream()
		require.NoError(t, err)

		if code, done := m.Poll(); done {
			_, err := m.Stream()
			require.NoError(t, err)

			if code > 0 {
				return code
			}

			require.NoError(t, m.Run(ctx))

			if !m.Next() {
				return 0
			}
		}

		time.Sleep(10 * time.Millisecond)
	}

	require.FailNow(t, "manager did not finish")

	return -1
}

func TestManager_RunsGroupsInSequence(t *testing.T) {
	requireUnix(t)
	defer goleak.VerifyNone(t)

	m, err := NewManager("sh -c 'echo one'", "sh -c 'echo two'", ":::", "sh -c 'echo three'")
	require.NoError(t, err)

	defer func() { assert.NoError(t, m.Close()) }()

	assert.True(t, m.Next())
	assert.Equal(t, 0, drive(t, m))
	assert.False(t, m.Next())

	hist := m.History()
	require.Len(t, hist.Groups, 2)
	assert.Equal(t, "one\n", hist.Groups[0].Processes[0].Data)
	assert.Equal(t, "two\n", hist.Groups[0].Processes[1].Data)
	assert.Equal(t, "three\n", hist.Groups[1].Processes[0].Data)

	g0, g1 := m.Groups()[0], m.Groups()[1]
	assert.False(t, g1.Processes[0].Start().Before(g0.Processes[0].End()), "second group starts after the first ends")
}

func TestManager_FailureStopsLaterGroups(t *testing.T) {
	requireUnix(t)
	defer goleak.VerifyNone(t)

	m, err := NewManager("sh -c 'exit 4'", ":::", "echo never")
	require.NoError(t, err)

	defer func() { assert.NoError(t, m.Close()) }()

	assert.Equal(t, 1, drive(t, m))
	assert.False(t, m.Groups()[1].Processes[0].Started())
}

func TestManager_RunAfterFailureStartsNothing(t *testing.T) {
	requireUnix(t)
	defer goleak.VerifyNone(t)

	ctx := context.Background()

	m, err := NewManager("sh -c 'exit 3'", ":::", "echo never")
	require.NoError(t, err)

	defer func() { assert.NoError(t, m.Close()) }()

	require.NoError(t, m.Run(ctx))
	m.Active().Processes[0].Wait()

	code, done := m.Poll()
	require.True(t, done)
	require.Equal(t, 1, code)

	require.NoError(t, m.Run(ctx))
	assert.Nil(t, m.Active())
	assert.False(t, m.Next())
	assert.False(t, m.Groups()[1].Processes[0].Started(), "a failed group stops the groups after it")

	code, done = m.Poll()
	assert.True(t, done)
	assert.Equal(t, 1, code, "the failure code is kept")
}

func TestManager_ActiveOutputAccumulates(t *testing.T) {
	requireUnix(t)
	defer goleak.VerifyNone(t)

	m, err := NewManager("sh -c 'echo a; echo b'")
	require.NoError(t, err)

	defer func() { assert.NoError(t, m.Close()) }()

	assert.Nil(t, m.ActiveOutput())
	require.NoError(t, m.Run(context.Background()))
	require.Equal(t, 0, m.Active().Processes[0].Wait())

	delta, err := m.Stream()
	require.NoError(t, err)
	assert.True(t, delta.HasOutput())

	delta, err = m.Stream()
	require.NoError(t, err)
	assert.False(t, delta.HasOutput())

	assert.Equal(t, "a\nb\n", m.ActiveOutput().Processes[0].Data)
}

func TestManager_HandleSignal(t *testing.T) {
	requireUnix(t)
	defer goleak.VerifyNone(t)

	ctx := context.Background()

	m, err := NewManager("sh -c 'trap \"\" INT; echo ready; sleep 10'", ":::", "echo later")
	require.NoError(t, err)

	defer func() { assert.NoError(t, m.Close()) }()

	require.NoError(t, m.Run(ctx))

	require.Eventually(t, func() bool {
		_, err := m.Stream()
		return err == nil && strings.Contains(m.ActiveOutput().Processes[0].Data, "ready")
	}, eventually, 10*time.Millisecond)

	m.HandleSignal(ctx, syscall.SIGTERM)
	assert.Equal(t, 1, m.InterruptCount())

	_, done := m.Poll()
	assert.False(t, done, "the child ignores the first signal")

	m.HandleSignal(ctx, syscall.SIGINT)

	code, done := m.Poll()
	assert.True(t, done, "a second signal finishes at once")
	assert.Equal(t, 128+int(syscall.SIGTERM), code, "the first signal fixes the exit code")

	require.NoError(t, m.Run(ctx))
	assert.False(t, m.Next(), "no group starts after a signal")
	assert.False(t, m.Groups()[1].Processes[0].Started())
	assert.Equal(t, 2, m.Groups()[1].InterruptCount(), "pending groups see every signal")
}

func TestManager_SignalCodeWinsOverGroupCode(t *testing.T) {
	requireUnix(t)
	defer goleak.VerifyNone(t)

	ctx := context.Background()

	m, err := NewManager("sleep 10")
	require.NoError(t, err)

	defer func() { assert.NoError(t, m.Close()) }()

	require.NoError(t, m.Run(ctx))
	m.HandleSignal(ctx, syscall.SIGINT)

	var code int

	require.Eventually(t, func() bool {
		var done bool
		code, done = m.Poll()

		return done
	}, eventually, 10*time.Millisecond)

	assert.Equal(t, 128+int(syscall.SIGINT), code)
}
