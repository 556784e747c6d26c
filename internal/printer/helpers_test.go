// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package printer

import (
	"context"
	"runtime"
	"testing"

	"github.com/matt-FFFFFF/pallel/internal/runbatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// idle returns a process that was never started, so it always reads as running
// with no elapsed time.
func idle(id int, raw string, percent int) *runbatch.Process {
	return &runbatch.Process{
		ID:      id,
		Command: &runbatch.Command{Raw: raw, LinesPercent: percent},
	}
}

// exited runs raw to completion.
func exited(t *testing.T, id int, raw string) *runbatch.Process {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	p, err := runbatch.NewProcess(id, raw)
	require.NoError(t, err)
	require.NoError(t, p.Run(context.Background()))
	p.Wait()

	t.Cleanup(func() {
		assert.NoError(t, p.Close())
	})

	return p
}

type fakeSource struct {
	out        *runbatch.GroupOutput
	interrupts int
}

func (f *fakeSource) ActiveOutput() *runbatch.GroupOutput {
	return f.out
}

func (f *fakeSource) InterruptCount() int {
	return f.interrupts
}

func group(id int, outputs ...*runbatch.ProcessOutput) *fakeSource {
	return &fakeSource{out: &runbatch.GroupOutput{ID: id, Processes: outputs}}
}
