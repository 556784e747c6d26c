// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerOutput_Merge(t *testing.T) {
	p0, p1, p2 := &Process{ID: 0}, &Process{ID: 1}, &Process{ID: 2}

	hist := &ManagerOutput{}
	hist.Merge(&ManagerOutput{Groups: []*GroupOutput{{
		ID:        0,
		Processes: []*ProcessOutput{{Process: p0, Data: "a"}, {Process: p1, Data: ""}},
	}}})
	hist.Merge(&ManagerOutput{Groups: []*GroupOutput{{
		ID:        0,
		Processes: []*ProcessOutput{{Process: p0, Data: "b\n"}, {Process: p1, Data: "x"}},
	}}})
	hist.Merge(&ManagerOutput{Groups: []*GroupOutput{{
		ID:        1,
		Processes: []*ProcessOutput{{Process: p2, Data: "z"}},
	}}})

	require.Len(t, hist.Groups, 2)
	assert.Equal(t, "ab\n", hist.Group(0).Processes[0].Data)
	assert.Equal(t, "x", hist.Group(0).Processes[1].Data)
	assert.Equal(t, "z", hist.Group(1).Processes[0].Data)
	assert.Nil(t, hist.Group(7))
	assert.True(t, hist.HasOutput())
	assert.False(t, (&ManagerOutput{}).HasOutput())
}

func TestGroupOutput_MergeDoesNotAliasInput(t *testing.T) {
	p := &Process{ID: 0}
	delta := &GroupOutput{ID: 0, Processes: []*ProcessOutput{{Process: p, Data: "a"}}}

	hist := &GroupOutput{ID: 0}
	hist.Merge(delta)
	hist.Merge(delta)

	assert.Equal(t, "aa", hist.Processes[0].Data)
	assert.Equal(t, "a", delta.Processes[0].Data)
}
