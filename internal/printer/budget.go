// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package printer

import (
	"github.com/matt-FFFFFF/pallel/internal/runbatch"
	"github.com/samber/lo"
)

const (
	percent     = 100
	bannerLines = 2
	maxBanners  = 2
)

// availableLines is the number of rows the processes may use on a terminal with rows
// rows: one row is kept for the cursor and every banner shown takes two.
func availableLines(rows, interrupts int) int {
	return max(rows-1-bannerLines*min(interrupts, maxBanners), 0)
}

// Allocate sets Lines on every process so that together they use exactly lines rows.
// A process with a fixed share gets that percentage of lines, rounded down. The rest is
// split evenly between the other processes, the last of them taking the remainder.
// If every process has a fixed share the last process takes the remainder.
func Allocate(procs []*runbatch.Process, lines int) {
	if len(procs) == 0 {
		return
	}

	lines = max(lines, 0)

	fixed, dynamic := lo.FilterReject(procs, func(p *runbatch.Process, _ int) bool {
		return p.Command.LinesPercent > 0
	})

	for _, p := range fixed {
		p.Lines = lines * p.Command.LinesPercent / percent
	}

	remaining := lines - lo.SumBy(fixed, func(p *runbatch.Process) int { return p.Lines })

	if len(dynamic) == 0 {
		procs[len(procs)-1].Lines += remaining
		return
	}

	share := remaining / len(dynamic)
	for _, p := range dynamic {
		p.Lines = share
	}

	dynamic[len(dynamic)-1].Lines += remaining - share*len(dynamic)
}
