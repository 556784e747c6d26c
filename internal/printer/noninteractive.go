// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/matt-FFFFFF/pallel/internal/runbatch"
	"github.com/matt-FFFFFF/pallel/internal/terminal"
)

const (
	runningBanner = "Running commands..."
	outputMarker  = "=>"
)

// NonInteractive appends to its writer and never moves the cursor. It streams one
// process at a time in declaration order: the output of later processes is held back
// until every earlier process has finished.
type NonInteractive struct {
	out     io.Writer
	r       renderer
	started bool
	group   int
	current int
	offsets map[int]int
	headed  map[int]bool
	exited  map[int]bool
	// lastEnd is the terminator of the last output written, "\n" at a line start.
	lastEnd string
	shown   int
}

// NewNonInteractive returns a printer appending to w.
func NewNonInteractive(w io.Writer, opts Options) *NonInteractive {
	return &NonInteractive{
		out:     w,
		r:       newRenderer(opts),
		group:   -1,
		offsets: make(map[int]int),
		headed:  make(map[int]bool),
		exited:  make(map[int]bool),
		lastEnd: "\n",
	}
}

// Print writes new output of the process being streamed, and moves on to the next
// process once it has exited.
func (p *NonInteractive) Print(src Source) error {
	return p.print(src, false)
}

// Complete flushes the output of every process in the group, finished or not.
func (p *NonInteractive) Complete(src Source) error {
	return p.print(src, true)
}

func (p *NonInteractive) print(src Source, flush bool) error {
	out := src.ActiveOutput()
	if out == nil {
		return nil
	}

	sb := &strings.Builder{}

	if !p.started {
		sb.WriteString(p.r.palette.Bold(runningBanner) + "\n")
		p.started = true
	}

	if out.ID != p.group {
		p.group, p.current = out.ID, 0
	}

	p.stream(sb, out, flush)
	p.banners(sb, src.InterruptCount())

	if sb.Len() == 0 {
		return nil
	}

	if _, err := io.WriteString(p.out, sb.String()); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

func (p *NonInteractive) stream(sb *strings.Builder, out *runbatch.GroupOutput, flush bool) {
	for p.current < len(out.Processes) {
		po := out.Processes[p.current]
		id := po.Process.ID

		if !p.headed[id] {
			p.endLine(sb)
			sb.WriteString(p.r.status(po.Process, terminal.Unbounded, phaseRunning, false) + "\n")
			p.headed[id] = true
		}

		p.write(sb, po.Data[p.offsets[id]:])
		p.offsets[id] = len(po.Data)

		// Output written just before exit only shows up on the next stream,
		// so a process is finished one print after its exit was first seen.
		ph := phaseOf(po.Process)
		if !flush && (ph == phaseRunning || !p.exited[id]) {
			p.exited[id] = ph != phaseRunning
			return
		}

		p.endLine(sb)
		sb.WriteString(p.r.status(po.Process, terminal.Unbounded, ph, false) + "\n")
		p.current++
	}
}

func (p *NonInteractive) write(sb *strings.Builder, data string) {
	for _, l := range splitLines(data, p.lastEnd) {
		if l.Prefix {
			sb.WriteString(p.r.palette.Dim(outputMarker) + " ")
		}

		sb.WriteString(l.Text + l.End)
		p.lastEnd = l.End
	}
}

// endLine terminates a partial output line so the next write starts on a fresh row.
func (p *NonInteractive) endLine(sb *strings.Builder) {
	if p.lastEnd != "\n" {
		sb.WriteString("\n")
		p.lastEnd = "\n"
	}
}

// banners writes each banner once, the first time its interrupt count is reached.
func (p *NonInteractive) banners(sb *strings.Builder, interrupts int) {
	rows := banners(p.r, interrupts)

	for ; p.shown < len(rows)/bannerLines; p.shown++ {
		p.endLine(sb)
		sb.WriteString(strings.Join(rows[p.shown*bannerLines:(p.shown+1)*bannerLines], "\n") + "\n")
	}
}
