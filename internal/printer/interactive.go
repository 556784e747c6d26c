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

// Escape sequences used to move around the rows drawn so far.
const (
	clearLine     = "\033[2K"
	clearToEnd    = "\033[J"
	cursorUpFmt   = "\033[%dF"
	cursorDownFmt = "\033[%dE"
	outputIndent  = "    "
)

// Interactive redraws the active group in place.
type Interactive struct {
	out     io.Writer
	size    terminal.Sizer
	r       renderer
	printed []string
	cols    int
	rows    int
}

// NewInteractive returns a printer drawing on w, sized by size.
func NewInteractive(w io.Writer, size terminal.Sizer, opts Options) *Interactive {
	return &Interactive{
		out:  w,
		size: size,
		r:    newRenderer(opts),
	}
}

// Print draws the tail of every process's output, rewriting only the rows that changed
// since the previous call. A terminal resize redraws every row.
func (p *Interactive) Print(src Source) error {
	out := src.ActiveOutput()
	if out == nil {
		return nil
	}

	defer p.r.tick()

	cols, rows := p.size.Size()
	resized := len(p.printed) > 0 && (cols != p.cols || rows != p.rows)
	p.cols, p.rows = cols, rows

	interrupts := src.InterruptCount()
	Allocate(processes(out), availableLines(rows, interrupts))

	next := p.groupRows(out, interrupts, true)

	sb := &strings.Builder{}
	if resized {
		redraw(sb, p.printed, next)
	} else {
		diff(sb, p.printed, next)
	}

	p.printed = next

	return p.flush(sb)
}

// Complete replaces the tailed view of the finished group with its complete output.
// The next group is drawn below it.
func (p *Interactive) Complete(src Source) error {
	out := src.ActiveOutput()
	if out == nil {
		return nil
	}

	p.cols, p.rows = p.size.Size()

	sb := &strings.Builder{}
	redraw(sb, p.printed, p.groupRows(out, src.InterruptCount(), false))

	p.printed = nil

	return p.flush(sb)
}

func (p *Interactive) flush(sb *strings.Builder) error {
	if sb.Len() == 0 {
		return nil
	}

	if _, err := io.WriteString(p.out, sb.String()); err != nil {
		return fmt.Errorf("writing to terminal: %w", err)
	}

	return nil
}

// groupRows builds the rows of the group: a status row per process followed by its output.
// With tail set each process uses at most the rows it was allocated: its status row and
// the last Lines-1 output rows. A process allocated no rows is not drawn at all, so the
// block never grows past the budget.
func (p *Interactive) groupRows(out *runbatch.GroupOutput, interrupts int, tail bool) []string {
	var rows []string

	for _, po := range out.Processes {
		if tail && po.Process.Lines <= 0 {
			continue
		}

		rows = append(rows, truncateLine(p.r.status(po.Process, p.cols, phaseOf(po.Process), tail), p.cols))

		body := splitLines(po.Data, "\n")
		if tail {
			keep := max(po.Process.Lines-1, 0)
			body = body[max(len(body)-keep, 0):]
		}

		for _, l := range body {
			rows = append(rows, truncateLine(outputIndent+sanitize(l.Text), p.cols))
		}
	}

	return append(rows, banners(p.r, interrupts)...)
}

// banners returns the rows announcing an interrupt and an abort, each after a blank row.
func banners(r renderer, interrupts int) []string {
	var rows []string

	if interrupts > 0 {
		rows = append(rows, "", r.palette.Yellow(interrupted))
	}

	if interrupts > 1 {
		rows = append(rows, "", r.palette.Red(aborted))
	}

	return rows
}

func processes(out *runbatch.GroupOutput) []*runbatch.Process {
	procs := make([]*runbatch.Process, len(out.Processes))
	for i, po := range out.Processes {
		procs[i] = po.Process
	}

	return procs
}

// diff writes the cursor movements and rows that turn the old rows into the new ones.
// The cursor starts and ends on the row below the drawn block.
func diff(sb *strings.Builder, old, next []string) {
	cursorUp(sb, len(old))

	cursor := 0

	for i := range min(len(old), len(next)) {
		if old[i] == next[i] {
			continue
		}

		cursorDown(sb, i-cursor)
		sb.WriteString(clearLine + next[i] + "\n")

		cursor = i + 1
	}

	if len(next) > len(old) {
		cursorDown(sb, len(old)-cursor)

		for _, row := range next[len(old):] {
			sb.WriteString(row + "\n")
		}

		return
	}

	cursorDown(sb, len(next)-cursor)

	if len(old) > len(next) {
		sb.WriteString(clearToEnd)
	}
}

// redraw clears the old rows and writes every new row.
func redraw(sb *strings.Builder, old, next []string) {
	cursorUp(sb, len(old))

	if len(old) > 0 {
		sb.WriteString(clearToEnd)
	}

	for _, row := range next {
		sb.WriteString(row + "\n")
	}
}

func cursorUp(sb *strings.Builder, n int) {
	if n > 0 {
		fmt.Fprintf(sb, cursorUpFmt, n)
	}
}

func cursorDown(sb *strings.Builder, n int) {
	if n > 0 {
		fmt.Fprintf(sb, cursorDownFmt, n)
	}
}
