// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package printer

import (
	"fmt"
	"time"

	"github.com/matt-FFFFFF/pallel/internal/color"
	"github.com/matt-FFFFFF/pallel/internal/runbatch"
	"github.com/mattn/go-runewidth"
)

const (
	iconSuccess = "✔"
	iconFailure = "✘"

	msgRunning  = "running"
	msgWaiting  = "running..."
	msgDone     = "done"
	msgFailed   = "failed"
	interrupted = "Interrupt!"
	aborted     = "Abort!"
)

var spinner = []string{"/", "-", "\\", "|"}

// renderer holds what both printers share when turning processes into text.
type renderer struct {
	palette color.Palette
	timer   bool
	frame   int
}

func newRenderer(opts Options) renderer {
	return renderer{palette: opts.Palette, timer: opts.Timer}
}

// tick advances the spinner.
func (r *renderer) tick() {
	r.frame = (r.frame + 1) % len(spinner)
}

// phase is the state shown on a status line.
type phase int

const (
	phaseRunning phase = iota
	phaseDone
	phaseFailed
)

func phaseOf(p *runbatch.Process) phase {
	code, done := p.Poll()

	switch {
	case !done:
		return phaseRunning
	case code == 0:
		return phaseDone
	default:
		return phaseFailed
	}
}

// status renders "[command] state icon (elapsed)" within cols columns. The command is
// the part that gets truncated. Without spin a running process reads "running..."
// and shows neither the spinner nor the timer.
func (r *renderer) status(p *runbatch.Process, cols int, ph phase, spin bool) string {
	var (
		msg, icon string
		paint     func(string) string
	)

	switch {
	case ph == phaseRunning && spin:
		msg, icon, paint = msgRunning, spinner[r.frame], r.palette.Bold
	case ph == phaseRunning:
		msg, paint = msgWaiting, r.palette.Bold
	case ph == phaseDone:
		msg, icon, paint = msgDone, iconSuccess, r.palette.Green
	default:
		msg, icon, paint = msgFailed, iconFailure, r.palette.Red
	}

	state := " " + msg
	if icon != "" {
		state += " " + icon
	}

	timer := ""
	if r.timer && (ph != phaseRunning || spin) {
		timer = formatElapsed(p.Elapsed())
	}

	command := p.Command.Raw

	fixed := len("[]") + runewidth.StringWidth(state)
	if timer != "" {
		fixed += 1 + len(timer)
	}

	if runewidth.StringWidth(command) > cols-fixed {
		command = truncateLine(command, cols-fixed)
	}

	out := r.palette.Bold("[") + r.palette.Blue(command) + r.palette.Bold("]") + paint(state)
	if timer != "" {
		out += " " + r.palette.Dim(timer)
	}

	return out
}

// formatElapsed renders d in seconds with one decimal place, for example "(12.3s)".
func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("(%.1fs)", d.Seconds())
}
