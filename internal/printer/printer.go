// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package printer

import (
	"github.com/matt-FFFFFF/pallel/internal/color"
	"github.com/matt-FFFFFF/pallel/internal/runbatch"
)

// Source is the view of the run a printer needs.
// *runbatch.Manager satisfies it.
type Source interface {
	ActiveOutput() *runbatch.GroupOutput
	InterruptCount() int
}

// Printer draws the active group.
type Printer interface {
	// Print is called on every tick while the group runs.
	Print(src Source) error
	// Complete is called once when the active group has finished.
	Complete(src Source) error
}

// Options configures a printer.
type Options struct {
	Palette color.Palette
	// Timer appends the elapsed time to every status line.
	Timer bool
}

var (
	_ Source  = (*runbatch.Manager)(nil)
	_ Printer = (*Interactive)(nil)
	_ Printer = (*NonInteractive)(nil)
)
