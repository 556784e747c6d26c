// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package terminal reports the size of the terminal the output is drawn on.
package terminal

import (
	"math"
	"os"

	"golang.org/x/term"
)

// Unbounded is reported for both dimensions when the output is not a terminal.
const Unbounded = math.MaxInt32

// Sizer reports the terminal size in columns and rows.
type Sizer interface {
	Size() (cols, rows int)
}

// File sizes the terminal attached to a file descriptor.
type File struct {
	f *os.File
}

// NewFile returns a Sizer for f.
func NewFile(f *os.File) *File {
	return &File{f: f}
}

// Size queries the terminal on every call so that resizes are picked up.
// It reports Unbounded when f is not a terminal.
func (t *File) Size() (int, int) {
	cols, rows, err := term.GetSize(int(t.f.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return Unbounded, Unbounded
	}

	return cols, rows
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Fixed is a Sizer with a constant size.
type Fixed struct {
	Cols int
	Rows int
}

// Size returns the fixed dimensions.
func (f *Fixed) Size() (int, int) {
	return f.Cols, f.Rows
}
