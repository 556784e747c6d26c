// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package printer

import (
	"fmt"
	"io"

	"github.com/matt-FFFFFF/pallel/internal/color"
)

const (
	doneMessage   = "Done!"
	failedMessage = "Failed!"
)

// Console writes the one-off messages around a run.
type Console struct {
	out     io.Writer
	errOut  io.Writer
	palette color.Palette
}

// NewConsole returns a Console writing results to out and errors to errOut.
func NewConsole(out, errOut io.Writer, palette color.Palette) *Console {
	return &Console{out: out, errOut: errOut, palette: palette}
}

// Result reports the overall outcome after a blank line.
func (c *Console) Result(code int) {
	msg := c.palette.Green(doneMessage)
	if code != 0 {
		msg = c.palette.Red(failedMessage)
	}

	fmt.Fprintf(c.out, "\n%s\n", msg) //nolint:errcheck
}

// Error reports err as "Error: <message>".
func (c *Console) Error(err error) {
	fmt.Fprintln(c.errOut, c.palette.Red("Error: "+err.Error())) //nolint:errcheck
}
