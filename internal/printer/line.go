// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package printer

import (
	"strings"

	"github.com/muesli/ansi"
	"github.com/muesli/reflow/truncate"
)

const ellipsis = "..."

// Line is one display line.
type Line struct {
	// Prefix is false when the line continues a previous line that had no terminator yet.
	Prefix bool
	Text   string
	// End is "\n" for a complete line and "" for a partial one.
	End string
}

// splitLines cuts data into lines, keeping the terminator of each.
// Only the last line can be partial. prev is the end of whatever was printed before
// data and decides whether the first line needs a prefix.
func splitLines(data, prev string) []Line {
	if data == "" {
		return nil
	}

	pieces := strings.SplitAfter(data, "\n")
	if pieces[len(pieces)-1] == "" {
		pieces = pieces[:len(pieces)-1]
	}

	lines := make([]Line, 0, len(pieces))

	for _, piece := range pieces {
		l := Line{Prefix: prev == "\n", Text: strings.TrimSuffix(piece, "\n")}
		if strings.HasSuffix(piece, "\n") {
			l.End = "\n"
		}

		lines = append(lines, l)
		prev = l.End
	}

	return lines
}

// sanitize makes a line safe to draw on one row: carriage returns rewind to the start
// of the line, so only the text after the last one is visible, and tabs become spaces.
func sanitize(s string) string {
	if i := strings.LastIndexByte(s, '\r'); i >= 0 {
		s = s[i+1:]
	}

	return strings.ReplaceAll(s, "\t", "    ")
}

// truncateLine shortens s, which may contain escape sequences, to width columns,
// marking the cut with an ellipsis.
func truncateLine(s string, width int) string {
	if width <= 0 {
		return ""
	}

	if ansi.PrintableRuneWidth(s) <= width {
		return s
	}

	if width <= len(ellipsis) {
		return truncate.String(s, uint(width))
	}

	return truncate.StringWithTail(s, uint(width), ellipsis)
}
