// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/term"
)

const (
	sbPadding = 16 // padding for the strings.Builder
)

// ErrInvalidMode is returned when a colour mode string is not one of Modes.
var ErrInvalidMode = errors.New("invalid colour mode")

// Code represents an ANSI control code for text formatting.
type Code int

// ControlString generates a string with ANSI control codes for text formatting.
func ControlString(c ...Code) string {
	sb := strings.Builder{}
	sb.Grow(len(prefix) + len(suffix) + sbPadding)
	sb.WriteString(prefix)

	for i, code := range c {
		if i > 0 {
			sb.WriteString(";")
		}

		sb.WriteString(strconv.Itoa(int(code)))
	}

	sb.WriteString(suffix)

	return sb.String()
}

const (
	// NoColor is the environment variable that disables color output.
	NoColor = "NO_COLOR"
	// ForceColor is the environment variable that forces color output.
	ForceColor = "FORCE_COLOR"
	reset      = "\033[0m"
	prefix     = "\033["
	suffix     = "m"
)

// Control codes for text formatting.
const (
	Reset Code = iota
	Bold
	Faint
	Italic
	Underline
)

// NormalIntensity turns off Bold and Faint.
const NormalIntensity Code = 22

// Foreground text colors.
const (
	FgBlack Code = iota + 30
	FgRed
	FgGreen
	FgYellow
	FgBlue
	FgMagenta
	FgCyan
	FgWhite
)

// Foreground Hi-Intensity text colors.
const (
	FgHiBlack Code = iota + 90
	FgHiRed
	FgHiGreen
	FgHiYellow
	FgHiBlue
	FgHiMagenta
	FgHiCyan
	FgHiWhite
)

// Mode is the tri-state colour setting chosen on the command line.
type Mode string

const (
	// ModeYes always emits colour codes.
	ModeYes Mode = "yes"
	// ModeNo never emits colour codes.
	ModeNo Mode = "no"
	// ModeAuto emits colour codes when stdout is a terminal, subject to NO_COLOR and FORCE_COLOR.
	ModeAuto Mode = "auto"
)

// Modes lists the accepted colour modes in display order.
var Modes = []Mode{ModeYes, ModeNo, ModeAuto}

// ModeList returns the accepted modes as a comma separated list, for help and error text.
func ModeList() string {
	return strings.Join(lo.Map(Modes, func(m Mode, _ int) string {
		return string(m)
	}), ", ")
}

// ParseMode converts s into a Mode.
func ParseMode(s string) (Mode, error) {
	if m := Mode(strings.ToLower(strings.TrimSpace(s))); lo.Contains(Modes, m) {
		return m, nil
	}

	return "", fmt.Errorf("%w: %q, must be one of %s", ErrInvalidMode, s, ModeList())
}

// Enabled reports whether colour should be emitted for this mode given whether stdout is a terminal.
func (m Mode) Enabled(tty bool) bool {
	switch m {
	case ModeYes:
		return true
	case ModeNo:
		return false
	}

	if nc := os.Getenv(NoColor); nc != "" {
		return false
	}

	if fc := os.Getenv(ForceColor); fc != "" {
		return true
	}

	return tty
}

var enabled bool

func init() {
	enabled = isColorCapable()
}

// Colorize returns a string with ANSI color codes applied.
// It appends the reset code at the end of the string to reset the color.
// It follows the process-wide auto detection and is intended for log output;
// rendering of command status goes through a Palette.
func Colorize(str string, colorCodes ...Code) string {
	if !enabled {
		return str
	}

	sb := strings.Builder{}
	sb.Grow(len(str) + len(prefix) + len(suffix) + len(reset) + sbPadding)
	sb.WriteString(ControlString(colorCodes...))
	sb.WriteString(str)
	sb.WriteString(reset)

	return sb.String()
}

// Enabled is a function that indicates whether color output is enabled for log output.
// It is initialized in package init().
//
// It is set to true if either the NO_COLOR environment variable is not set,
// and the FORCE_COLOR environment variable is set, or if the output is a terminal.
func Enabled() bool {
	return enabled
}

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func isColorCapable() bool {
	return ModeAuto.Enabled(IsTerminal())
}
