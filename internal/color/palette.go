// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

// Palette is an immutable set of escape sequences used by everything that prints
// command status. A disabled palette holds empty strings, so callers never branch on
// whether colour is on.
type Palette struct {
	whiteBold  string
	greenBold  string
	blueBold   string
	redBold    string
	yellowBold string
	dimOn      string
	dimOff     string
	reset      string
}

// NewPalette builds a Palette. When enabled is false every sequence is empty.
func NewPalette(enabled bool) Palette {
	if !enabled {
		return Palette{}
	}

	return Palette{
		whiteBold:  ControlString(Bold),
		greenBold:  ControlString(Bold, FgGreen),
		blueBold:   ControlString(Bold, FgBlue),
		redBold:    ControlString(Bold, FgRed),
		yellowBold: ControlString(Bold, FgYellow),
		dimOn:      ControlString(Faint),
		dimOff:     ControlString(NormalIntensity),
		reset:      reset,
	}
}

// PaletteFor resolves mode against the terminal state and builds the Palette.
func PaletteFor(mode Mode, tty bool) Palette {
	return NewPalette(mode.Enabled(tty))
}

// Enabled reports whether the palette emits any escape sequences.
func (p Palette) Enabled() bool {
	return p.reset != ""
}

// Bold renders s in bold white.
func (p Palette) Bold(s string) string {
	return p.whiteBold + s + p.reset
}

// Green renders s in bold green.
func (p Palette) Green(s string) string {
	return p.greenBold + s + p.reset
}

// Blue renders s in bold blue.
func (p Palette) Blue(s string) string {
	return p.blueBold + s + p.reset
}

// Red renders s in bold red.
func (p Palette) Red(s string) string {
	return p.redBold + s + p.reset
}

// Yellow renders s in bold yellow.
func (p Palette) Yellow(s string) string {
	return p.yellowBold + s + p.reset
}

// Dim renders s faint. It only resets intensity so surrounding colour survives.
func (p Palette) Dim(s string) string {
	return p.dimOn + s + p.dimOff
}
