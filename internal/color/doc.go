// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color provides ANSI SGR codes, the yes/no/auto colour mode and the
// immutable Palette used to render command status.
// In auto mode the NO_COLOR and FORCE_COLOR environment variables are honoured
// before falling back to terminal detection via golang.org/x/term.
package color
