// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package printer renders the state of the running process group.
//
// The interactive printer keeps the previously drawn rows and on every tick rewrites
// only the rows whose text changed, appending or clearing rows as the view grows or
// shrinks. Every row is truncated to the terminal width so one logical line always
// occupies exactly one terminal row.
//
// The non-interactive printer streams output one process at a time, in declaration
// order, and never moves the cursor.
package printer
