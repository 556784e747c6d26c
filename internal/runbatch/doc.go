// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatch runs groups of commands. The commands of a group run concurrently,
// and groups run one after another. Each process writes its combined output to a
// temporary file that is read back incrementally, so a renderer can show output while
// the commands are still running.
//
// A Manager is built from a flat argument list in which ":::" separates groups.
// A command may carry modifiers ahead of "::::", for example "lines=30 :::: make test".
package runbatch
