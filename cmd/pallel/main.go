// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the pallel command-line interface (CLI).
package main

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/pallel/cmd"
	"github.com/matt-FFFFFF/pallel/internal/ctxlog"
	"github.com/mattn/go-colorable"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.FromEnv())

	root := cmd.NewRootCmd(colorable.NewColorableStdout(), colorable.NewColorableStderr())

	code := cmd.ExitCode(root.Run(ctx, os.Args))

	ctxlog.Debug(ctx, "exiting", "code", code)
	cancel()
	os.Exit(code)
}
