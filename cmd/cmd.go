// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for pallel.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matt-FFFFFF/pallel"
	"github.com/matt-FFFFFF/pallel/internal/color"
	"github.com/matt-FFFFFF/pallel/internal/ctxlog"
	"github.com/matt-FFFFFF/pallel/internal/printer"
	"github.com/matt-FFFFFF/pallel/internal/runbatch"
	"github.com/matt-FFFFFF/pallel/internal/runner"
	"github.com/matt-FFFFFF/pallel/internal/signalbroker"
	"github.com/matt-FFFFFF/pallel/internal/terminal"
	"github.com/urfave/cli/v3"
)

const (
	nonInteractiveFlag = "non-interactive"
	noTimerFlag        = "no-timer"
	colourFlag         = "colour"
	fileFlag           = "file"
	tickFlag           = "tick"

	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 2
)

var (
	// isTerminal reports whether stdout is attached to a terminal.
	isTerminal = func() bool { return terminal.IsTerminal(os.Stdout) }
	// newSizer returns the size source of the interactive printer.
	newSizer = func() terminal.Sizer { return terminal.NewFile(os.Stdout) }
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:        "version",
		Aliases:     []string{"V"},
		Usage:       "print the version",
		HideDefault: true,
		Local:       true,
	}

	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Root().Writer, cmd.Root().Version) //nolint:errcheck
	}
}

// NewRootCmd returns the root command writing output to stdout and errors to stderr.
// Errors are never handled by exiting: use ExitCode on the result of Run.
func NewRootCmd(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "pallel",
		Usage: "run commands in parallel, in dependent groups",
		Description: `Runs every command of a group concurrently and shows their output live.
Groups are separated by ` + runbatch.GroupSeparator + ` and run one after the other; a group
only starts when every command of the previous group succeeded.

A command may be prefixed with modifiers, e.g. "lines=50 ` + runbatch.ModifierSeparator + ` make test"
reserves half of the terminal rows for its output.

Command files use Hashicorp's go-getter syntax, see https://github.com/hashicorp/go-getter.`,
		ArgsUsage:       "command [command...] [" + runbatch.GroupSeparator + " command...]",
		Version:         fmt.Sprintf("%s (commit: %s)", pallel.Version, pallel.Commit),
		Writer:          stdout,
		ErrWriter:       stderr,
		HideHelpCommand: true,
		Copyright:       "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    nonInteractiveFlag,
				Aliases: []string{"n"},
				Usage:   "stream output instead of redrawing it in place",
				Sources: cli.EnvVars("PALLEL_NON_INTERACTIVE"),
			},
			&cli.BoolFlag{
				Name:    noTimerFlag,
				Aliases: []string{"t"},
				Usage:   "do not show the elapsed time of each command",
				Sources: cli.EnvVars("PALLEL_NO_TIMER"),
			},
			&cli.StringFlag{
				Name:    colourFlag,
				Usage:   "colour output: " + color.ModeList(),
				Value:   string(color.ModeAuto),
				Sources: cli.EnvVars("PALLEL_COLOUR"),
			},
			&cli.StringSliceFlag{
				Name:    fileFlag,
				Aliases: []string{"f"},
				Usage:   "command file URL, groups from files run before positional commands",
				Sources: cli.EnvVars("PALLEL_FILE"),
			},
			&cli.DurationFlag{
				Name:    tickFlag,
				Usage:   "redraw interval of the interactive view",
				Value:   runner.InteractiveTick,
				Sources: cli.EnvVars("PALLEL_TICK"),
			},
		},
		Action: actionFunc,
	}
}

// ExitCode maps the error returned by the root command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}

	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}

	return exitFailure
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	tty := isTerminal()
	stdout := cmd.Root().Writer
	stderr := cmd.Root().ErrWriter

	mode, err := color.ParseMode(cmd.String(colourFlag))
	if err != nil {
		printer.NewConsole(stdout, stderr, color.PaletteFor(color.ModeAuto, tty)).Error(err)
		return cli.Exit("", exitFailure)
	}

	palette := color.PaletteFor(mode, tty)
	console := printer.NewConsole(stdout, stderr, palette)

	args, err := commandArgs(ctx, cmd.StringSlice(fileFlag), cmd.Args().Slice())
	if err != nil {
		console.Error(err)
		return cli.Exit("", exitFailure)
	}

	if len(args) == 0 {
		ctxlog.Debug(ctx, "no commands given")
		_ = cli.ShowAppHelp(cmd)

		return cli.Exit("", exitUsage)
	}

	m, err := runbatch.NewManager(args...)
	if err != nil {
		console.Error(err)
		return cli.Exit("", exitFailure)
	}

	defer func() {
		if err := m.Close(); err != nil {
			ctxlog.Warn(ctx, "cleanup failed", "error", err)
		}
	}()

	code, err := execute(ctx, cmd, m, tty, printer.Options{
		Palette: palette,
		Timer:   !cmd.Bool(noTimerFlag),
	})
	if err != nil {
		console.Error(err)

		if code == exitSuccess {
			code = exitFailure
		}

		return cli.Exit("", code)
	}

	if m.InterruptCount() == 0 {
		console.Result(code)
	}

	if code != exitSuccess {
		return cli.Exit("", code)
	}

	return nil
}

// execute drives m with the printer chosen for the output. While the interactive view
// owns the terminal, log records are held back and written to stderr afterwards.
func execute(ctx context.Context, cmd *cli.Command, m *runbatch.Manager, tty bool, opts printer.Options) (int, error) {
	out := cmd.Root().Writer
	runCtx := ctx

	var (
		p    printer.Printer
		tick time.Duration
		logs bytes.Buffer
	)

	if tty && !cmd.Bool(nonInteractiveFlag) {
		p = printer.NewInteractive(out, newSizer(), opts)
		tick = cmd.Duration(tickFlag)
		runCtx = ctxlog.NewBuffered(ctx, &logs)

		defer logs.WriteTo(cmd.Root().ErrWriter) //nolint:errcheck
	} else {
		p = printer.NewNonInteractive(out, opts)
		tick = runner.StreamingTick
	}

	sigs := signalbroker.New(ctx)
	defer signalbroker.Stop(ctx, sigs)

	ctxlog.Debug(runCtx, "running", "groups", len(m.Groups()), "interactive", tty && !cmd.Bool(nonInteractiveFlag), "tick", tick)

	return runner.Run(runCtx, m, p, runner.Options{ //nolint:wrapcheck
		Tick:    tick,
		Signals: sigs,
	})
}
