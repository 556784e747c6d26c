// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build windows

package runbatch

import (
	"errors"
	"os"
	"os/exec"
)

var (
	interruptSignal os.Signal = os.Interrupt
	killSignal      os.Signal = os.Kill
)

func setProcessGroup(_ *exec.Cmd) {}

// signalTree delivers sig to p. Interrupts are not supported on Windows, so they fall back to kill.
func signalTree(p *os.Process, sig os.Signal) error {
	if sig == os.Kill {
		return p.Kill() //nolint:wrapcheck
	}

	if err := p.Signal(sig); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return p.Kill() //nolint:wrapcheck
	}

	return nil
}

func exitCode(state *os.ProcessState) int {
	if state == nil {
		return exitCodeNotStarted
	}

	return state.ExitCode()
}
