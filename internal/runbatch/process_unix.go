// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build !windows

package runbatch

import (
	"os"
	"os/exec"
	"syscall"
)

var (
	interruptSignal os.Signal = syscall.SIGINT
	killSignal      os.Signal = syscall.SIGKILL
)

// setProcessGroup starts the child in its own process group so signals reach its descendants.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// signalTree delivers sig to the process group led by p.
func signalTree(p *os.Process, sig os.Signal) error {
	err := syscall.Kill(-p.Pid, sig.(syscall.Signal))
	if err == syscall.ESRCH {
		return os.ErrProcessDone
	}

	return err //nolint:wrapcheck
}

// exitCode reports 128 plus the signal number for a child killed by a signal.
func exitCode(state *os.ProcessState) int {
	if state == nil {
		return exitCodeNotStarted
	}

	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return signalExitBase + int(ws.Signal())
	}

	return state.ExitCode()
}
