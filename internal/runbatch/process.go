// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/matt-FFFFFF/pallel/internal/ctxlog"
	"github.com/matt-FFFFFF/pallel/internal/teereader"
	"github.com/spf13/afero"
)

const (
	exitCodeNotStarted = -1
	signalExitBase     = 128
	sinkPattern        = "pallel-*.out"
)

var (
	// FS holds the output sinks of every process. Tests replace it with an in-memory one.
	FS afero.Fs = afero.NewOsFs()
	// now is the clock used for start and end times.
	now = time.Now
)

// Process is a single child process whose combined stdout and stderr is written to a
// temporary file and read back incrementally.
// Poll, Read and ReadLine are meant to be called from one goroutine.
type Process struct {
	ID      int
	Command *Command
	// Lines is the number of terminal rows allocated to this process, including its
	// status row. It is written by the printer on every render.
	Lines int

	start    time.Time
	end      time.Time
	cmd      *exec.Cmd
	sink     afero.File
	src      afero.File
	reader   *teereader.CursorReader
	done     chan struct{}
	exitCode int
	mu       sync.Mutex
}

// NewProcess parses raw into a Process that has not been started.
func NewProcess(id int, raw string) (*Process, error) {
	c, err := ParseCommand(raw)
	if err != nil {
		return nil, err
	}

	return &Process{
		ID:       id,
		Command:  c,
		exitCode: exitCodeNotStarted,
	}, nil
}

// PercentageLines returns the fixed share of the terminal requested by the lines
// modifier as a fraction, or 0 when the process is sized dynamically.
func (p *Process) PercentageLines() float64 {
	return float64(p.Command.LinesPercent) / maxPercent
}

// Run spawns the child with stdin closed and its output directed to a fresh sink.
func (p *Process) Run(ctx context.Context) error {
	logger := ctxlog.Logger(ctx).With("process", p.ID, "command", p.Command.Raw)

	sink, err := afero.TempFile(FS, "", sinkPattern)
	if err != nil {
		return errors.Join(ErrOutputSink, err)
	}

	src, err := FS.Open(sink.Name())
	if err != nil {
		_ = sink.Close()
		_ = FS.Remove(sink.Name())

		return errors.Join(ErrOutputSink, err)
	}

	cmd := &exec.Cmd{
		Path:   p.Command.Path,
		Args:   append([]string{filepath.Base(p.Command.Executable)}, p.Command.Args...),
		Env:    p.Command.Env,
		Stdout: sink,
		Stderr: sink,
	}
	setProcessGroup(cmd)

	logger.Debug("starting process", "path", cmd.Path, "args", p.Command.Args, "sink", sink.Name())

	p.mu.Lock()
	defer p.mu.Unlock()

	p.start = now()

	if err := cmd.Start(); err != nil {
		_ = src.Close()
		_ = sink.Close()
		_ = FS.Remove(sink.Name())

		return errors.Join(ErrCouldNotStartProcess, fmt.Errorf("%s: %w", p.Command.Raw, err))
	}

	logger.Debug("process started", "pid", cmd.Process.Pid)

	p.cmd = cmd
	p.sink = sink
	p.src = src
	p.reader = teereader.NewCursorReader(src)
	p.done = make(chan struct{})

	go p.wait()

	return nil
}

func (p *Process) wait() {
	// A non-zero exit is reported through the exit code, not the error.
	_ = p.cmd.Wait()

	p.mu.Lock()
	p.exitCode = exitCode(p.cmd.ProcessState)
	p.mu.Unlock()

	close(p.done)
}

// Started reports whether Run succeeded.
func (p *Process) Started() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.cmd != nil
}

// Poll returns the exit code and true once the child has exited, and 0 and false while
// it is still running or has not been started. The first Poll after exit fixes the end time.
func (p *Process) Poll() (int, bool) {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()

	if done == nil {
		return 0, false
	}

	select {
	case <-done:
	default:
		return 0, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.end.IsZero() {
		p.end = now()
	}

	return p.exitCode, true
}

// Wait blocks until the child exits and returns its exit code.
// It returns -1 if the process was never started.
func (p *Process) Wait() int {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()

	if done == nil {
		return exitCodeNotStarted
	}

	<-done

	code, _ := p.Poll()

	return code
}

// Read returns everything written since the previous Read or ReadLine.
func (p *Process) Read() ([]byte, error) {
	if p.reader == nil {
		return nil, nil
	}

	return p.reader.ReadAvailable() //nolint:wrapcheck
}

// ReadLine returns the next line of output. A line the child is still writing comes
// back in pieces, each without a trailing newline until the last.
func (p *Process) ReadLine() ([]byte, error) {
	if p.reader == nil {
		return nil, nil
	}

	return p.reader.ReadLine() //nolint:wrapcheck
}

// Output returns everything read from the process so far.
func (p *Process) Output() []byte {
	if p.reader == nil {
		return nil
	}

	return p.reader.Bytes()
}

// Interrupt asks the child and its descendants to stop. It is a no-op once the child has exited.
func (p *Process) Interrupt() error {
	return p.signal(interruptSignal)
}

// Kill stops the child and its descendants immediately. It is a no-op once the child has exited.
func (p *Process) Kill() error {
	return p.signal(killSignal)
}

func (p *Process) signal(sig os.Signal) error {
	if !p.running() {
		return nil
	}

	if err := signalTree(p.cmd.Process, sig); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("signalling %s: %w", p.Command.Raw, err)
	}

	return nil
}

func (p *Process) running() bool {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()

	if done == nil {
		return false
	}

	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Start returns the time the process was spawned.
func (p *Process) Start() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.start
}

// End returns the time the exit was first observed by Poll, or the zero time.
func (p *Process) End() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.end
}

// Elapsed returns the run time so far, or the total once the exit has been observed.
func (p *Process) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.start.IsZero():
		return 0
	case p.end.IsZero():
		return now().Sub(p.start)
	default:
		return p.end.Sub(p.start)
	}
}

// Close kills the child if it is still running, waits for it and removes its output sink.
func (p *Process) Close() error {
	if p.running() {
		_ = p.Kill()
	}

	p.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sink == nil {
		return nil
	}

	name := p.sink.Name()
	err := errors.Join(p.src.Close(), p.sink.Close(), FS.Remove(name))
	p.sink = nil
	p.src = nil

	return err
}
