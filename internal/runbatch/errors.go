// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrInvalidExecutable is the root of every error caused by an executable that cannot be found.
	ErrInvalidExecutable = errors.New("invalid executable")
	// ErrInvalidLinesModifier is returned when a lines modifier is malformed, out of range,
	// or the modifiers of one group add up to more than 100.
	ErrInvalidLinesModifier = errors.New("invalid lines modifier")
	// ErrNoCommandsForProcessGroup is returned when a group separator has no commands on one side.
	ErrNoCommandsForProcessGroup = errors.New("no commands for process group")
	// ErrInvalidCommand is returned when a command string is empty or cannot be tokenised.
	ErrInvalidCommand = errors.New("invalid command")
	// ErrCouldNotStartProcess is returned when the operating system refuses to spawn a process.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrOutputSink is returned when the output file of a process cannot be created or opened.
	ErrOutputSink = errors.New("could not prepare output sink")
)

// InvalidExecutableError names a single executable that could not be resolved.
type InvalidExecutableError struct {
	Executable string
}

func (e *InvalidExecutableError) Error() string {
	return fmt.Sprintf("executable %s was not found", e.Executable)
}

// Unwrap allows errors.Is(err, ErrInvalidExecutable).
func (e *InvalidExecutableError) Unwrap() error {
	return ErrInvalidExecutable
}

// InvalidLinesModifierError describes why a lines modifier was rejected.
type InvalidLinesModifierError struct {
	Reason string
}

func (e *InvalidLinesModifierError) Error() string {
	return e.Reason
}

// Unwrap allows errors.Is(err, ErrInvalidLinesModifier).
func (e *InvalidLinesModifierError) Unwrap() error {
	return ErrInvalidLinesModifier
}

// invalidExecutables aggregates errs, which must all be *InvalidExecutableError,
// into one error that reads "executables [a, b] were not found".
func invalidExecutables(errs *multierror.Error) error {
	if errs == nil || len(errs.Errors) == 0 {
		return nil
	}

	errs.ErrorFormat = formatInvalidExecutables

	return errs
}

func formatInvalidExecutables(errs []error) string {
	names := make([]string, 0, len(errs))

	for _, err := range errs {
		var ie *InvalidExecutableError
		if errors.As(err, &ie) {
			names = append(names, ie.Executable)
			continue
		}

		names = append(names, err.Error())
	}

	return fmt.Sprintf("executables [%s] were not found", strings.Join(names, ", "))
}

// InvalidExecutableNames returns the executable names carried by err, in the order
// they were found. It returns nil if err holds no InvalidExecutableError.
func InvalidExecutableNames(err error) []string {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		var names []string

		for _, e := range merr.Errors {
			names = append(names, InvalidExecutableNames(e)...)
		}

		return names
	}

	var ie *InvalidExecutableError
	if errors.As(err, &ie) {
		return []string{ie.Executable}
	}

	return nil
}
