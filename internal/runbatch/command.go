// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/shlex"
	"github.com/matt-FFFFFF/pallel/internal/commandinpath"
)

const (
	// GroupSeparator splits the argument list into process groups.
	GroupSeparator = ":::"
	// ModifierSeparator splits a command into its modifiers and the command itself.
	ModifierSeparator = "::::"

	linesModifier = "lines"
	maxPercent    = 100
)

var envAssignment = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=`)

// Environ returns the base environment children inherit. Tests replace it.
var Environ = os.Environ

// Command is a parsed command string, ready to be spawned.
type Command struct {
	Raw          string   // The command as displayed, without modifiers.
	Executable   string   // The executable as written.
	Path         string   // The resolved executable path.
	Args         []string // Arguments, not including the executable.
	Env          []string // Complete child environment.
	LinesPercent int      // Share of the terminal in percent, 0 for dynamic.
}

// ParseCommand splits raw into modifiers, environment assignments, executable and
// arguments, and resolves the executable against the PATH the child will see.
func ParseCommand(raw string) (*Command, error) {
	text := raw
	mods := ""

	if i := strings.Index(raw, ModifierSeparator); i >= 0 {
		mods = raw[:i]
		text = raw[i+len(ModifierSeparator):]
	}

	text = strings.TrimSpace(text)

	percent, err := parseModifiers(mods)
	if err != nil {
		return nil, err
	}

	tokens, err := shlex.Split(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidCommand, text, err)
	}

	overrides := make([]string, 0)
	for len(tokens) > 0 && envAssignment.MatchString(tokens[0]) {
		overrides = append(overrides, tokens[0])
		tokens = tokens[1:]
	}

	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: %q has no executable", ErrInvalidCommand, raw)
	}

	env := mergeEnv(Environ(), overrides)

	path, ok := commandinpath.Find(tokens[0], lookupEnv(env, "PATH"), lookupEnv(env, "PATHEXT"))
	if !ok {
		return nil, &InvalidExecutableError{Executable: tokens[0]}
	}

	return &Command{
		Raw:          text,
		Executable:   tokens[0],
		Path:         path,
		Args:         tokens[1:],
		Env:          env,
		LinesPercent: percent,
	}, nil
}

// parseModifiers reads a comma or space separated list of key=value pairs.
// Unknown keys are ignored.
func parseModifiers(mods string) (int, error) {
	fields := strings.FieldsFunc(mods, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	percent := 0

	for _, f := range fields {
		key, value, found := strings.Cut(f, "=")
		if key != linesModifier {
			continue
		}

		n, err := strconv.Atoi(value)
		if !found || err != nil || n < 1 || n > maxPercent {
			return 0, &InvalidLinesModifierError{
				Reason: fmt.Sprintf("lines modifier must be a number between 1 and %d, got %q", maxPercent, value),
			}
		}

		percent = n
	}

	return percent, nil
}

// mergeEnv applies KEY=VALUE overrides on top of base, keeping base order.
func mergeEnv(base, overrides []string) []string {
	env := make([]string, 0, len(base)+len(overrides))
	index := make(map[string]int, len(base))

	for _, kv := range append(append([]string{}, base...), overrides...) {
		key, _, _ := strings.Cut(kv, "=")
		if i, ok := index[key]; ok {
			env[i] = kv
			continue
		}

		index[key] = len(env)
		env = append(env, kv)
	}

	return env
}

func lookupEnv(env []string, key string) string {
	for i := len(env) - 1; i >= 0; i-- {
		k, v, _ := strings.Cut(env[i], "=")
		if k == key {
			return v
		}
	}

	return ""
}
