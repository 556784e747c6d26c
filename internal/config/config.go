// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config reads command files. A command file lists groups of commands that
// are run in order; the commands of each group run concurrently.
//
//	name: checks
//	groups:
//	  - commands:
//	      - "lines=60 :::: go vet ./..."
//	      - golangci-lint run
//	  - commands:
//	      - go test ./...
package config

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/pallel/internal/runbatch"
)

var (
	// ErrInvalidYaml is returned when the file is not valid YAML or has unknown fields.
	ErrInvalidYaml = errors.New("invalid YAML")
	// ErrNoCommands is returned when the file, or one of its groups, lists no commands.
	ErrNoCommands = errors.New("no commands specified")
	// ErrReservedToken is returned when a command is exactly the group separator.
	ErrReservedToken = errors.New("reserved token used as a command")
)

// Definition represents the root configuration structure.
type Definition struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Groups      []GroupDefinition `yaml:"groups"`
}

// GroupDefinition is one group of concurrently run commands.
type GroupDefinition struct {
	Name     string   `yaml:"name"`
	Commands []string `yaml:"commands"`
}

// BuildFromYAML parses and validates a command file.
func BuildFromYAML(yamlData []byte) (*Definition, error) {
	var def Definition
	if err := yaml.UnmarshalWithOptions(yamlData, &def, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYaml, err) //nolint:errorlint
	}

	if len(def.Groups) == 0 {
		return nil, ErrNoCommands
	}

	for i, g := range def.Groups {
		if len(g.Commands) == 0 {
			return nil, fmt.Errorf("%w: group %d (%s)", ErrNoCommands, i, g.Name)
		}

		for _, c := range g.Commands {
			if c == runbatch.GroupSeparator {
				return nil, fmt.Errorf("%w: %q in group %d", ErrReservedToken, c, i)
			}
		}
	}

	return &def, nil
}

// Args flattens the definition into the argument form accepted by runbatch.NewManager.
func (d *Definition) Args() []string {
	var args []string

	for i, g := range d.Groups {
		if i > 0 {
			args = append(args, runbatch.GroupSeparator)
		}

		args = append(args, g.Commands...)
	}

	return args
}
