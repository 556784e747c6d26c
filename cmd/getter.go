// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/pallel/internal/config"
	"github.com/matt-FFFFFF/pallel/internal/ctxlog"
	"github.com/matt-FFFFFF/pallel/internal/runbatch"
	"github.com/samber/lo"
	"github.com/spf13/afero"
)

var (
	// ErrGetCommandFile is returned when a command file cannot be fetched.
	ErrGetCommandFile = errors.New("failed to get command file")
	// ErrBuildCommandFile is returned when a fetched command file is not valid.
	ErrBuildCommandFile = errors.New("failed to build command file")
	// ErrCommandFileType is returned when a command file is not named as YAML.
	ErrCommandFileType = errors.New("command file must end in .yaml or .yml")
	// ErrCommandFileTooLarge is returned when a command file exceeds maxCommandFileSize.
	ErrCommandFileTooLarge = errors.New("command file is too large")
)

const (
	goGetterPathSeparator = "//"
	goGetterRefSeparator  = "?"
	minimumGetterParts    = 3 // scheme, host and path

	maxCommandFileSize = 1 << 20
)

var commandFileExtensions = []string{".yaml", ".yml"}

// commandFileFs is the filesystem command files are read from once they are on disk.
var commandFileFs afero.Fs = afero.NewOsFs()

// commandArgs builds the flat token list for runbatch.NewManager. Groups from command
// files come first, in flag order, followed by the positional commands. Every
// file or argument boundary starts a new group.
func commandArgs(ctx context.Context, urls, positional []string) ([]string, error) {
	var args []string

	appendGroup := func(tokens []string) {
		if len(tokens) == 0 {
			return
		}

		if len(args) > 0 {
			args = append(args, runbatch.GroupSeparator)
		}

		args = append(args, tokens...)
	}

	for _, u := range urls {
		def, err := loadCommandFile(ctx, u)
		if err != nil {
			return nil, err
		}

		appendGroup(def.Args())
	}

	appendGroup(positional)

	return args, nil
}

// commandFile locates one --file argument. Local files are read in place, anything
// else is downloaded by go-getter as the directory holding it.
type commandFile struct {
	local string // absolute path, set for local files
	src   string // getter source of the directory holding a remote file
	name  string
}

// resolveCommandFile works out where url lives, relative to pwd when it is a local path.
func resolveCommandFile(url, pwd string) (*commandFile, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL", ErrGetCommandFile)
	}

	cf := &commandFile{}

	// Remote sources are fetched as a directory and the file is read from it.
	// https://github.com/hashicorp/go-getter/issues/98
	local, err := getter.Detect(&getter.Request{Src: url, Pwd: pwd}, &getter.FileGetter{})
	if err != nil {
		return nil, errors.Join(ErrGetCommandFile, err)
	}

	if local {
		cf.local = url
		if !filepath.IsAbs(url) {
			cf.local = filepath.Join(pwd, url)
		}

		cf.name = filepath.Base(cf.local)
	} else {
		cf.src, cf.name = splitFileNameFromGetterURL(url)
		if cf.src == "" || cf.name == "" {
			return nil, fmt.Errorf("%w: invalid URL format: %s", ErrGetCommandFile, url)
		}
	}

	if !lo.Contains(commandFileExtensions, strings.ToLower(filepath.Ext(cf.name))) {
		return nil, fmt.Errorf("%w: %s", ErrCommandFileType, url)
	}

	return cf, nil
}

// fetch returns the path of the file on disk. A remote file is downloaded into a
// temporary directory that the returned cleanup removes.
func (cf *commandFile) fetch(ctx context.Context, pwd string) (string, func(), error) {
	if cf.local != "" {
		return cf.local, func() {}, nil
	}

	tmpDir, err := os.MkdirTemp("", "pallel-getter-*")
	if err != nil {
		return "", nil, errors.Join(ErrGetCommandFile, err)
	}

	cleanup := func() {
		os.RemoveAll(tmpDir) //nolint:errcheck
	}

	ctxlog.Debug(ctx, "fetching command file", "src", cf.src, "file", cf.name)

	client := getter.Client{
		DisableSymlinks: true,
	}

	res, err := client.Get(ctx, &getter.Request{
		Src:     cf.src,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     pwd,
		GetMode: getter.ModeDir,
	})
	if err != nil {
		cleanup()

		return "", nil, errors.Join(ErrGetCommandFile, err)
	}

	return filepath.Join(res.Dst, cf.name), cleanup, nil
}

// loadCommandFile fetches and parses the command file at url.
func loadCommandFile(ctx context.Context, url string) (*config.Definition, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Join(ErrGetCommandFile, err)
	}

	cf, err := resolveCommandFile(url, wd)
	if err != nil {
		return nil, err
	}

	path, cleanup, err := cf.fetch(ctx, wd)
	if err != nil {
		return nil, err
	}

	defer cleanup()

	data, err := readCommandFile(commandFileFs, path)
	if err != nil {
		return nil, err
	}

	def, err := config.BuildFromYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrBuildCommandFile, url, err)
	}

	ctxlog.Debug(ctx, "loaded command file", "url", url, "name", def.Name, "groups", len(def.Groups))

	return def, nil
}

// readCommandFile reads path, refusing directories and files over maxCommandFileSize.
func readCommandFile(fs afero.Fs, path string) ([]byte, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, errors.Join(ErrGetCommandFile, err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrGetCommandFile, path)
	}

	if info.Size() > maxCommandFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, the limit is %d", ErrCommandFileTooLarge, path, info.Size(), maxCommandFileSize)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Join(ErrGetCommandFile, err)
	}

	return data, nil
}

// splitFileNameFromGetterURL splits a getter URL into the directory URL and the file name.
// A ref query is moved to the end of the directory URL.
func splitFileNameFromGetterURL(url string) (string, string) {
	var ref string

	parts := strings.Split(url, goGetterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	last := len(parts) - 1

	if before, after, found := strings.Cut(parts[last], goGetterRefSeparator); found {
		ref = after
		parts[last] = before
	}

	if filepath.Clean(parts[last]) == filepath.Dir(parts[last]) {
		return "", ""
	}

	fileName := filepath.Base(parts[last])
	parts[last] = filepath.Dir(parts[last])

	if parts[last] == "." {
		parts = parts[:last]
	}

	newURL := strings.Join(parts, goGetterPathSeparator)

	if ref != "" {
		newURL += goGetterRefSeparator + ref
	}

	return newURL, fileName
}
