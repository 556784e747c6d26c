// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package commandinpath resolves an executable name against a PATH list the same way a
// shell would, without consulting the current process environment.
package commandinpath

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
)

// FS is the filesystem used to check candidates. Tests replace it with an in-memory one.
var FS afero.Fs = afero.NewOsFs()

// defaultPathExt is used on Windows when PATHEXT is empty.
const defaultPathExt = ".COM;.EXE;.BAT;.CMD"

// Find returns the full path of command using pathList, a PATH style list.
// A command containing a path separator is checked directly and not searched for.
// pathExt is only consulted on Windows.
func Find(command, pathList, pathExt string) (string, bool) {
	if command == "" {
		return "", false
	}

	if strings.ContainsRune(command, '/') || strings.ContainsRune(command, filepath.Separator) {
		return checkCandidate(command, pathExt)
	}

	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			dir = "."
		}

		if p, ok := checkCandidate(filepath.Join(dir, command), pathExt); ok {
			return p, true
		}
	}

	return "", false
}

func checkCandidate(candidate, pathExt string) (string, bool) {
	if runtime.GOOS != "windows" {
		return candidate, isExecutable(candidate)
	}

	if filepath.Ext(candidate) != "" && isExecutable(candidate) {
		return candidate, true
	}

	if pathExt == "" {
		pathExt = defaultPathExt
	}

	for _, ext := range strings.Split(pathExt, string(os.PathListSeparator)) {
		if ext == "" {
			continue
		}

		if isExecutable(candidate + strings.ToLower(ext)) {
			return candidate + strings.ToLower(ext), true
		}
	}

	return "", false
}

func isExecutable(p string) bool {
	info, err := FS.Stat(p)
	if err != nil || info.IsDir() {
		return false
	}

	// check the executable bits if not Windows
	if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
		return false
	}

	return true
}
