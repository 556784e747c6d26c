// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/matt-FFFFFF/pallel/internal/config"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestLoadCommandFile(t *testing.T) {
	testCases := []struct {
		name      string
		url       string
		wantErr   error
		wantGroup int
	}{
		{
			name:    "empty url returns error",
			url:     "",
			wantErr: ErrGetCommandFile,
		},
		{
			name:    "unreachable git source",
			url:     "git::http://notexist//file.yaml",
			wantErr: ErrGetCommandFile,
		},
		{
			name:    "missing local file",
			url:     "./testdata/missing.yaml",
			wantErr: ErrGetCommandFile,
		},
		{
			name:    "not a yaml file",
			url:     "./testdata/test.txt",
			wantErr: ErrCommandFileType,
		},
		{
			name:    "remote file without yaml extension",
			url:     "git::https://github.com/org/repo//checks.json",
			wantErr: ErrCommandFileType,
		},
		{
			name:    "directory",
			url:     "./testdata/",
			wantErr: ErrCommandFileType,
		},
		{
			name:      "local file",
			url:       "./testdata/checks.yaml",
			wantGroup: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			def, err := loadCommandFile(context.Background(), tc.url)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, def)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "checks", def.Name)
			assert.Len(t, def.Groups, tc.wantGroup)
		})
	}
}

func TestResolveCommandFile(t *testing.T) {
	pwd := filepath.FromSlash("/work")

	cf, err := resolveCommandFile("ci/checks.YML", pwd)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(pwd, "ci", "checks.YML"), cf.local)
	assert.Equal(t, "checks.YML", cf.name)
	assert.Empty(t, cf.src)

	cf, err = resolveCommandFile("git::https://github.com/org/repo//ci/checks.yaml?ref=v1", pwd)
	require.NoError(t, err)
	assert.Empty(t, cf.local)
	assert.Equal(t, "git::https://github.com/org/repo//ci?ref=v1", cf.src)
	assert.Equal(t, "checks.yaml", cf.name)

	_, err = resolveCommandFile("https://example.com/checks.yaml", pwd)
	require.ErrorIs(t, err, ErrGetCommandFile, "a remote file needs a // subdirectory")
}

func TestReadCommandFile(t *testing.T) {
	defer goleak.VerifyNone(t)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg/small.yaml", []byte("groups: []\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/cfg/limit.yaml", make([]byte, maxCommandFileSize), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/cfg/big.yaml", make([]byte, maxCommandFileSize+1), 0o644))
	require.NoError(t, fs.MkdirAll("/cfg/dir.yaml", 0o755))

	data, err := readCommandFile(fs, "/cfg/small.yaml")
	require.NoError(t, err)
	assert.Equal(t, []byte("groups: []\n"), data)

	data, err = readCommandFile(fs, "/cfg/limit.yaml")
	require.NoError(t, err)
	assert.Len(t, data, maxCommandFileSize)

	_, err = readCommandFile(fs, "/cfg/big.yaml")
	require.ErrorIs(t, err, ErrCommandFileTooLarge)

	_, err = readCommandFile(fs, "/cfg/dir.yaml")
	require.ErrorIs(t, err, ErrGetCommandFile)

	_, err = readCommandFile(fs, "/cfg/missing.yaml")
	require.ErrorIs(t, err, ErrGetCommandFile)
}

func TestLoadCommandFile_TooLarge(t *testing.T) {
	defer goleak.VerifyNone(t)

	fs := afero.NewMemMapFs()
	path := filepath.Join(t.TempDir(), "big.yaml")
	require.NoError(t, afero.WriteFile(fs, path, make([]byte, maxCommandFileSize+1), 0o644))

	stubs := gostub.Stub(&commandFileFs, fs)
	defer stubs.Reset()

	def, err := loadCommandFile(context.Background(), path)
	require.ErrorIs(t, err, ErrCommandFileTooLarge)
	assert.Nil(t, def)

	_, err = commandArgs(context.Background(), []string{path}, []string{"echo a"})
	require.ErrorIs(t, err, ErrCommandFileTooLarge)
}

func TestSplitFileNameFromGetterURL(t *testing.T) {
	testCases := []struct {
		url      string
		wantURL  string
		wantFile string
	}{
		{
			url:      "git::https://github.com/org/repo//checks.yaml",
			wantURL:  "git::https://github.com/org/repo",
			wantFile: "checks.yaml",
		},
		{
			url:      "git::https://github.com/org/repo//ci/checks.yaml?ref=v1.0.0",
			wantURL:  "git::https://github.com/org/repo//ci?ref=v1.0.0",
			wantFile: "checks.yaml",
		},
		{
			url: "https://example.com/checks.yaml",
		},
		{
			url: "git::https://github.com/org/repo//ci/",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			gotURL, gotFile := splitFileNameFromGetterURL(tc.url)
			assert.Equal(t, tc.wantURL, gotURL)
			assert.Equal(t, tc.wantFile, gotFile)
		})
	}
}

func TestCommandArgs(t *testing.T) {
	ctx := context.Background()

	t.Run("positional only", func(t *testing.T) {
		args, err := commandArgs(ctx, nil, []string{"echo a", ":::", "echo b"})
		require.NoError(t, err)
		assert.Equal(t, []string{"echo a", ":::", "echo b"}, args)
	})

	t.Run("files precede positional commands", func(t *testing.T) {
		args, err := commandArgs(ctx,
			[]string{"./testdata/checks.yaml", "./testdata/checks.yaml"},
			[]string{"echo four"},
		)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"echo one", "echo two", ":::", "echo three",
			":::", "echo one", "echo two", ":::", "echo three",
			":::", "echo four",
		}, args)
	})

	t.Run("nothing given", func(t *testing.T) {
		args, err := commandArgs(ctx, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, args)
	})

	t.Run("invalid file", func(t *testing.T) {
		_, err := commandArgs(ctx, []string{"./testdata/empty.yaml"}, nil)
		require.ErrorIs(t, err, ErrBuildCommandFile)
		require.ErrorIs(t, err, config.ErrNoCommands)
	})

	t.Run("unreadable file", func(t *testing.T) {
		_, err := commandArgs(ctx, []string{"./testdata/missing.yaml"}, []string{"echo a"})
		require.ErrorIs(t, err, ErrGetCommandFile)
	})
}
