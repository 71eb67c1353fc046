// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/geotrace/pkg/config/test"
)

func writeTargets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "targets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewFileLoader(t *testing.T) {
	l := NewFileLoader(&Config{Loader: LoaderConfig{File: FileLoaderConfig{Path: "targets.yaml"}}}, make(chan []string, 1))

	assert.Equal(t, "targets.yaml", l.config.File.Path)
	assert.NotNil(t, l.cTargets)
	assert.NotNil(t, l.fsys)
	assert.IsType(t, &FileLoader{}, NewLoader(&Config{}, make(chan []string, 1)))
}

func TestFileLoader_Run(t *testing.T) {
	path := writeTargets(t, "targets:\n  - example.com\n  - \" 192.0.2.1 \"\n  - \"\"\n")

	tests := []struct {
		name   string
		config LoaderConfig
	}{
		{name: "Loads targets from file", config: LoaderConfig{Interval: 10 * time.Millisecond, File: FileLoaderConfig{Path: path}}},
		{name: "Continuous loading disabled", config: LoaderConfig{File: FileLoaderConfig{Path: path}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			result := make(chan []string, 10)
			f := NewFileLoader(&Config{Loader: tt.config}, result)

			cErr := make(chan error, 1)
			go func() { cErr <- f.Run(ctx) }()

			assert.Equal(t, []string{"example.com", "192.0.2.1"}, <-result)
			if tt.config.Interval > 0 {
				assert.Equal(t, []string{"example.com", "192.0.2.1"}, <-result, "file is read again after the interval")
			}

			f.Shutdown(ctx)
			select {
			case err := <-cErr:
				assert.NoError(t, err)
			case <-time.After(time.Second):
				t.Fatal("loader did not stop")
			}
		})
	}
}

func TestFileLoader_Run_MissingFile(t *testing.T) {
	result := make(chan []string, 1)
	f := NewFileLoader(&Config{Loader: LoaderConfig{File: FileLoaderConfig{Path: filepath.Join(t.TempDir(), "missing.yaml")}}}, result)

	err := f.Run(t.Context())
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Empty(t, result, "nothing is sent if the file cannot be read")
}

func TestFileLoader_getTargets(t *testing.T) {
	closeErr := errors.New("failed to close file")
	tests := []struct {
		name    string
		mockFS  fs.FS
		want    []string
		wantErr bool
	}{
		{
			name: "Valid file",
			mockFS: &test.MockFS{
				OpenFunc: func(string) (fs.File, error) {
					return &test.MockFile{Content: []byte("targets: [example.com, example.org]")}, nil
				},
			},
			want: []string{"example.com", "example.org"},
		},
		{
			name: "Empty file",
			mockFS: &test.MockFS{
				OpenFunc: func(string) (fs.File, error) {
					return &test.MockFile{}, nil
				},
			},
			want: []string{},
		},
		{
			name: "Malformed file",
			mockFS: &test.MockFS{
				OpenFunc: func(string) (fs.File, error) {
					return &test.MockFile{Content: []byte("this is not a valid yaml content")}, nil
				},
			},
			wantErr: true,
		},
		{
			name: "Failed to close file",
			mockFS: &test.MockFS{
				OpenFunc: func(string) (fs.File, error) {
					return &test.MockFile{
						Content:   []byte("targets: [example.com]"),
						CloseFunc: func() error { return closeErr },
					}, nil
				},
			},
			wantErr: true,
		},
		{
			name: "Failed to open file",
			mockFS: &test.MockFS{
				OpenFunc: func(string) (fs.File, error) {
					return nil, fs.ErrPermission
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFileLoader(&Config{Loader: LoaderConfig{File: FileLoaderConfig{Path: "targets.yaml"}}}, make(chan []string, 1))
			f.fsys = tt.mockFS

			got, err := f.getTargets(t.Context())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
