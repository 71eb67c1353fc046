// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package test provides file system fakes for the loader tests.
package test

import (
	"io"
	"io/fs"
)

// MockFS is an [fs.FS] whose Open behavior is set by the test.
type MockFS struct {
	OpenFunc func(name string) (fs.File, error)
}

// Open calls OpenFunc.
func (m *MockFS) Open(name string) (fs.File, error) {
	return m.OpenFunc(name)
}

// MockFile is an in-memory [fs.File] serving Content.
type MockFile struct {
	Content []byte
	// CloseFunc overrides the result of Close if set.
	CloseFunc func() error

	offset int
}

// Read reads from Content and returns [io.EOF] once all of it was read.
func (mf *MockFile) Read(b []byte) (int, error) {
	if mf.offset >= len(mf.Content) {
		return 0, io.EOF
	}
	n := copy(b, mf.Content[mf.offset:])
	mf.offset += n
	return n, nil
}

func (mf *MockFile) Close() error {
	if mf.CloseFunc != nil {
		return mf.CloseFunc()
	}
	return nil
}

// Stat is not supported.
func (mf *MockFile) Stat() (fs.FileInfo, error) {
	return nil, fs.ErrInvalid
}
