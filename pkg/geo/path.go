// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultDatabase is the database looked for in the default directory if none is given.
const DefaultDatabase = "IP2LOCATION-LITE-DB1.IPV6.BIN"

var (
	// ErrDatabaseNotFound is returned if no database file exists at any of the candidate paths.
	ErrDatabaseNotFound = errors.New("BIN database file not found")
	// ErrNotBIN is returned for a database name without the .BIN extension.
	ErrNotBIN = errors.New("only BIN databases are accepted, the latest free IP2Location BIN database can be downloaded from https://lite.ip2location.com")
)

// DefaultDirectory returns the directory databases are searched in.
func DefaultDirectory() string {
	if runtime.GOOS == "windows" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, "Documents")
		}
	}
	return "/usr/share/ip2location"
}

// ResolvePath finds the database file for the given name.
//
// An empty name selects [DefaultDatabase] in dir. Otherwise the name is used as
// it is if the file exists. Names with the .BIN extension are then looked up in
// the working directory and in dir.
func ResolvePath(name, dir string) (string, error) {
	if name == "" {
		p := filepath.Join(dir, DefaultDatabase)
		if !isFile(p) {
			return "", fmt.Errorf("%w: missing %s", ErrDatabaseNotFound, p)
		}
		return p, nil
	}

	if isFile(name) {
		return name, nil
	}
	if !strings.HasSuffix(strings.ToUpper(name), ".BIN") {
		return "", fmt.Errorf("%w: %s", ErrNotBIN, name)
	}

	var candidates []string
	if wd, err := os.Getwd(); err == nil && !filepath.IsAbs(name) {
		candidates = append(candidates, filepath.Join(wd, name))
	}
	candidates = append(candidates, filepath.Join(dir, filepath.Base(name)))
	for _, p := range candidates {
		if isFile(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrDatabaseNotFound, name)
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}
