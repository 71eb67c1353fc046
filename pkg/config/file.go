// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/telekom/geotrace/internal/logger"
)

var _ Loader = (*FileLoader)(nil)

// FileLoader reads the monitor targets from a YAML file.
type FileLoader struct {
	config   LoaderConfig
	cTargets chan<- []string
	done     chan struct{}
	fsys     fs.FS
}

func NewFileLoader(cfg *Config, cTargets chan<- []string) *FileLoader {
	return &FileLoader{
		config:   cfg.Loader,
		cTargets: cTargets,
		done:     make(chan struct{}, 1),
		fsys:     os.DirFS(filepath.Dir(cfg.Loader.File.Path)),
	}
}

// Run gets the targets from the local file.
// The file will be loaded periodically defined by the loader interval configuration.
// If the interval is 0, the file is only read once and the loader is disabled.
func (f *FileLoader) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx)

	// Get the targets once on startup
	targets, err := f.getTargets(ctx)
	if err != nil {
		log.WarnContext(ctx, "Could not get targets", "error", err)
		err = fmt.Errorf("could not get targets: %w", err)
	} else {
		f.cTargets <- targets
	}

	if f.config.Interval == 0 {
		log.InfoContext(ctx, "File Loader disabled")
		return err
	}

	tick := time.NewTicker(f.config.Interval)
	defer tick.Stop()

	for {
		select {
		case <-f.done:
			log.InfoContext(ctx, "File Loader terminated")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			targets, err := f.getTargets(ctx)
			if err != nil {
				log.WarnContext(ctx, "Could not get targets", "error", err)
				continue
			}

			log.DebugContext(ctx, "Successfully loaded targets", "targets", len(targets))
			f.cTargets <- targets
		}
	}
}

// getTargets reads the targets from the configured file.
func (f *FileLoader) getTargets(ctx context.Context) (targets []string, err error) {
	log := logger.FromContext(ctx).With("path", f.config.File.Path)

	file, err := f.fsys.Open(filepath.Base(f.config.File.Path))
	if err != nil {
		log.ErrorContext(ctx, "Failed to open targets file", "error", err)
		return nil, fmt.Errorf("failed to open targets file: %w", err)
	}
	defer func() {
		cerr := file.Close()
		if cerr != nil {
			log.ErrorContext(ctx, "Failed to close targets file", "error", cerr)
		}
		err = errors.Join(cerr, err)
	}()

	b, err := io.ReadAll(file)
	if err != nil {
		log.ErrorContext(ctx, "Failed to read targets file", "error", err)
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}

	targets, err = parseTargets(b)
	if err != nil {
		log.ErrorContext(ctx, "Failed to parse targets file", "error", err)
		return nil, err
	}
	return targets, nil
}

func (f *FileLoader) Shutdown(ctx context.Context) {
	log := logger.FromContext(ctx)
	select {
	case f.done <- struct{}{}:
		log.DebugContext(ctx, "Sending signal to shut down file loader")
	default:
	}
}
