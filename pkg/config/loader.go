// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:generate go tool moq -out loader_moq.go . Loader
type Loader interface {
	// Run starts the loader routine.
	// The loader should be able
	// to handle all errors by itself and retry if necessary.
	// If the context is canceled,
	// the Run method returns an error.
	Run(context.Context) error
	// Shutdown stops the loader routine.
	Shutdown(context.Context)
}

// NewLoader returns the loader sending the monitor targets to cTargets
func NewLoader(cfg *Config, cTargets chan<- []string) Loader {
	if cfg.HasHttpLoader() {
		return NewHttpLoader(cfg, cTargets)
	}
	return NewFileLoader(cfg, cTargets)
}

// targetsDocument is the content of a targets file or a page of a targets url.
type targetsDocument struct {
	Targets []string `yaml:"targets"`
}

// parseTargets decodes a targets document. Blank and repeated targets are dropped.
// JSON documents are accepted as well.
func parseTargets(b []byte) ([]string, error) {
	var doc targetsDocument
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse targets: %w", err)
	}
	return appendTargets(make([]string, 0, len(doc.Targets)), doc.Targets...), nil
}

// appendTargets appends the trimmed targets that are not blank and not yet in dst.
func appendTargets(dst []string, targets ...string) []string {
	for _, t := range targets {
		if t = strings.TrimSpace(t); t != "" && !slices.Contains(dst, t) {
			dst = append(dst, t)
		}
	}
	return dst
}
