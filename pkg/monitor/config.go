// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"fmt"
	"strings"
	"time"
)

// DefaultInterval is the pause between two rounds if nothing else is configured.
const DefaultInterval = 5 * time.Minute

// Config is the configuration of the monitor
type Config struct {
	// Targets are the hosts or addresses traced every interval.
	Targets []string `json:"targets" yaml:"targets" mapstructure:"targets"`
	// Interval is the pause between two rounds of traceroutes.
	Interval time.Duration `json:"interval" yaml:"interval" mapstructure:"interval"`
}

// ErrInvalidConfig is returned when a configuration is invalid
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid monitor configuration field %q: %s", e.Field, e.Reason)
}

func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return ErrInvalidConfig{Field: "monitor.interval", Reason: "must be greater than 0"}
	}

	seen := make(map[string]struct{}, len(c.Targets))
	for i, t := range c.Targets {
		if strings.TrimSpace(t) == "" {
			return ErrInvalidConfig{Field: fmt.Sprintf("monitor.targets[%d]", i), Reason: "must not be empty"}
		}
		if _, ok := seen[t]; ok {
			return ErrInvalidConfig{Field: fmt.Sprintf("monitor.targets[%d]", i), Reason: fmt.Sprintf("duplicate target %q", t)}
		}
		seen[t] = struct{}{}
	}
	return nil
}
