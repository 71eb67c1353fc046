// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/telekom/geotrace/internal/logger"
	"github.com/telekom/geotrace/pkg/agent"
	"github.com/telekom/geotrace/pkg/config"
	"github.com/telekom/geotrace/pkg/monitor"
)

// ErrNoMonitorTargets is returned if the agent has nothing to trace
var ErrNoMonitorTargets = errors.New("no monitor targets configured, use --targets, --targets-file or --targets-url")

// NewCmdServe creates the command running the monitoring agent
func NewCmdServe(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Trace targets periodically and serve the results",
		Long: "Runs geotrace as an agent that traces the configured targets every interval.\n" +
			"The metrics are served on /metrics and the latest traces on /v1/traces.",
		Args: cobra.NoArgs,
		RunE: runServe(v),
	}

	fs := cmd.Flags()
	fs.String("listen", ":9090", "Address the API listens on.")
	fs.StringSlice("targets", nil, "Hosts or addresses to trace.")
	fs.Duration("interval", monitor.DefaultInterval, "Pause between two rounds of traceroutes.")
	fs.String("targets-file", "", "YAML file with the targets, reloaded every reload interval.")
	fs.String("targets-url", "", "URL of a YAML or JSON document with the targets, fetched every reload interval.")
	fs.Duration("reload-interval", 0, "Interval the targets are reloaded with, 0 loads them once.")
	fs.String("name", "", "Name of the instance in the metrics, defaults to the host name.")

	bind(v, fs, map[string]string{
		"api.address":      "listen",
		"monitor.targets":  "targets",
		"monitor.interval": "interval",
		"loader.file.path": "targets-file",
		"loader.http.url":  "targets-url",
		"loader.interval":  "reload-interval",
		"name":             "name",
	})
	return cmd
}

func runServe(v *viper.Viper) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}

		ctx, cancel := logger.NewContextWithLogger(cmd.Context())
		defer cancel()
		if err := cfg.ValidateServe(ctx); err != nil {
			return err
		}
		if len(cfg.Monitor.Targets) == 0 && !cfg.HasLoader() {
			return ErrNoMonitorTargets
		}

		a, err := agent.New(cfg, newClient())
		if err != nil {
			return err
		}
		start := time.Now()
		if err := a.Run(ctx); !errors.Is(err, agent.ErrFinalShutdown) {
			return err
		}
		logger.FromContext(ctx).InfoContext(ctx, "Agent stopped", "uptime", time.Since(start).String())
		return nil
	}
}
