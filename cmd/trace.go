// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/telekom/geotrace/internal/logger"
	"github.com/telekom/geotrace/internal/traceroute"
	"github.com/telekom/geotrace/pkg/config"
	"github.com/telekom/geotrace/pkg/geo"
	"github.com/telekom/geotrace/pkg/metrics"
	"github.com/telekom/geotrace/pkg/rdns"
	"github.com/telekom/geotrace/pkg/report"
)

const telemetryShutdownTimeout = 10 * time.Second

// runTrace runs a single traceroute and writes the report to stdout
func runTrace(v *viper.Viper, tf *traceFlags) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		target, err := tf.target(args)
		if err != nil {
			return err
		}
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}

		ctx, cancel := logger.NewContextWithLogger(cmd.Context())
		defer cancel()
		if err := cfg.Validate(ctx); err != nil {
			return err
		}
		return trace(ctx, cfg, target, newClient(), cmd.OutOrStdout())
	}
}

// trace runs the traceroute to the target with the configured report.
// An interrupted traceroute is not an error, the hops traced so far are reported.
func trace(ctx context.Context, cfg *config.Config, target string, client traceroute.Client, w io.Writer) (err error) {
	log := logger.FromContext(ctx)

	locator, err := openLocator(ctx, cfg.Geo)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := locator.Close(); cErr != nil {
			log.WarnContext(ctx, "Failed to close geolocation database", "error", cErr)
		}
	}()

	format, err := report.ParseFormat(string(cfg.Output.Format))
	if err != nil {
		return err
	}
	enricher := report.NewEnricher(locator, rdns.New(cfg.DNS), cfg.Geo.Projection)
	reporter, err := report.New(format, w, enricher)
	if err != nil {
		return err
	}

	provider := metrics.NewTextfile(cfg.Telemetry)
	if cfg.HasTextfile() {
		m := report.NewMetrics()
		provider.GetRegistry().MustRegister(m.List()...)
		reporter = report.Multi(reporter, m)
	}
	if cfg.HasTelemetry() {
		if err := provider.InitTracing(ctx); err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		defer func() {
			sCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryShutdownTimeout)
			defer cancel()
			err = errors.Join(err, provider.Shutdown(sCtx))
		}()
	}

	res, err := client.Run(ctx, target, &cfg.Trace, reporter)
	if errors.Is(err, context.Canceled) {
		log.InfoContext(ctx, "Traceroute interrupted", "hops", len(res.Hops))
		err = nil
	}

	if cfg.HasTextfile() && len(res.Hops) > 0 {
		if wErr := provider.WriteTextfile(cfg.Metrics.Textfile); wErr != nil {
			log.ErrorContext(ctx, "Failed to write metrics textfile", "error", wErr)
			err = errors.Join(err, wErr)
		}
	}
	return err
}

// openLocator opens the geolocation database of the configuration.
// A missing default database disables the geolocation, a missing
// database that was asked for explicitly is an error.
func openLocator(ctx context.Context, c config.GeoConfig) (geo.Locator, error) {
	log := logger.FromContext(ctx)

	path, err := geo.ResolvePath(c.Database, c.Directory)
	if err != nil {
		if c.Database == "" && errors.Is(err, geo.ErrDatabaseNotFound) {
			log.WarnContext(ctx, "No geolocation database found, hops are shown without location", "error", err)
			return geo.Disabled{}, nil
		}
		return nil, err
	}

	db, err := geo.Open(path)
	if err != nil {
		return nil, err
	}
	log.DebugContext(ctx, "Using geolocation database", "path", db.Path())
	return db, nil
}
