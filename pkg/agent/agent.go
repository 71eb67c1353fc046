// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package agent runs geotrace as a long running monitoring agent.
package agent

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/telekom/geotrace/internal/logger"
	"github.com/telekom/geotrace/internal/traceroute"
	"github.com/telekom/geotrace/pkg/api"
	"github.com/telekom/geotrace/pkg/config"
	"github.com/telekom/geotrace/pkg/metrics"
	"github.com/telekom/geotrace/pkg/monitor"
)

const shutdownTimeout = time.Second * 30

// Agent traces the configured targets periodically and serves the results
type Agent struct {
	// config is the startup configuration of the agent
	config *config.Config
	// api serves the metrics and traces
	api api.API
	// metrics is used to collect metrics
	metrics metrics.Provider
	// monitor runs the traceroutes
	monitor *monitor.Monitor
	// loader is used to load the monitor targets, nil if they are static
	loader config.Loader
	// cTargets is used to signal that the monitor targets have changed
	cTargets chan []string
	// cErr is used to handle non-recoverable errors of the agent components
	cErr chan error
	// cDone is used to signal that the agent was shut down
	cDone chan struct{}
	// shutOnce is used to ensure that the shutdown function is only called once
	shutOnce sync.Once
}

// New creates a new agent tracing with the client.
// The extra reporters receive the hops of every traceroute.
func New(cfg *config.Config, client traceroute.Client, extra ...traceroute.Reporter) (*Agent, error) {
	m := metrics.New(cfg.Telemetry)
	mon := monitor.New(cfg.Monitor, cfg.Trace, client, extra...)

	registry := m.GetRegistry()
	for _, c := range mon.GetMetricCollectors() {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register monitor metrics: %w", err)
		}
	}
	if err := metrics.RegisterInstanceInfo(registry, instanceName(cfg)); err != nil {
		return nil, fmt.Errorf("failed to register instance info: %w", err)
	}

	a := &Agent{
		config:   cfg,
		api:      api.New(cfg.Api, registry, mon),
		metrics:  m,
		monitor:  mon,
		cTargets: make(chan []string, 1),
		cErr:     make(chan error, 1),
		cDone:    make(chan struct{}, 1),
	}
	if cfg.HasLoader() {
		a.loader = config.NewLoader(cfg, a.cTargets)
	}
	return a, nil
}

// Run starts all components of the agent and blocks until they are shut down.
// It always returns [ErrFinalShutdown].
func (a *Agent) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	log := logger.FromContext(ctx)
	defer cancel()

	err := a.metrics.InitTracing(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	go func() {
		a.cErr <- a.api.Run(ctx)
	}()
	go func() {
		a.cErr <- a.monitor.Run(ctx)
	}()
	if a.loader != nil {
		go func() {
			a.cErr <- a.loader.Run(ctx)
		}()
	}

	for {
		select {
		case targets := <-a.cTargets:
			if err := a.monitor.UpdateTargets(targets); err != nil {
				log.WarnContext(ctx, "Ignoring invalid targets", "error", err)
				continue
			}
			log.InfoContext(ctx, "Updated monitor targets", "targets", len(targets))
		case <-ctx.Done():
			a.shutdown(ctx)
		case err := <-a.cErr:
			if err != nil {
				log.ErrorContext(ctx, "Non-recoverable error in agent component", "error", err)
				a.shutdown(ctx)
			}
		case <-a.cDone:
			log.InfoContext(ctx, "Agent was shut down")
			return ErrFinalShutdown
		}
	}
}

// shutdown shuts down the agent and all managed components gracefully.
func (a *Agent) shutdown(ctx context.Context) {
	errC := ctx.Err()
	log := logger.FromContext(ctx)
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.shutOnce.Do(func() {
		log.InfoContext(ctx, "Shutting down agent")
		var sErrs ErrShutdown
		sErrs.errAPI = a.api.Shutdown(ctx)
		sErrs.errMetrics = a.metrics.Shutdown(ctx)
		a.monitor.Shutdown()
		if a.loader != nil {
			a.loader.Shutdown(ctx)
		}

		if sErrs.HasError() {
			log.ErrorContext(ctx, "Failed to shutdown gracefully", "contextError", errC, "errors", sErrs)
		}

		// Signal that shutdown is complete
		a.cDone <- struct{}{}
	})
}

// instanceName returns the configured name or the host name.
func instanceName(cfg *config.Config) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "unknown"
}
