// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package monitor traces a set of targets periodically.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/telekom/geotrace/internal/logger"
	"github.com/telekom/geotrace/internal/traceroute"
	"github.com/telekom/geotrace/pkg/report"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Trace is the latest traceroute to a target.
type Trace struct {
	Target string            `json:"target"`
	Result traceroute.Result `json:"result"`
	// Error is set if the traceroute failed.
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Monitor runs the traceroutes to its targets one after another, every interval.
type Monitor struct {
	mu   sync.Mutex
	done chan struct{}
	// added signals targets that were not traced yet
	added   chan struct{}
	config  Config
	opts    traceroute.Options
	client  traceroute.Client
	metrics *report.Metrics
	extra   []traceroute.Reporter
	tracer  trace.Tracer
	results map[string]Trace
}

// New creates a monitor tracing with the client.
// Every hop is recorded as metric and handed to the extra reporters.
func New(cfg Config, opts traceroute.Options, client traceroute.Client, extra ...traceroute.Reporter) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Monitor{
		done:    make(chan struct{}, 1),
		added:   make(chan struct{}, 1),
		config:  cfg,
		opts:    opts,
		client:  client,
		metrics: report.NewMetrics(),
		extra:   extra,
		tracer:  otel.Tracer("monitor"),
		results: map[string]Trace{},
	}
}

// Run traces all targets and repeats this every interval until the
// context is canceled or the monitor is shut down. Adding targets
// starts the next round right away.
// A non-nil error means that no traceroute can succeed anymore.
func (m *Monitor) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx)

	log.InfoContext(ctx, "Starting monitor", "interval", m.interval().String(), "targets", len(m.Targets()))
	for {
		if err := m.round(ctx); err != nil {
			log.ErrorContext(ctx, "Traceroutes cannot be run", "error", err)
			return err
		}

		select {
		case <-ctx.Done():
			log.InfoContext(ctx, "Context canceled", "error", ctx.Err())
			return ctx.Err()
		case <-m.done:
			log.InfoContext(ctx, "Monitor stopped")
			return nil
		case <-m.added:
			log.DebugContext(ctx, "Targets added, starting next round")
		case <-time.After(m.interval()):
		}
	}
}

// round traces every target once.
func (m *Monitor) round(ctx context.Context) error {
	log := logger.FromContext(ctx)
	ctx, span := m.tracer.Start(ctx, "monitor.round")
	defer span.End()

	targets := m.Targets()
	if len(targets) == 0 {
		log.WarnContext(ctx, "No targets configured for monitor")
		return nil
	}

	for _, target := range targets {
		if ctx.Err() != nil {
			return nil
		}
		if err := m.trace(ctx, target); err != nil {
			span.SetStatus(codes.Error, "Traceroute failed fatally")
			span.RecordError(err)
			return err
		}
	}
	log.DebugContext(ctx, "Successfully finished monitor round", "targets", len(targets))
	return nil
}

// trace runs a single traceroute and stores its result.
// Only errors no other target could recover from are returned.
func (m *Monitor) trace(ctx context.Context, target string) error {
	log := logger.FromContext(ctx).With("target", target)
	ctx, span := m.tracer.Start(ctx, "monitor.trace", trace.WithAttributes(attribute.String("monitor.target", target)))
	defer span.End()

	opts := m.opts
	r := report.Multi(append([]traceroute.Reporter{m.metrics}, m.extra...)...)
	res, err := m.client.Run(ctx, target, &opts, r)

	t := Trace{Target: target, Result: res, Timestamp: time.Now().UTC()}
	if err != nil {
		t.Error = err.Error()
		span.SetStatus(codes.Error, "Traceroute failed")
		span.RecordError(err)
	}

	m.mu.Lock()
	if slices.Contains(m.config.Targets, target) {
		m.results[target] = t
	}
	m.mu.Unlock()

	switch {
	case err == nil:
		log.DebugContext(ctx, "Traceroute finished", "hops", len(res.Hops), "reached", res.Reached)
		return nil
	case errors.Is(err, context.Canceled):
		return nil
	case errors.Is(err, traceroute.ErrPermissionDenied):
		return fmt.Errorf("traceroute to %s: %w", target, err)
	default:
		log.WarnContext(ctx, "Traceroute failed", "error", err)
		return nil
	}
}

// UpdateConfig replaces the targets and the interval of the monitor.
// The metrics and results of removed targets are deleted.
func (m *Monitor) UpdateConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, target := range m.config.Targets {
		if slices.Contains(cfg.Targets, target) {
			continue
		}
		delete(m.results, target)
		var notFound report.ErrMetricNotFound
		if err := m.metrics.Remove(target); err != nil && !errors.As(err, &notFound) {
			return err
		}
	}

	added := slices.ContainsFunc(cfg.Targets, func(t string) bool {
		return !slices.Contains(m.config.Targets, t)
	})
	m.config = cfg
	if added {
		select {
		case m.added <- struct{}{}:
		default:
		}
	}
	return nil
}

// UpdateTargets replaces the targets and keeps the interval.
func (m *Monitor) UpdateTargets(targets []string) error {
	m.mu.Lock()
	cfg := Config{Targets: targets, Interval: m.config.Interval}
	m.mu.Unlock()
	return m.UpdateConfig(cfg)
}

// Targets returns the currently monitored targets.
func (m *Monitor) Targets() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.config.Targets)
}

func (m *Monitor) interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config.Interval
}

// Results returns the latest traces of all targets.
func (m *Monitor) Results() []Trace {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := slices.Sorted(maps.Keys(m.results))
	traces := make([]Trace, 0, len(keys))
	for _, k := range keys {
		traces = append(traces, m.results[k])
	}
	return traces
}

// Result returns the latest trace of the target.
func (m *Monitor) Result(target string) (Trace, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.results[target]
	return t, ok
}

// GetMetricCollectors returns the collectors of the traceroute metrics.
func (m *Monitor) GetMetricCollectors() []prometheus.Collector {
	return m.metrics.List()
}

// Shutdown stops the monitor once the current round is finished.
func (m *Monitor) Shutdown() {
	select {
	case m.done <- struct{}{}:
	default:
	}
}
