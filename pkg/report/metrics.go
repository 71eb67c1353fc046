// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/telekom/geotrace/internal/traceroute"
)

var _ traceroute.Reporter = (*Metrics)(nil)

// ErrMetricNotFound is returned when no metric carries the label.
type ErrMetricNotFound struct {
	Label string
}

func (e ErrMetricNotFound) Error() string {
	return fmt.Sprintf("metric %q not found", e.Label)
}

// Metrics records the hops of traceroutes as Prometheus metrics.
// The target label is the destination as it was given to the traceroute.
// A Metrics reporter can be shared by traceroutes run one after another.
type Metrics struct {
	hopRTT      *prometheus.GaugeVec
	probeRTT    *prometheus.HistogramVec
	probesSent  *prometheus.CounterVec
	probesLost  *prometheus.CounterVec
	hops        *prometheus.GaugeVec
	reached     *prometheus.GaugeVec
	duration    *prometheus.GaugeVec
	lastAttempt *prometheus.GaugeVec

	mu      sync.Mutex
	target  string
	started time.Time
}

// NewMetrics initializes the metric collectors of the traceroute.
func NewMetrics() *Metrics {
	return &Metrics{
		hopRTT: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "geotrace_hop_rtt_seconds",
				Help: "Mean round trip time of the answered probes of a hop in seconds.",
			},
			[]string{"target", "ttl", "addr"},
		),
		probeRTT: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "geotrace_probe_rtt_seconds",
				Help:    "Histogram of the round trip times of answered probes in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"target"},
		),
		probesSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geotrace_probes_sent_total",
				Help: "Total number of echo requests sent towards the target.",
			},
			[]string{"target"},
		),
		probesLost: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geotrace_probes_lost_total",
				Help: "Total number of echo requests towards the target that got no reply.",
			},
			[]string{"target"},
		),
		hops: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "geotrace_hops",
				Help: "Number of hops of the last traceroute to the target.",
			},
			[]string{"target"},
		),
		reached: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "geotrace_destination_reached",
				Help: "Specifies if the last traceroute reached the target.",
			},
			[]string{"target"},
		),
		duration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "geotrace_duration_seconds",
				Help: "Duration of the last traceroute to the target in seconds.",
			},
			[]string{"target"},
		),
		lastAttempt: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "geotrace_last_run_timestamp_seconds",
				Help: "Unix time of the last finished traceroute to the target.",
			},
			[]string{"target"},
		),
	}
}

// List returns all metric collectors
func (m *Metrics) List() []prometheus.Collector {
	return []prometheus.Collector{
		m.hopRTT,
		m.probeRTT,
		m.probesSent,
		m.probesLost,
		m.hops,
		m.reached,
		m.duration,
		m.lastAttempt,
	}
}

func (m *Metrics) Start(_ context.Context, dest traceroute.Destination, _ traceroute.Options) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.target = target(dest)
	m.started = time.Now()
	// The path may have changed since the last run.
	m.hopRTT.DeletePartialMatch(prometheus.Labels{"target": m.target})
	return nil
}

func (m *Metrics) Report(_ context.Context, hop traceroute.Hop) error {
	m.mu.Lock()
	t := m.target
	m.mu.Unlock()

	m.probesSent.WithLabelValues(t).Add(float64(len(hop.Probes)))
	m.probesLost.WithLabelValues(t).Add(float64(hop.Lost()))

	delays := hop.Delays()
	if len(delays) == 0 {
		return nil
	}
	var sum time.Duration
	for _, d := range delays {
		sum += d
		m.probeRTT.WithLabelValues(t).Observe(d.Seconds())
	}
	mean := sum / time.Duration(len(delays))
	m.hopRTT.WithLabelValues(t, strconv.Itoa(hop.TTL), hop.Addr.String()).Set(mean.Seconds())
	return nil
}

func (m *Metrics) Finish(_ context.Context, res traceroute.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hops.WithLabelValues(m.target).Set(float64(len(res.Hops)))
	reached := 0.0
	if res.Reached {
		reached = 1
	}
	m.reached.WithLabelValues(m.target).Set(reached)
	m.duration.WithLabelValues(m.target).Set(time.Since(m.started).Seconds())
	m.lastAttempt.WithLabelValues(m.target).SetToCurrentTime()
	return nil
}

// Remove removes the metrics of one target
func (m *Metrics) Remove(target string) error {
	labels := prometheus.Labels{"target": target}
	m.hopRTT.DeletePartialMatch(labels)

	if !m.hops.Delete(labels) {
		return ErrMetricNotFound{Label: target}
	}
	m.reached.Delete(labels)
	m.duration.Delete(labels)
	m.lastAttempt.Delete(labels)
	m.probeRTT.Delete(labels)
	m.probesSent.Delete(labels)
	m.probesLost.Delete(labels)
	return nil
}

// target returns the label value of the destination.
func target(dest traceroute.Destination) string {
	if dest.Input != "" {
		return dest.Input
	}
	return dest.Addr.String()
}
