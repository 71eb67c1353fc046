// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package report renders the hops of a traceroute as text, JSON, YAML or metrics.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/telekom/geotrace/internal/traceroute"
	"github.com/telekom/geotrace/pkg/geo"
)

// Format is the output format of a traceroute report.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrInvalidFormat is returned for an unknown output format.
var ErrInvalidFormat = errors.New("invalid output format")

// ParseFormat parses the name of an output format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q, must be one of text, json or yaml", ErrInvalidFormat, s)
	}
}

// New returns the reporter writing the format to w.
func New(f Format, w io.Writer, e *Enricher) (traceroute.Reporter, error) {
	switch f {
	case FormatText, "":
		return NewText(w, e), nil
	case FormatJSON:
		return NewJSON(w, e), nil
	case FormatYAML:
		return NewYAML(w, e), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, f)
	}
}

// ProbeReport is a single probe of a hop.
type ProbeReport struct {
	Seq uint16 `json:"seq" yaml:"seq"`
	// RTT is the round trip time in milliseconds, nil if the probe missed.
	RTT   *float64 `json:"rttMs" yaml:"rttMs"`
	Error string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// HopReport is a hop together with its reverse name and geolocation.
type HopReport struct {
	TTL         int           `json:"ttl" yaml:"ttl"`
	Addr        string        `json:"addr,omitempty" yaml:"addr,omitempty"`
	Hostname    string        `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	Probes      []ProbeReport `json:"probes" yaml:"probes"`
	Lost        int           `json:"lost" yaml:"lost"`
	Reached     bool          `json:"reached" yaml:"reached"`
	AddrChanged bool          `json:"addrChanged" yaml:"addrChanged"`
	Geo         *geo.Record   `json:"geo,omitempty" yaml:"geo,omitempty"`
	Location    []string      `json:"location,omitempty" yaml:"location,omitempty"`
}

// TraceReport is the full report of a traceroute.
type TraceReport struct {
	Destination traceroute.Destination `json:"destination" yaml:"destination"`
	Name        string                 `json:"name,omitempty" yaml:"name,omitempty"`
	Reached     bool                   `json:"reached" yaml:"reached"`
	Hops        []HopReport            `json:"hops" yaml:"hops"`
}

func newHopReport(hop traceroute.Hop, a Annotation) HopReport {
	r := HopReport{
		TTL:         hop.TTL,
		Hostname:    a.Hostname,
		Probes:      make([]ProbeReport, 0, len(hop.Probes)),
		Lost:        hop.Lost(),
		Reached:     hop.Terminal,
		AddrChanged: hop.AddrChanged,
		Geo:         a.Record,
		Location:    a.Location,
	}
	if hop.Reachable() {
		r.Addr = hop.Addr.String()
	}
	for _, p := range hop.Probes {
		pr := ProbeReport{Seq: p.Seq}
		if p.Success() {
			ms := p.Milliseconds()
			pr.RTT = &ms
		} else if p.Err != nil {
			pr.Error = p.Err.Error()
		}
		r.Probes = append(r.Probes, pr)
	}
	return r
}

var _ traceroute.Reporter = (multi)(nil)

type multi []traceroute.Reporter

// Multi hands every event to all reporters.
func Multi(reporters ...traceroute.Reporter) traceroute.Reporter {
	return multi(reporters)
}

func (m multi) Start(ctx context.Context, dest traceroute.Destination, opts traceroute.Options) error {
	var err error
	for _, r := range m {
		err = errors.Join(err, r.Start(ctx, dest, opts))
	}
	return err
}

func (m multi) Report(ctx context.Context, hop traceroute.Hop) error {
	var err error
	for _, r := range m {
		err = errors.Join(err, r.Report(ctx, hop))
	}
	return err
}

func (m multi) Finish(ctx context.Context, res traceroute.Result) error {
	var err error
	for _, r := range m {
		err = errors.Join(err, r.Finish(ctx, res))
	}
	return err
}
