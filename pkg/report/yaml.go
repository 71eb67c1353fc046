// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"context"
	"fmt"
	"io"

	"github.com/telekom/geotrace/internal/traceroute"
	"github.com/telekom/geotrace/pkg/geo"
	"gopkg.in/yaml.v3"
)

var _ traceroute.Reporter = (*YAML)(nil)

// YAML collects the hops and writes the whole report once the traceroute finished.
type YAML struct {
	w        io.Writer
	enricher *Enricher
	report   TraceReport
}

// NewYAML returns a [YAML] reporter writing to w.
func NewYAML(w io.Writer, e *Enricher) *YAML {
	if e == nil {
		e = NewEnricher(nil, nil, geo.Projection{})
	}
	return &YAML{w: w, enricher: e}
}

func (y *YAML) Start(ctx context.Context, dest traceroute.Destination, _ traceroute.Options) error {
	y.enricher.Reset()
	y.report = TraceReport{
		Destination: dest,
		Name:        y.enricher.DestinationName(ctx, dest),
		Hops:        []HopReport{},
	}
	return nil
}

func (y *YAML) Report(ctx context.Context, hop traceroute.Hop) error {
	y.report.Hops = append(y.report.Hops, newHopReport(hop, y.enricher.Annotate(ctx, hop)))
	return nil
}

func (y *YAML) Finish(_ context.Context, res traceroute.Result) error {
	y.report.Reached = res.Reached
	enc := yaml.NewEncoder(y.w)
	enc.SetIndent(2)
	if err := enc.Encode(y.report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}
