// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/telekom/geotrace/internal/traceroute"
	"github.com/telekom/geotrace/pkg/geo"
)

var _ traceroute.Reporter = (*Text)(nil)

// Text prints one line per hop in the classic traceroute layout,
// followed by the location of the hop if its address changed:
//
//	Traceroute to example.com (93.184.216.34)
//
//	 1  192.168.1.1  0.512ms 0.431ms 0.402ms ["-"]
//	 2  * * *
//	 3  10.10.0.1  8.210ms * 8.004ms ["US","California","Los Angeles"]
type Text struct {
	w        io.Writer
	enricher *Enricher
}

// NewText returns a [Text] reporter writing to w.
func NewText(w io.Writer, e *Enricher) *Text {
	if e == nil {
		e = NewEnricher(nil, nil, geo.Projection{})
	}
	return &Text{w: w, enricher: e}
}

func (t *Text) Start(ctx context.Context, dest traceroute.Destination, _ traceroute.Options) error {
	t.enricher.Reset()
	_, err := fmt.Fprintf(t.w, "Traceroute to %s (%s)\n\n", t.enricher.DestinationName(ctx, dest), dest.Addr)
	return err
}

func (t *Text) Report(ctx context.Context, hop traceroute.Hop) error {
	a := t.enricher.Annotate(ctx, hop)
	_, err := io.WriteString(t.w, formatHop(hop, a))
	return err
}

func (t *Text) Finish(_ context.Context, res traceroute.Result) error {
	if res.Reached || len(res.Hops) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(t.w, "\nDestination %s not reached after %d hops\n", res.Destination.Addr, len(res.Hops))
	return err
}

// formatHop renders a hop as a single line.
func formatHop(hop traceroute.Hop, a Annotation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%2d  ", hop.TTL)

	if hop.Reachable() {
		addr := hop.Addr.String()
		if a.Hostname != "" && a.Hostname != addr {
			fmt.Fprintf(&b, "%s (%s)  ", a.Hostname, addr)
		} else {
			fmt.Fprintf(&b, "%s  ", addr)
		}
	}

	for _, p := range hop.Probes {
		if p.Success() {
			fmt.Fprintf(&b, "%.3fms ", p.Milliseconds())
			continue
		}
		b.WriteString("* ")
	}

	if a.Record != nil {
		b.WriteString(formatLocation(a.Location))
	}
	return strings.TrimRight(b.String(), " ") + "\n"
}

// formatLocation renders the values as a list of quoted strings, e.g. ["US","California"].
func formatLocation(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, `"`+v+`"`)
	}
	return "[" + strings.Join(quoted, ",") + "]"
}
