// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"context"
	"net/netip"
	"strings"

	"github.com/telekom/geotrace/internal/logger"
	"github.com/telekom/geotrace/internal/traceroute"
	"github.com/telekom/geotrace/pkg/geo"
	"github.com/telekom/geotrace/pkg/rdns"
)

// Annotation is what is known about the address of a hop.
type Annotation struct {
	// Hostname is the reverse name of the address.
	Hostname string
	// Record is the geolocation of the address, nil if unknown or not looked up.
	Record *geo.Record
	// Location are the selected columns of the record.
	Location []string
}

// Enricher looks up the names and locations of hop addresses.
// Hops answering from the same address as their predecessor are not looked up again.
// An Enricher belongs to a single traceroute and is not safe for concurrent use.
type Enricher struct {
	locator    geo.Locator
	resolver   rdns.Resolver
	projection geo.Projection
	last       Annotation
}

// NewEnricher returns an [Enricher]. Nil collaborators disable the respective lookup.
func NewEnricher(l geo.Locator, r rdns.Resolver, p geo.Projection) *Enricher {
	if l == nil {
		l = geo.Disabled{}
	}
	if r == nil {
		r = rdns.Disabled{}
	}
	return &Enricher{locator: l, resolver: r, projection: p}
}

// Reset forgets the previous hop.
func (e *Enricher) Reset() {
	e.last = Annotation{}
}

// Annotate returns the annotation of the hop.
func (e *Enricher) Annotate(ctx context.Context, hop traceroute.Hop) Annotation {
	if !hop.Reachable() {
		e.last = Annotation{}
		return Annotation{}
	}
	if !hop.AddrChanged {
		return Annotation{Hostname: e.last.Hostname}
	}

	a := Annotation{Hostname: e.resolver.LookupAddr(ctx, hop.Addr)}
	rec, ok, err := e.locator.Lookup(hop.Addr)
	switch {
	case err != nil:
		logger.FromContext(ctx).WarnContext(ctx, "Failed to look up geolocation", "addr", hop.Addr, "error", err)
	case ok:
		a.Record = &rec
		a.Location = e.projection.Values(rec)
	}
	e.last = a
	return a
}

// DestinationName returns the name the destination is shown with.
// Literal addresses are resolved into a host name if possible.
func (e *Enricher) DestinationName(ctx context.Context, dest traceroute.Destination) string {
	input := strings.Trim(strings.TrimSpace(dest.Input), "[]")
	if _, err := netip.ParseAddr(input); input != "" && err != nil {
		return input
	}
	return e.resolver.LookupAddr(ctx, dest.Addr)
}
