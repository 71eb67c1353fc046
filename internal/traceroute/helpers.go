// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/telekom/geotrace/internal/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sys/unix"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// addrFromSockaddr extracts the IP address from a [unix.Sockaddr].
func addrFromSockaddr(sa unix.Sockaddr) netip.Addr {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return netip.AddrFrom4(a.Addr)
	case *unix.SockaddrInet6:
		return netip.AddrFrom16(a.Addr).Unmap()
	}
	return netip.Addr{}
}

// hopAttributes returns the span attributes describing a hop.
func hopAttributes(hop Hop) []attribute.KeyValue {
	addr := "*"
	if hop.Reachable() {
		addr = hop.Addr.String()
	}
	return []attribute.KeyValue{
		attribute.Int("traceroute.hop.ttl", hop.TTL),
		attribute.String("traceroute.hop.addr", addr),
		attribute.Int("traceroute.hop.lost", hop.Lost()),
		attribute.Bool("traceroute.hop.reached", hop.Terminal),
	}
}

// logHops logs the hops in a structured format.
func logHops(ctx context.Context, hops []Hop) {
	log := logger.FromContext(ctx)
	for _, hop := range hops {
		log.DebugContext(ctx, hop.String())
	}
}

// wrapError wraps an error with a message and logs it.
// It also records the error in the current OpenTelemetry span.
func wrapError(ctx context.Context, err error, msg string, args ...any) error {
	if err == nil {
		return nil
	}
	log := logger.FromContext(ctx)
	span := trace.SpanFromContext(ctx)
	caser := cases.Title(language.English)

	log.ErrorContext(ctx, caser.String(fmt.Sprintf(msg, args...)), "error", err)
	span.SetStatus(codes.Error, fmt.Sprintf(msg, args...))
	span.RecordError(err)
	return fmt.Errorf("%s: %w", fmt.Sprintf(msg, args...), err)
}
