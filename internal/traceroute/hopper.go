// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"time"

	"github.com/telekom/geotrace/internal/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// hopper drives the TTL sequence of a session and decides when it ends.
type hopper struct {
	prober     hopProber
	reporter   Reporter
	otelTracer trace.Tracer
	opts       Options
	// sleep pauses the loop, returning early with the context's error.
	sleep func(ctx context.Context, d time.Duration) error
}

// run probes TTL 1 up to the session's max TTL and hands each hop to the reporter.
// It stops after the destination replied or once ctx is done. Cancellation is
// only observed between hops, the hop in flight always completes.
// The hops collected so far are returned together with the context's error.
func (h *hopper) run(ctx context.Context, s *Session) (Result, error) {
	log := logger.FromContext(ctx)
	res := Result{Destination: s.dest, Hops: make([]Hop, 0, s.maxTTL)}

	for s.ttl = 1; s.ttl <= s.maxTTL; s.ttl++ {
		if err := ctx.Err(); err != nil {
			log.InfoContext(ctx, "Traceroute interrupted", "ttl", s.ttl, "error", err)
			return res, err
		}

		start := time.Now()
		hop, err := h.runHop(ctx, s)
		if err != nil {
			return res, err
		}

		hop.AddrChanged = hop.Reachable() && hop.Addr != s.lastAddr
		s.lastAddr = hop.Addr

		if err := h.reporter.Report(ctx, hop); err != nil {
			return res, wrapError(ctx, err, "failed to report hop %d", hop.TTL)
		}
		res.Hops = append(res.Hops, hop)

		if hop.Terminal {
			res.Reached = true
			log.DebugContext(ctx, "Destination reached", "ttl", hop.TTL, "addr", hop.Addr)
			return res, nil
		}

		if err := h.pace(ctx, hop, time.Since(start)); err != nil {
			log.InfoContext(ctx, "Traceroute interrupted", "ttl", s.ttl, "error", err)
			return res, err
		}
	}

	return res, nil
}

// runHop probes a single TTL within its own span.
// The prober never sees the cancellation of ctx, so no probe is abandoned mid-receive.
func (h *hopper) runHop(ctx context.Context, s *Session) (Hop, error) {
	ctx, span := h.otelTracer.Start(ctx, "hop", trace.WithAttributes(
		attribute.Stringer("traceroute.target.address", s.dest.Addr),
		attribute.Int("traceroute.target.ttl", s.ttl),
	))
	defer span.End()

	hop, err := h.prober.probeHop(context.WithoutCancel(ctx), s, s.ttl)
	if err != nil {
		return hop, wrapError(ctx, err, "failed to probe hop %d", s.ttl)
	}

	span.SetAttributes(hopAttributes(hop)...)
	if !hop.Reachable() {
		span.SetStatus(codes.Error, "No reply received")
	}
	return hop, nil
}

// pace sleeps the remainder of the hop floor if the hop answered from
// the same address as the previous one and finished faster than the floor.
func (h *hopper) pace(ctx context.Context, hop Hop, elapsed time.Duration) error {
	if h.opts.HopFloor <= 0 || !hop.Reachable() || hop.AddrChanged {
		return nil
	}
	rest := h.opts.HopFloor - elapsed
	if rest <= 0 {
		return nil
	}
	return h.sleep(ctx, rest)
}

// sleepContext pauses for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
