// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/telekom/geotrace/internal/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ Client = (*icmpClient)(nil)

// Client is able to run a traceroute to a target.
//
//go:generate go tool moq -out client_moq.go . Client
type Client interface {
	// Run resolves the target and traces the path to it with the specified options.
	// Every completed hop is handed to the reporter. If ctx is canceled, the hops
	// collected so far are returned together with the context's error.
	Run(ctx context.Context, target string, opts *Options, r Reporter) (Result, error)
}

// icmpClient traces with ICMP echo requests over raw sockets.
type icmpClient struct {
	lookup lookupFunc
	open   openFunc
}

// NewClient returns a [Client] sending ICMP echo requests over raw sockets.
func NewClient() Client {
	return &icmpClient{
		lookup: net.DefaultResolver.LookupNetIP,
		open:   openRawTransport,
	}
}

func (c *icmpClient) Run(ctx context.Context, target string, opts *Options, r Reporter) (Result, error) {
	if opts == nil {
		o := DefaultOptions()
		opts = &o
	}
	if err := opts.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid traceroute options: %w", err)
	}
	if r == nil {
		r = nopReporter{}
	}

	tracer := trace.SpanFromContext(ctx).TracerProvider().Tracer("traceroute.icmpClient")
	ctx, sp := tracer.Start(ctx, "Run", trace.WithAttributes(
		attribute.String("traceroute.target.input", target),
		attribute.Int("traceroute.options.max_hops", opts.MaxTTL),
		attribute.Stringer("traceroute.options.timeout", opts.Timeout),
	))
	defer sp.End()
	log := logger.FromContext(ctx)

	dest, err := resolveDestination(ctx, c.lookup, target, opts.Family)
	if err != nil {
		return Result{}, wrapError(ctx, err, "failed to resolve target %s", target)
	}
	sp.SetAttributes(
		attribute.Stringer("traceroute.target.address", dest.Addr),
		attribute.Stringer("traceroute.target.family", dest.Family),
	)
	log = log.With("target", dest.String())
	ctx = logger.IntoContext(ctx, log)

	if err := r.Start(ctx, dest, *opts); err != nil {
		return Result{}, wrapError(ctx, err, "failed to start report")
	}

	s := newSession(dest, opts)
	h := &hopper{
		prober:     newProber(c.open, *opts),
		reporter:   r,
		otelTracer: tracer,
		opts:       *opts,
		sleep:      sleepContext,
	}
	log.DebugContext(ctx, "Starting ICMP trace", "identifier", s.id, "maxHops", s.maxTTL)

	res, runErr := h.run(ctx, s)
	logHops(ctx, res.Hops)
	sp.SetAttributes(
		attribute.Int("traceroute.result.hops", len(res.Hops)),
		attribute.Bool("traceroute.result.reached", res.Reached),
	)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		sp.SetStatus(codes.Error, "Traceroute aborted")
	}

	// The report is finished with the partial result on interruption,
	// so the context may already be done here.
	if err := r.Finish(context.WithoutCancel(ctx), res); err != nil {
		return res, errors.Join(runErr, wrapError(ctx, err, "failed to finish report"))
	}
	return res, runErr
}
