// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"fmt"
	"time"

	"github.com/telekom/geotrace/internal/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// hopProber probes a single TTL of a session.
//
//go:generate go tool moq -out prober_moq.go . hopProber
type hopProber interface {
	// probeHop sends the configured number of probes with the given TTL.
	// Only fatal errors are returned, missed probes are recorded on the hop.
	probeHop(ctx context.Context, s *Session, ttl int) (Hop, error)
}

// prober sends the probes of a hop one after another.
// Replies are told apart by their sequence number, so there is
// never more than one probe in flight.
type prober struct {
	open    openFunc
	sleep   func(time.Duration)
	opts    Options
	payload []byte
}

func newProber(open openFunc, opts Options) *prober {
	return &prober{
		open:    open,
		sleep:   time.Sleep,
		opts:    opts,
		payload: Payload(opts.PacketSize),
	}
}

func (p *prober) probeHop(ctx context.Context, s *Session, ttl int) (Hop, error) {
	span := trace.SpanFromContext(ctx)
	hop := Hop{TTL: ttl, Probes: make([]Probe, 0, p.opts.Probes)}

	for i := range p.opts.Probes {
		if i > 0 && p.opts.ProbeInterval > 0 {
			p.sleep(p.opts.ProbeInterval)
		}

		probe, reply, err := p.probe(ctx, s, ttl)
		if err != nil {
			return hop, err
		}
		hop.Probes = append(hop.Probes, probe)

		if !probe.Success() {
			span.AddEvent("Probe missed", trace.WithAttributes(
				attribute.Int("traceroute.probe.seq", int(probe.Seq)),
				attribute.String("traceroute.probe.error", probe.Err.Error()),
			))
			continue
		}
		span.AddEvent("Probe answered", trace.WithAttributes(
			attribute.Int("traceroute.probe.seq", int(probe.Seq)),
			attribute.Stringer("traceroute.probe.source", reply.Source),
			attribute.Stringer("traceroute.probe.delay", probe.Delay),
		))

		if !hop.Addr.IsValid() {
			hop.Addr = reply.Source
		}
		if reply.IsEchoReply() {
			hop.Terminal = true
		}
	}
	return hop, nil
}

// probe runs one echo exchange on a freshly opened transport.
// The returned error is only set if the whole traceroute has to be aborted.
func (p *prober) probe(ctx context.Context, s *Session, ttl int) (Probe, Reply, error) {
	log := logger.FromContext(ctx).With("ttl", ttl)
	pr := Probe{ID: s.id, Seq: s.nextSeq()}

	t, err := p.open(s.dest.Family)
	if err != nil {
		if !isFatal(err) {
			err = fmt.Errorf("%w: %w", ErrSocket, err)
		}
		return pr, Reply{}, err
	}
	defer func() {
		if cErr := t.Close(); cErr != nil {
			log.WarnContext(ctx, "Failed to close transport", "error", cErr)
		}
	}()

	if err := t.SetHopLimit(ttl); err != nil {
		return pr, Reply{}, fmt.Errorf("%w: failed to set hop limit %d: %w", ErrSocket, ttl, err)
	}

	pkt := EncodeEcho(s.dest.Family, pr.ID, pr.Seq, p.payload)
	pr.SentAt, err = t.Send(pkt, s.dest)
	if err != nil {
		log.DebugContext(ctx, "Failed to send probe", "seq", pr.Seq, "error", err)
		pr.Err = err
		return pr, Reply{}, nil
	}

	deadline := pr.SentAt.Add(p.opts.Timeout)
	for {
		wait := time.Until(deadline)
		if wait <= 0 {
			pr.Err = ErrProbeTimeout
			return pr, Reply{}, nil
		}

		reply, err := t.Receive(wait)
		if err != nil {
			if !isMiss(err) {
				log.DebugContext(ctx, "Failed to receive reply", "seq", pr.Seq, "error", err)
			}
			pr.Err = err
			return pr, Reply{}, nil
		}

		// Raw sockets see every ICMP message of the host,
		// anything not answering this very probe is ignored.
		if !reply.Matches(pr.ID, pr.Seq) {
			log.DebugContext(ctx, "Ignoring unrelated ICMP message",
				"type", reply.ICMP.Type,
				"source", reply.Source,
				"seq", pr.Seq,
			)
			continue
		}

		if reply.ReceivedAt.After(deadline) {
			pr.Err = ErrProbeTimeout
			return pr, Reply{}, nil
		}

		pr.ReceivedAt = reply.ReceivedAt
		pr.Delay = max(pr.ReceivedAt.Sub(pr.SentAt), 0)
		log.DebugContext(ctx, "Received reply",
			"seq", pr.Seq,
			"source", reply.Source,
			"type", reply.ICMP.Type,
			"delay", pr.Delay,
		)
		return pr, reply, nil
	}
}
