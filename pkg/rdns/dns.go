// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package rdns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/telekom/geotrace/internal/helper"
	"github.com/telekom/geotrace/internal/logger"
)

// ErrNoName is returned if the nameserver has no PTR record for an address.
var ErrNoName = errors.New("no ptr record")

const defaultTimeout = 2 * time.Second

// DNS sends PTR queries to a fixed nameserver.
type DNS struct {
	nameserver string
	network    string
	timeout    time.Duration
	retry      helper.RetryConfig
}

type Option func(*DNS)

// NetworkOption sets the transport of the queries, "udp" or "tcp".
func NetworkOption(network string) Option {
	return func(d *DNS) {
		d.network = network
	}
}

// TimeoutOption sets the timeout of a single query. Zero keeps the default.
func TimeoutOption(timeout time.Duration) Option {
	return func(d *DNS) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// RetryOption sets how failed queries are repeated.
func RetryOption(rc helper.RetryConfig) Option {
	return func(d *DNS) {
		d.retry = rc
	}
}

// NewDNS returns a [DNS] resolver querying the nameserver.
// The nameserver is an address with optional port, port 53 is used by default.
func NewDNS(nameserver string, opts ...Option) *DNS {
	if _, _, err := net.SplitHostPort(nameserver); err != nil {
		nameserver = net.JoinHostPort(strings.Trim(nameserver, "[]"), "53")
	}
	d := &DNS{network: "udp", timeout: defaultTimeout, nameserver: nameserver}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DNS) LookupAddr(ctx context.Context, addr netip.Addr) string {
	if !addr.IsValid() {
		return ""
	}
	lookup := helper.Retry(func(ctx context.Context) (string, error) {
		return d.lookupPTR(ctx, addr)
	}, d.retry)

	name, err := lookup(ctx)
	if err != nil {
		logger.FromContext(ctx).DebugContext(ctx, "Reverse lookup failed",
			"addr", addr,
			"nameserver", d.nameserver,
			"error", err,
		)
		return addr.String()
	}
	return name
}

// lookupPTR sends a single PTR query.
// Answers that will not change on retry are marked permanent.
func (d *DNS) lookupPTR(ctx context.Context, addr netip.Addr) (string, error) {
	arpa, err := dns.ReverseAddr(addr.String())
	if err != nil {
		return "", helper.Permanent(err)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	c := &dns.Client{
		Net:     d.network,
		Timeout: d.timeout,
	}
	m := new(dns.Msg)
	m.SetQuestion(arpa, dns.TypePTR)

	r, _, err := c.ExchangeContext(ctx, m, d.nameserver)
	if err != nil {
		return "", fmt.Errorf("failed to query %s: %w", d.nameserver, err)
	}
	switch r.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return "", helper.Permanent(fmt.Errorf("%w: %s", ErrNoName, arpa))
	default:
		return "", fmt.Errorf("failed to get a valid answer for %s: %s", arpa, dns.RcodeToString[r.Rcode])
	}

	for _, rr := range r.Answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			return strings.TrimSuffix(ptr.Ptr, "."), nil
		}
	}
	return "", helper.Permanent(fmt.Errorf("%w: %s", ErrNoName, arpa))
}
