// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import "context"

// Reporter consumes the hops of a traceroute as soon as they are completed.
//
//go:generate go tool moq -out reporter_moq.go . Reporter
type Reporter interface {
	// Start is called once the destination is resolved, before the first probe is sent.
	Start(ctx context.Context, dest Destination, opts Options) error
	// Report is called for every completed hop in TTL order.
	Report(ctx context.Context, hop Hop) error
	// Finish is called with the final result, also if the traceroute was interrupted.
	Finish(ctx context.Context, res Result) error
}

// nopReporter discards everything.
type nopReporter struct{}

func (nopReporter) Start(context.Context, Destination, Options) error { return nil }
func (nopReporter) Report(context.Context, Hop) error                 { return nil }
func (nopReporter) Finish(context.Context, Result) error              { return nil }
