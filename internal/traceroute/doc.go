// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package traceroute discovers the path to a destination hop by hop by
// sending ICMP echo requests with increasing TTL (IPv4) or hop limit (IPv6).
//
// It exposes a [Client] for running a traceroute against a target with
// configurable [Options]. Every completed [Hop] is handed to a [Reporter]
// right away, so results can be printed while the trace is still running.
//
// Under the hood it opens a raw ICMP socket per probe, sets the TTL via
// x/sys/unix, waits for the reply with poll(2) and decodes the IP and ICMP
// headers itself. Probes are strictly sequential: one probe in flight, one
// hop at a time. Replies are matched by the session's identifier and the
// probe's sequence number, time exceeded messages by the echo request they quote.
//
// Key features:
//   - Internet checksum and echo request encoding without external tooling
//   - IPv4 and IPv6, with the IP header parsed for IPv4 replies and the source
//     taken from the peer address for IPv6 replies
//   - A fixed number of probes per hop, each with its own timeout
//   - Cooperative cancellation between hops, partial results stay valid
//   - Optional pacing of hops answering from the same address as the previous hop
//   - OpenTelemetry spans per run and hop, with events for every probe
//   - Fully mockable internals (Transport, hopProber, Reporter, Client) for unit testing
//
// Typical usage:
//
//	client := traceroute.NewClient()
//	opts   := traceroute.DefaultOptions()
//	res, err := client.Run(ctx, "example.com", &opts, reporter)
//	// res.Hops holds one Hop per TTL, res.Reached tells if the destination replied
//
// Opening raw sockets requires root or the CAP_NET_RAW capability;
// [ErrPermissionDenied] is returned otherwise.
package traceroute
