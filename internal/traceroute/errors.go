// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"errors"
)

var (
	// ErrHostNotFound is returned when the destination cannot be resolved.
	ErrHostNotFound = errors.New("unknown host")
	// ErrPermissionDenied is returned when a raw socket cannot be opened due to lack of NET_RAW capabilities.
	// ICMP messages can only be sent from a process running as root or with CAP_NET_RAW.
	ErrPermissionDenied = errors.New("operation not permitted: raw ICMP sockets require root or CAP_NET_RAW")
	// ErrSocket is returned when a raw socket cannot be created or configured.
	ErrSocket = errors.New("socket error")
	// ErrProbeTimeout is returned when no matching reply arrived within the probe timeout.
	ErrProbeTimeout = errors.New("probe timed out")
	// ErrMalformedReply is returned when a received packet cannot be decoded.
	ErrMalformedReply = errors.New("malformed reply")
)

// isFatal reports whether the error aborts the whole traceroute.
func isFatal(err error) bool {
	return errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrSocket)
}

// isMiss checks if the error is one of the common and expected
// reasons for a probe to go unanswered.
func isMiss(err error) bool {
	return errors.Is(err, ErrProbeTimeout) ||
		errors.Is(err, ErrMalformedReply)
}
