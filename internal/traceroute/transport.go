// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/sys/unix"
)

// mtuSize is the size of the receive buffer of a transport.
const mtuSize = 1500

// Transport performs a single timed echo exchange over a raw socket.
// A transport is opened for exactly one probe and closed afterwards,
// so neither the hop limit nor unread replies leak into the next probe.
//
//go:generate go tool moq -out transport_moq.go . Transport
type Transport interface {
	// SetHopLimit sets the TTL (IPv4) or unicast hop limit (IPv6) of outgoing packets.
	SetHopLimit(ttl int) error
	// Send transmits the packet to the destination and returns the send time.
	Send(packet []byte, dst Destination) (time.Time, error)
	// Receive waits for the next ICMP message until the timeout elapses.
	// It returns [ErrProbeTimeout] if nothing arrived in time.
	Receive(timeout time.Duration) (Reply, error)
	// Close releases the socket.
	Close() error
}

// openFunc opens a [Transport] for the given family.
type openFunc func(f Family) (Transport, error)

// rawTransport is a [Transport] on top of a SOCK_RAW socket.
// It requires NET_RAW capabilities to be created successfully.
type rawTransport struct {
	fd     int
	family Family
	buf    []byte
}

// openRawTransport creates a raw ICMP (IPv4) or ICMPv6 (IPv6) socket.
// It returns [ErrPermissionDenied] if the process lacks the privilege to do so.
func openRawTransport(f Family) (Transport, error) {
	domain := unix.AF_INET
	if f == IPv6 {
		domain = unix.AF_INET6
	}

	fd, err := unix.Socket(domain, unix.SOCK_RAW, f.Protocol())
	if err != nil {
		if errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES) {
			return nil, ErrPermissionDenied
		}
		return nil, fmt.Errorf("%w: failed to create %s raw socket: %w", ErrSocket, f, err)
	}
	unix.CloseOnExec(fd)

	return &rawTransport{
		fd:     fd,
		family: f,
		buf:    make([]byte, mtuSize),
	}, nil
}

func (t *rawTransport) SetHopLimit(ttl int) error {
	if t.family == IPv6 {
		return unix.SetsockoptInt(t.fd, unix.IPPROTO_IPV6, unix.IPV6_UNICAST_HOPS, ttl)
	}
	return unix.SetsockoptInt(t.fd, unix.IPPROTO_IP, unix.IP_TTL, ttl)
}

func (t *rawTransport) Send(packet []byte, dst Destination) (time.Time, error) {
	sa, err := sockaddrFromDestination(dst)
	if err != nil {
		return time.Time{}, err
	}

	sent := time.Now()
	if err := unix.Sendto(t.fd, packet, 0, sa); err != nil {
		return sent, fmt.Errorf("failed to send echo request to %s: %w", dst.Addr, err)
	}
	return sent, nil
}

func (t *rawTransport) Receive(timeout time.Duration) (Reply, error) {
	deadline := time.Now().Add(timeout)
	for {
		wait := time.Until(deadline)
		if wait <= 0 {
			return Reply{}, ErrProbeTimeout
		}

		ready, err := t.poll(wait)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return Reply{}, fmt.Errorf("failed to wait for reply: %w", err)
		}
		if !ready {
			return Reply{}, ErrProbeTimeout
		}

		n, from, err := unix.Recvfrom(t.fd, t.buf, unix.MSG_DONTWAIT)
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return Reply{}, fmt.Errorf("failed to read from raw socket: %w", err)
		}
		received := time.Now()

		reply, err := DecodeReply(t.family, t.buf[:n])
		if err != nil {
			return Reply{}, err
		}
		if t.family == IPv6 {
			reply.Source = addrFromSockaddr(from)
		}
		reply.ReceivedAt = received
		return reply, nil
	}
}

// poll blocks until the socket is readable or the wait time elapsed.
func (t *rawTransport) poll(wait time.Duration) (bool, error) {
	// Round up so sub-millisecond waits do not turn into a non-blocking poll.
	ms := int((wait + time.Millisecond - 1) / time.Millisecond)
	fds := []unix.PollFd{{Fd: int32(t.fd), Events: unix.POLLIN}} // #nosec G115 // file descriptors fit into int32
	n, err := unix.Poll(fds, ms)
	if err != nil {
		return false, err
	}
	return n > 0 && fds[0].Revents&unix.POLLIN != 0, nil
}

func (t *rawTransport) Close() error {
	return unix.Close(t.fd)
}

// sockaddrFromDestination converts the destination into a socket address of its family.
func sockaddrFromDestination(dst Destination) (unix.Sockaddr, error) {
	addr := dst.Addr.Unmap()
	switch {
	case dst.Family == IPv4 && addr.Is4():
		return &unix.SockaddrInet4{Addr: addr.As4()}, nil
	case dst.Family == IPv6 && addr.Is6():
		sa := &unix.SockaddrInet6{Addr: addr.As16()}
		if zone := addr.Zone(); zone != "" {
			ifi, err := net.InterfaceByName(zone)
			if err != nil {
				return nil, fmt.Errorf("invalid ipv6 zone %q: %w", zone, err)
			}
			sa.ZoneId = uint32(ifi.Index) // #nosec G115 // interface indexes are positive
		}
		return sa, nil
	default:
		return nil, fmt.Errorf("address %s does not match family %s", dst.Addr, dst.Family)
	}
}
