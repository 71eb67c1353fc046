// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"encoding/binary"
	"net/netip"
	"slices"
	"sync"
	"testing"
	"time"
)

// ipv4Packet prepends a 20 byte IPv4 header to the ICMP message,
// the way a raw IPv4 socket hands packets to user space.
func ipv4Packet(t testing.TB, src, dst netip.Addr, msg []byte) []byte {
	t.Helper()
	b := make([]byte, 20+len(msg))
	b[0] = 0x45
	binary.BigEndian.PutUint16(b[2:4], uint16(len(b))) // #nosec G115 // test packets are small
	binary.BigEndian.PutUint16(b[4:6], 0xbeef)
	b[8] = 64
	b[9] = 1
	s, d := src.As4(), dst.As4()
	copy(b[12:16], s[:])
	copy(b[16:20], d[:])
	binary.BigEndian.PutUint16(b[10:12], Checksum(b[:20]))
	copy(b[20:], msg)
	return b
}

// timeExceededV4 builds an ICMP time exceeded message quoting the given echo request.
func timeExceededV4(t testing.TB, self, dst netip.Addr, request []byte) []byte {
	t.Helper()
	quoted := ipv4Packet(t, self, dst, request)
	msg := make([]byte, icmpHeaderLen+len(quoted))
	msg[0] = 11
	copy(msg[icmpHeaderLen:], quoted)
	binary.BigEndian.PutUint16(msg[2:4], Checksum(msg))
	return msg
}

// timeExceededV6 builds an ICMPv6 time exceeded message quoting the given echo request.
func timeExceededV6(t testing.TB, request []byte) []byte {
	t.Helper()
	quoted := make([]byte, 40+len(request))
	quoted[0] = 0x60
	binary.BigEndian.PutUint16(quoted[4:6], uint16(len(request))) // #nosec G115 // test packets are small
	quoted[6] = 58
	quoted[7] = 1
	copy(quoted[40:], request)

	msg := make([]byte, icmpHeaderLen+len(quoted))
	msg[0] = 3
	copy(msg[icmpHeaderLen:], quoted)
	return msg
}

// echoReply turns an echo request into the matching echo reply.
func echoReply(f Family, request []byte) []byte {
	b := append([]byte(nil), request...)
	b[0] = f.echoReply()
	b[2], b[3] = 0, 0
	binary.BigEndian.PutUint16(b[2:4], Checksum(b))
	return b
}

// fakeNetwork simulates the path to a destination on top of [TransportMock].
// The probe with TTL n is answered with a time exceeded message by routers[n-1],
// an invalid router address drops the probe. Probes with a TTL beyond the
// routers reach the destination and are answered with an echo reply.
type fakeNetwork struct {
	t       testing.TB
	family  Family
	self    netip.Addr
	dest    netip.Addr
	routers []netip.Addr
	// drop, if set, decides whether the probe with the given TTL and sequence is lost.
	drop func(ttl int, seq uint16) bool
	// stray, if set, is delivered before the reply of every probe.
	stray func() Reply

	mu         sync.Mutex
	transports []*TransportMock
}

func newFakeNetwork(t testing.TB, f Family, routers ...netip.Addr) *fakeNetwork {
	n := &fakeNetwork{t: t, family: f, self: testSelf, dest: testTarget, routers: routers}
	if f == IPv6 {
		n.self = netip.MustParseAddr("2001:db8::10")
		n.dest = testTarget6
	}
	return n
}

// open is an [openFunc] returning a fresh transport of the network.
func (n *fakeNetwork) open(_ Family) (Transport, error) {
	var (
		ttl     int
		request []byte
		pending []Reply
	)
	tm := &TransportMock{
		SetHopLimitFunc: func(l int) error {
			ttl = l
			return nil
		},
		SendFunc: func(packet []byte, _ Destination) (time.Time, error) {
			request = slices.Clone(packet)
			if n.stray != nil {
				pending = append(pending, n.stray())
			}
			if r, ok := n.answer(ttl, request); ok {
				pending = append(pending, r)
			}
			return time.Now(), nil
		},
		ReceiveFunc: func(time.Duration) (Reply, error) {
			if len(pending) == 0 {
				return Reply{}, ErrProbeTimeout
			}
			r := pending[0]
			pending = pending[1:]
			r.ReceivedAt = time.Now()
			return r, nil
		},
		CloseFunc: func() error { return nil },
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.transports = append(n.transports, tm)
	return tm, nil
}

// answer builds the reply the network sends for an echo request.
func (n *fakeNetwork) answer(ttl int, request []byte) (Reply, bool) {
	n.t.Helper()
	h, err := parseICMPHeader(request)
	if err != nil {
		n.t.Fatalf("invalid echo request: %v", err)
	}
	if n.drop != nil && n.drop(ttl, h.Seq) {
		return Reply{}, false
	}

	src, msg := n.dest, echoReply(n.family, request)
	if ttl <= len(n.routers) {
		src = n.routers[ttl-1]
		if !src.IsValid() {
			return Reply{}, false
		}
		if n.family == IPv6 {
			msg = timeExceededV6(n.t, request)
		} else {
			msg = timeExceededV4(n.t, n.self, n.dest, request)
		}
	}

	buf := msg
	if n.family == IPv4 {
		buf = ipv4Packet(n.t, src, n.self, msg)
	}
	r, err := DecodeReply(n.family, buf)
	if err != nil {
		n.t.Fatalf("invalid reply: %v", err)
	}
	r.Source = src
	return r, true
}

// opened returns the transports opened so far.
func (n *fakeNetwork) opened() []*TransportMock {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.transports)
}
