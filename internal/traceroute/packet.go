// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"slices"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

const (
	// icmpHeaderLen is the length of an ICMP echo header.
	icmpHeaderLen = 8
	// payloadBase is the first byte of the echo payload pattern.
	payloadBase = 'A'
)

// ICMPHeader is the 8 byte header of an ICMP echo message.
// For other message types ID and Seq hold the first four bytes of the body.
type ICMPHeader struct {
	Type     uint8
	Code     uint8
	Checksum uint16
	ID       uint16
	Seq      uint16
}

func (h ICMPHeader) marshal(b []byte) {
	b[0] = h.Type
	b[1] = h.Code
	binary.BigEndian.PutUint16(b[2:4], h.Checksum)
	binary.BigEndian.PutUint16(b[4:6], h.ID)
	binary.BigEndian.PutUint16(b[6:8], h.Seq)
}

func parseICMPHeader(b []byte) (ICMPHeader, error) {
	if len(b) < icmpHeaderLen {
		return ICMPHeader{}, fmt.Errorf("%w: icmp header too short: %d bytes", ErrMalformedReply, len(b))
	}
	return ICMPHeader{
		Type:     b[0],
		Code:     b[1],
		Checksum: binary.BigEndian.Uint16(b[2:4]),
		ID:       binary.BigEndian.Uint16(b[4:6]),
		Seq:      binary.BigEndian.Uint16(b[6:8]),
	}, nil
}

// IPv4Header is the fixed part of an IPv4 header.
type IPv4Header struct {
	VersionIHL      uint8
	TOS             uint8
	TotalLength     uint16
	ID              uint16
	FlagsFragOffset uint16
	TTL             uint8
	Protocol        uint8
	Checksum        uint16
	Src             netip.Addr
	Dst             netip.Addr
}

// Version returns the IP version of the header.
func (h IPv4Header) Version() int {
	return int(h.VersionIHL >> 4)
}

// Len returns the header length in bytes, including options.
func (h IPv4Header) Len() int {
	return int(h.VersionIHL&0x0f) << 2
}

func parseIPv4Header(b []byte) (IPv4Header, error) {
	if len(b) < ipv4.HeaderLen {
		return IPv4Header{}, fmt.Errorf("%w: ip header too short: %d bytes", ErrMalformedReply, len(b))
	}
	h := IPv4Header{
		VersionIHL:      b[0],
		TOS:             b[1],
		TotalLength:     binary.BigEndian.Uint16(b[2:4]),
		ID:              binary.BigEndian.Uint16(b[4:6]),
		FlagsFragOffset: binary.BigEndian.Uint16(b[6:8]),
		TTL:             b[8],
		Protocol:        b[9],
		Checksum:        binary.BigEndian.Uint16(b[10:12]),
		Src:             netip.AddrFrom4([4]byte(b[12:16])),
		Dst:             netip.AddrFrom4([4]byte(b[16:20])),
	}
	if h.Version() != 4 {
		return IPv4Header{}, fmt.Errorf("%w: unexpected ip version %d", ErrMalformedReply, h.Version())
	}
	if h.Len() < ipv4.HeaderLen {
		return IPv4Header{}, fmt.Errorf("%w: invalid ip header length %d", ErrMalformedReply, h.Len())
	}
	return h, nil
}

// Payload returns the deterministic echo payload of the given size.
func Payload(size int) []byte {
	b := make([]byte, size)
	for i := range b {
		b[i] = byte((payloadBase + i) & 0xff)
	}
	return b
}

// EncodeEcho builds an ICMP echo request for the family.
// The checksum is computed over header and payload with the checksum field zeroed.
func EncodeEcho(f Family, id, seq uint16, payload []byte) []byte {
	b := make([]byte, icmpHeaderLen+len(payload))
	h := ICMPHeader{Type: f.echoRequest(), ID: id, Seq: seq}
	h.marshal(b)
	copy(b[icmpHeaderLen:], payload)

	h.Checksum = Checksum(b)
	h.marshal(b)
	return b
}

// Reply is a decoded ICMP message received on a raw socket.
type Reply struct {
	Family Family
	// IP is the IPv4 header of the reply. It is nil for IPv6
	// since the kernel strips the header on ICMPv6 raw sockets.
	IP *IPv4Header
	// ICMP is the header of the ICMP message.
	ICMP ICMPHeader
	// Source is the address of the device that sent the reply.
	Source netip.Addr
	// ReceivedAt is the time the reply was read from the socket.
	ReceivedAt time.Time
	// message is the full ICMP message, header included.
	message []byte
}

// DecodeReply decodes a buffer read from a raw socket of the given family.
// IPv4 buffers carry the IP header, IPv6 buffers start with the ICMPv6 header.
func DecodeReply(f Family, b []byte) (Reply, error) {
	r := Reply{Family: f}
	offset := 0
	if f == IPv4 {
		ip, err := parseIPv4Header(b)
		if err != nil {
			return Reply{}, err
		}
		r.IP = &ip
		r.Source = ip.Src
		offset = ip.Len()
		if len(b) < offset {
			return Reply{}, fmt.Errorf("%w: packet shorter than ip header: %d bytes", ErrMalformedReply, len(b))
		}
	}

	h, err := parseICMPHeader(b[offset:])
	if err != nil {
		return Reply{}, err
	}
	r.ICMP = h
	r.message = slices.Clone(b[offset:])
	return r, nil
}

// IsEchoReply reports whether the destination itself replied.
func (r Reply) IsEchoReply() bool {
	return r.ICMP.Type == r.Family.echoReply()
}

// IsTimeExceeded reports whether a router on the path discarded the probe.
func (r Reply) IsTimeExceeded() bool {
	return r.ICMP.Type == r.Family.timeExceeded()
}

// Matches reports whether the reply belongs to the echo request with the given id and seq.
// Time exceeded messages are matched by the echo request they quote.
func (r Reply) Matches(id, seq uint16) bool {
	switch {
	case r.IsEchoReply():
		return r.ICMP.ID == id && r.ICMP.Seq == seq
	case r.IsTimeExceeded():
		quoted, ok := r.quotedEcho()
		return ok && quoted.ID == id && quoted.Seq == seq
	default:
		return false
	}
}

// quotedEcho extracts the header of the echo request quoted in a time exceeded message.
func (r Reply) quotedEcho() (ICMPHeader, bool) {
	msg, err := icmp.ParseMessage(r.Family.Protocol(), r.message)
	if err != nil {
		return ICMPHeader{}, false
	}
	te, ok := msg.Body.(*icmp.TimeExceeded)
	if !ok {
		return ICMPHeader{}, false
	}

	offset := ipv6.HeaderLen
	if r.Family == IPv4 {
		h, err := ipv4.ParseHeader(te.Data)
		if err != nil {
			return ICMPHeader{}, false
		}
		offset = h.Len
	}
	if len(te.Data) < offset {
		return ICMPHeader{}, false
	}

	quoted, err := parseICMPHeader(te.Data[offset:])
	if err != nil || quoted.Type != r.Family.echoRequest() {
		return ICMPHeader{}, false
	}
	return quoted, true
}
