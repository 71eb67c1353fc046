// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"net/netip"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSelf    = netip.MustParseAddr("192.0.2.10")
	testRouter  = netip.MustParseAddr("198.51.100.1")
	testTarget  = netip.MustParseAddr("203.0.113.7")
	testRouter6 = netip.MustParseAddr("2001:db8::1")
	testTarget6 = netip.MustParseAddr("2001:db8::7")
)

func TestPayload(t *testing.T) {
	tests := []struct {
		name string
		size int
		want []byte
	}{
		{"empty", 0, []byte{}},
		{"starts with A", 3, []byte("ABC")},
		{"default size", DefaultPacketSize, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Payload(tt.size)
			require.Len(t, got, tt.size)
			if tt.want != nil {
				assert.Equal(t, tt.want, got)
			}
			for i, b := range got {
				assert.Equal(t, byte((65+i)&0xff), b, "byte %d", i)
			}
		})
	}
}

func TestPayload_Wraps(t *testing.T) {
	got := Payload(300)
	assert.Equal(t, byte(0xff), got[190])
	assert.Equal(t, byte(0x00), got[191])
	assert.Equal(t, byte(0x01), got[192])
}

func TestEncodeEcho(t *testing.T) {
	tests := []struct {
		name     string
		family   Family
		wantType uint8
	}{
		{"ipv4 echo request", IPv4, 8},
		{"ipv6 echo request", IPv6, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkt := EncodeEcho(tt.family, 0x1234, 7, Payload(DefaultPacketSize))
			require.Len(t, pkt, icmpHeaderLen+DefaultPacketSize)

			h, err := parseICMPHeader(pkt)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, h.Type)
			assert.Equal(t, uint8(0), h.Code)
			assert.Equal(t, uint16(0x1234), h.ID)
			assert.Equal(t, uint16(7), h.Seq)
			assert.True(t, VerifyChecksum(pkt), "encoded echo request must carry a valid checksum")
			assert.Equal(t, Payload(DefaultPacketSize), pkt[icmpHeaderLen:])
		})
	}
}

func TestDecodeReply_IPv4(t *testing.T) {
	request := EncodeEcho(IPv4, 0x1234, 7, Payload(DefaultPacketSize))
	buf := ipv4Packet(t, testTarget, testSelf, echoReply(IPv4, request))

	r, err := DecodeReply(IPv4, buf)
	require.NoError(t, err)

	require.NotNil(t, r.IP)
	assert.Equal(t, 4, r.IP.Version())
	assert.Equal(t, 20, r.IP.Len())
	assert.Equal(t, uint8(1), r.IP.Protocol)
	assert.Equal(t, testTarget, r.IP.Src)
	assert.Equal(t, testSelf, r.IP.Dst)
	assert.Equal(t, testTarget, r.Source)

	want := ICMPHeader{Type: 0, Code: 0, ID: 0x1234, Seq: 7}
	if diff := cmp.Diff(want, r.ICMP, cmp.FilterPath(func(p cmp.Path) bool {
		return p.Last().String() == ".Checksum"
	}, cmp.Ignore())); diff != "" {
		t.Errorf("DecodeReply() header mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, r.IsEchoReply())
	assert.False(t, r.IsTimeExceeded())
	assert.True(t, r.Matches(0x1234, 7))
	assert.False(t, r.Matches(0x1234, 8))
	assert.False(t, r.Matches(0x4321, 7))
}

func TestDecodeReply_IPv4Options(t *testing.T) {
	request := EncodeEcho(IPv4, 1, 2, nil)
	base := ipv4Packet(t, testTarget, testSelf, echoReply(IPv4, request))

	// Grow the header by 8 bytes of options, the message must start after them.
	buf := make([]byte, 0, len(base)+8)
	buf = append(buf, base[:20]...)
	buf = append(buf, make([]byte, 8)...)
	buf = append(buf, base[20:]...)
	buf[0] = 0x47

	r, err := DecodeReply(IPv4, buf)
	require.NoError(t, err)
	assert.Equal(t, 28, r.IP.Len())
	assert.True(t, r.Matches(1, 2))
}

func TestDecodeReply_IPv6(t *testing.T) {
	request := EncodeEcho(IPv6, 0xabcd, 42, Payload(16))

	r, err := DecodeReply(IPv6, echoReply(IPv6, request))
	require.NoError(t, err)

	assert.Nil(t, r.IP)
	assert.False(t, r.Source.IsValid(), "the source of ICMPv6 replies is taken from the socket address")
	assert.Equal(t, uint8(129), r.ICMP.Type)
	assert.True(t, r.IsEchoReply())
	assert.True(t, r.Matches(0xabcd, 42))
}

func TestDecodeReply_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		family Family
		buf    []byte
	}{
		{"empty ipv4 buffer", IPv4, nil},
		{"truncated ipv4 header", IPv4, make([]byte, 19)},
		{"ip header without icmp message", IPv4, ipv4Packet(t, testTarget, testSelf, nil)},
		{"truncated icmp header", IPv4, ipv4Packet(t, testTarget, testSelf, []byte{0, 0, 0})},
		{"wrong ip version", IPv4, func() []byte {
			b := ipv4Packet(t, testTarget, testSelf, make([]byte, icmpHeaderLen))
			b[0] = 0x65
			return b
		}()},
		{"ihl shorter than minimum", IPv4, func() []byte {
			b := ipv4Packet(t, testTarget, testSelf, make([]byte, icmpHeaderLen))
			b[0] = 0x44
			return b
		}()},
		{"ihl longer than buffer", IPv4, func() []byte {
			b := ipv4Packet(t, testTarget, testSelf, nil)
			b[0] = 0x4f
			return b
		}()},
		{"truncated icmpv6 header", IPv6, make([]byte, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeReply(tt.family, tt.buf)
			assert.ErrorIs(t, err, ErrMalformedReply)
		})
	}
}

func TestReply_MatchesTimeExceeded(t *testing.T) {
	request4 := EncodeEcho(IPv4, 0x1234, 9, Payload(DefaultPacketSize))
	request6 := EncodeEcho(IPv6, 0x1234, 9, Payload(DefaultPacketSize))

	tests := []struct {
		name   string
		family Family
		buf    []byte
		id     uint16
		seq    uint16
		want   bool
	}{
		{
			name:   "ipv4 quoted echo matches",
			family: IPv4,
			buf:    ipv4Packet(t, testRouter, testSelf, timeExceededV4(t, testSelf, testTarget, request4)),
			id:     0x1234, seq: 9, want: true,
		},
		{
			name:   "ipv4 quoted echo with other seq",
			family: IPv4,
			buf:    ipv4Packet(t, testRouter, testSelf, timeExceededV4(t, testSelf, testTarget, request4)),
			id:     0x1234, seq: 10, want: false,
		},
		{
			name:   "ipv4 quoted echo with other id",
			family: IPv4,
			buf:    ipv4Packet(t, testRouter, testSelf, timeExceededV4(t, testSelf, testTarget, request4)),
			id:     0x9999, seq: 9, want: false,
		},
		{
			name:   "ipv4 quote truncated to icmp header",
			family: IPv4,
			buf:    ipv4Packet(t, testRouter, testSelf, timeExceededV4(t, testSelf, testTarget, request4[:icmpHeaderLen])),
			id:     0x1234, seq: 9, want: true,
		},
		{
			name:   "ipv4 quote without icmp header",
			family: IPv4,
			buf:    ipv4Packet(t, testRouter, testSelf, timeExceededV4(t, testSelf, testTarget, request4[:4])),
			id:     0x1234, seq: 9, want: false,
		},
		{
			name:   "ipv6 quoted echo matches",
			family: IPv6,
			buf:    timeExceededV6(t, request6),
			id:     0x1234, seq: 9, want: true,
		},
		{
			name:   "ipv6 quoted echo with other seq",
			family: IPv6,
			buf:    timeExceededV6(t, request6),
			id:     0x1234, seq: 1, want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := DecodeReply(tt.family, tt.buf)
			require.NoError(t, err)
			assert.True(t, r.IsTimeExceeded())
			assert.False(t, r.IsEchoReply())
			assert.Equal(t, tt.want, r.Matches(tt.id, tt.seq))
		})
	}
}

func TestReply_MatchesIgnoresOtherTypes(t *testing.T) {
	// Our own echo request looped back on the local host.
	request := EncodeEcho(IPv4, 0x1234, 1, nil)
	r, err := DecodeReply(IPv4, ipv4Packet(t, testSelf, testSelf, request))
	require.NoError(t, err)

	assert.False(t, r.IsEchoReply())
	assert.False(t, r.IsTimeExceeded())
	assert.False(t, r.Matches(0x1234, 1))
}

func TestReply_SourceIsRouter(t *testing.T) {
	request := EncodeEcho(IPv4, 5, 5, nil)
	r, err := DecodeReply(IPv4, ipv4Packet(t, testRouter, testSelf, timeExceededV4(t, testSelf, testTarget, request)))
	require.NoError(t, err)

	assert.Equal(t, testRouter, r.Source, "the source is the router and not the quoted destination")
}
