// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package rdns

import (
	"context"
	"net"
	"net/netip"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/geotrace/internal/helper"
)

// startServer runs a nameserver on a random local port answering PTR queries from names.
// Queries for addresses listed in failing are answered with SERVFAIL the given number of times.
func startServer(t *testing.T, names map[string]string, failing map[string]int) (string, *atomic.Int32) {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	var (
		queries atomic.Int32
		mu      sync.Mutex
	)
	started := make(chan struct{})
	srv := &dns.Server{
		PacketConn:        pc,
		NotifyStartedFunc: func() { close(started) },
		Handler: dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
			queries.Add(1)
			resp := new(dns.Msg)
			resp.SetReply(req)

			mu.Lock()
			defer mu.Unlock()
			q := req.Question[0]
			if n := failing[q.Name]; n > 0 {
				failing[q.Name] = n - 1
				resp.Rcode = dns.RcodeServerFailure
				_ = w.WriteMsg(resp)
				return
			}
			name, ok := names[q.Name]
			if !ok {
				resp.Rcode = dns.RcodeNameError
				_ = w.WriteMsg(resp)
				return
			}
			rr, err := dns.NewRR(q.Name + " 300 IN PTR " + name)
			if err == nil {
				resp.Answer = append(resp.Answer, rr)
			}
			_ = w.WriteMsg(resp)
		}),
	}
	go func() { _ = srv.ActivateAndServe() }()
	<-started
	t.Cleanup(func() { _ = srv.Shutdown() })

	return pc.LocalAddr().String(), &queries
}

func arpa(t *testing.T, addr string) string {
	t.Helper()
	name, err := dns.ReverseAddr(addr)
	require.NoError(t, err)
	return name
}

func TestDNS_LookupAddr(t *testing.T) {
	names := map[string]string{
		arpa(t, "192.0.2.1"):   "router1.example.net.",
		arpa(t, "2001:db8::1"): "router1.v6.example.net.",
		arpa(t, "192.0.2.2"):   "flaky.example.net.",
	}
	failing := map[string]int{arpa(t, "192.0.2.2"): 1}
	ns, _ := startServer(t, names, failing)
	r := NewDNS(ns, TimeoutOption(time.Second), RetryOption(helper.RetryConfig{Count: 2, Delay: time.Millisecond}))

	tests := []struct {
		name string
		addr netip.Addr
		want string
	}{
		{"ipv4 address with name", netip.MustParseAddr("192.0.2.1"), "router1.example.net"},
		{"ipv6 address with name", netip.MustParseAddr("2001:db8::1"), "router1.v6.example.net"},
		{"transient failure is retried", netip.MustParseAddr("192.0.2.2"), "flaky.example.net"},
		{"address without name", netip.MustParseAddr("192.0.2.99"), "192.0.2.99"},
		{"invalid address", netip.Addr{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.LookupAddr(context.Background(), tt.addr))
		})
	}
}

func TestDNS_LookupAddr_NoNameIsNotRetried(t *testing.T) {
	ns, queries := startServer(t, map[string]string{}, map[string]int{})
	r := NewDNS(ns, RetryOption(helper.RetryConfig{Count: 3, Delay: time.Millisecond}))

	assert.Equal(t, "198.51.100.1", r.LookupAddr(context.Background(), netip.MustParseAddr("198.51.100.1")))
	assert.Equal(t, int32(1), queries.Load())
}

func TestDNS_LookupAddr_Unreachable(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = pc.Close() }()

	// Nobody answers on the socket, the query times out.
	r := NewDNS(pc.LocalAddr().String(), TimeoutOption(50*time.Millisecond))
	assert.Equal(t, "192.0.2.1", r.LookupAddr(context.Background(), netip.MustParseAddr("192.0.2.1")))
}

func TestNewDNS_Nameserver(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"192.0.2.53", "192.0.2.53:53"},
		{"192.0.2.53:5353", "192.0.2.53:5353"},
		{"2001:db8::53", "[2001:db8::53]:53"},
		{"[2001:db8::53]:5353", "[2001:db8::53]:5353"},
		{"ns.example.net", "ns.example.net:53"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d := NewDNS(tt.in, NetworkOption("tcp"))
			assert.Equal(t, tt.want, d.nameserver)
			assert.Equal(t, "tcp", d.network)
			assert.Equal(t, defaultTimeout, d.timeout)
		})
	}
}
