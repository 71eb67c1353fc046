// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package rdns

import (
	"context"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want any
	}{
		{"disabled", Config{}, Disabled{}},
		{"system resolver", Config{Enabled: true}, &Cache{}},
		{"nameserver", Config{Enabled: true, Nameserver: "192.0.2.53", Timeout: time.Second}, &Cache{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.IsType(t, tt.want, New(tt.cfg))
		})
	}

	c, ok := New(Config{Enabled: true, Nameserver: "192.0.2.53"}).(*Cache)
	if assert.True(t, ok) {
		assert.IsType(t, &DNS{}, c.next)
	}
}

func TestDisabled(t *testing.T) {
	assert.Equal(t, "192.0.2.1", Disabled{}.LookupAddr(context.Background(), netip.MustParseAddr("192.0.2.1")))
	assert.Equal(t, "2001:db8::1", Disabled{}.LookupAddr(context.Background(), netip.MustParseAddr("2001:db8::1")))
	assert.Empty(t, Disabled{}.LookupAddr(context.Background(), netip.Addr{}))
}

func TestSystem_LookupAddr(t *testing.T) {
	r := NewSystem(time.Second)
	assert.Empty(t, r.LookupAddr(context.Background(), netip.Addr{}))

	// Documentation addresses have no names, the numeric form is returned.
	addr := netip.MustParseAddr("192.0.2.254")
	assert.NotEmpty(t, r.LookupAddr(context.Background(), addr))
}

func TestCache(t *testing.T) {
	next := &ResolverMock{
		LookupAddrFunc: func(_ context.Context, addr netip.Addr) string {
			return "host-" + addr.String()
		},
	}
	c := NewCache(next)
	a := netip.MustParseAddr("192.0.2.1")
	b := netip.MustParseAddr("192.0.2.2")

	assert.Equal(t, "host-192.0.2.1", c.LookupAddr(context.Background(), a))
	assert.Equal(t, "host-192.0.2.1", c.LookupAddr(context.Background(), a))
	assert.Equal(t, "host-192.0.2.2", c.LookupAddr(context.Background(), b))
	assert.Len(t, next.LookupAddrCalls(), 2, "cached names must not be looked up again")
}
