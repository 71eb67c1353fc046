// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(n *fakeNetwork) *icmpClient {
	return &icmpClient{
		lookup: staticLookup(n.dest),
		open:   n.open,
	}
}

func TestClient_Run(t *testing.T) {
	r1 := netip.MustParseAddr("10.0.0.1")
	r2 := netip.MustParseAddr("10.0.0.2")
	r3 := netip.MustParseAddr("10.0.0.3")

	tests := []struct {
		name        string
		routers     []netip.Addr
		maxTTL      int
		wantAddrs   []netip.Addr
		wantReached bool
	}{
		{
			name:      "max hops bound the trace",
			routers:   []netip.Addr{r1, r2, r3, r3, r3},
			maxTTL:    3,
			wantAddrs: []netip.Addr{r1, r2, r3},
		},
		{
			name:        "destination at ttl 4",
			routers:     []netip.Addr{r1, r2, r3},
			maxTTL:      DefaultMaxTTL,
			wantAddrs:   []netip.Addr{r1, r2, r3, testTarget},
			wantReached: true,
		},
		{
			name:        "silent router",
			routers:     []netip.Addr{r1, {}},
			maxTTL:      DefaultMaxTTL,
			wantAddrs:   []netip.Addr{r1, {}, testTarget},
			wantReached: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newFakeNetwork(t, IPv4, tt.routers...)
			c := newTestClient(n)
			r := collectingReporter()
			opts := testOptions()
			opts.MaxTTL = tt.maxTTL

			res, err := c.Run(context.Background(), "example.com", &opts, r)
			require.NoError(t, err)

			assert.Equal(t, Destination{Family: IPv4, Addr: testTarget, Input: "example.com"}, res.Destination)
			assert.Equal(t, tt.wantReached, res.Reached)
			require.Len(t, res.Hops, len(tt.wantAddrs))
			for i, hop := range res.Hops {
				assert.Equal(t, tt.wantAddrs[i], hop.Addr, "hop %d", hop.TTL)
			}

			require.Len(t, r.StartCalls(), 1)
			assert.Equal(t, res.Destination, r.StartCalls()[0].Dest)
			assert.Len(t, r.ReportCalls(), len(tt.wantAddrs))
			require.Len(t, r.FinishCalls(), 1)
			assert.Equal(t, res, r.FinishCalls()[0].Res)

			assert.Len(t, n.opened(), len(tt.wantAddrs)*DefaultProbes)
		})
	}
}

func TestClient_Run_Defaults(t *testing.T) {
	n := newFakeNetwork(t, IPv4)
	c := newTestClient(n)

	res, err := c.Run(context.Background(), testTarget.String(), nil, nil)
	require.NoError(t, err)
	assert.True(t, res.Reached)
	assert.Len(t, res.Hops, 1)
}

func TestClient_Run_IPv6(t *testing.T) {
	n := newFakeNetwork(t, IPv6, testRouter6)
	c := newTestClient(n)
	opts := testOptions()
	opts.Family = IPv6

	res, err := c.Run(context.Background(), "example.com", &opts, nil)
	require.NoError(t, err)
	assert.Equal(t, IPv6, res.Destination.Family)
	require.Len(t, res.Hops, 2)
	assert.Equal(t, testRouter6, res.Hops[0].Addr)
	assert.Equal(t, testTarget6, res.Hops[1].Addr)
}

func TestClient_Run_Errors(t *testing.T) {
	t.Run("invalid options", func(t *testing.T) {
		c := newTestClient(newFakeNetwork(t, IPv4))
		opts := testOptions()
		opts.Probes = 0
		r := collectingReporter()

		_, err := c.Run(context.Background(), "example.com", &opts, r)
		assert.Error(t, err)
		assert.Empty(t, r.StartCalls())
	})

	t.Run("unknown host", func(t *testing.T) {
		c := &icmpClient{lookup: failingLookup, open: newFakeNetwork(t, IPv4).open}
		r := collectingReporter()
		opts := testOptions()

		_, err := c.Run(context.Background(), "does.not.exist", &opts, r)
		assert.ErrorIs(t, err, ErrHostNotFound)
		assert.Empty(t, r.StartCalls())
		assert.Empty(t, r.FinishCalls())
	})

	t.Run("no raw socket permission", func(t *testing.T) {
		c := &icmpClient{
			lookup: staticLookup(testTarget),
			open:   func(Family) (Transport, error) { return nil, ErrPermissionDenied },
		}
		r := collectingReporter()
		opts := testOptions()

		res, err := c.Run(context.Background(), "example.com", &opts, r)
		assert.ErrorIs(t, err, ErrPermissionDenied)
		assert.Empty(t, res.Hops)
		assert.Len(t, r.FinishCalls(), 1)
	})

	t.Run("finish fails", func(t *testing.T) {
		finishErr := errors.New("disk full")
		r := collectingReporter()
		r.FinishFunc = func(context.Context, Result) error { return finishErr }
		c := newTestClient(newFakeNetwork(t, IPv4))
		opts := testOptions()

		res, err := c.Run(context.Background(), "example.com", &opts, r)
		assert.ErrorIs(t, err, finishErr)
		assert.True(t, res.Reached)
	})
}

func TestClient_Run_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := collectingReporter()
	r.ReportFunc = func(_ context.Context, hop Hop) error {
		if hop.TTL == 2 {
			cancel()
		}
		return nil
	}
	c := newTestClient(newFakeNetwork(t, IPv4, testRouter, testRouter, testRouter))
	opts := testOptions()

	res, err := c.Run(ctx, "example.com", &opts, r)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, res.Hops, 2)
	require.Len(t, r.FinishCalls(), 1, "the partial result is still reported")
	assert.Len(t, r.FinishCalls()[0].Res.Hops, 2)
}
