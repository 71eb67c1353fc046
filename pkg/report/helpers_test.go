// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"context"
	"errors"
	"net/netip"
	"time"

	"github.com/telekom/geotrace/internal/traceroute"
	"github.com/telekom/geotrace/pkg/geo"
	"github.com/telekom/geotrace/pkg/rdns"
)

var (
	router1    = netip.MustParseAddr("192.168.1.1")
	router2    = netip.MustParseAddr("10.10.0.1")
	targetAddr = netip.MustParseAddr("93.184.216.34")

	testDest = traceroute.Destination{Family: traceroute.IPv4, Addr: targetAddr, Input: "example.com"}
)

func answered(seq uint16, rtt time.Duration) traceroute.Probe {
	sent := time.Unix(1700000000, 0)
	return traceroute.Probe{Seq: seq, ID: 1, SentAt: sent, ReceivedAt: sent.Add(rtt), Delay: rtt}
}

func missed(seq uint16) traceroute.Probe {
	return traceroute.Probe{Seq: seq, ID: 1, SentAt: time.Unix(1700000000, 0), Err: traceroute.ErrProbeTimeout}
}

// testHops is a path of four hops, the third one answering from the same router as the second.
func testHops() []traceroute.Hop {
	return []traceroute.Hop{
		{
			TTL:         1,
			Addr:        router1,
			AddrChanged: true,
			Probes:      []traceroute.Probe{answered(1, 512*time.Microsecond), answered(2, 431*time.Microsecond), answered(3, 402*time.Microsecond)},
		},
		{
			TTL:         2,
			Addr:        router2,
			AddrChanged: true,
			Probes:      []traceroute.Probe{answered(4, 8210*time.Microsecond), missed(5), answered(6, 8004*time.Microsecond)},
		},
		{
			TTL:    3,
			Addr:   router2,
			Probes: []traceroute.Probe{answered(7, 9*time.Millisecond), answered(8, 9*time.Millisecond), answered(9, 9*time.Millisecond)},
		},
		{
			TTL:    4,
			Probes: []traceroute.Probe{missed(10), missed(11), missed(12)},
		},
		{
			TTL:         5,
			Addr:        targetAddr,
			AddrChanged: true,
			Terminal:    true,
			Probes:      []traceroute.Probe{answered(13, 12*time.Millisecond), answered(14, 11500*time.Microsecond), answered(15, 11*time.Millisecond)},
		},
	}
}

// testLocator knows the locations of router2 and the target.
func testLocator() *geo.LocatorMock {
	records := map[netip.Addr]geo.Record{
		router2:    {CountryCode: "US", CountryName: "United States of America", RegionName: "California", CityName: "Los Angeles"},
		targetAddr: {CountryCode: "US", CountryName: "United States of America", RegionName: "Massachusetts", CityName: "Norwell"},
	}
	return &geo.LocatorMock{
		LookupFunc: func(addr netip.Addr) (geo.Record, bool, error) {
			if addr == router1 {
				return geo.Record{}, false, errors.New("database closed")
			}
			r, ok := records[addr]
			return r, ok, nil
		},
		CloseFunc: func() error { return nil },
	}
}

// testResolver knows the name of the target only.
func testResolver() *rdns.ResolverMock {
	return &rdns.ResolverMock{
		LookupAddrFunc: func(_ context.Context, addr netip.Addr) string {
			if addr == targetAddr {
				return "example.com"
			}
			return addr.String()
		},
	}
}

func runReporter(r traceroute.Reporter, hops []traceroute.Hop, reached bool) error {
	ctx := context.Background()
	if err := r.Start(ctx, testDest, traceroute.DefaultOptions()); err != nil {
		return err
	}
	for _, h := range hops {
		if err := r.Report(ctx, h); err != nil {
			return err
		}
	}
	return r.Finish(ctx, traceroute.Result{Destination: testDest, Hops: hops, Reached: reached})
}
