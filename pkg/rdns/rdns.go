// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package rdns resolves hop addresses into host names.
package rdns

import (
	"context"
	"net"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/telekom/geotrace/internal/helper"
	"github.com/telekom/geotrace/internal/logger"
)

var (
	_ Resolver = (*System)(nil)
	_ Resolver = (*DNS)(nil)
	_ Resolver = (*Cache)(nil)
	_ Resolver = Disabled{}
)

// Resolver looks up the host name of an address.
//
//go:generate go tool moq -out rdns_moq.go . Resolver
type Resolver interface {
	// LookupAddr returns the host name of the address.
	// If the address has no name, its numeric form is returned.
	LookupAddr(ctx context.Context, addr netip.Addr) string
}

// Config configures the reverse lookups of hop addresses.
type Config struct {
	// Enabled turns on reverse lookups.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	// Nameserver is queried directly for PTR records. Empty uses the system resolver.
	Nameserver string `json:"nameserver" yaml:"nameserver" mapstructure:"nameserver"`
	// Timeout is the timeout of a single query.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	// Retry configures how failed queries are repeated.
	Retry helper.RetryConfig `json:"retry" yaml:"retry" mapstructure:"retry"`
}

// New returns the resolver described by the config.
func New(cfg Config) Resolver {
	if !cfg.Enabled {
		return Disabled{}
	}
	if cfg.Nameserver == "" {
		return NewCache(NewSystem(cfg.Timeout))
	}
	return NewCache(NewDNS(cfg.Nameserver, TimeoutOption(cfg.Timeout), RetryOption(cfg.Retry)))
}

// System resolves names with the resolver of the operating system.
type System struct {
	resolver *net.Resolver
	timeout  time.Duration
}

// NewSystem returns a [System] resolver. A zero timeout waits as long as the context allows.
func NewSystem(timeout time.Duration) *System {
	return &System{resolver: net.DefaultResolver, timeout: timeout}
}

func (s *System) LookupAddr(ctx context.Context, addr netip.Addr) string {
	if !addr.IsValid() {
		return ""
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	names, err := s.resolver.LookupAddr(ctx, addr.String())
	if err != nil || len(names) == 0 {
		logger.FromContext(ctx).DebugContext(ctx, "Reverse lookup failed", "addr", addr, "error", err)
		return addr.String()
	}
	return strings.TrimSuffix(names[0], ".")
}

// Disabled returns the numeric form of every address.
type Disabled struct{}

func (Disabled) LookupAddr(_ context.Context, addr netip.Addr) string {
	if !addr.IsValid() {
		return ""
	}
	return addr.String()
}

// Cache remembers the names returned by another resolver.
// It is safe for concurrent use.
type Cache struct {
	next  Resolver
	mu    sync.Mutex
	names map[netip.Addr]string
}

// NewCache wraps the resolver with a [Cache].
func NewCache(next Resolver) *Cache {
	return &Cache{next: next, names: map[netip.Addr]string{}}
}

func (c *Cache) LookupAddr(ctx context.Context, addr netip.Addr) string {
	c.mu.Lock()
	name, ok := c.names[addr]
	c.mu.Unlock()
	if ok {
		return name
	}

	name = c.next.LookupAddr(ctx, addr)
	c.mu.Lock()
	c.names[addr] = name
	c.mu.Unlock()
	return name
}
