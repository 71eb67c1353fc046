// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strings"
)

// lookupFunc resolves a host name into its addresses, see [net.Resolver.LookupNetIP].
type lookupFunc func(ctx context.Context, network, host string) ([]netip.Addr, error)

// resolveDestination turns the user input into a [Destination].
// Literal addresses are used as they are, names are looked up. Unless a family
// is forced, IPv4 addresses are preferred over IPv6 addresses.
func resolveDestination(ctx context.Context, lookup lookupFunc, input string, family Family) (Destination, error) {
	host := strings.TrimSpace(input)
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	if host == "" {
		return Destination{}, errors.New("missing ip address or hostname")
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		addr = addr.Unmap()
		if family != FamilyAuto && familyOf(addr) != family {
			return Destination{}, fmt.Errorf("address %s is not an %s address", addr, family)
		}
		return Destination{Family: familyOf(addr), Addr: addr, Input: input}, nil
	}

	network := "ip"
	switch family {
	case IPv4:
		network = "ip4"
	case IPv6:
		network = "ip6"
	}

	addrs, err := lookup(ctx, network, host)
	if err != nil {
		return Destination{}, fmt.Errorf("%w %s: %w", ErrHostNotFound, host, err)
	}

	var chosen netip.Addr
	for _, a := range addrs {
		a = a.Unmap()
		if !chosen.IsValid() {
			chosen = a
		}
		if family == FamilyAuto && a.Is4() {
			chosen = a
			break
		}
	}
	if !chosen.IsValid() {
		return Destination{}, fmt.Errorf("%w %s: no A or AAAA record", ErrHostNotFound, host)
	}

	return Destination{Family: familyOf(chosen), Addr: chosen, Input: input}, nil
}
