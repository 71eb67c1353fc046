// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"fmt"
	"net/netip"

	"github.com/ip2location/ip2location-go/v9"
)

var (
	_ Locator = (*DB)(nil)
	_ Locator = Disabled{}
)

// Locator looks up the geolocation of addresses.
//
//go:generate go tool moq -out locator_moq.go . Locator
type Locator interface {
	// Lookup returns the record of the address.
	// The second return value is false if the database knows nothing about the address.
	Lookup(addr netip.Addr) (Record, bool, error)
	// Close releases the database.
	Close() error
}

// DB is a [Locator] backed by an IP2Location BIN database.
type DB struct {
	path string
	db   *ip2location.DB
}

// Open opens the IP2Location BIN database at path.
func Open(path string) (*DB, error) {
	db, err := ip2location.OpenDB(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open geolocation database %s: %w", path, err)
	}
	return &DB{path: path, db: db}, nil
}

// Path returns the file the database was opened from.
func (d *DB) Path() string {
	return d.path
}

func (d *DB) Lookup(addr netip.Addr) (Record, bool, error) {
	if !addr.IsValid() {
		return Record{}, false, nil
	}
	rec, err := d.db.Get_all(addr.Unmap().String())
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to look up %s: %w", addr, err)
	}
	r := recordFromIP2Location(&rec)
	return r, !r.Empty(), nil
}

func (d *DB) Close() error {
	d.db.Close()
	return nil
}

// Disabled is a [Locator] that knows no address.
type Disabled struct{}

func (Disabled) Lookup(netip.Addr) (Record, bool, error) { return Record{}, false, nil }
func (Disabled) Close() error                            { return nil }
