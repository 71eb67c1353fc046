// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"errors"
	"fmt"
	"strings"
)

// Field is a column of an IP2Location record.
type Field int

const (
	CountryCode Field = iota
	CountryName
	RegionName
	CityName
	ISP
	Latitude
	Longitude
	Domain
	ZipCode
	TimeZone
	NetSpeed
	IDDCode
	AreaCode
	WeatherStationCode
	WeatherStationName
	MCC
	MNC
	MobileBrand
	Elevation
	UsageType
	AddressType
	Category

	fieldCount
)

// ErrInvalidField is returned for an unknown column name.
var ErrInvalidField = errors.New("invalid column name")

var fieldNames = [fieldCount]string{
	CountryCode:        "country_code",
	CountryName:        "country_name",
	RegionName:         "region_name",
	CityName:           "city_name",
	ISP:                "isp",
	Latitude:           "latitude",
	Longitude:          "longitude",
	Domain:             "domain",
	ZipCode:            "zip_code",
	TimeZone:           "time_zone",
	NetSpeed:           "net_speed",
	IDDCode:            "idd_code",
	AreaCode:           "area_code",
	WeatherStationCode: "weather_station_code",
	WeatherStationName: "weather_station_name",
	MCC:                "mcc",
	MNC:                "mnc",
	MobileBrand:        "mobile_brand",
	Elevation:          "elevation",
	UsageType:          "usage_type",
	AddressType:        "address_type",
	Category:           "category",
}

func (f Field) String() string {
	if !f.IsValid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// IsValid reports whether f is a known column.
func (f Field) IsValid() bool {
	return f >= 0 && f < fieldCount
}

// ParseField returns the field with the given column name.
func ParseField(name string) (Field, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range fieldNames {
		if n == name {
			return Field(f), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidField, name)
}

// ParseFields parses a list of column names. Every name may itself be a comma separated list.
func ParseFields(names ...string) ([]Field, error) {
	var (
		fields []Field
		errs   error
	)
	for _, n := range names {
		for part := range strings.SplitSeq(n, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			f, err := ParseField(part)
			if err != nil {
				errs = errors.Join(errs, err)
				continue
			}
			fields = append(fields, f)
		}
	}
	return fields, errs
}

// Fields returns all fields in column order.
func Fields() []Field {
	fields := make([]Field, fieldCount)
	for i := range fields {
		fields[i] = Field(i)
	}
	return fields
}

// MarshalText implements [encoding.TextMarshaler].
func (f Field) MarshalText() ([]byte, error) {
	if !f.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidField, int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *Field) UnmarshalText(b []byte) error {
	v, err := ParseField(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
