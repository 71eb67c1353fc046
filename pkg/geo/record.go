// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"strconv"
	"strings"

	"github.com/ip2location/ip2location-go/v9"
)

// Markers the IP2Location library puts into text columns that carry no value.
const (
	notSupported   = "This parameter is unavailable for selected data file. Please upgrade the data file."
	invalidAddress = "Invalid IP address."
	missingFile    = "Invalid database file."
)

// Record is the geolocation of an address.
// Empty text columns and nil numeric columns are not available in the database.
type Record struct {
	CountryCode        string   `json:"country_code,omitempty" yaml:"country_code,omitempty"`
	CountryName        string   `json:"country_name,omitempty" yaml:"country_name,omitempty"`
	RegionName         string   `json:"region_name,omitempty" yaml:"region_name,omitempty"`
	CityName           string   `json:"city_name,omitempty" yaml:"city_name,omitempty"`
	ISP                string   `json:"isp,omitempty" yaml:"isp,omitempty"`
	Latitude           *float32 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude          *float32 `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	Domain             string   `json:"domain,omitempty" yaml:"domain,omitempty"`
	ZipCode            string   `json:"zip_code,omitempty" yaml:"zip_code,omitempty"`
	TimeZone           string   `json:"time_zone,omitempty" yaml:"time_zone,omitempty"`
	NetSpeed           string   `json:"net_speed,omitempty" yaml:"net_speed,omitempty"`
	IDDCode            string   `json:"idd_code,omitempty" yaml:"idd_code,omitempty"`
	AreaCode           string   `json:"area_code,omitempty" yaml:"area_code,omitempty"`
	WeatherStationCode string   `json:"weather_station_code,omitempty" yaml:"weather_station_code,omitempty"`
	WeatherStationName string   `json:"weather_station_name,omitempty" yaml:"weather_station_name,omitempty"`
	MCC                string   `json:"mcc,omitempty" yaml:"mcc,omitempty"`
	MNC                string   `json:"mnc,omitempty" yaml:"mnc,omitempty"`
	MobileBrand        string   `json:"mobile_brand,omitempty" yaml:"mobile_brand,omitempty"`
	Elevation          *float32 `json:"elevation,omitempty" yaml:"elevation,omitempty"`
	UsageType          string   `json:"usage_type,omitempty" yaml:"usage_type,omitempty"`
	AddressType        string   `json:"address_type,omitempty" yaml:"address_type,omitempty"`
	Category           string   `json:"category,omitempty" yaml:"category,omitempty"`
}

// Get returns the value of a column formatted as text.
// The second return value is false if the column is not available.
func (r *Record) Get(f Field) (string, bool) {
	var v string
	switch f {
	case CountryCode:
		v = r.CountryCode
	case CountryName:
		v = r.CountryName
	case RegionName:
		v = r.RegionName
	case CityName:
		v = r.CityName
	case ISP:
		v = r.ISP
	case Latitude:
		return formatFloat(r.Latitude)
	case Longitude:
		return formatFloat(r.Longitude)
	case Domain:
		v = r.Domain
	case ZipCode:
		v = r.ZipCode
	case TimeZone:
		v = r.TimeZone
	case NetSpeed:
		v = r.NetSpeed
	case IDDCode:
		v = r.IDDCode
	case AreaCode:
		v = r.AreaCode
	case WeatherStationCode:
		v = r.WeatherStationCode
	case WeatherStationName:
		v = r.WeatherStationName
	case MCC:
		v = r.MCC
	case MNC:
		v = r.MNC
	case MobileBrand:
		v = r.MobileBrand
	case Elevation:
		return formatFloat(r.Elevation)
	case UsageType:
		v = r.UsageType
	case AddressType:
		v = r.AddressType
	case Category:
		v = r.Category
	}
	return v, v != ""
}

// Empty reports whether no column of the record is available.
func (r *Record) Empty() bool {
	for _, f := range Fields() {
		if _, ok := r.Get(f); ok {
			return false
		}
	}
	return true
}

func formatFloat(v *float32) (string, bool) {
	if v == nil {
		return "", false
	}
	return strconv.FormatFloat(float64(*v), 'f', -1, 32), true
}

// text drops the placeholders the library uses for unavailable values.
func text(s string) string {
	s = strings.TrimSpace(s)
	switch s {
	case "-", notSupported, invalidAddress, missingFile:
		return ""
	}
	return s
}

// number drops zero values, the library reports unsupported numeric columns as zero.
func number(v float32) *float32 {
	if v == 0 {
		return nil
	}
	return &v
}

// recordFromIP2Location converts a record of the IP2Location library.
func recordFromIP2Location(rec *ip2location.IP2Locationrecord) Record {
	r := Record{
		CountryCode:        text(rec.Country_short),
		CountryName:        text(rec.Country_long),
		RegionName:         text(rec.Region),
		CityName:           text(rec.City),
		ISP:                text(rec.Isp),
		Domain:             text(rec.Domain),
		ZipCode:            text(rec.Zipcode),
		TimeZone:           text(rec.Timezone),
		NetSpeed:           text(rec.Netspeed),
		IDDCode:            text(rec.Iddcode),
		AreaCode:           text(rec.Areacode),
		WeatherStationCode: text(rec.Weatherstationcode),
		WeatherStationName: text(rec.Weatherstationname),
		MCC:                text(rec.Mcc),
		MNC:                text(rec.Mnc),
		MobileBrand:        text(rec.Mobilebrand),
		Elevation:          number(rec.Elevation),
		UsageType:          text(rec.Usagetype),
		AddressType:        text(rec.Addresstype),
		Category:           text(rec.Category),
	}
	// Null Island is where databases without coordinates put every address.
	if rec.Latitude != 0 || rec.Longitude != 0 {
		lat, lon := rec.Latitude, rec.Longitude
		r.Latitude, r.Longitude = &lat, &lon
	}
	return r
}
