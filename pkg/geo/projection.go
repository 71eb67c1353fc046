// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package geo

// Projection selects the columns of a record that are shown for a hop.
type Projection struct {
	// All shows every available column. It takes precedence over Fields.
	All bool `json:"all" yaml:"all" mapstructure:"all"`
	// Fields are the columns to show in the given order.
	Fields []Field `json:"output" yaml:"output" mapstructure:"output"`
}

// defaultFields are shown if nothing else is selected.
var defaultFields = []Field{CountryCode, RegionName, CityName}

// Values returns the selected values of the record.
// Columns that are not available are skipped. Without a selection the
// country, region and city are shown, or only the country for databases
// without regions.
func (p Projection) Values(r Record) []string {
	fields := p.Fields
	switch {
	case p.All:
		fields = Fields()
	case len(fields) == 0:
		fields = defaultFields
		if _, ok := r.Get(RegionName); !ok {
			fields = defaultFields[:1]
		}
	}

	values := make([]string, 0, len(fields))
	for _, f := range fields {
		if v, ok := r.Get(f); ok {
			values = append(values, v)
		}
	}
	return values
}
