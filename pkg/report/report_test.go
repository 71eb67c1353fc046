// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/geotrace/internal/traceroute"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		format Format
		want   traceroute.Reporter
	}{
		{FormatText, &Text{}},
		{FormatJSON, &JSON{}},
		{FormatYAML, &YAML{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			r, err := New(tt.format, &buf, nil)
			require.NoError(t, err)
			assert.IsType(t, tt.want, r)
		})
	}

	_, err := New("csv", &buf, nil)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestMulti(t *testing.T) {
	first := &traceroute.ReporterMock{
		StartFunc:  func(context.Context, traceroute.Destination, traceroute.Options) error { return nil },
		ReportFunc: func(context.Context, traceroute.Hop) error { return nil },
		FinishFunc: func(context.Context, traceroute.Result) error { return nil },
	}
	reportErr := errors.New("write failed")
	second := &traceroute.ReporterMock{
		StartFunc:  func(context.Context, traceroute.Destination, traceroute.Options) error { return nil },
		ReportFunc: func(context.Context, traceroute.Hop) error { return reportErr },
		FinishFunc: func(context.Context, traceroute.Result) error { return nil },
	}
	r := Multi(first, second)

	err := runReporter(r, testHops()[:1], false)
	assert.ErrorIs(t, err, reportErr)
	assert.Len(t, first.StartCalls(), 1)
	assert.Len(t, first.ReportCalls(), 1, "all reporters see the hop even if one fails")
	assert.Len(t, second.ReportCalls(), 1)
}

func TestNewHopReport(t *testing.T) {
	hop := testHops()[1]
	r := newHopReport(hop, Annotation{Hostname: "core1.example.net", Location: []string{"US"}})

	assert.Equal(t, 2, r.TTL)
	assert.Equal(t, "10.10.0.1", r.Addr)
	assert.Equal(t, "core1.example.net", r.Hostname)
	assert.Equal(t, 1, r.Lost)
	require.Len(t, r.Probes, 3)
	require.NotNil(t, r.Probes[0].RTT)
	assert.InDelta(t, 8.21, *r.Probes[0].RTT, 1e-9)
	assert.Nil(t, r.Probes[1].RTT)
	assert.Equal(t, "probe timed out", r.Probes[1].Error)
}
