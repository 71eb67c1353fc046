// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "noop", config: Config{}},
		{name: "stdout", config: Config{Exporter: STDOUT}},
		{name: "grpc with url", config: Config{Exporter: GRPC, Url: "https://otel.example.com:4317"}},
		{name: "http without url", config: Config{Exporter: HTTP}, wantErr: true},
		{name: "unknown exporter", config: Config{Exporter: "zipkin"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate(t.Context())
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTelemetry)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExporter(t *testing.T) {
	assert.Equal(t, "noop", NOOP.String())
	assert.Equal(t, "grpc", GRPC.String())
	assert.True(t, HTTP.IsExporting())
	assert.False(t, STDOUT.IsExporting())
}

func TestTLSConfig(t *testing.T) {
	cfg, err := TLSConfig{}.config()
	require.NoError(t, err)
	assert.Nil(t, cfg, "tls disabled")

	cfg, err = TLSConfig{Enabled: true}.config()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Nil(t, cfg.RootCAs, "system pool is used without certificate")

	path := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0o600))
	_, err = TLSConfig{Enabled: true, CertPath: path}.config()
	assert.ErrorIs(t, err, ErrInvalidTelemetry)
}

func TestRegisterInstanceInfo(t *testing.T) {
	registry := New(Config{}).GetRegistry()
	require.NoError(t, RegisterInstanceInfo(registry, "probe.example.com"))

	families, err := registry.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != instanceInfoMetricName {
			continue
		}
		found = true
		require.Len(t, mf.GetMetric(), 1)
		m := mf.GetMetric()[0]
		assert.InDelta(t, 1, m.GetGauge().GetValue(), 0)
		labels := map[string]string{}
		for _, lp := range m.GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		assert.Equal(t, "probe.example.com", labels["instance_name"])
		assert.Equal(t, "dev", labels["version"])
	}
	assert.True(t, found, "geotrace_instance_info metric not found")

	assert.Error(t, RegisterInstanceInfo(registry, "other.example.com"), "duplicate collector")
}
