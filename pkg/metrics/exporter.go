// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc/credentials"
)

// ErrInvalidTelemetry is returned for an invalid telemetry configuration.
var ErrInvalidTelemetry = errors.New("invalid telemetry configuration")

// Exporter is the protocol the traces are exported with.
type Exporter string

const (
	// HTTP is the OTLP exporter over HTTP
	HTTP Exporter = "http"
	// GRPC is the OTLP exporter over gRPC
	GRPC Exporter = "grpc"
	// STDOUT writes the traces to stdout
	STDOUT Exporter = "stdout"
	// NOOP drops all traces
	NOOP Exporter = ""
)

// String returns the name of the exporter.
func (e Exporter) String() string {
	if e == NOOP {
		return "noop"
	}
	return string(e)
}

// Validate checks if the exporter is supported.
func (e Exporter) Validate() error {
	switch e {
	case HTTP, GRPC, STDOUT, NOOP:
		return nil
	default:
		return fmt.Errorf("%w: unsupported exporter %q", ErrInvalidTelemetry, string(e))
	}
}

// IsExporting returns true if the exporter sends the traces to a collector.
func (e Exporter) IsExporting() bool {
	return e == HTTP || e == GRPC
}

// Create returns the span exporter configured by the config.
func (e Exporter) Create(ctx context.Context, cfg *Config) (sdktrace.SpanExporter, error) {
	switch e {
	case HTTP:
		return newHTTPExporter(ctx, cfg)
	case GRPC:
		return newGRPCExporter(ctx, cfg)
	case STDOUT:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case NOOP:
		return noopExporter{}, nil
	default:
		return nil, e.Validate()
	}
}

func newHTTPExporter(ctx context.Context, cfg *Config) (sdktrace.SpanExporter, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(cfg.Url)}
	if cfg.Token != "" {
		opts = append(opts, otlptracehttp.WithHeaders(authHeader(cfg.Token)))
	}

	tlsCfg, err := cfg.TLS.config()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		opts = append(opts, otlptracehttp.WithTLSClientConfig(tlsCfg))
	} else {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return otlptracehttp.New(ctx, opts...)
}

func newGRPCExporter(ctx context.Context, cfg *Config) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpointURL(cfg.Url)}
	if cfg.Token != "" {
		opts = append(opts, otlptracegrpc.WithHeaders(authHeader(cfg.Token)))
	}

	tlsCfg, err := cfg.TLS.config()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(tlsCfg)))
	} else {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	return otlptracegrpc.New(ctx, opts...)
}

func authHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// config returns the tls configuration, nil if tls is disabled.
func (t TLSConfig) config() (*tls.Config, error) {
	if !t.Enabled {
		return nil, nil
	}
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if t.CertPath == "" {
		return cfg, nil
	}

	pem, err := os.ReadFile(t.CertPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("%w: no certificate found in %s", ErrInvalidTelemetry, t.CertPath)
	}
	cfg.RootCAs = pool
	return cfg, nil
}

// noopExporter drops all spans.
type noopExporter struct{}

func (noopExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error { return nil }
func (noopExporter) Shutdown(context.Context) error                             { return nil }
