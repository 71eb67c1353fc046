// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package api serves the metrics and the latest traces of the monitor over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/telekom/geotrace/internal/logger"
	"github.com/telekom/geotrace/pkg/monitor"
)

const readHeaderTimeout = 5 * time.Second

// Config is the configuration of the HTTP server
type Config struct {
	// ListeningAddress is the host:port the server listens on.
	ListeningAddress string `yaml:"address" mapstructure:"address"`
}

// Validate checks if the listening address is a valid host:port pair
func (c *Config) Validate() error {
	if c.ListeningAddress == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidAddress)
	}
	if _, _, err := net.SplitHostPort(c.ListeningAddress); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return nil
}

// Store holds the latest traces.
//
//go:generate go tool moq -out store_moq.go . Store
type Store interface {
	// Results returns the latest traces of all targets.
	Results() []monitor.Trace
	// Result returns the latest trace of the target.
	Result(target string) (monitor.Trace, bool)
}

//go:generate go tool moq -out api_moq.go . API
type API interface {
	// Run serves the API until it is shut down.
	Run(ctx context.Context) error
	// Shutdown gracefully stops the server.
	Shutdown(ctx context.Context) error
}

type api struct {
	server   *http.Server
	gatherer prometheus.Gatherer
	store    Store
}

// New creates the API serving the metrics of the gatherer and the traces of the store
func New(cfg Config, gatherer prometheus.Gatherer, store Store) API {
	return &api{
		server:   &http.Server{Addr: cfg.ListeningAddress, ReadHeaderTimeout: readHeaderTimeout},
		gatherer: gatherer,
		store:    store,
	}
}

// Run serves the API until it is shut down.
// Returns an error if the server could not be started.
func (a *api) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	a.server.Handler = a.router(ctx)

	log.InfoContext(ctx, "Serving API", "address", a.server.Addr)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "Failed to serve API", "error", err)
		return fmt.Errorf("%w: %w", ErrServe, err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (a *api) Shutdown(ctx context.Context) error {
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown api server: %w", err)
	}
	return nil
}

func (a *api) router(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logger.Middleware(ctx))

	r.Get("/", a.handleIndex)
	r.Get("/openapi", a.handleOpenAPI)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{
		ErrorLog: &promErrorLogger{ctx: ctx},
	}))
	r.Route("/v1/traces", func(r chi.Router) {
		r.Get("/", a.handleTraces)
		r.Get("/{target}", a.handleTrace)
	})
	return r
}

func (a *api) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"endpoints": {"/metrics", "/openapi", "/v1/traces", "/v1/traces/{target}"},
	})
}

func (a *api) handleTraces(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Results())
}

func (a *api) handleTrace(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "target")
	t, ok := a.store.Result(target)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("no trace for target %q", target)})
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// promErrorLogger hands errors of the metrics handler to the context logger.
type promErrorLogger struct {
	ctx context.Context
}

func (l *promErrorLogger) Println(v ...any) {
	logger.FromContext(l.ctx).ErrorContext(l.ctx, "Failed to serve metrics", "error", fmt.Sprint(v...))
}
