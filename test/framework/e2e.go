// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package framework runs the geotrace agent in-process for end-to-end tests.
package framework

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/telekom/geotrace/internal/traceroute"
	"github.com/telekom/geotrace/pkg/agent"
	"github.com/telekom/geotrace/pkg/config"
	"gopkg.in/yaml.v3"
)

// Runner is a test that runs until the context is canceled.
type Runner interface {
	Run(ctx context.Context) error
}

var _ Runner = (*E2E)(nil)

// E2E is an end-to-end test of the agent.
type E2E struct {
	config config.Config
	t      *testing.T
	client traceroute.Client

	targets []string
	// mu guards buf, the remote server reads it concurrently
	mu  sync.Mutex
	buf bytes.Buffer

	server   *http.Server
	listener net.Listener

	running int32
}

// New creates an end-to-end test of an agent tracing with the client.
// The API listens on a free local port, the targets are loaded from a file
// unless [E2E.WithRemote] is used.
func New(t *testing.T, cfg config.Config, client traceroute.Client) *E2E {
	t.Helper()
	cfg.Api.ListeningAddress = FreeAddress(t)
	cfg.Loader.File.Path = filepath.Join(t.TempDir(), "targets.yaml")
	return &E2E{config: cfg, t: t, client: client}
}

// FreeAddress returns a local address nothing listens on.
func FreeAddress(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to find a free port: %v", err)
	}
	addr := l.Addr().String()
	if err := l.Close(); err != nil {
		t.Fatalf("Failed to release port: %v", err)
	}
	return addr
}

// URL returns the url of the path on the API of the agent.
func (e *E2E) URL(path string) string {
	return "http://" + e.config.Api.ListeningAddress + path
}

// WithTargets sets the monitor targets of the test.
func (e *E2E) WithTargets(targets ...string) *E2E {
	e.t.Helper()
	e.targets = targets
	e.encodeTargets()
	return e
}

// UpdateTargets updates the monitor targets of the running test.
func (e *E2E) UpdateTargets(targets ...string) *E2E {
	e.t.Helper()
	e.targets = targets
	e.encodeTargets()

	// Write the targets to file only if no remote server is used.
	if e.server == nil {
		if err := e.writeTargets(); err != nil {
			e.t.Fatalf("Failed to write targets: %v", err)
		}
	}
	return e
}

// Run starts the agent. If a remote server is configured it runs it in a goroutine.
func (e *E2E) Run(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&e.running, 0, 1) {
		e.t.Fatal("E2E.Run must be called once")
	}

	if e.server != nil {
		go func() {
			if err := e.server.Serve(e.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				e.t.Errorf("Failed to start server: %v", err)
			}
		}()
		defer func() {
			if err := e.server.Shutdown(context.WithoutCancel(ctx)); err != nil {
				e.t.Errorf("Failed to shutdown server: %v", err)
			}
		}()
	} else {
		if err := e.writeTargets(); err != nil {
			e.t.Fatalf("Failed to write targets: %v", err)
		}
	}

	a, err := agent.New(&e.config, e.client)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}
	return a.Run(ctx)
}

// AwaitAll waits for the API to be ready, the loader to reload the targets,
// and all targets to be traced before proceeding.
//
// Must be called after the e2e test started with [E2E.Run].
func (e *E2E) AwaitAll() *E2E {
	e.t.Helper()
	const failureTimeout = 5 * time.Second
	return e.AwaitStartup(e.URL("/"), failureTimeout).
		AwaitLoader().
		AwaitTraces(failureTimeout)
}

// AwaitStartup waits for the provided URL to be ready.
//
// Must be called after the e2e test started with [E2E.Run].
func (e *E2E) AwaitStartup(u string, failureTimeout time.Duration) *E2E {
	e.t.Helper()
	const backoff = 50 * time.Millisecond

	// Initial delay to allow the server to start.
	<-time.After(backoff)
	if !e.isRunning() {
		e.t.Fatal("E2E.AwaitStartup must be called after E2E.Run")
	}

	if !e.poll(u, failureTimeout) {
		e.t.Fatalf("%s did not become ready within %v", u, failureTimeout)
	}
	return e
}

// AwaitLoader waits for the loader to reload the targets.
//
// Must be called after the e2e test started with [E2E.Run].
func (e *E2E) AwaitLoader() *E2E {
	e.t.Helper()
	if !e.isRunning() {
		e.t.Fatal("E2E.AwaitLoader must be called after E2E.Run")
	}

	e.t.Logf("Waiting %s for loader to reload targets", e.config.Loader.Interval.String())
	<-time.After(e.config.Loader.Interval)
	return e
}

// AwaitTraces waits until a trace of every target is served.
//
// Must be called after the e2e test started with [E2E.Run].
func (e *E2E) AwaitTraces(failureTimeout time.Duration) *E2E {
	e.t.Helper()
	if !e.isRunning() {
		e.t.Fatal("E2E.AwaitTraces must be called after E2E.Run")
	}

	for _, target := range e.targets {
		u := e.URL("/v1/traces/" + target)
		if !e.poll(u, failureTimeout) {
			e.t.Fatalf("%s was not traced within %v", target, failureTimeout)
		}
	}
	return e
}

// poll requests the url until it answers with 200 or the timeout elapses.
func (e *E2E) poll(u string, timeout time.Duration) bool {
	const backoff = 50 * time.Millisecond
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, u, http.NoBody)
		if err != nil {
			e.t.Fatalf("Failed to create request: %v", err)
		}

		resp, err := http.DefaultClient.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		<-time.After(backoff)
	}
	return false
}

func (e *E2E) encodeTargets() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.Reset()
	if err := yaml.NewEncoder(&e.buf).Encode(map[string][]string{"targets": e.targets}); err != nil {
		e.t.Fatalf("Failed to encode targets: %v", err)
	}
}

// writeTargets writes the targets to the file of the loader.
func (e *E2E) writeTargets() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	path := e.config.Loader.File.Path
	// Written to a temporary file first, the loader must never see a partial file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, e.buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to rename %q: %w", tmp, err)
	}
	return nil
}

// isRunning returns true if the test is running.
func (e *E2E) isRunning() bool {
	return atomic.LoadInt32(&e.running) == 1
}

// WithRemote sets up a remote server serving the targets to the http loader.
func (e *E2E) WithRemote() *E2E {
	e.t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		e.t.Fatalf("Failed to listen: %v", err)
	}
	e.listener = l
	e.server = &http.Server{
		Handler:           http.HandlerFunc(e.serveTargets),
		ReadHeaderTimeout: 3 * time.Second,
	}
	e.config.Loader.File.Path = ""
	e.config.Loader.Http.Url = "http://" + l.Addr().String() + "/targets"
	return e
}

// serveTargets serves the targets over HTTP as application/yaml.
func (e *E2E) serveTargets(w http.ResponseWriter, _ *http.Request) {
	e.mu.Lock()
	defer e.mu.Unlock()
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(e.buf.Bytes()); err != nil {
		e.t.Errorf("Failed to write response: %v", err)
	}
}
