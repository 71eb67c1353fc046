// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package framework

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/geotrace/pkg/monitor"
)

// e2eHttpAsserter is an HTTP asserter for end-to-end tests.
type e2eHttpAsserter struct {
	e2e      *E2E
	url      string
	response *e2eResponseAsserter
	schema   *openapi3.T
}

// e2eResponseAsserter holds the expected response result and an asserter function.
type e2eResponseAsserter struct {
	want     any
	asserter func(r *http.Response) error
}

// HttpAssertion creates a new HTTP assertion for the given path of the API.
func (e *E2E) HttpAssertion(path string) *e2eHttpAsserter {
	return &e2eHttpAsserter{e2e: e, url: e.URL(path)}
}

// Assert asserts the status code and then runs schema and trace validations.
func (a *e2eHttpAsserter) Assert(status int) {
	a.e2e.t.Helper()
	if !a.e2e.isRunning() {
		a.e2e.t.Fatal("e2eHttpAsserter.Assert must be called after E2E.Run")
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, a.url, http.NoBody)
	if err != nil {
		a.e2e.t.Fatalf("Failed to create request: %v", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		a.e2e.t.Errorf("Failed to get %s: %v", a.url, err)
		return
	}
	defer resp.Body.Close()

	assert.Equal(a.e2e.t, status, resp.StatusCode, "Unexpected status code for %s", a.url)
	a.e2e.t.Logf("Got status code %d for %s", resp.StatusCode, a.url)

	if a.schema != nil {
		if err = a.assertSchema(req, resp); err != nil {
			a.e2e.t.Errorf("Response from %q does not match schema: %v", a.url, err)
		}
	}

	if resp.StatusCode == http.StatusOK && a.response != nil {
		if err = a.response.asserter(resp); err != nil {
			a.e2e.t.Errorf("Failed to assert response: %v", err)
		}
	}
}

// WithSchema fetches the OpenAPI schema the response is validated against.
func (a *e2eHttpAsserter) WithSchema() *e2eHttpAsserter {
	a.e2e.t.Helper()
	schema, err := a.fetchSchema()
	if err != nil {
		a.e2e.t.Fatalf("Failed to fetch OpenAPI schema: %v", err)
	}
	a.schema = schema
	return a
}

// WithTrace sets the expected trace and uses a custom asserter.
func (a *e2eHttpAsserter) WithTrace(want monitor.Trace) *e2eHttpAsserter {
	a.e2e.t.Helper()
	a.response = &e2eResponseAsserter{
		want:     want,
		asserter: a.assertTraceResponse,
	}
	return a
}

// fetchSchema retrieves the OpenAPI schema from the server.
func (a *e2eHttpAsserter) fetchSchema() (*openapi3.T, error) {
	ctx := context.Background()
	u, err := url.Parse(a.url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	u.Path = "/openapi"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to GET OpenAPI schema: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI schema: %w", err)
	}

	loader := openapi3.NewLoader()
	schema, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI schema: %w", err)
	}

	if err = schema.Validate(ctx); err != nil {
		return nil, fmt.Errorf("OpenAPI schema validation error: %w", err)
	}

	return schema, nil
}

// assertSchema validates the response body against the OpenAPI schema.
func (a *e2eHttpAsserter) assertSchema(req *http.Request, resp *http.Response) error {
	item := a.schema.Paths.Find(req.URL.Path)
	if item == nil || item.Get == nil {
		return fmt.Errorf("no GET operation defined in OpenAPI schema for %s", req.URL.Path)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	// Reset resp.Body so that further reading is possible.
	resp.Body = io.NopCloser(bytes.NewReader(data))

	responseRef := item.Get.Responses.Status(resp.StatusCode)
	if responseRef == nil || responseRef.Value == nil {
		return fmt.Errorf("no response defined in OpenAPI schema for status code %d", resp.StatusCode)
	}

	mediaType := responseRef.Value.Content.Get("application/json")
	if mediaType == nil {
		return errors.New("no media type defined in OpenAPI schema for Content-Type 'application/json'")
	}

	var body any
	if err = json.Unmarshal(data, &body); err != nil {
		return fmt.Errorf("failed to unmarshal response body: %w", err)
	}

	// Validate the response body against the schema.
	if err = mediaType.Schema.Value.VisitJSON(body); err != nil {
		return fmt.Errorf("response body does not match schema: %w", err)
	}

	return nil
}

// assertTraceResponse decodes the trace from the response and compares it against the expected trace.
func (a *e2eHttpAsserter) assertTraceResponse(resp *http.Response) error {
	want, ok := a.response.want.(monitor.Trace)
	require.True(a.e2e.t, ok, "Invalid response type: %T", a.response.want)

	var got traceResponse
	err := json.NewDecoder(resp.Body).Decode(&got)
	require.NoError(a.e2e.t, err, "Failed to decode response body")

	assertTrace(a.e2e, want, got)
	return nil
}

// traceResponse is the decoded form of a served trace.
// Probes are encoded without their timestamps and are left out.
type traceResponse struct {
	Target string `json:"target"`
	Result struct {
		Destination struct {
			Addr  string `json:"addr"`
			Input string `json:"input"`
		} `json:"destination"`
		Hops []struct {
			TTL     int    `json:"ttl"`
			Addr    string `json:"addr"`
			Reached bool   `json:"reached"`
		} `json:"hops"`
		Reached bool `json:"reached"`
	} `json:"result"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// e2eTimeMargin defines the acceptable time margin for end-to-end tests.
const e2eTimeMargin = 5 * time.Minute

// assertTrace compares the expected and the served trace and checks that the trace is recent.
func assertTrace(e *E2E, want monitor.Trace, got traceResponse) {
	t := e.t
	assert.Equal(t, want.Target, got.Target, "target")
	assert.Equal(t, want.Error, got.Error, "error")
	assert.Equal(t, want.Result.Reached, got.Result.Reached, "reached")
	assert.Equal(t, want.Result.Destination.Input, got.Result.Destination.Input, "destination input")
	if want.Result.Destination.Addr.IsValid() {
		assert.Equal(t, want.Result.Destination.Addr.String(), got.Result.Destination.Addr, "destination addr")
	}

	require.Len(t, got.Result.Hops, len(want.Result.Hops), "hops")
	for i, h := range want.Result.Hops {
		assert.Equal(t, h.TTL, got.Result.Hops[i].TTL, "ttl of hop %d", i)
		assert.Equal(t, h.Addr.String(), got.Result.Hops[i].Addr, "addr of hop %d", i)
		assert.Equal(t, h.Terminal, got.Result.Hops[i].Reached, "reached of hop %d", i)
	}

	assert.WithinDuration(t, time.Now(), got.Timestamp, e2eTimeMargin, "timestamp")
}
