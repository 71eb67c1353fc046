// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAPI(t *testing.T) {
	doc, err := OpenAPI("v1.2.3")
	require.NoError(t, err)
	require.NoError(t, doc.Validate(t.Context()))

	assert.Equal(t, "v1.2.3", doc.Info.Version)
	assert.NotNil(t, doc.Paths.Value("/v1/traces"))
	assert.NotNil(t, doc.Paths.Value("/v1/traces/{target}"))
}

func TestAPI_OpenAPI(t *testing.T) {
	a, _, _ := newTestAPI(t)

	rec := serve(t, a, "/openapi")
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := openapi3.NewLoader().LoadFromData(rec.Body.Bytes())
	require.NoError(t, err)
	require.NoError(t, doc.Validate(t.Context()))

	tests := []struct {
		path   string
		route  string
		status int
	}{
		{path: "/v1/traces", route: "/v1/traces", status: http.StatusOK},
		{path: "/v1/traces/example.com", route: "/v1/traces/{target}", status: http.StatusOK},
		{path: "/v1/traces/unknown.invalid", route: "/v1/traces/{target}", status: http.StatusOK},
		{path: "/v1/traces/example.org", route: "/v1/traces/{target}", status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(t, a, tt.path)
			require.Equal(t, tt.status, rec.Code)

			item := doc.Paths.Value(tt.route)
			require.NotNil(t, item)
			resp := item.Get.Responses.Status(tt.status)
			require.NotNil(t, resp, "no response documented for status %d", tt.status)
			media := resp.Value.Content.Get("application/json")
			require.NotNil(t, media)

			var body any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NoError(t, media.Schema.Value.VisitJSON(body))
		})
	}
}
