// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
	"github.com/telekom/geotrace/pkg"
	"github.com/telekom/geotrace/pkg/monitor"
)

var (
	textMarshaler = reflect.TypeFor[encoding.TextMarshaler]()
	jsonMarshaler = reflect.TypeFor[json.Marshaler]()
	timeType      = reflect.TypeFor[time.Time]()
)

// OpenAPI returns the OpenAPI document of the traces endpoints
func OpenAPI(version string) (*openapi3.T, error) {
	trace, err := schemaOf(monitor.Trace{})
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema of the trace: %w", err)
	}
	errResp, err := schemaOf(errorResponse{})
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema of the error response: %w", err)
	}

	traces := openapi3.NewArraySchema()
	traces.Items = trace

	target := openapi3.NewPathParameter("target").
		WithDescription("Host or address of the monitored target as configured.").
		WithSchema(openapi3.NewStringSchema())

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "geotrace API",
			Description: "Latest traceroutes of the targets monitored by geotrace",
			Version:     version,
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/v1/traces", &openapi3.PathItem{
				Get: &openapi3.Operation{
					OperationID: "listTraces",
					Summary:     "Latest trace of every monitored target",
					Responses: openapi3.NewResponses(
						openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
							Value: openapi3.NewResponse().
								WithDescription("Traces ordered by target").
								WithJSONSchema(traces),
						}),
					),
				},
			}),
			openapi3.WithPath("/v1/traces/{target}", &openapi3.PathItem{
				Get: &openapi3.Operation{
					OperationID: "getTrace",
					Summary:     "Latest trace of a monitored target",
					Parameters:  openapi3.Parameters{{Value: target}},
					Responses: openapi3.NewResponses(
						openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
							Value: openapi3.NewResponse().
								WithDescription("Trace of the target").
								WithJSONSchemaRef(trace),
						}),
						openapi3.WithStatus(http.StatusNotFound, &openapi3.ResponseRef{
							Value: openapi3.NewResponse().
								WithDescription("The target is not monitored or was not traced yet").
								WithJSONSchemaRef(errResp),
						}),
					),
				},
			}),
		),
	}, nil
}

// schemaOf generates the schema of the JSON encoding of v.
// Types with their own encoding are described by what they encode to.
func schemaOf(v any) (*openapi3.SchemaRef, error) {
	return openapi3gen.NewSchemaRefForValue(v, nil, openapi3gen.SchemaCustomizer(
		func(_ string, t reflect.Type, _ reflect.StructTag, schema *openapi3.Schema) error {
			switch {
			case t == timeType:
			case t.Implements(jsonMarshaler):
				*schema = openapi3.Schema{}
			case t.Implements(textMarshaler):
				*schema = *openapi3.NewStringSchema()
			case t.Kind() == reflect.Slice:
				schema.Nullable = true
			}
			return nil
		},
	))
}

func (a *api) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	version := pkg.Version
	if version == "" {
		version = "dev"
	}
	doc, err := OpenAPI(version)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
