// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"context"
	"encoding/json"
	"io"

	"github.com/telekom/geotrace/internal/traceroute"
	"github.com/telekom/geotrace/pkg/geo"
)

var _ traceroute.Reporter = (*JSON)(nil)

// JSON streams one JSON object per line: a start event with the destination,
// a hop event for every hop and a finish event with the summary.
type JSON struct {
	enc      *json.Encoder
	enricher *Enricher
}

type startEvent struct {
	Event       string                 `json:"event"`
	Destination traceroute.Destination `json:"destination"`
	Name        string                 `json:"name,omitempty"`
	MaxHops     int                    `json:"maxHops"`
}

type hopEvent struct {
	Event string `json:"event"`
	HopReport
}

type finishEvent struct {
	Event   string `json:"event"`
	Reached bool   `json:"reached"`
	Hops    int    `json:"hops"`
}

// NewJSON returns a [JSON] reporter writing to w.
func NewJSON(w io.Writer, e *Enricher) *JSON {
	if e == nil {
		e = NewEnricher(nil, nil, geo.Projection{})
	}
	return &JSON{enc: json.NewEncoder(w), enricher: e}
}

func (j *JSON) Start(ctx context.Context, dest traceroute.Destination, opts traceroute.Options) error {
	j.enricher.Reset()
	return j.enc.Encode(startEvent{
		Event:       "start",
		Destination: dest,
		Name:        j.enricher.DestinationName(ctx, dest),
		MaxHops:     opts.MaxTTL,
	})
}

func (j *JSON) Report(ctx context.Context, hop traceroute.Hop) error {
	return j.enc.Encode(hopEvent{
		Event:     "hop",
		HopReport: newHopReport(hop, j.enricher.Annotate(ctx, hop)),
	})
}

func (j *JSON) Finish(_ context.Context, res traceroute.Result) error {
	return j.enc.Encode(finishEvent{
		Event:   "finish",
		Reached: res.Reached,
		Hops:    len(res.Hops),
	})
}
