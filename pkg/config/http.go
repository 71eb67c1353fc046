// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/telekom/geotrace/internal/helper"
	"github.com/telekom/geotrace/internal/logger"
)

var _ Loader = (*HttpLoader)(nil)

const (
	linkHeader = "Link"
	linkNext   = "next"
	// maxPages limits the pages followed for a single load.
	maxPages = 100
)

// ErrHttpStatus is returned if the targets url answers with an unexpected status
type ErrHttpStatus struct {
	Url    string
	Status int
}

func (e ErrHttpStatus) Error() string {
	return fmt.Sprintf("request to %s failed with status %d", e.Url, e.Status)
}

// HttpLoader fetches the monitor targets from a url.
type HttpLoader struct {
	config   LoaderConfig
	cTargets chan<- []string
	done     chan struct{}
	client   *http.Client
}

func NewHttpLoader(cfg *Config, cTargets chan<- []string) *HttpLoader {
	return &HttpLoader{
		config:   cfg.Loader,
		cTargets: cTargets,
		done:     make(chan struct{}, 1),
		client: &http.Client{
			Timeout: cfg.Loader.Http.Timeout,
		},
	}
}

// Run gets the targets from the remote url.
// The targets are fetched periodically defined by the loader interval configuration.
// If the interval is 0, the targets are only fetched once.
func (hl *HttpLoader) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx).With("url", hl.config.Http.Url)

	getTargets := helper.Retry(hl.getTargets, hl.config.Http.RetryCfg)

	// Get the targets once on startup
	targets, err := getTargets(ctx)
	if err != nil {
		log.WarnContext(ctx, "Could not get remote targets", "error", err)
		err = fmt.Errorf("could not get remote targets: %w", err)
	} else {
		log.InfoContext(ctx, "Successfully got remote targets", "targets", len(targets))
		hl.cTargets <- targets
	}

	if hl.config.Interval == 0 {
		log.InfoContext(ctx, "HTTP Loader disabled")
		return err
	}

	tick := time.NewTicker(hl.config.Interval)
	defer tick.Stop()

	for {
		select {
		case <-hl.done:
			log.InfoContext(ctx, "HTTP Loader terminated")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			targets, err := getTargets(ctx)
			if err != nil {
				log.WarnContext(ctx, "Could not get remote targets", "error", err)
				continue
			}

			log.DebugContext(ctx, "Successfully got remote targets", "targets", len(targets))
			hl.cTargets <- targets
		}
	}
}

// getTargets fetches all pages of the targets document
func (hl *HttpLoader) getTargets(ctx context.Context) ([]string, error) {
	log := logger.FromContext(ctx)

	var targets []string
	next := hl.config.Http.Url
	for page := 1; next != ""; page++ {
		if page > maxPages {
			log.WarnContext(ctx, "Stopped following the pages of the targets", "pages", maxPages)
			break
		}

		b, link, err := hl.fetch(ctx, next)
		if err != nil {
			return nil, err
		}
		pt, err := parseTargets(b)
		if err != nil {
			log.ErrorContext(ctx, "Failed to parse targets", "page", page, "error", err)
			return nil, helper.Permanent(err)
		}
		targets = appendTargets(targets, pt...)

		next, err = resolveLink(next, link)
		if err != nil {
			log.WarnContext(ctx, "Ignoring invalid link to the next page", "link", link, "error", err)
			next = ""
		}
	}

	if targets == nil {
		targets = []string{}
	}
	return targets, nil
}

// fetch gets a single page and returns its body and the link to the next page
func (hl *HttpLoader) fetch(ctx context.Context, u string) (body []byte, next string, err error) {
	log := logger.FromContext(ctx).With("url", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		log.ErrorContext(ctx, "Could not create http GET request", "error", err)
		return nil, "", helper.Permanent(err)
	}
	req.Header.Set("Accept", "application/yaml, application/json;q=0.9, */*;q=0.5")
	if hl.config.Http.Token != "" {
		req.Header.Set("Authorization", "Bearer "+hl.config.Http.Token)
	}

	res, err := hl.client.Do(req)
	if err != nil {
		log.ErrorContext(ctx, "Http get request failed", "error", err)
		return nil, "", err
	}
	defer func() {
		err = errors.Join(err, res.Body.Close())
	}()

	if res.StatusCode != http.StatusOK {
		log.ErrorContext(ctx, "Http get request failed", "status", res.Status)
		sErr := ErrHttpStatus{Url: u, Status: res.StatusCode}
		if res.StatusCode >= 400 && res.StatusCode < 500 && res.StatusCode != http.StatusTooManyRequests {
			return nil, "", helper.Permanent(sErr)
		}
		return nil, "", sErr
	}

	body, err = io.ReadAll(res.Body)
	if err != nil {
		log.ErrorContext(ctx, "Could not read response body", "error", err)
		return nil, "", err
	}
	return body, getNextLink(res.Header), nil
}

// Shutdown stops the loader
func (hl *HttpLoader) Shutdown(ctx context.Context) {
	log := logger.FromContext(ctx)
	select {
	case hl.done <- struct{}{}:
		log.DebugContext(ctx, "Sending signal to shut down http loader")
	default:
	}
}

// getNextLink returns the url to the next page of
// a paginated http response provided in the passed response header.
func getNextLink(header http.Header) string {
	link := header.Get(linkHeader)
	if link == "" {
		return ""
	}

	for _, link := range strings.Split(link, ",") {
		target, params, ok := strings.Cut(link, ";")
		if !ok {
			continue
		}
		for _, param := range strings.Split(params, ";") {
			key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || key != "rel" {
				continue
			}
			for _, rel := range strings.Fields(strings.Trim(value, "\"")) {
				if rel == linkNext {
					return strings.Trim(target, "< >")
				}
			}
		}
	}
	return ""
}

// resolveLink resolves a possibly relative link against the url of the current page
func resolveLink(current, link string) (string, error) {
	if link == "" {
		return "", nil
	}
	base, err := url.Parse(current)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(link)
	if err != nil {
		return "", err
	}
	next := base.ResolveReference(ref).String()
	if next == current {
		return "", fmt.Errorf("next page links to itself")
	}
	return next, nil
}
