// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"github.com/telekom/geotrace/internal/logger"
	"github.com/telekom/geotrace/pkg/report"
)

const maxRetries = 5

var dnsName = regexp.MustCompile(`^([a-z0-9]([a-z0-9\-]{0,61}[a-z0-9])?\.)*[a-z0-9]([a-z0-9\-]{0,61}[a-z0-9])?$`)

// Validate validates the configuration of a single traceroute
func (c *Config) Validate(ctx context.Context) (err error) {
	log := logger.FromContext(ctx)

	if vErr := c.Trace.Validate(); vErr != nil {
		log.ErrorContext(ctx, "The traceroute options are invalid", "error", vErr)
		err = errors.Join(err, fmt.Errorf("%w: %w", ErrInvalidTrace, vErr))
	}

	if vErr := c.Geo.Validate(); vErr != nil {
		log.ErrorContext(ctx, "The geolocation configuration is invalid", "error", vErr)
		err = errors.Join(err, vErr)
	}

	if c.DNS.Retry.Count < 0 || c.DNS.Retry.Count > maxRetries {
		log.ErrorContext(ctx, "The amount of dns retries should be between 0 and 5", "retryCount", c.DNS.Retry.Count)
		err = errors.Join(err, fmt.Errorf("%w: retry count %d", ErrInvalidDNS, c.DNS.Retry.Count))
	}
	if c.DNS.Timeout < 0 {
		log.ErrorContext(ctx, "The dns timeout cannot be negative", "timeout", c.DNS.Timeout)
		err = errors.Join(err, fmt.Errorf("%w: negative timeout", ErrInvalidDNS))
	}

	if _, vErr := report.ParseFormat(string(c.Output.Format)); vErr != nil {
		log.ErrorContext(ctx, "The output format is invalid", "format", c.Output.Format)
		err = errors.Join(err, vErr)
	}

	if c.HasTelemetry() {
		if vErr := c.Telemetry.Validate(ctx); vErr != nil {
			log.ErrorContext(ctx, "The telemetry configuration is invalid")
			err = errors.Join(err, vErr)
		}
	}

	if err != nil {
		return fmt.Errorf("validation of configuration failed: %w", err)
	}
	return nil
}

// ValidateServe additionally validates the configuration of the monitoring agent
func (c *Config) ValidateServe(ctx context.Context) (err error) {
	log := logger.FromContext(ctx)
	err = c.Validate(ctx)

	if c.Name != "" && !dnsName.MatchString(c.Name) {
		log.ErrorContext(ctx, "The name of the instance must be DNS compliant", "name", c.Name)
		err = errors.Join(err, ErrInvalidName)
	}

	if vErr := c.Monitor.Validate(); vErr != nil {
		log.ErrorContext(ctx, "The monitor configuration is invalid", "error", vErr)
		err = errors.Join(err, vErr)
	}

	if c.HasLoader() {
		if vErr := c.Loader.Validate(ctx); vErr != nil {
			log.ErrorContext(ctx, "The loader configuration is invalid")
			err = errors.Join(err, vErr)
		}
	}

	if vErr := c.Api.Validate(); vErr != nil {
		log.ErrorContext(ctx, "The api configuration is invalid", "error", vErr)
		err = errors.Join(err, vErr)
	}
	return err
}

// Validate validates the geolocation configuration
func (c *GeoConfig) Validate() error {
	for _, f := range c.Fields {
		if !f.IsValid() {
			return fmt.Errorf("%w: unknown output column %d", ErrInvalidGeo, int(f))
		}
	}
	return nil
}

// Validate validates the loader configuration
func (c *LoaderConfig) Validate(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if c.Interval < 0 {
		log.ErrorContext(ctx, "The loader interval should be equal or above 0", "interval", c.Interval)
		return ErrInvalidLoaderInterval
	}

	switch {
	case c.File.Path != "" && c.Http.Url != "":
		log.ErrorContext(ctx, "Only one of the loader file path and url can be set")
		return ErrAmbiguousLoader
	case c.Http.Url != "":
		return c.Http.Validate(ctx)
	case c.File.Path == "":
		log.ErrorContext(ctx, "The loader file path cannot be empty")
		return ErrInvalidLoaderFilePath
	}
	return nil
}

// Validate validates the http loader configuration
func (c *HttpLoaderConfig) Validate(ctx context.Context) error {
	log := logger.FromContext(ctx)

	u, err := url.ParseRequestURI(c.Url)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		log.ErrorContext(ctx, "The loader http url must be an absolute http or https url", "url", c.Url)
		return fmt.Errorf("%w: %q", ErrInvalidLoaderHttpURL, c.Url)
	}

	if c.RetryCfg.Count < 0 || c.RetryCfg.Count > maxRetries {
		log.ErrorContext(ctx, "The amount of loader retries should be between 0 and 5", "retryCount", c.RetryCfg.Count)
		return ErrInvalidLoaderHttpRetryCount
	}
	return nil
}
