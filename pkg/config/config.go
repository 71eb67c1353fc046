// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package config holds the configuration of geotrace.
package config

import (
	"time"

	"github.com/telekom/geotrace/internal/helper"
	"github.com/telekom/geotrace/internal/traceroute"
	"github.com/telekom/geotrace/pkg/api"
	"github.com/telekom/geotrace/pkg/geo"
	"github.com/telekom/geotrace/pkg/metrics"
	"github.com/telekom/geotrace/pkg/monitor"
	"github.com/telekom/geotrace/pkg/rdns"
	"github.com/telekom/geotrace/pkg/report"
)

type Config struct {
	// Name identifies the instance in the exported metrics.
	Name string `yaml:"name" mapstructure:"name"`
	// Trace are the options of every traceroute
	Trace traceroute.Options `yaml:"trace" mapstructure:"trace"`
	// Geo is the configuration of the geolocation lookups
	Geo GeoConfig `yaml:"geo" mapstructure:"geo"`
	// DNS is the configuration of the reverse lookups
	DNS rdns.Config `yaml:"dns" mapstructure:"dns"`
	// Output is the configuration of the report
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	// Metrics is the configuration of the metrics textfile
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	// Telemetry is the configuration for the telemetry
	Telemetry metrics.Config `yaml:"telemetry" mapstructure:"telemetry"`
	// Api is the configuration for the api server
	Api api.Config `yaml:"api" mapstructure:"api"`
	// Monitor is the configuration of the periodic traceroutes
	Monitor monitor.Config `yaml:"monitor" mapstructure:"monitor"`
	// Loader is the configuration for the loader of the monitor targets
	Loader LoaderConfig `yaml:"loader" mapstructure:"loader"`
}

// GeoConfig is the configuration of the geolocation database
type GeoConfig struct {
	// Database is the name or path of the IP2Location BIN file.
	Database string `yaml:"database" mapstructure:"database"`
	// Directory is searched for the database if it is not found as given.
	Directory string `yaml:"directory" mapstructure:"directory"`
	// Projection selects the shown columns
	geo.Projection `yaml:",inline" mapstructure:",squash"`
}

// OutputConfig is the configuration of the report
type OutputConfig struct {
	Format report.Format `yaml:"format" mapstructure:"format"`
}

// MetricsConfig is the configuration of the metrics textfile
type MetricsConfig struct {
	// Textfile is the path the metrics of a traceroute are written to.
	// Empty disables the textfile.
	Textfile string `yaml:"textfile" mapstructure:"textfile"`
}

// LoaderConfig is the configuration for loader
type LoaderConfig struct {
	// Interval is the time between two loads of the targets.
	// Zero loads them once.
	Interval time.Duration    `yaml:"interval" mapstructure:"interval"`
	File     FileLoaderConfig `yaml:"file" mapstructure:"file"`
	Http     HttpLoaderConfig `yaml:"http" mapstructure:"http"`
}

// FileLoaderConfig is the configuration for the file loader
type FileLoaderConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// HttpLoaderConfig is the configuration
// for the http loader
type HttpLoaderConfig struct {
	// Url of the targets document. Paginated responses are
	// followed along the next relation of the Link header.
	Url string `yaml:"url" mapstructure:"url"`
	// Token is sent as bearer token if set.
	Token    string             `yaml:"token" mapstructure:"token"`
	Timeout  time.Duration      `yaml:"timeout" mapstructure:"timeout"`
	RetryCfg helper.RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// HasLoader returns true if the monitor targets are loaded from a file or url
func (c *Config) HasLoader() bool {
	return c.Loader.File.Path != "" || c.Loader.Http.Url != ""
}

// HasHttpLoader returns true if the monitor targets are loaded from a url
func (c *Config) HasHttpLoader() bool {
	return c.Loader.Http.Url != ""
}

// HasTelemetry returns true if the config has telemetry enabled
func (c *Config) HasTelemetry() bool {
	return c.Telemetry.Enabled
}

// HasTextfile returns true if the metrics are written to a textfile
func (c *Config) HasTextfile() bool {
	return c.Metrics.Textfile != ""
}
