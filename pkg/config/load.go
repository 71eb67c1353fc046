// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/telekom/geotrace/internal/traceroute"
	"github.com/telekom/geotrace/pkg/geo"
	"github.com/telekom/geotrace/pkg/monitor"
	"github.com/telekom/geotrace/pkg/report"
)

const (
	defaultAPIAddress = ":9090"
	defaultDNSTimeout = 2 * time.Second
	defaultDNSRetries = 2
	defaultDNSDelay   = 100 * time.Millisecond

	defaultHttpTimeout = 30 * time.Second
	defaultHttpRetries = 3
	defaultHttpDelay   = time.Second
)

// SetDefaults registers the default values of all settings.
// Settings without default can only be overridden by the environment
// if they are present in the config file.
func SetDefaults(v *viper.Viper) {
	opts := traceroute.DefaultOptions()
	v.SetDefault("name", "")
	v.SetDefault("trace.maxHops", opts.MaxTTL)
	v.SetDefault("trace.timeout", opts.Timeout)
	v.SetDefault("trace.probes", opts.Probes)
	v.SetDefault("trace.probeInterval", opts.ProbeInterval)
	v.SetDefault("trace.hopFloor", opts.HopFloor)
	v.SetDefault("trace.packetSize", opts.PacketSize)
	v.SetDefault("trace.identifier", 0)
	v.SetDefault("trace.family", traceroute.FamilyAuto.String())

	v.SetDefault("geo.database", "")
	v.SetDefault("geo.directory", geo.DefaultDirectory())
	v.SetDefault("geo.all", false)
	v.SetDefault("geo.output", []string{})

	v.SetDefault("dns.enabled", true)
	v.SetDefault("dns.nameserver", "")
	v.SetDefault("dns.timeout", defaultDNSTimeout)
	v.SetDefault("dns.retry.count", defaultDNSRetries)
	v.SetDefault("dns.retry.delay", defaultDNSDelay)

	v.SetDefault("output.format", string(report.FormatText))
	v.SetDefault("metrics.textfile", "")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.exporter", "")
	v.SetDefault("telemetry.url", "")
	v.SetDefault("telemetry.token", "")

	v.SetDefault("api.address", defaultAPIAddress)
	v.SetDefault("monitor.targets", []string{})
	v.SetDefault("monitor.interval", monitor.DefaultInterval)
	v.SetDefault("loader.interval", time.Duration(0))
	v.SetDefault("loader.file.path", "")
	v.SetDefault("loader.http.url", "")
	v.SetDefault("loader.http.token", "")
	v.SetDefault("loader.http.timeout", defaultHttpTimeout)
	v.SetDefault("loader.http.retry.count", defaultHttpRetries)
	v.SetDefault("loader.http.retry.delay", defaultHttpDelay)
}

// InitViper configures v to read the config file and the environment.
// Without a config file .geotrace.yaml is searched in the home directory.
func InitViper(v *viper.Viper, cfgFile, home string) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".geotrace")
	}

	v.SetEnvPrefix("geotrace")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
}

// Load decodes the settings of v into a configuration.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return cfg, nil
}
