// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/telekom/geotrace/internal/traceroute"
	"github.com/telekom/geotrace/pkg/report"
)

var (
	// ErrNoTarget is returned if no host to trace is given
	ErrNoTarget = errors.New("no host given, specify an IP address or hostname")
	// ErrAmbiguousTarget is returned if the host is given as argument and with --ip
	ErrAmbiguousTarget = errors.New("the host can either be given as argument or with --ip")
	// ErrConflictingFamily is returned if both address families are forced
	ErrConflictingFamily = errors.New("--ipv4 and --ipv6 are mutually exclusive")
)

// traceFlags are the flags that are not bound to a configuration key.
type traceFlags struct {
	ip    string
	ipv4  bool
	ipv6  bool
	noDNS bool
}

// registerTraceFlags adds the flags configuring a traceroute to the command and its children.
func registerTraceFlags(cmd *cobra.Command, v *viper.Viper, tf *traceFlags) {
	opts := traceroute.DefaultOptions()
	fs := cmd.PersistentFlags()

	fs.IntP("ttl", "t", opts.MaxTTL, "Set the max number of hops.")
	fs.Duration("timeout", opts.Timeout, "Timeout of a single probe.")
	fs.Int("probes", opts.Probes, "Number of probes sent per hop.")
	fs.Duration("probe-interval", opts.ProbeInterval, "Pause between two probes of the same hop.")
	fs.Duration("hop-floor", opts.HopFloor, "Minimum duration of a hop answering from the same address as the previous one, 0 disables the pacing.")
	fs.Int("packet-size", opts.PacketSize, "Size of the echo request payload in bytes.")
	fs.BoolVarP(&tf.ipv4, "ipv4", "4", false, "Force IPv4.")
	fs.BoolVarP(&tf.ipv6, "ipv6", "6", false, "Force IPv6.")

	fs.StringP("database", "d", "", "Specify the path of IP2Location BIN database file.")
	fs.StringSliceP("output", "o", nil, "Specify the result columns to be output, e.g. country_code,region_name,city_name.")
	fs.BoolP("all", "a", false, "Output all available columns.")

	fs.BoolVar(&tf.noDNS, "no-dns", false, "Do not resolve the host names of the hops.")
	fs.String("nameserver", "", "Send the reverse lookups to this nameserver instead of the system resolver.")
	fs.String("format", string(report.FormatText), "Output format, one of text, json or yaml.")
	fs.String("metrics-file", "", "Write the metrics of the traceroute to this file in the node exporter textfile format.")

	bind(v, fs, map[string]string{
		"trace.maxHops":       "ttl",
		"trace.timeout":       "timeout",
		"trace.probes":        "probes",
		"trace.probeInterval": "probe-interval",
		"trace.hopFloor":      "hop-floor",
		"trace.packetSize":    "packet-size",
		"geo.database":        "database",
		"geo.output":          "output",
		"geo.all":             "all",
		"dns.nameserver":      "nameserver",
		"output.format":       "format",
		"metrics.textfile":    "metrics-file",
	})
}

// registerTargetFlags adds the flags selecting the host to the command.
func registerTargetFlags(cmd *cobra.Command, tf *traceFlags) {
	cmd.Flags().StringVarP(&tf.ip, "ip", "p", "", "Specify an IP address or hostname.")
}

// bind binds the flags to the configuration keys.
func bind(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %q: %v", name, err))
		}
	}
}

// apply sets the configuration keys of the flags that have no direct counterpart.
func (tf *traceFlags) apply(v *viper.Viper) error {
	switch {
	case tf.ipv4 && tf.ipv6:
		return ErrConflictingFamily
	case tf.ipv4:
		v.Set("trace.family", traceroute.IPv4.String())
	case tf.ipv6:
		v.Set("trace.family", traceroute.IPv6.String())
	}

	if tf.noDNS {
		v.Set("dns.enabled", false)
	}
	return nil
}

// target returns the host to trace.
func (tf *traceFlags) target(args []string) (string, error) {
	switch {
	case tf.ip != "" && len(args) > 0:
		return "", ErrAmbiguousTarget
	case tf.ip != "":
		return tf.ip, nil
	case len(args) > 0 && args[0] != "":
		return args[0], nil
	default:
		return "", ErrNoTarget
	}
}
