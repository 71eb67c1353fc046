// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/telekom/geotrace/internal/logger"
	"github.com/telekom/geotrace/internal/traceroute"
	"github.com/telekom/geotrace/pkg/config"
)

// newClient creates the client the traceroutes are run with
var newClient = traceroute.NewClient

// NewCmdRoot creates a new root command
func NewCmdRoot(version string) *cobra.Command {
	return newCmdRoot(version, viper.New())
}

// newCmdRoot creates the root command binding its flags to v.
func newCmdRoot(version string, v *viper.Viper) *cobra.Command {
	var cfgFile string
	tf := &traceFlags{}

	rootCmd := &cobra.Command{
		Use:   "geotrace [host]",
		Short: "geotrace, a traceroute showing the geolocation of every hop",
		Long: "geotrace traces the route to a host with ICMP echo requests and shows\n" +
			"the country, region and city of every hop from an IP2Location BIN database.\n" +
			"Sending raw ICMP requires root or the CAP_NET_RAW capability.",
		Example: "  geotrace example.com\n" +
			"  geotrace -p 8.8.8.8 -d IP2LOCATION-LITE-DB11.IPV6.BIN -o country_code,city_name,isp\n" +
			"  geotrace -6 --format json example.com",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cmd.Context(), v, cfgFile); err != nil {
				return err
			}
			return tf.apply(v)
		},
		RunE: runTrace(v, tf),
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.geotrace.yaml)")
	registerTraceFlags(rootCmd, v, tf)
	registerTargetFlags(rootCmd, tf)

	return rootCmd
}

// Execute adds all child commands to the root command
// and executes the cmd tree
func Execute(version string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := BuildCmd(version)
	if err := cmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func BuildCmd(version string) *cobra.Command {
	v := viper.New()
	cmd := newCmdRoot(version, v)
	cmd.AddCommand(NewCmdServe(v))
	return cmd
}

func initConfig(ctx context.Context, v *viper.Viper, cfgFile string) error {
	home, err := os.UserHomeDir()
	if err != nil && cfgFile == "" {
		home = "."
	}
	config.InitViper(v, cfgFile, home)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger.FromContext(ctx).DebugContext(ctx, "Using config file", "path", v.ConfigFileUsed())
	return nil
}
