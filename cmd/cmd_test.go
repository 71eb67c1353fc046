// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/geotrace/internal/traceroute"
	"github.com/telekom/geotrace/pkg/config"
	"github.com/telekom/geotrace/pkg/geo"
)

var (
	testRouter = netip.MustParseAddr("192.0.2.1")
	testTarget = netip.MustParseAddr("203.0.113.7")
)

// fakeClient answers every traceroute with a two hop path.
func fakeClient(t *testing.T) *traceroute.ClientMock {
	t.Helper()
	client := &traceroute.ClientMock{
		RunFunc: func(ctx context.Context, target string, opts *traceroute.Options, r traceroute.Reporter) (traceroute.Result, error) {
			dest := traceroute.Destination{Family: traceroute.IPv4, Addr: testTarget, Input: target}
			sent := time.Unix(1700000000, 0)
			hops := []traceroute.Hop{
				{TTL: 1, Addr: testRouter, AddrChanged: true, Probes: []traceroute.Probe{
					{Seq: 1, SentAt: sent, ReceivedAt: sent.Add(time.Millisecond), Delay: time.Millisecond},
				}},
				{TTL: 2, Addr: testTarget, AddrChanged: true, Terminal: true, Probes: []traceroute.Probe{
					{Seq: 2, SentAt: sent, ReceivedAt: sent.Add(2 * time.Millisecond), Delay: 2 * time.Millisecond},
				}},
			}
			if err := r.Start(ctx, dest, *opts); err != nil {
				return traceroute.Result{}, err
			}
			for _, h := range hops {
				if err := r.Report(ctx, h); err != nil {
					return traceroute.Result{}, err
				}
			}
			res := traceroute.Result{Destination: dest, Hops: hops, Reached: true}
			return res, r.Finish(ctx, res)
		},
	}
	orig := newClient
	newClient = func() traceroute.Client { return client }
	t.Cleanup(func() { newClient = orig })
	return client
}

// isolate keeps the test away from the config file and databases of the user.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GEOTRACE_GEO_DIRECTORY", t.TempDir())
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := BuildCmd("1.2.3")
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(args)
	err := c.ExecuteContext(t.Context())
	return out.String(), err
}

func TestRoot_Text(t *testing.T) {
	isolate(t)
	fakeClient(t)

	out, err := execute(t, "--no-dns", "example.com")
	require.NoError(t, err)

	want := "Traceroute to example.com (203.0.113.7)\n\n" +
		" 1  192.0.2.1  1.000ms\n" +
		" 2  203.0.113.7  2.000ms\n"
	assert.Equal(t, want, out)
}

func TestRoot_JSON(t *testing.T) {
	isolate(t)
	fakeClient(t)

	out, err := execute(t, "--no-dns", "--format", "json", "-p", "example.com")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	var hop map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &hop))
	assert.Equal(t, "203.0.113.7", hop["addr"])
	assert.Equal(t, true, hop["reached"])
}

func TestRoot_Options(t *testing.T) {
	isolate(t)
	client := fakeClient(t)

	_, err := execute(t, "--no-dns", "-t", "12", "--probes", "1", "--timeout", "250ms", "--hop-floor", "0", "-6", "example.com")
	require.NoError(t, err)

	calls := client.RunCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "example.com", calls[0].Target)
	assert.Equal(t, 12, calls[0].Opts.MaxTTL)
	assert.Equal(t, 1, calls[0].Opts.Probes)
	assert.Equal(t, 250*time.Millisecond, calls[0].Opts.Timeout)
	assert.Equal(t, time.Duration(0), calls[0].Opts.HopFloor)
	assert.Equal(t, traceroute.DefaultProbeInterval, calls[0].Opts.ProbeInterval)
	assert.Equal(t, traceroute.IPv6, calls[0].Opts.Family)
}

func TestRoot_ConfigFile(t *testing.T) {
	isolate(t)
	client := fakeClient(t)
	path := filepath.Join(t.TempDir(), "geotrace.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trace:\n  maxHops: 7\ndns:\n  enabled: false\n"), 0o600))

	_, err := execute(t, "-c", path, "example.com")
	require.NoError(t, err)
	assert.Equal(t, 7, client.RunCalls()[0].Opts.MaxTTL)

	_, err = execute(t, "-c", path, "-t", "9", "example.com")
	require.NoError(t, err)
	assert.Equal(t, 9, client.RunCalls()[1].Opts.MaxTTL, "flags take precedence over the config file")
}

func TestRoot_MetricsFile(t *testing.T) {
	isolate(t)
	fakeClient(t)
	path := filepath.Join(t.TempDir(), "geotrace.prom")

	_, err := execute(t, "--no-dns", "--metrics-file", path, "example.com")
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `geotrace_hops{target="example.com"} 2`)
	assert.Contains(t, string(b), `geotrace_destination_reached{target="example.com"} 1`)
	assert.NotContains(t, string(b), "go_goroutines")
}

func TestRoot_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "no host", args: []string{"--no-dns"}, wantErr: ErrNoTarget},
		{name: "host twice", args: []string{"-p", "example.com", "example.org"}, wantErr: ErrAmbiguousTarget},
		{name: "both families", args: []string{"-4", "-6", "example.com"}, wantErr: ErrConflictingFamily},
		{name: "explicit database missing", args: []string{"-d", "IP2LOCATION-MISSING.BIN", "example.com"}, wantErr: geo.ErrDatabaseNotFound},
		{name: "database without BIN extension", args: []string{"-d", "locations.csv", "example.com"}, wantErr: geo.ErrNotBIN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			client := fakeClient(t)

			_, err := execute(t, tt.args...)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, client.RunCalls())
		})
	}
}

func TestRoot_InvalidOptions(t *testing.T) {
	isolate(t)
	fakeClient(t)

	_, err := execute(t, "--format", "xml", "example.com")
	assert.Error(t, err)

	_, err = execute(t, "-t", "0", "example.com")
	assert.Error(t, err)

	_, err = execute(t, "-o", "planet", "example.com")
	assert.Error(t, err)
}

func TestRoot_Version(t *testing.T) {
	isolate(t)
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
}

func TestServe_NoTargets(t *testing.T) {
	isolate(t)
	fakeClient(t)

	_, err := execute(t, "serve")
	assert.ErrorIs(t, err, ErrNoMonitorTargets)
}

func TestServe_InvalidConfig(t *testing.T) {
	isolate(t)
	fakeClient(t)

	_, err := execute(t, "serve", "--targets", "example.com", "--listen", "localhost")
	assert.Error(t, err)

	_, err = execute(t, "serve", "--targets-url", "ftp://example.com/targets.yaml")
	assert.ErrorIs(t, err, config.ErrInvalidLoaderHttpURL)

	_, err = execute(t, "serve", "--targets-url", "https://example.com/targets.yaml", "--targets-file", "targets.yaml")
	assert.ErrorIs(t, err, config.ErrAmbiguousLoader)
}

func TestTraceFlags_Target(t *testing.T) {
	tests := []struct {
		name    string
		flags   traceFlags
		args    []string
		want    string
		wantErr error
	}{
		{name: "argument", args: []string{"example.com"}, want: "example.com"},
		{name: "flag", flags: traceFlags{ip: "192.0.2.1"}, want: "192.0.2.1"},
		{name: "both", flags: traceFlags{ip: "192.0.2.1"}, args: []string{"example.com"}, wantErr: ErrAmbiguousTarget},
		{name: "none", wantErr: ErrNoTarget},
		{name: "empty argument", args: []string{""}, wantErr: ErrNoTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.flags.target(tt.args)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTraceFlags_Apply(t *testing.T) {
	v := viper.New()
	tf := traceFlags{ipv4: true, noDNS: true}
	require.NoError(t, tf.apply(v))
	assert.Equal(t, "ipv4", v.GetString("trace.family"))
	assert.False(t, v.GetBool("dns.enabled"))
}
