// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// Family is the IP version a traceroute is run with.
type Family int

// Family constants for the traceroute.
const (
	// FamilyAuto lets the resolver pick the family, preferring IPv4.
	FamilyAuto Family = 0
	IPv4       Family = 4
	IPv6       Family = 6
)

// ParseFamily parses "ipv4", "ipv6", "4", "6" or "auto" (and the empty string).
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FamilyAuto, nil
	case "4", "ipv4", "ip4":
		return IPv4, nil
	case "6", "ipv6", "ip6":
		return IPv6, nil
	default:
		return FamilyAuto, fmt.Errorf("invalid address family: %q", s)
	}
}

func (f Family) String() string {
	switch f {
	case FamilyAuto:
		return "auto"
	case IPv4:
		return "ipv4"
	case IPv6:
		return "ipv6"
	default:
		return "unknown"
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (f Family) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *Family) UnmarshalText(b []byte) error {
	v, err := ParseFamily(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f Family) IsValid() bool {
	return f == FamilyAuto || f == IPv4 || f == IPv6
}

// Protocol returns the IANA protocol number of the family's ICMP flavour.
func (f Family) Protocol() int {
	if f == IPv6 {
		return ipv6.ICMPTypeEchoRequest.Protocol()
	}
	return ipv4.ICMPTypeEcho.Protocol()
}

func (f Family) echoRequest() uint8 {
	if f == IPv6 {
		return uint8(ipv6.ICMPTypeEchoRequest)
	}
	return uint8(ipv4.ICMPTypeEcho)
}

func (f Family) echoReply() uint8 {
	if f == IPv6 {
		return uint8(ipv6.ICMPTypeEchoReply)
	}
	return uint8(ipv4.ICMPTypeEchoReply)
}

func (f Family) timeExceeded() uint8 {
	if f == IPv6 {
		return uint8(ipv6.ICMPTypeTimeExceeded)
	}
	return uint8(ipv4.ICMPTypeTimeExceeded)
}

func familyOf(addr netip.Addr) Family {
	if addr.Unmap().Is4() {
		return IPv4
	}
	return IPv6
}

// Destination is the resolved target of a traceroute.
// It is set once when the session starts and never mutated.
type Destination struct {
	// Family is the address family used to probe the destination.
	Family Family `json:"family" yaml:"family"`
	// Addr is the resolved address of the destination.
	Addr netip.Addr `json:"addr" yaml:"addr"`
	// Input is the host or address as given by the user.
	Input string `json:"input" yaml:"input"`
}

func (d Destination) String() string {
	if d.Input == "" || d.Input == d.Addr.String() {
		return d.Addr.String()
	}
	return fmt.Sprintf("%s (%s)", d.Input, d.Addr)
}

// Options contains the optional configuration for the traceroute.
type Options struct {
	// MaxTTL is the maximum TTL to use for the traceroute.
	MaxTTL int `json:"maxHops" yaml:"maxHops" mapstructure:"maxHops"`
	// Timeout is the timeout of a single probe, measured from send to receive.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	// Probes is the number of probes sent per hop.
	Probes int `json:"probes" yaml:"probes" mapstructure:"probes"`
	// ProbeInterval is the pause between two probes of the same hop.
	ProbeInterval time.Duration `json:"probeInterval" yaml:"probeInterval" mapstructure:"probeInterval"`
	// HopFloor is the minimum duration of a hop that answered from the same
	// address as the previous hop. Zero disables the pacing.
	HopFloor time.Duration `json:"hopFloor" yaml:"hopFloor" mapstructure:"hopFloor"`
	// PacketSize is the size of the echo request payload in bytes.
	PacketSize int `json:"packetSize" yaml:"packetSize" mapstructure:"packetSize"`
	// Identifier is the ICMP identifier of the session.
	// Zero derives it from the process id.
	Identifier uint16 `json:"identifier" yaml:"identifier" mapstructure:"identifier"`
	// Family forces the address family of the destination.
	Family Family `json:"family" yaml:"family" mapstructure:"family"`
}

const (
	DefaultMaxTTL        = 30
	DefaultTimeout       = 1000 * time.Millisecond
	DefaultProbes        = 3
	DefaultProbeInterval = 5 * time.Millisecond
	DefaultHopFloor      = 1000 * time.Millisecond
	DefaultPacketSize    = 80

	// maxPacketSize is the largest ICMP payload that fits into an IPv4 datagram.
	maxPacketSize = 65507
)

// DefaultOptions returns the options the traceroute runs with if nothing else is configured.
func DefaultOptions() Options {
	return Options{
		MaxTTL:        DefaultMaxTTL,
		Timeout:       DefaultTimeout,
		Probes:        DefaultProbes,
		ProbeInterval: DefaultProbeInterval,
		HopFloor:      DefaultHopFloor,
		PacketSize:    DefaultPacketSize,
	}
}

func (o *Options) Validate() error {
	var err error
	if o.MaxTTL < 1 || o.MaxTTL > 255 {
		err = errors.Join(err, fmt.Errorf("invalid max hops: %d, must be between 1 and 255", o.MaxTTL))
	}
	if o.Timeout <= 0 {
		err = errors.Join(err, fmt.Errorf("invalid probe timeout: %v, must be greater than 0", o.Timeout))
	}
	if o.Probes < 1 {
		err = errors.Join(err, fmt.Errorf("invalid probe count: %d, must be at least 1", o.Probes))
	}
	if o.ProbeInterval < 0 {
		err = errors.Join(err, fmt.Errorf("invalid probe interval: %v", o.ProbeInterval))
	}
	if o.HopFloor < 0 {
		err = errors.Join(err, fmt.Errorf("invalid hop floor: %v", o.HopFloor))
	}
	if o.PacketSize < 0 || o.PacketSize > maxPacketSize {
		err = errors.Join(err, fmt.Errorf("invalid packet size: %d, must be between 0 and %d", o.PacketSize, maxPacketSize))
	}
	if !o.Family.IsValid() {
		err = errors.Join(err, fmt.Errorf("invalid address family: %d", o.Family))
	}
	return err
}

// identifier returns the ICMP identifier of a session run with these options.
func (o *Options) identifier() uint16 {
	if o.Identifier != 0 {
		return o.Identifier
	}
	return uint16(os.Getpid() & 0xffff) // #nosec G115 // masked to 16 bits
}

// Probe is a single echo request and its reply, if any.
type Probe struct {
	// Seq is the ICMP sequence number of the echo request.
	Seq uint16
	// ID is the ICMP identifier of the echo request.
	ID uint16
	// SentAt is the time the echo request was sent.
	SentAt time.Time
	// ReceivedAt is the time the reply was received. It is zero if the probe missed.
	ReceivedAt time.Time
	// Delay is the round trip time of the probe.
	Delay time.Duration
	// Err is the reason the probe missed.
	Err error
}

// Success reports whether a matching reply was received in time.
func (p Probe) Success() bool {
	return !p.ReceivedAt.IsZero()
}

// Milliseconds returns the round trip time in milliseconds.
func (p Probe) Milliseconds() float64 {
	return float64(p.Delay) / float64(time.Millisecond)
}

func (p Probe) MarshalJSON() ([]byte, error) {
	out := struct {
		Seq     uint16   `json:"seq"`
		DelayMs *float64 `json:"delayMs"`
		Error   string   `json:"error,omitempty"`
	}{Seq: p.Seq}
	if p.Success() {
		ms := p.Milliseconds()
		out.DelayMs = &ms
	}
	if p.Err != nil {
		out.Error = p.Err.Error()
	}
	return json.Marshal(out)
}

// Hop aggregates all probes sent with the same TTL.
type Hop struct {
	// TTL is the time to live the probes were sent with.
	TTL int `json:"ttl"`
	// Probes are the probes of the hop in the order they were sent.
	Probes []Probe `json:"probes"`
	// Addr is the address of the first reply. It is invalid if all probes missed.
	Addr netip.Addr `json:"addr"`
	// Terminal is true if the destination itself replied.
	Terminal bool `json:"reached"`
	// AddrChanged is true if the hop replied from another address than the previous hop.
	AddrChanged bool `json:"addrChanged"`
}

// Delays returns the round trip times of the successful probes.
func (h Hop) Delays() []time.Duration {
	delays := make([]time.Duration, 0, len(h.Probes))
	for _, p := range h.Probes {
		if p.Success() {
			delays = append(delays, p.Delay)
		}
	}
	return delays
}

// Lost returns the number of probes without a reply.
func (h Hop) Lost() int {
	lost := 0
	for _, p := range h.Probes {
		if !p.Success() {
			lost++
		}
	}
	return lost
}

// Reachable reports whether any probe of the hop got a reply.
func (h Hop) Reachable() bool {
	return h.Addr.IsValid()
}

func (h Hop) String() string {
	reached := ""
	if h.Terminal {
		reached = "  (reached)"
	}
	addr := "*"
	if h.Reachable() {
		addr = h.Addr.String()
	}

	var b strings.Builder
	for _, p := range h.Probes {
		if p.Success() {
			fmt.Fprintf(&b, "  %.3fms", p.Milliseconds())
			continue
		}
		b.WriteString("  *")
	}
	return fmt.Sprintf("%-2d  %-39s%s%s", h.TTL, addr, b.String(), reached)
}

// Result is the outcome of a traceroute to one destination.
type Result struct {
	Destination Destination `json:"destination"`
	Hops        []Hop       `json:"hops"`
	// Reached is true if the last hop is the destination.
	Reached bool `json:"reached"`
}

// Session is the state of a single traceroute run.
// It is only ever touched by the goroutine running the hop loop.
type Session struct {
	dest   Destination
	maxTTL int
	ttl    int
	id     uint16
	seq    uint16
	// lastAddr is the address of the previously reported hop.
	lastAddr netip.Addr
}

func newSession(dest Destination, opts *Options) *Session {
	return &Session{
		dest:   dest,
		maxTTL: opts.MaxTTL,
		id:     opts.identifier(),
	}
}

// Destination returns the destination of the session.
func (s *Session) Destination() Destination { return s.dest }

// TTL returns the TTL currently probed.
func (s *Session) TTL() int { return s.ttl }

// nextSeq returns the sequence number of the next probe.
func (s *Session) nextSeq() uint16 {
	s.seq++
	return s.seq
}
