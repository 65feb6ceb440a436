package netdevice

import (
	"context"
	"testing"

	"github.com/alexpitcher/netline/internal/transport"
)

func newTestProbe(exchanges []transport.Exchange) *Device {
	opts := Options{Host: "probe", Username: "admin", Timeout: testTimeout}
	probe := newDevice(opts.withDefaults(), probeDescriptor)
	probe.WithTransport(transport.NewSimulator(exchanges))
	return probe
}

// TestAutodetectIOS is scenario S4: a "show version" response carrying the
// Cisco IOS signature identifies the family on the very first probe.
func TestAutodetectIOS(t *testing.T) {
	sim := []transport.Exchange{
		{Match: "", Reply: "\r\nR1>"},                                     // find_prompt
		{Match: "terminal length 0", Reply: "terminal length 0\r\nR1>"},   // disable_paging
		{Match: "show version", Reply: "show version\r\nCisco IOS Software, Catalyst L3 Switch, Version 15.2(7)E\r\nR1>"},
	}
	probe := newTestProbe(sim)

	family, err := autodetectProbe(context.Background(), probe, "probe")
	if err != nil {
		t.Fatalf("autodetectProbe() error = %v", err)
	}
	if family != "cisco_ios" {
		t.Errorf("autodetectProbe() family = %q, want %q", family, "cisco_ios")
	}
}

// TestAutodetectMiss is scenario S5: every probe command is rejected, so
// autodetectProbe returns an empty family and no error.
func TestAutodetectMiss(t *testing.T) {
	sim := []transport.Exchange{
		{Match: "", Reply: "\r\nR1>"},
		{Match: "terminal length 0", Reply: "terminal length 0\r\nR1>"},
	}
	for _, rule := range orderedRules() {
		sim = append(sim, transport.Exchange{Match: rule.Cmd, Reply: rule.Cmd + "\r\n% Invalid input detected\r\nR1>"})
	}
	probe := newTestProbe(sim)

	family, err := autodetectProbe(context.Background(), probe, "probe")
	if err != nil {
		t.Fatalf("autodetectProbe() error = %v", err)
	}
	if family != "" {
		t.Errorf("autodetectProbe() family = %q, want empty", family)
	}
}

// TestAutodetectCachesRepeatedCommand is property #6: a probe command
// shared by several rules (e.g. "show version") is transmitted once per
// probe, regardless of how many rules consult it.
func TestAutodetectCachesRepeatedCommand(t *testing.T) {
	sim := []transport.Exchange{
		{Match: "", Reply: "\r\nR1>"},
		{Match: "terminal length 0", Reply: "terminal length 0\r\nR1>"},
		{Match: "show version", Reply: "show version\r\n% Invalid input detected\r\nR1>"},
	}
	for _, rule := range orderedRules() {
		if rule.Cmd == "show version" {
			continue
		}
		sim = append(sim, transport.Exchange{Match: rule.Cmd, Reply: rule.Cmd + "\r\n% Invalid input detected\r\nR1>"})
	}
	probe := newTestProbe(sim)

	if _, err := autodetectProbe(context.Background(), probe, "probe"); err != nil {
		t.Fatalf("autodetectProbe() error = %v", err)
	}

	simT := probe.transport.(*transport.Simulator)
	count := 0
	for _, w := range simT.Writes() {
		if w == "show version\n" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("\"show version\" transmitted %d times, want exactly 1", count)
	}
}
