package netdevice

import (
	"sort"
	"strings"
	"testing"
)

func TestPlatformsSortedAndComplete(t *testing.T) {
	got := Platforms()
	if !sort.StringsAreSorted(got) {
		t.Errorf("Platforms() is not sorted: %v", got)
	}

	want := []string{
		"alcatel_aos", "arista_eos", "aruba_aos_6", "aruba_aos_8",
		"cisco_asa", "cisco_ios", "cisco_ios_xe", "cisco_ios_xr",
		"cisco_nxos", "cisco_sg3xx", "fujitsu_switch", "hp_comware",
		"hp_comware_limited", "huawei", "hw1000", "juniper_junos",
		"mikrotik_routeros", "terminal", "ubiquity_edge",
	}
	if len(got) != len(want) {
		t.Fatalf("Platforms() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Platforms()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCreateUnknownDeviceType(t *testing.T) {
	_, err := Create(Options{Host: "r1", Username: "admin", DeviceType: "acme_os"})
	if err == nil {
		t.Fatal("expected an error for an unknown device_type")
	}
	protoErr, ok := err.(*ProtocolError)
	if !ok {
		t.Fatalf("expected *ProtocolError, got %T: %v", err, err)
	}
	if !strings.Contains(protoErr.Msg, "acme_os") {
		t.Errorf("error %q does not name the rejected device_type", protoErr.Msg)
	}
	if !strings.Contains(protoErr.Msg, "cisco_ios") {
		t.Errorf("error %q does not list the supported device_types", protoErr.Msg)
	}
}

func TestCreateRequiresHostAndUsername(t *testing.T) {
	if _, err := Create(Options{DeviceType: "cisco_ios"}); err == nil {
		t.Error("expected an error with no host/username")
	}
}

// TestCreateResolvesAlias: cisco_ios_xe is accepted and lands on the
// cisco_ios descriptor.
func TestCreateResolvesAlias(t *testing.T) {
	d, err := Create(Options{Host: "r1", Username: "admin", DeviceType: "cisco_ios_xe"})
	if err != nil {
		t.Fatalf("Create(cisco_ios_xe) error = %v", err)
	}
	if d.descriptor.Name != "cisco_ios" {
		t.Errorf("alias resolved to %q, want cisco_ios", d.descriptor.Name)
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	d, err := Create(Options{Host: "r1", Username: "admin", DeviceType: "terminal"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if d.port != 22 {
		t.Errorf("default port = %d, want 22", d.port)
	}
	if d.timeout <= 0 {
		t.Errorf("default timeout not applied: %v", d.timeout)
	}
}

// TestTerminalDelimiterOverride: the caller-supplied delimiter list wins
// over the descriptor default.
func TestTerminalDelimiterOverride(t *testing.T) {
	d, err := Create(Options{
		Host: "r1", Username: "admin", DeviceType: "terminal",
		DelimiterList: []string{"%"},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(d.delimiterList) != 1 || d.delimiterList[0] != "%" {
		t.Errorf("delimiterList = %v, want [%%]", d.delimiterList)
	}
}
