package netdevice

import (
	"context"
	"strings"
	"testing"

	"github.com/alexpitcher/netline/internal/transport"
)

// TestJunOSConnectFromShell covers the csh landing: the session opens in a
// "%" shell, the engine escapes it with "cli", and the structural base
// pattern matches the operational prompt afterward.
func TestJunOSConnectFromShell(t *testing.T) {
	sim := []transport.Exchange{
		{Match: "", Reply: "\r\nadmin@mx01%"},   // find_prompt: csh shell
		{Match: "", Reply: "\r\nadmin@mx01%"},   // cli check: still in shell
		{Match: "cli", Reply: "cli\r\nadmin@mx01>"},
		{Match: "", Reply: "\r\nadmin@mx01>"},   // cli check: operational now
		{Match: "set cli screen-length 0", Reply: "set cli screen-length 0\r\nadmin@mx01>"},
	}
	d := newTestDevice(t, "juniper_junos", Options{Host: "mx01", Username: "admin"}, sim)

	if err := d.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if d.BasePrompt() != "mx01" {
		t.Errorf("BasePrompt() = %q, want %q", d.BasePrompt(), "mx01")
	}
	if !d.BasePattern().MatchString("admin@mx01#") {
		t.Errorf("base_pattern does not match the configuration-mode prompt")
	}
}

// TestJunOSSendConfigSetCommits walks the configure/commit/exit wrap.
func TestJunOSSendConfigSetCommits(t *testing.T) {
	sim := []transport.Exchange{
		{Match: "", Reply: "\r\nadmin@mx01>"}, // config check: operational
		{Match: "configure", Reply: "configure\r\nEntering configuration mode\r\nadmin@mx01#"},
		{Match: "", Reply: "\r\nadmin@mx01#"}, // config check: configuration
		{Match: "set system host-name mx01", Reply: "set system host-name mx01\r\nadmin@mx01#"},
		{Match: "commit", Reply: "commit\r\ncommit complete\r\nadmin@mx01#"},
		{Match: "", Reply: "\r\nadmin@mx01#"}, // exit pre-check: still configuration
		{Match: "exit configuration-mode", Reply: "exit configuration-mode\r\nExiting configuration mode\r\nadmin@mx01>"},
		{Match: "", Reply: "\r\nadmin@mx01>"}, // exit post-check: operational again
	}
	d := newTestDevice(t, "juniper_junos", Options{Host: "mx01", Username: "admin"}, sim)
	d.basePrompt = "mx01"
	pattern, err := buildBasePattern(d.descriptor, "mx01", d.delimiterList)
	if err != nil {
		t.Fatalf("buildBasePattern() error = %v", err)
	}
	d.basePattern = pattern

	out, err := d.SendConfigSet([]string{"set system host-name mx01"}, ConfigSetOptions{
		WithCommit:     true,
		ExitConfigMode: true,
	})
	if err != nil {
		t.Fatalf("SendConfigSet() error = %v", err)
	}
	if !strings.Contains(out, "commit complete") {
		t.Errorf("output %q does not contain the commit confirmation", out)
	}
	if d.inConfigMode {
		t.Error("expected inConfigMode=false after exit_config_mode")
	}
}
