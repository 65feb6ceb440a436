package netdevice

import (
	"strings"
	"testing"

	"github.com/alexpitcher/netline/internal/transport"
)

// TestAlcatelReaderRequiresNewlineAnchor: a prompt-shaped fragment sitting
// mid-line in the output body must not satisfy the read — only a
// newline-anchored occurrence does, and a non-anchored occurrence earlier
// in the buffer must not mask an anchored one later.
func TestAlcatelReaderRequiresNewlineAnchor(t *testing.T) {
	sim := []transport.Exchange{
		{Match: "show running-directory", Reply: "show running-directory\r\nRunning configuration : OS6900# flash issu\r\nOS6900# "},
	}
	d := newTestDevice(t, "alcatel_aos", Options{Host: "sw1", Username: "admin"}, sim)
	d.basePrompt = "OS6900"
	pattern, err := buildBasePattern(d.descriptor, "OS6900", d.delimiterList)
	if err != nil {
		t.Fatalf("buildBasePattern() error = %v", err)
	}
	d.basePattern = pattern

	out, err := d.SendCommand("show running-directory", DefaultSendCommandOptions())
	if err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}
	if !strings.Contains(out, "Running configuration") {
		t.Errorf("SendCommand() = %q, want the configuration line", out)
	}
}
