package netdevice

import (
	"context"
	"testing"

	"github.com/alexpitcher/netline/internal/transport"
)

// TestHW1000Connect covers the ordinary path: no other session holds
// privilege mode, so the force-termination confirmation never appears.
func TestHW1000Connect(t *testing.T) {
	sim := []transport.Exchange{
		{Match: "", Reply: "\r\nhw1000>"}, // find_prompt
		{Match: "", Reply: "\r\nhw1000>"}, // pre-check: still user mode
		{Match: "enable", Reply: "enable\r\nPassword: "},
		{Match: "secret123", Reply: "secret123\r\nhw1000#"},
		{Match: "", Reply: "\r\nhw1000#"}, // post-check: privilege confirmed
	}
	d := newTestDevice(t, "hw1000", Options{Host: "r1", Username: "admin", Secret: "secret123"}, sim)

	if err := d.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if d.BasePrompt() != "hw1000" {
		t.Errorf("BasePrompt() = %q, want %q", d.BasePrompt(), "hw1000")
	}
}

// TestHW1000EnableModePreempt exercises the force-termination confirmation,
// which the device only emits after the secret is submitted, not on the
// bare "enable". With PreemptPrivilege set, the engine must observe it
// (instead of blocking on base_pattern) and reply "Yes" to proceed.
func TestHW1000EnableModePreempt(t *testing.T) {
	sim := []transport.Exchange{
		{Match: "", Reply: "\r\nhw1000>"},
		{Match: "", Reply: "\r\nhw1000>"},
		{Match: "enable", Reply: "enable\r\nPassword: "},
		{Match: "secret123", Reply: "secret123\r\nAre you sure you want to force termination of the specified session? [Yes/No]"},
		{Match: "Yes", Reply: "Yes\r\nhw1000#"},
		{Match: "", Reply: "\r\nhw1000#"},
	}
	d := newTestDevice(t, "hw1000", Options{
		Host: "r1", Username: "admin", Secret: "secret123", PreemptPrivilege: true,
	}, sim)

	if err := d.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if !d.inEnableMode {
		t.Errorf("expected inEnableMode=true after a preempted privilege entry")
	}
}

// TestHW1000EnableModeRejectsWithoutPreempt verifies that, absent
// PreemptPrivilege, the same force-termination confirmation is a hard
// error rather than silently forcing the other session out.
func TestHW1000EnableModeRejectsWithoutPreempt(t *testing.T) {
	sim := []transport.Exchange{
		{Match: "", Reply: "\r\nhw1000>"},
		{Match: "", Reply: "\r\nhw1000>"},
		{Match: "enable", Reply: "enable\r\nPassword: "},
		{Match: "secret123", Reply: "secret123\r\nAre you sure you want to force termination of the specified session? [Yes/No]"},
	}
	d := newTestDevice(t, "hw1000", Options{Host: "r1", Username: "admin", Secret: "secret123"}, sim)

	err := d.Connect(context.Background())
	if err == nil {
		t.Fatal("expected a ProtocolError, got nil")
	}
	if _, ok := err.(*ProtocolError); !ok {
		t.Fatalf("expected *ProtocolError, got %T: %v", err, err)
	}
}
