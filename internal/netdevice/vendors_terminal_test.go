package netdevice

import (
	"context"
	"strings"
	"testing"

	"github.com/alexpitcher/netline/internal/transport"
)

// TestTerminalConnectSkipsPromptDiscovery: the terminal family never
// discovers a hostname — its base pattern is the bare delimiter set and
// base_prompt stays empty, so commands still round-trip against an
// anonymous shell.
func TestTerminalConnectSkipsPromptDiscovery(t *testing.T) {
	sim := []transport.Exchange{
		{Match: "uptime", Reply: "uptime\r\n 12:00:00 up 40 days\r\nbash-5.1$"},
	}
	d := newTestDevice(t, "terminal", Options{Host: "box", Username: "admin"}, sim)

	if err := d.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if d.BasePrompt() != "" {
		t.Errorf("BasePrompt() = %q, want empty", d.BasePrompt())
	}

	out, err := d.SendCommand("uptime", DefaultSendCommandOptions())
	if err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}
	if !strings.Contains(out, "up 40 days") {
		t.Errorf("SendCommand() = %q, want the uptime line", out)
	}
}
