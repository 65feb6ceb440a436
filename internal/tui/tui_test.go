package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexpitcher/netline/internal/netdevice"
)

func newTestModel(t *testing.T, hosts []string) *Model {
	t.Helper()
	m, err := NewModel(context.Background(), hosts, netdevice.Options{Username: "admin"})
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	return m
}

func TestNewModelRequiresHosts(t *testing.T) {
	if _, err := NewModel(context.Background(), nil, netdevice.Options{}); err == nil {
		t.Fatal("expected an error constructing a dashboard with no hosts")
	}
}

func TestCursorNavigation(t *testing.T) {
	m := newTestModel(t, []string{"r1", "r2", "r3"})

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Fatalf("cursor after one down = %d, want 1", m.cursor)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Fatalf("cursor after up = %d, want 0", m.cursor)
	}
	// Up at the top clamps instead of wrapping.
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Fatalf("cursor clamped-up = %d, want 0", m.cursor)
	}
	// Down past the end clamps instead of wrapping.
	for i := 0; i < 5; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.cursor != 2 {
		t.Fatalf("cursor clamped-down = %d, want 2", m.cursor)
	}
}

func TestEnterOnDisconnectedHostDoesNotRunCommand(t *testing.T) {
	m := newTestModel(t, []string{"r1"})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Errorf("expected no command to run against a pending host")
	}
	if m.statusMsg == "" {
		t.Errorf("expected a status message explaining why enter was a no-op")
	}
}

func TestHostResultMsgTransitionsToConnected(t *testing.T) {
	m := newTestModel(t, []string{"r1"})
	dev := &netdevice.Device{}
	m.Update(hostResultMsg{index: 0, family: "cisco_ios", device: dev})
	if m.hosts[0].Status != StatusConnected {
		t.Errorf("status = %v, want StatusConnected", m.hosts[0].Status)
	}
	if m.hosts[0].Family != "cisco_ios" {
		t.Errorf("family = %q, want cisco_ios", m.hosts[0].Family)
	}
}

func TestHostResultMsgError(t *testing.T) {
	m := newTestModel(t, []string{"r1"})
	m.Update(hostResultMsg{index: 0, err: context.DeadlineExceeded})
	if m.hosts[0].Status != StatusError {
		t.Errorf("status = %v, want StatusError", m.hosts[0].Status)
	}
	if m.hosts[0].Err == nil {
		t.Errorf("expected Err to be set")
	}
}

func TestEscQuits(t *testing.T) {
	m := newTestModel(t, []string{"r1"})
	m.hosts[0].Status = StatusConnected

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected tea.Quit command")
	}
	if !m.quitting {
		t.Errorf("expected quitting to be true")
	}
}

func TestStatusLabel(t *testing.T) {
	cases := []struct {
		status Status
		want   string
	}{
		{StatusPending, "pending"},
		{StatusProbing, "probing"},
		{StatusConnected, "up"},
		{StatusError, "down"},
	}
	for _, c := range cases {
		if label, _ := statusLabel(c.status); label != c.want {
			t.Errorf("statusLabel(%v) = %q, want %q", c.status, label, c.want)
		}
	}
}
