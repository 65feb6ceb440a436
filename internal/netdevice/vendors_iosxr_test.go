package netdevice

import (
	"strings"
	"testing"

	"github.com/alexpitcher/netline/internal/transport"
)

// TestXRCommitConflict is scenario S3: another session committed first;
// commit reports the conflict, the engine declines the merge with "no",
// and the surfaced CommitError carries the diagnostic output.
func TestXRCommitConflict(t *testing.T) {
	sim := []transport.Exchange{
		{Match: "", Reply: "\r\nR1#"}, // pre-check: not yet in config mode
		{Match: "conf t", Reply: "conf t\r\nR1(config)#"},
		{Match: "", Reply: "\r\nR1(config)#"}, // post-check: config mode confirmed
		{Match: "interface Gi0/0/0/0", Reply: "interface Gi0/0/0/0\r\nR1(config-if)#"},
		{Match: "commit", Reply: "commit\r\nOne or more commits have occurred from other sessions since the last commit was made.\r\nR1(config)#"},
		{Match: "no", Reply: "no\r\nR1(config)#"},
		{Match: "show configuration commit changes", Reply: "show configuration commit changes\r\ninterface Gi0/0/0/0\r\n description conflicting edit\r\nR1(config)#"},
	}
	d := newTestDevice(t, "cisco_ios_xr", Options{Host: "r1", Username: "admin"}, sim)
	d.basePrompt = "R1"
	pattern, err := buildBasePattern(d.descriptor, "R1", d.delimiterList)
	if err != nil {
		t.Fatalf("buildBasePattern() error = %v", err)
	}
	d.basePattern = pattern

	_, err = d.SendConfigSet([]string{"interface Gi0/0/0/0"}, ConfigSetOptions{WithCommit: true})
	if err == nil {
		t.Fatal("expected a CommitError, got nil")
	}
	commitErr, ok := err.(*CommitError)
	if !ok {
		t.Fatalf("expected *CommitError, got %T: %v", err, err)
	}
	if !strings.Contains(commitErr.Reason, "description conflicting edit") {
		t.Errorf("CommitError.Reason = %q, want it to contain the conflicting diff", commitErr.Reason)
	}

	simT := d.transport.(*transport.Simulator)
	found := false
	for _, w := range simT.Writes() {
		if w == "no\n" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected \"no\\n\" to have been transmitted to decline the conflicting commit")
	}
}

// TestXRExitConfigModeUncommitted covers the exit path: leaving config mode
// with uncommitted changes pending triggers the interactive confirmation,
// the engine declines with "no", and the exit is re-verified against the
// resulting prompt.
func TestXRExitConfigModeUncommitted(t *testing.T) {
	sim := []transport.Exchange{
		{Match: "", Reply: "\r\nR1#"}, // pre-check: not yet in config mode
		{Match: "conf t", Reply: "conf t\r\nR1(config)#"},
		{Match: "", Reply: "\r\nR1(config)#"}, // post-check: config mode confirmed
		{Match: "interface Gi0/0/0/0", Reply: "interface Gi0/0/0/0\r\nR1(config-if)#"},
		{Match: "end", Reply: "end\r\nUncommitted changes found, commit them before exiting(yes/no/cancel)? [cancel]"},
		{Match: "no", Reply: "no\r\nR1#"},
		{Match: "", Reply: "\r\nR1#"}, // exit re-check: back in privilege exec
	}
	d := newTestDevice(t, "cisco_ios_xr", Options{Host: "r1", Username: "admin"}, sim)
	d.basePrompt = "R1"
	pattern, err := buildBasePattern(d.descriptor, "R1", d.delimiterList)
	if err != nil {
		t.Fatalf("buildBasePattern() error = %v", err)
	}
	d.basePattern = pattern

	_, err = d.SendConfigSet([]string{"interface Gi0/0/0/0"}, ConfigSetOptions{ExitConfigMode: true})
	if err != nil {
		t.Fatalf("SendConfigSet() error = %v", err)
	}

	simT := d.transport.(*transport.Simulator)
	found := false
	for _, w := range simT.Writes() {
		if w == "no\n" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected \"no\\n\" to have been transmitted to decline discarding the changes")
	}
	if d.inConfigMode {
		t.Error("expected inConfigMode=false after exit_config_mode")
	}
}
