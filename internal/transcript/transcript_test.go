package transcript

import (
	"os"
	"strings"
	"testing"
)

func TestSaveAndIndex(t *testing.T) {
	tmpDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", originalHome)

	tr := New("r1.example.net", "cisco_ios")
	tr.Record("show version", "Cisco IOS Software, ...")

	path, err := tr.Save(false)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved transcript: %v", err)
	}
	if !strings.Contains(string(data), "show version") {
		t.Error("transcript missing recorded command")
	}
}

func TestSaveRedacted(t *testing.T) {
	tmpDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", originalHome)

	tr := New("r1", "cisco_ios")
	tr.Record("enable secret topsecret123", "R1#")

	path, err := tr.Save(true)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "topsecret123") {
		t.Error("redacted transcript still contains secret value")
	}
}

func TestSanitizeHost(t *testing.T) {
	got := sanitizeHost("10.0.0.1:22")
	if strings.ContainsAny(got, ".:") {
		t.Errorf("sanitizeHost left separators: %q", got)
	}
}
