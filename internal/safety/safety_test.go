package safety

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name          string
		userInput     string
		requiredToken string
		wantErr       bool
	}{
		{"exact match", "COMMIT-YES", "COMMIT-YES", false},
		{"mismatch", "yes", "COMMIT-YES", true},
		{"empty input", "", "COMMIT-YES", true},
		{"whitespace", "  COMMIT-YES  ", "COMMIT-YES", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Confirm(tt.userInput, tt.requiredToken)
			if (err != nil) != tt.wantErr {
				t.Errorf("Confirm() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLog(t *testing.T) {
	tmpDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", originalHome)

	action := "SEND_CONFIG_SET"
	meta := map[string]string{
		"host":        "r1.example.net",
		"device_type": "cisco_ios",
	}

	if err := Log(action, meta); err != nil {
		t.Fatalf("Log() error = %v", err)
	}

	logPath := filepath.Join(tmpDir, ".netline", AuditLogFile)
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	logContent := string(data)
	if !strings.Contains(logContent, action) {
		t.Errorf("log does not contain action %q", action)
	}
	if !strings.Contains(logContent, "host=r1.example.net") {
		t.Error("log does not contain expected metadata")
	}
}

func TestLogMultipleEntries(t *testing.T) {
	tmpDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", originalHome)

	Log("ACTION1", map[string]string{"key": "value1"})
	Log("ACTION2", map[string]string{"key": "value2"})

	logPath := filepath.Join(tmpDir, ".netline", AuditLogFile)
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Errorf("expected 2 log entries, got %d", len(lines))
	}
}
