// Package safety gates destructive operations against a live device behind
// an explicit confirmation token and records every gated action to an
// append-only audit log, the way an operator-facing tool should before it
// pushes configuration at a production box.
package safety

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const AuditLogFile = "commit.log"

// Confirm validates that userInput matches the required confirmation
// token exactly. Device.ConfirmCommit consults this when
// Options.ConfirmToken is set, before a commit-capable send_config_set is
// allowed to run.
func Confirm(userInput, requiredToken string) error {
	if strings.TrimSpace(userInput) != requiredToken {
		return fmt.Errorf("safety: confirmation denied: expected %q, got %q", requiredToken, userInput)
	}
	return nil
}

// Log appends a gated action to the audit log under ~/.netline.
func Log(action string, meta map[string]string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	logDir := filepath.Join(home, ".netline")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	logPath := filepath.Join(logDir, AuditLogFile)

	timestamp := time.Now().UTC().Format(time.RFC3339)
	metaParts := make([]string, 0, len(meta))
	for k, v := range meta {
		metaParts = append(metaParts, fmt.Sprintf("%s=%s", k, v))
	}
	metaStr := strings.Join(metaParts, " ")

	entry := fmt.Sprintf("%s | %s | %s\n", timestamp, action, metaStr)

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(entry)
	return err
}

// GetLogPath returns the path to the audit log.
func GetLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".netline", AuditLogFile), nil
}
