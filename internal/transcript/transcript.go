// Package transcript persists per-session command/response history to disk
// as JSON, the way a fleet operator inspects what was actually sent to a
// device after the fact. Recording is opt-in (Options.RecordTranscript);
// it never affects the session's read/write path.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/alexpitcher/netline/internal/logging"
)

const (
	DefaultDir = ".netline"
	LogDir     = "transcripts"
	IndexFile  = "index.json"
)

var secretPattern = regexp.MustCompile(`(?i)(password|secret)\S*(\s+\S+)?`)

// Entry captures one command/response exchange.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Command   string    `json:"command"`
	Output    string    `json:"output"`
}

// Transcript is the full record of one device session.
type Transcript struct {
	Host       string    `json:"host"`
	DeviceType string    `json:"device_type"`
	BasePrompt string    `json:"base_prompt"`
	Started    time.Time `json:"started"`
	Entries    []Entry   `json:"entries"`
	Redacted   bool      `json:"redacted"`
}

// Summary is the index entry written per saved transcript.
type Summary struct {
	Timestamp time.Time `json:"timestamp"`
	Filename  string    `json:"filename"`
	Host      string    `json:"host"`
	Device    string    `json:"device_type"`
}

// Index lists every saved transcript.
type Index struct {
	Transcripts []Summary `json:"transcripts"`
}

// New starts an empty transcript for a session about to connect.
func New(host, deviceType string) *Transcript {
	return &Transcript{Host: host, DeviceType: deviceType, Started: time.Now()}
}

// Record appends a command/response pair.
func (t *Transcript) Record(cmd, output string) {
	t.Entries = append(t.Entries, Entry{Timestamp: time.Now(), Command: cmd, Output: output})
}

// dirPath returns (and ensures) the transcripts directory.
func dirPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, DefaultDir, LogDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// Save writes the transcript to disk and appends it to the index. When
// redact is true, password-looking command arguments are scrubbed first.
func (t *Transcript) Save(redact bool) (string, error) {
	dir, err := dirPath()
	if err != nil {
		return "", err
	}

	out := t
	if redact {
		out = t.redacted()
	}

	filename := fmt.Sprintf("%s-%s.json", t.Started.Format("20060102-150405"), sanitizeHost(t.Host))
	path := filepath.Join(dir, filename)

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logging.Errorf("transcript: marshal error: %v", err)
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		logging.Errorf("transcript: write error: %v", err)
		return "", err
	}
	logging.Infof("transcript: wrote %s", path)

	if err := appendIndex(dir, Summary{
		Timestamp: t.Started,
		Filename:  filename,
		Host:      t.Host,
		Device:    t.DeviceType,
	}); err != nil {
		return path, err
	}

	return path, nil
}

func appendIndex(dir string, s Summary) error {
	indexPath := filepath.Join(dir, IndexFile)

	var idx Index
	if data, err := os.ReadFile(indexPath); err == nil {
		json.Unmarshal(data, &idx)
	}
	idx.Transcripts = append(idx.Transcripts, s)

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(indexPath, data, 0644)
}

func (t *Transcript) redacted() *Transcript {
	copyT := *t
	copyT.Redacted = true
	copyT.Entries = make([]Entry, len(t.Entries))
	for i, e := range t.Entries {
		copyT.Entries[i] = Entry{
			Timestamp: e.Timestamp,
			Command:   secretPattern.ReplaceAllString(e.Command, "[REDACTED]"),
			Output:    e.Output,
		}
	}
	return &copyT
}

func sanitizeHost(host string) string {
	out := make([]byte, 0, len(host))
	for i := 0; i < len(host); i++ {
		c := host[i]
		if c == '.' || c == ':' {
			out = append(out, '-')
			continue
		}
		out = append(out, c)
	}
	return string(out)
}
