package netdevice

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/alexpitcher/netline/internal/logging"
	"github.com/alexpitcher/netline/internal/transport"
)

// readChunk pulls one chunk from the transport, bounded by remaining. A
// transport timeout is passed through as is; readUntilMatch weighs it
// against its own deadline.
func (d *Device) readChunk(remaining time.Duration) ([]byte, error) {
	return d.transport.Read(transport.MaxBuffer, remaining)
}

// readUntilMatch accumulates chunks from the transport until match reports
// true against the buffer so far, or the overall timeout elapses.
func (d *Device) readUntilMatch(match func(buf string) bool, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	var buf strings.Builder

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return buf.String(), &TimeoutError{Host: d.host, Err: fmt.Errorf("no matching response within %s", timeout)}
		}

		chunk, err := d.readChunk(remaining)
		if err != nil {
			if !errors.Is(err, transport.ErrReadTimeout) {
				return buf.String(), &DisconnectError{Host: d.host, Reason: err.Error()}
			}
			if time.Until(deadline) <= 0 {
				return buf.String(), &TimeoutError{Host: d.host, Err: err}
			}
			continue
		}
		if len(chunk) == 0 {
			continue
		}
		buf.Write(chunk)
		if match(buf.String()) {
			return buf.String(), nil
		}
	}
}

// ReadUntilPattern accumulates output until pattern matches the buffer.
func (d *Device) ReadUntilPattern(pattern *regexp.Regexp, timeout time.Duration) (string, error) {
	return d.readUntilMatch(func(buf string) bool { return pattern.MatchString(buf) }, timeout)
}

// ReadUntilPrompt accumulates output until the session's base pattern
// matches the buffer.
func (d *Device) ReadUntilPrompt(timeout time.Duration) (string, error) {
	return d.ReadUntilPattern(d.basePattern, timeout)
}

// ReadUntilPromptOrPattern succeeds on whichever of pattern or the base
// pattern matches first. Alcatel overrides this via its descriptor hook to
// additionally require a preceding newline.
func (d *Device) ReadUntilPromptOrPattern(pattern *regexp.Regexp, timeout time.Duration) (string, error) {
	if d.descriptor.ReadUntilPromptOrPattern != nil {
		return d.descriptor.ReadUntilPromptOrPattern(d, pattern, timeout)
	}
	if pattern == nil {
		return d.ReadUntilPrompt(timeout)
	}
	return d.readUntilMatch(func(buf string) bool {
		return pattern.MatchString(buf) || d.basePattern.MatchString(buf)
	}, timeout)
}

// readUntilPromptOrPatternAlcatel requires a newline immediately before
// the match, avoiding a false match inside the command's own echo. Every
// occurrence in the buffer is considered, not just the leftmost — the
// echo contamination this guards against would otherwise pin the search
// on the one occurrence that can never be anchored. This is Alcatel
// AOS's sole deviation from the shared reader.
func readUntilPromptOrPatternAlcatel(d *Device, pattern *regexp.Regexp, timeout time.Duration) (string, error) {
	anchored := func(re *regexp.Regexp, buf string) bool {
		if re == nil {
			return false
		}
		for _, loc := range re.FindAllStringIndex(buf, -1) {
			if loc[0] > 0 && buf[loc[0]-1] == '\n' {
				return true
			}
		}
		return false
	}
	return d.readUntilMatch(func(buf string) bool {
		return anchored(pattern, buf) || anchored(d.basePattern, buf)
	}, timeout)
}

// FindPrompt sends a bare line terminator and reads until any configured
// delimiter character appears, returning the trimmed prompt line.
func (d *Device) FindPrompt(timeout time.Duration) (string, error) {
	if _, err := d.transport.Write([]byte(d.normalizeCmd(""))); err != nil {
		return "", fmt.Errorf("netdevice: find_prompt write: %w", err)
	}

	delimPattern := delimiterPattern(d.delimiterList)
	raw, err := d.ReadUntilPattern(delimPattern, timeout)
	if err != nil {
		return "", err
	}

	if d.ansiEscapeCodes {
		raw = StripANSI(raw)
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &ProtocolError{Host: d.host, Msg: "empty prompt"}
	}
	logging.Debugf("netdevice: find_prompt host=%s prompt=%q", d.host, trimmed)
	return trimmed, nil
}

// delimiterPattern builds a regex matching any one of the given trailing
// prompt characters.
func delimiterPattern(delimiters []string) *regexp.Regexp {
	escaped := make([]string, len(delimiters))
	for i, d := range delimiters {
		escaped[i] = regexp.QuoteMeta(d)
	}
	return regexp.MustCompile("[" + strings.Join(escaped, "") + "]")
}

// SetBasePrompt runs find_prompt, applies the vendor's stem-extraction
// rule, truncates and escapes the result, and builds base_pattern from the
// vendor's template.
func (d *Device) SetBasePrompt(timeout time.Duration) error {
	prompt, err := d.FindPrompt(timeout)
	if err != nil {
		return err
	}

	stem := prompt
	if d.descriptor.StemExtract != nil {
		stem = d.descriptor.StemExtract(prompt)
	}
	if len(stem) > 12 {
		stem = stem[:12]
	}
	d.basePrompt = stem

	pattern, err := buildBasePattern(d.descriptor, stem, d.delimiterList)
	if err != nil {
		return &ProtocolError{Host: d.host, Msg: fmt.Sprintf("compiling base pattern: %v", err)}
	}
	d.basePattern = pattern

	logging.Infof("netdevice: base prompt host=%s prompt=%q", d.host, d.basePrompt)
	return nil
}

// buildBasePattern formats the vendor's PatternTemplate with the
// regex-escaped stem and the session's delimiter set.
func buildBasePattern(desc *VendorDescriptor, stem string, delimiters []string) (*regexp.Regexp, error) {
	escapedStem := regexp.QuoteMeta(stem)
	delimsJoined := strings.Join(quoteAll(delimiters), "")

	tmpl := desc.PatternTemplate
	tmpl = strings.ReplaceAll(tmpl, "{prompt}", escapedStem)
	tmpl = strings.ReplaceAll(tmpl, "{delimiters}", delimsJoined)
	if len(desc.DelimiterLeftList) > 0 {
		tmpl = strings.ReplaceAll(tmpl, "{delimiter_left}", strings.Join(quoteAll(desc.DelimiterLeftList), ""))
	}
	return regexp.Compile(tmpl)
}

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = regexp.QuoteMeta(s)
	}
	return out
}
