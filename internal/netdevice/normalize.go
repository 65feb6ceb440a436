package netdevice

import (
	"regexp"
	"strings"
)

// ansiPatterns is the fixed set of escape sequences StripANSI removes, in
// the order they are applied. The "next line" sequence is special: it is
// replaced with a newline rather than deleted, since the device is
// actually using it to move output down a line.
var ansiPatterns = []struct {
	re      *regexp.Regexp
	replace string
}{
	{regexp.MustCompile("\x1b7"), ""},         // save cursor
	{regexp.MustCompile(`\x1b\[r`), ""},       // scroll screen
	{regexp.MustCompile("\x1b8"), ""},         // restore cursor
	{regexp.MustCompile(`\x1b\[\d+A`), ""},    // cursor up
	{regexp.MustCompile(`\x1b\[\d+B`), ""},    // cursor down
	{regexp.MustCompile(`\x1b\[\d+;\d+H`), ""}, // position cursor
	{regexp.MustCompile(`\x1b\[\?25h`), ""},   // show cursor
	{regexp.MustCompile("\x1bE"), "\n"},       // next line
	{regexp.MustCompile(`\x1b\[K`), ""},       // erase line from cursor
	{regexp.MustCompile(`\x1b\[2K`), ""},      // erase line
	{regexp.MustCompile(`\x1b\[\d+;\d+r`), ""}, // enable scrolling region
}

// linefeedPattern collapses every CRLF variant the wire can produce down to
// a single canonical \n.
var linefeedPattern = regexp.MustCompile(`\r\r\n|\r\n|\n\r`)

var blankLinePattern = regexp.MustCompile(`\n\n+`)

// StripANSI removes the fixed set of escape sequences a device's terminal
// driver emits. It is idempotent: a second pass over already-clean text
// leaves it unchanged, since none of the patterns can match their own
// output.
func StripANSI(s string) string {
	for _, p := range ansiPatterns {
		s = p.re.ReplaceAllString(s, p.replace)
	}
	return s
}

// NormalizeLinefeeds collapses \r\r\n, \r\n, and \n\r into \n. This is the
// default implementation; NX-OS and Fujitsu override it (see their
// descriptor's NormalizeLinefeeds hook).
func NormalizeLinefeeds(s string) string {
	return linefeedPattern.ReplaceAllString(s, "\n")
}

// normalizeLinefeedsNXOS additionally strips any bare \r left over once
// CRLF variants have been collapsed.
func normalizeLinefeedsNXOS(s string) string {
	return strings.ReplaceAll(NormalizeLinefeeds(s), "\r", "")
}

// normalizeLinefeedsFujitsu additionally collapses any run of blank lines
// down to a single \n.
func normalizeLinefeedsFujitsu(s string) string {
	return blankLinePattern.ReplaceAllString(NormalizeLinefeeds(s), "\n")
}

// StripPromptLine drops the final line of s if it contains basePrompt as a
// substring. Used by the command cleanup pipeline when strip_prompt=true.
func StripPromptLine(s, basePrompt string) string {
	if basePrompt == "" {
		return s
	}
	idx := strings.LastIndexByte(s, '\n')
	lastLine := s[idx+1:]
	if strings.Contains(lastLine, basePrompt) {
		return s[:idx+1]
	}
	return s
}

// StripCommandEcho removes the device's echo of the transmitted command
// from the start of s. If the raw output contains any backspace (\x08),
// every backspace is stripped and the entire first line (the echo plus its
// wrap artifacts) is discarded; otherwise exactly len(cmd) leading
// characters are removed.
func StripCommandEcho(s, cmd string) string {
	if strings.IndexByte(s, 0x08) >= 0 {
		s = strings.ReplaceAll(s, "\x08", "")
		idx := strings.IndexByte(s, '\n')
		if idx < 0 {
			return ""
		}
		return s[idx+1:]
	}
	if len(cmd) <= len(s) {
		return s[len(cmd):]
	}
	return s
}
