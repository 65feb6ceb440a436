package netdevice

import (
	"regexp"
	"strings"
)

// The stem-extraction rules below turn a raw prompt line into the
// hostname-like fragment used to build base_pattern. Each is a direct,
// mechanical transcription of one vendor's prompt shape; see the
// comments on each descriptor for the prompt example it was derived from.

// stemDropLastChar drops the trailing delimiter: "R1#" -> "R1". Used by
// the default IOS-like rule and the neutral autodetect probe.
func stemDropLastChar(prompt string) string {
	if len(prompt) == 0 {
		return prompt
	}
	return prompt[:len(prompt)-1]
}

// stemASA handles "R1/ctx#": drop the last char, then take the text
// before the first "/".
func stemASA(prompt string) string {
	dropped := stemDropLastChar(prompt)
	if idx := strings.IndexByte(dropped, '/'); idx >= 0 {
		return dropped[:idx]
	}
	return dropped
}

// stemSlice1ToMinus3 handles "(R1) #" style prompts shared by Aruba
// AOS 6, Fujitsu, and Ubiquiti: slice [1:-3].
func stemSlice1ToMinus3(prompt string) string {
	if len(prompt) < 4 {
		return prompt
	}
	return prompt[1 : len(prompt)-3]
}

// stemAruba8 handles "(R1) *[mynode] (config) #": take the text before
// the first ")", then drop the leading "(".
func stemAruba8(prompt string) string {
	if idx := strings.IndexByte(prompt, ')'); idx >= 0 {
		prompt = prompt[:idx]
	}
	if len(prompt) > 0 && prompt[0] == '(' {
		return prompt[1:]
	}
	return prompt
}

// stemBracket handles "<R1>" / "[R1]": slice [1:-1].
func stemBracket(prompt string) string {
	if len(prompt) < 2 {
		return prompt
	}
	return prompt[1 : len(prompt)-1]
}

var huaweiHRPPrefix = regexp.MustCompile(`^HRP_.`)

// stemHuawei strips a leading "HRP_." (active/standby VRRP marker) before
// applying the Comware bracket rule.
func stemHuawei(prompt string) string {
	return stemBracket(huaweiHRPPrefix.ReplaceAllString(prompt, ""))
}

// stemAfterAt returns the text after the last "@" in s, or s unchanged if
// there is no "@".
func stemAfterAt(s string) string {
	if idx := strings.LastIndexByte(s, '@'); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

// stemJunOS handles "user@R1>": drop the trailing delimiter, then take
// the text after "@" if present.
func stemJunOS(prompt string) string {
	return stemAfterAt(stemDropLastChar(prompt))
}

// stemMikrotik handles "[admin@R1] >": slice [1:-3], then take the text
// after "@" if present.
func stemMikrotik(prompt string) string {
	return stemAfterAt(stemSlice1ToMinus3(prompt))
}
