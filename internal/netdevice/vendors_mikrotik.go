package netdevice

import "strings"

// RouterOS is a flat command tree with no privilege or config mode to
// transition through, but it differs from every other family in three
// low-level ways: commands are terminated with a bare "\r" instead of
// "\n", the session negotiates a color-free 200-column terminal by
// appending "+ct200w" to the username rather than requesting a pty size,
// and the base pattern matches the "[user@host] >" bracket structure
// rather than embedding the hostname stem.

func mikrotikNormalizeCmd(cmd string) string {
	return strings.TrimRight(cmd, "\r\n") + "\r"
}

// mikrotikConnect is establish -> set_base_prompt; paging never needs
// disabling because the "+ct200w" login suffix already did.
func mikrotikConnect(d *Device) error {
	if err := d.establish(); err != nil {
		return err
	}
	return d.SetBasePrompt(d.timeout)
}

func init() {
	registerDescriptor(&VendorDescriptor{
		Name:            "mikrotik_routeros",
		DelimiterList:   []string{">", "#"},
		PatternTemplate: `\[.*?\] (/.*?)?>`,
		StemExtract:     stemMikrotik,
		Connect:         mikrotikConnect,
		UsernameSuffix:  "+ct200w",
		OmitTermSize:    true,
		AnsiEscapeCodes: true,
		NormalizeCmd:    mikrotikNormalizeCmd,
	})
}
