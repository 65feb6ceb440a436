package netdevice

// Terminal is the fallback family for a device with no known dialect: no
// paging command, no mode machine, and a delimiter list the caller can
// override via Options.DelimiterList (newDevice already prefers that
// override over the descriptor default). It never discovers a hostname:
// the base pattern is the bare delimiter set, so base_prompt stays empty
// and output cleanup skips the prompt-strip step.

func terminalConnect(d *Device) error {
	if err := d.establish(); err != nil {
		return err
	}
	pattern, err := buildBasePattern(d.descriptor, "", d.delimiterList)
	if err != nil {
		return &ProtocolError{Host: d.host, Msg: "compiling base pattern: " + err.Error()}
	}
	d.basePattern = pattern
	return nil
}

func init() {
	registerDescriptor(&VendorDescriptor{
		Name:            "terminal",
		DelimiterList:   []string{"$", "#"},
		PatternTemplate: `[{delimiters}]`,
		Connect:         terminalConnect,
	})
}
