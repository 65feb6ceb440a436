package netdevice

// Comware-like dialects (HP Comware, Huawei, HP Comware Limited) share a
// two-state machine: user-view ("<R1>") and system-view ("[R1]"), entered
// with "system-view" and left with "return", confirmed by the presence of
// "]" in the resulting prompt — the Comware analogue of IOS-like's
// checkModeSubstring dance.

func systemViewEnter(d *Device) error {
	if err := d.checkModeSubstring(d.descriptor.ConfigCheck); err == nil {
		return nil
	}
	if _, err := d.SendCommand(d.descriptor.ConfigEnter, DefaultSendCommandOptions()); err != nil {
		return err
	}
	return d.checkModeSubstring(d.descriptor.ConfigCheck)
}

func systemViewExit(d *Device) error {
	if err := d.checkModeSubstring(d.descriptor.ConfigCheck); err != nil {
		return nil
	}
	if _, err := d.SendCommand(d.descriptor.ConfigExit, DefaultSendCommandOptions()); err != nil {
		return err
	}
	if err := d.checkModeSubstring(d.descriptor.ConfigCheck); err == nil {
		return &ProtocolError{Host: d.host, Msg: "failed to exit system view"}
	}
	return nil
}

// comwareSendConfigSet wraps the batch with system-view entry. Unlike the
// IOS-like wrapper it stays in system view afterward unless the caller asks
// to leave, matching the CLI's habit of chaining view-scoped batches.
func comwareSendConfigSet(d *Device, commands []string, opts ConfigSetOptions) (result string, err error) {
	if err := systemViewEnter(d); err != nil {
		return "", err
	}
	d.inConfigMode = true

	out, err := defaultSendConfigSet(d, commands, opts)
	if opts.ExitConfigMode {
		if exitErr := systemViewExit(d); exitErr != nil && err == nil {
			err = exitErr
		} else if exitErr == nil {
			d.inConfigMode = false
		}
	}
	return out, err
}

// comwareCleanup is the scoped-exit safety net for a session still sitting
// in system-view when the transport closes.
func comwareCleanup(d *Device) error {
	if !d.inConfigMode {
		return nil
	}
	err := systemViewExit(d)
	if err == nil {
		d.inConfigMode = false
	}
	return err
}

func init() {
	registerDescriptor(&VendorDescriptor{
		Name:                 "hp_comware",
		DelimiterList:        []string{">", "]"},
		DelimiterLeftList:    []string{"<", "["},
		PatternTemplate:      `[{delimiter_left}]{prompt}[\-\w]*[{delimiters}]`,
		StemExtract:          stemBracket,
		DisablePagingCommand: "screen-length disable",
		PrivCheck:            "]",
		ConfigEnter:          "system-view",
		ConfigExit:           "return",
		ConfigCheck:          "]",
		SendConfigSet:        comwareSendConfigSet,
		Cleanup:              comwareCleanup,
	})
}
