package netdevice

import "regexp"

// HP Comware Limited is a Comware box whose CLI ships locked down to a
// reduced command set; unlocking the full command line is an extra
// connect-time handshake (_cmdline-mode on / Y / password) that every
// other Comware-like family skips entirely.

var hpLimitedInvalidPassword = regexp.MustCompile(`(?i)Invalid password`)

func hpLimitedConnect(d *Device) error {
	if err := d.establish(); err != nil {
		return err
	}
	if err := d.SetBasePrompt(d.timeout); err != nil {
		return err
	}

	if err := hpLimitedUnlockCmdline(d); err != nil {
		return err
	}

	return d.disablePaging()
}

func hpLimitedUnlockCmdline(d *Device) error {
	out, err := d.SendCommand("_cmdline-mode on", SendCommandOptions{
		Pattern:      `\[Y/N\]`,
		StripCommand: true,
	})
	if err != nil {
		return err
	}

	step, err := d.SendCommand("Y", SendCommandOptions{
		Pattern:      `(?i)password`,
		StripCommand: true,
	})
	out += step
	if err != nil {
		return err
	}

	step, err = d.SendCommand(d.options.CmdlinePassword, DefaultSendCommandOptions())
	out += step
	if err != nil {
		return err
	}
	if hpLimitedInvalidPassword.MatchString(out) {
		return &ProtocolError{Host: d.host, Msg: "rejected cmdline password"}
	}
	return nil
}

func init() {
	registerDescriptor(&VendorDescriptor{
		Name:                 "hp_comware_limited",
		DelimiterList:        []string{">", "]"},
		DelimiterLeftList:    []string{"<", "["},
		PatternTemplate:      `[{delimiter_left}]{prompt}[\-\w]*[{delimiters}]`,
		StemExtract:          stemBracket,
		DisablePagingCommand: "screen-length disable",
		Connect:              hpLimitedConnect,
		PrivCheck:            "]",
		ConfigEnter:          "system-view",
		ConfigExit:           "return",
		ConfigCheck:          "]",
		SendConfigSet:        comwareSendConfigSet,
		Cleanup:              comwareCleanup,
	})
}
