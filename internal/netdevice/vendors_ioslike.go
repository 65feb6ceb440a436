package netdevice

import (
	"regexp"
)

// IOS-like dialects share one mode state machine: user -> enable -> config,
// driven by sending "enable"/"disable" and "conf t"/"end", each transition
// confirmed by sending an empty line and checking the resulting prompt for
// an expected substring. These helpers implement that shared machine once;
// per-family descriptors only vary the command strings and checks.

func enableModeIOSLike(d *Device) error {
	if err := d.checkModeSubstring(d.descriptor.PrivCheck); err == nil {
		d.inEnableMode = true
		return nil
	}

	out, err := d.SendCommand(d.descriptor.PrivEnter, SendCommandOptions{
		Pattern:      `(?i)password`,
		StripCommand: true,
	})
	if err != nil {
		return err
	}
	if regexp.MustCompile(`(?i)password`).MatchString(out) {
		if _, err := d.SendCommand(d.options.Secret, SendCommandOptions{StripCommand: true}); err != nil {
			return err
		}
	}
	if err := d.checkModeSubstring(d.descriptor.PrivCheck); err != nil {
		return err
	}
	d.inEnableMode = true
	return nil
}

func disableModeIOSLike(d *Device) error {
	if err := d.checkModeSubstring(d.descriptor.PrivCheck); err != nil {
		d.inEnableMode = false
		return nil
	}
	if _, err := d.SendCommand(d.descriptor.PrivExit, DefaultSendCommandOptions()); err != nil {
		return err
	}
	if err := d.checkModeSubstring(d.descriptor.PrivCheck); err == nil {
		return &ProtocolError{Host: d.host, Msg: "failed to exit privilege exec"}
	}
	d.inEnableMode = false
	return nil
}

func configModeIOSLike(d *Device) error {
	if err := d.checkModeSubstring(d.descriptor.ConfigCheck); err == nil {
		return nil
	}
	if _, err := d.SendCommand(d.descriptor.ConfigEnter, DefaultSendCommandOptions()); err != nil {
		return err
	}
	return d.checkModeSubstring(d.descriptor.ConfigCheck)
}

func exitConfigModeIOSLike(d *Device) error {
	if err := d.checkModeSubstring(d.descriptor.ConfigCheck); err != nil {
		return nil
	}
	if _, err := d.SendCommand(d.descriptor.ConfigExit, DefaultSendCommandOptions()); err != nil {
		return err
	}
	if err := d.checkModeSubstring(d.descriptor.ConfigCheck); err == nil {
		return &ProtocolError{Host: d.host, Msg: "failed to exit configuration mode"}
	}
	return nil
}

// iosLikeConnect is establish -> set_base_prompt -> enable_mode ->
// disable_paging, the connect sequence every IOS-like dialect shares.
func iosLikeConnect(d *Device) error {
	if err := d.establish(); err != nil {
		return err
	}
	if err := d.SetBasePrompt(d.timeout); err != nil {
		return err
	}
	if err := enableModeIOSLike(d); err != nil {
		return err
	}
	return d.disablePaging()
}

// iosLikeSendConfigSet wraps the batch with config-mode enter/exit,
// exiting even if one of the commands errors.
func iosLikeSendConfigSet(d *Device, commands []string, opts ConfigSetOptions) (result string, err error) {
	if err := configModeIOSLike(d); err != nil {
		return "", err
	}
	d.inConfigMode = true
	defer func() {
		if exitErr := exitConfigModeIOSLike(d); exitErr != nil && err == nil {
			err = exitErr
		}
		d.inConfigMode = false
	}()
	return defaultSendConfigSet(d, commands, opts)
}

// iosLikeCleanup is the scoped-exit safety net: if a failure ever left the
// session in config mode, leave it before the transport closes.
func iosLikeCleanup(d *Device) error {
	if !d.inConfigMode {
		return nil
	}
	return exitConfigModeIOSLike(d)
}

func init() {
	registerDescriptor(&VendorDescriptor{
		Name:                 "cisco_ios",
		DelimiterList:        []string{">", "#"},
		PatternTemplate:      `{prompt}.*?(\(.*?\))?[{delimiters}]`,
		StemExtract:          stemDropLastChar,
		DisablePagingCommand: "terminal length 0",
		Connect:              iosLikeConnect,
		PrivEnter:            "enable",
		PrivExit:             "disable",
		PrivCheck:            "#",
		ConfigEnter:          "conf t",
		ConfigExit:           "end",
		ConfigCheck:          ")#",
		SendConfigSet:        iosLikeSendConfigSet,
		Cleanup:              iosLikeCleanup,
	})

	registerDescriptor(&VendorDescriptor{
		Name:                 "arista_eos",
		DelimiterList:        []string{">", "#"},
		PatternTemplate:      `{prompt}.*?(\(.*?\))?[{delimiters}]`,
		StemExtract:          stemDropLastChar,
		DisablePagingCommand: "terminal length 0",
		Connect:              iosLikeConnect,
		PrivEnter:            "enable",
		PrivExit:             "disable",
		PrivCheck:            "#",
		ConfigEnter:          "conf t",
		ConfigExit:           "end",
		ConfigCheck:          ")#",
		SendConfigSet:        iosLikeSendConfigSet,
		Cleanup:              iosLikeCleanup,
	})

	registerDescriptor(&VendorDescriptor{
		Name:                 "aruba_aos_6",
		DelimiterList:        []string{">", "#"},
		PatternTemplate:      `\({prompt}.*?\) (\(.*?\))?\s?[{delimiters}]`,
		StemExtract:          stemSlice1ToMinus3,
		DisablePagingCommand: "no paging",
		Connect:              iosLikeConnect,
		PrivEnter:            "enable",
		PrivExit:             "disable",
		PrivCheck:            "#",
		ConfigEnter:          "conf t",
		ConfigExit:           "end",
		ConfigCheck:          ") (config",
		SendConfigSet:        iosLikeSendConfigSet,
		Cleanup:              iosLikeCleanup,
	})

	registerDescriptor(&VendorDescriptor{
		Name:                 "aruba_aos_8",
		DelimiterList:        []string{">", "#"},
		PatternTemplate:      `\({prompt}.*?\) [*^]?\[.*?\] (\(.*?\))?\s?[{delimiters}]`,
		StemExtract:          stemAruba8,
		DisablePagingCommand: "no paging",
		Connect:              iosLikeConnect,
		PrivEnter:            "enable",
		PrivExit:             "disable",
		PrivCheck:            "#",
		ConfigEnter:          "conf t",
		ConfigExit:           "end",
		ConfigCheck:          "] (config",
		SendConfigSet:        iosLikeSendConfigSet,
		Cleanup:              iosLikeCleanup,
	})

	registerDescriptor(&VendorDescriptor{
		Name:                 "fujitsu_switch",
		DelimiterList:        []string{">", "#"},
		PatternTemplate:      `\({prompt}.*?\) (\(.*?\))?[{delimiters}]`,
		StemExtract:          stemSlice1ToMinus3,
		DisablePagingCommand: "no pager",
		Connect:              iosLikeConnect,
		PrivEnter:            "enable",
		PrivExit:             "disable",
		PrivCheck:            "#",
		ConfigEnter:          "conf",
		ConfigExit:           "end",
		ConfigCheck:          ")#",
		SendConfigSet:        iosLikeSendConfigSet,
		Cleanup:              iosLikeCleanup,
		NormalizeLinefeeds:   normalizeLinefeedsFujitsu,
	})

	registerDescriptor(&VendorDescriptor{
		Name:                 "ubiquity_edge",
		DelimiterList:        []string{">", "#"},
		PatternTemplate:      `\({prompt}.*?\) (\(.*?\))?[{delimiters}]`,
		StemExtract:          stemSlice1ToMinus3,
		DisablePagingCommand: "terminal length 0",
		Connect:              iosLikeConnect,
		PrivEnter:            "enable",
		PrivExit:             "disable",
		PrivCheck:            "#",
		ConfigEnter:          "configure",
		ConfigExit:           "end",
		ConfigCheck:          ")#",
		SendConfigSet:        iosLikeSendConfigSet,
		Cleanup:              iosLikeCleanup,
	})

	registerDescriptor(&VendorDescriptor{
		Name:                 "cisco_sg3xx",
		DelimiterList:        []string{">", "#"},
		PatternTemplate:      `{prompt}.*?(\(.*?\))?[{delimiters}]`,
		StemExtract:          stemDropLastChar,
		DisablePagingCommand: "terminal datadump",
		Connect:              iosLikeConnect,
		PrivEnter:            "enable",
		PrivExit:             "disable",
		PrivCheck:            "#",
		ConfigEnter:          "conf t",
		ConfigExit:           "end",
		ConfigCheck:          ")#",
		SendConfigSet:        iosLikeSendConfigSet,
		Cleanup:              iosLikeCleanup,
		AnsiEscapeCodes:      true,
	})

	registerDescriptor(&VendorDescriptor{
		Name:                 "cisco_nxos",
		DelimiterList:        []string{">", "#"},
		PatternTemplate:      `{prompt}.*?(\(.*?\))?[{delimiters}]`,
		StemExtract:          stemDropLastChar,
		DisablePagingCommand: "terminal length 0",
		Connect:              iosLikeConnect,
		PrivEnter:            "enable",
		PrivExit:             "disable",
		PrivCheck:            "#",
		ConfigEnter:          "conf t",
		ConfigExit:           "end",
		ConfigCheck:          ")#",
		SendConfigSet:        iosLikeSendConfigSet,
		Cleanup:              iosLikeCleanup,
		NormalizeLinefeeds:   normalizeLinefeedsNXOS,
	})
}
