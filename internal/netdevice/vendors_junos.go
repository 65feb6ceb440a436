package netdevice

import (
	"fmt"
)

// JunOS's operational (">") / configuration ("#") machine mirrors
// IOS-like's user/config split, but two details don't fit the shared
// descriptor table: a freshly-opened session can land in a csh shell
// ("%") instead of the CLI, and leaving config mode is "commit" followed
// by "exit configuration-mode" rather than a single "end". The base
// pattern doesn't embed the hostname stem at all — "user@host>" style
// prompts are matched structurally, which also lets set_base_prompt run
// before the CLI escape.

func junosCheckCLIMode(d *Device) error {
	return d.checkModeSubstring(">")
}

func junosConnect(d *Device) error {
	if err := d.establish(); err != nil {
		return err
	}
	if err := d.SetBasePrompt(d.timeout); err != nil {
		return err
	}

	if err := junosCheckCLIMode(d); err != nil {
		if _, err := d.SendCommand("cli", DefaultSendCommandOptions()); err != nil {
			return err
		}
		if err := junosCheckCLIMode(d); err != nil {
			return &ProtocolError{Host: d.host, Msg: "failed to enter cli mode"}
		}
	}

	return d.disablePaging()
}

// junosSendConfigSet wraps the batch with configure/commit/exit, each
// step gated by the caller's ConfigSetOptions.
func junosSendConfigSet(d *Device, commands []string, opts ConfigSetOptions) (result string, err error) {
	if err := configModeIOSLike(d); err != nil {
		return "", err
	}
	d.inConfigMode = true

	out, cmdErr := defaultSendConfigSet(d, commands, opts)
	if cmdErr != nil {
		return out, cmdErr
	}

	if opts.WithCommit {
		commitCmd := d.descriptor.CommitCommand
		if opts.CommitComment != "" {
			commitCmd = fmt.Sprintf("%s comment %s", d.descriptor.CommitCommentCommand, opts.CommitComment)
		}
		commitOut, err := d.SendCommand(commitCmd, DefaultSendCommandOptions())
		out += commitOut
		if err != nil {
			return out, err
		}
	}

	if opts.ExitConfigMode {
		if err := exitConfigModeIOSLike(d); err != nil {
			return out, err
		}
		d.inConfigMode = false
	}

	return out, nil
}

// junosCleanup leaves configuration mode if the session closes with
// uncommitted edits still pending.
func junosCleanup(d *Device) error {
	if !d.inConfigMode {
		return nil
	}
	err := exitConfigModeIOSLike(d)
	if err == nil {
		d.inConfigMode = false
	}
	return err
}

func init() {
	registerDescriptor(&VendorDescriptor{
		Name:                 "juniper_junos",
		DelimiterList:        []string{"%", ">", "#"},
		PatternTemplate:      `\w+(@[\-\w]*)?[{delimiters}]`,
		StemExtract:          stemJunOS,
		DisablePagingCommand: "set cli screen-length 0",
		Connect:              junosConnect,
		ConfigEnter:          "configure",
		ConfigExit:           "exit configuration-mode",
		ConfigCheck:          "#",
		CommitCommand:        "commit",
		CommitCommentCommand: "commit",
		SendConfigSet:        junosSendConfigSet,
		Cleanup:              junosCleanup,
	})
}
