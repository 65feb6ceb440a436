package netdevice

import (
	"fmt"
	"regexp"
	"strings"
)

// Cisco IOS XR shares the IOS-like user/enable/config machine but replaces
// plain "end" with an explicit, failure-prone commit step: a concurrent
// session's pending change can conflict with this one's, and a bad commit
// leaves diagnostics behind instead of just refusing the command. XR's
// send_config_set therefore can't reuse iosLikeSendConfigSet verbatim; it
// wraps the batch itself and runs the commit/abort protocol.

var (
	xrCommitProceedPattern = regexp.MustCompile(`(?i)Do you wish to proceed with this commit anyway\?`)
	xrFailedCommitPattern  = regexp.MustCompile(`(?i)Failed to commit`)
	xrConflictPattern      = regexp.MustCompile(`(?i)One or more commits have occurred`)
	xrUncommittedPattern   = regexp.MustCompile(`(?i)Uncommitted changes found`)
)

func xrSendConfigSet(d *Device, commands []string, opts ConfigSetOptions) (result string, err error) {
	if err := configModeIOSLike(d); err != nil {
		return "", err
	}
	d.inConfigMode = true

	var sb strings.Builder
	out, cmdErr := defaultSendConfigSet(d, commands, opts)
	sb.WriteString(out)
	if cmdErr != nil {
		_, _ = d.SendCommand(d.descriptor.AbortCommand, DefaultSendCommandOptions())
		d.inConfigMode = false
		return sb.String(), cmdErr
	}

	if opts.WithCommit {
		commitCmd := "commit"
		if opts.CommitComment != "" {
			commitCmd = fmt.Sprintf("commit comment %s", opts.CommitComment)
		}
		if err := xrCommit(d, commitCmd, &sb); err != nil {
			return sb.String(), err
		}
	}

	if opts.ExitConfigMode {
		exitOut, err := xrExitConfigMode(d)
		sb.WriteString(exitOut)
		if err != nil {
			return sb.String(), err
		}
		d.inConfigMode = false
	}

	return sb.String(), nil
}

// xrCommit runs the commit step: read until prompt or the interactive
// proceed prompt, then inspect the buffer for the two failure signatures
// XR leaves behind.
func xrCommit(d *Device, commitCmd string, sb *strings.Builder) error {
	out, err := d.SendCommand(commitCmd, SendCommandOptions{
		Pattern:      xrCommitProceedPattern.String(),
		StripCommand: true,
		StripPrompt:  false,
	})
	if err != nil {
		return err
	}
	sb.WriteString(out)

	if xrFailedCommitPattern.MatchString(out) {
		diag, _ := d.SendCommand("show configuration failed", DefaultSendCommandOptions())
		return &CommitError{Host: d.host, Reason: diag}
	}
	if xrConflictPattern.MatchString(out) {
		if _, err := d.SendCommand("no", DefaultSendCommandOptions()); err != nil {
			return err
		}
		diag, _ := d.SendCommand("show configuration commit changes", DefaultSendCommandOptions())
		return &CommitError{Host: d.host, Reason: diag}
	}
	return nil
}

// xrExitConfigMode leaves config mode, declining to discard an unexpected
// set of uncommitted changes rather than silently dropping them. The exit
// is re-verified the same way every other mode transition is: still seeing
// the config-mode prompt afterward is a hard error.
func xrExitConfigMode(d *Device) (string, error) {
	var sb strings.Builder
	out, err := d.SendCommand(d.descriptor.ConfigExit, SendCommandOptions{
		Pattern:      xrUncommittedPattern.String(),
		StripCommand: true,
		StripPrompt:  true,
	})
	sb.WriteString(out)
	if err != nil {
		return sb.String(), err
	}
	if xrUncommittedPattern.MatchString(out) {
		confirm, err := d.SendCommand("no", DefaultSendCommandOptions())
		sb.WriteString(confirm)
		if err != nil {
			return sb.String(), err
		}
	}
	if err := d.checkModeSubstring(d.descriptor.ConfigCheck); err == nil {
		return sb.String(), &ProtocolError{Host: d.host, Msg: "failed to exit configuration mode"}
	}
	return sb.String(), nil
}

// xrCleanup aborts any config left pending if the session closes before
// exit_config_mode ran.
func xrCleanup(d *Device) error {
	if !d.inConfigMode {
		return nil
	}
	_, err := d.SendCommand(d.descriptor.AbortCommand, DefaultSendCommandOptions())
	d.inConfigMode = false
	return err
}

func init() {
	registerDescriptor(&VendorDescriptor{
		Name:                 "cisco_ios_xr",
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
		AbortCommand:         "abort",
		SendConfigSet:        xrSendConfigSet,
		Cleanup:              xrCleanup,
	})
}
