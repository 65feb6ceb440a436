package netdevice

import "regexp"

// Infotecs HW1000 has three modes instead of the usual two: user,
// privilege ("#"), and a Linux shell reached only from privilege mode.
// The box supports a single active privilege session, so privilege entry
// can collide with another administrator ("Are you sure you want to force
// termination...") and is resolved by Options.PreemptPrivilege rather
// than silently forcing the other session out. Entering the shell changes
// the prompt shape entirely, so it's the one transition in the engine
// that recomputes base_prompt mid-session.

var (
	hw1000ForceTerminationPattern = regexp.MustCompile(`(?i)Are you sure you want to force termination of the specified session`)
	hw1000ShellEnterPattern       = regexp.MustCompile(`(?i)Are you sure you want to exit to the Linux system shell`)
	hw1000ShellPromptPattern      = regexp.MustCompile(`[>#]\s*$`)
)

func hw1000EnableMode(d *Device) error {
	if err := d.checkModeSubstring(d.descriptor.PrivCheck); err == nil {
		d.inEnableMode = true
		return nil
	}

	if _, err := d.SendCommand(d.descriptor.PrivEnter, SendCommandOptions{
		Pattern:      `(?i)password`,
		StripCommand: true,
	}); err != nil {
		return err
	}

	// The force-termination confirmation only appears after the secret is
	// submitted, not on the bare "enable" — the read following the secret
	// has to accept it alongside base_pattern or it blocks to a Timeout
	// instead of ever reaching the preempt_privilege check below.
	out, err := d.SendCommand(d.options.Secret, SendCommandOptions{
		Pattern:      hw1000ForceTerminationPattern.String(),
		StripCommand: true,
	})
	if err != nil {
		return err
	}

	if hw1000ForceTerminationPattern.MatchString(out) {
		if !d.options.PreemptPrivilege {
			return &ProtocolError{Host: d.host, Msg: "privilege mode already held by another session; preempt_privilege not set"}
		}
		if _, err := d.SendCommand("Yes", DefaultSendCommandOptions()); err != nil {
			return err
		}
	}

	if err := d.checkModeSubstring(d.descriptor.PrivCheck); err != nil {
		return err
	}
	d.inEnableMode = true
	return nil
}

func hw1000Connect(d *Device) error {
	if err := d.establish(); err != nil {
		return err
	}
	if err := d.SetBasePrompt(d.timeout); err != nil {
		return err
	}
	return hw1000EnableMode(d)
}

// hw1000EnterShell backs Device.EnterShellMode: "admin esc", a forced
// confirmation, the enable secret again, then a prompt of unknown shape
// that forces a fresh base_prompt discovery.
func hw1000EnterShell(d *Device) error {
	if _, err := d.SendCommand("admin esc", SendCommandOptions{
		Pattern:      hw1000ShellEnterPattern.String(),
		StripCommand: true,
	}); err != nil {
		return err
	}
	if _, err := d.SendCommand("Yes", SendCommandOptions{Pattern: `(?i)password`, StripCommand: true}); err != nil {
		return err
	}
	if _, err := d.SendCommand(d.options.Secret, SendCommandOptions{
		Pattern:      hw1000ShellPromptPattern.String(),
		StripCommand: true,
	}); err != nil {
		return err
	}
	d.inShellMode = true
	return d.SetBasePrompt(d.timeout)
}

// hw1000ExitShell leaves the shell and rediscovers base_prompt, which
// reverts to the privilege-mode shape. The read after "exit" can't rely
// on base_pattern alone — the shell prompt it was built from is already
// gone — so it also accepts the bare delimiter shape.
func hw1000ExitShell(d *Device) error {
	if !d.inShellMode {
		return nil
	}
	if _, err := d.SendCommand("exit", SendCommandOptions{
		Pattern:      hw1000ShellPromptPattern.String(),
		StripCommand: true,
	}); err != nil {
		return err
	}
	d.inShellMode = false
	return d.SetBasePrompt(d.timeout)
}

// hw1000Cleanup exits the shell first, if entered, then drops privilege
// mode through the checked transition, so a scoped session never leaves
// the device sitting in either.
func hw1000Cleanup(d *Device) error {
	if d.inShellMode {
		if err := hw1000ExitShell(d); err != nil {
			return err
		}
	}
	if !d.inEnableMode {
		return nil
	}
	return disableModeIOSLike(d)
}

func init() {
	registerDescriptor(&VendorDescriptor{
		Name:            "hw1000",
		DelimiterList:   []string{">", "#"},
		PatternTemplate: `{prompt}.*?[{delimiters}]`,
		StemExtract:     stemDropLastChar,
		Connect:         hw1000Connect,
		PrivEnter:       "enable",
		PrivExit:        "exit",
		PrivCheck:       "#",
		AnsiEscapeCodes: true,
		Cleanup:         hw1000Cleanup,
		EnterShell:      hw1000EnterShell,
		ExitShell:       hw1000ExitShell,
	})
}
