// Package netdevice is the interactive session engine: prompt discovery,
// mode state machines, auto-detect probing, and the per-family dialects
// that make one uniform Device usable against roughly a dozen vendor
// command lines.
package netdevice

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/alexpitcher/netline/internal/logging"
	"github.com/alexpitcher/netline/internal/safety"
	"github.com/alexpitcher/netline/internal/transcript"
	"github.com/alexpitcher/netline/internal/transport"
)

// Device is a single-owner session against one network device: at most
// one command in flight, enforced by the caller, not the type. Its
// lifecycle is new -> connected -> (command | mode-transition)* -> closed;
// once closed no further operations are valid.
type Device struct {
	host string
	port int

	options    Options
	descriptor *VendorDescriptor

	transport transport.Transport
	ctx       context.Context
	timeout   time.Duration

	basePrompt    string
	basePattern   *regexp.Regexp
	delimiterList []string

	ansiEscapeCodes bool

	// Family-specific state, read-only to callers via accessors.
	multipleMode    bool // ASA
	inEnableMode    bool
	inConfigMode    bool
	inShellMode     bool // HW1000
	commitConfirmed bool

	transcript *transcript.Transcript
}

// SendCommandOptions mirrors send_command's keyword arguments.
type SendCommandOptions struct {
	// Pattern, if non-empty, is an additional regex the read loop accepts
	// alongside base_pattern, supporting interactive sub-prompts.
	Pattern         string
	CaseInsensitive bool
	StripCommand    bool
	StripPrompt     bool
}

// DefaultSendCommandOptions returns the documented defaults:
// strip_command=true, strip_prompt=true.
func DefaultSendCommandOptions() SendCommandOptions {
	return SendCommandOptions{StripCommand: true, StripPrompt: true}
}

// newDevice constructs a Device for a resolved descriptor; called by the
// Dispatcher's Create and by Autodetect for its probe session.
func newDevice(opts Options, desc *VendorDescriptor) *Device {
	delimiters := desc.DelimiterList
	if len(opts.DelimiterList) > 0 {
		delimiters = opts.DelimiterList
	}

	d := &Device{
		host:            opts.Host,
		port:            opts.Port,
		options:         opts,
		descriptor:      desc,
		transport:       transport.NewSSH(),
		timeout:         opts.Timeout,
		delimiterList:   delimiters,
		ansiEscapeCodes: desc.AnsiEscapeCodes,
	}
	if opts.Pattern != "" {
		custom := *desc
		custom.PatternTemplate = opts.Pattern
		d.descriptor = &custom
	}
	return d
}

// WithTransport overrides the transport, used by tests to drive a Device
// against internal/transport.Simulator instead of a real SSH connection.
func (d *Device) WithTransport(t transport.Transport) *Device {
	d.transport = t
	return d
}

// BasePrompt returns the device's hostname-like identity, valid after
// Connect returns successfully.
func (d *Device) BasePrompt() string { return d.basePrompt }

// BasePattern returns the compiled terminator regex for the current mode
// set, valid after Connect returns successfully.
func (d *Device) BasePattern() *regexp.Regexp { return d.basePattern }

// MultipleMode reports ASA's multiple-context flag.
func (d *Device) MultipleMode() bool { return d.multipleMode }

// Host returns the device's address, for error reporting and logging.
func (d *Device) Host() string { return d.host }

// Connect runs the vendor's connect sequence: establish the transport,
// discover the base prompt, and run whatever mode setup the family
// requires.
func (d *Device) Connect(ctx context.Context) error {
	d.ctx = ctx
	if d.options.RecordTranscript {
		d.transcript = transcript.New(d.host, d.descriptor.Name)
	}

	connectFn := defaultConnect
	if d.descriptor.Connect != nil {
		connectFn = d.descriptor.Connect
	}
	if err := connectFn(d); err != nil {
		logging.Errorf("netdevice: connect failed host=%s device_type=%s: %v", d.host, d.descriptor.Name, err)
		return err
	}
	if d.transcript != nil {
		d.transcript.BasePrompt = d.basePrompt
	}
	logging.Infof("netdevice: connected host=%s device_type=%s base_prompt=%q", d.host, d.descriptor.Name, d.basePrompt)
	return nil
}

// Disconnect runs the vendor's cleanup (default: no-op) and closes the
// transport. It always closes the transport, even if cleanup fails.
func (d *Device) Disconnect() error {
	var cleanupErr error
	if d.descriptor.Cleanup != nil {
		cleanupErr = d.descriptor.Cleanup(d)
	}

	if d.transcript != nil {
		if _, err := d.transcript.Save(d.options.RedactTranscript); err != nil {
			logging.Warnf("netdevice: transcript save failed host=%s: %v", d.host, err)
		}
	}

	closeErr := d.transport.Close()
	logging.Infof("netdevice: disconnected host=%s", d.host)

	if cleanupErr != nil {
		return cleanupErr
	}
	return closeErr
}

// Use scopes acquisition: it connects, invokes fn, and guarantees
// Disconnect runs on every exit path, including a panic propagating out of
// fn's own deferred recovery or a returned error.
func (d *Device) Use(ctx context.Context, fn func(*Device) error) (err error) {
	if err := d.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		if derr := d.Disconnect(); derr != nil && err == nil {
			err = derr
		}
	}()
	return fn(d)
}

// establish opens the transport and drains the initial banner by reading
// until any delimiter character appears. A quiet connection (no banner)
// is tolerated here; set_base_prompt will still succeed against the login
// prompt itself.
func (d *Device) establish() error {
	username := d.options.Username + d.descriptor.UsernameSuffix

	params := transport.Params{
		Host:              d.host,
		Port:              d.port,
		Username:          username,
		Password:          d.options.Password,
		ClientKeys:        d.options.ClientKeys,
		Passphrase:        d.options.Passphrase,
		KnownHosts:        d.options.KnownHosts,
		LocalAddr:         d.options.LocalAddr,
		AgentForwarding:   d.options.AgentForwarding,
		AgentPath:         d.options.AgentPath,
		ClientVersion:     d.options.ClientVersion,
		KexAlgs:           d.options.KexAlgs,
		EncryptionAlgs:    d.options.EncryptionAlgs,
		MacAlgs:           d.options.MacAlgs,
		CompressionAlgs:   d.options.CompressionAlgs,
		SignatureAlgs:     d.options.SignatureAlgs,
		ServerHostKeyAlgs: d.options.ServerHostKeyAlgs,
		TermType:          "Dumb",
	}
	if !d.descriptor.OmitTermSize {
		params.TermWidth, params.TermHeight = 200, 24
	}

	if err := d.transport.Connect(d.ctx, params); err != nil {
		return &DisconnectError{Host: d.host, Code: 0, Reason: err.Error()}
	}

	delimPattern := delimiterPattern(d.delimiterList)
	if _, err := d.ReadUntilPattern(delimPattern, d.timeout); err != nil {
		logging.Debugf("netdevice: no banner drained host=%s: %v", d.host, err)
	}
	return nil
}

// disablePaging sends the vendor's paging-disable command, if any.
func (d *Device) disablePaging() error {
	if d.descriptor.DisablePagingCommand == "" {
		return nil
	}
	_, err := d.SendCommand(d.descriptor.DisablePagingCommand, DefaultSendCommandOptions())
	return err
}

// defaultConnect is establish -> set_base_prompt -> disable_paging, the
// sequence every family uses unless its descriptor overrides Connect.
func defaultConnect(d *Device) error {
	if err := d.establish(); err != nil {
		return err
	}
	if err := d.SetBasePrompt(d.timeout); err != nil {
		return err
	}
	return d.disablePaging()
}

// defaultNormalizeCmd appends exactly one trailing newline, the line
// terminator every family uses except Mikrotik (\r, see its descriptor).
func defaultNormalizeCmd(cmd string) string {
	return strings.TrimRight(cmd, "\n") + "\n"
}

func (d *Device) normalizeCmd(cmd string) string {
	if d.descriptor.NormalizeCmd != nil {
		return d.descriptor.NormalizeCmd(cmd)
	}
	return defaultNormalizeCmd(cmd)
}

func (d *Device) normalizeLinefeeds(s string) string {
	if d.descriptor.NormalizeLinefeeds != nil {
		return d.descriptor.NormalizeLinefeeds(s)
	}
	return NormalizeLinefeeds(s)
}

func (d *Device) writeCommand(cmd string) (string, error) {
	normalized := d.normalizeCmd(cmd)
	if _, err := d.transport.Write([]byte(normalized)); err != nil {
		return normalized, fmt.Errorf("netdevice: write command: %w", err)
	}
	return normalized, nil
}

// SendCommand writes cmd, reads until the device is ready for the next
// command, and returns the cleaned response.
func (d *Device) SendCommand(cmd string, opts SendCommandOptions) (string, error) {
	normalized, err := d.writeCommand(cmd)
	if err != nil {
		return "", err
	}

	var pattern *regexp.Regexp
	if opts.Pattern != "" {
		p := opts.Pattern
		if opts.CaseInsensitive {
			p = "(?i)" + p
		}
		compiled, cerr := regexp.Compile(p)
		if cerr != nil {
			return "", &ProtocolError{Host: d.host, Msg: fmt.Sprintf("invalid pattern %q: %v", opts.Pattern, cerr)}
		}
		pattern = compiled
	}

	raw, err := d.ReadUntilPromptOrPattern(pattern, d.timeout)
	if err != nil {
		return "", err
	}

	cleaned := raw
	if d.ansiEscapeCodes {
		cleaned = StripANSI(cleaned)
	}
	cleaned = d.normalizeLinefeeds(cleaned)
	if opts.StripPrompt {
		cleaned = StripPromptLine(cleaned, d.basePrompt)
	}
	if opts.StripCommand {
		cleaned = StripCommandEcho(cleaned, normalized)
	}

	if d.transcript != nil {
		d.transcript.Record(cmd, cleaned)
	}
	return cleaned, nil
}

// ExitEnableMode drops from privilege exec back to user exec, verifying
// the transition against the resulting prompt. Families with no privilege
// concept return a ProtocolError.
func (d *Device) ExitEnableMode() error {
	if d.descriptor.PrivExit == "" {
		return &ProtocolError{Host: d.host, Msg: fmt.Sprintf("%s does not support privilege mode", d.descriptor.Name)}
	}
	return disableModeIOSLike(d)
}

// EnterShellMode drops HW1000 into its Linux shell, recomputing the base
// prompt since it changes shape there. Families without a shell concept
// return a ProtocolError.
func (d *Device) EnterShellMode() error {
	if d.descriptor.EnterShell == nil {
		return &ProtocolError{Host: d.host, Msg: fmt.Sprintf("%s does not support shell mode", d.descriptor.Name)}
	}
	return d.descriptor.EnterShell(d)
}

// ExitShellMode leaves HW1000's shell and recomputes the base prompt.
func (d *Device) ExitShellMode() error {
	if d.descriptor.ExitShell == nil {
		return &ProtocolError{Host: d.host, Msg: fmt.Sprintf("%s does not support shell mode", d.descriptor.Name)}
	}
	return d.descriptor.ExitShell(d)
}

// ConfirmCommit gates a subsequent SendConfigSet(..., WithCommit: true)
// behind an explicit confirmation token when Options.ConfirmToken is set.
// Sessions that never set ConfirmToken don't need to call this.
func (d *Device) ConfirmCommit(userInput string) error {
	if d.options.ConfirmToken == "" {
		d.commitConfirmed = true
		return nil
	}
	if err := safety.Confirm(userInput, d.options.ConfirmToken); err != nil {
		return err
	}
	d.commitConfirmed = true
	if err := safety.Log("confirm_commit", map[string]string{
		"host":        d.host,
		"device_type": d.descriptor.Name,
	}); err != nil {
		logging.Warnf("netdevice: commit confirmation log failed host=%s: %v", d.host, err)
	}
	return nil
}

// SendConfigSet runs commands against the device, wrapped by whatever
// mode entry/exit and commit protocol the vendor descriptor requires.
func (d *Device) SendConfigSet(commands []string, opts ConfigSetOptions) (string, error) {
	if len(commands) == 0 {
		return "", &ProtocolError{Host: d.host, Msg: "send_config_set requires at least one command"}
	}
	if opts.WithCommit && d.options.ConfirmToken != "" && !d.commitConfirmed {
		return "", &ProtocolError{Host: d.host, Msg: "commit requires ConfirmCommit before send_config_set"}
	}

	if d.descriptor.SendConfigSet != nil {
		return d.descriptor.SendConfigSet(d, commands, opts)
	}
	return defaultSendConfigSet(d, commands, opts)
}

// defaultSendConfigSet writes each command in sequence, reading until
// prompt after each, with no mode wrapping.
func defaultSendConfigSet(d *Device, commands []string, _ ConfigSetOptions) (string, error) {
	var sb strings.Builder
	for _, cmd := range commands {
		out, err := d.SendCommand(cmd, DefaultSendCommandOptions())
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString(out)
	}
	return sb.String(), nil
}

// checkModeSubstring sends a bare newline and verifies the resulting
// prompt contains want, the confirmation step every mode transition
// performs before declaring success.
func (d *Device) checkModeSubstring(want string) error {
	out, err := d.SendCommand("", SendCommandOptions{StripCommand: true, StripPrompt: false})
	if err != nil {
		return err
	}
	if !strings.Contains(out, want) {
		return &ProtocolError{Host: d.host, Msg: fmt.Sprintf("expected %q after mode transition, got %q", want, out)}
	}
	return nil
}
