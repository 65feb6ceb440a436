package netdevice

import (
	"regexp"
	"time"
)

// ConfigSetOptions carries the vendor-specific kwargs send_config_set
// accepts: whether to commit (XR/JunOS), an optional commit comment, and
// whether to leave configuration mode afterward.
type ConfigSetOptions struct {
	WithCommit     bool
	CommitComment  string
	ExitConfigMode bool
}

// VendorDescriptor is the compile-time, read-only record of everything
// that varies by vendor family: prompt shape, paging, mode-transition
// commands and checks, commit protocol, and connect sequence. Most
// families are expressed entirely as data; a family whose behavior can't
// be expressed as data points its struct fields at small capability
// functions instead (Mikrotik's \r terminator, Alcatel's \n-anchored
// reader, HW1000's shell mode, XR's commit conflict handling) rather than
// being modeled via inheritance.
type VendorDescriptor struct {
	Name string

	// Prompt shape.
	DelimiterList     []string
	DelimiterLeftList []string // non-empty only for bracketed dialects (Comware-like)
	PatternTemplate   string   // {prompt}, {delimiters}, {delimiter_left} placeholders
	StemExtract       func(prompt string) string

	// Connect sequence.
	DisablePagingCommand string // "" means skip the disable_paging step entirely
	Connect              func(d *Device) error
	UsernameSuffix       string // appended to the username at connect (Mikrotik's "+ct200w")
	AnsiEscapeCodes      bool
	OmitTermSize         bool // Mikrotik omits (200, 24)

	// Privilege mode (IOS-like).
	PrivEnter, PrivExit, PrivCheck string

	// Configuration mode.
	ConfigEnter, ConfigExit, ConfigCheck string

	// Commit protocol (XR, JunOS).
	CommitCommand        string
	CommitCommentCommand string
	AbortCommand         string

	// Capability hooks. nil means "use the package-level default".
	SendConfigSet            func(d *Device, commands []string, opts ConfigSetOptions) (string, error)
	Cleanup                  func(d *Device) error
	NormalizeCmd             func(cmd string) string
	NormalizeLinefeeds       func(s string) string
	ReadUntilPromptOrPattern func(d *Device, pattern *regexp.Regexp, timeout time.Duration) (string, error)

	// EnterShell/ExitShell back HW1000's shell-mode accessors. nil means
	// the family has no shell concept; Device.EnterShellMode/ExitShellMode
	// return a ProtocolError in that case.
	EnterShell func(d *Device) error
	ExitShell  func(d *Device) error
}

// registry is the process-wide, read-only-after-init table of vendor
// descriptors keyed by family name. Populated by each vendors_*.go file's
// init().
var registry = map[string]*VendorDescriptor{}

func registerDescriptor(desc *VendorDescriptor) {
	if _, exists := registry[desc.Name]; exists {
		panic("netdevice: duplicate vendor descriptor registered: " + desc.Name)
	}
	registry[desc.Name] = desc
}

func lookupDescriptor(family string) (*VendorDescriptor, bool) {
	d, ok := registry[family]
	return d, ok
}
