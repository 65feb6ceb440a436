package netdevice

import (
	"time"

	"github.com/alexpitcher/netline/internal/transport"
)

// AddressFamily names an IP family for Options.Family. The value is
// stored only: the SSH dial does not consult it and always dials "tcp".
type AddressFamily int

const (
	AFUnspec AddressFamily = iota
	AFInet
	AFInet6
)

// Options are the recognized construction parameters for Create. Host,
// Username, and DeviceType are required; everything else has a documented
// default.
type Options struct {
	Host       string
	Username   string
	Password   string
	Port       int // default 22
	DeviceType string

	Timeout time.Duration // default 15s

	// KnownHosts selects host-key verification policy: nil means "none"
	// (insecure, accept any host key).
	KnownHosts transport.HostKeyCallback

	LocalAddr  string
	ClientKeys []transport.ClientKey
	Passphrase string

	// Tunnel holds a reference to another Session. It is an opaque,
	// non-owning reference: this Session never closes it. The connect
	// path does not use it; the SSH connection is always dialed directly
	// to Host.
	Tunnel *Device

	// Pattern overrides the vendor's default prompt regex template.
	Pattern string

	AgentForwarding bool
	AgentPath       string
	ClientVersion   string // default "netline"

	Family AddressFamily

	KexAlgs           []string
	EncryptionAlgs    []string
	MacAlgs           []string
	CompressionAlgs   []string
	SignatureAlgs     []string
	ServerHostKeyAlgs []string

	// Vendor extras.
	Secret           string   // IOS-like, HW1000 enable secret
	CmdlinePassword  string   // HP Comware Limited
	PreemptPrivilege bool     // HW1000
	DelimiterList    []string // Terminal override

	// RecordTranscript opts the session into transcript.Save on Disconnect.
	RecordTranscript bool
	// RedactTranscript scrubs secret-looking command arguments from the
	// saved transcript.
	RedactTranscript bool

	// ConfirmToken, if set, gates any send_config_set carrying
	// WithCommit=true behind safety.Confirm with this token as the
	// required value; the caller's input is passed to Device.ConfirmCommit.
	ConfirmToken string
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.Port == 0 {
		out.Port = 22
	}
	if out.Timeout <= 0 {
		out.Timeout = 15 * time.Second
	}
	if out.ClientVersion == "" {
		out.ClientVersion = "netline"
	}
	return out
}
