// Package transport is the thin duplex-byte-stream collaborator the
// session engine is built on: connect-with-timeout, write, timed read,
// close. It knows nothing about prompts, vendors, or modes.
package transport

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrReadTimeout is returned by Read when no data arrives before the
// requested timeout elapses.
var ErrReadTimeout = errors.New("transport: read timeout")

// Params carries everything needed to open a duplex session to a device.
type Params struct {
	Host     string
	Port     int
	Username string
	Password string

	// ClientKeys are parsed private keys to offer for public-key auth.
	ClientKeys []ClientKey
	Passphrase string

	// KnownHosts selects host-key verification policy. A nil callback
	// means "none" (insecure, accept any host key) per the construction
	// parameter of the same name.
	KnownHosts HostKeyCallback

	LocalAddr string

	AgentForwarding bool
	AgentPath       string

	ClientVersion string

	KexAlgs           []string
	EncryptionAlgs    []string
	MacAlgs           []string
	CompressionAlgs   []string
	SignatureAlgs     []string
	ServerHostKeyAlgs []string

	// TermType is the pty type requested ("Dumb" for every dialect).
	TermType string
	// TermWidth/TermHeight are the requested pty size. A zero width
	// means "omit the size request" (Mikrotik).
	TermWidth  int
	TermHeight int
}

// ClientKey is an opaque PEM-encoded private key, kept decoupled from
// golang.org/x/crypto/ssh so this package's exported surface does not leak
// the transport library's types into netdevice's public API.
type ClientKey struct {
	PEM []byte
}

// HostKeyCallback is invoked with the raw host key blob presented by the
// server; returning a non-nil error aborts the connection.
type HostKeyCallback func(hostname string, keyBlob []byte) error

// Transport is the duplex byte stream a Session drives. Connect, one
// Write per command, repeated timed Read, then Close — nothing else.
type Transport interface {
	Connect(ctx context.Context, p Params) error
	Write(data []byte) (int, error)
	// Read blocks for up to timeout waiting for at least one chunk of
	// data. It returns ErrReadTimeout, never partial success mixed with
	// an error.
	Read(maxBytes int, timeout time.Duration) ([]byte, error)
	Close() error
}

// MaxBuffer is the per-read chunk cap described in the session data model.
const MaxBuffer = 65535

// DialError wraps a transport-level connect failure with the host it was
// dialing, mirroring DisconnectError's shape one layer down.
type DialError struct {
	Host   string
	Reason string
	Err    error
}

func (e *DialError) Error() string {
	return fmt.Sprintf("transport: dial %s failed: %s: %v", e.Host, e.Reason, e.Err)
}

func (e *DialError) Unwrap() error { return e.Err }
