package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/alexpitcher/netline/internal/logging"
)

// SSHTransport is the production Transport: an interactive shell channel
// over golang.org/x/crypto/ssh. Reads are served by a single background
// goroutine that fans incoming bytes out to whichever watcher is waiting,
// so that a timed Read never blocks the underlying connection's own read
// loop — the same single-owner/broadcast shape a serial console session
// uses to service ReadUntil.
type SSHTransport struct {
	host string

	client  *ssh.Client
	session *ssh.Session
	stdin   io.WriteCloser
	stdout  io.Reader

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	watchers map[chan []byte]struct{}

	bytesRead    uint64
	bytesWritten uint64
}

// NewSSH returns an unconnected SSH-backed Transport.
func NewSSH() *SSHTransport {
	return &SSHTransport{watchers: make(map[chan []byte]struct{})}
}

func (t *SSHTransport) Connect(ctx context.Context, p Params) error {
	t.host = p.Host

	cfg := &ssh.ClientConfig{
		User:            p.Username,
		Timeout:         15 * time.Second,
		HostKeyCallback: hostKeyCallback(p.KnownHosts),
	}
	if p.ClientVersion != "" {
		cfg.ClientVersion = "SSH-2.0-" + p.ClientVersion
	}
	if len(p.KexAlgs) > 0 {
		cfg.Config.KeyExchanges = p.KexAlgs
	}
	if len(p.EncryptionAlgs) > 0 {
		cfg.Config.Ciphers = p.EncryptionAlgs
	}
	if len(p.MacAlgs) > 0 {
		cfg.Config.MACs = p.MacAlgs
	}
	if len(p.ServerHostKeyAlgs) > 0 {
		cfg.HostKeyAlgorithms = p.ServerHostKeyAlgs
	}

	auths, err := buildAuthMethods(p)
	if err != nil {
		return &DialError{Host: p.Host, Reason: "auth setup", Err: err}
	}
	cfg.Auth = auths

	addr := net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
	dialer := net.Dialer{}
	if p.LocalAddr != "" {
		if local, err := net.ResolveTCPAddr("tcp", p.LocalAddr+":0"); err == nil {
			dialer.LocalAddr = local
		}
	}

	rawConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return &DialError{Host: p.Host, Reason: "tcp dial", Err: err}
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(rawConn, addr, cfg)
	if err != nil {
		rawConn.Close()
		return &DialError{Host: p.Host, Reason: "ssh handshake", Err: err}
	}
	client := ssh.NewClient(sshConn, chans, reqs)

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return &DialError{Host: p.Host, Reason: "open session", Err: err}
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		return &DialError{Host: p.Host, Reason: "stdin pipe", Err: err}
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		return &DialError{Host: p.Host, Reason: "stdout pipe", Err: err}
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
	termType := p.TermType
	if termType == "" {
		termType = "Dumb"
	}
	if err := session.RequestPty(termType, p.TermHeight, p.TermWidth, modes); err != nil {
		session.Close()
		client.Close()
		return &DialError{Host: p.Host, Reason: "request pty", Err: err}
	}

	if err := session.Shell(); err != nil {
		session.Close()
		client.Close()
		return &DialError{Host: p.Host, Reason: "start shell", Err: err}
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	t.client = client
	t.session = session
	t.stdin = stdin
	t.stdout = stdout
	t.ctx = sessionCtx
	t.cancel = cancel

	go t.readLoop()

	logging.Infof("transport: connected host=%s", p.Host)
	return nil
}

func (t *SSHTransport) Write(data []byte) (int, error) {
	n, err := t.stdin.Write(data)
	if err != nil {
		logging.Errorf("transport: write error host=%s: %v", t.host, err)
		return n, fmt.Errorf("transport write: %w", err)
	}
	t.mu.Lock()
	t.bytesWritten += uint64(n)
	t.mu.Unlock()
	return n, nil
}

func (t *SSHTransport) registerWatcher(ch chan []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.watchers[ch] = struct{}{}
}

func (t *SSHTransport) unregisterWatcher(ch chan []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.watchers, ch)
}

func (t *SSHTransport) broadcast(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for ch := range t.watchers {
		cp := make([]byte, len(data))
		copy(cp, data)
		select {
		case ch <- cp:
		default:
		}
	}
}

// Read waits for the next chunk of output, bounded by timeout.
func (t *SSHTransport) Read(maxBytes int, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	watcher := make(chan []byte, 32)
	t.registerWatcher(watcher)
	defer t.unregisterWatcher(watcher)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-t.ctx.Done():
		return nil, fmt.Errorf("transport: closed")
	case <-timer.C:
		return nil, ErrReadTimeout
	case chunk := <-watcher:
		if maxBytes > 0 && len(chunk) > maxBytes {
			chunk = chunk[:maxBytes]
		}
		return chunk, nil
	}
}

func (t *SSHTransport) readLoop() {
	buf := make([]byte, MaxBuffer)
	for {
		select {
		case <-t.ctx.Done():
			return
		default:
		}

		n, err := t.stdout.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			t.mu.Lock()
			t.bytesRead += uint64(n)
			t.mu.Unlock()
			t.broadcast(data)
		}
		if err != nil {
			if err != io.EOF {
				logging.Warnf("transport: read loop error host=%s: %v", t.host, err)
			}
			return
		}
	}
}

func (t *SSHTransport) Close() error {
	if t.cancel != nil {
		t.cancel()
	}
	if t.session != nil {
		t.session.Close()
	}
	if t.client != nil {
		logging.Infof("transport: closing host=%s", t.host)
		return t.client.Close()
	}
	return nil
}

func hostKeyCallback(cb HostKeyCallback) ssh.HostKeyCallback {
	if cb == nil {
		return ssh.InsecureIgnoreHostKey()
	}
	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		return cb(hostname, key.Marshal())
	}
}

func buildAuthMethods(p Params) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if p.Password != "" {
		methods = append(methods, ssh.Password(p.Password))
	}

	for _, key := range p.ClientKeys {
		var signer ssh.Signer
		var err error
		if p.Passphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(key.PEM, []byte(p.Passphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(key.PEM)
		}
		if err != nil {
			return nil, fmt.Errorf("parse client key: %w", err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("no authentication method supplied (password or client_keys required)")
	}
	return methods, nil
}
