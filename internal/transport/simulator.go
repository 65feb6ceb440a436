package transport

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Exchange is one scripted request/response pair for Simulator. Match is
// matched as a substring against the trimmed bytes written to the
// transport; an empty Match matches the next unconsumed exchange
// unconditionally (used for the bare "\n" that kicks off find_prompt).
type Exchange struct {
	Match string
	Reply string

	consumed bool
}

// Simulator is a scripted Transport fixture standing in for a real device,
// used to drive the connect/mode/command scenarios a real SSH round trip
// would be too slow and too flaky to exercise in a test suite.
type Simulator struct {
	mu        sync.Mutex
	exchanges []Exchange
	pending   []byte
	writes    []string
	closed    bool
}

// NewSimulator builds a Simulator that replies to writes in the given
// script, each exchange consumed at most once, in list order among
// matching candidates.
func NewSimulator(exchanges []Exchange) *Simulator {
	cp := make([]Exchange, len(exchanges))
	copy(cp, exchanges)
	return &Simulator{exchanges: cp}
}

func (s *Simulator) Connect(ctx context.Context, p Params) error { return nil }

func (s *Simulator) Write(data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	written := string(data)
	s.writes = append(s.writes, written)
	trimmed := strings.TrimRight(written, "\r\n")

	for i := range s.exchanges {
		if s.exchanges[i].consumed {
			continue
		}
		if s.exchanges[i].Match == "" || strings.Contains(trimmed, s.exchanges[i].Match) {
			s.pending = append(s.pending, []byte(s.exchanges[i].Reply)...)
			s.exchanges[i].consumed = true
			break
		}
	}
	return len(data), nil
}

// Read hands back whatever is pending from the last matched exchange. With
// nothing pending it sleeps out the timeout and reports ErrReadTimeout,
// mirroring how a blocking real transport spends the same wall time.
func (s *Simulator) Read(maxBytes int, timeout time.Duration) ([]byte, error) {
	s.mu.Lock()
	if len(s.pending) > 0 {
		n := len(s.pending)
		if maxBytes > 0 && n > maxBytes {
			n = maxBytes
		}
		chunk := s.pending[:n]
		s.pending = s.pending[n:]
		s.mu.Unlock()
		return chunk, nil
	}
	s.mu.Unlock()

	if timeout > 0 {
		time.Sleep(timeout)
	}
	return nil, ErrReadTimeout
}

func (s *Simulator) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close has been called, for tests asserting that
// a scoped acquisition disconnected on every exit path.
func (s *Simulator) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Writes returns every string written to the simulator so far, for
// assertions like "the reply no\n was transmitted".
func (s *Simulator) Writes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.writes))
	copy(out, s.writes)
	return out
}
