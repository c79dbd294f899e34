package httpapi

import (
	"context"
	"sync"
	"time"

	"github.com/nikolayk812/gourmet-ledger/internal/ledger"
)

type session struct {
	mu       sync.Mutex
	ledger   *ledger.Ledger
	active   int
	lastUsed time.Time
}

// Sessions owns one ledger per session. Ledger operations for the same
// session are serialized; different sessions run independently. Sessions
// idle for longer than the configured TTL are dropped by Sweep.
type Sessions struct {
	mu        sync.Mutex
	sessions  map[string]*session
	newLedger func(ownerID string) *ledger.Ledger
	now       func() time.Time
}

type SessionsOption func(*Sessions)

func WithSessionClock(now func() time.Time) SessionsOption {
	return func(s *Sessions) { s.now = now }
}

func NewSessions(newLedger func(ownerID string) *ledger.Ledger, opts ...SessionsOption) *Sessions {
	s := &Sessions{
		sessions:  make(map[string]*session),
		newLedger: newLedger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// With runs fn on the session ledger, creating the session on first use.
func (s *Sessions) With(id string, fn func(l *ledger.Ledger) error) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{ledger: s.newLedger(id)}
		s.sessions[id] = sess
	}
	sess.active++
	sess.lastUsed = s.now()
	s.mu.Unlock()

	defer s.release(sess)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	return fn(sess.ledger)
}

// View runs fn on the session ledger without creating a session. Unknown
// sessions see a fresh, empty ledger that is not kept.
func (s *Sessions) View(id string, fn func(l *ledger.Ledger)) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		sess.active++
		sess.lastUsed = s.now()
	}
	s.mu.Unlock()

	if !ok {
		fn(s.newLedger(id))
		return
	}

	defer s.release(sess)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	fn(sess.ledger)
}

func (s *Sessions) release(sess *session) {
	s.mu.Lock()
	sess.active--
	sess.lastUsed = s.now()
	s.mu.Unlock()
}

// Sweep drops sessions unused for longer than maxIdle and returns how many
// were dropped. Sessions with an operation in flight are kept.
func (s *Sessions) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)

	var dropped int
	for id, sess := range s.sessions {
		if sess.active > 0 || sess.lastUsed.After(cutoff) {
			continue
		}
		delete(s.sessions, id)
		dropped++
	}
	return dropped
}

// RunSweeper sweeps every interval until ctx is done.
func (s *Sessions) RunSweeper(ctx context.Context, interval, maxIdle time.Duration, onSweep func(dropped int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if dropped := s.Sweep(maxIdle); dropped > 0 && onSweep != nil {
				onSweep(dropped)
			}
		}
	}
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}
