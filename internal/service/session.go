package service

import (
	"sync"
	"time"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSelected
	PhaseAwaitingProof
	PhaseVerifying
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSelected:
		return "selected"
	case PhaseAwaitingProof:
		return "awaiting_proof"
	case PhaseVerifying:
		return "verifying"
	default:
		return "unknown"
	}
}

// Session is the per-buyer conversation state. It is volatile: a restart
// drops every session back to idle. Callers must hold the mutex while
// handling an update for the buyer, which serializes a single buyer's
// conversation without blocking anyone else's.
type Session struct {
	sync.Mutex

	BuyerID     int64
	Phase       Phase
	ProductID   uint
	BrowseIndex int

	// non-nil while an admin is walking the add-product form
	Intake *ProductIntake

	touchedAt time.Time
}

// Reset drops the session back to idle, clearing any pending purchase and
// any half-finished intake.
func (s *Session) Reset() {
	s.Phase = PhaseIdle
	s.ProductID = 0
	s.Intake = nil
}

type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[int64]*Session
}

// NewSessionStore creates a store reaping sessions idle longer than ttl.
// A ttl of zero disables expiry.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[int64]*Session),
	}
}

// Get returns the buyer's session, creating it on first contact, and marks
// it touched.
func (s *SessionStore) Get(buyerID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[buyerID]
	if !ok {
		sess = &Session{BuyerID: buyerID}
		s.sessions[buyerID] = sess
	}
	sess.touchedAt = time.Now()
	return sess
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Reap removes sessions idle longer than the ttl and returns how many were
// dropped. Sessions mid-update (locked) are skipped and picked up on a later
// sweep.
func (s *SessionStore) Reap(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reaped := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.touchedAt) < s.ttl {
			continue
		}
		if !sess.TryLock() {
			continue
		}
		sess.Unlock()
		delete(s.sessions, id)
		reaped++
	}
	return reaped
}

// RunReaper sweeps at the given interval until stop is closed.
func (s *SessionStore) RunReaper(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			s.Reap(now)
		}
	}
}
