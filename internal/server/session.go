package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/procurement-tools/procdash/internal/ingest"
)

// Session is one uploaded workbook and its metadata. Derived views are rebuilt
// per request; only the parsed workbook is cached.
type Session struct {
	ID         string
	Filename   string
	Workbook   *ingest.Workbook
	CreatedAt  time.Time
	lastAccess time.Time
}

// sessionStore is a mutex-guarded in-memory session cache. Stale sessions are
// pruned lazily on access; there are no background goroutines.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *sessionStore) Create(filename string, wb *ingest.Workbook) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()

	sess := &Session{
		ID:         uuid.NewString(),
		Filename:   filename,
		Workbook:   wb,
		CreatedAt:  s.now(),
		lastAccess: s.now(),
	}
	s.sessions[sess.ID] = sess
	return sess
}

func (s *sessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.lastAccess = s.now()
	return sess, true
}

func (s *sessionStore) pruneLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.lastAccess.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
