package services

import (
	"errors"
	"sync"
	"time"

	"clinscore/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown or evicted session ids.
var ErrSessionNotFound = errors.New("assessment session not found")

// Entry is one live session and the client it is being administered to.
type Entry struct {
	ID         string
	ClientName string
	Session    *session.Session
	Saved      bool
	lastSeen   time.Time
}

// SessionStore keeps in-progress sessions in memory. Each session is only
// ever touched under the store lock.
type SessionStore struct {
	log     *zap.Logger
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]*Entry
}

func NewSessionStore(log *zap.Logger) *SessionStore {
	return &SessionStore{
		log:     log,
		now:     time.Now,
		entries: make(map[string]*Entry),
	}
}

// Create starts a session for the instrument and returns its id.
func (s *SessionStore) Create(instrumentID, clientName string) (string, error) {
	sess, err := session.Start(instrumentID)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()

	s.mu.Lock()
	s.entries[id] = &Entry{ID: id, ClientName: clientName, Session: sess, lastSeen: s.now()}
	s.mu.Unlock()

	s.log.Info("Assessment session started",
		zap.String("session_id", id),
		zap.String("instrument", instrumentID),
	)
	return id, nil
}

// Update runs fn against the session with the given id and marks it as
// recently used.
func (s *SessionStore) Update(id string, fn func(e *Entry) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return ErrSessionNotFound
	}
	e.lastSeen = s.now()
	return fn(e)
}

// Delete drops a session.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// EvictIdle removes sessions unused for longer than maxIdle and returns how
// many were removed.
func (s *SessionStore) EvictIdle(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}
