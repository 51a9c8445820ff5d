package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/teemow/calgrid/internal/google"
	"github.com/teemow/calgrid/internal/instrumentation"
	"github.com/teemow/calgrid/internal/logging"
)

// SessionCookie carries the session ID in the browser.
const SessionCookie = "calgrid_session"

const sessionCleanupInterval = 10 * time.Minute

// Session is one signed-in browser.
type Session struct {
	ID        string
	Token     *oauth2.Token
	Profile   *google.Profile
	Events    EventService
	ExpiresAt time.Time
}

// SessionStore keeps browser sessions in memory. Sessions expire ttl
// after they are created and are swept periodically.
type SessionStore struct {
	sessions      map[string]*Session
	mu            sync.Mutex
	ttl           time.Duration
	now           func() time.Time
	metrics       *instrumentation.Metrics
	logger        *slog.Logger
	cleanupTicker *time.Ticker
	cleanupDone   chan struct{}
	stopOnce      sync.Once
}

// NewSessionStore creates a store and starts its cleanup goroutine.
func NewSessionStore(ttl time.Duration, metrics *instrumentation.Metrics, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	interval := sessionCleanupInterval
	if ttl > 0 && ttl < interval {
		interval = ttl
	}

	s := &SessionStore{
		sessions:      make(map[string]*Session),
		ttl:           ttl,
		now:           time.Now,
		metrics:       metrics,
		logger:        logger,
		cleanupTicker: time.NewTicker(interval),
		cleanupDone:   make(chan struct{}),
	}

	go s.cleanupExpiredSessions()

	return s
}

// Create starts a session for a signed-in user.
func (s *SessionStore) Create(ctx context.Context, tok *oauth2.Token, profile *google.Profile, events EventService) *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		Token:     tok,
		Profile:   profile,
		Events:    events,
		ExpiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.metrics.IncrementActiveSessions(ctx)
	if profile != nil {
		s.logger.Info("session created", logging.UserHash(profile.Email))
	}
	return sess
}

// Get returns a live session. An expired session is removed.
func (s *SessionStore) Get(ctx context.Context, id string) (*Session, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	expired := ok && !s.now().Before(sess.ExpiresAt)
	if expired {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if expired {
		s.metrics.DecrementActiveSessions(ctx)
		return nil, false
	}
	return sess, ok
}

// Delete removes a session. Unknown IDs are ignored.
func (s *SessionStore) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		s.metrics.DecrementActiveSessions(ctx)
	}
}

// Len returns the number of stored sessions, expired ones included until
// the next sweep.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) sweep() int {
	s.mu.Lock()
	now := s.now()
	expired := 0
	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, id)
			expired++
		}
	}
	s.mu.Unlock()

	for range expired {
		s.metrics.DecrementActiveSessions(context.Background())
	}
	return expired
}

// cleanupExpiredSessions periodically removes expired sessions
func (s *SessionStore) cleanupExpiredSessions() {
	for {
		select {
		case <-s.cleanupTicker.C:
			if n := s.sweep(); n > 0 {
				s.logger.Info("Cleaned up expired sessions", "count", n)
			}
		case <-s.cleanupDone:
			return
		}
	}
}

// Stop stops the session cleanup goroutine
func (s *SessionStore) Stop() {
	s.stopOnce.Do(func() {
		s.cleanupTicker.Stop()
		close(s.cleanupDone)
	})
}
