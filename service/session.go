package service

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/gael-paolo/st-parts-track/model"
)

// Session holds one user's presentation-shell state. Nothing here affects
// classification; it only remembers which input panel the dashboard shows.
type Session struct {
	ID        string
	Panel     model.PanelState
	UpdatedAt time.Time
}

// SessionStore is an in-memory registry of dashboard sessions. Sessions are
// presentation state only, so losing them on restart is fine.
type SessionStore struct {
	sessions    map[string]*Session
	mu          sync.RWMutex
	maxSessions int // 0 = unlimited
}

var (
	globalSessions *SessionStore
	sessionsOnce   sync.Once
)

// InitSessionStore initializes the global session store.
func InitSessionStore(maxSessions int) {
	sessionsOnce.Do(func() {
		if maxSessions < 0 {
			maxSessions = 0
		}
		globalSessions = &SessionStore{
			sessions:    make(map[string]*Session),
			maxSessions: maxSessions,
		}
		slog.Info("session store initialized", "max_sessions", maxSessions)
	})
}

// GetSessionStore returns the global session store.
func GetSessionStore() *SessionStore {
	if globalSessions == nil {
		globalSessions = &SessionStore{
			sessions:    make(map[string]*Session),
			maxSessions: 1000,
		}
	}
	return globalSessions
}

// Panel returns the panel state for a session, defaulting to idle for
// sessions never seen before.
func (s *SessionStore) Panel(id string) model.PanelState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[id]; ok {
		return sess.Panel
	}
	return model.PanelIdle
}

// SetPanel records the panel state for a session.
func (s *SessionStore) SetPanel(id string, panel model.PanelState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = &Session{
		ID:        id,
		Panel:     panel,
		UpdatedAt: time.Now(),
	}
	s.cleanupIfNeeded()
}

// Delete forgets a session.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Count returns the number of tracked sessions.
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// cleanupIfNeeded evicts the stalest sessions when the registry exceeds
// maxSessions. Must be called with lock held.
func (s *SessionStore) cleanupIfNeeded() {
	if s.maxSessions <= 0 {
		return
	}
	if len(s.sessions) <= s.maxSessions {
		return
	}

	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.Before(sessions[j].UpdatedAt)
	})

	removeCount := len(sessions) - s.maxSessions
	for i := 0; i < removeCount; i++ {
		delete(s.sessions, sessions[i].ID)
	}
}
