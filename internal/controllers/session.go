package controllers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amaumene/cinelist/internal/metrics"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Session is the in-memory state of one signed-in user
type Session struct {
	UserID     string
	Watchlists *WatchlistController
	Sites      *SitesController
	Keywords   *KeywordsController
	Suggester  *Suggester

	lastSeen time.Time
}

// SessionManager creates a session on a user's first request and tears it
// down on sign-out or after it has been idle too long
type SessionManager struct {
	store    Store
	prefs    PreferenceStore
	searcher TitleSearcher
	idle     time.Duration
	logger   *logrus.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	loading  singleflight.Group
}

// NewSessionManager creates a new session manager
func NewSessionManager(store Store, prefs PreferenceStore, searcher TitleSearcher, idle time.Duration, logger *logrus.Logger) *SessionManager {
	return &SessionManager{
		store:    store,
		prefs:    prefs,
		searcher: searcher,
		idle:     idle,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the user's session, loading watchlists, sites and keywords
// from the store the first time. A failed load leaves no session behind.
func (m *SessionManager) Get(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("missing user id")
	}

	m.mu.Lock()
	if s, ok := m.sessions[userID]; ok {
		s.lastSeen = m.now()
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	v, err, _ := m.loading.Do(userID, func() (interface{}, error) {
		s, err := m.load(ctx, userID)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		if existing, ok := m.sessions[userID]; ok {
			return existing, nil
		}
		s.lastSeen = m.now()
		m.sessions[userID] = s
		metrics.ActiveSessions.Set(float64(len(m.sessions)))
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

func (m *SessionManager) load(ctx context.Context, userID string) (*Session, error) {
	s := &Session{
		UserID:     userID,
		Watchlists: NewWatchlistController(userID, m.store, m.prefs, m.logger),
		Sites:      NewSitesController(userID, m.store, m.logger),
		Keywords:   NewKeywordsController(userID, m.store, m.logger),
		Suggester:  NewSuggester(m.searcher),
	}

	if _, err := s.Watchlists.Refresh(ctx); err != nil {
		return nil, err
	}
	if _, err := s.Sites.Refresh(ctx); err != nil {
		return nil, err
	}
	if _, err := s.Keywords.Refresh(ctx); err != nil {
		return nil, err
	}

	m.logger.WithField("user_id", userID).Info("Session started")
	return s, nil
}

// End tears down the user's session. It reports whether one existed.
func (m *SessionManager) End(userID string) bool {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	if ok {
		delete(m.sessions, userID)
		metrics.ActiveSessions.Set(float64(len(m.sessions)))
	}
	m.mu.Unlock()

	if ok {
		s.Suggester.Stop()
		m.logger.WithField("user_id", userID).Info("Session ended")
	}
	return ok
}

// ReapIdle ends every session idle for longer than the configured TTL and
// returns how many were ended
func (m *SessionManager) ReapIdle() int {
	if m.idle <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idle)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	for _, s := range expired {
		s.Suggester.Stop()
	}
	if len(expired) > 0 {
		m.logger.WithField("count", len(expired)).Info("Reaped idle sessions")
	}
	return len(expired)
}

// Count returns the number of live sessions
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
