// ABOUTME: In-memory session store with TTL cleanup and capacity limits
// ABOUTME: Thread-safe storage for managing active editor sessions

package editor

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/2389-research/patchbay/config"
	"github.com/2389-research/patchbay/graph"
	"github.com/2389-research/patchbay/render"
	"github.com/google/uuid"
)

// ErrUnknownSeed is returned for a seed name with no blueprint behind it.
var ErrUnknownSeed = errors.New("unknown seed")

type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxSessions int
	ttl         time.Duration
	cfg         config.Config
	layout      render.Layout
	now         func() time.Time
}

// NewStore creates a session store sized and timed by cfg.Server. Sessions draw
// with the pixel layout.
func NewStore(cfg config.Config) *Store {
	return &Store{
		sessions:    make(map[string]*Session),
		maxSessions: cfg.Server.MaxSessions,
		ttl:         cfg.Server.SessionTTL,
		cfg:         cfg,
		layout:      cfg.Layout.Pixel,
		now:         time.Now,
	}
}

// Create creates a new session, optionally seeded with a named blueprint.
func (s *Store) Create(seed string) (*Session, error) {
	var fn func(*graph.Registry) error
	switch seed {
	case "":
	case DemoBlueprint:
		fn = func(reg *graph.Registry) error {
			_, err := SeedBlueprint(reg)
			return err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSeed, seed)
	}

	sess := NewSession(uuid.New().String(), s.cfg, s.layout)
	now := s.now()
	sess.CreatedAt, sess.LastAccess = now, now
	if fn != nil {
		if err := sess.Seed(fn); err != nil {
			return nil, fmt.Errorf("seed %s: %w", seed, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Check capacity
	if len(s.sessions) >= s.maxSessions {
		// Evict oldest session
		var oldestID string
		var oldestTime time.Time
		for id, sess := range s.sessions {
			if oldestTime.IsZero() || sess.LastAccess.Before(oldestTime) {
				oldestID = id
				oldestTime = sess.LastAccess
			}
		}
		delete(s.sessions, oldestID)
		log.Printf("component=editor.store action=evict session=%s", oldestID)
	}

	s.sessions[sess.ID] = sess
	log.Printf("component=editor.store action=create session=%s seed=%q", sess.ID, seed)
	return sess, nil
}

// Get retrieves a session by ID and updates its LastAccess time
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}

	sess.LastAccess = s.now()
	return sess, true
}

// Delete removes a session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	log.Printf("component=editor.store action=delete session=%s", id)
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle longer than the TTL
func (s *Store) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.LastAccess.Before(cutoff) {
			delete(s.sessions, id)
			log.Printf("component=editor.store action=expire session=%s", id)
		}
	}
}

// StartCleanup starts a background cleanup goroutine and returns a stop function
func (s *Store) StartCleanup(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}
