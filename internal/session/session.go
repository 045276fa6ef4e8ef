// Package session keeps per-browser portal state in process memory. Nothing
// here survives a restart.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/klse-analytics/portal/shared/crypto"
	"github.com/klse-analytics/portal/shared/logger"
)

// Session serializes all state changes of one visitor.
type Session struct {
	ID string

	mu       sync.Mutex
	state    State
	lastSeen time.Time // guarded by Store.mu
}

// Update runs fn with exclusive access to the state. fn must not block on
// the network; callers release the session between reductions.
func (s *Session) Update(fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.state)
}

// View returns a rendering snapshot.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.view()
}

type Store struct {
	sessions map[string]*Session
	mu       sync.Mutex
	sealer   *crypto.Sealer
	idleTTL  time.Duration
	now      func() time.Time
}

// NewStore creates an empty store. Credentials are sealed with a key
// generated here, so a new store cannot read an old store's secrets.
func NewStore(idleTTL time.Duration) (*Store, error) {
	sealer, err := crypto.NewEphemeralSealer()
	if err != nil {
		return nil, fmt.Errorf("failed to create credential sealer: %w", err)
	}
	return &Store{
		sessions: make(map[string]*Session),
		sealer:   sealer,
		idleTTL:  idleTTL,
		now:      time.Now,
	}, nil
}

// Get returns a live session and marks it as seen.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	now := st.now()
	if st.expired(s, now) {
		delete(st.sessions, id)
		return nil, false
	}
	s.lastSeen = now
	return s, true
}

// Create starts a fresh visit.
func (st *Store) Create() *Session {
	s := st.Transient()
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Transient returns a fresh session that is not kept in the store. Pages
// render from it until the visitor first changes something.
func (st *Store) Transient() *Session {
	return &Session{
		ID:       uuid.NewString(),
		state:    newState(st.sealer),
		lastSeen: st.now(),
	}
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *Store) expired(s *Session, now time.Time) bool {
	return st.idleTTL > 0 && now.Sub(s.lastSeen) > st.idleTTL
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed. A request still holding a swept session finishes normally.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	removed := 0
	for id, s := range st.sessions {
		if st.expired(s, now) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// StartBackgroundSweep periodically removes idle sessions until ctx is done.
func (st *Store) StartBackgroundSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started session sweeper",
		"component", "session_store",
		"interval", interval,
		"idle_ttl", st.idleTTL)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := st.Sweep(); n > 0 {
					logger.Log.Debug("swept idle sessions",
						"component", "session_store",
						"removed", n)
				}
			case <-ctx.Done():
				logger.Log.Info("session sweeper shutting down",
					"component", "session_store")
				return
			}
		}
	}()
}
