package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/mochi-storefront/internal/storefront/catalog"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/checkout"
)

// Store keeps live sessions in memory, keyed by a random id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	catalog  *catalog.Catalog
	delivery checkout.Delivery
	opts     []Option
	now      func() time.Time
}

func NewStore(cat *catalog.Catalog, delivery checkout.Delivery, opts ...Option) *Store {
	cfg := config{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Store{
		sessions: make(map[string]*Session),
		catalog:  cat,
		delivery: delivery,
		opts:     opts,
		now:      cfg.now,
	}
}

func (st *Store) Create() *Session {
	s := New(uuid.NewString(), st.catalog, st.delivery, st.opts...)

	st.mu.Lock()
	st.sessions[s.ID()] = s
	st.mu.Unlock()
	return s
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	return s, nil
}

// Delete drops the session. Deleting an unknown id is a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if ok {
		s.close()
	}
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// PruneIdle removes sessions untouched for longer than maxIdle and returns
// how many were removed.
func (st *Store) PruneIdle(maxIdle time.Duration) int {
	cutoff := st.now().Add(-maxIdle)

	st.mu.Lock()
	var stale []*Session
	for id, s := range st.sessions {
		if s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range stale {
		s.close()
	}
	return len(stale)
}
