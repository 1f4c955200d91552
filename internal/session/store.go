package session

import (
	"sync"
	"time"

	"github.com/UnendingLoop/PhotoRestorer/internal/model"
	"github.com/google/uuid"
)

const DefaultTTL = 30 * time.Minute

// Store keeps sessions in memory only; nothing outlives the process
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (st *Store) Create() *Session {
	s := newSession(uuid.New(), st.now)

	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()

	return s
}

func (st *Store) Get(id string) (*Session, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, model.ErrIncorrectID
	}

	st.mu.RLock()
	s, ok := st.sessions[uid]
	st.mu.RUnlock()

	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return s, nil
}

func (st *Store) Delete(id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return model.ErrIncorrectID
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[uid]
	if !ok {
		return model.ErrSessionNotFound
	}
	s.Reset()
	delete(st.sessions, uid)
	return nil
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many were removed
func (st *Store) Sweep(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.expired(now, st.ttl) {
			s.Reset()
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}
