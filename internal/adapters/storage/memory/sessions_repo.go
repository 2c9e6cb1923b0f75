package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"dog-finder/internal/domain/session"
)

type storedSession struct {
	data      []byte
	expiresAt time.Time
	version   int64
}

// SessionRepo guarda la sesión codificada para no compartir mapas/slices
// con quien la leyó.
type SessionRepo struct {
	mu   sync.RWMutex
	byID map[string]storedSession
	now  func() time.Time
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{
		byID: make(map[string]storedSession),
		now:  time.Now,
	}
}

var _ session.Repository = (*SessionRepo)(nil)
var _ session.Purger = (*SessionRepo)(nil)

func (r *SessionRepo) Create(ctx context.Context, s session.Session) error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("session id required")
	}
	b, err := session.Encode(s)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[s.ID]; exists {
		return errors.New("session already exists")
	}
	r.byID[s.ID] = storedSession{data: b, expiresAt: s.ExpiresAt, version: s.Version}
	return nil
}

// Update solo pisa la versión que el caller leyó.
func (r *SessionRepo) Update(ctx context.Context, s session.Session) error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("session id required")
	}
	s.Version++
	b, err := session.Encode(s)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[s.ID]
	if !exists {
		return session.ErrNotFound
	}
	if cur.version != s.Version-1 {
		return session.ErrConflict
	}
	r.byID[s.ID] = storedSession{data: b, expiresAt: s.ExpiresAt, version: s.Version}
	return nil
}

func (r *SessionRepo) Get(ctx context.Context, id string) (session.Session, error) {
	r.mu.RLock()
	st, ok := r.byID[id]
	r.mu.RUnlock()

	if !ok || expired(st.expiresAt, r.now()) {
		return session.Session{}, session.ErrNotFound
	}
	return session.Decode(st.data)
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return session.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, st := range r.byID {
		if expired(st.expiresAt, now) {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

func expired(at, now time.Time) bool {
	return !at.IsZero() && !now.Before(at)
}
