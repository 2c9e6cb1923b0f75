package session

import (
	"context"
	"time"
)

// Repository guarda sesiones enteras.
// Update es compare-and-swap: solo se acepta si s.Version coincide con la
// versión guardada, que pasa a ser s.Version+1. Si no coincide devuelve
// ErrConflict; si la sesión no existe, ErrNotFound.
type Repository interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
}

// Purger lo implementan los stores que no expiran solos (memory, sql).
type Purger interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
