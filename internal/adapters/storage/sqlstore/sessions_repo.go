package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"dog-finder/internal/domain/session"

	"github.com/jmoiron/sqlx"
)

type sessionRow struct {
	ID        string `db:"id"`
	Data      string `db:"data"`
	ExpiresAt int64  `db:"expires_at"`
	CreatedAt int64  `db:"created_at"`
	UpdatedAt int64  `db:"updated_at"`
	Version   int64  `db:"version"`
}

// SessionsRepo guarda la sesión como JSON en una fila. Las queries se
// escriben con '?' y se pasan por Rebind según el driver.
type SessionsRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSessionsRepo(db *sqlx.DB) *SessionsRepo {
	return &SessionsRepo{db: db, now: time.Now}
}

var _ session.Repository = (*SessionsRepo)(nil)
var _ session.Purger = (*SessionsRepo)(nil)

func (r *SessionsRepo) Create(ctx context.Context, s session.Session) error {
	row, err := toRow(s)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO sessions (id, data, expires_at, created_at, updated_at, version)
		VALUES (?, ?, ?, ?, ?, ?)
	`), row.ID, row.Data, row.ExpiresAt, row.CreatedAt, row.UpdatedAt, row.Version)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// Update solo pisa la fila si sigue en la versión que leyó el caller.
func (r *SessionsRepo) Update(ctx context.Context, s session.Session) error {
	read := s.Version
	s.Version++
	row, err := toRow(s)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE sessions
		SET data = ?, expires_at = ?, updated_at = ?, version = ?
		WHERE id = ? AND version = ?
	`), row.Data, row.ExpiresAt, row.UpdatedAt, row.Version, row.ID, read)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		return nil
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, r.db.Rebind(`SELECT COUNT(*) FROM sessions WHERE id = ?`), row.ID); err != nil {
		return fmt.Errorf("checking session: %w", err)
	}
	if exists == 0 {
		return session.ErrNotFound
	}
	return session.ErrConflict
}

func (r *SessionsRepo) Get(ctx context.Context, id string) (session.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return session.Session{}, session.ErrNotFound
	}

	var row sessionRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT id, data, expires_at, created_at, updated_at, version
		FROM sessions
		WHERE id = ? AND (expires_at = 0 OR expires_at > ?)
	`), id, r.now().Unix())
	if errors.Is(err, sql.ErrNoRows) {
		return session.Session{}, session.ErrNotFound
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("getting session: %w", err)
	}

	s, err := session.Decode([]byte(row.Data))
	if err != nil {
		return session.Session{}, fmt.Errorf("decoding session %s: %w", id, err)
	}
	s.Version = row.Version
	return s, nil
}

func (r *SessionsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (r *SessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		DELETE FROM sessions WHERE expires_at <> 0 AND expires_at <= ?
	`), now.Unix())
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func toRow(s session.Session) (sessionRow, error) {
	if strings.TrimSpace(s.ID) == "" {
		return sessionRow{}, errors.New("session id required")
	}
	b, err := session.Encode(s)
	if err != nil {
		return sessionRow{}, fmt.Errorf("encoding session: %w", err)
	}
	return sessionRow{
		ID:        s.ID,
		Data:      string(b),
		ExpiresAt: unix(s.ExpiresAt),
		CreatedAt: unix(s.CreatedAt),
		UpdatedAt: unix(s.UpdatedAt),
		Version:   s.Version,
	}, nil
}

func unix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
