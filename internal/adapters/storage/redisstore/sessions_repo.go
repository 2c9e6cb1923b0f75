package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dog-finder/internal/domain/session"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "dogfinder:session:"

// Open acepta "host:port" o una URL redis://...
func Open(ctx context.Context, addr string, db int) (*redis.Client, error) {
	var opt *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opt = parsed
	} else {
		opt = &redis.Options{Addr: addr, DB: db}
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}

// SessionsRepo guarda cada sesión en una key con TTL = ExpiresAt; redis
// se encarga de vencerlas.
type SessionsRepo struct {
	rdb    *redis.Client
	prefix string
	now    func() time.Time
}

func NewSessionsRepo(rdb *redis.Client) *SessionsRepo {
	return &SessionsRepo{rdb: rdb, prefix: keyPrefix, now: time.Now}
}

var _ session.Repository = (*SessionsRepo)(nil)

func (r *SessionsRepo) key(id string) string { return r.prefix + id }

func (r *SessionsRepo) Create(ctx context.Context, s session.Session) error {
	b, ttl, err := r.encode(s)
	if err != nil {
		return err
	}
	ok, err := r.rdb.SetNX(ctx, r.key(s.ID), b, ttl).Result()
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	if !ok {
		return errors.New("session already exists")
	}
	return nil
}

// Update hace WATCH sobre la key: si otro cliente la escribe entre el GET y
// el EXEC, la transacción falla y se devuelve ErrConflict.
func (r *SessionsRepo) Update(ctx context.Context, s session.Session) error {
	read := s.Version
	s.Version++
	b, ttl, err := r.encode(s)
	if err != nil {
		return err
	}
	key := r.key(s.ID)

	err = r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return session.ErrNotFound
		}
		if err != nil {
			return err
		}
		stored, err := session.Decode(cur)
		if err != nil {
			return fmt.Errorf("decoding session %s: %w", s.ID, err)
		}
		if stored.Version != read {
			return session.ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, ttl)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.TxFailedErr):
		return session.ErrConflict
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrConflict):
		return err
	default:
		return fmt.Errorf("updating session: %w", err)
	}
}

func (r *SessionsRepo) Get(ctx context.Context, id string) (session.Session, error) {
	if strings.TrimSpace(id) == "" {
		return session.Session{}, session.ErrNotFound
	}
	b, err := r.rdb.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return session.Session{}, session.ErrNotFound
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("getting session: %w", err)
	}

	s, err := session.Decode(b)
	if err != nil {
		return session.Session{}, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return s, nil
}

func (r *SessionsRepo) Delete(ctx context.Context, id string) error {
	n, err := r.rdb.Del(ctx, r.key(id)).Result()
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if n == 0 {
		return session.ErrNotFound
	}
	return nil
}

// encode devuelve el TTL restante; 0 = sin expiración.
func (r *SessionsRepo) encode(s session.Session) ([]byte, time.Duration, error) {
	if strings.TrimSpace(s.ID) == "" {
		return nil, 0, errors.New("session id required")
	}
	b, err := session.Encode(s)
	if err != nil {
		return nil, 0, fmt.Errorf("encoding session: %w", err)
	}

	var ttl time.Duration
	if !s.ExpiresAt.IsZero() {
		ttl = s.ExpiresAt.Sub(r.now())
		if ttl <= 0 {
			return nil, 0, errors.New("session already expired")
		}
	}
	return b, ttl, nil
}
