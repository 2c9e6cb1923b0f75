package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// LoadFunc trae la lista fresca del servicio.
type LoadFunc func(ctx context.Context) ([]string, error)

// Breeds cachea la lista de razas para todo el proceso. La lista es la misma
// para cualquier sesión; los refresh concurrentes se colapsan en uno.
type Breeds struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.RWMutex
	names     []string
	fetchedAt time.Time

	group singleflight.Group
}

func NewBreeds(ttl time.Duration) *Breeds {
	return &Breeds{ttl: ttl, now: time.Now}
}

// Get devuelve la lista cacheada si está vigente; si no, llama load.
// Un error no se cachea.
func (b *Breeds) Get(ctx context.Context, load LoadFunc) ([]string, error) {
	if names, ok := b.fresh(); ok {
		return names, nil
	}

	v, err, _ := b.group.Do("breeds", func() (any, error) {
		if names, ok := b.fresh(); ok {
			return names, nil
		}
		// la carga se comparte con otros callers: no muere si este cancela
		names, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		b.mu.Lock()
		b.names = append([]string(nil), names...)
		b.fetchedAt = b.now()
		b.mu.Unlock()
		return names, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]string(nil), v.([]string)...), nil
}

// Invalidate fuerza el próximo Get a ir al servicio.
func (b *Breeds) Invalidate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.names = nil
	b.fetchedAt = time.Time{}
}

func (b *Breeds) fresh() ([]string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.names == nil || b.ttl <= 0 {
		return nil, false
	}
	if b.now().Sub(b.fetchedAt) >= b.ttl {
		return nil, false
	}
	return append([]string(nil), b.names...), true
}
