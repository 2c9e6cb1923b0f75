// Package adoptiontest trae un doble de adoption.API que registra las llamadas.
package adoptiontest

import (
	"context"
	"sync"

	"dog-finder/internal/domain/dogs"
	"dog-finder/internal/ports/adoption"
)

// Fake responde con las funciones seteadas; si una es nil devuelve vacío.
type Fake struct {
	LoginFn          func(ctx context.Context, name, email string) bool
	LogoutFn         func(ctx context.Context) bool
	ListBreedsFn     func(ctx context.Context) ([]string, error)
	SearchFn         func(ctx context.Context, q dogs.SearchQuery) (dogs.SearchResult, error)
	FetchDogsFn      func(ctx context.Context, ids []string) ([]dogs.Dog, error)
	RequestMatchFn   func(ctx context.Context, ids []string) (dogs.Match, error)
	FetchLocationsFn func(ctx context.Context, zips []string) ([]dogs.Location, error)

	mu       sync.Mutex
	calls    map[string]int
	searches []dogs.SearchQuery
	fetched  [][]string
	matched  [][]string
}

var _ adoption.API = (*Fake)(nil)

func (f *Fake) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

// Calls cuenta llamadas por método ("Search", "FetchDogs", ...).
func (f *Fake) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *Fake) Searches() []dogs.SearchQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dogs.SearchQuery(nil), f.searches...)
}

func (f *Fake) FetchedIDs() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.fetched...)
}

func (f *Fake) MatchedIDs() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.matched...)
}

func (f *Fake) Login(ctx context.Context, name, email string) bool {
	f.record("Login")
	if f.LoginFn == nil {
		return true
	}
	return f.LoginFn(ctx, name, email)
}

func (f *Fake) Logout(ctx context.Context) bool {
	f.record("Logout")
	if f.LogoutFn == nil {
		return true
	}
	return f.LogoutFn(ctx)
}

func (f *Fake) ListBreeds(ctx context.Context) ([]string, error) {
	f.record("ListBreeds")
	if f.ListBreedsFn == nil {
		return []string{}, nil
	}
	return f.ListBreedsFn(ctx)
}

func (f *Fake) Search(ctx context.Context, q dogs.SearchQuery) (dogs.SearchResult, error) {
	f.record("Search")
	f.mu.Lock()
	f.searches = append(f.searches, q)
	f.mu.Unlock()
	if f.SearchFn == nil {
		return dogs.SearchResult{ResultIDs: []string{}}, nil
	}
	return f.SearchFn(ctx, q)
}

func (f *Fake) FetchDogs(ctx context.Context, ids []string) ([]dogs.Dog, error) {
	if len(ids) == 0 {
		return []dogs.Dog{}, nil
	}
	f.record("FetchDogs")
	f.mu.Lock()
	f.fetched = append(f.fetched, append([]string(nil), ids...))
	f.mu.Unlock()
	if f.FetchDogsFn == nil {
		out := make([]dogs.Dog, 0, len(ids))
		for _, id := range ids {
			out = append(out, dogs.Dog{ID: id})
		}
		return out, nil
	}
	return f.FetchDogsFn(ctx, ids)
}

func (f *Fake) RequestMatch(ctx context.Context, ids []string) (dogs.Match, error) {
	if len(ids) == 0 {
		return dogs.Match{}, dogs.ValidationError("No favorite dogs selected")
	}
	f.record("RequestMatch")
	f.mu.Lock()
	f.matched = append(f.matched, append([]string(nil), ids...))
	f.mu.Unlock()
	if f.RequestMatchFn == nil {
		return dogs.Match{Match: ids[0]}, nil
	}
	return f.RequestMatchFn(ctx, ids)
}

func (f *Fake) FetchLocations(ctx context.Context, zips []string) ([]dogs.Location, error) {
	if len(zips) == 0 {
		return []dogs.Location{}, nil
	}
	f.record("FetchLocations")
	if f.FetchLocationsFn == nil {
		return []dogs.Location{}, nil
	}
	return f.FetchLocationsFn(ctx, zips)
}
