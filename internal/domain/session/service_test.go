package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"dog-finder/internal/domain/browse"
	"dog-finder/internal/domain/dogs"
	"dog-finder/internal/platform/logger"
	"dog-finder/internal/ports/adoption/adoptiontest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	mu   sync.Mutex
	byID map[string][]byte
	ver  map[string]int64

	// onUpdate corre antes de tomar el lock; sirve para intercalar
	// otra operación entre el Get y el Update de una búsqueda.
	onUpdate func(Session)
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string][]byte{}, ver: map[string]int64{}}
}

func (r *testRepo) Create(ctx context.Context, s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[s.ID]; ok {
		return errors.New("repo: already exists")
	}
	b, err := Encode(s)
	if err != nil {
		return err
	}
	r.byID[s.ID] = b
	r.ver[s.ID] = s.Version
	return nil
}

func (r *testRepo) Get(ctx context.Context, id string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return Decode(b)
}

func (r *testRepo) Update(ctx context.Context, s Session) error {
	if r.onUpdate != nil {
		r.onUpdate(s)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[s.ID]; !ok {
		return ErrNotFound
	}
	if r.ver[s.ID] != s.Version {
		return ErrConflict
	}
	s.Version++
	b, err := Encode(s)
	if err != nil {
		return err
	}
	r.byID[s.ID] = b
	r.ver[s.ID] = s.Version
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.ver, id)
	return nil
}

// -------------------------
// Helpers
// -------------------------

func newTestService(api *adoptiontest.Fake) (*Service, *testRepo) {
	repo := newTestRepo()
	return NewService(repo, api, Options{TTL: time.Hour}), repo
}

func login(t *testing.T, svc *Service) Session {
	t.Helper()
	s, err := svc.Login(context.Background(), "Ana", "ana@example.com")
	require.NoError(t, err)
	return s
}

func mustGet(t *testing.T, svc *Service, id string) Session {
	t.Helper()
	sess, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	return sess
}

func pageOf(ids ...string) func(context.Context, dogs.SearchQuery) (dogs.SearchResult, error) {
	return func(context.Context, dogs.SearchQuery) (dogs.SearchResult, error) {
		return dogs.SearchResult{ResultIDs: ids, Total: len(ids)}, nil
	}
}

// -------------------------
// Tests
// -------------------------

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	api := &adoptiontest.Fake{}
	svc, repo := newTestService(api)

	_, err := svc.Login(ctx, " ", "ana@example.com")
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, api.Calls("Login"))

	api.LoginFn = func(context.Context, string, string) bool { return false }
	_, err = svc.Login(ctx, "Ana", "ana@example.com")
	require.ErrorIs(t, err, ErrLoginFailed)
	assert.Equal(t, MsgLoginFailed, Message(err))
	assert.Empty(t, repo.byID)

	api.LoginFn = nil
	s, err := svc.Login(ctx, " Ana ", "ana@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "Ana", s.Name)
	assert.Equal(t, browse.SortAsc, s.Browse.Filter.Sort)
	assert.Equal(t, 1, s.Browse.Page)
	assert.Equal(t, 0, s.Favorites.Len())
	assert.True(t, svc.Exists(ctx, s.ID))
}

func TestService_LoginLogsNoEmail(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.DebugLevel)
	api := &adoptiontest.Fake{LoginFn: func(context.Context, string, string) bool { return false }}
	svc := NewService(newTestRepo(), api, Options{TTL: time.Hour, Log: logger.NewZap(zap.New(core))})

	_, err := svc.Login(ctx, "Ana", "ana@example.com")
	require.ErrorIs(t, err, ErrLoginFailed)
	require.Equal(t, 1, logs.FilterMessage("login rejected").Len())

	api.LoginFn = nil
	_, err = svc.Login(ctx, "Ana", "ana@example.com")
	require.NoError(t, err)

	// el email es dato personal: no va en ningún campo
	for _, e := range logs.All() {
		for k, v := range e.ContextMap() {
			assert.NotEqual(t, "email", k, e.Message)
			assert.NotContains(t, fmt.Sprint(v), "ana@example.com", e.Message)
		}
		assert.NotContains(t, e.Message, "ana@example.com")
	}
}

func TestService_CurrentRunsInitialSearchOnce(t *testing.T) {
	ctx := context.Background()
	api := &adoptiontest.Fake{SearchFn: pageOf("d1", "d2")}
	svc, _ := newTestService(api)
	s := login(t, svc)

	view, err := svc.Current(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, view.Browse.Searched)
	assert.False(t, view.Browse.Busy)
	assert.Len(t, view.Browse.Dogs, 2)
	assert.Equal(t, 1, view.Browse.TotalPages)
	assert.False(t, view.Browse.ShowPagination())
	assert.Equal(t, [][]string{{"d1", "d2"}}, api.FetchedIDs())

	_, err = svc.Current(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, api.Calls("Search"))
}

func TestService_SearchSubmitsFilterFromPageOne(t *testing.T) {
	ctx := context.Background()
	api := &adoptiontest.Fake{}
	svc, _ := newTestService(api)
	s := login(t, svc)

	_, err := svc.ChangePage(ctx, s.ID, 3)
	require.NoError(t, err)

	lo, hi := 1, 5
	got, err := svc.Search(ctx, s.ID, browse.FilterState{
		Breeds: []string{"Boxer", "Poodle"},
		AgeMin: &lo,
		AgeMax: &hi,
		Sort:   browse.SortAsc,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Browse.Page)

	searches := api.Searches()
	require.Len(t, searches, 2)
	assert.Equal(t, 24, *searches[0].From)
	last := searches[1]
	assert.Equal(t, []string{"Boxer", "Poodle"}, last.Breeds)
	assert.Equal(t, "breed:asc", last.Sort)
	assert.Equal(t, 12, last.Size)
	assert.Equal(t, 0, *last.From)
	assert.Equal(t, 0, api.Calls("FetchDogs"), "empty results never fetch dogs")

	cleared, err := svc.ClearFilters(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, browse.EmptyFilter(), cleared.Browse.Filter)
}

func TestService_ValidationErrorsAreFlashed(t *testing.T) {
	ctx := context.Background()
	api := &adoptiontest.Fake{}
	svc, _ := newTestService(api)
	s := login(t, svc)

	_, err := svc.ChangePage(ctx, s.ID, 0)
	require.Error(t, err)
	assert.True(t, dogs.IsValidation(err))
	assert.Equal(t, 0, api.Calls("Search"))

	view, err := svc.Current(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, browse.MsgInvalidPage, view.Err)

	view, err = svc.Current(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Err, "flash is shown once")
}

func TestService_SearchFailureKeepsDogs(t *testing.T) {
	ctx := context.Background()
	api := &adoptiontest.Fake{SearchFn: pageOf("d1")}
	svc, _ := newTestService(api)
	s := login(t, svc)

	_, err := svc.Refresh(ctx, s.ID)
	require.NoError(t, err)

	api.SearchFn = func(context.Context, dogs.SearchQuery) (dogs.SearchResult, error) {
		return dogs.SearchResult{}, dogs.RequestError("Failed to search dogs", nil)
	}
	got, err := svc.ChangePage(ctx, s.ID, 2)
	require.Error(t, err)
	assert.Equal(t, "Failed to search dogs", got.Browse.Err)
	assert.Equal(t, "d1", got.Browse.Dogs[0].ID)
	assert.False(t, got.Browse.Busy)
}

func TestService_StaleSearchIsDiscarded(t *testing.T) {
	ctx := context.Background()
	api := &adoptiontest.Fake{}
	svc, _ := newTestService(api)
	s := login(t, svc)

	nested := false
	api.SearchFn = func(_ context.Context, q dogs.SearchQuery) (dogs.SearchResult, error) {
		if *q.From == 0 && !nested {
			// mientras la página 1 está en vuelo, el usuario pide la página 2
			nested = true
			_, err := svc.ChangePage(ctx, s.ID, 2)
			require.NoError(t, err)
			return dogs.SearchResult{ResultIDs: []string{"old"}, Total: 30}, nil
		}
		return dogs.SearchResult{ResultIDs: []string{"new"}, Total: 30}, nil
	}

	got, err := svc.Refresh(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Browse.Page)
	assert.Equal(t, []dogs.Dog{{ID: "new"}}, got.Browse.Dogs)
	assert.False(t, got.Browse.Busy)
	assert.Equal(t, 3, got.Browse.TotalPages)
}

func TestService_SupersededSearchDoesNotOverwriteNewerResult(t *testing.T) {
	ctx := context.Background()
	api := &adoptiontest.Fake{}
	svc, repo := newTestService(api)
	s := login(t, svc)

	api.SearchFn = func(_ context.Context, q dogs.SearchQuery) (dogs.SearchResult, error) {
		if *q.From == 0 {
			return dogs.SearchResult{ResultIDs: []string{"old"}, Total: 30}, nil
		}
		return dogs.SearchResult{ResultIDs: []string{"new"}, Total: 30}, nil
	}
	var fetchedOld, fired bool
	api.FetchDogsFn = func(_ context.Context, ids []string) ([]dogs.Dog, error) {
		if len(ids) == 1 && ids[0] == "old" {
			fetchedOld = true
		}
		out := make([]dogs.Dog, 0, len(ids))
		for _, id := range ids {
			out = append(out, dogs.Dog{ID: id})
		}
		return out, nil
	}

	// la página 1 ya leyó la sesión para guardar su resultado; antes de que
	// llegue a escribir, la página 2 completa su ciclo entero
	updates := 0
	repo.onUpdate = func(Session) {
		updates++
		if fetchedOld && !fired {
			fired = true
			_, err := svc.ChangePage(ctx, s.ID, 2)
			require.NoError(t, err)
		}
	}

	got, err := svc.Refresh(ctx, s.ID)
	require.NoError(t, err)
	require.True(t, fired)
	assert.Greater(t, updates, 4, "the page 1 save had to retry")

	for _, sess := range []Session{got, mustGet(t, svc, s.ID)} {
		assert.Equal(t, 2, sess.Browse.Page)
		assert.Equal(t, []dogs.Dog{{ID: "new"}}, sess.Browse.Dogs)
		assert.False(t, sess.Browse.Busy)
		assert.Equal(t, 3, sess.Browse.TotalPages)
	}
}

func TestService_UpdateGivesUpAfterRepeatedConflicts(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(&adoptiontest.Fake{})
	s := login(t, svc)

	// otro escritor gana siempre la carrera
	repo.onUpdate = func(Session) {
		repo.mu.Lock()
		repo.ver[s.ID]++
		repo.mu.Unlock()
	}

	_, err := svc.DismissMatch(ctx, s.ID)
	require.ErrorIs(t, err, ErrConflict)
}

func TestService_ToggleFavorite(t *testing.T) {
	ctx := context.Background()
	api := &adoptiontest.Fake{SearchFn: pageOf("d1", "d2")}
	svc, _ := newTestService(api)
	s := login(t, svc)

	_, err := svc.ToggleFavorite(ctx, s.ID, "d1")
	require.Error(t, err, "nothing is on screen yet")
	assert.True(t, dogs.IsValidation(err))

	_, err = svc.Current(ctx, s.ID)
	require.NoError(t, err)

	got, err := svc.ToggleFavorite(ctx, s.ID, "d1")
	require.NoError(t, err)
	require.NotNil(t, got.Notice)
	assert.True(t, got.Notice.Added)
	assert.Equal(t, "Added to favorites", got.Notice.Message)
	assert.True(t, got.Favorites.Has("d1"))

	view, err := svc.Current(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Notice)
	view, err = svc.Current(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, view.Notice)

	got, err = svc.ToggleFavorite(ctx, s.ID, "d1")
	require.NoError(t, err)
	assert.Equal(t, "Removed from favorites", got.Notice.Message)
	assert.Equal(t, 0, got.Favorites.Len())
}

func TestService_RequestMatch(t *testing.T) {
	ctx := context.Background()
	api := &adoptiontest.Fake{SearchFn: pageOf("d1", "d2")}
	svc, _ := newTestService(api)
	s := login(t, svc)

	got, err := svc.RequestMatch(ctx, s.ID)
	require.Error(t, err)
	assert.True(t, dogs.IsValidation(err))
	assert.Equal(t, "Please add at least one dog to your favorites to generate a match", got.Err)
	assert.False(t, got.MatchBusy)
	assert.Equal(t, 0, api.Calls("RequestMatch"))

	_, err = svc.Current(ctx, s.ID)
	require.NoError(t, err)
	_, err = svc.ToggleFavorite(ctx, s.ID, "d1")
	require.NoError(t, err)

	api.FetchDogsFn = func(_ context.Context, ids []string) ([]dogs.Dog, error) {
		return []dogs.Dog{{ID: ids[0], Name: "Rex"}}, nil
	}
	got, err = svc.RequestMatch(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Match)
	assert.Equal(t, "Rex", got.Match.Name)
	assert.False(t, got.MatchBusy)
	assert.Equal(t, [][]string{{"d1"}}, api.MatchedIDs())

	got, err = svc.DismissMatch(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Match)
}

func TestService_LogoutAlwaysDropsLocalSession(t *testing.T) {
	ctx := context.Background()
	api := &adoptiontest.Fake{LogoutFn: func(context.Context) bool { return false }}
	svc, _ := newTestService(api)
	s := login(t, svc)

	ok, err := svc.Logout(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, svc.Exists(ctx, s.ID))

	_, err = svc.Logout(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_ExpiredSession(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(&adoptiontest.Fake{})
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	s := login(t, svc)

	now = now.Add(2 * time.Hour)
	_, err := svc.Current(ctx, s.ID)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, MsgExpired, Message(err))
	assert.Empty(t, repo.byID)
}

func TestService_BreedsAreCached(t *testing.T) {
	ctx := context.Background()
	api := &adoptiontest.Fake{
		ListBreedsFn: func(context.Context) ([]string, error) {
			return []string{"Boxer", "Poodle"}, nil
		},
	}
	svc, _ := newTestService(api)
	s := login(t, svc)

	for i := 0; i < 3; i++ {
		got, err := svc.Breeds(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Boxer", "Poodle"}, got)
	}
	assert.Equal(t, 1, api.Calls("ListBreeds"))

	_, err := svc.Breeds(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
