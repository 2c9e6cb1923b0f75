package browse

import (
	"context"
	"errors"
	"testing"

	"dog-finder/internal/domain/dogs"
	"dog-finder/internal/ports/adoption/adoptiontest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestOffset(t *testing.T) {
	for page := 1; page <= 20; page++ {
		assert.Equal(t, (page-1)*12, Offset(page), "page %d", page)
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int
		want  int
	}{
		{0, 0},
		{1, 1},
		{12, 1},
		{13, 2},
		{24, 2},
		{25, 3},
		{10000, 834},
		{-3, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TotalPages(tc.total), "total %d", tc.total)
	}
}

func TestParseAge(t *testing.T) {
	got, err := ParseAge("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseAge(" 5 ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 5, *got)

	for _, bad := range []string{"-1", "abc", "1.5"} {
		_, err := ParseAge(bad)
		require.Error(t, err, bad)
		assert.True(t, dogs.IsValidation(err))
	}
}

func TestFilterState_Normalize(t *testing.T) {
	f, err := FilterState{
		Breeds: []string{" Boxer", "Poodle", "Boxer", ""},
		Sort:   "DESC",
	}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, []string{"Boxer", "Poodle"}, f.Breeds)
	assert.Equal(t, SortDesc, f.Sort)
	assert.Nil(t, f.ZipCodes)

	_, err = FilterState{AgeMin: intPtr(6), AgeMax: intPtr(2)}.Normalize()
	require.Error(t, err)
	assert.Equal(t, MsgInvalidAgeRange, err.Error())

	_, err = FilterState{AgeMax: intPtr(-1)}.Normalize()
	require.Error(t, err)
}

func TestFilterState_Query(t *testing.T) {
	f := FilterState{
		Breeds: []string{"Boxer", "Poodle"},
		AgeMin: intPtr(1),
		AgeMax: intPtr(5),
		Sort:   SortAsc,
	}

	want := dogs.SearchQuery{
		Breeds: []string{"Boxer", "Poodle"},
		AgeMin: intPtr(1),
		AgeMax: intPtr(5),
		Sort:   "breed:asc",
		Size:   12,
		From:   intPtr(24),
	}
	if diff := cmp.Diff(want, f.Query(3)); diff != "" {
		t.Fatalf("unexpected query (-want +got):\n%s", diff)
	}

	assert.Equal(t, "breed:asc", FilterState{}.SortParam())
}

func TestState_Transitions(t *testing.T) {
	s := NewState()
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, SortAsc, s.Filter.Sort)

	s, err := s.ChangePage(4)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Page)
	assert.True(t, s.Busy)
	assert.EqualValues(t, 1, s.Generation)

	s, err = s.SubmitFilters(FilterState{Breeds: []string{"Boxer"}, Sort: SortDesc})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Page, "submitting filters resets the page")
	assert.EqualValues(t, 2, s.Generation)

	_, err = s.ChangePage(0)
	require.Error(t, err)
	assert.True(t, dogs.IsValidation(err))

	s = s.ClearFilters()
	assert.Equal(t, EmptyFilter(), s.Filter)
	assert.Equal(t, 1, s.Page)
	assert.EqualValues(t, 3, s.Generation)
}

func TestState_Complete_DiscardsSupersededSearch(t *testing.T) {
	s := NewState()
	s, _ = s.ChangePage(2)
	first := s.Generation
	s, _ = s.ChangePage(3)

	stale := Outcome{Searched: true, TotalPages: 9, Fetched: true, Dogs: []dogs.Dog{{ID: "old"}}}
	got, applied := s.Complete(first, stale)
	assert.False(t, applied)
	assert.True(t, got.Busy)
	assert.Empty(t, got.Dogs)

	fresh := Outcome{Searched: true, TotalPages: 3, HasPrev: true, Fetched: true, Dogs: []dogs.Dog{{ID: "new"}}}
	got, applied = s.Complete(s.Generation, fresh)
	require.True(t, applied)
	assert.False(t, got.Busy)
	assert.True(t, got.Searched)
	assert.Equal(t, 3, got.TotalPages)
	assert.True(t, got.HasPrev)
	assert.False(t, got.HasNext)
	assert.Equal(t, "new", got.Dogs[0].ID)
	assert.True(t, got.ShowPagination())
}

func TestState_Complete_ErrorKeepsDisplayedDogs(t *testing.T) {
	s := NewState()
	s.Dogs = []dogs.Dog{{ID: "d1"}}
	s = s.Refresh()

	got, applied := s.Complete(s.Generation, Outcome{Err: dogs.RequestError("Failed to search dogs", nil)})
	require.True(t, applied)
	assert.Equal(t, "Failed to search dogs", got.Err)
	assert.Equal(t, []dogs.Dog{{ID: "d1"}}, got.Dogs)
	assert.False(t, got.Busy)

	// la próxima búsqueda limpia el error
	assert.Empty(t, got.Refresh().Err)
}

func TestController_Run_ScenarioQuery(t *testing.T) {
	api := &adoptiontest.Fake{}
	c := NewController(api, nil)

	f, err := FilterState{
		Breeds: []string{"Boxer", "Poodle"},
		AgeMin: intPtr(1),
		AgeMax: intPtr(5),
		Sort:   "asc",
	}.Normalize()
	require.NoError(t, err)

	c.Run(context.Background(), f, 1)

	searches := api.Searches()
	require.Len(t, searches, 1)
	q := searches[0]
	assert.Equal(t, []string{"Boxer", "Poodle"}, q.Breeds)
	assert.Equal(t, 1, *q.AgeMin)
	assert.Equal(t, 5, *q.AgeMax)
	assert.Equal(t, "breed:asc", q.Sort)
	assert.Equal(t, 12, q.Size)
	assert.Equal(t, 0, *q.From)
}

func TestController_Run_FetchesDogsForResultIDs(t *testing.T) {
	api := &adoptiontest.Fake{
		SearchFn: func(context.Context, dogs.SearchQuery) (dogs.SearchResult, error) {
			return dogs.SearchResult{ResultIDs: []string{"d1", "d2"}, Total: 2}, nil
		},
	}
	out := NewController(api, nil).Run(context.Background(), EmptyFilter(), 1)

	require.NoError(t, out.Err)
	assert.Equal(t, [][]string{{"d1", "d2"}}, api.FetchedIDs())
	assert.Len(t, out.Dogs, 2)
	assert.Equal(t, 1, out.TotalPages)

	s := NewState().Refresh()
	s, _ = s.Complete(s.Generation, out)
	assert.False(t, s.ShowPagination())
}

func TestController_Run_EmptyResultSkipsFetch(t *testing.T) {
	api := &adoptiontest.Fake{}
	out := NewController(api, nil).Run(context.Background(), EmptyFilter(), 1)

	require.NoError(t, out.Err)
	assert.True(t, out.Fetched)
	assert.Empty(t, out.Dogs)
	assert.Equal(t, 0, out.TotalPages)
	assert.Equal(t, 0, api.Calls("FetchDogs"))
}

func TestController_Run_SearchFailure(t *testing.T) {
	api := &adoptiontest.Fake{
		SearchFn: func(context.Context, dogs.SearchQuery) (dogs.SearchResult, error) {
			return dogs.SearchResult{}, dogs.RequestError("Failed to search dogs", errors.New("boom"))
		},
	}
	out := NewController(api, nil).Run(context.Background(), EmptyFilter(), 1)

	require.Error(t, out.Err)
	assert.False(t, out.Searched)
	assert.False(t, out.Fetched)
	assert.Equal(t, 0, api.Calls("FetchDogs"))
}

func TestController_Run_FetchFailureKeepsCursors(t *testing.T) {
	api := &adoptiontest.Fake{
		SearchFn: func(context.Context, dogs.SearchQuery) (dogs.SearchResult, error) {
			return dogs.SearchResult{ResultIDs: []string{"d1"}, Total: 30, Next: "cursor"}, nil
		},
		FetchDogsFn: func(context.Context, []string) ([]dogs.Dog, error) {
			return nil, dogs.RequestError("Failed to fetch dog details", nil)
		},
	}
	out := NewController(api, nil).Run(context.Background(), EmptyFilter(), 1)

	require.Error(t, out.Err)
	assert.True(t, out.Searched)
	assert.False(t, out.Fetched)
	assert.Equal(t, 3, out.TotalPages)
	assert.True(t, out.HasNext)
}

func TestController_Run_LocationsAreBestEffort(t *testing.T) {
	api := &adoptiontest.Fake{
		SearchFn: func(context.Context, dogs.SearchQuery) (dogs.SearchResult, error) {
			return dogs.SearchResult{ResultIDs: []string{"d1", "d2"}, Total: 2}, nil
		},
		FetchDogsFn: func(context.Context, []string) ([]dogs.Dog, error) {
			return []dogs.Dog{{ID: "d1", ZipCode: "10001"}, {ID: "d2", ZipCode: "10001"}}, nil
		},
		FetchLocationsFn: func(_ context.Context, zips []string) ([]dogs.Location, error) {
			if len(zips) != 1 {
				return nil, errors.New("zips not deduplicated")
			}
			return []dogs.Location{{ZipCode: "10001", City: "New York", State: "NY"}}, nil
		},
	}
	out := NewController(api, nil).Run(context.Background(), EmptyFilter(), 1)
	require.NoError(t, out.Err)
	assert.Equal(t, "New York", out.Locations["10001"].City)

	api.FetchLocationsFn = func(context.Context, []string) ([]dogs.Location, error) {
		return nil, dogs.RequestError("Failed to fetch locations", nil)
	}
	out = NewController(api, nil).Run(context.Background(), EmptyFilter(), 1)
	require.NoError(t, out.Err)
	assert.Nil(t, out.Locations)
	assert.Len(t, out.Dogs, 2)
}
