package web

import (
	"strconv"
	"strings"

	"dog-finder/internal/domain/browse"
	"dog-finder/internal/domain/dogs"
	"dog-finder/internal/domain/session"
)

// pageWindow es cuántos números de página se muestran alrededor de la actual.
const pageWindow = 2

type loginView struct {
	Name  string
	Email string
	Error string
}

type breedOption struct {
	Name     string
	Selected bool
}

type dogCard struct {
	dogs.Dog
	Location string
	Favorite bool
}

type dogsView struct {
	UserName string

	Breeds   []breedOption
	ZipCodes string
	AgeMin   string
	AgeMax   string
	SortDesc bool

	Dogs     []dogCard
	Busy     bool
	Searched bool
	Empty    bool
	Error    string

	Page           int
	TotalPages     int
	ShowPagination bool
	Pages          []int
	PrevPage       int
	NextPage       int

	FavoritesCount int
	Notice         string
	Alert          string

	Match     *dogCard
	MatchBusy bool
}

func newDogsView(s session.Session, breeds []string) dogsView {
	st := s.Browse
	v := dogsView{
		UserName:       s.Name,
		ZipCodes:       strings.Join(st.Filter.ZipCodes, ", "),
		AgeMin:         intString(st.Filter.AgeMin),
		AgeMax:         intString(st.Filter.AgeMax),
		SortDesc:       st.Filter.Sort == browse.SortDesc,
		Busy:           st.Busy,
		Searched:       st.Searched,
		Empty:          st.Searched && !st.Busy && len(st.Dogs) == 0 && st.Err == "",
		Error:          st.Err,
		Page:           st.Page,
		TotalPages:     st.TotalPages,
		ShowPagination: st.ShowPagination(),
		FavoritesCount: s.Favorites.Len(),
		Alert:          s.Err,
		MatchBusy:      s.MatchBusy,
	}

	for _, b := range breeds {
		v.Breeds = append(v.Breeds, breedOption{Name: b, Selected: st.Filter.HasBreed(b)})
	}

	v.Dogs = make([]dogCard, 0, len(st.Dogs))
	for _, d := range st.Dogs {
		v.Dogs = append(v.Dogs, card(s, d))
	}

	if v.ShowPagination {
		v.Pages = pageNumbers(st.Page, st.TotalPages)
		// Previous/Next siguen a los cursores del servicio, no al total
		if st.HasPrev {
			v.PrevPage = st.Page - 1
		}
		if st.HasNext {
			v.NextPage = st.Page + 1
		}
	}

	if s.Notice != nil {
		v.Notice = s.Notice.Message
	}
	if s.Match != nil {
		m := card(s, *s.Match)
		v.Match = &m
	}
	return v
}

func card(s session.Session, d dogs.Dog) dogCard {
	c := dogCard{Dog: d, Location: d.ZipCode, Favorite: s.Favorites.Has(d.ID)}
	if loc, ok := s.Browse.LocationOf(d.ZipCode); ok && loc.City != "" {
		c.Location = loc.City + ", " + loc.State
	}
	return c
}

// pageNumbers devuelve la ventana [page-2, page+2] recortada a [1, total].
func pageNumbers(page, total int) []int {
	from := page - pageWindow
	if from < 1 {
		from = 1
	}
	to := page + pageWindow
	if to > total {
		to = total
	}
	if to < from {
		return nil
	}
	out := make([]int, 0, to-from+1)
	for p := from; p <= to; p++ {
		out = append(out, p)
	}
	return out
}

func intString(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

// splitList acepta "10001, 10002" o valores repetidos del form.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' }) {
			out = append(out, part)
		}
	}
	return out
}
