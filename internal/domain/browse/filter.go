package browse

import (
	"strconv"
	"strings"

	"dog-finder/internal/domain/dogs"
)

// SortDirection se aplica al nombre de la raza.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

const (
	MsgInvalidAge      = "Age must be a non-negative whole number"
	MsgInvalidAgeRange = "Minimum age cannot be greater than maximum age"
	MsgInvalidPage     = "Page must be 1 or greater"
)

// ParseSortDirection: cualquier cosa que no sea "desc" es asc.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// FilterState es la selección del usuario. Breeds/ZipCodes son conjuntos
// (se deduplican); el orden de inserción solo se conserva para la query.
type FilterState struct {
	Breeds   []string      `json:"breeds,omitempty"`
	ZipCodes []string      `json:"zip_codes,omitempty"`
	AgeMin   *int          `json:"age_min,omitempty"`
	AgeMax   *int          `json:"age_max,omitempty"`
	Sort     SortDirection `json:"sort"`
}

// EmptyFilter es el estado de "clear filters".
func EmptyFilter() FilterState {
	return FilterState{Sort: SortAsc}
}

// ParseAge convierte el input del form. "" = sin límite.
func ParseAge(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, dogs.ValidationError(MsgInvalidAge)
	}
	return &n, nil
}

// Normalize limpia y valida: trim, dedupe, edades >= 0 y min <= max.
func (f FilterState) Normalize() (FilterState, error) {
	out := FilterState{
		Breeds:   dedupe(f.Breeds),
		ZipCodes: dedupe(f.ZipCodes),
		Sort:     ParseSortDirection(string(f.Sort)),
	}
	if f.AgeMin != nil {
		if *f.AgeMin < 0 {
			return FilterState{}, dogs.ValidationError(MsgInvalidAge)
		}
		v := *f.AgeMin
		out.AgeMin = &v
	}
	if f.AgeMax != nil {
		if *f.AgeMax < 0 {
			return FilterState{}, dogs.ValidationError(MsgInvalidAge)
		}
		v := *f.AgeMax
		out.AgeMax = &v
	}
	if out.AgeMin != nil && out.AgeMax != nil && *out.AgeMin > *out.AgeMax {
		return FilterState{}, dogs.ValidationError(MsgInvalidAgeRange)
	}
	return out, nil
}

// SortParam es el valor de "sort" para /dogs/search.
func (f FilterState) SortParam() string {
	return "breed:" + string(ParseSortDirection(string(f.Sort)))
}

// Query arma la búsqueda para una página (1-based).
func (f FilterState) Query(page int) dogs.SearchQuery {
	from := Offset(page)
	return dogs.SearchQuery{
		Breeds:   f.Breeds,
		ZipCodes: f.ZipCodes,
		AgeMin:   f.AgeMin,
		AgeMax:   f.AgeMax,
		Sort:     f.SortParam(),
		Size:     PageSize,
		From:     &from,
	}
}

// HasBreed se usa en la vista para marcar las razas elegidas.
func (f FilterState) HasBreed(b string) bool {
	for _, x := range f.Breeds {
		if x == b {
			return true
		}
	}
	return false
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
