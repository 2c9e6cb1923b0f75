package browse

import (
	"dog-finder/internal/domain/dogs"
)

// State es el contenedor de la pantalla de búsqueda de una sesión.
// Las transiciones son puras: reciben un State y devuelven otro.
type State struct {
	Filter     FilterState              `json:"filter"`
	Page       int                      `json:"page"`
	TotalPages int                      `json:"total_pages"`
	Dogs       []dogs.Dog               `json:"dogs"`
	Locations  map[string]dogs.Location `json:"locations,omitempty"`
	HasNext    bool                     `json:"has_next"`
	HasPrev    bool                     `json:"has_prev"`
	Busy       bool                     `json:"busy"`
	Searched   bool                     `json:"searched"`
	Err        string                   `json:"error,omitempty"`

	// Generation crece con cada búsqueda iniciada. Solo se aplica el resultado
	// de la última iniciada (last-initiated-wins).
	Generation uint64 `json:"generation"`
}

func NewState() State {
	return State{
		Filter: EmptyFilter(),
		Page:   1,
		Dogs:   []dogs.Dog{},
	}
}

// SubmitFilters: snapshot del filtro, vuelve a la página 1.
func (s State) SubmitFilters(f FilterState) (State, error) {
	nf, err := f.Normalize()
	if err != nil {
		return s, err
	}
	s.Filter = nf
	s.Page = 1
	return s.begin(), nil
}

// ChangePage no bloquea páginas > TotalPages (el server devuelve vacío),
// pero sí < 1.
func (s State) ChangePage(page int) (State, error) {
	if page < 1 {
		return s, dogs.ValidationError(MsgInvalidPage)
	}
	s.Page = page
	return s.begin(), nil
}

func (s State) ClearFilters() State {
	s.Filter = EmptyFilter()
	s.Page = 1
	return s.begin()
}

// Refresh vuelve a correr la página actual con el filtro actual.
func (s State) Refresh() State {
	if s.Page < 1 {
		s.Page = 1
	}
	return s.begin()
}

func (s State) begin() State {
	s.Busy = true
	s.Err = ""
	s.Generation++
	return s
}

// Complete aplica el resultado de la búsqueda gen. Si otra búsqueda se
// inició después, el resultado se descarta y applied=false.
func (s State) Complete(gen uint64, out Outcome) (next State, applied bool) {
	if gen != s.Generation {
		return s, false
	}

	if out.Searched {
		s.TotalPages = out.TotalPages
		s.HasNext = out.HasNext
		s.HasPrev = out.HasPrev
	}
	if out.Fetched {
		s.Dogs = out.Dogs
		if s.Dogs == nil {
			s.Dogs = []dogs.Dog{}
		}
		s.Locations = out.Locations
	}
	if out.Err != nil {
		// los perros mostrados antes se conservan
		s.Err = dogs.Message(out.Err)
	}
	s.Searched = true
	s.Busy = false
	return s, true
}

// ShowPagination: hay más de una página y no hay búsqueda en curso.
func (s State) ShowPagination() bool {
	return !s.Busy && s.TotalPages > 1
}

// LocationOf devuelve la ubicación conocida de un zip, si la hay.
func (s State) LocationOf(zip string) (dogs.Location, bool) {
	l, ok := s.Locations[zip]
	return l, ok
}

// Has indica si el id está en la página mostrada.
func (s State) Has(dogID string) bool {
	for _, d := range s.Dogs {
		if d.ID == dogID {
			return true
		}
	}
	return false
}
