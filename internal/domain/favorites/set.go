package favorites

import (
	"encoding/json"
	"sort"
	"strings"
)

const (
	MsgAdded   = "Added to favorites"
	MsgRemoved = "Removed from favorites"
)

// Set es el conjunto de ids favoritos de una sesión. El orden no importa.
// El zero value no sirve para Toggle: usar NewSet.
type Set struct {
	ids map[string]struct{}
}

// Notice es el aviso que se muestra después de un toggle.
type Notice struct {
	DogID   string `json:"dog_id"`
	Added   bool   `json:"added"`
	Message string `json:"message"`
}

func NewSet(ids ...string) Set {
	s := Set{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

// Toggle agrega el id si no estaba y lo saca si estaba.
func (s *Set) Toggle(dogID string) Notice {
	if s.ids == nil {
		s.ids = map[string]struct{}{}
	}
	if _, ok := s.ids[dogID]; ok {
		delete(s.ids, dogID)
		return Notice{DogID: dogID, Added: false, Message: MsgRemoved}
	}
	s.ids[dogID] = struct{}{}
	return Notice{DogID: dogID, Added: true, Message: MsgAdded}
}

func (s Set) Has(dogID string) bool {
	_, ok := s.ids[dogID]
	return ok
}

func (s Set) Len() int { return len(s.ids) }

// IDs ordenados, para que la request de match y la vista sean estables.
func (s Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone copia el set; las sesiones se guardan por valor.
func (s Set) Clone() Set {
	return NewSet(s.IDs()...)
}

// Se serializa como array JSON de ids.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

func (s *Set) UnmarshalJSON(b []byte) error {
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	*s = NewSet(ids...)
	return nil
}
