// Package fetchapitest levanta un fake en memoria del servicio de adopción
// para tests de adapters, dominio y router.
package fetchapitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"dog-finder/internal/domain/dogs"

	"github.com/google/uuid"
)

const CookieName = "fetch-access-token"

// Server es el fake. Los campos exportados se pueden tocar antes de usarlo.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	dogs      map[string]dogs.Dog
	order     []string
	locations map[string]dogs.Location
	tokens    map[string]struct{}
	fail      map[string]int
	calls     map[string]int
	queries   map[string]url.Values
	bodies    map[string][]string

	// MatchPick elige el match; default: el menor id.
	MatchPick func(ids []string) string
}

func New() *Server {
	s := &Server{
		dogs:      map[string]dogs.Dog{},
		locations: map[string]dogs.Location{},
		tokens:    map[string]struct{}{},
		fail:      map[string]int{},
		calls:     map[string]int{},
		queries:   map[string]url.Values{},
		bodies:    map[string][]string{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// AddDogs agrega perros en el orden "natural" del índice.
func (s *Server) AddDogs(ds ...dogs.Dog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range ds {
		if _, ok := s.dogs[d.ID]; !ok {
			s.order = append(s.order, d.ID)
		}
		s.dogs[d.ID] = d
	}
}

func (s *Server) AddLocations(ls ...dogs.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range ls {
		s.locations[l.ZipCode] = l
	}
}

// Fail fuerza un status para un path. status 0 lo limpia.
func (s *Server) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.fail, path)
		return
	}
	s.fail[path] = status
}

func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

func (s *Server) LastQuery(path string) url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries[path]
}

func (s *Server) LastIDs(path string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.bodies[path]...)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.calls[r.URL.Path]++
	s.queries[r.URL.Path] = r.URL.Query()
	status, failing := s.fail[r.URL.Path]
	s.mu.Unlock()

	if failing {
		http.Error(w, http.StatusText(status), status)
		return
	}

	if r.URL.Path == "/auth/login" {
		s.login(w, r)
		return
	}
	if !s.authorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/auth/logout":
		s.logout(w, r)
	case r.Method == http.MethodGet && r.URL.Path == "/dogs/breeds":
		s.breeds(w)
	case r.Method == http.MethodGet && r.URL.Path == "/dogs/search":
		s.search(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/dogs":
		s.fetchDogs(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/dogs/match":
		s.match(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/locations":
		s.fetchLocations(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = struct{}{}
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: token, MaxAge: 3600, HttpOnly: true})
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	ck, _ := r.Cookie(CookieName)
	s.mu.Lock()
	delete(s.tokens, ck.Value)
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", MaxAge: -1})
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) authorized(r *http.Request) bool {
	ck, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[ck.Value]
	return ok
}

func (s *Server) breeds(w http.ResponseWriter) {
	s.mu.Lock()
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, d := range s.dogs {
		if _, ok := seen[d.Breed]; ok {
			continue
		}
		seen[d.Breed] = struct{}{}
		out = append(out, d.Breed)
	}
	s.mu.Unlock()

	sort.Strings(out)
	writeJSON(w, out)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	breeds := set(q["breeds"])
	zips := set(q["zipCodes"])
	ageMin, hasMin := intParam(q, "ageMin")
	ageMax, hasMax := intParam(q, "ageMax")
	size, ok := intParam(q, "size")
	if !ok || size <= 0 {
		size = 25
	}
	from, _ := intParam(q, "from")

	s.mu.Lock()
	matched := make([]dogs.Dog, 0)
	for _, id := range s.order {
		d := s.dogs[id]
		if len(breeds) > 0 {
			if _, ok := breeds[d.Breed]; !ok {
				continue
			}
		}
		if len(zips) > 0 {
			if _, ok := zips[d.ZipCode]; !ok {
				continue
			}
		}
		if hasMin && d.Age < ageMin {
			continue
		}
		if hasMax && d.Age > ageMax {
			continue
		}
		matched = append(matched, d)
	}
	s.mu.Unlock()

	desc := strings.HasSuffix(q.Get("sort"), ":desc")
	sort.SliceStable(matched, func(i, j int) bool {
		if desc {
			return matched[i].Breed > matched[j].Breed
		}
		return matched[i].Breed < matched[j].Breed
	})

	res := dogs.SearchResult{ResultIDs: []string{}, Total: len(matched)}
	for i := from; i < len(matched) && i < from+size; i++ {
		res.ResultIDs = append(res.ResultIDs, matched[i].ID)
	}
	if from+size < len(matched) {
		res.Next = cursor(q, from+size)
	}
	if from > 0 {
		res.Prev = cursor(q, max(from-size, 0))
	}
	writeJSON(w, res)
}

func (s *Server) fetchDogs(w http.ResponseWriter, r *http.Request) {
	ids, ok := s.readIDs(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	out := make([]dogs.Dog, 0, len(ids))
	for _, id := range ids {
		if d, ok := s.dogs[id]; ok {
			out = append(out, d)
		}
	}
	s.mu.Unlock()
	writeJSON(w, out)
}

func (s *Server) match(w http.ResponseWriter, r *http.Request) {
	ids, ok := s.readIDs(w, r)
	if !ok {
		return
	}
	if len(ids) == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	pick := s.MatchPick
	if pick == nil {
		pick = func(ids []string) string {
			sorted := append([]string(nil), ids...)
			sort.Strings(sorted)
			return sorted[0]
		}
	}
	writeJSON(w, dogs.Match{Match: pick(ids)})
}

func (s *Server) fetchLocations(w http.ResponseWriter, r *http.Request) {
	zips, ok := s.readIDs(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	out := make([]dogs.Location, 0, len(zips))
	for _, z := range zips {
		if l, ok := s.locations[z]; ok {
			out = append(out, l)
		}
	}
	s.mu.Unlock()
	writeJSON(w, out)
}

func (s *Server) readIDs(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	var ids []string
	if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil, false
	}
	s.mu.Lock()
	s.bodies[r.URL.Path] = ids
	s.mu.Unlock()
	return ids, true
}

func cursor(q url.Values, from int) string {
	next := url.Values{}
	for k, v := range q {
		next[k] = v
	}
	next.Set("from", strconv.Itoa(from))
	return "/dogs/search?" + next.Encode()
}

func set(vals []string) map[string]struct{} {
	out := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		out[v] = struct{}{}
	}
	return out
}

func intParam(q url.Values, key string) (int, bool) {
	raw := q.Get(key)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
