package dogs

import "strings"

// Dog es un perro adoptable tal como lo devuelve el servicio externo.
// Nunca se crea ni se modifica localmente.
type Dog struct {
	ID      string `json:"id"`
	Img     string `json:"img"`
	Name    string `json:"name"`
	Age     int    `json:"age"`
	ZipCode string `json:"zip_code"`
	Breed   string `json:"breed"`
}

// Location de un zip code (POST /locations).
type Location struct {
	ZipCode   string  `json:"zip_code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	County    string  `json:"county"`
}

// SearchResult es una página de ids en el orden que decide el server.
// Next/Prev son cursores opacos; solo importa si vienen o no.
type SearchResult struct {
	ResultIDs []string `json:"resultIds"`
	Total     int      `json:"total"`
	Next      string   `json:"next,omitempty"`
	Prev      string   `json:"prev,omitempty"`
}

func (r SearchResult) HasNext() bool { return strings.TrimSpace(r.Next) != "" }
func (r SearchResult) HasPrev() bool { return strings.TrimSpace(r.Prev) != "" }

// Match es el id elegido por el servicio a partir de los favoritos.
type Match struct {
	Match string `json:"match"`
}

// SearchQuery son los parámetros de GET /dogs/search.
// nil / vacío = no se manda el parámetro.
type SearchQuery struct {
	Breeds   []string
	ZipCodes []string
	AgeMin   *int
	AgeMax   *int
	Sort     string // "field:asc|desc"
	Size     int
	From     *int
}
