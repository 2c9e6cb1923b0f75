package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"dog-finder/internal/domain/browse"
	"dog-finder/internal/domain/dogs"
	"dog-finder/internal/domain/favorites"
	"dog-finder/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// HandlerOptions controla la cookie que emite POST /session.
type HandlerOptions struct {
	CookieSecure bool
	TTL          time.Duration
}

// RegisterRoutes monta la API JSON (se espera bajo /api/v1).
func RegisterRoutes(r chi.Router, svc *Service, opts HandlerOptions) {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}

	r.Post("/session", loginHandler(svc, opts))
	r.Delete("/session", logoutHandler(svc, opts))

	r.Get("/breeds", breedsHandler(svc))

	r.Route("/search", func(sr chi.Router) {
		sr.Get("/", getSearchHandler(svc))
		sr.Post("/", submitSearchHandler(svc))
		sr.Post("/page", changePageHandler(svc))
		sr.Post("/clear", clearSearchHandler(svc))
	})

	r.Route("/favorites", func(fr chi.Router) {
		fr.Get("/", listFavoritesHandler(svc))
		fr.Post("/{dogID}", toggleFavoriteHandler(svc))
	})

	r.Post("/match", requestMatchHandler(svc))
	r.Delete("/match", dismissMatchHandler(svc))
}

type loginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type sessionResponse struct {
	SessionID string    `json:"session_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type logoutResponse struct {
	LoggedOut bool `json:"logged_out"`
}

type breedsResponse struct {
	Breeds []string `json:"breeds"`
}

type filterRequest struct {
	Breeds   []string `json:"breeds"`
	ZipCodes []string `json:"zip_codes"`
	AgeMin   *int     `json:"age_min"`
	AgeMax   *int     `json:"age_max"`
	Sort     string   `json:"sort"` // asc | desc
}

type pageRequest struct {
	Page int `json:"page"`
}

type dogResponse struct {
	dogs.Dog
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Favorite bool   `json:"favorite"`
}

type searchResponse struct {
	Filter         browse.FilterState `json:"filter"`
	Page           int                `json:"page"`
	TotalPages     int                `json:"total_pages"`
	ShowPagination bool               `json:"show_pagination"`
	HasNext        bool               `json:"has_next"`
	HasPrev        bool               `json:"has_prev"`
	Dogs           []dogResponse      `json:"dogs"`
	Favorites      int                `json:"favorites"`
	Error          string             `json:"error,omitempty"`
}

type favoritesResponse struct {
	Favorites []string          `json:"favorites"`
	Notice    *favorites.Notice `json:"notice,omitempty"`
}

type matchResponse struct {
	Match dogs.Dog `json:"match"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// loginHandler godoc
// @Summary Iniciar sesión
// @Description Autentica contra el servicio de adopción y abre una sesión local (cookie dogfinder_session).
// @Tags Session
// @Accept json
// @Produce json
// @Param body body loginRequest true "Nombre y email"
// @Success 201 {object} sessionResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /session [post]
func loginHandler(svc *Service, opts HandlerOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		s, err := svc.Login(r.Context(), req.Name, req.Email)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		middleware.SetSessionCookie(w, s.ID, opts.TTL, opts.CookieSecure)
		writeJSON(w, http.StatusCreated, sessionResponse{
			SessionID: s.ID,
			Name:      s.Name,
			Email:     s.Email,
			ExpiresAt: s.ExpiresAt,
		})
	}
}

// logoutHandler godoc
// @Summary Cerrar sesión
// @Description Cierra la sesión upstream y borra la local aunque el servicio falle.
// @Tags Session
// @Produce json
// @Success 200 {object} logoutResponse
// @Failure 401 {object} errorResponse
// @Router /session [delete]
func logoutHandler(svc *Service, opts HandlerOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireSession(w, r)
		if !ok {
			return
		}

		loggedOut, err := svc.Logout(r.Context(), id)
		middleware.ClearSessionCookie(w, opts.CookieSecure)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, logoutResponse{LoggedOut: loggedOut})
	}
}

// breedsHandler godoc
// @Summary Listar razas
// @Tags Dogs
// @Produce json
// @Success 200 {object} breedsResponse
// @Failure 401 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /breeds [get]
func breedsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireSession(w, r)
		if !ok {
			return
		}

		names, err := svc.Breeds(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, breedsResponse{Breeds: names})
	}
}

// getSearchHandler godoc
// @Summary Resultados actuales
// @Description Página actual con el filtro de la sesión. La primera vez corre la búsqueda inicial.
// @Tags Search
// @Produce json
// @Success 200 {object} searchResponse
// @Failure 401 {object} errorResponse
// @Router /search [get]
func getSearchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireSession(w, r)
		if !ok {
			return
		}

		s, err := svc.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !s.Browse.Searched {
			// el error de búsqueda viaja dentro de la respuesta
			if s, err = svc.Refresh(r.Context(), id); err != nil && !dogs.IsRequest(err) {
				writeServiceError(w, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, toSearchResponse(s))
	}
}

// submitSearchHandler godoc
// @Summary Aplicar filtros
// @Description Guarda el filtro y busca desde la página 1 (12 por página, orden por raza).
// @Tags Search
// @Accept json
// @Produce json
// @Param body body filterRequest true "Filtro"
// @Success 200 {object} searchResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /search [post]
func submitSearchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req filterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		s, err := svc.Search(r.Context(), id, browse.FilterState{
			Breeds:   req.Breeds,
			ZipCodes: req.ZipCodes,
			AgeMin:   req.AgeMin,
			AgeMax:   req.AgeMax,
			Sort:     browse.ParseSortDirection(req.Sort),
		})
		writeSearchResult(w, s, err)
	}
}

// changePageHandler godoc
// @Summary Cambiar de página
// @Tags Search
// @Accept json
// @Produce json
// @Param body body pageRequest true "Página (desde 1)"
// @Success 200 {object} searchResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /search/page [post]
func changePageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req pageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		s, err := svc.ChangePage(r.Context(), id, req.Page)
		writeSearchResult(w, s, err)
	}
}

// clearSearchHandler godoc
// @Summary Limpiar filtros
// @Tags Search
// @Produce json
// @Success 200 {object} searchResponse
// @Failure 401 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /search/clear [post]
func clearSearchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireSession(w, r)
		if !ok {
			return
		}

		s, err := svc.ClearFilters(r.Context(), id)
		writeSearchResult(w, s, err)
	}
}

// listFavoritesHandler godoc
// @Summary Listar favoritos
// @Tags Favorites
// @Produce json
// @Success 200 {object} favoritesResponse
// @Failure 401 {object} errorResponse
// @Router /favorites [get]
func listFavoritesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireSession(w, r)
		if !ok {
			return
		}

		s, err := svc.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, favoritesResponse{Favorites: s.Favorites.IDs()})
	}
}

// toggleFavoriteHandler godoc
// @Summary Agregar o quitar un favorito
// @Description Solo acepta perros de la página actual, de los favoritos o del match abierto.
// @Tags Favorites
// @Produce json
// @Param dogID path string true "Dog ID"
// @Success 200 {object} favoritesResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /favorites/{dogID} [post]
func toggleFavoriteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireSession(w, r)
		if !ok {
			return
		}

		s, err := svc.ToggleFavorite(r.Context(), id, chi.URLParam(r, "dogID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, favoritesResponse{Favorites: s.Favorites.IDs(), Notice: s.Notice})
	}
}

// requestMatchHandler godoc
// @Summary Generar match
// @Description Pide al servicio un perro a partir de todos los favoritos.
// @Tags Match
// @Produce json
// @Success 200 {object} matchResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /match [post]
func requestMatchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireSession(w, r)
		if !ok {
			return
		}

		s, err := svc.RequestMatch(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matchResponse{Match: *s.Match})
	}
}

// dismissMatchHandler godoc
// @Summary Cerrar el match
// @Tags Match
// @Success 204
// @Failure 401 {object} errorResponse
// @Router /match [delete]
func dismissMatchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireSession(w, r)
		if !ok {
			return
		}

		if _, err := svc.DismissMatch(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.GetSessionID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, MsgExpired)
		return "", false
	}
	return id, true
}

func toSearchResponse(s Session) searchResponse {
	out := searchResponse{
		Filter:         s.Browse.Filter,
		Page:           s.Browse.Page,
		TotalPages:     s.Browse.TotalPages,
		ShowPagination: s.Browse.ShowPagination(),
		HasNext:        s.Browse.HasNext,
		HasPrev:        s.Browse.HasPrev,
		Dogs:           make([]dogResponse, 0, len(s.Browse.Dogs)),
		Favorites:      s.Favorites.Len(),
		Error:          s.Browse.Err,
	}
	for _, d := range s.Browse.Dogs {
		dr := dogResponse{Dog: d, Favorite: s.Favorites.Has(d.ID)}
		if loc, ok := s.Browse.LocationOf(d.ZipCode); ok {
			dr.City = loc.City
			dr.State = loc.State
		}
		out.Dogs = append(out.Dogs, dr)
	}
	return out
}

// writeSearchResult: un fallo del servicio se devuelve como 502 pero con
// el estado (los perros anteriores siguen ahí).
func writeSearchResult(w http.ResponseWriter, s Session, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, toSearchResponse(s))
	case dogs.IsRequest(err):
		writeJSON(w, http.StatusBadGateway, toSearchResponse(s))
	default:
		writeServiceError(w, err)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), Message(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrLoginFailed):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidInput), dogs.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case dogs.IsRequest(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
