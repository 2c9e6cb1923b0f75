package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dog-finder/internal/domain/browse"
	"dog-finder/internal/domain/dogs"
	"dog-finder/internal/domain/session"
	"dog-finder/internal/middleware"
	"dog-finder/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Options struct {
	CookieSecure bool
	TTL          time.Duration
	Log          logger.Logger
}

type handler struct {
	svc   *session.Service
	opts  Options
	log   logger.Logger
	login *template.Template
	dogs  *template.Template
}

// RegisterRoutes monta las vistas HTML (login y búsqueda).
func RegisterRoutes(r chi.Router, svc *session.Service, opts Options) {
	if opts.TTL <= 0 {
		opts.TTL = session.DefaultTTL
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	h := &handler{
		svc:   svc,
		opts:  opts,
		log:   log,
		login: template.Must(template.ParseFS(templatesFS, "templates/base.html", "templates/login.html")),
		dogs:  template.Must(template.ParseFS(templatesFS, "templates/base.html", "templates/dogs.html")),
	}

	r.Get("/", h.loginPage)
	r.Post("/login", h.loginSubmit)
	r.Post("/logout", h.logout)

	r.Route("/dogs", func(dr chi.Router) {
		dr.Get("/", h.dogsPage)
		dr.Post("/search", h.search)
		dr.Post("/clear", h.clear)
		dr.Post("/page", h.changePage)
		dr.Post("/favorites/{dogID}", h.toggleFavorite)
		dr.Post("/match", h.requestMatch)
		dr.Post("/match/dismiss", h.dismissMatch)
	})
}

func (h *handler) loginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionID(r.Context()); ok {
		http.Redirect(w, r, "/dogs", http.StatusSeeOther)
		return
	}
	h.render(w, h.login, http.StatusOK, loginView{})
}

func (h *handler) loginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, h.login, http.StatusBadRequest, loginView{Error: "Invalid form"})
		return
	}
	name := r.PostForm.Get("name")
	email := r.PostForm.Get("email")

	s, err := h.svc.Login(r.Context(), name, email)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, session.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		h.render(w, h.login, status, loginView{Name: name, Email: email, Error: session.Message(err)})
		return
	}

	middleware.SetSessionCookie(w, s.ID, h.opts.TTL, h.opts.CookieSecure)
	http.Redirect(w, r, "/dogs", http.StatusSeeOther)
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	if id, ok := middleware.GetSessionID(r.Context()); ok {
		if _, err := h.svc.Logout(r.Context(), id); err != nil {
			h.log.Warn("logout failed", map[string]any{"error": err.Error()})
		}
	}
	middleware.ClearSessionCookie(w, h.opts.CookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handler) dogsPage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	s, err := h.svc.Current(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	breeds, err := h.svc.Breeds(r.Context(), id)
	if err != nil {
		// el form sigue usable; solo falta la lista de razas
		h.log.Warn("breeds unavailable", map[string]any{"error": err.Error()})
		if s.Err == "" {
			s.Err = dogs.Message(err)
		}
	}

	h.render(w, h.dogs, http.StatusOK, newDogsView(s, breeds))
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.flash(w, r, id, dogs.ValidationError("Invalid form"))
		return
	}

	f, err := filterFromForm(r)
	if err != nil {
		h.flash(w, r, id, err)
		return
	}

	if _, err := h.svc.Search(r.Context(), id, f); err != nil && !isShown(err) {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/dogs", http.StatusSeeOther)
}

func (h *handler) clear(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	if _, err := h.svc.ClearFilters(r.Context(), id); err != nil && !isShown(err) {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/dogs", http.StatusSeeOther)
}

func (h *handler) changePage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	page, err := strconv.Atoi(strings.TrimSpace(r.FormValue("page")))
	if err != nil {
		h.flash(w, r, id, dogs.ValidationError(browse.MsgInvalidPage))
		return
	}

	if _, err := h.svc.ChangePage(r.Context(), id, page); err != nil && !isShown(err) {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/dogs", http.StatusSeeOther)
}

func (h *handler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	if _, err := h.svc.ToggleFavorite(r.Context(), id, chi.URLParam(r, "dogID")); err != nil && !isShown(err) {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/dogs", http.StatusSeeOther)
}

func (h *handler) requestMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	if _, err := h.svc.RequestMatch(r.Context(), id); err != nil && !isShown(err) {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/dogs", http.StatusSeeOther)
}

func (h *handler) dismissMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	if _, err := h.svc.DismissMatch(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/dogs", http.StatusSeeOther)
}

func (h *handler) requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.GetSessionID(r.Context())
	if !ok {
		middleware.ClearSessionCookie(w, h.opts.CookieSecure)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return "", false
	}
	return id, true
}

func (h *handler) flash(w http.ResponseWriter, r *http.Request, id string, err error) {
	if ferr := h.svc.Flash(r.Context(), id, err); ferr != nil {
		h.fail(w, r, ferr)
		return
	}
	http.Redirect(w, r, "/dogs", http.StatusSeeOther)
}

// fail: sesión vencida => vuelve al login; lo demás es 500.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, session.ErrNotFound) {
		middleware.ClearSessionCookie(w, h.opts.CookieSecure)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.log.Error("web handler failed", map[string]any{"error": err.Error(), "path": r.URL.Path})
	http.Error(w, dogs.UnexpectedMessage, http.StatusInternalServerError)
}

func (h *handler) render(w http.ResponseWriter, t *template.Template, status int, data any) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		h.log.Error("template render failed", map[string]any{"error": err.Error()})
		http.Error(w, dogs.UnexpectedMessage, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func filterFromForm(r *http.Request) (browse.FilterState, error) {
	ageMin, err := browse.ParseAge(r.PostForm.Get("age_min"))
	if err != nil {
		return browse.FilterState{}, err
	}
	ageMax, err := browse.ParseAge(r.PostForm.Get("age_max"))
	if err != nil {
		return browse.FilterState{}, err
	}
	return browse.FilterState{
		Breeds:   r.PostForm["breeds"],
		ZipCodes: splitList(r.PostForm["zip_codes"]),
		AgeMin:   ageMin,
		AgeMax:   ageMax,
		Sort:     browse.ParseSortDirection(r.PostForm.Get("sort")),
	}, nil
}

// isShown: el error ya quedó guardado en la sesión y se ve en /dogs.
func isShown(err error) bool {
	var e *dogs.Error
	return errors.As(err, &e)
}
