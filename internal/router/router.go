package router

import (
	"net/http"
	"time"

	_ "dog-finder/docs"
	mem "dog-finder/internal/adapters/storage/memory"
	"dog-finder/internal/domain/session"
	"dog-finder/internal/middleware"
	"dog-finder/internal/platform/logger"
	"dog-finder/internal/ports/adoption"
	"dog-finder/internal/web"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// API es el cliente del servicio de adopción (fetchapi.Client en prod).
	API adoption.API

	// Opcional: si no viene, sesiones in-memory.
	Sessions session.Repository

	// Opcional: servicio ya armado (main lo comparte con el purgado).
	// Si viene, API/Sessions/TTLs se ignoran.
	Service *session.Service

	SessionTTL   time.Duration
	BreedsTTL    time.Duration
	CookieSecure bool

	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	svc := opts.Service
	if svc == nil {
		repo := opts.Sessions
		if repo == nil {
			repo = mem.NewSessionRepo()
		}
		svc = session.NewService(repo, opts.API, session.Options{
			TTL:       opts.SessionTTL,
			BreedsTTL: opts.BreedsTTL,
			Log:       log,
		})
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.Recover(log))

	r.Use(middleware.SessionContext(svc))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Vistas HTML
	web.RegisterRoutes(r, svc, web.Options{
		CookieSecure: opts.CookieSecure,
		TTL:          opts.SessionTTL,
		Log:          log,
	})

	// API JSON
	r.Route("/api/v1", func(ar chi.Router) {
		session.RegisterRoutes(ar, svc, session.HandlerOptions{
			CookieSecure: opts.CookieSecure,
			TTL:          opts.SessionTTL,
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return r
}
