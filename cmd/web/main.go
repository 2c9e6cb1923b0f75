package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dog-finder/internal/adapters/fetchapi"
	mem "dog-finder/internal/adapters/storage/memory"
	"dog-finder/internal/adapters/storage/redisstore"
	"dog-finder/internal/adapters/storage/sqlstore"
	"dog-finder/internal/config"
	"dog-finder/internal/domain/session"
	"dog-finder/internal/platform/logger"
	"dog-finder/internal/router"
)

const purgeInterval = 5 * time.Minute

// @title Dog Finder API
// @version 1.0
// @description Búsqueda de perros en adopción, favoritos y match sobre el servicio de Fetch.
// @BasePath /api/v1
func main() {
	cfg, err := config.Load(config.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	defer func() {
		if s, ok := log.(interface{ Sync() error }); ok {
			_ = s.Sync()
		}
	}()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api, err := fetchapi.NewClient(fetchapi.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Log:     log,
	})
	if err != nil {
		return fmt.Errorf("fetch api client: %w", err)
	}

	repo, closer, err := openSessions(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()
	log.Info("session store ready", map[string]any{"store": cfg.SessionStore})

	svc := session.NewService(repo, api, session.Options{
		TTL:       cfg.SessionTTL,
		BreedsTTL: cfg.BreedsCacheTTL,
		Log:       log,
	})
	go purgeLoop(ctx, svc, log)

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.NewRouter(router.Options{
			Service:      svc,
			SessionTTL:   cfg.SessionTTL,
			CookieSecure: cfg.CookieSecure,
			Log:          log,
		}),
		ReadTimeout: 5 * time.Second,
		// un render de /dogs encadena hasta cuatro llamadas: razas, búsqueda, perros y ubicaciones
		WriteTimeout: 4*cfg.APITimeout + 5*time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "api": cfg.APIBaseURL})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openSessions(ctx context.Context, cfg config.Config) (session.Repository, io.Closer, error) {
	switch cfg.SessionStore {
	case config.StorePostgres:
		db, err := sqlstore.Open(ctx, sqlstore.DialectPostgres, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		return sqlstore.NewSessionsRepo(db), db, nil
	case config.StoreSQLite:
		db, err := sqlstore.Open(ctx, sqlstore.DialectSQLite, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlstore.NewSessionsRepo(db), db, nil
	case config.StoreRedis:
		rdb, err := redisstore.Open(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewSessionsRepo(rdb), rdb, nil
	default:
		return mem.NewSessionRepo(), io.NopCloser(nil), nil
	}
}

func purgeLoop(ctx context.Context, svc *session.Service, log logger.Logger) {
	t := time.NewTicker(purgeInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := svc.PurgeExpired(ctx); err != nil {
				log.Warn("purge failed", map[string]any{"error": err.Error()})
			}
		}
	}
}
