package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dog-finder/internal/cache"
	"dog-finder/internal/domain/browse"
	"dog-finder/internal/domain/dogs"
	"dog-finder/internal/domain/favorites"
	"dog-finder/internal/domain/match"
	"dog-finder/internal/platform/httpclient"
	"dog-finder/internal/platform/logger"
	"dog-finder/internal/ports/adoption"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("session not found")
	ErrLoginFailed  = errors.New("login failed")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("session modified concurrently")
)

const (
	MsgLoginFailed  = "Login failed. Please check your credentials."
	MsgMissingLogin = "Name and email are required"
	MsgExpired      = "Your session has expired. Please log in again."
	MsgUnknownDog   = "That dog is not on the current page"
)

const (
	DefaultTTL       = time.Hour
	DefaultBreedsTTL = 5 * time.Minute
)

// maxUpdateAttempts acota los reintentos de update ante ErrConflict.
const maxUpdateAttempts = 5

type Options struct {
	TTL       time.Duration
	BreedsTTL time.Duration
	Log       logger.Logger
}

// Service es el controlador de página: cada operación carga la sesión,
// aplica la transición, llama al servicio externo y guarda.
type Service struct {
	repo    Repository
	api     adoption.API
	ctrl    *browse.Controller
	matcher *match.Requester
	breeds  *cache.Breeds
	ttl     time.Duration
	log     logger.Logger
	now     func() time.Time
}

func NewService(repo Repository, api adoption.API, opts Options) *Service {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	breedsTTL := opts.BreedsTTL
	if breedsTTL <= 0 {
		breedsTTL = DefaultBreedsTTL
	}
	return &Service{
		repo:    repo,
		api:     api,
		ctrl:    browse.NewController(api, log),
		matcher: match.NewRequester(api, log),
		breeds:  cache.NewBreeds(breedsTTL),
		ttl:     ttl,
		log:     log,
		now:     time.Now,
	}
}

// Message es el único texto que ve el usuario para un error.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrLoginFailed):
		return MsgLoginFailed
	case errors.Is(err, ErrInvalidInput):
		return MsgMissingLogin
	case errors.Is(err, ErrNotFound):
		return MsgExpired
	default:
		return dogs.Message(err)
	}
}

// Login autentica contra el servicio con una credencial nueva y abre la sesión.
func (s *Service) Login(ctx context.Context, name, email string) (Session, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return Session{}, ErrInvalidInput
	}

	cred := httpclient.NewCredential(nil)
	if !s.api.Login(httpclient.WithCredential(ctx, cred), name, email) {
		s.log.Warn("login rejected", nil)
		return Session{}, ErrLoginFailed
	}

	now := s.now()
	sess := Session{
		ID:         uuid.NewString(),
		Name:       name,
		Email:      email,
		Credential: cred.Snapshot(),
		Browse:     browse.NewState(),
		Favorites:  favorites.NewSet(),
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}

	s.log.Info("session started", map[string]any{"session_id": sess.ID})
	return sess, nil
}

// Logout cierra la sesión upstream y borra la local pase lo que pase.
// El bool es lo que respondió el servicio.
func (s *Service) Logout(ctx context.Context, id string) (bool, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}

	cctx, _ := s.credential(ctx, sess)
	ok := s.api.Logout(cctx)
	if !ok {
		s.log.Warn("upstream logout failed", map[string]any{"session_id": id})
	}

	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return ok, fmt.Errorf("delete session: %w", err)
	}
	s.log.Info("session closed", map[string]any{"session_id": id})
	return ok, nil
}

func (s *Service) Get(ctx context.Context, id string) (Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Session{}, ErrNotFound
	}
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if sess.Expired(s.now()) {
		_ = s.repo.Delete(ctx, id)
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Exists lo usa el middleware para decidir si la cookie sirve.
func (s *Service) Exists(ctx context.Context, id string) bool {
	_, err := s.Get(ctx, id)
	return err == nil
}

// Current devuelve la sesión para renderizar. La primera vez dispara la
// búsqueda inicial (sin filtros, página 1). Los flash se consumen acá.
func (s *Service) Current(ctx context.Context, id string) (Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}

	if !sess.Browse.Searched && sess.Browse.Generation == 0 {
		sess, err = s.search(ctx, id, func(st browse.State) (browse.State, error) {
			return st.Refresh(), nil
		})
		if err != nil && !isUserFacing(err) {
			return Session{}, err
		}
	}

	if sess.Notice != nil || sess.Err != "" {
		_, err := s.update(ctx, id, func(cur *Session) error {
			cur.Notice = nil
			cur.Err = ""
			return nil
		})
		if err != nil {
			return Session{}, err
		}
	}
	return sess, nil
}

// Search aplica el filtro enviado y vuelve a la página 1.
func (s *Service) Search(ctx context.Context, id string, f browse.FilterState) (Session, error) {
	return s.search(ctx, id, func(st browse.State) (browse.State, error) {
		return st.SubmitFilters(f)
	})
}

func (s *Service) ChangePage(ctx context.Context, id string, page int) (Session, error) {
	return s.search(ctx, id, func(st browse.State) (browse.State, error) {
		return st.ChangePage(page)
	})
}

func (s *Service) ClearFilters(ctx context.Context, id string) (Session, error) {
	return s.search(ctx, id, func(st browse.State) (browse.State, error) {
		return st.ClearFilters(), nil
	})
}

// Refresh vuelve a correr la página actual (p.ej. después de un error).
func (s *Service) Refresh(ctx context.Context, id string) (Session, error) {
	return s.search(ctx, id, func(st browse.State) (browse.State, error) {
		return st.Refresh(), nil
	})
}

// search guarda el estado "busy" con su generación, corre la búsqueda y
// aplica el resultado sobre la versión más nueva de la sesión. Si mientras
// tanto se inició otra búsqueda, este resultado se descarta.
func (s *Service) search(ctx context.Context, id string, transition func(browse.State) (browse.State, error)) (Session, error) {
	var next browse.State
	sess, err := s.update(ctx, id, func(cur *Session) error {
		st, err := transition(cur.Browse)
		if err != nil {
			cur.Err = dogs.Message(err)
			return err
		}
		cur.Browse = st
		next = st
		return nil
	})
	if err != nil {
		return sess, err
	}
	gen := next.Generation

	cctx, cred := s.credential(ctx, sess)
	out := s.ctrl.Run(cctx, next.Filter, next.Page)

	// Complete se reevalúa en cada reintento: si otra búsqueda ya guardó,
	// el resultado viejo no pisa al nuevo.
	var applied bool
	latest, err := s.update(ctx, id, func(cur *Session) error {
		cur.Credential = cred.Snapshot()
		cur.Browse, applied = cur.Browse.Complete(gen, out)
		return nil
	})
	if err != nil {
		return Session{}, err
	}

	if !applied {
		s.log.Info("stale search discarded", map[string]any{
			"session_id": id,
			"generation": gen,
			"current":    latest.Browse.Generation,
		})
	}
	if out.Err != nil {
		s.log.Warn("search failed", map[string]any{"session_id": id, "error": out.Err.Error(), "page": next.Page})
	}

	if applied && out.Err != nil {
		return latest, out.Err
	}
	return latest, nil
}

// ToggleFavorite solo acepta ids que el usuario pudo ver: la página actual,
// los favoritos o el match abierto.
func (s *Service) ToggleFavorite(ctx context.Context, id, dogID string) (Session, error) {
	dogID = strings.TrimSpace(dogID)
	return s.update(ctx, id, func(cur *Session) error {
		seen := cur.Browse.Has(dogID) || cur.Favorites.Has(dogID) || (cur.Match != nil && cur.Match.ID == dogID)
		if dogID == "" || !seen {
			verr := dogs.ValidationError(MsgUnknownDog)
			cur.Err = verr.Message
			return verr
		}

		favs := cur.Favorites.Clone()
		n := favs.Toggle(dogID)
		cur.Favorites = favs
		cur.Notice = &n
		return nil
	})
}

// RequestMatch pide el match con todos los favoritos. MatchBusy es solo
// para la vista; no impide dos pedidos simultáneos.
func (s *Service) RequestMatch(ctx context.Context, id string) (Session, error) {
	sess, err := s.update(ctx, id, func(cur *Session) error {
		cur.MatchBusy = true
		cur.Err = ""
		return nil
	})
	if err != nil {
		return Session{}, err
	}

	cctx, cred := s.credential(ctx, sess)
	dog, matchErr := s.matcher.Request(cctx, sess.Favorites)

	latest, err := s.update(ctx, id, func(cur *Session) error {
		cur.Credential = cred.Snapshot()
		cur.MatchBusy = false
		if matchErr != nil {
			cur.Err = dogs.Message(matchErr)
			return nil
		}
		m := dog
		cur.Match = &m
		return nil
	})
	if err != nil {
		return Session{}, err
	}
	return latest, matchErr
}

func (s *Service) DismissMatch(ctx context.Context, id string) (Session, error) {
	return s.update(ctx, id, func(cur *Session) error {
		cur.Match = nil
		return nil
	})
}

// Flash guarda un error de la capa web (p.ej. edad inválida en el form)
// para mostrarlo en el próximo render.
func (s *Service) Flash(ctx context.Context, id string, err error) error {
	_, uerr := s.update(ctx, id, func(cur *Session) error {
		cur.Err = Message(err)
		return nil
	})
	return uerr
}

// Breeds sale del cache de proceso; si hay que recargar se usa la
// credencial de esta sesión.
func (s *Service) Breeds(ctx context.Context, id string) ([]string, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cctx, _ := s.credential(ctx, sess)
	return s.breeds.Get(cctx, s.api.ListBreeds)
}

// PurgeExpired borra sesiones vencidas si el store lo necesita.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	p, ok := s.repo.(Purger)
	if !ok {
		return 0, nil
	}
	n, err := p.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	if n > 0 {
		s.log.Debug("expired sessions purged", map[string]any{"count": n})
	}
	return n, nil
}

// update lee la sesión, aplica fn y guarda. Si otro request guardó en el
// medio (ErrConflict), vuelve a leer y reaplica fn sobre la versión nueva.
// Un error de fn no corta el guardado: se devuelve junto con la sesión
// guardada (así los errores de validación quedan como flash).
func (s *Service) update(ctx context.Context, id string, fn func(*Session) error) (Session, error) {
	for attempt := 1; ; attempt++ {
		sess, err := s.Get(ctx, id)
		if err != nil {
			return Session{}, err
		}

		fnErr := fn(&sess)

		err = s.save(ctx, &sess)
		if errors.Is(err, ErrConflict) && attempt < maxUpdateAttempts {
			s.log.Debug("session conflict, retrying", map[string]any{"session_id": id, "attempt": attempt})
			continue
		}
		if err != nil {
			return Session{}, err
		}
		return sess, fnErr
	}
}

func (s *Service) save(ctx context.Context, sess *Session) error {
	now := s.now()
	sess.UpdatedAt = now
	sess.ExpiresAt = now.Add(s.ttl)
	if err := s.repo.Update(ctx, *sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	sess.Version++
	return nil
}

func (s *Service) credential(ctx context.Context, sess Session) (context.Context, *httpclient.Credential) {
	cred := httpclient.NewCredential(sess.Credential)
	return httpclient.WithCredential(ctx, cred), cred
}

// isUserFacing: errores que ya quedaron reflejados en el estado de la sesión.
func isUserFacing(err error) bool {
	var e *dogs.Error
	return errors.As(err, &e)
}
