package fetchapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dog-finder/internal/domain/dogs"
	"dog-finder/internal/platform/httpclient"
	"dog-finder/internal/platform/logger"
	"dog-finder/internal/ports/adoption"
)

const DefaultBaseURL = "https://frontend-take-home-service.fetch.com"

// Mensajes por endpoint. No se derivan del body de la respuesta.
const (
	MsgBreeds      = "Failed to fetch breeds"
	MsgSearch      = "Failed to search dogs"
	MsgDogs        = "Failed to fetch dog details"
	MsgMatch       = "Failed to generate match"
	MsgLocations   = "Failed to fetch locations"
	MsgNoFavorites = "No favorite dogs selected"
)

var ErrEmptyMatch = errors.New("fetchapi: empty match in response")

// Config del cliente del servicio de adopción.
type Config struct {
	BaseURL string

	// Timeout HTTP (default httpclient.DefaultTimeout).
	Timeout time.Duration

	// Opcional: transport base (tests). Siempre queda envuelto por CredentialTransport.
	Transport http.RoundTripper

	Log logger.Logger
}

// Client implementa adoption.API contra el servicio HTTP.
type Client struct {
	http *httpclient.Client
	log  logger.Logger
}

var _ adoption.API = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}

	hc := httpclient.NewWithTransport(cfg.Timeout, cfg.Transport)
	if err := hc.SetBaseURL(base); err != nil {
		return nil, err
	}

	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		http: hc,
		log:  log.With(map[string]any{"component": "fetchapi"}),
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != ""
}

type loginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login manda las credenciales; el server setea la cookie de sesión
// y CredentialTransport la captura en la credencial del ctx.
func (c *Client) Login(ctx context.Context, name, email string) bool {
	err := c.http.DoJSON(ctx, http.MethodPost, "/auth/login", nil, nil, loginRequest{
		Name:  name,
		Email: email,
	}, nil)
	if err != nil {
		c.log.Warn("login failed", map[string]any{"error": err.Error()})
		return false
	}
	return true
}

func (c *Client) Logout(ctx context.Context) bool {
	if err := c.http.DoJSON(ctx, http.MethodPost, "/auth/logout", nil, nil, nil, nil); err != nil {
		c.log.Warn("logout failed", map[string]any{"error": err.Error()})
		return false
	}
	return true
}

func (c *Client) ListBreeds(ctx context.Context) ([]string, error) {
	out := make([]string, 0)
	if err := c.http.DoJSON(ctx, http.MethodGet, "/dogs/breeds", nil, nil, nil, &out); err != nil {
		return nil, c.fail(MsgBreeds, err)
	}
	return out, nil
}

func (c *Client) Search(ctx context.Context, q dogs.SearchQuery) (dogs.SearchResult, error) {
	var out dogs.SearchResult
	if err := c.http.DoJSON(ctx, http.MethodGet, "/dogs/search", EncodeSearchQuery(q), nil, nil, &out); err != nil {
		return dogs.SearchResult{}, c.fail(MsgSearch, err)
	}
	if out.ResultIDs == nil {
		out.ResultIDs = []string{}
	}
	return out, nil
}

// FetchDogs no hace request si ids está vacío.
// El orden de la respuesta lo decide el server.
func (c *Client) FetchDogs(ctx context.Context, ids []string) ([]dogs.Dog, error) {
	out := make([]dogs.Dog, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	if err := c.http.DoJSON(ctx, http.MethodPost, "/dogs", nil, nil, ids, &out); err != nil {
		return nil, c.fail(MsgDogs, err)
	}
	return out, nil
}

func (c *Client) RequestMatch(ctx context.Context, favoriteIDs []string) (dogs.Match, error) {
	if len(favoriteIDs) == 0 {
		return dogs.Match{}, dogs.ValidationError(MsgNoFavorites)
	}

	var out dogs.Match
	if err := c.http.DoJSON(ctx, http.MethodPost, "/dogs/match", nil, nil, favoriteIDs, &out); err != nil {
		return dogs.Match{}, c.fail(MsgMatch, err)
	}
	if strings.TrimSpace(out.Match) == "" {
		return dogs.Match{}, c.fail(MsgMatch, ErrEmptyMatch)
	}
	return out, nil
}

func (c *Client) FetchLocations(ctx context.Context, zipCodes []string) ([]dogs.Location, error) {
	out := make([]dogs.Location, 0, len(zipCodes))
	if len(zipCodes) == 0 {
		return out, nil
	}
	if err := c.http.DoJSON(ctx, http.MethodPost, "/locations", nil, nil, zipCodes, &out); err != nil {
		return nil, c.fail(MsgLocations, err)
	}
	return out, nil
}

func (c *Client) fail(msg string, err error) error {
	fields := map[string]any{"error": err.Error()}
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		fields["status"] = httpErr.StatusCode
	}
	c.log.Warn(msg, fields)
	return dogs.RequestError(msg, err)
}

// EncodeSearchQuery arma la query de /dogs/search: una entrada por raza/zip,
// el resto singulares; lo que no está seteado no se manda.
func EncodeSearchQuery(q dogs.SearchQuery) url.Values {
	v := url.Values{}
	for _, b := range q.Breeds {
		if b = strings.TrimSpace(b); b != "" {
			v.Add("breeds", b)
		}
	}
	for _, z := range q.ZipCodes {
		if z = strings.TrimSpace(z); z != "" {
			v.Add("zipCodes", z)
		}
	}
	if q.AgeMin != nil {
		v.Set("ageMin", strconv.Itoa(*q.AgeMin))
	}
	if q.AgeMax != nil {
		v.Set("ageMax", strconv.Itoa(*q.AgeMax))
	}
	if s := strings.TrimSpace(q.Sort); s != "" {
		v.Set("sort", s)
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.From != nil {
		v.Set("from", strconv.Itoa(*q.From))
	}
	return v
}
