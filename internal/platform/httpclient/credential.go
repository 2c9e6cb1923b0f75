package httpclient

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Cookie es la forma serializable de una cookie del servicio externo.
// Es lo único que guardamos de la sesión upstream.
type Cookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

// Credential es el handle opaco de sesión contra el servicio externo.
// Arranca con las cookies guardadas y va absorbiendo los Set-Cookie de cada respuesta.
type Credential struct {
	mu      sync.Mutex
	cookies map[string]Cookie
	now     func() time.Time
}

func NewCredential(cookies []Cookie) *Credential {
	c := &Credential{
		cookies: make(map[string]Cookie, len(cookies)),
		now:     time.Now,
	}
	for _, ck := range cookies {
		if ck.Name == "" {
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return c
}

// Snapshot devuelve las cookies vigentes, ordenadas por nombre.
func (c *Credential) Snapshot() []Cookie {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	out := make([]Cookie, 0, len(c.cookies))
	for _, ck := range c.cookies {
		if expired(ck, now) {
			continue
		}
		out = append(out, ck)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Empty indica que no hay ninguna cookie vigente.
func (c *Credential) Empty() bool {
	return len(c.Snapshot()) == 0
}

func (c *Credential) apply(req *http.Request) {
	for _, ck := range c.Snapshot() {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}
}

func (c *Credential) capture(resp *http.Response) {
	set := resp.Cookies()
	if len(set) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for _, hc := range set {
		if hc.Name == "" {
			continue
		}
		// MaxAge<0 o valor vacío => el server la está borrando (p.ej. en logout)
		if hc.MaxAge < 0 || hc.Value == "" {
			delete(c.cookies, hc.Name)
			continue
		}
		ck := Cookie{Name: hc.Name, Value: hc.Value}
		switch {
		case hc.MaxAge > 0:
			ck.Expires = now.Add(time.Duration(hc.MaxAge) * time.Second)
		case !hc.Expires.IsZero():
			ck.Expires = hc.Expires
		}
		if expired(ck, now) {
			delete(c.cookies, hc.Name)
			continue
		}
		c.cookies[hc.Name] = ck
	}
}

func expired(ck Cookie, now time.Time) bool {
	return !ck.Expires.IsZero() && !now.Before(ck.Expires)
}

type ctxKey string

const credentialKey ctxKey = "credential"

// WithCredential asocia una credencial al context; CredentialTransport la usa
// en cada request que salga con ese context.
func WithCredential(ctx context.Context, c *Credential) context.Context {
	if c == nil {
		return ctx
	}
	return context.WithValue(ctx, credentialKey, c)
}

func CredentialFrom(ctx context.Context) (*Credential, bool) {
	c, ok := ctx.Value(credentialKey).(*Credential)
	return c, ok && c != nil
}

// CredentialTransport adjunta las cookies de la credencial del context
// y captura las que devuelva el servicio.
type CredentialTransport struct {
	Base http.RoundTripper
}

func (t *CredentialTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	cred, ok := CredentialFrom(req.Context())
	if !ok {
		return base.RoundTrip(req)
	}

	// RoundTrip no debe modificar el request original
	out := req.Clone(req.Context())
	cred.apply(out)

	resp, err := base.RoundTrip(out)
	if err != nil {
		return nil, err
	}
	cred.capture(resp)
	return resp, nil
}
