package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"
)

type ctxKey string

const sessionKey ctxKey = "session_id"

const (
	SessionCookieName = "dogfinder_session"
	// SessionHeader permite usar la API JSON sin cookies.
	SessionHeader = "X-Session-ID"
)

// SessionChecker lo implementa session.Service.
type SessionChecker interface {
	Exists(ctx context.Context, id string) bool
}

// SessionContext:
// - Toma el id de la cookie o del header X-Session-ID.
// - Si checker != nil, solo lo deja en el context si la sesión existe.
// - Si no hay sesión, el request sigue igual; los handlers deciden login/401.
func SessionContext(checker SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sessionIDFrom(r)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			if checker != nil && !checker.Exists(r.Context(), id) {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
		})
	}
}

func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey, id)
}

func GetSessionID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(sessionKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func SetSessionCookie(w http.ResponseWriter, id string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionIDFrom(r *http.Request) string {
	if ck, err := r.Cookie(SessionCookieName); err == nil {
		if v := strings.TrimSpace(ck.Value); v != "" {
			return v
		}
	}
	return strings.TrimSpace(r.Header.Get(SessionHeader))
}
