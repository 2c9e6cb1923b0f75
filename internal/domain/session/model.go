package session

import (
	"encoding/json"
	"time"

	"dog-finder/internal/domain/browse"
	"dog-finder/internal/domain/dogs"
	"dog-finder/internal/domain/favorites"
	"dog-finder/internal/platform/httpclient"
)

// Session es el estado de un visitante logueado. Se guarda entero en el store
// y se reemplaza entero en cada operación.
type Session struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`

	// Credential son las cookies del servicio externo (p.ej. fetch-access-token).
	Credential []httpclient.Cookie `json:"credential"`

	Browse    browse.State  `json:"browse"`
	Favorites favorites.Set `json:"favorites"`

	Match     *dogs.Dog `json:"match,omitempty"`
	MatchBusy bool      `json:"match_busy"`

	// Notice y Err son flash: se muestran una vez y se limpian.
	Notice *favorites.Notice `json:"notice,omitempty"`
	Err    string            `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`

	// Version lo incrementa el store en cada Update aceptado.
	Version int64 `json:"version"`
}

// Expired compara contra now; ExpiresAt cero = no expira.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Encode/Decode es el formato en el que los stores guardan la sesión.
func Encode(s Session) ([]byte, error) {
	return json.Marshal(s)
}

func Decode(b []byte) (Session, error) {
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return Session{}, err
	}
	if s.Browse.Dogs == nil {
		s.Browse.Dogs = []dogs.Dog{}
	}
	return s, nil
}
