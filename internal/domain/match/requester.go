package match

import (
	"context"

	"dog-finder/internal/domain/dogs"
	"dog-finder/internal/domain/favorites"
	"dog-finder/internal/platform/logger"
	"dog-finder/internal/ports/adoption"
)

const (
	MsgNoFavorites = "Please add at least one dog to your favorites to generate a match"
	MsgNoDetails   = "Failed to fetch dog details"
)

// Requester pide un match al servicio a partir de los favoritos y trae el perro.
type Requester struct {
	api adoption.API
	log logger.Logger
}

func NewRequester(api adoption.API, log logger.Logger) *Requester {
	if log == nil {
		log = logger.Nop()
	}
	return &Requester{api: api, log: log}
}

// Request: favoritos vacíos => ValidationError sin tocar la red.
// Si no, RequestMatch con todos los ids y FetchDogs del id elegido.
// El servicio no garantiza que el match esté entre los favoritos; no se verifica.
func (r *Requester) Request(ctx context.Context, favs favorites.Set) (dogs.Dog, error) {
	if favs.Len() == 0 {
		return dogs.Dog{}, dogs.ValidationError(MsgNoFavorites)
	}

	m, err := r.api.RequestMatch(ctx, favs.IDs())
	if err != nil {
		return dogs.Dog{}, err
	}

	found, err := r.api.FetchDogs(ctx, []string{m.Match})
	if err != nil {
		return dogs.Dog{}, err
	}
	if len(found) == 0 {
		r.log.Warn("match not found in dog details", map[string]any{"dog_id": m.Match})
		return dogs.Dog{}, dogs.RequestError(MsgNoDetails, nil)
	}

	r.log.Info("match generated", map[string]any{"dog_id": found[0].ID, "favorites": favs.Len()})
	return found[0], nil
}
