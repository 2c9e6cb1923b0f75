package adoption

import (
	"context"

	"dog-finder/internal/domain/dogs"
)

// API es el contrato con el servicio externo de adopción.
// La credencial de sesión no es parámetro: viaja en el context
// (httpclient.WithCredential) y la adjunta el transport.
type API interface {
	// Login/Logout reportan éxito como bool; nunca devuelven error.
	Login(ctx context.Context, name, email string) bool
	Logout(ctx context.Context) bool

	ListBreeds(ctx context.Context) ([]string, error)
	Search(ctx context.Context, q dogs.SearchQuery) (dogs.SearchResult, error)
	FetchDogs(ctx context.Context, ids []string) ([]dogs.Dog, error)
	RequestMatch(ctx context.Context, favoriteIDs []string) (dogs.Match, error)
	FetchLocations(ctx context.Context, zipCodes []string) ([]dogs.Location, error)
}
