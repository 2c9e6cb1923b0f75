package browse

import (
	"context"

	"dog-finder/internal/domain/dogs"
	"dog-finder/internal/platform/logger"
	"dog-finder/internal/ports/adoption"
)

// Outcome es lo que devuelve una corrida de búsqueda. Searched/Fetched
// dicen qué pasos llegaron a completarse antes de un error.
type Outcome struct {
	Searched   bool
	TotalPages int
	HasNext    bool
	HasPrev    bool

	Fetched   bool
	Dogs      []dogs.Dog
	Locations map[string]dogs.Location

	Err error
}

// Controller ejecuta la búsqueda paginada contra el servicio.
type Controller struct {
	api adoption.API
	log logger.Logger
}

func NewController(api adoption.API, log logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{api: api, log: log}
}

// Run: search -> totalPages/cursores -> fetchDogs (si hay ids) -> locations.
// Sin reintentos; el primer error corta.
func (c *Controller) Run(ctx context.Context, filter FilterState, page int) Outcome {
	var out Outcome

	res, err := c.api.Search(ctx, filter.Query(page))
	if err != nil {
		out.Err = err
		return out
	}

	out.Searched = true
	out.TotalPages = TotalPages(res.Total)
	out.HasNext = res.HasNext()
	out.HasPrev = res.HasPrev()

	if len(res.ResultIDs) == 0 {
		out.Fetched = true
		out.Dogs = []dogs.Dog{}
		return out
	}

	found, err := c.api.FetchDogs(ctx, res.ResultIDs)
	if err != nil {
		out.Err = err
		return out
	}
	out.Fetched = true
	out.Dogs = found
	out.Locations = c.locations(ctx, found)

	c.log.Debug("search completed", map[string]any{
		"page":        page,
		"total":       res.Total,
		"total_pages": out.TotalPages,
		"dogs":        len(found),
	})
	return out
}

// locations es best-effort: si falla, la vista cae al zip code.
func (c *Controller) locations(ctx context.Context, found []dogs.Dog) map[string]dogs.Location {
	zips := make([]string, 0, len(found))
	seen := map[string]struct{}{}
	for _, d := range found {
		if d.ZipCode == "" {
			continue
		}
		if _, ok := seen[d.ZipCode]; ok {
			continue
		}
		seen[d.ZipCode] = struct{}{}
		zips = append(zips, d.ZipCode)
	}
	if len(zips) == 0 {
		return nil
	}

	locs, err := c.api.FetchLocations(ctx, zips)
	if err != nil {
		c.log.Warn("locations lookup failed", map[string]any{"error": err.Error(), "zip_codes": len(zips)})
		return nil
	}

	out := make(map[string]dogs.Location, len(locs))
	for _, l := range locs {
		out[l.ZipCode] = l
	}
	return out
}
