package cafes

import (
	"context"

	"github.com/PabloGalante/whiski-agent/internal/domain"
	"github.com/PabloGalante/whiski-agent/internal/observability"
)

// NoticeNoCafes is the only user-visible effect of a failed or empty search.
const NoticeNoCafes = "No matcha cafés found near that location."

// Finder runs the place search and formats what it returns.
type Finder struct {
	search domain.PlaceSearch
}

// NewFinder returns a Finder. A nil search always finds nothing.
func NewFinder(search domain.PlaceSearch) *Finder {
	return &Finder{search: search}
}

// Find never fails: a search error is logged and reported as no results.
// The returned notice is empty when at least one café was found.
func (f *Finder) Find(ctx context.Context, location string) ([]domain.Cafe, string) {
	if f.search == nil {
		return []domain.Cafe{}, NoticeNoCafes
	}

	raw, err := f.search.Find(ctx, location)
	if err != nil {
		err = domain.Unavailable(domain.CollaboratorPlaceSearch, err)
		observability.LoggerFromContext(ctx).Warn("cafe search failed",
			"location", location,
			"error", err,
		)
		return []domain.Cafe{}, NoticeNoCafes
	}

	out := Format(raw)
	if len(out) == 0 {
		return out, NoticeNoCafes
	}
	return out, ""
}
