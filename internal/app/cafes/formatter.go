// Package cafes decorates place search results for display.
package cafes

import (
	"strings"

	"github.com/PabloGalante/whiski-agent/internal/domain"
)

// MaxResults is the most cafés ever shown at once.
const MaxResults = 5

const defaultPriceRange = "$$"

var specialities = [MaxResults]string{
	"Traditional ceremonial matcha",
	"Artisanal matcha lattes",
	"Organic ceremonial matcha",
	"Matcha bubble tea",
	"Matcha cold brew",
}

var atmospheres = [MaxResults]string{
	"Quiet, minimalist, perfect for reflection",
	"Cozy corner nooks, ambient lighting",
	"Modern, bright, California casual",
	"Zen garden, peaceful setting",
	"Industrial chic, waterfront views",
}

// Places API price levels.
var priceRanges = map[string]string{
	"PRICE_LEVEL_FREE":           "$",
	"PRICE_LEVEL_INEXPENSIVE":    "$",
	"PRICE_LEVEL_MODERATE":       "$$",
	"PRICE_LEVEL_EXPENSIVE":      "$$$",
	"PRICE_LEVEL_VERY_EXPENSIVE": "$$$$",
}

// Format caps raw at MaxResults and fills the presentation fields. The
// speciality and atmosphere of the i-th café are taken from fixed lists at
// index i%5. raw is not modified.
func Format(raw []domain.Cafe) []domain.Cafe {
	n := min(len(raw), MaxResults)
	out := make([]domain.Cafe, 0, n)
	for i, c := range raw[:n] {
		c.Speciality = specialities[i%len(specialities)]
		c.Atmosphere = atmospheres[i%len(atmospheres)]
		c.PriceRange = priceRange(c.PriceLevel)
		if c.MapLink == "" && c.Name != "" {
			c.MapLink = MapLink(c.Name)
		}
		out = append(out, c)
	}
	return out
}

// MapLink builds a Google Maps search link for a café name.
func MapLink(name string) string {
	return "https://maps.google.com/?q=" + strings.ReplaceAll(strings.TrimSpace(name), " ", "+")
}

func priceRange(level string) string {
	if r, ok := priceRanges[level]; ok {
		return r
	}
	return defaultPriceRange
}
