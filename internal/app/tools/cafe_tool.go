package tools

import (
	"context"
	"fmt"

	"github.com/PabloGalante/whiski-agent/internal/app/cafes"
)

const CafeToolName = "search_matcha_cafes"

// CafeArgs is the input of search_matcha_cafes.
type CafeArgs struct {
	Location string `json:"location"`
}

// CafeSummary is the part of a café the model gets to see.
type CafeSummary struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Rating  *float64 `json:"rating,omitempty"`
	MapLink string   `json:"map_link"`
}

// CafeResult is the output of search_matcha_cafes.
type CafeResult struct {
	Location string        `json:"location"`
	Cafes    []CafeSummary `json:"cafes"`
	Message  string        `json:"message,omitempty"`
}

// CafeSearchTool finds matcha cafés around a location, at most
// cafes.MaxResults of them.
type CafeSearchTool struct {
	finder *cafes.Finder
}

func NewCafeSearchTool(finder *cafes.Finder) *CafeSearchTool {
	return &CafeSearchTool{finder: finder}
}

func (t *CafeSearchTool) Name() string { return CafeToolName }

func (t *CafeSearchTool) Description() string {
	return "Searches matcha cafés near a location such as \"Brooklyn, NY\" and returns up to 5 of them with address, rating and map link."
}

// Search is the typed form of Call.
func (t *CafeSearchTool) Search(ctx context.Context, args CafeArgs) (CafeResult, error) {
	if args.Location == "" {
		return CafeResult{}, fmt.Errorf("%s: location is required", CafeToolName)
	}

	found, notice := t.finder.Find(ctx, args.Location)
	out := CafeResult{
		Location: args.Location,
		Cafes:    make([]CafeSummary, 0, len(found)),
		Message:  notice,
	}
	for _, c := range found {
		out.Cafes = append(out.Cafes, CafeSummary{
			Name:    c.Name,
			Address: c.Address,
			Rating:  c.Rating,
			MapLink: c.MapLink,
		})
	}
	return out, nil
}

// Call expects {"location": "Brooklyn, NY"}.
func (t *CafeSearchTool) Call(ctx context.Context, _ ToolContext, input map[string]any) (map[string]any, error) {
	res, err := t.Search(ctx, CafeArgs{Location: getString(input, "location")})
	if err != nil {
		return nil, err
	}
	list := make([]map[string]any, 0, len(res.Cafes))
	for _, c := range res.Cafes {
		item := map[string]any{
			"name":     c.Name,
			"address":  c.Address,
			"map_link": c.MapLink,
		}
		if c.Rating != nil {
			item["rating"] = *c.Rating
		}
		list = append(list, item)
	}
	return map[string]any{
		"location": res.Location,
		"cafes":    list,
		"message":  res.Message,
	}, nil
}
