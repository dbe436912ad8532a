package tools

import (
	"context"

	"github.com/PabloGalante/whiski-agent/internal/app/drinks"
)

const DrinkToolName = "get_drink_for_mood"

// DrinkArgs is the input of get_drink_for_mood.
type DrinkArgs struct {
	Mood string `json:"mood"`
}

// DrinkResult is the output of get_drink_for_mood.
type DrinkResult struct {
	Mood  string `json:"mood"`
	Drink string `json:"drink"`
	Vibe  string `json:"vibe"`
}

// DrinkTool looks a mood up in the drink table.
type DrinkTool struct {
	table *drinks.Table
}

func NewDrinkTool(table *drinks.Table) *DrinkTool {
	if table == nil {
		table = drinks.Default()
	}
	return &DrinkTool{table: table}
}

func (t *DrinkTool) Name() string { return DrinkToolName }

func (t *DrinkTool) Description() string {
	return "Returns the house matcha drink and café vibe for a mood: chill, anxious, creative, reflective, energized or cozy."
}

// Lookup is the typed form of Call. Unknown moods get the classic pick.
func (t *DrinkTool) Lookup(_ context.Context, args DrinkArgs) (DrinkResult, error) {
	rec := t.table.Recommend(args.Mood)
	return DrinkResult{Mood: args.Mood, Drink: rec.Drink, Vibe: rec.Vibe}, nil
}

// Call expects {"mood": "chill"}.
func (t *DrinkTool) Call(ctx context.Context, _ ToolContext, input map[string]any) (map[string]any, error) {
	res, err := t.Lookup(ctx, DrinkArgs{Mood: getString(input, "mood")})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"mood":  res.Mood,
		"drink": res.Drink,
		"vibe":  res.Vibe,
	}, nil
}
