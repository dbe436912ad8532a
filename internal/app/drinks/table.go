// Package drinks holds the mood to drink table used as the static
// recommendation strategy and as the safety net for the agent strategy.
package drinks

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/PabloGalante/whiski-agent/internal/domain"
)

const (
	FallbackDrink = "Classic matcha latte"
	FallbackVibe  = "A bright neighborhood café with a window seat, soft music and a barista who knows your order. A good place to slow down for a moment."
)

// Entry is one row of the table.
type Entry struct {
	Drink string `yaml:"drink"`
	Vibe  string `yaml:"vibe"`
}

// Table maps moods to drinks. The zero value is not usable; use Default
// or Load.
type Table struct {
	entries  map[domain.Mood]Entry
	fallback Entry
}

// Default returns the built-in table.
func Default() *Table {
	return &Table{
		entries: map[domain.Mood]Entry{
			domain.MoodChill: {
				Drink: "Iced matcha latte with oat milk",
				Vibe:  "A sleek, minimalist café in a quiet corner. Soft jazz plays while sunlight streams through large windows, the perfect peaceful place to unwind.",
			},
			domain.MoodAnxious: {
				Drink: "Warm hojicha tea – calming and low caffeine",
				Vibe:  "A serene tea house with bamboo accents and gentle instrumental music. The ritual of preparing tea helps center your mind and ease your worries.",
			},
			domain.MoodCreative: {
				Drink: "Matcha with lavender or rose syrup",
				Vibe:  "A vibrant café filled with local art, colorful cushions and the gentle hum of creative energy. Natural light pours in, perfect for sketching or writing.",
			},
			domain.MoodReflective: {
				Drink: "Hot matcha latte with almond milk",
				Vibe:  "A quiet corner of a traditional tea room, surrounded by books and soft lighting. The right space for deep thoughts and peaceful contemplation.",
			},
			domain.MoodEnergized: {
				Drink: "Matcha lemonade – fresh and zesty",
				Vibe:  "A bright, modern café with upbeat music and bustling energy. Large communal tables and standing desks make it easy to get things done.",
			},
			domain.MoodCozy: {
				Drink: "Warm ceremonial matcha with oat milk",
				Vibe:  "A snug café with plush armchairs, warm lighting and the sound of rain outside. Soft blankets and the smell of fresh pastries complete the picture.",
			},
		},
		fallback: Entry{Drink: FallbackDrink, Vibe: FallbackVibe},
	}
}

type tableFile struct {
	Moods    map[string]Entry `yaml:"moods"`
	Fallback Entry            `yaml:"fallback"`
}

// Load reads a YAML override of the table. Moods missing from the file keep
// their built-in entry; unknown moods are rejected.
//
//	moods:
//	  chill:
//	    drink: Iced matcha latte with oat milk
//	    vibe: ...
//	fallback:
//	  drink: Classic matcha latte
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read drink table: %w", err)
	}

	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse drink table %s: %w", path, err)
	}

	t := Default()
	for name, e := range f.Moods {
		mood, ok := domain.ParseMood(name)
		if !ok {
			return nil, fmt.Errorf("drink table %s: unknown mood %q", path, name)
		}
		t.entries[mood] = merge(t.entries[mood], e)
	}
	t.fallback = merge(t.fallback, f.Fallback)
	return t, nil
}

func merge(base, override Entry) Entry {
	if s := strings.TrimSpace(override.Drink); s != "" {
		base.Drink = s
	}
	if s := strings.TrimSpace(override.Vibe); s != "" {
		base.Vibe = s
	}
	return base
}

// DrinkFor returns the drink for mood. The match is case-insensitive;
// anything unknown, including the empty string, gets the fallback drink.
func (t *Table) DrinkFor(mood string) string {
	return t.lookup(mood).Drink
}

// Recommend returns the full static recommendation for mood.
func (t *Table) Recommend(mood string) domain.Recommendation {
	e := t.lookup(mood)
	return domain.Recommendation{
		Drink:  e.Drink,
		Vibe:   e.Vibe,
		Source: domain.SourceStatic,
	}
}

// Fallback returns the generic entry used for unknown moods.
func (t *Table) Fallback() Entry {
	return t.fallback
}

func (t *Table) lookup(mood string) Entry {
	if e, ok := t.entries[domain.Mood(strings.ToLower(mood))]; ok {
		return e
	}
	return t.fallback
}
