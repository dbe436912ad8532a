package cafes_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/whiski-agent/internal/app/cafes"
	"github.com/PabloGalante/whiski-agent/internal/domain"
)

func rawCafes(n int) []domain.Cafe {
	out := make([]domain.Cafe, n)
	for i := range out {
		out[i] = domain.Cafe{
			PlaceID: fmt.Sprintf("place-%d", i),
			Name:    fmt.Sprintf("Matcha Bar %d", i),
			Address: "1 Main St",
		}
	}
	return out
}

func TestFormatKeepsLengthUpToFive(t *testing.T) {
	for n := 0; n <= cafes.MaxResults; n++ {
		assert.Len(t, cafes.Format(rawCafes(n)), n)
	}
	assert.Len(t, cafes.Format(rawCafes(9)), cafes.MaxResults)
	assert.Empty(t, cafes.Format(nil))
}

func TestFormatCyclesFiveDistinctPairs(t *testing.T) {
	out := cafes.Format(rawCafes(5))

	seen := map[[2]string]bool{}
	for _, c := range out {
		require.NotEmpty(t, c.Speciality)
		require.NotEmpty(t, c.Atmosphere)
		seen[[2]string{c.Speciality, c.Atmosphere}] = true
	}
	assert.Len(t, seen, 5)

	again := cafes.Format(rawCafes(3))
	for i := range again {
		assert.Equal(t, out[i].Speciality, again[i].Speciality, "index %d", i)
		assert.Equal(t, out[i].Atmosphere, again[i].Atmosphere, "index %d", i)
	}
}

func TestFormatPriceRangeAndMapLink(t *testing.T) {
	rating := 4.7
	raw := []domain.Cafe{
		{Name: "Cha Cha Matcha", Rating: &rating, PriceLevel: "PRICE_LEVEL_EXPENSIVE"},
		{Name: "Kettl", MapLink: "https://maps.example/kettl"},
	}

	out := cafes.Format(raw)

	assert.Equal(t, "$$$", out[0].PriceRange)
	assert.Equal(t, "https://maps.google.com/?q=Cha+Cha+Matcha", out[0].MapLink)
	assert.Equal(t, "$$", out[1].PriceRange)
	assert.Equal(t, "https://maps.example/kettl", out[1].MapLink)
	assert.Empty(t, raw[0].Speciality, "input is not modified")
}

type fakeSearch struct {
	cafes []domain.Cafe
	err   error
}

func (f fakeSearch) Find(context.Context, string) ([]domain.Cafe, error) {
	return f.cafes, f.err
}

func TestFinder(t *testing.T) {
	ctx := context.Background()

	t.Run("results", func(t *testing.T) {
		got, notice := cafes.NewFinder(fakeSearch{cafes: rawCafes(2)}).Find(ctx, "Queens, NY")
		assert.Len(t, got, 2)
		assert.Empty(t, notice)
	})

	t.Run("collaborator error", func(t *testing.T) {
		got, notice := cafes.NewFinder(fakeSearch{err: errors.New("quota exceeded")}).Find(ctx, "Queens, NY")
		if diff := cmp.Diff([]domain.Cafe{}, got); diff != "" {
			t.Fatalf("unexpected cafes (-want +got):\n%s", diff)
		}
		assert.Equal(t, cafes.NoticeNoCafes, notice)
	})

	t.Run("empty", func(t *testing.T) {
		got, notice := cafes.NewFinder(fakeSearch{}).Find(ctx, "Nowhere")
		assert.Empty(t, got)
		assert.Equal(t, cafes.NoticeNoCafes, notice)
	})

	t.Run("no provider", func(t *testing.T) {
		got, notice := cafes.NewFinder(nil).Find(ctx, "Queens, NY")
		assert.NotNil(t, got)
		assert.Equal(t, cafes.NoticeNoCafes, notice)
	})
}
