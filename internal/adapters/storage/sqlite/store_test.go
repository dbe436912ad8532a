package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/whiski-agent/internal/adapters/storage/sqlite"
	"github.com/PabloGalante/whiski-agent/internal/domain"
)

func TestTraceRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "nested", "traces.db"))
	require.NoError(t, err)
	defer store.Close()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	traces := []*domain.AgentTrace{
		{ID: "t1", SessionID: "s1", Operation: domain.OperationRecommendation, Success: true, PromptLen: 120, ReplyLen: 80, LatencyMS: 900, CreatedAt: base},
		{ID: "t2", SessionID: "s1", Operation: domain.OperationChat, Success: false, Error: "timeout", LatencyMS: 30000, CreatedAt: base.Add(time.Minute)},
		{ID: "t3", Operation: domain.OperationChat, Success: true, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, tr := range traces {
		require.NoError(t, store.AppendTrace(ctx, tr))
	}
	require.NoError(t, store.AppendTrace(ctx, traces[0]), "duplicate appends are ignored")

	all, err := store.ListTraces(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, domain.TraceID("t3"), all[0].ID)
	assert.Equal(t, *traces[1], *all[1])
	assert.Equal(t, *traces[0], *all[2])

	two, err := store.ListTraces(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestOpenInMemory(t *testing.T) {
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	got, err := store.ListTraces(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
