package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/whiski-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/whiski-agent/internal/app/telemetry"
	"github.com/PabloGalante/whiski-agent/internal/domain"
	"github.com/PabloGalante/whiski-agent/internal/observability"
)

type agentFunc func(ctx context.Context, prompt string) (string, error)

func (f agentFunc) Run(ctx context.Context, prompt string) (string, error) { return f(ctx, prompt) }

type failingStore struct{}

func (failingStore) AppendTrace(context.Context, *domain.AgentTrace) error {
	return errors.New("disk full")
}

func (failingStore) ListTraces(context.Context, int) ([]*domain.AgentTrace, error) {
	return nil, nil
}

func TestTracedAgentRecordsCalls(t *testing.T) {
	store := memory.NewTraceStore(0)
	calls := 0
	agent := telemetry.NewTracedAgent(agentFunc(func(_ context.Context, p string) (string, error) {
		calls++
		if calls == 2 {
			return "", errors.New("timeout")
		}
		return "Drink: something", nil
	}), store)

	ctx := observability.WithSessionID(context.Background(), "sess-1")
	ctx = telemetry.WithOperation(ctx, domain.OperationRecommendation)

	reply, err := agent.Run(ctx, "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Drink: something", reply)

	_, err = agent.Run(ctx, "prompt")
	require.Error(t, err)

	svc := telemetry.NewService(store)
	traces, err := svc.ListTraces(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, traces, 2)

	assert.False(t, traces[0].Success)
	assert.Equal(t, "timeout", traces[0].Error)
	assert.True(t, traces[1].Success)
	assert.Equal(t, domain.SessionID("sess-1"), traces[1].SessionID)
	assert.Equal(t, domain.OperationRecommendation, traces[1].Operation)
	assert.Equal(t, 6, traces[1].PromptLen)
	assert.NotEmpty(t, traces[1].ID)
	assert.NotEqual(t, traces[0].ID, traces[1].ID)
}

func TestTracedAgentIgnoresStoreFailure(t *testing.T) {
	agent := telemetry.NewTracedAgent(agentFunc(func(context.Context, string) (string, error) {
		return "ok", nil
	}), failingStore{})

	reply, err := agent.Run(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}

func TestServiceWithoutStore(t *testing.T) {
	traces, err := telemetry.NewService(nil).ListTraces(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, traces)
}
