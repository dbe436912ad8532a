// Package telemetry records every call made to the agent.
package telemetry

import (
	"context"

	"github.com/PabloGalante/whiski-agent/internal/domain"
)

const defaultListLimit = 20

// Service holds the logic of reading agent traces
type Service struct {
	store domain.TraceStore
}

// NewService creates a telemetry service from a TraceStore
func NewService(store domain.TraceStore) *Service {
	return &Service{
		store: store,
	}
}

// ListTraces returns the last `limit` traces, newest first.
// If limit <= 0, a reasonable default value is used.
func (s *Service) ListTraces(ctx context.Context, limit int) ([]*domain.AgentTrace, error) {
	if s.store == nil {
		return []*domain.AgentTrace{}, nil
	}

	if limit <= 0 {
		limit = defaultListLimit
	}

	return s.store.ListTraces(ctx, limit)
}
