package memory

import (
	"context"
	"sync"

	"github.com/PabloGalante/whiski-agent/internal/domain"
)

// DefaultTraceCapacity bounds how many traces TraceStore keeps.
const DefaultTraceCapacity = 1000

// TraceStore is a simple in-memory implementation of domain.TraceStore.
// It is NOT persistent; the oldest traces are dropped past its capacity.
type TraceStore struct {
	mu       sync.RWMutex
	traces   []*domain.AgentTrace
	capacity int
}

// NewTraceStore creates a TraceStore. capacity <= 0 uses DefaultTraceCapacity.
func NewTraceStore(capacity int) *TraceStore {
	if capacity <= 0 {
		capacity = DefaultTraceCapacity
	}
	return &TraceStore{capacity: capacity}
}

func (s *TraceStore) AppendTrace(_ context.Context, trace *domain.AgentTrace) error {
	if trace == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *trace
	s.traces = append(s.traces, &cp)
	if over := len(s.traces) - s.capacity; over > 0 {
		s.traces = append([]*domain.AgentTrace(nil), s.traces[over:]...)
	}
	return nil
}

// ListTraces returns the last `limit` traces, newest first.
// If limit <= 0, returns all.
func (s *TraceStore) ListTraces(_ context.Context, limit int) ([]*domain.AgentTrace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.traces) {
		limit = len(s.traces)
	}

	out := make([]*domain.AgentTrace, 0, limit)
	for i := len(s.traces) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *s.traces[i]
		out = append(out, &cp)
	}
	return out, nil
}
