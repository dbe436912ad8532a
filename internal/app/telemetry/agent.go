package telemetry

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/PabloGalante/whiski-agent/internal/domain"
	"github.com/PabloGalante/whiski-agent/internal/observability"
)

type ctxKey struct{}

// WithOperation tags the agent calls made with ctx.
func WithOperation(ctx context.Context, op domain.Operation) context.Context {
	return context.WithValue(ctx, ctxKey{}, op)
}

func operation(ctx context.Context) domain.Operation {
	op, _ := ctx.Value(ctxKey{}).(domain.Operation)
	return op
}

// TracedAgent wraps an agent and stores one trace per call. Recording
// failures are logged and never change the call result.
type TracedAgent struct {
	next  domain.Agent
	store domain.TraceStore
	now   func() time.Time
}

func NewTracedAgent(next domain.Agent, store domain.TraceStore) *TracedAgent {
	return &TracedAgent{next: next, store: store, now: time.Now}
}

func (a *TracedAgent) Run(ctx context.Context, prompt string) (string, error) {
	start := a.now()
	reply, err := a.next.Run(ctx, prompt)

	trace := &domain.AgentTrace{
		ID:        domain.TraceID(uuid.NewString()),
		SessionID: domain.SessionID(observability.SessionID(ctx)),
		Operation: operation(ctx),
		Success:   err == nil,
		PromptLen: utf8.RuneCountInString(prompt),
		ReplyLen:  utf8.RuneCountInString(reply),
		LatencyMS: a.now().Sub(start).Milliseconds(),
		CreatedAt: start,
	}
	if err != nil {
		trace.Error = err.Error()
	}

	if a.store != nil {
		if serr := a.store.AppendTrace(ctx, trace); serr != nil {
			observability.LoggerFromContext(ctx).Warn("failed to store agent trace", "error", serr)
		}
	}

	observability.LoggerFromContext(ctx).Debug("agent call",
		"operation", trace.Operation,
		"success", trace.Success,
		"latency_ms", trace.LatencyMS,
	)
	return reply, err
}
