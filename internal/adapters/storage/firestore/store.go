package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/whiski-agent/internal/domain"
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store.
// Uses the project passed (WHISKI_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) tracesCol() *firestore.CollectionRef {
	return s.client.Collection("agent_traces")
}

func (s *Store) traceDoc(id domain.TraceID) *firestore.DocumentRef {
	return s.tracesCol().Doc(string(id))
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type traceDoc struct {
	SessionID string    `firestore:"session_id"`
	Operation string    `firestore:"operation"`
	Success   bool      `firestore:"success"`
	Error     string    `firestore:"error"`
	PromptLen int       `firestore:"prompt_len"`
	ReplyLen  int       `firestore:"reply_len"`
	LatencyMS int64     `firestore:"latency_ms"`
	CreatedAt time.Time `firestore:"created_at"`
}

// ─────────────────────────────────────────
// TraceStore implementation
// ─────────────────────────────────────────

func (s *Store) AppendTrace(ctx context.Context, trace *domain.AgentTrace) error {
	if trace == nil {
		return nil
	}

	doc := traceDoc{
		SessionID: string(trace.SessionID),
		Operation: string(trace.Operation),
		Success:   trace.Success,
		Error:     trace.Error,
		PromptLen: trace.PromptLen,
		ReplyLen:  trace.ReplyLen,
		LatencyMS: trace.LatencyMS,
		CreatedAt: trace.CreatedAt,
	}

	_, err := s.traceDoc(trace.ID).Create(ctx, doc)
	if err != nil {
		// Traces are immutable; a retried append is not an error.
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("firestore AppendTrace: %w", err)
	}
	return nil
}

func (s *Store) ListTraces(ctx context.Context, limit int) ([]*domain.AgentTrace, error) {
	q := s.tracesCol().OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []*domain.AgentTrace{}
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListTraces: %w", err)
		}

		var doc traceDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode traceDoc: %w", err)
		}

		out = append(out, &domain.AgentTrace{
			ID:        domain.TraceID(snap.Ref.ID),
			SessionID: domain.SessionID(doc.SessionID),
			Operation: domain.Operation(doc.Operation),
			Success:   doc.Success,
			Error:     doc.Error,
			PromptLen: doc.PromptLen,
			ReplyLen:  doc.ReplyLen,
			LatencyMS: doc.LatencyMS,
			CreatedAt: doc.CreatedAt,
		})
	}
	return out, nil
}
