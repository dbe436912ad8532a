// Package sqlite keeps agent traces in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/PabloGalante/whiski-agent/internal/domain"
)

const createTraces = `CREATE TABLE IF NOT EXISTS agent_traces (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL DEFAULT '',
	operation TEXT NOT NULL DEFAULT '',
	success INTEGER NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	prompt_len INTEGER NOT NULL,
	reply_len INTEGER NOT NULL,
	latency_ms INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);`

const createTracesIndex = `CREATE INDEX IF NOT EXISTS agent_traces_created_at ON agent_traces (created_at DESC);`

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path. ":memory:" is accepted.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{createTraces, createTracesIndex} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create sqlite tables: %w", err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) AppendTrace(ctx context.Context, trace *domain.AgentTrace) error {
	if trace == nil {
		return nil
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO agent_traces
			(id, session_id, operation, success, error, prompt_len, reply_len, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(trace.ID),
		string(trace.SessionID),
		string(trace.Operation),
		trace.Success,
		trace.Error,
		trace.PromptLen,
		trace.ReplyLen,
		trace.LatencyMS,
		trace.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("sqlite AppendTrace: %w", err)
	}
	return nil
}

func (s *Store) ListTraces(ctx context.Context, limit int) ([]*domain.AgentTrace, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, operation, success, error, prompt_len, reply_len, latency_ms, created_at
		FROM agent_traces
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite ListTraces: %w", err)
	}
	defer rows.Close()

	out := []*domain.AgentTrace{}
	for rows.Next() {
		var (
			t         domain.AgentTrace
			id, sid   string
			op        string
			createdAt int64
		)
		if err := rows.Scan(&id, &sid, &op, &t.Success, &t.Error, &t.PromptLen, &t.ReplyLen, &t.LatencyMS, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite ListTraces scan: %w", err)
		}
		t.ID = domain.TraceID(id)
		t.SessionID = domain.SessionID(sid)
		t.Operation = domain.Operation(op)
		t.CreatedAt = time.Unix(0, createdAt).UTC()
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite ListTraces: %w", err)
	}
	return out, nil
}
