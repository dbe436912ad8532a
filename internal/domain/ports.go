package domain

import "context"

// Agent is the LLM collaborator. It may fail, time out or return
// unstructured text.
type Agent interface {
	Run(ctx context.Context, prompt string) (string, error)
}

// PlaceSearch finds cafés around a free-form location.
type PlaceSearch interface {
	Find(ctx context.Context, locationQuery string) ([]Cafe, error)
}

// WeatherProvider returns a short description of the current weather.
// An empty string with a nil error means "no data".
type WeatherProvider interface {
	Current(ctx context.Context, location string) (string, error)
}

// SessionStore defines session persistence for the lifetime of the process.
type SessionStore interface {
	CreateSession(session *Session) error
	UpdateSession(session *Session) error
	GetSession(id SessionID) (*Session, error)
	DeleteSession(id SessionID) error
}

// TraceStore defines the minimum operations to keep agent call traces.
type TraceStore interface {
	AppendTrace(ctx context.Context, trace *AgentTrace) error
	ListTraces(ctx context.Context, limit int) ([]*AgentTrace, error)
}
