package domain

import "time"

// Operation names what an agent call was made for.
type Operation string

const (
	OperationRecommendation Operation = "recommendation"
	OperationChat           Operation = "chat"
)

// AgentTrace records one call to the agent collaborator.
type AgentTrace struct {
	ID        TraceID   `json:"id"`
	SessionID SessionID `json:"session_id,omitempty"`
	Operation Operation `json:"operation"`

	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	PromptLen int    `json:"prompt_len"`
	ReplyLen  int    `json:"reply_len"`

	LatencyMS int64     `json:"latency_ms"`
	CreatedAt time.Time `json:"created_at"`
}
