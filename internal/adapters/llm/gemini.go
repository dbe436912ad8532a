package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/PabloGalante/whiski-agent/internal/observability"
)

// GeminiConfig selects the Gemini backend. With an APIKey the Gemini API is
// used, otherwise Vertex AI with Project and Location.
type GeminiConfig struct {
	Project    string
	Location   string
	APIKey     string
	ModelName  string
	Timeout    time.Duration
	MaxRetries int
}

func (c GeminiConfig) clientConfig() (*genai.ClientConfig, error) {
	if c.APIKey != "" {
		return &genai.ClientConfig{
			APIKey:  c.APIKey,
			Backend: genai.BackendGeminiAPI,
		}, nil
	}
	if c.Project == "" || c.Location == "" {
		return nil, errors.New("gemini: an API key or a GCP project and location must be set")
	}
	return &genai.ClientConfig{
		Project:  c.Project,
		Location: c.Location,
		Backend:  genai.BackendVertexAI,
	}, nil
}

type GeminiClient struct {
	client     *genai.Client
	modelName  string
	timeout    time.Duration
	maxRetries int
	system     string
}

// NewGeminiClient creates an agent backed by a plain Gemini model.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	cc, err := cfg.clientConfig()
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	modelName := cfg.ModelName
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	return &GeminiClient{
		client:     client,
		modelName:  modelName,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		system:     BuildSystemPrompt(false),
	}, nil
}

// Run implements domain.Agent.
func (g *GeminiClient) Run(ctx context.Context, prompt string) (string, error) {
	return withRetries(ctx, g.maxRetries, func(ctx context.Context) (string, error) {
		return g.generate(ctx, prompt)
	})
}

func (g *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	temp := float32(0.7)
	topP := float32(0.9)

	cfg := &genai.GenerateContentConfig{
		// According to official examples, the role here is usually RoleUser, not "system"
		SystemInstruction: genai.NewContentFromText(g.system, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   int32(1024),
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	// Extract only the text, never the structs
	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}

	return text, nil
}

const retryBackoff = 250 * time.Millisecond

// withRetries calls fn up to 1+retries times while the parent context lives.
func withRetries(ctx context.Context, retries int, fn func(context.Context) (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			observability.LoggerFromContext(ctx).Warn("retrying agent call", "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * retryBackoff):
			}
		}

		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}
