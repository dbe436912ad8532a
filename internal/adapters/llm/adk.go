package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
	"google.golang.org/genai"

	"github.com/PabloGalante/whiski-agent/internal/app/tools"
	"github.com/PabloGalante/whiski-agent/internal/observability"
)

const (
	adkAppName   = "whiski"
	adkAgentName = "whiski_agent"
	adkUserID    = "whiski-user"
)

// ADKAgent is a tool-calling Whiski agent: the model may look up the drink
// table and search cafés before answering.
type ADKAgent struct {
	runner         *runner.Runner
	sessionService session.Service
	agentName      string
	cfg            GeminiConfig
}

// NewADKAgent builds the llmagent with the drink and café tools bound.
func NewADKAgent(ctx context.Context, cfg GeminiConfig, drink *tools.DrinkTool, cafes *tools.CafeSearchTool) (*ADKAgent, error) {
	cc, err := cfg.clientConfig()
	if err != nil {
		return nil, err
	}
	modelName := cfg.ModelName
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	model, err := gemini.NewModel(ctx, modelName, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini model: %w", err)
	}

	var bound []tool.Tool
	if drink != nil {
		t, err := functiontool.New(functiontool.Config{
			Name:        drink.Name(),
			Description: drink.Description(),
		}, func(tc tool.Context, args tools.DrinkArgs) (tools.DrinkResult, error) {
			return drink.Lookup(tc, args)
		})
		if err != nil {
			return nil, fmt.Errorf("bind %s: %w", drink.Name(), err)
		}
		bound = append(bound, t)
	}
	if cafes != nil {
		t, err := functiontool.New(functiontool.Config{
			Name:        cafes.Name(),
			Description: cafes.Description(),
		}, func(tc tool.Context, args tools.CafeArgs) (tools.CafeResult, error) {
			return cafes.Search(tc, args)
		})
		if err != nil {
			return nil, fmt.Errorf("bind %s: %w", cafes.Name(), err)
		}
		bound = append(bound, t)
	}

	ag, err := llmagent.New(llmagent.Config{
		Name:        adkAgentName,
		Model:       model,
		Description: "Recommends matcha drinks and cafés for a mood, a location and the weather.",
		Instruction: BuildSystemPrompt(len(bound) > 0),
		Tools:       bound,
	})
	if err != nil {
		return nil, fmt.Errorf("create whiski agent: %w", err)
	}

	sessionSvc := session.InMemoryService()
	run, err := runner.New(runner.Config{
		AppName:        adkAppName,
		Agent:          ag,
		SessionService: sessionSvc,
	})
	if err != nil {
		return nil, fmt.Errorf("create whiski runner: %w", err)
	}
	observability.Logger().Info("ADK runner created", "tools", len(bound), "model", modelName)

	return &ADKAgent{
		runner:         run,
		sessionService: sessionSvc,
		agentName:      ag.Name(),
		cfg:            cfg,
	}, nil
}

// Run implements domain.Agent. Every call runs in a fresh ADK session, the
// Whiski session context travels in the prompt.
func (a *ADKAgent) Run(ctx context.Context, prompt string) (string, error) {
	return withRetries(ctx, a.cfg.MaxRetries, func(ctx context.Context) (string, error) {
		return a.invoke(ctx, prompt)
	})
}

func (a *ADKAgent) invoke(ctx context.Context, prompt string) (string, error) {
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	sessionID := uuid.New().String()
	_, err := a.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   adkAppName,
		UserID:    adkUserID,
		SessionID: sessionID,
	})
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	stream := a.runner.Run(ctx, adkUserID, sessionID, genai.NewContentFromText(prompt, genai.RoleUser), agent.RunConfig{})
	var builder strings.Builder
	var runErr error
	for event, err := range stream {
		if err != nil {
			runErr = err
			continue
		}
		if event == nil || event.Author != a.agentName {
			continue
		}
		content := event.LLMResponse.Content
		if content == nil {
			continue
		}
		for _, part := range content.Parts {
			if part.Text != "" {
				builder.WriteString(part.Text)
			}
		}
	}

	if builder.Len() == 0 {
		if runErr != nil {
			return "", fmt.Errorf("agent stream: %w", runErr)
		}
		return "", errors.New("empty agent response")
	}
	return builder.String(), nil
}
