// Package chat answers free-form chat messages about matcha.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PabloGalante/whiski-agent/internal/app/prompt"
	"github.com/PabloGalante/whiski-agent/internal/domain"
	"github.com/PabloGalante/whiski-agent/internal/observability"
)

// Context is what the chat knows about the session.
type Context struct {
	Mood     string
	Location string
	Drink    string
	Weather  string
	// Turn is the number of messages already in the history.
	Turn int
}

// Responder produces one reply to a chat message.
type Responder interface {
	Name() string
	Reply(ctx context.Context, message string, cc Context) (string, error)
}

var errEmptyReply = errors.New("empty reply")

// AgentResponder asks the agent, wrapping the message with the session context.
type AgentResponder struct {
	agent domain.Agent
	tpl   prompt.Renderer
}

func NewAgentResponder(agent domain.Agent, tpl prompt.Renderer) *AgentResponder {
	if tpl == nil {
		tpl = prompt.NewChatTemplate()
	}
	return &AgentResponder{agent: agent, tpl: tpl}
}

func (r *AgentResponder) Name() string {
	return "agent"
}

func (r *AgentResponder) Reply(ctx context.Context, message string, cc Context) (string, error) {
	text, err := r.tpl.Render(prompt.Vars{
		prompt.VarMood:     orDefault(cc.Mood, "unknown"),
		prompt.VarLocation: orDefault(cc.Location, "unknown location"),
		prompt.VarDrink:    orDefault(cc.Drink, "none yet"),
		prompt.VarWeather:  orDefault(cc.Weather, "unknown"),
		prompt.VarMessage:  message,
	})
	if err != nil {
		return "", err
	}

	reply, err := r.agent.Run(ctx, text)
	if err != nil {
		return "", domain.Unavailable(domain.CollaboratorAgent, err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", errEmptyReply
	}
	return reply, nil
}

// Chain tries each responder in order and returns the first reply.
type Chain struct {
	responders []Responder
}

// NewDefaultChain constructs a chain with Agent -> Keywords. A nil agent
// leaves only the keyword replies.
func NewDefaultChain(agent domain.Agent, tpl prompt.Renderer) *Chain {
	var rs []Responder
	if agent != nil {
		rs = append(rs, NewAgentResponder(agent, tpl))
	}
	rs = append(rs, KeywordResponder{})
	return &Chain{responders: rs}
}

func NewChain(responders ...Responder) *Chain {
	return &Chain{responders: responders}
}

// Reply never fails: when every responder errors, the keyword reply is used.
func (c *Chain) Reply(ctx context.Context, message string, cc Context) string {
	log := observability.LoggerFromContext(ctx)

	for _, r := range c.responders {
		start := time.Now()
		reply, err := r.Reply(ctx, message, cc)
		if err != nil {
			log.Warn("chat responder failed", "responder", r.Name(), "error", err)
			continue
		}
		log.Info("chat reply", "responder", r.Name(), "elapsed_ms", time.Since(start).Milliseconds())
		return reply
	}

	reply, _ := KeywordResponder{}.Reply(ctx, message, cc)
	return reply
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
