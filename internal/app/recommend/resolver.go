// Package recommend turns a mood, a location and the weather into a drink
// and a café vibe.
//
// With no agent configured the static drink table answers directly. With an
// agent, the reply is parsed; an unusable reply gets exactly one retry with a
// more directive prompt, and anything still unusable falls back to the
// static table. Resolve never returns empty strings.
package recommend

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PabloGalante/whiski-agent/internal/app/drinks"
	"github.com/PabloGalante/whiski-agent/internal/app/prompt"
	"github.com/PabloGalante/whiski-agent/internal/domain"
	"github.com/PabloGalante/whiski-agent/internal/observability"
)

// NoticeUnavailable is shown when a personalized recommendation could not
// even be attempted.
const NoticeUnavailable = "Personalized recommendation unavailable, here is a classic pick."

const (
	unknownLocation = "an unspecified location"
	unknownWeather  = "unknown"
)

// Request is the resolver input.
type Request struct {
	Mood     string
	Location string
	Weather  string
}

// Outcome is the resolver output.
type Outcome struct {
	domain.Recommendation
	// Notice is a user-visible message, empty when nothing needs saying.
	Notice string
	// Attempts is the number of agent calls made.
	Attempts int
}

type Resolver struct {
	table     *drinks.Table
	agent     domain.Agent
	task      prompt.Renderer
	directive prompt.Renderer
}

type Option func(*Resolver)

// WithAgent enables agent delegation.
func WithAgent(a domain.Agent) Option {
	return func(r *Resolver) { r.agent = a }
}

// WithTemplates replaces the first-attempt and retry templates.
func WithTemplates(task, directive prompt.Renderer) Option {
	return func(r *Resolver) {
		if task != nil {
			r.task = task
		}
		if directive != nil {
			r.directive = directive
		}
	}
}

func NewResolver(table *drinks.Table, opts ...Option) *Resolver {
	if table == nil {
		table = drinks.Default()
	}
	r := &Resolver{
		table:     table,
		task:      prompt.NewTaskTemplate(),
		directive: prompt.NewDirectiveTemplate(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Static answers from the drink table only.
func (r *Resolver) Static(mood string) domain.Recommendation {
	return r.table.Recommend(mood)
}

// Resolve produces a recommendation for req. It blocks on the agent call.
func (r *Resolver) Resolve(ctx context.Context, req Request) Outcome {
	if r.agent == nil {
		return Outcome{Recommendation: r.Static(req.Mood)}
	}

	log := observability.LoggerFromContext(ctx).With(
		"mood", req.Mood,
		"location", req.Location,
	)
	start := time.Now()

	vars := prompt.Vars{
		prompt.VarMood:     req.Mood,
		prompt.VarLocation: orDefault(req.Location, unknownLocation),
		prompt.VarWeather:  orDefault(req.Weather, unknownWeather),
	}

	out := Outcome{}
	for i, tpl := range []prompt.Renderer{r.task, r.directive} {
		text, err := tpl.Render(vars)
		if err != nil {
			log.Error("rendering recommendation prompt failed", "attempt", i+1, "error", err)
			out.Recommendation = r.Static(req.Mood)
			var te *domain.TemplateError
			if errors.As(err, &te) {
				out.Notice = NoticeUnavailable
			}
			return out
		}

		out.Attempts++
		reply, err := r.agent.Run(ctx, text)
		if err != nil {
			err = domain.Unavailable(domain.CollaboratorAgent, err)
			log.Warn("agent failed, using static recommendation", "attempt", out.Attempts, "error", err)
			out.Recommendation = r.Static(req.Mood)
			return out
		}

		switch res := Parse(reply).(type) {
		case Parsed:
			log.Info("agent recommendation resolved",
				"attempt", out.Attempts,
				"elapsed_ms", time.Since(start).Milliseconds())
			out.Recommendation = domain.Recommendation{
				Drink:  res.Drink,
				Vibe:   res.Vibe,
				Source: domain.SourceAgent,
			}
			return out
		case Unparsed:
			log.Warn("agent reply not usable", "attempt", out.Attempts, "reason", res.Err.Reason)
		}
	}

	log.Info("falling back to static recommendation", "attempts", out.Attempts)
	out.Recommendation = r.Static(req.Mood)
	return out
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
