package recommend_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/PabloGalante/whiski-agent/internal/app/drinks"
	"github.com/PabloGalante/whiski-agent/internal/app/prompt"
	"github.com/PabloGalante/whiski-agent/internal/app/recommend"
	"github.com/PabloGalante/whiski-agent/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type step struct {
	reply string
	err   error
}

// scriptedAgent replays steps in order and records every prompt it saw.
type scriptedAgent struct {
	mu      sync.Mutex
	steps   []step
	prompts []string
}

func (a *scriptedAgent) Run(_ context.Context, p string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.prompts = append(a.prompts, p)
	if len(a.prompts) > len(a.steps) {
		return "", errors.New("script exhausted")
	}
	s := a.steps[len(a.prompts)-1]
	return s.reply, s.err
}

const goodReply = "**Drink:** Cold brew matcha with honey **Vibe:** A breezy rooftop terrace with string lights and quiet chatter."

func TestResolveStaticOnly(t *testing.T) {
	r := recommend.NewResolver(nil)

	out := r.Resolve(context.Background(), recommend.Request{Mood: "chill"})
	assert.Equal(t, "Iced matcha latte with oat milk", out.Drink)
	assert.NotEmpty(t, out.Vibe)
	assert.Equal(t, domain.SourceStatic, out.Source)
	assert.Zero(t, out.Attempts)

	out = r.Resolve(context.Background(), recommend.Request{Mood: "unknown_value"})
	assert.Equal(t, drinks.FallbackDrink, out.Drink)
	assert.NotEmpty(t, out.Vibe)
}

func TestResolveAgentFirstAttempt(t *testing.T) {
	agent := &scriptedAgent{steps: []step{{reply: goodReply}}}
	r := recommend.NewResolver(nil, recommend.WithAgent(agent))

	out := r.Resolve(context.Background(), recommend.Request{
		Mood: "energized", Location: "Brooklyn, NY", Weather: "24°C",
	})

	assert.Equal(t, "Cold brew matcha with honey", out.Drink)
	assert.Equal(t, "A breezy rooftop terrace with string lights and quiet chatter.", out.Vibe)
	assert.Equal(t, domain.SourceAgent, out.Source)
	assert.Equal(t, 1, out.Attempts)
	require.Len(t, agent.prompts, 1)
	assert.Contains(t, agent.prompts[0], "feeling energized")
	assert.Contains(t, agent.prompts[0], "Brooklyn, NY")
	assert.Contains(t, agent.prompts[0], "24°C")
}

func TestResolveRetriesOnceWithDirectivePrompt(t *testing.T) {
	agent := &scriptedAgent{steps: []step{
		{reply: "Matcha is lovely! Would you like another mood?"},
		{reply: goodReply},
	}}
	r := recommend.NewResolver(nil, recommend.WithAgent(agent))

	out := r.Resolve(context.Background(), recommend.Request{Mood: "cozy", Location: "Queens, NY"})

	assert.Equal(t, domain.SourceAgent, out.Source)
	assert.Equal(t, 2, out.Attempts)
	require.Len(t, agent.prompts, 2)
	assert.True(t, strings.HasPrefix(agent.prompts[1], "Answer with exactly two lines"))
	assert.Contains(t, agent.prompts[1], "unknown", "missing weather is filled in")
}

func TestResolveFallsBackAfterTwoMisses(t *testing.T) {
	agent := &scriptedAgent{steps: []step{
		{reply: "Hi there! How can I help?"},
		{reply: "Drink: Matcha\nVibe: Nice."},
		{reply: goodReply},
	}}
	r := recommend.NewResolver(nil, recommend.WithAgent(agent))

	out := r.Resolve(context.Background(), recommend.Request{Mood: "anxious"})

	assert.Equal(t, "Warm hojicha tea – calming and low caffeine", out.Drink)
	assert.Equal(t, domain.SourceStatic, out.Source)
	assert.Equal(t, 2, out.Attempts)
	assert.Len(t, agent.prompts, 2, "never more than one retry")
	assert.Empty(t, out.Notice)
}

func TestResolveNeverReturnsDeflectionAsVibe(t *testing.T) {
	deflecting := "**Drink:** Iced matcha latte with oat milk **Vibe:** Would you like to try another mood?"
	agent := &scriptedAgent{steps: []step{{reply: deflecting}, {reply: deflecting}}}
	r := recommend.NewResolver(nil, recommend.WithAgent(agent))

	out := r.Resolve(context.Background(), recommend.Request{Mood: "creative"})

	assert.False(t, recommend.IsDeflection(out.Vibe))
	assert.Equal(t, "Matcha with lavender or rose syrup", out.Drink)
	assert.Equal(t, domain.SourceStatic, out.Source)
}

func TestResolveAgentErrorFallsBack(t *testing.T) {
	agent := &scriptedAgent{steps: []step{{err: errors.New("deadline exceeded")}}}
	r := recommend.NewResolver(nil, recommend.WithAgent(agent))

	out := r.Resolve(context.Background(), recommend.Request{Mood: "reflective"})

	assert.Equal(t, "Hot matcha latte with almond milk", out.Drink)
	assert.Equal(t, domain.SourceStatic, out.Source)
	assert.Equal(t, 1, out.Attempts)
}

func TestResolveBrokenTemplateSetsNotice(t *testing.T) {
	agent := &scriptedAgent{steps: []step{{reply: goodReply}}}
	broken := prompt.New("broken", "Feeling {mood}", prompt.RecommendationVars...)
	r := recommend.NewResolver(nil,
		recommend.WithAgent(agent),
		recommend.WithTemplates(broken, nil),
	)

	out := r.Resolve(context.Background(), recommend.Request{Mood: "chill", Location: "Manhattan, NY"})

	assert.Equal(t, recommend.NoticeUnavailable, out.Notice)
	assert.Equal(t, "Iced matcha latte with oat milk", out.Drink)
	assert.Zero(t, out.Attempts)
	assert.Empty(t, agent.prompts)
}
