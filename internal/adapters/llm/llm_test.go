package llm_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/whiski-agent/internal/adapters/llm"
	"github.com/PabloGalante/whiski-agent/internal/app/prompt"
	"github.com/PabloGalante/whiski-agent/internal/app/recommend"
)

func TestMockAgentRecommendationIsParseable(t *testing.T) {
	agent := llm.NewMockAgent(nil)
	text, err := prompt.NewTaskTemplate().Render(prompt.Vars{
		prompt.VarMood: "cozy", prompt.VarLocation: "Queens, NY", prompt.VarWeather: "9°C",
	})
	require.NoError(t, err)

	reply, err := agent.Run(context.Background(), text)
	require.NoError(t, err)

	parsed, ok := recommend.Parse(reply).(recommend.Parsed)
	require.True(t, ok, "reply %q", reply)
	assert.Equal(t, "Warm ceremonial matcha with oat milk", parsed.Drink)
}

func TestMockAgentThroughResolver(t *testing.T) {
	r := recommend.NewResolver(nil, recommend.WithAgent(llm.NewMockAgent(nil)))

	out := r.Resolve(context.Background(), recommend.Request{Mood: "energized", Location: "Brooklyn, NY"})
	assert.Equal(t, "Matcha lemonade – fresh and zesty", out.Drink)
	assert.Equal(t, 1, out.Attempts)
}

func TestMockAgentChat(t *testing.T) {
	text, err := prompt.NewChatTemplate().Render(prompt.Vars{prompt.VarMessage: "is hojicha matcha?"})
	require.NoError(t, err)

	reply, err := llm.NewMockAgent(nil).Run(context.Background(), text)
	require.NoError(t, err)
	assert.Contains(t, reply, `"is hojicha matcha?"`)
}

func TestBuildSystemPrompt(t *testing.T) {
	with := llm.BuildSystemPrompt(true)
	without := llm.BuildSystemPrompt(false)

	assert.Contains(t, with, "get_drink_for_mood")
	assert.NotContains(t, without, "get_drink_for_mood")
	assert.True(t, strings.Contains(without, `"Whiski"`))
}
