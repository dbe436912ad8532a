package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PabloGalante/whiski-agent/internal/app/tools"
)

var moodRe = regexp.MustCompile(`(?i)feeling (\w+)`)

// MockAgent answers without a model. Recommendation prompts get a
// parseable Drink/Vibe reply built from the drink tool; anything else gets
// a short canned chat reply.
type MockAgent struct {
	tools *tools.Registry
}

// NewMockAgent returns a mock agent. A nil registry gets the default drink
// tool.
func NewMockAgent(reg *tools.Registry) *MockAgent {
	if reg == nil {
		reg = tools.NewRegistry(tools.NewDrinkTool(nil))
	}
	return &MockAgent{tools: reg}
}

func (m *MockAgent) Run(ctx context.Context, prompt string) (string, error) {
	if !strings.Contains(prompt, "Drink:") {
		return fmt.Sprintf("Whiski here! You said %q. A warm cup of matcha makes everything better.", userMessage(prompt)), nil
	}

	mood := ""
	if match := moodRe.FindStringSubmatch(prompt); match != nil {
		mood = match[1]
	}

	out, err := m.tools.Call(ctx, tools.DrinkToolName, tools.ToolContext{}, map[string]any{"mood": mood})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("**Drink:** %s\n**Vibe:** %s", out["drink"], out["vibe"]), nil
}

func userMessage(prompt string) string {
	for _, line := range strings.Split(prompt, "\n") {
		if msg, ok := strings.CutPrefix(strings.TrimSpace(line), "User message:"); ok {
			return strings.TrimSpace(msg)
		}
	}
	return strings.TrimSpace(prompt)
}
