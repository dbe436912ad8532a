package prompt_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/whiski-agent/internal/app/prompt"
	"github.com/PabloGalante/whiski-agent/internal/domain"
)

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	tpl := prompt.NewTaskTemplate()

	out, err := tpl.Render(prompt.Vars{
		prompt.VarMood:     "cozy",
		prompt.VarLocation: "Queens, NY",
		prompt.VarWeather:  "12°C",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "feeling cozy")
	assert.Contains(t, out, "located in Queens, NY")
	assert.Contains(t, out, "Current weather: 12°C.")
	assert.NotContains(t, out, "{mood}")
}

func TestRenderFailsOnMissingPlaceholder(t *testing.T) {
	tpl := prompt.New("broken", "Feeling {mood} today", prompt.RecommendationVars...)

	_, err := tpl.Render(prompt.Vars{prompt.VarMood: "chill"})

	var te *domain.TemplateError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "broken", te.Template)
	assert.Equal(t, []string{prompt.VarLocation, prompt.VarWeather}, te.Missing)
}

func TestParseValidatesUpFront(t *testing.T) {
	_, err := prompt.Parse("task", "no placeholders", prompt.VarMood)
	require.Error(t, err)

	tpl, err := prompt.Parse("task", "{mood}", prompt.VarMood)
	require.NoError(t, err)
	assert.Equal(t, "task", tpl.Name())
}

func TestBuiltInTemplatesAreValid(t *testing.T) {
	vars := prompt.Vars{
		prompt.VarMood: "m", prompt.VarLocation: "l", prompt.VarWeather: "w",
		prompt.VarDrink: "d", prompt.VarMessage: "hello",
	}
	for _, tpl := range []*prompt.Template{
		prompt.NewTaskTemplate(),
		prompt.NewDirectiveTemplate(),
		prompt.NewChatTemplate(),
	} {
		_, err := tpl.Render(vars)
		assert.NoError(t, err, tpl.Name())
	}
}

func TestFileTemplateReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task.txt")
	require.NoError(t, os.WriteFile(path, []byte("A {mood} drink in {location} ({weather})"), 0o644))

	ft, err := prompt.LoadFile("task", path, prompt.RecommendationVars...)
	require.NoError(t, err)

	vars := prompt.Vars{prompt.VarMood: "chill", prompt.VarLocation: "Brooklyn", prompt.VarWeather: "sunny"}
	out, err := ft.Render(vars)
	require.NoError(t, err)
	assert.Equal(t, "A chill drink in Brooklyn (sunny)", out)

	require.NoError(t, os.WriteFile(path, []byte("Only {mood}"), 0o644))
	require.NoError(t, ft.Reload())

	_, err = ft.Render(vars)
	var te *domain.TemplateError
	assert.True(t, errors.As(err, &te), "invalid reload surfaces a TemplateError")
}

func TestLoadFileRejectsInvalidTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task.txt")
	require.NoError(t, os.WriteFile(path, []byte("nothing"), 0o644))

	_, err := prompt.LoadFile("task", path, prompt.VarMood)
	require.Error(t, err)
}

func TestFileTemplateWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task.txt")
	require.NoError(t, os.WriteFile(path, []byte("v1 {mood}"), 0o644))

	ft, err := prompt.LoadFile("task", path, prompt.VarMood)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, ft.Watch(ctx))

	require.NoError(t, os.WriteFile(path, []byte("v2 {mood}"), 0o644))

	assert.Eventually(t, func() bool {
		out, err := ft.Render(prompt.Vars{prompt.VarMood: "cozy"})
		return err == nil && out == "v2 cozy"
	}, 3*time.Second, 20*time.Millisecond)
}
