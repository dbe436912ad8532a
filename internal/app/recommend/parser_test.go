package recommend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/whiski-agent/internal/app/recommend"
)

func TestParseVariants(t *testing.T) {
	const (
		drink = "Iced matcha latte with oat milk"
		vibe  = "A sunny corner café with soft jazz and big windows."
	)

	cases := map[string]string{
		"inline bold":        "**Drink:** " + drink + " **Vibe:** " + vibe,
		"plain lines":        "Drink: " + drink + "\nVibe: " + vibe,
		"upper case":         "DRINK: " + drink + "\nVIBE: " + vibe,
		"the drink":          "**The Drink:** " + drink + "\n**The Vibe:** " + vibe,
		"colon outside bold": "**Drink**: " + drink + "\n**Vibe**: " + vibe,
		"underscores":        "__Drink:__ " + drink + "\n_Vibe:_ " + vibe,
		"reversed order":     "**Vibe:** " + vibe + "\n\n**Drink:** " + drink,
		"with preamble":      "Here is my pick for you!\n\nDrink: " + drink + "\nVibe: " + vibe + "\n",
		"bullets":            "- **Drink:** " + drink + "\n- **Vibe:** " + vibe,
	}

	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			res := recommend.Parse(reply)

			parsed, ok := res.(recommend.Parsed)
			require.True(t, ok, "got %#v", res)
			assert.Equal(t, drink, parsed.Drink)
			assert.Equal(t, vibe, parsed.Vibe)
		})
	}
}

func TestParseKeepsTrailingPunctuation(t *testing.T) {
	const vibe = "A sunny corner café with soft jazz."

	drinks := []string{
		"Iced matcha latte.",
		"Matcha latte (oat)",
		"Hojicha latte, warm!",
	}

	for _, drink := range drinks {
		t.Run(drink, func(t *testing.T) {
			for _, reply := range []string{
				"**Drink:** " + drink + " **Vibe:** " + vibe,
				"**Vibe:** " + vibe + " **Drink:** " + drink,
				"Drink: " + drink + "\nVibe: " + vibe,
			} {
				parsed, ok := recommend.Parse(reply).(recommend.Parsed)
				require.True(t, ok, reply)
				assert.Equal(t, drink, parsed.Drink, reply)
				assert.Equal(t, vibe, parsed.Vibe, reply)
			}
		})
	}
}

func TestParseIgnoresLabelWordsInProse(t *testing.T) {
	reply := "Drink: Iced matcha latte with oat milk\n" +
		"Vibe: A quiet reading room where your drink: stays warm for hours."

	parsed, ok := recommend.Parse(reply).(recommend.Parsed)
	require.True(t, ok)
	assert.Equal(t, "Iced matcha latte with oat milk", parsed.Drink)
	assert.Equal(t, "A quiet reading room where your drink: stays warm for hours.", parsed.Vibe)
}

func TestParseMultiLineVibeStopsAtBlankLine(t *testing.T) {
	reply := "Drink: Hot matcha latte with almond milk\nVibe: A quiet tea room\nwith old books.\n\nEnjoy!"

	parsed, ok := recommend.Parse(reply).(recommend.Parsed)
	require.True(t, ok)
	assert.Equal(t, "A quiet tea room with old books.", parsed.Vibe)
}

func TestParseMisses(t *testing.T) {
	cases := map[string]string{
		"no labels":       "Matcha is great! Would you like another mood?",
		"missing vibe":    "Drink: Iced matcha latte with oat milk",
		"missing drink":   "Vibe: A sunny corner café with soft jazz.",
		"short drink":     "Drink: Matcha\nVibe: A sunny corner café with soft jazz.",
		"short vibe":      "Drink: Iced matcha latte with oat milk\nVibe: Calm.",
		"deflecting vibe": "**Drink:** Iced matcha latte with oat milk **Vibe:** Would you like another mood?",
		"repeated label": "Drink: Iced matcha latte with oat milk\n" +
			"Vibe: A sunny corner café where\nDrink: a second pick cuts the vibe short.",
		"deflecting drink": "Drink: Let me know which mood you are in first\n" +
			"Vibe: A sunny corner café with soft jazz.",
	}

	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			res := recommend.Parse(reply)

			un, ok := res.(recommend.Unparsed)
			require.True(t, ok, "got %#v", res)
			assert.Equal(t, reply, un.Raw)
			require.NotNil(t, un.Err)
			assert.NotEmpty(t, un.Err.Reason)
		})
	}
}

func TestIsDeflection(t *testing.T) {
	assert.True(t, recommend.IsDeflection("Would you like another mood?"))
	assert.True(t, recommend.IsDeflection("I'm only able to help with matcha related topics."))
	assert.False(t, recommend.IsDeflection("A calm café with soft jazz."))
}
