package recommend

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PabloGalante/whiski-agent/internal/domain"
)

// minSectionLen is the shortest drink or vibe text taken as a real answer.
const minSectionLen = 10

// Result is the outcome of parsing an agent reply: either Parsed or Unparsed.
type Result interface {
	isResult()
}

// Parsed holds both sections of a usable reply.
type Parsed struct {
	Drink string
	Vibe  string
}

// Unparsed keeps the raw reply and why it was rejected.
type Unparsed struct {
	Raw string
	Err *domain.RecommendationParseError
}

func (Parsed) isResult()   {}
func (Unparsed) isResult() {}

// labelRe matches a "Drink:" or "Vibe:" label. A label either starts a line,
// optionally after a list marker and markdown emphasis ("Drink:",
// "- **Drink:**", "1. __The Vibe:__"), or sits inline right after emphasis
// ("... **Vibe:** ..."). A bare "drink:" inside prose is not a label.
// The match never reaches into the text of the previous section.
var labelRe = regexp.MustCompile(`(?im)` +
	`(?:^[ \t]*(?:(?:[-+>•]|\*|\d+[.)])[ \t]+)?[*_]*|[*_]+)` +
	`[ \t]*(?:the[ \t]+)?(drink|vibe)[ \t]*[*_]*[ \t]*:[*_ \t]*`)

// deflections are phrases of a conversational reply that did not answer.
var deflections = []string{
	"would you like",
	"another mood",
	"do you want",
	"let me know",
	"how can i help",
	"what can i do",
	"could you tell me",
	"can you tell me",
	"only able to help",
	"please try again",
}

// Parse extracts the drink and vibe sections from reply. The labels may be
// wrapped in markdown emphasis and may come in either order.
func Parse(reply string) Result {
	matches := labelRe.FindAllStringSubmatchIndex(reply, -1)
	if len(matches) == 0 {
		return unparsed(reply, "no drink or vibe label")
	}

	sections := make(map[string]string, 2)
	for i, m := range matches {
		label := strings.ToLower(reply[m[2]:m[3]])
		if _, seen := sections[label]; seen {
			return unparsed(reply, "repeated "+label+" label")
		}
		end := len(reply)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections[label] = reply[m[1]:end]
	}

	drinkRaw, okDrink := sections["drink"]
	vibeRaw, okVibe := sections["vibe"]
	switch {
	case !okDrink:
		return unparsed(reply, "missing drink section")
	case !okVibe:
		return unparsed(reply, "missing vibe section")
	}

	drink := firstLine(drinkRaw)
	vibe := firstParagraph(vibeRaw)

	if reason := reject(drink); reason != "" {
		return unparsed(reply, "drink "+reason)
	}
	if reason := reject(vibe); reason != "" {
		return unparsed(reply, "vibe "+reason)
	}
	return Parsed{Drink: drink, Vibe: vibe}
}

func unparsed(raw, reason string) Unparsed {
	return Unparsed{Raw: raw, Err: &domain.RecommendationParseError{Reason: reason}}
}

// reject returns why text is not a usable section, or "" when it is.
func reject(text string) string {
	if utf8.RuneCountInString(text) < minSectionLen {
		return "too short"
	}
	if IsDeflection(text) {
		return "is a conversational deflection"
	}
	return ""
}

// IsDeflection reports whether text reads like a question back to the user
// instead of an answer.
func IsDeflection(text string) bool {
	lower := strings.ToLower(text)
	for _, d := range deflections {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if c := clean(line); c != "" {
			return c
		}
	}
	return ""
}

func firstParagraph(s string) string {
	var lines []string
	for _, line := range strings.Split(clean(s), "\n") {
		c := clean(line)
		if c == "" {
			if len(lines) > 0 {
				break
			}
			continue
		}
		lines = append(lines, c)
	}
	return strings.Join(lines, " ")
}

func clean(s string) string {
	return strings.Trim(s, " \t\r\n*_")
}
