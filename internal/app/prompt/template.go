// Package prompt renders the text handed to the agent.
package prompt

import (
	"sort"
	"strings"

	"github.com/PabloGalante/whiski-agent/internal/domain"
)

// Placeholder names used by the recommendation templates.
const (
	VarMood     = "mood"
	VarLocation = "location"
	VarWeather  = "weather"
	VarDrink    = "drink"
	VarMessage  = "message"
)

// Vars are the values substituted into a template.
type Vars map[string]string

// Renderer produces a prompt from vars.
type Renderer interface {
	Render(vars Vars) (string, error)
}

// Template is a string with {name} placeholders. Required placeholders must
// appear in the source or Render fails with *domain.TemplateError.
type Template struct {
	name     string
	source   string
	required []string
}

// New builds a template without validating it. Validation happens on Render.
func New(name, source string, required ...string) *Template {
	return &Template{
		name:     name,
		source:   source,
		required: append([]string(nil), required...),
	}
}

// Parse builds a template and fails right away if a required placeholder
// is missing from source.
func Parse(name, source string, required ...string) (*Template, error) {
	t := New(name, source, required...)
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Template) Name() string   { return t.name }
func (t *Template) Source() string { return t.source }

func (t *Template) validate() error {
	var missing []string
	for _, p := range t.required {
		if !strings.Contains(t.source, "{"+p+"}") {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return &domain.TemplateError{Template: t.name, Missing: missing}
	}
	return nil
}

// Render substitutes every {key} of vars. Placeholders without a value are
// left as they are.
func (t *Template) Render(vars Vars) (string, error) {
	if err := t.validate(); err != nil {
		return "", err
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(t.source), nil
}
