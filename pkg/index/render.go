package index

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ErrMissingPlaceholder is returned by Render in strict mode.
var ErrMissingPlaceholder = eris.New("placeholder missing from template")

// Placeholder maps the token {{Name}} to Value.
type Placeholder struct {
	Name  string
	Value string
}

// Token returns the literal marker as it appears in templates.
func (p Placeholder) Token() string {
	return "{{" + p.Name + "}}"
}

// Render applies the placeholders in order, each replacing the first occurrence of its token.
// Values are inserted literally. A token missing from the template is skipped unless strict is
// set, in which case all missing tokens are reported.
func Render(tmpl string, placeholders []Placeholder, strict bool) (string, error) {
	missing := []string{}

	for _, p := range placeholders {
		token := p.Token()
		pos := strings.Index(tmpl, token)
		if pos == -1 {
			missing = append(missing, token)
			continue
		}

		tmpl = tmpl[:pos] + p.Value + tmpl[pos+len(token):]
	}

	if strict && len(missing) > 0 {
		return "", eris.Wrapf(ErrMissingPlaceholder, "%s", strings.Join(missing, ", "))
	}

	return tmpl, nil
}
