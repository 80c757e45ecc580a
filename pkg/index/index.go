// Package index prepares the application's index page: it derives the <base> tag from the
// environment and embeds the environment itself as JSON.
package index

import (
	"github.com/rotisserie/eris"

	"github.com/CapyTheBeara/devcaddy/pkg/environment"
)

const (
	// BaseTagPlaceholder is replaced with the <base> tag (or nothing).
	BaseTagPlaceholder = "BASE_TAG"
	// EnvPlaceholder is replaced with the JSON encoded environment.
	EnvPlaceholder = "ENV"
)

// NormalizeBaseURL turns a configured baseURL into an absolute path with a trailing slash.
// The second result is false when raw isn't a string, i.e. no base URL is configured.
func NormalizeBaseURL(raw interface{}) (string, bool) {
	baseURL, ok := raw.(string)
	if !ok {
		return "", false
	}

	if len(baseURL) == 0 || baseURL[0] != '/' {
		baseURL = "/" + baseURL
	}

	if len(baseURL) > 1 && baseURL[len(baseURL)-1] != '/' {
		baseURL += "/"
	}

	return baseURL, true
}

// BaseTag returns the <base> element for env. Hash and none location types never use one.
// The URL is inserted as is since the environment is trusted.
func BaseTag(env *environment.Config) string {
	locationType, _ := env.Get("locationType")
	if locationType == "hash" || locationType == "none" {
		return ""
	}

	raw, _ := env.Get("baseURL")
	baseURL, ok := NormalizeBaseURL(raw)
	if !ok || baseURL == "" {
		return ""
	}

	return `<base href="` + baseURL + `" />`
}

// Inject fills the base tag and environment placeholders of an index template.
func Inject(tmpl string, env *environment.Config, strict bool) (string, error) {
	envJSON, err := env.JSON()
	if err != nil {
		return "", err
	}

	result, err := Render(tmpl, []Placeholder{
		{Name: BaseTagPlaceholder, Value: BaseTag(env)},
		{Name: EnvPlaceholder, Value: envJSON},
	}, strict)
	if err != nil {
		return "", eris.Wrap(err, "failed to inject environment")
	}

	return result, nil
}
