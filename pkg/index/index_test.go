package index

import (
	"math"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CapyTheBeara/devcaddy/pkg/environment"
)

func newEnv(pairs ...interface{}) *environment.Config {
	env := environment.New()
	for idx := 0; idx+1 < len(pairs); idx += 2 {
		env.Set(pairs[idx].(string), pairs[idx+1])
	}
	return env
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "/"},
		{"/", "/"},
		{"foo", "/foo/"},
		{"/foo", "/foo/"},
		{"/foo/", "/foo/"},
		{"foo/bar", "/foo/bar/"},
		{"//", "//"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, ok := NormalizeBaseURL(tt.input)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNormalizeBaseURLNonString(t *testing.T) {
	for _, input := range []interface{}{nil, 42, int64(1), 1.5, true, []interface{}{"/"}, environment.New()} {
		result, ok := NormalizeBaseURL(input)
		assert.False(t, ok, "%#v", input)
		assert.Empty(t, result)
	}
}

func TestNormalizeBaseURLIdempotent(t *testing.T) {
	check := func(s string) bool {
		once, _ := NormalizeBaseURL(s)
		twice, _ := NormalizeBaseURL(once)
		return once == twice
	}

	require.NoError(t, quick.Check(check, nil))
}

func TestBaseTag(t *testing.T) {
	tests := []struct {
		name     string
		env      *environment.Config
		expected string
	}{
		{"auto", newEnv("baseURL", "/app/", "locationType", "auto"), `<base href="/app/" />`},
		{"hash", newEnv("baseURL", "/app/", "locationType", "hash"), ""},
		{"none", newEnv("baseURL", "/app/", "locationType", "none"), ""},
		{"no baseURL", newEnv("locationType", "auto"), ""},
		{"no locationType", newEnv("baseURL", "app"), `<base href="/app/" />`},
		{"numeric baseURL", newEnv("baseURL", 12, "locationType", "auto"), ""},
		{"empty baseURL", newEnv("baseURL", "", "locationType", "history"), `<base href="/" />`},
		{"not escaped", newEnv("baseURL", `/a"b/`), `<base href="/a"b/" />`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BaseTag(tt.env))
		})
	}
}

func TestInject(t *testing.T) {
	env := newEnv("baseURL", "/x/", "locationType", "auto", "extra", 1)

	result, err := Inject("<html>{{BASE_TAG}}{{ENV}}</html>", env, false)
	require.NoError(t, err)
	assert.Equal(t, `<html><base href="/x/" />{"baseURL":"/x/","locationType":"auto","extra":1}</html>`, result)
}

func TestInjectMissingToken(t *testing.T) {
	env := newEnv("baseURL", "/x/", "locationType", "auto")

	result, err := Inject("<head>{{BASE_TAG}}</head><body></body>", env, false)
	require.NoError(t, err)
	assert.Equal(t, `<head><base href="/x/" /></head><body></body>`, result)

	_, err = Inject("<head>{{BASE_TAG}}</head><body></body>", env, true)
	assert.ErrorIs(t, err, ErrMissingPlaceholder)
}

func TestInjectOnlyFirstOccurrence(t *testing.T) {
	env := newEnv("locationType", "hash")

	result, err := Inject("{{ENV}}|{{ENV}}|{{BASE_TAG}}{{BASE_TAG}}", env, false)
	require.NoError(t, err)
	assert.Equal(t, `{"locationType":"hash"}|{{ENV}}|{{BASE_TAG}}`, result)
}

func TestInjectDoesNotEscapeHTML(t *testing.T) {
	env := newEnv("title", "<b>Tom & Jerry</b>")

	result, err := Inject("{{ENV}}", env, false)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"<b>Tom & Jerry</b>"}`, result)
}

func TestInjectUnserializableEnv(t *testing.T) {
	env := newEnv("ratio", math.NaN())

	_, err := Inject("{{BASE_TAG}}{{ENV}}", env, false)
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	placeholders := []Placeholder{
		{Name: "A", Value: "1"},
		{Name: "B", Value: "$&{{C}}"},
		{Name: "C", Value: "3"},
	}

	result, err := Render("{{A}}-{{B}}", placeholders, false)
	require.NoError(t, err)
	assert.Equal(t, "1-$&3", result)

	_, err = Render("{{A}}", placeholders, true)
	require.ErrorIs(t, err, ErrMissingPlaceholder)
	assert.Contains(t, err.Error(), "{{B}}, {{C}}")
}
