package templates

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompiler struct {
	out string
	err error
	in  string
}

func (c *fakeCompiler) Precompile(ctx context.Context, source string) (string, error) {
	c.in = source
	return c.out, c.err
}

func TestModule(t *testing.T) {
	result := Module("app/templates/index.hbs", `{"compiled":true}`)

	assert.Equal(t, "import Ember from 'ember';\n"+
		`export default Ember.Handlebars.template({"compiled":true});`+"\n"+
		"__SERVER_FILE_PATH__=app/templates/index.js", result)
}

func TestModuleReplacesFirstExtensionOnly(t *testing.T) {
	result := Module("app/x.hbs/y.hbs", "spec")
	assert.Contains(t, result, FilePathSplitter+"app/x.js/y.hbs")
}

func TestCompile(t *testing.T) {
	compiler := &fakeCompiler{out: "spec"}

	result, err := Compile(context.Background(), compiler, "app/templates/a.hbs", "<p>{{name}}</p>")
	require.NoError(t, err)
	assert.Equal(t, "<p>{{name}}</p>", compiler.in)
	assert.Equal(t, Module("app/templates/a.hbs", "spec"), result)

	compiler.err = eris.New("Parse error on line 1")
	_, err = Compile(context.Background(), compiler, "app/templates/a.hbs", "{{#if}")
	assert.EqualError(t, err, "Parse error on line 1")
}

func TestNodeCompilerPassesSourceOnStdin(t *testing.T) {
	compiler := &NodeCompiler{
		Script: `read -r line || true; printf 'spec(%s)\n' "$line"`,
	}

	result, err := compiler.Precompile(context.Background(), "<div>{{name}}</div>")
	require.NoError(t, err)
	assert.Equal(t, "spec(<div>{{name}}</div>)", result)
}

func TestNodeCompilerEnvironment(t *testing.T) {
	compiler := &NodeCompiler{
		Node:   "/opt/node/bin/node",
		Module: "my-compiler",
		Dir:    t.TempDir(),
		Script: `printf '%s|%s' "$DEVCADDY_NODE" "$DEVCADDY_TEMPLATE_COMPILER"`,
	}

	result, err := compiler.Precompile(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "/opt/node/bin/node|my-compiler", result)

	compiler = &NodeCompiler{Script: `printf '%s|%s' "$DEVCADDY_NODE" "$DEVCADDY_TEMPLATE_COMPILER"`}
	result, err = compiler.Precompile(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultNode+"|"+DefaultModule, result)
}

func TestNodeCompilerFailure(t *testing.T) {
	compiler := &NodeCompiler{
		Script: `echo "Parse error on line 1" >&2; exit 2`,
	}

	_, err := compiler.Precompile(context.Background(), "{{#if}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Parse error on line 1")
}

func TestNodeCompilerInvalidScript(t *testing.T) {
	compiler := &NodeCompiler{Script: `if then fi (`}

	_, err := compiler.Precompile(context.Background(), "")
	assert.Error(t, err)
}
