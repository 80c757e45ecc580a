package templates

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/CapyTheBeara/devcaddy/pkg"
)

const (
	// DefaultNode is the node binary used when NodeCompiler.Node is empty.
	DefaultNode = "node"
	// DefaultModule is the compiler module used when NodeCompiler.Module is empty.
	DefaultModule = "ember-template-compiler"

	defaultScript = `"$DEVCADDY_NODE" -e "$DEVCADDY_PRECOMPILE"`

	precompileJS = `
var compiler = require(process.env.DEVCADDY_TEMPLATE_COMPILER);
var chunks = [];

process.stdin.setEncoding('utf8');
process.stdin.on('data', function(chunk) { chunks.push(chunk); });
process.stdin.on('end', function() {
    process.stdout.write(compiler.precompile(chunks.join('')).toString());
});`
)

// NodeCompiler precompiles templates by running the template compiler module under node.
// The template is passed on stdin and the compiled spec is read from stdout.
type NodeCompiler struct {
	// Node is the node binary.
	Node string
	// Module is the module passed to require(); it must export precompile().
	Module string
	// Dir is the working directory, usually the project root so that node_modules resolves.
	Dir string
	// Script is the shell program to run. It defaults to invoking node; the variables
	// DEVCADDY_NODE, DEVCADDY_PRECOMPILE and DEVCADDY_TEMPLATE_COMPILER are available.
	Script string
}

// Precompile implements Compiler.
func (c *NodeCompiler) Precompile(ctx context.Context, source string) (string, error) {
	script := c.Script
	if script == "" {
		script = defaultScript
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "precompile")
	if err != nil {
		return "", eris.Wrapf(err, "failed to parse command %s", script)
	}

	stdout := strings.Builder{}
	stderr := strings.Builder{}
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(c.env()...)),
		interp.StdIO(strings.NewReader(source), &stdout, &stderr),
		interp.Params("-e"),
	}
	if c.Dir != "" {
		opts = append(opts, interp.Dir(c.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return "", eris.Wrap(err, "failed to initialize runner")
	}

	pkg.Log(ctx).Debug().
		Str("module", c.module()).
		Str("dir", c.Dir).
		Msg("Running template compiler")

	err = runner.Run(ctx, prog)
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", eris.Wrapf(err, "template compiler failed: %s", msg)
	}

	return strings.TrimRight(stdout.String(), "\r\n"), nil
}

func (c *NodeCompiler) module() string {
	if c.Module == "" {
		return DefaultModule
	}
	return c.Module
}

func (c *NodeCompiler) env() []string {
	node := c.Node
	if node == "" {
		node = DefaultNode
	}

	envVars := os.Environ()
	return append(envVars,
		fmt.Sprintf("DEVCADDY_NODE=%s", node),
		fmt.Sprintf("DEVCADDY_PRECOMPILE=%s", precompileJS),
		fmt.Sprintf("DEVCADDY_TEMPLATE_COMPILER=%s", c.module()),
	)
}
