// Package templates precompiles Handlebars templates into ES6 modules. The compilation itself is
// done by the project's template compiler running under node; this package only drives the
// process and wraps its output.
package templates

import (
	"context"
	"strings"
)

// FilePathSplitter separates a plugin's output from the path it should be served under.
const FilePathSplitter = "__SERVER_FILE_PATH__="

// Compiler turns template source into the precompiled template spec (a JS expression).
type Compiler interface {
	Precompile(ctx context.Context, source string) (string, error)
}

// Module wraps a precompiled template into an ES6 module and appends the output path marker.
// The first ".hbs" in path is replaced with ".js".
func Module(path, compiled string) string {
	template := "Ember.Handlebars.template(" + compiled + ");\n"
	es6 := "import Ember from 'ember';\nexport default " + template

	return es6 + FilePathSplitter + strings.Replace(path, ".hbs", ".js", 1)
}

// Compile precompiles source and returns the wrapped module for path.
func Compile(ctx context.Context, compiler Compiler, path, source string) (string, error) {
	compiled, err := compiler.Precompile(ctx, source)
	if err != nil {
		return "", err
	}

	return Module(path, compiled), nil
}
