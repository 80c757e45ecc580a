// Package transpile converts ES6 modules into named AMD modules that can be loaded by the
// browser's module loader without a bundler.
package transpile

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rotisserie/eris"
)

// ErrNotInAppDir is returned when a file path doesn't point into the application directory.
var ErrNotInAppDir = eris.New("file is not inside the app directory")

// DefaultAppDir is the directory whose contents are addressable as modules.
const DefaultAppDir = "app"

// Transpiler converts ES6 module source into a module registered under moduleName.
type Transpiler interface {
	Transpile(source, moduleName string) (string, error)
}

// ModuleName derives the module id for filePath: the part after the first "<appDir>/" without
// its extension, prefixed with project. "src/app/routes/index.js" in project "blog" becomes
// "blog/routes/index".
func ModuleName(project, filePath, appDir string) (string, error) {
	if appDir == "" {
		appDir = DefaultAppDir
	}

	matcher, err := regexp.Compile(regexp.QuoteMeta(appDir) + `/(.+)\.[^.]+$`)
	if err != nil {
		return "", eris.Wrapf(err, "invalid app directory %s", appDir)
	}

	match := matcher.FindStringSubmatch(filepath.ToSlash(filePath))
	if match == nil {
		return "", eris.Wrapf(ErrNotInAppDir, "%s (app directory %s)", filePath, appDir)
	}

	return path.Join(project, match[1]), nil
}

// AMDTranspiler uses esbuild to rewrite the module syntax to CommonJS and wraps the result in a
// named define() call. Everything but the module syntax is left untouched.
type AMDTranspiler struct{}

// Transpile implements Transpiler.
func (AMDTranspiler) Transpile(source, moduleName string) (string, error) {
	result := api.Transform(source, api.TransformOptions{
		Loader:     api.LoaderJS,
		Format:     api.FormatCommonJS,
		Sourcefile: moduleName + ".js",
	})

	if len(result.Errors) > 0 {
		msgs := api.FormatMessages(result.Errors, api.FormatMessagesOptions{
			Kind: api.ErrorMessage,
		})
		return "", eris.Errorf("failed to transpile %s:\n%s", moduleName, strings.Join(msgs, "\n"))
	}

	return `define("` + JSStringEscape(moduleName) + `", ["require", "exports", "module"], function (require, exports, module) {` +
		"\n" + string(result.Code) + "});\n", nil
}

var jsEscaper = strings.NewReplacer(
	`"`, `\"`,
	`'`, `\'`,
	`\`, `\\`,
	"\n", `\n`,
	"\r", `\r`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// JSStringEscape escapes s for use inside a single or double quoted JS string literal.
func JSStringEscape(s string) string {
	return jsEscaper.Replace(s)
}

// WrapInEval wraps output in an eval() call tagged with a sourceURL so that browser dev tools
// list the module under fileName.
func WrapInEval(output, fileName string) string {
	return `eval("` + JSStringEscape(output) + `//# sourceURL=` + JSStringEscape(fileName) + `");` + "\n"
}
