// Package styles compiles SCSS through libsass.
package styles

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	libsass "github.com/wellington/go-libsass"
)

// ErrUnknownStyle is returned for output style names libsass doesn't know.
var ErrUnknownStyle = eris.New("unknown output style")

var outputStyles = map[string]int{
	"nested":     libsass.NESTED_STYLE,
	"expanded":   libsass.EXPANDED_STYLE,
	"compact":    libsass.COMPACT_STYLE,
	"compressed": libsass.COMPRESSED_STYLE,
}

// Options configures a compilation.
type Options struct {
	// IncludePaths are searched for @import'ed files.
	IncludePaths []string
	// Style is one of nested (default), expanded, compact or compressed.
	Style string
}

// ValidateStyle checks that name is a known output style. An empty name is valid.
func ValidateStyle(name string) error {
	if name == "" {
		return nil
	}

	if _, ok := outputStyles[name]; !ok {
		return eris.Wrapf(ErrUnknownStyle, "%s (must be one of nested, expanded, compact or compressed)", name)
	}
	return nil
}

// SplitIncludePaths splits the comma separated include path argument and drops empty entries.
func SplitIncludePaths(arg string) []string {
	paths := []string{}
	for _, item := range strings.Split(arg, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			paths = append(paths, item)
		}
	}
	return paths
}

// Compile compiles the SCSS in source and writes the resulting CSS to dst.
func Compile(dst io.Writer, source string, opts Options) error {
	err := ValidateStyle(opts.Style)
	if err != nil {
		return err
	}

	style := libsass.NESTED_STYLE
	if opts.Style != "" {
		style = outputStyles[opts.Style]
	}

	compiler, err := libsass.New(dst, strings.NewReader(source),
		libsass.IncludePaths(opts.IncludePaths),
		libsass.OutputStyle(style),
	)
	if err != nil {
		return eris.Wrap(err, "failed to create SCSS compiler")
	}

	return compiler.Run()
}
