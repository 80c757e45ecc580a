// Package environment loads the per-environment application configuration that gets embedded
// into the index page. A configuration file is either a Starlark script declaring an
// environment(name) function or a YAML / JSON document keyed by environment name.
package environment

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/CapyTheBeara/devcaddy/pkg"
)

// DefaultName is the environment used when none is requested.
const DefaultName = "development"

// SearchPaths lists the locations Find checks in every directory, in order of preference.
var SearchPaths = []string{
	filepath.Join("config", "environment.star"),
	filepath.Join("config", "environment.yml"),
	filepath.Join("config", "environment.yaml"),
	filepath.Join("config", "environment.json"),
}

// Find returns the first environment file found in dir or one of its parents.
func Find(dir string) (string, error) {
	path, err := pkg.FindUpwards(dir, SearchPaths...)
	if err != nil {
		return "", eris.Wrap(err, "no environment configuration found")
	}
	return path, nil
}

// Load reads the configuration for the environment called name from filename.
func Load(ctx context.Context, filename, name string) (*Config, error) {
	if name == "" {
		name = DefaultName
	}

	pkg.Log(ctx).Debug().
		Str("path", filename).
		Str("environment", name).
		Msg("Loading environment")

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".star":
		return loadStarlark(ctx, filename, name)
	case ".yml", ".yaml", ".json":
		data, err := ioutil.ReadFile(filename)
		if err != nil {
			return nil, eris.Wrapf(err, "failed to read %s", filename)
		}

		if ext == ".json" {
			return loadJSON(data, filename, name)
		}
		return loadYAML(data, filename, name)
	}

	return nil, eris.Wrapf(ErrUnknownFormat, "%s (expected .star, .yml, .yaml or .json)", filename)
}
