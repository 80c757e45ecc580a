package config

import (
	"os"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigtoml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/CapyTheBeara/devcaddy/pkg/styles"
)

// FileName is the optional configuration file read from the working directory.
const FileName = "devcaddy-steps.toml"

// Config describes all configuration options
type Config struct {
	Environment string `default:"development" usage:"Name of the environment passed to the environment config"`
	EnvConfig   string `usage:"Environment config file (.star, .yml, .yaml or .json); searched in config/ when empty"`
	Log         struct {
		Level string `default:"warn"`
		JSON  bool   `default:"false" usage:"Output JSONND instead of pretty console messages"`
	}
	Template struct {
		Node     string `default:"node" usage:"node binary used to run the template compiler"`
		Compiler string `default:"ember-template-compiler" usage:"Module exporting precompile()"`
		Command  string `usage:"Shell script replacing the node invocation; reads the template from stdin"`
	}
	Module struct {
		Project string `usage:"Module prefix; defaults to the name of the working directory"`
		AppDir  string `default:"app" usage:"Directory whose files are addressable as modules"`
	}
	Style struct {
		Output string `default:"nested" usage:"SCSS output style (nested, expanded, compact or compressed)"`
		Brotli bool   `default:"false" usage:"Also write a brotli compressed copy of the CSS"`
	}
}

var logLevels = map[string]zerolog.Level{
	"trace":   zerolog.TraceLevel,
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
}

// Loader initializes an empty config object and returns a new Loader for this object.
// Values come from the defaults, devcaddy-steps.toml (if present) and DEVCADDY_* variables.
// Command line flags are applied by the caller.
func Loader() (*Config, *aconfig.Loader) {
	cfg := Config{}

	files := []string{}
	if _, err := os.Stat(FileName); err == nil {
		files = append(files, FileName)
	}

	return &cfg, aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags: true,
		EnvPrefix: "DEVCADDY",
		// DEVCADDY_DEBUG is read by the console writer
		AllowUnknownEnvs: true,
		Files:            files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".toml": aconfigtoml.New(),
		},
	})
}

// Load runs the Loader and validates the result.
func Load() (*Config, error) {
	cfg, loader := Loader()
	err := loader.Load()
	if err != nil {
		return nil, eris.Wrap(err, "Failed to load config")
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate verifies that all config fields have valid values
func (cfg *Config) Validate() error {
	_, ok := logLevels[cfg.Log.Level]
	if !ok {
		return eris.Errorf(`Invalid value for log.level: %s`, cfg.Log.Level)
	}

	err := styles.ValidateStyle(cfg.Style.Output)
	if err != nil {
		return eris.Wrap(err, `Invalid value for style.output`)
	}

	if cfg.Environment == "" {
		return eris.New(`Invalid value for environment: must not be empty`)
	}

	return nil
}

// LogLevel converts the .Log.Level field to a zerolog.Level
func (cfg *Config) LogLevel() zerolog.Level {
	return logLevels[cfg.Log.Level]
}
