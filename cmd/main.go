package cmd

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/CapyTheBeara/devcaddy/pkg"
	"github.com/CapyTheBeara/devcaddy/pkg/config"
)

type settingsKey struct{}

// NewRootCmd builds the command tree. Every invocation gets a fresh tree so flag values never
// leak between runs.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "devcaddy-steps",
		Short: "Build steps for devcaddy",
		Long: `This command bundles the per-file build steps devcaddy runs while serving an app.
This includes the index injector, the template precompiler, the module transpiler and the
SCSS compiler. Each step reads "<file name> [file content]" and prints the result.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("environment", "e", "", "environment passed to the environment config (default: development)")
	flags.String("env-config", "", "environment config file; searched in config/ when empty")
	flags.String("log-level", "", "log level (trace, debug, info, warn, error)")
	flags.Bool("log-json", false, "output JSON lines instead of pretty console messages")

	rootCmd.AddCommand(
		newInjectIndexCmd(),
		newCompileTemplateCmd(),
		newTranspileModuleCmd(),
		newCompileStyleCmd(),
	)
	return rootCmd
}

// Execute runs the CLI and exits with a non-zero status on failure.
func Execute() {
	cobra.CheckErr(NewRootCmd().Execute())
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	err = applyFlags(cmd, cfg)
	if err != nil {
		return err
	}

	err = cfg.Validate()
	if err != nil {
		return err
	}

	logger := newLogger(cfg, cmd.ErrOrStderr())
	ctx := pkg.WithLogger(cmd.Context(), &logger)
	ctx = context.WithValue(ctx, settingsKey{}, cfg)
	cmd.SetContext(ctx)

	logger.Debug().
		Str("step", cmd.Name()).
		Str("environment", cfg.Environment).
		Msg("Configuration loaded")
	return nil
}

// applyFlags overrides config values with the flags that were explicitly passed.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	stringFlags := map[string]*string{
		"environment": &cfg.Environment,
		"env-config":  &cfg.EnvConfig,
		"log-level":   &cfg.Log.Level,
		"node":        &cfg.Template.Node,
		"compiler":    &cfg.Template.Compiler,
		"command":     &cfg.Template.Command,
		"project":     &cfg.Module.Project,
		"app-dir":     &cfg.Module.AppDir,
		"style":       &cfg.Style.Output,
	}
	boolFlags := map[string]*bool{
		"log-json": &cfg.Log.JSON,
		"brotli":   &cfg.Style.Brotli,
	}

	flags := cmd.Flags()
	for name, target := range stringFlags {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}

		value, err := flags.GetString(name)
		if err != nil {
			return eris.Wrapf(err, "failed to read flag %s", name)
		}
		*target = value
	}

	for name, target := range boolFlags {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}

		value, err := flags.GetBool(name)
		if err != nil {
			return eris.Wrapf(err, "failed to read flag %s", name)
		}
		*target = value
	}

	return nil
}

func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	var logger zerolog.Logger
	if cfg.Log.JSON {
		logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(NewConsoleWriter(out))
	}

	return logger.Level(cfg.LogLevel())
}

func settings(ctx context.Context) *config.Config {
	return ctx.Value(settingsKey{}).(*config.Config)
}
