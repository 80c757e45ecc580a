package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/CapyTheBeara/devcaddy/pkg"
	"github.com/CapyTheBeara/devcaddy/pkg/transpile"
)

func newTranspileModuleCmd() *cobra.Command {
	transpileModuleCmd := &cobra.Command{
		Use:   "transpile-module file_name [file_content]",
		Short: "Converts an ES6 module into a named AMD module",
		Long: `The module is named after the file's path below the app directory, prefixed with
the project name (the name of the working directory unless --project is passed). The result is
wrapped in eval() with a sourceURL so that it shows up in the browser's dev tools.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := settings(ctx)

			source, err := pkg.ReadInput(args[0], args[1:])
			if err != nil {
				return err
			}

			project := cfg.Module.Project
			if project == "" {
				wd, err := os.Getwd()
				if err != nil {
					return eris.Wrap(err, "Failed to determine working directory")
				}
				project = filepath.Base(wd)
			}

			moduleName, err := transpile.ModuleName(project, args[0], cfg.Module.AppDir)
			if err != nil {
				return err
			}

			var transpiler transpile.Transpiler = transpile.AMDTranspiler{}
			result, err := transpiler.Transpile(source, moduleName)
			if err != nil {
				return err
			}

			pkg.Log(ctx).Info().
				Str("step", cmd.Name()).
				Str("path", args[0]).
				Str("module", moduleName).
				Msg("Transpiled module")

			_, err = fmt.Fprint(cmd.OutOrStdout(), transpile.WrapInEval(result, moduleName+".js"))
			return err
		},
	}

	flags := transpileModuleCmd.Flags()
	flags.String("project", "", "module name prefix (default: name of the working directory)")
	flags.String("app-dir", "", "directory whose files are addressable as modules (default: app)")
	return transpileModuleCmd
}
