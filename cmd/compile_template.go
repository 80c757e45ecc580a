package cmd

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/CapyTheBeara/devcaddy/pkg"
	"github.com/CapyTheBeara/devcaddy/pkg/templates"
)

func newCompileTemplateCmd() *cobra.Command {
	compileTemplateCmd := &cobra.Command{
		Use:   "compile-template file_name [file_content]",
		Short: "Precompiles a Handlebars template into an ES6 module",
		Long: `Runs the project's template compiler on the template and prints an ES6 module
exporting the compiled template, followed by the path the module should be served under.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := settings(ctx)

			source, err := pkg.ReadInput(args[0], args[1:])
			if err != nil {
				return err
			}

			wd, err := os.Getwd()
			if err != nil {
				return eris.Wrap(err, "Failed to determine working directory")
			}

			compiler := &templates.NodeCompiler{
				Node:   cfg.Template.Node,
				Module: cfg.Template.Compiler,
				Dir:    wd,
				Script: cfg.Template.Command,
			}

			result, err := templates.Compile(ctx, compiler, args[0], source)
			if err != nil {
				return eris.Wrapf(err, "Failed to compile %s", args[0])
			}

			pkg.Log(ctx).Info().
				Str("step", cmd.Name()).
				Str("path", args[0]).
				Msg("Compiled template")

			_, err = fmt.Fprintln(cmd.OutOrStdout(), result)
			return err
		},
	}

	flags := compileTemplateCmd.Flags()
	flags.String("node", "", "node binary (default: node)")
	flags.String("compiler", "", "module exporting precompile() (default: ember-template-compiler)")
	flags.String("command", "", "shell script used instead of node; receives the template on stdin")
	return compileTemplateCmd
}
