package cmd

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/CapyTheBeara/devcaddy/pkg"
	"github.com/CapyTheBeara/devcaddy/pkg/environment"
	"github.com/CapyTheBeara/devcaddy/pkg/index"
)

func newInjectIndexCmd() *cobra.Command {
	injectIndexCmd := &cobra.Command{
		Use:   "inject-index file_name [file_content]",
		Short: "Fills the BASE_TAG and ENV placeholders of an index page",
		Long: `Reads the index page (from file_content or, if omitted, from file_name), replaces
{{BASE_TAG}} with a <base> element derived from the environment's baseURL and {{ENV}} with the
environment encoded as JSON. The environment is read from --env-config or the first
config/environment.{star,yml,yaml,json} found above the working directory.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := settings(ctx)

			strict, err := cmd.Flags().GetBool("strict")
			if err != nil {
				return err
			}

			tmpl, err := pkg.ReadInput(args[0], args[1:])
			if err != nil {
				return err
			}

			envFile := cfg.EnvConfig
			if envFile == "" {
				wd, err := os.Getwd()
				if err != nil {
					return eris.Wrap(err, "Failed to determine working directory")
				}

				envFile, err = environment.Find(wd)
				if err != nil {
					return err
				}
			}

			env, err := environment.Load(ctx, envFile, cfg.Environment)
			if err != nil {
				return err
			}

			result, err := index.Inject(tmpl, env, strict)
			if err != nil {
				return eris.Wrapf(err, "Failed to process %s", args[0])
			}

			pkg.Log(ctx).Info().
				Str("step", cmd.Name()).
				Str("path", args[0]).
				Msg("Injected environment")

			_, err = fmt.Fprintln(cmd.OutOrStdout(), result)
			return err
		},
	}

	injectIndexCmd.Flags().Bool("strict", false, "fail if a placeholder is missing from the page")
	return injectIndexCmd
}
