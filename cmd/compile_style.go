package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CapyTheBeara/devcaddy/pkg"
	"github.com/CapyTheBeara/devcaddy/pkg/styles"
)

func newCompileStyleCmd() *cobra.Command {
	compileStyleCmd := &cobra.Command{
		Use:   "compile-style include_paths out_file file_name [file_content]",
		Short: "Compiles SCSS into a CSS file",
		Long: `include_paths is a comma separated list of directories searched by @import. The CSS is
written to out_file ("-" prints it instead). SCSS errors are reported on stderr with a "Sass: "
prefix and don't change the exit code.`,
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := settings(ctx)
			outFile := args[1]

			source, err := pkg.ReadInput(args[2], args[3:])
			if err != nil {
				return err
			}

			css := bytes.Buffer{}
			err = styles.Compile(&css, source, styles.Options{
				IncludePaths: styles.SplitIncludePaths(args[0]),
				Style:        cfg.Style.Output,
			})
			if err != nil {
				pkg.Log(ctx).Debug().
					Str("step", cmd.Name()).
					Str("path", args[2]).
					Err(err).
					Msg("SCSS compilation failed")

				fmt.Fprint(cmd.ErrOrStderr(), "Sass: "+err.Error())
				return nil
			}

			if outFile == "-" {
				_, err = cmd.OutOrStdout().Write(css.Bytes())
				return err
			}

			err = pkg.WriteFileAtomic(outFile, css.Bytes(), 0644)
			if err != nil {
				return err
			}

			if cfg.Style.Brotli {
				err = pkg.WriteBrotli(outFile, css.Bytes())
				if err != nil {
					return err
				}
			}

			pkg.Log(ctx).Info().
				Str("step", cmd.Name()).
				Str("path", outFile).
				Int("size", css.Len()).
				Msg("Wrote stylesheet")
			return nil
		},
	}

	flags := compileStyleCmd.Flags()
	flags.String("style", "", "output style: nested, expanded, compact or compressed (default: nested)")
	flags.Bool("brotli", false, "also write a brotli compressed copy to out_file.br")
	return compileStyleCmd
}
