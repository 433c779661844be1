package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bilateral/pkg/pipeline"
)

type renderOpts struct {
	solveFlags
	format string
	output string
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw the project graph with the chosen cover highlighted",
		Long: `Draw every employee as a node, grouped by office, with one edge per team.
Cover members are filled, the friend gets a red outline.

SVG output is rendered with an embedded Graphviz; dot output can be fed
to any Graphviz installation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != pipeline.FormatDOT && opts.format != pipeline.FormatSVG {
				return fmt.Errorf("invalid render format %q (must be one of: %s)",
					opts.format, strings.Join(pipeline.ArtifactFormats, ", "))
			}
			return c.runRender(cmd, argOrStdin(args), &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.FormatSVG, "output format: svg, dot")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <input>.<format>, stdout for stdin)")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts *renderOpts) error {
	ctx := cmd.Context()
	p, res, runner, err := c.solve(cmd, path, &opts.solveFlags)
	if err != nil {
		return err
	}
	defer runner.Close()

	data, cached, err := runner.RenderWithCacheInfo(ctx, p, res, opts.format)
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("rendered", "format", opts.format, "bytes", len(data), "cached", cached)

	out := opts.output
	if out == "" && path != "-" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + "." + opts.format
	}
	return writeOutput(cmd, out, data)
}
