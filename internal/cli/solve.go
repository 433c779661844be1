package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bilateral/pkg/cover"
	"github.com/matzehuels/bilateral/pkg/input"
	"github.com/matzehuels/bilateral/pkg/pipeline"
	"github.com/matzehuels/bilateral/pkg/store"
	"github.com/matzehuels/bilateral/pkg/team"
)

// solveFlags are the search flags shared by solve, render and explore.
// Unset flags fall back to the loaded configuration.
type solveFlags struct {
	friend      int
	maxTeams    int
	maxFrontier int
	workers     int
	timeout     time.Duration
	raw         bool
	refresh     bool
	noCache     bool
	quiet       bool
}

func (f *solveFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.friend, "friend", int(cover.DefaultFriend), "employee preferred among equally small covers")
	cmd.Flags().IntVar(&f.maxTeams, "max-teams", 0, "refuse datasets with more teams (0 = no limit)")
	cmd.Flags().IntVar(&f.maxFrontier, "max-frontier", cover.DefaultMaxFrontier, "abort when more candidate covers are live (-1 = no limit)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "goroutines expanding each step (0 or 1 = sequential)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", pipeline.DefaultTimeout, "give up after this long")
	cmd.Flags().BoolVar(&f.raw, "raw", false, "keep every choice path instead of merging equal sets")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "hide the progress spinner")
}

// options merges explicitly set flags over the configured defaults.
func (f *solveFlags) options(cmd *cobra.Command, c *CLI) pipeline.Options {
	opts := c.settings().PipelineOptions()
	changed := cmd.Flags().Changed
	if changed("friend") {
		opts.Friend = team.ID(f.friend)
	}
	if changed("max-teams") {
		opts.MaxTeams = f.maxTeams
	}
	if changed("max-frontier") {
		opts.MaxFrontier = f.maxFrontier
	}
	if changed("workers") {
		opts.Workers = f.workers
	}
	if changed("timeout") {
		opts.Timeout = f.timeout
	}
	opts.Raw = f.raw
	opts.Refresh = f.refresh
	opts.Logger = c.Logger
	return opts
}

type solveOpts struct {
	solveFlags
	format string
	output string
	save   bool
}

func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "Find the preferred minimum cover of a dataset",
		Long: `Find a smallest set of employees covering every team.

The dataset is read from file, or from stdin when file is "-" or omitted.
Files ending in .json use the {"teams": [[s, l], ...], "friend": id} form.

Examples:
  bilateral solve teams.txt
  bilateral solve --friend 1002 -f json teams.txt
  bilateral generate --teams 50 | bilateral solve`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			return c.runSolve(cmd, argOrStdin(args), &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.FormatText, "output format: text, json, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "archive the result (see 'bilateral history')")

	return cmd
}

func argOrStdin(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

func (c *CLI) runSolve(cmd *cobra.Command, path string, opts *solveOpts) error {
	ctx := cmd.Context()
	p, res, runner, err := c.solve(cmd, path, &opts.solveFlags)
	if err != nil {
		return err
	}
	defer runner.Close()

	if opts.save {
		if err := saveRecord(ctx, p, res); err != nil {
			return err
		}
	}

	data, err := runner.WriteResult(ctx, p, res, opts.format)
	if err != nil {
		return err
	}
	return writeOutput(cmd, opts.output, data)
}

// solve loads the dataset and runs the pipeline with a spinner. The caller
// closes the returned runner.
func (c *CLI) solve(cmd *cobra.Command, path string, flags *solveFlags) (*team.Projects, *pipeline.Result, *pipeline.Runner, error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	p, bodyFriend, err := readDataset(cmd.InOrStdin(), path)
	if err != nil {
		return nil, nil, nil, err
	}
	opts := flags.options(cmd, c)
	if bodyFriend != nil && !cmd.Flags().Changed("friend") {
		opts.Friend = *bodyFriend
	}
	logger.Debug("dataset loaded", "path", path, "teams", p.Len(), "employees", len(p.Employees()))

	var spin *Spinner
	if !flags.quiet {
		spin = newSpinnerWithContext(ctx, fmt.Sprintf("Solving %d teams...", p.Len()))
		opts.OnStep = func(s cover.StepInfo) {
			spin.SetMessage(fmt.Sprintf("Solving team %d/%d (%d candidates)", s.Step, s.Total, s.Frontier))
		}
		spin.Start()
	}

	prog := newProgress(logger)
	runner := c.newRunner(ctx, flags.noCache)
	res, err := runner.Solve(ctx, p, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		runner.Close()
		return nil, nil, nil, err
	}

	status := iconFresh
	if res.CacheHit {
		status = iconCached
	}
	prog.done(fmt.Sprintf("Solved %d teams: %d employees, %s", p.Len(), res.MinSize, status))
	return p, res, runner, nil
}

// readDataset reads path, or r when path is "-". A .json suffix selects the
// JSON form, which may also carry a friend.
func readDataset(r io.Reader, path string) (*team.Projects, *team.ID, error) {
	if path == "-" {
		p, err := input.Parse(r)
		if err != nil {
			return nil, nil, fmt.Errorf("stdin: %w", err)
		}
		return p, nil, nil
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		p, friend, err := input.ReadJSON(f)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		return p, friend, nil
	}
	p, err := input.ParseFile(path)
	return p, nil, err
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	printSuccess("Wrote %s", path)
	return nil
}

func saveRecord(ctx context.Context, p *team.Projects, res *pipeline.Result) error {
	st, err := historyStore()
	if err != nil {
		return err
	}
	defer st.Close()

	rec := store.NewRecord(p, *res)
	if err := st.Save(ctx, rec); err != nil {
		return err
	}
	loggerFromContext(ctx).Info("Archived solve", "id", rec.ID)
	return nil
}
