package cli

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bilateral/pkg/cover"
	"github.com/matzehuels/bilateral/pkg/input"
	"github.com/matzehuels/bilateral/pkg/team"
)

const (
	genFormatText   = "text"
	genFormatProlog = "prolog"
)

type generateOpts struct {
	input.GenerateOptions
	friend   int
	seed     uint64
	format   string
	output   string
	autoName bool
}

func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{
		GenerateOptions: input.GenerateOptions{Teams: 20, StockholmPool: 10, LondonPool: 10},
		friend:          int(cover.DefaultFriend),
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random dataset",
		Long: `Write a random dataset in the solve input format.

Teams pair a random Stockholm employee with a random London employee drawn
from pools of the given sizes. Duplicate pairs are dropped, so the written
count may be lower than --teams. The first --friend-teams teams are staffed
with the friend.

Examples:
  bilateral generate --teams 100 --stockholm-pool 20 --london-pool 10
  bilateral generate --teams 30 --friend-teams 3 --name
  bilateral generate --format prolog --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, &opts)
		},
	}

	cmd.Flags().IntVar(&opts.Teams, "teams", opts.Teams, "teams to draw")
	cmd.Flags().IntVar(&opts.StockholmPool, "stockholm-pool", opts.StockholmPool, "distinct Stockholm employees")
	cmd.Flags().IntVar(&opts.LondonPool, "london-pool", opts.LondonPool, "distinct London employees")
	cmd.Flags().IntVar(&opts.FriendTeams, "friend-teams", 0, "teams that include the friend")
	cmd.Flags().IntVar(&opts.friend, "friend", opts.friend, "the friend's Stockholm ID")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (0 = time based)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", genFormatText, "output format: text, prolog")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.autoName, "name", false, "write to dataset_<teams>_<stockholm>_<london>_<friend>.txt")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, opts *generateOpts) error {
	opts.Friend = team.ID(opts.friend)
	seed := opts.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	teams, err := input.Generate(rng, opts.GenerateOptions)
	if err != nil {
		return err
	}
	loggerFromContext(cmd.Context()).Debug("generated dataset", "teams", len(teams), "seed", seed)

	var buf bytes.Buffer
	switch opts.format {
	case genFormatText:
		err = input.WriteTeams(&buf, teams)
	case genFormatProlog:
		err = input.WriteProlog(&buf, teams)
	default:
		return fmt.Errorf("invalid format %q (must be one of: text, prolog)", opts.format)
	}
	if err != nil {
		return err
	}

	out := opts.output
	if opts.autoName && out == "" {
		out = opts.Filename()
	}
	if err := writeOutput(cmd, out, buf.Bytes()); err != nil {
		return err
	}
	if out != "" && out != "-" {
		printDetail("%d teams, seed %d", len(teams), seed)
		printNextStep("Solve it", "bilateral solve "+out)
	}
	return nil
}
