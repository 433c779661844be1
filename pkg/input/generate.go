package input

import (
	"fmt"
	"math/rand/v2"

	errs "github.com/matzehuels/bilateral/pkg/errors"
	"github.com/matzehuels/bilateral/pkg/team"
)

// GenerateOptions controls the shape of a random dataset.
type GenerateOptions struct {
	Teams         int     // teams drawn before duplicates are removed
	StockholmPool int     // distinct Stockholm employees to draw from
	LondonPool    int     // distinct London employees to draw from
	FriendTeams   int     // leading teams staffed with Friend
	Friend        team.ID // must be a Stockholm ID
}

// Filename returns the conventional dataset name for opts,
// e.g. "dataset_100_20_10_0.txt".
func (o GenerateOptions) Filename() string {
	return fmt.Sprintf("dataset_%d_%d_%d_%d.txt", o.Teams, o.StockholmPool, o.LondonPool, o.FriendTeams)
}

func (o GenerateOptions) validate() error {
	b := DefaultBounds()
	if err := errs.ValidateRange("teams", o.Teams, b.MinTeams, b.MaxTeams); err != nil {
		return err
	}
	if err := errs.ValidateRange("stockholm pool", o.StockholmPool, 1, int(b.StockholmMax-b.StockholmMin)+1); err != nil {
		return err
	}
	if err := errs.ValidateRange("london pool", o.LondonPool, 1, int(b.LondonMax-b.LondonMin)+1); err != nil {
		return err
	}
	if err := errs.ValidateNonNegative("friend teams", int64(o.FriendTeams)); err != nil {
		return err
	}
	if o.FriendTeams > 0 {
		return errs.ValidateRange("friend", int(o.Friend), int(b.StockholmMin), int(b.StockholmMax))
	}
	return nil
}

// Generate draws a random dataset. Each team pairs a Stockholm employee from
// the first StockholmPool entries of a shuffled office roster with a London
// employee chosen the same way. The first min(FriendTeams, Teams-1) teams get
// Friend as their Stockholm member. Duplicate teams are dropped and the
// result is shuffled, so it may hold fewer than Teams entries.
func Generate(rng *rand.Rand, opts GenerateOptions) ([]team.Team, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	stockholm := roster(rng, team.StockholmMin, team.StockholmMax)
	london := roster(rng, team.LondonMin, team.LondonMax)

	drawn := make([]team.Team, opts.Teams)
	for i := range drawn {
		drawn[i] = team.Team{
			Stockholm: stockholm[rng.IntN(opts.StockholmPool)],
			London:    london[rng.IntN(opts.LondonPool)],
		}
	}
	for i := range min(opts.FriendTeams, opts.Teams-1) {
		drawn[i].Stockholm = opts.Friend
	}

	seen := make(map[team.Key]struct{}, len(drawn))
	out := drawn[:0]
	for _, t := range drawn {
		if _, dup := seen[t.Key()]; dup {
			continue
		}
		seen[t.Key()] = struct{}{}
		out = append(out, t)
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out, nil
}

func roster(rng *rand.Rand, lo, hi team.ID) []team.ID {
	ids := make([]team.ID, 0, hi-lo+1)
	for id := lo; id <= hi; id++ {
		ids = append(ids, id)
	}
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	return ids
}
