package cover

import (
	"context"
	"math/big"

	"github.com/matzehuels/bilateral/pkg/team"
)

// DefaultFriend is the employee preferred when several minimum covers tie.
const DefaultFriend team.ID = 1009

// Result is the outcome of Solve.
type Result struct {
	Cover          Cover `json:"members"`
	MinSize        int   `json:"size"`
	OptimalCount   int   `json:"optimal_count"`
	PreferredCount int   `json:"preferred_count"`
	FriendIncluded bool  `json:"friend_included"`
	Stats          Stats `json:"stats"`
}

// Solve enumerates every candidate cover of p and selects one as [Select]
// does. Errors from [Enumerate] are returned unchanged.
func Solve(ctx context.Context, p *team.Projects, friend team.ID, opts Options) (Result, error) {
	if p.IsEmpty() {
		return Result{
			Cover:        Empty(),
			OptimalCount: 1,
			Stats:        Stats{RawPaths: big.NewInt(1), Peak: 1},
		}, nil
	}

	f, err := Enumerate(ctx, p, opts)
	if err != nil {
		return Result{}, err
	}

	r, err := Rank(f.Covers(), friend)
	if err != nil {
		return Result{}, err
	}

	best := r.Best()
	return Result{
		Cover:          best,
		MinSize:        r.MinSize,
		OptimalCount:   len(r.Optimal),
		PreferredCount: len(r.Preferred),
		FriendIncluded: best.Contains(friend),
		Stats:          f.Stats,
	}, nil
}
