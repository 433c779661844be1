package cover

import (
	"slices"

	errs "github.com/matzehuels/bilateral/pkg/errors"
	"github.com/matzehuels/bilateral/pkg/team"
)

// ErrEmptyFrontier is returned when selection is asked to choose from no
// candidates. Enumerate never produces an empty frontier, so seeing this
// error means a caller built the candidate list some other way.
var ErrEmptyFrontier = errs.New(errs.ErrCodeInternal, "no candidate covers to select from")

// Ranking groups candidates by how well they satisfy the selection policy.
type Ranking struct {
	MinSize   int     // smallest candidate cardinality
	Optimal   []Cover // candidates of size MinSize, ascending by Compare
	Preferred []Cover // members of Optimal that contain the friend
}

// Best returns the lexicographically smallest preferred cover, or the
// smallest optimal one when no optimum contains the friend.
func (r Ranking) Best() Cover {
	if len(r.Preferred) > 0 {
		return r.Preferred[0]
	}
	return r.Optimal[0]
}

// FriendIncluded reports whether some optimal cover contains the friend.
func (r Ranking) FriendIncluded() bool { return len(r.Preferred) > 0 }

// Rank filters covers down to the minimum-size candidates and, among those,
// the ones containing friend. Duplicate sets are reported once.
func Rank(covers []Cover, friend team.ID) (Ranking, error) {
	if len(covers) == 0 {
		return Ranking{}, ErrEmptyFrontier
	}

	optimal := Optimal(covers)
	return Ranking{
		MinSize:   optimal[0].Len(),
		Optimal:   optimal,
		Preferred: Preferred(optimal, friend),
	}, nil
}

// Select picks the cover the solver reports: minimum size first, then
// containing friend if possible, then the lexicographically smallest.
func Select(covers []Cover, friend team.ID) (Cover, error) {
	r, err := Rank(covers, friend)
	if err != nil {
		return Cover{}, err
	}
	return r.Best(), nil
}

// Optimal returns the distinct covers of minimum cardinality in ascending
// order. It returns nil for an empty input.
func Optimal(covers []Cover) []Cover {
	if len(covers) == 0 {
		return nil
	}

	minSize := covers[0].Len()
	for _, c := range covers[1:] {
		minSize = min(minSize, c.Len())
	}

	seen := make(map[string]struct{})
	var out []Cover
	for _, c := range covers {
		if c.Len() != minSize {
			continue
		}
		if _, dup := seen[c.Key()]; dup {
			continue
		}
		seen[c.Key()] = struct{}{}
		out = append(out, c)
	}
	slices.SortFunc(out, Cover.Compare)
	return out
}

// Preferred returns the covers that contain friend, preserving order.
func Preferred(covers []Cover, friend team.ID) []Cover {
	var out []Cover
	for _, c := range covers {
		if c.Contains(friend) {
			out = append(out, c)
		}
	}
	return out
}
