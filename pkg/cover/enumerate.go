package cover

import (
	"context"
	"math/big"
	"time"

	"golang.org/x/sync/errgroup"

	errs "github.com/matzehuels/bilateral/pkg/errors"
	"github.com/matzehuels/bilateral/pkg/team"
)

const (
	// DefaultMaxFrontier bounds the number of live candidates when
	// Options.MaxFrontier is zero.
	DefaultMaxFrontier = 1 << 20

	// Unlimited disables a budget when assigned to Options.MaxFrontier.
	Unlimited = -1

	// minChunk is the smallest frontier slice handed to a worker.
	minChunk = 1024

	// checkEvery is how many expansions run between context checks.
	checkEvery = 4096
)

// Options configures the enumeration budget and strategy.
// The zero value enumerates sequentially with set collapsing and the
// default frontier budget.
type Options struct {
	// Raw keeps every choice path, even when two paths produce the same set.
	// The frontier then holds exactly 2^k candidates after k teams.
	Raw bool

	// MaxTeams rejects inputs with more teams before any work is done.
	// Zero means no limit.
	MaxTeams int

	// MaxFrontier aborts the search once a frontier would hold more
	// candidates. Zero selects DefaultMaxFrontier; Unlimited disables it.
	MaxFrontier int

	// Workers expands each level with this many goroutines. Values below 2
	// run sequentially. Results are identical either way.
	Workers int

	// OnStep, if set, is called after each team is processed.
	OnStep func(StepInfo)
}

// StepInfo describes one completed level of the choice tree.
type StepInfo struct {
	Step     int       // 1-based index of the team just processed
	Total    int       // number of teams
	Team     team.Team // the team just processed
	Frontier int       // live candidates after this step
}

// Stats summarizes an enumeration run.
type Stats struct {
	Teams      int           `json:"teams"`
	RawPaths   *big.Int      `json:"raw_paths"`  // 2^Teams choice paths
	Expansions uint64        `json:"expansions"` // successors derived
	Collapsed  uint64        `json:"collapsed"`  // successors merged into an equal set
	Peak       int           `json:"peak"`       // largest frontier seen
	Duration   time.Duration `json:"duration"`
}

// Frontier is the complete candidate space after enumeration.
type Frontier struct {
	covers []Cover
	Stats  Stats
}

// Covers returns the candidates in discovery order. The slice is shared;
// callers must not modify it.
func (f *Frontier) Covers() []Cover { return f.covers }

// Len returns the number of candidates.
func (f *Frontier) Len() int { return len(f.covers) }

func (o Options) frontierLimit() int {
	switch {
	case o.MaxFrontier == 0:
		return DefaultMaxFrontier
	case o.MaxFrontier < 0:
		return 0
	default:
		return o.MaxFrontier
	}
}

// Enumerate builds every candidate cover of p by choosing, for each team in
// [team.Projects.Teams] order, one of its two members.
//
// An empty project set yields a frontier with the single empty cover.
//
// Enumerate returns an error carrying errors.ErrCodeResourceLimit when the
// input exceeds opts.MaxTeams or a frontier grows past opts.MaxFrontier, and
// one carrying errors.ErrCodeTimeout when ctx's deadline passes. A cancelled
// ctx returns context.Canceled unchanged.
func Enumerate(ctx context.Context, p *team.Projects, opts Options) (*Frontier, error) {
	start := time.Now()
	teams := p.Teams()

	if opts.MaxTeams > 0 && len(teams) > opts.MaxTeams {
		return nil, errs.New(errs.ErrCodeResourceLimit,
			"%d teams exceed the limit of %d for exhaustive search", len(teams), opts.MaxTeams)
	}

	e := &enumerator{
		limit:   opts.frontierLimit(),
		dedup:   !opts.Raw,
		workers: opts.Workers,
	}

	frontier := []Cover{Empty()}
	e.stats.Peak = 1

	for i, t := range teams {
		if err := ctx.Err(); err != nil {
			return nil, contextError(err, i, len(teams))
		}

		next, err := e.step(ctx, frontier, t)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, contextError(ctxErr, i, len(teams))
			}
			return nil, err
		}
		frontier = next
		e.stats.Peak = max(e.stats.Peak, len(frontier))

		if opts.OnStep != nil {
			opts.OnStep(StepInfo{Step: i + 1, Total: len(teams), Team: t, Frontier: len(frontier)})
		}
	}

	e.stats.Teams = len(teams)
	e.stats.RawPaths = new(big.Int).Lsh(big.NewInt(1), uint(len(teams)))
	e.stats.Duration = time.Since(start)

	return &Frontier{covers: frontier, Stats: e.stats}, nil
}

type enumerator struct {
	limit   int
	dedup   bool
	workers int
	stats   Stats
}

// step derives both successors of every candidate for team t.
func (e *enumerator) step(ctx context.Context, frontier []Cover, t team.Team) ([]Cover, error) {
	if e.workers > 1 && len(frontier) >= 2*minChunk {
		return e.stepParallel(ctx, frontier, t)
	}

	m := newMerger(e, len(frontier))
	for i, c := range frontier {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if err := m.add(c.With(t.Stockholm)); err != nil {
			return nil, err
		}
		if err := m.add(c.With(t.London)); err != nil {
			return nil, err
		}
	}
	return m.out, nil
}

// stepParallel expands contiguous chunks concurrently and merges them in
// chunk order, so the result matches the sequential path exactly.
func (e *enumerator) stepParallel(ctx context.Context, frontier []Cover, t team.Team) ([]Cover, error) {
	chunkSize := max(minChunk, (len(frontier)+e.workers-1)/e.workers)
	nChunks := (len(frontier) + chunkSize - 1) / chunkSize
	parts := make([][]Cover, nChunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for ci := 0; ci < nChunks; ci++ {
		lo := ci * chunkSize
		hi := min(lo+chunkSize, len(frontier))
		g.Go(func() error {
			local := make([]Cover, 0, 2*(hi-lo))
			var seen map[string]struct{}
			if e.dedup {
				seen = make(map[string]struct{}, 2*(hi-lo))
			}
			for i, c := range frontier[lo:hi] {
				if i%checkEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				for _, s := range [2]Cover{c.With(t.Stockholm), c.With(t.London)} {
					if seen != nil {
						if _, dup := seen[s.Key()]; dup {
							continue
						}
						seen[s.Key()] = struct{}{}
					}
					local = append(local, s)
				}
			}
			parts[ci] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := newMerger(e, len(frontier))
	// Chunk-local duplicates were dropped before merging; count them as
	// collapsed so stats match the sequential path.
	for _, part := range parts {
		for _, s := range part {
			if err := m.add(s); err != nil {
				return nil, err
			}
		}
	}
	m.e.stats.Collapsed += uint64(2*len(frontier)) - m.added
	m.e.stats.Expansions += uint64(2*len(frontier)) - m.added
	return m.out, nil
}

// merger accumulates the next frontier, collapsing equal sets and enforcing
// the frontier budget.
type merger struct {
	e     *enumerator
	out   []Cover
	seen  map[string]struct{}
	added uint64
}

func newMerger(e *enumerator, parents int) *merger {
	m := &merger{e: e, out: make([]Cover, 0, min(2*parents, capHint(e.limit)))}
	if e.dedup {
		m.seen = make(map[string]struct{}, len(m.out))
	}
	return m
}

func capHint(limit int) int {
	if limit <= 0 {
		return DefaultMaxFrontier
	}
	return limit
}

func (m *merger) add(c Cover) error {
	m.added++
	m.e.stats.Expansions++
	if m.seen != nil {
		if _, dup := m.seen[c.Key()]; dup {
			m.e.stats.Collapsed++
			return nil
		}
		m.seen[c.Key()] = struct{}{}
	}
	if m.e.limit > 0 && len(m.out) >= m.e.limit {
		return errs.New(errs.ErrCodeResourceLimit,
			"candidate frontier exceeds the limit of %d covers", m.e.limit)
	}
	m.out = append(m.out, c)
	return nil
}

func contextError(err error, done, total int) error {
	if err == context.DeadlineExceeded {
		return errs.Wrap(errs.ErrCodeTimeout, err,
			"enumeration stopped after %d of %d teams", done, total)
	}
	return err
}
