package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bilateral/pkg/cache"
	"github.com/matzehuels/bilateral/pkg/cover"
	errs "github.com/matzehuels/bilateral/pkg/errors"
	"github.com/matzehuels/bilateral/pkg/input"
	"github.com/matzehuels/bilateral/pkg/observability"
	"github.com/matzehuels/bilateral/pkg/team"
)

// Runner executes solves with caching. It holds no per-solve state, so one
// Runner may serve many goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides cache.TTLCover for solved covers when positive.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching; a nil keyer
// selects the DefaultKeyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// ProjectsHash returns a content hash of p that ignores input order.
func ProjectsHash(p *team.Projects) string {
	var buf bytes.Buffer
	_ = input.Write(&buf, p)
	return cache.Hash(buf.Bytes())
}

// Solve finds the preferred minimum cover of p, consulting the cache first
// unless opts.Refresh is set.
func (r *Runner) Solve(ctx context.Context, p *team.Projects, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	start := time.Now()

	hash := ProjectsHash(p)
	key := r.Keyer.CoverKey(hash, opts.CoverKeyOpts())

	if !opts.Refresh {
		if cached, ok := r.lookup(ctx, key, p); ok {
			r.Logger.Debug("cover cache hit", "teams", p.Len(), "size", cached.MinSize)
			return &Result{
				Result:       cached,
				Friend:       opts.Friend,
				ProjectsHash: hash,
				CacheHit:     true,
				Elapsed:      time.Since(start),
			}, nil
		}
	}

	res, err := r.solve(ctx, p, opts)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.coverTTL()); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "cover", len(data))
		}
	}

	return &Result{
		Result:       res,
		Friend:       opts.Friend,
		ProjectsHash: hash,
		Elapsed:      time.Since(start),
	}, nil
}

func (r *Runner) solve(ctx context.Context, p *team.Projects, opts Options) (cover.Result, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	hooks := observability.Solver()
	hooks.OnEnumerateStart(ctx, p.Len())
	r.Logger.Debug("enumerating covers", "teams", p.Len(), "workers", opts.Workers)

	res, err := cover.Solve(ctx, p, opts.Friend, opts.CoverOptions())
	hooks.OnEnumerateComplete(ctx, p.Len(), res.Stats.Peak, res.Stats.Duration, err)
	if err != nil {
		return cover.Result{}, err
	}
	hooks.OnSelect(ctx, res.MinSize, res.FriendIncluded)

	r.Logger.Info("solved cover",
		"teams", p.Len(),
		"size", res.MinSize,
		"optima", res.OptimalCount,
		"friend", res.FriendIncluded,
		"peak", res.Stats.Peak,
		"duration", res.Stats.Duration)
	return res, nil
}

// lookup returns a cached result. Entries that fail to decode or no longer
// cover p are treated as misses.
func (r *Runner) lookup(ctx context.Context, key string, p *team.Projects) (cover.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "cover")
		return cover.Result{}, false
	}

	var res cover.Result
	if err := json.Unmarshal(data, &res); err != nil || !res.Cover.Covers(p) {
		observability.Cache().OnCacheMiss(ctx, "cover")
		return cover.Result{}, false
	}
	observability.Cache().OnCacheHit(ctx, "cover")
	return res, true
}

// Render draws res over p in an artifact format (dot or svg), caching the
// output under the projects hash and cover.
func (r *Runner) Render(ctx context.Context, p *team.Projects, res *Result, format string) ([]byte, error) {
	data, _, err := r.RenderWithCacheInfo(ctx, p, res, format)
	return data, err
}

// RenderWithCacheInfo is Render that also reports whether the artifact came
// from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, p *team.Projects, res *Result, format string) ([]byte, bool, error) {
	if !slices.Contains(ArtifactFormats, format) {
		return nil, false, errs.New(errs.ErrCodeUnsupported, "cannot render %q (must be dot or svg)", format)
	}

	opts := Options{Friend: res.Friend}
	hash := res.ProjectsHash
	if hash == "" {
		hash = ProjectsHash(p)
	}
	key := r.Keyer.ArtifactKey(cache.Hash([]byte(hash+"/"+res.Cover.Key())), opts.ArtifactKeyOpts(format))

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	data, err := RenderArtifact(ctx, p, res.Cover, res.Friend, format)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

func (r *Runner) coverTTL() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLCover
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
