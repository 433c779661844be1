// Package pipeline runs the parse → solve → render flow shared by the CLI
// and the HTTP server.
//
// The Runner adds caching, observability hooks and logging around
// [cover.Solve], so both entry points behave the same way for the same
// project set.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Solve(ctx, projects, pipeline.Options{Friend: 1009})
//	if err != nil {
//	    return err
//	}
//	svg, err := runner.Render(ctx, projects, res, pipeline.FormatSVG)
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bilateral/pkg/cache"
	"github.com/matzehuels/bilateral/pkg/cover"
	errs "github.com/matzehuels/bilateral/pkg/errors"
	"github.com/matzehuels/bilateral/pkg/team"
)

// Default values shared by the CLI and the server.
const (
	DefaultTimeout = 60 * time.Second
	DefaultFriend  = cover.DefaultFriend
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats lists every supported output format.
var ValidFormats = []string{FormatText, FormatJSON, FormatDOT, FormatSVG}

// ArtifactFormats lists the formats produced by Runner.Render.
var ArtifactFormats = []string{FormatDOT, FormatSVG}

// ValidateFormat checks that format is one of ValidFormats.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errs.New(errs.ErrCodeInvalidOptions,
			"invalid format: %q (must be one of: text, json, dot, svg)", format)
	}
	return nil
}

// Options configures a solve.
type Options struct {
	Friend      team.ID       `json:"friend,omitempty"`
	MaxTeams    int           `json:"max_teams,omitempty"`
	MaxFrontier int           `json:"max_frontier,omitempty"` // 0 = cover.DefaultMaxFrontier, -1 = unlimited
	Workers     int           `json:"workers,omitempty"`
	Timeout     time.Duration `json:"timeout,omitempty"` // 0 = DefaultTimeout, negative = none
	Raw         bool          `json:"raw,omitempty"`
	Refresh     bool          `json:"refresh,omitempty"` // ignore cached results

	// Runtime options (not serialized)
	Logger *log.Logger            `json:"-"`
	OnStep func(cover.StepInfo) `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks limits and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errs.ValidateNonNegative("max_teams", int64(o.MaxTeams)); err != nil {
		return err
	}
	if o.MaxFrontier < cover.Unlimited {
		return errs.New(errs.ErrCodeInvalidOptions,
			"max_frontier must be -1 (unlimited), 0 (default) or positive (got %d)", o.MaxFrontier)
	}
	if err := errs.ValidateNonNegative("workers", int64(o.Workers)); err != nil {
		return err
	}
	if o.Friend < 0 {
		return errs.New(errs.ErrCodeInvalidOptions, "friend must be a positive employee ID (got %d)", o.Friend)
	}

	if o.Friend == 0 {
		o.Friend = DefaultFriend
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// CoverOptions returns the enumeration options.
func (o *Options) CoverOptions() cover.Options {
	return cover.Options{
		Raw:         o.Raw,
		MaxTeams:    o.MaxTeams,
		MaxFrontier: o.MaxFrontier,
		Workers:     o.Workers,
		OnStep:      o.OnStep,
	}
}

// CoverKeyOpts returns cache key options for the solved cover.
func (o *Options) CoverKeyOpts() cache.CoverKeyOpts {
	return cache.CoverKeyOpts{Friend: int(o.Friend)}
}

// ArtifactKeyOpts returns cache key options for a rendered artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Friend: int(o.Friend)}
}

// Result is a solved cover plus pipeline metadata.
type Result struct {
	cover.Result

	// Friend is the employee preferred during selection.
	Friend team.ID `json:"friend"`

	// ProjectsHash identifies the input project set.
	ProjectsHash string `json:"projects_hash"`

	// CacheHit reports whether the cover came from the cache.
	CacheHit bool `json:"cache_hit"`

	// Elapsed is the wall time of this call, including cache lookups.
	Elapsed time.Duration `json:"elapsed"`
}
