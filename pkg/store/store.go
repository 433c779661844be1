// Package store archives solve results so they can be fetched again by ID.
//
// Three backends implement [Store]:
//   - [MemoryStore]: process-local, for tests and single-instance servers
//   - [FileStore]: one JSON file per record, used by the CLI history
//   - [MongoStore]: a MongoDB collection for shared deployments
//
// Records are immutable once saved:
//
//	rec := store.NewRecord(p, res)
//	if err := st.Save(ctx, rec); err != nil {
//	    return err
//	}
//	again, err := st.Get(ctx, rec.ID)
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	errs "github.com/matzehuels/bilateral/pkg/errors"
	"github.com/matzehuels/bilateral/pkg/pipeline"
	"github.com/matzehuels/bilateral/pkg/team"
)

// DefaultListLimit caps List when the caller passes zero.
const DefaultListLimit = 20

// Record is one archived solve.
type Record struct {
	ID             uuid.UUID     `json:"id"`
	CreatedAt      time.Time     `json:"created_at"`
	Friend         team.ID       `json:"friend"`
	Teams          [][2]team.ID  `json:"teams"`
	Members        []team.ID     `json:"members"`
	Size           int           `json:"size"`
	OptimalCount   int           `json:"optimal_count"`
	PreferredCount int           `json:"preferred_count"`
	FriendIncluded bool          `json:"friend_included"`
	ProjectsHash   string        `json:"projects_hash"`
	CacheHit       bool          `json:"cache_hit"`
	Elapsed        time.Duration `json:"elapsed"`
}

// NewRecord captures p and the pipeline result under a fresh ID.
func NewRecord(p *team.Projects, res pipeline.Result) *Record {
	teams := p.Teams()
	pairs := make([][2]team.ID, len(teams))
	for i, t := range teams {
		pairs[i] = [2]team.ID{t.Stockholm, t.London}
	}
	return &Record{
		ID:             uuid.New(),
		CreatedAt:      time.Now().UTC(),
		Friend:         res.Friend,
		Teams:          pairs,
		Members:        res.Cover.Members(),
		Size:           res.MinSize,
		OptimalCount:   res.OptimalCount,
		PreferredCount: res.PreferredCount,
		FriendIncluded: res.FriendIncluded,
		ProjectsHash:   res.ProjectsHash,
		CacheHit:       res.CacheHit,
		Elapsed:        res.Elapsed,
	}
}

// Projects rebuilds the archived project set.
func (r *Record) Projects() (*team.Projects, error) {
	p := team.NewProjects()
	for _, pair := range r.Teams {
		if err := p.Add(team.Team{Stockholm: pair[0], London: pair[1]}); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Store is the interface for record storage backends.
type Store interface {
	// Save stores a record. Saving an existing ID replaces it.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record with the given ID, or an error carrying
	// errors.ErrCodeNotFound.
	Get(ctx context.Context, id uuid.UUID) (*Record, error)

	// List returns up to limit records, newest first. Zero selects
	// DefaultListLimit.
	List(ctx context.Context, limit int) ([]*Record, error)

	Close() error
}

func notFound(id uuid.UUID) error {
	return errs.New(errs.ErrCodeNotFound, "solve %s not found", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

// ParseID parses a record ID, reporting malformed input as invalid.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid solve id %q", s)
	}
	return id, nil
}
