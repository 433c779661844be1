package input

import (
	"encoding/json"
	"fmt"
	"io"

	errs "github.com/matzehuels/bilateral/pkg/errors"
	"github.com/matzehuels/bilateral/pkg/team"
)

// Request is the JSON form of a dataset with an optional friend override.
type Request struct {
	Teams  [][2]team.ID `json:"teams"`
	Friend *team.ID     `json:"friend,omitempty"`
}

// ReadJSON decodes a [Request] from r and validates its teams against
// [DefaultBounds]. Errors for individual teams name their index.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*team.Projects, *team.ID, error) {
	var req Request
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode")
	}

	b := DefaultBounds()
	if err := errs.ValidateRange("team count", len(req.Teams), b.MinTeams, b.MaxTeams); err != nil {
		return nil, nil, err
	}

	p := team.NewProjects()
	for i, pair := range req.Teams {
		t := team.Team{Stockholm: pair[0], London: pair[1]}
		if err := b.Check(t); err != nil {
			return nil, nil, fmt.Errorf("teams[%d]: %w", i, err)
		}
		if err := p.Add(t); err != nil {
			return nil, nil, fmt.Errorf("teams[%d]: %w", i, errs.Wrap(errs.ErrCodeDuplicateTeam, err, "team %s", t))
		}
	}
	return p, req.Friend, nil
}
