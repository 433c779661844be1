package team

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// Office ranges from the puzzle statement.
const (
	StockholmMin ID = 1000
	StockholmMax ID = 1999
	LondonMin    ID = 2000
	LondonMax    ID = 2999
)

var (
	// ErrDuplicateTeam is returned by [Projects.Add] when the same unordered
	// pair of employees is already staffed on another project.
	ErrDuplicateTeam = errors.New("team already participates in another project")

	// ErrInvalidID is returned by [Projects.Add] when an endpoint is not a
	// positive identifier.
	ErrInvalidID = errors.New("employee ID must be positive")

	// ErrSelfTeam is returned by [Projects.Add] when both endpoints are the
	// same employee.
	ErrSelfTeam = errors.New("team needs two distinct employees")
)

// ID identifies an employee. Identity is purely by value.
type ID int

// IsStockholm reports whether the ID lies in the Stockholm office range.
func (id ID) IsStockholm() bool { return id >= StockholmMin && id <= StockholmMax }

// IsLondon reports whether the ID lies in the London office range.
func (id ID) IsLondon() bool { return id >= LondonMin && id <= LondonMax }

// String returns the decimal form of the ID.
func (id ID) String() string { return strconv.Itoa(int(id)) }

// Team is a pair of employees working on one project.
// The side fields only record where each endpoint was read from; equality
// between teams ignores them (see [Team.Key]).
type Team struct {
	Stockholm ID
	London    ID
}

// Key is the canonical unordered form of a team: Lo <= Hi.
type Key struct {
	Lo ID
	Hi ID
}

// Key returns the canonical unordered pair for t.
func (t Team) Key() Key {
	if t.Stockholm <= t.London {
		return Key{Lo: t.Stockholm, Hi: t.London}
	}
	return Key{Lo: t.London, Hi: t.Stockholm}
}

// Equal reports whether t and o connect the same two employees.
func (t Team) Equal(o Team) bool { return t.Key() == o.Key() }

// Has reports whether id is one of the team's members.
func (t Team) Has(id ID) bool { return t.Stockholm == id || t.London == id }

// String formats the team as "stockholm:london".
func (t Team) String() string {
	return fmt.Sprintf("%d:%d", t.Stockholm, t.London)
}

func (k Key) compare(o Key) int {
	if k.Lo != o.Lo {
		if k.Lo < o.Lo {
			return -1
		}
		return 1
	}
	if k.Hi < o.Hi {
		return -1
	}
	if k.Hi > o.Hi {
		return 1
	}
	return 0
}

// Projects is the set of teams, one per project, keyed by [Team.Key].
//
// The zero value is not usable - use NewProjects.
type Projects struct {
	teams map[Key]Team
}

// NewProjects creates an empty project set.
func NewProjects() *Projects {
	return &Projects{teams: make(map[Key]Team)}
}

// FromTeams builds a project set from teams, failing on the first invalid or
// duplicate team.
func FromTeams(teams ...Team) (*Projects, error) {
	p := NewProjects()
	for _, t := range teams {
		if err := p.Add(t); err != nil {
			return nil, fmt.Errorf("add team %s: %w", t, err)
		}
	}
	return p, nil
}

// MustFromTeams is like FromTeams but panics on error. Intended for tests
// and examples with literal data.
func MustFromTeams(teams ...Team) *Projects {
	p, err := FromTeams(teams...)
	if err != nil {
		panic(err)
	}
	return p
}

// Add inserts t. It returns ErrDuplicateTeam when the same unordered pair is
// already present, ErrInvalidID for non-positive endpoints and ErrSelfTeam
// when both endpoints are equal. Office ranges are not checked here; that is
// the parser's job.
func (p *Projects) Add(t Team) error {
	if t.Stockholm <= 0 || t.London <= 0 {
		return ErrInvalidID
	}
	if t.Stockholm == t.London {
		return ErrSelfTeam
	}
	k := t.Key()
	if _, exists := p.teams[k]; exists {
		return ErrDuplicateTeam
	}
	p.teams[k] = t
	return nil
}

// Contains reports whether a team connecting the same two employees exists.
func (p *Projects) Contains(t Team) bool {
	_, ok := p.teams[t.Key()]
	return ok
}

// Len returns the number of projects.
func (p *Projects) Len() int { return len(p.teams) }

// IsEmpty reports whether there are no projects.
func (p *Projects) IsEmpty() bool { return len(p.teams) == 0 }

// Teams returns all teams sorted by key. The slice is a fresh copy.
func (p *Projects) Teams() []Team {
	keys := slices.SortedFunc(maps.Keys(p.teams), Key.compare)
	out := make([]Team, len(keys))
	for i, k := range keys {
		out[i] = p.teams[k]
	}
	return out
}

// Employees returns every employee that appears on at least one team,
// sorted ascending.
func (p *Projects) Employees() []ID {
	seen := make(map[ID]struct{}, 2*len(p.teams))
	for _, t := range p.teams {
		seen[t.Stockholm] = struct{}{}
		seen[t.London] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Degree returns how many projects each employee participates in.
func (p *Projects) Degree() map[ID]int {
	deg := make(map[ID]int)
	for _, t := range p.teams {
		deg[t.Stockholm]++
		deg[t.London]++
	}
	return deg
}

// CoveredBy reports whether every team has at least one member in ids.
func (p *Projects) CoveredBy(ids []ID) bool {
	set := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	for _, t := range p.teams {
		_, a := set[t.Stockholm]
		_, b := set[t.London]
		if !a && !b {
			return false
		}
	}
	return true
}

// Uncovered returns the teams (in key order) that have no member in ids.
func (p *Projects) Uncovered(ids []ID) []Team {
	set := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	var out []Team
	for _, t := range p.Teams() {
		_, a := set[t.Stockholm]
		_, b := set[t.London]
		if !a && !b {
			out = append(out, t)
		}
	}
	return out
}

// Clone returns an independent copy of p.
func (p *Projects) Clone() *Projects {
	return &Projects{teams: maps.Clone(p.teams)}
}
