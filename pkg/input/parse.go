package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	errs "github.com/matzehuels/bilateral/pkg/errors"
	"github.com/matzehuels/bilateral/pkg/team"
)

var (
	countLine = regexp.MustCompile(`^\d+$`)
	pairLine  = regexp.MustCompile(`^(\d+)\s(\d+)$`)
)

// Bounds are the limits a dataset is validated against.
type Bounds struct {
	MinTeams     int
	MaxTeams     int
	StockholmMin team.ID
	StockholmMax team.ID
	LondonMin    team.ID
	LondonMax    team.ID
}

// DefaultBounds returns the limits of the puzzle statement.
func DefaultBounds() Bounds {
	return Bounds{
		MinTeams:     1,
		MaxTeams:     10000,
		StockholmMin: team.StockholmMin,
		StockholmMax: team.StockholmMax,
		LondonMin:    team.LondonMin,
		LondonMax:    team.LondonMax,
	}
}

// Check validates a single team against b.
func (b Bounds) Check(t team.Team) error {
	if err := errs.ValidateRange("stockholm id", int(t.Stockholm), int(b.StockholmMin), int(b.StockholmMax)); err != nil {
		return err
	}
	return errs.ValidateRange("london id", int(t.London), int(b.LondonMin), int(b.LondonMax))
}

// Parse reads a dataset in the text format using [DefaultBounds].
func Parse(r io.Reader) (*team.Projects, error) {
	return ParseBounded(r, DefaultBounds())
}

// ParseBounded reads a dataset in the text format, validating it against b.
// Parse does not close r.
func ParseBounded(r io.Reader, b Bounds) (*team.Projects, error) {
	scanner := bufio.NewScanner(r)
	line := 0

	next := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		line++
		return strings.TrimSpace(scanner.Text()), true
	}

	header, ok := next()
	if !ok {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		return nil, errs.AtLine(1, errs.New(errs.ErrCodeInvalidFormat, "missing team count"))
	}
	if !countLine.MatchString(header) {
		return nil, errs.AtLine(line, errs.New(errs.ErrCodeInvalidFormat, "team count %q is not a number", header))
	}
	m, err := strconv.Atoi(header)
	if err != nil {
		return nil, errs.AtLine(line, errs.New(errs.ErrCodeInvalidFormat, "team count %q is not a number", header))
	}
	if err := errs.ValidateRange("team count", m, b.MinTeams, b.MaxTeams); err != nil {
		return nil, errs.AtLine(line, err)
	}

	p := team.NewProjects()
	for range m {
		text, ok := next()
		if !ok {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("read: %w", err)
			}
			return nil, errs.AtLine(line+1, errs.New(errs.ErrCodeCountMismatch,
				"expected %d teams, found %d", m, p.Len()))
		}

		t, err := parsePair(text)
		if err != nil {
			return nil, errs.AtLine(line, err)
		}
		if err := b.Check(t); err != nil {
			return nil, errs.AtLine(line, err)
		}
		if err := p.Add(t); err != nil {
			return nil, errs.AtLine(line, errs.Wrap(errs.ErrCodeDuplicateTeam, err, "team %s", t))
		}
	}

	return p, nil
}

// parsePair accepts exactly two unsigned integers separated by a single
// whitespace character.
func parsePair(text string) (team.Team, error) {
	match := pairLine.FindStringSubmatch(text)
	if match == nil {
		return team.Team{}, errs.New(errs.ErrCodeInvalidFormat, "expected two employee IDs separated by one space, got %q", text)
	}
	s, err := strconv.Atoi(match[1])
	if err != nil {
		return team.Team{}, errs.New(errs.ErrCodeInvalidFormat, "stockholm id %q is not a number", match[1])
	}
	l, err := strconv.Atoi(match[2])
	if err != nil {
		return team.Team{}, errs.New(errs.ErrCodeInvalidFormat, "london id %q is not a number", match[2])
	}
	return team.Team{Stockholm: team.ID(s), London: team.ID(l)}, nil
}

// ParseFile reads the dataset at path.
func ParseFile(path string) (*team.Projects, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "dataset %s", path)
		}
		return nil, err
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
