package cover

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/bilateral/pkg/team"
)

// Cover is an immutable set of employees.
//
// Members are kept sorted so that two covers with the same members have the
// same [Cover.Key] and compare equal under [Cover.Compare].
type Cover struct {
	ids []team.ID
	key string
}

// Empty returns the cover with no members.
func Empty() Cover { return Cover{} }

// Of builds a cover from ids. Duplicates are dropped.
func Of(ids ...team.ID) Cover {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return newCover(sorted)
}

func newCover(sorted []team.ID) Cover {
	if len(sorted) == 0 {
		return Cover{}
	}
	return Cover{ids: sorted, key: makeKey(sorted)}
}

func makeKey(ids []team.ID) string {
	buf := make([]byte, 0, len(ids)*5)
	for i, id := range ids {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendInt(buf, int64(id), 10)
	}
	return string(buf)
}

// With returns the cover extended by id. When id is already a member the
// receiver itself is returned.
func (c Cover) With(id team.ID) Cover {
	i, found := slices.BinarySearch(c.ids, id)
	if found {
		return c
	}
	next := make([]team.ID, 0, len(c.ids)+1)
	next = append(next, c.ids[:i]...)
	next = append(next, id)
	next = append(next, c.ids[i:]...)
	return newCover(next)
}

// Len returns the number of members.
func (c Cover) Len() int { return len(c.ids) }

// Contains reports whether id is a member.
func (c Cover) Contains(id team.ID) bool {
	_, found := slices.BinarySearch(c.ids, id)
	return found
}

// Members returns the members in ascending order. The slice is a copy.
func (c Cover) Members() []team.ID { return slices.Clone(c.ids) }

// Key returns a canonical string for the member set, usable as a map key.
func (c Cover) Key() string { return c.key }

// Equal reports whether c and o have the same members.
func (c Cover) Equal(o Cover) bool { return c.key == o.key }

// Compare orders covers lexicographically by their sorted member lists.
// A proper prefix sorts first.
func (c Cover) Compare(o Cover) int { return slices.Compare(c.ids, o.ids) }

// Covers reports whether every team in p has a member in c.
func (c Cover) Covers(p *team.Projects) bool { return p.CoveredBy(c.ids) }

// String formats the cover as "{1000 2000}".
func (c Cover) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, id := range c.ids {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(id.String())
	}
	b.WriteByte('}')
	return b.String()
}

// MarshalJSON encodes the cover as a sorted array of IDs.
func (c Cover) MarshalJSON() ([]byte, error) {
	if c.ids == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.ids)
}

// UnmarshalJSON decodes an array of IDs.
func (c *Cover) UnmarshalJSON(data []byte) error {
	var ids []team.ID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*c = Of(ids...)
	return nil
}
