package cover

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/bilateral/pkg/team"
)

func TestOfSortsAndDedups(t *testing.T) {
	c := Of(2000, 1009, 2000, 1000)

	if diff := cmp.Diff([]team.ID{1000, 1009, 2000}, c.Members()); diff != "" {
		t.Errorf("Members() mismatch (-want +got):\n%s", diff)
	}
	if c.Key() != "1000,1009,2000" {
		t.Errorf("Key() = %q", c.Key())
	}
	if c.String() != "{1000 1009 2000}" {
		t.Errorf("String() = %q", c.String())
	}
}

func TestWith(t *testing.T) {
	base := Of(1000, 2001)

	grown := base.With(2000)
	if diff := cmp.Diff([]team.ID{1000, 2000, 2001}, grown.Members()); diff != "" {
		t.Errorf("With(2000) mismatch (-want +got):\n%s", diff)
	}
	if base.Len() != 2 {
		t.Errorf("receiver mutated: %v", base)
	}

	same := base.With(1000)
	if !same.Equal(base) || same.Len() != 2 {
		t.Errorf("With(existing) = %v, want %v", same, base)
	}

	if got := Empty().With(1009); got.Key() != "1009" {
		t.Errorf("Empty().With(1009).Key() = %q", got.Key())
	}
}

func TestEqualIgnoresConstructionOrder(t *testing.T) {
	a := Empty().With(2000).With(1000)
	b := Empty().With(1000).With(2000)
	if !a.Equal(b) {
		t.Errorf("%v and %v should be equal", a, b)
	}
	if a.Compare(b) != 0 {
		t.Errorf("Compare() = %d, want 0", a.Compare(b))
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b Cover
		want int
	}{
		{Of(1000, 2000), Of(1001, 2000), -1},
		{Of(1009, 2000), Of(2000, 2001), -1},
		{Of(1000), Of(1000, 2000), -1},
		{Of(2000), Of(1000, 2000), 1},
		{Empty(), Empty(), 0},
	}

	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCovers(t *testing.T) {
	p := team.MustFromTeams(
		team.Team{Stockholm: 1000, London: 2000},
		team.Team{Stockholm: 1001, London: 2000},
		team.Team{Stockholm: 1009, London: 2001},
	)

	if !Of(2000, 1009).Covers(p) {
		t.Error("{1009 2000} should cover all teams")
	}
	if Of(2000).Covers(p) {
		t.Error("{2000} leaves 1009:2001 uncovered")
	}
}

func TestJSON(t *testing.T) {
	data, err := json.Marshal(Of(2000, 1009))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "[1009,2000]" {
		t.Errorf("Marshal = %s", data)
	}

	empty, _ := json.Marshal(Empty())
	if string(empty) != "[]" {
		t.Errorf("Marshal(Empty()) = %s, want []", empty)
	}

	var c Cover
	if err := json.Unmarshal([]byte("[2001, 1000, 2001]"), &c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if c.Key() != "1000,2001" {
		t.Errorf("Unmarshal key = %q", c.Key())
	}
}
