package cover

import (
	"context"
	"testing"

	"github.com/matzehuels/bilateral/pkg/team"
)

func TestSolveWorkedExamples(t *testing.T) {
	tests := []struct {
		name       string
		teams      []team.Team
		want       Cover
		wantFriend bool
	}{
		{
			name:  "shared London member",
			teams: []team.Team{{Stockholm: 1000, London: 2000}, {Stockholm: 1001, London: 2000}},
			want:  Of(2000),
		},
		{
			name:  "disjoint teams",
			teams: []team.Team{{Stockholm: 1000, London: 2000}, {Stockholm: 1001, London: 2001}},
			want:  Of(1000, 1001),
		},
		{
			name: "friend preferred",
			teams: []team.Team{
				{Stockholm: 1000, London: 2000},
				{Stockholm: 1001, London: 2000},
				{Stockholm: 1009, London: 2001},
			},
			want:       Of(1009, 2000),
			wantFriend: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := team.MustFromTeams(tt.teams...)
			res, err := Solve(context.Background(), p, DefaultFriend, Options{})
			if err != nil {
				t.Fatalf("Solve: %v", err)
			}
			if !res.Cover.Equal(tt.want) {
				t.Errorf("Cover = %v, want %v", res.Cover, tt.want)
			}
			if res.MinSize != tt.want.Len() {
				t.Errorf("MinSize = %d, want %d", res.MinSize, tt.want.Len())
			}
			if res.FriendIncluded != tt.wantFriend {
				t.Errorf("FriendIncluded = %v, want %v", res.FriendIncluded, tt.wantFriend)
			}
			if !res.Cover.Covers(p) {
				t.Errorf("%v does not cover every team", res.Cover)
			}
		})
	}
}

func TestSolveDisjointCounts(t *testing.T) {
	p := team.MustFromTeams(
		team.Team{Stockholm: 1000, London: 2000},
		team.Team{Stockholm: 1001, London: 2001},
	)
	res, err := Solve(context.Background(), p, DefaultFriend, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.OptimalCount != 4 {
		t.Errorf("OptimalCount = %d, want 4", res.OptimalCount)
	}
	if res.PreferredCount != 0 {
		t.Errorf("PreferredCount = %d, want 0", res.PreferredCount)
	}
}

func TestSolveEmpty(t *testing.T) {
	res, err := Solve(context.Background(), team.NewProjects(), DefaultFriend, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Cover.Len() != 0 || res.MinSize != 0 {
		t.Errorf("Solve(empty) = %v size %d, want empty", res.Cover, res.MinSize)
	}
}

func TestSolveRawAgreesWithDedup(t *testing.T) {
	p := disjoint(5, 4)
	ctx := context.Background()

	a, err := Solve(ctx, p, 1002, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	b, err := Solve(ctx, p, 1002, Options{Raw: true})
	if err != nil {
		t.Fatalf("Solve raw: %v", err)
	}
	if !a.Cover.Equal(b.Cover) || a.OptimalCount != b.OptimalCount {
		t.Errorf("dedup %v (%d optima) vs raw %v (%d optima)", a.Cover, a.OptimalCount, b.Cover, b.OptimalCount)
	}
}
