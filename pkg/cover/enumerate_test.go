package cover

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	errs "github.com/matzehuels/bilateral/pkg/errors"
	"github.com/matzehuels/bilateral/pkg/team"
)

func chain() *team.Projects {
	return team.MustFromTeams(
		team.Team{Stockholm: 1000, London: 2000},
		team.Team{Stockholm: 1001, London: 2000},
		team.Team{Stockholm: 1009, London: 2001},
	)
}

// square returns the 4-cycle in which two employees in each office share
// every team.
func square() *team.Projects {
	return team.MustFromTeams(
		team.Team{Stockholm: 1000, London: 2000},
		team.Team{Stockholm: 1000, London: 2001},
		team.Team{Stockholm: 1001, London: 2000},
		team.Team{Stockholm: 1001, London: 2001},
	)
}

// disjoint returns n teams that share no employees, plus bridges extra teams
// linking neighbouring pairs.
func disjoint(n, bridges int) *team.Projects {
	p := team.NewProjects()
	for i := range n {
		_ = p.Add(team.Team{Stockholm: team.ID(1000 + i), London: team.ID(2000 + i)})
	}
	for i := range bridges {
		_ = p.Add(team.Team{Stockholm: team.ID(1000 + i), London: team.ID(2001 + i)})
	}
	return p
}

func keys(covers []Cover) []string {
	out := make([]string, len(covers))
	for i, c := range covers {
		out[i] = c.Key()
	}
	return out
}

func TestEnumerateRawDoubles(t *testing.T) {
	f, err := Enumerate(context.Background(), chain(), Options{Raw: true})
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if f.Len() != 8 {
		t.Errorf("raw frontier has %d covers, want 8", f.Len())
	}
	if f.Stats.RawPaths.Int64() != 8 {
		t.Errorf("RawPaths = %v, want 8", f.Stats.RawPaths)
	}
	if f.Stats.Collapsed != 0 {
		t.Errorf("Collapsed = %d, want 0 for raw enumeration", f.Stats.Collapsed)
	}
	if f.Stats.Expansions != 2+4+8 {
		t.Errorf("Expansions = %d, want 14", f.Stats.Expansions)
	}
}

func TestEnumerateDedup(t *testing.T) {
	ctx := context.Background()
	p := square()

	raw, err := Enumerate(ctx, p, Options{Raw: true})
	if err != nil {
		t.Fatalf("Enumerate raw: %v", err)
	}
	f, err := Enumerate(ctx, p, Options{})
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}

	// {1000 2000} is reached both by picking 1000 then 2000 and by
	// picking 2000 then 1000.
	if raw.Len() != 16 {
		t.Fatalf("raw frontier has %d covers, want 16", raw.Len())
	}
	if f.Len() > raw.Len() {
		t.Errorf("dedup frontier %d exceeds 2^m = %d", f.Len(), raw.Len())
	}
	if f.Len() >= raw.Len() {
		t.Errorf("dedup frontier %d should be smaller than raw %d", f.Len(), raw.Len())
	}

	distinct := map[string]struct{}{}
	for _, c := range raw.Covers() {
		distinct[c.Key()] = struct{}{}
	}
	if f.Len() != len(distinct) {
		t.Errorf("dedup frontier has %d covers, raw has %d distinct sets", f.Len(), len(distinct))
	}
	for _, c := range f.Covers() {
		if _, ok := distinct[c.Key()]; !ok {
			t.Errorf("dedup produced %v which raw enumeration did not", c)
		}
	}
	if f.Stats.Collapsed == 0 {
		t.Error("Collapsed = 0, want shared-member paths to be merged")
	}
}

func TestEnumerateEveryCandidateCovers(t *testing.T) {
	p := disjoint(6, 4)
	f, err := Enumerate(context.Background(), p, Options{})
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	for _, c := range f.Covers() {
		if !c.Covers(p) {
			t.Fatalf("%v leaves %v uncovered", c, p.Uncovered(c.Members()))
		}
	}
}

func TestEnumerateEmpty(t *testing.T) {
	f, err := Enumerate(context.Background(), team.NewProjects(), Options{})
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if f.Len() != 1 || f.Covers()[0].Len() != 0 {
		t.Errorf("empty projects should yield exactly the empty cover, got %v", f.Covers())
	}
	if f.Stats.RawPaths.Int64() != 1 {
		t.Errorf("RawPaths = %v, want 1", f.Stats.RawPaths)
	}
}

func TestEnumerateBudgets(t *testing.T) {
	tests := []struct {
		name string
		p    *team.Projects
		opts Options
	}{
		{"max teams", disjoint(3, 0), Options{MaxTeams: 2}},
		{"max frontier", disjoint(3, 0), Options{MaxFrontier: 7}},
		{"max frontier raw", chain(), Options{Raw: true, MaxFrontier: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Enumerate(context.Background(), tt.p, tt.opts)
			if err == nil {
				t.Fatalf("expected error, got frontier of %d", f.Len())
			}
			if !errs.Is(err, errs.ErrCodeResourceLimit) {
				t.Errorf("error code = %q, want %q", errs.GetCode(err), errs.ErrCodeResourceLimit)
			}
		})
	}
}

func TestEnumerateWithinBudget(t *testing.T) {
	f, err := Enumerate(context.Background(), disjoint(3, 0), Options{MaxTeams: 3, MaxFrontier: 8})
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if f.Len() != 8 {
		t.Errorf("Len() = %d, want 8", f.Len())
	}
}

func TestEnumerateUnlimited(t *testing.T) {
	f, err := Enumerate(context.Background(), disjoint(4, 0), Options{MaxFrontier: Unlimited})
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if f.Len() != 16 {
		t.Errorf("Len() = %d, want 16", f.Len())
	}
}

func TestEnumerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Enumerate(ctx, chain(), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if errs.Is(err, errs.ErrCodeTimeout) {
		t.Error("cancellation should not be reported as a timeout")
	}
}

func TestEnumerateDeadline(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := Enumerate(ctx, chain(), Options{})
	if !errs.Is(err, errs.ErrCodeTimeout) {
		t.Fatalf("error code = %q, want %q", errs.GetCode(err), errs.ErrCodeTimeout)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("timeout should wrap context.DeadlineExceeded")
	}
}

func TestEnumerateOnStep(t *testing.T) {
	var steps []StepInfo
	_, err := Enumerate(context.Background(), chain(), Options{
		Raw:    true,
		OnStep: func(s StepInfo) { steps = append(steps, s) },
	})
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}

	var got []int
	for _, s := range steps {
		if s.Total != 3 {
			t.Errorf("step %d Total = %d, want 3", s.Step, s.Total)
		}
		got = append(got, s.Frontier)
	}
	if diff := cmp.Diff([]int{2, 4, 8}, got); diff != "" {
		t.Errorf("frontier sizes mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumerateParallelMatchesSequential(t *testing.T) {
	ctx := context.Background()
	p := disjoint(14, 3)

	for _, raw := range []bool{false, true} {
		seq, err := Enumerate(ctx, p, Options{Raw: raw, MaxFrontier: Unlimited})
		if err != nil {
			t.Fatalf("sequential: %v", err)
		}
		par, err := Enumerate(ctx, p, Options{Raw: raw, MaxFrontier: Unlimited, Workers: 4})
		if err != nil {
			t.Fatalf("parallel: %v", err)
		}

		if seq.Stats.Peak < 4*minChunk {
			t.Fatalf("peak %d too small to exercise parallel expansion", seq.Stats.Peak)
		}
		if diff := cmp.Diff(keys(seq.Covers()), keys(par.Covers())); diff != "" {
			t.Errorf("raw=%v: covers differ (-seq +par):\n%s", raw, diff)
		}
		if seq.Stats.Expansions != par.Stats.Expansions || seq.Stats.Collapsed != par.Stats.Collapsed {
			t.Errorf("raw=%v: stats differ: seq %+v, par %+v", raw, seq.Stats, par.Stats)
		}
	}
}

func TestEnumerateParallelBudget(t *testing.T) {
	_, err := Enumerate(context.Background(), disjoint(13, 0), Options{MaxFrontier: 5000, Workers: 4})
	if !errs.Is(err, errs.ErrCodeResourceLimit) {
		t.Fatalf("err = %v, want RESOURCE_LIMIT", err)
	}
}
