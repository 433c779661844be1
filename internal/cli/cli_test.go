package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/bilateral/internal/config"
	"github.com/matzehuels/bilateral/pkg/cover"
	errs "github.com/matzehuels/bilateral/pkg/errors"
	"github.com/matzehuels/bilateral/pkg/input"
	"github.com/matzehuels/bilateral/pkg/team"
)

const sharedLondon = "2\n1009 2011\n1017 2011\n"

// isolate keeps config, cache and history inside a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("BILATERAL_CACHE_BACKEND", "")
	t.Setenv("BILATERAL_FRIEND", "")
	return dir
}

// run executes the root command and returns what it wrote to stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeDataset(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSolveCommand(t *testing.T) {
	dir := isolate(t)
	path := writeDataset(t, dir, "teams.txt", sharedLondon)

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"file", "", []string{"solve", "-q", path}, "1\n2011\n"},
		{"stdin", sharedLondon, []string{"solve", "-q"}, "1\n2011\n"},
		{"stdin dash", sharedLondon, []string{"solve", "-q", "-"}, "1\n2011\n"},
		{"friend flag", "1\n1000 2000\n", []string{"solve", "-q", "--friend", "2000"}, "1\n2000\n"},
		{"default friend tie-break", "1\n1000 2000\n", []string{"solve", "-q"}, "1\n1000\n"},
		{"no cache", "1\n1009 2000\n", []string{"solve", "-q", "--no-cache"}, "1\n1009\n"},
		{"raw", "2\n1000 2000\n1001 2000\n", []string{"solve", "-q", "--raw"}, "1\n2000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("solve: %v", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSolveJSONDataset(t *testing.T) {
	dir := isolate(t)
	path := writeDataset(t, dir, "teams.json", `{"teams":[[1000,2000]],"friend":2000}`)

	got, err := run(t, "", "solve", "-q", path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "1\n2000\n" {
		t.Errorf("JSON friend ignored: %q", got)
	}

	// An explicit flag wins over the file.
	got, err = run(t, "", "solve", "-q", "--friend", "1000", path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "1\n1000\n" {
		t.Errorf("flag should override JSON friend: %q", got)
	}
}

func TestSolveJSONOutput(t *testing.T) {
	isolate(t)
	got, err := run(t, sharedLondon, "solve", "-q", "-f", "json")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"size": 1`, `"members": [`, `"friend": 1009`} {
		if !strings.Contains(got, want) {
			t.Errorf("JSON output missing %s:\n%s", want, got)
		}
	}
}

func TestSolveConfigFile(t *testing.T) {
	dir := isolate(t)
	cfgPath := writeDataset(t, dir, "bilateral.toml", "[solver]\nfriend = 2000\n\n[cache]\nbackend = \"memory\"\n")

	got, err := run(t, "1\n1000 2000\n", "--config", cfgPath, "solve", "-q")
	if err != nil {
		t.Fatal(err)
	}
	if got != "1\n2000\n" {
		t.Errorf("configured friend ignored: %q", got)
	}

	if _, err := run(t, "", "--config", filepath.Join(dir, "missing.toml"), "solve", "-q"); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing config error = %v", err)
	}
}

func TestSolveErrors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name  string
		stdin string
		args  []string
		code  errs.Code
	}{
		{"bad header", "x\n", []string{"solve", "-q"}, errs.ErrCodeInvalidFormat},
		{"duplicate", "2\n1000 2000\n1000 2000\n", []string{"solve", "-q"}, errs.ErrCodeDuplicateTeam},
		{"frontier budget", sharedLondon, []string{"solve", "-q", "--max-frontier", "1"}, errs.ErrCodeResourceLimit},
		{"team budget", sharedLondon, []string{"solve", "-q", "--max-teams", "1"}, errs.ErrCodeResourceLimit},
		{"bad format", sharedLondon, []string{"solve", "-q", "-f", "png"}, errs.ErrCodeInvalidOptions},
		{"missing file", "", []string{"solve", "-q", "/nonexistent/teams.txt"}, errs.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.stdin, tt.args...)
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestSolveSave(t *testing.T) {
	isolate(t)
	if _, err := run(t, sharedLondon, "solve", "-q", "--save"); err != nil {
		t.Fatal(err)
	}

	st, err := historyStore()
	if err != nil {
		t.Fatal(err)
	}
	recs, err := st.List(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Size != 1 || len(recs[0].Teams) != 2 {
		t.Errorf("archived records = %+v", recs)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := isolate(t)
	path := writeDataset(t, dir, "teams.txt", sharedLondon)

	if _, err := run(t, "", "render", "-q", "-f", "dot", path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "teams.dot"))
	if err != nil {
		t.Fatalf("default output name not used: %v", err)
	}
	if !strings.HasPrefix(string(data), "graph G {") {
		t.Errorf("dot output = %q", data)
	}

	got, err := run(t, sharedLondon, "render", "-q", "-f", "dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "2011") {
		t.Errorf("stdin render should go to stdout, got %q", got)
	}

	if _, err := run(t, sharedLondon, "render", "-q", "-f", "json"); err == nil {
		t.Error("render accepted a non-drawing format")
	}
}

func TestGenerateCommand(t *testing.T) {
	isolate(t)

	args := []string{"generate", "--teams", "12", "--stockholm-pool", "4", "--london-pool", "3", "--friend-teams", "2", "--seed", "7"}
	first, err := run(t, "", args...)
	if err != nil {
		t.Fatal(err)
	}
	second, err := run(t, "", args...)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("same seed produced different datasets")
	}

	p, err := input.Parse(strings.NewReader(first))
	if err != nil {
		t.Fatalf("generated dataset does not parse: %v\n%s", err, first)
	}
	if p.Len() == 0 || p.Len() > 12 {
		t.Errorf("generated %d teams", p.Len())
	}
	// Friend teams may collapse into one when they draw the same London ID.
	if p.Degree()[cover.DefaultFriend] == 0 {
		t.Error("friend is in no team")
	}

	prolog, err := run(t, "", "generate", "--teams", "3", "--seed", "1", "-f", "prolog")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(prolog, "solve([(") {
		t.Errorf("prolog output = %q", prolog)
	}

	if _, err := run(t, "", "generate", "--teams", "0"); !errs.Is(err, errs.ErrCodeInvalidRange) {
		t.Errorf("zero teams error = %v", err)
	}
}

func TestGenerateAutoName(t *testing.T) {
	dir := isolate(t)
	t.Chdir(dir)

	if _, err := run(t, "", "generate", "--teams", "5", "--stockholm-pool", "3", "--london-pool", "2", "--seed", "3", "--name"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "dataset_5_3_2_0.txt")); err != nil {
		t.Errorf("auto-named dataset missing: %v", err)
	}
}

func TestExploreList(t *testing.T) {
	isolate(t)
	got, err := run(t, "2\n1000 2000\n1001 2001\n", "explore", "-q", "--list")
	if err != nil {
		t.Fatal(err)
	}
	want := "{1000 1001}\n{1000 2001}\n{1001 2000}\n{2000 2001}\n"
	if got != want {
		t.Errorf("explore --list = %q, want %q", got, want)
	}
}

func TestCoverListModel(t *testing.T) {
	p := team.MustFromTeams(
		team.Team{Stockholm: 1000, London: 2000},
		team.Team{Stockholm: 1009, London: 2001},
	)
	f, err := cover.Enumerate(context.Background(), p, cover.Options{})
	if err != nil {
		t.Fatal(err)
	}
	r, err := cover.Rank(f.Covers(), cover.DefaultFriend)
	if err != nil {
		t.Fatal(err)
	}

	m := NewCoverListModel(r, cover.DefaultFriend, p.Degree())
	if !m.Covers[m.Cursor].Equal(r.Best()) {
		t.Fatalf("cursor starts on %v, want %v", m.Covers[m.Cursor], r.Best())
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(CoverListModel)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(CoverListModel)
	if m.Selected == nil || cmd == nil {
		t.Fatal("enter should select and quit")
	}
	if !m.Selected.Equal(r.Optimal[m.Cursor]) {
		t.Errorf("selected %v, cursor on %v", m.Selected, r.Optimal[m.Cursor])
	}

	if view := m.View(); !strings.Contains(view, "Minimum covers of size 2") || !strings.Contains(view, "1009(1)") {
		t.Errorf("view missing content:\n%s", view)
	}
}

func TestCachePath(t *testing.T) {
	dir := isolate(t)
	got, err := run(t, "", "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "cache", config.AppName) + "\n"; got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCacheClear(t *testing.T) {
	isolate(t)
	if _, err := run(t, sharedLondon, "solve", "-q"); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "", "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(config.DefaultCacheDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("%d entries left after clear", len(entries))
	}
}
