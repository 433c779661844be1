package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/matzehuels/bilateral/pkg/cover"
	errs "github.com/matzehuels/bilateral/pkg/errors"
	"github.com/matzehuels/bilateral/pkg/pipeline"
	"github.com/matzehuels/bilateral/pkg/team"
)

func sampleRecord(t *testing.T) (*team.Projects, *Record) {
	t.Helper()
	p := team.MustFromTeams(
		team.Team{Stockholm: 1009, London: 2011},
		team.Team{Stockholm: 1017, London: 2011},
	)
	res, err := cover.Solve(context.Background(), p, cover.DefaultFriend, cover.Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	return p, NewRecord(p, pipeline.Result{Result: res, Friend: cover.DefaultFriend, ProjectsHash: "abc"})
}

func TestNewRecord(t *testing.T) {
	p, rec := sampleRecord(t)

	if rec.ID == uuid.Nil {
		t.Error("record has no ID")
	}
	if diff := cmp.Diff([]team.ID{2011}, rec.Members); diff != "" {
		t.Errorf("Members mismatch (-want +got):\n%s", diff)
	}
	if rec.Size != 1 || rec.FriendIncluded {
		t.Errorf("Size = %d, FriendIncluded = %v", rec.Size, rec.FriendIncluded)
	}

	back, err := rec.Projects()
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	if diff := cmp.Diff(p.Teams(), back.Teams()); diff != "" {
		t.Errorf("Projects round trip (-want +got):\n%s", diff)
	}
}

func TestParseID(t *testing.T) {
	id := uuid.New()
	got, err := ParseID(id.String())
	if err != nil || got != id {
		t.Errorf("ParseID(%s) = %v, %v", id, got, err)
	}
	if _, err := ParseID("not-a-uuid"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("ParseID(garbage) error = %v", err)
	}
}

// exerciseStore runs the behavior every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, uuid.New()); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Fatalf("Get(unknown) error = %v, want NOT_FOUND", err)
	}

	_, older := sampleRecord(t)
	older.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, newer := sampleRecord(t)
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)

	for _, rec := range []*Record{older, newer} {
		if err := s.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := s.Get(ctx, older.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(older, got); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}

	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Errorf("List order wrong: %v", list)
	}

	list, err = s.List(ctx, 1)
	if err != nil || len(list) != 1 {
		t.Errorf("List(1) = %d records, %v", len(list), err)
	}

	older.Size = 99
	if err := s.Save(ctx, older); err != nil {
		t.Fatalf("re-Save: %v", err)
	}
	got, _ = s.Get(ctx, older.ID)
	if got.Size != 99 {
		t.Errorf("Save did not replace, Size = %d", got.Size)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exerciseStore(t, s)
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, rec := sampleRecord(t)
	if err := s.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}
	rec.Size = 42

	got, _ := s.Get(ctx, rec.ID)
	if got.Size == 42 {
		t.Error("stored record aliases the caller's value")
	}
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.Path() != dir {
		t.Errorf("Path() = %q", s.Path())
	}

	// Stray files are ignored by List.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}

	exerciseStore(t, s)
}

func TestNewFileStoreRequiresDir(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("NewFileStore(\"\") succeeded")
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("BILATERAL_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("BILATERAL_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	db := "bilateral_test_" + uuid.NewString()[:8]
	s, err := NewMongoStore(ctx, uri, db)
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	t.Cleanup(func() {
		_ = s.client.Database(db).Drop(context.Background())
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	exerciseStore(t, s)
}

func TestMongoDocumentRoundTrip(t *testing.T) {
	_, rec := sampleRecord(t)
	// BSON stores milliseconds.
	rec.CreatedAt = rec.CreatedAt.Truncate(time.Millisecond)

	got, err := toDocument(rec).record()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Errorf("document round trip (-want +got):\n%s", diff)
	}
}
