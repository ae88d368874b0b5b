package storage

import (
	"errors"
	"os"
	"slices"
	"testing"
	"time"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestSaveLoad(t *testing.T) {
	s := openTest(t)

	r := &Record{
		StartFEN: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		Moves:    []string{"e2e4", "e7e5"},
		Status:   "ongoing",
		Result:   "*",
		FEN:      "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
	}
	if err := s.Save(r); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if r.ID == "" || r.CreatedAt.IsZero() {
		t.Fatalf("Save did not assign ID and timestamps: %+v", r)
	}

	got, err := s.Load(r.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.FEN != r.FEN || !slices.Equal(got.Moves, r.Moves) || !got.CreatedAt.Equal(r.CreatedAt) {
		t.Errorf("Load = %+v, want %+v", got, r)
	}

	created := r.CreatedAt
	r.Moves = append(r.Moves, "g1f3")
	if err := s.Save(r); err != nil {
		t.Fatalf("Save again: %v", err)
	}
	if !r.CreatedAt.Equal(created) || !r.UpdatedAt.After(created) {
		t.Errorf("timestamps after update: created %v updated %v", r.CreatedAt, r.UpdatedAt)
	}
}

func TestSaveKeepsCreatedAt(t *testing.T) {
	s := openTest(t)

	first := &Record{Moves: []string{"e2e4"}, Result: "*"}
	if err := s.Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A record rebuilt from a game carries the ID but no creation time.
	again := &Record{ID: first.ID, Moves: []string{"e2e4", "e7e5"}, Result: "*"}
	if err := s.Save(again); err != nil {
		t.Fatalf("Save again: %v", err)
	}
	if !again.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", again.CreatedAt, first.CreatedAt)
	}

	got, err := s.Load(first.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.CreatedAt.Equal(first.CreatedAt) || !got.UpdatedAt.After(first.CreatedAt) {
		t.Errorf("stored timestamps: created %v updated %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestLoadMissing(t *testing.T) {
	s := openTest(t)
	if _, err := s.Load("00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load missing: err = %v, want ErrNotFound", err)
	}
	if err := s.Delete("00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete missing: err = %v, want ErrNotFound", err)
	}
	if err := s.Save(&Record{ID: "not-a-uuid"}); err == nil {
		t.Error("Save accepted a malformed id")
	}
}

func TestListAndDelete(t *testing.T) {
	s := openTest(t)

	var ids []string
	for range 3 {
		r := &Record{Result: "*"}
		if err := s.Save(r); err != nil {
			t.Fatalf("Save: %v", err)
		}
		ids = append(ids, r.ID)
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List returned %d games, want 3", len(list))
	}
	// Most recent first.
	if list[0].ID != ids[2] || list[2].ID != ids[0] {
		t.Errorf("List order = %s %s %s", list[0].ID, list[1].ID, list[2].ID)
	}

	if err := s.Delete(ids[1]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, _ = s.List()
	if len(list) != 2 {
		t.Errorf("List after delete returned %d games, want 2", len(list))
	}
}

func TestStats(t *testing.T) {
	s := openTest(t)

	games := []*Record{
		{Status: "checkmate", Result: "1-0"},
		{Status: "checkmate", Result: "0-1"},
		{Status: "stalemate", Result: "1/2-1/2"},
		{Status: "ongoing", Result: "*"},
	}
	for _, r := range games {
		if err := s.Save(r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	// Saving a finished game again must not count it twice.
	if err := s.Save(games[0]); err != nil {
		t.Fatalf("Save: %v", err)
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.GamesFinished != 3 || stats.WhiteWins != 1 || stats.BlackWins != 1 || stats.Draws != 1 {
		t.Errorf("Stats = %+v", stats)
	}
	if stats.ByStatus["checkmate"] != 2 {
		t.Errorf("ByStatus[checkmate] = %d, want 2", stats.ByStatus["checkmate"])
	}
	if rate := stats.DrawRate(); rate < 33 || rate > 34 {
		t.Errorf("DrawRate = %.2f", rate)
	}
}

func TestOpenDirectory(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	r := &Record{Result: "*"}
	if err := s.Save(r); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.Load(r.ID); err != nil {
		t.Errorf("Load after reopen: %v", err)
	}
	if _, err := os.Stat(dir + "/db"); err != nil {
		t.Errorf("database directory missing: %v", err)
	}
}
