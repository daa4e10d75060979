package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, sc := range []int{100, 50, 200} {
		if _, err := store.SaveScore(ScoreEntry{Mode: "classic", Score: sc}); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore(ScoreEntry{Mode: "level", Score: 500, Level: 12, Difficulty: "hard"}); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("classic", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in descending order: %v", scores)
	}
	if scores[0].Level != 1 || scores[0].Difficulty != "normal" || scores[0].RunID == "" {
		t.Errorf("defaults not applied: %+v", scores[0])
	}

	level, _ := store.TopScores("level", 10)
	if len(level) != 1 || level[0].Level != 12 || level[0].Difficulty != "hard" {
		t.Errorf("level scores = %+v", level)
	}
}

func TestStoreRunIDs(t *testing.T) {
	store := openTestStore(t)

	a, _ := store.SaveScore(ScoreEntry{Mode: "classic", Score: 1})
	b, _ := store.SaveScore(ScoreEntry{Mode: "classic", Score: 2})
	if a == "" || a == b {
		t.Errorf("run ids should be unique, got %q and %q", a, b)
	}

	if _, err := store.SaveScore(ScoreEntry{RunID: a, Mode: "classic", Score: 3}); err == nil {
		t.Error("duplicate run id should be rejected")
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore(ScoreEntry{Mode: "timed", Score: (i + 1) * 100})
	}

	scores, err := store.TopScores("timed", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("daily")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty mode, got %d", high)
	}

	store.SaveScore(ScoreEntry{Mode: "daily", Score: 100})
	store.SaveScore(ScoreEntry{Mode: "daily", Score: 300})
	store.SaveScore(ScoreEntry{Mode: "daily", Score: 200})

	if high, _ = store.HighScore("daily"); high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore(ScoreEntry{Mode: "classic", Score: 100})
	store.SaveScore(ScoreEntry{Mode: "classic", Score: 200})
	store.SaveScore(ScoreEntry{Mode: "timed", Score: 300})

	if err := store.ClearScores("classic"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if scores, _ := store.TopScores("classic", 10); len(scores) != 0 {
		t.Errorf("Expected 0 classic scores after clear, got %d", len(scores))
	}
	if scores, _ := store.TopScores("timed", 10); len(scores) != 1 {
		t.Error("timed scores should not be affected by clearing classic")
	}
}

func TestStorePlayerScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore(ScoreEntry{Player: "ana", Mode: "classic", Score: 10})
	store.SaveScore(ScoreEntry{Player: "bo", Mode: "classic", Score: 20})
	store.SaveScore(ScoreEntry{Player: "ana", Mode: "timed", Score: 30})

	scores, err := store.PlayerScores("ana", 10)
	if err != nil {
		t.Fatalf("PlayerScores() failed: %v", err)
	}
	if len(scores) != 2 || scores[0].Score != 30 {
		t.Errorf("ana's scores = %+v", scores)
	}
}

func TestStoreModeStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore(ScoreEntry{Mode: "level", Score: 100, Level: 3})
	store.SaveScore(ScoreEntry{Mode: "level", Score: 300, Level: 5})
	store.SaveScore(ScoreEntry{Mode: "classic", Score: 50})

	stats, err := store.AllModeStats()
	if err != nil {
		t.Fatalf("AllModeStats() failed: %v", err)
	}
	lv := stats["level"]
	if lv == nil || lv.GamesCount != 2 || lv.HighScore != 300 || lv.AvgScore != 200 || lv.BestLevel != 5 {
		t.Errorf("level stats = %+v", lv)
	}
	if stats["classic"] == nil || stats["timed"] != nil {
		t.Errorf("unexpected stats keys: %v", stats)
	}
}
