package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/netops/internal/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSlotsPutGetDelete(t *testing.T) {
	store := openTestStore(t)
	slots := store.Slots("")

	if _, ok, err := slots.Get("save.v5"); err != nil || ok {
		t.Fatalf("Get() on empty store = ok %v, err %v", ok, err)
	}

	if err := slots.Put("save.v5", []byte("first")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := slots.Put("save.v5", []byte("second")); err != nil {
		t.Fatalf("Put() overwrite failed: %v", err)
	}

	data, ok, err := slots.Get("save.v5")
	if err != nil || !ok {
		t.Fatalf("Get() = ok %v, err %v", ok, err)
	}
	if !bytes.Equal(data, []byte("second")) {
		t.Errorf("Expected overwritten value, got %q", data)
	}

	if err := slots.Delete("save.v5"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, ok, _ := slots.Get("save.v5"); ok {
		t.Error("Slot should be gone after Delete()")
	}
	if err := slots.Delete("missing"); err != nil {
		t.Errorf("Delete() of missing key should not fail: %v", err)
	}
}

func TestSlotsNamespacesAreIsolated(t *testing.T) {
	store := openTestStore(t)

	store.Slots("alice").Put("save.v5", []byte("a"))
	store.Slots("bob").Put("save.v5", []byte("b"))

	data, _, _ := store.Slots("alice").Get("save.v5")
	if string(data) != "a" {
		t.Errorf("alice slot leaked: %q", data)
	}
	if _, ok, _ := store.Slots("").Get("save.v5"); ok {
		t.Error("Local namespace should be empty")
	}

	ns, err := store.Namespaces()
	if err != nil {
		t.Fatalf("Namespaces() failed: %v", err)
	}
	if len(ns) != 2 || ns[0] != "alice" || ns[1] != "bob" {
		t.Errorf("Expected [alice bob], got %v", ns)
	}
}

func TestSaveRunResultAndQueries(t *testing.T) {
	store := openTestStore(t)
	slots := store.Slots("alice")

	results := []engine.RunResult{
		{RunID: "r1", LevelID: 1, Outcome: "complete", Ticks: 400, Earned: 1000},
		{RunID: "r2", LevelID: 1, Outcome: "failed", Reason: "time limit", Ticks: 900},
		{RunID: "r3", LevelID: 1, Outcome: "complete", Ticks: 250, Insane: true},
		{RunID: "r4", LevelID: 2, Outcome: "complete", Ticks: 700},
	}
	for _, r := range results {
		if err := slots.SaveRunResult(r); err != nil {
			t.Fatalf("SaveRunResult() failed: %v", err)
		}
	}
	store.Slots("bob").SaveRunResult(engine.RunResult{RunID: "r5", LevelID: 1, Outcome: "complete", Ticks: 300})

	recent, err := store.RecentRuns("alice", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 4 {
		t.Fatalf("Expected 4 alice runs, got %d", len(recent))
	}
	if recent[0].RunID != "r4" {
		t.Errorf("Expected newest run first, got %s", recent[0].RunID)
	}
	if recent[2].Reason != "time limit" {
		t.Errorf("Reason not stored: %q", recent[2].Reason)
	}
	if !recent[1].Insane {
		t.Error("Insane flag not stored")
	}

	best, err := store.BestRuns(1, 2)
	if err != nil {
		t.Fatalf("BestRuns() failed: %v", err)
	}
	if len(best) != 2 || best[0].Ticks != 250 || best[1].Ticks != 300 {
		t.Errorf("Unexpected best runs: %+v", best)
	}
	if best[1].Namespace != "bob" {
		t.Errorf("Expected bob in second place, got %s", best[1].Namespace)
	}
}

func TestGetLevelStats(t *testing.T) {
	store := openTestStore(t)
	slots := store.Slots("")

	slots.SaveRunResult(engine.RunResult{RunID: "a", LevelID: 1, Outcome: "failed", Ticks: 100})
	slots.SaveRunResult(engine.RunResult{RunID: "b", LevelID: 1, Outcome: "complete", Ticks: 500})
	slots.SaveRunResult(engine.RunResult{RunID: "c", LevelID: 1, Outcome: "complete", Ticks: 450})
	slots.SaveRunResult(engine.RunResult{RunID: "d", LevelID: 3, Outcome: "failed", Ticks: 50})

	stats, err := store.GetLevelStats("")
	if err != nil {
		t.Fatalf("GetLevelStats() failed: %v", err)
	}

	l1 := stats[1]
	if l1 == nil {
		t.Fatal("Missing stats for level 1")
	}
	if l1.Attempts != 3 || l1.Completions != 2 || l1.BestTicks != 450 {
		t.Errorf("Unexpected level 1 stats: %+v", l1)
	}
	if l3 := stats[3]; l3 == nil || l3.Completions != 0 || l3.BestTicks != 0 {
		t.Errorf("Unexpected level 3 stats: %+v", l3)
	}
}

func TestClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.Slots("a").SaveRunResult(engine.RunResult{RunID: "1", LevelID: 1, Outcome: "complete"})
	store.Slots("b").SaveRunResult(engine.RunResult{RunID: "2", LevelID: 1, Outcome: "complete"})

	if err := store.ClearRuns("a"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	if runs, _ := store.RecentRuns("a", 10); len(runs) != 0 {
		t.Errorf("Expected no runs for a, got %d", len(runs))
	}
	if runs, _ := store.RecentRuns("b", 10); len(runs) != 1 {
		t.Error("Runs of b should not be affected by clearing a")
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
