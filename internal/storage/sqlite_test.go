package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func run(demo string, frames int, elapsed time.Duration) BenchRun {
	return BenchRun{DemoID: demo, Width: 400, Height: 240, Frames: frames, Elapsed: elapsed, Version: "test"}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestBenchRunRates(t *testing.T) {
	r := run("bars", 120, 2*time.Second)
	if r.FPS() != 60 {
		t.Errorf("FPS() = %v, expected 60", r.FPS())
	}
	if r.FrameTime() != time.Second/60 {
		t.Errorf("FrameTime() = %v, expected %v", r.FrameTime(), time.Second/60)
	}
	var zero BenchRun
	if zero.FPS() != 0 || zero.FrameTime() != 0 {
		t.Error("zero run expected zero rates")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTemp(t)

	// 100, 50 and 200 fps
	for _, r := range []BenchRun{
		run("bars", 100, time.Second),
		run("bars", 50, time.Second),
		run("bars", 400, 2*time.Second),
		run("mode7", 30, time.Second),
	} {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	runs, err := store.TopRuns("bars", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("TopRuns() returned %d runs, expected 3", len(runs))
	}
	want := []float64{200, 100, 50}
	for i, w := range want {
		if got := runs[i].FPS(); got != w {
			t.Errorf("runs[%d].FPS() = %v, expected %v", i, got, w)
		}
	}
	if runs[0].Elapsed != 2*time.Second || runs[0].Width != 400 || runs[0].Version != "test" {
		t.Errorf("runs[0] = %+v", runs[0])
	}

	other, err := store.TopRuns("mode7", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(other) != 1 || other[0].Frames != 30 {
		t.Errorf("TopRuns(mode7) = %+v", other)
	}
}

func TestStoreTopRunsLimit(t *testing.T) {
	store := openTemp(t)
	for i := 1; i <= 15; i++ {
		store.SaveRun(run("bars", i*10, time.Second))
	}

	runs, err := store.TopRuns("bars", 5)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 5 {
		t.Errorf("TopRuns() returned %d runs, expected 5", len(runs))
	}
	if runs[0].Frames != 150 {
		t.Errorf("runs[0].Frames = %d, expected 150", runs[0].Frames)
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTemp(t)
	store.SaveRun(run("bars", 10, time.Second))
	store.SaveRun(run("mode7", 20, time.Second))
	last, _ := store.SaveRun(run("bars", 30, time.Second))

	all, err := store.RecentRuns("", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(all) != 3 || all[0].ID != last {
		t.Errorf("RecentRuns(\"\") = %+v, expected 3 runs newest first", all)
	}

	bars, err := store.RecentRuns("bars", 1)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(bars) != 1 || bars[0].Frames != 30 {
		t.Errorf("RecentRuns(bars, 1) = %+v", bars)
	}
}

func TestStoreRunByID(t *testing.T) {
	store := openTemp(t)
	r := run("ripple", 60, time.Second)
	r.Aborted = 2
	id, err := store.SaveRun(r)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	got, err := store.RunByID(id)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if got == nil || got.DemoID != "ripple" || got.Aborted != 2 {
		t.Errorf("RunByID() = %+v", got)
	}

	missing, err := store.RunByID(id + 100)
	if err != nil || missing != nil {
		t.Errorf("RunByID(missing) = %v, %v; expected nil, nil", missing, err)
	}
}

func TestStoreRejectsEmptyDemo(t *testing.T) {
	store := openTemp(t)
	if _, err := store.SaveRun(BenchRun{Frames: 1, Elapsed: time.Second}); err == nil {
		t.Error("SaveRun() without demo id expected error")
	}
}

func TestStoreBestFPS(t *testing.T) {
	store := openTemp(t)

	best, err := store.BestFPS("bars")
	if err != nil {
		t.Fatalf("BestFPS() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("BestFPS() on empty = %v, expected 0", best)
	}

	store.SaveRun(run("bars", 100, time.Second))
	store.SaveRun(run("bars", 300, time.Second))
	store.SaveRun(run("bars", 200, time.Second))

	best, err = store.BestFPS("bars")
	if err != nil {
		t.Fatalf("BestFPS() failed: %v", err)
	}
	if best != 300 {
		t.Errorf("BestFPS() = %v, expected 300", best)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTemp(t)
	store.SaveRun(run("bars", 100, time.Second))
	store.SaveRun(run("mode7", 100, time.Second))

	if err := store.ClearRuns("bars"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	runs, _ := store.TopRuns("bars", 10)
	if len(runs) != 0 {
		t.Errorf("expected 0 runs after clear, got %d", len(runs))
	}
	runs, _ = store.TopRuns("mode7", 10)
	if len(runs) != 1 {
		t.Errorf("ClearRuns(bars) removed mode7 runs")
	}
}

func TestStoreDemoStats(t *testing.T) {
	store := openTemp(t)
	r := run("bars", 100, time.Second)
	r.Aborted = 1
	store.SaveRun(r)
	store.SaveRun(run("bars", 300, time.Second))
	store.SaveRun(run("cycle", 50, time.Second))

	stats, err := store.GetDemoStats("bars")
	if err != nil {
		t.Fatalf("GetDemoStats() failed: %v", err)
	}
	if stats.Runs != 2 || stats.BestFPS != 300 || stats.AvgFPS != 200 || stats.Frames != 400 || stats.Aborted != 1 {
		t.Errorf("GetDemoStats(bars) = %+v", stats)
	}

	empty, err := store.GetDemoStats("none")
	if err != nil {
		t.Fatalf("GetDemoStats(none) failed: %v", err)
	}
	if empty.Runs != 0 || !empty.LastRun.IsZero() {
		t.Errorf("GetDemoStats(none) = %+v", empty)
	}

	all, err := store.GetAllDemoStats()
	if err != nil {
		t.Fatalf("GetAllDemoStats() failed: %v", err)
	}
	if len(all) != 2 || all["cycle"] == nil || all["cycle"].Runs != 1 {
		t.Errorf("GetAllDemoStats() = %v", all)
	}
}

func TestStoreNestedPath(t *testing.T) {
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
