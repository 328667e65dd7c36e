package main

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB("sqlite", filepath.Join(t.TempDir(), "telemetry.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAnalyticsFlushOnStop(t *testing.T) {
	db := openTestDB(t)
	a := NewAnalytics(db)
	a.Track(EvtGameStart, "run1", "", "")
	a.Track(EvtPlayerJoin, "run1", "p1", "")
	a.Track(EvtPlayerJoin, "run1", "p2", "")
	a.Track(EvtZombieKill, "run1", "", "")
	a.Stop()

	counts, err := a.EventCounts(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("event counts: %v", err)
	}
	if counts[EvtPlayerJoin] != 2 {
		t.Errorf("expected 2 joins, got %d", counts[EvtPlayerJoin])
	}
	if counts[EvtGameStart] != 1 || counts[EvtZombieKill] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}

	future, err := a.EventCounts(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(future) != 0 {
		t.Errorf("expected nothing after the window, got %v", future)
	}
}

func TestAnalyticsRecentRuns(t *testing.T) {
	db := openTestDB(t)
	a := NewAnalytics(db)
	a.Track(EvtGameOver, "run1", "", `{"days":3}`)
	a.Track(EvtGameOver, "run2", "", "")
	a.Stop()

	runs, err := a.RecentRuns(10)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	days := map[string]int{}
	for _, r := range runs {
		days[r.RunID] = r.Days
		if r.EndedAt == "" {
			t.Errorf("run %s missing end time", r.RunID)
		}
	}
	if days["run1"] != 3 || days["run2"] != 0 {
		t.Errorf("unexpected days %v", days)
	}

	limited, err := a.RecentRuns(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit to apply, got %d", len(limited))
	}
}

func TestAnalyticsNilIsSafe(t *testing.T) {
	var a *Analytics
	a.Track(EvtCraft, "run", "p", "")
	a.SetLive(LiveMetrics{Players: 3})
	if a.Live().Players != 0 {
		t.Error("nil analytics should report zero metrics")
	}
	if counts, err := a.EventCounts(time.Now()); counts != nil || err != nil {
		t.Error("nil analytics should return nothing")
	}
	if runs, err := a.RecentRuns(5); runs != nil || err != nil {
		t.Error("nil analytics should return no runs")
	}
	a.Stop()
}

func TestAnalyticsLiveMetrics(t *testing.T) {
	a := NewAnalytics(nil)
	defer a.Stop()
	a.SetLive(LiveMetrics{Players: 2, DayNumber: 4})
	if got := a.Live(); got.Players != 2 || got.DayNumber != 4 {
		t.Errorf("unexpected live metrics %+v", got)
	}
}

func TestRebind(t *testing.T) {
	pg := &DB{driver: "postgres"}
	if got := pg.rebind("SELECT a FROM t WHERE x = ? AND y = ?"); got != "SELECT a FROM t WHERE x = $1 AND y = $2" {
		t.Errorf("unexpected postgres query %q", got)
	}
	lite := &DB{driver: "sqlite"}
	if got := lite.rebind("x = ?"); got != "x = ?" {
		t.Errorf("sqlite queries should be left alone, got %q", got)
	}
}

func TestOpenDBRejectsUnknownDriver(t *testing.T) {
	if _, err := OpenDB("oracle", "dsn"); err == nil {
		t.Error("expected an error for an unregistered driver")
	}
}
