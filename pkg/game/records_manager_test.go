package game

import (
	"testing"

	"github.com/google/uuid"
)

func TestRecordsManagerAddAssignsID(t *testing.T) {
	rm := NewRecordsManager(nil)

	isBest, err := rm.Add(RunRecord{WaveReached: 3, Kills: 20})
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if !isBest {
		t.Error("first run should be the best run")
	}

	recent := rm.Recent()
	if len(recent) != 1 {
		t.Fatalf("expected 1 recent run, got %d", len(recent))
	}
	if _, err := uuid.Parse(recent[0].ID); err != nil {
		t.Errorf("run ID %q is not a UUID: %v", recent[0].ID, err)
	}
	if recent[0].FinishedAt.IsZero() {
		t.Error("FinishedAt should be set")
	}
}

func TestRecordsManagerBestRanking(t *testing.T) {
	rm := NewRecordsManager(nil)

	runs := []struct {
		rec      RunRecord
		wantBest bool
	}{
		{RunRecord{WaveReached: 2, Kills: 10, Duration: 90}, true},
		{RunRecord{WaveReached: 2, Kills: 8, Duration: 60}, false},
		{RunRecord{WaveReached: 2, Kills: 10, Duration: 80}, true},
		{RunRecord{WaveReached: 4, Kills: 1, Duration: 300}, true},
		{RunRecord{WaveReached: 3, Kills: 99, Duration: 10}, false},
	}
	for i, r := range runs {
		got, err := rm.Add(r.rec)
		if err != nil {
			t.Fatalf("run %d: Add() error: %v", i, err)
		}
		if got != r.wantBest {
			t.Errorf("run %d: isBest = %v, want %v", i, got, r.wantBest)
		}
	}

	best, ok := rm.Best()
	if !ok || best.WaveReached != 4 {
		t.Errorf("best run = %+v, want wave 4", best)
	}

	board := rm.Leaderboard()
	if board[0].WaveReached != 4 || board[1].WaveReached != 3 {
		t.Errorf("leaderboard order wrong: %+v", board)
	}
	if recent := rm.Recent(); recent[0].WaveReached != 3 {
		t.Errorf("recent list should be newest first, got %+v", recent[0])
	}
}

func TestRecordsManagerRecentCap(t *testing.T) {
	rm := NewRecordsManager(nil)
	for i := 0; i < maxRecentRuns+5; i++ {
		if _, err := rm.Add(RunRecord{WaveReached: 1, Kills: i}); err != nil {
			t.Fatalf("Add() error: %v", err)
		}
	}
	if got := len(rm.Recent()); got != maxRecentRuns {
		t.Errorf("recent list length = %d, want %d", got, maxRecentRuns)
	}
}

func TestRecordsManagerPersists(t *testing.T) {
	manager := createTestGdataManager(t, "wavearena_records_test")

	rm := NewRecordsManager(manager)
	if _, err := rm.Add(RunRecord{Seed: 42, WaveReached: 5, Kills: 61, BossKills: 2}); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	reloaded := NewRecordsManager(manager)
	best, ok := reloaded.Best()
	if !ok {
		t.Fatal("best run not persisted")
	}
	if best.Seed != 42 || best.BossKills != 2 {
		t.Errorf("reloaded best = %+v", best)
	}
	if len(reloaded.Recent()) != 1 {
		t.Errorf("expected 1 persisted run, got %d", len(reloaded.Recent()))
	}
}
