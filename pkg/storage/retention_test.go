package storage

import (
	"context"
	"testing"
	"time"

	"crednova/polaris/pkg/config"
	"crednova/polaris/pkg/decision"
)

// TestPruner_ByAge tests age-based pruning.
func TestPruner_ByAge(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	stale := testRecord(decision.StatusApproved, now.AddDate(0, 0, -40))
	fresh := testRecord(decision.StatusApproved, now.AddDate(0, 0, -5))
	for _, r := range []*Record{stale, fresh} {
		if err := store.Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	pruner := NewPruner(store, config.RetentionConfig{Days: 30}, nil)
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if _, err := store.Get(ctx, fresh.ID); err != nil {
		t.Errorf("fresh record removed: %v", err)
	}
}

// TestPruner_ByCount tests overflow pruning keeps the newest records.
func TestPruner_ByCount(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	var newest *Record
	for i := 0; i < 6; i++ {
		r := testRecord(decision.StatusApproved, now.Add(-time.Duration(i)*time.Minute))
		if i == 0 {
			newest = r
		}
		if err := store.Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	pruner := NewPruner(store, config.RetentionConfig{MaxRecords: 4}, nil)
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	count, _ := store.Count(ctx)
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}
	if _, err := store.Get(ctx, newest.ID); err != nil {
		t.Errorf("newest record removed: %v", err)
	}
}

// TestPruner_NothingToDo tests that a pruner with no limits deletes
// nothing.
func TestPruner_NothingToDo(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, testRecord(decision.StatusApproved, time.Now().UTC())); err != nil {
		t.Fatalf("Save: %v", err)
	}

	pruner := NewPruner(store, config.RetentionConfig{}, nil)
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}
}

// TestScheduler_EmptySchedule tests that the scheduler is a no-op without
// a cron expression.
func TestScheduler_EmptySchedule(t *testing.T) {
	pruner := NewPruner(NewMemoryStore(), config.RetentionConfig{}, nil)
	scheduler := NewScheduler(pruner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	scheduler.Stop()
}

// TestScheduler_InvalidSchedule tests the cron expression guard.
func TestScheduler_InvalidSchedule(t *testing.T) {
	pruner := NewPruner(NewMemoryStore(), config.RetentionConfig{PruneSchedule: "every day at dawn"}, nil)
	scheduler := NewScheduler(pruner)

	if err := scheduler.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}
