package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"crednova/polaris/pkg/decision"
)

func testRecord(status decision.DecisionStatus, createdAt time.Time) *Record {
	return &Record{
		ID: uuid.New(),
		Application: decision.Application{
			Age:             35,
			AnnualSalary:    75000,
			CreditScore:     720,
			LoanAmount:      250000,
			ExistingLoans:   1,
			MonthlyIncome:   6250,
			EmploymentYears: 8,
		},
		Decision: decision.Decision{
			Status: status,
			Reason: "test",
		},
		CreatedAt:      createdAt,
		ProcessingTime: 12 * time.Millisecond,
	}
}

// TestMemoryStore_SaveGet tests the round trip through the in-memory
// backend.
func TestMemoryStore_SaveGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	record := testRecord(decision.StatusApproved, time.Now().UTC())
	if err := store.Save(ctx, record); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != record.ID {
		t.Errorf("id = %v, want %v", got.ID, record.ID)
	}
	if got.Decision.Status != decision.StatusApproved {
		t.Errorf("status = %v, want approved", got.Decision.Status)
	}
	if got.Application.CreditScore != 720 {
		t.Errorf("application not preserved: %+v", got.Application)
	}
}

// TestMemoryStore_GetMissing tests the typed not-found error.
func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// TestMemoryStore_DuplicateSave tests that IDs are unique.
func TestMemoryStore_DuplicateSave(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	record := testRecord(decision.StatusApproved, time.Now().UTC())
	if err := store.Save(ctx, record); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, record); err == nil {
		t.Fatal("expected error on duplicate save")
	}
}

// TestMemoryStore_List tests filtering and ordering.
func TestMemoryStore_List(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Now().UTC()

	oldest := testRecord(decision.StatusRejected, base.Add(-3*time.Hour))
	middle := testRecord(decision.StatusApproved, base.Add(-2*time.Hour))
	newest := testRecord(decision.StatusApproved, base.Add(-1*time.Hour))
	for _, r := range []*Record{oldest, middle, newest} {
		if err := store.Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	t.Run("all newest first", func(t *testing.T) {
		records, err := store.List(ctx, ListFilter{})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("len = %d, want 3", len(records))
		}
		if records[0].ID != newest.ID || records[2].ID != oldest.ID {
			t.Error("records not ordered newest first")
		}
	})

	t.Run("status filter", func(t *testing.T) {
		records, err := store.List(ctx, ListFilter{Status: decision.StatusRejected})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(records) != 1 || records[0].ID != oldest.ID {
			t.Errorf("records = %v, want only the rejected one", records)
		}
	})

	t.Run("since filter", func(t *testing.T) {
		records, err := store.List(ctx, ListFilter{Since: base.Add(-90 * time.Minute)})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(records) != 1 || records[0].ID != newest.ID {
			t.Errorf("records = %v, want only the newest", records)
		}
	})

	t.Run("limit", func(t *testing.T) {
		records, err := store.List(ctx, ListFilter{Limit: 2})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("len = %d, want 2", len(records))
		}
	})
}

// TestMemoryStore_Deletion tests age-based and count-based deletion.
func TestMemoryStore_Deletion(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		r := testRecord(decision.StatusApproved, base.Add(-time.Duration(i)*time.Hour))
		if err := store.Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	deleted, err := store.DeleteBefore(ctx, base.Add(-150*time.Minute))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	deleted, err = store.DeleteOldest(ctx, 2)
	if err != nil {
		t.Fatalf("DeleteOldest: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
