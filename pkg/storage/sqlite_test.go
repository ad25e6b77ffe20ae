package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"crednova/polaris/pkg/decision"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	cfg := DefaultSQLiteConfig()
	cfg.Path = filepath.Join(t.TempDir(), "decisions.db")

	store, err := NewSQLiteStore(cfg, nil)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestSQLiteStore_RoundTrip tests persistence through the SQLite backend
// including the JSON-encoded decision payload.
func TestSQLiteStore_RoundTrip(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	record := testRecord(decision.StatusApproved, time.Now().UTC().Truncate(time.Second))
	record.Decision.RiskCategory = decision.RiskLow
	record.Decision.Terms = &decision.LoanTerms{
		ApprovedAmount: 225000,
		InterestRate:   9.55,
		TenureMonths:   360,
		MonthlyPayment: 1900.07,
	}

	if err := store.Save(ctx, record); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Decision.RiskCategory != decision.RiskLow {
		t.Errorf("risk category = %v, want low", got.Decision.RiskCategory)
	}
	if got.Decision.Terms == nil || got.Decision.Terms.ApprovedAmount != 225000 {
		t.Errorf("terms not preserved: %+v", got.Decision.Terms)
	}
	if got.ProcessingTime != record.ProcessingTime {
		t.Errorf("processing time = %v, want %v", got.ProcessingTime, record.ProcessingTime)
	}
}

// TestSQLiteStore_NotFound tests the typed not-found error.
func TestSQLiteStore_NotFound(t *testing.T) {
	store := newTestSQLiteStore(t)

	_, err := store.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// TestSQLiteStore_ListAndPrune tests filtering and the deletion
// operations used by retention.
func TestSQLiteStore_ListAndPrune(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	for i := 0; i < 4; i++ {
		status := decision.StatusApproved
		if i%2 == 1 {
			status = decision.StatusManualReview
		}
		record := testRecord(status, base.Add(-time.Duration(i)*time.Hour))
		if err := store.Save(ctx, record); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	records, err := store.List(ctx, ListFilter{Status: decision.StatusManualReview})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}

	deleted, err := store.DeleteBefore(ctx, base.Add(-90*time.Minute))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	deleted, err = store.DeleteOldest(ctx, 1)
	if err != nil {
		t.Fatalf("DeleteOldest: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
