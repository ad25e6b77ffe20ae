// Package storage persists decision records for audit and retrieval.
// Two backends are provided: a SQLite store for durable deployments and
// an in-memory store for tests and ephemeral runs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"crednova/polaris/pkg/decision"
)

// Record is a persisted decision with its originating application and
// request metadata.
type Record struct {
	ID             uuid.UUID            `json:"id"`
	Application    decision.Application `json:"application"`
	Decision       decision.Decision    `json:"decision"`
	CreatedAt      time.Time            `json:"created_at"`
	ProcessingTime time.Duration        `json:"processing_time"`
}

// ListFilter narrows List results. Zero values match everything.
type ListFilter struct {
	// Status filters by decision status when non-empty.
	Status decision.DecisionStatus

	// Since excludes records created before this time when non-zero.
	Since time.Time

	// Limit caps the number of returned records. Zero means no cap.
	Limit int
}

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("decision record not found")

var errDuplicateID = errors.New("record id already exists")

// StorageError wraps a backend failure with the backend name and operation.
type StorageError struct {
	Backend string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %s failed: %v", e.Backend, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a StorageError.
func NewStorageError(backend, op string, err error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Err: err}
}

// Store persists and retrieves decision records.
type Store interface {
	// Save persists a record. Saving an existing ID is an error.
	Save(ctx context.Context, record *Record) error

	// Get retrieves a record by ID. Returns ErrNotFound when absent.
	Get(ctx context.Context, id uuid.UUID) (*Record, error)

	// List returns records matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]*Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// DeleteBefore removes records created before the cutoff and
	// returns the number deleted.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteOldest removes the n oldest records and returns the number
	// deleted.
	DeleteOldest(ctx context.Context, n int64) (int64, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
