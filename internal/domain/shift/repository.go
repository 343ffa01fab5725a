package shift

import (
	"context"
	"time"
)

// ShiftRepository defines data access for shift records and their break log.
// The break log is loaded and stored with the record, in insertion order.
type ShiftRepository interface {
	// Create inserts a new shift record together with its breaks
	Create(ctx context.Context, record ShiftRecord) (ShiftRecord, error)

	// GetByID retrieves a shift record by ID
	GetByID(ctx context.Context, id string) (ShiftRecord, error)

	// GetByUserAndDate retrieves the shift attributed to a work date,
	// or nil when the user has not clocked in that day
	GetByUserAndDate(ctx context.Context, userID string, workDate time.Time) (*ShiftRecord, error)

	// Update persists the record and rewrites its break log
	Update(ctx context.Context, record ShiftRecord) error

	// ListByUserAndRange retrieves records with workDate in [from, to], ascending
	ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]ShiftRecord, error)
}
