package correction

import (
	"context"
	"time"
)

// CorrectionRepository defines data access for correction applications and
// their proposed break intervals.
type CorrectionRepository interface {
	// Create inserts a new pending application with its breaks
	Create(ctx context.Context, app CorrectionApplication) (CorrectionApplication, error)

	// GetByID retrieves an application by ID
	GetByID(ctx context.Context, id string) (CorrectionApplication, error)

	// GetLatestByUserAndDate retrieves the most recently updated application
	// for a work date, or nil when none exists. Legacy data may hold several
	// applications per day; only the latest one participates in resolution.
	GetLatestByUserAndDate(ctx context.Context, userID string, workDate time.Time) (*CorrectionApplication, error)

	// HasPending reports whether a pending application locks the work date
	HasPending(ctx context.Context, userID string, workDate time.Time) (bool, error)

	// List retrieves applications with filters and pagination
	List(ctx context.Context, filter ListFilter) ([]CorrectionApplication, int64, error)

	// MarkApproved flips pending to false. The flip is one-way; approving an
	// already approved application reports ErrAlreadyApproved.
	MarkApproved(ctx context.Context, id string, at time.Time) error
}
