package correction

import "context"

// CorrectionService runs the submission and approval workflow.
type CorrectionService interface {
	// Submit validates the raw fields and stores a pending application
	Submit(ctx context.Context, req SubmitCorrectionRequest) (CorrectionResponse, error)

	// Approve merges the application into the day's shift record, recomputes
	// its totals and flips pending to false, all inside one transaction
	Approve(ctx context.Context, id string) (CorrectionResponse, error)

	Get(ctx context.Context, id string) (CorrectionResponse, error)
	List(ctx context.Context, filter ListFilter) (ListCorrectionsResponse, error)
}
