package report

import "context"

// ReportService folds resolved day views over calendar ranges. Monthly views
// resolve with the latest-edit overlay policy; the user-facing day detail
// prefers the correction when one exists.
type ReportService interface {
	Daily(ctx context.Context, userID string, date string) (DayDetailResponse, error)
	Monthly(ctx context.Context, userID string, month string) (MonthlySummaryResponse, error)

	// MonthlyCSV renders the same fold as CSV (date, clock in, clock out,
	// break, work). Unset durations render as empty cells, zero as 0:00.
	MonthlyCSV(ctx context.Context, userID string, month string) ([]byte, string, error)
}
