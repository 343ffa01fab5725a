package shift

import "context"

// ShiftService drives the punch state machine for the authenticated user.
// Every transition stamps with the injected clock, recomputes the cached
// minute totals and persists the record before returning.
type ShiftService interface {
	ClockIn(ctx context.Context) (ShiftResponse, error)
	ClockOut(ctx context.Context) (ShiftResponse, error)
	BreakStart(ctx context.Context) (ShiftResponse, error)
	BreakEnd(ctx context.Context) (ShiftResponse, error)

	// Today reports the current day's record and permitted actions
	Today(ctx context.Context) (TodayResponse, error)
}
