package shift

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kintai-app/kintai-backend-go/internal/domain/correction"
	"github.com/kintai-app/kintai-backend-go/internal/domain/shift"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/clockwork"
)

type ShiftServiceImpl struct {
	shiftRepo      shift.ShiftRepository
	correctionRepo correction.CorrectionRepository
	clock          clockwork.Clock
	loc            *time.Location
}

func NewShiftService(
	shiftRepo shift.ShiftRepository,
	correctionRepo correction.CorrectionRepository,
	clock clockwork.Clock,
	loc *time.Location,
) shift.ShiftService {
	return &ShiftServiceImpl{
		shiftRepo:      shiftRepo,
		correctionRepo: correctionRepo,
		clock:          clock,
		loc:            loc,
	}
}

func userIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}
	return userID, nil
}

// workDate truncates an instant to its calendar day in the configured zone.
func (s *ShiftServiceImpl) workDate(t time.Time) time.Time {
	local := t.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
}

// openShift finds the shift a punch applies to: today's record if it is
// still open, otherwise yesterday's (a night shift crossing midnight).
func (s *ShiftServiceImpl) openShift(ctx context.Context, userID string, now time.Time) (*shift.ShiftRecord, error) {
	today := s.workDate(now)
	record, err := s.shiftRepo.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get shift record: %w", err)
	}
	if record != nil && record.ClockOut == nil {
		return record, nil
	}
	yesterday := today.AddDate(0, 0, -1)
	previous, err := s.shiftRepo.GetByUserAndDate(ctx, userID, yesterday)
	if err != nil {
		return nil, fmt.Errorf("failed to get shift record: %w", err)
	}
	if previous != nil && previous.ClockIn != nil && previous.ClockOut == nil {
		return previous, nil
	}
	return record, nil
}

func (s *ShiftServiceImpl) guardPendingCorrection(ctx context.Context, userID string, workDate time.Time) error {
	hasPending, err := s.correctionRepo.HasPending(ctx, userID, workDate)
	if err != nil {
		return fmt.Errorf("failed to check pending correction: %w", err)
	}
	if hasPending {
		return shift.ErrLockedByPendingCorrection
	}
	return nil
}

// ClockIn implements shift.ShiftService.
func (s *ShiftServiceImpl) ClockIn(ctx context.Context) (shift.ShiftResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	now := s.clock.Now().In(s.loc)
	today := s.workDate(now)

	if err := s.guardPendingCorrection(ctx, userID, today); err != nil {
		return shift.ShiftResponse{}, err
	}

	existing, err := s.shiftRepo.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to get shift record: %w", err)
	}
	if existing != nil && existing.ClockIn != nil {
		return shift.ShiftResponse{}, shift.ErrAlreadyClockedIn
	}

	clockIn := now
	if existing != nil {
		// A record without a clock-in can be left behind by an approved
		// correction; punch onto it rather than creating a second row.
		existing.ClockIn = &clockIn
		shift.Recalculate(existing)
		if err := s.shiftRepo.Update(ctx, *existing); err != nil {
			return shift.ShiftResponse{}, fmt.Errorf("failed to update shift record: %w", err)
		}
		return *shift.ToResponse(existing), nil
	}

	record := shift.ShiftRecord{
		UserID:   userID,
		WorkDate: today,
		ClockIn:  &clockIn,
	}
	shift.Recalculate(&record)

	created, err := s.shiftRepo.Create(ctx, record)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to create shift record: %w", err)
	}

	return *shift.ToResponse(&created), nil
}

// ClockOut implements shift.ShiftService. Clock-out while a break is open is
// rejected; the engine never fabricates a break end.
func (s *ShiftServiceImpl) ClockOut(ctx context.Context) (shift.ShiftResponse, error) {
	return s.transition(ctx, func(record *shift.ShiftRecord, at time.Time) error {
		return record.SetClockOut(at)
	})
}

// BreakStart implements shift.ShiftService.
func (s *ShiftServiceImpl) BreakStart(ctx context.Context) (shift.ShiftResponse, error) {
	return s.transition(ctx, func(record *shift.ShiftRecord, at time.Time) error {
		return record.AddBreakStart(at)
	})
}

// BreakEnd implements shift.ShiftService.
func (s *ShiftServiceImpl) BreakEnd(ctx context.Context) (shift.ShiftResponse, error) {
	return s.transition(ctx, func(record *shift.ShiftRecord, at time.Time) error {
		return record.CloseLatestOpenBreak(at)
	})
}

// transition runs one punch against the current open shift: guard, mutate,
// recompute totals, persist. A rejected transition leaves no partial state.
func (s *ShiftServiceImpl) transition(ctx context.Context, apply func(*shift.ShiftRecord, time.Time) error) (shift.ShiftResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	now := s.clock.Now().In(s.loc)
	record, err := s.openShift(ctx, userID, now)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if record == nil || record.ClockIn == nil {
		return shift.ShiftResponse{}, shift.ErrNotClockedIn
	}

	if err := s.guardPendingCorrection(ctx, userID, record.WorkDate); err != nil {
		return shift.ShiftResponse{}, err
	}

	if err := apply(record, now); err != nil {
		return shift.ShiftResponse{}, err
	}
	shift.Recalculate(record)

	if err := s.shiftRepo.Update(ctx, *record); err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to update shift record: %w", err)
	}

	return *shift.ToResponse(record), nil
}

// Today implements shift.ShiftService.
func (s *ShiftServiceImpl) Today(ctx context.Context) (shift.TodayResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return shift.TodayResponse{}, err
	}

	now := s.clock.Now().In(s.loc)
	record, err := s.openShift(ctx, userID, now)
	if err != nil {
		return shift.TodayResponse{}, err
	}

	date := s.workDate(now)
	if record != nil {
		date = record.WorkDate
	}
	hasPending, err := s.correctionRepo.HasPending(ctx, userID, date)
	if err != nil {
		return shift.TodayResponse{}, fmt.Errorf("failed to check pending correction: %w", err)
	}

	status := record.Status()
	return shift.TodayResponse{
		Date:                 date.Format("2006-01-02"),
		Status:               string(status),
		Shift:                shift.ToResponse(record),
		HasPendingCorrection: hasPending,
		CanClockIn:           status == shift.StatusNotClockedIn && !hasPending,
		CanClockOut:          status == shift.StatusWorking && !hasPending,
		CanBreakStart:        status == shift.StatusWorking && !hasPending,
		CanBreakEnd:          status == shift.StatusOnBreak && !hasPending,
	}, nil
}
