package correction

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kintai-app/kintai-backend-go/internal/domain/correction"
	"github.com/kintai-app/kintai-backend-go/internal/domain/shift"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/clockwork"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/database"
)

type CorrectionServiceImpl struct {
	tx             database.TxRunner
	correctionRepo correction.CorrectionRepository
	shiftRepo      shift.ShiftRepository
	clock          clockwork.Clock
	loc            *time.Location
	limits         correction.Limits
}

func NewCorrectionService(
	tx database.TxRunner,
	correctionRepo correction.CorrectionRepository,
	shiftRepo shift.ShiftRepository,
	clock clockwork.Clock,
	loc *time.Location,
	limits correction.Limits,
) correction.CorrectionService {
	return &CorrectionServiceImpl{
		tx:             tx,
		correctionRepo: correctionRepo,
		shiftRepo:      shiftRepo,
		clock:          clock,
		loc:            loc,
		limits:         limits,
	}
}

func claimsFromContext(ctx context.Context) (userID string, isAdmin bool, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", false, fmt.Errorf("user_id claim is missing or invalid")
	}
	isAdmin, _ = claims["is_admin"].(bool)
	return userID, isAdmin, nil
}

// Submit implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Submit(ctx context.Context, req correction.SubmitCorrectionRequest) (correction.CorrectionResponse, error) {
	userID, _, err := claimsFromContext(ctx)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	proposal, errs := req.Validate(s.loc, s.limits)
	if len(errs) > 0 {
		return correction.CorrectionResponse{}, errs
	}

	app := correction.CorrectionApplication{
		UserID:      userID,
		WorkDate:    proposal.WorkDate,
		ClockIn:     &proposal.ClockIn,
		ClockOut:    &proposal.ClockOut,
		Breaks:      proposal.Breaks,
		Reason:      proposal.Reason,
		Pending:     true,
		SubmittedAt: s.clock.Now(),
	}

	existing, err := s.shiftRepo.GetByUserAndDate(ctx, userID, proposal.WorkDate)
	if err != nil {
		return correction.CorrectionResponse{}, fmt.Errorf("failed to get shift record: %w", err)
	}
	if existing != nil {
		app.RelatedShiftID = &existing.ID
	}

	created, err := s.correctionRepo.Create(ctx, app)
	if err != nil {
		return correction.CorrectionResponse{}, fmt.Errorf("failed to create correction application: %w", err)
	}

	return correction.ToResponse(&created), nil
}

// Approve implements correction.CorrectionService. The merge into the shift
// record and the pending flip happen in one transaction; a failed shift write
// leaves the application pending.
func (s *CorrectionServiceImpl) Approve(ctx context.Context, id string) (correction.CorrectionResponse, error) {
	app, err := s.correctionRepo.GetByID(ctx, id)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}
	if !app.Pending {
		return correction.CorrectionResponse{}, correction.ErrAlreadyApproved
	}

	now := s.clock.Now()

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		record, err := s.shiftRepo.GetByUserAndDate(txCtx, app.UserID, app.WorkDate)
		if err != nil {
			return fmt.Errorf("failed to get shift record: %w", err)
		}

		if record == nil {
			// No punched attendance for the day; the approval creates it.
			merged := shift.ShiftRecord{
				UserID:   app.UserID,
				WorkDate: app.WorkDate,
			}
			mergeApplication(&merged, &app)
			if _, err := s.shiftRepo.Create(txCtx, merged); err != nil {
				return fmt.Errorf("failed to create shift record: %w", err)
			}
		} else {
			mergeApplication(record, &app)
			if err := s.shiftRepo.Update(txCtx, *record); err != nil {
				return fmt.Errorf("failed to update shift record: %w", err)
			}
		}

		if err := s.correctionRepo.MarkApproved(txCtx, app.ID, now); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	approved, err := s.correctionRepo.GetByID(ctx, id)
	if err != nil {
		return correction.CorrectionResponse{}, fmt.Errorf("failed to get approved application: %w", err)
	}

	return correction.ToResponse(&approved), nil
}

// mergeApplication copies the proposed fields onto the shift record and
// recomputes its cached totals.
func mergeApplication(record *shift.ShiftRecord, app *correction.CorrectionApplication) {
	record.ClockIn = app.ClockIn
	record.ClockOut = app.ClockOut
	record.Breaks = append([]shift.BreakInterval(nil), app.Breaks...)
	reason := app.Reason
	record.Note = &reason
	shift.Recalculate(record)
}

// Get implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Get(ctx context.Context, id string) (correction.CorrectionResponse, error) {
	userID, isAdmin, err := claimsFromContext(ctx)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	app, err := s.correctionRepo.GetByID(ctx, id)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}
	if !isAdmin && app.UserID != userID {
		return correction.CorrectionResponse{}, correction.ErrNotOwned
	}

	return correction.ToResponse(&app), nil
}

// List implements correction.CorrectionService. Non-admins only see their own
// applications regardless of the requested filter.
func (s *CorrectionServiceImpl) List(ctx context.Context, filter correction.ListFilter) (correction.ListCorrectionsResponse, error) {
	userID, isAdmin, err := claimsFromContext(ctx)
	if err != nil {
		return correction.ListCorrectionsResponse{}, err
	}
	if !isAdmin {
		filter.UserID = &userID
	}

	if err := filter.Validate(); err != nil {
		return correction.ListCorrectionsResponse{}, err
	}

	apps, total, err := s.correctionRepo.List(ctx, filter)
	if err != nil {
		return correction.ListCorrectionsResponse{}, fmt.Errorf("failed to list correction applications: %w", err)
	}

	responses := make([]correction.CorrectionResponse, 0, len(apps))
	for i := range apps {
		responses = append(responses, correction.ToResponse(&apps[i]))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return correction.ListCorrectionsResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Corrections: responses,
	}, nil
}
