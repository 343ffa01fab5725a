package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kintai-app/kintai-backend-go/internal/domain/correction"
	"github.com/kintai-app/kintai-backend-go/internal/domain/shift"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/database"
)

type correctionRepository struct {
	db *database.DB
}

// Create implements correction.CorrectionRepository.
func (r *correctionRepository) Create(ctx context.Context, app correction.CorrectionApplication) (correction.CorrectionApplication, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO correction_applications (
			id, user_id, work_date, clock_in, clock_out, reason, pending, related_shift_id, submitted_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id, updated_at
	`

	err := q.QueryRow(ctx, query,
		uuid.NewString(),
		app.UserID,
		app.WorkDate,
		app.ClockIn,
		app.ClockOut,
		app.Reason,
		app.Pending,
		app.RelatedShiftID,
		app.SubmittedAt,
	).Scan(&app.ID, &app.UpdatedAt)

	if err != nil {
		return correction.CorrectionApplication{}, fmt.Errorf("failed to create correction application: %w", err)
	}

	for i, b := range app.Breaks {
		_, err := q.Exec(ctx, `
			INSERT INTO correction_breaks (application_id, position, start_at, end_at)
			VALUES ($1, $2, $3, $4)
		`, app.ID, i, b.Start, b.End)
		if err != nil {
			return correction.CorrectionApplication{}, fmt.Errorf("failed to insert correction break: %w", err)
		}
	}

	return app, nil
}

// GetByID implements correction.CorrectionRepository.
func (r *correctionRepository) GetByID(ctx context.Context, id string) (correction.CorrectionApplication, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT c.id, c.user_id, c.work_date, c.clock_in, c.clock_out, c.reason,
			   c.pending, c.related_shift_id, c.submitted_at, c.updated_at,
			   u.name AS user_name
		FROM correction_applications c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`

	var app correction.CorrectionApplication
	err := q.QueryRow(ctx, query, id).Scan(
		&app.ID, &app.UserID, &app.WorkDate, &app.ClockIn, &app.ClockOut, &app.Reason,
		&app.Pending, &app.RelatedShiftID, &app.SubmittedAt, &app.UpdatedAt,
		&app.UserName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return correction.CorrectionApplication{}, correction.ErrApplicationNotFound
		}
		return correction.CorrectionApplication{}, fmt.Errorf("failed to get correction application by ID: %w", err)
	}

	if app.Breaks, err = r.loadBreaks(ctx, q, app.ID); err != nil {
		return correction.CorrectionApplication{}, err
	}

	return app, nil
}

// GetLatestByUserAndDate implements correction.CorrectionRepository.
func (r *correctionRepository) GetLatestByUserAndDate(ctx context.Context, userID string, workDate time.Time) (*correction.CorrectionApplication, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT c.id, c.user_id, c.work_date, c.clock_in, c.clock_out, c.reason,
			   c.pending, c.related_shift_id, c.submitted_at, c.updated_at,
			   u.name AS user_name
		FROM correction_applications c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.user_id = $1
		  AND c.work_date = $2
		ORDER BY c.updated_at DESC
		LIMIT 1
	`

	var app correction.CorrectionApplication
	err := q.QueryRow(ctx, query, userID, workDate).Scan(
		&app.ID, &app.UserID, &app.WorkDate, &app.ClockIn, &app.ClockOut, &app.Reason,
		&app.Pending, &app.RelatedShiftID, &app.SubmittedAt, &app.UpdatedAt,
		&app.UserName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No application for this work date
		}
		return nil, fmt.Errorf("failed to get latest correction application: %w", err)
	}

	if app.Breaks, err = r.loadBreaks(ctx, q, app.ID); err != nil {
		return nil, err
	}

	return &app, nil
}

// HasPending implements correction.CorrectionRepository.
func (r *correctionRepository) HasPending(ctx context.Context, userID string, workDate time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM correction_applications
			WHERE user_id = $1
			  AND work_date = $2
			  AND pending = true
		)
	`

	var hasPending bool
	if err := q.QueryRow(ctx, query, userID, workDate).Scan(&hasPending); err != nil {
		return false, fmt.Errorf("failed to check pending correction: %w", err)
	}

	return hasPending, nil
}

// List implements correction.CorrectionRepository.
func (r *correctionRepository) List(ctx context.Context, filter correction.ListFilter) ([]correction.CorrectionApplication, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND c.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND c.pending = $%d", argIdx)
		args = append(args, *filter.Status == "pending")
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM correction_applications c WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count correction applications: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT c.id, c.user_id, c.work_date, c.clock_in, c.clock_out, c.reason,
			   c.pending, c.related_shift_id, c.submitted_at, c.updated_at,
			   u.name AS user_name
		FROM correction_applications c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE %s
		ORDER BY c.submitted_at DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query correction applications: %w", err)
	}
	defer rows.Close()

	var apps []correction.CorrectionApplication
	for rows.Next() {
		var app correction.CorrectionApplication
		err := rows.Scan(
			&app.ID, &app.UserID, &app.WorkDate, &app.ClockIn, &app.ClockOut, &app.Reason,
			&app.Pending, &app.RelatedShiftID, &app.SubmittedAt, &app.UpdatedAt,
			&app.UserName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan correction application: %w", err)
		}
		apps = append(apps, app)
	}
	rows.Close()

	for i := range apps {
		if apps[i].Breaks, err = r.loadBreaks(ctx, q, apps[i].ID); err != nil {
			return nil, 0, err
		}
	}

	return apps, total, nil
}

// MarkApproved implements correction.CorrectionRepository.
func (r *correctionRepository) MarkApproved(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE correction_applications
		SET pending = false, updated_at = $2
		WHERE id = $1 AND pending = true
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, id, at).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			// Either missing or already flipped; the flip is one-way.
			var exists bool
			checkErr := q.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM correction_applications WHERE id = $1)`, id,
			).Scan(&exists)
			if checkErr != nil {
				return fmt.Errorf("failed to check correction application: %w", checkErr)
			}
			if exists {
				return correction.ErrAlreadyApproved
			}
			return correction.ErrApplicationNotFound
		}
		return fmt.Errorf("failed to approve correction application: %w", err)
	}

	return nil
}

func (r *correctionRepository) loadBreaks(ctx context.Context, q database.Querier, applicationID string) ([]shift.BreakInterval, error) {
	query := `
		SELECT start_at, end_at
		FROM correction_breaks
		WHERE application_id = $1
		ORDER BY position ASC
	`

	rows, err := q.Query(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query correction breaks: %w", err)
	}
	defer rows.Close()

	var breaks []shift.BreakInterval
	for rows.Next() {
		var b shift.BreakInterval
		if err := rows.Scan(&b.Start, &b.End); err != nil {
			return nil, fmt.Errorf("failed to scan correction break: %w", err)
		}
		breaks = append(breaks, b)
	}
	return breaks, nil
}

func NewCorrectionRepository(db *database.DB) correction.CorrectionRepository {
	return &correctionRepository{db: db}
}
