package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kintai-app/kintai-backend-go/internal/domain/shift"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, record shift.ShiftRecord) (shift.ShiftRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (
			id, user_id, work_date, clock_in, clock_out, work_minutes, break_minutes, note
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		uuid.NewString(),
		record.UserID,
		record.WorkDate,
		record.ClockIn,
		record.ClockOut,
		record.WorkMinutes,
		record.BreakMinutes,
		record.Note,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		return shift.ShiftRecord{}, fmt.Errorf("failed to create shift: %w", err)
	}

	if err := r.writeBreaks(ctx, q, record.ID, record.Breaks); err != nil {
		return shift.ShiftRecord{}, err
	}

	return record, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.ShiftRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.user_id, s.work_date, s.clock_in, s.clock_out,
			   s.work_minutes, s.break_minutes, s.note, s.created_at, s.updated_at,
			   u.name AS user_name
		FROM shifts s
		LEFT JOIN users u ON u.id = s.user_id
		WHERE s.id = $1
	`

	var record shift.ShiftRecord
	err := q.QueryRow(ctx, query, id).Scan(
		&record.ID, &record.UserID, &record.WorkDate, &record.ClockIn, &record.ClockOut,
		&record.WorkMinutes, &record.BreakMinutes, &record.Note, &record.CreatedAt, &record.UpdatedAt,
		&record.UserName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ShiftRecord{}, shift.ErrShiftNotFound
		}
		return shift.ShiftRecord{}, fmt.Errorf("failed to get shift by ID: %w", err)
	}

	if record.Breaks, err = r.loadBreaks(ctx, q, record.ID); err != nil {
		return shift.ShiftRecord{}, err
	}

	return record, nil
}

// GetByUserAndDate implements shift.ShiftRepository.
func (r *shiftRepository) GetByUserAndDate(ctx context.Context, userID string, workDate time.Time) (*shift.ShiftRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.user_id, s.work_date, s.clock_in, s.clock_out,
			   s.work_minutes, s.break_minutes, s.note, s.created_at, s.updated_at,
			   u.name AS user_name
		FROM shifts s
		LEFT JOIN users u ON u.id = s.user_id
		WHERE s.user_id = $1
		  AND s.work_date = $2
		LIMIT 1
	`

	var record shift.ShiftRecord
	err := q.QueryRow(ctx, query, userID, workDate).Scan(
		&record.ID, &record.UserID, &record.WorkDate, &record.ClockIn, &record.ClockOut,
		&record.WorkMinutes, &record.BreakMinutes, &record.Note, &record.CreatedAt, &record.UpdatedAt,
		&record.UserName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No shift for this work date
		}
		return nil, fmt.Errorf("failed to get shift by user and date: %w", err)
	}

	if record.Breaks, err = r.loadBreaks(ctx, q, record.ID); err != nil {
		return nil, err
	}

	return &record, nil
}

// Update implements shift.ShiftRepository. The record is persisted as a whole
// snapshot and the break log rewritten, keeping insertion order.
func (r *shiftRepository) Update(ctx context.Context, record shift.ShiftRecord) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET clock_in = $1, clock_out = $2, work_minutes = $3, break_minutes = $4,
			note = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		record.ClockIn, record.ClockOut, record.WorkMinutes, record.BreakMinutes,
		record.Note, record.ID,
	).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ErrShiftNotFound
		}
		return fmt.Errorf("failed to update shift: %w", err)
	}

	if _, err := q.Exec(ctx, `DELETE FROM shift_breaks WHERE shift_id = $1`, record.ID); err != nil {
		return fmt.Errorf("failed to clear shift breaks: %w", err)
	}
	return r.writeBreaks(ctx, q, record.ID, record.Breaks)
}

// ListByUserAndRange implements shift.ShiftRepository.
func (r *shiftRepository) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]shift.ShiftRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.user_id, s.work_date, s.clock_in, s.clock_out,
			   s.work_minutes, s.break_minutes, s.note, s.created_at, s.updated_at,
			   u.name AS user_name
		FROM shifts s
		LEFT JOIN users u ON u.id = s.user_id
		WHERE s.user_id = $1
		  AND s.work_date >= $2
		  AND s.work_date <= $3
		ORDER BY s.work_date ASC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var records []shift.ShiftRecord
	for rows.Next() {
		var record shift.ShiftRecord
		err := rows.Scan(
			&record.ID, &record.UserID, &record.WorkDate, &record.ClockIn, &record.ClockOut,
			&record.WorkMinutes, &record.BreakMinutes, &record.Note, &record.CreatedAt, &record.UpdatedAt,
			&record.UserName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		records = append(records, record)
	}

	for i := range records {
		if records[i].Breaks, err = r.loadBreaks(ctx, q, records[i].ID); err != nil {
			return nil, err
		}
	}

	return records, nil
}

func (r *shiftRepository) loadBreaks(ctx context.Context, q database.Querier, shiftID string) ([]shift.BreakInterval, error) {
	query := `
		SELECT start_at, end_at
		FROM shift_breaks
		WHERE shift_id = $1
		ORDER BY position ASC
	`

	rows, err := q.Query(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift breaks: %w", err)
	}
	defer rows.Close()

	var breaks []shift.BreakInterval
	for rows.Next() {
		var b shift.BreakInterval
		if err := rows.Scan(&b.Start, &b.End); err != nil {
			return nil, fmt.Errorf("failed to scan shift break: %w", err)
		}
		breaks = append(breaks, b)
	}
	return breaks, nil
}

func (r *shiftRepository) writeBreaks(ctx context.Context, q database.Querier, shiftID string, breaks []shift.BreakInterval) error {
	for i, b := range breaks {
		_, err := q.Exec(ctx, `
			INSERT INTO shift_breaks (shift_id, position, start_at, end_at)
			VALUES ($1, $2, $3, $4)
		`, shiftID, i, b.Start, b.End)
		if err != nil {
			return fmt.Errorf("failed to insert shift break: %w", err)
		}
	}
	return nil
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}
