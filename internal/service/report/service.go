package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/kintai-app/kintai-backend-go/internal/domain/correction"
	"github.com/kintai-app/kintai-backend-go/internal/domain/report"
	"github.com/kintai-app/kintai-backend-go/internal/domain/shift"
	"github.com/kintai-app/kintai-backend-go/internal/domain/user"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/validator"
)

type ReportServiceImpl struct {
	shiftRepo      shift.ShiftRepository
	correctionRepo correction.CorrectionRepository
	userRepo       user.UserRepository
	loc            *time.Location
}

func NewReportService(
	shiftRepo shift.ShiftRepository,
	correctionRepo correction.CorrectionRepository,
	userRepo user.UserRepository,
	loc *time.Location,
) report.ReportService {
	return &ReportServiceImpl{
		shiftRepo:      shiftRepo,
		correctionRepo: correctionRepo,
		userRepo:       userRepo,
		loc:            loc,
	}
}

// Daily implements report.ReportService. The day detail is a user-facing
// view, so a filed correction wins over the punched record.
func (s *ReportServiceImpl) Daily(ctx context.Context, userID string, date string) (report.DayDetailResponse, error) {
	day, valid := validator.IsValidDate(date)
	if !valid {
		return report.DayDetailResponse{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	workDate := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc)

	record, err := s.shiftRepo.GetByUserAndDate(ctx, userID, workDate)
	if err != nil {
		return report.DayDetailResponse{}, fmt.Errorf("failed to get shift record: %w", err)
	}
	app, err := s.correctionRepo.GetLatestByUserAndDate(ctx, userID, workDate)
	if err != nil {
		return report.DayDetailResponse{}, fmt.Errorf("failed to get correction application: %w", err)
	}

	view := correction.ResolvePrimary(record, app, correction.PolicyPreferCorrection)
	return report.DayDetailResponse{
		Day:     daySummary(view, date),
		CanEdit: !view.Locked,
	}, nil
}

// Monthly implements report.ReportService. Admin-style listing resolves each
// day with the latest-edit policy.
func (s *ReportServiceImpl) Monthly(ctx context.Context, userID string, month string) (report.MonthlySummaryResponse, error) {
	monthStart, valid := validator.IsValidMonth(month)
	if !valid {
		return report.MonthlySummaryResponse{}, validator.ValidationErrors{{
			Field:   "month",
			Message: "month must be in YYYY-MM format",
		}}
	}

	usr, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return report.MonthlySummaryResponse{}, err
	}

	from := time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 1, -1)

	records, err := s.shiftRepo.ListByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return report.MonthlySummaryResponse{}, fmt.Errorf("failed to list shift records: %w", err)
	}
	byDate := make(map[string]*shift.ShiftRecord, len(records))
	for i := range records {
		byDate[records[i].WorkDate.Format("2006-01-02")] = &records[i]
	}

	resp := report.MonthlySummaryResponse{
		UserID:   userID,
		UserName: usr.Name,
		Month:    month,
	}

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		dateStr := day.Format("2006-01-02")
		record := byDate[dateStr]

		app, err := s.correctionRepo.GetLatestByUserAndDate(ctx, userID, day)
		if err != nil {
			return report.MonthlySummaryResponse{}, fmt.Errorf("failed to get correction application: %w", err)
		}

		view := correction.ResolvePrimary(record, app, correction.PolicyLatestEdit)
		summary := daySummary(view, dateStr)
		resp.Days = append(resp.Days, summary)

		if summary.WorkMinutes != nil {
			resp.TotalWorkMinutes += *summary.WorkMinutes
		}
		if summary.BreakMinutes != nil {
			resp.TotalBreakMinutes += *summary.BreakMinutes
		}
	}

	resp.TotalWork = shift.FormatMinutes(&resp.TotalWorkMinutes)
	resp.TotalBreak = shift.FormatMinutes(&resp.TotalBreakMinutes)
	return resp, nil
}

// MonthlyCSV implements report.ReportService.
func (s *ReportServiceImpl) MonthlyCSV(ctx context.Context, userID string, month string) ([]byte, string, error) {
	summary, err := s.Monthly(ctx, userID, month)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"date", "clock_in", "clock_out", "break", "work"}); err != nil {
		return nil, "", fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, day := range summary.Days {
		row := []string{day.Date, orEmpty(day.ClockInTime), orEmpty(day.ClockOutTime), day.Break, day.Work}
		if err := w.Write(row); err != nil {
			return nil, "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to flush csv: %w", err)
	}

	filename := fmt.Sprintf("attendance_%s.csv", month)
	return buf.Bytes(), filename, nil
}

// daySummary flattens a resolved view into one report row. A day with no
// primary record keeps every duration unset, rendering as empty cells.
func daySummary(view correction.PrimaryView, date string) report.DaySummary {
	summary := report.DaySummary{
		Date:         date,
		Break:        shift.FormatMinutes(view.BreakMinutes),
		Work:         shift.FormatMinutes(view.WorkMinutes),
		WorkMinutes:  view.WorkMinutes,
		BreakMinutes: view.BreakMinutes,
		Reason:       view.Reason,
		Source:       string(view.Source),
		Locked:       view.Locked,
	}
	if view.ClockIn != nil {
		v := view.ClockIn.Format("15:04")
		summary.ClockInTime = &v
	}
	if view.ClockOut != nil {
		v := view.ClockOut.Format("15:04")
		summary.ClockOutTime = &v
	}
	return summary
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
