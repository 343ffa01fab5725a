package correction

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/kintai-app/kintai-backend-go/internal/domain/shift"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/validator"
)

// ========================================
// CORRECTION DTOs
// ========================================

type BreakInput struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SubmitCorrectionRequest carries the raw form fields of a correction.
// Times are time-of-day strings ("HH:MM" or "HH:MM:SS") on the given date.
type SubmitCorrectionRequest struct {
	Date     string       `json:"date"`
	ClockIn  string       `json:"clock_in"`
	ClockOut string       `json:"clock_out"`
	Breaks   []BreakInput `json:"breaks"`
	Reason   string       `json:"reason"`
}

// Limits are the configurable validation bounds.
type Limits struct {
	ReasonMaxLength int
	// MaxShiftHours caps the implied span of a cross-day shift; anything at or
	// above it is treated as a clock order mistake, not a night shift.
	MaxShiftHours int
}

// Proposal is a fully validated submission with all timestamps resolved onto
// the work date, cross-day spans already advanced.
type Proposal struct {
	WorkDate time.Time
	ClockIn  time.Time
	ClockOut time.Time
	Breaks   []shift.BreakInterval
	CrossDay bool
	Reason   string
}

// Validate runs the full submission check and collects every violation with
// its field tag so a form can highlight each offending input. Cross-field
// checks are skipped for fields that already failed format validation; they
// would only cascade nonsense. The proposal is only meaningful when the
// returned errors are empty.
func (r *SubmitCorrectionRequest) Validate(loc *time.Location, limits Limits) (Proposal, validator.ValidationErrors) {
	var errs validator.ValidationErrors
	var p Proposal

	workDate, dateOK := validator.IsValidDate(r.Date)
	if !dateOK {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	} else {
		p.WorkDate = time.Date(workDate.Year(), workDate.Month(), workDate.Day(), 0, 0, 0, 0, loc)
	}

	clockInTOD, inOK := parseRequiredClock(&errs, "clock_in", r.ClockIn)
	clockOutTOD, outOK := parseRequiredClock(&errs, "clock_out", r.ClockOut)

	boundsOK := dateOK && inOK && outOK
	if boundsOK {
		p.ClockIn = onDate(p.WorkDate, clockInTOD)
		p.ClockOut = onDate(p.WorkDate, clockOutTOD)
		if p.ClockOut.Before(p.ClockIn) {
			implied := p.ClockOut.AddDate(0, 0, 1).Sub(p.ClockIn)
			if implied >= time.Duration(limits.MaxShiftHours)*time.Hour {
				// An 18h+ "overnight" shift is an impossible shift, not a
				// night shift.
				errs = append(errs, validator.ValidationError{
					Field:   "clock_in",
					Message: "clock-in must be before clock-out",
				})
				boundsOK = false
			} else {
				p.CrossDay = true
				p.ClockOut = p.ClockOut.AddDate(0, 0, 1)
			}
		}
	}

	for i, b := range r.Breaks {
		startField := fmt.Sprintf("breaks.%d.start", i)
		endField := fmt.Sprintf("breaks.%d.end", i)

		if b.Start == "" && b.End == "" {
			continue
		}
		if b.Start == "" {
			errs = append(errs, validator.ValidationError{
				Field:   startField,
				Message: "break start is required when break end is set",
			})
			continue
		}
		if b.End == "" {
			errs = append(errs, validator.ValidationError{
				Field:   endField,
				Message: "break end is required when break start is set",
			})
			continue
		}

		startTOD, startOK := parseRequiredClock(&errs, startField, b.Start)
		endTOD, endOK := parseRequiredClock(&errs, endField, b.End)
		if !startOK || !endOK || !dateOK {
			continue
		}

		start := onDate(p.WorkDate, startTOD)
		end := onDate(p.WorkDate, endTOD)
		if p.CrossDay {
			// Same-day heuristic: on a night shift, any break time that
			// nominally falls before clock-in belongs to the next day.
			if timeOfDayBefore(startTOD, clockInTOD) {
				start = start.AddDate(0, 0, 1)
			}
			if timeOfDayBefore(endTOD, clockInTOD) {
				end = end.AddDate(0, 0, 1)
			}
		}

		if !start.Before(end) {
			errs = append(errs, validator.ValidationError{
				Field:   startField,
				Message: "break start must be before break end",
			})
		}
		// Checks against the shift span only make sense once the span itself
		// parsed and is ordered.
		if boundsOK {
			if start.Before(p.ClockIn) {
				errs = append(errs, validator.ValidationError{
					Field:   startField,
					Message: "break start must not be before clock-in",
				})
			} else if !start.Before(p.ClockOut) {
				errs = append(errs, validator.ValidationError{
					Field:   startField,
					Message: "break start must be before clock-out",
				})
			}
			if end.After(p.ClockOut) {
				errs = append(errs, validator.ValidationError{
					Field:   endField,
					Message: "break end must not be after clock-out",
				})
			} else if !end.After(p.ClockIn) {
				errs = append(errs, validator.ValidationError{
					Field:   endField,
					Message: "break end must be after clock-in",
				})
			}
		}

		endCopy := end
		p.Breaks = append(p.Breaks, shift.BreakInterval{Start: start, End: &endCopy})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	} else if utf8.RuneCountInString(r.Reason) > limits.ReasonMaxLength {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: fmt.Sprintf("reason must not exceed %d characters", limits.ReasonMaxLength),
		})
	}
	p.Reason = r.Reason

	if len(errs) > 0 {
		return Proposal{}, errs
	}
	return p, nil
}

func parseRequiredClock(errs *validator.ValidationErrors, field, value string) (time.Time, bool) {
	if validator.IsEmpty(value) {
		*errs = append(*errs, validator.ValidationError{
			Field:   field,
			Message: field + " is required",
		})
		return time.Time{}, false
	}
	t, ok := validator.ParseClockTime(value)
	if !ok {
		*errs = append(*errs, validator.ValidationError{
			Field:   field,
			Message: field + " must be a valid time (HH:MM)",
		})
		return time.Time{}, false
	}
	return t, true
}

// onDate places a parsed time-of-day onto the work date in its zone.
func onDate(date time.Time, tod time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, date.Location())
}

func timeOfDayBefore(a, b time.Time) bool {
	aSec := a.Hour()*3600 + a.Minute()*60 + a.Second()
	bSec := b.Hour()*3600 + b.Minute()*60 + b.Second()
	return aSec < bSec
}

type CorrectionResponse struct {
	ID           string                `json:"id"`
	UserID       string                `json:"user_id"`
	UserName     string                `json:"user_name,omitempty"`
	WorkDate     string                `json:"work_date"`
	ClockInTime  *string               `json:"clock_in_time,omitempty"`
	ClockOutTime *string               `json:"clock_out_time,omitempty"`
	Breaks       []shift.BreakResponse `json:"breaks"`
	Reason       string                `json:"reason"`
	Pending      bool                  `json:"pending"`
	SubmittedAt  string                `json:"submitted_at"`
	UpdatedAt    string                `json:"updated_at"`
}

// ToResponse converts an application to its response shape.
func ToResponse(app *CorrectionApplication) CorrectionResponse {
	var userName string
	if app.UserName != nil {
		userName = *app.UserName
	}
	breaks := make([]shift.BreakResponse, 0, len(app.Breaks))
	for _, b := range app.Breaks {
		br := shift.BreakResponse{Start: b.Start.Format("2006-01-02 15:04:05")}
		if b.End != nil {
			end := b.End.Format("2006-01-02 15:04:05")
			br.End = &end
		}
		breaks = append(breaks, br)
	}
	resp := CorrectionResponse{
		ID:          app.ID,
		UserID:      app.UserID,
		UserName:    userName,
		WorkDate:    app.WorkDate.Format("2006-01-02"),
		Breaks:      breaks,
		Reason:      app.Reason,
		Pending:     app.Pending,
		SubmittedAt: app.SubmittedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:   app.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if app.ClockIn != nil {
		v := app.ClockIn.Format("2006-01-02 15:04:05")
		resp.ClockInTime = &v
	}
	if app.ClockOut != nil {
		v := app.ClockOut.Format("2006-01-02 15:04:05")
		resp.ClockOutTime = &v
	}
	return resp
}

// ListFilter narrows the correction listing. Admins see every user;
// non-admins are scoped to their own applications by the service.
type ListFilter struct {
	UserID *string `json:"user_id,omitempty"`
	Status *string `json:"status,omitempty"` // pending, approved

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil {
		validStatuses := []string{"pending", "approved"}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: pending, approved",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ListFilterFromQuery builds a ListFilter from URL query parameters.
// Unparseable page/limit values fall back to the defaults.
func ListFilterFromQuery(query url.Values) ListFilter {
	var filter ListFilter

	if userID := query.Get("user_id"); userID != "" {
		filter.UserID = &userID
	}
	if status := query.Get("status"); status != "" {
		filter.Status = &status
	}
	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil {
		filter.Limit = limit
	}

	return filter
}

type ListCorrectionsResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Corrections []CorrectionResponse `json:"corrections"`
}
