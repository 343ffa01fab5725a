package shift

import "time"

// ========================================
// SHIFT DTOs
// ========================================

type BreakResponse struct {
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

type ShiftResponse struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	UserName     string          `json:"user_name,omitempty"`
	WorkDate     string          `json:"work_date"`
	ClockInTime  *string         `json:"clock_in_time,omitempty"`
	ClockOutTime *string         `json:"clock_out_time,omitempty"`
	Breaks       []BreakResponse `json:"breaks"`
	WorkMinutes  *int            `json:"work_minutes,omitempty"`
	BreakMinutes *int            `json:"break_minutes,omitempty"`
	// H:MM renderings of the minute totals; empty when the total is unset.
	Work   string  `json:"work"`
	Break  string  `json:"break"`
	Status string  `json:"status"`
	Note   *string `json:"note,omitempty"`
}

// TodayResponse reports the derived state machine position plus which punch
// actions the current state permits.
type TodayResponse struct {
	Date                 string         `json:"date"`
	Status               string         `json:"status"`
	Shift                *ShiftResponse `json:"shift,omitempty"`
	HasPendingCorrection bool           `json:"has_pending_correction"`
	CanClockIn           bool           `json:"can_clock_in"`
	CanClockOut          bool           `json:"can_clock_out"`
	CanBreakStart        bool           `json:"can_break_start"`
	CanBreakEnd          bool           `json:"can_break_end"`
}

// timeToString formats a punch timestamp for responses.
func timeToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("2006-01-02 15:04:05")
	return &formatted
}

// ToResponse converts a ShiftRecord to its response shape.
func ToResponse(s *ShiftRecord) *ShiftResponse {
	if s == nil {
		return nil
	}
	var userName string
	if s.UserName != nil {
		userName = *s.UserName
	}
	breaks := make([]BreakResponse, 0, len(s.Breaks))
	for _, b := range s.Breaks {
		breaks = append(breaks, BreakResponse{
			Start: b.Start.Format("2006-01-02 15:04:05"),
			End:   timeToString(b.End),
		})
	}
	return &ShiftResponse{
		ID:           s.ID,
		UserID:       s.UserID,
		UserName:     userName,
		WorkDate:     s.WorkDate.Format("2006-01-02"),
		ClockInTime:  timeToString(s.ClockIn),
		ClockOutTime: timeToString(s.ClockOut),
		Breaks:       breaks,
		WorkMinutes:  s.WorkMinutes,
		BreakMinutes: s.BreakMinutes,
		Work:         FormatMinutes(s.WorkMinutes),
		Break:        FormatMinutes(s.BreakMinutes),
		Status:       string(s.Status()),
		Note:         s.Note,
	}
}
