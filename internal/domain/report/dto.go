package report

// DaySummary is one row of the monthly fold: the resolved primary data for a
// calendar day, minutes pre-rendered as H:MM. A day with no record at all has
// every time field empty.
type DaySummary struct {
	Date         string  `json:"date"`
	ClockInTime  *string `json:"clock_in_time,omitempty"`
	ClockOutTime *string `json:"clock_out_time,omitempty"`
	Break        string  `json:"break"`
	Work         string  `json:"work"`
	WorkMinutes  *int    `json:"work_minutes,omitempty"`
	BreakMinutes *int    `json:"break_minutes,omitempty"`
	Reason       *string `json:"reason,omitempty"`
	Source       string  `json:"source"`
	Locked       bool    `json:"locked"`
}

type MonthlySummaryResponse struct {
	UserID            string       `json:"user_id"`
	UserName          string       `json:"user_name,omitempty"`
	Month             string       `json:"month"`
	Days              []DaySummary `json:"days"`
	TotalWorkMinutes  int          `json:"total_work_minutes"`
	TotalBreakMinutes int          `json:"total_break_minutes"`
	TotalWork         string       `json:"total_work"`
	TotalBreak        string       `json:"total_break"`
}

// DayDetailResponse is the single-day resolved view backing the daily page.
type DayDetailResponse struct {
	Day DaySummary `json:"day"`
	// CanEdit is false while a pending correction locks the day.
	CanEdit bool `json:"can_edit"`
}
