package shift

import (
	"time"
)

// Status is the derived punch state for a work day. It is never stored;
// it is computed from the record on demand.
type Status string

const (
	StatusNotClockedIn Status = "not_clocked_in"
	StatusWorking      Status = "working"
	StatusOnBreak      Status = "on_break"
	StatusClockedOut   Status = "clocked_out"
)

// BreakInterval is one entry of the append-only break log. End is nil while
// the break is still running.
type BreakInterval struct {
	Start time.Time
	End   *time.Time
}

// ShiftRecord is one user's attendance for one work date. WorkDate is the
// calendar day the shift is attributed to; timestamps of a night shift may
// fall on the following day.
type ShiftRecord struct {
	ID       string
	UserID   string
	WorkDate time.Time
	ClockIn  *time.Time
	ClockOut *time.Time
	// Breaks keeps insertion order. At most one entry is open at a time,
	// and only while the shift itself is open.
	Breaks       []BreakInterval
	WorkMinutes  *int
	BreakMinutes *int
	Note         *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO
	UserName *string
}

// Status derives the state machine position from the record.
func (s *ShiftRecord) Status() Status {
	if s == nil || s.ClockIn == nil {
		return StatusNotClockedIn
	}
	if s.ClockOut != nil {
		return StatusClockedOut
	}
	if s.OpenBreakIndex() >= 0 {
		return StatusOnBreak
	}
	return StatusWorking
}

// OpenBreakIndex returns the index of the most recently started open break,
// scanning from the end of the log, or -1 if every break is closed. The
// latest open break is the one eligible for closing (LIFO), which matters
// when malformed legacy data holds more than one open entry.
func (s *ShiftRecord) OpenBreakIndex() int {
	for i := len(s.Breaks) - 1; i >= 0; i-- {
		if s.Breaks[i].End == nil {
			return i
		}
	}
	return -1
}

// AddBreakStart appends an open break to the log.
func (s *ShiftRecord) AddBreakStart(at time.Time) error {
	if s.ClockIn == nil {
		return ErrNotClockedIn
	}
	if s.ClockOut != nil {
		return ErrAlreadyClockedOut
	}
	if s.OpenBreakIndex() >= 0 {
		return ErrBreakAlreadyOpen
	}
	s.Breaks = append(s.Breaks, BreakInterval{Start: at})
	return nil
}

// CloseLatestOpenBreak sets the end of the most recently started open break.
func (s *ShiftRecord) CloseLatestOpenBreak(at time.Time) error {
	idx := s.OpenBreakIndex()
	if idx < 0 {
		return ErrNoOpenBreak
	}
	end := at
	s.Breaks[idx].End = &end
	return nil
}

// SetClockOut closes the shift. Open breaks must be closed first; a clock-out
// never fabricates a break end the user did not punch.
func (s *ShiftRecord) SetClockOut(at time.Time) error {
	if s.ClockIn == nil {
		return ErrNotClockedIn
	}
	if s.ClockOut != nil {
		return ErrAlreadyClockedOut
	}
	if s.OpenBreakIndex() >= 0 {
		return ErrBreakStillOpen
	}
	end := at
	s.ClockOut = &end
	return nil
}
