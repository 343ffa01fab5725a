package shift

import (
	"fmt"
	"time"
)

// Pure accounting over a ShiftRecord snapshot. Calling these twice on the
// same snapshot yields the same totals; nothing here touches a clock or I/O.

// NormalizeSpan resolves a span whose end nominally falls before its start on
// the same calendar date by advancing the end one day (night-shift pattern).
func NormalizeSpan(start, end time.Time) (time.Time, time.Time) {
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end
}

// BreakSeconds sums the durations of fully punched breaks after midnight
// normalization. Breaks that are open, or non-positive once normalized,
// contribute zero.
func BreakSeconds(breaks []BreakInterval) int64 {
	var total int64
	for _, b := range breaks {
		if b.End == nil {
			continue
		}
		start, end := NormalizeSpan(b.Start, *b.End)
		if !end.After(start) {
			continue
		}
		total += int64(end.Sub(start) / time.Second)
	}
	return total
}

// ElapsedSeconds is the normalized clock-in to clock-out span, or 0 when the
// shift is open or the span is non-positive.
func ElapsedSeconds(s *ShiftRecord) int64 {
	if s.ClockIn == nil || s.ClockOut == nil {
		return 0
	}
	start, end := NormalizeSpan(*s.ClockIn, *s.ClockOut)
	if !end.After(start) {
		return 0
	}
	return int64(end.Sub(start) / time.Second)
}

// Recalculate recomputes the cached minute totals from the raw interval log.
// BreakMinutes is always derived from the closed breaks; WorkMinutes stays
// unset while the shift is open. Totals never go negative.
func Recalculate(s *ShiftRecord) {
	breakSec := BreakSeconds(s.Breaks)
	breakMin := roundHalfUpMinutes(breakSec)
	s.BreakMinutes = &breakMin

	if s.ClockIn == nil || s.ClockOut == nil {
		s.WorkMinutes = nil
		return
	}

	workSec := ElapsedSeconds(s) - breakSec
	if workSec < 0 {
		workSec = 0
	}
	workMin := roundHalfUpMinutes(workSec)
	s.WorkMinutes = &workMin
}

// roundHalfUpMinutes converts seconds to minutes, rounding half up.
func roundHalfUpMinutes(seconds int64) int {
	if seconds <= 0 {
		return 0
	}
	return int((seconds + 30) / 60)
}

// FormatMinutes renders a minute total as H:MM. An unset total renders as the
// empty string so callers can tell "no data" from an explicit zero ("0:00").
func FormatMinutes(minutes *int) string {
	if minutes == nil {
		return ""
	}
	m := *minutes
	if m < 0 {
		m = 0
	}
	return fmt.Sprintf("%d:%02d", m/60, m%60)
}
