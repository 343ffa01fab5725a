package shift

import "errors"

// Shift domain errors
var (
	// Punch state errors
	ErrAlreadyClockedIn  = errors.New("you have already clocked in today")
	ErrNotClockedIn      = errors.New("you have not clocked in yet")
	ErrAlreadyClockedOut = errors.New("you have already clocked out")
	ErrBreakAlreadyOpen  = errors.New("a break is already in progress")
	ErrNoOpenBreak       = errors.New("no break is in progress")
	ErrBreakStillOpen    = errors.New("end the current break before clocking out")

	// General errors
	ErrShiftNotFound             = errors.New("shift record not found")
	ErrLockedByPendingCorrection = errors.New("a pending correction application locks this day")
)
