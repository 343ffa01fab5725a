package correction

import (
	"time"

	"github.com/kintai-app/kintai-backend-go/internal/domain/shift"
)

// CorrectionApplication is a proposed full replacement of one day's punch
// data, awaiting admin approval while Pending is true. The pending→approved
// transition is one-way.
type CorrectionApplication struct {
	ID             string
	UserID         string
	WorkDate       time.Time
	ClockIn        *time.Time
	ClockOut       *time.Time
	Breaks         []shift.BreakInterval
	Reason         string
	Pending        bool
	RelatedShiftID *string
	SubmittedAt    time.Time
	UpdatedAt      time.Time

	// DTO
	UserName *string
}
