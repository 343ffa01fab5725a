package correction

import (
	"time"

	"github.com/kintai-app/kintai-backend-go/internal/domain/shift"
)

// OverlayPolicy selects which record wins when both a shift record and a
// correction application exist for the same day. There is no default; the
// caller's view decides.
type OverlayPolicy string

const (
	// PolicyLatestEdit favors whichever record was updated most recently.
	// An admin editing the shift after a correction was filed overrides it,
	// and vice versa.
	PolicyLatestEdit OverlayPolicy = "latest_edit"
	// PolicyPreferCorrection always shows the application when one exists,
	// regardless of edit order. Used by the user-facing day detail.
	PolicyPreferCorrection OverlayPolicy = "prefer_correction"
)

type PrimarySource string

const (
	PrimaryNone       PrimarySource = "none"
	PrimaryShift      PrimarySource = "shift"
	PrimaryCorrection PrimarySource = "correction"
)

// PrimaryView is the single authoritative picture of a day, ready for
// rendering. Minutes are recomputed from the winning record's intervals.
// Locked is true while a pending application blocks punch edits for the day.
type PrimaryView struct {
	Source       PrimarySource
	UserID       string
	WorkDate     time.Time
	ClockIn      *time.Time
	ClockOut     *time.Time
	Breaks       []shift.BreakInterval
	WorkMinutes  *int
	BreakMinutes *int
	Reason       *string
	Locked       bool
}

// ResolvePrimary picks the authoritative record for one (user, day) pair.
// Either argument may be nil; with both nil the view is empty.
func ResolvePrimary(record *shift.ShiftRecord, app *CorrectionApplication, policy OverlayPolicy) PrimaryView {
	locked := app != nil && app.Pending

	useApp := false
	switch {
	case record == nil && app == nil:
		return PrimaryView{Source: PrimaryNone, Locked: false}
	case record == nil:
		useApp = true
	case app == nil:
		useApp = false
	case policy == PolicyPreferCorrection:
		useApp = true
	default:
		// PolicyLatestEdit: the shift record keeps primacy on a timestamp tie.
		useApp = app.UpdatedAt.After(record.UpdatedAt)
	}

	if useApp {
		return viewFromApplication(app, locked)
	}
	return viewFromShift(record, locked)
}

func viewFromShift(record *shift.ShiftRecord, locked bool) PrimaryView {
	snapshot := *record
	shift.Recalculate(&snapshot)
	return PrimaryView{
		Source:       PrimaryShift,
		UserID:       record.UserID,
		WorkDate:     record.WorkDate,
		ClockIn:      record.ClockIn,
		ClockOut:     record.ClockOut,
		Breaks:       record.Breaks,
		WorkMinutes:  snapshot.WorkMinutes,
		BreakMinutes: snapshot.BreakMinutes,
		Reason:       record.Note,
		Locked:       locked,
	}
}

func viewFromApplication(app *CorrectionApplication, locked bool) PrimaryView {
	// The application's proposed intervals run through the same accounting
	// as a real shift.
	snapshot := shift.ShiftRecord{
		ClockIn:  app.ClockIn,
		ClockOut: app.ClockOut,
		Breaks:   app.Breaks,
	}
	shift.Recalculate(&snapshot)
	reason := app.Reason
	return PrimaryView{
		Source:       PrimaryCorrection,
		UserID:       app.UserID,
		WorkDate:     app.WorkDate,
		ClockIn:      app.ClockIn,
		ClockOut:     app.ClockOut,
		Breaks:       app.Breaks,
		WorkMinutes:  snapshot.WorkMinutes,
		BreakMinutes: snapshot.BreakMinutes,
		Reason:       &reason,
		Locked:       locked,
	}
}
