package correction

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kintai-app/kintai-backend-go/internal/domain/correction"
	"github.com/kintai-app/kintai-backend-go/internal/domain/shift"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/clockwork"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/validator"
)

var tokyo = mustLoadLocation("Asia/Tokyo")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func authContext(t *testing.T, userID string, isAdmin bool) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret-key"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id":  userID,
		"is_admin": isAdmin,
		"type":     "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// passthroughTx runs the unit of work on the same context. Whether the pieces
// inside committed together is asserted through the repo state afterwards.
type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeShiftRepo struct {
	seq       int
	records   map[string]*shift.ShiftRecord
	updateErr error
	createErr error
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{records: make(map[string]*shift.ShiftRecord)}
}

func dayKey(userID string, workDate time.Time) string {
	return userID + "/" + workDate.Format("2006-01-02")
}

func (r *fakeShiftRepo) Create(ctx context.Context, record shift.ShiftRecord) (shift.ShiftRecord, error) {
	if r.createErr != nil {
		return shift.ShiftRecord{}, r.createErr
	}
	r.seq++
	record.ID = fmt.Sprintf("shift-%d", r.seq)
	stored := record
	r.records[dayKey(record.UserID, record.WorkDate)] = &stored
	return record, nil
}

func (r *fakeShiftRepo) GetByID(ctx context.Context, id string) (shift.ShiftRecord, error) {
	for _, record := range r.records {
		if record.ID == id {
			return *record, nil
		}
	}
	return shift.ShiftRecord{}, shift.ErrShiftNotFound
}

func (r *fakeShiftRepo) GetByUserAndDate(ctx context.Context, userID string, workDate time.Time) (*shift.ShiftRecord, error) {
	record, ok := r.records[dayKey(userID, workDate)]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (r *fakeShiftRepo) Update(ctx context.Context, record shift.ShiftRecord) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	stored := record
	r.records[dayKey(record.UserID, record.WorkDate)] = &stored
	return nil
}

func (r *fakeShiftRepo) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]shift.ShiftRecord, error) {
	var out []shift.ShiftRecord
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if record, ok := r.records[dayKey(userID, day)]; ok {
			out = append(out, *record)
		}
	}
	return out, nil
}

type fakeCorrectionRepo struct {
	seq  int
	apps map[string]*correction.CorrectionApplication
}

func newFakeCorrectionRepo() *fakeCorrectionRepo {
	return &fakeCorrectionRepo{apps: make(map[string]*correction.CorrectionApplication)}
}

func (r *fakeCorrectionRepo) Create(ctx context.Context, app correction.CorrectionApplication) (correction.CorrectionApplication, error) {
	r.seq++
	app.ID = fmt.Sprintf("app-%d", r.seq)
	app.UpdatedAt = app.SubmittedAt
	stored := app
	r.apps[app.ID] = &stored
	return app, nil
}

func (r *fakeCorrectionRepo) GetByID(ctx context.Context, id string) (correction.CorrectionApplication, error) {
	app, ok := r.apps[id]
	if !ok {
		return correction.CorrectionApplication{}, correction.ErrApplicationNotFound
	}
	return *app, nil
}

func (r *fakeCorrectionRepo) GetLatestByUserAndDate(ctx context.Context, userID string, workDate time.Time) (*correction.CorrectionApplication, error) {
	var latest *correction.CorrectionApplication
	for _, app := range r.apps {
		if app.UserID != userID || !app.WorkDate.Equal(workDate) {
			continue
		}
		if latest == nil || app.UpdatedAt.After(latest.UpdatedAt) {
			latest = app
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeCorrectionRepo) HasPending(ctx context.Context, userID string, workDate time.Time) (bool, error) {
	for _, app := range r.apps {
		if app.UserID == userID && app.WorkDate.Equal(workDate) && app.Pending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCorrectionRepo) List(ctx context.Context, filter correction.ListFilter) ([]correction.CorrectionApplication, int64, error) {
	var out []correction.CorrectionApplication
	for _, app := range r.apps {
		if filter.UserID != nil && *filter.UserID != "" && app.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && *filter.Status == "pending" && !app.Pending {
			continue
		}
		if filter.Status != nil && *filter.Status == "approved" && app.Pending {
			continue
		}
		out = append(out, *app)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCorrectionRepo) MarkApproved(ctx context.Context, id string, at time.Time) error {
	app, ok := r.apps[id]
	if !ok {
		return correction.ErrApplicationNotFound
	}
	if !app.Pending {
		return correction.ErrAlreadyApproved
	}
	app.Pending = false
	app.UpdatedAt = at
	return nil
}

type fixture struct {
	svc            correction.CorrectionService
	shiftRepo      *fakeShiftRepo
	correctionRepo *fakeCorrectionRepo
	clock          *clockwork.FixedClock
}

func newFixture(start time.Time) *fixture {
	shiftRepo := newFakeShiftRepo()
	correctionRepo := newFakeCorrectionRepo()
	clock := clockwork.NewFixedClock(start)
	limits := correction.Limits{ReasonMaxLength: 191, MaxShiftHours: 18}
	return &fixture{
		svc:            NewCorrectionService(passthroughTx{}, correctionRepo, shiftRepo, clock, tokyo, limits),
		shiftRepo:      shiftRepo,
		correctionRepo: correctionRepo,
		clock:          clock,
	}
}

func workDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, tokyo)
}

func seedShift(f *fixture, userID string, date time.Time) shift.ShiftRecord {
	clockIn := date.Add(9 * time.Hour)
	clockOut := date.Add(18 * time.Hour)
	breakEnd := date.Add(13 * time.Hour)
	record := shift.ShiftRecord{
		UserID:   userID,
		WorkDate: date,
		ClockIn:  &clockIn,
		ClockOut: &clockOut,
		Breaks:   []shift.BreakInterval{{Start: date.Add(12 * time.Hour), End: &breakEnd}},
	}
	shift.Recalculate(&record)
	created, _ := f.shiftRepo.Create(context.Background(), record)
	return created
}

func submitRequest() correction.SubmitCorrectionRequest {
	return correction.SubmitCorrectionRequest{
		Date:     "2026-03-10",
		ClockIn:  "09:00",
		ClockOut: "19:00",
		Breaks:   []correction.BreakInput{{Start: "12:00", End: "13:00"}},
		Reason:   "forgot to clock out",
	}
}

func TestSubmitStoresPendingApplication(t *testing.T) {
	f := newFixture(time.Date(2026, 3, 11, 10, 0, 0, 0, tokyo))
	ctx := authContext(t, "user-1", false)
	seedShift(f, "user-1", workDate(2026, 3, 10))

	resp, err := f.svc.Submit(ctx, submitRequest())
	require.NoError(t, err)

	assert.True(t, resp.Pending)
	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, "2026-03-10", resp.WorkDate)

	stored, err := f.correctionRepo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.True(t, stored.SubmittedAt.Equal(f.clock.Now()))
	require.NotNil(t, stored.RelatedShiftID, "submission links the existing shift")
}

func TestSubmitWithoutShiftHasNoRelatedID(t *testing.T) {
	f := newFixture(time.Date(2026, 3, 11, 10, 0, 0, 0, tokyo))
	ctx := authContext(t, "user-1", false)

	resp, err := f.svc.Submit(ctx, submitRequest())
	require.NoError(t, err)

	stored, err := f.correctionRepo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.RelatedShiftID)
}

func TestSubmitRejectsInvalidRequest(t *testing.T) {
	f := newFixture(time.Date(2026, 3, 11, 10, 0, 0, 0, tokyo))
	ctx := authContext(t, "user-1", false)

	req := submitRequest()
	req.Reason = ""
	req.ClockIn = "25:99"

	_, err := f.svc.Submit(ctx, req)
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.True(t, errs.HasField("reason"))
	assert.True(t, errs.HasField("clock_in"))
	assert.Empty(t, f.correctionRepo.apps, "nothing is stored on rejection")
}

func TestApproveMergesIntoExistingShift(t *testing.T) {
	f := newFixture(time.Date(2026, 3, 11, 10, 0, 0, 0, tokyo))
	userCtx := authContext(t, "user-1", false)
	adminCtx := authContext(t, "admin-1", true)

	// Punched 09:00-18:00 with a one hour break: 480 worked minutes.
	seeded := seedShift(f, "user-1", workDate(2026, 3, 10))
	require.NotNil(t, seeded.WorkMinutes)
	require.Equal(t, 480, *seeded.WorkMinutes)

	submitted, err := f.svc.Submit(userCtx, submitRequest())
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	approved, err := f.svc.Approve(adminCtx, submitted.ID)
	require.NoError(t, err)
	assert.False(t, approved.Pending)

	// The correction pushed clock-out to 19:00: 540 worked minutes now.
	record, err := f.shiftRepo.GetByUserAndDate(context.Background(), "user-1", workDate(2026, 3, 10))
	require.NoError(t, err)
	require.NotNil(t, record)
	require.NotNil(t, record.WorkMinutes)
	assert.Equal(t, 540, *record.WorkMinutes)
	assert.Equal(t, 60, *record.BreakMinutes)
	require.NotNil(t, record.Note)
	assert.Equal(t, "forgot to clock out", *record.Note)
}

func TestApproveCreatesShiftWhenMissing(t *testing.T) {
	f := newFixture(time.Date(2026, 3, 11, 10, 0, 0, 0, tokyo))
	userCtx := authContext(t, "user-1", false)
	adminCtx := authContext(t, "admin-1", true)

	submitted, err := f.svc.Submit(userCtx, submitRequest())
	require.NoError(t, err)

	_, err = f.svc.Approve(adminCtx, submitted.ID)
	require.NoError(t, err)

	record, err := f.shiftRepo.GetByUserAndDate(context.Background(), "user-1", workDate(2026, 3, 10))
	require.NoError(t, err)
	require.NotNil(t, record, "approval materializes the day's record")
	require.NotNil(t, record.WorkMinutes)
	assert.Equal(t, 540, *record.WorkMinutes)
}

func TestApproveTwiceRejected(t *testing.T) {
	f := newFixture(time.Date(2026, 3, 11, 10, 0, 0, 0, tokyo))
	userCtx := authContext(t, "user-1", false)
	adminCtx := authContext(t, "admin-1", true)

	submitted, err := f.svc.Submit(userCtx, submitRequest())
	require.NoError(t, err)

	_, err = f.svc.Approve(adminCtx, submitted.ID)
	require.NoError(t, err)

	_, err = f.svc.Approve(adminCtx, submitted.ID)
	assert.ErrorIs(t, err, correction.ErrAlreadyApproved)
}

func TestApproveUnknownApplication(t *testing.T) {
	f := newFixture(time.Date(2026, 3, 11, 10, 0, 0, 0, tokyo))
	adminCtx := authContext(t, "admin-1", true)

	_, err := f.svc.Approve(adminCtx, "no-such-id")
	assert.ErrorIs(t, err, correction.ErrApplicationNotFound)
}

func TestApproveFailedShiftWriteLeavesApplicationPending(t *testing.T) {
	f := newFixture(time.Date(2026, 3, 11, 10, 0, 0, 0, tokyo))
	userCtx := authContext(t, "user-1", false)
	adminCtx := authContext(t, "admin-1", true)

	seedShift(f, "user-1", workDate(2026, 3, 10))
	submitted, err := f.svc.Submit(userCtx, submitRequest())
	require.NoError(t, err)

	f.shiftRepo.updateErr = errors.New("connection reset")
	_, err = f.svc.Approve(adminCtx, submitted.ID)
	require.Error(t, err)

	// The merge never happened, so the pending flag must not flip either.
	stored, err := f.correctionRepo.GetByID(context.Background(), submitted.ID)
	require.NoError(t, err)
	assert.True(t, stored.Pending)

	record, getErr := f.shiftRepo.GetByUserAndDate(context.Background(), "user-1", workDate(2026, 3, 10))
	require.NoError(t, getErr)
	require.NotNil(t, record.WorkMinutes)
	assert.Equal(t, 480, *record.WorkMinutes, "shift record keeps its punched totals")
}

func TestGetEnforcesOwnership(t *testing.T) {
	f := newFixture(time.Date(2026, 3, 11, 10, 0, 0, 0, tokyo))
	ownerCtx := authContext(t, "user-1", false)
	strangerCtx := authContext(t, "user-2", false)
	adminCtx := authContext(t, "admin-1", true)

	submitted, err := f.svc.Submit(ownerCtx, submitRequest())
	require.NoError(t, err)

	_, err = f.svc.Get(strangerCtx, submitted.ID)
	assert.ErrorIs(t, err, correction.ErrNotOwned)

	_, err = f.svc.Get(ownerCtx, submitted.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(adminCtx, submitted.ID)
	assert.NoError(t, err)
}

func TestListScopesNonAdminsToTheirOwn(t *testing.T) {
	f := newFixture(time.Date(2026, 3, 11, 10, 0, 0, 0, tokyo))
	user1 := authContext(t, "user-1", false)
	user2 := authContext(t, "user-2", false)

	_, err := f.svc.Submit(user1, submitRequest())
	require.NoError(t, err)
	req2 := submitRequest()
	req2.Date = "2026-03-09"
	_, err = f.svc.Submit(user2, req2)
	require.NoError(t, err)

	// user-2 asking for user-1's applications still only sees their own.
	other := "user-1"
	resp, err := f.svc.List(user2, correction.ListFilter{UserID: &other})
	require.NoError(t, err)
	require.Len(t, resp.Corrections, 1)
	assert.Equal(t, "user-2", resp.Corrections[0].UserID)
}

func TestListStatusFilter(t *testing.T) {
	f := newFixture(time.Date(2026, 3, 11, 10, 0, 0, 0, tokyo))
	userCtx := authContext(t, "user-1", false)
	adminCtx := authContext(t, "admin-1", true)

	first, err := f.svc.Submit(userCtx, submitRequest())
	require.NoError(t, err)
	second := submitRequest()
	second.Date = "2026-03-09"
	_, err = f.svc.Submit(userCtx, second)
	require.NoError(t, err)

	_, err = f.svc.Approve(adminCtx, first.ID)
	require.NoError(t, err)

	pending := "pending"
	resp, err := f.svc.List(adminCtx, correction.ListFilter{Status: &pending})
	require.NoError(t, err)
	require.Len(t, resp.Corrections, 1)
	assert.True(t, resp.Corrections[0].Pending)

	approved := "approved"
	resp, err = f.svc.List(adminCtx, correction.ListFilter{Status: &approved})
	require.NoError(t, err)
	require.Len(t, resp.Corrections, 1)
	assert.False(t, resp.Corrections[0].Pending)
}
