package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokyo = mustLoadLocation("Asia/Tokyo")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, tokyo)
}

func atSec(hour, min, sec int) time.Time {
	return time.Date(2026, 3, 10, hour, min, sec, 0, tokyo)
}

func tp(t time.Time) *time.Time { return &t }

func TestNormalizeSpan(t *testing.T) {
	cases := []struct {
		name      string
		start     time.Time
		end       time.Time
		wantHours float64
	}{
		{"ordered span untouched", at(9, 0), at(18, 0), 9},
		{"end before start advances a day", at(21, 0), at(6, 0), 9},
		{"equal endpoints stay equal", at(9, 0), at(9, 0), 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			start, end := NormalizeSpan(c.start, c.end)
			assert.Equal(t, c.wantHours, end.Sub(start).Hours())
		})
	}
}

func TestBreakSeconds(t *testing.T) {
	cases := []struct {
		name   string
		breaks []BreakInterval
		want   int64
	}{
		{"no breaks", nil, 0},
		{"single closed break", []BreakInterval{{Start: at(12, 0), End: tp(at(12, 45))}}, 45 * 60},
		{"open break contributes zero", []BreakInterval{{Start: at(12, 0)}}, 0},
		{
			"open break does not mask closed ones",
			[]BreakInterval{
				{Start: at(10, 0), End: tp(at(10, 15))},
				{Start: at(15, 0)},
			},
			15 * 60,
		},
		{
			"break crossing midnight normalizes",
			[]BreakInterval{{Start: at(23, 30), End: tp(at(0, 30))}},
			60 * 60,
		},
		{"zero-length break contributes zero", []BreakInterval{{Start: at(12, 0), End: tp(at(12, 0))}}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, BreakSeconds(c.breaks))
		})
	}
}

func TestRecalculateSimpleDay(t *testing.T) {
	s := &ShiftRecord{
		ClockIn:  tp(at(9, 0)),
		ClockOut: tp(at(18, 0)),
		Breaks:   []BreakInterval{{Start: at(12, 0), End: tp(at(13, 0))}},
	}
	Recalculate(s)

	require.NotNil(t, s.WorkMinutes)
	require.NotNil(t, s.BreakMinutes)
	assert.Equal(t, 480, *s.WorkMinutes)
	assert.Equal(t, 60, *s.BreakMinutes)
}

func TestRecalculateNightShift(t *testing.T) {
	// 21:00 to 06:00 next day with a 02:00-02:30 break: the raw timestamps
	// both belong to the work date, so the clock-out and the break fall
	// nominally before the clock-in.
	s := &ShiftRecord{
		ClockIn:  tp(at(21, 0)),
		ClockOut: tp(at(6, 0)),
		Breaks:   []BreakInterval{{Start: at(2, 0), End: tp(at(2, 30))}},
	}
	Recalculate(s)

	require.NotNil(t, s.WorkMinutes)
	assert.Equal(t, 510, *s.WorkMinutes)
	assert.Equal(t, 30, *s.BreakMinutes)
}

func TestRecalculateOpenShift(t *testing.T) {
	s := &ShiftRecord{
		ClockIn: tp(at(9, 0)),
		Breaks:  []BreakInterval{{Start: at(10, 0), End: tp(at(10, 30))}},
	}
	Recalculate(s)

	assert.Nil(t, s.WorkMinutes, "work stays unset while the shift is open")
	require.NotNil(t, s.BreakMinutes)
	assert.Equal(t, 30, *s.BreakMinutes)
}

func TestRecalculateClampsAtZero(t *testing.T) {
	// Breaks longer than the shift itself must not drive work negative.
	s := &ShiftRecord{
		ClockIn:  tp(at(9, 0)),
		ClockOut: tp(at(10, 0)),
		Breaks: []BreakInterval{
			{Start: at(9, 0), End: tp(at(10, 30))},
		},
	}
	Recalculate(s)

	require.NotNil(t, s.WorkMinutes)
	assert.Equal(t, 0, *s.WorkMinutes)
	assert.Equal(t, 90, *s.BreakMinutes)
}

func TestRecalculateIsIdempotent(t *testing.T) {
	s := &ShiftRecord{
		ClockIn:  tp(atSec(9, 0, 10)),
		ClockOut: tp(atSec(17, 30, 40)),
		Breaks:   []BreakInterval{{Start: at(12, 0), End: tp(atSec(12, 30, 29))}},
	}
	Recalculate(s)
	first, firstBreak := *s.WorkMinutes, *s.BreakMinutes

	Recalculate(s)
	assert.Equal(t, first, *s.WorkMinutes)
	assert.Equal(t, firstBreak, *s.BreakMinutes)
}

func TestRoundHalfUpMinutes(t *testing.T) {
	cases := []struct {
		seconds int64
		want    int
	}{
		{0, 0},
		{-10, 0},
		{29, 0},
		{30, 1},
		{59, 1},
		{60, 1},
		{89, 1},
		{90, 2},
		{3600, 60},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, roundHalfUpMinutes(c.seconds), "seconds=%d", c.seconds)
	}
}

func TestFormatMinutes(t *testing.T) {
	zero := 0
	sixty := 60
	long := 492
	negative := -5

	assert.Equal(t, "", FormatMinutes(nil), "unset renders empty")
	assert.Equal(t, "0:00", FormatMinutes(&zero), "explicit zero renders 0:00")
	assert.Equal(t, "1:00", FormatMinutes(&sixty))
	assert.Equal(t, "8:12", FormatMinutes(&long))
	assert.Equal(t, "0:00", FormatMinutes(&negative))
}
