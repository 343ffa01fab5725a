package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	var nilRecord *ShiftRecord
	assert.Equal(t, StatusNotClockedIn, nilRecord.Status())

	s := &ShiftRecord{}
	assert.Equal(t, StatusNotClockedIn, s.Status())

	s.ClockIn = tp(at(9, 0))
	assert.Equal(t, StatusWorking, s.Status())

	require.NoError(t, s.AddBreakStart(at(12, 0)))
	assert.Equal(t, StatusOnBreak, s.Status())

	require.NoError(t, s.CloseLatestOpenBreak(at(12, 30)))
	assert.Equal(t, StatusWorking, s.Status())

	require.NoError(t, s.SetClockOut(at(18, 0)))
	assert.Equal(t, StatusClockedOut, s.Status())
}

func TestAddBreakStartGuards(t *testing.T) {
	s := &ShiftRecord{}
	assert.ErrorIs(t, s.AddBreakStart(at(12, 0)), ErrNotClockedIn)

	s.ClockIn = tp(at(9, 0))
	require.NoError(t, s.AddBreakStart(at(12, 0)))

	// A second break cannot start while one is open.
	assert.ErrorIs(t, s.AddBreakStart(at(12, 5)), ErrBreakAlreadyOpen)
	assert.Len(t, s.Breaks, 1, "rejected punch leaves the log untouched")

	require.NoError(t, s.CloseLatestOpenBreak(at(12, 30)))
	require.NoError(t, s.SetClockOut(at(18, 0)))
	assert.ErrorIs(t, s.AddBreakStart(at(18, 5)), ErrAlreadyClockedOut)
}

func TestCloseLatestOpenBreak(t *testing.T) {
	s := &ShiftRecord{ClockIn: tp(at(9, 0))}
	assert.ErrorIs(t, s.CloseLatestOpenBreak(at(12, 0)), ErrNoOpenBreak)

	require.NoError(t, s.AddBreakStart(at(12, 0)))
	require.NoError(t, s.CloseLatestOpenBreak(at(12, 30)))
	assert.ErrorIs(t, s.CloseLatestOpenBreak(at(12, 45)), ErrNoOpenBreak)
}

func TestCloseLatestOpenBreakIsLIFO(t *testing.T) {
	// Legacy data can hold more than one open entry; only the most recent
	// one is eligible for closing.
	s := &ShiftRecord{
		ClockIn: tp(at(9, 0)),
		Breaks: []BreakInterval{
			{Start: at(10, 0)},
			{Start: at(12, 0)},
		},
	}

	require.NoError(t, s.CloseLatestOpenBreak(at(12, 30)))
	assert.Nil(t, s.Breaks[0].End)
	require.NotNil(t, s.Breaks[1].End)
	assert.True(t, s.Breaks[1].End.Equal(at(12, 30)))
}

func TestSetClockOutGuards(t *testing.T) {
	s := &ShiftRecord{}
	assert.ErrorIs(t, s.SetClockOut(at(18, 0)), ErrNotClockedIn)

	s.ClockIn = tp(at(9, 0))
	require.NoError(t, s.AddBreakStart(at(12, 0)))
	assert.ErrorIs(t, s.SetClockOut(at(18, 0)), ErrBreakStillOpen)
	assert.Nil(t, s.ClockOut, "rejected clock-out leaves the record open")

	require.NoError(t, s.CloseLatestOpenBreak(at(12, 30)))
	require.NoError(t, s.SetClockOut(at(18, 0)))
	assert.ErrorIs(t, s.SetClockOut(at(18, 5)), ErrAlreadyClockedOut)
}

func TestOpenBreakIndex(t *testing.T) {
	s := &ShiftRecord{}
	assert.Equal(t, -1, s.OpenBreakIndex())

	end := at(10, 30)
	s.Breaks = []BreakInterval{
		{Start: at(10, 0), End: &end},
		{Start: at(12, 0)},
	}
	assert.Equal(t, 1, s.OpenBreakIndex())
}

func TestBreakLogKeepsInsertionOrder(t *testing.T) {
	s := &ShiftRecord{ClockIn: tp(at(9, 0))}
	punches := []struct{ start, end time.Time }{
		{at(10, 0), at(10, 15)},
		{at(12, 0), at(12, 45)},
		{at(15, 0), at(15, 10)},
	}
	for _, p := range punches {
		require.NoError(t, s.AddBreakStart(p.start))
		require.NoError(t, s.CloseLatestOpenBreak(p.end))
	}

	require.Len(t, s.Breaks, 3)
	for i, p := range punches {
		assert.True(t, s.Breaks[i].Start.Equal(p.start))
	}
}
