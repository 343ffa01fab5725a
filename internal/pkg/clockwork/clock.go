package clockwork

import "time"

// Clock supplies the current instant to every state-transition operation so
// punch stamping is deterministic under test.
type Clock interface {
	Now() time.Time
}

type realClock struct {
	loc *time.Location
}

// NewRealClock returns a Clock reporting wall time in loc.
func NewRealClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &realClock{loc: loc}
}

func (c *realClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// FixedClock always reports the instants it is told to. Advance moves it
// forward between punches in a test scenario.
type FixedClock struct {
	current time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{current: t}
}

func (c *FixedClock) Now() time.Time {
	return c.current
}

func (c *FixedClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func (c *FixedClock) Set(t time.Time) {
	c.current = t
}
