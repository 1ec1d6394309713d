// Package timestamp implements the creation/update timestamp policy applied by
// the repository layer to every mutation.
package timestamp

import (
	"time"
)

// Precision is the resolution stored timestamps are truncated to.
// Every supported dialect stores at least microseconds.
const Precision = time.Microsecond

// Clock is a wall-clock source.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads time.Now.
var SystemClock Clock = ClockFunc(time.Now)

// Stamped is implemented by every persisted entity.
type Stamped interface {
	GetCreatedTs() time.Time
	SetCreatedTs(time.Time)
	GetUpdatedTs() time.Time
	SetUpdatedTs(time.Time)
}

// Policy stamps createdTs/updatedTs. The zero value uses SystemClock.
type Policy struct {
	Clock Clock
}

// NewPolicy creates a Policy reading the given clock. A nil clock means SystemClock.
func NewPolicy(clock Clock) *Policy {
	if clock == nil {
		clock = SystemClock
	}
	return &Policy{Clock: clock}
}

func (p *Policy) now() time.Time {
	c := p.Clock
	if c == nil {
		c = SystemClock
	}
	return Normalize(c.Now())
}

// StampCreate overwrites both timestamps with the current time.
func (p *Policy) StampCreate(e Stamped) time.Time {
	now := p.now()
	e.SetCreatedTs(now)
	e.SetUpdatedTs(now)
	return now
}

// StampUpdate overwrites updatedTs so that it is strictly after both the
// previous updatedTs and createdTs. createdTs is restored to previousCreated,
// discarding any caller-supplied value.
func (p *Policy) StampUpdate(e Stamped, previousCreated, previousUpdated time.Time) time.Time {
	now := p.now()
	floor := Normalize(previousUpdated).Add(Precision)
	if now.Before(floor) {
		now = floor
	}
	e.SetCreatedTs(Normalize(previousCreated))
	e.SetUpdatedTs(now)
	return now
}

// Normalize converts t to UTC at storage precision.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(Precision)
}
