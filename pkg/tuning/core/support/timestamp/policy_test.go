package timestamp_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tigerroll/tunestore/pkg/tuning/core/domain/model"
	"github.com/tigerroll/tunestore/pkg/tuning/core/support/timestamp"
)

func fixedClock(t time.Time) timestamp.Clock {
	return timestamp.ClockFunc(func() time.Time { return t })
}

func TestPolicy_StampCreate(t *testing.T) {
	local := time.FixedZone("JST", 9*60*60)
	now := time.Date(2024, 5, 1, 9, 0, 0, 999999999, local)
	p := timestamp.NewPolicy(fixedClock(now))

	var ts model.Timestamps
	p.StampCreate(&ts)

	assert.Equal(t, time.UTC, ts.CreatedTs.Location())
	assert.Equal(t, 999999000, ts.CreatedTs.Nanosecond())
	assert.Equal(t, ts.CreatedTs, ts.UpdatedTs)
	assert.True(t, ts.CreatedTs.Equal(now.Truncate(time.Microsecond)))
}

func TestPolicy_StampUpdateIsStrictlyIncreasing(t *testing.T) {
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	previous := created.Add(time.Second)

	// A clock behind the previous update still yields a later updatedTs.
	p := timestamp.NewPolicy(fixedClock(created.Add(-time.Hour)))
	ts := model.Timestamps{CreatedTs: time.Now(), UpdatedTs: time.Now()}
	got := p.StampUpdate(&ts, created, previous)

	assert.Equal(t, previous.Add(timestamp.Precision), got)
	assert.Equal(t, created, ts.CreatedTs, "caller-supplied createdTs is discarded")
	assert.Equal(t, got, ts.UpdatedTs)

	later := previous.Add(time.Minute)
	p = timestamp.NewPolicy(fixedClock(later))
	assert.Equal(t, later, p.StampUpdate(&ts, created, ts.UpdatedTs))
}

func TestPolicy_ZeroValueUsesSystemClock(t *testing.T) {
	before := time.Now().UTC().Truncate(time.Microsecond)
	var ts model.Timestamps
	(&timestamp.Policy{}).StampCreate(&ts)
	assert.False(t, ts.CreatedTs.Before(before))

	assert.NotNil(t, timestamp.NewPolicy(nil).Clock)
}
