// Package model defines the entities of the tuning metadata store: flows, their
// executions, tuning-algorithm configuration, tuning parameters, and the
// parameter sets and values an optimizer suggests for executions.
//
// Entities are pure data. Identity and timestamps are assigned by the
// repository layer; values set by callers for those fields are discarded on write.
package model

import "time"

// Timestamps holds the bookkeeping times shared by all entities.
type Timestamps struct {
	CreatedTs time.Time
	UpdatedTs time.Time
}

// GetCreatedTs returns the creation time.
func (t *Timestamps) GetCreatedTs() time.Time { return t.CreatedTs }

// SetCreatedTs sets the creation time.
func (t *Timestamps) SetCreatedTs(ts time.Time) { t.CreatedTs = ts }

// GetUpdatedTs returns the last update time.
func (t *Timestamps) GetUpdatedTs() time.Time { return t.UpdatedTs }

// SetUpdatedTs sets the last update time.
func (t *Timestamps) SetUpdatedTs(ts time.Time) { t.UpdatedTs = ts }
