// Package toggle implements "delete the relation if present, otherwise
// create it" on top of a unique index.
package toggle

import (
	"context"
	"errors"

	"vidtube/internal/apperr"
	"vidtube/pkg/metrics"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// State outcome of a toggle
type State string

const (
	Added   State = "added"
	Removed State = "removed"
)

const defaultMaxAttempts = 3

// Spec describes one relation toggle.
//
// Key must name exactly the columns of a unique index on the table of Model,
// and New must return a fresh record whose fields match Key.
type Spec struct {
	Model interface{}
	Key   map[string]interface{}
	New   func() interface{}
}

// Result of a toggle; Record is set only when State is Added
type Result struct {
	State  State
	Record interface{}
}

// Engine runs toggles against a database
type Engine struct {
	db          *gorm.DB
	maxAttempts int
}

// NewEngine returns an engine bound to db
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db, maxAttempts: defaultMaxAttempts}
}

// Toggle deletes the row matching spec.Key, or inserts spec.New() when
// nothing was deleted. Both steps are single statements: the DELETE is
// atomic and the INSERT is ON CONFLICT DO NOTHING, so two concurrent callers
// can never both observe Added. When the insert loses a race the toggle
// starts over; after maxAttempts it gives up with a Conflict error.
func (e *Engine) Toggle(ctx context.Context, spec Spec) (*Result, error) {
	if spec.Model == nil || spec.New == nil || len(spec.Key) == 0 {
		return nil, apperr.Internal(errors.New("incomplete toggle spec"), "failed to toggle relation")
	}

	db := e.db.WithContext(ctx)
	table := tableName(db, spec.Model)

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		del := db.Where(spec.Key).Delete(spec.Model)
		if del.Error != nil {
			return nil, apperr.Internal(del.Error, "failed to toggle relation")
		}
		if del.RowsAffected > 0 {
			metrics.ToggleOutcomes.WithLabelValues(table, string(Removed)).Inc()
			return &Result{State: Removed}, nil
		}

		record := spec.New()
		ins := db.Clauses(clause.OnConflict{DoNothing: true}).Create(record)
		if ins.Error != nil {
			return nil, apperr.FromDB(ins.Error, "failed to toggle relation", "related resource not found")
		}
		if ins.RowsAffected == 1 {
			metrics.ToggleOutcomes.WithLabelValues(table, string(Added)).Inc()
			return &Result{State: Added, Record: record}, nil
		}
	}

	metrics.ToggleOutcomes.WithLabelValues(table, "conflict").Inc()
	return nil, apperr.Conflict("relation changed concurrently, please retry")
}

func tableName(db *gorm.DB, model interface{}) string {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return "unknown"
	}
	return stmt.Schema.Table
}
