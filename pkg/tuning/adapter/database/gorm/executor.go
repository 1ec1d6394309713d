package gorm

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tigerroll/tunestore/pkg/tuning/core/tx"
)

// TableNamer represents a struct that has a TableName() string method.
type TableNamer interface {
	TableName() string
}

// applyTableName applies the table name to the GORM DB session if the model implements the TableNamer interface.
func applyTableName(db *gorm.DB, model interface{}) *gorm.DB {
	if namer, ok := model.(TableNamer); ok {
		return db.Table(namer.TableName())
	}

	val := reflect.ValueOf(model)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	// For slices, check if the element type implements TableNamer.
	if val.Kind() == reflect.Slice || val.Kind() == reflect.Array {
		elemType := val.Type().Elem()
		if elemType.Kind() == reflect.Ptr {
			elemType = elemType.Elem()
		}
		if namer, ok := reflect.New(elemType).Interface().(TableNamer); ok {
			return db.Table(namer.TableName())
		}
	}

	// If unable to resolve, let GORM infer the table name from the model.
	return db.Model(model)
}

// supportsLockingClause reports whether the dialect accepts FOR SHARE / FOR UPDATE.
// SQLite serialises writers and rejects the clause.
func supportsLockingClause(db *gorm.DB) bool {
	return db.Dialector != nil && db.Dialector.Name() != "sqlite"
}

// gormExecutor implements tx.TxExecutor on a *gorm.DB. It backs both the plain
// connection adapter and the transaction adapter.
type gormExecutor struct {
	db *gorm.DB
}

// ExecuteUpdate implements tx.TxExecutor.
func (e *gormExecutor) ExecuteUpdate(ctx context.Context, model interface{}, operation string, tableName string, query map[string]interface{}) (rowsAffected int64, err error) {
	db := e.db.WithContext(ctx)

	// Atomicity is provided by the caller's transaction.
	db = db.Session(&gorm.Session{SkipDefaultTransaction: true})

	// Apply table name if specified (prioritize instructions from the repository layer).
	if tableName != "" {
		db = db.Table(tableName)
	}

	var result *gorm.DB
	switch operation {
	case "CREATE":
		result = db.Create(model)

	case "UPDATE":
		// db.Model(model) adds the primary key condition. Select("*") writes zero
		// values too, so false flags and cleared references are persisted.
		db = db.Model(model).Select("*")
		if len(query) > 0 {
			db = db.Where(query)
		}
		result = db.Updates(model)

	case "DELETE":
		if len(query) > 0 {
			db = db.Where(query)
		}
		result = db.Delete(model)

	default:
		return 0, fmt.Errorf("unsupported update operation: %s", operation)
	}

	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ExecuteQuery implements tx.TxExecutor.
func (e *gormExecutor) ExecuteQuery(ctx context.Context, target interface{}, query map[string]interface{}) error {
	return e.ExecuteQueryAdvanced(ctx, target, query, "", 0)
}

// ExecuteQueryAdvanced implements tx.TxExecutor.
func (e *gormExecutor) ExecuteQueryAdvanced(ctx context.Context, target interface{}, query map[string]interface{}, orderBy string, limit int) error {
	db := applyTableName(e.db.WithContext(ctx), target)
	if len(query) > 0 {
		db = db.Where(query)
	}
	if orderBy != "" {
		db = db.Order(orderBy)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}
	// Find does not report ErrRecordNotFound; callers check the result size.
	return db.Find(target).Error
}

// ExecuteQueryLocked implements tx.TxExecutor.
func (e *gormExecutor) ExecuteQueryLocked(ctx context.Context, target interface{}, query map[string]interface{}, lock tx.LockMode) error {
	db := applyTableName(e.db.WithContext(ctx), target)
	if len(query) > 0 {
		db = db.Where(query)
	}
	if lock != tx.LockNone && supportsLockingClause(e.db) {
		db = db.Clauses(clause.Locking{Strength: lock.String()})
	}
	return db.Find(target).Error
}

// Count implements tx.TxExecutor.
func (e *gormExecutor) Count(ctx context.Context, model interface{}, query map[string]interface{}) (int64, error) {
	db := applyTableName(e.db.WithContext(ctx), model)
	if len(query) > 0 {
		db = db.Where(query)
	}
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ tx.TxExecutor = (*gormExecutor)(nil)
