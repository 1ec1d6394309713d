package test

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tigerroll/tunestore/pkg/tuning/adapter/database"
	coreadapter "github.com/tigerroll/tunestore/pkg/tuning/core/adapter"
	"github.com/tigerroll/tunestore/pkg/tuning/core/config"
)

// NewSQLiteMemoryConfig returns a configuration whose connection name points at a
// private in-memory SQLite database.
func NewSQLiteMemoryConfig(name string) *config.Config {
	cfg := config.NewConfig()
	cfg.Tunestore.Infrastructure.RepositoryDBRef = name
	cfg.Tunestore.AdapterConfigs["database"] = map[string]interface{}{
		name: map[string]interface{}{
			"type":     "sqlite",
			"database": SQLiteMemoryDSN(),
		},
	}
	return cfg
}

// SQLiteMemoryDSN returns a DSN of a uniquely named shared-cache in-memory database.
func SQLiteMemoryDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// testSingleConnectionResolver always returns the same connection.
type testSingleConnectionResolver struct {
	conn database.DBConnection
}

// NewTestSingleConnectionResolver creates a resolver that always returns conn.
func NewTestSingleConnectionResolver(conn database.DBConnection) database.DBConnectionResolver {
	return &testSingleConnectionResolver{conn: conn}
}

// ResolveDBConnection implements database.DBConnectionResolver.
func (r *testSingleConnectionResolver) ResolveDBConnection(ctx context.Context, name string) (database.DBConnection, error) {
	return r.conn, nil
}

// ResolveConnection implements coreadapter.ResourceConnectionResolver.
func (r *testSingleConnectionResolver) ResolveConnection(ctx context.Context, name string) (coreadapter.ResourceConnection, error) {
	return r.conn, nil
}

var _ database.DBConnectionResolver = (*testSingleConnectionResolver)(nil)
