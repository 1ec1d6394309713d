// Package mysql provides a GORM DBProvider implementation for MySQL databases.
package mysql

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/tigerroll/tunestore/pkg/tuning/adapter/database"
	dbconfig "github.com/tigerroll/tunestore/pkg/tuning/adapter/database/config"
	gormadapter "github.com/tigerroll/tunestore/pkg/tuning/adapter/database/gorm"
	"github.com/tigerroll/tunestore/pkg/tuning/core/config"
)

// init registers the MySQL dialector factory with the gorm adapter.
func init() {
	gormadapter.RegisterDialector("mysql", func(cfg dbconfig.DatabaseConfig) (gorm.Dialector, error) {
		return mysql.Open(ConnectionString(cfg)), nil
	})
}

// MySQLDBProvider implements database.DBProvider for MySQL connections.
type MySQLDBProvider struct {
	*gormadapter.BaseProvider
}

// ConnectionString generates the DSN for MySQL connections. Times are read
// and written in UTC. Multi-statement execution is enabled for schema files.
func ConnectionString(c dbconfig.DatabaseConfig) string {
	credentials := c.User
	if c.Password != "" {
		credentials = fmt.Sprintf("%s:%s", c.User, c.Password)
	}
	return fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&multiStatements=true",
		credentials, c.Host, c.Port, c.Database)
}

// NewProvider creates a new MySQL DBProvider.
func NewProvider(cfg *config.Config) database.DBProvider {
	return &MySQLDBProvider{BaseProvider: gormadapter.NewBaseProvider(cfg, "mysql")}
}
