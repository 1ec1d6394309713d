package sql

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/tigerroll/tunestore/pkg/tuning/adapter/database"
	coreAdapter "github.com/tigerroll/tunestore/pkg/tuning/core/adapter"
	"github.com/tigerroll/tunestore/pkg/tuning/core/config"
	repository "github.com/tigerroll/tunestore/pkg/tuning/core/domain/repository"
	metrics "github.com/tigerroll/tunestore/pkg/tuning/core/metrics"
	"github.com/tigerroll/tunestore/pkg/tuning/core/support/timestamp"
	tx "github.com/tigerroll/tunestore/pkg/tuning/core/tx"
)

// defaultDBRef is the connection used when infrastructure.repository_db_ref is empty.
const defaultDBRef = "metadata"

// RepositoryDBName returns the connection name of the repository database.
func RepositoryDBName(cfg *config.Config) string {
	if name := cfg.Tunestore.Infrastructure.RepositoryDBRef; name != "" {
		return name
	}
	return defaultDBRef
}

// NewRepositoryTxManager creates the transaction manager of the repository database.
func NewRepositoryTxManager(cfg *config.Config, resolver database.DBConnectionResolver, factory tx.TransactionManagerFactory) (tx.TransactionManager, error) {
	name := RepositoryDBName(cfg)
	conn, err := resolver.ResolveDBConnection(context.Background(), name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository connection '%s': %w", name, err)
	}
	return factory.NewTransactionManager(conn), nil
}

// TuningRepositoryParams defines the dependencies required to create a NewTuningRepository.
type TuningRepositoryParams struct {
	fx.In
	DBResolver coreAdapter.ResourceConnectionResolver
	// TxManager is the transaction manager of the repository database.
	TxManager tx.TransactionManager `name:"repository"`
	Cfg       *config.Config
	Recorder  metrics.Recorder `optional:"true"`
	Tracer    metrics.Tracer   `optional:"true"`
	// Clock overrides the system clock of the timestamp policy.
	Clock timestamp.Clock `optional:"true"`
}

// NewTuningRepository creates and returns a TuningRepository instance.
// This function is intended to be used as an Fx provider.
func NewTuningRepository(p TuningRepositoryParams) repository.TuningRepository {
	opts := []Option{WithRecorder(p.Recorder), WithTracer(p.Tracer)}
	if p.Clock != nil {
		opts = append(opts, WithClock(p.Clock))
	}
	return NewSQLTuningRepository(p.DBResolver, p.TxManager, RepositoryDBName(p.Cfg), opts...)
}

// Module provides the SQL TuningRepository and the transaction manager it writes with.
var Module = fx.Options(
	fx.Provide(fx.Annotate(
		NewRepositoryTxManager,
		fx.ResultTags(`name:"repository"`),
	)),
	fx.Provide(NewTuningRepository),
)
