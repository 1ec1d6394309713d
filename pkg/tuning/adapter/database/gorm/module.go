package gorm

import (
	"context"

	"go.uber.org/fx"

	"github.com/tigerroll/tunestore/pkg/tuning/adapter/database"
	coreAdapter "github.com/tigerroll/tunestore/pkg/tuning/core/adapter"
	"github.com/tigerroll/tunestore/pkg/tuning/support/util/logger"
)

// Module exports the components of the gorm adapter package (excluding concrete DB Providers).
var Module = fx.Options(
	fx.Provide(NewGormDBConnectionResolver),
	fx.Provide(func(r *GormDBConnectionResolver) database.DBConnectionResolver { return r }),
	fx.Provide(func(r *GormDBConnectionResolver) coreAdapter.ResourceConnectionResolver { return r }),
	fx.Provide(NewGormTransactionManagerFactory),
	fx.Invoke(registerCloseHook),
)

func registerCloseHook(lc fx.Lifecycle, r *GormDBConnectionResolver) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Debugf("Closing all database connections.")
			return r.CloseAll()
		},
	})
}
