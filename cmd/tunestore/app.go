package main

import (
	"context"
	"os"
	"strings"

	"go.uber.org/fx"

	gormadapter "github.com/tigerroll/tunestore/pkg/tuning/adapter/database/gorm"
	"github.com/tigerroll/tunestore/pkg/tuning/adapter/database/gorm/mysql"
	"github.com/tigerroll/tunestore/pkg/tuning/adapter/database/gorm/postgres"
	"github.com/tigerroll/tunestore/pkg/tuning/adapter/database/gorm/sqlite"
	"github.com/tigerroll/tunestore/pkg/tuning/core/config"
	infraMetrics "github.com/tigerroll/tunestore/pkg/tuning/infrastructure/metrics"
	"github.com/tigerroll/tunestore/pkg/tuning/support/util/logger"
)

// dbProviderModules maps adapter names accepted in DB_ADAPTERS to their provider modules.
var dbProviderModules = map[string]fx.Option{
	"sqlite":   sqlite.Module,
	"mysql":    mysql.Module,
	"postgres": postgres.Module,
}

// getDBProviderOptions selects the DB providers named by the comma-separated
// DB_ADAPTERS environment variable. All providers are registered when it is unset.
func getDBProviderOptions() []fx.Option {
	adapters := os.Getenv("DB_ADAPTERS")
	if adapters == "" {
		adapters = "postgres,mysql,sqlite"
	}

	options := make([]fx.Option, 0, len(dbProviderModules))
	for _, name := range strings.Split(adapters, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if module, ok := dbProviderModules[name]; ok {
			options = append(options, module)
			logger.Debugf("DB Provider '%s' selected and registered.", name)
		} else {
			logger.Warnf("DB Provider '%s' is configured but not recognized/supported. Skipping.", name)
		}
	}
	return options
}

// runApp builds the Fx application of one command, populates targets, starts
// it, runs action and stops it again. A failing stop is reported only when
// action succeeded.
func runApp(ctx context.Context, opts *globalOptions, extra []fx.Option, action func(ctx context.Context) error, targets ...interface{}) (err error) {
	raw, err := opts.configBytes()
	if err != nil {
		return err
	}

	app := fx.New(
		fx.Supply(
			config.EmbeddedConfig(raw),
			fx.Annotate(opts.envFile, fx.ResultTags(`name:"envFilePath"`)),
		),
		logger.Module,
		config.Module,
		gormadapter.Module,
		fx.Options(getDBProviderOptions()...),
		infraMetrics.Module,
		fx.Options(extra...),
		fx.Populate(targets...),
	)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
		defer cancel()
		if stopErr := app.Stop(stopCtx); stopErr != nil && err == nil {
			err = stopErr
		}
	}()

	return action(ctx)
}
