package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tigerroll/tunestore/pkg/tuning/adapter/database"
	"github.com/tigerroll/tunestore/pkg/tuning/core/config"
	"github.com/tigerroll/tunestore/pkg/tuning/infrastructure/repository/sql"
)

func newPingCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity of the repository database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg      *config.Config
				resolver database.DBConnectionResolver
			)
			return runApp(cmd.Context(), opts, nil, func(ctx context.Context) error {
				name := sql.RepositoryDBName(cfg)
				start := time.Now()
				conn, err := resolver.ResolveDBConnection(ctx, name)
				if err != nil {
					return fmt.Errorf("repository connection '%s' is unreachable: %w", name, err)
				}
				if err := conn.RefreshConnection(ctx); err != nil {
					return fmt.Errorf("repository connection '%s' is unreachable: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Connection '%s' (%s) is reachable (%s).\n", name, conn.Type(), time.Since(start).Round(time.Millisecond))
				return nil
			}, &cfg, &resolver)
		},
	}
}
