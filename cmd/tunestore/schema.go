package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tigerroll/tunestore/pkg/tuning/adapter/database"
	"github.com/tigerroll/tunestore/pkg/tuning/core/config"
	"github.com/tigerroll/tunestore/pkg/tuning/infrastructure/repository/sql"
	"github.com/tigerroll/tunestore/pkg/tuning/infrastructure/schema"
	"github.com/tigerroll/tunestore/pkg/tuning/support/util/logger"
)

// schemaVersion is the rendered state of the migrations table.
type schemaVersion struct {
	Connection string `json:"connection" yaml:"connection"`
	Type       string `json:"type" yaml:"type"`
	Installed  bool   `json:"installed" yaml:"installed"`
	Version    uint   `json:"version" yaml:"version"`
	Dirty      bool   `json:"dirty" yaml:"dirty"`
}

func newSchemaCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Install, remove and inspect the store schema",
	}
	cmd.AddCommand(newSchemaUpCmd(opts))
	cmd.AddCommand(newSchemaDownCmd(opts))
	cmd.AddCommand(newSchemaVersionCmd(opts))
	return cmd
}

// withMigrator runs fn with a migrator bound to the repository connection.
func withMigrator(cmd *cobra.Command, opts *globalOptions, fn func(ctx context.Context, m *schema.Migrator, conn database.DBConnection) error) error {
	var (
		cfg      *config.Config
		resolver database.DBConnectionResolver
	)
	return runApp(cmd.Context(), opts, nil, func(ctx context.Context) error {
		name := sql.RepositoryDBName(cfg)
		conn, err := resolver.ResolveDBConnection(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to resolve repository connection '%s': %w", name, err)
		}
		return fn(ctx, schema.NewMigrator(conn), conn)
	}, &cfg, &resolver)
}

func newSchemaUpCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, opts, func(ctx context.Context, m *schema.Migrator, conn database.DBConnection) error {
				if err := m.Up(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Schema of '%s' (%s) is up to date.\n", conn.Name(), conn.Type())
				return nil
			})
		},
	}
}

func newSchemaDownCmd(opts *globalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Drop every table of the store",
		Long: `Roll back all schema migrations. Every stored flow, algorithm and
suggestion is deleted. Requires --yes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to drop the schema without --yes")
			}
			return withMigrator(cmd, opts, func(ctx context.Context, m *schema.Migrator, conn database.DBConnection) error {
				logger.Warnf("Dropping schema of '%s' (%s).", conn.Name(), conn.Type())
				if err := m.Down(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Schema of '%s' (%s) removed.\n", conn.Name(), conn.Type())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm dropping all tables")
	return cmd
}

func newSchemaVersionCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, opts, func(ctx context.Context, m *schema.Migrator, conn database.DBConnection) error {
				v, dirty, ok, err := m.Version(ctx)
				if err != nil {
					return err
				}
				sv := schemaVersion{Connection: conn.Name(), Type: conn.Type(), Installed: ok, Version: v, Dirty: dirty}
				versionText := "none"
				if ok {
					versionText = strconv.FormatUint(uint64(v), 10)
				}
				return printOutput(cmd.OutOrStdout(), opts, sv,
					[]string{"CONNECTION", "TYPE", "VERSION", "DIRTY"},
					[][]string{{sv.Connection, sv.Type, versionText, strconv.FormatBool(dirty)}})
			})
		},
	}
}
