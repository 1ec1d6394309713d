package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	repository "github.com/tigerroll/tunestore/pkg/tuning/core/domain/repository"
	"github.com/tigerroll/tunestore/pkg/tuning/infrastructure/repository/sql"
)

// entityCount is one row of the stats output.
type entityCount struct {
	Entity string `json:"entity" yaml:"entity"`
	Count  int64  `json:"count" yaml:"count"`
}

// withRepository runs fn with the tuning repository of the configured connection.
func withRepository(cmd *cobra.Command, opts *globalOptions, fn func(ctx context.Context, repo repository.TuningRepository) error) error {
	var repo repository.TuningRepository
	return runApp(cmd.Context(), opts, []fx.Option{sql.Module}, func(ctx context.Context) error {
		return fn(ctx, repo)
	}, &repo)
}

func newStatsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the number of stored rows per entity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd, opts, func(ctx context.Context, repo repository.TuningRepository) error {
				counters := []struct {
					entity string
					count  func(context.Context) (int64, error)
				}{
					{"flow_definition", repo.CountFlowDefinitions},
					{"flow_execution", repo.CountFlowExecutions},
					{"tuning_algorithm", repo.CountTuningAlgorithms},
					{"tuning_parameter", repo.CountTuningParameters},
					{"job_suggested_param_set", repo.CountJobSuggestedParamSets},
					{"job_suggested_param_value", repo.CountJobSuggestedParamValues},
				}

				counts := make([]entityCount, 0, len(counters))
				rows := make([][]string, 0, len(counters))
				for _, c := range counters {
					n, err := c.count(ctx)
					if err != nil {
						return err
					}
					counts = append(counts, entityCount{Entity: c.entity, Count: n})
					rows = append(rows, []string{c.entity, strconv.FormatInt(n, 10)})
				}
				return printOutput(cmd.OutOrStdout(), opts, counts, []string{"ENTITY", "COUNT"}, rows)
			})
		},
	}
}
