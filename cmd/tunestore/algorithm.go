package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	model "github.com/tigerroll/tunestore/pkg/tuning/core/domain/model"
	repository "github.com/tigerroll/tunestore/pkg/tuning/core/domain/repository"
)

// algorithmView is the rendered form of a tuning algorithm and its parameters.
type algorithmView struct {
	ID         int64           `json:"id" yaml:"id"`
	JobType    string          `json:"jobType" yaml:"jobType"`
	Algorithm  string          `json:"optimizationAlgo" yaml:"optimizationAlgo"`
	Version    int             `json:"optimizationAlgoVersion" yaml:"optimizationAlgoVersion"`
	Metric     string          `json:"optimizationMetric" yaml:"optimizationMetric"`
	CreatedTs  time.Time       `json:"createdTs" yaml:"createdTs"`
	UpdatedTs  time.Time       `json:"updatedTs" yaml:"updatedTs"`
	Parameters []parameterView `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

type parameterView struct {
	ID        int64   `json:"id" yaml:"id"`
	Name      string  `json:"paramName" yaml:"paramName"`
	Default   float64 `json:"defaultValue" yaml:"defaultValue"`
	Min       float64 `json:"minValue" yaml:"minValue"`
	Max       float64 `json:"maxValue" yaml:"maxValue"`
	Step      float64 `json:"stepSize" yaml:"stepSize"`
	IsDerived bool    `json:"isDerived" yaml:"isDerived"`
}

func newAlgorithmView(a *model.TuningAlgorithm, params []*model.TuningParameter) algorithmView {
	v := algorithmView{
		ID:        a.ID,
		JobType:   string(a.JobType),
		Algorithm: string(a.OptimizationAlgo),
		Version:   a.OptimizationAlgoVersion,
		Metric:    string(a.OptimizationMetric),
		CreatedTs: a.CreatedTs,
		UpdatedTs: a.UpdatedTs,
	}
	for _, p := range params {
		v.Parameters = append(v.Parameters, parameterView{
			ID: p.ID, Name: p.ParamName, Default: p.DefaultValue,
			Min: p.MinValue, Max: p.MaxValue, Step: p.StepSize, IsDerived: p.IsDerived,
		})
	}
	return v
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func newAlgorithmCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "algorithm",
		Aliases: []string{"algo"},
		Short:   "Register and look up tuning algorithms",
	}
	cmd.AddCommand(newAlgorithmFindCmd(opts))
	cmd.AddCommand(newAlgorithmRegisterCmd(opts))
	return cmd
}

func newAlgorithmFindCmd(opts *globalOptions) *cobra.Command {
	var jobType, metric string

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Show the highest algorithm version for a job type and metric",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jt, err := model.ParseJobType(jobType)
			if err != nil {
				return err
			}
			m, err := model.ParseOptimizationMetric(metric)
			if err != nil {
				return err
			}
			return withRepository(cmd, opts, func(ctx context.Context, repo repository.TuningRepository) error {
				algo, err := repo.FindTuningAlgorithm(ctx, jt, m)
				if err != nil {
					return err
				}
				params, err := repo.FindTuningParametersByAlgorithm(ctx, algo.ID)
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(params))
				for _, p := range params {
					rows = append(rows, []string{
						strconv.FormatInt(algo.ID, 10), string(algo.OptimizationAlgo), strconv.Itoa(algo.OptimizationAlgoVersion),
						p.ParamName, formatFloat(p.DefaultValue), formatFloat(p.MinValue), formatFloat(p.MaxValue),
						formatFloat(p.StepSize), strconv.FormatBool(p.IsDerived),
					})
				}
				if len(rows) == 0 {
					rows = append(rows, []string{
						strconv.FormatInt(algo.ID, 10), string(algo.OptimizationAlgo), strconv.Itoa(algo.OptimizationAlgoVersion),
						"-", "-", "-", "-", "-", "-",
					})
				}
				return printOutput(cmd.OutOrStdout(), opts, newAlgorithmView(algo, params),
					[]string{"ID", "ALGO", "VERSION", "PARAM", "DEFAULT", "MIN", "MAX", "STEP", "DERIVED"}, rows)
			})
		},
	}
	cmd.Flags().StringVar(&jobType, "job-type", "", "Job type (PIG, HIVE, SPARK)")
	cmd.Flags().StringVar(&metric, "metric", "", "Optimization metric (RESOURCE, EXECUTION_TIME)")
	_ = cmd.MarkFlagRequired("job-type")
	_ = cmd.MarkFlagRequired("metric")
	return cmd
}

func newAlgorithmRegisterCmd(opts *globalOptions) *cobra.Command {
	var (
		jobType, algo, metric string
		algoVersion           int
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a tuning algorithm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := model.NewTuningAlgorithm(jobType, algo, algoVersion, metric)
			if err != nil {
				return err
			}
			return withRepository(cmd, opts, func(ctx context.Context, repo repository.TuningRepository) error {
				id, err := repo.CreateTuningAlgorithm(ctx, a)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered tuning algorithm %d (%s v%d, %s, %s).\n",
					id, a.OptimizationAlgo, a.OptimizationAlgoVersion, a.JobType, a.OptimizationMetric)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&jobType, "job-type", "", "Job type (PIG, HIVE, SPARK)")
	cmd.Flags().StringVar(&algo, "algo", string(model.OptimizationAlgoPSO), "Optimization algorithm")
	cmd.Flags().IntVar(&algoVersion, "algo-version", 1, "Optimization algorithm version")
	cmd.Flags().StringVar(&metric, "metric", "", "Optimization metric (RESOURCE, EXECUTION_TIME)")
	_ = cmd.MarkFlagRequired("job-type")
	_ = cmd.MarkFlagRequired("metric")
	return cmd
}
