package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/fundchain/riskd/internal/application/usecase"
	"github.com/fundchain/riskd/internal/domain/service"
	"github.com/fundchain/riskd/internal/infrastructure/ml"
)

func newModelInfoCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "model-info",
		Short: "Load the classifier artifact and describe it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			weights, err := cfg.ScoreWeights()
			if err != nil {
				return err
			}

			logger := newLogger(cfg, cmd.ErrOrStderr())
			state := ml.LoadModelState(cmd.Context(), cfg.ModelPath, cfg.ObjectStore, logger)
			describe := usecase.NewDescribeService(service.NewRiskAggregator(state, weights))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(describe.ModelInfo())
		},
	}
}
