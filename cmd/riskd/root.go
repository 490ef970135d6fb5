package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fundchain/riskd/internal/application/usecase"
	"github.com/fundchain/riskd/internal/infrastructure/config"
	"github.com/fundchain/riskd/pkg/observability"
)

const serviceName = "riskd"

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "riskd",
		Short: "riskd - fraud risk scoring for crowdfunding projects",
		Long: `riskd scores project descriptions for scam risk.

It combines a text classifier, similarity against known descriptions and
wallet history into a single risk score, served over HTTP and gRPC or
computed offline from the command line.`,
		Version:      usecase.ServiceVersion,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (defaults to $RISKD_CONFIG)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newAnalyzeCommand(opts))
	cmd.AddCommand(newModelInfoCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))

	return cmd
}

// load reads and validates the configuration.
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, out io.Writer) *slog.Logger {
	return observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
		Output:  out,
	})
}
