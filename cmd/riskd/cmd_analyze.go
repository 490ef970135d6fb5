package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fundchain/riskd/internal/application/dto"
	"github.com/fundchain/riskd/internal/application/usecase"
	"github.com/fundchain/riskd/internal/domain/service"
	"github.com/fundchain/riskd/internal/domain/valueobject"
	"github.com/fundchain/riskd/internal/infrastructure/ml"
)

type analyzeOptions struct {
	input  string
	output string
}

func newAnalyzeCommand(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score requests from a JSON file without starting the server",
		Long: `Score one analyze-project request object, or an array of them, read from
--input ("-" reads stdin). Nothing is recorded or published.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.output != "json" && opts.output != "table" {
				return fmt.Errorf("unknown output format %q (want json or table)", opts.output)
			}
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
			single := usecase.NewAnalyzeProject(service.NewRiskAggregator(state, weights), nil, nil)
			batch := usecase.NewAnalyzeBatch(single, cfg.BatchConcurrency)

			return runAnalyze(cmd, opts, batch)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "Request JSON file, or - for stdin")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "json", "Output format: json or table")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions, batch *usecase.AnalyzeBatch) error {
	data, err := readInput(cmd.InOrStdin(), opts.input)
	if err != nil {
		return err
	}

	reqs, single, err := parseRequests(data)
	if err != nil {
		return err
	}

	resp, err := batch.Execute(cmd.Context(), reqs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.output == "table" {
		return writeTable(out, resp)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if single {
		item := resp.Results[0]
		if item.Failure != nil {
			return fmt.Errorf("%s", item.Failure.Error)
		}
		return enc.Encode(item.Result)
	}
	return enc.Encode(resp)
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}

// parseRequests accepts a single request object or an array of them.
func parseRequests(data []byte) ([]dto.AnalyzeProjectRequest, bool, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("input is empty")
	}

	if trimmed[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, false, fmt.Errorf("parsing input array: %w", err)
		}
		return dto.DecodeBatch(raw), false, nil
	}

	var req dto.AnalyzeProjectRequest
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return nil, false, fmt.Errorf("parsing input: %w", err)
	}
	return []dto.AnalyzeProjectRequest{req}, true, nil
}

func writeTable(out io.Writer, resp dto.BatchResponse) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tML\tPLAGIARISM\tWALLET\tFINAL\tLEVEL\tERROR")
	for i, item := range resp.Results {
		if item.Failure != nil {
			fmt.Fprintf(w, "%d\t-\t-\t-\t-\t-\t%s\n", i, item.Failure.Error)
			continue
		}
		r := item.Result
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t\n", i,
			formatScore(r.MLScamScore),
			formatScore(r.PlagiarismScore),
			formatScore(r.WalletRiskScore),
			formatScore(r.FinalRiskScore),
			valueobject.RiskLevelFromScore(r.FinalRiskScore),
		)
	}
	return w.Flush()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
