package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/predictsports-engine/internal/client"
	"github.com/yourusername/predictsports-engine/internal/ensemble"
	"github.com/yourusername/predictsports-engine/internal/models"
	"github.com/yourusername/predictsports-engine/internal/service"
)

var (
	matchFile  string
	remoteURL  string
	cliTimeout time.Duration
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict a match from a JSON file",
	Example: `  engine predict --file match.json
  engine predict --file - --remote http://localhost:8000 < match.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMatchCommand(cmd, func(ctx context.Context, p matchPredictor, in models.MatchInput) (any, error) {
			return p.Predict(ctx, in)
		})
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a match from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMatchCommand(cmd, func(ctx context.Context, p matchPredictor, in models.MatchInput) (any, error) {
			return p.Analyze(ctx, in)
		})
	},
}

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Print the derived feature set for a match",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMatchCommand(cmd, func(ctx context.Context, p matchPredictor, in models.MatchInput) (any, error) {
			return p.Features(ctx, in)
		})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{predictCmd, analyzeCmd, featuresCmd} {
		cmd.Flags().StringVarP(&matchFile, "file", "f", "", "Match JSON file (- for stdin)")
		cmd.Flags().StringVar(&remoteURL, "remote", "", "Base URL of a running engine to call instead of predicting locally")
		cmd.Flags().DurationVar(&cliTimeout, "timeout", 30*time.Second, "Request timeout")
		_ = cmd.MarkFlagRequired("file")
	}
}

// matchPredictor is served by the local service and the remote client alike
type matchPredictor interface {
	Predict(ctx context.Context, input models.MatchInput) (*service.PredictionResponse, error)
	Analyze(ctx context.Context, input models.MatchInput) (*service.AnalysisResponse, error)
	Features(ctx context.Context, input models.MatchInput) (*service.FeaturesResponse, error)
}

type matchCall func(ctx context.Context, p matchPredictor, in models.MatchInput) (any, error)

func runMatchCommand(cmd *cobra.Command, call matchCall) error {
	input, err := readMatch(cmd.InOrStdin(), matchFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliTimeout)
	defer cancel()

	var predictor matchPredictor
	if remoteURL != "" {
		c := client.NewEngineClient(remoteURL, client.DefaultHTTPClientConfig(), appLog)
		defer c.Close()
		predictor = c
	} else {
		predictor = service.NewPredictionService(ensemble.NewEngine(), service.Options{
			Logger:       appLog,
			ModelVersion: cfg.Engine.ModelVersion,
			TopN:         cfg.Engine.DefaultTopN,
		})
	}

	out, err := call(ctx, predictor, input)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

func readMatch(stdin io.Reader, path string) (models.MatchInput, error) {
	var input models.MatchInput

	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return input, fmt.Errorf("failed to open match file: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return input, fmt.Errorf("failed to decode match: %w", err)
	}
	return input, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
