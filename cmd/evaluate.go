package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sourcingkit/sourcer/internal/candidate"
	"github.com/sourcingkit/sourcer/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate candidates from a JSON file against the configured job requirements",
	Run: func(cmd *cobra.Command, _ []string) {
		evaluate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringP("candidates", "c", "", "path to a JSON file with an array of candidate records")
	evaluateCmd.MarkFlagRequired("candidates")
}

// evaluate runs the evaluation pipeline without searching: candidates come
// from a file, results go to stdout.
func evaluate(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil || config.Job == nil || strings.TrimSpace(config.Job.Requirements) == "" {
		logger.Fatal("job requirements are required under job.requirements")
	}

	path, _ := cmd.Flags().GetString("candidates")
	candidates, err := readCandidates(path)
	if err != nil {
		logger.Fatal("reading candidates", zap.Error(err))
	}

	logger.Info("evaluating candidates", zap.Int("count", len(candidates)))

	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("text generation disabled, using deterministic scoring", zap.Error(err))
	}

	evaluator := newEvaluator(generator, config, logger)

	resp := evaluator.Evaluate(ctx, candidates, config.Job.Requirements, nil, config.Project.toMetadata())

	pretty, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		logger.Fatal("encoding response", zap.Error(err))
	}

	fmt.Println(string(pretty))

	if !resp.Success {
		os.Exit(1)
	}
}

func readCandidates(path string) ([]*candidate.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var candidates []*candidate.Record
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("parse candidates file %q: %w", path, err)
	}

	return candidates, nil
}
