package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/sourcingkit/sourcer/internal/ai"
	"github.com/sourcingkit/sourcer/internal/ai/gemini"
	"github.com/sourcingkit/sourcer/internal/candidate"
	"github.com/sourcingkit/sourcer/internal/evaluation"
	"github.com/sourcingkit/sourcer/internal/linkedin"
	"github.com/sourcingkit/sourcer/internal/logger"
	"github.com/sourcingkit/sourcer/internal/outreach"
	"github.com/sourcingkit/sourcer/internal/secrets"
	"github.com/sourcingkit/sourcer/internal/store"
	"github.com/sourcingkit/sourcer/internal/workflow"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes  = "Yes"
	PromptNo   = "No"
	PromptDump = "Dump final candidates to stdout"

	channelPremium = "premium"
)

var errExit = errors.New("exit requested")

var outreachPrompt = promptui.Select{
	Label: "Send outreach to final candidates?",
	Items: []string{PromptYes, PromptNo, PromptDump},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full sourcing workflow: search, evaluate, enrich, outreach",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before sending outreach")
	runCmd.Flags().BoolP("no-outreach", "n", false, "stop after the workflow, never send messages")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the sourcer", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Job == nil || strings.TrimSpace(config.Job.Requirements) == "" {
		logger.Fatal("job requirements are required under job.requirements to evaluate candidates")
	}

	if config.Search == nil {
		logger.Fatal("search criteria are required under the search section")
	}

	token, err := resolveToken(config)
	if err != nil {
		logger.Fatal(
			"loading platform token",
			zap.Error(err),
			zap.String("hint", "set LINKEDIN_TOKEN_FILE environment variable or the 'token-file' key in the configuration file"),
		)
	}

	client := linkedin.New(token, logger)

	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("text generation disabled, falling back to deterministic paths", zap.Error(err))
	}

	orchestrator := workflow.NewOrchestrator(workflow.Deps{
		Searcher:  client,
		Evaluator: newEvaluator(generator, config, logger),
		Enricher:  client,
		Store:     openStore(config, logger),
		Decider:   newDecider(generator, logger),
		Logger:    logger,
	}, config.MaxRetries)

	state := orchestrator.Run(ctx, &workflow.Request{
		JobDescription:       config.Job.Requirements,
		SearchParams:         config.Search,
		TargetCandidateCount: config.TargetCandidates,
		Project:              config.Project.toMetadata(),
	})

	logger.Info("workflow finished",
		zap.String("request_id", state.RequestID),
		zap.String("stage", string(state.CurrentStage)),
		zap.Int("final_candidates", state.Final.Len()),
		zap.Int("errors", len(state.Errors)),
		zap.Int("warnings", len(state.Warnings)),
	)

	if state.CurrentStage == workflow.StageError {
		pretty, _ := json.MarshalIndent(state.Errors, "", "  ")
		logger.Fatal("workflow failed", zap.String("errors", string(pretty)))
	}

	if state.Final.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates selected for outreach"))
		return
	}

	if noOutreach, _ := cmd.Flags().GetBool("no-outreach"); noOutreach {
		logger.Info("exiting", zap.String("reason", "outreach disabled by flag"))
		return
	}

	if config.Outreach == nil || !config.Outreach.Enabled {
		logger.Info("exiting", zap.String("reason", "outreach disabled in config"))
		return
	}

	action := PromptYes
	for {
		var err error
		if auto, _ := cmd.Flags().GetBool("auto-approve"); !auto {
			_, action, err = outreachPrompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		if err := handleAction(ctx, action, client, generator, logger, config, state.Final); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		if action == PromptYes {
			return
		}
	}
}

func handleAction(ctx context.Context, action string, client *linkedin.Client, generator ai.Generator, logger *zap.Logger, config *Config, final *candidate.List) error {
	switch action {
	case PromptYes:
		return sendOutreach(ctx, client, generator, logger, config, final)
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptDump:
		pretty, _ := json.MarshalIndent(final, "", "  ")
		fmt.Println(string(pretty))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func sendOutreach(ctx context.Context, client *linkedin.Client, generator ai.Generator, logger *zap.Logger, config *Config, final *candidate.List) error {
	jobTitle, company := "", ""
	if config.Job != nil {
		jobTitle, company = config.Job.Title, config.Job.Company
	}

	drafter := outreach.NewDrafter(generator, jobTitle, company, logger)

	for _, rec := range final.Items {
		message := drafter.Draft(ctx, rec)

		var result *linkedin.SendResult
		var err error
		if config.Outreach.Channel == channelPremium {
			result, err = client.SendPremiumMessage(ctx, rec.ExternalID, message.Subject, message.Body)
		} else {
			result, err = client.SendConnectionRequest(ctx, rec.ExternalID, message.Body)
		}

		if err != nil {
			logger.Warn("outreach failed",
				zap.String("candidate_id", rec.ExternalID),
				zap.Error(err),
			)
			continue
		}

		logger.Info("outreach sent",
			zap.String("candidate_id", rec.ExternalID),
			zap.String("status", result.Status),
			zap.String("message_id", result.MessageID),
		)
	}

	logger.Info("outreach completed", zap.Int("count", final.Len()))
	return nil
}

func resolveToken(config *Config) (string, error) {
	if config == nil {
		return "", errors.New("config is required")
	}

	tokenFile := strings.TrimSpace(config.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("token-file"))
	}

	if tokenFile == "" {
		return "", errors.New("platform token file is not configured")
	}

	return secrets.Load(secrets.Source{
		Name: "platform token",
		File: tokenFile,
	})
}

func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Generator, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("ai is not enabled in the configuration")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY_FILE",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries,
		logger.With(zap.String("ai_provider", "gemini"), zap.String("ai_model", cfg.Gemini.Model)),
	)
}

func newEvaluator(generator ai.Generator, config *Config, logger *zap.Logger) *evaluation.Evaluator {
	var analyzer evaluation.Analyzer
	var narratives *evaluation.NarrativeGenerator

	if generator != nil {
		maxLogLength := 0
		if config.AI != nil && config.AI.Gemini != nil {
			maxLogLength = config.AI.Gemini.MaxLogLength
		}
		analyzer = evaluation.NewAIAnalyzer(generator, logger, maxLogLength)
		narratives = evaluation.NewNarrativeGenerator(generator, logger)
	}

	return evaluation.NewEvaluator(analyzer, narratives, logger)
}

func newDecider(generator ai.Generator, logger *zap.Logger) workflow.Decider {
	if generator == nil {
		return workflow.HeuristicDecider{}
	}
	return workflow.NewAIDecider(generator, logger)
}

func openStore(config *Config, logger *zap.Logger) workflow.CandidateStore {
	path := strings.TrimSpace(config.StorePath)
	if path == "" {
		return nil
	}

	s, err := store.Open(path)
	if err != nil {
		logger.Warn("candidate store unavailable, continuing without persistence", zap.Error(err))
		return nil
	}

	return s
}
