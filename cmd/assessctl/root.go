package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"burnout-assess/internal/classifier"
	"burnout-assess/internal/config"
	"burnout-assess/internal/llm"
	"burnout-assess/internal/service"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "assessctl",
		Short:         "Workplace burnout self-assessment",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	root.PersistentFlags().Bool("verbose", false, "Log fallback events to stderr")

	root.AddCommand(newQuestionsCmd())
	root.AddCommand(newScoreCmd())
	root.AddCommand(newRunCmd())
	return root
}

// toolkit agrupa lo que comparten los subcomandos.
type toolkit struct {
	cfg     *config.Config
	logger  *zap.Logger
	flow    *service.ConversationFlow
	lexicon *service.Lexicon
	oracle  *service.ScoringOracle
	engine  *service.RecommendationEngine
}

func loadToolkit(cmd *cobra.Command) (*toolkit, error) {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger = zap.NewExample()
	}

	flow, err := service.NewDefaultConversationFlow()
	if err != nil {
		return nil, err
	}
	lexicon, err := service.NewDefaultLexicon()
	if err != nil {
		return nil, err
	}

	var clf classifier.Classifier
	if cfg.ClassifierURL != "" {
		httpClf := classifier.NewHTTPClassifier(cfg.ClassifierURL, cfg.ClassifierTimeout)
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		if err := httpClf.Probe(ctx); err != nil {
			logger.Warn("classifier unavailable, using lexical scoring", zap.Error(err))
		} else {
			clf = httpClf
		}
		cancel()
	}

	llmClient := llm.NewOpenAIClient(llm.Config{
		BaseURL:     cfg.LLMBaseURL,
		APIKey:      cfg.LLMAPIKey,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		TopP:        cfg.LLMTopP,
		MaxTokens:   cfg.LLMMaxTokens,
		Timeout:     cfg.LLMTimeout,
	})

	return &toolkit{
		cfg:     cfg,
		logger:  logger,
		flow:    flow,
		lexicon: lexicon,
		oracle:  service.NewScoringOracle(flow, lexicon, clf, logger),
		engine: service.NewRecommendationEngine(llmClient, lexicon, service.RecommendationEngineOptions{
			RatePerMinute: cfg.LLMRatePerMinute,
			Timeout:       cfg.LLMTimeout,
		}, logger),
	}, nil
}
