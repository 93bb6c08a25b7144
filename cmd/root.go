package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wgomg/oratoria/internal/analysis"
	"github.com/wgomg/oratoria/internal/config"
	"github.com/wgomg/oratoria/internal/inference"
	"github.com/wgomg/oratoria/internal/search"
	"github.com/wgomg/oratoria/internal/utils"
)

var (
	vocabularyFile   string
	enableFactCheck  bool
	enableRedundancy bool
	enableGrammar    bool
)

var rootCmd = &cobra.Command{
	Use:   "oratoria",
	Short: "Post-transcription speech revision",
	Long: `oratoria reviews speech transcripts: filler markers, coherence between
adjacent lines, discourse role of each sentence and, optionally, fact
checking, redundancy and grammar correction.

Configuration is read from the environment and an optional .env file.
Stage flags override the PIPELINE_ENABLE_* variables.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&vocabularyFile, "vocabulary", "", "YAML or TOML file with filler markers (overrides PIPELINE_VOCABULARY_FILE)")
	flags.BoolVar(&enableFactCheck, "fact-check", false, "verify the transcript against web search results")
	flags.BoolVar(&enableRedundancy, "redundancy", false, "flag overlapping sentences and summarize the transcript")
	flags.BoolVar(&enableGrammar, "grammar", false, "add a grammar-corrected version of the transcript")
}

// loadConfig reads the environment and applies the flags the user set
// explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("fact-check") {
		cfg.Pipeline.EnableFactCheck = enableFactCheck
	}
	if flags.Changed("redundancy") {
		cfg.Pipeline.EnableRedundancy = enableRedundancy
	}
	if flags.Changed("grammar") {
		cfg.Pipeline.EnableGrammar = enableGrammar
	}
	if vocabularyFile != "" {
		cfg.Pipeline.VocabularyFile = vocabularyFile
	}
}

// buildPipeline wires the remote clients into the analysis pipeline. The
// inference client is returned too since it also serves transcription.
func buildPipeline(cfg *config.Config, logger *utils.Logger) (*analysis.Pipeline, *inference.Client, error) {
	inferenceClient, err := inference.NewClient(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create inference client: %w", err)
	}

	deps := analysis.Dependencies{Classifier: inferenceClient}

	if cfg.Pipeline.EnableFactCheck {
		searchClient, err := search.NewClient(cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create search client: %w", err)
		}
		deps.Searcher = searchClient
	}
	if cfg.Pipeline.EnableRedundancy && cfg.Inference.SummarizerModel != "" {
		deps.Summarizer = inferenceClient
	}
	if cfg.Pipeline.EnableGrammar {
		deps.Generator = inferenceClient
	}

	if cfg.Pipeline.VocabularyFile != "" {
		vocabulary, err := analysis.LoadVocabulary(cfg.Pipeline.VocabularyFile)
		if err != nil {
			return nil, nil, err
		}
		deps.Vocabulary = vocabulary
		logger.Info(nil, "Loaded %d filler markers from %s", len(vocabulary), cfg.Pipeline.VocabularyFile)
	}

	pipeline, err := analysis.NewPipeline(deps, pipelineOptions(cfg), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	return pipeline, inferenceClient, nil
}

func pipelineOptions(cfg *config.Config) analysis.Options {
	return analysis.Options{
		Concurrency:         cfg.Pipeline.Concurrency,
		Timeout:             time.Duration(cfg.Pipeline.TimeoutSeconds) * time.Second,
		CallTimeout:         time.Duration(cfg.Pipeline.CallTimeoutSeconds) * time.Second,
		ModelMaxInputTokens: cfg.Inference.ModelMaxInputTokens,
		RedundancyThreshold: cfg.Redundancy.Threshold,
		EnableFactCheck:     cfg.Pipeline.EnableFactCheck,
		EnableRedundancy:    cfg.Pipeline.EnableRedundancy,
		EnableGrammar:       cfg.Pipeline.EnableGrammar,
	}
}
