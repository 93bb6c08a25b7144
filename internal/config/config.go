package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

type ResponseMode string

const (
	// ResponseAnalysis returns the full analysis result.
	ResponseAnalysis ResponseMode = "analysis"
	// ResponseEcho returns only {"text": <input>}.
	ResponseEcho ResponseMode = "echo"
)

type AppConfig struct {
	Env                Environment
	LogLevel           string
	ServerPort         string
	RawBodyLog         bool
	HttpTimeoutSeconds int
	ResponseMode       ResponseMode
}

type InferenceConfig struct {
	URL                 string
	Token               string
	ClassifierModel     string
	SummarizerModel     string
	GeneratorModel      string
	TranscriberModel    string
	MaxConcurrent       int
	MaxRetries          int
	RetryBackoffMs      int
	ModelMaxInputTokens int
}

type SearchConfig struct {
	URL string
}

type PipelineConfig struct {
	Concurrency        int
	TimeoutSeconds     int
	CallTimeoutSeconds int
	VocabularyFile     string
	EnableFactCheck    bool
	EnableRedundancy   bool
	EnableGrammar      bool
}

type RedundancyConfig struct {
	Threshold float64
}

type Config struct {
	App        AppConfig
	Inference  InferenceConfig
	Search     SearchConfig
	Pipeline   PipelineConfig
	Redundancy RedundancyConfig
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	appEnv := getEnv("APP_ENV", "development")
	env := parseEnvironment(appEnv)

	logLevel := getLogLevel(env)

	return &Config{
		App: AppConfig{
			Env:                env,
			LogLevel:           logLevel,
			ServerPort:         getEnv("APP_SERVER_PORT", "8080"),
			RawBodyLog:         getEnvBool("APP_RAW_BODY_LOG", false),
			HttpTimeoutSeconds: getEnvInt("APP_HTTP_TIMEOUT_SECONDS", 30),
			ResponseMode:       parseResponseMode(getEnv("APP_RESPONSE_MODE", string(ResponseAnalysis))),
		},
		Inference: InferenceConfig{
			URL:                 strings.TrimRight(getEnv("INFERENCE_URL", "https://api-inference.huggingface.co"), "/"),
			Token:               getEnv("HUGGINGFACE_API_KEY", ""),
			ClassifierModel:     getEnv("INFERENCE_CLASSIFIER_MODEL", "facebook/bart-large-mnli"),
			SummarizerModel:     getEnv("INFERENCE_SUMMARIZER_MODEL", "facebook/bart-large-cnn"),
			GeneratorModel:      getEnv("INFERENCE_GENERATOR_MODEL", "t5-base"),
			TranscriberModel:    getEnv("HUGGINGFACE_MODEL_ID", "openai/whisper-large-v3"),
			MaxConcurrent:       getEnvInt("INFERENCE_MAX_CONCURRENT", calculateDefaultConcurrency()),
			MaxRetries:          getEnvInt("INFERENCE_MAX_RETRIES", 2),
			RetryBackoffMs:      getEnvInt("INFERENCE_RETRY_BACKOFF_MS", 500),
			ModelMaxInputTokens: getEnvInt("INFERENCE_MODEL_MAX_INPUT_TOKENS", 1024),
		},
		Search: SearchConfig{
			URL: getEnv("SEARCH_URL", "https://api.duckduckgo.com/"),
		},
		Pipeline: PipelineConfig{
			Concurrency:        getEnvInt("PIPELINE_CONCURRENCY", 4),
			TimeoutSeconds:     getEnvInt("PIPELINE_TIMEOUT_SECONDS", 120),
			CallTimeoutSeconds: getEnvInt("PIPELINE_CALL_TIMEOUT_SECONDS", 20),
			VocabularyFile:     getEnv("PIPELINE_VOCABULARY_FILE", ""),
			EnableFactCheck:    getEnvBool("PIPELINE_ENABLE_FACT_CHECK", false),
			EnableRedundancy:   getEnvBool("PIPELINE_ENABLE_REDUNDANCY", false),
			EnableGrammar:      getEnvBool("PIPELINE_ENABLE_GRAMMAR", false),
		},
		Redundancy: RedundancyConfig{
			Threshold: getEnvFloat("REDUNDANCY_THRESHOLD", 0.6),
		},
	}, nil
}

func (c *Config) Validate() error {
	if c.Inference.URL == "" || c.Inference.Token == "" {
		return fmt.Errorf("INFERENCE_URL and HUGGINGFACE_API_KEY are required")
	}
	if c.Pipeline.EnableFactCheck && c.Search.URL == "" {
		return fmt.Errorf("SEARCH_URL is required when fact checking is enabled")
	}
	if c.Pipeline.Concurrency < 1 {
		return fmt.Errorf("PIPELINE_CONCURRENCY must be at least 1, got %d", c.Pipeline.Concurrency)
	}
	if c.Inference.MaxConcurrent < 1 {
		return fmt.Errorf("INFERENCE_MAX_CONCURRENT must be at least 1, got %d", c.Inference.MaxConcurrent)
	}
	if c.Pipeline.TimeoutSeconds <= 0 || c.Pipeline.CallTimeoutSeconds <= 0 {
		return fmt.Errorf("PIPELINE_TIMEOUT_SECONDS and PIPELINE_CALL_TIMEOUT_SECONDS must be positive")
	}
	if c.Redundancy.Threshold <= 0 || c.Redundancy.Threshold > 1 {
		return fmt.Errorf("REDUNDANCY_THRESHOLD must be in (0, 1], got %f", c.Redundancy.Threshold)
	}
	return nil
}

func parseEnvironment(envStr string) Environment {
	env := Environment(strings.ToLower(envStr))

	switch env {
	case Development, Production:
		return env
	default:
		return Development
	}
}

func parseResponseMode(mode string) ResponseMode {
	switch ResponseMode(strings.ToLower(mode)) {
	case ResponseEcho:
		return ResponseEcho
	default:
		return ResponseAnalysis
	}
}

// twice the CPU count, capped at 8
func calculateDefaultConcurrency() int {
	return min(max(runtime.NumCPU()*2, 2), 8)
}

func getLogLevel(env Environment) string {
	if env == Production {
		return getEnv("APP_LOG_LEVEL", "info")
	}

	return getEnv("APP_LOG_LEVEL", "debug")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
