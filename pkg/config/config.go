package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/nikogura/letter-tailor/pkg/gencontext"
	"github.com/nikogura/letter-tailor/pkg/llm"
	"github.com/nikogura/letter-tailor/pkg/pipeline"
	"github.com/nikogura/letter-tailor/pkg/scorer"
	"github.com/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Provider        llm.Provider  `json:"provider"`
	AnthropicAPIKey string        `json:"anthropic_api_key,omitempty"`
	GeminiAPIKey    string        `json:"gemini_api_key,omitempty"`
	Models          ModelsConfig  `json:"models,omitempty"`
	ProfileLocation string        `json:"profile_location"`
	PromptStrategy  llm.Strategy  `json:"prompt_strategy,omitempty"`
	Quality         QualityConfig `json:"quality,omitempty"`
	Defaults        DefaultConfig `json:"defaults"`
}

// ModelsConfig holds model selection per provider.
type ModelsConfig struct {
	Anthropic string `json:"anthropic,omitempty"`
	Gemini    string `json:"gemini,omitempty"`
}

// QualityConfig tunes the rubric and the retry loop. Zero values select
// the built-in defaults.
type QualityConfig struct {
	Threshold          float64        `json:"threshold,omitempty"`
	Weights            scorer.Weights `json:"weights,omitempty"`
	WeaknessThresholds scorer.Weights `json:"weakness_thresholds,omitempty"`
	MaxAttempts        int            `json:"max_attempts,omitempty"`
	RetryDelay         string         `json:"retry_delay,omitempty"`
	ExamplesPerPrompt  int            `json:"examples_per_prompt,omitempty"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	OutputDir string `json:"output_dir"`
	Tone      string `json:"tone,omitempty"`
	Locale    string `json:"locale,omitempty"`
}

// GetModel returns the configured model for the active provider, or the
// provider's default if not specified.
func (c *Config) GetModel() (model string) {
	switch c.Provider {
	case llm.ProviderGemini:
		model = c.Models.Gemini
		if model == "" {
			model = llm.GeminiModel
		}
	default:
		model = c.Models.Anthropic
		if model == "" {
			model = llm.ClaudeModel
		}
	}
	return model
}

// GetAPIKey returns the API key for the active provider.
func (c *Config) GetAPIKey() (key string) {
	if c.Provider == llm.ProviderGemini {
		key = c.GeminiAPIKey
		return key
	}
	key = c.AnthropicAPIKey
	return key
}

// ScorerConfig returns the rubric configuration, filling unset values from
// scorer.DefaultConfig.
func (c *Config) ScorerConfig() (cfg scorer.Config) {
	cfg = scorer.DefaultConfig()

	q := c.Quality
	if q.Threshold != 0 {
		cfg.Threshold = q.Threshold
	}
	if q.Weights != (scorer.Weights{}) {
		cfg.Weights = q.Weights
	}
	if q.WeaknessThresholds != (scorer.Weights{}) {
		cfg.WeaknessThresholds = q.WeaknessThresholds
	}

	return cfg
}

// RetryDelay returns the parsed retry delay, or zero when unset.
func (c *Config) RetryDelay() (delay time.Duration, err error) {
	if c.Quality.RetryDelay == "" {
		return delay, err
	}

	delay, err = time.ParseDuration(c.Quality.RetryDelay)
	if err != nil {
		err = errors.Wrapf(err, "invalid quality.retry_delay %q", c.Quality.RetryDelay)
		return delay, err
	}

	return delay, err
}

// DefaultPath returns ~/.letter-tailor/config.json.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, ".letter-tailor", "config.json")
	return path, err
}

// Load reads configuration from file with environment variable overrides.
func Load(configPath string) (cfg Config, err error) {
	// Determine config file location
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	// Read config file
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Errorf("config file not found: %s (run 'letter-tailor init' to create)", path)
			return cfg, err
		}
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	// Parse JSON
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return cfg, err
	}

	cfg.applyEnv()

	// Validate required fields
	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// applyEnv overrides file values with environment variables that are set.
func (c *Config) applyEnv() {
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		c.AnthropicAPIKey = apiKey
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		c.GeminiAPIKey = apiKey
	}
	if provider := os.Getenv("LETTER_PROVIDER"); provider != "" {
		c.Provider = llm.Provider(provider)
	}
	if strategy := os.Getenv("LETTER_PROMPT_STRATEGY"); strategy != "" {
		c.PromptStrategy = llm.Strategy(strategy)
	}
}

// Validate checks that all required configuration is present and fills in
// defaults for optional values.
func (c *Config) Validate() (err error) {
	if c.Provider == "" {
		c.Provider = llm.ProviderAnthropic
	}

	switch c.Provider {
	case llm.ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			err = errors.New("anthropic_api_key is required (set in config or ANTHROPIC_API_KEY env var)")
			return err
		}
	case llm.ProviderGemini:
		if c.GeminiAPIKey == "" {
			err = errors.New("gemini_api_key is required (set in config or GEMINI_API_KEY env var)")
			return err
		}
	default:
		err = errors.Errorf("unknown provider %q (expected anthropic or gemini)", c.Provider)
		return err
	}

	if c.ProfileLocation == "" {
		err = errors.New("profile_location is required in config")
		return err
	}

	// Check profile file exists
	_, err = os.Stat(c.ProfileLocation)
	if os.IsNotExist(err) {
		err = errors.Errorf("profile file not found: %s", c.ProfileLocation)
		return err
	}
	err = nil

	if c.PromptStrategy == "" {
		c.PromptStrategy = llm.StrategyStructured
	}
	_, err = llm.ParseStrategy(string(c.PromptStrategy))
	if err != nil {
		return err
	}

	if c.Defaults.Tone != "" {
		if _, ok := gencontext.ParseTone(c.Defaults.Tone); !ok {
			err = errors.Errorf("unknown defaults.tone %q (expected professional, friendly or direct)", c.Defaults.Tone)
			return err
		}
	}

	err = c.ScorerConfig().Validate()
	if err != nil {
		err = errors.Wrap(err, "invalid quality section")
		return err
	}

	if c.Quality.MaxAttempts < 0 || c.Quality.ExamplesPerPrompt < 0 {
		err = errors.New("quality.max_attempts and quality.examples_per_prompt must not be negative")
		return err
	}

	if c.Quality.MaxAttempts > pipeline.DefaultMaxAttempts {
		err = errors.Errorf("quality.max_attempts must be at most %d, got %d", pipeline.DefaultMaxAttempts, c.Quality.MaxAttempts)
		return err
	}

	_, err = c.RetryDelay()
	if err != nil {
		return err
	}

	// Set default output_dir if not specified
	if c.Defaults.OutputDir == "" {
		c.Defaults.OutputDir = "./applications"
	}

	return err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	// Determine config file location
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	// Check if file already exists
	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return err
	}

	defaultConfig := Config{
		Provider:        llm.ProviderAnthropic,
		AnthropicAPIKey: "sk-ant-api03-...",
		Models: ModelsConfig{
			Anthropic: llm.ClaudeModel,
			Gemini:    llm.GeminiModel,
		},
		ProfileLocation: filepath.Join(homeDir, ".letter-tailor", "profile.yaml"),
		PromptStrategy:  llm.StrategyStructured,
		Quality: QualityConfig{
			Threshold:          scorer.DefaultThreshold,
			Weights:            scorer.DefaultWeights(),
			WeaknessThresholds: scorer.DefaultWeaknessThresholds(),
			MaxAttempts:        pipeline.DefaultMaxAttempts,
			RetryDelay:         pipeline.DefaultRetryDelay.String(),
			ExamplesPerPrompt:  pipeline.DefaultExamplesPerPrompt,
		},
		Defaults: DefaultConfig{
			OutputDir: filepath.Join(homeDir, "Documents", "Applications"),
			Tone:      string(gencontext.ToneProfessional),
			Locale:    "en-US",
		},
	}

	// Write to file
	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}
