package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikogura/letter-tailor/pkg/llm"
	"github.com/nikogura/letter-tailor/pkg/scorer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"ANTHROPIC_API_KEY", "GEMINI_API_KEY", "LETTER_PROVIDER", "LETTER_PROMPT_STRATEGY"} {
		t.Setenv(name, "")
	}
}

func writeProfile(t *testing.T, dir string) (path string) {
	t.Helper()
	path = filepath.Join(dir, "profile.yaml")
	err := os.WriteFile(path, []byte("full_name: Jane Doe\nemail: jane@example.com\nlocation: Austin, TX\n"), 0600)
	require.NoError(t, err)
	return path
}

func writeConfig(t *testing.T, path string, cfg Config) {
	t.Helper()
	data, err := json.MarshalIndent(cfg, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))
}

func TestLoad(t *testing.T) {
	clearEnv(t)

	// Create a temporary config file.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	testConfig := Config{
		AnthropicAPIKey: "test-key",
		ProfileLocation: writeProfile(t, tmpDir),
		Defaults: DefaultConfig{
			OutputDir: "./test-output",
		},
	}
	writeConfig(t, configPath, testConfig)

	// Test loading the config.
	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, testConfig.AnthropicAPIKey, cfg.AnthropicAPIKey)
	assert.Equal(t, testConfig.ProfileLocation, cfg.ProfileLocation)
	assert.Equal(t, llm.ProviderAnthropic, cfg.Provider)
	assert.Equal(t, llm.StrategyStructured, cfg.PromptStrategy)
	assert.Equal(t, llm.ClaudeModel, cfg.GetModel())
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	writeConfig(t, configPath, Config{
		AnthropicAPIKey: "file-key",
		ProfileLocation: writeProfile(t, tmpDir),
	})

	t.Setenv("GEMINI_API_KEY", "env-gemini-key")
	t.Setenv("LETTER_PROVIDER", "gemini")
	t.Setenv("LETTER_PROMPT_STRATEGY", "raw_few_shot")

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, llm.ProviderGemini, cfg.Provider)
	assert.Equal(t, "env-gemini-key", cfg.GetAPIKey())
	assert.Equal(t, llm.GeminiModel, cfg.GetModel())
	assert.Equal(t, llm.StrategyRawFewShot, cfg.PromptStrategy)
}

func TestLoadNonexistent(t *testing.T) {
	_, err := Load("/nonexistent/path/config.json")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	profilePath := writeProfile(t, t.TempDir())

	tests := []struct {
		name      string
		config    Config
		wantError bool
	}{
		{
			name: "valid config",
			config: Config{
				AnthropicAPIKey: "test-key",
				ProfileLocation: profilePath,
				Defaults: DefaultConfig{
					OutputDir: "./output",
					Tone:      "friendly",
				},
			},
			wantError: false,
		},
		{
			name: "valid gemini config",
			config: Config{
				Provider:        llm.ProviderGemini,
				GeminiAPIKey:    "test-key",
				ProfileLocation: profilePath,
			},
			wantError: false,
		},
		{
			name: "missing API key",
			config: Config{
				ProfileLocation: profilePath,
			},
			wantError: true,
		},
		{
			name: "gemini without gemini key",
			config: Config{
				Provider:        llm.ProviderGemini,
				AnthropicAPIKey: "test-key",
				ProfileLocation: profilePath,
			},
			wantError: true,
		},
		{
			name: "unknown provider",
			config: Config{
				Provider:        "openai",
				AnthropicAPIKey: "test-key",
				ProfileLocation: profilePath,
			},
			wantError: true,
		},
		{
			name: "missing profile location",
			config: Config{
				AnthropicAPIKey: "test-key",
			},
			wantError: true,
		},
		{
			name: "nonexistent profile file",
			config: Config{
				AnthropicAPIKey: "test-key",
				ProfileLocation: "/nonexistent/profile.yaml",
			},
			wantError: true,
		},
		{
			name: "unknown strategy",
			config: Config{
				AnthropicAPIKey: "test-key",
				ProfileLocation: profilePath,
				PromptStrategy:  "freestyle",
			},
			wantError: true,
		},
		{
			name: "unknown tone",
			config: Config{
				AnthropicAPIKey: "test-key",
				ProfileLocation: profilePath,
				Defaults:        DefaultConfig{Tone: "sarcastic"},
			},
			wantError: true,
		},
		{
			name: "weights not summing to one",
			config: Config{
				AnthropicAPIKey: "test-key",
				ProfileLocation: profilePath,
				Quality: QualityConfig{
					Weights: scorer.Weights{FormatCompliance: 0.5, Personalization: 0.5, ContentRelevance: 0.5},
				},
			},
			wantError: true,
		},
		{
			name: "max attempts at the ceiling",
			config: Config{
				AnthropicAPIKey: "test-key",
				ProfileLocation: profilePath,
				Quality:         QualityConfig{MaxAttempts: 3},
			},
			wantError: false,
		},
		{
			name: "max attempts above the ceiling",
			config: Config{
				AnthropicAPIKey: "test-key",
				ProfileLocation: profilePath,
				Quality:         QualityConfig{MaxAttempts: 10},
			},
			wantError: true,
		},
		{
			name: "negative max attempts",
			config: Config{
				AnthropicAPIKey: "test-key",
				ProfileLocation: profilePath,
				Quality:         QualityConfig{MaxAttempts: -1},
			},
			wantError: true,
		},
		{
			name: "bad retry delay",
			config: Config{
				AnthropicAPIKey: "test-key",
				ProfileLocation: profilePath,
				Quality:         QualityConfig{RetryDelay: "soon"},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateSetsDefaults(t *testing.T) {
	cfg := Config{
		AnthropicAPIKey: "test-key",
		ProfileLocation: writeProfile(t, t.TempDir()),
	}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "./applications", cfg.Defaults.OutputDir)
}

func TestScorerConfig(t *testing.T) {
	cfg := Config{}
	assert.Equal(t, scorer.DefaultConfig(), cfg.ScorerConfig())

	cfg.Quality.Threshold = 0.9
	got := cfg.ScorerConfig()
	assert.InDelta(t, 0.9, got.Threshold, 0.0001)
	assert.Equal(t, scorer.DefaultWeights(), got.Weights, "unset weights keep defaults")
}

func TestRetryDelay(t *testing.T) {
	cfg := Config{}

	delay, err := cfg.RetryDelay()
	require.NoError(t, err)
	assert.Zero(t, delay)

	cfg.Quality.RetryDelay = "1500ms"
	delay, err = cfg.RetryDelay()
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, delay)
}

func TestInitConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.json")

	require.NoError(t, InitConfig(configPath))

	// Full validation would require the profile to exist.
	data, err := os.ReadFile(configPath)
	require.NoError(t, err)

	var cfg Config
	require.NoError(t, json.Unmarshal(data, &cfg))

	assert.NotEmpty(t, cfg.Defaults.OutputDir)
	assert.NotEmpty(t, cfg.ProfileLocation)
	assert.Equal(t, llm.ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "2s", cfg.Quality.RetryDelay)
	assert.Equal(t, 3, cfg.Quality.MaxAttempts)
	assert.NoError(t, cfg.ScorerConfig().Validate())
}

func TestInitConfigAlreadyExists(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	require.NoError(t, os.WriteFile(configPath, []byte("{}"), 0600))

	assert.Error(t, InitConfig(configPath))
}
