package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GeminiConfig holds the settings for the external analysis service.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
	// Endpoint overrides the service base URL; tests point it at a local server.
	Endpoint        string  `yaml:"endpoint"`
	Temperature     float64 `yaml:"temperature"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
	TimeoutSeconds  int     `yaml:"timeout_seconds"`
}

// PlaybackConfig holds the timing knobs of the playback adapters.
type PlaybackConfig struct {
	// PollIntervalMs is how often the embedded-widget adapter samples the
	// player position while playing.
	PollIntervalMs int `yaml:"poll_interval_ms"`
	// SettleDelayMs is the wait between the widget API becoming ready (with
	// a known video ID) and player construction, giving the host page time
	// to mount the embed element.
	SettleDelayMs int `yaml:"settle_delay_ms"`
}

// Config is the full application configuration.
type Config struct {
	ListenAddr string         `yaml:"listen_addr"`
	LogLevel   string         `yaml:"log_level"`
	UploadDir  string         `yaml:"upload_dir"`
	Gemini     GeminiConfig   `yaml:"gemini"`
	Playback   PlaybackConfig `yaml:"playback"`
}

func defaults() *Config {
	return &Config{
		ListenAddr: ":8080",
		LogLevel:   "info",
		UploadDir:  filepath.Join(os.TempDir(), "translatetube-uploads"),
		Gemini: GeminiConfig{
			Model:          "gemini-3-flash-preview",
			Temperature:    0.3,
			TimeoutSeconds: 300,
		},
		Playback: PlaybackConfig{
			PollIntervalMs: 500,
			SettleDelayMs:  200,
		},
	}
}

// Load reads the YAML config at path, layered over built-in defaults, with
// environment variables taking final precedence. A missing file is not an
// error; env-only deployments are common.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}

	return cfg, nil
}
