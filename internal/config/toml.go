// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Test      TestConfig      `toml:"test"`
	Translate TranslateConfig `toml:"translate"`
	Scores    ScoresConfig    `toml:"scores"`
}

// TestConfig maps typing test settings.
type TestConfig struct {
	Duration  *int    `toml:"duration"`
	Sentences *int    `toml:"sentences"`
	WordsDir  *string `toml:"words-dir"`
}

// TranslateConfig maps translation backend settings.
type TranslateConfig struct {
	Backend  *string `toml:"backend"`
	Lang     *string `toml:"lang"`
	Endpoint *string `toml:"endpoint"`
	APIKey   *string `toml:"api-key"`
	Model    *string `toml:"model"`
	Timeout  *int    `toml:"timeout"`
}

// ScoresConfig maps leaderboard storage settings.
type ScoresConfig struct {
	Path *string `toml:"path"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// LoadEnv loads KEY=value pairs from path into the process environment.
// Variables already set are left alone. Missing file is not an error.
func LoadEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// APIKeyFromEnv returns the first non-empty translation API key from the environment.
func APIKeyFromEnv() string {
	for _, name := range []string{"TYPESPRINT_API_KEY", "OPENAI_API_KEY"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
