// Package config loads environment-based configuration for linebackup.
// CLI flags override whatever the environment provided; Finalize runs
// after the overrides and does path expansion plus validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for one linebackup run. Every path field
// accepts "~" for the home directory and is resolved to an absolute path
// by Finalize.
type Config struct {
	// ChatsDir is the normalized backup root (the `chats` directory copy).
	// Required by every command.
	ChatsDir string `env:"LINEBACKUP_CHATS_DIR"`

	// TablePath is the CSV mapping table of chatroom IDs to names.
	TablePath string `env:"LINEBACKUP_CHATROOM_TABLE"`

	// SrcChatsDir is the raw, unnormalized backup root used as the sync
	// source.
	SrcChatsDir string `env:"LINEBACKUP_SRC_CHATS_DIR"`

	// OldChatsDir is a prior backup snapshot used for new-chatroom diffing.
	OldChatsDir string `env:"LINEBACKUP_OLD_CHATS_DIR"`

	// MessageIDsDir overrides the inference output root. Empty means the
	// fixed `_MessageIDs` sibling of ChatsDir.
	MessageIDsDir string `env:"LINEBACKUP_MESSAGE_IDS_DIR"`

	// LogDir receives the run's log file.
	LogDir string `env:"LINEBACKUP_LOG_DIR" envDefault:"log"`

	// Environment controls log format.
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// Load reads configuration from environment variables. It first attempts
// to load a .env file if present, then parses env vars. Validation is
// deferred to Finalize so CLI flags can fill in missing values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Finalize expands and absolutizes every configured path and validates
// required fields. It must be called after CLI flag overrides are applied
// and before any component touches the filesystem.
func (c *Config) Finalize() error {
	if c.ChatsDir == "" {
		return fmt.Errorf("chats directory is required (set LINEBACKUP_CHATS_DIR or --chats-dir)")
	}

	for _, p := range []*string{&c.ChatsDir, &c.TablePath, &c.SrcChatsDir, &c.OldChatsDir, &c.MessageIDsDir, &c.LogDir} {
		if *p == "" {
			continue
		}

		expanded, err := expandUser(*p)
		if err != nil {
			return err
		}

		abs, err := filepath.Abs(expanded)
		if err != nil {
			return fmt.Errorf("resolving %s to absolute path: %w", *p, err)
		}

		*p = abs
	}

	return nil
}

// IsProduction returns true when the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// expandUser replaces a leading "~" with the current user's home directory.
func expandUser(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~"+string(os.PathSeparator)) {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
