// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"time"
)

// defaultKeySalt is the built-in obfuscation salt for the stored API
// credential. It is a constant, not a secret: it only defends against
// casual plaintext inspection of the database file. Override with
// EVALPANEL_KEY_SALT; records written under a different salt will no
// longer decode to the original key.
const defaultKeySalt = "evalpanel.local.salt.v1"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr  string
	DBPath      string
	GenAIModel  string
	GenAIAPIKey string
	KeySalt     string
	CloseDelay  time.Duration
}

// HasAPIKey returns true when a bootstrap API key was provided via the
// environment. Used by the composition root to decide whether to create a
// language client at startup; a credential stored via the GUI takes priority.
func (c *Config) HasAPIKey() bool {
	return c.GenAIAPIKey != ""
}

// Load reads configuration from environment variables and returns a validated
// Config. The API key (EVALPANEL_GENAI_API_KEY) is optional; if absent, draft
// generation is inactive until a key is provided via the settings dialog.
// Optional variables with defaults: EVALPANEL_LISTEN_ADDR (127.0.0.1:8080),
// EVALPANEL_DB_PATH (evalpanel.db), EVALPANEL_GENAI_MODEL (gemini-2.5-flash),
// EVALPANEL_KEY_SALT, EVALPANEL_CLOSE_DELAY (1.5s).
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("EVALPANEL_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "evalpanel.db"
	if v, ok := os.LookupEnv("EVALPANEL_DB_PATH"); ok {
		dbPath = v
	}

	model := "gemini-2.5-flash"
	if v, ok := os.LookupEnv("EVALPANEL_GENAI_MODEL"); ok {
		model = v
	}

	salt := defaultKeySalt
	if v, ok := os.LookupEnv("EVALPANEL_KEY_SALT"); ok && v != "" {
		salt = v
	}

	closeDelay := 1500 * time.Millisecond
	if v, ok := os.LookupEnv("EVALPANEL_CLOSE_DELAY"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("EVALPANEL_CLOSE_DELAY has invalid duration %q: %w", v, err)
		}
		closeDelay = parsed
	}

	return &Config{
		ListenAddr:  listenAddr,
		DBPath:      dbPath,
		GenAIModel:  model,
		GenAIAPIKey: os.Getenv("EVALPANEL_GENAI_API_KEY"),
		KeySalt:     salt,
		CloseDelay:  closeDelay,
	}, nil
}
