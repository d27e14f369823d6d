package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPreviewAddr is the loopback address the preview server listens on
const DefaultPreviewAddr = "127.0.0.1:8765"

// Config is the deployment configuration read from config.yaml.
// User preferences live in Settings instead.
type Config struct {
	DatabasePath string            `yaml:"database_path"`
	LogLevel     string            `yaml:"log_level"`
	PreviewAddr  string            `yaml:"preview_addr"`
	Endpoints    map[string]string `yaml:"endpoints,omitempty"` // provider -> base URL override
	Aliases      map[string]string `yaml:"aliases,omitempty"`   // model id -> provider model name
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig(paths Paths) Config {
	return Config{
		DatabasePath: paths.DatabaseFile(),
		LogLevel:     "info",
		PreviewAddr:  DefaultPreviewAddr,
	}
}

// LoadConfig reads the yaml file at path over the defaults and applies
// SITECHAT_* environment overrides. A missing file is not an error.
func LoadConfig(path string, paths Paths) (*Config, error) {
	cfg := DefaultConfig(paths)
	if path == "" {
		path = paths.ConfigFile()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		LogDebug("No config file at %s, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, &ParseError{Source: "config", Key: path, Err: err}
		}
	}

	if v := os.Getenv("SITECHAT_DB"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("SITECHAT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SITECHAT_PREVIEW_ADDR"); v != "" {
		cfg.PreviewAddr = v
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = paths.DatabaseFile()
	}
	if cfg.PreviewAddr == "" {
		cfg.PreviewAddr = DefaultPreviewAddr
	}
	return &cfg, nil
}

// LoadDotEnv loads .env files into the process environment. Missing files are skipped.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			LogWarn("Failed to load %s: %v", f, err)
		} else {
			LogDebug("Loaded environment from %s", f)
		}
	}
}

// CredentialEnvVar returns the environment variable holding provider's key, e.g. GROQ_API_KEY
func CredentialEnvVar(provider string) string {
	return strings.ToUpper(provider) + "_API_KEY"
}
