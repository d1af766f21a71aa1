package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file locations used by the CLI and server.
type Paths struct {
	LogDir           string `toml:"log_dir"`
	SystemPromptPath string `toml:"system_prompt_path"`
}

// OpenAI contains connection settings for the generation endpoint.
type OpenAI struct {
	APIKey              string   `toml:"api_key"`
	BaseURL             string   `toml:"base_url"`
	Model               string   `toml:"model"`
	Models              []string `toml:"models"`
	TimeoutSeconds      int      `toml:"timeout_seconds"`
	MaxRetries          int      `toml:"max_retries"`
	InitialRetryDelayMS int      `toml:"initial_retry_delay_ms"`
	MaxRetryDelayMS     int      `toml:"max_retry_delay_ms"`
}

// Generation contains limits and defaults for resume generation requests.
type Generation struct {
	MaxBriefLength     int     `toml:"max_brief_length"`
	DefaultMaxTokens   int     `toml:"default_max_tokens"`
	MinTokens          int     `toml:"min_tokens"`
	MaxTokens          int     `toml:"max_tokens"`
	DefaultTemperature float64 `toml:"default_temperature"`
	DefaultAccentColor string  `toml:"default_accent_color"`
}

// Attachments contains size and encoding limits for uploaded files.
type Attachments struct {
	MaxFileBytes int `toml:"max_file_bytes"`
	MaxImageSide int `toml:"max_image_side"`
	JPEGQuality  int `toml:"jpeg_quality"`
}

// Server contains configuration for the HTTP API.
type Server struct {
	Bind     string `toml:"bind"`
	Token    string `toml:"token"`
	LockFile string `toml:"lock_file"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for resumesmith.
//
// Configuration sections by subsystem:
//   - Paths: log directory and system prompt location
//   - OpenAI: endpoint, credentials, timeout, and retry policy
//   - Generation: brief/token/temperature limits and defaults
//   - Attachments: upload size and image re-encoding limits
//   - Server: HTTP API bind address, auth token, lock file
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	OpenAI      OpenAI      `toml:"openai"`
	Generation  Generation  `toml:"generation"`
	Attachments Attachments `toml:"attachments"`
	Server      Server      `toml:"server"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/resumesmith/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("resumesmith.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for CLI and server operation.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

// APITimeout returns the per-attempt wall clock timeout for remote dispatches.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.OpenAI.TimeoutSeconds) * time.Second
}

// InitialRetryDelay returns the delay before the first retry attempt.
func (c *Config) InitialRetryDelay() time.Duration {
	return time.Duration(c.OpenAI.InitialRetryDelayMS) * time.Millisecond
}

// MaxRetryDelay returns the upper bound applied to backoff waits.
func (c *Config) MaxRetryDelay() time.Duration {
	return time.Duration(c.OpenAI.MaxRetryDelayMS) * time.Millisecond
}

// ModelAllowed reports whether the given model identifier is configured.
func (c *Config) ModelAllowed(model string) bool {
	for _, candidate := range c.OpenAI.Models {
		if candidate == model {
			return true
		}
	}
	return false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
