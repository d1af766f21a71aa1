package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOpenAI()
	c.normalizeGeneration()
	c.normalizeAttachments()
	if err := c.normalizeServer(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if path := strings.TrimSpace(c.Paths.SystemPromptPath); path != "" {
		if c.Paths.SystemPromptPath, err = expandPath(path); err != nil {
			return fmt.Errorf("paths.system_prompt_path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeOpenAI() {
	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	if c.OpenAI.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.OpenAI.APIKey = strings.TrimSpace(value)
		}
	}
	c.OpenAI.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.OpenAI.BaseURL), "/")
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = defaultBaseURL
	}
	c.OpenAI.Model = strings.TrimSpace(c.OpenAI.Model)
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = defaultModel
	}
	models := make([]string, 0, len(c.OpenAI.Models))
	for _, model := range c.OpenAI.Models {
		if trimmed := strings.TrimSpace(model); trimmed != "" {
			models = append(models, trimmed)
		}
	}
	if len(models) == 0 {
		models = defaultModels()
	}
	c.OpenAI.Models = models
	if c.OpenAI.TimeoutSeconds <= 0 {
		c.OpenAI.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.OpenAI.MaxRetries < 0 {
		c.OpenAI.MaxRetries = defaultMaxRetries
	}
	if c.OpenAI.InitialRetryDelayMS <= 0 {
		c.OpenAI.InitialRetryDelayMS = defaultInitialRetryDelayMS
	}
	if c.OpenAI.MaxRetryDelayMS <= 0 {
		c.OpenAI.MaxRetryDelayMS = defaultMaxRetryDelayMS
	}
}

func (c *Config) normalizeGeneration() {
	if c.Generation.MaxBriefLength <= 0 {
		c.Generation.MaxBriefLength = defaultMaxBriefLength
	}
	if c.Generation.MinTokens <= 0 {
		c.Generation.MinTokens = defaultMinTokens
	}
	if c.Generation.MaxTokens <= 0 {
		c.Generation.MaxTokens = defaultMaxTokens
	}
	if c.Generation.DefaultMaxTokens <= 0 {
		c.Generation.DefaultMaxTokens = defaultTokens
	}
	if c.Generation.DefaultTemperature < 0 {
		c.Generation.DefaultTemperature = defaultTemperature
	}
	c.Generation.DefaultAccentColor = strings.TrimSpace(c.Generation.DefaultAccentColor)
	if c.Generation.DefaultAccentColor == "" {
		c.Generation.DefaultAccentColor = defaultAccentColor
	}
}

func (c *Config) normalizeAttachments() {
	if c.Attachments.MaxFileBytes <= 0 {
		c.Attachments.MaxFileBytes = defaultMaxFileBytes
	}
	if c.Attachments.MaxImageSide <= 0 {
		c.Attachments.MaxImageSide = defaultMaxImageSide
	}
	if c.Attachments.JPEGQuality <= 0 || c.Attachments.JPEGQuality > 100 {
		c.Attachments.JPEGQuality = defaultJPEGQuality
	}
}

func (c *Config) normalizeServer() error {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	c.Server.Token = strings.TrimSpace(c.Server.Token)
	if strings.TrimSpace(c.Server.LockFile) == "" {
		c.Server.LockFile = defaultLockFile
	}
	var err error
	if c.Server.LockFile, err = expandPath(c.Server.LockFile); err != nil {
		return fmt.Errorf("server.lock_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
