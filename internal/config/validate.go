package config

import (
	"errors"
	"fmt"
	"regexp"
)

var accentColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// AccentColorValid reports whether the value is a 6-digit hex color.
func AccentColorValid(color string) bool {
	return accentColorPattern.MatchString(color)
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOpenAI(); err != nil {
		return err
	}
	if err := c.validateGeneration(); err != nil {
		return err
	}
	if err := c.validateAttachments(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOpenAI() error {
	if len(c.OpenAI.Models) == 0 {
		return errors.New("openai.models must list at least one model")
	}
	if !c.ModelAllowed(c.OpenAI.Model) {
		return fmt.Errorf("openai.model %q is not in openai.models", c.OpenAI.Model)
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		return errors.New("openai.timeout_seconds must be positive")
	}
	if c.OpenAI.InitialRetryDelayMS > c.OpenAI.MaxRetryDelayMS {
		return errors.New("openai.initial_retry_delay_ms must not exceed openai.max_retry_delay_ms")
	}
	return nil
}

func (c *Config) validateGeneration() error {
	if c.Generation.MinTokens > c.Generation.MaxTokens {
		return errors.New("generation.min_tokens must not exceed generation.max_tokens")
	}
	if c.Generation.DefaultMaxTokens < c.Generation.MinTokens || c.Generation.DefaultMaxTokens > c.Generation.MaxTokens {
		return errors.New("generation.default_max_tokens must fall within [min_tokens, max_tokens]")
	}
	if c.Generation.DefaultTemperature < 0 || c.Generation.DefaultTemperature > 2 {
		return errors.New("generation.default_temperature must be between 0 and 2")
	}
	if !AccentColorValid(c.Generation.DefaultAccentColor) {
		return fmt.Errorf("generation.default_accent_color %q is not a 6-digit hex color", c.Generation.DefaultAccentColor)
	}
	return nil
}

func (c *Config) validateAttachments() error {
	if c.Attachments.MaxFileBytes <= 0 {
		return errors.New("attachments.max_file_bytes must be positive")
	}
	if c.Attachments.MaxImageSide <= 0 {
		return errors.New("attachments.max_image_side must be positive")
	}
	if c.Attachments.JPEGQuality < 1 || c.Attachments.JPEGQuality > 100 {
		return errors.New("attachments.jpeg_quality must be between 1 and 100")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported (console, json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not supported (debug, info, warn, error)", c.Logging.Level)
	}
	return nil
}
