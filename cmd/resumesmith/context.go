package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"resumesmith/internal/config"
	"resumesmith/internal/generation"
	"resumesmith/internal/imaging"
	"resumesmith/internal/logging"
	"resumesmith/internal/services/openai"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// newGenerationService assembles the full pipeline from the loaded config.
func (c *commandContext) newGenerationService(logger *slog.Logger) (*generation.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client := openai.NewClient(openai.Config{
		APIKey:         cfg.OpenAI.APIKey,
		BaseURL:        cfg.OpenAI.BaseURL,
		TimeoutSeconds: cfg.OpenAI.TimeoutSeconds,
	},
		openai.WithRetryMaxAttempts(cfg.OpenAI.MaxRetries+1),
		openai.WithRetryBackoff(cfg.InitialRetryDelay(), cfg.MaxRetryDelay()),
		openai.WithLogger(logger),
	)
	normalizer := imaging.New(cfg.Attachments.MaxImageSide, cfg.Attachments.JPEGQuality, cfg.Attachments.MaxFileBytes)
	return generation.NewService(cfg, client, normalizer, logger), nil
}

func (c *commandContext) newLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr"},
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
