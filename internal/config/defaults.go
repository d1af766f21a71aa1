package config

const (
	defaultLogDir              = "~/.local/share/resumesmith/logs"
	defaultBaseURL             = "https://api.openai.com/v1"
	defaultModel               = "gpt-4.1-mini"
	defaultTimeoutSeconds      = 120
	defaultMaxRetries          = 3
	defaultInitialRetryDelayMS = 2000
	defaultMaxRetryDelayMS     = 30000
	defaultMaxBriefLength      = 6000
	defaultMaxTokens           = 8000
	defaultMinTokens           = 1024
	defaultTokens              = 6000
	defaultTemperature         = 0.2
	defaultAccentColor         = "#0b3a6e"
	defaultMaxFileBytes        = 8_000_000
	defaultMaxImageSide        = 2048
	defaultJPEGQuality         = 85
	defaultServerBind          = "127.0.0.1:7820"
	defaultLockFile            = "~/.local/share/resumesmith/resumesmith.lock"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

func defaultModels() []string {
	return []string{"gpt-4.1-mini", "gpt-4.1", "gpt-4o-mini", "gpt-4o"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		OpenAI: OpenAI{
			BaseURL:             defaultBaseURL,
			Model:               defaultModel,
			Models:              defaultModels(),
			TimeoutSeconds:      defaultTimeoutSeconds,
			MaxRetries:          defaultMaxRetries,
			InitialRetryDelayMS: defaultInitialRetryDelayMS,
			MaxRetryDelayMS:     defaultMaxRetryDelayMS,
		},
		Generation: Generation{
			MaxBriefLength:     defaultMaxBriefLength,
			DefaultMaxTokens:   defaultTokens,
			MinTokens:          defaultMinTokens,
			MaxTokens:          defaultMaxTokens,
			DefaultTemperature: defaultTemperature,
			DefaultAccentColor: defaultAccentColor,
		},
		Attachments: Attachments{
			MaxFileBytes: defaultMaxFileBytes,
			MaxImageSide: defaultMaxImageSide,
			JPEGQuality:  defaultJPEGQuality,
		},
		Server: Server{
			Bind:     defaultServerBind,
			LockFile: defaultLockFile,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
