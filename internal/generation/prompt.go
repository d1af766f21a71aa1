package generation

import (
	_ "embed"
	"os"
	"strings"

	"resumesmith/internal/config"
	"resumesmith/internal/services"
)

//go:embed default_prompt.txt
var defaultSystemInstructions string

// LoadSystemInstructions returns the system instructions for the model. When
// path is empty the embedded default is used; otherwise the file must exist
// and be non-empty.
func LoadSystemInstructions(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return defaultSystemInstructions, nil
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", services.WrapError(services.KindMalformedRequest, err, "resolve system prompt path")
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return "", services.WrapError(services.KindMalformedRequest, err, "read system prompt")
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", services.NewError(services.KindMalformedRequest, "system prompt file %s is empty", expanded)
	}
	return text, nil
}
