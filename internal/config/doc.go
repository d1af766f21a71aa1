// Package config loads, normalizes, and validates resumesmith configuration
// from TOML. Values not present in the file fall back to repository defaults;
// the OpenAI API key additionally falls back to the OPENAI_API_KEY
// environment variable.
package config
