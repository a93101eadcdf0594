package config

import (
	"fmt"
	"os"
	"slices"
)

// apiKeyEnv maps a provider to the environment variable holding its API key.
// The key is consumed directly by the Genkit plugin; config only checks presence.
func apiKeyEnv(provider string) string {
	if provider == ProviderGoogleAI {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if c.Provider != ProviderOpenAI && c.Provider != ProviderGoogleAI {
		return fmt.Errorf("%w: %q (supported: openai, googleai)", ErrInvalidProvider, c.Provider)
	}

	// API key presence (required for SQL generation and composition)
	if env := apiKeyEnv(c.Provider); os.Getenv(env) == "" {
		return fmt.Errorf("%w: %s environment variable is required", ErrMissingAPIKey, env)
	}

	// The speech endpoints are OpenAI-compatible and always authenticate
	// with OPENAI_API_KEY, whatever the conversation provider. Without the
	// key every voice turn would degrade to placeholder text, so its
	// absence is a startup error rather than a runtime surprise.
	if c.VoiceEnabled && os.Getenv("OPENAI_API_KEY") == "" {
		return fmt.Errorf("%w: OPENAI_API_KEY environment variable is required when voice is enabled", ErrMissingAPIKey)
	}

	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrInvalidModelName)
	}

	// Asset configuration. The image directory is optional (absence yields an
	// empty catalog) but the schema file path and image base URL must be set.
	if c.SchemaFile == "" {
		return fmt.Errorf("%w: schema_file cannot be empty", ErrInvalidSchemaFile)
	}
	if c.ImageBaseURL == "" {
		return fmt.Errorf("%w: image_base_url cannot be empty", ErrInvalidImageBaseURL)
	}

	// Database configuration. The password may be empty: some deployments use
	// trust or peer authentication, and an empty secret is then omitted from
	// the connection parameters entirely.
	if c.DatabaseHost == "" {
		return fmt.Errorf("%w: host cannot be empty", ErrInvalidDatabaseHost)
	}
	if c.DatabasePort < 1 || c.DatabasePort > 65535 {
		return fmt.Errorf("%w: must be between 1 and 65535, got %d", ErrInvalidDatabasePort, c.DatabasePort)
	}
	if c.DatabaseName == "" {
		return fmt.Errorf("%w: database name cannot be empty", ErrInvalidDatabaseName)
	}

	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	if !slices.Contains(validSSLModes, c.DatabaseSSLMode) {
		return fmt.Errorf("%w: %q (valid: %v)", ErrInvalidSSLMode, c.DatabaseSSLMode, validSSLModes)
	}

	return nil
}
