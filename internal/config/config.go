// Package config provides application configuration management with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.vetrina/config.yaml or ./config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - AI: provider and model used for SQL generation and answer composition
//   - Database: PostgreSQL connection for the product catalog
//   - Assets: schema description file, image directory, public image base URL
//   - Voice: speech synthesis/recognition models and local audio commands
//   - Serve: listen address, rate limiting, proxy trust
//
// Security: the database password is never logged; MarshalJSON masks it.
// Validation is fail-fast with sentinel errors checkable via errors.Is().
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates the provider API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidProvider indicates the AI provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidDatabaseHost indicates the database host is invalid.
	ErrInvalidDatabaseHost = errors.New("invalid database host")

	// ErrInvalidDatabasePort indicates the database port is out of range.
	ErrInvalidDatabasePort = errors.New("invalid database port")

	// ErrInvalidDatabaseName indicates the database name is invalid.
	ErrInvalidDatabaseName = errors.New("invalid database name")

	// ErrInvalidSSLMode indicates the database SSL mode is invalid.
	ErrInvalidSSLMode = errors.New("invalid database SSL mode")

	// ErrInvalidSchemaFile indicates the schema description path is empty.
	ErrInvalidSchemaFile = errors.New("invalid schema file")

	// ErrInvalidImageBaseURL indicates the public image base URL is empty.
	ErrInvalidImageBaseURL = errors.New("invalid image base URL")
)

// AI provider identifiers used in Config.Provider.
const (
	ProviderOpenAI   = "openai"
	ProviderGoogleAI = "googleai"
)

// Config stores application configuration.
// SECURITY: sensitive fields are explicitly masked in MarshalJSON().
type Config struct {
	// AI provider and model configuration
	Provider  string `mapstructure:"provider" json:"provider"`     // "openai" (default) or "googleai"
	ModelName string `mapstructure:"model_name" json:"model_name"` // e.g. "gpt-4o", "gemini-2.5-flash"

	// Static assets
	SchemaFile   string `mapstructure:"schema_file" json:"schema_file"`       // schema description text file (required at startup)
	ImageDir     string `mapstructure:"image_dir" json:"image_dir"`           // product image directory (optional)
	ImageBaseURL string `mapstructure:"image_base_url" json:"image_base_url"` // public URL prefix for catalog images

	// Database configuration (product catalog, read via generated SQL)
	DatabaseHost     string `mapstructure:"database_host" json:"database_host"`
	DatabasePort     int    `mapstructure:"database_port" json:"database_port"`
	DatabaseUser     string `mapstructure:"database_user" json:"database_user"`
	DatabasePassword string `mapstructure:"database_password" json:"database_password"` // SENSITIVE: masked in MarshalJSON; empty allowed
	DatabaseName     string `mapstructure:"database_name" json:"database_name"`
	DatabaseSSLMode  string `mapstructure:"database_ssl_mode" json:"database_ssl_mode"`

	// Voice configuration
	VoiceEnabled    bool   `mapstructure:"voice_enabled" json:"voice_enabled"`
	SpeechModel     string `mapstructure:"speech_model" json:"speech_model"`         // TTS model, e.g. "tts-1"
	SpeechVoice     string `mapstructure:"speech_voice" json:"speech_voice"`         // TTS voice, e.g. "alloy"
	SpeechAPIBase   string `mapstructure:"speech_api_base" json:"speech_api_base"`   // speech service base URL
	TranscribeModel string `mapstructure:"transcribe_model" json:"transcribe_model"` // STT model, e.g. "whisper-1"
	TranscribeLang  string `mapstructure:"transcribe_lang" json:"transcribe_lang"`   // ISO language hint, e.g. "it"
	RecorderCommand string `mapstructure:"recorder_command" json:"recorder_command"` // local capture binary (sox "rec")
	PlayerCommand   string `mapstructure:"player_command" json:"player_command"`     // local playback binary

	// Serve configuration
	ListenAddr string  `mapstructure:"listen_addr" json:"listen_addr"`
	RateLimit  float64 `mapstructure:"rate_limit" json:"rate_limit"` // requests per second per IP
	RateBurst  int     `mapstructure:"rate_burst" json:"rate_burst"`
	TrustProxy bool    `mapstructure:"trust_proxy" json:"trust_proxy"` // trust X-Real-IP/X-Forwarded-For

	// Observability (optional; empty endpoint disables trace export)
	OTLPEndpoint string `mapstructure:"otlp_endpoint" json:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name" json:"service_name"`
	Environment  string `mapstructure:"environment" json:"environment"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".vetrina")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use defaults
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	// AI defaults (matching the speech endpoints: OpenAI)
	v.SetDefault("provider", ProviderOpenAI)
	v.SetDefault("model_name", "gpt-4o")

	// Asset defaults
	v.SetDefault("schema_file", "schema.txt")
	v.SetDefault("image_dir", "img")
	v.SetDefault("image_base_url", "https://www.justwebsite.it/img")

	// Database defaults
	v.SetDefault("database_host", "localhost")
	v.SetDefault("database_port", 5432)
	v.SetDefault("database_user", "vetrina")
	v.SetDefault("database_password", "")
	v.SetDefault("database_name", "vetrina")
	v.SetDefault("database_ssl_mode", "disable")

	// Voice defaults
	v.SetDefault("voice_enabled", true)
	v.SetDefault("speech_model", "tts-1")
	v.SetDefault("speech_voice", "alloy")
	v.SetDefault("speech_api_base", "https://api.openai.com/v1")
	v.SetDefault("transcribe_model", "whisper-1")
	v.SetDefault("transcribe_lang", "it")
	v.SetDefault("recorder_command", "rec")
	v.SetDefault("player_command", "mpg123")

	// Serve defaults
	v.SetDefault("listen_addr", "localhost:8765")
	v.SetDefault("rate_limit", 5.0)
	v.SetDefault("rate_burst", 10)
	v.SetDefault("trust_proxy", false)

	// Observability defaults (disabled unless otlp_endpoint is set)
	v.SetDefault("otlp_endpoint", "")
	v.SetDefault("service_name", "vetrina")
	v.SetDefault("environment", "dev")
}

// bindEnvVariables binds environment variables explicitly.
// The provider API key (OPENAI_API_KEY / GEMINI_API_KEY) is read directly by
// the Genkit plugin, not via Viper; Validate() checks its presence.
func bindEnvVariables(v *viper.Viper) {
	// Hardcoded keys cannot fail to bind; a panic here is a bug, not a runtime error.
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("provider", "VETRINA_PROVIDER")
	mustBind("model_name", "VETRINA_MODEL_NAME")

	mustBind("schema_file", "VETRINA_SCHEMA_FILE")
	mustBind("image_dir", "VETRINA_IMAGE_DIR")
	mustBind("image_base_url", "VETRINA_IMAGE_BASE_URL")

	mustBind("database_host", "DB_HOST")
	mustBind("database_port", "DB_PORT")
	mustBind("database_user", "DB_USER")
	mustBind("database_password", "DB_PASSWORD")
	mustBind("database_name", "DB_NAME")
	mustBind("database_ssl_mode", "DB_SSL_MODE")

	mustBind("voice_enabled", "VETRINA_VOICE_ENABLED")
	mustBind("listen_addr", "VETRINA_LISTEN_ADDR")
	mustBind("trust_proxy", "VETRINA_TRUST_PROXY")

	mustBind("otlp_endpoint", "VETRINA_OTLP_ENDPOINT")
}

// maskedValue is the placeholder for masked sensitive data.
// Full-width blocks avoid substring matching against real secret content.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging.
// Secrets of 8 characters or fewer are fully masked; longer secrets keep the
// first and last two characters for debug utility.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with explicit sensitive field masking.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.DatabasePassword = maskSecret(a.DatabasePassword)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// FullModelName returns the provider-qualified model name for Genkit.
// Examples: "openai/gpt-4o", "googleai/gemini-2.5-flash".
// If ModelName already contains a "/", it is returned as-is.
func (c *Config) FullModelName() string {
	for _, r := range c.ModelName {
		if r == '/' {
			return c.ModelName
		}
	}
	switch c.Provider {
	case ProviderGoogleAI:
		return ProviderGoogleAI + "/" + c.ModelName
	default:
		return ProviderOpenAI + "/" + c.ModelName
	}
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
