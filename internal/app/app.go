// Package app wires configuration, the model runtime, the catalog, the
// database executor and the conversation pipeline into a runnable
// application.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/firebase/genkit/go/plugins/googlegenai"

	"github.com/vetrina-ai/vetrina/internal/catalog"
	"github.com/vetrina-ai/vetrina/internal/chat"
	"github.com/vetrina-ai/vetrina/internal/config"
	"github.com/vetrina-ai/vetrina/internal/database"
	"github.com/vetrina-ai/vetrina/internal/log"
	"github.com/vetrina-ai/vetrina/internal/observability"
	"github.com/vetrina-ai/vetrina/internal/session"
	"github.com/vetrina-ai/vetrina/internal/voice"
	"github.com/vetrina-ai/vetrina/internal/web"
)

// App holds the assembled application.
type App struct {
	Config    *config.Config
	Logger    log.Logger
	Genkit    *genkit.Genkit
	Images    *catalog.Images
	Assistant *chat.Assistant
	History   *session.History
	Server    *web.Server

	otelShutdown func(context.Context) error
}

// Setup creates and initializes the application. Call Close to flush
// pending telemetry on shutdown.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{Config: cfg, Logger: logger}

	// Trace export registers on Genkit's TracerProvider, so it must be
	// set up before genkit.Init.
	otelShutdown, err := observability.Setup(ctx, observability.Config{
		Endpoint:    cfg.OTLPEndpoint,
		Environment: cfg.Environment,
		ServiceName: cfg.ServiceName,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}
	a.otelShutdown = otelShutdown

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	schema, err := catalog.LoadSchema(cfg.SchemaFile)
	if err != nil {
		return nil, fmt.Errorf("load schema description: %w", err)
	}

	images, err := catalog.Scan(cfg.ImageDir, cfg.ImageBaseURL)
	if err != nil {
		return nil, fmt.Errorf("scan image catalog: %w", err)
	}
	a.Images = images
	logger.Info("image catalog loaded", "dir", cfg.ImageDir, "images", images.Len())

	executor := database.NewExecutor(database.ConnConfig{
		Host:     cfg.DatabaseHost,
		Port:     cfg.DatabasePort,
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	}, logger)

	assistant, err := chat.New(chat.Config{
		Synthesizer: chat.NewSynthesizer(g, cfg.FullModelName(), schema, logger),
		Runner:      executor,
		Composer:    chat.NewComposer(g, cfg.FullModelName(), images, logger),
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create assistant: %w", err)
	}
	a.Assistant = assistant
	a.History = session.NewHistory()

	serverCfg := web.ServerConfig{
		Logger:     logger,
		Assistant:  assistant,
		History:    a.History,
		RateLimit:  cfg.RateLimit,
		RateBurst:  cfg.RateBurst,
		TrustProxy: cfg.TrustProxy,
	}
	if cfg.VoiceEnabled {
		speechKey := os.Getenv("OPENAI_API_KEY")
		serverCfg.Recorder = voice.NewExecRecorder(cfg.RecorderCommand)
		serverCfg.Transcriber = voice.NewTranscriber(voice.TranscriberConfig{
			APIBase:  cfg.SpeechAPIBase,
			APIKey:   speechKey,
			Model:    cfg.TranscribeModel,
			Language: cfg.TranscribeLang,
		}, logger)
		serverCfg.Speaker = voice.NewSpeaker(voice.SpeakerConfig{
			APIBase: cfg.SpeechAPIBase,
			APIKey:  speechKey,
			Model:   cfg.SpeechModel,
			Voice:   cfg.SpeechVoice,
		}, voice.NewExecPlayer(cfg.PlayerCommand), logger)
	}

	server, err := web.NewServer(serverCfg)
	if err != nil {
		return nil, fmt.Errorf("create web server: %w", err)
	}
	a.Server = server

	return a, nil
}

// Close flushes pending telemetry.
func (a *App) Close() error {
	if a.otelShutdown == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.otelShutdown(ctx); err != nil {
		a.Logger.Warn("shutting down tracer provider", "error", err)
	}
	return nil
}

// provideGenkit initializes the model runtime for the configured provider.
func provideGenkit(ctx context.Context, cfg *config.Config, logger log.Logger) (*genkit.Genkit, error) {
	var g *genkit.Genkit

	switch cfg.Provider {
	case config.ProviderOpenAI:
		g = genkit.Init(ctx, genkit.WithPlugins(&openai.OpenAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with openai provider")
		}
		logger.Info("initialized model runtime with openai provider", "model", cfg.ModelName)

	case config.ProviderGoogleAI:
		g = genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with googleai provider")
		}
		logger.Info("initialized model runtime with googleai provider", "model", cfg.ModelName)

	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}

	return g, nil
}
