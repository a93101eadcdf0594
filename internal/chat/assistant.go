// Package chat implements the conversational pipeline: natural-language
// request → SQL synthesis → query execution → narrated HTML answer.
package chat

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vetrina-ai/vetrina/internal/database"
	"github.com/vetrina-ai/vetrina/internal/session"
)

// QueryRunner executes generated SQL against the product database.
// Consumer-side interface; database.Executor is the production implementation.
type QueryRunner interface {
	Execute(ctx context.Context, sql string) (*database.Result, error)
}

// Config contains all required parameters for the Assistant.
type Config struct {
	Synthesizer *Synthesizer
	Runner      QueryRunner
	Composer    *Composer
	Logger      *slog.Logger
}

// validate checks if all required parameters are present.
func (cfg Config) validate() error {
	if cfg.Synthesizer == nil {
		return errors.New("synthesizer is required")
	}
	if cfg.Runner == nil {
		return errors.New("query runner is required")
	}
	if cfg.Composer == nil {
		return errors.New("composer is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	return nil
}

// Assistant runs one linear conversational turn at a time.
//
// A database failure does not abort the turn: the error text flows downstream
// as data and the model is asked to explain it. A model-call failure aborts
// the turn and leaves history untouched.
type Assistant struct {
	synth  *Synthesizer
	runner QueryRunner
	comp   *Composer
	logger *slog.Logger
}

// New creates an Assistant with required configuration.
func New(cfg Config) (*Assistant, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Assistant{
		synth:  cfg.Synthesizer,
		runner: cfg.Runner,
		comp:   cfg.Composer,
		logger: cfg.Logger,
	}, nil
}

// Ask runs the pipeline for one request and returns the HTML answer.
// On success the (request, answer) pair has been appended to history.
func (a *Assistant) Ask(ctx context.Context, request string, history *session.History) (string, error) {
	sql, err := a.synth.SQL(ctx, request)
	if err != nil {
		return "", err
	}

	var resultText string
	result, err := a.runner.Execute(ctx, sql)
	if err != nil {
		// The failure text becomes the query output, so the model explains
		// it and the session continues.
		resultText = "Error: " + err.Error()
		a.logger.Warn("query failed, passing error downstream", "error", err)
	} else {
		resultText = result.String()
		a.logger.Debug("query result", "rows", len(result.Rows))
	}

	return a.comp.Answer(ctx, request, resultText, history)
}
