package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// ErrEmptyRequest indicates the natural-language request was empty.
var ErrEmptyRequest = errors.New("empty request")

// sqlSystemPrompt instructs the model to emit only SQL.
// Text searches should be fuzzy so partial product names still match, and
// every query is capped at 10 rows to keep results prompt-sized.
const sqlSystemPrompt = "You are a helpful assistant. You will generate only SQL code and won't write anything else. " +
	"Make more than one query (only if needed) and try to make them generic using, for example, LIKE '%search name%'. " +
	"Always limit the number of results to 10."

// Synthesizer turns a natural-language request into SQL text.
//
// The returned SQL is treated as literal text: no validation, sanitization or
// syntax checking happens here. Correctness is delegated to the model and to
// whatever the database server accepts.
type Synthesizer struct {
	g         *genkit.Genkit
	modelName string
	schema    string
	logger    *slog.Logger
}

// NewSynthesizer creates a Synthesizer over the given schema description.
func NewSynthesizer(g *genkit.Genkit, modelName, schema string, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{g: g, modelName: modelName, schema: schema, logger: logger}
}

// SQL converts the request into a SQL statement.
// The request must be non-empty. Markdown fences are stripped from the model
// output; a model-call failure is returned as an error and aborts the turn.
func (s *Synthesizer) SQL(ctx context.Context, request string) (string, error) {
	if request == "" {
		return "", ErrEmptyRequest
	}

	prompt := fmt.Sprintf(
		"The following is the database schema:\n\n%s\n\nConvert the following natural language request into a SQL query:\n\n%s",
		s.schema, request,
	)

	resp, err := genkit.Generate(ctx, s.g,
		ai.WithSystem(sqlSystemPrompt),
		ai.WithPrompt(prompt),
		ai.WithModelName(s.modelName),
	)
	if err != nil {
		return "", fmt.Errorf("generating SQL: %w", err)
	}

	sql := stripFences(resp.Text())
	s.logger.Info("generated SQL", "sql", sql)
	return sql, nil
}
