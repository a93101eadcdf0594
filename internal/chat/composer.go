package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/vetrina-ai/vetrina/internal/catalog"
	"github.com/vetrina-ai/vetrina/internal/session"
)

// composerSystemPrompt is the plain assistant role for answer generation.
const composerSystemPrompt = "You are a helpful assistant."

// Composer turns a query result into a narrated HTML answer.
//
// The answer is trusted HTML: model-generated markup is rendered verbatim by
// the shell without escaping or sanitization. This is an accepted trust
// boundary of the system, not an oversight.
type Composer struct {
	g         *genkit.Genkit
	modelName string
	images    *catalog.Images
	logger    *slog.Logger
}

// NewComposer creates a Composer over the given image catalog.
func NewComposer(g *genkit.Genkit, modelName string, images *catalog.Images, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{g: g, modelName: modelName, images: images, logger: logger}
}

// answerPrompt builds the composition prompt embedding the question, the
// query result and the image listing. An empty catalog yields an empty
// listing section; the prompt tolerates that without error.
func (c *Composer) answerPrompt(request, queryResult string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The following question was asked in natural language:\n\n%s\n\n", request)
	fmt.Fprintf(&b, "This is the result of the query executed on the database:\n\n%s\n\n", queryResult)
	fmt.Fprintf(&b, "The following images are available:\n\n%s\n\n", c.images.Listing())
	fmt.Fprintf(&b, "Answer the question using the query result and include <img> tags with the relevant images directly in the answer text. ")
	fmt.Fprintf(&b, "Use the format <img src='%s/image_name.extension' alt='image_name' width='300'> where the images should be placed. ", c.images.BaseURL())
	fmt.Fprintf(&b, "Generate a well-structured, visually appealing HTML answer. Do not wrap the answer in markdown code blocks.")
	return b.String()
}

// Answer composes the HTML answer for the request.
//
// The full prior conversation is replayed as dialogue context, which is what
// gives the assistant multi-turn memory. On success the (question, answer)
// pair is appended to history; a failed model call leaves history untouched.
func (c *Composer) Answer(ctx context.Context, request, queryResult string, history *session.History) (string, error) {
	messages := make([]*ai.Message, 0, history.Len()+1)
	for _, turn := range history.Turns() {
		switch turn.Role {
		case session.RoleAssistant:
			messages = append(messages, ai.NewModelMessage(ai.NewTextPart(turn.Content)))
		default:
			messages = append(messages, ai.NewUserMessage(ai.NewTextPart(turn.Content)))
		}
	}
	messages = append(messages, ai.NewUserMessage(ai.NewTextPart(c.answerPrompt(request, queryResult))))

	resp, err := genkit.Generate(ctx, c.g,
		ai.WithSystem(composerSystemPrompt),
		ai.WithMessages(messages...),
		ai.WithModelName(c.modelName),
	)
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}

	answer := stripFences(resp.Text())

	// History records the original request, not the composed prompt, so that
	// replayed context reads as a natural dialogue.
	history.Add(request, answer)

	c.logger.Info("composed answer", "chars", len(answer), "turns", history.Len())
	return answer, nil
}
