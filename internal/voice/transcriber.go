package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/vetrina-ai/vetrina/internal/log"
)

// Placeholder texts returned when speech recognition degrades. They flow
// through the rest of the conversation pipeline as the user's request, so
// the assistant can still respond to a failed capture.
const (
	CouldNotUnderstandText = "I could not understand the audio"
	RequestFailedText      = "Speech recognition request failed"
)

// TranscriberConfig configures the speech-to-text client.
type TranscriberConfig struct {
	APIBase  string // e.g. "https://api.openai.com/v1"
	APIKey   string
	Model    string // e.g. "whisper-1"
	Language string // ISO-639-1 hint, e.g. "it"
}

// Transcriber converts recorded audio into text through an OpenAI
// compatible transcription endpoint.
type Transcriber struct {
	cfg        TranscriberConfig
	httpClient *http.Client
	logger     log.Logger
}

// NewTranscriber creates a transcriber. The logger must not be nil.
func NewTranscriber(cfg TranscriberConfig, logger log.Logger) *Transcriber {
	if logger == nil {
		panic("voice: logger is required")
	}
	return &Transcriber{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

// Transcribe returns the text recognized in the audio file. Recognition
// failures never abort the conversation: transport or server errors yield
// RequestFailedText, an empty transcription yields CouldNotUnderstandText.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) string {
	text, err := t.request(ctx, audioPath)
	if err != nil {
		t.logger.Warn("speech recognition failed", "error", err, "audio", audioPath)
		return RequestFailedText
	}
	if text == "" {
		t.logger.Warn("speech not understood", "audio", audioPath)
		return CouldNotUnderstandText
	}
	t.logger.Debug("transcribed audio", "text", text)
	return text
}

func (t *Transcriber) request(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("copy audio: %w", err)
	}
	if err := mw.WriteField("model", t.cfg.Model); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if t.cfg.Language != "" {
		if err := mw.WriteField("language", t.cfg.Language); err != nil {
			return "", fmt.Errorf("write language field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finalize form: %w", err)
	}

	url := t.cfg.APIBase + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.cfg.APIKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("transcription status %d: %s", resp.StatusCode, detail)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode transcription: %w", err)
	}
	return result.Text, nil
}
