package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/vetrina-ai/vetrina/internal/log"
)

// SpeakerConfig configures the text-to-speech client.
type SpeakerConfig struct {
	APIBase string // e.g. "https://api.openai.com/v1"
	APIKey  string
	Model   string // e.g. "tts-1"
	Voice   string // e.g. "alloy"
}

// Speaker turns answer text into speech through an OpenAI compatible
// audio endpoint and plays it back.
type Speaker struct {
	cfg        SpeakerConfig
	player     Player
	httpClient *http.Client
	outPath    string
	logger     log.Logger
}

// NewSpeaker creates a speaker. Player and logger must not be nil.
func NewSpeaker(cfg SpeakerConfig, player Player, logger log.Logger) *Speaker {
	if player == nil {
		panic("voice: player is required")
	}
	if logger == nil {
		panic("voice: logger is required")
	}
	return &Speaker{
		cfg:        cfg,
		player:     player,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		outPath:    filepath.Join(os.TempDir(), "vetrina-reply.mp3"),
		logger:     logger,
	}
}

// Say synthesizes the text and plays it, blocking until playback ends.
func (s *Speaker) Say(ctx context.Context, text string) error {
	path, err := s.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	return s.player.Play(ctx, path)
}

// Synthesize writes the spoken rendition of text to an mp3 file and
// returns its path. Successive calls reuse the same file, replacing the
// previous answer.
func (s *Speaker) Synthesize(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"model": s.cfg.Model,
		"voice": s.cfg.Voice,
		"input": text,
	})
	if err != nil {
		return "", fmt.Errorf("encode speech request: %w", err)
	}

	url := s.cfg.APIBase + "/audio/speech"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("speech status %d: %s", resp.StatusCode, detail)
	}

	out, err := os.Create(s.outPath)
	if err != nil {
		return "", fmt.Errorf("create audio file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}

	s.logger.Debug("synthesized speech", "path", s.outPath, "chars", len(text))
	return s.outPath, nil
}
