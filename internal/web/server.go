// Package web serves the conversational storefront UI: a transcript page,
// a text chat endpoint and a voice capture endpoint.
package web

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"os"
	"strings"

	"github.com/vetrina-ai/vetrina/internal/log"
	"github.com/vetrina-ai/vetrina/internal/session"
	"github.com/vetrina-ai/vetrina/internal/voice"
)

// Asker answers a natural language request, recording the exchange in the
// conversation history.
type Asker interface {
	Ask(ctx context.Context, request string, history *session.History) (string, error)
}

// SpeechToText converts a recorded audio file into request text.
type SpeechToText interface {
	Transcribe(ctx context.Context, audioPath string) string
}

// TextToSpeech speaks the given plain text.
type TextToSpeech interface {
	Say(ctx context.Context, text string) error
}

// ServerConfig contains configuration for creating the web server.
type ServerConfig struct {
	Logger    log.Logger       // Required
	Assistant Asker            // Required
	History   *session.History // Required

	// Voice components. All three must be set to enable voice mode.
	Recorder    voice.Recorder
	Transcriber SpeechToText
	Speaker     TextToSpeech

	RateLimit  float64 // Tokens refilled per second per IP
	RateBurst  int     // Maximum burst per IP
	TrustProxy bool    // Trust X-Real-IP / X-Forwarded-For
}

// Server is the chat HTTP server. It serves a single shared conversation,
// matching the one-visitor-at-a-time showroom kiosk it fronts.
type Server struct {
	mux     *http.ServeMux
	handler http.Handler
	logger  log.Logger

	assistant   Asker
	history     *session.History
	recorder    voice.Recorder
	transcriber SpeechToText
	speaker     TextToSpeech
}

// NewServer creates a server with all routes configured. Voice routes
// degrade to a notice when the voice components are missing.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.Assistant == nil {
		return nil, errors.New("assistant is required")
	}
	if cfg.History == nil {
		return nil, errors.New("history is required")
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 5
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 10
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      cfg.Logger,
		assistant:   cfg.Assistant,
		history:     cfg.History,
		recorder:    cfg.Recorder,
		transcriber: cfg.Transcriber,
		speaker:     cfg.Speaker,
	}

	s.mux.HandleFunc("GET /{$}", s.page)
	s.mux.HandleFunc("POST /chat/send", s.send)
	s.mux.HandleFunc("POST /chat/record", s.record)

	// Recovery → Logging → Rate limit → Routes
	rl := newRateLimiter(cfg.RateLimit, cfg.RateBurst)
	var handler http.Handler = s.mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, cfg.Logger)(handler)
	handler = loggingMiddleware(cfg.Logger)(handler)
	handler = recoveryMiddleware(cfg.Logger)(handler)
	s.handler = handler

	return s, nil
}

// ServeHTTP implements http.Handler with the middleware stack. The health
// probe bypasses rate limiting so orchestrator checks never starve.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.setSecurityHeaders(w)

	if r.URL.Path == "/healthz" {
		s.health(w, r)
		return
	}
	s.handler.ServeHTTP(w, r)
}

func (s *Server) setSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
}

// health is a simple health check endpoint for container probes.
func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) voiceEnabled() bool {
	return s.recorder != nil && s.transcriber != nil && s.speaker != nil
}

// page renders the conversation transcript.
func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	turns := s.history.Turns()
	views := make([]turnView, 0, len(turns))
	for _, t := range turns {
		v := turnView{Role: t.Role}
		if t.Role == session.RoleAssistant {
			// Assistant output is trusted generated HTML carrying the
			// product image tags.
			v.HTML = template.HTML(t.Content)
		} else {
			v.Text = t.Content
		}
		views = append(views, v)
	}

	view := pageView{
		Notice:       noticeTexts[r.URL.Query().Get("notice")],
		Turns:        views,
		VoiceEnabled: s.voiceEnabled(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, view); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// send handles the text chat form. An empty message re-renders the page
// with a retry prompt without invoking the assistant.
func (s *Server) send(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	message := strings.TrimSpace(r.FormValue("message"))
	if message == "" {
		http.Redirect(w, r, "/?notice="+noticeEmpty, http.StatusSeeOther)
		return
	}

	s.answer(w, r, message)
}

// record handles a voice turn: capture, transcribe, then answer. A failed
// transcription still produces a turn through its placeholder text.
func (s *Server) record(w http.ResponseWriter, r *http.Request) {
	if !s.voiceEnabled() {
		http.Redirect(w, r, "/?notice="+noticeVoiceDisabled, http.StatusSeeOther)
		return
	}

	audioPath, err := s.recorder.Record(r.Context())
	if err != nil {
		s.logger.Error("audio capture failed", "error", err)
		http.Redirect(w, r, "/?notice="+noticeError, http.StatusSeeOther)
		return
	}
	defer func() {
		if err := os.Remove(audioPath); err != nil {
			s.logger.Warn("removing captured audio", "error", err, "path", audioPath)
		}
	}()

	message := s.transcriber.Transcribe(r.Context(), audioPath)
	s.answer(w, r, message)
}

// answer runs a conversation turn and redirects back to the transcript.
func (s *Server) answer(w http.ResponseWriter, r *http.Request, message string) {
	answer, err := s.assistant.Ask(r.Context(), message, s.history)
	if err != nil {
		s.logger.Error("conversation turn failed", "error", err, "request", message)
		http.Redirect(w, r, "/?notice="+noticeError, http.StatusSeeOther)
		return
	}

	if s.voiceEnabled() {
		if err := s.speak(r.Context(), answer); err != nil {
			s.logger.Warn("speech playback failed", "error", err)
			http.Redirect(w, r, "/?notice="+noticeSpeech, http.StatusSeeOther)
			return
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// speak narrates the answer and waits for playback to finish. The answer
// itself already sits in history, so a playback error does not lose the
// turn.
func (s *Server) speak(ctx context.Context, answer string) error {
	text := voice.StripHTML(answer)
	if text == "" {
		return nil
	}
	return s.speaker.Say(ctx, text)
}
