package voice

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/vetrina-ai/vetrina/internal/log"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "plain text",
			markup: "just words",
			want:   "just words",
		},
		{
			name:   "tags removed",
			markup: "<p>We sell <b>chairs</b> and tables.</p>",
			want:   "We sell chairs and tables.",
		},
		{
			name:   "image tags leave no trace",
			markup: "<p>Here: <img src='https://shop.example/img/chair.jpg' alt='chair' width='300'> a chair.</p>",
			want:   "Here: a chair.",
		},
		{
			name:   "whitespace collapsed",
			markup: "<div>\n  <p>one</p>\n  <p>two</p>\n</div>",
			want:   "one two",
		},
		{
			name:   "entities decoded",
			markup: "<p>Tom &amp; Jerry</p>",
			want:   "Tom & Jerry",
		},
		{
			name:   "empty",
			markup: "",
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.markup); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.markup, got, tt.want)
			}
		})
	}
}

func writeAudioFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.wav")
	if err := os.WriteFile(path, []byte("RIFF fake audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscriber_Transcribe(t *testing.T) {
	var gotAuth, gotModel, gotLang, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		gotLang = r.FormValue("language")
		if _, header, err := r.FormFile("file"); err == nil {
			gotFile = header.Filename
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "quali sedie avete?"})
	}))
	defer srv.Close()

	tr := NewTranscriber(TranscriberConfig{
		APIBase:  srv.URL,
		APIKey:   "sk-test",
		Model:    "whisper-1",
		Language: "it",
	}, log.NewNop())

	got := tr.Transcribe(context.Background(), writeAudioFixture(t))
	if got != "quali sedie avete?" {
		t.Errorf("Transcribe() = %q", got)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotModel != "whisper-1" || gotLang != "it" {
		t.Errorf("form fields model=%q language=%q", gotModel, gotLang)
	}
	if gotFile != "capture.wav" {
		t.Errorf("file field name = %q", gotFile)
	}
}

func TestTranscriber_EmptyTextPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": ""})
	}))
	defer srv.Close()

	tr := NewTranscriber(TranscriberConfig{APIBase: srv.URL, Model: "whisper-1"}, log.NewNop())

	if got := tr.Transcribe(context.Background(), writeAudioFixture(t)); got != CouldNotUnderstandText {
		t.Errorf("Transcribe() = %q, want %q", got, CouldNotUnderstandText)
	}
}

func TestTranscriber_ServerErrorPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	tr := NewTranscriber(TranscriberConfig{APIBase: srv.URL, Model: "whisper-1"}, log.NewNop())

	if got := tr.Transcribe(context.Background(), writeAudioFixture(t)); got != RequestFailedText {
		t.Errorf("Transcribe() = %q, want %q", got, RequestFailedText)
	}
}

func TestTranscriber_UnreachableServerPlaceholder(t *testing.T) {
	tr := NewTranscriber(TranscriberConfig{APIBase: "http://127.0.0.1:1", Model: "whisper-1"}, log.NewNop())

	if got := tr.Transcribe(context.Background(), writeAudioFixture(t)); got != RequestFailedText {
		t.Errorf("Transcribe() = %q, want %q", got, RequestFailedText)
	}
}

// recordingPlayer captures the path handed to Play.
type recordingPlayer struct {
	played []string
	err    error
}

func (p *recordingPlayer) Play(_ context.Context, path string) error {
	p.played = append(p.played, path)
	return p.err
}

func TestSpeaker_Say(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		io.WriteString(w, "ID3 fake mp3 bytes")
	}))
	defer srv.Close()

	player := &recordingPlayer{}
	sp := NewSpeaker(SpeakerConfig{
		APIBase: srv.URL,
		APIKey:  "sk-test",
		Model:   "tts-1",
		Voice:   "alloy",
	}, player, log.NewNop())
	sp.outPath = filepath.Join(t.TempDir(), "answer.mp3")

	if err := sp.Say(context.Background(), "We sell chairs."); err != nil {
		t.Fatalf("Say() error = %v", err)
	}

	if gotBody["model"] != "tts-1" || gotBody["voice"] != "alloy" || gotBody["input"] != "We sell chairs." {
		t.Errorf("request body = %v", gotBody)
	}
	if len(player.played) != 1 || player.played[0] != sp.outPath {
		t.Errorf("played = %v, want [%s]", player.played, sp.outPath)
	}
	data, err := os.ReadFile(sp.outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "ID3 fake mp3 bytes" {
		t.Errorf("audio file content = %q", data)
	}
}

func TestSpeaker_ReplacesPreviousAnswer(t *testing.T) {
	response := "first"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, response)
	}))
	defer srv.Close()

	sp := NewSpeaker(SpeakerConfig{APIBase: srv.URL}, &recordingPlayer{}, log.NewNop())
	sp.outPath = filepath.Join(t.TempDir(), "answer.mp3")

	if _, err := sp.Synthesize(context.Background(), "one"); err != nil {
		t.Fatal(err)
	}
	response = "second"
	if _, err := sp.Synthesize(context.Background(), "two"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(sp.outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("audio file content = %q, want %q", data, "second")
	}
}

func TestSpeaker_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	player := &recordingPlayer{}
	sp := NewSpeaker(SpeakerConfig{APIBase: srv.URL}, player, log.NewNop())
	sp.outPath = filepath.Join(t.TempDir(), "answer.mp3")

	if err := sp.Say(context.Background(), "text"); err == nil {
		t.Fatal("Say() expected error")
	}
	if len(player.played) != 0 {
		t.Error("failed synthesis must not trigger playback")
	}
}

func TestExecDefaults(t *testing.T) {
	if r := NewExecRecorder(""); r.command != "rec" {
		t.Errorf("default recorder command = %q", r.command)
	}
	if p := NewExecPlayer(""); p.command != "mpg123" {
		t.Errorf("default player command = %q", p.command)
	}
}
