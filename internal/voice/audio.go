package voice

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Recorder captures microphone audio and returns the path of the
// recorded file.
type Recorder interface {
	Record(ctx context.Context) (string, error)
}

// Player plays an audio file and returns when playback finishes.
type Player interface {
	Play(ctx context.Context, path string) error
}

// ExecRecorder records through an external command line tool. The default
// command is sox's "rec", invoked so that recording stops after a couple
// of seconds of silence.
type ExecRecorder struct {
	command string
	dir     string
}

// NewExecRecorder creates a recorder around the given command. An empty
// command defaults to "rec".
func NewExecRecorder(command string) *ExecRecorder {
	if command == "" {
		command = "rec"
	}
	return &ExecRecorder{command: command, dir: os.TempDir()}
}

func (r *ExecRecorder) Record(ctx context.Context) (string, error) {
	path := filepath.Join(r.dir, fmt.Sprintf("vetrina-capture-%d.wav", time.Now().UnixNano()))

	// Stop after two seconds of silence at the tail of the utterance.
	args := []string{"-q", path, "silence", "1", "0.1", "3%", "1", "2.0", "3%"}
	cmd := exec.CommandContext(ctx, r.command, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("record audio with %s: %w (%s)", r.command, err, out)
	}
	return path, nil
}

// ExecPlayer plays audio through an external command line tool, "mpg123"
// by default.
type ExecPlayer struct {
	command string
}

// NewExecPlayer creates a player around the given command. An empty
// command defaults to "mpg123".
func NewExecPlayer(command string) *ExecPlayer {
	if command == "" {
		command = "mpg123"
	}
	return &ExecPlayer{command: command}
}

func (p *ExecPlayer) Play(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, p.command, "-q", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("play audio with %s: %w (%s)", p.command, err, out)
	}
	return nil
}
