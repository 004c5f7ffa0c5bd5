package audio

import (
	"bytes"
	"errors"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func stubLookPath(t *testing.T, available map[string]string) {
	t.Helper()
	orig := lookPath
	lookPath = func(file string) (string, error) {
		if p, ok := available[file]; ok {
			return p, nil
		}
		return "", exec.ErrNotFound
	}
	t.Cleanup(func() { lookPath = orig })
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestNewCommandPlayer(t *testing.T) {
	t.Run("missing sound", func(t *testing.T) {
		_, err := NewCommandPlayer(filepath.Join(t.TempDir(), "none.mp3"), "paplay", nil)
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("error = %v, want ErrUnavailable", err)
		}
	})

	t.Run("player not installed", func(t *testing.T) {
		stubLookPath(t, nil)
		_, err := NewCommandPlayer(writeSound(t, "x"), "vlc --intf dummy", nil)
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("error = %v, want ErrUnavailable", err)
		}
	})

	t.Run("flags kept and sound appended", func(t *testing.T) {
		stubLookPath(t, map[string]string{"ffplay": "/opt/ffplay"})
		sound := writeSound(t, "x")
		p, err := NewCommandPlayer(sound, "ffplay -nodisp -autoexit", nil)
		if err != nil {
			t.Fatalf("NewCommandPlayer() error = %v", err)
		}
		if p.name != "/opt/ffplay" {
			t.Errorf("name = %q, want /opt/ffplay", p.name)
		}
		want := []string{"-nodisp", "-autoexit", sound}
		if strings.Join(p.args, " ") != strings.Join(want, " ") {
			t.Errorf("args = %v, want %v", p.args, want)
		}
	})
}

func TestCommandPlayer_Play(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	logger, logs := bufferLogger()

	p, err := NewCommandPlayer(writeSound(t, "x"), "true", logger)
	if err != nil {
		t.Fatalf("NewCommandPlayer() error = %v", err)
	}
	if err := p.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if err := p.Wait(); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected log output: %s", logs)
	}
}

func TestCommandPlayer_FailureIsLogged(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}
	logger, logs := bufferLogger()

	p, err := NewCommandPlayer(writeSound(t, "x"), "false", logger)
	if err != nil {
		t.Fatalf("NewCommandPlayer() error = %v", err)
	}
	if err := p.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if err := p.Wait(); err == nil {
		t.Error("Wait() should report the non-zero exit")
	}

	out := logs.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "cue playback failed") {
		t.Errorf("log = %q, want a warning for the failed playback", out)
	}
}

func TestCommandPlayer_Timeout(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	logger, logs := bufferLogger()

	p, err := NewCommandPlayer(writeSound(t, "x"), "sleep", logger)
	if err != nil {
		t.Fatalf("NewCommandPlayer() error = %v", err)
	}
	// sleep needs a duration operand rather than the sound file.
	p.args = []string{"5"}
	p.timeout = 50 * time.Millisecond

	if err := p.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if err := p.Wait(); err == nil {
		t.Error("Wait() should report the playback timeout")
	}
	if !strings.Contains(logs.String(), "playback timeout") {
		t.Errorf("log = %q, want the timeout logged", logs)
	}
}
