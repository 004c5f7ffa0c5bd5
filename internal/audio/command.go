package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/log"
)

// CommandTimeout bounds a single external playback.
const CommandTimeout = 10 * time.Second

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// CommandPlayer runs a configured external command with the sound file as
// its last argument, e.g. "ffplay -nodisp -autoexit".
type CommandPlayer struct {
	name    string
	args    []string
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup

	mu      sync.Mutex
	lastErr error
}

// NewCommandPlayer resolves command on PATH. A nil logger uses the process
// logger.
func NewCommandPlayer(soundPath, command string, logger *slog.Logger) (*CommandPlayer, error) {
	if _, err := os.Stat(soundPath); err != nil {
		return nil, fmt.Errorf("sound %s: %w", soundPath, ErrUnavailable)
	}

	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty player command: %w", ErrUnavailable)
	}
	path, err := lookPath(fields[0])
	if err != nil {
		return nil, fmt.Errorf("player %q: %w", fields[0], ErrUnavailable)
	}

	if logger == nil {
		logger = log.L()
	}
	return &CommandPlayer{
		name:    path,
		args:    append(fields[1:], soundPath),
		timeout: CommandTimeout,
		logger:  logger,
	}, nil
}

// Play starts the command and returns once the process is running. A
// non-zero exit or a timeout is logged when the process ends.
func (p *CommandPlayer) Play() error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)

	cmd := exec.CommandContext(ctx, p.name, p.args...)
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("start player: %w", err)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer cancel()

		err := cmd.Wait()
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("playback timeout after %s", p.timeout)
		}
		if err != nil {
			p.logger.Warn("cue playback failed", "player", p.name, "error", err)
		}
		p.mu.Lock()
		p.lastErr = err
		p.mu.Unlock()
	}()

	return nil
}

// Wait blocks until every started playback has finished and returns the
// result of the most recent one.
func (p *CommandPlayer) Wait() error {
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}
