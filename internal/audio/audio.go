// Package audio plays the one-shot cue that accompanies the composite
// reaction.
package audio

import (
	"errors"
	"log/slog"
)

// ErrUnavailable is returned when the cue cannot be loaded or no player can
// run it. Callers disable the composite reaction on this error.
var ErrUnavailable = errors.New("audio unavailable")

// Player plays the cue without blocking the frame loop.
type Player interface {
	Play() error
}

// Cue is a Player whose in-flight playbacks can be awaited on shutdown.
type Cue interface {
	Player
	Wait() error
}

// Open prepares the cue at soundPath. An empty command decodes the file once
// and plays it in-process; otherwise command is run for every playback.
func Open(soundPath, command string, logger *slog.Logger) (Cue, error) {
	if command == "" {
		return NewSpeakerPlayer(soundPath)
	}
	return NewCommandPlayer(soundPath, command, logger)
}
