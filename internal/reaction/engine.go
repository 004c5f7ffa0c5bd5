package reaction

import (
	"time"

	"github.com/ayusman/mudra/internal/anim"
	"github.com/ayusman/mudra/internal/detector"
)

// Config describes the collaborators available to the engine.
type Config struct {
	// CompositeEnabled turns on the mouth pattern. It must be false when
	// either the composite animation or the audio cue is unavailable.
	CompositeEnabled bool

	ThumbsUpFrames  int
	CompositeFrames int

	// FrameDuration is the per-frame time of both animations.
	FrameDuration time.Duration
}

// DefaultConfig returns a Config with the composite pattern disabled and
// single-frame animations.
func DefaultConfig() Config {
	return Config{
		ThumbsUpFrames:  1,
		CompositeFrames: 1,
		FrameDuration:   anim.FrameDuration,
	}
}

// Output is the engine's decision for one frame.
type Output struct {
	Display Display

	// PlayCue is set on the single frame where the composite event fires.
	PlayCue bool

	Signals Signals
}

// Engine owns the detection state and advances it one frame at a time.
// It is not safe for concurrent use; the frame loop is its only caller.
type Engine struct {
	cfg   Config
	state State
}

// NewEngine creates an Engine with empty state.
func NewEngine(cfg Config) *Engine {
	if cfg.FrameDuration <= 0 {
		cfg.FrameDuration = anim.FrameDuration
	}
	return &Engine{cfg: cfg}
}

// Step processes one frame observed at now.
func (e *Engine) Step(r detector.Result, now time.Time) Output {
	sig := Observe(r)
	cue := e.state.update(sig, now, e.cfg)

	display, next := Select(e.state, sig, now, e.cfg)
	e.state = next

	return Output{Display: display, PlayCue: cue, Signals: sig}
}

// State returns a copy of the current detection state.
func (e *Engine) State() State {
	return e.state
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// update runs the debouncers and the pattern detector for one frame and
// reports whether the audio cue should play.
func (s *State) update(sig Signals, now time.Time, cfg Config) bool {
	// Expire first so an edge on the expiry frame is counted.
	s.expireComposite(now)
	fired := false
	if cfg.CompositeEnabled && s.trackMouth(sig, now) {
		s.startComposite(now)
		fired = true
	}

	s.trackGesture(sig.Gesture, now)
	s.trackClasp(sig)
	s.resetIdleCursors(now)

	return fired
}
