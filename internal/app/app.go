// Package app runs the frame loop that ties capture, detection, the
// reaction engine and the output surfaces together.
package app

import (
	"log/slog"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/audio"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/log"
	"github.com/ayusman/mudra/internal/reaction"
	"github.com/ayusman/mudra/internal/render"
)

// PausePoll is how often a paused loop checks for resume or cancellation.
const PausePoll = 100 * time.Millisecond

// Presenter shows the camera view and the reaction image and reports
// whether the user asked to quit.
type Presenter interface {
	Show(camera, expression gocv.Mat) (quit bool)
}

// FrameSink receives the fitted reaction image of every frame. The Mat is
// only valid for the duration of the call.
type FrameSink interface {
	PublishFrame(img gocv.Mat)
}

// Config holds the collaborators of the frame loop.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Assets   render.Library

	// Player is nil when the audio cue is unavailable, which disables the
	// composite pattern.
	Player audio.Player

	// Presenter is optional; without it the loop runs headless.
	Presenter Presenter

	// Mirror flips frames horizontally before detection.
	Mirror bool

	Logger *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// App is the main application that owns the reaction engine.
type App struct {
	config   Config
	engine   *reaction.Engine
	renderer *render.Renderer
	logger   *slog.Logger
	now      func() time.Time

	mu         sync.RWMutex
	paused     bool
	sinks      []reaction.Sink
	frameSinks []FrameSink
	latest     reaction.Snapshot
	seq        uint64
}

// New creates an App. The engine configuration is derived from the assets
// and the audio player.
func New(config Config) *App {
	logger := config.Logger
	if logger == nil {
		logger = log.L()
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &App{
		config:   config,
		engine:   reaction.NewEngine(EngineConfig(config.Assets, config.Player)),
		renderer: render.NewRenderer(config.Assets),
		logger:   logger,
		now:      now,
	}
}

// EngineConfig derives the reaction configuration from the loaded assets.
// The composite pattern needs both its animation and a player.
func EngineConfig(lib render.Library, player audio.Player) reaction.Config {
	cfg := reaction.DefaultConfig()
	cfg.ThumbsUpFrames = len(lib.ThumbsUp())
	cfg.CompositeFrames = len(lib.Composite())
	cfg.CompositeEnabled = cfg.CompositeFrames > 0 && player != nil
	return cfg
}

// AddSink registers a snapshot consumer. Sinks must be added before Run.
func (a *App) AddSink(s reaction.Sink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sinks = append(a.sinks, s)
}

// AddFrameSink registers a consumer of rendered reaction images.
func (a *App) AddFrameSink(s FrameSink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.frameSinks = append(a.frameSinks, s)
}

// SetPaused pauses or resumes frame processing. The camera stays open.
func (a *App) SetPaused(paused bool) {
	a.mu.Lock()
	changed := a.paused != paused
	a.paused = paused
	a.mu.Unlock()

	if changed {
		a.logger.Info("detection toggled", "paused", paused)
	}
}

// Paused reports whether processing is paused.
func (a *App) Paused() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.paused
}

// Latest returns the most recent snapshot.
func (a *App) Latest() reaction.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.latest
}

// EngineConfig returns the configuration the engine runs with.
func (a *App) EngineConfig() reaction.Config {
	return a.engine.Config()
}
