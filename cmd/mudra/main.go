package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/assets"
	"github.com/ayusman/mudra/internal/audio"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/log"
	"github.com/ayusman/mudra/internal/notify"
	"github.com/ayusman/mudra/internal/render"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	if err := run(); err != nil {
		log.Error("mudra stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.Init(cfg.LogLevel)
	logger := log.With("run_id", uuid.New().String())

	st, err := store.New(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	if cfg, err = cfg.Merge(st.Settings(), store.IsNotFound); err != nil {
		return fmt.Errorf("load stored settings: %w", err)
	}
	if cfg.AssetDir == "" {
		cfg.AssetDir = findAssetDir(cfg.DataDir)
	}
	logger.Info("starting", "camera", cfg.CameraID, "assets", cfg.AssetDir, "db", st.Path())

	lib := assets.Load(cfg.AssetDir)
	defer lib.Close()
	for _, err := range lib.Missing() {
		logger.Warn("asset missing", "error", err)
	}

	player := newPlayer(lib, cfg.AudioPlayer, logger)
	if player != nil {
		defer waitCue(player, cueDrainTimeout, logger)
	}

	det := newDetector(logger)
	defer det.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCfg := app.Config{
		Camera:   capture.NewWebcam(capture.Options{DeviceID: cfg.CameraID, FPS: cfg.CameraFPS}),
		Detector: det,
		Assets:   lib,
		Mirror:   cfg.Mirror,
		Logger:   logger,
	}
	if player != nil {
		appCfg.Player = player
	}

	// highgui and the tray both want the main thread.
	if cfg.Window && cfg.Tray {
		logger.Warn("windows disabled while the tray is enabled")
		cfg.Window = false
	}
	if cfg.Window {
		windows := render.NewWindows()
		defer windows.Close()
		appCfg.Presenter = windows
	}

	a := app.New(appCfg)
	if !a.EngineConfig().CompositeEnabled {
		logger.Warn("composite pattern disabled", "reason", "animation or audio cue unavailable")
	}

	if cfg.HTTPAddr != "" {
		srv := server.New(server.Config{StaticDir: cfg.StaticDir, Store: st, State: a})
		a.AddSink(srv.Events())
		a.AddFrameSink(srv.Stream())
		go func() {
			logger.Info("http server listening", "addr", cfg.HTTPAddr)
			if err := srv.ListenAndServe(ctx, cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server failed", "error", err)
			}
		}()
	}

	if cfg.MQTTBroker != "" {
		pub, err := notify.Dial(cfg.MQTTBroker, cfg.MQTTTopic)
		if err != nil {
			logger.Warn("mqtt disabled", "error", err)
		} else {
			defer pub.Close()
			a.AddSink(pub)
		}
	}

	if !cfg.Tray {
		return a.Run(ctx)
	}

	t := tray.New()
	a.AddSink(t)
	t.OnToggle(func(enabled bool) { a.SetPaused(!enabled) })
	t.OnQuit(stop)
	if cfg.HTTPAddr != "" {
		t.OnDashboard(func() { openBrowser(dashboardURL(cfg.HTTPAddr), logger) })
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run(ctx)
		t.Quit()
	}()
	t.Run()
	stop()
	return <-errCh
}

// cueDrainTimeout bounds how long shutdown waits for a cue still playing.
const cueDrainTimeout = 5 * time.Second

// newPlayer returns nil when the cue cannot be played.
func newPlayer(lib *assets.Library, command string, logger *slog.Logger) audio.Cue {
	path, err := lib.CuePath()
	if err != nil {
		return nil
	}
	cue, err := audio.Open(path, command, logger)
	if err != nil {
		logger.Warn("audio cue unavailable", "error", err)
		return nil
	}
	return cue
}

// waitCue lets an in-flight cue finish before the process exits.
func waitCue(cue audio.Cue, timeout time.Duration, logger *slog.Logger) {
	done := make(chan error, 1)
	go func() { done <- cue.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			logger.Debug("last cue playback", "error", err)
		}
	case <-time.After(timeout):
		logger.Warn("cue still playing at shutdown", "timeout", timeout)
	}
}

// newDetector prefers the MediaPipe bridge and falls back to a detector
// that never finds anything.
func newDetector(logger *slog.Logger) detector.Detector {
	mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig())
	if err == nil {
		logger.Info("using MediaPipe landmark detection")
		return mp
	}
	logger.Warn("MediaPipe not available, using mock detector", "error", err)
	return detector.NewMockDetector()
}

// findAssetDir searches "assets", "../assets" and <dataDir>/assets.
// Returns "assets" when none exists so missing files are reported against it.
func findAssetDir(dataDir string) string {
	candidates := []string{"assets", "../assets", filepath.Join(dataDir, "assets")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return "assets"
}

func dashboardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/api/state"
}

func openBrowser(url string, logger *slog.Logger) {
	name := "xdg-open"
	if runtime.GOOS == "darwin" {
		name = "open"
	}
	if err := exec.Command(name, url).Start(); err != nil {
		logger.Warn("opening browser", "url", url, "error", err)
	}
}
