package app

import (
	"context"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/reaction"
	"github.com/ayusman/mudra/internal/render"
)

// Run opens the camera and processes frames until ctx is cancelled, the
// presenter asks to quit, or capture fails. Capture failure is returned
// wrapped; the other exits return nil.
//
// Per frame:
// 1. Read and optionally mirror the frame
// 2. Detect face and hand landmarks
// 3. Step the reaction engine
// 4. Play the cue if the composite fired
// 5. Render, publish and present
func (a *App) Run(ctx context.Context) error {
	cam := a.config.Camera
	if err := cam.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer func() {
		if err := cam.Close(); err != nil {
			a.logger.Warn("closing camera", "error", err)
		}
	}()

	a.logger.Info("frame loop started",
		"composite", a.engine.Config().CompositeEnabled,
		"thumbs_up_frames", a.engine.Config().ThumbsUpFrames,
		"composite_frames", a.engine.Config().CompositeFrames,
	)
	defer a.logger.Info("frame loop stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if a.Paused() {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(PausePoll):
			}
			continue
		}

		frame, err := cam.ReadFrame()
		if err != nil {
			return fmt.Errorf("capture: %w", err)
		}

		quit := a.process(frame)
		frame.Close()

		if quit {
			a.logger.Info("quit requested")
			return nil
		}
	}
}

// process handles one captured frame and reports whether to quit.
func (a *App) process(frame *gocv.Mat) bool {
	if a.config.Mirror {
		capture.Mirror(frame)
	}

	result, err := a.config.Detector.Detect(frame)
	if err != nil {
		// A failed detection is treated as a frame with no landmarks.
		a.logger.Warn("detection failed", "error", err)
		result = detector.Result{}
	}

	now := a.now()
	prevState := a.engine.State()
	out := a.engine.Step(result, now)

	if out.PlayCue {
		a.logger.Info("composite triggered")
		if a.config.Player != nil {
			if err := a.config.Player.Play(); err != nil {
				a.logger.Warn("playing cue", "error", err)
			}
		}
	}
	if st := a.engine.State(); st.MouthCount != prevState.MouthCount && st.MouthCount > 0 {
		a.logger.Debug("mouth open", "count", st.MouthCount, "target", reaction.MouthOpenTarget)
	}

	a.publish(out, now)

	img := a.renderer.Image(out.Display)
	fitted := render.Fit(img, frame.Cols(), frame.Rows())
	defer fitted.Close()

	a.mu.RLock()
	frameSinks := a.frameSinks
	a.mu.RUnlock()
	for _, s := range frameSinks {
		s.PublishFrame(fitted)
	}

	if a.config.Presenter == nil {
		return false
	}
	render.DrawHands(frame, result.Hands)
	return a.config.Presenter.Show(*frame, fitted)
}

// publish records the snapshot for out and fans it out to the sinks.
func (a *App) publish(out reaction.Output, now time.Time) {
	a.mu.Lock()
	a.seq++
	snap := reaction.Snapshot{
		Seq:     a.seq,
		Time:    now,
		Display: out.Display,
		Cue:     out.PlayCue,
		Signals: out.Signals,
	}
	prev := a.latest
	a.latest = snap
	sinks := a.sinks
	a.mu.Unlock()

	if snap.Seq == 1 || snap.Changed(prev) {
		a.logger.Info("display changed", "display", snap.Display.String())
	}

	for _, s := range sinks {
		s.Publish(snap)
	}
}
