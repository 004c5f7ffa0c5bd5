// Package anim maps elapsed wall-clock time to frame indices of looping
// animations.
package anim

import "time"

// FrameDuration is how long each animation frame stays on screen (~30 fps).
const FrameDuration = 33 * time.Millisecond

// Cursor tracks playback of one animation. The zero value is a cursor that
// has not started; the first Advance after a Reset pins the start time.
type Cursor struct {
	start   time.Time
	started bool
}

// Started reports whether the cursor has a start time.
func (c Cursor) Started() bool {
	return c.started
}

// Start returns the time of the first frame, or the zero time when the
// cursor has not started.
func (c Cursor) Start() time.Time {
	return c.start
}

// Advance returns the frame to show at now and the cursor to keep. frames
// is the animation length; a non-positive length always yields frame 0.
// frameDur defaults to FrameDuration when zero.
func Advance(c Cursor, now time.Time, frames int, frameDur time.Duration) (int, Cursor) {
	if !c.started {
		c = Cursor{start: now, started: true}
	}
	return Index(c.start, now, frames, frameDur), c
}

// Index is floor((now - start) / frameDur) mod frames. Times before start
// map to frame 0.
func Index(start, now time.Time, frames int, frameDur time.Duration) int {
	if frames <= 0 {
		return 0
	}
	if frameDur <= 0 {
		frameDur = FrameDuration
	}

	elapsed := now.Sub(start)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed/frameDur) % frames
}
