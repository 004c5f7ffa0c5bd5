package reaction

import (
	"time"

	"github.com/ayusman/mudra/internal/anim"
	"github.com/ayusman/mudra/internal/gesture"
)

// Timing and count thresholds.
const (
	GestureHoldTime   = 500 * time.Millisecond
	ClaspedFrames     = 3
	MouthCountWindow  = 2 * time.Second
	MouthOpenTarget   = 3
	CompositeDuration = 4 * time.Second
)

// State is everything the engine remembers between frames.
type State struct {
	// Clasped-hands streak.
	ClaspedStreak int
	LastClasped   bool

	// Candidate is the special gesture currently being held and
	// CandidateSince when it was first seen. It is confirmed once held for
	// GestureHoldTime; see Held.
	Candidate      gesture.Class
	CandidateSince time.Time

	// Mouth rising edges inside the rolling window, oldest first.
	MouthEdges    [MouthOpenTarget]time.Time
	MouthCount    int
	LastMouthOpen bool

	CompositeActive bool
	CompositeStart  time.Time

	ThumbsCursor    anim.Cursor
	CompositeCursor anim.Cursor
}

// Held returns the confirmed special gesture at now, or gesture.None while
// the candidate is still inside its hold time.
func (s *State) Held(now time.Time) gesture.Class {
	if !s.Candidate.Special() {
		return gesture.None
	}
	if now.Sub(s.CandidateSince) < GestureHoldTime {
		return gesture.None
	}
	return s.Candidate
}

// MouthWindowStart returns the time of the last counted mouth edge, or the
// zero time when the counter is empty.
func (s *State) MouthWindowStart() time.Time {
	if s.MouthCount == 0 {
		return time.Time{}
	}
	return s.MouthEdges[s.MouthCount-1]
}
