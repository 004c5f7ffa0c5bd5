package reaction

import (
	"time"

	"github.com/ayusman/mudra/internal/anim"
	"github.com/ayusman/mudra/internal/gesture"
)

// trackGesture keeps the held-gesture candidate. A different special gesture
// restarts the hold timer; no special gesture clears it.
func (s *State) trackGesture(detected gesture.Class, now time.Time) {
	if !detected.Special() {
		s.Candidate = gesture.None
		s.CandidateSince = time.Time{}
		return
	}
	if s.Candidate != detected {
		s.Candidate = detected
		s.CandidateSince = now
	}
}

// trackClasp advances the clasped-hands streak. A single closed hand extends
// the streak only when the previous frame was clasped or single-closed.
func (s *State) trackClasp(sig Signals) {
	if sig.Clasped || (sig.SingleClosed && s.LastClasped) {
		s.ClaspedStreak++
	} else {
		s.ClaspedStreak = 0
	}
	s.LastClasped = sig.Clasped || sig.SingleClosed
}

// resetIdleCursors rewinds the animation cursors of events that are not
// active at now, so the next activation starts from frame zero.
func (s *State) resetIdleCursors(now time.Time) {
	if s.Held(now) != gesture.ThumbsUp {
		s.ThumbsCursor = anim.Cursor{}
	}
	if !s.CompositeActive {
		s.CompositeCursor = anim.Cursor{}
	}
}
