package reaction

import (
	"time"

	"github.com/ayusman/mudra/internal/anim"
)

// trackMouth counts rising edges of the mouth-open signal and reports
// whether this frame completes the pattern. The counter empties when more
// than MouthCountWindow passes without a new edge, and edges older than the
// window are dropped before a new one is counted. Edges are not counted
// while the composite event is already running.
func (s *State) trackMouth(sig Signals, now time.Time) bool {
	if s.MouthCount > 0 && now.Sub(s.MouthWindowStart()) > MouthCountWindow {
		s.clearMouth()
	}

	if !sig.HasFace {
		return false
	}

	rising := sig.MouthOpen && !s.LastMouthOpen
	s.LastMouthOpen = sig.MouthOpen
	if !rising || s.CompositeActive {
		return false
	}

	s.pruneMouth(now)
	s.MouthEdges[s.MouthCount] = now
	s.MouthCount++

	if s.MouthCount < MouthOpenTarget {
		return false
	}
	s.clearMouth()
	return true
}

// pruneMouth drops counted edges that fall outside the window ending at now.
func (s *State) pruneMouth(now time.Time) {
	keep := 0
	for i := 0; i < s.MouthCount; i++ {
		if now.Sub(s.MouthEdges[i]) <= MouthCountWindow {
			s.MouthEdges[keep] = s.MouthEdges[i]
			keep++
		}
	}
	for i := keep; i < len(s.MouthEdges); i++ {
		s.MouthEdges[i] = time.Time{}
	}
	s.MouthCount = keep
}

func (s *State) clearMouth() {
	s.MouthEdges = [MouthOpenTarget]time.Time{}
	s.MouthCount = 0
}

// startComposite activates the timed composite overlay from frame zero.
func (s *State) startComposite(now time.Time) {
	s.CompositeActive = true
	s.CompositeStart = now
	s.CompositeCursor = anim.Cursor{}
}

// expireComposite ends the composite overlay once it has run longer than
// CompositeDuration.
func (s *State) expireComposite(now time.Time) {
	if s.CompositeActive && now.Sub(s.CompositeStart) > CompositeDuration {
		s.CompositeActive = false
		s.CompositeStart = time.Time{}
		s.CompositeCursor = anim.Cursor{}
	}
}
