package reaction

import (
	"time"

	"github.com/ayusman/mudra/internal/anim"
	"github.com/ayusman/mudra/internal/gesture"
)

// Select picks the display for one frame. It is pure: the returned State
// differs from s only in the animation cursor it advanced, and calling it
// twice with the same arguments gives the same result.
//
// Priority, first match wins:
//  1. composite overlay active
//  2. confirmed held gesture (salute, then thumbs up)
//  3. clasped-hands streak at threshold
//  4. face expression
//  5. neutral
func Select(s State, sig Signals, now time.Time, cfg Config) (Display, State) {
	if s.CompositeActive {
		frame, c := anim.Advance(s.CompositeCursor, now, cfg.CompositeFrames, cfg.FrameDuration)
		s.CompositeCursor = c
		return Display{Kind: KindComposite, Frame: frame}, s
	}

	switch s.Held(now) {
	case gesture.Salute:
		return Display{Kind: KindSalute}, s
	case gesture.ThumbsUp:
		frame, c := anim.Advance(s.ThumbsCursor, now, cfg.ThumbsUpFrames, cfg.FrameDuration)
		s.ThumbsCursor = c
		return Display{Kind: KindThumbsUp, Frame: frame}, s
	}

	switch {
	case s.ClaspedStreak >= ClaspedFrames:
		return Display{Kind: KindClasped}, s
	case sig.HasFace:
		return Display{Kind: KindExpression, Expression: sig.Expression}, s
	default:
		return Display{Kind: KindNeutral}, s
	}
}
