package reaction

import (
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func testConfig() Config {
	return Config{
		CompositeEnabled: true,
		ThumbsUpFrames:   5,
		CompositeFrames:  10,
		FrameDuration:    33 * time.Millisecond,
	}
}

func withHands(face *detector.FaceLandmarks, hands ...detector.HandLandmarks) detector.Result {
	return detector.Result{Face: face, Hands: hands}
}

func claspedHands() []detector.HandLandmarks {
	fist := detector.FistLandmarks()
	return []detector.HandLandmarks{
		detector.HandAt(fist, 0.45, 0.75),
		detector.HandAt(fist, 0.55, 0.75),
	}
}

func TestObserve(t *testing.T) {
	t.Run("empty frame", func(t *testing.T) {
		sig := Observe(detector.Result{})
		if sig.HasFace || sig.Hands != 0 || sig.Gesture != gesture.None || sig.Clasped || sig.SingleClosed {
			t.Errorf("unexpected signals for empty frame: %+v", sig)
		}
	})

	t.Run("thumbs up and open palm", func(t *testing.T) {
		sig := Observe(withHands(nil, detector.ThumbsUpLandmarks(), detector.OpenPalmLandmarks()))
		if sig.Gesture != gesture.ThumbsUp {
			t.Errorf("Gesture = %v, want thumbs_up", sig.Gesture)
		}
		if sig.OpenHands != 1 {
			t.Errorf("OpenHands = %d, want 1", sig.OpenHands)
		}
	})

	t.Run("later special hand wins", func(t *testing.T) {
		sig := Observe(withHands(nil, detector.SaluteLandmarks(), detector.ThumbsUpLandmarks()))
		if sig.Gesture != gesture.ThumbsUp {
			t.Errorf("Gesture = %v, want thumbs_up", sig.Gesture)
		}
	})

	t.Run("open hand suppresses angry", func(t *testing.T) {
		sig := Observe(withHands(detector.AngryFace(), detector.OpenPalmLandmarks()))
		if sig.Expression != gesture.Neutral {
			t.Errorf("Expression = %v, want neutral", sig.Expression)
		}

		sig = Observe(withHands(detector.AngryFace(), detector.FistLandmarks()))
		if sig.Expression != gesture.Angry {
			t.Errorf("Expression = %v, want angry", sig.Expression)
		}
	})

	t.Run("single closed hand", func(t *testing.T) {
		sig := Observe(withHands(nil, detector.FistLandmarks()))
		if !sig.SingleClosed {
			t.Error("one fist should be single-closed")
		}
		sig = Observe(withHands(nil, detector.OpenPalmLandmarks()))
		if sig.SingleClosed {
			t.Error("one open palm should not be single-closed")
		}
	})
}

func TestEngine_GestureHold(t *testing.T) {
	t.Run("thumbs up released before hold time never confirms", func(t *testing.T) {
		e := NewEngine(testConfig())
		thumbs := withHands(nil, detector.ThumbsUpLandmarks())
		salute := withHands(nil, detector.SaluteLandmarks())

		for ms := 0; ms <= 490; ms += 35 {
			if out := e.Step(thumbs, at(ms)); out.Display.Kind == KindThumbsUp {
				t.Fatalf("thumbs up confirmed at %dms", ms)
			}
		}
		for ms := 525; ms <= 1500; ms += 35 {
			out := e.Step(salute, at(ms))
			if out.Display.Kind == KindThumbsUp {
				t.Fatalf("thumbs up shown at %dms after switching to salute", ms)
			}
		}
	})

	t.Run("thumbs up held for hold time confirms", func(t *testing.T) {
		e := NewEngine(testConfig())
		thumbs := withHands(nil, detector.ThumbsUpLandmarks())

		var out Output
		for ms := 0; ms < 500; ms += 100 {
			out = e.Step(thumbs, at(ms))
			if out.Display.Kind != KindNeutral {
				t.Fatalf("at %dms display = %v, want neutral while unconfirmed", ms, out.Display)
			}
		}

		out = e.Step(thumbs, at(500))
		if out.Display.Kind != KindThumbsUp || out.Display.Frame != 0 {
			t.Fatalf("at 500ms display = %v, want thumbs_up(0)", out.Display)
		}

		out = e.Step(thumbs, at(566))
		if out.Display.Kind != KindThumbsUp || out.Display.Frame != 2 {
			t.Errorf("at 566ms display = %v, want thumbs_up(2)", out.Display)
		}
	})

	t.Run("unconfirmed gesture falls through to expression", func(t *testing.T) {
		e := NewEngine(testConfig())
		out := e.Step(withHands(detector.SmilingFace(), detector.SaluteLandmarks()), at(0))
		want := Display{Kind: KindExpression, Expression: gesture.Smile}
		if out.Display != want {
			t.Errorf("display = %v, want %v", out.Display, want)
		}
	})

	t.Run("salute confirms to static image", func(t *testing.T) {
		e := NewEngine(testConfig())
		salute := withHands(detector.SmilingFace(), detector.SaluteLandmarks())
		e.Step(salute, at(0))
		out := e.Step(salute, at(600))
		if out.Display.Kind != KindSalute {
			t.Errorf("display = %v, want salute", out.Display)
		}
	})

	t.Run("switching gesture restarts the timer", func(t *testing.T) {
		e := NewEngine(testConfig())
		e.Step(withHands(nil, detector.SaluteLandmarks()), at(0))
		e.Step(withHands(nil, detector.ThumbsUpLandmarks()), at(400))

		out := e.Step(withHands(nil, detector.ThumbsUpLandmarks()), at(800))
		if out.Display.Kind == KindThumbsUp {
			t.Fatal("thumbs up confirmed 400ms after switching")
		}
		out = e.Step(withHands(nil, detector.ThumbsUpLandmarks()), at(900))
		if out.Display.Kind != KindThumbsUp {
			t.Errorf("display = %v, want thumbs_up 500ms after switching", out.Display)
		}
	})

	t.Run("thumbs animation restarts after release", func(t *testing.T) {
		e := NewEngine(testConfig())
		thumbs := withHands(nil, detector.ThumbsUpLandmarks())

		e.Step(thumbs, at(0))
		e.Step(thumbs, at(500))
		if out := e.Step(thumbs, at(600)); out.Display.Frame != 3 {
			t.Fatalf("frame = %d, want 3", out.Display.Frame)
		}

		e.Step(detector.Result{}, at(700))
		if e.State().ThumbsCursor.Started() {
			t.Fatal("thumbs cursor should reset when the gesture is released")
		}

		e.Step(thumbs, at(800))
		out := e.Step(thumbs, at(1300))
		if out.Display.Kind != KindThumbsUp || out.Display.Frame != 0 {
			t.Errorf("display = %v, want thumbs_up(0) after re-hold", out.Display)
		}
	})
}

func TestEngine_ClaspedStreak(t *testing.T) {
	clasped := withHands(detector.NeutralFace(), claspedHands()...)

	t.Run("three clasped frames activate", func(t *testing.T) {
		e := NewEngine(testConfig())
		for i := 0; i < 2; i++ {
			if out := e.Step(clasped, at(i*33)); out.Display.Kind == KindClasped {
				t.Fatalf("clasped after %d frames", i+1)
			}
		}
		out := e.Step(clasped, at(66))
		if out.Display.Kind != KindClasped {
			t.Errorf("display = %v, want clasped", out.Display)
		}
	})

	t.Run("broken streak resets", func(t *testing.T) {
		e := NewEngine(testConfig())
		e.Step(clasped, at(0))
		e.Step(clasped, at(33))
		if got := e.State().ClaspedStreak; got != 2 {
			t.Fatalf("streak = %d, want 2", got)
		}

		e.Step(withHands(detector.NeutralFace(), detector.OpenPalmLandmarks()), at(66))
		if got := e.State().ClaspedStreak; got != 0 {
			t.Fatalf("streak = %d, want 0 after open hand", got)
		}

		out := e.Step(clasped, at(99))
		if out.Display.Kind == KindClasped {
			t.Error("streak should restart from zero")
		}
	})

	t.Run("single closed hand carries streak", func(t *testing.T) {
		e := NewEngine(testConfig())
		e.Step(clasped, at(0))
		e.Step(clasped, at(33))
		out := e.Step(withHands(nil, detector.FistLandmarks()), at(66))
		if out.Display.Kind != KindClasped {
			t.Errorf("display = %v, want clasped after carry-forward frame", out.Display)
		}
	})

	t.Run("single closed hands alone build a streak", func(t *testing.T) {
		e := NewEngine(testConfig())
		fist := withHands(nil, detector.FistLandmarks())

		wantStreak := []int{0, 1, 2, 3}
		for i, want := range wantStreak {
			e.Step(fist, at(i*33))
			if got := e.State().ClaspedStreak; got != want {
				t.Fatalf("frame %d: streak = %d, want %d", i, got, want)
			}
		}
	})

	t.Run("no hands resets", func(t *testing.T) {
		e := NewEngine(testConfig())
		e.Step(clasped, at(0))
		e.Step(clasped, at(33))
		e.Step(clasped, at(66))
		out := e.Step(detector.Result{}, at(99))
		if out.Display.Kind != KindNeutral {
			t.Errorf("display = %v, want neutral", out.Display)
		}
	})
}

// mouthFrames feeds alternating open and closed faces so that every open
// time in edges produces one rising edge.
func mouthFrames(e *Engine, edges []int) (cues int) {
	for _, ms := range edges {
		if e.Step(withHands(detector.NeutralFace()), at(ms-100)).PlayCue {
			cues++
		}
		if e.Step(withHands(detector.OpenMouthFace()), at(ms)).PlayCue {
			cues++
		}
	}
	return cues
}

func TestEngine_MouthPattern(t *testing.T) {
	t.Run("three edges in window trigger composite for four seconds", func(t *testing.T) {
		e := NewEngine(testConfig())

		if cues := mouthFrames(e, []int{100, 600}); cues != 0 {
			t.Fatalf("cue fired after two edges")
		}
		if got := e.State().MouthCount; got != 2 {
			t.Fatalf("MouthCount = %d, want 2", got)
		}

		e.Step(withHands(detector.NeutralFace()), at(1000))
		out := e.Step(withHands(detector.OpenMouthFace()), at(1100))
		if !out.PlayCue {
			t.Fatal("third edge should fire the cue")
		}
		if out.Display.Kind != KindComposite || out.Display.Frame != 0 {
			t.Fatalf("display = %v, want composite(0)", out.Display)
		}
		if got := e.State().MouthCount; got != 0 {
			t.Errorf("MouthCount = %d, want 0 after trigger", got)
		}

		cues := 0
		for ms := 1200; ms <= 5100; ms += 100 {
			face := detector.NeutralFace()
			if (ms/100)%2 == 0 {
				face = detector.OpenMouthFace()
			}
			out = e.Step(withHands(face), at(ms))
			if out.PlayCue {
				cues++
			}
			if out.Display.Kind != KindComposite {
				t.Fatalf("at %dms display = %v, want composite", ms, out.Display)
			}
		}
		if cues != 0 {
			t.Errorf("cue re-fired %d times while composite active", cues)
		}

		out = e.Step(withHands(detector.SmilingFace()), at(5133))
		if out.Display.Kind != KindExpression || out.Display.Expression != gesture.Smile {
			t.Errorf("display = %v, want expression(smile) after composite", out.Display)
		}
		st := e.State()
		if st.CompositeActive || st.CompositeCursor.Started() {
			t.Error("composite should be inactive with its cursor reset")
		}
	})

	t.Run("edge on the expiry frame counts toward the next pattern", func(t *testing.T) {
		e := NewEngine(testConfig())
		if cues := mouthFrames(e, []int{100, 600, 1100}); cues != 1 {
			t.Fatalf("cues = %d, want 1", cues)
		}

		out := e.Step(withHands(detector.NeutralFace()), at(5000))
		if out.Display.Kind != KindComposite {
			t.Fatalf("at 5000ms display = %v, want composite", out.Display)
		}

		out = e.Step(withHands(detector.OpenMouthFace()), at(5200))
		if out.Display.Kind == KindComposite {
			t.Fatalf("at 5200ms display = %v, want composite expired", out.Display)
		}
		if got := e.State().MouthCount; got != 1 {
			t.Fatalf("MouthCount = %d, want 1 for the edge on the expiry frame", got)
		}

		if cues := mouthFrames(e, []int{5500, 5900}); cues != 1 {
			t.Errorf("cues = %d, want 1 after two more edges", cues)
		}
	})

	t.Run("composite frames advance with the clock", func(t *testing.T) {
		e := NewEngine(testConfig())
		mouthFrames(e, []int{100, 300, 500})

		tests := []struct {
			ms   int
			want int
		}{
			{ms: 600, want: 3},
			{ms: 850, want: 0},
			{ms: 880, want: 1},
		}
		for _, tt := range tests {
			out := e.Step(withHands(detector.NeutralFace()), at(tt.ms))
			if out.Display.Frame != tt.want {
				t.Errorf("at %dms frame = %d, want %d", tt.ms, out.Display.Frame, tt.want)
			}
		}
	})

	t.Run("edges spread past the window do not trigger", func(t *testing.T) {
		e := NewEngine(testConfig())

		if cues := mouthFrames(e, []int{1000, 2000, 3100}); cues != 0 {
			t.Fatalf("cue fired for edges outside the window")
		}
		if got := e.State().MouthCount; got >= MouthOpenTarget {
			t.Fatalf("MouthCount = %d, want below target", got)
		}

		e.Step(withHands(detector.NeutralFace()), at(5200))
		if got := e.State().MouthCount; got != 0 {
			t.Errorf("MouthCount = %d, want 0 after the gap", got)
		}
	})

	t.Run("gap longer than window resets the counter", func(t *testing.T) {
		e := NewEngine(testConfig())
		mouthFrames(e, []int{100, 600})
		e.Step(withHands(nil), at(2700))
		if got := e.State().MouthCount; got != 0 {
			t.Errorf("MouthCount = %d, want 0", got)
		}
	})

	t.Run("held open mouth counts once", func(t *testing.T) {
		e := NewEngine(testConfig())
		for ms := 0; ms < 1000; ms += 33 {
			e.Step(withHands(detector.OpenMouthFace()), at(ms))
		}
		if got := e.State().MouthCount; got != 1 {
			t.Errorf("MouthCount = %d, want 1", got)
		}
	})

	t.Run("disabled composite never triggers", func(t *testing.T) {
		cfg := testConfig()
		cfg.CompositeEnabled = false
		e := NewEngine(cfg)

		if cues := mouthFrames(e, []int{100, 300, 500, 700}); cues != 0 {
			t.Errorf("cue fired %d times with composite disabled", cues)
		}
		if e.State().CompositeActive {
			t.Error("composite should stay inactive when disabled")
		}
	})

	t.Run("composite outranks a held gesture", func(t *testing.T) {
		e := NewEngine(testConfig())
		thumbs := detector.ThumbsUpLandmarks()

		for i, ms := range []int{0, 200, 400, 600, 800} {
			face := detector.NeutralFace()
			if i%2 == 0 {
				face = detector.OpenMouthFace()
			}
			out := e.Step(withHands(face, thumbs), at(ms))
			if i == 4 && out.Display.Kind != KindComposite {
				t.Errorf("display = %v, want composite", out.Display)
			}
		}
	})
}

func TestSelect_Idempotent(t *testing.T) {
	e := NewEngine(testConfig())
	thumbs := withHands(detector.SmilingFace(), detector.ThumbsUpLandmarks())
	e.Step(thumbs, at(0))
	e.Step(thumbs, at(500))

	st := e.State()
	sig := Observe(thumbs)
	now := at(700)

	d1, s1 := Select(st, sig, now, e.Config())
	d2, s2 := Select(st, sig, now, e.Config())
	if d1 != d2 || s1 != s2 {
		t.Errorf("Select not idempotent: %v vs %v", d1, d2)
	}
	if st != e.State() {
		t.Error("Select mutated the engine state")
	}
}

func TestSelect_Priority(t *testing.T) {
	cfg := testConfig()
	now := at(10_000)

	tests := []struct {
		name  string
		state State
		sig   Signals
		want  Kind
	}{
		{
			name:  "composite beats everything",
			state: State{CompositeActive: true, CompositeStart: now, Candidate: gesture.Salute, ClaspedStreak: 5},
			sig:   Signals{HasFace: true},
			want:  KindComposite,
		},
		{
			name:  "held salute beats clasped",
			state: State{Candidate: gesture.Salute, CandidateSince: at(0), ClaspedStreak: 5},
			sig:   Signals{HasFace: true},
			want:  KindSalute,
		},
		{
			name:  "held thumbs up",
			state: State{Candidate: gesture.ThumbsUp, CandidateSince: at(0)},
			want:  KindThumbsUp,
		},
		{
			name:  "unconfirmed gesture falls to clasped",
			state: State{Candidate: gesture.Salute, CandidateSince: now, ClaspedStreak: 3},
			want:  KindClasped,
		},
		{
			name:  "face expression",
			state: State{ClaspedStreak: 2},
			sig:   Signals{HasFace: true, Expression: gesture.Sad},
			want:  KindExpression,
		},
		{
			name: "nothing",
			want: KindNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Select(tt.state, tt.sig, now, cfg)
			if got.Kind != tt.want {
				t.Errorf("Select() kind = %v, want %v", got.Kind, tt.want)
			}
		})
	}
}
