package anim

import (
	"testing"
	"time"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestIndex(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		frames  int
		want    int
	}{
		{name: "first frame", elapsed: 0, frames: 10, want: 0},
		{name: "just before second frame", elapsed: 32 * time.Millisecond, frames: 10, want: 0},
		{name: "second frame", elapsed: 33 * time.Millisecond, frames: 10, want: 1},
		{name: "wraps at 350ms", elapsed: 350 * time.Millisecond, frames: 10, want: 0},
		{name: "after wrap", elapsed: 400 * time.Millisecond, frames: 10, want: 2},
		{name: "single frame", elapsed: time.Second, frames: 1, want: 0},
		{name: "no frames", elapsed: time.Second, frames: 0, want: 0},
		{name: "before start", elapsed: -time.Second, frames: 10, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Index(t0, t0.Add(tt.elapsed), tt.frames, FrameDuration); got != tt.want {
				t.Errorf("Index() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIndex_DefaultFrameDuration(t *testing.T) {
	if got := Index(t0, t0.Add(66*time.Millisecond), 10, 0); got != 2 {
		t.Errorf("Index() with zero duration = %d, want 2", got)
	}
}

func TestAdvance(t *testing.T) {
	t.Run("first advance pins start", func(t *testing.T) {
		var c Cursor
		if c.Started() {
			t.Fatal("zero cursor should not be started")
		}

		idx, next := Advance(c, t0, 10, FrameDuration)
		if idx != 0 {
			t.Errorf("first frame index = %d, want 0", idx)
		}
		if !next.Started() || !next.Start().Equal(t0) {
			t.Errorf("cursor start = %v (started %v), want %v", next.Start(), next.Started(), t0)
		}
		if c.Started() {
			t.Error("Advance must not mutate its argument")
		}
	})

	t.Run("later advances keep start", func(t *testing.T) {
		_, c := Advance(Cursor{}, t0, 10, FrameDuration)
		idx, next := Advance(c, t0.Add(100*time.Millisecond), 10, FrameDuration)
		if idx != 3 {
			t.Errorf("index = %d, want 3", idx)
		}
		if !next.Start().Equal(t0) {
			t.Errorf("start moved to %v", next.Start())
		}
	})

	t.Run("reset restarts from frame zero", func(t *testing.T) {
		_, c := Advance(Cursor{}, t0, 10, FrameDuration)
		_, c = Advance(c, t0.Add(200*time.Millisecond), 10, FrameDuration)

		c = Cursor{}
		idx, _ := Advance(c, t0.Add(5*time.Second), 10, FrameDuration)
		if idx != 0 {
			t.Errorf("index after reset = %d, want 0", idx)
		}
	})

	t.Run("same inputs same output", func(t *testing.T) {
		_, c := Advance(Cursor{}, t0, 7, FrameDuration)
		now := t0.Add(777 * time.Millisecond)
		a, ca := Advance(c, now, 7, FrameDuration)
		b, cb := Advance(c, now, 7, FrameDuration)
		if a != b || ca != cb {
			t.Errorf("Advance not deterministic: %d/%v vs %d/%v", a, ca, b, cb)
		}
	})
}
