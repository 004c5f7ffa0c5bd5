package reaction

import "time"

// Snapshot is an immutable copy of one frame's outcome handed to side
// channels. Sinks never see or touch the engine state.
type Snapshot struct {
	Seq     uint64    `json:"seq"`
	Time    time.Time `json:"time"`
	Display Display   `json:"display"`
	Cue     bool      `json:"cue,omitempty"`
	Signals Signals   `json:"signals"`
}

// Changed reports whether the display asset differs from prev.
func (s Snapshot) Changed(prev Snapshot) bool {
	return !s.Display.Same(prev.Display)
}

// Sink consumes snapshots. Publish is called from the frame loop and must
// not block.
type Sink interface {
	Publish(Snapshot)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Snapshot)

// Publish calls f(s).
func (f SinkFunc) Publish(s Snapshot) { f(s) }
