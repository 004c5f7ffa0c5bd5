package reaction

import (
	"encoding/json"
	"fmt"

	"github.com/ayusman/mudra/internal/gesture"
)

// Kind names what the display shows.
type Kind int

const (
	KindNeutral Kind = iota
	KindExpression
	KindClasped
	KindThumbsUp
	KindSalute
	KindComposite
)

var kindNames = [...]string{
	KindNeutral:    "neutral",
	KindExpression: "expression",
	KindClasped:    "clasped",
	KindThumbsUp:   "thumbs_up",
	KindSalute:     "salute",
	KindComposite:  "composite",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Animated reports whether the kind plays an animation.
func (k Kind) Animated() bool {
	return k == KindThumbsUp || k == KindComposite
}

// Display is the single output state for a frame. Expression is set only
// for KindExpression and Frame only for animated kinds.
type Display struct {
	Kind       Kind
	Expression gesture.Expression
	Frame      int
}

// Same reports whether d and o show the same asset, ignoring the
// animation frame.
func (d Display) Same(o Display) bool {
	return d.Kind == o.Kind && d.Expression == o.Expression
}

func (d Display) String() string {
	switch {
	case d.Kind == KindExpression:
		return fmt.Sprintf("%s(%s)", d.Kind, d.Expression)
	case d.Kind.Animated():
		return fmt.Sprintf("%s(%d)", d.Kind, d.Frame)
	default:
		return d.Kind.String()
	}
}

// MarshalJSON encodes the display for the HTTP and MQTT surfaces.
func (d Display) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind       string `json:"kind"`
		Expression string `json:"expression,omitempty"`
		Frame      *int   `json:"frame,omitempty"`
	}{Kind: d.Kind.String()}

	if d.Kind == KindExpression {
		out.Expression = d.Expression.String()
	}
	if d.Kind.Animated() {
		frame := d.Frame
		out.Frame = &frame
	}
	return json.Marshal(out)
}
