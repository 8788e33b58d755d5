// Package input turns terminal key events into the per-frame input the battle core reads.
package input

import "github.com/samdwyer/skirmish/internal/geom"

// State is the input observed for one frame. The button fields are edge-triggered:
// they are true only on the frame the key was pressed.
type State struct {
	Confirm  bool
	Cancel   bool
	Next     bool
	Previous bool
	Move     geom.Vec2 // magnitude in [0, 1]
}

// Idle reports whether the frame carries no input at all.
func (s State) Idle() bool {
	return !s.Confirm && !s.Cancel && !s.Next && !s.Previous && s.Move.Len() == 0
}
