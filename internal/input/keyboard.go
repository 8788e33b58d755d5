package input

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/skirmish/internal/geom"
)

// DefaultHold is how long a direction stays held after its last key event.
// Terminals report key repeats but never key releases.
const DefaultHold = 150 * time.Millisecond

type direction int

const (
	dirLeft direction = iota
	dirRight
	dirUp
	dirDown
	dirCount
)

var dirVectors = [dirCount]geom.Vec2{
	dirLeft:  geom.V(-1, 0),
	dirRight: geom.V(1, 0),
	dirUp:    geom.V(0, -1),
	dirDown:  geom.V(0, 1),
}

// Keyboard accumulates key events between frames.
type Keyboard struct {
	hold    time.Duration
	edges   State
	held    [dirCount]time.Time
	quit    bool
	pause   bool
	pressed int
}

// NewKeyboard creates a keyboard adapter. A non-positive hold selects DefaultHold.
func NewKeyboard(hold time.Duration) *Keyboard {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Keyboard{hold: hold}
}

// HandleKey records one key event received at the given time.
func (k *Keyboard) HandleKey(ev *tcell.EventKey, at time.Time) {
	k.pressed++

	switch ev.Key() {
	case tcell.KeyCtrlC:
		k.quit = true
	case tcell.KeyEnter:
		k.edges.Confirm = true
	case tcell.KeyEscape, tcell.KeyBackspace, tcell.KeyBackspace2:
		k.edges.Cancel = true
	case tcell.KeyTab:
		k.edges.Next = true
	case tcell.KeyBacktab:
		k.edges.Previous = true
	case tcell.KeyLeft:
		k.press(dirLeft, at)
	case tcell.KeyRight:
		k.press(dirRight, at)
	case tcell.KeyUp:
		k.press(dirUp, at)
	case tcell.KeyDown:
		k.press(dirDown, at)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'z', 'Z', ' ':
			k.edges.Confirm = true
		case 'x', 'X':
			k.edges.Cancel = true
		case 'a', 'A':
			k.press(dirLeft, at)
		case 'd', 'D':
			k.press(dirRight, at)
		case 'w', 'W':
			k.press(dirUp, at)
		case 's', 'S':
			k.press(dirDown, at)
		case 'p', 'P':
			k.pause = true
		case 'q', 'Q':
			k.quit = true
		}
	}
}

// press marks a direction held and also emits the matching menu edge.
func (k *Keyboard) press(d direction, at time.Time) {
	k.held[d] = at
	switch d {
	case dirRight, dirDown:
		k.edges.Next = true
	case dirLeft, dirUp:
		k.edges.Previous = true
	}
}

// Frame returns the input for the frame starting at now and clears the edges.
func (k *Keyboard) Frame(now time.Time) State {
	s := k.edges
	k.edges = State{}

	var axis geom.Vec2
	for d := direction(0); d < dirCount; d++ {
		if !k.held[d].IsZero() && now.Sub(k.held[d]) <= k.hold {
			axis = axis.Add(dirVectors[d])
		}
	}
	if axis.Len() > 1 {
		axis = axis.Norm()
	}
	s.Move = axis
	return s
}

// QuitRequested reports whether a quit key was pressed.
func (k *Keyboard) QuitRequested() bool { return k.quit }

// TakePause reports and clears a pending pause toggle.
func (k *Keyboard) TakePause() bool {
	p := k.pause
	k.pause = false
	return p
}

// Pressed returns the number of key events handled so far.
func (k *Keyboard) Pressed() int { return k.pressed }
