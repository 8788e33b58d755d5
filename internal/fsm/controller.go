// Package fsm provides the frame-stepped state machine primitive used by the battle orchestrator.
//
// A Controller tracks one state tag plus the tick it was entered at. Each frame the owner
// calls InitUpdate before any query and FinishUpdate after all logic. A transition made
// during a frame is observed through IsEntering for exactly the following update cycle, so
// entry work runs once per transition regardless of which branch requested it.
package fsm

import "errors"

// ErrNotPrimed is raised when a controller is queried before its first InitUpdate.
var ErrNotPrimed = errors.New("fsm: controller queried before InitUpdate")

// Controller is a state machine over comparable state tags.
type Controller[S comparable] struct {
	current   S
	enteredAt int64
	now       int64
	elapsed   int64

	entering  bool // observed during this cycle
	pending   bool // transition requested during this cycle
	committed bool // handed from FinishUpdate to the next InitUpdate
	exiting   bool

	primed bool
}

// View is a read-only projection of a controller for presentation.
type View[S comparable] struct {
	State    S
	Entering bool
	Elapsed  int64
}

// New creates a controller in the initial state. The first update cycle observes the
// initial state as entered.
func New[S comparable](initial S) *Controller[S] {
	return &Controller[S]{current: initial, committed: true}
}

// InitUpdate starts a frame: it refreshes elapsed time and rolls the edge flags forward.
func (c *Controller[S]) InitUpdate(now int64) {
	c.now = now
	c.elapsed = now - c.enteredAt
	c.entering = c.committed
	c.committed = false
	c.pending = false
	c.exiting = false
	c.primed = true
}

// FinishUpdate ends a frame. It must run for every controller, including those not on the
// active branch, so that transitions made this frame surface on the next one.
func (c *Controller[S]) FinishUpdate() {
	c.committed = c.pending
	c.pending = false
}

// Current returns the current state.
func (c *Controller[S]) Current() S {
	c.mustBePrimed()
	return c.current
}

// Is reports whether s is the current state.
func (c *Controller[S]) Is(s S) bool {
	c.mustBePrimed()
	return c.current == s
}

// IsEntering reports whether this cycle is the first one after a transition.
func (c *Controller[S]) IsEntering() bool {
	c.mustBePrimed()
	return c.entering
}

// IsExiting reports whether the current state context was left, or Exit was signalled,
// during this cycle.
func (c *Controller[S]) IsExiting() bool {
	c.mustBePrimed()
	return c.exiting
}

// Elapsed returns the ticks spent in the current state as of this cycle.
func (c *Controller[S]) Elapsed() int64 {
	c.mustBePrimed()
	return c.elapsed
}

// EnteredAt returns the tick at which the current state was entered.
func (c *Controller[S]) EnteredAt() int64 {
	return c.enteredAt
}

// TransitionTo moves to s. It is a no-op when s is already current.
func (c *Controller[S]) TransitionTo(s S) {
	c.mustBePrimed()
	if s == c.current {
		return
	}
	c.enter(s)
}

// StartFrom forces entry into s even when s is already current. Parents use it to
// activate a nested machine afresh.
func (c *Controller[S]) StartFrom(s S) {
	c.mustBePrimed()
	c.enter(s)
}

// Exit signals the parent that this machine's work is done without changing state.
func (c *Controller[S]) Exit() {
	c.mustBePrimed()
	c.exiting = true
}

// View returns the projection of the controller for this cycle.
func (c *Controller[S]) View() View[S] {
	return View[S]{State: c.current, Entering: c.entering, Elapsed: c.elapsed}
}

func (c *Controller[S]) enter(s S) {
	c.exiting = true
	c.current = s
	c.enteredAt = c.now
	c.elapsed = 0
	c.pending = true
}

func (c *Controller[S]) mustBePrimed() {
	if !c.primed {
		panic(ErrNotPrimed)
	}
}
