// Package clock provides the shared monotonic tick source the game loop advances once per frame.
package clock

import "time"

// Clock supplies the current tick and the time elapsed since the previous frame.
// One tick is one millisecond of unpaused game time.
type Clock interface {
	Now() int64
	DeltaTime() float64
}

// Frame is a Clock advanced explicitly by the game loop.
// While paused, Advance leaves ticks untouched and reports a zero delta.
type Frame struct {
	ticks  int64
	carry  time.Duration // sub-millisecond remainder not yet counted in ticks
	delta  float64
	paused bool
}

// NewFrame creates a clock starting at tick 0.
func NewFrame() *Frame {
	return &Frame{}
}

// Advance moves the clock forward by the real time elapsed since the last frame.
func (f *Frame) Advance(elapsed time.Duration) {
	if f.paused || elapsed <= 0 {
		f.delta = 0
		return
	}
	total := f.carry + elapsed
	f.ticks += total.Milliseconds()
	f.carry = total % time.Millisecond
	f.delta = elapsed.Seconds()
}

// Now returns the current tick.
func (f *Frame) Now() int64 { return f.ticks }

// DeltaTime returns the seconds of game time covered by the last Advance.
func (f *Frame) DeltaTime() float64 { return f.delta }

// Pause stops tick advancement.
func (f *Frame) Pause() { f.paused = true }

// Resume restarts tick advancement.
func (f *Frame) Resume() { f.paused = false }

// Paused reports whether the clock is paused.
func (f *Frame) Paused() bool { return f.paused }

// Toggle flips the pause state.
func (f *Frame) Toggle() {
	f.paused = !f.paused
}
