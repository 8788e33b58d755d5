// Package dialogue implements the typewriter text reveal used to gate battle progress.
package dialogue

import (
	"unicode/utf8"

	"github.com/samdwyer/skirmish/internal/clock"
)

// DefaultSpeed is the number of ticks allotted per character when no duration is given.
const DefaultSpeed = 100

// Controller reveals one line of text over a duration measured in clock ticks.
type Controller struct {
	clock clock.Clock

	content   string
	started   bool
	startedAt int64
	duration  int64
	finished  bool
}

// Snapshot is the read-only state of a Controller for one frame.
type Snapshot struct {
	Content   string
	Started   bool
	StartedAt int64
	Duration  int64
	Finished  bool
}

// New creates an idle controller reading start times from c.
func New(c clock.Clock) *Controller {
	return &Controller{clock: c}
}

// Start begins revealing content with the default duration of DefaultSpeed ticks per character.
func (d *Controller) Start(content string) {
	d.StartFor(content, 0)
}

// StartFor begins revealing content over duration ticks. A duration of zero or less
// selects the default.
func (d *Controller) StartFor(content string, duration int64) {
	if duration <= 0 {
		duration = int64(utf8.RuneCountInString(content)) * DefaultSpeed
	}
	d.content = content
	d.started = true
	d.startedAt = d.clock.Now()
	d.duration = duration
	d.finished = false
}

// UpdateTicks marks the line finished once more than the duration has passed.
// It must be called once per frame with a non-decreasing tick.
func (d *Controller) UpdateTicks(now int64) {
	if d.started && now-d.startedAt > d.duration {
		d.finished = true
	}
}

// Finish reveals the whole line immediately.
func (d *Controller) Finish() {
	d.finished = true
}

// Clear resets the controller to idle.
func (d *Controller) Clear() {
	d.content = ""
	d.started = false
	d.startedAt = 0
	d.duration = 0
	d.finished = false
}

// IsFinished reports whether the whole line is visible.
func (d *Controller) IsFinished() bool {
	return d.finished
}

// Snapshot returns the current state.
func (d *Controller) Snapshot() Snapshot {
	return Snapshot{
		Content:   d.content,
		Started:   d.started,
		StartedAt: d.startedAt,
		Duration:  d.duration,
		Finished:  d.finished,
	}
}

// Reveal returns the visible prefix of the line at tick now.
func Reveal(s Snapshot, now int64) string {
	if !s.Started {
		return ""
	}
	if s.Finished || s.Duration == 0 {
		return s.Content
	}

	total := int64(utf8.RuneCountInString(s.Content))
	n := (now - s.StartedAt) * total / s.Duration
	if n <= 0 {
		return ""
	}
	if n >= total {
		return s.Content
	}

	runes := []rune(s.Content)
	return string(runes[:n])
}
