// Package ui provides terminal rendering using tcell.
package ui

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Screen wraps tcell.Screen with a simplified interface.
type Screen struct {
	screen tcell.Screen

	events    chan tcell.Event
	startOnce sync.Once
	closeOnce sync.Once
}

// NewScreen creates and initializes a new terminal screen.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewScreenFrom(s)
}

// NewScreenFrom initializes an existing tcell screen, such as a simulation screen.
func NewScreenFrom(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	s.HideCursor()
	s.Clear()
	return &Screen{screen: s, events: make(chan tcell.Event, 64)}, nil
}

// Close finalizes the screen and restores terminal state.
func (s *Screen) Close() {
	s.closeOnce.Do(s.screen.Fini)
}

// Events returns a channel fed by a background poller. The game loop runs at a fixed frame
// rate, so it drains this channel instead of blocking in PollEvent. The channel is closed
// once the screen is finalized.
func (s *Screen) Events() <-chan tcell.Event {
	s.startOnce.Do(func() {
		go func() {
			defer close(s.events)
			for {
				ev := s.screen.PollEvent()
				if ev == nil {
					return
				}
				s.events <- ev
			}
		}()
	})
	return s.events
}

// Clear clears the screen buffer.
func (s *Screen) Clear() {
	s.screen.Clear()
}

// Show flushes the screen buffer to the terminal.
func (s *Screen) Show() {
	s.screen.Show()
}

// SetContent sets a single cell's content at the given position.
func (s *Screen) SetContent(x, y int, r rune, style tcell.Style) {
	s.screen.SetContent(x, y, r, nil, style)
}

// Size returns the current terminal dimensions.
func (s *Screen) Size() (width, height int) {
	return s.screen.Size()
}

// Sync forces a complete redraw of the screen.
func (s *Screen) Sync() {
	s.screen.Sync()
}
