package gamedata

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// DefaultRosterFile is the embedded roster used when no external file is configured.
const DefaultRosterFile = "roster.json"

var (
	ErrEmptyParty   = errors.New("roster has no party members")
	ErrUnknownClass = errors.New("unknown class")
	ErrNoActions    = errors.New("class has no actions")
	ErrBadHP        = errors.New("hp must be positive")
)

// MemberDef places one character in the party.
type MemberDef struct {
	Name  string `json:"name" yaml:"name"`
	Class string `json:"class" yaml:"class"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"` // Hex color code
}

// EnemyDef defines the scripted opponent.
type EnemyDef struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Glyph  string `json:"glyph" yaml:"glyph"`
	Color  string `json:"color" yaml:"color"`
	HP     int    `json:"hp" yaml:"hp"`
	Action string `json:"action" yaml:"action"` // Verb used in battle dialogue (e.g., "attack")
}

// GlyphRune returns the glyph as a rune for rendering.
func (e *EnemyDef) GlyphRune() rune {
	if len(e.Glyph) == 0 {
		return '?'
	}
	return rune(e.Glyph[0])
}

// TCellColor returns the color as a tcell.Color.
func (e *EnemyDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(e.Color)
	if err != nil {
		return tcell.ColorWhite // fallback
	}
	return color
}

// RosterFile is the structure of a roster document.
type RosterFile struct {
	Classes []ClassDef  `json:"classes" yaml:"classes"`
	Party   []MemberDef `json:"party" yaml:"party"`
	Enemy   *EnemyDef   `json:"enemy,omitempty" yaml:"enemy,omitempty"`
}

// Validate checks that every member resolves to a usable class.
func (r *RosterFile) Validate() error {
	if len(r.Party) == 0 {
		return ErrEmptyParty
	}

	registry := r.ClassRegistry()
	for _, c := range registry.All() {
		if c.HP <= 0 {
			return fmt.Errorf("class %q: %w", c.ID, ErrBadHP)
		}
		if len(c.Actions) == 0 {
			return fmt.Errorf("class %q: %w", c.ID, ErrNoActions)
		}
	}
	for _, m := range r.Party {
		if registry.GetByID(m.Class) == nil {
			return fmt.Errorf("member %q: %w %q", m.Name, ErrUnknownClass, m.Class)
		}
		if m.Color != "" {
			if _, err := ParseHexColor(m.Color); err != nil {
				return fmt.Errorf("member %q: %w", m.Name, err)
			}
		}
	}
	if r.Enemy != nil && r.Enemy.HP <= 0 {
		return fmt.Errorf("enemy %q: %w", r.Enemy.ID, ErrBadHP)
	}
	return nil
}

// ClassRegistry returns a registry over the roster's classes.
func (r *RosterFile) ClassRegistry() *ClassRegistry {
	return NewClassRegistry(r.Classes)
}

// LoadRoster loads and validates the embedded roster.
func LoadRoster() (*RosterFile, error) {
	roster, err := Load[RosterFile](DefaultRosterFile)
	if err != nil {
		return nil, err
	}
	if err := roster.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", DefaultRosterFile, err)
	}
	return &roster, nil
}

// MustLoadRoster loads the embedded roster, panicking on error.
func MustLoadRoster() *RosterFile {
	roster, err := LoadRoster()
	if err != nil {
		panic(err)
	}
	return roster
}

// LoadRosterFile loads and validates a roster from a JSON or YAML file on disk.
func LoadRosterFile(path string) (*RosterFile, error) {
	roster, err := LoadFile[RosterFile](path)
	if err != nil {
		return nil, err
	}
	if err := roster.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &roster, nil
}
