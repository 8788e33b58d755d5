// Package entity provides the party characters and the scripted opponent.
package entity

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/skirmish/internal/gamedata"
)

var (
	ErrNoName    = errors.New("character has no name")
	ErrNoActions = errors.New("character has no actions")
	ErrBadHP     = errors.New("character max HP must be positive")
)

// CharacterAction is one entry of a character's battle menu.
type CharacterAction struct {
	Name string
}

// Character is a party member taking part in battle.
type Character struct {
	Name    string
	Symbol  rune
	Color   tcell.Color
	HP      int
	MaxHP   int
	Actions []CharacterAction // never empty
}

// NewCharacter creates a character at full HP with the given ordered actions.
func NewCharacter(name string, maxHP int, actions ...string) (*Character, error) {
	if name == "" {
		return nil, ErrNoName
	}
	if maxHP <= 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrBadHP)
	}
	if len(actions) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoActions)
	}

	c := &Character{
		Name:    name,
		Symbol:  []rune(name)[0],
		Color:   tcell.ColorWhite,
		HP:      maxHP,
		MaxHP:   maxHP,
		Actions: make([]CharacterAction, len(actions)),
	}
	for i, a := range actions {
		c.Actions[i] = CharacterAction{Name: a}
	}
	return c, nil
}

// NewCharacterFromDef builds a character from a roster entry and its class.
func NewCharacterFromDef(member *gamedata.MemberDef, class *gamedata.ClassDef) (*Character, error) {
	if member == nil || class == nil {
		return nil, errors.New("nil member or class definition")
	}

	c, err := NewCharacter(member.Name, class.HP, class.Actions...)
	if err != nil {
		return nil, err
	}
	c.Symbol = class.SymbolRune()
	if member.Color != "" {
		color, err := gamedata.ParseHexColor(member.Color)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", member.Name, err)
		}
		c.Color = color
	}
	return c, nil
}

// GetName returns the character's name.
func (c *Character) GetName() string { return c.Name }

// IsAlive returns true if the character has HP remaining.
func (c *Character) IsAlive() bool { return c.HP > 0 }

// ActionCount returns the number of menu actions.
func (c *Character) ActionCount() int { return len(c.Actions) }

// Action returns the action at index i. An out-of-range index is a programming error.
func (c *Character) Action(i int) CharacterAction {
	if i < 0 || i >= len(c.Actions) {
		panic(fmt.Sprintf("entity: action index %d out of range [0,%d) for %s", i, len(c.Actions), c.Name))
	}
	return c.Actions[i]
}
