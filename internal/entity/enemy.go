package entity

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/skirmish/internal/gamedata"
)

// Enemy is the opposing side. It has a single scripted action and no decision making.
type Enemy struct {
	Def    *gamedata.EnemyDef // nil for the built-in default
	Name   string
	Symbol rune
	Action string
	HP     int
	MaxHP  int
}

// DefaultEnemy returns the built-in opponent used when no roster provides one.
func DefaultEnemy() *Enemy {
	return &Enemy{
		Name:   "Minion",
		Symbol: 'm',
		Action: "attack",
		HP:     10,
		MaxHP:  10,
	}
}

// NewEnemyFromDef creates the opponent from a data-driven definition.
func NewEnemyFromDef(def *gamedata.EnemyDef) *Enemy {
	action := def.Action
	if action == "" {
		action = "attack"
	}
	return &Enemy{
		Def:    def,
		Name:   def.Name,
		Symbol: def.GlyphRune(),
		Action: action,
		HP:     def.HP,
		MaxHP:  def.HP,
	}
}

// Color returns the tcell color for this enemy.
func (e *Enemy) Color() tcell.Color {
	if e.Def != nil {
		return e.Def.TCellColor()
	}
	return tcell.ColorRed
}
