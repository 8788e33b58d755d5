package entity

import (
	"fmt"

	"github.com/samdwyer/skirmish/internal/gamedata"
)

// BuildRoster creates the party members and the opponent described by r.
// A roster without an enemy gets the default one.
func BuildRoster(r *gamedata.RosterFile) ([]*Character, *Enemy, error) {
	if err := r.Validate(); err != nil {
		return nil, nil, err
	}

	registry := r.ClassRegistry()
	members := make([]*Character, 0, len(r.Party))
	for i := range r.Party {
		def := &r.Party[i]
		c, err := NewCharacterFromDef(def, registry.GetByID(def.Class))
		if err != nil {
			return nil, nil, fmt.Errorf("build member %d: %w", i, err)
		}
		members = append(members, c)
	}

	enemy := DefaultEnemy()
	if r.Enemy != nil {
		enemy = NewEnemyFromDef(r.Enemy)
	}
	return members, enemy, nil
}
