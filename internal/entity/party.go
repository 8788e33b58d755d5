package entity

import "github.com/samdwyer/skirmish/internal/geom"

// Party is the player's team. In exploration it moves as a single point.
type Party struct {
	Members  []*Character
	Position geom.Vec2
	Symbol   rune
}

// NewParty creates a party at the given exploration position.
func NewParty(members []*Character, pos geom.Vec2) *Party {
	return &Party{
		Members:  members,
		Position: pos,
		Symbol:   '&',
	}
}

// Move shifts the party by delta.
func (p *Party) Move(delta geom.Vec2) {
	p.Position = p.Position.Add(delta)
}

// Size returns the number of members.
func (p *Party) Size() int { return len(p.Members) }

// Member returns the member at index i. An out-of-range index is a programming error.
func (p *Party) Member(i int) *Character {
	if i < 0 || i >= len(p.Members) {
		panic("entity: party member index out of range")
	}
	return p.Members[i]
}
