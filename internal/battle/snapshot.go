package battle

import (
	"github.com/samdwyer/skirmish/internal/dialogue"
	"github.com/samdwyer/skirmish/internal/entity"
	"github.com/samdwyer/skirmish/internal/fsm"
	"github.com/samdwyer/skirmish/internal/geom"
)

// Snapshot is the read-only projection presentation code draws from.
type Snapshot struct {
	Now int64

	Main       fsm.View[MainState]
	Turn       fsm.View[Turn]
	PlayerTurn fsm.View[PlayerPhase]
	Action     fsm.View[ActionStep]
	EnemyTurn  fsm.View[EnemyStep]

	Dialogue        dialogue.Snapshot
	CharacterCursor int
	OptionCursor    int
	QueueLen        int
	Current         *BattleAction // action being resolved, nil otherwise

	Hitbox       geom.Vec2
	HitboxActive bool
	Position     geom.Vec2

	Party    []*entity.Character
	Enemy    *entity.Enemy
	BattleID string
	Round    int
}

// Snapshot returns the projection of the last completed frame.
func (o *Orchestrator) Snapshot() Snapshot {
	s := Snapshot{
		Now:             o.clock.Now(),
		Main:            o.main.View(),
		Turn:            o.turn.View(),
		PlayerTurn:      o.playerTurn.View(),
		Action:          o.action.View(),
		EnemyTurn:       o.enemyTurn.View(),
		Dialogue:        o.dialogue.Snapshot(),
		CharacterCursor: o.characterCursor,
		OptionCursor:    o.optionCursor,
		QueueLen:        o.queue.Len(),
		Hitbox:          o.hitbox,
		Position:        o.party.Position,
		Party:           o.party.Members,
		Enemy:           o.enemy,
		BattleID:        o.battleID,
		Round:           o.round,
	}
	s.HitboxActive = s.Main.State == InBattle && s.Turn.State == TurnEnemy && s.EnemyTurn.State == EnemyMinigame
	if o.current != nil {
		current := *o.current
		s.Current = &current
	}
	return s
}

// Queue returns the queued actions, oldest first.
func (o *Orchestrator) Queue() []BattleAction {
	return o.queue.Items()
}

// Text returns the visible part of the dialogue line at the snapshot's tick.
func (s Snapshot) Text() string {
	return dialogue.Reveal(s.Dialogue, s.Now)
}
