package battle

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/skirmish/internal/input"
	"github.com/samdwyer/skirmish/internal/telemetry"
)

func (o *Orchestrator) startEnemyTurn(ctx context.Context) {
	o.turn.TransitionTo(TurnEnemy)
	o.enemyTurn.StartFrom(EnemyPreface)

	telemetry.Event(ctx, o.tracer, "battle.enemy_turn",
		attribute.String("battle.id", o.battleID),
		attribute.String("enemy", o.enemy.Name),
		attribute.Int("round", o.round),
	)
}

func (o *Orchestrator) startPlayerTurn() {
	o.turn.TransitionTo(TurnPlayer)
	o.resetStrategy()
	o.round++
}

func (o *Orchestrator) updateEnemyTurn(_ context.Context, in input.State) {
	switch o.enemyTurn.Current() {
	case EnemyPreface:
		if o.enemyTurn.IsEntering() {
			o.dialogue.Start(fmt.Sprintf("%s will %s! Prepare to dodge it all.", o.enemy.Name, o.enemy.Action))
		}
		if o.confirmed(in) {
			o.dialogue.Clear()
			o.enemyTurn.TransitionTo(EnemyMinigame)
			o.hitbox = HitboxCenter
		}

	case EnemyMinigame:
		// No scoring yet: the hitbox position has no consequence.
		if o.enemyTurn.IsEntering() {
			o.hitbox = HitboxCenter
		}
		if in.Move.Len() > 0 {
			step := in.Move.Norm().Scale(HitboxSpeed * o.clock.DeltaTime())
			o.hitbox = o.hitbox.Add(step).Clamp(HitboxMin, HitboxMax)
		}
		if o.enemyTurn.Elapsed() >= MinigameTicks {
			o.enemyTurn.TransitionTo(EnemyConclusion)
		}

	case EnemyConclusion:
		if o.enemyTurn.IsEntering() {
			o.dialogue.Start(fmt.Sprintf("%s did %s.", o.enemy.Name, o.enemy.Action))
		}
		if o.confirmed(in) {
			o.dialogue.Clear()
			o.enemyTurn.Exit()
			o.startPlayerTurn()
		}
	}
}
