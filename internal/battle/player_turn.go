package battle

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/skirmish/internal/input"
	"github.com/samdwyer/skirmish/internal/telemetry"
)

func (o *Orchestrator) updatePlayerTurn(ctx context.Context, in input.State) {
	switch o.playerTurn.Current() {
	case Strategy:
		o.updateStrategy(ctx, in)
	case Action:
		o.updateAction(ctx, in)
	}
}

func (o *Orchestrator) updateStrategy(ctx context.Context, in input.State) {
	last := o.party.Size() - 1
	member := o.party.Member(o.characterCursor)

	switch {
	case in.Confirm:
		o.queue.Push(BattleAction{Caller: member, Action: member.Action(o.optionCursor)})
		wasLast := o.characterCursor == last
		o.characterCursor = min(o.characterCursor+1, last)
		o.optionCursor = 0
		if wasLast {
			o.playerTurn.TransitionTo(Action)
			o.action.StartFrom(ActionPreface)
		}

	case in.Cancel:
		if o.characterCursor == 0 {
			o.retreat(ctx)
			return
		}
		o.queue.PopBack()
		o.characterCursor--
		o.optionCursor = 0

	case in.Next:
		o.optionCursor = (o.optionCursor + 1) % member.ActionCount()

	case in.Previous:
		n := member.ActionCount()
		o.optionCursor = (o.optionCursor - 1 + n) % n
	}

	o.checkCursors()
}

func (o *Orchestrator) updateAction(ctx context.Context, in input.State) {
	switch o.action.Current() {
	case ActionPreface:
		if o.action.IsEntering() {
			next := o.queue.PopFront()
			o.current = &next
			o.dialogue.Start(fmt.Sprintf("%s will %s.", next.Caller.Name, next.Action.Name))

			telemetry.Event(ctx, o.tracer, "battle.action",
				attribute.String("battle.id", o.battleID),
				attribute.String("actor", next.Caller.Name),
				attribute.String("action", next.Action.Name),
				attribute.Int("round", o.round),
			)
		}
		if o.confirmed(in) {
			o.dialogue.Clear()
			o.action.TransitionTo(ActionAnimation)
		}

	case ActionAnimation:
		if o.action.Elapsed() >= AnimationTicks {
			o.action.TransitionTo(ActionConclusion)
		}

	case ActionConclusion:
		if o.action.IsEntering() {
			o.dialogue.Start(fmt.Sprintf("%s did %s.", o.current.Caller.Name, o.current.Action.Name))
		}
		if o.confirmed(in) {
			o.dialogue.Clear()
			o.current = nil
			if o.queue.Len() > 0 {
				o.action.TransitionTo(ActionPreface)
				return
			}
			o.action.Exit()
			o.startEnemyTurn(ctx)
		}
	}
}

// checkCursors fails fast when selection state leaves its valid range.
func (o *Orchestrator) checkCursors() {
	if o.characterCursor < 0 || o.characterCursor >= o.party.Size() {
		panic(fmt.Sprintf("battle: character cursor %d out of range [0,%d)", o.characterCursor, o.party.Size()))
	}
	n := o.party.Member(o.characterCursor).ActionCount()
	if o.optionCursor < 0 || o.optionCursor >= n {
		panic(fmt.Sprintf("battle: option cursor %d out of range [0,%d)", o.optionCursor, n))
	}
}
