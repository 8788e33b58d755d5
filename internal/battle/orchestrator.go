package battle

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/skirmish/internal/clock"
	"github.com/samdwyer/skirmish/internal/dialogue"
	"github.com/samdwyer/skirmish/internal/entity"
	"github.com/samdwyer/skirmish/internal/fsm"
	"github.com/samdwyer/skirmish/internal/geom"
	"github.com/samdwyer/skirmish/internal/input"
	"github.com/samdwyer/skirmish/internal/telemetry"
)

const (
	// PlayerSpeed is exploration movement in world units per second.
	PlayerSpeed = 200

	// AnimationTicks is how long a player action animates before its conclusion.
	AnimationTicks = 2000
	// MinigameTicks is how long the dodge minigame lasts.
	MinigameTicks = 10000

	// HitboxSpeed is minigame movement in arena widths per second.
	HitboxSpeed = 0.75
	HitboxMin   = 0.08
	HitboxMax   = 0.92
)

// HitboxCenter is where the hitbox starts each minigame.
var HitboxCenter = geom.V(0.5, 0.5)

// stepper is the per-frame bookkeeping shared by every nested controller.
type stepper interface {
	InitUpdate(now int64)
	FinishUpdate()
}

// Orchestrator owns the five state machines, the dialogue line and the action queue.
// It is driven by exactly one Update call per frame and is not safe for concurrent use.
type Orchestrator struct {
	clock    clock.Clock
	tracer   trace.Tracer
	party    *entity.Party
	enemy    *entity.Enemy
	dialogue *dialogue.Controller

	main       *fsm.Controller[MainState]
	turn       *fsm.Controller[Turn]
	playerTurn *fsm.Controller[PlayerPhase]
	action     *fsm.Controller[ActionStep]
	enemyTurn  *fsm.Controller[EnemyStep]
	machines   []stepper

	queue           ActionQueue
	current         *BattleAction
	characterCursor int
	optionCursor    int
	hitbox          geom.Vec2

	battleID string
	round    int

	pendingMembers []*entity.Character
	pendingEnemy   *entity.Enemy
}

// New creates an orchestrator in exploration. The party must have at least one member.
func New(clk clock.Clock, party *entity.Party, enemy *entity.Enemy) *Orchestrator {
	if party == nil || party.Size() == 0 {
		panic("battle: party has no members")
	}
	if enemy == nil {
		enemy = entity.DefaultEnemy()
	}

	o := &Orchestrator{
		clock:      clk,
		tracer:     telemetry.Tracer("battle"),
		party:      party,
		enemy:      enemy,
		dialogue:   dialogue.New(clk),
		main:       fsm.New(Exploration),
		turn:       fsm.New(TurnPlayer),
		playerTurn: fsm.New(Strategy),
		action:     fsm.New(ActionPreface),
		enemyTurn:  fsm.New(EnemyPreface),
		hitbox:     HitboxCenter,
	}
	o.machines = []stepper{o.main, o.turn, o.playerTurn, o.action, o.enemyTurn}
	return o
}

// SetTracer replaces the tracer used for battle spans.
func (o *Orchestrator) SetTracer(t trace.Tracer) {
	o.tracer = t
}

// SetRoster swaps the party members and opponent. The change is deferred until the
// orchestrator is next updated in exploration, so a running battle is never altered.
func (o *Orchestrator) SetRoster(members []*entity.Character, enemy *entity.Enemy) {
	if len(members) == 0 {
		panic("battle: roster has no members")
	}
	o.pendingMembers = members
	o.pendingEnemy = enemy
}

// Update advances every machine by one frame using the input observed for that frame.
func (o *Orchestrator) Update(ctx context.Context, in input.State) {
	now := o.clock.Now()
	for _, m := range o.machines {
		m.InitUpdate(now)
	}

	switch o.main.Current() {
	case Exploration:
		o.updateExploration(ctx, in)
	case InBattle:
		o.updateBattle(ctx, in)
	}

	o.dialogue.UpdateTicks(now)
	for _, m := range o.machines {
		m.FinishUpdate()
	}
}

func (o *Orchestrator) updateExploration(ctx context.Context, in input.State) {
	o.applyPendingRoster()

	if in.Confirm {
		o.startBattle(ctx)
		return
	}
	if in.Move.Len() > 0 {
		o.party.Move(in.Move.Norm().Scale(PlayerSpeed * o.clock.DeltaTime()))
	}
}

func (o *Orchestrator) updateBattle(ctx context.Context, in input.State) {
	switch o.turn.Current() {
	case TurnPlayer:
		o.updatePlayerTurn(ctx, in)
	case TurnEnemy:
		o.updateEnemyTurn(ctx, in)
	}
}

// confirmed applies two-press semantics to a dialogue gate: a confirm on an unfinished
// line only reveals it, a confirm on a finished line lets the caller advance.
func (o *Orchestrator) confirmed(in input.State) bool {
	if !in.Confirm {
		return false
	}
	if !o.dialogue.IsFinished() {
		o.dialogue.Finish()
		return false
	}
	return true
}

func (o *Orchestrator) startBattle(ctx context.Context) {
	o.main.TransitionTo(InBattle)
	o.turn.StartFrom(TurnPlayer)
	o.resetStrategy()
	o.queue.Clear()
	o.current = nil
	o.dialogue.Clear()
	o.battleID = uuid.NewString()
	o.round = 1

	telemetry.Event(ctx, o.tracer, "battle.start",
		attribute.String("battle.id", o.battleID),
		attribute.Int("party_size", o.party.Size()),
		attribute.String("enemy", o.enemy.Name),
	)
}

func (o *Orchestrator) retreat(ctx context.Context) {
	telemetry.Event(ctx, o.tracer, "battle.end",
		attribute.String("battle.id", o.battleID),
		attribute.String("outcome", "retreat"),
		attribute.Int("rounds", o.round),
	)

	o.main.TransitionTo(Exploration)
	o.queue.Clear()
	o.current = nil
	o.dialogue.Clear()
	o.battleID = ""
}

// resetStrategy (re)activates menu selection with both cursors at the first entry.
func (o *Orchestrator) resetStrategy() {
	o.playerTurn.StartFrom(Strategy)
	o.characterCursor = 0
	o.optionCursor = 0
}

func (o *Orchestrator) applyPendingRoster() {
	if o.pendingMembers == nil {
		return
	}
	o.party.Members = o.pendingMembers
	if o.pendingEnemy != nil {
		o.enemy = o.pendingEnemy
	}
	o.pendingMembers = nil
	o.pendingEnemy = nil
}
