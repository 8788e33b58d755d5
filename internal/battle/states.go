// Package battle drives exploration, turn-based battle menus, action resolution and the
// enemy's dodge minigame as a set of nested frame-stepped state machines.
package battle

// MainState selects between free roaming and battle.
type MainState int

const (
	// Exploration is free movement outside battle.
	Exploration MainState = iota
	// InBattle covers everything from the first menu to the end of a retreat.
	InBattle
)

// String returns a human-readable state name.
func (s MainState) String() string {
	switch s {
	case Exploration:
		return "exploration"
	case InBattle:
		return "battle"
	default:
		return "unknown"
	}
}

// Turn selects which side is acting.
type Turn int

const (
	TurnPlayer Turn = iota
	TurnEnemy
)

// String returns a human-readable turn name.
func (t Turn) String() string {
	switch t {
	case TurnPlayer:
		return "player"
	case TurnEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// PlayerPhase is the stage of the player's turn.
type PlayerPhase int

const (
	// Strategy is menu selection: one action per party member is queued.
	Strategy PlayerPhase = iota
	// Action resolves the queued actions in order.
	Action
)

// String returns a human-readable phase name.
func (p PlayerPhase) String() string {
	switch p {
	case Strategy:
		return "strategy"
	case Action:
		return "action"
	default:
		return "unknown"
	}
}

// ActionStep is the stage of resolving a single queued action.
type ActionStep int

const (
	ActionPreface ActionStep = iota
	ActionAnimation
	ActionConclusion
)

// String returns a human-readable step name.
func (s ActionStep) String() string {
	switch s {
	case ActionPreface:
		return "preface"
	case ActionAnimation:
		return "animation"
	case ActionConclusion:
		return "conclusion"
	default:
		return "unknown"
	}
}

// EnemyStep is the stage of the enemy's scripted turn.
type EnemyStep int

const (
	EnemyPreface EnemyStep = iota
	EnemyMinigame
	EnemyConclusion
)

// String returns a human-readable step name.
func (s EnemyStep) String() string {
	switch s {
	case EnemyPreface:
		return "preface"
	case EnemyMinigame:
		return "minigame"
	case EnemyConclusion:
		return "conclusion"
	default:
		return "unknown"
	}
}
