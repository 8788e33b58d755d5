package battle

import (
	"errors"

	"github.com/samdwyer/skirmish/internal/entity"
)

// ErrEmptyQueue is raised when an action is popped from an empty queue. Strategy queues
// exactly one action per party member before resolution starts, so this is always a bug.
var ErrEmptyQueue = errors.New("battle: pop from empty action queue")

// BattleAction pairs a party member with the action they chose.
type BattleAction struct {
	Caller *entity.Character
	Action entity.CharacterAction
}

// ActionQueue holds chosen actions in the order they will resolve.
type ActionQueue struct {
	items []BattleAction
}

// Push appends an action.
func (q *ActionQueue) Push(a BattleAction) {
	q.items = append(q.items, a)
}

// PopFront removes and returns the oldest action.
func (q *ActionQueue) PopFront() BattleAction {
	if len(q.items) == 0 {
		panic(ErrEmptyQueue)
	}
	a := q.items[0]
	q.items[0] = BattleAction{}
	q.items = q.items[1:]
	return a
}

// PopBack removes and returns the newest action, undoing the last Push.
func (q *ActionQueue) PopBack() BattleAction {
	if len(q.items) == 0 {
		panic(ErrEmptyQueue)
	}
	last := len(q.items) - 1
	a := q.items[last]
	q.items = q.items[:last]
	return a
}

// Len returns the number of queued actions.
func (q *ActionQueue) Len() int { return len(q.items) }

// Items returns a copy of the queued actions, oldest first.
func (q *ActionQueue) Items() []BattleAction {
	out := make([]BattleAction, len(q.items))
	copy(out, q.items)
	return out
}

// Clear drops all queued actions.
func (q *ActionQueue) Clear() {
	q.items = nil
}
