package battle

import (
	"context"
	"fmt"
	"math"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/samdwyer/skirmish/internal/entity"
	"github.com/samdwyer/skirmish/internal/geom"
	"github.com/samdwyer/skirmish/internal/input"
)

const frameTicks = 16

type testClock struct {
	now int64
	dt  float64
}

func (c *testClock) Now() int64         { return c.now }
func (c *testClock) DeltaTime() float64 { return c.dt }

// harness drives an orchestrator frame by frame with a scripted clock.
type harness struct {
	t     *testing.T
	clock *testClock
	o     *Orchestrator
	spans *tracetest.SpanRecorder
}

func newTeam(t *testing.T, size, actions int) []*entity.Character {
	t.Helper()
	names := []string{"Ada", "Brom", "Cleo", "Dax"}
	team := make([]*entity.Character, size)
	for i := range team {
		acts := make([]string, actions)
		for j := range acts {
			acts[j] = fmt.Sprintf("A%d", j)
		}
		c, err := entity.NewCharacter(names[i], 20, acts...)
		if err != nil {
			t.Fatal(err)
		}
		team[i] = c
	}
	return team
}

func newHarness(t *testing.T, size, actions int) *harness {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	clk := &testClock{}
	party := entity.NewParty(newTeam(t, size, actions), geom.V(100, 200))
	o := New(clk, party, nil)
	o.SetTracer(tp.Tracer("test"))

	h := &harness{t: t, clock: clk, o: o, spans: sr}
	h.step(input.State{})
	return h
}

func (h *harness) step(in input.State) {
	h.clock.now += frameTicks
	h.clock.dt = float64(frameTicks) / 1000
	h.o.Update(context.Background(), in)
}

func (h *harness) idle()     { h.step(input.State{}) }
func (h *harness) confirm()  { h.step(input.State{Confirm: true}) }
func (h *harness) cancel()   { h.step(input.State{Cancel: true}) }
func (h *harness) next()     { h.step(input.State{Next: true}) }
func (h *harness) previous() { h.step(input.State{Previous: true}) }

func (h *harness) snap() Snapshot { return h.o.Snapshot() }

// runUntil steps idle frames until cond holds and returns the number of frames taken.
func (h *harness) runUntil(desc string, cond func(Snapshot) bool, limit int) int {
	h.t.Helper()
	for i := 1; i <= limit; i++ {
		h.idle()
		if cond(h.snap()) {
			return i
		}
	}
	h.t.Fatalf("%s: not reached after %d frames", desc, limit)
	return 0
}

// enterBattle presses confirm in exploration and settles into strategy.
func (h *harness) enterBattle() {
	h.confirm()
	h.idle()
}

// chooseAll confirms the first option for every party member.
func (h *harness) chooseAll() {
	for range h.o.party.Members {
		h.confirm()
	}
}

// passGate reveals and then dismisses a dialogue line that starts on the next frame.
func (h *harness) passGate() {
	h.confirm()
	h.confirm()
}

func (h *harness) resolvePlayerActions() {
	h.t.Helper()
	for range h.o.party.Members {
		h.passGate()
		h.runUntil("action conclusion", func(s Snapshot) bool { return s.Action.State == ActionConclusion }, AnimationTicks/frameTicks+2)
		h.passGate()
	}
}

func (h *harness) resolveEnemyTurn() {
	h.t.Helper()
	h.passGate()
	h.runUntil("enemy conclusion", func(s Snapshot) bool { return s.EnemyTurn.State == EnemyConclusion }, MinigameTicks/frameTicks+2)
	h.passGate()
}

func (h *harness) spanNames() []string {
	var names []string
	for _, s := range h.spans.Ended() {
		names = append(names, s.Name())
	}
	return names
}

func TestNewStartsInExploration(t *testing.T) {
	h := newHarness(t, 3, 5)
	s := h.snap()

	if s.Main.State != Exploration || !s.Main.Entering {
		t.Errorf("Main = %+v, want entering exploration", s.Main)
	}
	if s.Position != geom.V(100, 200) {
		t.Errorf("Position = %v, want (100, 200)", s.Position)
	}
	if s.HitboxActive {
		t.Error("HitboxActive in exploration = true, want false")
	}
}

func TestExplorationMovement(t *testing.T) {
	h := newHarness(t, 3, 5)

	h.step(input.State{Move: geom.V(1, 0)})
	got := h.snap().Position
	want := geom.V(100+PlayerSpeed*0.016, 200)
	if math.Abs(got.X-want.X) > 1e-9 || got.Y != want.Y {
		t.Errorf("Position after one frame = %v, want %v", got, want)
	}

	// Diagonal input moves at the same speed as straight input.
	before := h.snap().Position
	h.step(input.State{Move: geom.V(1, 1)})
	moved := h.snap().Position.Sub(before).Len()
	if math.Abs(moved-PlayerSpeed*0.016) > 1e-9 {
		t.Errorf("diagonal step length = %v, want %v", moved, PlayerSpeed*0.016)
	}

	before = h.snap().Position
	h.idle()
	if h.snap().Position != before {
		t.Error("Position changed without input")
	}
}

func TestConfirmEntersBattle(t *testing.T) {
	h := newHarness(t, 3, 5)
	h.confirm()

	s := h.snap()
	if s.Main.State != InBattle || s.Turn.State != TurnPlayer || s.PlayerTurn.State != Strategy {
		t.Fatalf("states = %v/%v/%v, want battle/player/strategy", s.Main.State, s.Turn.State, s.PlayerTurn.State)
	}
	if s.CharacterCursor != 0 || s.OptionCursor != 0 || s.QueueLen != 0 {
		t.Errorf("cursors/queue = %d/%d/%d, want 0/0/0", s.CharacterCursor, s.OptionCursor, s.QueueLen)
	}
	if s.BattleID == "" || s.Round != 1 {
		t.Errorf("BattleID = %q, Round = %d; want an ID and round 1", s.BattleID, s.Round)
	}

	h.idle()
	if s := h.snap(); !s.Main.Entering || !s.PlayerTurn.Entering {
		t.Errorf("entering flags on the frame after the transition = %v/%v, want true/true", s.Main.Entering, s.PlayerTurn.Entering)
	}
	h.idle()
	if s := h.snap(); s.Main.Entering || s.PlayerTurn.Entering {
		t.Error("entering flags should last exactly one frame")
	}
}

func TestScenarioConfirmQueuesWholeTeam(t *testing.T) {
	h := newHarness(t, 3, 5)
	h.enterBattle()

	h.confirm()
	if s := h.snap(); s.CharacterCursor != 1 || s.QueueLen != 1 || s.PlayerTurn.State != Strategy {
		t.Fatalf("after first confirm: cursor=%d queue=%d phase=%v", s.CharacterCursor, s.QueueLen, s.PlayerTurn.State)
	}
	h.confirm()
	if s := h.snap(); s.CharacterCursor != 2 || s.QueueLen != 2 || s.PlayerTurn.State != Strategy {
		t.Fatalf("after second confirm: cursor=%d queue=%d phase=%v", s.CharacterCursor, s.QueueLen, s.PlayerTurn.State)
	}
	h.confirm()

	s := h.snap()
	if s.PlayerTurn.State != Action {
		t.Fatalf("PlayerTurn = %v after confirming the last member, want action", s.PlayerTurn.State)
	}
	if s.CharacterCursor != 2 || s.OptionCursor != 0 {
		t.Errorf("cursors = %d/%d, want 2/0", s.CharacterCursor, s.OptionCursor)
	}

	queued := h.o.Queue()
	if len(queued) != 3 {
		t.Fatalf("queue length = %d, want 3", len(queued))
	}
	for i, a := range queued {
		if a.Caller != h.o.party.Members[i] || a.Action.Name != "A0" {
			t.Errorf("queue[%d] = %s/%s, want %s/A0", i, a.Caller.Name, a.Action.Name, h.o.party.Members[i].Name)
		}
	}
}

func TestScenarioCancelPopsLastAction(t *testing.T) {
	h := newHarness(t, 3, 5)
	h.enterBattle()

	h.confirm()
	h.next()
	h.next()
	h.confirm()
	if s := h.snap(); s.CharacterCursor != 2 || s.QueueLen != 2 {
		t.Fatalf("setup: cursor=%d queue=%d, want 2/2", s.CharacterCursor, s.QueueLen)
	}
	h.next()

	h.cancel()
	s := h.snap()
	if s.CharacterCursor != 1 || s.OptionCursor != 0 || s.QueueLen != 1 {
		t.Errorf("after cancel: cursor=%d option=%d queue=%d, want 1/0/1", s.CharacterCursor, s.OptionCursor, s.QueueLen)
	}
	if s.Main.State != InBattle {
		t.Error("cancel with cursor > 0 must not leave battle")
	}
	if q := h.o.Queue(); q[0].Caller.Name != "Ada" {
		t.Errorf("remaining action belongs to %s, want Ada", q[0].Caller.Name)
	}
}

func TestCancelAtFirstMemberRetreats(t *testing.T) {
	h := newHarness(t, 3, 5)
	h.enterBattle()
	h.next()

	h.cancel()
	s := h.snap()
	if s.Main.State != Exploration {
		t.Fatalf("Main = %v after cancel at cursor 0, want exploration", s.Main.State)
	}
	if s.QueueLen != 0 || s.BattleID != "" {
		t.Errorf("queue=%d battleID=%q after retreat, want empty", s.QueueLen, s.BattleID)
	}

	want := []string{"battle.start", "battle.end"}
	got := h.spanNames()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("spans = %v, want %v", got, want)
	}
}

func TestCancelIgnoredOutsideStrategy(t *testing.T) {
	h := newHarness(t, 1, 2)
	h.enterBattle()
	h.confirm()

	for i := 0; i < 5; i++ {
		h.cancel()
	}
	if s := h.snap(); s.Main.State != InBattle || s.PlayerTurn.State != Action {
		t.Errorf("cancel during action resolution changed state to %v/%v", s.Main.State, s.PlayerTurn.State)
	}
}

func TestOptionCursorWraps(t *testing.T) {
	h := newHarness(t, 3, 5)
	h.enterBattle()

	tests := []struct {
		press func()
		want  int
	}{
		{h.previous, 4},
		{h.previous, 3},
		{h.next, 4},
		{h.next, 0},
		{h.next, 1},
	}

	for i, tt := range tests {
		tt.press()
		if got := h.snap().OptionCursor; got != tt.want {
			t.Errorf("step %d: OptionCursor = %d, want %d", i, got, tt.want)
		}
	}
}

func TestQueueResolvesInSelectionOrder(t *testing.T) {
	h := newHarness(t, 3, 5)
	h.enterBattle()

	// Ada picks A2, Brom picks A4 by wrapping backwards, Cleo picks A1.
	h.next()
	h.next()
	h.confirm()
	h.previous()
	h.confirm()
	h.next()
	h.confirm()

	h.resolvePlayerActions()

	var got []string
	for _, s := range h.spans.Ended() {
		if s.Name() != "battle.action" {
			continue
		}
		var actor, action string
		for _, kv := range s.Attributes() {
			switch kv.Key {
			case "actor":
				actor = kv.Value.AsString()
			case "action":
				action = kv.Value.AsString()
			}
		}
		got = append(got, actor+"/"+action)
	}

	want := []string{"Ada/A2", "Brom/A4", "Cleo/A1"}
	if len(got) != len(want) {
		t.Fatalf("resolved %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("resolution %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScenarioPrefaceTwoPress(t *testing.T) {
	h := newHarness(t, 3, 5)
	h.enterBattle()
	h.chooseAll()

	h.idle()
	s := h.snap()
	if s.Action.State != ActionPreface || s.Dialogue.Finished {
		t.Fatalf("Action = %v finished = %v, want unfinished preface", s.Action.State, s.Dialogue.Finished)
	}
	if s.Dialogue.Content != "Ada will A0." {
		t.Errorf("dialogue = %q, want %q", s.Dialogue.Content, "Ada will A0.")
	}
	if s.Current == nil || s.Current.Caller.Name != "Ada" || s.QueueLen != 2 {
		t.Errorf("current = %+v queue = %d, want Ada and 2 remaining", s.Current, s.QueueLen)
	}

	h.confirm()
	s = h.snap()
	if s.Action.State != ActionPreface || !s.Dialogue.Finished {
		t.Fatalf("first confirm: Action = %v finished = %v, want finished preface", s.Action.State, s.Dialogue.Finished)
	}
	if s.Text() != "Ada will A0." {
		t.Errorf("Text() after reveal = %q, want full line", s.Text())
	}

	h.confirm()
	s = h.snap()
	if s.Action.State != ActionAnimation {
		t.Fatalf("second confirm: Action = %v, want animation", s.Action.State)
	}
	if s.Dialogue.Started {
		t.Error("dialogue should be cleared when leaving the preface")
	}
}

func TestPrefaceAdvancesAfterTimedReveal(t *testing.T) {
	h := newHarness(t, 1, 1)
	h.enterBattle()
	h.confirm()

	h.runUntil("reveal", func(s Snapshot) bool { return s.Dialogue.Finished }, 200)
	h.confirm()
	if s := h.snap(); s.Action.State != ActionAnimation {
		t.Errorf("confirm on a revealed line: Action = %v, want animation", s.Action.State)
	}
}

func TestAnimationIgnoresInputAndWaits(t *testing.T) {
	h := newHarness(t, 1, 1)
	h.enterBattle()
	h.confirm()
	h.passGate()

	start := h.clock.now
	for h.snap().Action.State == ActionAnimation {
		h.confirm()
		if h.clock.now-start > AnimationTicks+2*frameTicks {
			t.Fatal("animation did not end")
		}
	}
	if elapsed := h.clock.now - start; elapsed < AnimationTicks {
		t.Errorf("animation ended after %d ticks, want at least %d", elapsed, AnimationTicks)
	}
	if s := h.snap(); s.Action.State != ActionConclusion {
		t.Errorf("Action = %v, want conclusion", s.Action.State)
	}
}

func TestConclusionLoopsThenHandsTurnToEnemy(t *testing.T) {
	h := newHarness(t, 2, 3)
	h.enterBattle()
	h.chooseAll()

	h.passGate()
	h.runUntil("conclusion", func(s Snapshot) bool { return s.Action.State == ActionConclusion }, 200)
	h.idle()
	if got := h.snap().Dialogue.Content; got != "Ada did A0." {
		t.Errorf("conclusion dialogue = %q, want %q", got, "Ada did A0.")
	}
	h.passGate()
	if s := h.snap(); s.Action.State != ActionPreface || s.Turn.State != TurnPlayer {
		t.Fatalf("after first conclusion: %v/%v, want preface/player", s.Action.State, s.Turn.State)
	}

	h.passGate()
	h.runUntil("conclusion", func(s Snapshot) bool { return s.Action.State == ActionConclusion }, 200)
	h.passGate()

	s := h.snap()
	if s.Turn.State != TurnEnemy || s.EnemyTurn.State != EnemyPreface {
		t.Fatalf("after last conclusion: %v/%v, want enemy/preface", s.Turn.State, s.EnemyTurn.State)
	}
	if s.QueueLen != 0 || s.Current != nil {
		t.Errorf("queue = %d current = %v, want drained", s.QueueLen, s.Current)
	}

	h.idle()
	if got := h.snap().Dialogue.Content; got != "Minion will attack! Prepare to dodge it all." {
		t.Errorf("enemy preface dialogue = %q", got)
	}
}

func TestScenarioMinigameClampsHitbox(t *testing.T) {
	tests := []struct {
		name string
		move geom.Vec2
		want geom.Vec2
	}{
		{"down right", geom.V(1, 1), geom.V(HitboxMax, HitboxMax)},
		{"up left", geom.V(-1, -1), geom.V(HitboxMin, HitboxMin)},
		{"left", geom.V(-1, 0), geom.V(HitboxMin, 0.5)},
	}

	for _, tt := range tests {
		h := newHarness(t, 1, 1)
		h.enterBattle()
		h.confirm()
		h.resolvePlayerActions()
		h.passGate()

		if s := h.snap(); s.EnemyTurn.State != EnemyMinigame || s.Hitbox != HitboxCenter {
			t.Fatalf("%s: setup = %v at %v, want minigame at center", tt.name, s.EnemyTurn.State, s.Hitbox)
		}

		// 0.42 of the arena at 0.75/s takes well under two seconds.
		for i := 0; i < 150; i++ {
			h.step(input.State{Move: tt.move})
			hb := h.snap().Hitbox
			if hb.X < HitboxMin || hb.X > HitboxMax || hb.Y < HitboxMin || hb.Y > HitboxMax {
				t.Fatalf("%s: hitbox %v left the arena", tt.name, hb)
			}
		}

		s := h.snap()
		if s.EnemyTurn.State != EnemyMinigame || !s.HitboxActive {
			t.Fatalf("%s: minigame ended early", tt.name)
		}
		if s.Hitbox != tt.want {
			t.Errorf("%s: Hitbox = %v, want %v", tt.name, s.Hitbox, tt.want)
		}
	}
}

func TestScenarioMinigameTimesOutWithoutInput(t *testing.T) {
	h := newHarness(t, 1, 1)
	h.enterBattle()
	h.confirm()
	h.resolvePlayerActions()
	h.passGate()

	start := h.clock.now
	h.runUntil("minigame timeout", func(s Snapshot) bool { return s.EnemyTurn.State == EnemyConclusion }, MinigameTicks/frameTicks+2)

	elapsed := h.clock.now - start
	if elapsed < MinigameTicks || elapsed >= MinigameTicks+frameTicks {
		t.Errorf("minigame lasted %d ticks, want %d", elapsed, MinigameTicks)
	}
	if got := h.snap().Hitbox; got != HitboxCenter {
		t.Errorf("Hitbox = %v, want %v", got, HitboxCenter)
	}
}

func TestEnemyConclusionReturnsToStrategy(t *testing.T) {
	h := newHarness(t, 3, 5)
	h.enterBattle()
	h.chooseAll()
	h.resolvePlayerActions()
	h.resolveEnemyTurn()

	s := h.snap()
	if s.Main.State != InBattle || s.Turn.State != TurnPlayer || s.PlayerTurn.State != Strategy {
		t.Fatalf("after enemy turn: %v/%v/%v, want battle/player/strategy", s.Main.State, s.Turn.State, s.PlayerTurn.State)
	}
	if s.CharacterCursor != 0 || s.OptionCursor != 0 || s.QueueLen != 0 {
		t.Errorf("cursors/queue = %d/%d/%d, want 0/0/0", s.CharacterCursor, s.OptionCursor, s.QueueLen)
	}
	if s.Round != 2 {
		t.Errorf("Round = %d, want 2", s.Round)
	}

	// A second round resolves from a fresh preface, not the stale conclusion.
	h.chooseAll()
	h.idle()
	if s := h.snap(); s.Action.State != ActionPreface || s.Dialogue.Content != "Ada will A0." {
		t.Errorf("second round starts at %v with %q", s.Action.State, s.Dialogue.Content)
	}
}

func TestFullRoundSpans(t *testing.T) {
	h := newHarness(t, 2, 2)
	h.enterBattle()
	h.chooseAll()
	h.resolvePlayerActions()
	h.resolveEnemyTurn()
	h.cancel()

	want := []string{"battle.start", "battle.action", "battle.action", "battle.enemy_turn", "battle.end"}
	got := h.spanNames()
	if len(got) != len(want) {
		t.Fatalf("spans = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("span %d = %s, want %s", i, got[i], want[i])
		}
	}
	if h.snap().Main.State != Exploration {
		t.Error("cancel at the start of round two should retreat")
	}
}

func TestSetRosterDeferredUntilExploration(t *testing.T) {
	h := newHarness(t, 3, 5)
	h.enterBattle()

	replacement := newTeam(t, 1, 2)
	h.o.SetRoster(replacement, &entity.Enemy{Name: "Slime", Action: "bounce"})
	h.idle()
	if got := len(h.snap().Party); got != 3 {
		t.Fatalf("party size during battle = %d, want 3", got)
	}

	h.cancel()
	h.idle()
	s := h.snap()
	if len(s.Party) != 1 || s.Enemy.Name != "Slime" {
		t.Errorf("after retreat: party = %d enemy = %s, want 1 and Slime", len(s.Party), s.Enemy.Name)
	}
}

func TestNewRejectsEmptyParty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New() with an empty party should panic")
		}
	}()
	New(&testClock{}, entity.NewParty(nil, geom.Vec2{}), nil)
}
