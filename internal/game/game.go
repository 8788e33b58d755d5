// Package game provides the main game loop: it feeds terminal input to the battle
// orchestrator at a fixed frame rate and renders the result.
package game

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/skirmish/internal/battle"
	"github.com/samdwyer/skirmish/internal/clock"
	"github.com/samdwyer/skirmish/internal/config"
	"github.com/samdwyer/skirmish/internal/entity"
	"github.com/samdwyer/skirmish/internal/gamedata"
	"github.com/samdwyer/skirmish/internal/geom"
	"github.com/samdwyer/skirmish/internal/input"
	"github.com/samdwyer/skirmish/internal/telemetry"
	"github.com/samdwyer/skirmish/internal/ui"
)

// StartPosition is where the party appears in exploration.
var StartPosition = geom.V(100, 200)

// Game holds the entire game state.
type Game struct {
	cfg      config.Config
	screen   *ui.Screen
	renderer *ui.Renderer
	keyboard *input.Keyboard
	clock    *clock.Frame
	battle   *battle.Orchestrator
	watcher  *gamedata.Watcher
	tracer   trace.Tracer
	running  bool
}

// New creates a new game instance on the terminal.
func New(cfg config.Config) (*Game, error) {
	roster, err := loadRoster(cfg.Roster)
	if err != nil {
		return nil, err
	}
	members, enemy, err := entity.BuildRoster(roster)
	if err != nil {
		return nil, fmt.Errorf("build roster: %w", err)
	}

	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	g := newGame(cfg, screen, members, enemy)
	g.screen = screen

	if cfg.WatchRoster {
		w, err := gamedata.NewWatcher(cfg.Roster)
		if err != nil {
			screen.Close()
			return nil, fmt.Errorf("watch roster: %w", err)
		}
		g.watcher = w
	}
	return g, nil
}

// newGame wires the game around an arbitrary canvas.
func newGame(cfg config.Config, canvas ui.Canvas, members []*entity.Character, enemy *entity.Enemy) *Game {
	clk := clock.NewFrame()
	party := entity.NewParty(members, StartPosition)
	return &Game{
		cfg:      cfg,
		renderer: ui.NewRenderer(canvas),
		keyboard: input.NewKeyboard(input.DefaultHold),
		clock:    clk,
		battle:   battle.New(clk, party, enemy),
		tracer:   telemetry.Tracer("game"),
		running:  true,
	}
}

func loadRoster(path string) (*gamedata.RosterFile, error) {
	if path == "" {
		return gamedata.LoadRoster()
	}
	return gamedata.LoadRosterFile(path)
}

// Run executes the main game loop until quit is requested or ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	defer g.Close()

	_, initSpan := g.tracer.Start(ctx, "game.init")
	initSpan.SetAttributes(
		attribute.Int("fps", g.cfg.FPS),
		attribute.Int("party.size", len(g.battle.Snapshot().Party)),
		attribute.String("roster", rosterSource(g.cfg.Roster)),
		attribute.Bool("roster.watch", g.watcher != nil),
	)
	initSpan.End()
	log.Printf("game started: fps=%d roster=%s", g.cfg.FPS, rosterSource(g.cfg.Roster))

	ticker := time.NewTicker(time.Second / time.Duration(g.cfg.FPS))
	defer ticker.Stop()

	var events <-chan tcell.Event
	if g.screen != nil {
		events = g.screen.Events()
	}
	var reloads <-chan string
	var watchErrs <-chan error
	if g.watcher != nil {
		reloads = g.watcher.Events
		watchErrs = g.watcher.Errors
	}

	last := time.Now()
	for g.running {
		select {
		case <-ctx.Done():
			g.running = false

		case ev, ok := <-events:
			if !ok {
				g.running = false
				continue
			}
			g.handleEvent(ev)

		case path, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			g.reloadRoster(ctx, path)

		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			log.Printf("roster watcher: %v", err)

		case now := <-ticker.C:
			g.frame(ctx, now.Sub(last), now)
			last = now
		}
	}

	log.Printf("game stopped")
	return nil
}

// handleEvent processes a single terminal event.
func (g *Game) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.keyboard.HandleKey(ev, ev.When())
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// frame advances the game by one tick of the loop and draws it.
func (g *Game) frame(ctx context.Context, elapsed time.Duration, now time.Time) {
	if g.keyboard.QuitRequested() {
		g.running = false
		return
	}
	if g.keyboard.TakePause() {
		g.clock.Toggle()
		log.Printf("paused=%v at tick %d", g.clock.Paused(), g.clock.Now())
	}

	in := g.keyboard.Frame(now)
	if !g.clock.Paused() {
		g.clock.Advance(elapsed)
		g.battle.Update(ctx, in)
	}

	g.renderer.Render(g.battle.Snapshot(), g.clock.Paused())
}

// reloadRoster rebuilds the roster from path. A bad file keeps the current roster.
func (g *Game) reloadRoster(ctx context.Context, path string) {
	_, span := g.tracer.Start(ctx, "roster.reload")
	defer span.End()
	span.SetAttributes(attribute.String("roster.path", path))

	r, err := gamedata.LoadRosterFile(path)
	if err != nil {
		span.RecordError(err)
		log.Printf("roster reload: %v", err)
		return
	}
	members, enemy, err := entity.BuildRoster(r)
	if err != nil {
		span.RecordError(err)
		log.Printf("roster reload: %v", err)
		return
	}

	g.battle.SetRoster(members, enemy)
	span.SetAttributes(attribute.Int("party.size", len(members)))
	log.Printf("roster reloaded from %s: %d members, enemy %s", path, len(members), enemy.Name)
}

func rosterSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			log.Printf("close roster watcher: %v", err)
		}
	}
	if g.screen != nil {
		g.screen.Close()
	}
}
