package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/skirmish/internal/battle"
)

const (
	// WorldWidth and WorldHeight are the exploration extents mapped onto the terminal.
	WorldWidth  = 800
	WorldHeight = 600

	arenaWidth  = 32
	arenaHeight = 12
	dialogRows  = 4

	hitboxRune = '♥'
)

// Canvas is the drawing surface the renderer targets. *Screen implements it.
type Canvas interface {
	Clear()
	Show()
	SetContent(x, y int, r rune, style tcell.Style)
	Size() (width, height int)
}

var (
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleCursor = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleHitbox = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	stylePanel  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
)

// Renderer handles drawing the game to the screen.
type Renderer struct {
	canvas Canvas
}

// NewRenderer creates a new renderer for the given canvas.
func NewRenderer(canvas Canvas) *Renderer {
	return &Renderer{canvas: canvas}
}

// Render draws one frame from the orchestrator snapshot.
func (r *Renderer) Render(s battle.Snapshot, paused bool) {
	r.canvas.Clear()

	switch s.Main.State {
	case battle.Exploration:
		r.drawExploration(s)
	case battle.InBattle:
		r.drawBattle(s)
	}

	if paused {
		w, _ := r.canvas.Size()
		r.text(w-len("PAUSED")-1, 0, "PAUSED", styleCursor)
	}

	r.canvas.Show()
}

func (r *Renderer) drawExploration(s battle.Snapshot) {
	w, h := r.canvas.Size()
	if w == 0 || h < 2 {
		return
	}

	x, y := worldToCell(s.Position.X, s.Position.Y, w, h-1)
	partyStyle := tcell.StyleDefault.
		Foreground(tcell.ColorYellow).
		Bold(true)
	r.canvas.SetContent(x, y, '&', partyStyle)

	r.RenderMessage("arrows/wasd move  enter battle  p pause  q quit", h-1)
}

// worldToCell scales an exploration position onto a w×h grid, pinned to its edges.
func worldToCell(wx, wy float64, w, h int) (int, int) {
	x := int(wx * float64(w) / WorldWidth)
	y := int(wy * float64(h) / WorldHeight)
	return clampInt(x, 0, w-1), clampInt(y, 0, h-1)
}

func (r *Renderer) drawBattle(s battle.Snapshot) {
	w, h := r.canvas.Size()

	header := fmt.Sprintf("round %d  %s", s.Round, phaseLabel(s))
	r.text(1, 0, header, styleDim)

	if s.Enemy != nil {
		glyph := s.Enemy.Symbol
		if glyph == 0 {
			glyph = '?'
		}
		style := tcell.StyleDefault.Foreground(s.Enemy.Color()).Bold(true)
		r.canvas.SetContent(w/2, 2, glyph, style)
		r.text(w/2-utf8.RuneCountInString(s.Enemy.Name)/2, 3, s.Enemy.Name, styleText)
	}

	if s.HitboxActive {
		r.drawArena(s, w, h)
	} else {
		menuTop := h - dialogRows - 2 - len(s.Party) - 2
		r.drawMenu(s, max(menuTop, 5))
	}
	r.drawDialogue(s, w, h)
}

func phaseLabel(s battle.Snapshot) string {
	if s.Turn.State == battle.TurnEnemy {
		return "enemy " + s.EnemyTurn.State.String()
	}
	if s.PlayerTurn.State == battle.Strategy {
		return "strategy"
	}
	return "action " + s.Action.State.String()
}

func (r *Renderer) drawMenu(s battle.Snapshot, top int) {
	selecting := s.Turn.State == battle.TurnPlayer && s.PlayerTurn.State == battle.Strategy

	for i, m := range s.Party {
		y := top + i
		style := tcell.StyleDefault.Foreground(m.Color)
		if selecting && i == s.CharacterCursor {
			r.canvas.SetContent(1, y, '>', styleCursor)
		}
		if s.Current != nil && s.Current.Caller == m {
			r.canvas.SetContent(1, y, '*', styleCursor)
		}
		r.canvas.SetContent(3, y, m.Symbol, style)
		r.text(5, y, fmt.Sprintf("%-8s %3d/%-3d", m.Name, m.HP, m.MaxHP), style)

		if !selecting || i != s.CharacterCursor {
			continue
		}
		x := 24
		for j, a := range m.Actions {
			opt := styleDim
			if j == s.OptionCursor {
				opt = styleCursor.Reverse(true)
			}
			r.text(x, y, a.Name, opt)
			x += utf8.RuneCountInString(a.Name) + 2
		}
	}

	r.text(1, top+len(s.Party), fmt.Sprintf("queued %d", s.QueueLen), styleDim)
}

func (r *Renderer) drawDialogue(s battle.Snapshot, w, h int) {
	top := h - dialogRows - 2
	r.box(1, top, w-2, dialogRows+2, stylePanel)

	lines := wrap(s.Text(), w-6)
	for i, line := range lines {
		if i >= dialogRows {
			break
		}
		r.text(3, top+1+i, line, stylePanel)
	}
	if s.Dialogue.Started && s.Dialogue.Finished {
		r.canvas.SetContent(w-4, top+dialogRows, '▼', stylePanel)
	}
}

func (r *Renderer) drawArena(s battle.Snapshot, w, h int) {
	left := (w - arenaWidth) / 2
	top := max((h-dialogRows-2-arenaHeight)/2, 5)
	r.box(left, top, arenaWidth, arenaHeight, styleBorder)

	x, y := HitboxCell(s.Hitbox.X, s.Hitbox.Y)
	r.canvas.SetContent(left+x, top+y, hitboxRune, styleHitbox)

	remaining := max(battle.MinigameTicks-s.EnemyTurn.Elapsed, 0)
	r.text(left, top+arenaHeight, fmt.Sprintf("%4.1fs", float64(remaining)/1000), styleDim)
}

// HitboxCell maps a normalized hitbox position to a cell inside the arena border.
func HitboxCell(nx, ny float64) (int, int) {
	x := 1 + int(nx*float64(arenaWidth-2))
	y := 1 + int(ny*float64(arenaHeight-2))
	return clampInt(x, 1, arenaWidth-2), clampInt(y, 1, arenaHeight-2)
}

// box draws a filled rectangle with a single-line border.
func (r *Renderer) box(x, y, w, h int, style tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			ch := ' '
			switch {
			case (row == y || row == y+h-1) && (col == x || col == x+w-1):
				ch = '+'
			case row == y || row == y+h-1:
				ch = '-'
			case col == x || col == x+w-1:
				ch = '|'
			}
			r.canvas.SetContent(col, row, ch, style)
		}
	}
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		r.canvas.SetContent(x, y, ch, style)
		x++
	}
}

// RenderMessage displays a message at the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	r.text(0, y, msg, styleText)
}

// wrap breaks s into lines of at most width runes on word boundaries.
func wrap(s string, width int) []string {
	if width <= 0 || s == "" {
		return nil
	}

	var lines []string
	var line strings.Builder
	n := 0
	for _, word := range strings.Fields(s) {
		wl := utf8.RuneCountInString(word)
		if n > 0 && n+1+wl > width {
			lines = append(lines, line.String())
			line.Reset()
			n = 0
		}
		if n > 0 {
			line.WriteByte(' ')
			n++
		}
		line.WriteString(word)
		n += wl
	}
	if n > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
