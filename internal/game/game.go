package game

import (
	"fmt"
	"math/rand"
	"time"
)

// Game drives one maze run. It owns the grid, the visibility tracker, the
// authoritative player position and the lifecycle state machine, and it
// publishes every state change through the event registry. Methods are
// synchronous and never block; drive a Game from a single goroutine and
// wrap it when collaborators live on other ones.
type Game struct {
	cfg  Config
	grid *Grid
	vis  *Visibility

	status  Status
	outcome Outcome

	player     Point
	prevPlayer Point
	moves      int

	visited    cellSet // cells the player has stood on, start included
	discovered cellSet // cells ever revealed, drives explored events

	startTime time.Time
	endTime   time.Time

	rng    *rand.Rand
	events *events
	now    func() time.Time
}

// NewGame builds a game from cfg. Dimensions and view range are clamped
// into the supported bounds; a zero seed is resolved from the OS so
// distinct runs still get distinct mazes. The game comes up in
// StatusNotStarted with the area around the start cell already revealed,
// ready to render a first frame.
func NewGame(cfg Config) (*Game, error) {
	cfg = cfg.normalized()
	if cfg.Seed == 0 {
		seed, err := NewSeed()
		if err != nil {
			return nil, fmt.Errorf("resolve seed: %w", err)
		}
		cfg.Seed = seed
	}
	g := &Game{
		cfg:    cfg,
		rng:    newRand(cfg.Seed),
		events: newEvents(),
		now:    time.Now,
	}
	g.resetRun(cfg.Mode, cfg.ViewRange)
	return g, nil
}

// resetRun draws the next maze from the game's random stream and resets
// every piece of per-run state. mode and viewRange carry the player's
// current preferences, which survive restarts. The initial reveal around
// the start cell seeds discovery silently: exploration events only ever
// fire from MovePlayer.
func (g *Game) resetRun(mode Mode, viewRange int) {
	g.grid = Generate(g.cfg.Width, g.cfg.Height, g.rng)
	g.vis = NewVisibility(g.grid, mode, viewRange)
	g.status = StatusNotStarted
	g.outcome = OutcomeNone
	g.player = g.grid.Start
	g.prevPlayer = g.grid.Start
	g.moves = 0
	g.visited = newCellSet(64)
	g.visited.Add(g.player)
	g.discovered = newCellSet(64)
	g.startTime = time.Time{}
	g.endTime = time.Time{}
	for _, c := range g.vis.Update(g.player) {
		g.discovered.Add(c)
	}
}

// Start begins play. It does nothing unless the game is fresh; use Restart
// to abandon a run in progress.
func (g *Game) Start() {
	if g.status != StatusNotStarted {
		return
	}
	g.status = StatusRunning
	g.startTime = g.now()
	g.emitStart()
}

// Restart abandons the current run, draws the next maze from the game's
// random stream and enters play immediately. View mode and range survive.
func (g *Game) Restart() {
	mode, viewRange := g.vis.Mode(), g.vis.ViewRange()
	g.resetRun(mode, viewRange)
	g.status = StatusRunning
	g.startTime = g.now()
	g.emitStart()
}

func (g *Game) emitStart() {
	g.events.emit(StartEvent{
		Width:  g.grid.Width,
		Height: g.grid.Height,
		Start:  g.grid.Start,
		End:    g.grid.End,
		At:     g.startTime,
	})
}

// TogglePause flips Running to Paused and back. Before start and after the
// end it does nothing.
func (g *Game) TogglePause() {
	switch g.status {
	case StatusRunning:
		g.status = StatusPaused
	case StatusPaused:
		g.status = StatusRunning
	}
}

// GameOver ends a running game in defeat. Hosts call it to apply external
// policies such as move or wall-clock limits; a paused game must be
// resumed before it can be ended this way.
func (g *Game) GameOver() {
	if g.status != StatusRunning {
		return
	}
	g.status = StatusOver
	g.outcome = OutcomeDefeat
	g.endTime = g.now()
	g.events.emit(GameOverEvent{Moves: g.moves, ElapsedSeconds: g.elapsedSeconds()})
}

// MovePlayer attempts a unit cardinal step. Rejections return a sentinel
// error and change nothing, not even counters. An accepted move advances
// the player, refreshes visibility and publishes events in a fixed order:
// the move itself, one exploration event per newly discovered cell, then
// victory if the step landed on the end cell. Victory flips the machine to
// StatusOver within the same call.
func (g *Game) MovePlayer(dx, dy int) error {
	switch g.status {
	case StatusNotStarted:
		return ErrNotRunning
	case StatusPaused:
		return ErrPaused
	case StatusOver:
		return ErrGameOver
	}
	if !unitCardinal(dx, dy) {
		return ErrInvalidDirection
	}
	dest := Point{g.player.X + dx, g.player.Y + dy}
	if !g.grid.InBounds(dest.X, dest.Y) {
		return ErrOutOfBounds
	}
	if !g.grid.CanMove(g.player.X, g.player.Y, dx, dy) {
		return ErrWallBlocked
	}

	from := g.player
	g.prevPlayer = from
	g.player = dest
	g.moves++
	g.visited.Add(dest)

	visible := g.vis.Update(dest)
	g.events.emit(MoveEvent{From: from, To: dest, Moves: g.moves})
	total := g.grid.TotalCells()
	for _, c := range visible {
		if g.discovered.Has(c) {
			continue
		}
		g.discovered.Add(c)
		g.events.emit(ExploredEvent{Cell: c, Explored: g.discovered.Len(), Total: total})
	}
	// A subscriber may have ended the run mid-cascade; victory only fires
	// from a game that is still running.
	if dest == g.grid.End && g.status == StatusRunning {
		g.status = StatusOver
		g.outcome = OutcomeVictory
		g.endTime = g.now()
		g.events.emit(VictoryEvent{
			Moves:           g.moves,
			ElapsedSeconds:  g.elapsedSeconds(),
			ExplorationRate: g.vis.ExplorationRate(total),
			Explored:        g.vis.ExploredCount(),
			Total:           total,
		})
	}
	return nil
}

// unitCardinal reports whether (dx, dy) is one of the four unit steps.
func unitCardinal(dx, dy int) bool {
	return (dx == 0) != (dy == 0) && abs(dx) <= 1 && abs(dy) <= 1
}

// SetViewMode switches fog behavior and refreshes visibility at the
// player's cell so the change shows without waiting for a move.
func (g *Game) SetViewMode(m Mode) {
	g.vis.SetMode(m)
	g.vis.Update(g.player)
}

// SetViewRange adjusts the fog radius, clamped, and refreshes visibility.
func (g *Game) SetViewRange(r int) {
	g.vis.SetViewRange(r)
	g.vis.Update(g.player)
}

// Subscribe registers fn for one event kind and returns a token for
// Unsubscribe.
func (g *Game) Subscribe(kind EventKind, fn Handler) int {
	return g.events.Subscribe(kind, fn)
}

func (g *Game) Unsubscribe(kind EventKind, id int) {
	g.events.Unsubscribe(kind, id)
}

func (g *Game) Grid() *Grid { return g.grid }

func (g *Game) Visibility() *Visibility { return g.vis }

func (g *Game) Status() Status { return g.status }

func (g *Game) Outcome() Outcome { return g.outcome }

func (g *Game) Player() Point { return g.player }

// PrevPlayer is the cell occupied before the last accepted move. The UI
// tweens between the two.
func (g *Game) PrevPlayer() Point { return g.prevPlayer }

func (g *Game) Moves() int { return g.moves }

func (g *Game) Config() Config { return g.cfg }

// ShareCode encodes this game's level so another player can load the exact
// same maze.
func (g *Game) ShareCode() string { return g.cfg.ShareCode() }

// PathToExit solves the shortest walk from the player's current cell to
// the end. The hint overlay draws its first steps.
func (g *Game) PathToExit() []Point {
	return g.grid.solve(g.player, g.grid.End)
}

// Elapsed is the wall-clock span of the run so far, or of the whole run
// once the game is over. Zero before start.
func (g *Game) Elapsed() time.Duration {
	if g.startTime.IsZero() {
		return 0
	}
	end := g.endTime
	if end.IsZero() {
		end = g.now()
	}
	return end.Sub(g.startTime)
}

func (g *Game) elapsedSeconds() float64 {
	return g.Elapsed().Seconds()
}
