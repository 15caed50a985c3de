package game

import (
	"fmt"
	"math/rand"
	"time"
)

// TestGame is a headless harness bundling a started Game with an attached
// Recorder. Tests and cmd/maze-report drive it; it has no render
// dependency, and with the default fixed seed every run is reproducible.
type TestGame struct {
	*Game
	Rec *Recorder
}

// gameOptionKind controls the pass in which an option is applied.
type gameOptionKind int

const (
	gameOptConfig gameOptionKind = iota // config fields, applied before the game exists
	gameOptGame                         // game wiring such as clocks, applied after
)

// GameOption is a builder function applied to a TestGame during construction.
type GameOption struct {
	kind gameOptionKind
	cfg  func(*Config)
	game func(*Game)
}

// WithSize sets the maze dimensions.
func WithSize(w, h int) GameOption {
	return GameOption{kind: gameOptConfig, cfg: func(c *Config) {
		c.Width = w
		c.Height = h
	}}
}

// WithSeed fixes the maze. Zero restores OS seeding.
func WithSeed(seed int64) GameOption {
	return GameOption{kind: gameOptConfig, cfg: func(c *Config) {
		c.Seed = seed
	}}
}

// WithMode selects the fog behavior.
func WithMode(m Mode) GameOption {
	return GameOption{kind: gameOptConfig, cfg: func(c *Config) {
		c.Mode = m
	}}
}

// WithViewRange sets the fog radius.
func WithViewRange(r int) GameOption {
	return GameOption{kind: gameOptConfig, cfg: func(c *Config) {
		c.ViewRange = r
	}}
}

// WithClock replaces the wall clock so tests can script elapsed time.
func WithClock(now func() time.Time) GameOption {
	return GameOption{kind: gameOptGame, game: func(g *Game) {
		g.now = now
	}}
}

// NewTestGame constructs a started game from the options in two ordered
// passes: config fields first, then game wiring, then Start. Defaults are
// a 15x15 permanent-fog maze on seed 1, so a bare NewTestGame() is already
// deterministic.
func NewTestGame(opts ...GameOption) *TestGame {
	cfg := DefaultConfig()
	cfg.Seed = 1
	for _, o := range opts {
		if o.kind == gameOptConfig {
			o.cfg(&cfg)
		}
	}
	g, err := NewGame(cfg)
	if err != nil {
		panic(fmt.Sprintf("harness: %v", err))
	}
	for _, o := range opts {
		if o.kind == gameOptGame {
			o.game(g)
		}
	}
	rec := NewRecorder()
	rec.Attach(g)
	g.Start()
	return &TestGame{Game: g, Rec: rec}
}

// WalkSolution replays the shortest path from the player's current cell to
// the exit, up to limit moves (0 means no limit). It returns the number of
// accepted moves; victory along the way is the normal exit.
func (tg *TestGame) WalkSolution(limit int) (int, error) {
	path := tg.Grid().SolutionPath
	if len(path) == 0 || tg.Player() != path[0] {
		path = tg.PathToExit()
	}
	moves := 0
	for i := 1; i < len(path); i++ {
		dx := path[i].X - path[i-1].X
		dy := path[i].Y - path[i-1].Y
		if err := tg.MovePlayer(dx, dy); err != nil {
			return moves, fmt.Errorf("step %d to %s: %w", i, path[i], err)
		}
		moves++
		if limit > 0 && moves >= limit {
			break
		}
	}
	return moves, nil
}

// RandomWalk takes up to n steps drawn from rng, counting only accepted
// moves, and stops early on victory. The caller owns the source, so walks
// are as reproducible as the maze itself.
func (tg *TestGame) RandomWalk(n int, rng *rand.Rand) int {
	moves := 0
	for i := 0; i < n && tg.Status() == StatusRunning; i++ {
		d := cardinals[rng.Intn(len(cardinals))]
		if tg.MovePlayer(d.X, d.Y) == nil {
			moves++
		}
	}
	return moves
}

// Summary formats the run state as one line for t.Log output.
func (tg *TestGame) Summary() string {
	st := tg.Stats()
	return fmt.Sprintf("status=%s outcome=%s player=%s moves=%d explored=%d/%d (%d%%) visited=%d efficiency=%d%%",
		tg.Status(), tg.Outcome(), tg.Player(),
		st.Moves, st.ExploredCount, st.TotalCells, st.ExplorationRate,
		st.VisitedCount, st.Efficiency)
}
