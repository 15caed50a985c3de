package game

import (
	"fmt"
	"time"
)

// State is the serializable face of the lifecycle machine, shaped as the
// flag set collaborators and save files expect. IsRunning covers paused
// games too; it only drops when the run ends.
type State struct {
	IsRunning  bool      `json:"isRunning"`
	IsPaused   bool      `json:"isPaused"`
	IsGameOver bool      `json:"isGameOver"`
	IsVictory  bool      `json:"isVictory"`
	Moves      int       `json:"moves"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
}

// State reports the lifecycle flags as of this call.
func (g *Game) State() State {
	return State{
		IsRunning:  g.status == StatusRunning || g.status == StatusPaused,
		IsPaused:   g.status == StatusPaused,
		IsGameOver: g.status == StatusOver,
		IsVictory:  g.outcome == OutcomeVictory,
		Moves:      g.moves,
		StartTime:  g.startTime,
		EndTime:    g.endTime,
	}
}

// SnapshotConfig records the level parameters of an exported game.
type SnapshotConfig struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Mode      string `json:"viewMode"`
	ViewRange int    `json:"viewRange"`
	Seed      int64  `json:"seed"`
}

// SnapshotMaze records the wall arrays and endpoints. The solution path is
// never exported; import solves it fresh from the walls.
type SnapshotMaze struct {
	Horizontal [][]bool `json:"horizontal"`
	Vertical   [][]bool `json:"vertical"`
	Start      Point    `json:"start"`
	End        Point    `json:"end"`
}

// Snapshot is the complete serializable state of a Game. Everything is a
// copy: mutating a snapshot never touches the game it came from.
type Snapshot struct {
	Config     SnapshotConfig     `json:"config"`
	Game       State              `json:"game"`
	Maze       SnapshotMaze       `json:"maze"`
	Player     Point              `json:"player"`
	Previous   Point              `json:"previousPlayer"`
	Visited    []Point            `json:"visited"`
	Discovered []Point            `json:"explored"`
	Visibility VisibilitySnapshot `json:"visibility"`
}

// Export captures the full game state with sorted coordinate lists and
// deep-copied wall arrays.
func (g *Game) Export() Snapshot {
	horiz, vert := g.grid.Walls()
	return Snapshot{
		Config: SnapshotConfig{
			Width:     g.cfg.Width,
			Height:    g.cfg.Height,
			Mode:      g.vis.Mode().String(),
			ViewRange: g.vis.ViewRange(),
			Seed:      g.cfg.Seed,
		},
		Game: g.State(),
		Maze: SnapshotMaze{
			Horizontal: horiz,
			Vertical:   vert,
			Start:      g.grid.Start,
			End:        g.grid.End,
		},
		Player:     g.player,
		Previous:   g.prevPlayer,
		Visited:    g.visited.Points(),
		Discovered: g.discovered.Points(),
		Visibility: g.vis.Snapshot(),
	}
}

// Import replaces the game's state with a snapshot. The snapshot is
// validated in full first and the game is untouched when any check fails.
// The solution path is solved fresh from the imported walls rather than
// trusted, and no events fire: loading a save is not play.
func (g *Game) Import(snap Snapshot) error {
	if err := snap.validate(); err != nil {
		return err
	}

	grid := gridFromWalls(
		snap.Config.Width, snap.Config.Height,
		snap.Maze.Horizontal, snap.Maze.Vertical,
		snap.Maze.Start, snap.Maze.End,
	)
	if grid.SolutionPath == nil {
		return &SnapshotError{Field: "maze", Reason: "end unreachable from start"}
	}
	mode, err := ParseMode(snap.Config.Mode)
	if err != nil {
		return &SnapshotError{Field: "config.viewMode", Reason: err.Error()}
	}
	vis := NewVisibility(grid, mode, snap.Config.ViewRange)
	if err := vis.Restore(snap.Visibility); err != nil {
		return err
	}

	g.cfg.Width = snap.Config.Width
	g.cfg.Height = snap.Config.Height
	g.cfg.Mode = mode
	g.cfg.ViewRange = vis.ViewRange()
	if snap.Config.Seed != 0 {
		g.cfg.Seed = snap.Config.Seed
		g.rng = newRand(snap.Config.Seed)
	}
	g.grid = grid
	g.vis = vis
	switch {
	case snap.Game.IsGameOver:
		g.status = StatusOver
	case snap.Game.IsPaused:
		g.status = StatusPaused
	case snap.Game.IsRunning:
		g.status = StatusRunning
	default:
		g.status = StatusNotStarted
	}
	switch {
	case snap.Game.IsVictory:
		g.outcome = OutcomeVictory
	case snap.Game.IsGameOver:
		g.outcome = OutcomeDefeat
	default:
		g.outcome = OutcomeNone
	}
	g.player = snap.Player
	g.prevPlayer = snap.Previous
	g.moves = snap.Game.Moves
	g.visited = cellSetOf(snap.Visited)
	g.discovered = cellSetOf(snap.Discovered)
	g.startTime = snap.Game.StartTime
	g.endTime = snap.Game.EndTime
	return nil
}

// validate checks structure and consistency without touching any game. It
// reports the first offending field.
func (s Snapshot) validate() error {
	w, h := s.Config.Width, s.Config.Height
	if w < MinMazeSize || w > MaxMazeSize {
		return &SnapshotError{Field: "config.width", Reason: fmt.Sprintf("%d outside %d..%d", w, MinMazeSize, MaxMazeSize)}
	}
	if h < MinMazeSize || h > MaxMazeSize {
		return &SnapshotError{Field: "config.height", Reason: fmt.Sprintf("%d outside %d..%d", h, MinMazeSize, MaxMazeSize)}
	}
	if _, err := ParseMode(s.Config.Mode); err != nil {
		return &SnapshotError{Field: "config.viewMode", Reason: err.Error()}
	}
	if s.Config.Mode != s.Visibility.Mode {
		return &SnapshotError{Field: "visibility.mode", Reason: "does not match config.viewMode"}
	}
	if s.Config.ViewRange != s.Visibility.ViewRange {
		return &SnapshotError{Field: "visibility.viewRange", Reason: "does not match config.viewRange"}
	}

	if len(s.Maze.Horizontal) != h+1 {
		return &SnapshotError{Field: "maze.horizontal", Reason: fmt.Sprintf("want %d rows, got %d", h+1, len(s.Maze.Horizontal))}
	}
	for y, row := range s.Maze.Horizontal {
		if len(row) != w {
			return &SnapshotError{Field: "maze.horizontal", Reason: fmt.Sprintf("row %d: want %d edges, got %d", y, w, len(row))}
		}
	}
	if len(s.Maze.Vertical) != h {
		return &SnapshotError{Field: "maze.vertical", Reason: fmt.Sprintf("want %d rows, got %d", h, len(s.Maze.Vertical))}
	}
	for y, row := range s.Maze.Vertical {
		if len(row) != w+1 {
			return &SnapshotError{Field: "maze.vertical", Reason: fmt.Sprintf("row %d: want %d edges, got %d", y, w+1, len(row))}
		}
	}
	for x := 0; x < w; x++ {
		if !s.Maze.Horizontal[0][x] || !s.Maze.Horizontal[h][x] {
			return &SnapshotError{Field: "maze.horizontal", Reason: fmt.Sprintf("boundary edge open at column %d", x)}
		}
	}
	for y := 0; y < h; y++ {
		if !s.Maze.Vertical[y][0] || !s.Maze.Vertical[y][w] {
			return &SnapshotError{Field: "maze.vertical", Reason: fmt.Sprintf("boundary edge open at row %d", y)}
		}
	}

	inBounds := func(p Point) bool {
		return p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h
	}
	if !inBounds(s.Maze.Start) {
		return &SnapshotError{Field: "maze.start", Reason: fmt.Sprintf("cell %v outside grid", s.Maze.Start)}
	}
	if !inBounds(s.Maze.End) {
		return &SnapshotError{Field: "maze.end", Reason: fmt.Sprintf("cell %v outside grid", s.Maze.End)}
	}
	if s.Maze.Start == s.Maze.End {
		return &SnapshotError{Field: "maze.end", Reason: "equals start"}
	}
	if !inBounds(s.Player) {
		return &SnapshotError{Field: "player", Reason: fmt.Sprintf("cell %v outside grid", s.Player)}
	}
	if !inBounds(s.Previous) {
		return &SnapshotError{Field: "previousPlayer", Reason: fmt.Sprintf("cell %v outside grid", s.Previous)}
	}
	for _, p := range s.Visited {
		if !inBounds(p) {
			return &SnapshotError{Field: "visited", Reason: fmt.Sprintf("cell %v outside grid", p)}
		}
	}
	for _, p := range s.Discovered {
		if !inBounds(p) {
			return &SnapshotError{Field: "explored", Reason: fmt.Sprintf("cell %v outside grid", p)}
		}
	}

	if s.Game.Moves < 0 {
		return &SnapshotError{Field: "game.moves", Reason: "negative"}
	}
	if s.Game.IsPaused && !s.Game.IsRunning {
		return &SnapshotError{Field: "game.isPaused", Reason: "paused game must still be running"}
	}
	if s.Game.IsVictory && !s.Game.IsGameOver {
		return &SnapshotError{Field: "game.isVictory", Reason: "victory implies game over"}
	}
	if s.Game.IsRunning && s.Game.StartTime.IsZero() {
		return &SnapshotError{Field: "game.startTime", Reason: "missing for a running game"}
	}
	return nil
}
