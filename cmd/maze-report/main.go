package main

import (
	"flag"
	"fmt"

	"github.com/Garsondee/Maze-Sense/internal/game"
)

type runStats struct {
	runIndex int
	seed     int64

	solutionCells int // cells on the shortest walk, endpoints included
	solutionMoves int
	manhattan     int // straight-line lower bound on the solution moves

	walked          bool
	moves           int
	visitedCount    int
	efficiency      int
	exploredCount   int
	totalCells      int
	explorationRate int
	exploredEvents  int
	moveEvents      int
	victory         bool
	victoryElapsed  float64

	ascii  string // rendered maze, set by -print
	stream string // recorded event log, set by -verbose
}

func main() {
	var count int
	var width int
	var height int
	var seedBase int64
	var seedStep int64
	var modeName string
	var viewRange int
	var walk bool
	var verbose bool
	var printMaze bool

	flag.IntVar(&count, "count", 5, "number of mazes to generate")
	flag.IntVar(&width, "width", game.DefaultWidth, "maze width in cells")
	flag.IntVar(&height, "height", game.DefaultHeight, "maze height in cells")
	flag.Int64Var(&seedBase, "seed", 42, "seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&modeName, "mode", "permanent", "fog mode: permanent or instant")
	flag.IntVar(&viewRange, "range", game.DefaultViewRange, "view range in cells")
	flag.BoolVar(&walk, "walk", false, "play each solution through the game loop")
	flag.BoolVar(&verbose, "verbose", false, "dump the recorded event stream per run")
	flag.BoolVar(&printMaze, "print", false, "render each maze as ASCII")
	flag.Parse()

	if count <= 0 {
		fmt.Println("error: -count must be > 0")
		return
	}
	if width < game.MinMazeSize || width > game.MaxMazeSize ||
		height < game.MinMazeSize || height > game.MaxMazeSize {
		fmt.Printf("error: -width and -height must be in %d..%d\n", game.MinMazeSize, game.MaxMazeSize)
		return
	}
	if viewRange < game.MinViewRange || viewRange > game.MaxViewRange {
		fmt.Printf("error: -range must be in %d..%d\n", game.MinViewRange, game.MaxViewRange)
		return
	}
	mode, err := game.ParseMode(modeName)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	fmt.Printf("=== Maze Report ===\n")
	fmt.Printf("size=%dx%d mode=%s range=%d count=%d seed=%d seed_step=%d walk=%v\n\n",
		width, height, modeName, viewRange, count, seedBase, seedStep, walk)

	all := make([]runStats, 0, count)
	for i := 0; i < count; i++ {
		seed := seedBase + int64(i)*seedStep
		rs := runOnce(i+1, seed, width, height, mode, viewRange, walk, verbose, printMaze)
		all = append(all, rs)
		printRun(rs)
	}

	printAggregate(all)
}

// runOnce generates one maze and, with -walk, plays its solution through
// the real game loop with a recorder attached.
func runOnce(runIndex int, seed int64, width, height int, mode game.Mode, viewRange int, walk, verbose, printMaze bool) runStats {
	tg := game.NewTestGame(
		game.WithSize(width, height),
		game.WithSeed(seed),
		game.WithMode(mode),
		game.WithViewRange(viewRange),
	)
	grid := tg.Grid()
	rs := runStats{
		runIndex:      runIndex,
		seed:          seed,
		solutionCells: len(grid.SolutionPath),
		solutionMoves: len(grid.SolutionPath) - 1,
		manhattan:     manhattan(grid.Start, grid.End),
	}

	if walk {
		moves, err := tg.WalkSolution(0)
		if err != nil {
			fmt.Printf("error: run %d walk: %v\n", runIndex, err)
		}
		st := tg.Stats()
		rs.walked = true
		rs.moves = moves
		rs.visitedCount = st.VisitedCount
		rs.efficiency = st.Efficiency
		rs.exploredCount = st.ExploredCount
		rs.totalCells = st.TotalCells
		rs.explorationRate = st.ExplorationRate
		rs.exploredEvents = tg.Rec.Count(game.EventExplored)
		rs.moveEvents = tg.Rec.Count(game.EventMove)
		if last, ok := tg.Rec.Last(game.EventVictory); ok {
			rs.victory = true
			rs.victoryElapsed = last.Event.(game.VictoryEvent).ElapsedSeconds
		}
	}

	if printMaze {
		opts := game.ASCIIOptions{Solution: true}
		if walk {
			p := tg.Player()
			opts.Player = &p
		}
		rs.ascii = game.RenderASCII(grid, opts)
	}
	if verbose {
		rs.stream = tg.Rec.Format()
	}
	return rs
}

func manhattan(a, b game.Point) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// directness is the manhattan distance between the endpoints over the
// solution moves: 1.0 means the shortest walk never deviates, low values
// mean long detours.
func directness(dist, solutionMoves int) float64 {
	if solutionMoves <= 0 {
		return 1
	}
	return float64(dist) / float64(solutionMoves)
}

// classifyMaze labels how winding a maze's solution is and reports the
// threshold that fired.
func classifyMaze(rs runStats) (string, string) {
	d := directness(rs.manhattan, rs.solutionMoves)
	switch {
	case d >= 0.8:
		return "direct", fmt.Sprintf("directness=%.2f>=0.80", d)
	case d >= 0.4:
		return "winding", fmt.Sprintf("directness=%.2f in 0.40..0.80", d)
	default:
		return "serpentine", fmt.Sprintf("directness=%.2f<0.40", d)
	}
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	shape, reason := classifyMaze(rs)
	fmt.Printf("maze: solution_cells=%d solution_moves=%d manhattan=%d shape=%s (%s)\n",
		rs.solutionCells, rs.solutionMoves, rs.manhattan, shape, reason)
	if rs.walked {
		fmt.Printf("walk: moves=%d visited=%d efficiency=%d%% explored=%d/%d (%d%%) explored_events=%d move_events=%d victory=%v elapsed=%.1fs\n",
			rs.moves, rs.visitedCount, rs.efficiency,
			rs.exploredCount, rs.totalCells, rs.explorationRate,
			rs.exploredEvents, rs.moveEvents, rs.victory, rs.victoryElapsed)
	}
	if rs.ascii != "" {
		fmt.Print(rs.ascii)
	}
	if rs.stream != "" {
		fmt.Print(rs.stream)
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))

	solutions := make([]int, 0, len(all))
	shapes := map[string]int{}
	for _, rs := range all {
		solutions = append(solutions, rs.solutionMoves)
		shape, _ := classifyMaze(rs)
		shapes[shape]++
	}
	lo, hi, mean := minMaxAvg(solutions)
	fmt.Printf("solution_moves: min=%d max=%d avg=%.1f\n", lo, hi, mean)
	fmt.Printf("shapes: direct=%d winding=%d serpentine=%d\n",
		shapes["direct"], shapes["winding"], shapes["serpentine"])

	walked := 0
	victories := 0
	totalMoves := 0
	totalEfficiency := 0
	totalRate := 0
	totalExplored := 0
	for _, rs := range all {
		if !rs.walked {
			continue
		}
		walked++
		if rs.victory {
			victories++
		}
		totalMoves += rs.moves
		totalEfficiency += rs.efficiency
		totalRate += rs.explorationRate
		totalExplored += rs.exploredEvents
	}
	if walked > 0 {
		fmt.Printf("walks=%d victories=%d\n", walked, victories)
		fmt.Printf("walk_avgs: moves=%.1f efficiency=%.1f%% exploration_rate=%.1f%% explored_events=%.1f\n",
			avg(totalMoves, walked), avg(totalEfficiency, walked), avg(totalRate, walked), avg(totalExplored, walked))
	}
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func minMaxAvg(vals []int) (int, int, float64) {
	if len(vals) == 0 {
		return 0, 0, 0
	}
	lo, hi, sum := vals[0], vals[0], 0
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
		sum += v
	}
	return lo, hi, float64(sum) / float64(len(vals))
}
