package game

import "math"

// Stats is a point-in-time summary of the current run, cheap enough to
// rebuild every frame.
type Stats struct {
	Moves           int
	ExploredCount   int
	TotalCells      int
	ExplorationRate int
	VisitedCount    int

	// Efficiency is distinct visited cells per hundred moves, rounded.
	// The start cell counts as visited before any move, so a fresh walk
	// with no backtracking reads above 100. The number is a diagnostic,
	// not a score, and is deliberately left unclamped.
	Efficiency int
}

// Stats summarizes the run as of this call.
func (g *Game) Stats() Stats {
	total := g.grid.TotalCells()
	s := Stats{
		Moves:           g.moves,
		ExploredCount:   g.vis.ExploredCount(),
		TotalCells:      total,
		ExplorationRate: g.vis.ExplorationRate(total),
		VisitedCount:    g.visited.Len(),
	}
	if g.moves > 0 {
		s.Efficiency = int(math.Round(100 * float64(s.VisitedCount) / float64(g.moves)))
	}
	return s
}
