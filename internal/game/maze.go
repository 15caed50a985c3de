package game

import (
	"math/rand"
)

// Grid is one generated maze. Walls live on cell edges, not in cells:
// horiz[y][x] is the wall above row y at column x (row Height is the bottom
// boundary), vert[y][x] is the wall left of column x in row y (column Width
// is the right boundary). Boundary edges are always walled. Once Generate
// returns, a Grid never changes.
type Grid struct {
	Width  int
	Height int

	horiz [][]bool // (Height+1) rows of Width edges
	vert  [][]bool // Height rows of (Width+1) edges

	Start Point
	End   Point

	// SolutionPath is a shortest Start to End walk by edge count, both
	// endpoints included. Generation guarantees it is never empty.
	SolutionPath []Point

	carved [][]bool // cells reached while carving
}

// Generate carves a maze of the given size, taking every random decision
// from rng. The same source state and dimensions always yield the same
// maze, so callers wanting a fixed level seed their own source.
func Generate(width, height int, rng *rand.Rand) *Grid {
	g := newWalledGrid(width, height)
	g.Start = Point{rng.Intn(width), rng.Intn(height)}
	for {
		g.End = Point{rng.Intn(width), rng.Intn(height)}
		if g.End != g.Start {
			break
		}
	}
	g.carve(rng)
	g.ensurePathExists()
	g.SolutionPath = g.solve(g.Start, g.End)
	return g
}

// newWalledGrid allocates a grid with every edge walled.
func newWalledGrid(width, height int) *Grid {
	g := &Grid{Width: width, Height: height}
	g.horiz = make([][]bool, height+1)
	for y := range g.horiz {
		g.horiz[y] = make([]bool, width)
		for x := range g.horiz[y] {
			g.horiz[y][x] = true
		}
	}
	g.vert = make([][]bool, height)
	for y := range g.vert {
		g.vert[y] = make([]bool, width+1)
		for x := range g.vert[y] {
			g.vert[y][x] = true
		}
	}
	g.carved = make([][]bool, height)
	for y := range g.carved {
		g.carved[y] = make([]bool, width)
	}
	return g
}

// carve runs an iterative randomized depth-first search from Start. Each
// step gathers the unvisited neighbors of the stack top in cardinal order,
// knocks the wall toward one chosen uniformly, and descends; dead ends pop.
// A recursive version overflows on large grids, hence the explicit stack.
func (g *Grid) carve(rng *rand.Rand) {
	g.carved[g.Start.Y][g.Start.X] = true
	stack := []Point{g.Start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		candidates := make([]Point, 0, 4)
		for _, d := range cardinals {
			n := Point{cur.X + d.X, cur.Y + d.Y}
			if g.InBounds(n.X, n.Y) && !g.carved[n.Y][n.X] {
				candidates = append(candidates, n)
			}
		}
		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		next := candidates[rng.Intn(len(candidates))]
		g.removeWall(cur, next)
		g.carved[next.Y][next.X] = true
		stack = append(stack, next)
	}
}

// removeWall opens the shared edge between two adjacent in-bounds cells.
func (g *Grid) removeWall(a, b Point) {
	switch {
	case b.Y == a.Y-1:
		g.horiz[a.Y][a.X] = false
	case b.Y == a.Y+1:
		g.horiz[b.Y][b.X] = false
	case b.X == a.X-1:
		g.vert[a.Y][a.X] = false
	case b.X == a.X+1:
		g.vert[b.Y][b.X] = false
	}
}

// ensurePathExists force-carves a manhattan corridor from Start to End,
// horizontal leg first, if the maze came out disconnected. The full
// depth-first carve reaches every cell, so this is a guard that should
// never fire; it exists so a future carver change cannot ship an
// unwinnable maze.
func (g *Grid) ensurePathExists() {
	if g.reachable(g.Start, g.End) {
		return
	}
	cur := g.Start
	for cur.X != g.End.X {
		step := 1
		if g.End.X < cur.X {
			step = -1
		}
		next := Point{cur.X + step, cur.Y}
		g.removeWall(cur, next)
		g.carved[next.Y][next.X] = true
		cur = next
	}
	for cur.Y != g.End.Y {
		step := 1
		if g.End.Y < cur.Y {
			step = -1
		}
		next := Point{cur.X, cur.Y + step}
		g.removeWall(cur, next)
		g.carved[next.Y][next.X] = true
		cur = next
	}
}

// reachable reports whether a walk exists from one cell to another.
func (g *Grid) reachable(from, to Point) bool {
	return g.solve(from, to) != nil
}

// solve returns a shortest path between two cells by breadth-first search,
// both endpoints included, or nil when no walk exists. Neighbor expansion
// follows cardinal order, so ties always break the same way.
func (g *Grid) solve(from, to Point) []Point {
	if !g.InBounds(from.X, from.Y) || !g.InBounds(to.X, to.Y) {
		return nil
	}
	if from == to {
		return []Point{from}
	}
	parent := make(map[Point]Point, g.Width*g.Height)
	seen := make([]bool, g.Width*g.Height)
	seen[from.Y*g.Width+from.X] = true
	queue := []Point{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range cardinals {
			if !g.CanMove(cur.X, cur.Y, d.X, d.Y) {
				continue
			}
			n := Point{cur.X + d.X, cur.Y + d.Y}
			if seen[n.Y*g.Width+n.X] {
				continue
			}
			seen[n.Y*g.Width+n.X] = true
			parent[n] = cur
			if n == to {
				return buildPath(parent, from, to)
			}
			queue = append(queue, n)
		}
	}
	return nil
}

// buildPath walks the parent links back from the goal and reverses.
func buildPath(parent map[Point]Point, from, to Point) []Point {
	path := []Point{to}
	for cur := to; cur != from; {
		cur = parent[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// CanMove reports whether a unit step from (x, y) by (dx, dy) crosses no
// wall. Only the four cardinal unit steps can succeed; any other delta, or
// either endpoint out of bounds, reads as blocked.
func (g *Grid) CanMove(x, y, dx, dy int) bool {
	if !g.InBounds(x, y) || !g.InBounds(x+dx, y+dy) {
		return false
	}
	switch {
	case dx == 0 && dy == -1:
		return !g.horiz[y][x]
	case dx == 1 && dy == 0:
		return !g.vert[y][x+1]
	case dx == 0 && dy == 1:
		return !g.horiz[y+1][x]
	case dx == -1 && dy == 0:
		return !g.vert[y][x]
	default:
		return false
	}
}

// WallAbove reports the edge above cell (x, y); y may equal Height to read
// the bottom boundary. Out-of-range edges read as walled.
func (g *Grid) WallAbove(x, y int) bool {
	if y < 0 || y > g.Height || x < 0 || x >= g.Width {
		return true
	}
	return g.horiz[y][x]
}

// WallLeft reports the edge left of cell (x, y); x may equal Width to read
// the right boundary. Out-of-range edges read as walled.
func (g *Grid) WallLeft(x, y int) bool {
	if y < 0 || y >= g.Height || x < 0 || x > g.Width {
		return true
	}
	return g.vert[y][x]
}

// Walls returns deep copies of both wall arrays, shaped for export.
func (g *Grid) Walls() (horiz, vert [][]bool) {
	return copyWalls(g.horiz), copyWalls(g.vert)
}

func copyWalls(src [][]bool) [][]bool {
	out := make([][]bool, len(src))
	for i, row := range src {
		out[i] = make([]bool, len(row))
		copy(out[i], row)
	}
	return out
}

// TotalCells is the cell count of the grid.
func (g *Grid) TotalCells() int {
	return g.Width * g.Height
}

// gridFromWalls rebuilds a Grid from imported wall arrays. The caller has
// already validated dimensions, boundaries and endpoints; the arrays are
// deep-copied so the snapshot stays detached, and the solution is solved
// fresh rather than trusted.
func gridFromWalls(width, height int, horiz, vert [][]bool, start, end Point) *Grid {
	g := &Grid{
		Width:  width,
		Height: height,
		horiz:  copyWalls(horiz),
		vert:   copyWalls(vert),
		Start:  start,
		End:    end,
	}
	g.carved = make([][]bool, height)
	for y := range g.carved {
		g.carved[y] = make([]bool, width)
	}
	g.SolutionPath = g.solve(start, end)
	return g
}
