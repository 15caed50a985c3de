package game

import (
	"math/rand"
	"reflect"
	"testing"
)

// --- Shared grid helpers ---

// newOpenGrid builds a grid with every interior edge open and the boundary
// walled, bypassing generation. Tests use it when exact sight lines and
// distances matter.
func newOpenGrid(w, h int) *Grid {
	g := newWalledGrid(w, h)
	for y := 1; y < h; y++ {
		for x := 0; x < w; x++ {
			g.horiz[y][x] = false
		}
	}
	for y := 0; y < h; y++ {
		for x := 1; x < w; x++ {
			g.vert[y][x] = false
		}
	}
	g.Start = Point{0, 0}
	g.End = Point{w - 1, h - 1}
	g.SolutionPath = g.solve(g.Start, g.End)
	return g
}

func testRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) // #nosec G404 -- fixed seeds keep tests reproducible
}

// floodCount returns how many cells a breadth-first flood from p reaches,
// independently of Grid.solve.
func floodCount(g *Grid, p Point) int {
	seen := map[Point]bool{p: true}
	queue := []Point{p}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range cardinals {
			if !g.CanMove(cur.X, cur.Y, d.X, d.Y) {
				continue
			}
			n := Point{cur.X + d.X, cur.Y + d.Y}
			if seen[n] {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return len(seen)
}

// bfsDistance returns the edge-count distance between two cells, again
// independently of Grid.solve, or -1 when unreachable.
func bfsDistance(g *Grid, from, to Point) int {
	dist := map[Point]int{from: 0}
	queue := []Point{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			return dist[cur]
		}
		for _, d := range cardinals {
			if !g.CanMove(cur.X, cur.Y, d.X, d.Y) {
				continue
			}
			n := Point{cur.X + d.X, cur.Y + d.Y}
			if _, ok := dist[n]; ok {
				continue
			}
			dist[n] = dist[cur] + 1
			queue = append(queue, n)
		}
	}
	return -1
}

// --- Generation ---

func TestGenerate_FullConnectivity(t *testing.T) {
	sizes := []struct{ w, h int }{{2, 2}, {3, 3}, {5, 5}, {12, 9}, {30, 30}}
	for _, size := range sizes {
		for seed := int64(1); seed <= 5; seed++ {
			g := Generate(size.w, size.h, testRand(seed))
			if got := floodCount(g, g.Start); got != g.TotalCells() {
				t.Errorf("%dx%d seed %d: flood reaches %d of %d cells",
					size.w, size.h, seed, got, g.TotalCells())
			}
		}
	}
}

func TestGenerate_StartEndDistinct(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		g := Generate(5, 5, testRand(seed))
		if g.Start == g.End {
			t.Errorf("seed %d: start and end both at %s", seed, g.Start)
		}
	}
}

func TestGenerate_BoundaryAlwaysWalled(t *testing.T) {
	g := Generate(9, 7, testRand(3))
	for x := 0; x < g.Width; x++ {
		if !g.WallAbove(x, 0) {
			t.Errorf("top boundary open at column %d", x)
		}
		if !g.WallAbove(x, g.Height) {
			t.Errorf("bottom boundary open at column %d", x)
		}
	}
	for y := 0; y < g.Height; y++ {
		if !g.WallLeft(0, y) {
			t.Errorf("left boundary open at row %d", y)
		}
		if !g.WallLeft(g.Width, y) {
			t.Errorf("right boundary open at row %d", y)
		}
	}
	for x := 0; x < g.Width; x++ {
		if g.CanMove(x, 0, 0, -1) {
			t.Errorf("can step off the top at column %d", x)
		}
		if g.CanMove(x, g.Height-1, 0, 1) {
			t.Errorf("can step off the bottom at column %d", x)
		}
	}
	for y := 0; y < g.Height; y++ {
		if g.CanMove(0, y, -1, 0) {
			t.Errorf("can step off the left at row %d", y)
		}
		if g.CanMove(g.Width-1, y, 1, 0) {
			t.Errorf("can step off the right at row %d", y)
		}
	}
}

func TestCanMove_Symmetry(t *testing.T) {
	g := Generate(12, 9, testRand(7))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			for _, d := range cardinals {
				there := g.CanMove(x, y, d.X, d.Y)
				if !g.InBounds(x+d.X, y+d.Y) {
					if there {
						t.Fatalf("(%d,%d) step (%d,%d): passable into out-of-bounds", x, y, d.X, d.Y)
					}
					continue
				}
				back := g.CanMove(x+d.X, y+d.Y, -d.X, -d.Y)
				if there != back {
					t.Errorf("(%d,%d) step (%d,%d): %v forward but %v back", x, y, d.X, d.Y, there, back)
				}
			}
		}
	}
}

func TestCanMove_RejectsNonUnitSteps(t *testing.T) {
	g := newOpenGrid(5, 5)
	bad := []Point{{0, 0}, {1, 1}, {-1, -1}, {1, -1}, {2, 0}, {0, 2}, {-2, 0}, {3, 3}}
	for _, d := range bad {
		if g.CanMove(2, 2, d.X, d.Y) {
			t.Errorf("step (%d,%d) from center of open grid should be rejected", d.X, d.Y)
		}
	}
}

// --- Solution path ---

func TestGenerate_SolutionConnectsStartToEnd(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		g := Generate(12, 9, testRand(seed))
		path := g.SolutionPath
		if len(path) < 2 {
			t.Fatalf("seed %d: solution has %d cells", seed, len(path))
		}
		if path[0] != g.Start {
			t.Errorf("seed %d: solution begins at %s, start is %s", seed, path[0], g.Start)
		}
		if path[len(path)-1] != g.End {
			t.Errorf("seed %d: solution ends at %s, end is %s", seed, path[len(path)-1], g.End)
		}
		for i := 1; i < len(path); i++ {
			dx := path[i].X - path[i-1].X
			dy := path[i].Y - path[i-1].Y
			if !unitCardinal(dx, dy) {
				t.Fatalf("seed %d: step %d is (%d,%d), not a unit cardinal", seed, i, dx, dy)
			}
			if !g.CanMove(path[i-1].X, path[i-1].Y, dx, dy) {
				t.Fatalf("seed %d: step %d crosses a wall at %s", seed, i, path[i-1])
			}
		}
	}
}

func TestGenerate_SolutionIsShortest(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		g := Generate(12, 9, testRand(seed))
		want := bfsDistance(g, g.Start, g.End)
		if got := len(g.SolutionPath) - 1; got != want {
			t.Errorf("seed %d: solution takes %d moves, independent search says %d", seed, got, want)
		}
	}
}

// --- Determinism ---

func TestGenerate_SameSeedSameMaze(t *testing.T) {
	a := Generate(12, 9, testRand(42))
	b := Generate(12, 9, testRand(42))
	ah, av := a.Walls()
	bh, bv := b.Walls()
	if !reflect.DeepEqual(ah, bh) || !reflect.DeepEqual(av, bv) {
		t.Error("same seed produced different wall arrays")
	}
	if a.Start != b.Start || a.End != b.End {
		t.Errorf("same seed produced different endpoints: %s/%s vs %s/%s", a.Start, a.End, b.Start, b.End)
	}
	if !reflect.DeepEqual(a.SolutionPath, b.SolutionPath) {
		t.Error("same seed produced different solutions")
	}
	if RenderASCII(a, ASCIIOptions{}) != RenderASCII(b, ASCIIOptions{}) {
		t.Error("same seed produced different renderings")
	}
}

func TestGenerate_DifferentSeedsDiffer(t *testing.T) {
	a := Generate(12, 9, testRand(1))
	b := Generate(12, 9, testRand(2))
	if RenderASCII(a, ASCIIOptions{}) == RenderASCII(b, ASCIIOptions{}) {
		t.Error("seeds 1 and 2 produced identical mazes")
	}
}

// --- Fallback corridor ---

func TestEnsurePathExists_CarvesManhattanCorridor(t *testing.T) {
	// A fully walled grid never comes out of the carver, so drive the
	// guard directly.
	g := newWalledGrid(6, 5)
	g.Start = Point{1, 1}
	g.End = Point{4, 3}
	g.ensurePathExists()

	if !g.reachable(g.Start, g.End) {
		t.Fatal("end still unreachable after forced carve")
	}
	want := []Point{{1, 1}, {2, 1}, {3, 1}, {4, 1}, {4, 2}, {4, 3}}
	for i := 1; i < len(want); i++ {
		dx := want[i].X - want[i-1].X
		dy := want[i].Y - want[i-1].Y
		if !g.CanMove(want[i-1].X, want[i-1].Y, dx, dy) {
			t.Errorf("forced corridor blocked at %s -> %s", want[i-1], want[i])
		}
	}
	if got := g.solve(g.Start, g.End); !reflect.DeepEqual(got, want) {
		t.Errorf("forced corridor is %v, want horizontal-first %v", got, want)
	}
}

func TestGridFromWalls_DetachesFromInput(t *testing.T) {
	src := Generate(5, 5, testRand(9))
	horiz, vert := src.Walls()
	g := gridFromWalls(5, 5, horiz, vert, src.Start, src.End)

	for y := range horiz {
		for x := range horiz[y] {
			horiz[y][x] = !horiz[y][x]
		}
	}
	gh, _ := g.Walls()
	sh, _ := src.Walls()
	if !reflect.DeepEqual(gh, sh) {
		t.Error("mutating input arrays changed the rebuilt grid")
	}
	if !reflect.DeepEqual(g.SolutionPath, src.SolutionPath) {
		t.Error("rebuilt grid solved a different path than the source")
	}
}
