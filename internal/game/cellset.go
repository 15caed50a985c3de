package game

// cellSet is a set of grid cells keyed by coordinate. The map form keeps
// membership checks O(1) without tying the set to one grid's dimensions.
type cellSet map[Point]struct{}

func newCellSet(capacity int) cellSet {
	return make(cellSet, capacity)
}

func (s cellSet) Add(p Point) {
	s[p] = struct{}{}
}

func (s cellSet) Has(p Point) bool {
	_, ok := s[p]
	return ok
}

func (s cellSet) Len() int {
	return len(s)
}

func (s cellSet) Clone() cellSet {
	out := make(cellSet, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

// Points returns the members sorted by row then column.
func (s cellSet) Points() []Point {
	out := make([]Point, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sortPoints(out)
	return out
}

// cellSetOf builds a set from a point list.
func cellSetOf(pts []Point) cellSet {
	s := make(cellSet, len(pts))
	for _, p := range pts {
		s[p] = struct{}{}
	}
	return s
}
