package game

import (
	"fmt"
	"math"
)

// Mode selects how exploration memory behaves across visibility updates.
type Mode int

const (
	// ModePermanent keeps every revealed cell lit for the rest of the run:
	// the visible set is the current window plus all history.
	ModePermanent Mode = iota
	// ModeInstant forgets cells the moment they leave the viewing window.
	ModeInstant
)

func (m Mode) String() string {
	switch m {
	case ModePermanent:
		return "permanent"
	case ModeInstant:
		return "instant"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps the config strings "permanent" and "instant" onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "permanent":
		return ModePermanent, nil
	case "instant":
		return ModeInstant, nil
	default:
		return ModePermanent, fmt.Errorf("%q: %w", s, ErrUnknownMode)
	}
}

// Visibility computes what a viewer sees on one grid and remembers what has
// been seen. It owns three cell sets: visible is the lit area right now,
// explored is the memory the active Mode maintains, permanent is the
// all-time union that ModePermanent folds back into visible.
type Visibility struct {
	grid      *Grid
	mode      Mode
	viewRange int

	visible   cellSet
	explored  cellSet
	permanent cellSet

	cache map[visKey][]Point
}

// visKey identifies one cached window scan. Range is part of the key so a
// range change never serves stale cells.
type visKey struct {
	x, y, r int
}

// NewVisibility binds a visibility tracker to a grid. The view range is
// clamped into the supported band.
func NewVisibility(grid *Grid, mode Mode, viewRange int) *Visibility {
	return &Visibility{
		grid:      grid,
		mode:      mode,
		viewRange: clampViewRange(viewRange),
		visible:   newCellSet(16),
		explored:  newCellSet(64),
		permanent: newCellSet(64),
		cache:     make(map[visKey][]Point),
	}
}

// Update recomputes visibility for a viewer at p and folds the result into
// exploration memory per the active mode. The returned slice belongs to the
// caller: window cells in scan order first, then, under ModePermanent, the
// previously revealed cells outside the window.
func (v *Visibility) Update(p Point) []Point {
	window := v.calculateVisibleArea(p.X, p.Y)
	v.visible = cellSetOf(window)

	if v.mode == ModeInstant {
		v.explored = cellSetOf(window)
		return window
	}

	for _, c := range window {
		v.explored.Add(c)
		v.permanent.Add(c)
	}
	out := window
	for _, c := range v.permanent.Points() {
		if !v.visible.Has(c) {
			v.visible.Add(c)
			out = append(out, c)
		}
	}
	return out
}

// calculateVisibleArea scans the square window of side 2*viewRange+1 around
// the viewer and keeps the in-bounds cells with line of sight. Results are
// cached per (x, y, range); both the stored and the returned slice are
// copies, so callers and later cache hits can never alias each other.
func (v *Visibility) calculateVisibleArea(vx, vy int) []Point {
	key := visKey{vx, vy, v.viewRange}
	if cached, ok := v.cache[key]; ok {
		return append([]Point(nil), cached...)
	}
	cells := make([]Point, 0, (2*v.viewRange+1)*(2*v.viewRange+1))
	for dy := -v.viewRange; dy <= v.viewRange; dy++ {
		for dx := -v.viewRange; dx <= v.viewRange; dx++ {
			cx, cy := vx+dx, vy+dy
			if !v.grid.InBounds(cx, cy) {
				continue
			}
			if !v.grid.HasLineOfSight(vx, vy, cx, cy) {
				continue
			}
			cells = append(cells, Point{cx, cy})
		}
	}
	v.cache[key] = append([]Point(nil), cells...)
	return cells
}

// SetMode switches exploration behavior. A real switch drops the window
// cache; explored and permanent memory survive, and the next Update
// re-derives the visible set under the new rules.
func (v *Visibility) SetMode(m Mode) {
	if m == v.mode {
		return
	}
	v.mode = m
	v.cache = make(map[visKey][]Point)
}

// SetViewRange changes the window radius, clamped into the supported band.
// A real change drops the window cache.
func (v *Visibility) SetViewRange(r int) {
	r = clampViewRange(r)
	if r == v.viewRange {
		return
	}
	v.viewRange = r
	v.cache = make(map[visKey][]Point)
}

func (v *Visibility) Mode() Mode { return v.mode }

func (v *Visibility) ViewRange() int { return v.viewRange }

// IsVisible reports whether the cell is lit right now. Coordinates outside
// the grid are never in the set, so they read as hidden.
func (v *Visibility) IsVisible(x, y int) bool {
	return v.visible.Has(Point{x, y})
}

// IsExplored reports whether the cell is in exploration memory. Under
// ModeInstant that is the same as visible.
func (v *Visibility) IsExplored(x, y int) bool {
	return v.explored.Has(Point{x, y})
}

// ExploredCount is the size of the exploration memory.
func (v *Visibility) ExploredCount() int { return v.explored.Len() }

// ExplorationRate returns explored coverage as a rounded percentage of
// total cells, or 0 when total is not positive.
func (v *Visibility) ExplorationRate(total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(v.explored.Len()) / float64(total)))
}

// VisibilitySnapshot is the serializable form of a Visibility.
type VisibilitySnapshot struct {
	Mode      string  `json:"mode"`
	ViewRange int     `json:"viewRange"`
	Explored  []Point `json:"explored"`
	Permanent []Point `json:"permanent"`
}

// Snapshot captures mode, range and both memory sets with sorted
// coordinate lists.
func (v *Visibility) Snapshot() VisibilitySnapshot {
	return VisibilitySnapshot{
		Mode:      v.mode.String(),
		ViewRange: v.viewRange,
		Explored:  v.explored.Points(),
		Permanent: v.permanent.Points(),
	}
}

// Restore replaces the tracker's state with a snapshot. Everything is
// validated first and the tracker is untouched on error. Under
// ModePermanent the visible set is reset to the imported permanent cells;
// under ModeInstant it starts empty until the next Update.
func (v *Visibility) Restore(snap VisibilitySnapshot) error {
	mode, err := ParseMode(snap.Mode)
	if err != nil {
		return &SnapshotError{Field: "visibility.mode", Reason: err.Error()}
	}
	for _, p := range snap.Explored {
		if !v.grid.InBounds(p.X, p.Y) {
			return &SnapshotError{Field: "visibility.explored", Reason: fmt.Sprintf("cell %v outside grid", p)}
		}
	}
	for _, p := range snap.Permanent {
		if !v.grid.InBounds(p.X, p.Y) {
			return &SnapshotError{Field: "visibility.permanent", Reason: fmt.Sprintf("cell %v outside grid", p)}
		}
	}

	v.mode = mode
	v.viewRange = clampViewRange(snap.ViewRange)
	v.explored = cellSetOf(snap.Explored)
	v.permanent = cellSetOf(snap.Permanent)
	if mode == ModePermanent {
		v.visible = v.permanent.Clone()
	} else {
		v.visible = newCellSet(16)
	}
	v.cache = make(map[visKey][]Point)
	return nil
}
