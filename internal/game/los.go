package game

// HasLineOfSight returns true if sight runs unobstructed between the two
// cells. The segment is traced as an integer Bresenham walk and every cell
// advance is validated with CanMove, so exactly the walls that stop
// movement stop sight. When the trace moves diagonally in one iteration the
// advance decomposes into the horizontal then the vertical step, each
// checked on its own: sight never cuts a corner movement could not turn.
func (g *Grid) HasLineOfSight(x1, y1, x2, y2 int) bool {
	if !g.InBounds(x1, y1) || !g.InBounds(x2, y2) {
		return false
	}
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy
	x, y := x1, y1
	for x != x2 || y != y2 {
		e2 := 2 * err
		if e2 >= dy {
			if !g.CanMove(x, y, sx, 0) {
				return false
			}
			err += dy
			x += sx
		}
		if e2 <= dx {
			if !g.CanMove(x, y, 0, sy) {
				return false
			}
			err += dx
			y += sy
		}
	}
	return true
}
