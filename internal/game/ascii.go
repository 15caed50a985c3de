package game

import "strings"

// ASCIIOptions selects decorations for RenderASCII.
type ASCIIOptions struct {
	// Solution marks the solution path cells with '*'.
	Solution bool
	// Player, when set, marks that cell with '@'. It wins over every other
	// glyph.
	Player *Point
}

// RenderASCII draws the grid as text, two output lines per maze row plus a
// closing boundary line. S and E mark the endpoints. The result ends with
// a newline so it can be printed as-is.
func RenderASCII(g *Grid, opts ASCIIOptions) string {
	var solution cellSet
	if opts.Solution {
		solution = cellSetOf(g.SolutionPath)
	}
	var b strings.Builder
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			b.WriteByte('+')
			if g.horiz[y][x] {
				b.WriteString("---")
			} else {
				b.WriteString("   ")
			}
		}
		b.WriteString("+\n")
		for x := 0; x < g.Width; x++ {
			if g.vert[y][x] {
				b.WriteByte('|')
			} else {
				b.WriteByte(' ')
			}
			b.WriteString(cellGlyph(g, solution, opts.Player, x, y))
		}
		if g.vert[y][g.Width] {
			b.WriteByte('|')
		} else {
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	for x := 0; x < g.Width; x++ {
		b.WriteByte('+')
		if g.horiz[g.Height][x] {
			b.WriteString("---")
		} else {
			b.WriteString("   ")
		}
	}
	b.WriteString("+\n")
	return b.String()
}

func cellGlyph(g *Grid, solution cellSet, player *Point, x, y int) string {
	p := Point{x, y}
	switch {
	case player != nil && *player == p:
		return " @ "
	case p == g.Start:
		return " S "
	case p == g.End:
		return " E "
	case solution.Has(p):
		return " * "
	default:
		return "   "
	}
}
