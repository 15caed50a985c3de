package ui

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/Garsondee/Maze-Sense/internal/game"
)

// textFace aliases the HUD face type so the rest of the package does not
// import the text package just to declare fields.
type textFace = *text.GoTextFace

const (
	wallWidth      = 2.0
	hudFontSize    = 14
	bannerFontSize = 28
)

var (
	colorWindow   = color.RGBA{R: 12, G: 13, B: 16, A: 255} // window background, doubles as fog
	colorFloor    = color.RGBA{R: 44, G: 48, B: 58, A: 255} // cell inside the current view window
	colorFloorDim = color.RGBA{R: 26, G: 28, B: 34, A: 255} // explored but no longer lit
	colorWallLit  = color.RGBA{R: 158, G: 166, B: 182, A: 255}
	colorWallDim  = color.RGBA{R: 74, G: 79, B: 92, A: 255}
	colorStart    = color.RGBA{R: 64, G: 158, B: 96, A: 255}  // entry square
	colorExit     = color.RGBA{R: 224, G: 176, B: 70, A: 255} // exit diamond
	colorHint     = color.RGBA{R: 224, G: 176, B: 70, A: 90}  // solution overlay, faint exit gold
	colorPlayer   = color.RGBA{R: 236, G: 238, B: 245, A: 255}
	colorHUDText  = color.RGBA{R: 198, G: 204, B: 215, A: 255}
	colorNotice   = color.RGBA{R: 224, G: 176, B: 70, A: 255}
	colorBanner   = color.RGBA{R: 236, G: 238, B: 245, A: 255}
	colorVeil     = color.RGBA{A: 150} // translucent black over a paused or finished maze
)

// initFonts loads the embedded Go Mono face for HUD and banner text. On a
// parse failure both faces stay nil and drawing falls back to the debug
// font.
func (u *UI) initFonts() {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return
	}
	u.face = &text.GoTextFace{Source: src, Size: hudFontSize}
	u.bigFace = &text.GoTextFace{Source: src, Size: bannerFontSize}
}

func (u *UI) Draw(screen *ebiten.Image) {
	screen.Fill(colorWindow)
	u.drawMaze(screen)
	if u.showHint && u.game.Status() != game.StatusNotStarted {
		u.drawHint(screen)
	}
	u.drawPlayer(screen)
	u.drawVeil(screen)
	u.drawHUD(screen)
}

// drawMaze renders cell floors, the entry and exit markers and the walls.
// Fog is simply the window background showing through where a cell is
// neither lit nor remembered.
func (u *UI) drawMaze(screen *ebiten.Image) {
	grid := u.game.Grid()
	vis := u.game.Visibility()
	ox, oy := float32(u.offX), float32(u.offY)
	cs := float32(cellSize)

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			var c color.RGBA
			switch {
			case vis.IsVisible(x, y):
				c = colorFloor
			case vis.IsExplored(x, y):
				c = colorFloorDim
			default:
				continue
			}
			vector.FillRect(screen, ox+float32(x)*cs, oy+float32(y)*cs, cs, cs, c, false)
		}
	}

	u.drawMarkers(screen)

	// Walls are drawn per known cell, dim pass first, so an edge shared by
	// a lit and a remembered cell reads lit.
	for pass := 0; pass < 2; pass++ {
		lit := pass == 1
		wallCol := colorWallDim
		if lit {
			wallCol = colorWallLit
		}
		for y := 0; y < grid.Height; y++ {
			for x := 0; x < grid.Width; x++ {
				if vis.IsVisible(x, y) != lit {
					continue
				}
				if !lit && !vis.IsExplored(x, y) {
					continue
				}
				u.drawCellWalls(screen, grid, x, y, wallCol)
			}
		}
	}

	mw := float32(grid.Width) * cs
	mh := float32(grid.Height) * cs
	vector.StrokeRect(screen, ox-1, oy-1, mw+2, mh+2, 1.0, colorWallDim, false)
}

func (u *UI) drawCellWalls(screen *ebiten.Image, grid *game.Grid, x, y int, c color.RGBA) {
	cs := float32(cellSize)
	px := float32(u.offX) + float32(x)*cs
	py := float32(u.offY) + float32(y)*cs
	if grid.WallAbove(x, y) {
		vector.StrokeLine(screen, px, py, px+cs, py, wallWidth, c, false)
	}
	if grid.WallLeft(x, y) {
		vector.StrokeLine(screen, px, py, px, py+cs, wallWidth, c, false)
	}
	if grid.WallAbove(x, y+1) {
		vector.StrokeLine(screen, px, py+cs, px+cs, py+cs, wallWidth, c, false)
	}
	if grid.WallLeft(x+1, y) {
		vector.StrokeLine(screen, px+cs, py, px+cs, py+cs, wallWidth, c, false)
	}
}

// drawMarkers renders the entry square and the exit diamond, fog
// permitting: an undiscovered exit stays hidden.
func (u *UI) drawMarkers(screen *ebiten.Image) {
	grid := u.game.Grid()
	if u.cellKnown(grid.Start) {
		u.fillCellInset(screen, grid.Start, 9, colorStart)
	}
	if u.cellKnown(grid.End) {
		u.drawDiamond(screen, grid.End, colorExit)
	}
}

func (u *UI) cellKnown(p game.Point) bool {
	vis := u.game.Visibility()
	return vis.IsVisible(p.X, p.Y) || vis.IsExplored(p.X, p.Y)
}

func (u *UI) fillCellInset(screen *ebiten.Image, p game.Point, inset float32, c color.RGBA) {
	cs := float32(cellSize)
	px := float32(u.offX) + float32(p.X)*cs + inset
	py := float32(u.offY) + float32(p.Y)*cs + inset
	vector.FillRect(screen, px, py, cs-2*inset, cs-2*inset, c, false)
}

// drawDiamond strokes a small diamond centred on a cell.
func (u *UI) drawDiamond(screen *ebiten.Image, p game.Point, c color.RGBA) {
	cs := float32(cellSize)
	cx := float32(u.offX) + (float32(p.X)+0.5)*cs
	cy := float32(u.offY) + (float32(p.Y)+0.5)*cs
	d := cs/2 - 7
	vector.StrokeLine(screen, cx-d, cy, cx, cy-d, 2.0, c, false)
	vector.StrokeLine(screen, cx, cy-d, cx+d, cy, 2.0, c, false)
	vector.StrokeLine(screen, cx+d, cy, cx, cy+d, 2.0, c, false)
	vector.StrokeLine(screen, cx, cy+d, cx-d, cy, 2.0, c, false)
}

// drawHint traces the shortest walk from the player to the exit as a faint
// polyline through the cell centres.
func (u *UI) drawHint(screen *ebiten.Image) {
	path := u.game.PathToExit()
	if len(path) < 2 {
		return
	}
	ox, oy := float32(u.offX), float32(u.offY)
	cs := float32(cellSize)
	half := cs / 2
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		vector.StrokeLine(screen,
			ox+float32(a.X)*cs+half, oy+float32(a.Y)*cs+half,
			ox+float32(b.X)*cs+half, oy+float32(b.Y)*cs+half,
			2.0, colorHint, false)
	}
}

func (u *UI) drawPlayer(screen *ebiten.Image) {
	fx, fy := u.playerDrawCell()
	cs := float64(cellSize)
	cx := float32(float64(u.offX) + (fx+0.5)*cs)
	cy := float32(float64(u.offY) + (fy+0.5)*cs)
	vector.FillCircle(screen, cx, cy, float32(cellSize)*0.3, colorPlayer, false)
}

// drawVeil shades the maze and prints a banner while the game is paused or
// finished.
func (u *UI) drawVeil(screen *ebiten.Image) {
	grid := u.game.Grid()
	ox, oy := float32(u.offX), float32(u.offY)
	mw := float32(grid.Width * cellSize)
	mh := float32(grid.Height * cellSize)

	switch u.game.Status() {
	case game.StatusPaused:
		vector.FillRect(screen, ox, oy, mw, mh, colorVeil, false)
		u.drawCentered(screen, "PAUSED")
	case game.StatusOver:
		vector.FillRect(screen, ox, oy, mw, mh, colorVeil, false)
		if u.game.Outcome() == game.OutcomeVictory {
			u.drawCentered(screen, fmt.Sprintf("VICTORY  %d moves", u.game.Moves()))
		} else {
			u.drawCentered(screen, "GAME OVER")
		}
	}
}

func (u *UI) drawCentered(screen *ebiten.Image, s string) {
	grid := u.game.Grid()
	cx := float64(u.offX) + float64(grid.Width*cellSize)/2
	cy := float64(u.offY) + float64(grid.Height*cellSize)/2
	if u.bigFace == nil {
		ebitenutil.DebugPrintAt(screen, s, int(cx)-len(s)*3, int(cy)-6)
		return
	}
	w := text.Advance(s, u.bigFace)
	op := &text.DrawOptions{}
	op.GeoM.Translate(cx-w/2, cy-u.bigFace.Size/2)
	op.ColorScale.ScaleWithColor(colorBanner)
	text.Draw(screen, s, u.bigFace, op)
}

// drawHUD renders the panel under the maze: the status line in the mono
// face, the key legend in the debug font, and any transient notice on the
// right.
func (u *UI) drawHUD(screen *ebiten.Image) {
	bx := float32(8)
	by := float32(u.height - hudHeight + 2)
	bw := float32(u.width - 16)
	bh := float32(hudHeight - 10)
	vector.FillRect(screen, bx, by, bw, bh, color.RGBA{R: 6, G: 8, B: 10, A: 220}, false)
	vector.StrokeRect(screen, bx, by, bw, bh, 1.0, color.RGBA{R: 60, G: 70, B: 90, A: 180}, false)

	u.drawText(screen, u.statusLine(), float64(bx)+8, float64(by)+5, colorHUDText)
	if u.noticeLeft > 0 {
		w := u.textWidth(u.notice)
		u.drawText(screen, u.notice, float64(bx)+float64(bw)-w-8, float64(by)+5, colorNotice)
	}

	legendY := int(by) + 27
	ebitenutil.DebugPrintAt(screen, "arrows/WASD move   space start   P pause   R restart   H hint", int(bx)+8, legendY)
	ebitenutil.DebugPrintAt(screen, "M fog   -/= range   C share   F5 save   F9 load", int(bx)+8, legendY+14)
}

// statusLine is the single-line run summary at the top of the HUD.
func (u *UI) statusLine() string {
	g := u.game
	vis := g.Visibility()
	pct := vis.ExplorationRate(g.Grid().TotalCells())
	switch g.Status() {
	case game.StatusNotStarted:
		return fmt.Sprintf("READY %s  %s r%d  press space", g.ShareCode(), vis.Mode(), vis.ViewRange())
	case game.StatusPaused:
		return fmt.Sprintf("PAUSED  moves %d  %s", g.Moves(), u.clock())
	case game.StatusOver:
		if g.Outcome() == game.OutcomeVictory {
			return fmt.Sprintf("VICTORY  moves %d  explored %d%%  %s", g.Moves(), pct, u.clock())
		}
		return fmt.Sprintf("GAME OVER  moves %d  %s", g.Moves(), u.clock())
	default:
		return fmt.Sprintf("moves %d  explored %d%%  %s r%d  %s",
			g.Moves(), pct, vis.Mode(), vis.ViewRange(), u.clock())
	}
}

func (u *UI) clock() string {
	d := u.game.Elapsed()
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func (u *UI) drawText(screen *ebiten.Image, s string, x, y float64, c color.Color) {
	if u.face == nil {
		ebitenutil.DebugPrintAt(screen, s, int(x), int(y))
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, u.face, op)
}

func (u *UI) textWidth(s string) float64 {
	if u.face == nil {
		return float64(6 * len(s))
	}
	return text.Advance(s, u.face)
}
