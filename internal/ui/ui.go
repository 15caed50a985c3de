// Package ui is the desktop client. It renders one maze run in an ebiten
// window and maps keyboard input onto the core game. The core stays
// authoritative for every rule; this package only decides pixels, sounds
// and how the fog is shown, and nothing here ever feeds back into play.
package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/Garsondee/Maze-Sense/internal/audio"
	"github.com/Garsondee/Maze-Sense/internal/game"
	"github.com/Garsondee/Maze-Sense/internal/store"
)

const (
	cellSize    = 32 // pixels per maze cell
	borderWidth = 24 // gap between the window edge and the maze
	hudHeight   = 72 // bottom strip holding the status line and key legend

	// minWindowWidth keeps the HUD legible when the maze is small; the
	// maze is centred inside whatever width wins.
	minWindowWidth = 480

	// moveTweenDuration is how long the player dot glides between cells,
	// in seconds. Presentation only: the core position snaps the moment a
	// move is accepted.
	moveTweenDuration = 0.12
	tweenStep         = 1.0 / 60 // seconds per update at the default tick rate

	noticeDuration = 180 // updates a transient HUD notice stays up

	quickSlot    = "quick" // save slot the F5/F9 keys use
	storeTimeout = 2 * time.Second
)

// moveKeys maps both the arrow cluster and WASD onto unit steps.
var moveKeys = []struct {
	key    ebiten.Key
	dx, dy int
}{
	{ebiten.KeyArrowUp, 0, -1},
	{ebiten.KeyW, 0, -1},
	{ebiten.KeyArrowDown, 0, 1},
	{ebiten.KeyS, 0, 1},
	{ebiten.KeyArrowLeft, -1, 0},
	{ebiten.KeyA, -1, 0},
	{ebiten.KeyArrowRight, 1, 0},
	{ebiten.KeyD, 1, 0},
}

// UI implements ebiten.Game over one core game. Construct it with New and
// hand it to ebiten.RunGame; everything runs on ebiten's update goroutine.
type UI struct {
	game  *game.Game
	saves *store.Store
	sound *audio.Player

	width  int // logical window size, recomputed when the grid changes
	height int
	offX   int // pixel offset from the window origin to the maze
	offY   int

	showHint bool
	prevKeys map[ebiten.Key]bool

	// Movement animation. fromX/fromY is the cell-space point the dot is
	// gliding away from; the core position is always the destination.
	moveTween *gween.Tween
	moveFrac  float32
	fromX     float64
	fromY     float64

	face    textFace // HUD face, nil falls back to the debug font
	bigFace textFace // banner face

	notice     string
	noticeLeft int // updates until the notice disappears
}

// New builds the client around an existing game. The store may be nil when
// saving is disabled; the sound player may be uninitialized, in which case
// every effect is skipped.
func New(g *game.Game, saves *store.Store, sound *audio.Player) *UI {
	u := &UI{
		game:     g,
		saves:    saves,
		sound:    sound,
		prevKeys: make(map[ebiten.Key]bool),
	}
	u.resize()
	u.initFonts()
	g.Subscribe(game.EventVictory, func(game.Event) error {
		sound.Victory()
		return nil
	})
	return u
}

// WindowSize is the logical size the window should open at.
func (u *UI) WindowSize() (int, int) {
	return u.width, u.height
}

// resize recomputes the window layout from the current grid. Called at
// construction and again after a load swaps the maze dimensions.
func (u *UI) resize() {
	grid := u.game.Grid()
	mazeW := grid.Width * cellSize
	mazeH := grid.Height * cellSize
	u.width = mazeW + 2*borderWidth
	if u.width < minWindowWidth {
		u.width = minWindowWidth
	}
	u.height = mazeH + 2*borderWidth + hudHeight
	u.offX = (u.width - mazeW) / 2
	u.offY = borderWidth
}

func (u *UI) Update() error {
	u.handleInput()
	u.stepAnimations()
	return nil
}

// stepAnimations advances the glide and the notice countdown by one tick.
func (u *UI) stepAnimations() {
	if u.moveTween != nil {
		v, done := u.moveTween.Update(tweenStep)
		u.moveFrac = v
		if done {
			u.moveTween = nil
		}
	}
	if u.noticeLeft > 0 {
		u.noticeLeft--
	}
}

// handleInput processes one frame of keyboard state. Steps and toggles are
// edge-triggered so holding a key never auto-repeats a turn.
func (u *UI) handleInput() {
	currentKeys := map[ebiten.Key]bool{}

	for _, mk := range moveKeys {
		currentKeys[mk.key] = ebiten.IsKeyPressed(mk.key)
		if currentKeys[mk.key] && !u.prevKeys[mk.key] {
			u.tryMove(mk.dx, mk.dy)
		}
	}

	currentKeys[ebiten.KeySpace] = ebiten.IsKeyPressed(ebiten.KeySpace)
	if currentKeys[ebiten.KeySpace] && !u.prevKeys[ebiten.KeySpace] {
		u.game.Start()
	}

	currentKeys[ebiten.KeyP] = ebiten.IsKeyPressed(ebiten.KeyP)
	if currentKeys[ebiten.KeyP] && !u.prevKeys[ebiten.KeyP] {
		u.game.TogglePause()
	}

	currentKeys[ebiten.KeyR] = ebiten.IsKeyPressed(ebiten.KeyR)
	if currentKeys[ebiten.KeyR] && !u.prevKeys[ebiten.KeyR] {
		u.game.Restart()
		u.moveTween = nil
	}

	currentKeys[ebiten.KeyM] = ebiten.IsKeyPressed(ebiten.KeyM)
	if currentKeys[ebiten.KeyM] && !u.prevKeys[ebiten.KeyM] {
		u.toggleMode()
	}

	currentKeys[ebiten.KeyEqual] = ebiten.IsKeyPressed(ebiten.KeyEqual)
	if currentKeys[ebiten.KeyEqual] && !u.prevKeys[ebiten.KeyEqual] {
		u.bumpRange(1)
	}

	currentKeys[ebiten.KeyMinus] = ebiten.IsKeyPressed(ebiten.KeyMinus)
	if currentKeys[ebiten.KeyMinus] && !u.prevKeys[ebiten.KeyMinus] {
		u.bumpRange(-1)
	}

	currentKeys[ebiten.KeyH] = ebiten.IsKeyPressed(ebiten.KeyH)
	if currentKeys[ebiten.KeyH] && !u.prevKeys[ebiten.KeyH] {
		u.showHint = !u.showHint
	}

	currentKeys[ebiten.KeyC] = ebiten.IsKeyPressed(ebiten.KeyC)
	if currentKeys[ebiten.KeyC] && !u.prevKeys[ebiten.KeyC] {
		u.copyShare()
	}

	currentKeys[ebiten.KeyF5] = ebiten.IsKeyPressed(ebiten.KeyF5)
	if currentKeys[ebiten.KeyF5] && !u.prevKeys[ebiten.KeyF5] {
		u.saveQuick()
	}

	currentKeys[ebiten.KeyF9] = ebiten.IsKeyPressed(ebiten.KeyF9)
	if currentKeys[ebiten.KeyF9] && !u.prevKeys[ebiten.KeyF9] {
		u.loadQuick()
	}

	u.prevKeys = currentKeys
}

// tryMove forwards one step to the core. The sprite position is sampled
// before the move so a step taken mid-glide chains from wherever the dot
// currently is instead of popping back to the previous cell.
func (u *UI) tryMove(dx, dy int) {
	fx, fy := u.playerDrawCell()
	err := u.game.MovePlayer(dx, dy)
	switch {
	case err == nil:
		u.fromX, u.fromY = fx, fy
		u.moveFrac = 0
		u.moveTween = gween.New(0, 1, moveTweenDuration, ease.OutQuad)
		// The winning step gets the arpeggio, not a tick on top of it.
		if u.game.Status() != game.StatusOver {
			u.sound.MoveTick()
		}
	case errors.Is(err, game.ErrWallBlocked), errors.Is(err, game.ErrOutOfBounds):
		u.sound.WallThud()
	}
}

// playerDrawCell is the cell-space point the player dot is drawn at, which
// trails the core position while a glide is in flight.
func (u *UI) playerDrawCell() (float64, float64) {
	p := u.game.Player()
	if u.moveTween == nil {
		return float64(p.X), float64(p.Y)
	}
	f := float64(u.moveFrac)
	return u.fromX + (float64(p.X)-u.fromX)*f, u.fromY + (float64(p.Y)-u.fromY)*f
}

func (u *UI) toggleMode() {
	next := game.ModeInstant
	if u.game.Visibility().Mode() == game.ModeInstant {
		next = game.ModePermanent
	}
	u.game.SetViewMode(next)
	u.setNotice("fog " + next.String())
}

func (u *UI) bumpRange(delta int) {
	u.game.SetViewRange(u.game.Visibility().ViewRange() + delta)
	u.setNotice(fmt.Sprintf("view range %d", u.game.Visibility().ViewRange()))
}

func (u *UI) copyShare() {
	code := u.game.ShareCode()
	if err := clipboard.WriteAll(code); err != nil {
		u.setNotice("clipboard unavailable")
		return
	}
	u.setNotice("share code copied: " + code)
}

// saveQuick exports the run into the quick slot.
func (u *UI) saveQuick() {
	if u.saves == nil {
		u.setNotice("saving disabled")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := u.saves.Save(ctx, quickSlot, u.game.Export()); err != nil {
		u.setNotice("save failed: " + err.Error())
		return
	}
	u.sound.SaveChime()
	u.setNotice("saved to " + quickSlot)
}

// loadQuick replaces the run with the quick slot snapshot. The window is
// re-laid out because the saved maze may have different dimensions.
func (u *UI) loadQuick() {
	if u.saves == nil {
		u.setNotice("saving disabled")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	snap, err := u.saves.Load(ctx, quickSlot)
	if err != nil {
		u.setNotice("load failed: " + err.Error())
		return
	}
	if err := u.game.Import(snap); err != nil {
		u.setNotice("load failed: " + err.Error())
		return
	}
	u.moveTween = nil
	u.resize()
	u.sound.SaveChime()
	u.setNotice("loaded " + quickSlot)
}

func (u *UI) setNotice(s string) {
	u.notice = s
	u.noticeLeft = noticeDuration
}

func (u *UI) Layout(_, _ int) (int, int) {
	return u.width, u.height
}
