package game

import (
	"errors"
	"fmt"
)

// Move rejections. MovePlayer returns exactly one of these per failed call
// and leaves every piece of state untouched.
var (
	// ErrNotRunning rejects moves before Start.
	ErrNotRunning = errors.New("game not running")
	// ErrPaused rejects moves while the game is paused.
	ErrPaused = errors.New("game paused")
	// ErrGameOver rejects moves after the game has ended.
	ErrGameOver = errors.New("game over")
	// ErrInvalidDirection rejects any delta that is not a unit cardinal step.
	ErrInvalidDirection = errors.New("not a unit cardinal step")
	// ErrOutOfBounds rejects steps whose destination leaves the grid.
	ErrOutOfBounds = errors.New("destination outside the grid")
	// ErrWallBlocked rejects steps through a wall.
	ErrWallBlocked = errors.New("wall blocks the move")
)

// ErrUnknownMode is returned for view mode strings other than "permanent"
// and "instant".
var ErrUnknownMode = errors.New("unknown view mode")

// SnapshotError reports the first snapshot field that failed import
// validation. Import returns it before touching any game state.
type SnapshotError struct {
	Field  string
	Reason string
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot field %s: %s", e.Field, e.Reason)
}
