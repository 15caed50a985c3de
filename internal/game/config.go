package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Supported bounds. Anything outside is clamped, never rejected, so a
// hostile share code can at worst produce a small or large maze.
const (
	MinMazeSize = 5
	MaxMazeSize = 30

	MinViewRange = 1
	MaxViewRange = 5

	DefaultWidth     = 15
	DefaultHeight    = 15
	DefaultViewRange = 2
)

// Config describes one game. Pass it to NewGame; the zero value works but
// DefaultConfig is the intended starting point.
type Config struct {
	Width     int
	Height    int
	Mode      Mode
	ViewRange int

	// Seed fixes the maze. Zero means draw a fresh seed from the OS.
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Mode:      ModePermanent,
		ViewRange: DefaultViewRange,
	}
}

// normalized clamps dimensions and view range into the supported bounds.
func (c Config) normalized() Config {
	c.Width = clampMazeSize(c.Width)
	c.Height = clampMazeSize(c.Height)
	c.ViewRange = clampViewRange(c.ViewRange)
	return c
}

// ShareCode encodes the level identity as WIDTHxHEIGHTxSEED, for example
// "15x15x42424242". Mode and view range are viewer preferences and stay
// out of the code.
func (c Config) ShareCode() string {
	return fmt.Sprintf("%dx%dx%d", c.Width, c.Height, c.Seed)
}

// ParseShareCode decodes a WIDTHxHEIGHTxSEED string into a Config carrying
// default mode and view range. Dimensions are clamped, not rejected.
func ParseShareCode(s string) (Config, error) {
	parts := strings.Split(strings.TrimSpace(s), "x")
	if len(parts) != 3 {
		return Config{}, fmt.Errorf("share code %q: want WIDTHxHEIGHTxSEED", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return Config{}, fmt.Errorf("share code width %q: %w", parts[0], err)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return Config{}, fmt.Errorf("share code height %q: %w", parts[1], err)
	}
	seed, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("share code seed %q: %w", parts[2], err)
	}
	cfg := DefaultConfig()
	cfg.Width = clampMazeSize(w)
	cfg.Height = clampMazeSize(h)
	cfg.Seed = seed
	return cfg, nil
}

func clampMazeSize(n int) int {
	if n < MinMazeSize {
		return MinMazeSize
	}
	if n > MaxMazeSize {
		return MaxMazeSize
	}
	return n
}

func clampViewRange(r int) int {
	if r < MinViewRange {
		return MinViewRange
	}
	if r > MaxViewRange {
		return MaxViewRange
	}
	return r
}
