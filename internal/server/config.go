// Package server exposes one Game per websocket connection so a browser
// client can drive the core over JSON frames. Sessions are single-player
// and independent; the server never shares game state between connections.
package server

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/Garsondee/Maze-Sense/internal/game"
)

// Config holds the play server's environment configuration.
type Config struct {
	Addr     string `env:"ADDR" envDefault:":8080"`
	SaveDB   string `env:"SAVE_DB" envDefault:"saves.db"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Defaults for the game a fresh session starts with; a `new` command
	// overrides them per session.
	MazeWidth  int    `env:"MAZE_WIDTH" envDefault:"15"`
	MazeHeight int    `env:"MAZE_HEIGHT" envDefault:"15"`
	ViewMode   string `env:"VIEW_MODE" envDefault:"permanent"`
	ViewRange  int    `env:"VIEW_RANGE" envDefault:"2"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// GameConfig converts the environment defaults into a core config. The
// seed stays zero so every fresh session draws its own maze.
func (c Config) GameConfig() (game.Config, error) {
	mode, err := game.ParseMode(c.ViewMode)
	if err != nil {
		return game.Config{}, fmt.Errorf("VIEW_MODE: %w", err)
	}
	return game.Config{
		Width:     c.MazeWidth,
		Height:    c.MazeHeight,
		Mode:      mode,
		ViewRange: c.ViewRange,
	}, nil
}
