// Command game runs the desktop maze client.
package main

import (
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	log "github.com/sirupsen/logrus"

	"github.com/Garsondee/Maze-Sense/internal/audio"
	"github.com/Garsondee/Maze-Sense/internal/game"
	"github.com/Garsondee/Maze-Sense/internal/store"
	"github.com/Garsondee/Maze-Sense/internal/ui"
)

func main() {
	var (
		width     = flag.Int("width", game.DefaultWidth, "maze width in cells")
		height    = flag.Int("height", game.DefaultHeight, "maze height in cells")
		seed      = flag.Int64("seed", 0, "level seed, 0 draws one from the OS")
		mode      = flag.String("mode", "permanent", "fog mode: permanent or instant")
		viewRange = flag.Int("range", game.DefaultViewRange, "view range in cells")
		code      = flag.String("code", "", "share code WIDTHxHEIGHTxSEED, overrides width, height and seed")
		saveDB    = flag.String("save-db", "saves.db", "save slot database path")
		mute      = flag.Bool("mute", false, "start with sound off")
	)
	flag.Parse()

	m, err := game.ParseMode(*mode)
	if err != nil {
		log.WithError(err).Fatal("mode")
	}
	cfg := game.Config{Width: *width, Height: *height, Mode: m, ViewRange: *viewRange, Seed: *seed}
	if *code != "" {
		shared, err := game.ParseShareCode(*code)
		if err != nil {
			log.WithError(err).Fatal("share code")
		}
		shared.Mode = m
		shared.ViewRange = *viewRange
		cfg = shared
	}

	g, err := game.NewGame(cfg)
	if err != nil {
		log.WithError(err).Fatal("new game")
	}

	st, err := store.Open(*saveDB)
	if err != nil {
		log.WithError(err).Fatal("open save store")
	}
	defer st.Close()

	sound := audio.NewPlayer()
	sound.SetEnabled(!*mute)
	if err := sound.Init(); err != nil {
		log.WithError(err).Warn("audio unavailable, continuing without sound")
	}

	client := ui.New(g, st, sound)
	ebiten.SetWindowTitle("Maze Sense")
	ebiten.SetWindowSize(client.WindowSize())
	if err := ebiten.RunGame(client); err != nil {
		log.Fatal(err)
	}
}
