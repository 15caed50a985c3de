// Command server runs the websocket play server. All configuration comes
// from the environment; see internal/server.Config for the variables.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/Garsondee/Maze-Sense/internal/server"
	"github.com/Garsondee/Maze-Sense/internal/store"
)

func main() {
	cfg, err := server.ParseEnv()
	if err != nil {
		log.WithError(err).Fatal("configuration")
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", cfg.LogLevel).Warn("unknown LOG_LEVEL, keeping info")
	}

	st, err := store.Open(cfg.SaveDB)
	if err != nil {
		log.WithError(err).Fatal("open save store")
	}
	defer func() { _ = st.Close() }()

	srv, err := server.New(cfg, st)
	if err != nil {
		log.WithError(err).Fatal("build server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.WithError(err).Fatal("serve")
	}
}
