package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"

	"github.com/Garsondee/Maze-Sense/internal/game"
	"github.com/Garsondee/Maze-Sense/internal/store"
)

const shutdownTimeout = 5 * time.Second

// Server upgrades websocket connections into play sessions.
type Server struct {
	cfg      Config
	defaults game.Config
	store    *store.Store
	router   *way.Router
	upgrader websocket.Upgrader
	sessions atomic.Int64
}

// New builds a server around an open store. The store stays owned by the
// caller; Close it after Run returns.
func New(cfg Config, st *store.Store) (*Server, error) {
	defaults, err := cfg.GameConfig()
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:      cfg,
		defaults: defaults,
		store:    st,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", "/ws", s.handleWS)
	s.router.HandleFunc("GET", "/healthz", s.handleHealthz)
}

// ServeHTTP lets tests mount the server without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves until ctx is canceled, then shuts down. Open sessions are
// force-closed after the shutdown timeout; their games live only in
// memory, so there is nothing to flush.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.router}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()
	log.WithField("addr", s.cfg.Addr).Info("play server listening")

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			log.WithError(err).Warn("shutdown incomplete")
		}
		// Shutdown leaves hijacked websocket connections alone; Close
		// tears them down so session read loops return.
		_ = srv.Close()
		if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	sess, err := newSession(s.sessions.Add(1), conn, s.store, s.defaults)
	if err != nil {
		log.WithError(err).Error("session setup failed")
		_ = conn.Close()
		return
	}
	sess.run(r.Context())
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
