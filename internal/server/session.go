package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/Garsondee/Maze-Sense/internal/game"
	"github.com/Garsondee/Maze-Sense/internal/store"
)

const outBuffer = 64

// session owns one connection and its game. The read loop is the only
// goroutine that touches the game; core events fire synchronously inside
// its calls and land in the out channel, which the write loop drains.
type session struct {
	id       int64
	conn     *websocket.Conn
	out      chan Frame
	game     *game.Game
	store    *store.Store
	defaults game.Config
	log      *log.Entry
}

func newSession(id int64, conn *websocket.Conn, st *store.Store, defaults game.Config) (*session, error) {
	s := &session{
		id:       id,
		conn:     conn,
		out:      make(chan Frame, outBuffer),
		store:    st,
		defaults: defaults,
		log: log.WithFields(log.Fields{
			"session": id,
			"remote":  conn.RemoteAddr().String(),
		}),
	}
	g, err := game.NewGame(defaults)
	if err != nil {
		return nil, err
	}
	s.setGame(g)
	return s, nil
}

// setGame swaps in a game and forwards its events to the wire. The old
// game's subscriptions die with it.
func (s *session) setGame(g *game.Game) {
	kinds := []game.EventKind{
		game.EventStart,
		game.EventMove,
		game.EventExplored,
		game.EventVictory,
		game.EventGameOver,
	}
	for _, kind := range kinds {
		g.Subscribe(kind, func(ev game.Event) error {
			s.enqueue(eventFrame(ev))
			return nil
		})
	}
	s.game = g
}

// enqueue hands a frame to the write loop. A stalled client eventually
// loses frames rather than wedging the session.
func (s *session) enqueue(fr Frame) {
	select {
	case s.out <- fr:
	default:
		s.log.WithField("frame", fr.Type).Warn("dropping frame, send buffer full")
	}
}

// run serves the connection until the client goes away or the listener is
// shut down. It blocks the handler goroutine, like any hijacked request.
func (s *session) run(ctx context.Context) {
	s.log.Info("session opened")
	go s.writeLoop()
	defer func() {
		close(s.out)
		s.log.Info("session closed")
	}()

	s.enqueue(stateFrame(s.game))

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.WithError(err).Debug("read failed")
			}
			return
		}
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.enqueue(errorFrame("", fmt.Errorf("bad command: %w", err)))
			continue
		}
		s.dispatch(ctx, cmd)
	}
}

func (s *session) writeLoop() {
	for fr := range s.out {
		if err := s.conn.WriteJSON(fr); err != nil {
			s.log.WithError(err).Debug("write failed")
		}
	}
	_ = s.conn.Close()
}

// dispatch applies one command to the session's game. Rejections answer
// with an error frame and change nothing; events raised by accepted
// commands are already on the wire by the time any state frame follows.
func (s *session) dispatch(ctx context.Context, cmd Command) {
	s.log.WithField("op", cmd.Op).Debug("command")

	switch cmd.Op {
	case OpNew:
		cfg, err := s.newConfig(cmd)
		if err != nil {
			s.enqueue(errorFrame(cmd.Op, err))
			return
		}
		g, err := game.NewGame(cfg)
		if err != nil {
			s.enqueue(errorFrame(cmd.Op, err))
			return
		}
		s.setGame(g)
		s.enqueue(stateFrame(s.game))

	case OpStart:
		s.game.Start()
		s.enqueue(stateFrame(s.game))

	case OpMove:
		if err := s.game.MovePlayer(cmd.Dx, cmd.Dy); err != nil {
			s.enqueue(errorFrame(cmd.Op, err))
		}

	case OpPause:
		s.game.TogglePause()
		s.enqueue(stateFrame(s.game))

	case OpRestart:
		s.game.Restart()
		s.enqueue(stateFrame(s.game))

	case OpEnd:
		s.game.GameOver()
		s.enqueue(stateFrame(s.game))

	case OpState:
		s.enqueue(stateFrame(s.game))

	case OpSave:
		if err := s.store.Save(ctx, cmd.Slot, s.game.Export()); err != nil {
			s.enqueue(errorFrame(cmd.Op, err))
			return
		}
		s.sendSlots(ctx, cmd.Op)

	case OpLoad:
		snap, err := s.store.Load(ctx, cmd.Slot)
		if err != nil {
			s.enqueue(errorFrame(cmd.Op, err))
			return
		}
		if err := s.game.Import(snap); err != nil {
			s.enqueue(errorFrame(cmd.Op, err))
			return
		}
		s.enqueue(stateFrame(s.game))

	case OpSlots:
		s.sendSlots(ctx, cmd.Op)

	default:
		s.enqueue(errorFrame(cmd.Op, fmt.Errorf("unknown op %q", cmd.Op)))
	}
}

// newConfig merges a new command's overrides onto the server defaults.
func (s *session) newConfig(cmd Command) (game.Config, error) {
	cfg := s.defaults
	cfg.Seed = cmd.Seed
	if cmd.Width != 0 {
		cfg.Width = cmd.Width
	}
	if cmd.Height != 0 {
		cfg.Height = cmd.Height
	}
	if cmd.ViewRange != 0 {
		cfg.ViewRange = cmd.ViewRange
	}
	if cmd.ViewMode != "" {
		mode, err := game.ParseMode(cmd.ViewMode)
		if err != nil {
			return game.Config{}, err
		}
		cfg.Mode = mode
	}
	return cfg, nil
}

func (s *session) sendSlots(ctx context.Context, op string) {
	infos, err := s.store.List(ctx)
	if err != nil {
		s.enqueue(errorFrame(op, err))
		return
	}
	s.enqueue(slotsFrame(infos))
}
