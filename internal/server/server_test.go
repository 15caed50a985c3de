package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Garsondee/Maze-Sense/internal/game"
	"github.com/Garsondee/Maze-Sense/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	cfg := Config{
		MazeWidth:  10,
		MazeHeight: 10,
		ViewMode:   "permanent",
		ViewRange:  2,
	}
	srv, err := New(cfg, st)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

// dialSession connects and consumes the initial state frame every session
// opens with.
func dialSession(t *testing.T, ts *httptest.Server) (*websocket.Conn, Frame) {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	hello := readFrame(t, conn)
	if hello.Type != FrameState {
		t.Fatalf("first frame type = %q, want %q", hello.Type, FrameState)
	}
	return conn, hello
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var fr Frame
	if err := conn.ReadJSON(&fr); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return fr
}

// readUntilType skips frames of other types, which lets tests ignore the
// event chatter interleaved with command replies.
func readUntilType(t *testing.T, conn *websocket.Conn, typ string) Frame {
	t.Helper()

	for i := 0; i < 500; i++ {
		fr := readFrame(t, conn)
		if fr.Type == typ {
			return fr
		}
	}
	t.Fatalf("no %q frame in 500 frames", typ)
	return Frame{}
}

func readUntilEvent(t *testing.T, conn *websocket.Conn, kind string) Frame {
	t.Helper()

	for i := 0; i < 500; i++ {
		fr := readFrame(t, conn)
		if fr.Type == FrameEvent && fr.Event.Kind == kind {
			return fr
		}
	}
	t.Fatalf("no %q event in 500 frames", kind)
	return Frame{}
}

func send(t *testing.T, conn *websocket.Conn, cmd Command) {
	t.Helper()

	if err := conn.WriteJSON(cmd); err != nil {
		t.Fatalf("send %q: %v", cmd.Op, err)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Errorf("body = %q, want %q", body, "ok")
	}
}

func TestSessionOpensWithState(t *testing.T) {
	ts := newTestServer(t)
	_, hello := dialSession(t, ts)

	snap := hello.State
	if snap == nil {
		t.Fatal("initial state frame has no snapshot")
	}
	if snap.Config.Width != 10 || snap.Config.Height != 10 {
		t.Errorf("default maze = %dx%d, want 10x10", snap.Config.Width, snap.Config.Height)
	}
	if snap.Game.IsRunning {
		t.Error("fresh session should not be running")
	}
	if snap.Player != snap.Maze.Start {
		t.Errorf("player = %v, want start %v", snap.Player, snap.Maze.Start)
	}
}

func TestNewOverridesDefaults(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dialSession(t, ts)

	send(t, conn, Command{Op: OpNew, Width: 12, Height: 9, Seed: 424242, ViewMode: "instant", ViewRange: 3})
	fr := readUntilType(t, conn, FrameState)

	cfg := fr.State.Config
	if cfg.Width != 12 || cfg.Height != 9 || cfg.Seed != 424242 {
		t.Errorf("config = %dx%d seed %d, want 12x9 seed 424242", cfg.Width, cfg.Height, cfg.Seed)
	}
	if cfg.Mode != "instant" || cfg.ViewRange != 3 {
		t.Errorf("view = %s/%d, want instant/3", cfg.Mode, cfg.ViewRange)
	}
}

func TestNewRejectsBadMode(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dialSession(t, ts)

	send(t, conn, Command{Op: OpNew, ViewMode: "xray"})
	fr := readUntilType(t, conn, FrameError)

	if fr.Op != OpNew {
		t.Errorf("error op = %q, want %q", fr.Op, OpNew)
	}
	if !strings.Contains(fr.Error, "unknown view mode") {
		t.Errorf("error = %q, want unknown view mode", fr.Error)
	}
}

func TestMoveBeforeStartRejected(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dialSession(t, ts)

	send(t, conn, Command{Op: OpMove, Dx: 1})
	fr := readUntilType(t, conn, FrameError)

	if fr.Error != game.ErrNotRunning.Error() {
		t.Errorf("error = %q, want %q", fr.Error, game.ErrNotRunning.Error())
	}
	if fr.Op != OpMove {
		t.Errorf("error op = %q, want %q", fr.Op, OpMove)
	}
}

func TestStartEmitsEventThenState(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dialSession(t, ts)

	send(t, conn, Command{Op: OpStart})

	fr := readFrame(t, conn)
	if fr.Type != FrameEvent || fr.Event.Kind != "start" {
		t.Fatalf("first reply = %+v, want start event", fr)
	}
	var ev game.StartEvent
	if err := json.Unmarshal(fr.Event.Data, &ev); err != nil {
		t.Fatalf("decode start event: %v", err)
	}
	if ev.Width != 10 || ev.Height != 10 {
		t.Errorf("start event size = %dx%d, want 10x10", ev.Width, ev.Height)
	}

	state := readFrame(t, conn)
	if state.Type != FrameState {
		t.Fatalf("second reply type = %q, want state", state.Type)
	}
	if !state.State.Game.IsRunning {
		t.Error("state after start should be running")
	}
}

func TestInvalidDirectionChangesNothing(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dialSession(t, ts)

	send(t, conn, Command{Op: OpStart})
	readUntilType(t, conn, FrameState)

	for _, cmd := range []Command{
		{Op: OpMove},               // zero step
		{Op: OpMove, Dx: 1, Dy: 1}, // diagonal
	} {
		send(t, conn, cmd)
		fr := readUntilType(t, conn, FrameError)
		if fr.Error != game.ErrInvalidDirection.Error() {
			t.Errorf("error = %q, want %q", fr.Error, game.ErrInvalidDirection.Error())
		}
	}

	send(t, conn, Command{Op: OpState})
	fr := readUntilType(t, conn, FrameState)
	if fr.State.Game.Moves != 0 {
		t.Errorf("moves = %d after rejections, want 0", fr.State.Game.Moves)
	}
}

func TestPauseBlocksMoves(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dialSession(t, ts)

	send(t, conn, Command{Op: OpStart})
	readUntilType(t, conn, FrameState)

	send(t, conn, Command{Op: OpPause})
	fr := readUntilType(t, conn, FrameState)
	if !fr.State.Game.IsPaused {
		t.Fatal("pause did not stick")
	}

	send(t, conn, Command{Op: OpMove, Dx: 1})
	errFr := readUntilType(t, conn, FrameError)
	if errFr.Error != game.ErrPaused.Error() {
		t.Errorf("error = %q, want %q", errFr.Error, game.ErrPaused.Error())
	}

	send(t, conn, Command{Op: OpPause})
	fr = readUntilType(t, conn, FrameState)
	if fr.State.Game.IsPaused {
		t.Error("second pause did not resume")
	}
}

func TestEndCommand(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dialSession(t, ts)

	send(t, conn, Command{Op: OpStart})
	readUntilType(t, conn, FrameState)

	send(t, conn, Command{Op: OpEnd})
	ev := readUntilEvent(t, conn, "gameOver")
	var over game.GameOverEvent
	if err := json.Unmarshal(ev.Event.Data, &over); err != nil {
		t.Fatalf("decode gameOver event: %v", err)
	}
	if over.Moves != 0 {
		t.Errorf("gameOver moves = %d, want 0", over.Moves)
	}

	fr := readUntilType(t, conn, FrameState)
	if !fr.State.Game.IsGameOver || fr.State.Game.IsVictory {
		t.Errorf("state after end = %+v, want defeat", fr.State.Game)
	}
}

// walkTwin drives the server game and a local twin in lockstep along the
// twin's solution path, reading each move event before the next step.
func walkTwin(t *testing.T, conn *websocket.Conn, twin *game.TestGame, steps int) {
	t.Helper()

	path := twin.Grid().SolutionPath
	if steps <= 0 || steps > len(path)-1 {
		steps = len(path) - 1
	}
	for i := 1; i <= steps; i++ {
		dx := path[i].X - path[i-1].X
		dy := path[i].Y - path[i-1].Y
		if err := twin.MovePlayer(dx, dy); err != nil {
			t.Fatalf("twin step %d: %v", i, err)
		}
		send(t, conn, Command{Op: OpMove, Dx: dx, Dy: dy})

		ev := readUntilEvent(t, conn, "move")
		var mv game.MoveEvent
		if err := json.Unmarshal(ev.Event.Data, &mv); err != nil {
			t.Fatalf("decode move event: %v", err)
		}
		if mv.Moves != i {
			t.Fatalf("server move count = %d, want %d", mv.Moves, i)
		}
		if mv.To != twin.Player() {
			t.Fatalf("server player = %v, twin = %v", mv.To, twin.Player())
		}
	}
}

func TestSolutionWalkToVictory(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dialSession(t, ts)

	send(t, conn, Command{Op: OpNew, Width: 8, Height: 8, Seed: 7})
	readUntilType(t, conn, FrameState)
	send(t, conn, Command{Op: OpStart})
	readUntilType(t, conn, FrameState)

	twin := game.NewTestGame(game.WithSize(8, 8), game.WithSeed(7))
	path := twin.Grid().SolutionPath

	walkTwin(t, conn, twin, 0)

	ev := readUntilEvent(t, conn, "victory")
	var vict game.VictoryEvent
	if err := json.Unmarshal(ev.Event.Data, &vict); err != nil {
		t.Fatalf("decode victory event: %v", err)
	}
	if vict.Moves != len(path)-1 {
		t.Errorf("victory moves = %d, want %d", vict.Moves, len(path)-1)
	}

	send(t, conn, Command{Op: OpState})
	fr := readUntilType(t, conn, FrameState)
	if !fr.State.Game.IsGameOver || !fr.State.Game.IsVictory {
		t.Errorf("state after victory = %+v, want victory", fr.State.Game)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dialSession(t, ts)

	send(t, conn, Command{Op: OpNew, Width: 8, Height: 8, Seed: 7})
	readUntilType(t, conn, FrameState)
	send(t, conn, Command{Op: OpStart})
	readUntilType(t, conn, FrameState)

	twin := game.NewTestGame(game.WithSize(8, 8), game.WithSeed(7))
	walkTwin(t, conn, twin, 3)

	send(t, conn, Command{Op: OpSave, Slot: "quick"})
	slots := readUntilType(t, conn, FrameSlots)
	if len(slots.Slots) != 1 || slots.Slots[0].Slot != "quick" {
		t.Fatalf("slots after save = %+v, want [quick]", slots.Slots)
	}

	// Restart abandons the run for a different maze, then load brings the
	// saved one back.
	send(t, conn, Command{Op: OpRestart})
	fr := readUntilType(t, conn, FrameState)
	if fr.State.Game.Moves != 0 {
		t.Fatalf("restart moves = %d, want 0", fr.State.Game.Moves)
	}

	send(t, conn, Command{Op: OpLoad, Slot: "quick"})
	fr = readUntilType(t, conn, FrameState)
	if fr.State.Game.Moves != 3 {
		t.Errorf("loaded moves = %d, want 3", fr.State.Game.Moves)
	}
	if fr.State.Player != twin.Player() {
		t.Errorf("loaded player = %v, want %v", fr.State.Player, twin.Player())
	}
	if fr.State.Config.Seed != 7 {
		t.Errorf("loaded seed = %d, want 7", fr.State.Config.Seed)
	}
}

func TestLoadMissingSlot(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dialSession(t, ts)

	send(t, conn, Command{Op: OpLoad, Slot: "nope"})
	fr := readUntilType(t, conn, FrameError)
	if !strings.Contains(fr.Error, "no save in slot") {
		t.Errorf("error = %q, want missing-save text", fr.Error)
	}
}

func TestSlotsInitiallyEmpty(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dialSession(t, ts)

	send(t, conn, Command{Op: OpSlots})
	fr := readUntilType(t, conn, FrameSlots)
	if len(fr.Slots) != 0 {
		t.Errorf("slots = %+v, want none", fr.Slots)
	}
}

func TestUnknownOp(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dialSession(t, ts)

	send(t, conn, Command{Op: "warp"})
	fr := readUntilType(t, conn, FrameError)
	if !strings.Contains(fr.Error, `unknown op "warp"`) {
		t.Errorf("error = %q, want unknown op", fr.Error)
	}
}

func TestMalformedCommand(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dialSession(t, ts)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{oops")); err != nil {
		t.Fatalf("write raw: %v", err)
	}
	fr := readUntilType(t, conn, FrameError)
	if !strings.Contains(fr.Error, "bad command") {
		t.Errorf("error = %q, want bad command", fr.Error)
	}
}
