package server

import (
	"encoding/json"

	"github.com/Garsondee/Maze-Sense/internal/game"
	"github.com/Garsondee/Maze-Sense/internal/store"
)

// Command ops accepted over the wire.
const (
	OpNew     = "new"
	OpStart   = "start"
	OpMove    = "move"
	OpPause   = "pause"
	OpRestart = "restart"
	OpEnd     = "end"
	OpState   = "state"
	OpSave    = "save"
	OpLoad    = "load"
	OpSlots   = "slots"
)

// Command is one client request frame. Only the fields the op needs are
// read; the rest stay zero.
type Command struct {
	Op string `json:"op"`

	// new
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Seed      int64  `json:"seed,omitempty"`
	ViewMode  string `json:"viewMode,omitempty"`
	ViewRange int    `json:"viewRange,omitempty"`

	// move
	Dx int `json:"dx,omitempty"`
	Dy int `json:"dy,omitempty"`

	// save, load
	Slot string `json:"slot,omitempty"`
}

// Frame reply types.
const (
	FrameState = "state"
	FrameEvent = "event"
	FrameError = "error"
	FrameSlots = "slots"
)

// Frame is one server reply. Type selects which payload field is set:
// full snapshots for "state", a forwarded core event for "event", the
// sentinel error text for "error" (Op echoes the rejected command), and
// the save listing for "slots".
type Frame struct {
	Type  string           `json:"type"`
	State *game.Snapshot   `json:"state,omitempty"`
	Event *EventFrame      `json:"event,omitempty"`
	Error string           `json:"error,omitempty"`
	Op    string           `json:"op,omitempty"`
	Slots []store.SlotInfo `json:"slots,omitempty"`
}

// EventFrame wraps a core event with its kind name so clients can pick
// the payload type before decoding Data.
type EventFrame struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

func stateFrame(g *game.Game) Frame {
	snap := g.Export()
	return Frame{Type: FrameState, State: &snap}
}

func eventFrame(ev game.Event) Frame {
	data, _ := json.Marshal(ev)
	return Frame{Type: FrameEvent, Event: &EventFrame{Kind: ev.Kind().String(), Data: data}}
}

func errorFrame(op string, err error) Frame {
	return Frame{Type: FrameError, Op: op, Error: err.Error()}
}

func slotsFrame(infos []store.SlotInfo) Frame {
	return Frame{Type: FrameSlots, Slots: infos}
}
