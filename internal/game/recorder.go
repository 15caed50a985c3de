package game

import (
	"fmt"
	"strings"
)

// RecordedEvent is one event captured during a run, tagged with its
// position in the stream and the move count at capture time.
type RecordedEvent struct {
	Seq   int
	Moves int
	Kind  EventKind
	Event Event
}

// String formats the entry as a fixed-width log line.
//
//	[012] move      (3,4) -> (3,5) moves=3
func (e RecordedEvent) String() string {
	return fmt.Sprintf("[%03d] %-9s %s", e.Seq, e.Kind, describeEvent(e.Event))
}

func describeEvent(ev Event) string {
	switch ev := ev.(type) {
	case StartEvent:
		return fmt.Sprintf("%dx%d start=%s end=%s", ev.Width, ev.Height, ev.Start, ev.End)
	case MoveEvent:
		return fmt.Sprintf("%s -> %s moves=%d", ev.From, ev.To, ev.Moves)
	case ExploredEvent:
		return fmt.Sprintf("%s explored=%d/%d", ev.Cell, ev.Explored, ev.Total)
	case VictoryEvent:
		return fmt.Sprintf("moves=%d rate=%d%% explored=%d/%d", ev.Moves, ev.ExplorationRate, ev.Explored, ev.Total)
	case GameOverEvent:
		return fmt.Sprintf("moves=%d elapsed=%.1fs", ev.Moves, ev.ElapsedSeconds)
	default:
		return fmt.Sprintf("%v", ev)
	}
}

// Recorder subscribes to every event kind and keeps the full ordered
// stream. Unlike a UI adapter it never drops anything, so tests and the
// report tool can assert on exact sequences.
type Recorder struct {
	entries []RecordedEvent
	tokens  map[EventKind]int
	game    *Game
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Attach subscribes the recorder to every event kind on g. A recorder
// follows one game at a time; attaching again moves it.
func (r *Recorder) Attach(g *Game) {
	r.Detach()
	r.game = g
	r.tokens = make(map[EventKind]int, eventKindCount)
	for k := EventKind(0); k < eventKindCount; k++ {
		r.tokens[k] = g.Subscribe(k, r.record)
	}
}

// Detach removes every subscription. Recorded entries survive.
func (r *Recorder) Detach() {
	if r.game == nil {
		return
	}
	for kind, id := range r.tokens {
		r.game.Unsubscribe(kind, id)
	}
	r.game = nil
	r.tokens = nil
}

func (r *Recorder) record(ev Event) error {
	r.entries = append(r.entries, RecordedEvent{
		Seq:   len(r.entries),
		Moves: r.game.Moves(),
		Kind:  ev.Kind(),
		Event: ev,
	})
	return nil
}

// Entries returns everything recorded so far.
func (r *Recorder) Entries() []RecordedEvent {
	return r.entries
}

// Filter returns the entries of one kind, in order.
func (r *Recorder) Filter(kind EventKind) []RecordedEvent {
	var out []RecordedEvent
	for _, e := range r.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many events of one kind were recorded.
func (r *Recorder) Count(kind EventKind) int {
	return len(r.Filter(kind))
}

// Has reports whether at least one event of the kind was recorded.
func (r *Recorder) Has(kind EventKind) bool {
	return r.Count(kind) > 0
}

// Last returns the most recent entry of one kind, or false if none.
func (r *Recorder) Last(kind EventKind) (RecordedEvent, bool) {
	entries := r.Filter(kind)
	if len(entries) == 0 {
		return RecordedEvent{}, false
	}
	return entries[len(entries)-1], true
}

// Reset drops recorded entries while keeping subscriptions alive.
func (r *Recorder) Reset() {
	r.entries = r.entries[:0]
}

// Format returns the full stream as a single string for t.Log output.
func (r *Recorder) Format() string {
	var sb strings.Builder
	for _, e := range r.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
