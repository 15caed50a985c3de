package game

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventKind identifies one of the loop's domain events.
type EventKind int

const (
	EventStart EventKind = iota
	EventMove
	EventExplored
	EventVictory
	EventGameOver

	eventKindCount // keep last
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventMove:
		return "move"
	case EventExplored:
		return "explored"
	case EventVictory:
		return "victory"
	case EventGameOver:
		return "gameOver"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is implemented by every payload the loop publishes.
type Event interface {
	Kind() EventKind
}

// StartEvent fires once when a run begins, on both Start and Restart.
type StartEvent struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Start  Point     `json:"start"`
	End    Point     `json:"end"`
	At     time.Time `json:"at"`
}

func (StartEvent) Kind() EventKind { return EventStart }

// MoveEvent fires after every accepted move, before any exploration or
// victory event of the same call.
type MoveEvent struct {
	From  Point `json:"from"`
	To    Point `json:"to"`
	Moves int   `json:"moves"`
}

func (MoveEvent) Kind() EventKind { return EventMove }

// ExploredEvent fires once per cell the first time it becomes visible,
// whatever the view mode. Explored counts cells discovered so far.
type ExploredEvent struct {
	Cell     Point `json:"cell"`
	Explored int   `json:"explored"`
	Total    int   `json:"total"`
}

func (ExploredEvent) Kind() EventKind { return EventExplored }

// VictoryEvent fires exactly once, when a move lands on the end cell.
type VictoryEvent struct {
	Moves           int     `json:"moves"`
	ElapsedSeconds  float64 `json:"elapsedSeconds"`
	ExplorationRate int     `json:"explorationRate"`
	Explored        int     `json:"explored"`
	Total           int     `json:"total"`
}

func (VictoryEvent) Kind() EventKind { return EventVictory }

// GameOverEvent fires when a run is ended by GameOver rather than won.
type GameOverEvent struct {
	Moves          int     `json:"moves"`
	ElapsedSeconds float64 `json:"elapsedSeconds"`
}

func (GameOverEvent) Kind() EventKind { return EventGameOver }

// Handler consumes one event. Returning an error marks this delivery
// failed; the failure is logged and other subscribers still run.
type Handler func(Event) error

// events fans loop events out to subscribers. Subscribers of one kind run
// in subscription order, and a panicking or erroring handler never stops
// delivery to the rest.
type events struct {
	subs   map[EventKind][]subscription
	nextID int
}

type subscription struct {
	id int
	fn Handler
}

func newEvents() *events {
	return &events{subs: make(map[EventKind][]subscription)}
}

// Subscribe registers fn for one event kind and returns a token for
// Unsubscribe.
func (e *events) Subscribe(kind EventKind, fn Handler) int {
	e.nextID++
	e.subs[kind] = append(e.subs[kind], subscription{id: e.nextID, fn: fn})
	return e.nextID
}

// Unsubscribe drops the registration with the given token. Unknown tokens
// are ignored.
func (e *events) Unsubscribe(kind EventKind, id int) {
	subs := e.subs[kind]
	for i, sub := range subs {
		if sub.id == id {
			e.subs[kind] = append(append([]subscription(nil), subs[:i]...), subs[i+1:]...)
			return
		}
	}
}

func (e *events) emit(ev Event) {
	for _, sub := range e.subs[ev.Kind()] {
		e.deliver(sub, ev)
	}
}

func (e *events) deliver(sub subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"event":      ev.Kind().String(),
				"subscriber": sub.id,
			}).Errorf("event handler panicked: %v", r)
		}
	}()
	if err := sub.fn(ev); err != nil {
		log.WithFields(log.Fields{
			"event":      ev.Kind().String(),
			"subscriber": sub.id,
		}).WithError(err).Warn("event handler failed")
	}
}
