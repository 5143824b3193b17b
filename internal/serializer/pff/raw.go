package pff

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Provider event-type tags used by the built-in handlers.
const (
	TagPass      = "PASS"
	TagShot      = "SHOT"
	TagChallenge = "CHALLENGE"
	TagClearance = "CLEARANCE"
	TagOut       = "OUT"
)

// PlayerPosition is one entry of a raw event's player-position snapshot.
type PlayerPosition struct {
	PlayerID json.Number `json:"playerId"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
}

// GameEventPayload is the nested game-event record of a raw event.
type GameEventPayload struct {
	GameEventType string       `json:"gameEventType"`
	TeamID        *json.Number `json:"teamId"`
	PlayerID      *json.Number `json:"playerId"`
	Period        int          `json:"period"`
}

// PossessionEventPayload is the nested possession-event record of a raw
// event.
type PossessionEventPayload struct {
	GameClock           float64      `json:"gameClock"`
	PossessionEventType string       `json:"possessionEventType"`
	ShotOutcomeType     *string      `json:"shotOutcomeType"`
	ChallengerID        *json.Number `json:"challengerId"`
}

// RawEvent is one decoded provider event record. Field names are the exact
// provider keys.
type RawEvent struct {
	GameEventID       json.Number            `json:"gameEventId"`
	PossessionEventID *json.Number           `json:"possessionEventId"`
	EventTime         *float64               `json:"eventTime"`
	GameEvents        GameEventPayload       `json:"gameEvents"`
	PossessionEvents  PossessionEventPayload `json:"possessionEvents"`
	HomePlayers       []PlayerPosition       `json:"homePlayers"`
	AwayPlayers       []PlayerPosition       `json:"awayPlayers"`
}

// Identity returns the composite identity used as the event's key in the
// sibling table: gameEventId alone when no possession event exists, else
// gameEventId_possessionEventId_gameEventType_eventTime.
func (e *RawEvent) Identity() string {
	if e.PossessionEventID == nil {
		return e.GameEventID.String()
	}
	return fmt.Sprintf("%s_%s_%s_%s",
		e.GameEventID.String(),
		e.PossessionEventID.String(),
		e.GameEvents.GameEventType,
		formatEventTime(*e.EventTime),
	)
}

// validate checks the decode-time input constraints.
func (e *RawEvent) validate() error {
	switch {
	case e.GameEventID.String() == "":
		return fmt.Errorf("%w: gameEventId", ErrMissingField)
	case e.GameEvents.GameEventType == "":
		return fmt.Errorf("%w: gameEvents.gameEventType", ErrMissingField)
	case e.EventTime == nil:
		return fmt.Errorf("%w: eventTime", ErrMissingField)
	}
	return nil
}

// formatEventTime renders eventTime the way it participates in identities:
// shortest exact decimal form, e.g. 12.5 -> "12.5".
func formatEventTime(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}

// EventIndex is the ordered, read-only sibling table for one match. Events
// are held in ascending eventTime order (ties keep original array order)
// and addressable by composite identity.
type EventIndex struct {
	events []*RawEvent
	byID   map[string]*RawEvent
	seq    map[string]int
}

// DecodeRawEvents parses the raw JSON event array into an EventIndex.
// Malformed records and identity collisions fail the whole load; no partial
// index is returned.
func DecodeRawEvents(r io.Reader) (*EventIndex, error) {
	var events []*RawEvent
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode event document: %w", err)
	}

	for i, ev := range events {
		if err := ev.validate(); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return *events[i].EventTime < *events[j].EventTime
	})

	idx := &EventIndex{
		events: events,
		byID:   make(map[string]*RawEvent, len(events)),
		seq:    make(map[string]int, len(events)),
	}
	for i, ev := range events {
		id := ev.Identity()
		if _, exists := idx.byID[id]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEvent, id)
		}
		idx.byID[id] = ev
		idx.seq[id] = i
	}
	return idx, nil
}

// Get returns the raw event with the given composite identity.
func (x *EventIndex) Get(id string) (*RawEvent, bool) {
	ev, ok := x.byID[id]
	return ev, ok
}

// Events returns the raw events in eventTime order. The slice is shared;
// callers must not mutate it.
func (x *EventIndex) Events() []*RawEvent {
	return x.events
}

// Len returns the number of indexed events.
func (x *EventIndex) Len() int {
	return len(x.events)
}

// Next returns the event immediately after ev in stream order, or nil when
// ev is the last event or unknown.
func (x *EventIndex) Next(ev *RawEvent) *RawEvent {
	i, ok := x.seq[ev.Identity()]
	if !ok || i+1 >= len(x.events) {
		return nil
	}
	return x.events[i+1]
}

// Prev returns the event immediately before ev in stream order, or nil when
// ev is the first event or unknown.
func (x *EventIndex) Prev(ev *RawEvent) *RawEvent {
	i, ok := x.seq[ev.Identity()]
	if !ok || i == 0 {
		return nil
	}
	return x.events[i-1]
}
