package model

// BallState indicates play continuity. It is a closed two-value
// enumeration, not a general state machine.
type BallState string

// BallState values.
const (
	BallStateAlive BallState = "alive"
	BallStateDead  BallState = "dead"
)

// EventType tags a canonical event with its semantic kind.
type EventType string

// EventType values.
const (
	EventTypePass      EventType = "pass"
	EventTypeShot      EventType = "shot"
	EventTypeChallenge EventType = "challenge"
	EventTypeClearance EventType = "clearance"
	EventTypeBallOut   EventType = "ball_out"
	EventTypeGeneric   EventType = "generic"
)

// Point is a pitch coordinate pair. Canonical events carry *Point so that a
// missing tracking entry is representable as nil rather than (0, 0).
type Point struct {
	X float64
	Y float64
}

// Qualifier refines a canonical event with a provider tag, e.g. a shot
// outcome.
type Qualifier struct {
	Name  string
	Value string
}

// Event is the provider-agnostic output unit. One raw provider event may
// yield zero, one, or many of these.
type Event struct {
	EventID   string
	Type      EventType
	Period    *Period
	Timestamp float64 // game clock, seconds

	BallOwningTeam *Team
	BallState      BallState

	Team           *Team
	Player         *Player // nil when the event has no acting player
	ReceiverPlayer *Player // pass events only; nil otherwise

	Coordinates *Point // nil when the player has no tracking entry
	Qualifiers  []Qualifier

	// Raw references the originating provider payload.
	Raw any
}
