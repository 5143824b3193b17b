package pff

import (
	"github.com/okian/gandula/internal/domain/model"
)

// Handler turns one resolved raw event into zero or more canonical events.
// Emission order is preserved in the final dataset.
type Handler func(ev *RawEvent, mctx *MatchContext) ([]*model.Event, error)

// Registry dispatches raw events to handlers keyed by the provider
// event-type tag. Unknown tags fall back to the generic handler.
type Registry struct {
	handlers map[string]Handler
	fallback Handler
}

// NewRegistry creates a registry with the built-in handlers installed.
func NewRegistry() *Registry {
	r := &Registry{
		handlers: make(map[string]Handler),
		fallback: genericHandler,
	}
	r.Register(TagPass, passHandler)
	r.Register(TagShot, shotHandler)
	r.Register(TagChallenge, challengeHandler)
	r.Register(TagClearance, clearanceHandler)
	r.Register(TagOut, outHandler)
	return r
}

// Register installs or replaces the handler for a provider event-type tag.
func (r *Registry) Register(tag string, h Handler) {
	r.handlers[tag] = h
}

// Deserialize dispatches ev to the handler for its event-type tag.
func (r *Registry) Deserialize(ev *RawEvent, mctx *MatchContext) ([]*model.Event, error) {
	h, ok := r.handlers[ev.GameEvents.GameEventType]
	if !ok {
		h = r.fallback
	}
	return h(ev, mctx)
}

// baseEvent builds the canonical fields every handler shares: period and
// team references, acting player, coordinates, ball state, and the
// ball-owning team resolved from the raw event's team id field.
func baseEvent(ev *RawEvent, mctx *MatchContext, typ model.EventType) (*model.Event, error) {
	period, err := mctx.PeriodByID(ev.GameEvents.Period)
	if err != nil {
		return nil, err
	}

	home, away := mctx.HomeTeam(), mctx.AwayTeam()

	var team, owning *model.Team
	if ev.GameEvents.TeamID != nil {
		team, err = possessionTeam(ev.GameEvents.TeamID.String(), home, away)
		if err != nil {
			return nil, err
		}
		owning = team
	}

	var player *model.Player
	var coords *model.Point
	if ev.GameEvents.PlayerID != nil {
		playerID := ev.GameEvents.PlayerID.String()
		player = findPlayer(playerID, home, away)
		if team != nil {
			coords = extractCoordinates(ev, playerID, team.ID, home.ID)
		}
	}

	return &model.Event{
		EventID:        ev.GameEventID.String(),
		Type:           typ,
		Period:         period,
		Timestamp:      ev.PossessionEvents.GameClock,
		BallOwningTeam: owning,
		BallState:      extractBallState(ev),
		Team:           team,
		Player:         player,
		Coordinates:    coords,
		Raw:            ev,
	}, nil
}

// passHandler emits a pass. The receiver is resolved from the next
// chronological event in the sibling table when one exists.
func passHandler(ev *RawEvent, mctx *MatchContext) ([]*model.Event, error) {
	e, err := baseEvent(ev, mctx, model.EventTypePass)
	if err != nil {
		return nil, err
	}
	if next := mctx.Events().Next(ev); next != nil && next.GameEvents.PlayerID != nil {
		e.ReceiverPlayer = findPlayer(next.GameEvents.PlayerID.String(), mctx.HomeTeam(), mctx.AwayTeam())
	}
	return []*model.Event{e}, nil
}

// shotHandler emits a shot with its outcome qualifier when present.
func shotHandler(ev *RawEvent, mctx *MatchContext) ([]*model.Event, error) {
	e, err := baseEvent(ev, mctx, model.EventTypeShot)
	if err != nil {
		return nil, err
	}
	if ev.PossessionEvents.ShotOutcomeType != nil {
		e.Qualifiers = append(e.Qualifiers, model.Qualifier{
			Name:  "shotOutcome",
			Value: *ev.PossessionEvents.ShotOutcomeType,
		})
	}
	return []*model.Event{e}, nil
}

// challengeHandler emits one canonical event per participant: the acting
// player's event, plus the challenger's when the possession payload lists
// one.
func challengeHandler(ev *RawEvent, mctx *MatchContext) ([]*model.Event, error) {
	first, err := baseEvent(ev, mctx, model.EventTypeChallenge)
	if err != nil {
		return nil, err
	}
	events := []*model.Event{first}

	if ev.PossessionEvents.ChallengerID != nil {
		home, away := mctx.HomeTeam(), mctx.AwayTeam()
		challengerID := ev.PossessionEvents.ChallengerID.String()

		player := findPlayer(challengerID, home, away)
		var team *model.Team
		switch {
		case player != nil:
			team = player.Team
		case first.Team == home:
			team = away
		case first.Team == away:
			team = home
		}

		second := *first
		second.Team = team
		second.Player = player
		second.ReceiverPlayer = nil
		second.Coordinates = nil
		if team != nil {
			second.Coordinates = extractCoordinates(ev, challengerID, team.ID, home.ID)
		}
		events = append(events, &second)
	}
	return events, nil
}

// clearanceHandler emits a clearance.
func clearanceHandler(ev *RawEvent, mctx *MatchContext) ([]*model.Event, error) {
	e, err := baseEvent(ev, mctx, model.EventTypeClearance)
	if err != nil {
		return nil, err
	}
	return []*model.Event{e}, nil
}

// outHandler emits a dead-ball event for the out-of-play tag.
func outHandler(ev *RawEvent, mctx *MatchContext) ([]*model.Event, error) {
	e, err := baseEvent(ev, mctx, model.EventTypeBallOut)
	if err != nil {
		return nil, err
	}
	return []*model.Event{e}, nil
}

// genericHandler covers event-type tags without a dedicated handler.
func genericHandler(ev *RawEvent, mctx *MatchContext) ([]*model.Event, error) {
	e, err := baseEvent(ev, mctx, model.EventTypeGeneric)
	if err != nil {
		return nil, err
	}
	return []*model.Event{e}, nil
}
