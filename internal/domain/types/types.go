// Package types contains the flat wire shapes returned by the API. They
// are decoupled from the domain model, which carries back-references that
// do not serialize.
package types

import "github.com/okian/gandula/internal/domain/model"

// PlayerRecord is the wire shape of one rostered player.
type PlayerRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	JerseyNo int    `json:"jersey_no"`
	Starting bool   `json:"starting"`
	Position string `json:"position,omitempty"`
}

// TeamRecord is the wire shape of one team with its roster.
type TeamRecord struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Ground  string         `json:"ground"`
	Players []PlayerRecord `json:"players"`
}

// PeriodRecord is the wire shape of one match period.
type PeriodRecord struct {
	ID    int    `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// MetadataRecord is the wire shape of the match metadata.
type MetadataRecord struct {
	GameID           string         `json:"game_id"`
	GameWeek         int            `json:"game_week"`
	Date             string         `json:"date"`
	Provider         string         `json:"provider"`
	CoordinateSystem string         `json:"coordinate_system"`
	Orientation      string         `json:"orientation"`
	PitchLength      float64        `json:"pitch_length"`
	PitchWidth       float64        `json:"pitch_width"`
	Home             TeamRecord     `json:"home"`
	Away             TeamRecord     `json:"away"`
	Periods          []PeriodRecord `json:"periods"`
}

// EventRecord is the wire shape of one canonical event.
type EventRecord struct {
	EventID          string            `json:"event_id"`
	Type             string            `json:"type"`
	PeriodID         int               `json:"period_id"`
	Timestamp        float64           `json:"timestamp"`
	TeamID           string            `json:"team_id,omitempty"`
	PlayerID         string            `json:"player_id,omitempty"`
	ReceiverPlayerID string            `json:"receiver_player_id,omitempty"`
	BallOwningTeamID string            `json:"ball_owning_team_id,omitempty"`
	BallState        string            `json:"ball_state"`
	X                *float64          `json:"x,omitempty"`
	Y                *float64          `json:"y,omitempty"`
	Qualifiers       map[string]string `json:"qualifiers,omitempty"`
}

// DatasetRecord is the wire shape of one converted match.
type DatasetRecord struct {
	Metadata MetadataRecord `json:"metadata"`
	Events   []EventRecord  `json:"events"`
}

// DatasetFromModel flattens a domain dataset into its wire shape.
func DatasetFromModel(d *model.Dataset) DatasetRecord {
	rec := DatasetRecord{
		Metadata: metadataFromModel(d.Metadata),
		Events:   make([]EventRecord, 0, len(d.Events)),
	}
	for _, e := range d.Events {
		rec.Events = append(rec.Events, eventFromModel(e))
	}
	return rec
}

func metadataFromModel(m *model.Metadata) MetadataRecord {
	rec := MetadataRecord{
		GameID:           m.GameID,
		GameWeek:         m.GameWeek,
		Date:             m.Date,
		Provider:         m.Provider,
		CoordinateSystem: m.CoordinateSystem,
		Orientation:      string(m.Orientation),
		PitchLength:      m.PitchDimensions.Length,
		PitchWidth:       m.PitchDimensions.Width,
	}
	if len(m.Teams) == 2 {
		rec.Home = teamFromModel(m.Teams[0])
		rec.Away = teamFromModel(m.Teams[1])
	}
	for _, p := range m.Periods {
		rec.Periods = append(rec.Periods, PeriodRecord{ID: p.ID, Start: p.Start, End: p.End})
	}
	return rec
}

func teamFromModel(t *model.Team) TeamRecord {
	rec := TeamRecord{
		ID:      t.ID,
		Name:    t.Name,
		Ground:  string(t.Ground),
		Players: make([]PlayerRecord, 0, len(t.Players)),
	}
	for _, p := range t.Players {
		rec.Players = append(rec.Players, PlayerRecord{
			ID:       p.ID,
			Name:     p.Name,
			JerseyNo: p.JerseyNo,
			Starting: p.Starting,
			Position: p.StartingPosition,
		})
	}
	return rec
}

func eventFromModel(e *model.Event) EventRecord {
	rec := EventRecord{
		EventID:   e.EventID,
		Type:      string(e.Type),
		Timestamp: e.Timestamp,
		BallState: string(e.BallState),
	}
	if e.Period != nil {
		rec.PeriodID = e.Period.ID
	}
	if e.Team != nil {
		rec.TeamID = e.Team.ID
	}
	if e.Player != nil {
		rec.PlayerID = e.Player.ID
	}
	if e.ReceiverPlayer != nil {
		rec.ReceiverPlayerID = e.ReceiverPlayer.ID
	}
	if e.BallOwningTeam != nil {
		rec.BallOwningTeamID = e.BallOwningTeam.ID
	}
	if e.Coordinates != nil {
		x, y := e.Coordinates.X, e.Coordinates.Y
		rec.X, rec.Y = &x, &y
	}
	for _, q := range e.Qualifiers {
		if rec.Qualifiers == nil {
			rec.Qualifiers = make(map[string]string, len(e.Qualifiers))
		}
		rec.Qualifiers[q.Name] = q.Value
	}
	return rec
}
