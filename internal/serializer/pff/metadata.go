package pff

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/gandula/internal/domain/model"
)

// Wire shapes of the metadata and roster documents. Field names are the
// exact provider keys.

type teamMetadata struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

type pitchMetadata struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
}

type stadiumMetadata struct {
	Pitches []pitchMetadata `json:"pitches"`
}

type matchMetadata struct {
	ID                json.Number     `json:"id"`
	Week              int             `json:"week"`
	Date              string          `json:"date"`
	HomeTeam          teamMetadata    `json:"homeTeam"`
	AwayTeam          teamMetadata    `json:"awayTeam"`
	Stadium           stadiumMetadata `json:"stadium"`
	StartPeriod1      *string         `json:"startPeriod1"`
	EndPeriod1        *string         `json:"endPeriod1"`
	StartPeriod2      *string         `json:"startPeriod2"`
	EndPeriod2        *string         `json:"endPeriod2"`
	HomeTeamStartLeft *bool           `json:"homeTeamStartLeft"`
}

type rosterRecord struct {
	Team struct {
		ID json.Number `json:"id"`
	} `json:"team"`
	Player struct {
		ID       json.Number `json:"id"`
		Nickname string      `json:"nickname"`
	} `json:"player"`
	ShirtNumber       string `json:"shirtNumber"`
	Started           bool   `json:"started"`
	PositionGroupType string `json:"positionGroupType"`
}

// decodeMetadata parses the metadata document. The document is an array
// expected to hold exactly one match record; the last record wins, an empty
// array is a decode error.
func decodeMetadata(r io.Reader) (*matchMetadata, error) {
	var records []matchMetadata
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode metadata document: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoMetadata
	}
	last := records[len(records)-1]
	return &last, nil
}

// decodeRoster parses the roster document.
func decodeRoster(r io.Reader) ([]rosterRecord, error) {
	var records []rosterRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode roster document: %w", err)
	}
	return records, nil
}

// buildTeam constructs a Team from its metadata record and the records of
// the full roster whose team id matches. Shirt numbers must be numeric.
func buildTeam(meta teamMetadata, roster []rosterRecord, ground model.Ground) (*model.Team, error) {
	team := &model.Team{
		ID:     meta.ID.String(),
		Name:   meta.Name,
		Ground: ground,
	}
	for _, rec := range roster {
		if rec.Team.ID.String() != team.ID {
			continue
		}
		no, err := strconv.Atoi(strings.TrimSpace(rec.ShirtNumber))
		if err != nil {
			return nil, fmt.Errorf("%w: %q for player %s", ErrBadShirtNumber, rec.ShirtNumber, rec.Player.ID.String())
		}
		team.Players = append(team.Players, &model.Player{
			ID:               rec.Player.ID.String(),
			Team:             team,
			Name:             rec.Player.Nickname,
			JerseyNo:         no,
			Starting:         rec.Started,
			StartingPosition: rec.PositionGroupType,
		})
	}
	return team, nil
}

// buildPeriods derives the two fixed halves from the four period timestamp
// fields. A match lacking one of the fields fails construction.
func buildPeriods(meta *matchMetadata) ([]*model.Period, error) {
	fields := []struct {
		id         int
		start, end *string
		name       string
	}{
		{1, meta.StartPeriod1, meta.EndPeriod1, "period 1"},
		{2, meta.StartPeriod2, meta.EndPeriod2, "period 2"},
	}

	periods := make([]*model.Period, 0, len(fields))
	for _, f := range fields {
		if f.start == nil || f.end == nil {
			return nil, fmt.Errorf("%w: %s timestamps", ErrMissingField, f.name)
		}
		periods = append(periods, &model.Period{
			ID:    f.id,
			Start: *f.start,
			End:   *f.end,
		})
	}
	return periods, nil
}

// pitchDimensions reads the pitch size from the stadium metadata. When the
// provider supplies more than one pitch record the last one wins; zero
// records is a data error.
func pitchDimensions(meta *matchMetadata) (model.PitchDimensions, error) {
	pitches := meta.Stadium.Pitches
	if len(pitches) == 0 {
		return model.PitchDimensions{}, ErrNoPitch
	}
	last := pitches[len(pitches)-1]
	return model.PitchDimensions{Length: last.Length, Width: last.Width}, nil
}

// orientation derives the attack direction from the kickoff-side flag.
func orientation(meta *matchMetadata) (model.Orientation, error) {
	if meta.HomeTeamStartLeft == nil {
		return "", fmt.Errorf("%w: homeTeamStartLeft", ErrMissingField)
	}
	if *meta.HomeTeamStartLeft {
		return model.OrientationHomeAway, nil
	}
	return model.OrientationAwayHome, nil
}
