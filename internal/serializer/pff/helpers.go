package pff

import (
	"fmt"

	"github.com/okian/gandula/internal/domain/model"
)

// extractCoordinates selects the home or away position snapshot depending
// on which side teamID belongs to and returns the matching player's (x, y).
// A nil result means the player has no tracking entry for this event, which
// is expected and must not abort processing.
func extractCoordinates(ev *RawEvent, playerID, teamID, homeTeamID string) *model.Point {
	list := ev.AwayPlayers
	if teamID == homeTeamID {
		list = ev.HomePlayers
	}
	for i := range list {
		if list[i].PlayerID.String() == playerID {
			return &model.Point{X: list[i].X, Y: list[i].Y}
		}
	}
	return nil
}

// extractBallState reports a dead ball exactly for the out-of-play
// event-type tag and alive for every other tag.
func extractBallState(ev *RawEvent) model.BallState {
	if ev.GameEvents.GameEventType == TagOut {
		return model.BallStateDead
	}
	return model.BallStateAlive
}

// possessionTeam resolves the ball-owning team strictly by id equality
// against the two known teams.
func possessionTeam(teamID string, home, away *model.Team) (*model.Team, error) {
	switch teamID {
	case home.ID:
		return home, nil
	case away.ID:
		return away, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTeam, teamID)
}

// findPlayer searches both rosters for a player id. A nil result is
// tolerated; provider rosters are sometimes incomplete.
func findPlayer(playerID string, teams ...*model.Team) *model.Player {
	for _, t := range teams {
		if p := t.PlayerByID(playerID); p != nil {
			return p
		}
	}
	return nil
}
