// Package model contains the provider-agnostic match domain model passed
// between layers.
package model

// Ground designates a team's home/away role within a match.
type Ground string

// Ground values.
const (
	GroundHome Ground = "home"
	GroundAway Ground = "away"
)

// Player is one rostered player. Team is a back-reference to the owning
// team, not an ownership relation.
type Player struct {
	ID               string
	Team             *Team
	Name             string
	JerseyNo         int
	Starting         bool
	StartingPosition string
}

// Team is one side of a match with its ordered roster.
type Team struct {
	ID      string
	Name    string
	Ground  Ground
	Players []*Player
}

// PlayerByID returns the rostered player with the given id, or nil when the
// roster does not contain it. Provider rosters are sometimes incomplete, so
// absence is not an error.
func (t *Team) PlayerByID(id string) *Player {
	for _, p := range t.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}
