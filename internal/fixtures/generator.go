// Package fixtures generates synthetic provider documents shaped like the
// PFF export, for tests and the genmatch tool.
package fixtures

import (
	"encoding/json"
	"fmt"
	"math/rand"
)

// Default generation constants.
const (
	defaultEventCount = 40
	defaultSeed       = 42
	rosterSize        = 11
	homeTeamID        = 100
	awayTeamID        = 200
	pitchLength       = 105.0
	pitchWidth        = 68.0
)

// Match bundles the three synthetic documents for one match.
type Match struct {
	GameID     string
	HomeTeamID string
	AwayTeamID string
	EventData  []byte
	MetaData   []byte
	RosterData []byte
}

type generator struct {
	eventCount int
	seed       int64
}

// Option applies a configuration option to the generator.
type Option func(*generator)

// WithEventCount sets the number of raw events to generate.
func WithEventCount(n int) Option {
	return func(g *generator) {
		if n > 0 {
			g.eventCount = n
		}
	}
}

// WithSeed sets the random seed, for reproducible documents.
func WithSeed(seed int64) Option {
	return func(g *generator) {
		g.seed = seed
	}
}

// Generate builds one synthetic match: metadata with two teams and two
// periods, full rosters, and an event stream of passes, shots, challenges
// and out-of-play events in ascending eventTime order.
func Generate(opts ...Option) (*Match, error) {
	g := &generator{
		eventCount: defaultEventCount,
		seed:       defaultSeed,
	}
	for _, opt := range opts {
		opt(g)
	}
	rng := rand.New(rand.NewSource(g.seed)) //nolint:gosec // deterministic fixtures

	meta := []map[string]any{{
		"id":                7777,
		"week":              12,
		"date":              "2024-03-09",
		"homeTeam":          map[string]any{"id": homeTeamID, "name": "Harbor FC"},
		"awayTeam":          map[string]any{"id": awayTeamID, "name": "Meadow United"},
		"stadium":           map[string]any{"pitches": []map[string]any{{"length": pitchLength, "width": pitchWidth}}},
		"startPeriod1":      "2024-03-09T15:00:00Z",
		"endPeriod1":        "2024-03-09T15:47:12Z",
		"startPeriod2":      "2024-03-09T16:03:00Z",
		"endPeriod2":        "2024-03-09T16:52:40Z",
		"homeTeamStartLeft": true,
	}}

	var roster []map[string]any
	for _, teamID := range []int{homeTeamID, awayTeamID} {
		for i := 1; i <= rosterSize; i++ {
			roster = append(roster, map[string]any{
				"team":              map[string]any{"id": teamID},
				"player":            map[string]any{"id": teamID*100 + i, "nickname": fmt.Sprintf("Player %d-%d", teamID, i)},
				"shirtNumber":       fmt.Sprintf("%d", i),
				"started":           true,
				"positionGroupType": positionFor(i),
			})
		}
	}

	events := make([]map[string]any, 0, g.eventCount)
	tags := []string{"PASS", "PASS", "PASS", "SHOT", "CHALLENGE", "OUT"}
	for i := 0; i < g.eventCount; i++ {
		tag := tags[rng.Intn(len(tags))]
		teamID := homeTeamID
		if rng.Intn(2) == 1 {
			teamID = awayTeamID
		}
		playerID := teamID*100 + 1 + rng.Intn(rosterSize)
		period := 1
		clock := 10.0 + float64(i)*5
		if i >= g.eventCount/2 {
			period = 2
		}

		ge := map[string]any{
			"gameEventType": tag,
			"teamId":        teamID,
			"playerId":      playerID,
			"period":        period,
		}
		pe := map[string]any{"gameClock": clock}
		if tag == "SHOT" {
			pe["shotOutcomeType"] = shotOutcome(rng)
		}
		if tag == "CHALLENGE" {
			other := homeTeamID
			if teamID == homeTeamID {
				other = awayTeamID
			}
			pe["challengerId"] = other*100 + 1 + rng.Intn(rosterSize)
		}
		if tag == "OUT" {
			delete(ge, "teamId")
			delete(ge, "playerId")
		}

		events = append(events, map[string]any{
			"gameEventId":       1000 + i,
			"possessionEventId": 5000 + i,
			"eventTime":         float64(i) + 0.5,
			"gameEvents":        ge,
			"possessionEvents":  pe,
			"homePlayers":       positions(rng, homeTeamID),
			"awayPlayers":       positions(rng, awayTeamID),
		})
	}

	eventData, err := json.Marshal(events)
	if err != nil {
		return nil, fmt.Errorf("marshal event document: %w", err)
	}
	metaData, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata document: %w", err)
	}
	rosterData, err := json.Marshal(roster)
	if err != nil {
		return nil, fmt.Errorf("marshal roster document: %w", err)
	}

	return &Match{
		GameID:     "7777",
		HomeTeamID: fmt.Sprintf("%d", homeTeamID),
		AwayTeamID: fmt.Sprintf("%d", awayTeamID),
		EventData:  eventData,
		MetaData:   metaData,
		RosterData: rosterData,
	}, nil
}

// positions renders a full-team tracking snapshot in provider coordinates
// (center origin).
func positions(rng *rand.Rand, teamID int) []map[string]any {
	out := make([]map[string]any, 0, rosterSize)
	for i := 1; i <= rosterSize; i++ {
		out = append(out, map[string]any{
			"playerId": teamID*100 + i,
			"x":        rng.Float64()*pitchLength - pitchLength/2,
			"y":        rng.Float64()*pitchWidth - pitchWidth/2,
		})
	}
	return out
}

func positionFor(i int) string {
	switch {
	case i == 1:
		return "GK"
	case i <= 5:
		return "D"
	case i <= 8:
		return "M"
	default:
		return "F"
	}
}

func shotOutcome(rng *rand.Rand) string {
	outcomes := []string{"G", "S", "O"}
	return outcomes[rng.Intn(len(outcomes))]
}
