package pff

import (
	"fmt"

	"github.com/okian/gandula/internal/domain/model"
)

// MatchContext binds raw events to their match: resolved periods, the
// home/away team pair, and read access to the full sibling table. It is
// built once, after the whole event stream is loaded and indexed, and is
// read-only from then on. Handlers may consult siblings anywhere in the
// stream, not just their immediate neighbors.
type MatchContext struct {
	home    *model.Team
	away    *model.Team
	periods []*model.Period
	events  *EventIndex
}

// NewMatchContext creates the immutable per-match context.
func NewMatchContext(home, away *model.Team, periods []*model.Period, events *EventIndex) *MatchContext {
	return &MatchContext{
		home:    home,
		away:    away,
		periods: periods,
		events:  events,
	}
}

// HomeTeam returns the home side.
func (c *MatchContext) HomeTeam() *model.Team {
	return c.home
}

// AwayTeam returns the away side.
func (c *MatchContext) AwayTeam() *model.Team {
	return c.away
}

// Teams returns the home/away pair in order.
func (c *MatchContext) Teams() []*model.Team {
	return []*model.Team{c.home, c.away}
}

// TeamByID resolves a team strictly by id equality against the two known
// teams. An id matching neither is a reference error.
func (c *MatchContext) TeamByID(id string) (*model.Team, error) {
	switch id {
	case c.home.ID:
		return c.home, nil
	case c.away.ID:
		return c.away, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTeam, id)
}

// PeriodByID resolves a period by id. Every event's period reference must
// exist; an unknown id is a data error.
func (c *MatchContext) PeriodByID(id int) (*model.Period, error) {
	for _, p := range c.periods {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownPeriod, id)
}

// Events returns the sibling table.
func (c *MatchContext) Events() *EventIndex {
	return c.events
}
