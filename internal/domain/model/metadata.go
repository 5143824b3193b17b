package model

// Period is one half of the match. Timestamps are carried verbatim as
// provider strings; the export does not document a single timestamp format.
type Period struct {
	ID    int
	Start string
	End   string
}

// Orientation states which team attacks which direction, derived from the
// kickoff side.
type Orientation string

// Orientation values.
const (
	OrientationHomeAway Orientation = "home-away"
	OrientationAwayHome Orientation = "away-home"
)

// PitchDimensions holds the playing surface size in meters.
type PitchDimensions struct {
	Length float64
	Width  float64
}

// Metadata describes the match a dataset belongs to. Built once per match
// and immutable afterwards.
type Metadata struct {
	GameID           string
	GameWeek         int
	Date             string
	Teams            []*Team // home, away
	Periods          []*Period
	PitchDimensions  PitchDimensions
	Orientation      Orientation
	CoordinateSystem string
	Provider         string
}

// Dataset is the final output of one conversion: canonical events in
// source-time order plus the match metadata.
type Dataset struct {
	Metadata *Metadata
	Events   []*Event
}
