// Package pff normalizes the PFF provider's JSON export (event stream,
// match metadata, player roster) into the provider-agnostic match model.
package pff

import (
	"context"
	"io"
	"time"

	"github.com/okian/gandula/internal/domain/coordinates"
	"github.com/okian/gandula/internal/domain/model"
	"github.com/okian/gandula/pkg/logger"
	"github.com/okian/gandula/pkg/metrics"
)

// Provider is the provider tag attached to produced datasets.
const Provider = "pff"

// Pipeline stage names, used for timing and error wrapping.
const (
	stageLoadData     = "load data"
	stageMatchContext = "parse match context"
	stageTeams        = "parse teams"
	stagePeriods      = "parse periods"
	stageMetadata     = "parse metadata"
	stageEvents       = "parse events"
)

// Input carries the three provider documents for one match.
type Input struct {
	EventData  io.Reader
	MetaData   io.Reader
	RosterData io.Reader
}

// Filter decides whether a canonical event is included in the dataset.
type Filter func(*model.Event) bool

// Deserializer runs the event normalization pipeline. It is a pure,
// deterministic transform over static inputs; there is no retry policy.
type Deserializer struct {
	target   coordinates.System
	registry *Registry
	filter   Filter
	logger   logger.Logger
}

// Option applies a configuration option to the Deserializer.
type Option func(*Deserializer)

// WithCoordinateSystem sets the target coordinate system of produced
// events.
func WithCoordinateSystem(s coordinates.System) Option {
	return func(d *Deserializer) {
		if s != "" {
			d.target = s
		}
	}
}

// WithRegistry sets a custom handler registry.
func WithRegistry(r *Registry) Option {
	return func(d *Deserializer) {
		if r != nil {
			d.registry = r
		}
	}
}

// WithFilter sets the caller-supplied inclusion predicate.
func WithFilter(f Filter) Option {
	return func(d *Deserializer) {
		d.filter = f
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Deserializer) {
		if l != nil {
			d.logger = l
		}
	}
}

// New constructs a Deserializer with default configuration.
func New(opts ...Option) *Deserializer {
	d := &Deserializer{
		target:   coordinates.SystemPFF,
		registry: NewRegistry(),
		logger:   logger.Noop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Deserialize runs the full pipeline: load -> parse match context -> parse
// teams -> parse periods -> parse metadata -> parse events. Normalization
// is all-or-nothing per match: any stage failure aborts the whole call with
// a DeserializationError naming the stage, and no partial dataset is
// returned.
func (d *Deserializer) Deserialize(ctx context.Context, in Input) (*model.Dataset, error) {
	fail := func(stage string, err error) (*model.Dataset, error) {
		return nil, &DeserializationError{Stage: stage, Err: err}
	}

	// Load. Canonical-event construction cannot begin before all raw
	// events are loaded and indexed: handlers may consult siblings
	// anywhere in the stream.
	start := time.Now()
	index, err := DecodeRawEvents(in.EventData)
	if err != nil {
		return fail(stageLoadData, err)
	}
	meta, err := decodeMetadata(in.MetaData)
	if err != nil {
		return fail(stageLoadData, err)
	}
	roster, err := decodeRoster(in.RosterData)
	if err != nil {
		return fail(stageLoadData, err)
	}
	d.observeStage(ctx, stageLoadData, start)
	metrics.RecordRawEvents(index.Len())

	// Match context.
	start = time.Now()
	dims, err := pitchDimensions(meta)
	if err != nil {
		return fail(stageMatchContext, err)
	}
	transformer, err := coordinates.NewTransformer(dims, coordinates.WithTargetSystem(d.target))
	if err != nil {
		return fail(stageMatchContext, err)
	}
	d.observeStage(ctx, stageMatchContext, start)

	// Teams.
	start = time.Now()
	home, err := buildTeam(meta.HomeTeam, roster, model.GroundHome)
	if err != nil {
		return fail(stageTeams, err)
	}
	away, err := buildTeam(meta.AwayTeam, roster, model.GroundAway)
	if err != nil {
		return fail(stageTeams, err)
	}
	d.observeStage(ctx, stageTeams, start)

	// Periods.
	start = time.Now()
	periods, err := buildPeriods(meta)
	if err != nil {
		return fail(stagePeriods, err)
	}
	d.observeStage(ctx, stagePeriods, start)

	// Metadata.
	start = time.Now()
	orient, err := orientation(meta)
	if err != nil {
		return fail(stageMetadata, err)
	}
	metadata := &model.Metadata{
		GameID:           meta.ID.String(),
		GameWeek:         meta.Week,
		Date:             meta.Date,
		Teams:            []*model.Team{home, away},
		Periods:          periods,
		PitchDimensions:  transformer.TargetDimensions(),
		Orientation:      orient,
		CoordinateSystem: string(transformer.Target()),
		Provider:         Provider,
	}
	d.observeStage(ctx, stageMetadata, start)

	// Events. Two-phase build: raw events were constructed at load time;
	// the context is bound here, once, before any handler runs.
	start = time.Now()
	mctx := NewMatchContext(home, away, periods, index)
	events := make([]*model.Event, 0, index.Len())
	for _, raw := range index.Events() {
		if err := ctx.Err(); err != nil {
			return fail(stageEvents, err)
		}
		produced, err := d.registry.Deserialize(raw, mctx)
		if err != nil {
			return fail(stageEvents, err)
		}
		for _, e := range produced {
			if d.filter != nil && !d.filter(e) {
				continue
			}
			if e.Coordinates != nil {
				p := transformer.Transform(*e.Coordinates)
				e.Coordinates = &p
			}
			events = append(events, e)
		}
	}
	d.observeStage(ctx, stageEvents, start)
	metrics.RecordCanonicalEvents(len(events))

	return &model.Dataset{Metadata: metadata, Events: events}, nil
}

// observeStage records a stage timing to the logger and metrics.
func (d *Deserializer) observeStage(ctx context.Context, stage string, start time.Time) {
	elapsed := time.Since(start)
	d.logger.Debug(ctx, "pipeline stage finished",
		logger.String("stage", stage),
		logger.Duration("elapsed", elapsed),
	)
	metrics.RecordStageDuration(stage, elapsed.Seconds())
}
