// Package series expands recurrence templates into concrete events. A
// periodic sweep asks every due series for its next occurrence; exhausted
// rules are a no-op, not an error.
package series

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/GetTogetherComm/GetTogether/internal/eventtime"
	"github.com/GetTogetherComm/GetTogether/internal/metrics"
	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
	"github.com/GetTogetherComm/GetTogether/internal/utils/logger/sl"
)

type SeriesRepository interface {
	FindDueSeries(ctx context.Context, now time.Time) ([]domain.EventSeries, error)
	UpdateSeriesLastTime(ctx context.Context, seriesID int64, lastTime time.Time) error
}

type EventRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
}

// Indexer keeps the Searchable projection in step with generated events.
type Indexer interface {
	UpsertEvent(ctx context.Context, event *domain.Event) (domain.Searchable, error)
}

// Notifier tells event hosts about a freshly generated instance.
type Notifier interface {
	EventCreated(ctx context.Context, event *domain.Event) error
}

type Generator struct {
	log      *slog.Logger
	series   SeriesRepository
	events   EventRepository
	indexer  Indexer
	notifier Notifier
	metrics  *metrics.Metrics
}

func NewGenerator(log *slog.Logger, seriesRepo SeriesRepository, eventRepo EventRepository, indexer Indexer, notifier Notifier, m *metrics.Metrics) *Generator {
	return &Generator{
		log:      log,
		series:   seriesRepo,
		events:   eventRepo,
		indexer:  indexer,
		notifier: notifier,
		metrics:  m,
	}
}

// NextOccurrence computes the UTC start and end of the occurrence strictly
// after the series' LastTime, honoring the rule's own exclusions. The zero
// time means the rule is exhausted.
func NextOccurrence(s *domain.EventSeries) (start, end time.Time, err error) {
	rule, err := rrule.StrToRRule(s.Recurrence)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse recurrence %q: %w", s.Recurrence, err)
	}

	loc, _ := eventtime.SeriesZone(s)

	// Anchor the rule at the series' first occurrence so COUNT and UNTIL
	// clauses count from the real beginning, then step past LastTime.
	firstLocal := s.FirstTime.In(loc)
	rule.DTStart(firstLocal)

	next := rule.After(s.LastTime.In(loc), false)
	if next.IsZero() {
		return time.Time{}, time.Time{}, nil
	}

	start = combine(next, s.StartTime, loc)
	end = combine(next, s.EndTime, loc)
	if !end.After(start) {
		// The series ends past midnight.
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// combine joins the occurrence date with a wall-clock time of day in loc and
// converts to UTC.
func combine(date time.Time, clock time.Time, loc *time.Location) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0,
		loc,
	).UTC()
}

// CreateNextInSeries generates the next event of a series, indexes it and
// advances LastTime. A nil event with nil error means the rule is exhausted
// and the series is left untouched.
func (g *Generator) CreateNextInSeries(ctx context.Context, s *domain.EventSeries) (*domain.Event, error) {
	op := "series.Generator.CreateNextInSeries()"
	log := g.log.With(slog.String("op", op), slog.Int64("seriesID", s.ID))

	start, end, err := NextOccurrence(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if start.IsZero() {
		log.Debug("recurrence exhausted")
		return nil, nil
	}

	event := domain.Event{
		Name:        s.Name,
		TeamID:      s.TeamID,
		Team:        s.Team,
		PlaceID:     s.PlaceID,
		Place:       s.Place,
		SeriesID:    &s.ID,
		StartTime:   start,
		EndTime:     end,
		Summary:     s.Summary,
		CreatedByID: s.CreatedByID,
		CreatedTime: time.Now().UTC(),
		Tags:        s.Tags,
	}

	created, err := g.events.CreateEvent(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := g.indexer.UpsertEvent(ctx, &created); err != nil {
		// The event exists; the projection catches up on the next save.
		log.Error("failed to index generated event", sl.Err(err))
	}

	s.LastTime = created.StartTime
	if err := g.series.UpdateSeriesLastTime(ctx, s.ID, s.LastTime); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if g.metrics != nil {
		g.metrics.SeriesCreated.Inc()
	}
	if g.notifier != nil {
		if err := g.notifier.EventCreated(ctx, &created); err != nil {
			log.Error("failed to notify hosts", sl.Err(err))
		}
	}

	log.Info("created next event in series",
		slog.Int64("eventID", created.ID),
		slog.Time("startTime", created.StartTime),
	)
	return &created, nil
}

// SweepDue advances every series whose LastTime has passed. Failures on one
// series are logged and do not stop the sweep.
func (g *Generator) SweepDue(ctx context.Context, now time.Time) (int, error) {
	op := "series.Generator.SweepDue()"
	log := g.log.With(slog.String("op", op))

	due, err := g.series.FindDueSeries(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	created := 0
	for i := range due {
		s := due[i]
		event, err := g.CreateNextInSeries(ctx, &s)
		if err != nil {
			log.Error("series sweep failed", slog.Int64("seriesID", s.ID), sl.Err(err))
			continue
		}
		if event != nil {
			created++
		}
	}
	if created > 0 {
		log.Info("series sweep finished", slog.Int("created", created), slog.Int("due", len(due)))
	}
	return created, nil
}
