// Package commands holds the one-shot maintenance entry points that share
// the server's wiring but run to completion and exit.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GetTogetherComm/GetTogether/internal/federation"
	"github.com/GetTogetherComm/GetTogether/internal/geonames"
	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
	"github.com/GetTogetherComm/GetTogether/internal/search"
	"github.com/GetTogetherComm/GetTogether/internal/series"
	"github.com/GetTogetherComm/GetTogether/internal/utils/logger/sl"
)

// EventLister feeds the searchable rebuild.
type EventLister interface {
	ListEvents(ctx context.Context) ([]domain.Event, error)
}

type Commands struct {
	log       *slog.Logger
	events    EventLister
	indexer   *search.Indexer
	generator *series.Generator
	importer  *federation.Importer
	loader    *geonames.Loader
}

func New(
	log *slog.Logger,
	events EventLister,
	indexer *search.Indexer,
	generator *series.Generator,
	importer *federation.Importer,
	loader *geonames.Loader,
) *Commands {
	return &Commands{
		log:       log,
		events:    events,
		indexer:   indexer,
		generator: generator,
		importer:  importer,
		loader:    loader,
	}
}

// Import pulls one peer's searchable export.
func (c *Commands) Import(ctx context.Context, url string) error {
	op := "commands.Import()"

	imported, err := c.importer.Import(ctx, url)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.log.Info("import complete", slog.String("url", url), slog.Int("imported", imported))
	return nil
}

// RecreateSearchables rebuilds the projection for every local event. Rows of
// events that no longer exist are left behind; the projection is additive.
func (c *Commands) RecreateSearchables(ctx context.Context) error {
	op := "commands.RecreateSearchables()"
	log := c.log.With(slog.String("op", op))

	events, err := c.events.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rebuilt := 0
	for i := range events {
		if _, err := c.indexer.UpsertEvent(ctx, &events[i]); err != nil {
			log.Error("failed to rebuild searchable", slog.Int64("eventID", events[i].ID), sl.Err(err))
			continue
		}
		rebuilt++
	}
	log.Info("searchables rebuilt", slog.Int("rebuilt", rebuilt), slog.Int("events", len(events)))
	return nil
}

// CreateNextInSeries runs one sweep of due series.
func (c *Commands) CreateNextInSeries(ctx context.Context) error {
	op := "commands.CreateNextInSeries()"

	created, err := c.generator.SweepDue(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.log.Info("series sweep complete", slog.Int("created", created))
	return nil
}

// LoadCountries seeds countries from a GeoNames countryInfo dump.
func (c *Commands) LoadCountries(ctx context.Context, path string) error {
	_, err := c.loader.LoadCountries(ctx, path)
	return err
}

// LoadSPR seeds states/provinces/regions from an admin1 codes dump.
func (c *Commands) LoadSPR(ctx context.Context, path string) error {
	_, err := c.loader.LoadSPR(ctx, path)
	return err
}

// LoadCities seeds cities from a GeoNames cities dump.
func (c *Commands) LoadCities(ctx context.Context, path string) error {
	_, err := c.loader.LoadCities(ctx, path)
	return err
}
