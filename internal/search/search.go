// Package search maintains the Searchable federation index: one denormalized
// row per event, rewritten on every save and exchanged with peer nodes.
package search

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GetTogetherComm/GetTogether/internal/eventtime"
	"github.com/GetTogetherComm/GetTogether/internal/metrics"
	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
	"github.com/GetTogetherComm/GetTogether/internal/utils/logger/sl"
)

// SearchableRepository is the slice of the storage layer the indexer needs.
type SearchableRepository interface {
	FindSearchableByURI(ctx context.Context, uri string) (domain.Searchable, error)
	SaveSearchable(ctx context.Context, s domain.Searchable) error
	DeleteSearchable(ctx context.Context, uri string) error
}

// Indexer derives Searchable rows from events. NodeURL is this deployment's
// own address and stamps every locally created row.
type Indexer struct {
	log     *slog.Logger
	repo    SearchableRepository
	nodeURL string
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewIndexer(log *slog.Logger, repo SearchableRepository, nodeURL string, m *metrics.Metrics) *Indexer {
	return &Indexer{
		log:     log,
		repo:    repo,
		nodeURL: strings.TrimSuffix(nodeURL, "/"),
		metrics: m,
		now:     time.Now,
	}
}

// EventURI derives the stable federation identifier from an event URL. The
// first 3 "/"-separated segments form the node part, the first 5 are hashed
// for the suffix. The truncation is a compatibility artifact shared by every
// federating node; changing it would orphan records on peers.
func EventURI(eventURL string) string {
	parts := strings.Split(eventURL, "/")
	node := strings.Join(head(parts, 3), "/")
	sum := md5.Sum([]byte(strings.Join(head(parts, 5), "/")))
	return fmt.Sprintf("%s/%x", node, sum)
}

func head(parts []string, n int) []string {
	if len(parts) < n {
		return parts
	}
	return parts[:n]
}

// EventURL is the canonical absolute URL of a local event on this node.
func (ix *Indexer) EventURL(event *domain.Event) string {
	return fmt.Sprintf("%s/events/%d/%s/", ix.nodeURL, event.ID, event.Slug())
}

// UpsertEvent rebuilds the event's Searchable row from current data. New rows
// are stamped with this node as both origin and federation node; existing
// rows keep their stamps. The write is a full overwrite, never a patch, so
// calling it twice in a row is idempotent.
func (ix *Indexer) UpsertEvent(ctx context.Context, event *domain.Event) (domain.Searchable, error) {
	op := "search.Indexer.UpsertEvent()"
	log := ix.log.With(slog.String("op", op), slog.Int64("eventID", event.ID))

	eventURL := ix.EventURL(event)
	uri := EventURI(eventURL)

	searchable, err := ix.repo.FindSearchableByURI(ctx, uri)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return domain.Searchable{}, fmt.Errorf("%s: %w", op, err)
		}
		searchable = domain.Searchable{
			EventURI:       uri,
			OriginNode:     ix.nodeURL,
			FederationNode: ix.nodeURL,
			FederationTime: ix.now().UTC(),
		}
	}

	searchable.EventURL = eventURL
	searchable.EventTitle = event.Name
	searchable.StartTime = event.StartTime
	searchable.EndTime = event.EndTime
	searchable.TZ = eventtime.EffectiveZoneName(event.Place, event.Team)
	searchable.Cost = 0
	searchable.Tags = event.Tags

	if event.Team != nil {
		searchable.GroupName = event.Team.Name
		searchable.ImgURL = ix.absoluteURL(event.Team.CardImgURL)
	}

	searchable.VenueName = ""
	searchable.LocationName = ""
	searchable.Latitude = nil
	searchable.Longitude = nil
	if event.Place != nil {
		searchable.VenueName = event.Place.Name
		if event.Place.City != nil {
			searchable.LocationName = event.Place.City.DisplayName()
		}
		searchable.Latitude = event.Place.Latitude
		searchable.Longitude = event.Place.Longitude
	}
	if searchable.Latitude == nil && event.Team != nil && event.Team.City != nil {
		// Same fallback chain the distance ranking uses.
		searchable.Latitude = event.Team.City.Latitude
		searchable.Longitude = event.Team.City.Longitude
		if searchable.LocationName == "" {
			searchable.LocationName = event.Team.City.DisplayName()
		}
	}

	if err := ix.repo.SaveSearchable(ctx, searchable); err != nil {
		return domain.Searchable{}, fmt.Errorf("%s: %w", op, err)
	}
	if ix.metrics != nil {
		ix.metrics.SearchableUpserts.Inc()
	}
	log.Debug("searchable updated", slog.String("uri", uri))
	return searchable, nil
}

// DeleteEvent removes the event's Searchable row. There is no foreign key
// from Searchable to Event, so the delete handler has to call this before
// removing the event itself. A missing row is not an error.
func (ix *Indexer) DeleteEvent(ctx context.Context, event *domain.Event) error {
	op := "search.Indexer.DeleteEvent()"
	log := ix.log.With(slog.String("op", op), slog.Int64("eventID", event.ID))

	uri := EventURI(ix.EventURL(event))
	if err := ix.repo.DeleteSearchable(ctx, uri); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Debug("no searchable to delete", slog.String("uri", uri))
			return nil
		}
		log.Error("failed to delete searchable", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if ix.metrics != nil {
		ix.metrics.SearchableDeletes.Inc()
	}
	return nil
}

func (ix *Indexer) absoluteURL(url string) string {
	if strings.HasPrefix(url, "/") {
		return ix.nodeURL + url
	}
	return url
}
