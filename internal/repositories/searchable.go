package repositories

import (
	"context"
	"fmt"

	"github.com/GetTogetherComm/GetTogether/internal/geo"
	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
	"github.com/GetTogetherComm/GetTogether/internal/models/repositories"
)

const searchableColumns = `event_uri, event_url, event_title, img_url, location_name,
	group_name, venue_name, longitude, latitude, start_time, end_time, tz, cost, tags,
	origin_node, federation_node, federation_time`

func (r *Repository) FindSearchableByURI(ctx context.Context, uri string) (domain.Searchable, error) {
	op := "repository.FindSearchableByURI()"

	var repoSearchable repositories.Searchable
	query := `SELECT ` + searchableColumns + ` FROM searchables WHERE event_uri = $1 LIMIT 1`

	err := r.DB.GetContext(ctx, &repoSearchable, query, uri)
	if err != nil {
		return domain.Searchable{}, fmt.Errorf("%s: %w", op, notFound(err))
	}

	return searchableToDomain(repoSearchable), nil
}

// SaveSearchable writes a row keyed by event_uri, replacing every field of an
// existing row. The indexer always supplies the complete projection.
func (r *Repository) SaveSearchable(ctx context.Context, s domain.Searchable) error {
	op := "repository.SaveSearchable()"

	repoSearchable := searchableToRepo(s)

	upsertQuery := `INSERT INTO searchables (` + searchableColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	ON CONFLICT (event_uri) DO UPDATE SET
		event_url = EXCLUDED.event_url,
		event_title = EXCLUDED.event_title,
		img_url = EXCLUDED.img_url,
		location_name = EXCLUDED.location_name,
		group_name = EXCLUDED.group_name,
		venue_name = EXCLUDED.venue_name,
		longitude = EXCLUDED.longitude,
		latitude = EXCLUDED.latitude,
		start_time = EXCLUDED.start_time,
		end_time = EXCLUDED.end_time,
		tz = EXCLUDED.tz,
		cost = EXCLUDED.cost,
		tags = EXCLUDED.tags,
		origin_node = EXCLUDED.origin_node,
		federation_node = EXCLUDED.federation_node,
		federation_time = EXCLUDED.federation_time`

	_, err := r.DB.ExecContext(ctx, upsertQuery,
		repoSearchable.EventURI,
		repoSearchable.EventURL,
		repoSearchable.EventTitle,
		repoSearchable.ImgURL,
		repoSearchable.LocationName,
		repoSearchable.GroupName,
		repoSearchable.VenueName,
		repoSearchable.Longitude,
		repoSearchable.Latitude,
		repoSearchable.StartTime,
		repoSearchable.EndTime,
		repoSearchable.TZ,
		repoSearchable.Cost,
		repoSearchable.Tags,
		repoSearchable.OriginNode,
		repoSearchable.FederationNode,
		repoSearchable.FederationTime,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *Repository) DeleteSearchable(ctx context.Context, uri string) error {
	op := "repository.DeleteSearchable()"

	result, err := r.DB.ExecContext(ctx, `DELETE FROM searchables WHERE event_uri = $1`, uri)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: error checking rows affected: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	return nil
}

// ListSearchables returns the complete projection, soonest first, ended
// events included. The federation export reads through here; peers apply
// their own retention.
func (r *Repository) ListSearchables(ctx context.Context) ([]domain.Searchable, error) {
	op := "repository.ListSearchables()"

	var repoSearchables []repositories.Searchable
	query := `SELECT ` + searchableColumns + ` FROM searchables ORDER BY start_time ASC`

	err := r.DB.SelectContext(ctx, &repoSearchables, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]domain.Searchable, len(repoSearchables))
	for i, s := range repoSearchables {
		result[i] = searchableToDomain(s)
	}
	return result, nil
}

// FindSearchablesWithin is the indexed bounding-box prefilter for nearby
// search. Exact distance ranking happens in the caller.
func (r *Repository) FindSearchablesWithin(ctx context.Context, box geo.BoundingBox) ([]domain.Searchable, error) {
	op := "repository.FindSearchablesWithin()"

	var repoSearchables []repositories.Searchable
	query := `SELECT ` + searchableColumns + ` FROM searchables
	          WHERE latitude BETWEEN $1 AND $2 AND longitude BETWEEN $3 AND $4
	            AND end_time > CURRENT_TIMESTAMP
	          ORDER BY start_time ASC`

	err := r.DB.SelectContext(ctx, &repoSearchables, query, box.MinLat, box.MaxLat, box.MinLng, box.MaxLng)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]domain.Searchable, len(repoSearchables))
	for i, s := range repoSearchables {
		result[i] = searchableToDomain(s)
	}
	return result, nil
}

func searchableToRepo(s domain.Searchable) repositories.Searchable {
	return repositories.Searchable{
		EventURI:       s.EventURI,
		EventURL:       s.EventURL,
		EventTitle:     s.EventTitle,
		ImgURL:         s.ImgURL,
		LocationName:   s.LocationName,
		GroupName:      s.GroupName,
		VenueName:      s.VenueName,
		Longitude:      nullFloat(s.Longitude),
		Latitude:       nullFloat(s.Latitude),
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		TZ:             s.TZ,
		Cost:           s.Cost,
		Tags:           nullString(s.Tags),
		OriginNode:     s.OriginNode,
		FederationNode: s.FederationNode,
		FederationTime: s.FederationTime,
	}
}

func searchableToDomain(s repositories.Searchable) domain.Searchable {
	return domain.Searchable{
		EventURI:       s.EventURI,
		EventURL:       s.EventURL,
		EventTitle:     s.EventTitle,
		ImgURL:         s.ImgURL,
		LocationName:   s.LocationName,
		GroupName:      s.GroupName,
		VenueName:      s.VenueName,
		Longitude:      fromNullFloat(s.Longitude),
		Latitude:       fromNullFloat(s.Latitude),
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		TZ:             s.TZ,
		Cost:           s.Cost,
		Tags:           fromNullString(s.Tags),
		OriginNode:     s.OriginNode,
		FederationNode: s.FederationNode,
		FederationTime: s.FederationTime,
	}
}
