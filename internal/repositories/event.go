package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
	"github.com/GetTogetherComm/GetTogether/internal/models/repositories"
)

func (r *Repository) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	op := "repository.CreateEvent()"

	repoEvent := eventToRepo(event)

	insertQuery := `INSERT INTO events (
		name, team_id, place_id, series_id, parent_id, start_time, end_time,
		summary, web_url, announce_url, created_by, created_time, tags
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING id`

	err := r.DB.GetContext(ctx, &event.ID, insertQuery,
		repoEvent.Name,
		repoEvent.TeamID,
		repoEvent.PlaceID,
		repoEvent.SeriesID,
		repoEvent.ParentID,
		repoEvent.StartTime,
		repoEvent.EndTime,
		repoEvent.Summary,
		repoEvent.WebURL,
		repoEvent.AnnounceURL,
		repoEvent.CreatedBy,
		repoEvent.CreatedTime,
		repoEvent.Tags,
	)
	if err != nil {
		return domain.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	return event, nil
}

const eventColumns = `id, name, team_id, place_id, series_id, parent_id, start_time, end_time,
	summary, web_url, announce_url, created_by, created_time, tags`

// FindEventByID loads an event with its team and place hydrated, including
// the cities behind them. The timezone and coordinate fallback chains need
// the full picture.
func (r *Repository) FindEventByID(ctx context.Context, id int64) (domain.Event, error) {
	op := "repository.FindEventByID()"

	var repoEvent repositories.Event
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 LIMIT 1`

	err := r.DB.GetContext(ctx, &repoEvent, query, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("%s: %w", op, notFound(err))
	}

	event := eventToDomain(repoEvent)
	if err := r.hydrateEvent(ctx, &event); err != nil {
		return domain.Event{}, fmt.Errorf("%s: %w", op, err)
	}
	return event, nil
}

func (r *Repository) UpdateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	op := "repository.UpdateEvent()"

	repoEvent := eventToRepo(event)

	updateQuery := `UPDATE events SET
		name = $1, team_id = $2, place_id = $3, series_id = $4, parent_id = $5,
		start_time = $6, end_time = $7, summary = $8, web_url = $9,
		announce_url = $10, tags = $11
		WHERE id = $12`

	result, err := r.DB.ExecContext(ctx, updateQuery,
		repoEvent.Name,
		repoEvent.TeamID,
		repoEvent.PlaceID,
		repoEvent.SeriesID,
		repoEvent.ParentID,
		repoEvent.StartTime,
		repoEvent.EndTime,
		repoEvent.Summary,
		repoEvent.WebURL,
		repoEvent.AnnounceURL,
		repoEvent.Tags,
		repoEvent.ID,
	)
	if err != nil {
		return domain.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Event{}, fmt.Errorf("%s: error checking rows affected: %w", op, err)
	}
	if rowsAffected == 0 {
		return domain.Event{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	return event, nil
}

func (r *Repository) DeleteEvent(ctx context.Context, id int64) error {
	op := "repository.DeleteEvent()"

	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
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

// ListUpcomingEvents returns locally hosted events that have not ended yet,
// soonest first. Teams and places come back hydrated.
func (r *Repository) ListUpcomingEvents(ctx context.Context, now time.Time) ([]domain.Event, error) {
	op := "repository.ListUpcomingEvents()"

	var repoEvents []repositories.Event
	query := `SELECT ` + eventColumns + ` FROM events WHERE end_time > $1 ORDER BY start_time ASC`

	err := r.DB.SelectContext(ctx, &repoEvents, query, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]domain.Event, len(repoEvents))
	for i, e := range repoEvents {
		event := eventToDomain(e)
		if err := r.hydrateEvent(ctx, &event); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[i] = event
	}
	return result, nil
}

// ListEvents returns every local event, hydrated, oldest first. Used by the
// searchable rebuild command.
func (r *Repository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	op := "repository.ListEvents()"

	var repoEvents []repositories.Event
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY start_time ASC`

	err := r.DB.SelectContext(ctx, &repoEvents, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]domain.Event, len(repoEvents))
	for i, e := range repoEvents {
		event := eventToDomain(e)
		if err := r.hydrateEvent(ctx, &event); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[i] = event
	}
	return result, nil
}

func (r *Repository) hydrateEvent(ctx context.Context, event *domain.Event) error {
	team, err := r.FindTeamByID(ctx, event.TeamID)
	if err != nil {
		return err
	}
	event.Team = &team

	if event.PlaceID != nil {
		place, err := r.FindPlaceByID(ctx, *event.PlaceID)
		if err != nil {
			return err
		}
		event.Place = &place
	}
	return nil
}

func eventToRepo(e domain.Event) repositories.Event {
	return repositories.Event{
		ID:          e.ID,
		Name:        e.Name,
		TeamID:      e.TeamID,
		PlaceID:     nullInt(e.PlaceID),
		SeriesID:    nullInt(e.SeriesID),
		ParentID:    nullInt(e.ParentID),
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Summary:     nullString(e.Summary),
		WebURL:      nullString(e.WebURL),
		AnnounceURL: nullString(e.AnnounceURL),
		CreatedBy:   e.CreatedByID,
		CreatedTime: e.CreatedTime,
		Tags:        nullString(e.Tags),
	}
}

func eventToDomain(e repositories.Event) domain.Event {
	return domain.Event{
		ID:          e.ID,
		Name:        e.Name,
		TeamID:      e.TeamID,
		PlaceID:     fromNullInt(e.PlaceID),
		SeriesID:    fromNullInt(e.SeriesID),
		ParentID:    fromNullInt(e.ParentID),
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Summary:     fromNullString(e.Summary),
		WebURL:      fromNullString(e.WebURL),
		AnnounceURL: fromNullString(e.AnnounceURL),
		CreatedByID: e.CreatedBy,
		CreatedTime: e.CreatedTime,
		Tags:        fromNullString(e.Tags),
	}
}
