package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
	"github.com/GetTogetherComm/GetTogether/internal/models/repositories"
)

const seriesColumns = `id, name, team_id, place_id, recurrence, start_time, end_time,
	first_time, last_time, summary, created_by, tags`

// FindDueSeries returns series whose most recent instance has already
// started, which is the trigger for generating the next one.
func (r *Repository) FindDueSeries(ctx context.Context, now time.Time) ([]domain.EventSeries, error) {
	op := "repository.FindDueSeries()"

	var repoSeries []repositories.EventSeries
	query := `SELECT ` + seriesColumns + ` FROM event_series WHERE last_time <= $1 ORDER BY last_time ASC`

	err := r.DB.SelectContext(ctx, &repoSeries, query, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]domain.EventSeries, len(repoSeries))
	for i, s := range repoSeries {
		series := seriesToDomain(s)
		if err := r.hydrateSeries(ctx, &series); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[i] = series
	}
	return result, nil
}

func (r *Repository) FindSeriesByID(ctx context.Context, id int64) (domain.EventSeries, error) {
	op := "repository.FindSeriesByID()"

	var repoSeries repositories.EventSeries
	err := r.DB.GetContext(ctx, &repoSeries,
		`SELECT `+seriesColumns+` FROM event_series WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		return domain.EventSeries{}, fmt.Errorf("%s: %w", op, notFound(err))
	}

	series := seriesToDomain(repoSeries)
	if err := r.hydrateSeries(ctx, &series); err != nil {
		return domain.EventSeries{}, fmt.Errorf("%s: %w", op, err)
	}
	return series, nil
}

func (r *Repository) CreateEventSeries(ctx context.Context, series domain.EventSeries) (domain.EventSeries, error) {
	op := "repository.CreateEventSeries()"

	repoSeries := seriesToRepo(series)

	insertQuery := `INSERT INTO event_series (
		name, team_id, place_id, recurrence, start_time, end_time,
		first_time, last_time, summary, created_by, tags
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING id`

	err := r.DB.GetContext(ctx, &series.ID, insertQuery,
		repoSeries.Name,
		repoSeries.TeamID,
		repoSeries.PlaceID,
		repoSeries.Recurrence,
		repoSeries.StartTime,
		repoSeries.EndTime,
		repoSeries.FirstTime,
		repoSeries.LastTime,
		repoSeries.Summary,
		repoSeries.CreatedBy,
		repoSeries.Tags,
	)
	if err != nil {
		return domain.EventSeries{}, fmt.Errorf("%s: %w", op, err)
	}
	return series, nil
}

// UpdateSeriesLastTime advances the high-water mark. The guard in the WHERE
// clause keeps it monotonic even if two sweeps race.
func (r *Repository) UpdateSeriesLastTime(ctx context.Context, seriesID int64, lastTime time.Time) error {
	op := "repository.UpdateSeriesLastTime()"

	result, err := r.DB.ExecContext(ctx,
		`UPDATE event_series SET last_time = $1 WHERE id = $2 AND last_time < $1`,
		lastTime, seriesID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: error checking rows affected: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: series %d not advanced past %s", op, seriesID, lastTime)
	}
	return nil
}

func (r *Repository) hydrateSeries(ctx context.Context, series *domain.EventSeries) error {
	team, err := r.FindTeamByID(ctx, series.TeamID)
	if err != nil {
		return err
	}
	series.Team = &team

	if series.PlaceID != nil {
		place, err := r.FindPlaceByID(ctx, *series.PlaceID)
		if err != nil {
			return err
		}
		series.Place = &place
	}
	return nil
}

func seriesToRepo(s domain.EventSeries) repositories.EventSeries {
	return repositories.EventSeries{
		ID:         s.ID,
		Name:       s.Name,
		TeamID:     s.TeamID,
		PlaceID:    nullInt(s.PlaceID),
		Recurrence: s.Recurrence,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		FirstTime:  s.FirstTime,
		LastTime:   s.LastTime,
		Summary:    nullString(s.Summary),
		CreatedBy:  s.CreatedByID,
		Tags:       nullString(s.Tags),
	}
}

func seriesToDomain(s repositories.EventSeries) domain.EventSeries {
	return domain.EventSeries{
		ID:          s.ID,
		Name:        s.Name,
		TeamID:      s.TeamID,
		PlaceID:     fromNullInt(s.PlaceID),
		Recurrence:  s.Recurrence,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		FirstTime:   s.FirstTime,
		LastTime:    s.LastTime,
		Summary:     fromNullString(s.Summary),
		CreatedByID: s.CreatedBy,
		Tags:        fromNullString(s.Tags),
	}
}
