package dto

import (
	"time"

	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
)

// CreateSeriesRequest starts a recurring series. StartTime and EndTime are
// wall-clock times of day ("19:00") in the series' effective timezone;
// FirstDate ("2026-09-01") is the date of the first occurrence.
type CreateSeriesRequest struct {
	Name       string `json:"name"`
	TeamID     int64  `json:"team_id"`
	PlaceID    *int64 `json:"place_id"`
	Recurrence string `json:"recurrence"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	FirstDate  string `json:"first_date"`
	Summary    string `json:"summary"`
	Tags       string `json:"tags"`
}

type SeriesResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	TeamID     int64     `json:"team_id"`
	PlaceID    *int64    `json:"place_id,omitempty"`
	Recurrence string    `json:"recurrence"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	TZ         string    `json:"tz"`
	FirstTime  time.Time `json:"first_time"`
	LastTime   time.Time `json:"last_time"`
	Summary    string    `json:"summary,omitempty"`
	Tags       string    `json:"tags,omitempty"`
}

func MapDomainToSeriesResponse(s domain.EventSeries, tz string) SeriesResponse {
	return SeriesResponse{
		ID:         s.ID,
		Name:       s.Name,
		TeamID:     s.TeamID,
		PlaceID:    s.PlaceID,
		Recurrence: s.Recurrence,
		StartTime:  s.StartTime.Format("15:04"),
		EndTime:    s.EndTime.Format("15:04"),
		TZ:         tz,
		FirstTime:  s.FirstTime,
		LastTime:   s.LastTime,
		Summary:    s.Summary,
		Tags:       s.Tags,
	}
}
