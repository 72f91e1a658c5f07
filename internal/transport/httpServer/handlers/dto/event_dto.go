package dto

import (
	"time"

	"github.com/GetTogetherComm/GetTogether/internal/eventtime"
	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
)

// EventResponse is the API projection of an event. Times are UTC instants;
// local_start_time is the wall-clock view in the event's effective timezone.
type EventResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	TeamID         int64     `json:"team_id"`
	TeamName       string    `json:"team_name,omitempty"`
	PlaceID        *int64    `json:"place_id,omitempty"`
	PlaceName      string    `json:"place_name,omitempty"`
	SeriesID       *int64    `json:"series_id,omitempty"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	LocalStartTime string    `json:"local_start_time"`
	TZ             string    `json:"tz"`
	Summary        string    `json:"summary,omitempty"`
	WebURL         string    `json:"web_url,omitempty"`
	AnnounceURL    string    `json:"announce_url,omitempty"`
	Tags           string    `json:"tags,omitempty"`
}

// ChangeEventRequest creates or fully replaces an event.
type ChangeEventRequest struct {
	Name        string    `json:"name"`
	TeamID      int64     `json:"team_id"`
	PlaceID     *int64    `json:"place_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Summary     string    `json:"summary"`
	WebURL      string    `json:"web_url"`
	AnnounceURL string    `json:"announce_url"`
	Tags        string    `json:"tags"`
}

// AttendRequest is an RSVP. Status is one of "no", "maybe", "yes".
type AttendRequest struct {
	Status string `json:"status"`
}

type AttendResponse struct {
	EventID int64  `json:"event_id"`
	Role    string `json:"role"`
	Status  string `json:"status"`
}

// NearbyResponse ranks a searchable row against the query origin.
type NearbyResponse struct {
	EventURI     string    `json:"event_uri"`
	EventURL     string    `json:"event_url"`
	EventTitle   string    `json:"event_title"`
	LocationName string    `json:"location_name"`
	GroupName    string    `json:"group_name"`
	VenueName    string    `json:"venue_name"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	TZ           string    `json:"tz"`
	DistanceKm   float64   `json:"distance_km"`
}

// MapDomainToEventResponse converts a domain event, resolving the effective
// timezone through the place -> team -> UTC chain.
func MapDomainToEventResponse(e domain.Event) EventResponse {
	resp := EventResponse{
		ID:             e.ID,
		Name:           e.Name,
		Slug:           e.Slug(),
		TeamID:         e.TeamID,
		PlaceID:        e.PlaceID,
		SeriesID:       e.SeriesID,
		StartTime:      e.StartTime,
		EndTime:        e.EndTime,
		LocalStartTime: eventtime.LocalStartTime(&e).Format("2006-01-02 15:04"),
		TZ:             eventtime.EffectiveZoneName(e.Place, e.Team),
		Summary:        e.Summary,
		WebURL:         e.WebURL,
		AnnounceURL:    e.AnnounceURL,
		Tags:           e.Tags,
	}
	if e.Team != nil {
		resp.TeamName = e.Team.Name
	}
	if e.Place != nil {
		resp.PlaceName = e.Place.DisplayName()
	}
	return resp
}

func MapDomainToEventResponseList(events []domain.Event) []EventResponse {
	result := make([]EventResponse, len(events))
	for i, e := range events {
		result[i] = MapDomainToEventResponse(e)
	}
	return result
}

// MapEventRequestToDomain converts a create/replace request. The caller fills
// in authorship and creation time.
func MapEventRequestToDomain(req ChangeEventRequest, id int64) domain.Event {
	return domain.Event{
		ID:          id,
		Name:        req.Name,
		TeamID:      req.TeamID,
		PlaceID:     req.PlaceID,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		Summary:     req.Summary,
		WebURL:      req.WebURL,
		AnnounceURL: req.AnnounceURL,
		Tags:        req.Tags,
	}
}
