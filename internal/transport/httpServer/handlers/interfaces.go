package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/GetTogetherComm/GetTogether/internal/geo"
	"github.com/GetTogetherComm/GetTogether/internal/geoip"
	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
)

// EventRepository is the slice of the storage layer the event handlers use.
type EventRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	FindEventByID(ctx context.Context, id int64) (domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	ListUpcomingEvents(ctx context.Context, now time.Time) ([]domain.Event, error)
}

type SearchableRepository interface {
	ListSearchables(ctx context.Context) ([]domain.Searchable, error)
	FindSearchablesWithin(ctx context.Context, box geo.BoundingBox) ([]domain.Searchable, error)
}

type SeriesRepository interface {
	CreateEventSeries(ctx context.Context, series domain.EventSeries) (domain.EventSeries, error)
	FindSeriesByID(ctx context.Context, id int64) (domain.EventSeries, error)
}

type TeamRepository interface {
	CreateTeam(ctx context.Context, team domain.Team) (domain.Team, error)
	FindTeamByID(ctx context.Context, id int64) (domain.Team, error)
	ListTeams(ctx context.Context) ([]domain.Team, error)
}

type PlaceRepository interface {
	CreatePlace(ctx context.Context, place domain.Place) (domain.Place, error)
	FindPlaceByID(ctx context.Context, id int64) (domain.Place, error)
	ListPlaces(ctx context.Context) ([]domain.Place, error)
}

type AttendanceRepository interface {
	SaveAttendance(ctx context.Context, attendee domain.Attendee) (domain.Attendee, error)
	ListEventAttendees(ctx context.Context, eventID int64) ([]domain.Attendee, error)
}

type ProfileRepository interface {
	GetOrCreateProfile(ctx context.Context, userID uuid.UUID) (domain.UserProfile, error)
	UpdateProfile(ctx context.Context, profile domain.UserProfile) error
}

// Indexer keeps the Searchable projection in step with event writes.
type Indexer interface {
	UpsertEvent(ctx context.Context, event *domain.Event) (domain.Searchable, error)
	DeleteEvent(ctx context.Context, event *domain.Event) error
}

// Locator resolves a client IP when a nearby query arrives without
// coordinates.
type Locator interface {
	Locate(ctx context.Context, ip string) (geoip.Result, error)
}
