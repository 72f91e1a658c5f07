// Package eventtime resolves the effective timezone of events and series and
// converts between stored UTC instants and zone-local wall-clock values.
package eventtime

import (
	"time"

	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
)

// Fallback reports why ResolveZone did not use the requested zone. The
// conversion itself never fails; the reason is surfaced so logs and tests can
// tell a real "America/Chicago" apart from a silent UTC fallback.
type Fallback int

const (
	FallbackNone Fallback = iota
	FallbackEmptyZone
	FallbackBadZone
)

func (f Fallback) String() string {
	switch f {
	case FallbackEmptyZone:
		return "empty zone name"
	case FallbackBadZone:
		return "unparseable zone name"
	default:
		return "none"
	}
}

// ResolveZone loads an IANA zone by name, failing open to UTC.
func ResolveZone(name string) (*time.Location, Fallback) {
	if name == "" {
		return time.UTC, FallbackEmptyZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, FallbackBadZone
	}
	return loc, FallbackNone
}

// EffectiveZoneName walks the Place -> Team -> default chain. It is
// recomputed on every call; nothing caches the result.
func EffectiveZoneName(place *domain.Place, team *domain.Team) string {
	if place != nil && place.TZ != "" {
		return place.TZ
	}
	if team != nil && team.TZ != "" {
		return team.TZ
	}
	return domain.DefaultTZ
}

// EventZone resolves the zone an event's wall-clock times are interpreted in.
func EventZone(e *domain.Event) (*time.Location, Fallback) {
	return ResolveZone(EffectiveZoneName(e.Place, e.Team))
}

// SeriesZone resolves a series' zone through the same chain as EventZone.
func SeriesZone(s *domain.EventSeries) (*time.Location, Fallback) {
	return ResolveZone(EffectiveZoneName(s.Place, s.Team))
}

// ToLocal converts a UTC instant into a naive wall-clock value in loc. The
// returned time carries time.UTC only so it compares cleanly; the location
// has no meaning.
func ToLocal(utc time.Time, loc *time.Location) time.Time {
	t := utc.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// ToUTC interprets a naive wall-clock value as being in loc and returns the
// UTC instant.
func ToUTC(wall time.Time, loc *time.Location) time.Time {
	return time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second(), 0, loc).UTC()
}

// LocalStartTime is the event's start as the organizer sees it.
func LocalStartTime(e *domain.Event) time.Time {
	loc, _ := EventZone(e)
	return ToLocal(e.StartTime, loc)
}

// LocalEndTime is the event's end as the organizer sees it.
func LocalEndTime(e *domain.Event) time.Time {
	loc, _ := EventZone(e)
	return ToLocal(e.EndTime, loc)
}

// SetLocalStartTime stores the UTC instant for a wall-clock start entered in
// the event's effective zone.
func SetLocalStartTime(e *domain.Event, wall time.Time) {
	loc, _ := EventZone(e)
	e.StartTime = ToUTC(wall, loc)
}

// SetLocalEndTime stores the UTC instant for a wall-clock end entered in the
// event's effective zone.
func SetLocalEndTime(e *domain.Event, wall time.Time) {
	loc, _ := EventZone(e)
	e.EndTime = ToUTC(wall, loc)
}

// MoveToPlace swaps the event's venue while keeping the wall-clock times the
// organizer entered. The stored UTC instants are re-derived from the local
// times under the new zone, not the other way around.
func MoveToPlace(e *domain.Event, place *domain.Place) {
	localStart := LocalStartTime(e)
	localEnd := LocalEndTime(e)

	e.Place = place
	if place != nil {
		e.PlaceID = &place.ID
	} else {
		e.PlaceID = nil
	}

	loc, _ := EventZone(e)
	e.StartTime = ToUTC(localStart, loc)
	e.EndTime = ToUTC(localEnd, loc)
}
