package eventtime

import (
	"testing"
	"time"

	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
)

func TestResolveZone(t *testing.T) {
	t.Run("valid zone", func(t *testing.T) {
		loc, fb := ResolveZone("America/Chicago")
		if fb != FallbackNone {
			t.Errorf("expected no fallback, got %s", fb)
		}
		if loc.String() != "America/Chicago" {
			t.Errorf("expected America/Chicago, got %s", loc)
		}
	})

	t.Run("empty zone falls open to UTC", func(t *testing.T) {
		loc, fb := ResolveZone("")
		if fb != FallbackEmptyZone {
			t.Errorf("expected empty-zone fallback, got %s", fb)
		}
		if loc != time.UTC {
			t.Errorf("expected UTC, got %s", loc)
		}
	})

	t.Run("garbage zone falls open to UTC", func(t *testing.T) {
		loc, fb := ResolveZone("Not/AZone")
		if fb != FallbackBadZone {
			t.Errorf("expected bad-zone fallback, got %s", fb)
		}
		if loc != time.UTC {
			t.Errorf("expected UTC, got %s", loc)
		}
	})
}

func TestEffectiveZoneName(t *testing.T) {
	place := &domain.Place{TZ: "Europe/Berlin"}
	team := &domain.Team{TZ: "America/New_York"}

	t.Run("place wins over team", func(t *testing.T) {
		if got := EffectiveZoneName(place, team); got != "Europe/Berlin" {
			t.Errorf("expected Europe/Berlin, got %s", got)
		}
	})

	t.Run("team when no place", func(t *testing.T) {
		if got := EffectiveZoneName(nil, team); got != "America/New_York" {
			t.Errorf("expected America/New_York, got %s", got)
		}
	})

	t.Run("default when neither", func(t *testing.T) {
		if got := EffectiveZoneName(nil, nil); got != domain.DefaultTZ {
			t.Errorf("expected %s, got %s", domain.DefaultTZ, got)
		}
	})

	t.Run("empty place tz falls through to team", func(t *testing.T) {
		if got := EffectiveZoneName(&domain.Place{}, team); got != "America/New_York" {
			t.Errorf("expected America/New_York, got %s", got)
		}
	})
}

func TestLocalUTCRoundTrip(t *testing.T) {
	zones := []string{
		"UTC",
		"America/Chicago",
		"America/New_York",
		"Europe/Berlin",
		"Asia/Kolkata",
		"Australia/Sydney",
		"Pacific/Auckland",
	}
	instants := []time.Time{
		time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 15, 23, 30, 45, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 1, 0, time.UTC),
	}

	for _, zone := range zones {
		t.Run(zone, func(t *testing.T) {
			loc, fb := ResolveZone(zone)
			if fb != FallbackNone {
				t.Fatalf("zone %s did not resolve: %s", zone, fb)
			}
			for _, utc := range instants {
				back := ToUTC(ToLocal(utc, loc), loc)
				if !back.Equal(utc) {
					t.Errorf("round trip lost precision in %s: %s -> %s", zone, utc, back)
				}
			}
		})
	}
}

func TestLocalStartTime(t *testing.T) {
	event := &domain.Event{
		Team:      &domain.Team{TZ: "UTC"},
		StartTime: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	want := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := LocalStartTime(event); !got.Equal(want) {
		t.Errorf("expected local start %s, got %s", want, got)
	}
}

func TestMoveToPlaceKeepsWallClock(t *testing.T) {
	event := &domain.Event{
		Team:      &domain.Team{TZ: "UTC"},
		StartTime: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC),
	}
	wallStart := LocalStartTime(event)
	wallEnd := LocalEndTime(event)

	chicago := &domain.Place{ID: 7, TZ: "America/Chicago"}
	MoveToPlace(event, chicago)

	if got := LocalStartTime(event); !got.Equal(wallStart) {
		t.Errorf("wall-clock start changed after venue move: %s -> %s", wallStart, got)
	}
	if got := LocalEndTime(event); !got.Equal(wallEnd) {
		t.Errorf("wall-clock end changed after venue move: %s -> %s", wallEnd, got)
	}

	// Chicago is UTC-6 in January, so noon local is now 18:00 UTC.
	wantUTC := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)
	if !event.StartTime.Equal(wantUTC) {
		t.Errorf("expected stored instant %s, got %s", wantUTC, event.StartTime)
	}
	if event.PlaceID == nil || *event.PlaceID != 7 {
		t.Errorf("expected PlaceID 7, got %v", event.PlaceID)
	}
}

func TestSetLocalStartTime(t *testing.T) {
	event := &domain.Event{
		Place: &domain.Place{TZ: "Europe/Berlin"},
		Team:  &domain.Team{TZ: "UTC"},
	}
	// Berlin is UTC+2 in July.
	SetLocalStartTime(event, time.Date(2024, 7, 1, 20, 0, 0, 0, time.UTC))

	want := time.Date(2024, 7, 1, 18, 0, 0, 0, time.UTC)
	if !event.StartTime.Equal(want) {
		t.Errorf("expected %s, got %s", want, event.StartTime)
	}
}
