package search

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
)

func f64(v float64) *float64 { return &v }

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memSearchableRepo struct {
	rows  map[string]domain.Searchable
	saves int
}

func newMemSearchableRepo() *memSearchableRepo {
	return &memSearchableRepo{rows: make(map[string]domain.Searchable)}
}

func (m *memSearchableRepo) FindSearchableByURI(_ context.Context, uri string) (domain.Searchable, error) {
	s, ok := m.rows[uri]
	if !ok {
		return domain.Searchable{}, domain.ErrNotFound
	}
	return s, nil
}

func (m *memSearchableRepo) SaveSearchable(_ context.Context, s domain.Searchable) error {
	m.saves++
	m.rows[s.EventURI] = s
	return nil
}

func (m *memSearchableRepo) DeleteSearchable(_ context.Context, uri string) error {
	if _, ok := m.rows[uri]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rows, uri)
	return nil
}

func TestEventURI(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		url := "https://example.com/events/42/my-event/"
		first := EventURI(url)
		for i := 0; i < 10; i++ {
			if got := EventURI(url); got != first {
				t.Fatalf("EventURI is not stable: %s != %s", got, first)
			}
		}
	})

	t.Run("node prefix from first three segments", func(t *testing.T) {
		uri := EventURI("https://example.com/events/42/my-event/")
		const wantPrefix = "https://example.com/"
		if len(uri) <= len(wantPrefix) || uri[:len(wantPrefix)] != wantPrefix {
			t.Errorf("expected prefix %s, got %s", wantPrefix, uri)
		}
	})

	t.Run("slug beyond the fifth segment does not matter", func(t *testing.T) {
		a := EventURI("https://example.com/events/42/my-event/")
		b := EventURI("https://example.com/events/42/renamed-event/")
		if a != b {
			t.Errorf("URI changed with the slug: %s != %s", a, b)
		}
	})

	t.Run("different events differ", func(t *testing.T) {
		a := EventURI("https://example.com/events/42/my-event/")
		b := EventURI("https://example.com/events/43/my-event/")
		if a == b {
			t.Error("distinct events produced the same URI")
		}
	})
}

func testEvent() *domain.Event {
	city := &domain.City{
		Name:      "Portland",
		Latitude:  f64(45.52),
		Longitude: f64(-122.68),
		TZ:        "America/Los_Angeles",
	}
	return &domain.Event{
		ID:   42,
		Name: "Monthly Meetup",
		Team: &domain.Team{
			Name:       "Go PDX",
			TZ:         "America/Los_Angeles",
			City:       city,
			CardImgURL: "/media/teams/go-pdx.png",
		},
		Place: &domain.Place{
			Name:      "Lucky Lab",
			City:      city,
			TZ:        "America/Los_Angeles",
			Latitude:  f64(45.5),
			Longitude: f64(-122.65),
		},
		StartTime: time.Date(2024, 3, 5, 2, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 3, 5, 4, 0, 0, 0, time.UTC),
		Tags:      "golang,meetup",
	}
}

func TestUpsertEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a stamped row", func(t *testing.T) {
		repo := newMemSearchableRepo()
		ix := NewIndexer(discard(), repo, "https://node.example.com/", nil)

		s, err := ix.UpsertEvent(ctx, testEvent())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.rows) != 1 {
			t.Fatalf("expected 1 row, got %d", len(repo.rows))
		}
		if s.OriginNode != "https://node.example.com" {
			t.Errorf("expected origin node stamp, got %q", s.OriginNode)
		}
		if s.FederationNode != "https://node.example.com" {
			t.Errorf("expected federation node stamp, got %q", s.FederationNode)
		}
		if s.EventTitle != "Monthly Meetup" {
			t.Errorf("unexpected title %q", s.EventTitle)
		}
		if s.VenueName != "Lucky Lab" {
			t.Errorf("unexpected venue %q", s.VenueName)
		}
		if s.TZ != "America/Los_Angeles" {
			t.Errorf("unexpected tz %q", s.TZ)
		}
		if s.Latitude == nil || *s.Latitude != 45.5 {
			t.Errorf("expected place latitude, got %v", s.Latitude)
		}
		if s.ImgURL != "https://node.example.com/media/teams/go-pdx.png" {
			t.Errorf("image URL not absolutized: %q", s.ImgURL)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		repo := newMemSearchableRepo()
		ix := NewIndexer(discard(), repo, "https://node.example.com", nil)
		event := testEvent()

		first, err := ix.UpsertEvent(ctx, event)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := ix.UpsertEvent(ctx, event)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.rows) != 1 {
			t.Fatalf("expected a single row after two upserts, got %d", len(repo.rows))
		}
		if first != second {
			t.Errorf("upsert is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
		}
	})

	t.Run("rename keeps the row keyed by the same URI", func(t *testing.T) {
		repo := newMemSearchableRepo()
		ix := NewIndexer(discard(), repo, "https://node.example.com", nil)
		event := testEvent()

		if _, err := ix.UpsertEvent(ctx, event); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		event.Name = "Renamed Meetup"
		s, err := ix.UpsertEvent(ctx, event)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.rows) != 1 {
			t.Fatalf("expected 1 row after rename, got %d", len(repo.rows))
		}
		if s.EventTitle != "Renamed Meetup" {
			t.Errorf("title not refreshed: %q", s.EventTitle)
		}
	})

	t.Run("no place falls back to team city coordinates", func(t *testing.T) {
		repo := newMemSearchableRepo()
		ix := NewIndexer(discard(), repo, "https://node.example.com", nil)
		event := testEvent()
		event.Place = nil

		s, err := ix.UpsertEvent(ctx, event)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.VenueName != "" {
			t.Errorf("expected empty venue, got %q", s.VenueName)
		}
		if s.Latitude == nil || *s.Latitude != 45.52 {
			t.Errorf("expected team city latitude, got %v", s.Latitude)
		}
		if s.LocationName != "Portland" {
			t.Errorf("expected team city location, got %q", s.LocationName)
		}
	})
}

func TestDeleteEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the row", func(t *testing.T) {
		repo := newMemSearchableRepo()
		ix := NewIndexer(discard(), repo, "https://node.example.com", nil)
		event := testEvent()

		if _, err := ix.UpsertEvent(ctx, event); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := ix.DeleteEvent(ctx, event); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.rows) != 0 {
			t.Errorf("expected no rows, got %d", len(repo.rows))
		}
	})

	t.Run("missing row is swallowed", func(t *testing.T) {
		repo := newMemSearchableRepo()
		ix := NewIndexer(discard(), repo, "https://node.example.com", nil)

		if err := ix.DeleteEvent(ctx, testEvent()); err != nil {
			t.Errorf("expected nil for a missing row, got %v", err)
		}
	})
}
