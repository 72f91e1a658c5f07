package series

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// weeklySeries starts Tuesday 2024-01-02 19:00 in Chicago (UTC-6 in winter).
func weeklySeries(rule string) *domain.EventSeries {
	chicago, _ := time.LoadLocation("America/Chicago")
	first := time.Date(2024, 1, 2, 19, 0, 0, 0, chicago).UTC()
	return &domain.EventSeries{
		ID:         1,
		Name:       "Weekly Hack Night",
		TeamID:     10,
		Team:       &domain.Team{ID: 10, Name: "Go Chicago", TZ: "America/Chicago"},
		Recurrence: rule,
		StartTime:  time.Date(0, 1, 1, 19, 0, 0, 0, time.UTC),
		EndTime:    time.Date(0, 1, 1, 21, 0, 0, 0, time.UTC),
		FirstTime:  first,
		LastTime:   first,
		Summary:    "Bring a laptop",
		Tags:       "golang",
	}
}

func TestNextOccurrence(t *testing.T) {
	t.Run("weekly advances seven days", func(t *testing.T) {
		s := weeklySeries("FREQ=WEEKLY")
		start, end, err := NextOccurrence(s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2024, 1, 10, 1, 0, 0, 0, time.UTC) // Jan 9 19:00 Chicago
		if !start.Equal(want) {
			t.Errorf("expected start %s, got %s", want, start)
		}
		if wantEnd := want.Add(2 * time.Hour); !end.Equal(wantEnd) {
			t.Errorf("expected end %s, got %s", wantEnd, end)
		}
	})

	t.Run("strictly after last time", func(t *testing.T) {
		s := weeklySeries("FREQ=WEEKLY")
		start, _, err := NextOccurrence(s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !start.After(s.LastTime) {
			t.Errorf("next start %s is not after last time %s", start, s.LastTime)
		}
	})

	t.Run("count-limited rule exhausts", func(t *testing.T) {
		s := weeklySeries("FREQ=WEEKLY;COUNT=2")
		// Advance past the second (final) occurrence.
		chicago, _ := time.LoadLocation("America/Chicago")
		s.LastTime = time.Date(2024, 1, 9, 19, 0, 0, 0, chicago).UTC()

		start, _, err := NextOccurrence(s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !start.IsZero() {
			t.Errorf("expected exhausted rule, got %s", start)
		}
	})

	t.Run("overnight series ends the next day", func(t *testing.T) {
		s := weeklySeries("FREQ=WEEKLY")
		s.StartTime = time.Date(0, 1, 1, 22, 0, 0, 0, time.UTC)
		s.EndTime = time.Date(0, 1, 1, 1, 0, 0, 0, time.UTC)

		start, end, err := NextOccurrence(s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := end.Sub(start); got != 3*time.Hour {
			t.Errorf("expected a 3h overnight event, got %s", got)
		}
	})

	t.Run("bad rule is an error", func(t *testing.T) {
		s := weeklySeries("FREQ=SOMETIMES")
		if _, _, err := NextOccurrence(s); err == nil {
			t.Error("expected an error for an unparseable rule")
		}
	})
}

type memSeriesRepo struct {
	due     []domain.EventSeries
	updates map[int64]time.Time
}

func (m *memSeriesRepo) FindDueSeries(_ context.Context, now time.Time) ([]domain.EventSeries, error) {
	var out []domain.EventSeries
	for _, s := range m.due {
		if !s.LastTime.After(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSeriesRepo) UpdateSeriesLastTime(_ context.Context, id int64, last time.Time) error {
	if m.updates == nil {
		m.updates = make(map[int64]time.Time)
	}
	m.updates[id] = last
	return nil
}

type memEventRepo struct {
	created []domain.Event
	nextID  int64
}

func (m *memEventRepo) CreateEvent(_ context.Context, event domain.Event) (domain.Event, error) {
	m.nextID++
	event.ID = m.nextID
	m.created = append(m.created, event)
	return event, nil
}

type noopIndexer struct{ upserts int }

func (n *noopIndexer) UpsertEvent(_ context.Context, _ *domain.Event) (domain.Searchable, error) {
	n.upserts++
	return domain.Searchable{}, nil
}

func TestCreateNextInSeries(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the event and advances last time", func(t *testing.T) {
		seriesRepo := &memSeriesRepo{}
		eventRepo := &memEventRepo{}
		indexer := &noopIndexer{}
		gen := NewGenerator(discard(), seriesRepo, eventRepo, indexer, nil, nil)

		s := weeklySeries("FREQ=WEEKLY")
		before := s.LastTime

		event, err := gen.CreateNextInSeries(ctx, s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if event == nil {
			t.Fatal("expected an event")
		}
		if event.Name != "Weekly Hack Night" || event.SeriesID == nil || *event.SeriesID != s.ID {
			t.Errorf("event not bound to series: %+v", event)
		}
		if !s.LastTime.After(before) {
			t.Errorf("LastTime did not advance: %s -> %s", before, s.LastTime)
		}
		if !s.LastTime.Equal(event.StartTime) {
			t.Errorf("LastTime %s != event start %s", s.LastTime, event.StartTime)
		}
		if got, ok := seriesRepo.updates[s.ID]; !ok || !got.Equal(s.LastTime) {
			t.Errorf("series update not persisted: %v", seriesRepo.updates)
		}
		if indexer.upserts != 1 {
			t.Errorf("expected 1 searchable upsert, got %d", indexer.upserts)
		}
	})

	t.Run("last time strictly increases across calls", func(t *testing.T) {
		gen := NewGenerator(discard(), &memSeriesRepo{}, &memEventRepo{}, &noopIndexer{}, nil, nil)
		s := weeklySeries("FREQ=WEEKLY")

		prev := s.LastTime
		for i := 0; i < 5; i++ {
			event, err := gen.CreateNextInSeries(ctx, s)
			if err != nil {
				t.Fatalf("unexpected error on call %d: %v", i, err)
			}
			if event == nil {
				t.Fatalf("rule should not exhaust on call %d", i)
			}
			if !s.LastTime.After(prev) {
				t.Fatalf("LastTime did not strictly increase on call %d", i)
			}
			prev = s.LastTime
		}
	})

	t.Run("exhausted rule is a no-op", func(t *testing.T) {
		seriesRepo := &memSeriesRepo{}
		eventRepo := &memEventRepo{}
		gen := NewGenerator(discard(), seriesRepo, eventRepo, &noopIndexer{}, nil, nil)

		s := weeklySeries("FREQ=WEEKLY;COUNT=1")
		before := s.LastTime

		event, err := gen.CreateNextInSeries(ctx, s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if event != nil {
			t.Errorf("expected nil event, got %+v", event)
		}
		if !s.LastTime.Equal(before) {
			t.Errorf("LastTime changed on an exhausted rule: %s -> %s", before, s.LastTime)
		}
		if len(eventRepo.created) != 0 {
			t.Errorf("expected no events, got %d", len(eventRepo.created))
		}
		if len(seriesRepo.updates) != 0 {
			t.Errorf("expected no persisted updates, got %v", seriesRepo.updates)
		}
	})
}

func TestSweepDue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	s1 := weeklySeries("FREQ=WEEKLY")
	s2 := weeklySeries("FREQ=WEEKLY;COUNT=1") // due but exhausted
	s2.ID = 2
	s3 := weeklySeries("FREQ=WEEKLY") // not due yet
	s3.ID = 3
	s3.LastTime = now.Add(24 * time.Hour)

	seriesRepo := &memSeriesRepo{due: []domain.EventSeries{*s1, *s2, *s3}}
	eventRepo := &memEventRepo{}
	gen := NewGenerator(discard(), seriesRepo, eventRepo, &noopIndexer{}, nil, nil)

	created, err := gen.SweepDue(ctx, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != 1 {
		t.Errorf("expected 1 created event, got %d", created)
	}
	if len(eventRepo.created) != 1 {
		t.Errorf("expected 1 event in repo, got %d", len(eventRepo.created))
	}
}
