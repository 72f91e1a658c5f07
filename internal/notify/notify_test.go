package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memHosts struct {
	hosts []domain.UserProfile
}

func (m *memHosts) FindConfirmedEventHosts(context.Context, int64) ([]domain.UserProfile, error) {
	return m.hosts, nil
}

type memRecords struct {
	records []domain.EmailRecord
}

func (m *memRecords) CreateEmailRecord(_ context.Context, record domain.EmailRecord) error {
	m.records = append(m.records, record)
	return nil
}

type flakySender struct {
	failFor string
	sent    []string
}

func (s *flakySender) Send(_ context.Context, to, _, _ string) error {
	if to == s.failFor {
		return fmt.Errorf("mailbox unavailable")
	}
	s.sent = append(s.sent, to)
	return nil
}

func TestEventCreated(t *testing.T) {
	hosts := &memHosts{hosts: []domain.UserProfile{
		{UserID: uuid.New(), Email: "good@example.com"},
		{UserID: uuid.New(), Email: "bad@example.com"},
	}}
	records := &memRecords{}
	sender := &flakySender{failFor: "bad@example.com"}

	n := New(discard(), hosts, sender, records)
	event := &domain.Event{
		ID:        42,
		Name:      "Board Games Night",
		StartTime: time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 1, 22, 0, 0, 0, time.UTC),
	}

	if err := n.EventCreated(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.sent) != 1 || sender.sent[0] != "good@example.com" {
		t.Errorf("unexpected sends: %v", sender.sent)
	}
	if len(records.records) != 2 {
		t.Fatalf("expected a record per recipient, got %d", len(records.records))
	}

	byEmail := map[string]domain.EmailRecord{}
	for _, r := range records.records {
		byEmail[r.Email] = r
	}
	if !byEmail["good@example.com"].OK {
		t.Error("successful send recorded as failed")
	}
	if byEmail["bad@example.com"].OK {
		t.Error("failed send recorded as ok")
	}
	if subject := byEmail["good@example.com"].Subject; subject != "[GetTogether] New event: Board Games Night" {
		t.Errorf("unexpected subject %q", subject)
	}
}
