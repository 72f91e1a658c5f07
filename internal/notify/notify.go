// Package notify tells event hosts about platform activity. Actual mail
// delivery lives behind the Sender interface; every attempt is recorded
// whether or not it went out.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GetTogetherComm/GetTogether/internal/eventtime"
	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
	"github.com/GetTogetherComm/GetTogether/internal/utils/logger/sl"
)

// Sender delivers one message. Implementations must not be fatal: a failed
// send is recorded and forgotten.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// HostFinder lists the host attendees of an event whose email addresses are
// confirmed.
type HostFinder interface {
	FindConfirmedEventHosts(ctx context.Context, eventID int64) ([]domain.UserProfile, error)
}

type EmailRecordRepository interface {
	CreateEmailRecord(ctx context.Context, record domain.EmailRecord) error
}

// LogSender logs instead of delivering. Used when no mail transport is
// configured and in tests.
type LogSender struct {
	Log *slog.Logger
}

func (s *LogSender) Send(_ context.Context, to, subject, _ string) error {
	s.Log.Info("mail suppressed, no transport configured",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	return nil
}

type Notifier struct {
	log     *slog.Logger
	hosts   HostFinder
	sender  Sender
	records EmailRecordRepository
}

func New(log *slog.Logger, hosts HostFinder, sender Sender, records EmailRecordRepository) *Notifier {
	return &Notifier{
		log:     log,
		hosts:   hosts,
		sender:  sender,
		records: records,
	}
}

// EventCreated mails every confirmed host of a freshly generated series
// instance. Send failures are recorded with OK=false and do not abort the
// remaining recipients.
func (n *Notifier) EventCreated(ctx context.Context, event *domain.Event) error {
	op := "notify.Notifier.EventCreated()"
	log := n.log.With(slog.String("op", op), slog.Int64("eventID", event.ID))

	hosts, err := n.hosts.FindConfirmedEventHosts(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	subject := fmt.Sprintf("[GetTogether] New event: %s", event.Name)
	body := n.eventBody(event)

	for _, host := range hosts {
		sendErr := n.sender.Send(ctx, host.Email, subject, body)
		if sendErr != nil {
			log.Error("failed to send host notification",
				slog.String("email", host.Email), sl.Err(sendErr))
		}

		record := domain.EmailRecord{
			RecipientID: host.UserID,
			Email:       host.Email,
			Subject:     subject,
			Body:        body,
			OK:          sendErr == nil,
			When:        time.Now().UTC(),
		}
		if err := n.records.CreateEmailRecord(ctx, record); err != nil {
			log.Error("failed to record email", sl.Err(err))
		}
	}
	return nil
}

func (n *Notifier) eventBody(event *domain.Event) string {
	local := eventtime.LocalStartTime(event)
	venue := "to be announced"
	if event.Place != nil {
		venue = event.Place.DisplayName()
	}
	return fmt.Sprintf(
		"A new event in your series has been scheduled.\n\n%s\n%s at %s\n\n%s\n",
		event.Name,
		local.Format("Monday, January 2 2006 15:04"),
		venue,
		event.Summary,
	)
}
