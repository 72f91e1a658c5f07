package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
	"github.com/GetTogetherComm/GetTogether/internal/models/repositories"
)

const attendeeColumns = `id, event_id, user_id, role, status, joined`

// SaveAttendance records an RSVP, updating the existing row when the user
// already answered. Lookup-before-insert, no unique constraint.
func (r *Repository) SaveAttendance(ctx context.Context, attendee domain.Attendee) (domain.Attendee, error) {
	op := "repository.SaveAttendance()"

	var existing repositories.Attendee
	err := r.DB.GetContext(ctx, &existing,
		`SELECT `+attendeeColumns+` FROM attendees WHERE event_id = $1 AND user_id = $2 LIMIT 1`,
		attendee.EventID, attendee.UserID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return domain.Attendee{}, fmt.Errorf("%s: %w", op, err)
	}

	if err == nil {
		_, err = r.DB.ExecContext(ctx,
			`UPDATE attendees SET role = $1, status = $2 WHERE id = $3`,
			int(attendee.Role), int(attendee.Status), existing.ID)
		if err != nil {
			return domain.Attendee{}, fmt.Errorf("%s: %w", op, err)
		}
		attendee.ID = existing.ID
		attendee.Joined = existing.Joined
		return attendee, nil
	}

	attendee.Joined = time.Now().UTC()
	err = r.DB.GetContext(ctx, &attendee.ID,
		`INSERT INTO attendees (event_id, user_id, role, status, joined)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		attendee.EventID, attendee.UserID, int(attendee.Role), int(attendee.Status), attendee.Joined)
	if err != nil {
		return domain.Attendee{}, fmt.Errorf("%s: %w", op, err)
	}
	return attendee, nil
}

func (r *Repository) ListEventAttendees(ctx context.Context, eventID int64) ([]domain.Attendee, error) {
	op := "repository.ListEventAttendees()"

	var repoAttendees []repositories.Attendee
	err := r.DB.SelectContext(ctx, &repoAttendees,
		`SELECT `+attendeeColumns+` FROM attendees WHERE event_id = $1 ORDER BY joined ASC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]domain.Attendee, len(repoAttendees))
	for i, a := range repoAttendees {
		result[i] = attendeeToDomain(a)
	}
	return result, nil
}

// FindConfirmedEventHosts returns the profiles of hosts with a confirmed
// email who opted into notifications.
func (r *Repository) FindConfirmedEventHosts(ctx context.Context, eventID int64) ([]domain.UserProfile, error) {
	op := "repository.FindConfirmedEventHosts()"

	var repoProfiles []repositories.UserProfile
	query := `SELECT p.id, p.user_id, p.real_name, p.email, p.tz, p.city_id, p.send_notifications, p.email_confirmed
	          FROM user_profiles p
	          JOIN attendees a ON a.user_id = p.user_id
	          WHERE a.event_id = $1 AND a.role = $2
	            AND p.email_confirmed = TRUE AND p.send_notifications = TRUE`

	err := r.DB.SelectContext(ctx, &repoProfiles, query, eventID, int(domain.RoleHost))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]domain.UserProfile, len(repoProfiles))
	for i, p := range repoProfiles {
		result[i] = profileToDomain(p)
	}
	return result, nil
}

func attendeeToDomain(a repositories.Attendee) domain.Attendee {
	return domain.Attendee{
		ID:      a.ID,
		EventID: a.EventID,
		UserID:  a.UserID,
		Role:    domain.AttendeeRole(a.Role),
		Status:  domain.AttendeeStatus(a.Status),
		Joined:  a.Joined,
	}
}
