package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
	"github.com/GetTogetherComm/GetTogether/internal/models/repositories"
)

const profileColumns = `id, user_id, real_name, email, tz, city_id, send_notifications, email_confirmed`

// GetOrCreateProfile returns the profile for a user, creating an empty one on
// first contact. This is the only place profiles come into existence.
func (r *Repository) GetOrCreateProfile(ctx context.Context, userID uuid.UUID) (domain.UserProfile, error) {
	op := "repository.GetOrCreateProfile()"

	var repoProfile repositories.UserProfile
	err := r.DB.GetContext(ctx, &repoProfile,
		`SELECT `+profileColumns+` FROM user_profiles WHERE user_id = $1 LIMIT 1`, userID)
	if err == nil {
		return profileToDomain(repoProfile), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.UserProfile{}, fmt.Errorf("%s: %w", op, err)
	}

	profile := domain.UserProfile{
		ID:                uuid.New(),
		UserID:            userID,
		TZ:                domain.DefaultTZ,
		SendNotifications: true,
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO user_profiles (id, user_id, real_name, email, tz, city_id, send_notifications, email_confirmed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		profile.ID, profile.UserID, "", "", profile.TZ, nullInt(nil), profile.SendNotifications, false)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("%s: %w", op, err)
	}
	return profile, nil
}

func (r *Repository) UpdateProfile(ctx context.Context, profile domain.UserProfile) error {
	op := "repository.UpdateProfile()"

	result, err := r.DB.ExecContext(ctx,
		`UPDATE user_profiles SET
			real_name = $1, email = $2, tz = $3, city_id = $4,
			send_notifications = $5, email_confirmed = $6
		 WHERE id = $7`,
		profile.RealName,
		profile.Email,
		profile.TZ,
		nullInt(profile.CityID),
		profile.SendNotifications,
		profile.EmailConfirmed,
		profile.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: error checking rows affected: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

func (r *Repository) CreateEmailRecord(ctx context.Context, record domain.EmailRecord) error {
	op := "repository.CreateEmailRecord()"

	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO email_records (recipient_id, email, subject, body, ok, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		record.RecipientID,
		record.Email,
		record.Subject,
		record.Body,
		record.OK,
		record.When,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func profileToDomain(p repositories.UserProfile) domain.UserProfile {
	return domain.UserProfile{
		ID:                p.ID,
		UserID:            p.UserID,
		RealName:          p.RealName,
		Email:             p.Email,
		TZ:                p.TZ,
		CityID:            fromNullInt(p.CityID),
		SendNotifications: p.SendNotifications,
		EmailConfirmed:    p.EmailConfirmed,
	}
}
