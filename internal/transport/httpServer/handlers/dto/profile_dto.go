package dto

import (
	"github.com/google/uuid"

	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
)

type ProfileResponse struct {
	ID                uuid.UUID `json:"id"`
	RealName          string    `json:"real_name"`
	Email             string    `json:"email"`
	EmailConfirmed    bool      `json:"email_confirmed"`
	TZ                string    `json:"tz"`
	CityID            *int64    `json:"city_id,omitempty"`
	SendNotifications bool      `json:"send_notifications"`
}

// UpdateProfileRequest patches the caller's profile; empty fields are left
// unchanged.
type UpdateProfileRequest struct {
	RealName          string `json:"real_name"`
	Email             string `json:"email"`
	TZ                string `json:"tz"`
	CityID            *int64 `json:"city_id"`
	SendNotifications *bool  `json:"send_notifications"`
}

// AttendeeResponse is one RSVP row of an event.
type AttendeeResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	Status string    `json:"status"`
}

func MapDomainToProfileResponse(p domain.UserProfile) ProfileResponse {
	return ProfileResponse{
		ID:                p.ID,
		RealName:          p.RealName,
		Email:             p.Email,
		EmailConfirmed:    p.EmailConfirmed,
		TZ:                p.TZ,
		CityID:            p.CityID,
		SendNotifications: p.SendNotifications,
	}
}

func MapDomainToAttendeeResponseList(attendees []domain.Attendee) []AttendeeResponse {
	result := make([]AttendeeResponse, len(attendees))
	for i, a := range attendees {
		result[i] = AttendeeResponse{
			UserID: a.UserID,
			Role:   a.Role.String(),
			Status: a.Status.String(),
		}
	}
	return result
}
