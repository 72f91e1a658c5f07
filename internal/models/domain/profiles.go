package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the per-user extension record. It is created lazily through
// the repository's GetOrCreateProfile accessor, never as a side effect of
// reading some other entity.
type UserProfile struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	RealName          string
	Email             string
	TZ                string
	CityID            *int64
	SendNotifications bool
	EmailConfirmed    bool
}

// TeamAccess controls who can see and join a team.
type TeamAccess string

const (
	TeamPublic  TeamAccess = "PUBLIC"
	TeamPrivate TeamAccess = "PRIVATE"
)

// Team is a group of people that organizes events. Coordinates and timezone
// fall back to the team's home city when not set directly.
type Team struct {
	ID         int64
	Name       string
	Slug       string
	CityID     *int64
	City       *City
	Latitude   *float64
	Longitude  *float64
	TZ         string
	WebURL     string
	CardImgURL string
	Access     TeamAccess
}

// AttendeeRole is the part an attendee plays at an event.
type AttendeeRole int

const (
	RoleNormal AttendeeRole = 0
	RoleCrew   AttendeeRole = 1
	RoleHost   AttendeeRole = 2
)

func (r AttendeeRole) String() string {
	switch r {
	case RoleCrew:
		return "Crew"
	case RoleHost:
		return "Host"
	default:
		return "Normal"
	}
}

// AttendeeStatus is the RSVP answer.
type AttendeeStatus int

const (
	StatusNo    AttendeeStatus = 0
	StatusMaybe AttendeeStatus = 1
	StatusYes   AttendeeStatus = 2
)

func (s AttendeeStatus) String() string {
	switch s {
	case StatusMaybe:
		return "Maybe"
	case StatusYes:
		return "Yes"
	default:
		return "No"
	}
}

// Attendee joins a UserProfile to an Event. Uniqueness of (event, user) is
// enforced by lookup-before-insert in the handlers, not by a constraint.
type Attendee struct {
	ID      int64
	EventID int64
	UserID  uuid.UUID
	Role    AttendeeRole
	Status  AttendeeStatus
	Joined  time.Time
}

// EmailRecord keeps an audit trail of every notification handed to the mail
// sender, whether or not delivery succeeded.
type EmailRecord struct {
	ID          int64
	RecipientID uuid.UUID
	Email       string
	Subject     string
	Body        string
	OK          bool
	When        time.Time
}
