package repositories

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Country struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Code string `db:"code"`
}

type SPR struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Code      string `db:"code"`
	CountryID int64  `db:"country_id"`
}

type City struct {
	ID         int64           `db:"id"`
	Name       string          `db:"name"`
	SPRID      int64           `db:"spr_id"`
	Latitude   sql.NullFloat64 `db:"latitude"`
	Longitude  sql.NullFloat64 `db:"longitude"`
	Population int64           `db:"population"`
	TZ         string          `db:"tz"`
}

type Place struct {
	ID        int64           `db:"id"`
	Name      string          `db:"name"`
	CityID    int64           `db:"city_id"`
	Address   sql.NullString  `db:"address"`
	Latitude  sql.NullFloat64 `db:"latitude"`
	Longitude sql.NullFloat64 `db:"longitude"`
	TZ        string          `db:"tz"`
	PlaceURL  sql.NullString  `db:"place_url"`
	CoverImg  sql.NullString  `db:"cover_img"`
}

type Team struct {
	ID         int64           `db:"id"`
	Name       string          `db:"name"`
	Slug       string          `db:"slug"`
	CityID     sql.NullInt64   `db:"city_id"`
	Latitude   sql.NullFloat64 `db:"latitude"`
	Longitude  sql.NullFloat64 `db:"longitude"`
	TZ         string          `db:"tz"`
	WebURL     sql.NullString  `db:"web_url"`
	CardImgURL sql.NullString  `db:"card_img_url"`
	Access     string          `db:"access"`
}

type Event struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	TeamID      int64          `db:"team_id"`
	PlaceID     sql.NullInt64  `db:"place_id"`
	SeriesID    sql.NullInt64  `db:"series_id"`
	ParentID    sql.NullInt64  `db:"parent_id"`
	StartTime   time.Time      `db:"start_time"`
	EndTime     time.Time      `db:"end_time"`
	Summary     sql.NullString `db:"summary"`
	WebURL      sql.NullString `db:"web_url"`
	AnnounceURL sql.NullString `db:"announce_url"`
	CreatedBy   uuid.UUID      `db:"created_by"`
	CreatedTime time.Time      `db:"created_time"`
	Tags        sql.NullString `db:"tags"`
}

type EventSeries struct {
	ID         int64          `db:"id"`
	Name       string         `db:"name"`
	TeamID     int64          `db:"team_id"`
	PlaceID    sql.NullInt64  `db:"place_id"`
	Recurrence string         `db:"recurrence"`
	StartTime  time.Time      `db:"start_time"`
	EndTime    time.Time      `db:"end_time"`
	FirstTime  time.Time      `db:"first_time"`
	LastTime   time.Time      `db:"last_time"`
	Summary    sql.NullString `db:"summary"`
	CreatedBy  uuid.UUID      `db:"created_by"`
	Tags       sql.NullString `db:"tags"`
}

type Attendee struct {
	ID      int64     `db:"id"`
	EventID int64     `db:"event_id"`
	UserID  uuid.UUID `db:"user_id"`
	Role    int       `db:"role"`
	Status  int       `db:"status"`
	Joined  time.Time `db:"joined"`
}

type UserProfile struct {
	ID                uuid.UUID     `db:"id"`
	UserID            uuid.UUID     `db:"user_id"`
	RealName          string        `db:"real_name"`
	Email             string        `db:"email"`
	TZ                string        `db:"tz"`
	CityID            sql.NullInt64 `db:"city_id"`
	SendNotifications bool          `db:"send_notifications"`
	EmailConfirmed    bool          `db:"email_confirmed"`
}

type EmailRecord struct {
	ID          int64     `db:"id"`
	RecipientID uuid.UUID `db:"recipient_id"`
	Email       string    `db:"email"`
	Subject     string    `db:"subject"`
	Body        string    `db:"body"`
	OK          bool      `db:"ok"`
	When        time.Time `db:"sent_at"`
}

type Searchable struct {
	EventURI       string          `db:"event_uri"`
	EventURL       string          `db:"event_url"`
	EventTitle     string          `db:"event_title"`
	ImgURL         string          `db:"img_url"`
	LocationName   string          `db:"location_name"`
	GroupName      string          `db:"group_name"`
	VenueName      string          `db:"venue_name"`
	Longitude      sql.NullFloat64 `db:"longitude"`
	Latitude       sql.NullFloat64 `db:"latitude"`
	StartTime      time.Time       `db:"start_time"`
	EndTime        time.Time       `db:"end_time"`
	TZ             string          `db:"tz"`
	Cost           int             `db:"cost"`
	Tags           sql.NullString  `db:"tags"`
	OriginNode     string          `db:"origin_node"`
	FederationNode string          `db:"federation_node"`
	FederationTime time.Time       `db:"federation_time"`
}
