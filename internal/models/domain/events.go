package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories when a lookup matches nothing.
// Callers that treat absence as a normal outcome check for it with errors.Is.
var ErrNotFound = errors.New("not found")

// DefaultTZ is the last link of the Place -> Team -> default timezone chain.
const DefaultTZ = "UTC"

// Place is a venue. Its timezone takes priority over the team's when an
// event happens there.
type Place struct {
	ID        int64
	Name      string
	CityID    int64
	City      *City
	Address   string
	Latitude  *float64
	Longitude *float64
	TZ        string
	PlaceURL  string
	CoverImg  string
}

func (p *Place) DisplayName() string {
	if p.City != nil {
		return fmt.Sprintf("%s, %s", p.Name, p.City.Name)
	}
	return p.Name
}

// Event is a single gathering. StartTime and EndTime are stored as UTC
// instants; the wall-clock view is derived through the effective timezone
// chain and never stored.
type Event struct {
	ID          int64
	Name        string
	TeamID      int64
	Team        *Team
	PlaceID     *int64
	Place       *Place
	SeriesID    *int64
	ParentID    *int64
	StartTime   time.Time
	EndTime     time.Time
	Summary     string
	WebURL      string
	AnnounceURL string
	CreatedByID uuid.UUID
	CreatedTime time.Time
	Tags        string
}

// Slug returns the URL-safe form of the event name, used in the canonical
// event URL that the federation index is keyed on.
func (e *Event) Slug() string {
	return Slugify(e.Name)
}

// EventSeries is a recurrence template. StartTime and EndTime carry only a
// time of day; LastTime is the UTC start instant of the most recently
// generated Event and only ever moves forward. FirstTime anchors the
// recurrence rule so COUNT/UNTIL clauses keep their meaning.
type EventSeries struct {
	ID          int64
	Name        string
	TeamID      int64
	Team        *Team
	PlaceID     *int64
	Place       *Place
	Recurrence  string
	StartTime   time.Time
	EndTime     time.Time
	FirstTime   time.Time
	LastTime    time.Time
	Summary     string
	CreatedByID uuid.UUID
	Tags        string
}

var slugSeparators = regexp.MustCompile(`[-\s]+`)

// Slugify keeps letters, digits and "-_~", turns runs of whitespace into a
// single dash and lowercases the result. "&" becomes "and".
func Slugify(s string) string {
	s = strings.ReplaceAll(s, "&", " and ")
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("-_~", r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	out := strings.TrimSpace(b.String())
	out = slugSeparators.ReplaceAllString(out, "-")
	return strings.ToLower(out)
}
