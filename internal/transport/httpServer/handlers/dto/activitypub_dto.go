package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/GetTogetherComm/GetTogether/internal/eventtime"
	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
)

const activityStreamsContext = "https://www.w3.org/ns/activitystreams"

// Collection is the ActivityStreams envelope both public directory endpoints
// share.
type Collection struct {
	Context    string        `json:"@context"`
	Summary    string        `json:"summary"`
	Type       string        `json:"type"`
	TotalItems int           `json:"totalItems"`
	Items      []interface{} `json:"items"`
}

func NewCollection(summary string, items []interface{}) Collection {
	return Collection{
		Context:    activityStreamsContext,
		Summary:    summary,
		Type:       "Collection",
		TotalItems: len(items),
		Items:      items,
	}
}

// APEvent is an ActivityStreams Event object.
type APEvent struct {
	Type         string    `json:"type"`
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	Image        string    `json:"image,omitempty"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	TZ           string    `json:"timezone"`
	AttributedTo *APGroup  `json:"attributedTo,omitempty"`
	Location     *APPlace  `json:"location,omitempty"`
}

type APGroup struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type APPlace struct {
	Type      string   `json:"type"`
	Name      string   `json:"name"`
	Address   string   `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// MapDomainToAPEvent converts an event for the public directory. Relative
// image URLs are absolutized against this node's address.
func MapDomainToAPEvent(e domain.Event, nodeURL string) APEvent {
	url := fmt.Sprintf("%s/events/%d/%s/", nodeURL, e.ID, e.Slug())
	item := APEvent{
		Type:      "Event",
		ID:        url,
		Name:      e.Name,
		URL:       url,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		TZ:        eventtime.EffectiveZoneName(e.Place, e.Team),
	}
	if e.Team != nil {
		item.AttributedTo = &APGroup{Type: "Group", Name: e.Team.Name}
		item.Image = absolutize(e.Team.CardImgURL, nodeURL)
	}
	if e.Place != nil {
		item.Location = MapDomainToAPPlace(*e.Place)
	}
	return item
}

func MapDomainToAPPlace(p domain.Place) *APPlace {
	return &APPlace{
		Type:      "Place",
		Name:      p.DisplayName(),
		Address:   p.Address,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
	}
}

func absolutize(url, nodeURL string) string {
	if strings.HasPrefix(url, "/") {
		return nodeURL + url
	}
	return url
}
