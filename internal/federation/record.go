package federation

import (
	"time"

	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
)

// Record is the wire form of a Searchable row, shared by the export endpoint
// and the pull importer so both sides of a federation exchange agree on the
// field names.
type Record struct {
	EventURI     string    `json:"event_uri"`
	EventURL     string    `json:"event_url"`
	EventTitle   string    `json:"event_title"`
	ImgURL       string    `json:"img_url"`
	LocationName string    `json:"location_name"`
	GroupName    string    `json:"group_name"`
	VenueName    string    `json:"venue_name"`
	Longitude    *float64  `json:"longitude"`
	Latitude     *float64  `json:"latitude"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	TZ           string    `json:"tz,omitempty"`
	Cost         int       `json:"cost"`
	Tags         string    `json:"tags"`
	OriginNode   string    `json:"origin_node"`
}

func RecordFromDomain(s domain.Searchable) Record {
	return Record{
		EventURI:     s.EventURI,
		EventURL:     s.EventURL,
		EventTitle:   s.EventTitle,
		ImgURL:       s.ImgURL,
		LocationName: s.LocationName,
		GroupName:    s.GroupName,
		VenueName:    s.VenueName,
		Longitude:    s.Longitude,
		Latitude:     s.Latitude,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		TZ:           s.TZ,
		Cost:         s.Cost,
		Tags:         s.Tags,
		OriginNode:   s.OriginNode,
	}
}

// ToDomain converts an imported record. Peers running an older schema may
// omit event_uri; the event URL keys the row in that case.
func (r Record) ToDomain() domain.Searchable {
	uri := r.EventURI
	if uri == "" {
		uri = r.EventURL
	}
	tz := r.TZ
	if tz == "" {
		tz = domain.DefaultTZ
	}
	return domain.Searchable{
		EventURI:     uri,
		EventURL:     r.EventURL,
		EventTitle:   r.EventTitle,
		ImgURL:       r.ImgURL,
		LocationName: r.LocationName,
		GroupName:    r.GroupName,
		VenueName:    r.VenueName,
		Longitude:    r.Longitude,
		Latitude:     r.Latitude,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		TZ:           tz,
		Cost:         r.Cost,
		Tags:         r.Tags,
		OriginNode:   r.OriginNode,
	}
}
