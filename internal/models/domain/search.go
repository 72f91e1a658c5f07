package domain

import "time"

// Searchable is the denormalized, federation-exchangeable projection of an
// event. It is keyed by EventURI and deliberately has no foreign key to
// Event, so records imported from peer nodes can live in the same table.
// Rows are rewritten wholesale by the indexer; nothing edits them by hand.
type Searchable struct {
	EventURI     string
	EventURL     string
	EventTitle   string
	ImgURL       string
	LocationName string
	GroupName    string
	VenueName    string
	Longitude    *float64
	Latitude     *float64
	StartTime    time.Time
	EndTime      time.Time
	TZ           string
	Cost         int
	Tags         string

	OriginNode     string
	FederationNode string
	FederationTime time.Time
}
