// Package geo holds the distance and bounding-box math used for nearby
// search. Distances use a flat-earth approximation; the numbers it produces
// are part of the external contract and must not be "corrected" to a proper
// haversine.
package geo

import (
	"context"
	"math"

	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
)

const (
	KmPerDegreeLat = 110.574
	KmPerDegreeLng = 111.320 // at the equator

	// UnknownDistance sorts entities without resolvable coordinates last.
	UnknownDistance = 99999

	// MaxCitySearchKm caps the nearest-city radius expansion.
	MaxCitySearchKm = 100
)

type LatLng struct {
	Lat float64
	Lng float64
}

// BoundingBox is a rectangular pre-filter for indexed range queries. It is
// always a superset of the circle it was built from.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

func (b BoundingBox) Contains(p LatLng) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// Bounds returns the box of radiusKm around center.
func Bounds(center LatLng, radiusKm float64) BoundingBox {
	dLng := radiusKm / (KmPerDegreeLng * math.Cos(center.Lat*math.Pi/180))
	return BoundingBox{
		MinLat: center.Lat - radiusKm/KmPerDegreeLat,
		MaxLat: center.Lat + radiusKm/KmPerDegreeLat,
		MinLng: center.Lng - dLng,
		MaxLng: center.Lng + dLng,
	}
}

// Distance approximates the distance in km between two points by projecting
// degree deltas onto a flat plane at the average latitude.
func Distance(a, b LatLng) float64 {
	avgLat := (a.Lat + b.Lat) / 2
	dLat := (b.Lat - a.Lat) * KmPerDegreeLat
	dLng := (b.Lng - a.Lng) * (KmPerDegreeLng * math.Cos(avgLat*math.Pi/180))
	return math.Sqrt(dLat*dLat + dLng*dLng)
}

// CityFinder is the slice of the locale repository the nearest-city search
// needs.
type CityFinder interface {
	FindCitiesWithin(ctx context.Context, box BoundingBox) ([]domain.City, error)
}

// NearestCity grows the search radius 1 km at a time until the bounding box
// catches at least one city or the cap is reached, then returns the closest
// match by exact distance. A nil result means no city within the cap.
func NearestCity(ctx context.Context, finder CityFinder, ll *LatLng) (*domain.City, error) {
	if ll == nil {
		return nil, nil
	}
	for radius := float64(1); radius <= MaxCitySearchKm; radius++ {
		cities, err := finder.FindCitiesWithin(ctx, Bounds(*ll, radius))
		if err != nil {
			return nil, err
		}
		if len(cities) == 0 {
			continue
		}
		best := cities[0]
		bestDist := CityDistanceFrom(ll, &best)
		for _, city := range cities[1:] {
			city := city
			if d := CityDistanceFrom(ll, &city); d < bestDist {
				best, bestDist = city, d
			}
		}
		return &best, nil
	}
	return nil, nil
}

// CityDistanceFrom ranks a city against an origin point. A nil origin means
// "no location filter" and ranks everything equally at 0.
func CityDistanceFrom(ll *LatLng, city *domain.City) float64 {
	if ll == nil {
		return 0
	}
	if city != nil && city.Latitude != nil && city.Longitude != nil {
		return Distance(*ll, LatLng{Lat: *city.Latitude, Lng: *city.Longitude})
	}
	return UnknownDistance
}

// TeamDistanceFrom uses the team's own coordinates when present, otherwise
// its home city's.
func TeamDistanceFrom(ll *LatLng, team *domain.Team) float64 {
	if ll == nil {
		return 0
	}
	if team == nil {
		return UnknownDistance
	}
	if team.Latitude != nil && team.Longitude != nil {
		return Distance(*ll, LatLng{Lat: *team.Latitude, Lng: *team.Longitude})
	}
	if team.City != nil {
		return CityDistanceFrom(ll, team.City)
	}
	return UnknownDistance
}

// EventDistanceFrom falls through event -> place -> team -> city.
func EventDistanceFrom(ll *LatLng, event *domain.Event) float64 {
	if ll == nil {
		return 0
	}
	if event.Place != nil && event.Place.Latitude != nil && event.Place.Longitude != nil {
		return Distance(*ll, LatLng{Lat: *event.Place.Latitude, Lng: *event.Place.Longitude})
	}
	if event.Team != nil {
		return TeamDistanceFrom(ll, event.Team)
	}
	return UnknownDistance
}

// SearchableDistanceFrom ranks a federated index row, which either carries
// coordinates or does not.
func SearchableDistanceFrom(ll *LatLng, s *domain.Searchable) float64 {
	if ll == nil {
		return 0
	}
	if s.Latitude != nil && s.Longitude != nil {
		return Distance(*ll, LatLng{Lat: *s.Latitude, Lng: *s.Longitude})
	}
	return UnknownDistance
}
