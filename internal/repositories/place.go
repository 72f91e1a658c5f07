package repositories

import (
	"context"
	"fmt"

	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
	"github.com/GetTogetherComm/GetTogether/internal/models/repositories"
)

const placeColumns = `id, name, city_id, address, latitude, longitude, tz, place_url, cover_img`

// FindPlaceByID loads a venue with its city hydrated.
func (r *Repository) FindPlaceByID(ctx context.Context, id int64) (domain.Place, error) {
	op := "repository.FindPlaceByID()"

	var repoPlace repositories.Place
	err := r.DB.GetContext(ctx, &repoPlace, `SELECT `+placeColumns+` FROM places WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		return domain.Place{}, fmt.Errorf("%s: %w", op, notFound(err))
	}

	place := placeToDomain(repoPlace)
	city, err := r.FindCityByID(ctx, place.CityID)
	if err != nil {
		return domain.Place{}, fmt.Errorf("%s: %w", op, err)
	}
	place.City = &city
	return place, nil
}

func (r *Repository) CreatePlace(ctx context.Context, place domain.Place) (domain.Place, error) {
	op := "repository.CreatePlace()"

	repoPlace := placeToRepo(place)

	insertQuery := `INSERT INTO places (name, city_id, address, latitude, longitude, tz, place_url, cover_img)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	err := r.DB.GetContext(ctx, &place.ID, insertQuery,
		repoPlace.Name,
		repoPlace.CityID,
		repoPlace.Address,
		repoPlace.Latitude,
		repoPlace.Longitude,
		repoPlace.TZ,
		repoPlace.PlaceURL,
		repoPlace.CoverImg,
	)
	if err != nil {
		return domain.Place{}, fmt.Errorf("%s: %w", op, err)
	}
	return place, nil
}

// ListPlaces returns every venue, hydrated, for the place directory export.
func (r *Repository) ListPlaces(ctx context.Context) ([]domain.Place, error) {
	op := "repository.ListPlaces()"

	var repoPlaces []repositories.Place
	err := r.DB.SelectContext(ctx, &repoPlaces, `SELECT `+placeColumns+` FROM places ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]domain.Place, len(repoPlaces))
	for i, p := range repoPlaces {
		place := placeToDomain(p)
		city, err := r.FindCityByID(ctx, place.CityID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		place.City = &city
		result[i] = place
	}
	return result, nil
}

func placeToRepo(p domain.Place) repositories.Place {
	return repositories.Place{
		ID:        p.ID,
		Name:      p.Name,
		CityID:    p.CityID,
		Address:   nullString(p.Address),
		Latitude:  nullFloat(p.Latitude),
		Longitude: nullFloat(p.Longitude),
		TZ:        p.TZ,
		PlaceURL:  nullString(p.PlaceURL),
		CoverImg:  nullString(p.CoverImg),
	}
}

func placeToDomain(p repositories.Place) domain.Place {
	return domain.Place{
		ID:        p.ID,
		Name:      p.Name,
		CityID:    p.CityID,
		Address:   fromNullString(p.Address),
		Latitude:  fromNullFloat(p.Latitude),
		Longitude: fromNullFloat(p.Longitude),
		TZ:        p.TZ,
		PlaceURL:  fromNullString(p.PlaceURL),
		CoverImg:  fromNullString(p.CoverImg),
	}
}
