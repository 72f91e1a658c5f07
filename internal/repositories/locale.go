package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/GetTogetherComm/GetTogether/internal/geo"
	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
	"github.com/GetTogetherComm/GetTogether/internal/models/repositories"
)

func (r *Repository) ListCountries(ctx context.Context) ([]domain.Country, error) {
	op := "repository.ListCountries()"

	var repoCountries []repositories.Country
	err := r.DB.SelectContext(ctx, &repoCountries, `SELECT id, name, code FROM countries ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]domain.Country, len(repoCountries))
	for i, c := range repoCountries {
		result[i] = domain.Country{ID: c.ID, Name: c.Name, Code: c.Code}
	}
	return result, nil
}

func (r *Repository) GetOrCreateCountry(ctx context.Context, name, code string) (domain.Country, error) {
	op := "repository.GetOrCreateCountry()"

	var repoCountry repositories.Country
	err := r.DB.GetContext(ctx, &repoCountry, `SELECT id, name, code FROM countries WHERE code = $1 LIMIT 1`, code)
	if err == nil {
		return domain.Country{ID: repoCountry.ID, Name: repoCountry.Name, Code: repoCountry.Code}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Country{}, fmt.Errorf("%s: %w", op, err)
	}

	country := domain.Country{Name: name, Code: code}
	err = r.DB.GetContext(ctx, &country.ID,
		`INSERT INTO countries (name, code) VALUES ($1, $2) RETURNING id`, name, code)
	if err != nil {
		return domain.Country{}, fmt.Errorf("%s: %w", op, err)
	}
	return country, nil
}

func (r *Repository) ListSPRs(ctx context.Context) ([]domain.SPR, error) {
	op := "repository.ListSPRs()"

	var repoSPRs []repositories.SPR
	err := r.DB.SelectContext(ctx, &repoSPRs, `SELECT id, name, code, country_id FROM sprs ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]domain.SPR, len(repoSPRs))
	for i, s := range repoSPRs {
		result[i] = domain.SPR{ID: s.ID, Name: s.Name, Code: s.Code, CountryID: s.CountryID}
	}
	return result, nil
}

func (r *Repository) GetOrCreateSPR(ctx context.Context, name, code string, countryID int64) (domain.SPR, error) {
	op := "repository.GetOrCreateSPR()"

	var repoSPR repositories.SPR
	err := r.DB.GetContext(ctx, &repoSPR,
		`SELECT id, name, code, country_id FROM sprs WHERE code = $1 AND country_id = $2 LIMIT 1`,
		code, countryID)
	if err == nil {
		return domain.SPR{ID: repoSPR.ID, Name: repoSPR.Name, Code: repoSPR.Code, CountryID: repoSPR.CountryID}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.SPR{}, fmt.Errorf("%s: %w", op, err)
	}

	spr := domain.SPR{Name: name, Code: code, CountryID: countryID}
	err = r.DB.GetContext(ctx, &spr.ID,
		`INSERT INTO sprs (name, code, country_id) VALUES ($1, $2, $3) RETURNING id`,
		name, code, countryID)
	if err != nil {
		return domain.SPR{}, fmt.Errorf("%s: %w", op, err)
	}
	return spr, nil
}

// UpdateOrCreateCity writes a city keyed by (name, spr_id). Dump reloads
// refresh coordinates, population and timezone in place.
func (r *Repository) UpdateOrCreateCity(ctx context.Context, city domain.City) error {
	op := "repository.UpdateOrCreateCity()"

	repoCity := cityToRepo(city)

	upsertQuery := `INSERT INTO cities (name, spr_id, latitude, longitude, population, tz)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (name, spr_id) DO UPDATE SET
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		population = EXCLUDED.population,
		tz = EXCLUDED.tz`

	_, err := r.DB.ExecContext(ctx, upsertQuery,
		repoCity.Name,
		repoCity.SPRID,
		repoCity.Latitude,
		repoCity.Longitude,
		repoCity.Population,
		repoCity.TZ,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindCitiesWithin returns cities inside a coordinate bounding box, biggest
// first. Cities without coordinates never match.
func (r *Repository) FindCitiesWithin(ctx context.Context, box geo.BoundingBox) ([]domain.City, error) {
	op := "repository.FindCitiesWithin()"

	var repoCities []repositories.City
	query := `SELECT id, name, spr_id, latitude, longitude, population, tz FROM cities
	          WHERE latitude BETWEEN $1 AND $2 AND longitude BETWEEN $3 AND $4
	          ORDER BY population DESC`

	err := r.DB.SelectContext(ctx, &repoCities, query, box.MinLat, box.MaxLat, box.MinLng, box.MaxLng)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]domain.City, len(repoCities))
	for i, c := range repoCities {
		result[i] = cityToDomain(c)
	}
	return result, nil
}

// FindCityByID loads a city with its SPR and country attached, which the
// display name needs.
func (r *Repository) FindCityByID(ctx context.Context, id int64) (domain.City, error) {
	op := "repository.FindCityByID()"

	var repoCity repositories.City
	err := r.DB.GetContext(ctx, &repoCity,
		`SELECT id, name, spr_id, latitude, longitude, population, tz FROM cities WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		return domain.City{}, fmt.Errorf("%s: %w", op, notFound(err))
	}

	city := cityToDomain(repoCity)

	var repoSPR repositories.SPR
	err = r.DB.GetContext(ctx, &repoSPR,
		`SELECT id, name, code, country_id FROM sprs WHERE id = $1 LIMIT 1`, city.SPRID)
	if err != nil {
		return domain.City{}, fmt.Errorf("%s: %w", op, notFound(err))
	}
	spr := domain.SPR{ID: repoSPR.ID, Name: repoSPR.Name, Code: repoSPR.Code, CountryID: repoSPR.CountryID}

	var repoCountry repositories.Country
	err = r.DB.GetContext(ctx, &repoCountry,
		`SELECT id, name, code FROM countries WHERE id = $1 LIMIT 1`, spr.CountryID)
	if err != nil {
		return domain.City{}, fmt.Errorf("%s: %w", op, notFound(err))
	}
	spr.Country = &domain.Country{ID: repoCountry.ID, Name: repoCountry.Name, Code: repoCountry.Code}

	city.SPR = &spr
	return city, nil
}

func cityToRepo(c domain.City) repositories.City {
	return repositories.City{
		ID:         c.ID,
		Name:       c.Name,
		SPRID:      c.SPRID,
		Latitude:   nullFloat(c.Latitude),
		Longitude:  nullFloat(c.Longitude),
		Population: c.Population,
		TZ:         c.TZ,
	}
}

func cityToDomain(c repositories.City) domain.City {
	return domain.City{
		ID:         c.ID,
		Name:       c.Name,
		SPRID:      c.SPRID,
		Latitude:   fromNullFloat(c.Latitude),
		Longitude:  fromNullFloat(c.Longitude),
		Population: c.Population,
		TZ:         c.TZ,
	}
}
