// Package geonames seeds the locale tables from GeoNames dump files. Field
// layouts follow http://download.geonames.org/export/dump/readme.txt.
package geonames

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
	"github.com/GetTogetherComm/GetTogether/internal/utils/logger/sl"
)

// countryInfo.txt columns.
const (
	countryISO     = 0
	countryName    = 4
	countryColumns = 19
)

// admin1CodesASCII.txt columns.
const (
	sprCombinedCode = 0
	sprName         = 1
	sprColumns      = 4
)

// cities dump columns.
const (
	cityName        = 1
	cityLatitude    = 4
	cityLongitude   = 5
	cityFeatureCode = 7
	cityCountryCode = 8
	cityAdmin1      = 10
	cityPopulation  = 14
	cityTimezone    = 17
	cityColumns     = 19
)

type CountryRepository interface {
	ListCountries(ctx context.Context) ([]domain.Country, error)
	GetOrCreateCountry(ctx context.Context, name, code string) (domain.Country, error)
}

type SPRRepository interface {
	ListSPRs(ctx context.Context) ([]domain.SPR, error)
	GetOrCreateSPR(ctx context.Context, name, code string, countryID int64) (domain.SPR, error)
}

type CityRepository interface {
	UpdateOrCreateCity(ctx context.Context, city domain.City) error
}

// Loader runs the one-time seeding commands. All loads are idempotent:
// get-or-create / update-or-create on the natural keys.
type Loader struct {
	log       *slog.Logger
	countries CountryRepository
	sprs      SPRRepository
	cities    CityRepository
}

func NewLoader(log *slog.Logger, countries CountryRepository, sprs SPRRepository, cities CityRepository) *Loader {
	return &Loader{
		log:       log,
		countries: countries,
		sprs:      sprs,
		cities:    cities,
	}
}

// LoadCountries reads a countryInfo dump. Comment lines start with "#".
func (l *Loader) LoadCountries(ctx context.Context, path string) (int, error) {
	op := "geonames.Loader.LoadCountries()"
	log := l.log.With(slog.String("op", op), slog.String("file", path))

	loaded := 0
	err := l.eachLine(path, func(line string) {
		fields := strings.Split(line, "\t")
		if len(fields) != countryColumns {
			log.Warn("short line skipped", slog.Int("fields", len(fields)))
			return
		}
		if _, err := l.countries.GetOrCreateCountry(ctx, fields[countryName], fields[countryISO]); err != nil {
			log.Error("failed to load country", slog.String("code", fields[countryISO]), sl.Err(err))
			return
		}
		loaded++
	})
	if err != nil {
		return loaded, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("countries loaded", slog.Int("count", loaded))
	return loaded, nil
}

// LoadSPR reads an admin1 codes dump; the combined code column is
// "<country>.<spr>".
func (l *Loader) LoadSPR(ctx context.Context, path string) (int, error) {
	op := "geonames.Loader.LoadSPR()"
	log := l.log.With(slog.String("op", op), slog.String("file", path))

	countryCache, err := l.countryCache(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	loaded := 0
	err = l.eachLine(path, func(line string) {
		fields := strings.Split(line, "\t")
		if len(fields) != sprColumns {
			log.Warn("short line skipped", slog.Int("fields", len(fields)))
			return
		}
		countryCode, sprCode, ok := strings.Cut(fields[sprCombinedCode], ".")
		if !ok {
			log.Warn("malformed combined code", slog.String("code", fields[sprCombinedCode]))
			return
		}
		country, ok := countryCache[countryCode]
		if !ok {
			return
		}
		if _, err := l.sprs.GetOrCreateSPR(ctx, fields[sprName], sprCode, country.ID); err != nil {
			log.Error("failed to load spr", slog.String("code", sprCode), sl.Err(err))
			return
		}
		loaded++
	})
	if err != nil {
		return loaded, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("sprs loaded", slog.Int("count", loaded))
	return loaded, nil
}

// LoadCities reads a cities dump, keeping only populated places (PPL*
// feature codes) whose country and SPR are already seeded.
func (l *Loader) LoadCities(ctx context.Context, path string) (int, error) {
	op := "geonames.Loader.LoadCities()"
	log := l.log.With(slog.String("op", op), slog.String("file", path))

	countryCache, err := l.countryCache(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	sprCache, err := l.sprCache(ctx, countryCache)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	loaded := 0
	err = l.eachLine(path, func(line string) {
		fields := strings.Split(line, "\t")
		if len(fields) != cityColumns {
			log.Warn("short line skipped", slog.Int("fields", len(fields)))
			return
		}
		if !strings.HasPrefix(fields[cityFeatureCode], "PPL") {
			return
		}
		spr, ok := sprCache[fields[cityCountryCode]+"."+fields[cityAdmin1]]
		if !ok {
			return
		}
		if _, ok := countryCache[fields[cityCountryCode]]; !ok {
			return
		}

		city := domain.City{
			Name:  fields[cityName],
			SPRID: spr.ID,
			TZ:    fields[cityTimezone],
		}
		if lat, err := strconv.ParseFloat(fields[cityLatitude], 64); err == nil {
			city.Latitude = &lat
		}
		if lng, err := strconv.ParseFloat(fields[cityLongitude], 64); err == nil {
			city.Longitude = &lng
		}
		if pop, err := strconv.ParseInt(fields[cityPopulation], 10, 64); err == nil {
			city.Population = pop
		}

		if err := l.cities.UpdateOrCreateCity(ctx, city); err != nil {
			log.Error("failed to load city", slog.String("name", city.Name), sl.Err(err))
			return
		}
		loaded++
	})
	if err != nil {
		return loaded, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("cities loaded", slog.Int("count", loaded))
	return loaded, nil
}

func (l *Loader) countryCache(ctx context.Context) (map[string]domain.Country, error) {
	countries, err := l.countries.ListCountries(ctx)
	if err != nil {
		return nil, err
	}
	cache := make(map[string]domain.Country, len(countries))
	for _, c := range countries {
		cache[c.Code] = c
	}
	return cache, nil
}

func (l *Loader) sprCache(ctx context.Context, countries map[string]domain.Country) (map[string]domain.SPR, error) {
	sprs, err := l.sprs.ListSPRs(ctx)
	if err != nil {
		return nil, err
	}
	codeByID := make(map[int64]string, len(countries))
	for code, c := range countries {
		codeByID[c.ID] = code
	}
	cache := make(map[string]domain.SPR, len(sprs))
	for _, s := range sprs {
		if code, ok := codeByID[s.CountryID]; ok {
			cache[code+"."+s.Code] = s
		}
	}
	return cache, nil
}

func (l *Loader) eachLine(path string, fn func(line string)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fn(line)
	}
	return scanner.Err()
}
