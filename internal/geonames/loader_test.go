package geonames

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memLocaleRepo struct {
	countries map[string]domain.Country
	sprs      map[string]domain.SPR
	cities    map[string]domain.City
	nextID    int64
}

func newMemLocaleRepo() *memLocaleRepo {
	return &memLocaleRepo{
		countries: make(map[string]domain.Country),
		sprs:      make(map[string]domain.SPR),
		cities:    make(map[string]domain.City),
	}
}

func (m *memLocaleRepo) ListCountries(context.Context) ([]domain.Country, error) {
	var out []domain.Country
	for _, c := range m.countries {
		out = append(out, c)
	}
	return out, nil
}

func (m *memLocaleRepo) GetOrCreateCountry(_ context.Context, name, code string) (domain.Country, error) {
	if c, ok := m.countries[code]; ok {
		return c, nil
	}
	m.nextID++
	c := domain.Country{ID: m.nextID, Name: name, Code: code}
	m.countries[code] = c
	return c, nil
}

func (m *memLocaleRepo) ListSPRs(context.Context) ([]domain.SPR, error) {
	var out []domain.SPR
	for _, s := range m.sprs {
		out = append(out, s)
	}
	return out, nil
}

func (m *memLocaleRepo) GetOrCreateSPR(_ context.Context, name, code string, countryID int64) (domain.SPR, error) {
	key := code
	for _, s := range m.sprs {
		if s.Code == code && s.CountryID == countryID {
			return s, nil
		}
	}
	m.nextID++
	s := domain.SPR{ID: m.nextID, Name: name, Code: code, CountryID: countryID}
	m.sprs[key] = s
	return s, nil
}

func (m *memLocaleRepo) UpdateOrCreateCity(_ context.Context, city domain.City) error {
	key := city.Name
	if existing, ok := m.cities[key]; ok {
		city.ID = existing.ID
	} else {
		m.nextID++
		city.ID = m.nextID
	}
	m.cities[key] = city
	return nil
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

// cols pads a row out to 19 tab-separated fields with the given sparse
// values set.
func cols(values map[int]string) string {
	fields := make([]string, 19)
	for i, v := range values {
		fields[i] = v
	}
	return strings.Join(fields, "\t")
}

func TestLoadCountries(t *testing.T) {
	content := strings.Join([]string{
		"# comment line",
		cols(map[int]string{countryISO: "US", countryName: "United States"}),
		cols(map[int]string{countryISO: "DE", countryName: "Germany"}),
		"short\tline",
	}, "\n")
	path := writeTemp(t, "countryInfo.txt", content)

	repo := newMemLocaleRepo()
	loader := NewLoader(discard(), repo, repo, repo)

	n, err := loader.LoadCountries(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 loaded, got %d", n)
	}
	if _, ok := repo.countries["US"]; !ok {
		t.Error("US not loaded")
	}

	t.Run("idempotent", func(t *testing.T) {
		if _, err := loader.LoadCountries(context.Background(), path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.countries) != 2 {
			t.Errorf("expected 2 countries after reload, got %d", len(repo.countries))
		}
	})
}

func TestLoadSPR(t *testing.T) {
	repo := newMemLocaleRepo()
	repo.GetOrCreateCountry(context.Background(), "United States", "US")
	loader := NewLoader(discard(), repo, repo, repo)

	content := strings.Join([]string{
		"US.OR\tOregon\tOregon\t5744337",
		"ZZ.XX\tNowhere\tNowhere\t1", // unknown country, skipped
	}, "\n")
	path := writeTemp(t, "admin1.txt", content)

	n, err := loader.LoadSPR(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 loaded, got %d", n)
	}
	if len(repo.sprs) != 1 {
		t.Errorf("expected 1 spr, got %d", len(repo.sprs))
	}
}

func TestLoadCities(t *testing.T) {
	ctx := context.Background()
	repo := newMemLocaleRepo()
	us, _ := repo.GetOrCreateCountry(ctx, "United States", "US")
	repo.GetOrCreateSPR(ctx, "Oregon", "OR", us.ID)
	loader := NewLoader(discard(), repo, repo, repo)

	content := strings.Join([]string{
		cols(map[int]string{
			cityName: "Portland", cityLatitude: "45.52345", cityLongitude: "-122.67621",
			cityFeatureCode: "PPL", cityCountryCode: "US", cityAdmin1: "OR",
			cityPopulation: "652503", cityTimezone: "America/Los_Angeles",
		}),
		cols(map[int]string{
			cityName: "Mount Hood", cityFeatureCode: "MT", cityCountryCode: "US", cityAdmin1: "OR",
		}),
		cols(map[int]string{
			cityName: "Elsewhere", cityFeatureCode: "PPL", cityCountryCode: "ZZ", cityAdmin1: "QQ",
		}),
	}, "\n")
	path := writeTemp(t, "cities.txt", content)

	n, err := loader.LoadCities(ctx, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 loaded, got %d", n)
	}

	city, ok := repo.cities["Portland"]
	if !ok {
		t.Fatal("Portland not loaded")
	}
	if city.TZ != "America/Los_Angeles" {
		t.Errorf("unexpected tz %q", city.TZ)
	}
	if city.Latitude == nil || *city.Latitude != 45.52345 {
		t.Errorf("unexpected latitude %v", city.Latitude)
	}
	if city.Population != 652503 {
		t.Errorf("unexpected population %d", city.Population)
	}

	t.Run("reload updates in place", func(t *testing.T) {
		if _, err := loader.LoadCities(ctx, path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.cities) != 1 {
			t.Errorf("expected 1 city after reload, got %d", len(repo.cities))
		}
	})
}
