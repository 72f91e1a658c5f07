package domain

import "strings"

// Country is a top level entry of the locale hierarchy, keyed by its
// two-letter GeoNames ISO code.
type Country struct {
	ID   int64
	Name string
	Code string
}

// SPR is a State/Province/Region inside a Country.
type SPR struct {
	ID        int64
	Name      string
	Code      string
	CountryID int64
	Country   *Country
}

// City is the canonical source of coordinates and timezone for teams and
// places that do not override them.
type City struct {
	ID         int64
	Name       string
	SPRID      int64
	SPR        *SPR
	Latitude   *float64
	Longitude  *float64
	Population int64
	TZ         string
}

// DisplayName renders "City, SPR, Country" from whatever parts of the
// hierarchy are loaded.
func (c *City) DisplayName() string {
	parts := []string{c.Name}
	if c.SPR != nil {
		parts = append(parts, c.SPR.Name)
		if c.SPR.Country != nil {
			parts = append(parts, c.SPR.Country.Name)
		}
	}
	return strings.Join(parts, ", ")
}
