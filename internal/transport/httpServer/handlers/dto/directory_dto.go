package dto

import (
	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
)

type TeamResponse struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Slug       string   `json:"slug"`
	CityID     *int64   `json:"city_id,omitempty"`
	CityName   string   `json:"city_name,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	TZ         string   `json:"tz,omitempty"`
	WebURL     string   `json:"web_url,omitempty"`
	CardImgURL string   `json:"card_img_url,omitempty"`
	Access     string   `json:"access"`
}

type CreateTeamRequest struct {
	Name       string   `json:"name"`
	CityID     *int64   `json:"city_id"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	TZ         string   `json:"tz"`
	WebURL     string   `json:"web_url"`
	CardImgURL string   `json:"card_img_url"`
	Access     string   `json:"access"`
}

type PlaceResponse struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	CityID    int64    `json:"city_id"`
	CityName  string   `json:"city_name,omitempty"`
	Address   string   `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	TZ        string   `json:"tz,omitempty"`
	PlaceURL  string   `json:"place_url,omitempty"`
}

type CreatePlaceRequest struct {
	Name      string   `json:"name"`
	CityID    int64    `json:"city_id"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	TZ        string   `json:"tz"`
	PlaceURL  string   `json:"place_url"`
}

func MapDomainToTeamResponse(t domain.Team) TeamResponse {
	resp := TeamResponse{
		ID:         t.ID,
		Name:       t.Name,
		Slug:       t.Slug,
		CityID:     t.CityID,
		Latitude:   t.Latitude,
		Longitude:  t.Longitude,
		TZ:         t.TZ,
		WebURL:     t.WebURL,
		CardImgURL: t.CardImgURL,
		Access:     string(t.Access),
	}
	if t.City != nil {
		resp.CityName = t.City.DisplayName()
	}
	return resp
}

func MapDomainToPlaceResponse(p domain.Place) PlaceResponse {
	resp := PlaceResponse{
		ID:        p.ID,
		Name:      p.Name,
		CityID:    p.CityID,
		Address:   p.Address,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		TZ:        p.TZ,
		PlaceURL:  p.PlaceURL,
	}
	if p.City != nil {
		resp.CityName = p.City.DisplayName()
	}
	return resp
}

func MapTeamRequestToDomain(req CreateTeamRequest) domain.Team {
	return domain.Team{
		Name:       req.Name,
		Slug:       domain.Slugify(req.Name),
		CityID:     req.CityID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		TZ:         req.TZ,
		WebURL:     req.WebURL,
		CardImgURL: req.CardImgURL,
		Access:     domain.TeamAccess(req.Access),
	}
}

func MapPlaceRequestToDomain(req CreatePlaceRequest) domain.Place {
	return domain.Place{
		Name:      req.Name,
		CityID:    req.CityID,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		TZ:        req.TZ,
		PlaceURL:  req.PlaceURL,
	}
}
