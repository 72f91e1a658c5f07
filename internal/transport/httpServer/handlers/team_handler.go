package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
	"github.com/GetTogetherComm/GetTogether/internal/transport/httpServer/handlers/dto"
	"github.com/GetTogetherComm/GetTogether/internal/utils"
	"github.com/GetTogetherComm/GetTogether/internal/utils/logger/sl"
)

// TeamHandler covers the team and venue directory.
type TeamHandler struct {
	log    *slog.Logger
	teams  TeamRepository
	places PlaceRepository
}

func NewTeamHandler(log *slog.Logger, teams TeamRepository, places PlaceRepository) *TeamHandler {
	return &TeamHandler{log: log, teams: teams, places: places}
}

// GetTeams handles GET /api/v1/teams.
func (h *TeamHandler) GetTeams(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.TeamHandler.GetTeams()"
	log := h.log.With(slog.String("op", op))

	teams, err := h.teams.ListTeams(r.Context())
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to list teams: %w", err), w, http.StatusInternalServerError)
		return
	}

	response := make([]dto.TeamResponse, len(teams))
	for i, t := range teams {
		response[i] = dto.MapDomainToTeamResponse(t)
	}
	if err := utils.Json(w, http.StatusOK, response); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// CreateTeam handles POST /api/v1/teams.
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.TeamHandler.CreateTeam()"
	log := h.log.With(slog.String("op", op))

	var req dto.CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(log, fmt.Errorf("cannot decode json: %w", err), w, http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		h.respondError(log, fmt.Errorf("name is required"), w, http.StatusBadRequest)
		return
	}
	if req.Access != "" && req.Access != string(domain.TeamPublic) && req.Access != string(domain.TeamPrivate) {
		h.respondError(log, fmt.Errorf("invalid access: %s", req.Access), w, http.StatusBadRequest)
		return
	}

	created, err := h.teams.CreateTeam(r.Context(), dto.MapTeamRequestToDomain(req))
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to create team: %w", err), w, http.StatusInternalServerError)
		return
	}

	log.Info("team created", slog.Int64("teamID", created.ID), slog.String("slug", created.Slug))
	if err := utils.Json(w, http.StatusCreated, dto.MapDomainToTeamResponse(created)); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// CreatePlace handles POST /api/v1/places.
func (h *TeamHandler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.TeamHandler.CreatePlace()"
	log := h.log.With(slog.String("op", op))

	var req dto.CreatePlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(log, fmt.Errorf("cannot decode json: %w", err), w, http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.CityID == 0 {
		h.respondError(log, fmt.Errorf("name and city_id are required"), w, http.StatusBadRequest)
		return
	}

	created, err := h.places.CreatePlace(r.Context(), dto.MapPlaceRequestToDomain(req))
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to create place: %w", err), w, http.StatusInternalServerError)
		return
	}

	// Reload for the hydrated city in the response.
	place, err := h.places.FindPlaceByID(r.Context(), created.ID)
	if err != nil {
		place = created
	}

	log.Info("place created", slog.Int64("placeID", place.ID))
	if err := utils.Json(w, http.StatusCreated, dto.MapDomainToPlaceResponse(place)); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

func (h *TeamHandler) respondError(log *slog.Logger, err error, w http.ResponseWriter, status int) {
	log.Error("handler error", sl.Err(err))
	if httpErr := utils.Err(w, status, err); httpErr != nil {
		log.Error("error sending http response", sl.Err(httpErr))
	}
}
