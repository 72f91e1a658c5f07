package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/teambition/rrule-go"

	"github.com/GetTogetherComm/GetTogether/internal/eventtime"
	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
	"github.com/GetTogetherComm/GetTogether/internal/transport/httpServer/handlers/dto"
	"github.com/GetTogetherComm/GetTogether/internal/transport/httpServer/middleware"
	"github.com/GetTogetherComm/GetTogether/internal/utils"
	"github.com/GetTogetherComm/GetTogether/internal/utils/logger/sl"
)

type SeriesHandler struct {
	log      *slog.Logger
	series   SeriesRepository
	teams    TeamRepository
	places   PlaceRepository
	profiles ProfileRepository
}

func NewSeriesHandler(log *slog.Logger, series SeriesRepository, teams TeamRepository, places PlaceRepository, profiles ProfileRepository) *SeriesHandler {
	return &SeriesHandler{
		log:      log,
		series:   series,
		teams:    teams,
		places:   places,
		profiles: profiles,
	}
}

// CreateSeries handles POST /api/v1/series. The series starts with LastTime
// at the zero value, so the next sweep generates the first occurrence.
func (h *SeriesHandler) CreateSeries(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.SeriesHandler.CreateSeries()"
	log := h.log.With(slog.String("op", op))

	var req dto.CreateSeriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(log, fmt.Errorf("cannot decode json: %w", err), w, http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.TeamID == 0 {
		h.respondError(log, fmt.Errorf("name and team_id are required"), w, http.StatusBadRequest)
		return
	}
	if _, err := rrule.StrToRRule(req.Recurrence); err != nil {
		h.respondError(log, fmt.Errorf("invalid recurrence %q: %w", req.Recurrence, err), w, http.StatusBadRequest)
		return
	}

	startClock, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		h.respondError(log, fmt.Errorf("invalid start_time: %w", err), w, http.StatusBadRequest)
		return
	}
	endClock, err := time.Parse("15:04", req.EndTime)
	if err != nil {
		h.respondError(log, fmt.Errorf("invalid end_time: %w", err), w, http.StatusBadRequest)
		return
	}
	firstDate, err := time.Parse("2006-01-02", req.FirstDate)
	if err != nil {
		h.respondError(log, fmt.Errorf("invalid first_date: %w", err), w, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	team, err := h.teams.FindTeamByID(ctx, req.TeamID)
	if err != nil {
		h.respondError(log, fmt.Errorf("unknown team: %w", err), w, http.StatusBadRequest)
		return
	}
	var place *domain.Place
	if req.PlaceID != nil {
		found, err := h.places.FindPlaceByID(ctx, *req.PlaceID)
		if err != nil {
			h.respondError(log, fmt.Errorf("unknown place: %w", err), w, http.StatusBadRequest)
			return
		}
		place = &found
	}

	profile, err := h.profiles.GetOrCreateProfile(ctx, middleware.UserID(ctx))
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to load profile: %w", err), w, http.StatusInternalServerError)
		return
	}

	zone := eventtime.EffectiveZoneName(place, &team)
	loc, _ := eventtime.ResolveZone(zone)

	firstStart := time.Date(
		firstDate.Year(), firstDate.Month(), firstDate.Day(),
		startClock.Hour(), startClock.Minute(), 0, 0,
		loc,
	).UTC()

	series := domain.EventSeries{
		Name:        req.Name,
		TeamID:      req.TeamID,
		Team:        &team,
		PlaceID:     req.PlaceID,
		Place:       place,
		Recurrence:  req.Recurrence,
		StartTime:   startClock,
		EndTime:     endClock,
		FirstTime:   firstStart,
		Summary:     req.Summary,
		CreatedByID: profile.UserID,
		Tags:        req.Tags,
	}

	created, err := h.series.CreateEventSeries(ctx, series)
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to create series: %w", err), w, http.StatusInternalServerError)
		return
	}

	log.Info("series created", slog.Int64("seriesID", created.ID), slog.String("tz", zone))
	if err := utils.Json(w, http.StatusCreated, dto.MapDomainToSeriesResponse(created, zone)); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// GetSeries handles GET /api/v1/series/{seriesId}.
func (h *SeriesHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.SeriesHandler.GetSeries()"
	log := h.log.With(slog.String("op", op))

	raw := chi.URLParam(r, "seriesId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.respondError(log, fmt.Errorf("invalid seriesId: %q", raw), w, http.StatusBadRequest)
		return
	}

	series, err := h.series.FindSeriesByID(r.Context(), id)
	if err != nil {
		h.respondError(log, err, w, http.StatusNotFound)
		return
	}

	zone := eventtime.EffectiveZoneName(series.Place, series.Team)
	if err := utils.Json(w, http.StatusOK, dto.MapDomainToSeriesResponse(series, zone)); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

func (h *SeriesHandler) respondError(log *slog.Logger, err error, w http.ResponseWriter, status int) {
	log.Error("handler error", sl.Err(err))
	if httpErr := utils.Err(w, status, err); httpErr != nil {
		log.Error("error sending http response", sl.Err(httpErr))
	}
}
