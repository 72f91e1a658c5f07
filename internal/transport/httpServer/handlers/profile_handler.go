package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/GetTogetherComm/GetTogether/internal/eventtime"
	"github.com/GetTogetherComm/GetTogether/internal/transport/httpServer/handlers/dto"
	"github.com/GetTogetherComm/GetTogether/internal/transport/httpServer/middleware"
	"github.com/GetTogetherComm/GetTogether/internal/utils"
	"github.com/GetTogetherComm/GetTogether/internal/utils/logger/sl"
)

type ProfileHandler struct {
	log      *slog.Logger
	profiles ProfileRepository
}

func NewProfileHandler(log *slog.Logger, profiles ProfileRepository) *ProfileHandler {
	return &ProfileHandler{log: log, profiles: profiles}
}

// GetProfile handles GET /api/v1/profile, creating an empty profile on first
// contact.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.ProfileHandler.GetProfile()"
	log := h.log.With(slog.String("op", op))

	profile, err := h.profiles.GetOrCreateProfile(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to load profile: %w", err), w, http.StatusInternalServerError)
		return
	}

	if err := utils.Json(w, http.StatusOK, dto.MapDomainToProfileResponse(profile)); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// UpdateProfile handles PUT /api/v1/profile. Changing the email address
// resets its confirmation.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.ProfileHandler.UpdateProfile()"
	log := h.log.With(slog.String("op", op))

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(log, fmt.Errorf("cannot decode json: %w", err), w, http.StatusBadRequest)
		return
	}
	if req.TZ != "" {
		if _, fallback := eventtime.ResolveZone(req.TZ); fallback == eventtime.FallbackBadZone {
			h.respondError(log, fmt.Errorf("unknown timezone: %s", req.TZ), w, http.StatusBadRequest)
			return
		}
	}

	ctx := r.Context()
	profile, err := h.profiles.GetOrCreateProfile(ctx, middleware.UserID(ctx))
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to load profile: %w", err), w, http.StatusInternalServerError)
		return
	}

	if req.Email != "" && req.Email != profile.Email {
		profile.Email = req.Email
		profile.EmailConfirmed = false
	}
	if req.RealName != "" {
		profile.RealName = req.RealName
	}
	if req.TZ != "" {
		profile.TZ = req.TZ
	}
	if req.CityID != nil {
		profile.CityID = req.CityID
	}
	if req.SendNotifications != nil {
		profile.SendNotifications = *req.SendNotifications
	}

	if err := h.profiles.UpdateProfile(ctx, profile); err != nil {
		h.respondError(log, fmt.Errorf("failed to update profile: %w", err), w, http.StatusInternalServerError)
		return
	}

	if err := utils.Json(w, http.StatusOK, dto.MapDomainToProfileResponse(profile)); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

func (h *ProfileHandler) respondError(log *slog.Logger, err error, w http.ResponseWriter, status int) {
	log.Error("handler error", sl.Err(err))
	if httpErr := utils.Err(w, status, err); httpErr != nil {
		log.Error("error sending http response", sl.Err(httpErr))
	}
}
