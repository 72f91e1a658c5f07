package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GetTogetherComm/GetTogether/internal/eventtime"
	"github.com/GetTogetherComm/GetTogether/internal/geo"
	"github.com/GetTogetherComm/GetTogether/internal/geoip"
	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
	"github.com/GetTogetherComm/GetTogether/internal/transport/httpServer/handlers/dto"
	"github.com/GetTogetherComm/GetTogether/internal/transport/httpServer/middleware"
	"github.com/GetTogetherComm/GetTogether/internal/utils"
	"github.com/GetTogetherComm/GetTogether/internal/utils/logger/sl"
)

// DefaultNearbyKm bounds a nearby query that does not name a radius.
const DefaultNearbyKm = 25

type EventHandler struct {
	log         *slog.Logger
	repository  EventRepository
	places      PlaceRepository
	searchables SearchableRepository
	attendance  AttendanceRepository
	profiles    ProfileRepository
	indexer     Indexer
	locator     Locator
	debugIP     string
}

func NewEventHandler(
	log *slog.Logger,
	repo EventRepository,
	places PlaceRepository,
	searchables SearchableRepository,
	attendance AttendanceRepository,
	profiles ProfileRepository,
	indexer Indexer,
	locator Locator,
	debugIP string,
) *EventHandler {
	return &EventHandler{
		log:         log,
		repository:  repo,
		places:      places,
		searchables: searchables,
		attendance:  attendance,
		profiles:    profiles,
		indexer:     indexer,
		locator:     locator,
		debugIP:     debugIP,
	}
}

// GetEvents handles GET /api/v1/events and lists upcoming local events.
func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.GetEvents()"
	log := h.log.With(slog.String("op", op))

	events, err := h.repository.ListUpcomingEvents(r.Context(), time.Now().UTC())
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to list events: %w", err), w, http.StatusInternalServerError)
		return
	}

	response := dto.MapDomainToEventResponseList(events)
	if err := utils.Json(w, http.StatusOK, response); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// CreateEvent handles POST /api/v1/events. The authenticated user becomes the
// event's author and its first host attendee, and the Searchable projection
// is written in the same request.
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.CreateEvent()"
	log := h.log.With(slog.String("op", op))

	var req dto.ChangeEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(log, fmt.Errorf("cannot decode json: %w", err), w, http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.TeamID == 0 {
		h.respondError(log, fmt.Errorf("name and team_id are required"), w, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	userID := middleware.UserID(ctx)
	profile, err := h.profiles.GetOrCreateProfile(ctx, userID)
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to load profile: %w", err), w, http.StatusInternalServerError)
		return
	}

	event := dto.MapEventRequestToDomain(req, 0)
	event.CreatedByID = profile.UserID
	event.CreatedTime = time.Now().UTC()

	created, err := h.repository.CreateEvent(ctx, event)
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to create event: %w", err), w, http.StatusInternalServerError)
		return
	}

	// Reload for the hydrated team and place the projection needs.
	created, err = h.repository.FindEventByID(ctx, created.ID)
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to reload event: %w", err), w, http.StatusInternalServerError)
		return
	}

	if _, err := h.attendance.SaveAttendance(ctx, domain.Attendee{
		EventID: created.ID,
		UserID:  profile.UserID,
		Role:    domain.RoleHost,
		Status:  domain.StatusYes,
	}); err != nil {
		log.Error("failed to record host attendance", sl.Err(err))
	}

	if _, err := h.indexer.UpsertEvent(ctx, &created); err != nil {
		log.Error("failed to index event", sl.Err(err))
	}

	log.Info("event created", slog.Int64("eventID", created.ID))
	if err := utils.Json(w, http.StatusCreated, dto.MapDomainToEventResponse(created)); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// ChangeEvent handles PUT /api/v1/events/{eventId}, fully replacing the
// event's fields and rewriting its Searchable row.
func (h *EventHandler) ChangeEvent(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.ChangeEvent()"
	log := h.log.With(slog.String("op", op))

	eventID, err := h.eventID(r)
	if err != nil {
		h.respondError(log, err, w, http.StatusBadRequest)
		return
	}

	var req dto.ChangeEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(log, fmt.Errorf("cannot decode json: %w", err), w, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	existing, err := h.repository.FindEventByID(ctx, eventID)
	if err != nil {
		h.respondNotFoundOr500(log, err, w)
		return
	}

	event := dto.MapEventRequestToDomain(req, eventID)
	event.SeriesID = existing.SeriesID
	event.ParentID = existing.ParentID
	event.CreatedByID = existing.CreatedByID
	event.CreatedTime = existing.CreatedTime

	// A venue swap keeps the wall-clock times the organizer entered: the
	// request's instants are read in the old effective zone and the stored
	// instants re-derived under the new venue's zone.
	if placeChanged(existing.PlaceID, event.PlaceID) {
		var place *domain.Place
		if event.PlaceID != nil {
			found, err := h.places.FindPlaceByID(ctx, *event.PlaceID)
			if err != nil {
				h.respondError(log, fmt.Errorf("unknown place: %w", err), w, http.StatusBadRequest)
				return
			}
			place = &found
		}
		moved := existing
		moved.StartTime = event.StartTime
		moved.EndTime = event.EndTime
		eventtime.MoveToPlace(&moved, place)
		event.StartTime = moved.StartTime
		event.EndTime = moved.EndTime
	}

	if _, err := h.repository.UpdateEvent(ctx, event); err != nil {
		h.respondNotFoundOr500(log, fmt.Errorf("failed to update event: %w", err), w)
		return
	}

	updated, err := h.repository.FindEventByID(ctx, eventID)
	if err != nil {
		h.respondNotFoundOr500(log, err, w)
		return
	}

	if _, err := h.indexer.UpsertEvent(ctx, &updated); err != nil {
		log.Error("failed to reindex event", sl.Err(err))
	}

	if err := utils.Json(w, http.StatusOK, dto.MapDomainToEventResponse(updated)); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// DeleteEvent handles DELETE /api/v1/events/{eventId}. The Searchable row has
// no foreign key to the event, so it is removed first, explicitly.
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.DeleteEvent()"
	log := h.log.With(slog.String("op", op))

	eventID, err := h.eventID(r)
	if err != nil {
		h.respondError(log, err, w, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	event, err := h.repository.FindEventByID(ctx, eventID)
	if err != nil {
		h.respondNotFoundOr500(log, err, w)
		return
	}

	if err := h.indexer.DeleteEvent(ctx, &event); err != nil {
		h.respondError(log, fmt.Errorf("failed to remove searchable: %w", err), w, http.StatusInternalServerError)
		return
	}
	if err := h.repository.DeleteEvent(ctx, eventID); err != nil {
		h.respondNotFoundOr500(log, fmt.Errorf("failed to delete event: %w", err), w)
		return
	}

	log.Info("event deleted", slog.Int64("eventID", eventID))
	if err := utils.Json(w, http.StatusOK, map[string]string{"status": "deleted"}); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// Attend handles PUT /api/v1/events/{eventId}/attend. Repeating the call
// updates the previous answer instead of adding a row.
func (h *EventHandler) Attend(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.Attend()"
	log := h.log.With(slog.String("op", op))

	eventID, err := h.eventID(r)
	if err != nil {
		h.respondError(log, err, w, http.StatusBadRequest)
		return
	}

	var req dto.AttendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(log, fmt.Errorf("cannot decode json: %w", err), w, http.StatusBadRequest)
		return
	}
	status, ok := parseStatus(req.Status)
	if !ok {
		h.respondError(log, fmt.Errorf("invalid status: %s", req.Status), w, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	event, err := h.repository.FindEventByID(ctx, eventID)
	if err != nil {
		h.respondNotFoundOr500(log, err, w)
		return
	}

	profile, err := h.profiles.GetOrCreateProfile(ctx, middleware.UserID(ctx))
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to load profile: %w", err), w, http.StatusInternalServerError)
		return
	}

	role := domain.RoleNormal
	if profile.UserID == event.CreatedByID {
		role = domain.RoleHost
	}

	attendee, err := h.attendance.SaveAttendance(ctx, domain.Attendee{
		EventID: eventID,
		UserID:  profile.UserID,
		Role:    role,
		Status:  status,
	})
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to save attendance: %w", err), w, http.StatusInternalServerError)
		return
	}

	response := dto.AttendResponse{
		EventID: attendee.EventID,
		Role:    attendee.Role.String(),
		Status:  attendee.Status.String(),
	}
	if err := utils.Json(w, http.StatusOK, response); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// GetAttendees handles GET /api/v1/events/{eventId}/attendees.
func (h *EventHandler) GetAttendees(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.GetAttendees()"
	log := h.log.With(slog.String("op", op))

	eventID, err := h.eventID(r)
	if err != nil {
		h.respondError(log, err, w, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if _, err := h.repository.FindEventByID(ctx, eventID); err != nil {
		h.respondNotFoundOr500(log, err, w)
		return
	}

	attendees, err := h.attendance.ListEventAttendees(ctx, eventID)
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to list attendees: %w", err), w, http.StatusInternalServerError)
		return
	}

	if err := utils.Json(w, http.StatusOK, dto.MapDomainToAttendeeResponseList(attendees)); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// Nearby handles GET /api/v1/events/nearby?lat=&lng=&km=. Without explicit
// coordinates the client IP is geolocated; when that fails the response
// degrades to an empty list rather than an error.
func (h *EventHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.Nearby()"
	log := h.log.With(slog.String("op", op))

	km := float64(DefaultNearbyKm)
	if raw := r.URL.Query().Get("km"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			h.respondError(log, fmt.Errorf("invalid km: %s", raw), w, http.StatusBadRequest)
			return
		}
		km = parsed
	}

	origin, err := h.origin(r)
	if err != nil {
		h.respondError(log, err, w, http.StatusBadRequest)
		return
	}
	if origin == nil {
		// Geolocation failed; an empty result beats a 500 here.
		log.Warn("no origin for nearby query, returning empty result")
		if err := utils.Json(w, http.StatusOK, []dto.NearbyResponse{}); err != nil {
			log.Error("error encoding response", sl.Err(err))
		}
		return
	}

	rows, err := h.searchables.FindSearchablesWithin(r.Context(), geo.Bounds(*origin, km))
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to query searchables: %w", err), w, http.StatusInternalServerError)
		return
	}

	// The box is a superset of the circle; rank and cut by exact distance.
	response := make([]dto.NearbyResponse, 0, len(rows))
	for i := range rows {
		distance := geo.SearchableDistanceFrom(origin, &rows[i])
		if distance > km {
			continue
		}
		response = append(response, dto.NearbyResponse{
			EventURI:     rows[i].EventURI,
			EventURL:     rows[i].EventURL,
			EventTitle:   rows[i].EventTitle,
			LocationName: rows[i].LocationName,
			GroupName:    rows[i].GroupName,
			VenueName:    rows[i].VenueName,
			StartTime:    rows[i].StartTime,
			EndTime:      rows[i].EndTime,
			TZ:           rows[i].TZ,
			DistanceKm:   distance,
		})
	}
	sort.Slice(response, func(i, j int) bool {
		return response[i].DistanceKm < response[j].DistanceKm
	})

	if err := utils.Json(w, http.StatusOK, response); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// origin resolves the query's reference point. Explicit coordinates win;
// otherwise the client IP is geolocated, with the configured debug IP
// standing in for localhost. A nil origin with nil error means "unknown".
func (h *EventHandler) origin(r *http.Request) (*geo.LatLng, error) {
	latRaw := r.URL.Query().Get("lat")
	lngRaw := r.URL.Query().Get("lng")
	if latRaw != "" || lngRaw != "" {
		lat, latErr := strconv.ParseFloat(latRaw, 64)
		lng, lngErr := strconv.ParseFloat(lngRaw, 64)
		if latErr != nil || lngErr != nil {
			return nil, fmt.Errorf("invalid coordinates: lat=%q lng=%q", latRaw, lngRaw)
		}
		return &geo.LatLng{Lat: lat, Lng: lng}, nil
	}

	ip := geoip.ClientIP(r)
	if geoip.IsLocalhost(ip) {
		ip = h.debugIP
	}
	result, err := h.locator.Locate(r.Context(), ip)
	if err != nil {
		h.log.Warn("geolocation failed", slog.String("ip", ip), sl.Err(err))
		return nil, nil
	}
	return result.LatLng(), nil
}

func (h *EventHandler) eventID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "eventId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid eventId: %q", raw)
	}
	return id, nil
}

func (h *EventHandler) respondNotFoundOr500(log *slog.Logger, err error, w http.ResponseWriter) {
	if errors.Is(err, domain.ErrNotFound) {
		h.respondError(log, err, w, http.StatusNotFound)
		return
	}
	h.respondError(log, err, w, http.StatusInternalServerError)
}

func (h *EventHandler) respondError(log *slog.Logger, err error, w http.ResponseWriter, status int) {
	log.Error("handler error", sl.Err(err))
	if httpErr := utils.Err(w, status, err); httpErr != nil {
		log.Error("error sending http response", sl.Err(httpErr))
	}
}

func placeChanged(a, b *int64) bool {
	if a == nil || b == nil {
		return a != b
	}
	return *a != *b
}

func parseStatus(s string) (domain.AttendeeStatus, bool) {
	switch s {
	case "no":
		return domain.StatusNo, true
	case "maybe":
		return domain.StatusMaybe, true
	case "yes":
		return domain.StatusYes, true
	default:
		return 0, false
	}
}
