package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/GetTogetherComm/GetTogether/internal/transport/httpServer/handlers/dto"
	"github.com/GetTogetherComm/GetTogether/internal/utils"
	"github.com/GetTogetherComm/GetTogether/internal/utils/logger/sl"
)

// ActivityPubHandler serves the read-only ActivityStreams directory of
// upcoming events and known venues.
type ActivityPubHandler struct {
	log     *slog.Logger
	events  EventRepository
	places  PlaceRepository
	nodeURL string
}

func NewActivityPubHandler(log *slog.Logger, events EventRepository, places PlaceRepository, nodeURL string) *ActivityPubHandler {
	return &ActivityPubHandler{
		log:     log,
		events:  events,
		places:  places,
		nodeURL: nodeURL,
	}
}

// GetEvents handles GET /activity_pub/events.json.
func (h *ActivityPubHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.ActivityPubHandler.GetEvents()"
	log := h.log.With(slog.String("op", op))

	events, err := h.events.ListUpcomingEvents(r.Context(), time.Now().UTC())
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to list events: %w", err), w)
		return
	}

	items := make([]interface{}, len(events))
	for i, e := range events {
		items[i] = dto.MapDomainToAPEvent(e, h.nodeURL)
	}

	collection := dto.NewCollection("Upcoming events", items)
	if err := utils.Json(w, http.StatusOK, collection); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// GetPlaces handles GET /activity_pub/places.json.
func (h *ActivityPubHandler) GetPlaces(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.ActivityPubHandler.GetPlaces()"
	log := h.log.With(slog.String("op", op))

	places, err := h.places.ListPlaces(r.Context())
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to list places: %w", err), w)
		return
	}

	items := make([]interface{}, len(places))
	for i, p := range places {
		items[i] = dto.MapDomainToAPPlace(p)
	}

	collection := dto.NewCollection("Event venues", items)
	if err := utils.Json(w, http.StatusOK, collection); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

func (h *ActivityPubHandler) respondError(log *slog.Logger, err error, w http.ResponseWriter) {
	log.Error("handler error", sl.Err(err))
	if httpErr := utils.Err(w, http.StatusInternalServerError, err); httpErr != nil {
		log.Error("error sending http response", sl.Err(httpErr))
	}
}
