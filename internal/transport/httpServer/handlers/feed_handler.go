package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/GetTogetherComm/GetTogether/internal/feeds"
	"github.com/GetTogetherComm/GetTogether/internal/utils"
	"github.com/GetTogetherComm/GetTogether/internal/utils/logger/sl"
)

// FeedHandler serves the iCalendar subscription feed.
type FeedHandler struct {
	log     *slog.Logger
	events  EventRepository
	nodeURL string
}

func NewFeedHandler(log *slog.Logger, events EventRepository, nodeURL string) *FeedHandler {
	return &FeedHandler{log: log, events: events, nodeURL: nodeURL}
}

// GetICS handles GET /events.ics with one VEVENT per upcoming event.
func (h *FeedHandler) GetICS(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.FeedHandler.GetICS()"
	log := h.log.With(slog.String("op", op))

	events, err := h.events.ListUpcomingEvents(r.Context(), time.Now().UTC())
	if err != nil {
		log.Error("failed to list events", sl.Err(err))
		if httpErr := utils.Err(w, http.StatusInternalServerError, fmt.Errorf("failed to build feed")); httpErr != nil {
			log.Error("error sending http response", sl.Err(httpErr))
		}
		return
	}

	cal := feeds.Calendar(events, h.nodeURL)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := cal.SerializeTo(w); err != nil {
		log.Error("error writing calendar", sl.Err(err))
	}
}
