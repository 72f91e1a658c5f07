package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/GetTogetherComm/GetTogether/internal/federation"
	"github.com/GetTogetherComm/GetTogether/internal/utils"
	"github.com/GetTogetherComm/GetTogether/internal/utils/logger/sl"
)

// SearchableHandler serves the federation export that peer nodes pull.
type SearchableHandler struct {
	log        *slog.Logger
	repository SearchableRepository
}

func NewSearchableHandler(log *slog.Logger, repo SearchableRepository) *SearchableHandler {
	return &SearchableHandler{log: log, repository: repo}
}

// GetSearchables handles GET /searchables/: the full projection as a flat
// JSON array, no pagination.
func (h *SearchableHandler) GetSearchables(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.SearchableHandler.GetSearchables()"
	log := h.log.With(slog.String("op", op))

	rows, err := h.repository.ListSearchables(r.Context())
	if err != nil {
		log.Error("failed to list searchables", sl.Err(err))
		if httpErr := utils.Err(w, http.StatusInternalServerError, fmt.Errorf("failed to list searchables")); httpErr != nil {
			log.Error("error sending http response", sl.Err(httpErr))
		}
		return
	}

	records := make([]federation.Record, len(rows))
	for i, row := range rows {
		records[i] = federation.RecordFromDomain(row)
	}

	if err := utils.Json(w, http.StatusOK, records); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}
