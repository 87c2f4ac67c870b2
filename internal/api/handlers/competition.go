package handlers

import (
	"net/http"

	"github.com/wonny/jungsi/backend/internal/competition"
	"github.com/wonny/jungsi/backend/pkg/logger"
)

// CompetitionHandler serves the latest scraped competition rates
type CompetitionHandler struct {
	service *competition.Service
	logger  *logger.Logger
}

// NewCompetitionHandler creates a new competition handler
func NewCompetitionHandler(service *competition.Service, log *logger.Logger) *CompetitionHandler {
	return &CompetitionHandler{service: service, logger: log}
}

// GetRates returns the latest rates, optionally for one university
// GET /api/competition?university=한빛대학교
func (h *CompetitionHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	university := r.URL.Query().Get("university")

	rates, err := h.service.GetRates(r.Context(), university)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load competition rates")
		respondError(w, http.StatusInternalServerError, "Failed to load competition rates")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rates),
		"rates": rates,
	})
}
