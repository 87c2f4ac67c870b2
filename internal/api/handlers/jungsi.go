package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/jungsi/backend/internal/contracts"
	"github.com/wonny/jungsi/backend/internal/jungsi"
	"github.com/wonny/jungsi/backend/internal/refdata"
	"github.com/wonny/jungsi/backend/pkg/logger"
)

// JungsiHandler handles score conversion API endpoints
// ⭐ SSOT: 정시 API 핸들러는 이 구조체에서만
type JungsiHandler struct {
	calculator *jungsi.Calculator
	engine     *jungsi.Engine
	repo       *jungsi.Repository
	logger     *logger.Logger
}

// NewJungsiHandler creates a new jungsi handler
func NewJungsiHandler(calc *jungsi.Calculator, engine *jungsi.Engine, repo *jungsi.Repository, log *logger.Logger) *JungsiHandler {
	return &JungsiHandler{
		calculator: calc,
		engine:     engine,
		repo:       repo,
		logger:     log,
	}
}

// CalculateRequest represents a batch score calculation request
type CalculateRequest struct {
	MemberID      int64                    `json:"member_id"`
	Scores        []contracts.SubjectScore `json:"scores"`
	UniversityIDs []int64                  `json:"university_ids"`
}

// Calculate converts a member's scores for every recruitment unit
// POST /api/jungsi/scores/calculate
func (h *JungsiHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.MemberID <= 0 {
		respondError(w, http.StatusBadRequest, "member_id is required")
		return
	}

	resp, err := h.calculator.Calculate(r.Context(), req.MemberID, req.Scores, req.UniversityIDs)
	if err != nil {
		if errors.Is(err, refdata.ErrNotReady) {
			respondError(w, http.StatusServiceUnavailable, "Reference tables not loaded yet")
			return
		}
		h.logger.WithError(err).WithField("member_id", req.MemberID).Error("Calculation failed")
		respondError(w, http.StatusInternalServerError, "Calculation failed")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetScores returns a member's saved per-recruitment scores
// GET /api/jungsi/scores/{memberId}
func (h *JungsiHandler) GetScores(w http.ResponseWriter, r *http.Request) {
	memberID, err := strconv.ParseInt(mux.Vars(r)["memberId"], 10, 64)
	if err != nil || memberID <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid member id")
		return
	}

	scores, err := h.repo.GetRecruitmentScores(r.Context(), memberID)
	if err != nil {
		h.logger.WithError(err).WithField("member_id", memberID).Error("Failed to load scores")
		respondError(w, http.StatusInternalServerError, "Failed to load scores")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"member_id": memberID,
		"count":     len(scores),
		"scores":    scores,
	})
}

// GetPercentile maps a composite score to its population percentile
// GET /api/jungsi/percentile?composite=398.5
func (h *JungsiHandler) GetPercentile(w http.ResponseWriter, r *http.Request) {
	composite, err := strconv.ParseFloat(r.URL.Query().Get("composite"), 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "composite query parameter is required")
		return
	}

	percentile, err := h.engine.LookupPercentile(composite)
	if err != nil {
		if errors.Is(err, refdata.ErrNotReady) {
			respondError(w, http.StatusServiceUnavailable, "Reference tables not loaded yet")
			return
		}
		h.logger.WithError(err).Error("Percentile lookup failed")
		respondError(w, http.StatusInternalServerError, "Percentile lookup failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"composite":  composite,
		"percentile": percentile,
	})
}
