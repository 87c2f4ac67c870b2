package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/wonny/jungsi/backend/internal/mockapp"
	"github.com/wonny/jungsi/backend/pkg/logger"
)

// MockAppHandler handles mock-application analysis endpoints
type MockAppHandler struct {
	service *mockapp.Service
	logger  *logger.Logger
}

// NewMockAppHandler creates a new mock-application handler
func NewMockAppHandler(service *mockapp.Service, log *logger.Logger) *MockAppHandler {
	return &MockAppHandler{service: service, logger: log}
}

// Analysis runs the full distribution analysis for one recruitment unit
// POST /api/mock-application/analysis
func (h *MockAppHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err, "Analysis failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Aggregate re-bins the pool histogram at a caller-chosen interval
// POST /api/mock-application/aggregate
func (h *MockAppHandler) Aggregate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.Aggregate(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err, "Aggregation failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ListAdmissions returns recruitment units with search and paging
// GET /api/mock-application/admissions?search=&group=&page=&limit=
func (h *MockAppHandler) ListAdmissions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	admissions, total, err := h.service.ListAdmissions(r.Context(), q.Get("search"), q.Get("group"), limit, (page-1)*limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list admissions")
		respondError(w, http.StatusInternalServerError, "Failed to list admissions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":  admissions,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *MockAppHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (mockapp.AnalysisRequest, bool) {
	var req mockapp.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	if req.RowID <= 0 && req.RecruitmentUnit == "" {
		respondError(w, http.StatusBadRequest, "row_id or university/recruitment_unit is required")
		return req, false
	}
	return req, true
}

func (h *MockAppHandler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, mockapp.ErrAdmissionNotFound):
		respondError(w, http.StatusNotFound, "Recruitment unit not found")
	case errors.Is(err, mockapp.ErrEmptyPool):
		respondError(w, http.StatusNotFound, "No applicant data for this recruitment unit")
	default:
		h.logger.WithError(err).Error(fallback)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
