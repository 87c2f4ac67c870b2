package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/jungsi/backend/internal/refdata"
	"github.com/wonny/jungsi/backend/internal/scheduler"
	"github.com/wonny/jungsi/backend/pkg/logger"
)

// AdminHandler handles operational endpoints
// ⭐ SSOT: 운영 API 핸들러는 이 구조체에서만
type AdminHandler struct {
	refStore  *refdata.Store
	scheduler *scheduler.Scheduler
	logger    *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(refStore *refdata.Store, sched *scheduler.Scheduler, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		refStore:  refStore,
		scheduler: sched,
		logger:    log,
	}
}

// ReloadRefData rebuilds the reference tables from disk
// POST /api/admin/refdata/reload
// 교체는 원자적이라 진행 중인 계산은 이전 스냅샷을 계속 쓴다
func (h *AdminHandler) ReloadRefData(w http.ResponseWriter, r *http.Request) {
	if err := h.refStore.Reload(); err != nil {
		h.logger.WithError(err).Error("Reference reload failed")
		respondError(w, http.StatusInternalServerError, "Reference reload failed")
		return
	}

	h.logger.Info("Reference tables reloaded")
	respondJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

// RunJob triggers a scheduled job immediately
// POST /api/admin/jobs/{name}/run
func (h *AdminHandler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := h.scheduler.RunJob(name); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{
		"status": "started",
		"job":    name,
	})
}
