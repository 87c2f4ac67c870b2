package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/jungsi/backend/internal/api/handlers"
	"github.com/wonny/jungsi/backend/internal/realtime"
	"github.com/wonny/jungsi/backend/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(
	jungsiHandler *handlers.JungsiHandler,
	mockAppHandler *handlers.MockAppHandler,
	competitionHandler *handlers.CompetitionHandler,
	adminHandler *handlers.AdminHandler,
	hub *realtime.Hub,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Websocket stream (미들웨어 체인 밖, hijack 때문)
	r.HandleFunc("/ws/competition", hub.ServeWS)

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Score conversion endpoints
	api.HandleFunc("/jungsi/scores/calculate", jungsiHandler.Calculate).Methods("POST")
	api.HandleFunc("/jungsi/scores/{memberId:[0-9]+}", jungsiHandler.GetScores).Methods("GET")
	api.HandleFunc("/jungsi/percentile", jungsiHandler.GetPercentile).Methods("GET")

	// Mock-application endpoints
	api.HandleFunc("/mock-application/analysis", mockAppHandler.Analysis).Methods("POST")
	api.HandleFunc("/mock-application/aggregate", mockAppHandler.Aggregate).Methods("POST")
	api.HandleFunc("/mock-application/admissions", mockAppHandler.ListAdmissions).Methods("GET")

	// Competition rates
	api.HandleFunc("/competition", competitionHandler.GetRates).Methods("GET")

	// Admin
	api.HandleFunc("/admin/refdata/reload", adminHandler.ReloadRefData).Methods("POST")
	api.HandleFunc("/admin/jobs/{name}/run", adminHandler.RunJob).Methods("POST")

	// Apply middleware
	api.Use(loggingMiddleware(log))
	api.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "jungsi-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Call next handler
			next.ServeHTTP(w, r)

			// Log request
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
