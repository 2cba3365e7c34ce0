package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/smart-inventory/pkg/logger"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation for Inventory Service
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and store connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /health [get]
func (h *InventoryHandler) healthCheck(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			logger.Warn(r.Context()).Err(err).Msg("Health check failed")
			respondStatus(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Inventory service is healthy",
		})
	}
}
