package controllers

import (
	"net/http"

	"github.com/kavindu-dev/furnicraft-backend/api/responses"
	"github.com/kavindu-dev/furnicraft-backend/internal/dashboard"
	"github.com/kavindu-dev/furnicraft-backend/pkg/logger"
)

// DashboardStats serves the admin console landing page aggregates.
func DashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
