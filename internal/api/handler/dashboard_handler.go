package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"baseline_academy/internal/app/service"
	"baseline_academy/internal/common"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *slog.Logger
}

func NewDashboardHandler(ds *service.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: ds, logger: logger}
}

func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.summary)
}

func (h *DashboardHandler) summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.dashboardService.Summary(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sum)
}
