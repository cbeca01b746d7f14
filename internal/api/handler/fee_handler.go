package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"baseline_academy/internal/api/middleware"
	"baseline_academy/internal/app/service"
	"baseline_academy/internal/common"
	"baseline_academy/internal/domain/model"
)

type FeeHandler struct {
	feeService *service.FeeService
	logger     *slog.Logger
}

func NewFeeHandler(fs *service.FeeService, logger *slog.Logger) *FeeHandler {
	return &FeeHandler{feeService: fs, logger: logger}
}

func (h *FeeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)

	r.Group(func(office chi.Router) {
		office.Use(middleware.RequireRoles(model.RoleAdmin, model.RoleStaff))
		office.Post("/", h.create)
		office.Post("/{feeID}/payments", h.pay)
	})
}

func (h *FeeHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fees, err := h.feeService.List(r.Context(), q.Get("status"), q.Get("class"))
	if err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"fees": fees})
}

func (h *FeeHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateFeeRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	account, err := h.feeService.Create(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, account)
}

func (h *FeeHandler) pay(w http.ResponseWriter, r *http.Request) {
	var req service.PaymentRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	account, err := h.feeService.RecordPayment(r.Context(), chi.URLParam(r, "feeID"), req)
	if err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, account)
}
