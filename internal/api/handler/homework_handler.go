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

type HomeworkHandler struct {
	homeworkService *service.HomeworkService
	logger          *slog.Logger
}

func NewHomeworkHandler(hs *service.HomeworkService, logger *slog.Logger) *HomeworkHandler {
	return &HomeworkHandler{homeworkService: hs, logger: logger}
}

func (h *HomeworkHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{homeworkID}", h.get)

	r.Group(func(teachers chi.Router) {
		teachers.Use(middleware.RequireRoles(model.RoleAdmin, model.RoleTeacher))
		teachers.Post("/", h.create)
		teachers.Put("/{homeworkID}", h.update)
		teachers.Delete("/{homeworkID}", h.delete)
	})
}

func (h *HomeworkHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.homeworkService.List(r.Context(), q.Get("class"), q.Get("subject"), q.Get("status"))
	if err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"homework": items})
}

func (h *HomeworkHandler) get(w http.ResponseWriter, r *http.Request) {
	hw, err := h.homeworkService.Get(r.Context(), chi.URLParam(r, "homeworkID"))
	if err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, hw)
}

func (h *HomeworkHandler) create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req service.CreateHomeworkRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	hw, err := h.homeworkService.Create(r.Context(), user.ID, req)
	if err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, hw)
}

func (h *HomeworkHandler) update(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateHomeworkRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	hw, err := h.homeworkService.Update(r.Context(), chi.URLParam(r, "homeworkID"), req)
	if err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, hw)
}

func (h *HomeworkHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.homeworkService.Delete(r.Context(), chi.URLParam(r, "homeworkID")); err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
