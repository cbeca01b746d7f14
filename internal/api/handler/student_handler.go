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

type StudentHandler struct {
	studentService *service.StudentService
	logger         *slog.Logger
}

func NewStudentHandler(ss *service.StudentService, logger *slog.Logger) *StudentHandler {
	return &StudentHandler{studentService: ss, logger: logger}
}

func (h *StudentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.search)          // GET /api/v1/students?q=
	r.Get("/{studentID}", h.get) // GET /api/v1/students/{id}

	r.With(middleware.RequireRoles(model.RoleAdmin, model.RoleStaff)).Post("/", h.create)
	r.With(middleware.RequireRoles(model.RoleAdmin)).Delete("/{studentID}", h.delete)
}

func (h *StudentHandler) create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req service.CreateStudentRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	student, err := h.studentService.Create(r.Context(), user.ID, req)
	if err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, student)
}

func (h *StudentHandler) search(w http.ResponseWriter, r *http.Request) {
	students, err := h.studentService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"students": students})
}

func (h *StudentHandler) get(w http.ResponseWriter, r *http.Request) {
	student, err := h.studentService.Get(r.Context(), chi.URLParam(r, "studentID"))
	if err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, student)
}

func (h *StudentHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.studentService.Delete(r.Context(), chi.URLParam(r, "studentID")); err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
