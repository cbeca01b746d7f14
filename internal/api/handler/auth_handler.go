package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"

	"baseline_academy/internal/app/service"
	"baseline_academy/internal/common"
	"baseline_academy/internal/domain/model"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

type authResponse struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    model.PublicUser `json:"user"`
}

type userResponse struct {
	User *model.PublicUser `json:"user"`
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/register", h.register)
	r.Get("/me", h.me)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, authResponse{Message: "Login successful", Token: resp.Token, User: resp.User})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	resp, err := h.authService.Register(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, authResponse{Message: "Registration successful", Token: resp.Token, User: resp.User})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	token := jwtauth.TokenFromHeader(r)
	if token == "" {
		common.RespondWithError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	user, err := h.authService.ValidateSession(r.Context(), token)
	if err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, userResponse{User: user})
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

// changeRole is mounted under the admin-only /api/v1/users group.
func (h *AuthHandler) changeRole(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	var req changeRoleRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	user, err := h.authService.ChangeRole(r.Context(), id, req.Role)
	if err != nil {
		common.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, userResponse{User: user})
}

func (h *AuthHandler) RegisterAdminRoutes(r chi.Router) {
	r.Patch("/users/{userID}/role", h.changeRole)
}
