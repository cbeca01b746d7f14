package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"

	"baseline_academy/internal/api/handler"
	"baseline_academy/internal/api/middleware"
	"baseline_academy/internal/app/service"
	"baseline_academy/internal/common"
	"baseline_academy/internal/common/security"
	"baseline_academy/internal/domain/model"
	"baseline_academy/internal/platform/metrics"
)

type Services struct {
	Auth      *service.AuthService
	Students  *service.StudentService
	Fees      *service.FeeService
	Homework  *service.HomeworkService
	Dashboard *service.DashboardService
}

type RouterConfig struct {
	Tokens      *security.TokenCodec
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
	CORSOrigins []string
}

func NewRouter(svc Services, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger, cfg.Metrics))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithJSON(w, http.StatusOK, map[string]string{
			"status":  "OK",
			"message": "Server is running",
		})
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	authHandler := handler.NewAuthHandler(svc.Auth, cfg.Logger)
	r.Route("/auth", authHandler.RegisterRoutes)

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(jwtauth.Verifier(cfg.Tokens.JWTAuth()))
		v1.Use(middleware.Authenticator(svc.Auth, cfg.Logger))

		v1.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireRoles(model.RoleAdmin))
			authHandler.RegisterAdminRoutes(admin)
		})

		v1.Route("/dashboard", handler.NewDashboardHandler(svc.Dashboard, cfg.Logger).RegisterRoutes)
		v1.Route("/students", handler.NewStudentHandler(svc.Students, cfg.Logger).RegisterRoutes)
		v1.Route("/fees", handler.NewFeeHandler(svc.Fees, cfg.Logger).RegisterRoutes)
		v1.Route("/homework", handler.NewHomeworkHandler(svc.Homework, cfg.Logger).RegisterRoutes)
	})

	return r
}
