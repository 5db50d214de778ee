package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/huyhoangtran00/portfolio/internal/metrics"
	"github.com/huyhoangtran00/portfolio/internal/services"
	"github.com/sirupsen/logrus"
)

type RouterConfig struct {
	Auth     *services.AuthService
	Profiles *services.ProfileService
	Projects *services.ProjectService
	// Metrics enables request instrumentation and GET /metrics when set.
	Metrics *metrics.Metrics
	// StaticDir is served at /static when set (filesystem blob backend).
	StaticDir   string
	CORSOrigins []string
	Logger      logrus.FieldLogger
}

func NewRouter(cfg RouterConfig) http.Handler {
	authHandlers := NewAuthHandlers(cfg.Auth, cfg.Metrics, cfg.Logger)
	userHandlers := NewUserHandlers(cfg.Profiles, cfg.Projects, cfg.Logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(RequestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware)
	}
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           int((12 * time.Hour).Seconds()),
	}))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Welcome to the User Portfolio Management API!"})
	})

	// Health check endpoint
	router.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.Metrics != nil {
		router.Handle("/metrics", cfg.Metrics.Handler())
	}

	if cfg.StaticDir != "" {
		router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	}

	router.Route("/api/user", func(r chi.Router) {
		r.Post("/signup", authHandlers.Signup)
		r.Post("/login", authHandlers.Login)
		r.Post("/refresh-token", authHandlers.Refresh)
		r.Post("/forgot-password", authHandlers.ForgotPassword)
		r.Post("/reset-password", authHandlers.ResetPassword)

		r.Get("/portfolio/{userID}", userHandlers.GetPortfolio)
		r.Post("/contact/{userID}", userHandlers.Contact)

		r.Group(func(r chi.Router) {
			r.Use(RequireAccount(cfg.Auth, cfg.Logger))

			r.Get("/profile", userHandlers.GetProfile)
			r.Put("/profile", userHandlers.UpdateProfile)
			r.Post("/profile/image/upload", userHandlers.UploadProfileImage)
			r.Delete("/profile/image", userHandlers.DeleteProfileImage)

			r.Post("/projects", userHandlers.CreateProject)
			r.Get("/projects/me", userHandlers.ListMyProjects)
			r.Put("/projects/{projectID}", userHandlers.UpdateProject)
			r.Delete("/projects/{projectID}", userHandlers.DeleteProject)
		})
	})

	return router
}
