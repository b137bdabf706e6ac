package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"taskflow-api/internal/config"
	"taskflow-api/internal/handler"
	"taskflow-api/internal/middleware"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Task   *handler.TaskHandler
	Health *handler.HealthHandler
	Docs   *handler.DocsHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, handlers Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/", handlers.Health.Root)
	r.Get("/health", handlers.Health.Health)
	r.Get("/openapi.yaml", handlers.Docs.OpenAPI)
	r.Get("/docs", handlers.Docs.SwaggerUI)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Get("/health", handlers.Health.APIHealth)

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", handlers.Auth.Register)
			auth.Post("/login", handlers.Auth.Login)
			auth.Post("/refresh", handlers.Auth.Refresh)
			auth.With(authMiddleware.RequireAuth).Get("/me", handlers.Auth.Me)
		})

		api.With(authMiddleware.RequireAuth).Put("/users/me", handlers.User.UpdateMe)

		api.Route("/tasks", func(tasks chi.Router) {
			tasks.Use(authMiddleware.RequireAuth)
			tasks.Get("/", handlers.Task.List)
			tasks.Post("/", handlers.Task.Create)
			tasks.Get("/{task_id}", handlers.Task.Get)
			tasks.Put("/{task_id}", handlers.Task.Update)
			tasks.Delete("/{task_id}", handlers.Task.Delete)
		})
	})

	return r
}
