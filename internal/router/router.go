package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-social-auth/internal/config"
	"go-social-auth/internal/handler"
	"go-social-auth/internal/middleware"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Session *handler.SessionHandler
	User    *handler.UserHandler
	Post    *handler.PostHandler
	Audit   *handler.AuditHandler
	Health  *handler.HealthHandler
}

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	emailGate func(http.Handler) http.Handler,
	h Handlers,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.RealIP(cfg.TrustedProxies))
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", h.Health.Check)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.With(emailGate).Post("/register", h.Auth.Register)
			auth.Post("/refresh_token", h.Auth.RefreshToken)
			auth.Get("/forgot_password", h.Auth.ForgotPassword)

			auth.Group(func(private chi.Router) {
				private.Use(authMiddleware.RequireAuth)
				private.Get("/logout", h.Auth.Logout)
				private.Post("/logout", h.Auth.Logout)
				private.Get("/sessions", h.Session.List)
				private.Delete("/sessions/{sessionId}", h.Session.Revoke)
				private.Get("/activity", h.Audit.Activity)
			})
		})

		api.Route("/users", func(users chi.Router) {
			users.Use(authMiddleware.RequireAuth)
			users.Get("/", h.User.Suggestions)
			users.Patch("/", h.User.UpdateTheme)
			users.Get("/me", h.User.Me)
			users.Patch("/profile", h.User.UpdateProfile)
			users.Get("/{userId}", h.User.Get)
		})

		api.Route("/posts", func(posts chi.Router) {
			posts.Use(authMiddleware.RequireAuth)
			posts.Get("/", h.Post.List)
			posts.Post("/", h.Post.Create)
			posts.Get("/user/{userId}", h.Post.ListByUser)
			posts.Get("/{postId}", h.Post.Get)
			posts.Put("/{postId}", h.Post.Update)
			posts.Delete("/{postId}", h.Post.Delete)
		})
	})

	return r
}
