package api

import (
	"net/http"

	"github.com/dom/blog-website/internal/api/handlers"
	"github.com/dom/blog-website/internal/api/middleware"
	"github.com/dom/blog-website/internal/config"
	"github.com/dom/blog-website/internal/service"
	"github.com/dom/blog-website/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config, log *logrus.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))
	r.Use(middleware.CORS(cfg.CORSOrigin))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, handlers.CookieConfig{
		Secure:     cfg.IsProduction(),
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}, log)
	postHandler := handlers.NewPostHandler(services.Post, log)
	wsHandler := handlers.NewWebSocketHandler(hub, cfg.CORSOrigin, log)
	requireAuth := middleware.Auth(services.Auth, log)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/verify-email", authHandler.VerifyEmail)
			r.Post("/resend-verification", authHandler.ResendVerification)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh-token", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", authHandler.Me)
				r.Post("/logout-all", authHandler.LogoutAll)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.List)
			r.Get("/search", postHandler.Search)
			r.Get("/user/{userId}", postHandler.ListByUser)

			// Protected post routes
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", postHandler.Create)
				r.Get("/me/my-posts", postHandler.ListMine)
				r.Put("/{id}", postHandler.Update)
				r.Delete("/{id}", postHandler.Delete)
			})

			r.Get("/{id}", postHandler.Get)
		})

		// WebSocket endpoint
		r.Get("/ws/posts", wsHandler.Posts)
	})

	return r
}
